package xtctool

import (
	"context"
	"fmt"
	"time"
)

// defaultTimeout bounds a single browser rendering operation.
const defaultTimeout = 2 * time.Minute

// Pipeline drives assets through the conversion graph until every source
// has been reduced to encoded frames.
type Pipeline struct {
	cfg   Config
	pdf   pdfRenderer
	typst typstCompiler
	html  htmlRenderer

	timeout time.Duration
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithPDFRenderer replaces the mutool-backed PDF renderer.
func WithPDFRenderer(r pdfRenderer) Option {
	return func(p *Pipeline) { p.pdf = r }
}

// WithTypstCompiler replaces the typst CLI compiler.
func WithTypstCompiler(c typstCompiler) Option {
	return func(p *Pipeline) { p.typst = c }
}

// WithHTMLRenderer replaces the headless-Chrome HTML renderer.
func WithHTMLRenderer(r htmlRenderer) Option {
	return func(p *Pipeline) { p.html = r }
}

// WithTimeout sets the per-operation timeout for browser rendering.
func WithTimeout(d time.Duration) Option {
	return func(p *Pipeline) { p.timeout = d }
}

// NewPipeline validates cfg and builds a Pipeline with production
// collaborators. External tools are probed lazily, on first use.
func NewPipeline(cfg Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Pipeline{cfg: cfg, timeout: defaultTimeout}
	for _, opt := range opts {
		opt(p)
	}

	if p.pdf == nil {
		p.pdf = newMutoolRenderer()
	}
	if p.typst == nil {
		p.typst = newTypstCLI(cfg.Typst)
	}
	if p.html == nil {
		p.html = newRodRenderer(p.timeout)
	}
	return p, nil
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Run reduces the given assets to frames. Assets convert depth first, so
// everything a source produces finishes before the next source starts, and
// the returned frames keep source order. Every asset is closed exactly once,
// on all paths.
func (p *Pipeline) Run(ctx context.Context, assets []Asset) ([]*FrameAsset, error) {
	if len(assets) == 0 {
		return nil, ErrNoSources
	}

	// LIFO worklist; push in reverse so the first source converts first.
	stack := make([]Asset, 0, len(assets))
	for i := len(assets) - 1; i >= 0; i-- {
		stack = append(stack, assets[i])
	}

	closeAll := func() {
		for _, a := range stack {
			_ = a.Close()
		}
	}

	var frames []*FrameAsset
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			closeAll()
			return nil, err
		}

		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		res, err := cur.Convert(ctx, p)
		cerr := cur.Close()
		if err != nil {
			closeAll()
			return nil, err
		}
		if cerr != nil {
			closeAll()
			return nil, fmt.Errorf("closing asset: %w", cerr)
		}

		switch res.kind {
		case resultFinal:
			res.frame.Meta().mergeFrom(cur.Meta())
			frames = append(frames, res.frame)
		case resultExpanded, resultContinue:
			for i := len(res.assets) - 1; i >= 0; i-- {
				next := res.assets[i]
				next.Meta().mergeFrom(cur.Meta())
				stack = append(stack, next)
			}
		}
	}

	if len(frames) == 0 {
		return nil, ErrNoPages
	}
	return frames, nil
}

// ConvertFiles resolves each argument into an asset and runs the graph.
// Arguments may carry page specs, for example "book.pdf:1-4,9".
func (p *Pipeline) ConvertFiles(ctx context.Context, args []string) ([]*FrameAsset, error) {
	if len(args) == 0 {
		return nil, ErrNoSources
	}

	assets := make([]Asset, 0, len(args))
	for _, arg := range args {
		a, err := NewAsset(arg)
		if err != nil {
			for _, prev := range assets {
				_ = prev.Close()
			}
			return nil, fmt.Errorf("%s: %w", arg, err)
		}
		assets = append(assets, a)
	}
	return p.Run(ctx, assets)
}

// Close releases resources held by collaborators, notably the headless
// browser.
func (p *Pipeline) Close() error {
	if p.html != nil {
		return p.html.Close()
	}
	return nil
}
