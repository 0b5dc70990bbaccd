package xtctool

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	// Register decoders for raster inputs.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/epdkit/go-xtctool/container"
	"github.com/epdkit/go-xtctool/frame"
	"github.com/epdkit/go-xtctool/pages"
)

// Compile-time interface implementation checks.
var (
	_ Asset = (*FrameAsset)(nil)
	_ Asset = (*FrameFileAsset)(nil)
	_ Asset = (*ImageAsset)(nil)
	_ Asset = (*PDFAsset)(nil)
	_ Asset = (*TypstAsset)(nil)
	_ Asset = (*MarkdownAsset)(nil)
	_ Asset = (*ContainerAsset)(nil)
)

// NewAsset resolves a command-line argument into an asset. A trailing page
// spec ("book.pdf:1-4,9") is split off and stored in the asset's Meta for
// whichever stage of the chain can resolve it.
func NewAsset(arg string) (Asset, error) {
	path, spec := pages.ParseSpec(arg)
	meta := Meta{PageSpec: spec}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return &PDFAsset{path: path, meta: meta}, nil
	case ".typ":
		return &TypstAsset{path: path, meta: meta}, nil
	case ".md", ".markdown":
		return &MarkdownAsset{path: path, meta: meta}, nil
	case ".png", ".jpg", ".jpeg", ".gif":
		return &ImageAsset{path: path, meta: meta}, nil
	case ".xth", ".xtg":
		return &FrameFileAsset{path: path, meta: meta}, nil
	case ".xtc":
		return &ContainerAsset{path: path, meta: meta}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownInput, path)
	}
}

// FrameAsset is a finished, encoded frame. It is the terminal node of every
// conversion chain.
type FrameAsset struct {
	data []byte
	meta Meta
}

// NewFrameAsset wraps already-encoded frame bytes.
func NewFrameAsset(data []byte, meta Meta) *FrameAsset {
	return &FrameAsset{data: data, meta: meta}
}

// Data returns the encoded frame bytes.
func (a *FrameAsset) Data() []byte { return a.data }

func (a *FrameAsset) Convert(ctx context.Context, p *Pipeline) (Result, error) {
	return Final(a), nil
}

func (a *FrameAsset) Meta() *Meta { return &a.meta }

func (a *FrameAsset) Close() error { return nil }

// FrameFileAsset is an .xth or .xtg file on disk.
type FrameFileAsset struct {
	path string
	meta Meta
}

func (a *FrameFileAsset) Convert(ctx context.Context, p *Pipeline) (Result, error) {
	data, err := os.ReadFile(a.path)
	if err != nil {
		return Result{}, fmt.Errorf("reading frame file: %w", err)
	}
	if _, err := frame.ParseHeader(data); err != nil {
		return Result{}, fmt.Errorf("%s: %w", a.path, err)
	}
	return Final(NewFrameAsset(data, Meta{})), nil
}

func (a *FrameFileAsset) Meta() *Meta { return &a.meta }

func (a *FrameFileAsset) Close() error { return nil }

// ImageAsset is a raster image to quantize into a single frame.
type ImageAsset struct {
	path string
	meta Meta
}

func (a *ImageAsset) Convert(ctx context.Context, p *Pipeline) (Result, error) {
	f, err := os.Open(a.path)
	if err != nil {
		return Result{}, fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: %v", ErrImageDecode, a.path, err)
	}

	fr, err := p.encodeFrame(img, Meta{})
	if err != nil {
		return Result{}, err
	}
	return Final(fr), nil
}

func (a *ImageAsset) Meta() *Meta { return &a.meta }

func (a *ImageAsset) Close() error { return nil }

// PDFAsset rasterizes selected pages of a PDF into frames. When temp is set
// the file was produced by an upstream compile step and is removed on Close.
type PDFAsset struct {
	path string
	temp bool
	meta Meta
}

func (a *PDFAsset) Convert(ctx context.Context, p *Pipeline) (Result, error) {
	total, err := p.pdf.PageCount(ctx, a.path)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", a.path, err)
	}

	selected, err := pages.Expand(a.meta.PageSpec, total)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", a.path, err)
	}

	// Chapter markers come from the document outline when available, with
	// inherited TOC entries as a fallback. Either way the full list is
	// consumed here, split into per-frame markers; frames must not inherit
	// it wholesale.
	toc := a.meta.TOC
	if p.cfg.ExtractTOC {
		if outline, err := p.pdf.Outline(ctx, a.path); err == nil && len(outline) > 0 {
			toc = outline
		}
	}
	a.meta.TOC = nil

	results := make([]Asset, 0, len(selected))
	for _, pageNum := range selected {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		img, err := p.pdf.RenderPage(ctx, a.path, pageNum, p.cfg.PDF.Resolution)
		if err != nil {
			return Result{}, fmt.Errorf("page %d of %s: %w", pageNum, a.path, err)
		}
		fr, err := p.encodeFrame(img, Meta{TOC: entriesForPage(toc, pageNum)})
		if err != nil {
			return Result{}, err
		}
		results = append(results, fr)
	}
	return Expanded(results...), nil
}

func (a *PDFAsset) Meta() *Meta { return &a.meta }

// Close removes the backing file when it was a compile intermediate.
func (a *PDFAsset) Close() error {
	if a.temp {
		return os.Remove(a.path)
	}
	return nil
}

// entriesForPage filters outline entries down to those opening on page.
func entriesForPage(toc []TocEntry, page int) []TocEntry {
	var out []TocEntry
	for _, e := range toc {
		if e.Page == page {
			out = append(out, e)
		}
	}
	return out
}

// TypstAsset compiles a typst source into a temporary PDF and hands the
// chain over to a PDFAsset.
type TypstAsset struct {
	path string
	meta Meta
}

func (a *TypstAsset) Convert(ctx context.Context, p *Pipeline) (Result, error) {
	pdfPath, err := p.typst.CompileFile(ctx, a.path)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", a.path, err)
	}
	return Continue(&PDFAsset{path: pdfPath, temp: true}), nil
}

func (a *TypstAsset) Meta() *Meta { return &a.meta }

func (a *TypstAsset) Close() error { return nil }

// MarkdownAsset renders markdown to a temporary PDF using the configured
// engine and continues as a PDFAsset.
type MarkdownAsset struct {
	path string
	meta Meta
}

func (a *MarkdownAsset) Convert(ctx context.Context, p *Pipeline) (Result, error) {
	var pdfPath string
	var err error
	switch p.cfg.Markdown.Engine {
	case EngineTypst:
		pdfPath, err = p.typst.CompileMarkdown(ctx, a.path)
	case EngineChromium:
		pdfPath, err = a.renderChromium(ctx, p)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownEngine, p.cfg.Markdown.Engine)
	}
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", a.path, err)
	}
	return Continue(&PDFAsset{path: pdfPath, temp: true}), nil
}

// renderChromium converts the markdown to HTML and prints it to PDF in a
// headless browser, page-sized to the target panel.
func (a *MarkdownAsset) renderChromium(ctx context.Context, p *Pipeline) (string, error) {
	md, err := os.ReadFile(a.path)
	if err != nil {
		return "", fmt.Errorf("reading markdown: %w", err)
	}

	htmlContent, err := markdownToHTML(ctx, string(md))
	if err != nil {
		return "", err
	}

	pdfBytes, err := p.html.RenderPDF(ctx, htmlContent, p.cfg.Output.Width, p.cfg.Output.Height)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp("", "xtctool-*.pdf")
	if err != nil {
		return "", fmt.Errorf("creating temp pdf: %w", err)
	}
	if _, err := tmp.Write(pdfBytes); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("writing temp pdf: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("closing temp pdf: %w", err)
	}
	return tmp.Name(), nil
}

func (a *MarkdownAsset) Meta() *Meta { return &a.meta }

func (a *MarkdownAsset) Close() error { return nil }

// ContainerAsset extracts frames from an existing .xtc file. Chapter starts
// are re-attached as TOC markers so that chapter structure survives
// re-packing, with page numbers re-derived from the final frame order.
type ContainerAsset struct {
	path string
	meta Meta
}

func (a *ContainerAsset) Convert(ctx context.Context, p *Pipeline) (Result, error) {
	data, err := os.ReadFile(a.path)
	if err != nil {
		return Result{}, fmt.Errorf("reading container: %w", err)
	}
	doc, err := container.Decode(data)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", a.path, err)
	}

	selected, err := pages.Expand(a.meta.PageSpec, doc.PageCount)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", a.path, err)
	}

	starts := make(map[int]string, len(doc.Chapters))
	for _, ch := range doc.Chapters {
		starts[int(ch.StartPage)] = ch.Name
	}

	results := make([]Asset, 0, len(selected))
	for _, pageNum := range selected {
		src := pageNum - 1
		var toc []TocEntry
		if name, ok := starts[src]; ok {
			toc = []TocEntry{{Title: name, Page: pageNum, Level: 1}}
		}
		results = append(results, NewFrameAsset(doc.Frames[src], Meta{TOC: toc}))
	}
	a.meta.TOC = nil
	return Expanded(results...), nil
}

func (a *ContainerAsset) Meta() *Meta { return &a.meta }

func (a *ContainerAsset) Close() error { return nil }
