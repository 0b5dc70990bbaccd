package xtctool

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"text/template"
)

// typstCompiler abstracts typst compilation to enable testing without the
// typst binary.
type typstCompiler interface {
	// CompileFile compiles a .typ source and returns the path of a
	// temporary PDF the caller owns.
	CompileFile(ctx context.Context, path string) (string, error)
	// CompileMarkdown wraps a markdown file in a typst shim and compiles
	// it, returning the path of a temporary PDF the caller owns.
	CompileMarkdown(ctx context.Context, path string) (string, error)
}

// Compile-time interface check.
var _ typstCompiler = (*typstCLI)(nil)

// markdownShim renders a markdown file through the cmarker package. The
// filesystem root is / so read() can reach the absolute source path.
const markdownShim = `#import "@preview/cmarker:0.1.6": render as md
#set page(paper: "{{.Paper}}", margin: {{.Margin}})
#set text(size: {{.FontSize}}pt)
#md(read("{{.Path}}"))
`

var shimTemplate = template.Must(template.New("shim").Parse(markdownShim))

// typstCLI compiles typst documents by invoking the typst binary.
type typstCLI struct {
	runner commandRunner
	bin    string
	cfg    TypstConfig
}

// newTypstCLI creates a typstCLI with a real command runner.
func newTypstCLI(cfg TypstConfig) *typstCLI {
	return &typstCLI{runner: &execRunner{}, bin: "typst", cfg: cfg}
}

func (t *typstCLI) CompileFile(ctx context.Context, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}
	return t.compile(ctx, abs, filepath.Dir(abs))
}

func (t *typstCLI) CompileMarkdown(ctx context.Context, path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", path, err)
	}

	var shim strings.Builder
	err = shimTemplate.Execute(&shim, struct {
		Paper    string
		Margin   string
		FontSize float64
		Path     string
	}{
		Paper:    t.cfg.Paper,
		Margin:   t.cfg.Margin,
		FontSize: t.cfg.FontSize,
		Path:     abs,
	})
	if err != nil {
		return "", fmt.Errorf("building typst shim: %w", err)
	}

	shimFile, err := os.CreateTemp("", "xtctool-*.typ")
	if err != nil {
		return "", fmt.Errorf("creating typst shim: %w", err)
	}
	shimPath := shimFile.Name()
	defer func() { _ = os.Remove(shimPath) }()

	if _, err := shimFile.WriteString(shim.String()); err != nil {
		_ = shimFile.Close()
		return "", fmt.Errorf("writing typst shim: %w", err)
	}
	if err := shimFile.Close(); err != nil {
		return "", fmt.Errorf("closing typst shim: %w", err)
	}

	// The shim reads the markdown by absolute path, so the project root
	// must span the filesystem.
	return t.compile(ctx, shimPath, "/")
}

// compile runs typst and returns the output PDF path. The caller owns the
// file; on compile failure it never exists.
func (t *typstCLI) compile(ctx context.Context, srcPath, root string) (string, error) {
	out, err := os.CreateTemp("", "xtctool-*.pdf")
	if err != nil {
		return "", fmt.Errorf("creating output pdf: %w", err)
	}
	outPath := out.Name()
	_ = out.Close()

	_, stderr, err := t.runner.Run(ctx, t.bin, "compile", "--root", root, srcPath, outPath)
	if err != nil {
		_ = os.Remove(outPath)
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrCompilerNotFound, t.bin)
		}
		stderr = strings.TrimSpace(stderr)
		if stderr != "" {
			return "", fmt.Errorf("%w: %s: %v", ErrCompileFailed, stderr, err)
		}
		return "", fmt.Errorf("%w: %v", ErrCompileFailed, err)
	}
	return outPath, nil
}
