package xtctool

import (
	"bytes"
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// htmlTemplate wraps goldmark's fragment output in a complete HTML5
// document. Zero body margin: page geometry is set at print time and the
// panel has no bezel to waste.
const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Document</title>
<style>
body { margin: 0; padding: 4px; font-family: serif; }
pre { white-space: pre-wrap; }
</style>
</head>
<body>
%s
</body>
</html>`

// md is the shared goldmark instance; goldmark.Markdown is safe for
// concurrent use.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,      // Tables, strikethrough, autolinks, task lists
		extension.Footnote, // [^1] footnotes
		highlighting.NewHighlighting(
			// Monochrome style; colored tokens quantize into mud on
			// grayscale panels.
			highlighting.WithStyle("bw"),
		),
	),
	goldmark.WithRendererOptions(
		html.WithXHTML(),
	),
)

// markdownToHTML converts markdown content to a standalone HTML5 document.
// Supports context cancellation via goroutine + select since goldmark does
// not take a context.
func markdownToHTML(ctx context.Context, content string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("converting markdown: %w", err)}
			return
		}
		done <- result{html: fmt.Sprintf(htmlTemplate, buf.String())}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}
