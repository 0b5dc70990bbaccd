package xtctool

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/epdkit/go-xtctool/container"
	"github.com/epdkit/go-xtctool/frame"
)

// WriteOutput writes frames to outPath in the format its extension selects:
// .xtc packs a container, .xth/.xtg write raw frames (numbered when more
// than one), .png and .pdf write decoded previews for desktop inspection.
func (p *Pipeline) WriteOutput(ctx context.Context, frames []*FrameAsset, outPath string) error {
	if len(frames) == 0 {
		return ErrNoPages
	}

	switch strings.ToLower(filepath.Ext(outPath)) {
	case ".xtc":
		return p.writeContainer(frames, outPath)
	case ".xth":
		return writeRawFrames(frames, outPath, frame.FormatXTH)
	case ".xtg":
		return writeRawFrames(frames, outPath, frame.FormatXTG)
	case ".png":
		return writePreviewPNG(frames, outPath)
	case ".pdf":
		return p.writePreviewPDF(ctx, frames, outPath)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOutput, outPath)
	}
}

// writeContainer packs frames into an .xtc with metadata and chapters from
// the configuration and the frames' chapter markers.
func (p *Pipeline) writeContainer(frames []*FrameAsset, outPath string) error {
	direction, err := ParseDirection(p.cfg.Output.Direction)
	if err != nil {
		return err
	}

	blobs := make([][]byte, len(frames))
	for i, f := range frames {
		blobs[i] = f.Data()
	}

	data, err := container.Encode(blobs, container.WriteOptions{
		Width:     uint16(p.cfg.Output.Width),
		Height:    uint16(p.cfg.Output.Height),
		Direction: direction,
		Metadata: &container.Metadata{
			Title:      p.cfg.Output.Title,
			Author:     p.cfg.Output.Author,
			Publisher:  p.cfg.Output.Publisher,
			Language:   p.cfg.Output.Language,
			CreateTime: uint32(time.Now().Unix()),
			CoverPage:  container.NoCoverPage,
		},
		Chapters: BuildChapters(frames),
	})
	if err != nil {
		return err
	}
	return os.WriteFile(outPath, data, 0o644)
}

// writeRawFrames writes one file per frame. A single frame takes outPath
// as-is; multiple frames are numbered stem_001.ext onward.
func writeRawFrames(frames []*FrameAsset, outPath string, want frame.Format) error {
	for i, f := range frames {
		format, err := frame.Sniff(f.Data())
		if err != nil {
			return err
		}
		if format != want {
			return fmt.Errorf("%w: frame %d is %s", ErrFormatClash, i, format)
		}
	}
	for i, f := range frames {
		if err := os.WriteFile(numberedPath(outPath, i, len(frames)), f.Data(), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// writePreviewPNG decodes each frame back to grayscale and writes PNGs.
func writePreviewPNG(frames []*FrameAsset, outPath string) error {
	for i, f := range frames {
		img, err := frame.Decode(f.Data())
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return fmt.Errorf("encoding preview: %w", err)
		}
		if err := os.WriteFile(numberedPath(outPath, i, len(frames)), buf.Bytes(), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// previewDocTemplate is a zero-margin shell for frame previews.
const previewDocTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Preview</title>
<style>body { margin: 0; padding: 0; }</style>
</head>
<body>
%s
</body>
</html>`

// previewPageTemplate places one decoded frame per PDF page at exact panel
// geometry.
const previewPageTemplate = `<div style="page-break-after: always; width: %dpx; height: %dpx;"><img src="data:image/png;base64,%s" width="%d" height="%d"/></div>`

// writePreviewPDF decodes all frames and prints them to a paginated PDF via
// the headless browser, one panel-sized page per frame.
func (p *Pipeline) writePreviewPDF(ctx context.Context, frames []*FrameAsset, outPath string) error {
	w, h := p.cfg.Output.Width, p.cfg.Output.Height

	var body strings.Builder
	for _, f := range frames {
		img, err := frame.Decode(f.Data())
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return fmt.Errorf("encoding preview: %w", err)
		}
		encoded := base64.StdEncoding.EncodeToString(buf.Bytes())
		fmt.Fprintf(&body, previewPageTemplate, w, h, encoded, w, h)
		body.WriteString("\n")
	}

	htmlContent := fmt.Sprintf(previewDocTemplate, body.String())
	pdfBytes, err := p.html.RenderPDF(ctx, htmlContent, w, h)
	if err != nil {
		return err
	}
	return os.WriteFile(outPath, pdfBytes, 0o644)
}

// numberedPath derives per-frame output paths: the given path for a single
// frame, stem_001.ext onward for several.
func numberedPath(outPath string, index, total int) string {
	if total == 1 {
		return outPath
	}
	ext := filepath.Ext(outPath)
	stem := strings.TrimSuffix(outPath, ext)
	return fmt.Sprintf("%s_%03d%s", stem, index+1, ext)
}
