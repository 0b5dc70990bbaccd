package xtctool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/epdkit/go-xtctool/container"
	"github.com/epdkit/go-xtctool/frame"
)

func TestWriteContainer(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Output.Title = "Trip Log"
	cfg.Output.Author = "F. Nansen"
	cfg.Output.Direction = "rtl"
	p := newTestPipeline(t, cfg, &stubPDFRenderer{})

	f1 := markedFrame(t, p, "Start")
	f2 := testFrame(t, p, 85)
	f3 := markedFrame(t, p, "End")

	out := filepath.Join(t.TempDir(), "log.xtc")
	if err := p.WriteOutput(context.Background(), []*FrameAsset{f1, f2, f3}, out); err != nil {
		t.Fatalf("WriteOutput: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	doc, err := container.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if doc.PageCount != 3 {
		t.Errorf("pages = %d, want 3", doc.PageCount)
	}
	if doc.Direction != container.RightToLeft {
		t.Errorf("direction = %v, want rtl", doc.Direction)
	}
	if doc.Metadata == nil || doc.Metadata.Title != "Trip Log" || doc.Metadata.Author != "F. Nansen" {
		t.Errorf("metadata = %+v", doc.Metadata)
	}
	if doc.Metadata.CreateTime == 0 {
		t.Error("create time not stamped")
	}
	if len(doc.Chapters) != 2 {
		t.Fatalf("chapters = %v", doc.Chapters)
	}
	if doc.Chapters[0].Name != "Start" || doc.Chapters[0].EndPage != 1 {
		t.Errorf("chapter 0 = %v", doc.Chapters[0])
	}
	if doc.Chapters[1].Name != "End" || doc.Chapters[1].StartPage != 2 {
		t.Errorf("chapter 1 = %v", doc.Chapters[1])
	}
	if !bytes.Equal(doc.Frames[1], f2.Data()) {
		t.Error("frame bytes must survive packing")
	}
}

func TestWriteRawFrames(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t, testConfig(), &stubPDFRenderer{})
	dir := t.TempDir()

	// Single frame keeps the given name.
	single := filepath.Join(dir, "page.xth")
	if err := p.WriteOutput(context.Background(), []*FrameAsset{testFrame(t, p, 0)}, single); err != nil {
		t.Fatalf("WriteOutput single: %v", err)
	}
	data, err := os.ReadFile(single)
	if err != nil {
		t.Fatal(err)
	}
	if format, _ := frame.Sniff(data); format != frame.FormatXTH {
		t.Errorf("written format = %v", format)
	}

	// Multiple frames get numbered names.
	multi := filepath.Join(dir, "book.xth")
	frames := []*FrameAsset{testFrame(t, p, 0), testFrame(t, p, 85), testFrame(t, p, 170)}
	if err := p.WriteOutput(context.Background(), frames, multi); err != nil {
		t.Fatalf("WriteOutput multi: %v", err)
	}
	for i := 1; i <= 3; i++ {
		name := filepath.Join(dir, fmt.Sprintf("book_%03d.xth", i))
		if _, err := os.Stat(name); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	if _, err := os.Stat(multi); !os.IsNotExist(err) {
		t.Error("unnumbered path must not exist for multi-frame output")
	}
}

func TestWriteRawFramesFormatClash(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t, testConfig(), &stubPDFRenderer{})
	out := filepath.Join(t.TempDir(), "page.xtg")

	err := p.WriteOutput(context.Background(), []*FrameAsset{testFrame(t, p, 0)}, out)
	if !errors.Is(err, ErrFormatClash) {
		t.Errorf("error = %v, want ErrFormatClash", err)
	}
}

func TestWritePreviewPNG(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t, testConfig(), &stubPDFRenderer{})
	out := filepath.Join(t.TempDir(), "preview.png")

	if err := p.WriteOutput(context.Background(), []*FrameAsset{testFrame(t, p, 170)}, out); err != nil {
		t.Fatalf("WriteOutput: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("preview is not a PNG: %v", err)
	}
	if img.Bounds().Dx() != 10 || img.Bounds().Dy() != 16 {
		t.Errorf("preview is %v, want 10x16", img.Bounds())
	}
}

func TestWritePreviewPDF(t *testing.T) {
	t.Parallel()

	html := &stubHTMLRenderer{pdf: []byte("%PDF-1.7 stub")}
	p, err := NewPipeline(testConfig(),
		WithPDFRenderer(&stubPDFRenderer{}),
		WithTypstCompiler(&stubTypstCompiler{}),
		WithHTMLRenderer(html),
	)
	if err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "preview.pdf")
	if err := p.WriteOutput(context.Background(), []*FrameAsset{testFrame(t, p, 0)}, out); err != nil {
		t.Fatalf("WriteOutput: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, html.pdf) {
		t.Error("preview PDF bytes must come from the renderer")
	}
}

func TestWriteOutputErrors(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t, testConfig(), &stubPDFRenderer{})

	err := p.WriteOutput(context.Background(), []*FrameAsset{testFrame(t, p, 0)}, "out.epub")
	if !errors.Is(err, ErrUnknownOutput) {
		t.Errorf("error = %v, want ErrUnknownOutput", err)
	}

	err = p.WriteOutput(context.Background(), nil, "out.xtc")
	if !errors.Is(err, ErrNoPages) {
		t.Errorf("error = %v, want ErrNoPages", err)
	}
}

func TestNumberedPath(t *testing.T) {
	t.Parallel()

	if got := numberedPath("a/b.xth", 0, 1); got != "a/b.xth" {
		t.Errorf("single = %q", got)
	}
	if got := numberedPath("a/b.xth", 0, 2); got != "a/b_001.xth" {
		t.Errorf("first of many = %q", got)
	}
	if got := numberedPath("a/b.xth", 11, 20); got != "a/b_012.xth" {
		t.Errorf("twelfth = %q", got)
	}
}
