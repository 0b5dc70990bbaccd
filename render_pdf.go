package xtctool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// pdfRenderer abstracts PDF rasterization to enable testing without mutool.
type pdfRenderer interface {
	PageCount(ctx context.Context, path string) (int, error)
	RenderPage(ctx context.Context, path string, page, dpi int) (image.Image, error)
	Outline(ctx context.Context, path string) ([]TocEntry, error)
}

// commandRunner abstracts subprocess execution to enable testing without
// real binaries.
type commandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr string, err error)
}

// execRunner implements commandRunner using os/exec.
type execRunner struct{}

func (r *execRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return "", "", fmt.Errorf("creating stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return "", "", fmt.Errorf("starting %s: %w", name, err)
	}

	stderrContent, err := io.ReadAll(stderrPipe)
	if err != nil {
		return "", "", fmt.Errorf("reading stderr: %w", err)
	}

	err = cmd.Wait()
	return stdout.String(), string(stderrContent), err
}

// Compile-time interface checks.
var _ pdfRenderer = (*mutoolRenderer)(nil)

// mutoolRenderer rasterizes PDF pages by invoking the MuPDF CLI.
type mutoolRenderer struct {
	runner commandRunner
	bin    string
}

// newMutoolRenderer creates a mutoolRenderer with a real command runner.
func newMutoolRenderer() *mutoolRenderer {
	return &mutoolRenderer{runner: &execRunner{}, bin: "mutool"}
}

var pagesLine = regexp.MustCompile(`(?m)^Pages:\s+(\d+)`)

// PageCount reads the page count from "mutool info" output.
func (m *mutoolRenderer) PageCount(ctx context.Context, path string) (int, error) {
	stdout, stderr, err := m.runner.Run(ctx, m.bin, "info", "--", path)
	if err != nil {
		return 0, m.wrapRunError(err, stderr)
	}
	match := pagesLine.FindStringSubmatch(stdout)
	if match == nil {
		return 0, fmt.Errorf("%w: no page count in mutool info output", ErrRenderFailed)
	}
	return strconv.Atoi(match[1])
}

// RenderPage rasterizes one page (1-based) to grayscale at the given DPI.
func (m *mutoolRenderer) RenderPage(ctx context.Context, path string, page, dpi int) (image.Image, error) {
	tmp, err := os.CreateTemp("", "xtctool-*.png")
	if err != nil {
		return nil, fmt.Errorf("creating temp png: %w", err)
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()
	defer func() { _ = os.Remove(tmpPath) }()

	_, stderr, err := m.runner.Run(ctx, m.bin, "draw",
		"-F", "png",
		"-c", "gray",
		"-r", strconv.Itoa(dpi),
		"-o", tmpPath,
		path, strconv.Itoa(page))
	if err != nil {
		return nil, m.wrapRunError(err, stderr)
	}

	data, err := os.ReadFile(tmpPath) // #nosec G304 -- our own temp file
	if err != nil {
		return nil, fmt.Errorf("reading rendered page: %w", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding rendered page: %v", ErrRenderFailed, err)
	}
	return img, nil
}

// outlineLine matches one entry of "mutool show <file> outline" output:
// tab-indented depth, quoted title, then a page fragment such as
// #page=12&view=Fit or a bare #12.
var outlineLine = regexp.MustCompile(`^(\t*)[+-]?\s*"(.*)"\s+#(?:page=)?(\d+)`)

// Outline parses the document outline into TOC entries. Lines that do not
// look like outline entries are skipped rather than treated as errors since
// outline formatting varies across MuPDF versions.
func (m *mutoolRenderer) Outline(ctx context.Context, path string) ([]TocEntry, error) {
	stdout, stderr, err := m.runner.Run(ctx, m.bin, "show", "--", path, "outline")
	if err != nil {
		return nil, m.wrapRunError(err, stderr)
	}

	var toc []TocEntry
	for _, line := range strings.Split(stdout, "\n") {
		match := outlineLine.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		page, err := strconv.Atoi(match[3])
		if err != nil || page < 1 {
			continue
		}
		toc = append(toc, TocEntry{
			Title: match[2],
			Page:  page,
			Level: len(match[1]) + 1,
		})
	}
	return toc, nil
}

func (m *mutoolRenderer) wrapRunError(err error, stderr string) error {
	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrRendererNotFound, m.bin)
	}
	stderr = strings.TrimSpace(stderr)
	if stderr != "" {
		return fmt.Errorf("%w: %s: %v", ErrRenderFailed, stderr, err)
	}
	return fmt.Errorf("%w: %v", ErrRenderFailed, err)
}
