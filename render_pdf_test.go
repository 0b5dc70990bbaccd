package xtctool

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"os/exec"
	"strings"
	"testing"
)

// fakeRunner replays canned subprocess results and records invocations.
type fakeRunner struct {
	stdout string
	stderr string
	err    error

	// onRun intercepts the call, e.g. to create expected output files.
	onRun func(name string, args ...string)

	calls [][]string
}

func (r *fakeRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	r.calls = append(r.calls, append([]string{name}, args...))
	if r.onRun != nil {
		r.onRun(name, args...)
	}
	return r.stdout, r.stderr, r.err
}

func TestMutoolPageCount(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{stdout: "book.pdf:\nFormat: PDF 1.7\nPages: 42\n"}
	m := &mutoolRenderer{runner: runner, bin: "mutool"}

	n, err := m.PageCount(context.Background(), "book.pdf")
	if err != nil {
		t.Fatalf("PageCount: %v", err)
	}
	if n != 42 {
		t.Errorf("pages = %d, want 42", n)
	}
	if len(runner.calls) != 1 || runner.calls[0][1] != "info" {
		t.Errorf("calls = %v", runner.calls)
	}
}

func TestMutoolPageCountUnparseable(t *testing.T) {
	t.Parallel()

	m := &mutoolRenderer{runner: &fakeRunner{stdout: "garbage"}, bin: "mutool"}
	_, err := m.PageCount(context.Background(), "book.pdf")
	if !errors.Is(err, ErrRenderFailed) {
		t.Errorf("error = %v, want ErrRenderFailed", err)
	}
}

func TestMutoolNotFound(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{err: &exec.Error{Name: "mutool", Err: exec.ErrNotFound}}
	m := &mutoolRenderer{runner: runner, bin: "mutool"}

	_, err := m.PageCount(context.Background(), "book.pdf")
	if !errors.Is(err, ErrRendererNotFound) {
		t.Errorf("error = %v, want ErrRendererNotFound", err)
	}
}

func TestMutoolRenderPage(t *testing.T) {
	t.Parallel()

	// The fake writes a real PNG to the -o target, as mutool draw would.
	runner := &fakeRunner{}
	runner.onRun = func(name string, args ...string) {
		var out string
		for i, a := range args {
			if a == "-o" && i+1 < len(args) {
				out = args[i+1]
			}
		}
		img := image.NewGray(image.Rect(0, 0, 6, 4))
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			t.Error(err)
			return
		}
		if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
			t.Error(err)
		}
	}
	m := &mutoolRenderer{runner: runner, bin: "mutool"}

	img, err := m.RenderPage(context.Background(), "book.pdf", 3, 144)
	if err != nil {
		t.Fatalf("RenderPage: %v", err)
	}
	if img.Bounds().Dx() != 6 || img.Bounds().Dy() != 4 {
		t.Errorf("bounds = %v", img.Bounds())
	}

	call := strings.Join(runner.calls[0], " ")
	for _, want := range []string{"draw", "-c gray", "-r 144", "book.pdf 3"} {
		if !strings.Contains(call, want) {
			t.Errorf("call %q missing %q", call, want)
		}
	}
}

func TestMutoolRenderPageFailure(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{stderr: "error: cannot draw page", err: errors.New("exit status 1")}
	m := &mutoolRenderer{runner: runner, bin: "mutool"}

	_, err := m.RenderPage(context.Background(), "book.pdf", 1, 144)
	if !errors.Is(err, ErrRenderFailed) {
		t.Fatalf("error = %v, want ErrRenderFailed", err)
	}
	if !strings.Contains(err.Error(), "cannot draw page") {
		t.Errorf("error %q should carry stderr", err)
	}
}

func TestMutoolOutline(t *testing.T) {
	t.Parallel()

	stdout := strings.Join([]string{
		`"Cover"	#page=1&view=Fit`,
		`	"Introduction"	#page=2`,
		`		"Scope"	#3`,
		`not an outline line`,
		`	"Appendix"	#page=0`, // invalid page, skipped
	}, "\n")
	m := &mutoolRenderer{runner: &fakeRunner{stdout: stdout}, bin: "mutool"}

	toc, err := m.Outline(context.Background(), "book.pdf")
	if err != nil {
		t.Fatalf("Outline: %v", err)
	}

	want := []TocEntry{
		{Title: "Cover", Page: 1, Level: 1},
		{Title: "Introduction", Page: 2, Level: 2},
		{Title: "Scope", Page: 3, Level: 3},
	}
	if len(toc) != len(want) {
		t.Fatalf("toc = %v, want %v", toc, want)
	}
	for i := range want {
		if toc[i] != want[i] {
			t.Errorf("entry %d = %v, want %v", i, toc[i], want[i])
		}
	}
}

func TestMutoolOutlineEmpty(t *testing.T) {
	t.Parallel()

	m := &mutoolRenderer{runner: &fakeRunner{stdout: ""}, bin: "mutool"}
	toc, err := m.Outline(context.Background(), "book.pdf")
	if err != nil {
		t.Fatalf("Outline: %v", err)
	}
	if len(toc) != 0 {
		t.Errorf("toc = %v, want empty", toc)
	}
}
