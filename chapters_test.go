package xtctool

import (
	"testing"

	"github.com/epdkit/go-xtctool/container"
)

func markedFrame(t *testing.T, p *Pipeline, title string) *FrameAsset {
	t.Helper()
	f := testFrame(t, p, 128)
	if title != "" {
		f.Meta().TOC = []TocEntry{{Title: title, Page: 1, Level: 1}}
	}
	return f
}

func TestBuildChapters(t *testing.T) {
	t.Parallel()

	p := newTestPipeline(t, testConfig(), &stubPDFRenderer{})

	tests := []struct {
		name   string
		titles []string // one per frame, "" for unmarked
		want   []container.Chapter
	}{
		{
			"no markers",
			[]string{"", "", ""},
			nil,
		},
		{
			"single chapter spans all",
			[]string{"A", "", ""},
			[]container.Chapter{{Name: "A", StartPage: 0, EndPage: 2}},
		},
		{
			"back to back markers",
			[]string{"A", "B", ""},
			[]container.Chapter{
				{Name: "A", StartPage: 0, EndPage: 0},
				{Name: "B", StartPage: 1, EndPage: 2},
			},
		},
		{
			"pages before first marker uncovered",
			[]string{"", "", "A", ""},
			[]container.Chapter{{Name: "A", StartPage: 2, EndPage: 3}},
		},
		{
			"marker on last page",
			[]string{"A", "", "B"},
			[]container.Chapter{
				{Name: "A", StartPage: 0, EndPage: 1},
				{Name: "B", StartPage: 2, EndPage: 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			frames := make([]*FrameAsset, len(tt.titles))
			for i, title := range tt.titles {
				frames[i] = markedFrame(t, p, title)
			}

			got := BuildChapters(frames)
			if len(got) != len(tt.want) {
				t.Fatalf("chapters = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("chapter %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestBuildChaptersEmpty(t *testing.T) {
	t.Parallel()

	if got := BuildChapters(nil); got != nil {
		t.Errorf("BuildChapters(nil) = %v, want nil", got)
	}
}
