package xtctool

import "github.com/epdkit/go-xtctool/container"

// BuildChapters derives container chapter records from the chapter markers
// frames carry. A frame whose metadata holds a TOC entry opens a chapter at
// the frame's position in the final page order; the chapter runs until the
// page before the next marker, or the last page. Frames before the first
// marker belong to no chapter.
//
// Marker page numbers refer to the frames' source documents and are ignored
// here: only the order of the frames decides the packed page ranges, so
// chapters compose correctly when documents are concatenated or pages are
// reordered.
func BuildChapters(frames []*FrameAsset) []container.Chapter {
	var chapters []container.Chapter
	for i, f := range frames {
		toc := f.Meta().TOC
		if len(toc) == 0 {
			continue
		}
		if n := len(chapters); n > 0 {
			chapters[n-1].EndPage = uint16(i - 1)
		}
		chapters = append(chapters, container.Chapter{
			Name:      toc[0].Title,
			StartPage: uint16(i),
		})
	}
	if n := len(chapters); n > 0 {
		chapters[n-1].EndPage = uint16(len(frames) - 1)
	}
	return chapters
}
