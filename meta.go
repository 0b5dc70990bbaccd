package xtctool

// TocEntry marks a document position that opens a chapter. Page is 1-based
// within the entry's source document.
type TocEntry struct {
	Title string
	Page  int
	Level int
}

// Meta carries per-asset metadata through the conversion graph. When an
// asset produces further assets, the pipeline merges the producer's Meta
// into each product; the producer's set fields win, fields it leaves empty
// keep the product's own values.
type Meta struct {
	// PageSpec is the unresolved page selection attached to the source
	// argument, for example "1-4,7". It is consumed by the first asset in
	// the chain that knows its own page count.
	PageSpec string
	// TOC holds outline entries. On a frame asset at most one entry is
	// meaningful: the chapter the frame opens.
	TOC []TocEntry
	// Extra holds free-form annotations.
	Extra map[string]string
}

// mergeFrom copies src's set fields onto m, overwriting on collision. Fields
// src leaves empty keep m's own values, so a producer that has consumed its
// outline into per-frame markers never clobbers them with an empty list.
func (m *Meta) mergeFrom(src *Meta) {
	if src == nil {
		return
	}
	if src.PageSpec != "" {
		m.PageSpec = src.PageSpec
	}
	if len(src.TOC) > 0 {
		m.TOC = append([]TocEntry(nil), src.TOC...)
	}
	for k, v := range src.Extra {
		if m.Extra == nil {
			m.Extra = make(map[string]string)
		}
		m.Extra[k] = v
	}
}
