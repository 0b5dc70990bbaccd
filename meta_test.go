package xtctool

import "testing"

func TestMergeFrom(t *testing.T) {
	t.Parallel()

	t.Run("fills unset fields", func(t *testing.T) {
		t.Parallel()

		var m Meta
		m.mergeFrom(&Meta{
			PageSpec: "1-4",
			TOC:      []TocEntry{{Title: "A", Page: 1}},
			Extra:    map[string]string{"k": "v"},
		})

		if m.PageSpec != "1-4" {
			t.Errorf("PageSpec = %q", m.PageSpec)
		}
		if len(m.TOC) != 1 || m.TOC[0].Title != "A" {
			t.Errorf("TOC = %v", m.TOC)
		}
		if m.Extra["k"] != "v" {
			t.Errorf("Extra = %v", m.Extra)
		}
	})

	t.Run("source wins on collision", func(t *testing.T) {
		t.Parallel()

		m := Meta{
			PageSpec: "9",
			TOC:      []TocEntry{{Title: "Own", Page: 2}},
			Extra:    map[string]string{"k": "own"},
		}
		m.mergeFrom(&Meta{
			PageSpec: "1-4",
			TOC:      []TocEntry{{Title: "Parent", Page: 1}},
			Extra:    map[string]string{"k": "parent", "extra": "yes"},
		})

		if m.PageSpec != "1-4" {
			t.Errorf("PageSpec = %q, want source value 1-4", m.PageSpec)
		}
		if m.TOC[0].Title != "Parent" {
			t.Errorf("TOC = %v, want source entries", m.TOC)
		}
		if m.Extra["k"] != "parent" {
			t.Errorf("Extra[k] = %q, want parent", m.Extra["k"])
		}
		if m.Extra["extra"] != "yes" {
			t.Error("missing keys must still merge")
		}
	})

	t.Run("empty source keeps own values", func(t *testing.T) {
		t.Parallel()

		m := Meta{
			PageSpec: "9",
			TOC:      []TocEntry{{Title: "Own", Page: 2}},
			Extra:    map[string]string{"k": "own"},
		}
		m.mergeFrom(&Meta{})

		if m.PageSpec != "9" {
			t.Errorf("PageSpec = %q, want 9", m.PageSpec)
		}
		if len(m.TOC) != 1 || m.TOC[0].Title != "Own" {
			t.Errorf("TOC = %v, want Own kept", m.TOC)
		}
		if m.Extra["k"] != "own" {
			t.Errorf("Extra[k] = %q, want own", m.Extra["k"])
		}
	})

	t.Run("toc copy is independent", func(t *testing.T) {
		t.Parallel()

		src := Meta{TOC: []TocEntry{{Title: "A", Page: 1}}}
		var m Meta
		m.mergeFrom(&src)
		m.TOC[0].Title = "changed"
		if src.TOC[0].Title != "A" {
			t.Error("merge must copy the TOC slice")
		}
	})

	t.Run("nil source", func(t *testing.T) {
		t.Parallel()

		m := Meta{PageSpec: "1"}
		m.mergeFrom(nil)
		if m.PageSpec != "1" {
			t.Error("nil source must be a no-op")
		}
	})
}
