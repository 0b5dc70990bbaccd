package pages

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSpec(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		arg      string
		wantPath string
		wantSpec string
	}{
		{"plain path", "book.pdf", "book.pdf", ""},
		{"single page", "book.pdf:7", "book.pdf", "7"},
		{"range list", "file.pdf:1-4", "file.pdf", "1-4"},
		{"mixed list", "a.pdf:1-4,7,10-", "a.pdf", "1-4,7,10-"},
		{"no digits in suffix", "notes.pdf:final", "notes.pdf:final", ""},
		{"trailing colon", "book.pdf:", "book.pdf:", ""},
		{"windows drive", `C:\a.pdf`, `C:\a.pdf`, ""},
		{"windows drive with digits", `C:\a2.pdf`, `C:\a2.pdf`, ""},
		{"windows drive plus spec", `C:\a.pdf:3-5`, `C:\a.pdf`, "3-5"},
		{"url", "https://example.com/a2.pdf", "https://example.com/a2.pdf", ""},
		{"separator in suffix", "dir:2/book.pdf", "dir:2/book.pdf", ""},
		{"leading colon", ":3", ":3", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path, spec := ParseSpec(tt.arg)
			assert.Equal(t, tt.wantPath, path)
			assert.Equal(t, tt.wantSpec, spec)
		})
	}
}

func TestExpand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		spec  string
		total int
		want  []int
	}{
		{"mixed list", "1-4,7,10-12", 15, []int{1, 2, 3, 4, 7, 10, 11, 12}},
		{"order preserved", "5,3,1", 10, []int{5, 3, 1}},
		{"out of range dropped", "20-30", 10, []int{}},
		{"open range past end", "12-", 10, []int{}},
		{"zero page dropped", "0", 10, []int{}},
		{"zero among valid", "5,0,7", 10, []int{5, 7}},
		{"backwards range empty", "7-3", 10, []int{}},
		{"range clamps at one", "0-3", 10, []int{1, 2, 3}},
		{"empty selects all", "", 3, []int{1, 2, 3}},
		{"whitespace only selects all", "  ", 3, []int{1, 2, 3}},
		{"open end", "8-", 10, []int{8, 9, 10}},
		{"open start", "-3", 10, []int{1, 2, 3}},
		{"duplicates keep first", "2,1-3", 5, []int{2, 1, 3}},
		{"clamped range", "9-30", 10, []int{9, 10}},
		{"spaces around tokens", " 1 , 3 - 4 ", 5, []int{1, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Expand(tt.spec, tt.total)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpandInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		spec string
	}{
		{"empty token", "1,,3"},
		{"bare dash", "-"},
		{"not a number", "a-b"},
		{"letter page", "x"},
		{"letter in range", "1-x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Expand(tt.spec, 10)
			assert.ErrorIs(t, err, ErrInvalidSpec)
		})
	}
}

func TestExpandEmptyDocument(t *testing.T) {
	t.Parallel()

	got, err := Expand("1-4", 0)
	require.NoError(t, err)
	assert.Nil(t, got)
}
