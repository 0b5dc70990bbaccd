// Package pages parses page-selection specs attached to input paths.
//
// A spec is a comma-separated list of 1-based page tokens appended to a path
// after a colon, for example "book.pdf:1-4,7,12-". Tokens select single
// pages, closed ranges, or open ranges in either direction. Selection order
// is preserved and duplicates keep their first position, so "5,3,1" really
// means pages 5, 3, 1.
package pages

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidSpec reports a malformed page token.
var ErrInvalidSpec = errors.New("invalid page spec")

// ParseSpec splits an input argument into a path and a trailing page spec.
// The suffix after the last colon counts as a spec only when it contains at
// least one digit and cannot be part of a path: suffixes with path
// separators, URL schemes, and Windows drive prefixes are left alone.
func ParseSpec(arg string) (path, spec string) {
	i := strings.LastIndexByte(arg, ':')
	if i <= 0 || i == len(arg)-1 {
		return arg, ""
	}
	suffix := arg[i+1:]
	if !strings.ContainsAny(suffix, "0123456789") {
		return arg, ""
	}
	if strings.ContainsAny(suffix, `/\`) {
		return arg, ""
	}
	switch strings.ToLower(arg[:i]) {
	case "http", "https", "ftp":
		return arg, ""
	}
	// "C:..." is a drive prefix, not a page spec.
	if i == 1 && isDriveLetter(arg[0]) {
		return arg, ""
	}
	return arg[:i], suffix
}

// Expand resolves a page spec against a document of total pages. It returns
// 1-based page numbers in selection order with later duplicates dropped.
// Pages outside 1..total are silently skipped, so "12-" against a 10-page
// document selects nothing; only tokens that fail to parse are errors. An
// empty spec selects every page in order.
func Expand(spec string, total int) ([]int, error) {
	if total <= 0 {
		return nil, nil
	}
	if strings.TrimSpace(spec) == "" {
		all := make([]int, total)
		for i := range all {
			all[i] = i + 1
		}
		return all, nil
	}

	var out []int
	seen := make(map[int]bool)

	for _, token := range strings.Split(spec, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			return nil, fmt.Errorf("%w: empty token in %q", ErrInvalidSpec, spec)
		}
		start, end, err := parseToken(token, total)
		if err != nil {
			return nil, err
		}
		// Clamp to the document; anything left outside drops without error,
		// and a range that ends up empty contributes nothing.
		if start < 1 {
			start = 1
		}
		if end > total {
			end = total
		}
		for p := start; p <= end; p++ {
			if seen[p] {
				continue
			}
			seen[p] = true
			out = append(out, p)
		}
	}
	if out == nil {
		out = []int{}
	}
	return out, nil
}

// parseToken resolves one token into an inclusive start..end pair. Open
// ranges fill their missing side from the document bounds; the pair may be
// empty or lie outside the document, which the caller drops.
func parseToken(token string, total int) (start, end int, err error) {
	dash := strings.IndexByte(token, '-')
	if dash < 0 {
		n, err := parsePage(token)
		if err != nil {
			return 0, 0, err
		}
		return n, n, nil
	}

	left := strings.TrimSpace(token[:dash])
	right := strings.TrimSpace(token[dash+1:])
	if left == "" && right == "" {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidSpec, token)
	}

	start = 1
	if left != "" {
		if start, err = parsePage(left); err != nil {
			return 0, 0, err
		}
	}
	end = total
	if right != "" {
		if end, err = parsePage(right); err != nil {
			return 0, 0, err
		}
	}
	return start, end, nil
}

func parsePage(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a page number", ErrInvalidSpec, s)
	}
	return n, nil
}

func isDriveLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
