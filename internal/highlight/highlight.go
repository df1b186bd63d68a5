// Package highlight maps an answer string back onto the context it was
// extracted from and builds the excerpt shown around it.
package highlight

import (
	"strings"
	"unicode"
)

// DefaultWindowRadius is the number of characters kept on each side of the answer.
const DefaultWindowRadius = 100

// Ellipsis marks a side of the window that was cut short.
const Ellipsis = "..."

// Highlight is the excerpt of a context around a located answer. Start and End
// are rune offsets into the context and are only meaningful when Found is set.
type Highlight struct {
	Found  bool   `json:"found"`
	Before string `json:"before,omitempty"`
	Answer string `json:"answer,omitempty"`
	After  string `json:"after,omitempty"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
}

// Locate finds the first case-insensitive occurrence of answer in context.
// Only the first occurrence is considered; use LocateSpan when the offsets are known.
// A negative windowRadius is treated as 0.
func Locate(context, answer string, windowRadius int) Highlight {
	ctx := []rune(context)
	s := indexFold(ctx, []rune(answer))
	if s < 0 {
		return Highlight{}
	}
	return window(ctx, s, s+len([]rune(answer)), windowRadius)
}

// LocateSpan builds the excerpt for the rune range [start, end) of context.
// It reports false when the range does not fit inside context.
func LocateSpan(context string, start, end, windowRadius int) (Highlight, bool) {
	ctx := []rune(context)
	if start < 0 || end < start || end > len(ctx) {
		return Highlight{}, false
	}
	return window(ctx, start, end, windowRadius), true
}

// SpanMatches reports whether the rune range [start, end) of context equals
// answer, ignoring case.
func SpanMatches(context string, start, end int, answer string) bool {
	ctx := []rune(context)
	if start < 0 || end < start || end > len(ctx) {
		return false
	}
	return equalFold(ctx[start:end], []rune(answer))
}

func window(ctx []rune, s, e, radius int) Highlight {
	radius = max(radius, 0)
	ws := max(0, s-radius)
	we := min(len(ctx), e+radius)

	before := string(ctx[ws:s])
	if ws > 0 {
		before = Ellipsis + before
	}
	after := string(ctx[e:we])
	if we < len(ctx) {
		after += Ellipsis
	}
	return Highlight{
		Found:  true,
		Before: before,
		Answer: string(ctx[s:e]),
		After:  after,
		Start:  s,
		End:    e,
	}
}

// indexFold returns the rune index of the first case-insensitive match of
// needle in haystack, or -1. Runes are lowered one by one so indexes line up
// with the original text.
func indexFold(haystack, needle []rune) int {
	h := lowerRunes(haystack)
	n := lowerRunes(needle)
	for i := 0; i+len(n) <= len(h); i++ {
		if runesEqual(h[i:i+len(n)], n) {
			return i
		}
	}
	return -1
}

func equalFold(a, b []rune) bool {
	return runesEqual(lowerRunes(a), lowerRunes(b))
}

func lowerRunes(rs []rune) []rune {
	out := make([]rune, len(rs))
	for i, r := range rs {
		out[i] = unicode.ToLower(r)
	}
	return out
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// NotFoundNotice is shown when the answer cannot be placed in the context.
const NotFoundNotice = "Answer extracted but exact location not found in context"

// Plain renders h as a single line with the answer wrapped in double asterisks.
func Plain(h Highlight) string {
	if !h.Found {
		return NotFoundNotice
	}
	var b strings.Builder
	b.WriteString(h.Before)
	b.WriteString("**")
	b.WriteString(h.Answer)
	b.WriteString("**")
	b.WriteString(h.After)
	return b.String()
}
