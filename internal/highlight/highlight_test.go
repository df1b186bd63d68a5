package highlight

import (
	"strings"
	"testing"
	"unicode/utf8"
)

const aiContext = "AI was founded as an academic discipline in 1956."

func TestLocate_Scenario(t *testing.T) {
	h := Locate(aiContext, "1956", 100)
	if !h.Found {
		t.Fatal("expected answer to be found")
	}
	if h.Answer != "1956" {
		t.Errorf("expected answer %q, got %q", "1956", h.Answer)
	}
	if !strings.HasSuffix(h.Before, "discipline in ") {
		t.Errorf("expected before to end with %q, got %q", "discipline in ", h.Before)
	}
	if strings.HasPrefix(h.Before, Ellipsis) {
		t.Errorf("expected no leading ellipsis for short context, got %q", h.Before)
	}
	if h.After != "." {
		t.Errorf("expected after %q, got %q", ".", h.After)
	}
}

func TestLocate_KeepsContextCasing(t *testing.T) {
	h := Locate(aiContext, "ACADEMIC Discipline", 100)
	if !h.Found {
		t.Fatal("expected case-insensitive match")
	}
	if h.Answer != "academic discipline" {
		t.Errorf("expected casing from context, got %q", h.Answer)
	}
}

func TestLocate_NotFound(t *testing.T) {
	h := Locate(aiContext, "1957", 100)
	if h.Found {
		t.Errorf("expected not found, got %+v", h)
	}
	if h.Before != "" || h.Answer != "" || h.After != "" {
		t.Errorf("expected empty excerpt, got %+v", h)
	}
}

func TestLocate_FirstOccurrenceOnly(t *testing.T) {
	ctx := "Paris is big. I love paris."
	h := Locate(ctx, "PARIS", 100)
	if h.Start != 0 || h.Answer != "Paris" {
		t.Errorf("expected first occurrence at 0, got start=%d answer=%q", h.Start, h.Answer)
	}
}

func TestLocate_FoundIffSubstring(t *testing.T) {
	ctx := "The Quick brown fox. Über straße."
	tests := []struct {
		answer string
		found  bool
	}{
		{"quick BROWN", true},
		{"über", true},
		{"STRASSE", false},
		{"fox.", true},
		{"lazy dog", false},
	}
	for _, tt := range tests {
		h := Locate(ctx, tt.answer, 100)
		if h.Found != tt.found {
			t.Errorf("answer=%q: expected found=%v, got %v", tt.answer, tt.found, h.Found)
			continue
		}
		if h.Found {
			got := string([]rune(ctx)[h.Start:h.End])
			if strings.ToLower(got) != strings.ToLower(tt.answer) {
				t.Errorf("answer=%q: span text %q does not match", tt.answer, got)
			}
		}
	}
}

func TestLocate_WindowBounds(t *testing.T) {
	ctx := strings.Repeat("a", 300) + "NEEDLE" + strings.Repeat("b", 300)
	for _, radius := range []int{1, 10, 100} {
		h := Locate(ctx, "needle", radius)
		if !h.Found {
			t.Fatalf("radius=%d: expected found", radius)
		}
		if n := utf8.RuneCountInString(h.Before); n != radius+len(Ellipsis) {
			t.Errorf("radius=%d: expected before length %d, got %d", radius, radius+3, n)
		}
		if n := utf8.RuneCountInString(h.After); n != radius+len(Ellipsis) {
			t.Errorf("radius=%d: expected after length %d, got %d", radius, radius+3, n)
		}
		if !strings.HasPrefix(h.Before, Ellipsis) || !strings.HasSuffix(h.After, Ellipsis) {
			t.Errorf("radius=%d: expected ellipsis on both sides, got %q / %q", radius, h.Before, h.After)
		}
	}
}

func TestLocate_MultibyteOffsets(t *testing.T) {
	ctx := "Café crème: le prix est 4€ à Paris."
	h := Locate(ctx, "à paris", 5)
	if !h.Found {
		t.Fatal("expected found")
	}
	if h.Answer != "à Paris" {
		t.Errorf("expected %q, got %q", "à Paris", h.Answer)
	}
	if h.Before != "...t 4€ " {
		t.Errorf("expected before %q, got %q", "...t 4€ ", h.Before)
	}
	if h.After != "." {
		t.Errorf("expected after %q, got %q", ".", h.After)
	}
}

func TestLocate_ZeroRadius(t *testing.T) {
	ctx := strings.Repeat("x", 150) + "hit" + strings.Repeat("y", 150)
	for _, radius := range []int{0, -3} {
		h := Locate(ctx, "hit", radius)
		if !h.Found || h.Answer != "hit" {
			t.Fatalf("radius=%d: expected hit, got %+v", radius, h)
		}
		if h.Before != Ellipsis || h.After != Ellipsis {
			t.Errorf("radius=%d: expected bare ellipses, got %q / %q", radius, h.Before, h.After)
		}
	}
	if h := Locate("hit", "HIT", 0); h.Before != "" || h.After != "" {
		t.Errorf("expected no ellipsis when the answer is the whole context, got %q / %q", h.Before, h.After)
	}
}

func TestLocateSpan(t *testing.T) {
	ctx := "Paris is big. I love paris."
	h, ok := LocateSpan(ctx, 21, 26, 100)
	if !ok {
		t.Fatal("expected span accepted")
	}
	if h.Answer != "paris" || h.Before != "Paris is big. I love " || h.After != "." {
		t.Errorf("unexpected highlight %+v", h)
	}

	loc := Locate(aiContext, "1956", 100)
	span, _ := LocateSpan(aiContext, loc.Start, loc.End, 100)
	if span != loc {
		t.Errorf("expected LocateSpan to match Locate, got %+v vs %+v", span, loc)
	}

	for _, r := range [][2]int{{-1, 3}, {5, 2}, {0, 100}} {
		if _, ok := LocateSpan(ctx, r[0], r[1], 100); ok {
			t.Errorf("span %v: expected rejection", r)
		}
	}
}

func TestSpanMatches(t *testing.T) {
	ctx := "Paris is big. I love paris."
	if !SpanMatches(ctx, 21, 26, "PARIS") {
		t.Error("expected span to match")
	}
	if SpanMatches(ctx, 0, 4, "Paris") {
		t.Error("expected mismatch for short span")
	}
	if SpanMatches(ctx, 25, 40, "s.") {
		t.Error("expected mismatch for out-of-range span")
	}
}

func TestPlain(t *testing.T) {
	if got := Plain(Locate(aiContext, "1956", 100)); got != "AI was founded as an academic discipline in **1956**." {
		t.Errorf("unexpected plain rendering %q", got)
	}
	if got := Plain(Highlight{}); got != NotFoundNotice {
		t.Errorf("expected not-found notice, got %q", got)
	}
}
