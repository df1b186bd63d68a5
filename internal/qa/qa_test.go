package qa

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/docqa/internal/oracle"
)

const aiContext = "AI was founded as an academic discipline in 1956."

type fakeOracle struct {
	res   oracle.Result
	err   error
	calls int
}

func (f *fakeOracle) Answer(context.Context, string, string) (oracle.Result, error) {
	f.calls++
	return f.res, f.err
}

func (f *fakeOracle) Name() string { return "fake" }

func newTestService(o oracle.Oracle) *Service {
	s := NewService(o, slog.New(slog.NewTextHandler(io.Discard, nil)))
	tick := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		tick = tick.Add(250 * time.Millisecond)
		return tick
	}
	return s
}

func TestAsk_EmptyQuestionSkipsOracle(t *testing.T) {
	fo := &fakeOracle{}
	s := newTestService(fo)

	for _, q := range []string{"", "   ", "\n\t"} {
		_, err := s.Ask(context.Background(), q, aiContext)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("question %q: expected *ValidationError, got %v", q, err)
		}
		if ve.Message != MsgMissingQuestion {
			t.Errorf("expected %q, got %q", MsgMissingQuestion, ve.Message)
		}
	}
	if fo.calls != 0 {
		t.Errorf("expected oracle not to be called, got %d calls", fo.calls)
	}
}

func TestAsk_EmptyContextCheckedFirst(t *testing.T) {
	fo := &fakeOracle{}
	s := newTestService(fo)

	_, err := s.Ask(context.Background(), "", "  ")
	if err == nil || err.Error() != MsgMissingContext {
		t.Fatalf("expected %q, got %v", MsgMissingContext, err)
	}
	if fo.calls != 0 {
		t.Errorf("expected oracle not to be called")
	}
}

func TestAsk_Success(t *testing.T) {
	fo := &fakeOracle{res: oracle.Result{Answer: "1956", Score: 0.9731}}
	s := newTestService(fo)

	resp, err := s.Ask(context.Background(), "  When was AI founded? ", aiContext)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Question != "When was AI founded?" {
		t.Errorf("expected trimmed question, got %q", resp.Question)
	}
	if resp.Confidence != "97.3%" {
		t.Errorf("expected 97.3%%, got %q", resp.Confidence)
	}
	if resp.Level != LevelHigh {
		t.Errorf("expected high level, got %q", resp.Level)
	}
	if resp.Elapsed != "0.25s" {
		t.Errorf("expected 0.25s elapsed, got %q", resp.Elapsed)
	}
	if resp.AnswerWords != 1 {
		t.Errorf("expected 1 word, got %d", resp.AnswerWords)
	}
	if !resp.Highlight.Found || resp.Highlight.After != "." {
		t.Errorf("unexpected highlight %+v", resp.Highlight)
	}
	if !strings.Contains(resp.HighlightHTML, "<mark class=\"answer\">1956</mark>") {
		t.Errorf("expected rendered mark, got %q", resp.HighlightHTML)
	}
	if resp.Notice != "" {
		t.Errorf("expected no notice, got %q", resp.Notice)
	}
	if resp.Backend != "fake" {
		t.Errorf("expected backend fake, got %q", resp.Backend)
	}
}

func TestAsk_AnswerNotLocated(t *testing.T) {
	fo := &fakeOracle{res: oracle.Result{Answer: "nineteen fifty-six", Score: 0.4}}
	s := newTestService(fo)

	resp, err := s.Ask(context.Background(), "When?", aiContext)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Highlight.Found {
		t.Error("expected answer not to be located")
	}
	if resp.Notice == "" {
		t.Error("expected location notice")
	}
	if resp.Answer != "nineteen fifty-six" || resp.AnswerWords != 2 {
		t.Errorf("expected answer kept, got %q (%d words)", resp.Answer, resp.AnswerWords)
	}
	if resp.Level != LevelLow {
		t.Errorf("expected low level, got %q", resp.Level)
	}
}

func TestAsk_PrefersOracleSpan(t *testing.T) {
	ctx := "Paris is big. I love paris."
	fo := &fakeOracle{res: oracle.Result{Answer: "paris", Score: 0.6, Span: &oracle.Span{Start: 21, End: 26}}}
	s := newTestService(fo)

	resp, err := s.Ask(context.Background(), "What do I love?", ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Highlight.Start != 21 {
		t.Errorf("expected span start 21, got %d", resp.Highlight.Start)
	}
	if resp.Highlight.Answer != "paris" {
		t.Errorf("expected lowercase occurrence, got %q", resp.Highlight.Answer)
	}
}

func TestAsk_MismatchedSpanFallsBack(t *testing.T) {
	ctx := "Paris is big. I love paris."
	fo := &fakeOracle{res: oracle.Result{Answer: "paris", Score: 0.6, Span: &oracle.Span{Start: 3, End: 40}}}
	s := newTestService(fo)

	resp, err := s.Ask(context.Background(), "Where?", ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Highlight.Start != 0 || resp.Highlight.Answer != "Paris" {
		t.Errorf("expected first-occurrence fallback, got %+v", resp.Highlight)
	}
}

func TestAsk_OracleFailure(t *testing.T) {
	cause := &oracle.RetryableError{StatusCode: 503, Message: "loading"}
	fo := &fakeOracle{err: cause}
	s := newTestService(fo)

	_, err := s.Ask(context.Background(), "When?", aiContext)
	var oe *OracleError
	if !errors.As(err, &oe) {
		t.Fatalf("expected *OracleError, got %T", err)
	}
	if !oe.Retryable() {
		t.Error("expected retryable failure")
	}
	if !strings.HasPrefix(oe.Error(), "Error: ") {
		t.Errorf("expected display prefix, got %q", oe.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("expected cause to be unwrappable")
	}
}

func TestValidate(t *testing.T) {
	if err := Validate("q", "c"); err != nil {
		t.Errorf("expected valid input, got %v", err)
	}
}
