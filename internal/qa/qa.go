// Package qa runs one question against one context: it validates the input,
// calls the oracle, and assembles everything needed to display the answer.
package qa

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgallion1/docqa/internal/highlight"
	"github.com/dgallion1/docqa/internal/oracle"
)

const (
	MsgMissingContext  = "Please provide some context text first!"
	MsgMissingQuestion = "Please enter a question!"
)

// ValidationError is returned before the oracle is called when the question or
// context is blank.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// OracleError wraps any failure from the oracle call.
type OracleError struct {
	Err error
}

func (e *OracleError) Error() string { return "Error: " + e.Err.Error() }

func (e *OracleError) Unwrap() error { return e.Err }

// Retryable reports whether the backend marked the failure as transient.
func (e *OracleError) Retryable() bool { return oracle.IsRetryable(e.Err) }

// Response is everything shown for one answered question.
type Response struct {
	Question       string              `json:"question"`
	Answer         string              `json:"answer"`
	Score          float64             `json:"score"`
	Confidence     string              `json:"confidence"`
	Level          Level               `json:"confidence_level"`
	LevelMessage   string              `json:"confidence_message"`
	ElapsedSeconds float64             `json:"elapsed_seconds"`
	Elapsed        string              `json:"elapsed"`
	AnswerWords    int                 `json:"answer_words"`
	Highlight      highlight.Highlight `json:"highlight"`
	HighlightHTML  string              `json:"highlight_html"`
	Notice         string              `json:"notice,omitempty"`
	Backend        string              `json:"backend"`
}

// Service answers questions with an injected oracle. It holds no per-request state.
type Service struct {
	oracle oracle.Oracle
	log    *slog.Logger
	now    func() time.Time
}

func NewService(o oracle.Oracle, log *slog.Logger) *Service {
	return &Service{oracle: o, log: log, now: time.Now}
}

// Backend names the oracle in use.
func (s *Service) Backend() string { return s.oracle.Name() }

// Validate checks the inputs in the order the user is asked to fix them.
func Validate(question, passage string) error {
	if strings.TrimSpace(passage) == "" {
		return &ValidationError{Message: MsgMissingContext}
	}
	if strings.TrimSpace(question) == "" {
		return &ValidationError{Message: MsgMissingQuestion}
	}
	return nil
}

// Ask validates the inputs, calls the oracle and builds the response.
// Errors are *ValidationError or *OracleError.
func (s *Service) Ask(ctx context.Context, question, passage string) (*Response, error) {
	if err := Validate(question, passage); err != nil {
		return nil, err
	}
	question = strings.TrimSpace(question)

	start := s.now()
	res, err := s.oracle.Answer(ctx, question, passage)
	elapsed := s.now().Sub(start)
	if err != nil {
		s.log.Warn("oracle call failed",
			"backend", s.oracle.Name(),
			"elapsed_ms", elapsed.Milliseconds(),
			"retryable", oracle.IsRetryable(err),
			"error", err,
		)
		return nil, &OracleError{Err: err}
	}

	h := locateAnswer(passage, res)
	level := LevelFor(res.Score)
	resp := &Response{
		Question:       question,
		Answer:         res.Answer,
		Score:          res.Score,
		Confidence:     FormatConfidence(res.Score),
		Level:          level,
		LevelMessage:   level.Message(),
		ElapsedSeconds: elapsed.Seconds(),
		Elapsed:        fmt.Sprintf("%.2fs", elapsed.Seconds()),
		AnswerWords:    len(strings.Fields(res.Answer)),
		Highlight:      h,
		HighlightHTML:  highlight.Render(h),
		Backend:        s.oracle.Name(),
	}
	if !h.Found {
		resp.Notice = highlight.NotFoundNotice
	}

	s.log.Info("question answered",
		"backend", resp.Backend,
		"elapsed_ms", elapsed.Milliseconds(),
		"score", res.Score,
		"located", h.Found,
	)
	return resp, nil
}

// locateAnswer trusts the oracle's span when it covers the answer text and
// falls back to the first occurrence otherwise.
func locateAnswer(passage string, res oracle.Result) highlight.Highlight {
	if sp := res.Span; sp != nil && highlight.SpanMatches(passage, sp.Start, sp.End, res.Answer) {
		if h, ok := highlight.LocateSpan(passage, sp.Start, sp.End, highlight.DefaultWindowRadius); ok {
			return h
		}
	}
	return highlight.Locate(passage, res.Answer, highlight.DefaultWindowRadius)
}
