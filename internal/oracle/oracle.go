// Package oracle defines the question-answering backend contract and its
// HTTP implementations.
package oracle

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"
)

// Oracle answers a question with a span of the supplied context.
type Oracle interface {
	Answer(ctx context.Context, question, passage string) (Result, error)
	Name() string
}

// Result is one answer from an Oracle. Score is a confidence in [0,1].
type Result struct {
	Answer string  `json:"answer"`
	Score  float64 `json:"score"`
	Span   *Span   `json:"span,omitempty"`
}

// Span is the rune range [Start, End) of the answer inside the context.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// RetryableError indicates a transient backend failure, such as a model that
// is still loading or a rate limit. It is never retried automatically.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

// IsRetryable checks if an error is a transient backend failure.
func IsRetryable(err error) bool {
	var retryErr *RetryableError
	return errors.As(err, &retryErr)
}

// truncate keeps at most n bytes of s without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
