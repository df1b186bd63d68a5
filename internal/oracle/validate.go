package oracle

import (
	"errors"
	"strings"

	"github.com/dgallion1/docqa/internal/highlight"
)

// ErrNotVerbatim is returned when a generative backend answers with text that
// does not occur in the context.
var ErrNotVerbatim = errors.New("answer is not a span of the context")

// CheckVerbatim clamps the score into [0,1], trims surrounding whitespace and
// rejects answers that cannot be found in passage.
func CheckVerbatim(r Result, passage string) (Result, error) {
	r.Answer = strings.TrimSpace(r.Answer)
	r.Score = clampScore(r.Score)
	if r.Answer == "" {
		return r, nil
	}
	if !highlight.Locate(passage, r.Answer, 0).Found {
		return Result{}, ErrNotVerbatim
	}
	return r, nil
}

func clampScore(s float64) float64 {
	switch {
	case s != s: // NaN
		return 0
	case s < 0:
		return 0
	case s > 1:
		return 1
	}
	return s
}
