package oracle

import (
	"context"
	"time"
)

// Timed wraps an Oracle and records every call in Stats.
type Timed struct {
	Oracle
	Stats *LatencyStats
}

func NewTimed(o Oracle, stats *LatencyStats) *Timed {
	return &Timed{Oracle: o, Stats: stats}
}

func (t *Timed) Answer(ctx context.Context, question, passage string) (Result, error) {
	start := time.Now()
	res, err := t.Oracle.Answer(ctx, question, passage)
	t.Stats.Record(time.Since(start), err != nil)
	return res, err
}
