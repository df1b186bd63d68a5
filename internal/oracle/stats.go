package oracle

import (
	"sort"
	"sync"
	"time"
)

type sample struct {
	at       time.Time
	duration time.Duration
	failed   bool
}

// StatsSnapshot aggregates oracle calls within the rolling window.
type StatsSnapshot struct {
	Count    int     `json:"count"`
	Failures int     `json:"failures"`
	MinMs    int64   `json:"min_ms"`
	MaxMs    int64   `json:"max_ms"`
	AvgMs    float64 `json:"avg_ms"`
	P50Ms    float64 `json:"p50_ms"`
	P95Ms    float64 `json:"p95_ms"`
	P99Ms    float64 `json:"p99_ms"`
}

// LatencyStats tracks recent oracle call latencies within a rolling window.
type LatencyStats struct {
	mu      sync.Mutex
	samples []sample
	window  time.Duration
}

func NewLatencyStats(window time.Duration) *LatencyStats {
	if window <= 0 {
		window = time.Hour
	}
	return &LatencyStats{
		samples: make([]sample, 0, 256),
		window:  window,
	}
}

// Record adds one call. Negative durations count as zero.
func (s *LatencyStats) Record(d time.Duration, failed bool) {
	if d < 0 {
		d = 0
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	s.samples = append(s.samples, sample{at: now, duration: d, failed: failed})
}

func (s *LatencyStats) Snapshot() StatsSnapshot {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	if len(s.samples) == 0 {
		return StatsSnapshot{}
	}

	ms := make([]int64, len(s.samples))
	var sum int64
	failures := 0
	for i, sm := range s.samples {
		ms[i] = sm.duration.Milliseconds()
		sum += ms[i]
		if sm.failed {
			failures++
		}
	}
	sort.Slice(ms, func(i, j int) bool { return ms[i] < ms[j] })

	return StatsSnapshot{
		Count:    len(ms),
		Failures: failures,
		MinMs:    ms[0],
		MaxMs:    ms[len(ms)-1],
		AvgMs:    float64(sum) / float64(len(ms)),
		P50Ms:    percentile(ms, 50),
		P95Ms:    percentile(ms, 95),
		P99Ms:    percentile(ms, 99),
	}
}

func (s *LatencyStats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	kept := s.samples[:0]
	for _, sm := range s.samples {
		if !sm.at.Before(cutoff) {
			kept = append(kept, sm)
		}
	}
	s.samples = kept
}

// percentile interpolates linearly between the closest ranks.
func percentile(sorted []int64, pct float64) float64 {
	switch {
	case len(sorted) == 0:
		return 0
	case pct <= 0:
		return float64(sorted[0])
	case pct >= 100:
		return float64(sorted[len(sorted)-1])
	}

	rank := float64(len(sorted)-1) * pct / 100.0
	lower := int(rank)
	if lower+1 >= len(sorted) {
		return float64(sorted[lower])
	}
	frac := rank - float64(lower)
	lo, hi := float64(sorted[lower]), float64(sorted[lower+1])
	return lo + (hi-lo)*frac
}
