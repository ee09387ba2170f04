// Package stats keeps a rolling window of comparison latencies.
package stats

import (
	"sort"
	"sync"
	"time"
)

type sample struct {
	timestamp  time.Time
	durationMs int64
	rows       int
}

// Snapshot is a point-in-time aggregate of comparison samples.
type Snapshot struct {
	Count     int     `json:"count"`
	MinMs     int64   `json:"min_ms"`
	MaxMs     int64   `json:"max_ms"`
	AvgMs     float64 `json:"avg_ms"`
	P50Ms     float64 `json:"p50_ms"`
	P95Ms     float64 `json:"p95_ms"`
	P99Ms     float64 `json:"p99_ms"`
	DiffRows  int     `json:"diff_rows"`
	WindowSec float64 `json:"window_sec"`
}

// CompareStats tracks recent comparison latencies within a rolling window.
type CompareStats struct {
	mu      sync.Mutex
	samples []sample
	maxAge  time.Duration
	now     func() time.Time
}

func New(maxAge time.Duration) *CompareStats {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &CompareStats{
		samples: make([]sample, 0, 256),
		maxAge:  maxAge,
		now:     time.Now,
	}
}

// Record adds one finished comparison and the number of rows it reported.
// Recording on a nil CompareStats is a no-op.
func (s *CompareStats) Record(d time.Duration, rows int) {
	if s == nil {
		return
	}
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.pruneLocked(now)
	s.samples = append(s.samples, sample{
		timestamp:  now,
		durationMs: ms,
		rows:       rows,
	})
}

func (s *CompareStats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(s.now())
	if len(s.samples) == 0 {
		return Snapshot{WindowSec: s.maxAge.Seconds()}
	}

	values := make([]int64, 0, len(s.samples))
	var sum int64
	var rows int
	for _, sm := range s.samples {
		values = append(values, sm.durationMs)
		sum += sm.durationMs
		rows += sm.rows
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	return Snapshot{
		Count:     len(values),
		MinMs:     values[0],
		MaxMs:     values[len(values)-1],
		AvgMs:     float64(sum) / float64(len(values)),
		P50Ms:     percentile(values, 50),
		P95Ms:     percentile(values, 95),
		P99Ms:     percentile(values, 99),
		DiffRows:  rows,
		WindowSec: s.maxAge.Seconds(),
	}
}

func (s *CompareStats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.maxAge)
	writeIdx := 0
	for _, sm := range s.samples {
		if !sm.timestamp.Before(cutoff) {
			s.samples[writeIdx] = sm
			writeIdx++
		}
	}
	s.samples = s.samples[:writeIdx]
}

// percentile interpolates linearly between the closest ranks.
func percentile(sortedValues []int64, pct float64) float64 {
	switch {
	case len(sortedValues) == 0:
		return 0
	case pct <= 0:
		return float64(sortedValues[0])
	case pct >= 100:
		return float64(sortedValues[len(sortedValues)-1])
	}

	index := (float64(len(sortedValues)-1) * pct) / 100.0
	lower := int(index)
	if lower+1 >= len(sortedValues) {
		return float64(sortedValues[lower])
	}
	weight := index - float64(lower)
	lo := float64(sortedValues[lower])
	hi := float64(sortedValues[lower+1])
	return lo + (hi-lo)*weight
}
