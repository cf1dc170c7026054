// Package telemetry accumulates per-step timing and collision counts and
// reports them periodically via structured logging.
package telemetry

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Snapshot is one point-in-time read of the accumulated stats.
type Snapshot struct {
	FPS            float64
	AvgStepMillis  float64
	MinStepMillis  float64
	MaxStepMillis  float64
	BodyCount      int
	CandidatePairs int
	Hz             float64
	Frames         int64
}

// Collector accumulates frame timing and the latest simulation counters.
// Safe for concurrent use: RecordFrame is called from the host loop while
// Report reads a Snapshot from a separate goroutine.
type Collector struct {
	mu sync.Mutex

	lastFrameAt  time.Time
	frameTimeSum float64
	minStepMs    float64
	maxStepMs    float64
	frames       int64

	bodyCount      int
	candidatePairs int
	hz             float64
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// RecordFrame folds in one Engine.Step call's measurements: the wall-clock
// time spent inside it, the candidate-pair count it returned, the live
// body count, and the currently active physics frequency.
func (c *Collector) RecordFrame(stepTime time.Duration, candidatePairs, bodyCount int, hz float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	stepMs := stepTime.Seconds() * 1000

	c.frames++
	c.frameTimeSum += stepMs
	if c.minStepMs == 0 || stepMs < c.minStepMs {
		c.minStepMs = stepMs
	}
	if stepMs > c.maxStepMs {
		c.maxStepMs = stepMs
	}

	c.lastFrameAt = now
	c.bodyCount = bodyCount
	c.candidatePairs = candidatePairs
	c.hz = hz
}

// Snapshot returns the accumulated stats as of now. FPS is derived from the
// average step time recorded so far; it is 0 until the first frame lands.
func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	avg := 0.0
	if c.frames > 0 {
		avg = c.frameTimeSum / float64(c.frames)
	}
	fps := 0.0
	if avg > 0 {
		fps = 1000.0 / avg
	}

	return Snapshot{
		FPS:            fps,
		AvgStepMillis:  avg,
		MinStepMillis:  c.minStepMs,
		MaxStepMillis:  c.maxStepMs,
		BodyCount:      c.bodyCount,
		CandidatePairs: c.candidatePairs,
		Hz:             c.hz,
		Frames:         c.frames,
	}
}

// Report logs a Snapshot on every tick of interval until ctx is done.
// Intended to run in its own goroutine, mirroring the host's periodic
// stats-reporting loop.
func Report(ctx context.Context, logger *slog.Logger, collector *Collector, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s := collector.Snapshot()
			logger.Info("physics stats",
				"fps", roundTo(s.FPS, 1),
				"hz", roundTo(s.Hz, 1),
				"bodies", s.BodyCount,
				"candidate_pairs", s.CandidatePairs,
				"step_avg_ms", roundTo(s.AvgStepMillis, 3),
				"step_min_ms", roundTo(s.MinStepMillis, 3),
				"step_max_ms", roundTo(s.MaxStepMillis, 3),
			)
		case <-ctx.Done():
			return
		}
	}
}

func roundTo(v float64, decimals int) float64 {
	scale := 1.0
	for i := 0; i < decimals; i++ {
		scale *= 10
	}
	return float64(int64(v*scale+0.5)) / scale
}
