package telemetry

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"
)

func TestSnapshotBeforeAnyFrameIsZero(t *testing.T) {
	c := NewCollector()
	s := c.Snapshot()
	if s.FPS != 0 || s.Frames != 0 {
		t.Fatalf("expected zero-value snapshot before any frame, got %+v", s)
	}
}

func TestRecordFrameAccumulatesMinMaxAvg(t *testing.T) {
	c := NewCollector()
	c.RecordFrame(10*time.Millisecond, 5, 20, 60)
	c.RecordFrame(20*time.Millisecond, 8, 22, 59)
	c.RecordFrame(6*time.Millisecond, 3, 22, 60)

	s := c.Snapshot()
	if s.Frames != 3 {
		t.Fatalf("expected 3 frames, got %d", s.Frames)
	}
	if s.MinStepMillis != 6 {
		t.Fatalf("expected min 6ms, got %v", s.MinStepMillis)
	}
	if s.MaxStepMillis != 20 {
		t.Fatalf("expected max 20ms, got %v", s.MaxStepMillis)
	}
	if s.AvgStepMillis != 12 {
		t.Fatalf("expected avg 12ms, got %v", s.AvgStepMillis)
	}
	if s.BodyCount != 22 || s.CandidatePairs != 3 || s.Hz != 60 {
		t.Fatalf("expected latest-frame counters to win, got %+v", s)
	}
}

func TestReportStopsOnContextCancel(t *testing.T) {
	c := NewCollector()
	c.RecordFrame(time.Millisecond, 1, 1, 60)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		Report(ctx, logger, c, time.Millisecond)
		close(done)
	}()

	time.Sleep(5 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Report did not return after context cancellation")
	}
}
