package physics

import (
	"math"

	"github.com/0x5844/circlesim/internal/vecmath"
)

// detectCollisions clears the per-worker contact buffers, builds candidate
// pairs (via the spatial grid, or exhaustively if partitioning is
// disabled), and narrow-phases them into the worker buffers. Returns the
// number of candidate pairs evaluated.
func (e *Engine) detectCollisions(n int) int {
	for i := range e.workerBufs {
		e.workerBufs[i] = e.workerBufs[i][:0]
	}

	if e.cfg.DisableSpatialPartition {
		return e.detectExhaustive(n)
	}
	return e.detectPartitioned(n)
}

func (e *Engine) detectPartitioned(n int) int {
	s := e.store

	e.grid.UpdateDimensions(e.boundX, e.boundY)
	e.grid.Clear()
	for i := 0; i < n; i++ {
		e.grid.Insert(i, vecmath.New(s.X[i], s.Y[i]))
	}

	e.pairs = e.grid.EnumerateCandidatePairs(e.pairs[:0])
	total := len(e.pairs)

	if total < parallelThreshold {
		buf := e.workerBufs[0]
		for _, p := range e.pairs {
			buf = e.narrowPhase(p.First, p.Second, buf)
		}
		e.workerBufs[0] = buf
		return total
	}

	e.dispatchParallel(total)
	return total
}

// dispatchParallel partitions e.pairs into contiguous, roughly-equal
// slices, one per worker, and narrow-phases each slice into that worker's
// own buffer with no locking: buffers are disjoint by worker index, so
// there's nothing to synchronize until Wait.
func (e *Engine) dispatchParallel(total int) {
	workers := len(e.workerBufs)
	batchSize := (total + workers - 1) / workers

	submitted := 0
	for w := 0; w < workers; w++ {
		start := w * batchSize
		end := start + batchSize
		if end > total {
			end = total
		}
		if start >= end {
			continue
		}
		submitted++
		w := w
		e.pool.Submit(func() {
			buf := e.workerBufs[w]
			pairs := e.pairs[start:end]
			for _, p := range pairs {
				buf = e.narrowPhase(p.First, p.Second, buf)
			}
			e.workerBufs[w] = buf
		})
	}
	if submitted > 0 {
		e.pool.Wait()
	}
}

// detectExhaustive emits every O(N^2) pair, narrow-phasing each serially
// into worker 0's buffer. Used when spatial partitioning is disabled.
func (e *Engine) detectExhaustive(n int) int {
	buf := e.workerBufs[0]
	total := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			buf = e.narrowPhase(i, j, buf)
			total++
		}
	}
	e.workerBufs[0] = buf
	return total
}

// narrowPhase tests circles i and j for overlap and appends a contact
// record if they penetrate. The square root is only taken on a hit. The
// pair is ordered so that the recorded I is always below J.
func (e *Engine) narrowPhase(i, j int, out []Contact) []Contact {
	if i > j {
		i, j = j, i
	}
	s := e.store

	dx := s.X[j] - s.X[i]
	dy := s.Y[j] - s.Y[i]
	distSq := dx*dx + dy*dy

	radiiSum := s.Radius[i] + s.Radius[j]
	radiiSumSq := radiiSum * radiiSum

	if distSq >= radiiSumSq {
		return out
	}

	dist := math.Sqrt(distSq)
	var nx, ny float64
	if dist >= 1e-4 {
		inv := 1.0 / dist
		nx, ny = dx*inv, dy*inv
	}

	return append(out, Contact{
		I:           i,
		J:           j,
		NormalX:     nx,
		NormalY:     ny,
		Penetration: radiiSum - dist,
	})
}
