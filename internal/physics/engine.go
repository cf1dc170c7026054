// Package physics implements the fixed-timestep circle physics core:
// integration, wall handling, broad/narrow-phase contact detection, and
// impulse + positional contact resolution, orchestrated by Engine.Step in
// a fixed order.
package physics

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"math/rand"

	"github.com/0x5844/circlesim/internal/config"
	"github.com/0x5844/circlesim/internal/particles"
	"github.com/0x5844/circlesim/internal/spatialgrid"
	"github.com/0x5844/circlesim/internal/spawner"
	"github.com/0x5844/circlesim/internal/workerpool"
)

// parallelThreshold is the candidate-pair count at or above which
// detection shards across the worker pool instead of running serially.
const parallelThreshold = 5000

// Contact is a narrow-phase result: (i, j, normal, penetration), normal
// pointing from i to j. I and J are store indices with I < J, whatever
// order the broad phase produced the candidate pair in.
type Contact struct {
	I, J        int
	NormalX     float64
	NormalY     float64
	Penetration float64
}

// Snapshot is a read-only view into the live particle store, valid until
// the next call to Step. Slices alias the store's backing arrays rather
// than copying, so a caller must finish reading a Snapshot before
// stepping again.
type Snapshot struct {
	PositionsX, PositionsY                 []float64
	PreviousPositionsX, PreviousPositionsY []float64
	R, G, B                                []float64
	Radii, OutlineWidths                   []float64
	Count                                  int
}

// Engine owns the particle store, spatial grid, worker pool, and spawner
// for one simulation.
type Engine struct {
	cfg *config.Config

	store   *particles.Store
	grid    *spatialgrid.Grid
	pool    *workerpool.Pool
	spawner *spawner.Spawner

	boundX, boundY float64

	pairs      []spatialgrid.Pair
	workerBufs [][]Contact
}

// New constructs an Engine from a clamped config. World bounds start at the
// configured initial aspect ratio with unit half-height, matching the
// spawner's own initial assumption; the host should call SetWorldBounds
// before the first Step once it knows the real viewport.
func New(cfg *config.Config) *Engine {
	boundX := cfg.InitialAspectRatio
	boundY := 1.0

	workerCount := cfg.WorkerCount
	if workerCount <= 0 {
		workerCount = workerpool.DefaultWorkerCount()
	}

	e := &Engine{
		cfg:    cfg,
		store:  particles.New(cfg.SpawnLimit),
		grid:   spatialgrid.New(2*cfg.MaxRadius, boundX, boundY),
		pool:   workerpool.New(workerCount),
		boundX: boundX,
		boundY: boundY,
	}

	e.spawner = spawner.New(spawner.Params{
		MinRadius:           cfg.MinRadius,
		MaxRadius:           cfg.MaxRadius,
		SpawnLimit:          cfg.SpawnLimit,
		Gravity:             cfg.Gravity,
		SpawnRate:           cfg.SpawnRate,
		InitialAspectRatio:  cfg.InitialAspectRatio,
		InitialWindowHeight: cfg.InitialWindowHeight,
	}, newRNG(cfg.Seed))

	workers := e.pool.WorkerCount()
	e.workerBufs = make([][]Contact, workers)
	for i := range e.workerBufs {
		e.workerBufs[i] = make([]Contact, 0, cfg.SpawnLimit)
	}

	return e
}

// newRNG seeds a *rand.Rand from the config seed if provided, otherwise
// from crypto/rand entropy, so runs are deterministic only when a seed is
// explicitly requested.
func newRNG(seed *int64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewSource(*seed))
	}
	var buf [8]byte
	if _, err := cryptorand.Read(buf[:]); err != nil {
		return rand.New(rand.NewSource(1))
	}
	return rand.New(rand.NewSource(int64(binary.LittleEndian.Uint64(buf[:]))))
}

// SetWorldBounds mutates the arena extents. Takes effect at the next Step.
func (e *Engine) SetWorldBounds(boundX, boundY float64) {
	e.boundX = boundX
	e.boundY = boundY
}

// Close shuts down the engine's worker pool. Safe to call once, after the
// engine will no longer be stepped.
func (e *Engine) Close() {
	e.pool.Close()
}

// Snapshot returns a read-only view of the current particle store.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		PositionsX:         e.store.X,
		PositionsY:         e.store.Y,
		PreviousPositionsX: e.store.PX,
		PreviousPositionsY: e.store.PY,
		R:                  e.store.R,
		G:                  e.store.G,
		B:                  e.store.B,
		Radii:              e.store.Radius,
		OutlineWidths:      e.store.OutlineWidth,
		Count:              e.store.Count(),
	}
}

// Step advances the simulation by dt seconds of simulated time at
// simulation-clock simTime, in fixed order: spawn, snapshot previous
// positions, integrate, resolve walls, detect contacts, resolve contacts.
// Returns the number of candidate pairs evaluated during detection, for
// host telemetry.
func (e *Engine) Step(simTime, dt float64) int {
	e.spawner.Spawn(simTime, e.store)

	n := e.store.Count()
	e.snapshotPreviousPositions(n)
	e.integrate(n, dt)
	e.resolveWallCollisions(n)

	candidatePairs := e.detectCollisions(n)
	e.resolveCollisions(n)

	return candidatePairs
}
