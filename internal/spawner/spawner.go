// Package spawner implements the rate-limited circle creation process:
// while the live count is below the time-scaled target, append one circle
// at a time with randomized attributes in a fixed sampling order.
package spawner

import (
	"math/rand"

	"github.com/0x5844/circlesim/internal/particles"
)

// Params holds the subset of engine configuration the spawner needs. It is
// a plain value type so this package has no dependency on internal/config.
type Params struct {
	MinRadius, MaxRadius float64
	SpawnLimit           int
	Gravity              float64
	SpawnRate            float64
	InitialAspectRatio   float64
	InitialWindowHeight  float64
}

// Spawner owns the PRNG and the sampling distributions derived from Params.
type Spawner struct {
	params Params
	rng    *rand.Rand
}

// New returns a Spawner drawing from rng. The caller owns rng's lifetime
// and seeding policy (see internal/physics for the nondeterministic vs.
// fixed-seed construction paths).
func New(params Params, rng *rand.Rand) *Spawner {
	return &Spawner{params: params, rng: rng}
}

func (s *Spawner) uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

// targetCount is the number of circles that should exist by simTime,
// clamped to SpawnLimit. spawnRate <= 0 means "spawn all at once".
func (s *Spawner) targetCount(simTime float64) int {
	if s.params.SpawnRate <= 0 {
		return s.params.SpawnLimit
	}
	target := int(s.params.SpawnRate * simTime)
	if target > s.params.SpawnLimit {
		target = s.params.SpawnLimit
	}
	return target
}

// Spawn appends circles to store until store.Count() reaches the target
// implied by simTime. Sampling order per circle is radius, X, Y, vx, vy,
// r, g, b — fixed for determinism under a seeded PRNG.
func (s *Spawner) Spawn(simTime float64, store *particles.Store) {
	target := s.targetCount(simTime)

	for store.Count() < target {
		radius := s.uniform(s.params.MinRadius, s.params.MaxRadius)

		const density = 1.0
		mass := radius * radius * density
		invMass := 0.0
		if mass != 0 {
			invMass = 1.0 / mass
		}

		x := s.uniform(-0.9*s.params.InitialAspectRatio, 0.9*s.params.InitialAspectRatio)

		// Under gravity circles drop from the ceiling so something
		// happens; with no gravity, Y is sampled across the arena
		// height like X.
		var y float64
		if s.params.Gravity > 0 {
			y = 1.0
		} else {
			y = s.uniform(-0.9, 0.9)
		}

		vx := s.uniform(-1, 1)
		vy := s.uniform(-1, 1)

		r := s.uniform(0.4, 1)
		g := s.uniform(0.4, 1)
		b := s.uniform(0.4, 1)

		outlineWidth := 2.0 / (radius * s.params.InitialWindowHeight)

		store.Append(x, y, vx, vy, invMass, radius, r, g, b, outlineWidth)
	}
}
