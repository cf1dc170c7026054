package physics

import (
	"math"
	"testing"

	"github.com/0x5844/circlesim/internal/config"
)

// newTestEngine builds an Engine with the spawner disarmed (SpawnLimit set
// to exactly the number of circles the test will append manually), so
// Step's mandatory spawn call is a no-op and the test controls the initial
// state precisely.
func newTestEngine(t *testing.T, n int, gravity, restitution float64, correctionIterations int, boundX, boundY float64) *Engine {
	t.Helper()
	cfg := config.New(config.Config{
		MinRadius:            0.01,
		MaxRadius:            0.5,
		SpawnLimit:           n,
		Gravity:              gravity,
		Restitution:          restitution,
		SpawnRate:            0,
		InitialWindowWidth:   800,
		InitialWindowHeight:  800,
		CorrectionIterations: correctionIterations,
	})
	e := New(cfg)
	t.Cleanup(e.Close)
	e.SetWorldBounds(boundX, boundY)
	return e
}

func appendCircle(e *Engine, x, y, vx, vy, invMass, radius float64) {
	e.store.Append(x, y, vx, vy, invMass, radius, 1, 1, 1, 0)
}

// --- Invariants ---

func TestInvariantArrayCoherence(t *testing.T) {
	e := newTestEngine(t, 3, 1, 0.5, 4, 1, 1)
	appendCircle(e, -0.5, 0.5, 0.2, 0, 1, 0.1)
	appendCircle(e, 0.0, 0.5, -0.2, 0, 1, 0.1)
	appendCircle(e, 0.5, 0.5, 0, 0, 0, 0.1)

	e.Step(0, 1.0/60.0)

	snap := e.Snapshot()
	arrays := [][]float64{
		snap.PositionsX, snap.PositionsY, snap.PreviousPositionsX, snap.PreviousPositionsY,
		snap.R, snap.G, snap.B, snap.Radii, snap.OutlineWidths,
	}
	for _, a := range arrays {
		if len(a) != snap.Count {
			t.Fatalf("array length %d does not match snapshot count %d", len(a), snap.Count)
		}
	}
}

func TestInvariantWallContainment(t *testing.T) {
	e := newTestEngine(t, 1, 1, 0.5, 4, 1, 1)
	appendCircle(e, 0.95, 0, 5, 0, 1, 0.1)

	for i := 0; i < 30; i++ {
		e.Step(float64(i)/60.0, 1.0/60.0)
	}

	snap := e.Snapshot()
	if math.Abs(snap.PositionsX[0])+snap.Radii[0] > 1+1e-3 {
		t.Fatalf("circle escaped x wall: |x|+r = %v", math.Abs(snap.PositionsX[0])+snap.Radii[0])
	}
	if math.Abs(snap.PositionsY[0])+snap.Radii[0] > 1+1e-3 {
		t.Fatalf("circle escaped y wall: |y|+r = %v", math.Abs(snap.PositionsY[0])+snap.Radii[0])
	}
}

func TestInvariantStaticImmovability(t *testing.T) {
	e := newTestEngine(t, 2, 1, 0.5, 4, 1, 1)
	appendCircle(e, 0, -0.85, 0, 0, 0, 0.1) // static floor circle, invMass 0
	appendCircle(e, 0, -0.66, 0, -1, 1, 0.1)

	for i := 0; i < 60; i++ {
		e.Step(float64(i)/60.0, 1.0/60.0)
	}

	snap := e.Snapshot()
	if snap.PositionsX[0] != 0 || snap.PositionsY[0] != -0.85 {
		t.Fatalf("static circle moved: (%v,%v)", snap.PositionsX[0], snap.PositionsY[0])
	}
}

func TestInvariantPenetrationMonotonicDecrease(t *testing.T) {
	e := newTestEngine(t, 3, 0, 0.5, 8, 5, 5)
	appendCircle(e, 0, 0, 0, 0, 1, 0.3)
	appendCircle(e, 0.2, 0, 0, 0, 1, 0.3)
	appendCircle(e, 0.4, 0, 0, 0, 1, 0.3)

	n := e.store.Count()
	sumPositivePenetration := func() float64 {
		total := 0.0
		for _, buf := range e.workerBufs {
			for _, c := range buf {
				if c.Penetration > 0 {
					total += c.Penetration
				}
			}
		}
		return total
	}

	e.detectCollisions(n)
	before := sumPositivePenetration()
	if before <= 0 {
		t.Fatalf("expected initial overlap among stacked circles, got total penetration %v", before)
	}

	prev := before
	for iter := 0; iter < e.cfg.CorrectionIterations; iter++ {
		if iter > 0 {
			e.detectCollisions(n)
		}
		e.forEachContact(func(c Contact) { e.correctPosition(c) })
		e.detectCollisions(n)
		cur := sumPositivePenetration()

		if prev <= 1e-9 {
			if cur > 1e-9 {
				t.Fatalf("iteration %d: penetration reappeared after reaching zero: %v", iter, cur)
			}
		} else if cur >= prev-1e-12 {
			t.Fatalf("iteration %d: total positive penetration did not strictly decrease (%v -> %v)", iter, prev, cur)
		}
		prev = cur
	}
}

func TestInvariantEnergyNonIncreasing(t *testing.T) {
	e := newTestEngine(t, 2, 0, 0.5, 4, 10, 10)
	appendCircle(e, -0.5, 0, 1, 0, 1, 0.1)
	appendCircle(e, 0.5, 0, -1, 0, 1, 0.1)

	kineticEnergy := func() float64 {
		total := 0.0
		for i := 0; i < e.store.Count(); i++ {
			invMass := e.store.InvMass[i]
			if invMass <= 0 {
				continue
			}
			vx, vy := e.store.VX[i], e.store.VY[i]
			total += 0.5 * (1 / invMass) * (vx*vx + vy*vy)
		}
		return total
	}

	for i := 0; i < 200; i++ {
		before := kineticEnergy()
		e.Step(float64(i)/60.0, 1.0/60.0)
		after := kineticEnergy()
		if after > before+1e-6 {
			t.Fatalf("step %d: kinetic energy increased from %v to %v", i, before, after)
		}
	}
}

// --- Head-on elastic collision ---

func TestHeadOnElasticCollision(t *testing.T) {
	e := newTestEngine(t, 2, 0, 1, 4, 10, 10)
	appendCircle(e, -0.5, 0, 1, 0, 1, 0.1)
	appendCircle(e, 0.5, 0, -1, 0, 1, 0.1)

	for i := 0; i < 200; i++ {
		e.Step(float64(i)/60.0, 1.0/60.0)
	}

	snap := e.Snapshot()
	if math.Abs(snap.PositionsX[0]+snap.PositionsX[1]) > 1e-6 {
		t.Fatalf("expected symmetric positions about origin, got %v and %v", snap.PositionsX[0], snap.PositionsX[1])
	}
	if math.Abs(e.store.VX[0]-(-1)) > 1e-4 || math.Abs(e.store.VX[1]-1) > 1e-4 {
		t.Fatalf("expected velocities exchanged to -1 and +1, got %v and %v", e.store.VX[0], e.store.VX[1])
	}
}

// --- Fall and rest ---

func TestFallAndRest(t *testing.T) {
	e := newTestEngine(t, 1, 1, 0, 4, 1.5, 1)
	appendCircle(e, 0, 0.8, 0, 0, 1, 0.1)

	steps := int(10.0 * 60.0)
	for i := 0; i < steps; i++ {
		e.Step(float64(i)/60.0, 1.0/60.0)
	}

	snap := e.Snapshot()
	if math.Abs(snap.PositionsY[0]-(-0.9)) > 1e-3 {
		t.Fatalf("expected y near -0.9, got %v", snap.PositionsY[0])
	}
	// With restitution 0 the floor clamp zeroes vy on every step at rest.
	if math.Abs(e.store.VY[0]) > 1e-3 {
		t.Fatalf("expected vy near 0 at rest, got %v", e.store.VY[0])
	}
}

// --- Stack of three ---

func TestStackOfThree(t *testing.T) {
	e := newTestEngine(t, 3, 1, 0, 6, 1.5, 1)
	appendCircle(e, 0, -0.9, 0, 0, 1, 0.1)
	appendCircle(e, 0, -0.7, 0, 0, 1, 0.1)
	appendCircle(e, 0, -0.5, 0, 0, 1, 0.1)

	steps := int(6.0 * 60.0)
	for i := 0; i < steps; i++ {
		e.Step(float64(i)/60.0, 1.0/60.0)
	}

	snap := e.Snapshot()
	want := []float64{-0.9, -0.7, -0.5}
	for i, w := range want {
		if math.Abs(snap.PositionsY[i]-w) > 1e-2 {
			t.Fatalf("circle %d expected y near %v, got %v", i, w, snap.PositionsY[i])
		}
	}
}

// --- Wall reflection with damping ---

func TestWallReflectionWithDamping(t *testing.T) {
	e := newTestEngine(t, 1, 0, 0.5, 4, 1, 1)
	appendCircle(e, 0, 0, 10, 0, 1, 0.1)

	for i := 0; i < 30; i++ {
		e.Step(float64(i)/60.0, 1.0/60.0)
	}

	snap := e.Snapshot()
	if snap.PositionsX[0] > 1-0.1+1e-6 {
		t.Fatalf("expected circle clamped inside right wall, got x=%v", snap.PositionsX[0])
	}
	// Two damped reflections in 30 steps: right wall (10 -> -5), then left
	// wall (-5 -> 2.5).
	if math.Abs(e.store.VX[0]-2.5) > 1e-9 {
		t.Fatalf("expected vx 2.5 after two reflections at restitution 0.5, got %v", e.store.VX[0])
	}
}

// --- Determinism ---

func TestDeterminismUnderFixedSeed(t *testing.T) {
	run := func() []float64 {
		seed := int64(99)
		cfg := config.New(config.Config{
			MinRadius: 0.05, MaxRadius: 0.1, SpawnLimit: 20, Gravity: 1,
			Restitution: 0.5, SpawnRate: 5, InitialWindowWidth: 800,
			InitialWindowHeight: 800, CorrectionIterations: 4, Seed: &seed,
		})
		e := New(cfg)
		defer e.Close()
		e.SetWorldBounds(1, 1)
		for i := 0; i < 120; i++ {
			e.Step(float64(i)/60.0, 1.0/60.0)
		}
		snap := e.Snapshot()
		out := make([]float64, snap.Count)
		copy(out, snap.PositionsX)
		return out
	}

	a := run()
	b := run()
	if len(a) != len(b) {
		t.Fatalf("mismatched circle counts between runs: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("nondeterministic position at index %d: %v vs %v", i, a[i], b[i])
		}
	}
}

// --- Candidate coverage ---

func TestCandidateCoverage(t *testing.T) {
	e := newTestEngine(t, 3, 0, 1, 1, 5, 5)
	appendCircle(e, 0, 0, 0, 0, 1, 0.2)
	appendCircle(e, 0.1, 0, 0, 0, 1, 0.2)
	appendCircle(e, 3, 3, 0, 0, 1, 0.2) // far away, should not be a candidate

	e.detectCollisions(e.store.Count())

	found := false
	for _, buf := range e.workerBufs {
		for _, c := range buf {
			if (c.I == 0 && c.J == 1) || (c.I == 1 && c.J == 0) {
				found = true
			}
		}
	}
	if !found {
		t.Fatalf("expected overlapping pair (0,1) to be detected as a contact")
	}
}
