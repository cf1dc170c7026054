package physics

// snapshotPreviousPositions records (px, py) := (x, y) for every live
// index, giving the host a stable interpolation anchor for this step.
func (e *Engine) snapshotPreviousPositions(n int) {
	s := e.store
	for i := 0; i < n; i++ {
		s.PX[i] = s.X[i]
		s.PY[i] = s.Y[i]
	}
}

// integrate applies semi-implicit Euler: gravity updates velocity before
// position uses it, which stays conditionally stable for bounded
// restitution without needing explicit damping.
func (e *Engine) integrate(n int, dt float64) {
	s := e.store
	gravity := e.cfg.Gravity

	for i := 0; i < n; i++ {
		if s.InvMass[i] > 0 {
			s.VY[i] -= gravity * dt
		}
		s.X[i] += s.VX[i] * dt
		s.Y[i] += s.VY[i] * dt
	}
}
