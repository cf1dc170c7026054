package physics

// resolveCollisions runs the velocity pass over every contact detected this
// step, then the K-iteration positional pass. On iteration 0 the
// positional pass reuses the contacts already produced by the velocity
// pass's detection; on each subsequent iteration it re-detects first,
// against positions the previous iteration just corrected.
func (e *Engine) resolveCollisions(n int) {
	e.forEachContact(func(c Contact) {
		e.correctVelocity(c)
	})

	for iter := 0; iter < e.cfg.CorrectionIterations; iter++ {
		if iter > 0 {
			e.detectCollisions(n)
		}
		e.forEachContact(func(c Contact) {
			e.correctPosition(c)
		})
	}
}

// forEachContact iterates every worker's buffer in fixed worker-ID order,
// and within a buffer in candidate-emission order, so the velocity pass's
// order-sensitive impulse application stays reproducible under a fixed
// worker count and seed.
func (e *Engine) forEachContact(fn func(Contact)) {
	for _, buf := range e.workerBufs {
		for _, c := range buf {
			fn(c)
		}
	}
}

// correctVelocity applies the impulse-based velocity correction for one
// contact.
func (e *Engine) correctVelocity(c Contact) {
	s := e.store
	i, j := c.I, c.J

	relVX := s.VX[j] - s.VX[i]
	relVY := s.VY[j] - s.VY[i]
	normalVelocity := relVX*c.NormalX + relVY*c.NormalY

	if normalVelocity > 0 {
		return
	}

	invMassSum := s.InvMass[i] + s.InvMass[j]
	if invMassSum == 0 {
		return
	}

	impulse := -(1 + e.cfg.Restitution) * normalVelocity / invMassSum
	ix, iy := c.NormalX*impulse, c.NormalY*impulse

	s.VX[i] -= ix * s.InvMass[i]
	s.VY[i] -= iy * s.InvMass[i]
	s.VX[j] += ix * s.InvMass[j]
	s.VY[j] += iy * s.InvMass[j]
}

// correctPosition applies one contact's share of positional correction,
// distributing it by inverse mass across each axis independently with
// boundary preservation.
func (e *Engine) correctPosition(c Contact) {
	s := e.store
	i, j := c.I, c.J

	invMassI, invMassJ := s.InvMass[i], s.InvMass[j]
	invMassSum := invMassI + invMassJ
	if invMassSum <= 0 {
		return
	}

	magnitude := c.Penetration / invMassSum
	cx := c.NormalX * magnitude
	cy := c.NormalY * magnitude

	e.correctAxisPosition(&s.X[i], &s.X[j], s.Radius[i], s.Radius[j], invMassI, invMassJ, invMassSum, cx, e.boundX)
	e.correctAxisPosition(&s.Y[i], &s.Y[j], s.Radius[i], s.Radius[j], invMassI, invMassJ, invMassSum, cy, e.boundY)
}

// correctAxisPosition applies the boundary-preserving rule for one axis:
// try the inverse-mass-weighted split; if it would push a participant past
// a wall it's already clamped to, reallocate the entire correction to the
// other participant instead.
func (e *Engine) correctAxisPosition(pi, pj *float64, ri, rj, invMassI, invMassJ, invMassSum, c, bound float64) {
	if c == 0 {
		return
	}

	tentativeI := *pi - c*invMassI
	tentativeJ := *pj + c*invMassJ

	if c > 0 {
		if tentativeI-ri < -bound {
			*pj += c * invMassSum
			return
		}
		if tentativeJ+rj > bound {
			*pi -= c * invMassSum
			return
		}
		*pi, *pj = tentativeI, tentativeJ
		return
	}

	// c < 0
	if tentativeI+ri > bound {
		*pj += c * invMassSum
		return
	}
	if tentativeJ-rj < -bound {
		*pi -= c * invMassSum
		return
	}
	*pi, *pj = tentativeI, tentativeJ
}
