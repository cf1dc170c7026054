package physics

// resolveWallCollisions clamps each circle to the arena on each axis
// independently and reflects velocity by -restitution. Each axis is
// handled with a single if/else-if pass; a circle cannot straddle both
// walls of an axis given 2*radius < 2*bound.
func (e *Engine) resolveWallCollisions(n int) {
	s := e.store
	restitution := e.cfg.Restitution
	boundX, boundY := e.boundX, e.boundY

	for i := 0; i < n; i++ {
		x, y, r := s.X[i], s.Y[i], s.Radius[i]

		if x-r < -boundX {
			s.VX[i] = -s.VX[i] * restitution
			s.X[i] = -boundX + r
		} else if x+r > boundX {
			s.VX[i] = -s.VX[i] * restitution
			s.X[i] = boundX - r
		}

		if y-r < -boundY {
			s.VY[i] = -s.VY[i] * restitution
			s.Y[i] = -boundY + r
		} else if y+r > boundY {
			s.VY[i] = -s.VY[i] * restitution
			s.Y[i] = boundY - r
		}
	}
}
