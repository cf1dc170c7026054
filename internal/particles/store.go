// Package particles holds the structure-of-arrays store for every live
// circle: current and previous position, velocity, inverse mass, radius,
// color, and outline width. Indices are stable for the lifetime of the
// process; there is no deletion.
package particles

// Store is the parallel-array backing for all live circles. All slices
// always have equal length, reported by Count.
type Store struct {
	X, Y   []float64
	PX, PY []float64
	VX, VY []float64

	InvMass []float64
	Radius  []float64

	R, G, B      []float64
	OutlineWidth []float64
}

// New returns a Store with capacity reserved for the given spawn limit.
func New(capacity int) *Store {
	if capacity < 0 {
		capacity = 0
	}
	return &Store{
		X:            make([]float64, 0, capacity),
		Y:            make([]float64, 0, capacity),
		PX:           make([]float64, 0, capacity),
		PY:           make([]float64, 0, capacity),
		VX:           make([]float64, 0, capacity),
		VY:           make([]float64, 0, capacity),
		InvMass:      make([]float64, 0, capacity),
		Radius:       make([]float64, 0, capacity),
		R:            make([]float64, 0, capacity),
		G:            make([]float64, 0, capacity),
		B:            make([]float64, 0, capacity),
		OutlineWidth: make([]float64, 0, capacity),
	}
}

// Count is the number of live circles, i.e. the shared length of every
// parallel array.
func (s *Store) Count() int {
	return len(s.X)
}

// Append adds one circle at index Count(), initializing its previous
// position to its current position. Only ever called from inside Step,
// before any reads for the step begin, so an append never leaves the
// arrays visible in a half-appended state.
func (s *Store) Append(x, y, vx, vy, invMass, radius, r, g, b, outlineWidth float64) {
	s.X = append(s.X, x)
	s.Y = append(s.Y, y)
	s.PX = append(s.PX, x)
	s.PY = append(s.PY, y)
	s.VX = append(s.VX, vx)
	s.VY = append(s.VY, vy)
	s.InvMass = append(s.InvMass, invMass)
	s.Radius = append(s.Radius, radius)
	s.R = append(s.R, r)
	s.G = append(s.G, g)
	s.B = append(s.B, b)
	s.OutlineWidth = append(s.OutlineWidth, outlineWidth)
}
