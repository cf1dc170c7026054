// Package spatialgrid implements the uniform-cell broad-phase partition
// used by the contact detector: a fixed cell size, cleared and repopulated
// once per step, whose enumeration stencil visits every unordered pair of
// candidate indices in adjacent cells exactly once.
package spatialgrid

import "github.com/0x5844/circlesim/internal/vecmath"

// Pair is an unordered candidate pair of particle indices.
type Pair struct {
	First, Second int
}

// Grid is a uniform-cell spatial hash over a world rectangle centered at
// the origin with half-extents (boundX, boundY). Cell size is fixed for the
// grid's lifetime; only the cell counts are recomputed on resize.
type Grid struct {
	cellSize float64

	boundX, boundY float64
	cellCountX     int
	cellCountY     int

	cells [][]int
}

// New creates a grid with the given fixed cell size, sized initially for
// the given world half-extents.
func New(cellSize, boundX, boundY float64) *Grid {
	if cellSize < 0.01 {
		cellSize = 0.01
	}
	g := &Grid{cellSize: cellSize}
	g.UpdateDimensions(boundX, boundY)
	return g
}

// UpdateDimensions recomputes the cell counts for new world half-extents.
// The backing store is reallocated only when the cell counts actually
// change, so a step that doesn't resize the arena costs nothing here.
func (g *Grid) UpdateDimensions(boundX, boundY float64) {
	g.boundX = boundX
	g.boundY = boundY

	newCountX := int(2.0*boundX/g.cellSize) + 1
	newCountY := int(2.0*boundY/g.cellSize) + 1
	if newCountX < 1 {
		newCountX = 1
	}
	if newCountY < 1 {
		newCountY = 1
	}

	if newCountX != g.cellCountX || newCountY != g.cellCountY {
		g.cellCountX = newCountX
		g.cellCountY = newCountY
		g.cells = make([][]int, g.cellCountX*g.cellCountY)
	}
}

// Clear empties every cell but keeps the backing slice allocations, so
// repeated per-step clear/insert cycles don't churn the allocator.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

func (g *Grid) cellIndex(pos vecmath.Vector2) (cx, cy int) {
	cx = int((pos.X + g.boundX) / g.cellSize)
	cy = int((pos.Y + g.boundY) / g.cellSize)
	return
}

func (g *Grid) validCell(cx, cy int) bool {
	return cx >= 0 && cx < g.cellCountX && cy >= 0 && cy < g.cellCountY
}

// Insert adds value to the cell containing pos. Values whose cell falls
// outside the grid are silently dropped; this is a transient resize
// artifact and the integrator will pull the particle back within the next
// few steps.
func (g *Grid) Insert(value int, pos vecmath.Vector2) {
	cx, cy := g.cellIndex(pos)
	if !g.validCell(cx, cy) {
		return
	}
	idx := cy*g.cellCountX + cx
	g.cells[idx] = append(g.cells[idx], value)
}

// EnumerateCandidatePairs appends every unordered pair of indices sharing a
// cell or occupying adjacent cells to out, following the mandatory 5-case
// stencil: same cell, right, below, below-right, below-left. This visits
// every 8-neighborhood adjacency exactly once with no duplicates.
func (g *Grid) EnumerateCandidatePairs(out []Pair) []Pair {
	for cy := 0; cy < g.cellCountY; cy++ {
		for cx := 0; cx < g.cellCountX; cx++ {
			cell := g.cells[cy*g.cellCountX+cx]

			for i := 0; i < len(cell); i++ {
				for j := i + 1; j < len(cell); j++ {
					out = append(out, Pair{cell[i], cell[j]})
				}
			}

			if cx+1 < g.cellCountX {
				out = appendCross(out, cell, g.cells[cy*g.cellCountX+cx+1])
			}
			if cy+1 < g.cellCountY {
				out = appendCross(out, cell, g.cells[(cy+1)*g.cellCountX+cx])
			}
			if cx+1 < g.cellCountX && cy+1 < g.cellCountY {
				out = appendCross(out, cell, g.cells[(cy+1)*g.cellCountX+cx+1])
			}
			if cx > 0 && cy+1 < g.cellCountY {
				out = appendCross(out, cell, g.cells[(cy+1)*g.cellCountX+cx-1])
			}
		}
	}
	return out
}

func appendCross(out []Pair, a, b []int) []Pair {
	for _, first := range a {
		for _, second := range b {
			out = append(out, Pair{first, second})
		}
	}
	return out
}
