// Package grid provides dense 2D rasters and ordered daily series of them,
// the value types all index math operates on. Grids are immutable by
// convention: every transform allocates a new grid. NaN is the no-data
// sentinel for cells outside the region or undefined results.
package grid

import (
	"fmt"
	"math"
)

// Grid is a dense 2D float64 raster over a fixed region. Cells are stored
// row-major; NaN marks no-data.
type Grid struct {
	width  int
	height int
	cells  []float64
}

// New creates a grid of the given shape with every cell set to NaN.
func New(width, height int) Grid {
	cells := make([]float64, width*height)
	for i := range cells {
		cells[i] = math.NaN()
	}
	return Grid{width: width, height: height, cells: cells}
}

// Fill creates a grid of the given shape with every cell set to v.
func Fill(width, height int, v float64) Grid {
	cells := make([]float64, width*height)
	for i := range cells {
		cells[i] = v
	}
	return Grid{width: width, height: height, cells: cells}
}

// FromCells creates a grid backed by a copy of cells, which must hold
// width*height values in row-major order.
func FromCells(width, height int, cells []float64) (Grid, error) {
	if len(cells) != width*height {
		return Grid{}, fmt.Errorf("grid: %d cells for %dx%d shape", len(cells), width, height)
	}
	dup := make([]float64, len(cells))
	copy(dup, cells)
	return Grid{width: width, height: height, cells: dup}, nil
}

// Width returns the number of columns.
func (g Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g Grid) Height() int { return g.height }

// Size returns the total cell count.
func (g Grid) Size() int { return len(g.cells) }

// At returns the value at column x, row y.
func (g Grid) At(x, y int) float64 { return g.cells[y*g.width+x] }

// Cell returns the value at flat index i.
func (g Grid) Cell(i int) float64 { return g.cells[i] }

// SameShape reports whether two grids have identical dimensions.
func (g Grid) SameShape(o Grid) bool {
	return g.width == o.width && g.height == o.height
}

// Map returns a new grid with f applied per cell. NaN cells stay NaN.
func (g Grid) Map(f func(v float64) float64) Grid {
	out := make([]float64, len(g.cells))
	for i, v := range g.cells {
		if math.IsNaN(v) {
			out[i] = v
			continue
		}
		out[i] = f(v)
	}
	return Grid{width: g.width, height: g.height, cells: out}
}

// Zip combines two grids of identical shape per cell. A NaN on either side
// yields NaN.
func (g Grid) Zip(o Grid, f func(a, b float64) float64) (Grid, error) {
	if !g.SameShape(o) {
		return Grid{}, fmt.Errorf("grid: shape mismatch %dx%d vs %dx%d",
			g.width, g.height, o.width, o.height)
	}
	out := make([]float64, len(g.cells))
	for i := range g.cells {
		a, b := g.cells[i], o.cells[i]
		if math.IsNaN(a) || math.IsNaN(b) {
			out[i] = math.NaN()
			continue
		}
		out[i] = f(a, b)
	}
	return Grid{width: g.width, height: g.height, cells: out}, nil
}

// MinMax returns the smallest and largest defined cell values. ok is false
// when every cell is NaN.
func (g Grid) MinMax() (min, max float64, ok bool) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, v := range g.cells {
		if math.IsNaN(v) {
			continue
		}
		ok = true
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max, ok
}

// Mean returns the arithmetic mean of the defined cells. ok is false when
// every cell is NaN.
func (g Grid) Mean() (float64, bool) {
	var sum float64
	var n int
	for _, v := range g.cells {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN(), false
	}
	return sum / float64(n), true
}

// Aggregate is a single reduced grid tagged with the climate index that
// produced it.
type Aggregate struct {
	Index string
	Grid  Grid
}
