package engine

import (
	"math"
	"sort"

	"github.com/geovale/cmip6-index-engine/internal/grid"
)

// percentileGrid computes, per cell, the p-th percentile (0–100) of that
// cell's day values across the whole series, with linear interpolation
// between order statistics. The threshold comes from the series itself, not
// from a fixed constant. Cells with no defined day come out NaN.
func percentileGrid(s grid.Series, p float64) grid.Grid {
	n := s.Width() * s.Height()
	out := make([]float64, n)

	for i := 0; i < n; i++ {
		vals := s.CellValues(i)
		sorted := vals[:0]
		for _, v := range vals {
			if !math.IsNaN(v) {
				sorted = append(sorted, v)
			}
		}
		if len(sorted) == 0 {
			out[i] = math.NaN()
			continue
		}
		sort.Float64s(sorted)
		out[i] = interpolate(sorted, p)
	}

	g, _ := grid.FromCells(s.Width(), s.Height(), out)
	return g
}

// interpolate returns the p-th percentile of sorted values.
func interpolate(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// countVsPercentile counts, per cell, the days whose value is above (or
// below) that cell's own p-th percentile.
func countVsPercentile(s grid.Series, p float64, above bool) grid.Grid {
	thr := percentileGrid(s, p)
	n := s.Width() * s.Height()
	count := make([]float64, n)
	defined := make([]bool, n)

	for t := 0; t < s.Len(); t++ {
		day := s.Day(t)
		for i := 0; i < n; i++ {
			v := day.Cell(i)
			if math.IsNaN(v) || math.IsNaN(thr.Cell(i)) {
				continue
			}
			defined[i] = true
			if above && v > thr.Cell(i) {
				count[i]++
			}
			if !above && v < thr.Cell(i) {
				count[i]++
			}
		}
	}

	for i := range count {
		if !defined[i] {
			count[i] = math.NaN()
		}
	}
	out, _ := grid.FromCells(s.Width(), s.Height(), count)
	return out
}
