package engine

import (
	"math"

	"github.com/geovale/cmip6-index-engine/internal/grid"
)

// cellPredicate evaluates one day's value at flat cell index i. Per-cell
// thresholds (percentile spells) need the index; fixed thresholds ignore it.
type cellPredicate func(i int, v float64) bool

// maxStreak scans the series once and returns, per cell, the longest run of
// consecutive days satisfying pred.
//
// The recurrence is streak[t] = pred(t) * (streak[t-1] + 1): a satisfied day
// extends the run, an unsatisfied day collapses it to the day's own boolean
// value (0). Streak state starts at 0 before the first day, and the running
// per-cell maximum over the whole scan is the result. NaN day values never
// satisfy the predicate; cells with no defined day at all come out NaN.
func maxStreak(s grid.Series, pred cellPredicate) grid.Grid {
	n := s.Width() * s.Height()
	streak := make([]float64, n)
	best := make([]float64, n)
	defined := make([]bool, n)

	for t := 0; t < s.Len(); t++ {
		day := s.Day(t)
		for i := 0; i < n; i++ {
			v := day.Cell(i)
			if !math.IsNaN(v) {
				defined[i] = true
			}
			if !math.IsNaN(v) && pred(i, v) {
				streak[i]++
			} else {
				streak[i] = 0
			}
			if streak[i] > best[i] {
				best[i] = streak[i]
			}
		}
	}

	for i := range best {
		if !defined[i] {
			best[i] = math.NaN()
		}
	}
	out, _ := grid.FromCells(s.Width(), s.Height(), best)
	return out
}
