package grid

import (
	"errors"
	"math"

	"github.com/geovale/cmip6-index-engine/internal/domain"
)

// Series is an ordered sequence of per-day grids for one variable over a
// fixed region. A series is read-only once built; reductions return new
// grids and never touch the days in place.
type Series struct {
	variable  domain.Variable
	days      []Grid
	converted bool
}

// NewSeries builds a series from day grids, which must share one shape and
// appear in chronological order.
func NewSeries(variable domain.Variable, days []Grid) (Series, error) {
	if len(days) == 0 {
		return Series{}, errors.New("series: no days")
	}
	for _, d := range days[1:] {
		if !d.SameShape(days[0]) {
			return Series{}, errors.New("series: day grids differ in shape")
		}
	}
	return Series{variable: variable, days: days}, nil
}

// Variable returns the series' climate variable.
func (s Series) Variable() domain.Variable { return s.variable }

// Len returns the number of days.
func (s Series) Len() int { return len(s.days) }

// Day returns the grid for day t (0-based).
func (s Series) Day(t int) Grid { return s.days[t] }

// Width and Height return the shared grid shape.
func (s Series) Width() int  { return s.days[0].width }
func (s Series) Height() int { return s.days[0].height }

// Converted reports whether the series has passed unit conversion. The
// engine refuses raw series; only the units adapter sets this flag.
func (s Series) Converted() bool { return s.converted }

// MarkConverted returns a copy flagged as unit-converted. Reserved for the
// units adapter; calling it elsewhere defeats the raw/converted guard.
func (s Series) MarkConverted() Series {
	s.converted = true
	return s
}

// MapDays returns a new series with f applied to every day grid.
func (s Series) MapDays(f func(day Grid) Grid) Series {
	out := make([]Grid, len(s.days))
	for i, d := range s.days {
		out[i] = f(d)
	}
	return Series{variable: s.variable, days: out, converted: s.converted}
}

// CellValues copies the day values of flat cell index i, in day order.
func (s Series) CellValues(i int) []float64 {
	vals := make([]float64, len(s.days))
	for t, d := range s.days {
		vals[t] = d.cells[i]
	}
	return vals
}

// Reduce folds all days per cell. The fold starts from init; NaN day values
// are skipped. Cells with no defined day at all end up NaN.
func (s Series) Reduce(init float64, f func(acc, v float64) float64) Grid {
	n := s.days[0].Size()
	acc := make([]float64, n)
	seen := make([]bool, n)
	for i := range acc {
		acc[i] = init
	}
	for _, d := range s.days {
		for i, v := range d.cells {
			if math.IsNaN(v) {
				continue
			}
			acc[i] = f(acc[i], v)
			seen[i] = true
		}
	}
	for i := range acc {
		if !seen[i] {
			acc[i] = math.NaN()
		}
	}
	return Grid{width: s.Width(), height: s.Height(), cells: acc}
}

// Sum reduces the series to a per-cell total.
func (s Series) Sum() Grid {
	return s.Reduce(0, func(acc, v float64) float64 { return acc + v })
}

// Max reduces the series to a per-cell maximum.
func (s Series) Max() Grid {
	return s.Reduce(math.Inf(-1), math.Max)
}

// Min reduces the series to a per-cell minimum.
func (s Series) Min() Grid {
	return s.Reduce(math.Inf(1), math.Min)
}

// Mean reduces the series to a per-cell mean over defined days.
func (s Series) Mean() Grid {
	n := s.days[0].Size()
	sum := make([]float64, n)
	cnt := make([]int, n)
	for _, d := range s.days {
		for i, v := range d.cells {
			if math.IsNaN(v) {
				continue
			}
			sum[i] += v
			cnt[i]++
		}
	}
	out := make([]float64, n)
	for i := range out {
		if cnt[i] == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum[i] / float64(cnt[i])
	}
	return Grid{width: s.Width(), height: s.Height(), cells: out}
}

// CountWhere reduces the series to a per-cell count of days satisfying pred.
// NaN day values never satisfy the predicate; cells with no defined day at
// all end up NaN.
func (s Series) CountWhere(pred func(v float64) bool) Grid {
	return s.Reduce(0, func(acc, v float64) float64 {
		if pred(v) {
			return acc + 1
		}
		return acc
	})
}
