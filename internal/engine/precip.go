package engine

import (
	"fmt"
	"math"

	"github.com/geovale/cmip6-index-engine/internal/grid"
)

func (e *Engine) totalPrecip(b Bundle) (grid.Grid, error) {
	return b.Precip.Sum(), nil
}

// prcptot masks dry days to zero and sums, rather than filtering days out,
// so every cell still folds over the full day axis.
func (e *Engine) prcptot(b Bundle) (grid.Grid, error) {
	return b.Precip.Reduce(0, func(acc, v float64) float64 {
		if v >= e.wetThreshold {
			return acc + v
		}
		return acc
	}), nil
}

func (e *Engine) rx1day(b Bundle) (grid.Grid, error) {
	return b.Precip.Max(), nil
}

// rx5day takes the maximum over every contiguous 5-day window — window
// starts 0..N-5 — not just calendar-aligned pentads.
func (e *Engine) rx5day(b Bundle) (grid.Grid, error) {
	s := *b.Precip
	const window = 5
	if s.Len() < window {
		return grid.Grid{}, fmt.Errorf("rx5day needs at least %d days, got %d", window, s.Len())
	}

	n := s.Width() * s.Height()
	best := make([]float64, n)
	defined := make([]bool, n)
	for i := range best {
		best[i] = math.Inf(-1)
	}

	for start := 0; start+window <= s.Len(); start++ {
		sum := make([]float64, n)
		ok := make([]bool, n)
		for t := start; t < start+window; t++ {
			day := s.Day(t)
			for i := 0; i < n; i++ {
				v := day.Cell(i)
				if math.IsNaN(v) {
					continue
				}
				sum[i] += v
				ok[i] = true
			}
		}
		for i := 0; i < n; i++ {
			if !ok[i] {
				continue
			}
			defined[i] = true
			if sum[i] > best[i] {
				best[i] = sum[i]
			}
		}
	}

	for i := range best {
		if !defined[i] {
			best[i] = math.NaN()
		}
	}
	out, _ := grid.FromCells(s.Width(), s.Height(), best)
	return out, nil
}

// sdii divides the wet-day precipitation total by the wet-day count. Cells
// with zero wet days are explicitly set to NaN (no-data) rather than left to
// floating-point division.
func (e *Engine) sdii(b Bundle) (grid.Grid, error) {
	wetSum := b.Precip.Reduce(0, func(acc, v float64) float64 {
		if v >= e.wetThreshold {
			return acc + v
		}
		return acc
	})
	wetCount := b.Precip.CountWhere(func(v float64) bool { return v >= e.wetThreshold })

	return wetSum.Zip(wetCount, func(sum, count float64) float64 {
		if count == 0 {
			return math.NaN()
		}
		return sum / count
	})
}

// fixedThresholdCount builds the r10mm/r20mm family: count of days at or
// above a fixed mm/day threshold.
func fixedThresholdCount(mm float64) computeFunc {
	return func(_ *Engine, b Bundle) (grid.Grid, error) {
		return b.Precip.CountWhere(func(v float64) bool { return v >= mm }), nil
	}
}

func (e *Engine) cdd(b Bundle) (grid.Grid, error) {
	thr := e.wetThreshold
	return maxStreak(*b.Precip, func(_ int, v float64) bool { return v < thr }), nil
}

func (e *Engine) cwd(b Bundle) (grid.Grid, error) {
	thr := e.wetThreshold
	return maxStreak(*b.Precip, func(_ int, v float64) bool { return v >= thr }), nil
}

// precipPercentileCount builds the r90p/r95p/r99p family: count of days
// above the series' own p-th percentile.
func precipPercentileCount(p float64) computeFunc {
	return func(_ *Engine, b Bundle) (grid.Grid, error) {
		return countVsPercentile(*b.Precip, p, true), nil
	}
}
