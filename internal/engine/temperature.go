package engine

import (
	"github.com/geovale/cmip6-index-engine/internal/grid"
)

func (e *Engine) txx(b Bundle) (grid.Grid, error) {
	return b.Tasmax.Max(), nil
}

func (e *Engine) tnn(b Bundle) (grid.Grid, error) {
	return b.Tasmin.Min(), nil
}

// dtr takes the per-day tasmax−tasmin difference, then the per-cell mean
// over days.
func (e *Engine) dtr(b Bundle) (grid.Grid, error) {
	diffs, err := zipDays(*b.Tasmax, *b.Tasmin, func(tx, tn float64) float64 { return tx - tn })
	if err != nil {
		return grid.Grid{}, err
	}
	return diffs.Mean(), nil
}

func (e *Engine) frostDays(b Bundle) (grid.Grid, error) {
	return b.Tasmin.CountWhere(func(v float64) bool { return v < 0 }), nil
}

func (e *Engine) summerDays(b Bundle) (grid.Grid, error) {
	return b.Tasmax.CountWhere(func(v float64) bool { return v > 25 }), nil
}

func (e *Engine) tropicalNights(b Bundle) (grid.Grid, error) {
	return b.Tasmin.CountWhere(func(v float64) bool { return v > 20 }), nil
}

// wsdi is the warm-spell analogue of cwd: the per-cell 90th percentile of
// tasmax over the full series becomes the per-cell streak threshold.
func (e *Engine) wsdi(b Bundle) (grid.Grid, error) {
	thr := percentileGrid(*b.Tasmax, 90)
	return maxStreak(*b.Tasmax, func(i int, v float64) bool { return v > thr.Cell(i) }), nil
}

func (e *Engine) csdi(b Bundle) (grid.Grid, error) {
	thr := percentileGrid(*b.Tasmin, 10)
	return maxStreak(*b.Tasmin, func(i int, v float64) bool { return v < thr.Cell(i) }), nil
}

// tn10p and tx90p report percentile-threshold exceedances as a percentage of
// the period's days, not a raw count.
func (e *Engine) tn10p(b Bundle) (grid.Grid, error) {
	count := countVsPercentile(*b.Tasmin, 10, false)
	total := float64(b.Tasmin.Len())
	return count.Map(func(c float64) float64 { return c / total * 100 }), nil
}

func (e *Engine) tx90p(b Bundle) (grid.Grid, error) {
	count := countVsPercentile(*b.Tasmax, 90, true)
	total := float64(b.Tasmax.Len())
	return count.Map(func(c float64) float64 { return c / total * 100 }), nil
}

// gsl approximates growing season length as the longest run of warm days
// (daily mean above 5°C), gated at the 6-day minimum spell: runs shorter
// than 6 days do not constitute a season and yield 0.
//
// This deliberately tracks only the warm-run boundary. The full WMO
// definition also requires a closing cold-day run after mid-year; modelling
// that needs calendar positions the series does not carry yet.
func (e *Engine) gsl(b Bundle) (grid.Grid, error) {
	const warmMeanC = 5.0
	const minSpellDays = 6.0

	dailyMean, err := zipDays(*b.Tasmax, *b.Tasmin, func(tx, tn float64) float64 { return (tx + tn) / 2 })
	if err != nil {
		return grid.Grid{}, err
	}

	longest := maxStreak(dailyMean, func(_ int, v float64) bool { return v > warmMeanC })
	return longest.Map(func(v float64) float64 {
		if v < minSpellDays {
			return 0
		}
		return v
	}), nil
}

// zipDays combines two equal-length series day by day.
func zipDays(a, b grid.Series, f func(va, vb float64) float64) (grid.Series, error) {
	days := make([]grid.Grid, a.Len())
	for t := 0; t < a.Len(); t++ {
		day, err := a.Day(t).Zip(b.Day(t), f)
		if err != nil {
			return grid.Series{}, err
		}
		days[t] = day
	}
	combined, err := grid.NewSeries(a.Variable(), days)
	if err != nil {
		return grid.Series{}, err
	}
	if a.Converted() && b.Converted() {
		combined = combined.MarkConverted()
	}
	return combined, nil
}
