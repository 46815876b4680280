package engine_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geovale/cmip6-index-engine/internal/domain"
	"github.com/geovale/cmip6-index-engine/internal/engine"
	"github.com/geovale/cmip6-index-engine/internal/grid"
)

func tempValue(t *testing.T, e *engine.Engine, key string, tasmax, tasmin []float64) float64 {
	t.Helper()
	b := engine.TempBundle(
		convertedSeries(t, domain.VarTasmax, tasmax...),
		convertedSeries(t, domain.VarTasmin, tasmin...),
	)
	agg, _, err := e.Calculate(b, key)
	require.NoError(t, err)
	return agg.Grid.Cell(0)
}

func TestTxxTnnDtr(t *testing.T) {
	e := engine.New()
	tasmax := []float64{30, 32}
	tasmin := []float64{20, 24}

	assert.Equal(t, 32.0, tempValue(t, e, "txx", tasmax, tasmin))
	assert.Equal(t, 20.0, tempValue(t, e, "tnn", tasmax, tasmin))
	assert.Equal(t, 9.0, tempValue(t, e, "dtr", tasmax, tasmin), "mean of 10 and 8")
}

func TestFixedTemperatureThresholdCounts(t *testing.T) {
	e := engine.New()

	t.Run("frost days below 0", func(t *testing.T) {
		tasmin := []float64{-2, 1, -0.5}
		got := tempValue(t, e, "fd", []float64{5, 6, 7}, tasmin)
		assert.Equal(t, 2.0, got)
	})

	t.Run("summer days above 25", func(t *testing.T) {
		tasmax := []float64{26, 24, 30}
		got := tempValue(t, e, "su", tasmax, []float64{10, 10, 10})
		assert.Equal(t, 2.0, got)
	})

	t.Run("tropical nights above 20", func(t *testing.T) {
		tasmin := []float64{21, 19, 25}
		got := tempValue(t, e, "tr", []float64{30, 30, 30}, tasmin)
		assert.Equal(t, 2.0, got)
	})
}

// ramp builds n strictly increasing values starting at base.
func ramp(base float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = base + float64(i)
	}
	return out
}

func TestWsdiCountsWarmSpellAtSeriesEnd(t *testing.T) {
	e := engine.New()
	tasmax := ramp(1, 20) // 1..20, p90 ≈ 18.1, days 19 and 20 exceed it
	tasmin := ramp(-5, 20)

	got := tempValue(t, e, "wsdi", tasmax, tasmin)
	assert.Equal(t, 2.0, got)
}

func TestCsdiCountsColdSpellAtSeriesStart(t *testing.T) {
	e := engine.New()
	tasmax := ramp(10, 20)
	tasmin := ramp(1, 20) // 1..20, p10 ≈ 2.9, days 1 and 2 fall below it

	got := tempValue(t, e, "csdi", tasmax, tasmin)
	assert.Equal(t, 2.0, got)
}

func TestTn10pTx90pArePercentages(t *testing.T) {
	e := engine.New()
	tasmax := ramp(20, 10)
	tasmin := ramp(5, 10)

	tn10p := tempValue(t, e, "tn10p", tasmax, tasmin)
	tx90p := tempValue(t, e, "tx90p", tasmax, tasmin)

	// One of ten days sits past each tail threshold.
	assert.InDelta(t, 10.0, tn10p, 1e-9)
	assert.InDelta(t, 10.0, tx90p, 1e-9)

	assert.GreaterOrEqual(t, tn10p, 0.0)
	assert.LessOrEqual(t, tn10p, 100.0)
	assert.GreaterOrEqual(t, tx90p, 0.0)
	assert.LessOrEqual(t, tx90p, 100.0)
}

func TestGslRequiresSixDaySpell(t *testing.T) {
	e := engine.New()

	warm := func(n int) ([]float64, []float64) {
		tasmax := make([]float64, n+2)
		tasmin := make([]float64, n+2)
		for i := 0; i < n; i++ {
			tasmax[i] = 10
			tasmin[i] = 10
		}
		// Trailing cold days end the run (daily mean 0).
		return tasmax, tasmin
	}

	t.Run("five warm days is no season", func(t *testing.T) {
		tasmax, tasmin := warm(5)
		assert.Equal(t, 0.0, tempValue(t, e, "gsl", tasmax, tasmin))
	})

	t.Run("seven warm days counts in full", func(t *testing.T) {
		tasmax, tasmin := warm(7)
		assert.Equal(t, 7.0, tempValue(t, e, "gsl", tasmax, tasmin))
	})
}

func TestGslUsesDailyMeanNotExtremes(t *testing.T) {
	e := engine.New()
	// tasmax alone clears 5°C but the mean (tasmax+tasmin)/2 = 4 does not.
	tasmax := []float64{12, 12, 12, 12, 12, 12, 12}
	tasmin := []float64{-4, -4, -4, -4, -4, -4, -4}

	assert.Equal(t, 0.0, tempValue(t, e, "gsl", tasmax, tasmin))
}

func TestDtrPropagatesNoDataCells(t *testing.T) {
	e := engine.New()

	tasmaxDay, err := grid.FromCells(2, 1, []float64{30, 31})
	require.NoError(t, err)
	tasminDay, err := grid.FromCells(2, 1, []float64{20, math.NaN()})
	require.NoError(t, err)

	tasmax, err := grid.NewSeries(domain.VarTasmax, []grid.Grid{tasmaxDay})
	require.NoError(t, err)
	tasmin, err := grid.NewSeries(domain.VarTasmin, []grid.Grid{tasminDay})
	require.NoError(t, err)

	agg, _, err := e.Calculate(
		engine.TempBundle(tasmax.MarkConverted(), tasmin.MarkConverted()), "dtr")
	require.NoError(t, err)

	assert.Equal(t, 10.0, agg.Grid.Cell(0))
	assert.True(t, math.IsNaN(agg.Grid.Cell(1)))
}
