package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geovale/cmip6-index-engine/internal/domain"
	"github.com/geovale/cmip6-index-engine/internal/engine"
	"github.com/geovale/cmip6-index-engine/internal/grid"
)

// convertedSeries builds a single-cell series of already-converted values
// (mm/day or °C, one value per day).
func convertedSeries(t *testing.T, v domain.Variable, values ...float64) grid.Series {
	t.Helper()
	days := make([]grid.Grid, len(values))
	for i, val := range values {
		g, err := grid.FromCells(1, 1, []float64{val})
		require.NoError(t, err)
		days[i] = g
	}
	s, err := grid.NewSeries(v, days)
	require.NoError(t, err)
	return s.MarkConverted()
}

// rawSeries builds a single-cell series without the converted flag.
func rawSeries(t *testing.T, v domain.Variable, values ...float64) grid.Series {
	t.Helper()
	days := make([]grid.Grid, len(values))
	for i, val := range values {
		g, err := grid.FromCells(1, 1, []float64{val})
		require.NoError(t, err)
		days[i] = g
	}
	s, err := grid.NewSeries(v, days)
	require.NoError(t, err)
	return s
}

func TestCalculateUnknownIndex(t *testing.T) {
	e := engine.New()
	b := engine.PrecipBundle(convertedSeries(t, domain.VarPrecipitation, 1, 2, 3))

	_, _, err := e.Calculate(b, "snow_depth")
	require.Error(t, err)

	var unknown *domain.UnknownIndexError
	assert.ErrorAs(t, err, &unknown)
}

func TestCalculateRejectsRawPrecipSeries(t *testing.T) {
	e := engine.New()
	b := engine.PrecipBundle(rawSeries(t, domain.VarPrecipitation, 1, 2, 3))

	_, _, err := e.Calculate(b, "rx1day")
	require.Error(t, err)

	var comp *domain.IndexComputationError
	require.ErrorAs(t, err, &comp)
	assert.Contains(t, comp.Err.Error(), "unit-converted")
}

func TestCalculateRejectsRawTemperatureSeries(t *testing.T) {
	e := engine.New()
	b := engine.TempBundle(
		rawSeries(t, domain.VarTasmax, 300),
		convertedSeries(t, domain.VarTasmin, 10),
	)

	_, _, err := e.Calculate(b, "txx")
	assert.Error(t, err)
}

func TestCalculateRejectsMismatchedTemperatureLengths(t *testing.T) {
	e := engine.New()
	b := engine.TempBundle(
		convertedSeries(t, domain.VarTasmax, 30, 31),
		convertedSeries(t, domain.VarTasmin, 20),
	)

	_, _, err := e.Calculate(b, "dtr")
	assert.Error(t, err)
}

func TestCalculateRejectsMissingSeries(t *testing.T) {
	e := engine.New()

	_, _, err := e.Calculate(engine.Bundle{}, "cdd")
	assert.Error(t, err)

	_, _, err = e.Calculate(engine.Bundle{}, "fd")
	assert.Error(t, err)
}

func TestCalculateTagsAggregateWithIndexKey(t *testing.T) {
	e := engine.New()
	b := engine.PrecipBundle(convertedSeries(t, domain.VarPrecipitation, 1, 2, 3))

	agg, def, err := e.Calculate(b, "rx1day")
	require.NoError(t, err)

	assert.Equal(t, "rx1day", agg.Index)
	assert.Equal(t, "rx1day", def.Key)
	assert.Equal(t, 3.0, agg.Grid.Cell(0))
}

func TestTxxOfConstantSeriesIsConstant(t *testing.T) {
	const m = 31.5
	e := engine.New()

	tasmax, err := grid.NewSeries(domain.VarTasmax, []grid.Grid{
		grid.Fill(3, 2, m), grid.Fill(3, 2, m), grid.Fill(3, 2, m),
	})
	require.NoError(t, err)
	tasmin, err := grid.NewSeries(domain.VarTasmin, []grid.Grid{
		grid.Fill(3, 2, 10), grid.Fill(3, 2, 10), grid.Fill(3, 2, 10),
	})
	require.NoError(t, err)

	agg, _, err := e.Calculate(
		engine.TempBundle(tasmax.MarkConverted(), tasmin.MarkConverted()), "txx")
	require.NoError(t, err)

	for i := 0; i < agg.Grid.Size(); i++ {
		assert.Equal(t, m, agg.Grid.Cell(i))
	}
}
