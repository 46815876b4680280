package units_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geovale/cmip6-index-engine/internal/domain"
	"github.com/geovale/cmip6-index-engine/internal/grid"
	"github.com/geovale/cmip6-index-engine/internal/units"
)

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

func TestConvertPrecipitationFluxToMMPerDay(t *testing.T) {
	s := rawSeries(t, domain.VarPrecipitation, 1.0)

	out, err := units.Convert(s, domain.VarPrecipitation)
	require.NoError(t, err)

	assert.Equal(t, 86400.0, out.Day(0).Cell(0))
	assert.True(t, out.Converted())
}

func TestConvertKelvinToCelsius(t *testing.T) {
	tests := []struct {
		name     string
		variable domain.Variable
	}{
		{"temperature", domain.VarTemperature},
		{"tasmax", domain.VarTasmax},
		{"tasmin", domain.VarTasmin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := rawSeries(t, tt.variable, 273.15, 300.0)

			out, err := units.Convert(s, tt.variable)
			require.NoError(t, err)

			assert.InDelta(t, 0.0, out.Day(0).Cell(0), 1e-9)
			assert.InDelta(t, 26.85, out.Day(1).Cell(0), 1e-9)
			assert.True(t, out.Converted())
		})
	}
}

func TestConvertPreservesNoData(t *testing.T) {
	s := rawSeries(t, domain.VarPrecipitation, math.NaN())

	out, err := units.Convert(s, domain.VarPrecipitation)
	require.NoError(t, err)

	assert.True(t, math.IsNaN(out.Day(0).Cell(0)))
}

func TestConvertUnknownVariable(t *testing.T) {
	s := rawSeries(t, domain.Variable("humidity"), 1.0)

	_, err := units.Convert(s, domain.Variable("humidity"))
	require.Error(t, err)

	var unknown *domain.UnknownVariableError
	assert.ErrorAs(t, err, &unknown)
}
