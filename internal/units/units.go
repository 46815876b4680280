// Package units converts raw physical units from the source collection into
// the analysis units the index engine expects.
package units

import (
	"github.com/geovale/cmip6-index-engine/internal/domain"
	"github.com/geovale/cmip6-index-engine/internal/grid"
)

// secondsPerDay converts a per-second precipitation flux to a daily total.
const secondsPerDay = 86400

// kelvinOffset converts Kelvin to degrees Celsius.
const kelvinOffset = 273.15

// Convert maps a raw daily series into analysis units:
//
//	precipitation:              kg·m⁻²·s⁻¹ → mm/day  (×86400)
//	temperature/tasmax/tasmin:  K → °C               (−273.15)
//
// Any other variable fails with UnknownVariableError. The returned series is
// flagged as converted; the engine rejects series without that flag, so
// conversion cannot be skipped or applied twice along the normal path.
func Convert(s grid.Series, variable domain.Variable) (grid.Series, error) {
	switch variable {
	case domain.VarPrecipitation:
		s = s.MapDays(func(day grid.Grid) grid.Grid {
			return day.Map(func(v float64) float64 { return v * secondsPerDay })
		})
	case domain.VarTemperature, domain.VarTasmax, domain.VarTasmin:
		s = s.MapDays(func(day grid.Grid) grid.Grid {
			return day.Map(func(v float64) float64 { return v - kelvinOffset })
		})
	default:
		return grid.Series{}, &domain.UnknownVariableError{Variable: string(variable)}
	}
	return s.MarkConverted(), nil
}
