// Package viz derives map-rendering parameters from computed aggregate
// grids. It is a thin boundary utility: the actual rendering belongs to
// whatever front end consumes the parameters.
package viz

import (
	"math"

	"github.com/geovale/cmip6-index-engine/internal/catalog"
	"github.com/geovale/cmip6-index-engine/internal/domain"
	"github.com/geovale/cmip6-index-engine/internal/grid"
)

// DefaultOpacity is the layer opacity applied to every index rendering.
const DefaultOpacity = 0.8

// Fallback ramps used when an index definition carries no palette of its
// own: a 10-stop diverging ramp for temperature, a 9-stop sequential red
// ramp for precipitation.
var (
	fallbackTempPalette = []string{
		"#313695", "#4575b4", "#74add1", "#abd9e9", "#e0f3f8",
		"#ffffbf", "#fee090", "#fdae61", "#f46d43", "#d73027",
	}
	fallbackPrecipPalette = []string{
		"#fff5f0", "#fee0d2", "#fcbba1", "#fc9272", "#fb6a4a",
		"#ef3b2c", "#cb181d", "#a50f15", "#67000d",
	}
)

// Params are the rendering parameters for one index across the compared
// periods: a shared min/max stretch so the three maps are visually
// comparable, a palette, and a fixed opacity.
type Params struct {
	Min     float64
	Max     float64
	Palette []string
	Opacity float64
}

// Derive computes the overall min/max across the given aggregate grids and
// pairs it with the definition's palette (or the category fallback ramp).
// Grids are already restricted to the region by construction; cells outside
// it are no-data and ignored.
func Derive(grids []grid.Aggregate, def catalog.Definition) (Params, error) {
	overallMin, overallMax := math.Inf(1), math.Inf(-1)
	any := false
	for _, agg := range grids {
		min, max, ok := agg.Grid.MinMax()
		if !ok {
			continue
		}
		any = true
		if min < overallMin {
			overallMin = min
		}
		if max > overallMax {
			overallMax = max
		}
	}
	if !any {
		return Params{}, &domain.IndexComputationError{
			Index: def.Key,
			Err:   errNoDefinedCells,
		}
	}

	palette := def.Palette
	if len(palette) == 0 {
		if def.Category == catalog.CategoryTemperature {
			palette = fallbackTempPalette
		} else {
			palette = fallbackPrecipPalette
		}
	}

	return Params{
		Min:     overallMin,
		Max:     overallMax,
		Palette: palette,
		Opacity: DefaultOpacity,
	}, nil
}
