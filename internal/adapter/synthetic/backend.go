// Package synthetic generates deterministic daily grids in raw source units.
// It backs the fixture generator and local development runs where no real
// grid archive is reachable: the same query always yields the same series,
// with a seasonal cycle, a spatial gradient, and hash-derived day-to-day
// noise per cell.
package synthetic

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/geovale/cmip6-index-engine/internal/domain"
	"github.com/geovale/cmip6-index-engine/internal/grid"
	"github.com/geovale/cmip6-index-engine/internal/provider"
)

const dateLayout = "2006-01-02"

// Raw-unit baselines. Temperatures are Kelvin, precipitation is a flux in
// kg/m^2/s (1e-4 kg/m^2/s is roughly 8.6 mm/day).
const (
	baseTempK      = 288.0
	tempSeasonalK  = 10.0
	tempDiurnalK   = 4.0
	basePrecipFlux = 4e-5
)

// Backend implements provider.GridBackend with generated data.
type Backend struct {
	width  int
	height int
}

// New creates a generator producing grids of the given shape.
func New(width, height int) *Backend {
	return &Backend{width: width, height: height}
}

// FetchDailySeries generates one grid per day in [StartDate, EndDate].
func (b *Backend) FetchDailySeries(_ context.Context, q provider.GridQuery) (grid.Series, error) {
	start, err := time.Parse(dateLayout, q.StartDate)
	if err != nil {
		return grid.Series{}, fmt.Errorf("synthetic: bad start date %q: %w", q.StartDate, err)
	}
	end, err := time.Parse(dateLayout, q.EndDate)
	if err != nil {
		return grid.Series{}, fmt.Errorf("synthetic: bad end date %q: %w", q.EndDate, err)
	}
	if end.Before(start) {
		return grid.Series{}, fmt.Errorf("synthetic: end date %s before start %s", q.EndDate, q.StartDate)
	}

	var days []grid.Grid
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		g, err := b.day(q, d)
		if err != nil {
			return grid.Series{}, err
		}
		days = append(days, g)
	}
	return grid.NewSeries(q.Variable, days)
}

func (b *Backend) day(q provider.GridQuery, date time.Time) (grid.Grid, error) {
	cells := make([]float64, b.width*b.height)
	doy := float64(date.YearDay())
	season := math.Sin(2 * math.Pi * (doy - 80) / 365.25)

	for i := range cells {
		noise := cellNoise(q.Model, q.Scenario, string(q.Variable), date, i)
		lat := float64(i / b.width) // coarse north-south gradient
		switch q.Variable {
		case domain.VarPrecipitation:
			// Roughly a third of days are dry; wet days scale with season.
			if noise < 0.35 {
				cells[i] = 0
				continue
			}
			cells[i] = basePrecipFlux * (0.5 + season*0.3 + noise*1.5)
			if cells[i] < 0 {
				cells[i] = 0
			}
		case domain.VarTasmax:
			cells[i] = baseTempK + tempSeasonalK*season + tempDiurnalK + (noise-0.5)*6 - lat*0.2
		case domain.VarTasmin:
			cells[i] = baseTempK + tempSeasonalK*season - tempDiurnalK + (noise-0.5)*6 - lat*0.2
		case domain.VarTemperature:
			cells[i] = baseTempK + tempSeasonalK*season + (noise-0.5)*6 - lat*0.2
		default:
			return grid.Grid{}, &domain.UnknownVariableError{Variable: string(q.Variable)}
		}
	}
	return grid.FromCells(b.width, b.height, cells)
}

// cellNoise maps (model, scenario, variable, date, cell) to a stable value
// in [0, 1).
func cellNoise(model, scenario, variable string, date time.Time, cell int) float64 {
	key := fmt.Sprintf("%s|%s|%s|%s|%d", model, scenario, variable, date.Format(dateLayout), cell)
	h := xxhash.Sum64String(key)
	return float64(h%1_000_000) / 1_000_000
}
