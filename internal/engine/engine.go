// Package engine reduces daily grid series into single aggregate grids, one
// per climate index. Each index is a strategy function selected from a fixed
// table by catalog key, so every algorithm stays independently testable and
// the dispatch never grows into a conditional chain.
package engine

import (
	"errors"
	"fmt"

	"github.com/geovale/cmip6-index-engine/internal/catalog"
	"github.com/geovale/cmip6-index-engine/internal/domain"
	"github.com/geovale/cmip6-index-engine/internal/grid"
)

// DefaultWetDayThreshold is the wet-day cutoff in mm/day used by sdii, cdd
// and cwd unless configured otherwise.
const DefaultWetDayThreshold = 1.0

// Bundle carries the input series for one calculation: either a
// precipitation series, or a tasmax/tasmin pair, depending on the index
// category.
type Bundle struct {
	Precip *grid.Series
	Tasmax *grid.Series
	Tasmin *grid.Series
}

// PrecipBundle wraps a precipitation series.
func PrecipBundle(s grid.Series) Bundle { return Bundle{Precip: &s} }

// TempBundle wraps a tasmax/tasmin pair.
func TempBundle(tasmax, tasmin grid.Series) Bundle {
	return Bundle{Tasmax: &tasmax, Tasmin: &tasmin}
}

// computeFunc is one index's reduction algorithm.
type computeFunc func(e *Engine, b Bundle) (grid.Grid, error)

var computers = map[string]computeFunc{
	"annual_total_precip": (*Engine).totalPrecip,
	"prcptot":             (*Engine).prcptot,
	"rx1day":              (*Engine).rx1day,
	"rx5day":              (*Engine).rx5day,
	"sdii":                (*Engine).sdii,
	"r10mm":               fixedThresholdCount(10),
	"r20mm":               fixedThresholdCount(20),
	"cdd":                 (*Engine).cdd,
	"cwd":                 (*Engine).cwd,
	"r90p":                precipPercentileCount(90),
	"r95p":                precipPercentileCount(95),
	"r99p":                precipPercentileCount(99),
	"txx":                 (*Engine).txx,
	"tnn":                 (*Engine).tnn,
	"dtr":                 (*Engine).dtr,
	"fd":                  (*Engine).frostDays,
	"su":                  (*Engine).summerDays,
	"tr":                  (*Engine).tropicalNights,
	"wsdi":                (*Engine).wsdi,
	"csdi":                (*Engine).csdi,
	"tn10p":               (*Engine).tn10p,
	"tx90p":               (*Engine).tx90p,
	"gsl":                 (*Engine).gsl,
}

// Engine computes climate indices over unit-converted daily series.
type Engine struct {
	wetThreshold float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithWetDayThreshold overrides the wet-day cutoff in mm/day.
func WithWetDayThreshold(mm float64) Option {
	return func(e *Engine) { e.wetThreshold = mm }
}

// New creates an Engine with the default wet-day threshold.
func New(opts ...Option) *Engine {
	e := &Engine{wetThreshold: DefaultWetDayThreshold}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Calculate reduces the bundle with the named index's algorithm. The result
// grid is tagged with the index key. Unknown keys fail with
// UnknownIndexError; algorithm failures are wrapped in
// IndexComputationError.
func (e *Engine) Calculate(b Bundle, indexKey string) (grid.Aggregate, catalog.Definition, error) {
	def, err := catalog.Get(indexKey)
	if err != nil {
		return grid.Aggregate{}, catalog.Definition{}, err
	}

	if err := validateBundle(b, def.Category); err != nil {
		return grid.Aggregate{}, catalog.Definition{}, &domain.IndexComputationError{Index: indexKey, Err: err}
	}

	compute, ok := computers[indexKey]
	if !ok {
		return grid.Aggregate{}, catalog.Definition{}, &domain.UnknownIndexError{Key: indexKey}
	}

	result, err := compute(e, b)
	if err != nil {
		return grid.Aggregate{}, catalog.Definition{}, &domain.IndexComputationError{Index: indexKey, Err: err}
	}

	return grid.Aggregate{Index: indexKey, Grid: result}, def, nil
}

// validateBundle checks that the bundle carries the converted series the
// index category needs. Raw series are rejected outright: mixing raw and
// converted units upstream of an index is a correctness bug.
func validateBundle(b Bundle, cat catalog.Category) error {
	switch cat {
	case catalog.CategoryPrecipitation:
		if b.Precip == nil {
			return errors.New("precipitation series missing from bundle")
		}
		if !b.Precip.Converted() {
			return errors.New("precipitation series has not been unit-converted")
		}
	case catalog.CategoryTemperature:
		if b.Tasmax == nil || b.Tasmin == nil {
			return errors.New("tasmax/tasmin series missing from bundle")
		}
		if !b.Tasmax.Converted() || !b.Tasmin.Converted() {
			return errors.New("temperature series has not been unit-converted")
		}
		if b.Tasmax.Len() != b.Tasmin.Len() {
			return fmt.Errorf("tasmax has %d days, tasmin %d", b.Tasmax.Len(), b.Tasmin.Len())
		}
	default:
		return fmt.Errorf("unknown index category %q", cat)
	}
	return nil
}
