// Package analysis ties the catalog, provider, and engine together into a
// dataset: one model/scenario pair over one backend, with its own series
// cache. It also hosts the off-path temporal trend computation and the
// fire-and-start export orchestration.
package analysis

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/geovale/cmip6-index-engine/internal/catalog"
	"github.com/geovale/cmip6-index-engine/internal/domain"
	"github.com/geovale/cmip6-index-engine/internal/engine"
	"github.com/geovale/cmip6-index-engine/internal/grid"
	"github.com/geovale/cmip6-index-engine/internal/observability"
	"github.com/geovale/cmip6-index-engine/internal/provider"
	"github.com/geovale/cmip6-index-engine/internal/region"
)

// Options configures a Dataset. Zero values fall back to defaults.
type Options struct {
	CacheCapacity   int
	WetDayThreshold float64
	Clock           clockwork.Clock
	Logger          *slog.Logger
	Metrics         *observability.Metrics
}

// Dataset computes climate indices for one model and scenario. Each dataset
// owns an independent provider cache, so concurrent datasets (export-all-
// models) never share cache stores.
type Dataset struct {
	model    string
	scenario domain.Scenario
	provider *provider.Provider
	engine   *engine.Engine
	logger   *slog.Logger
	metrics  *observability.Metrics
	trend    trendSlot
}

// NewDataset validates the model/scenario pair and builds the provider and
// engine for it.
func NewDataset(model string, scenario domain.Scenario, backend provider.GridBackend, opts Options) (*Dataset, error) {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = observability.NewMetricsForTesting()
	}

	p, err := provider.New(model, scenario, backend, opts.CacheCapacity, opts.Clock, opts.Logger, opts.Metrics)
	if err != nil {
		return nil, err
	}

	var engOpts []engine.Option
	if opts.WetDayThreshold > 0 {
		engOpts = append(engOpts, engine.WithWetDayThreshold(opts.WetDayThreshold))
	}

	return &Dataset{
		model:    model,
		scenario: scenario,
		provider: p,
		engine:   engine.New(engOpts...),
		logger:   opts.Logger.With("model", model, "scenario", scenario),
		metrics:  opts.Metrics,
	}, nil
}

// Model returns the dataset's CMIP6 model name.
func (d *Dataset) Model() string { return d.model }

// Scenario returns the dataset's SSP scenario.
func (d *Dataset) Scenario() domain.Scenario { return d.scenario }

// CalculateIndex resolves the input series for the index's category,
// computes the index, and returns the tagged aggregate with its definition.
func (d *Dataset) CalculateIndex(ctx context.Context, timeframe domain.Timeframe,
	startDate, endDate string, reg region.Region, indexKey string) (grid.Aggregate, catalog.Definition, error) {

	def, err := catalog.Get(indexKey)
	if err != nil {
		return grid.Aggregate{}, catalog.Definition{}, err
	}

	bundle, err := d.resolveBundle(ctx, def.Category, timeframe, startDate, endDate, reg)
	if err != nil {
		return grid.Aggregate{}, catalog.Definition{}, err
	}

	start := time.Now()
	agg, def, err := d.engine.Calculate(bundle, indexKey)
	d.metrics.ComputeSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		d.metrics.IndexComputations.WithLabelValues(indexKey, "error").Inc()
		return grid.Aggregate{}, catalog.Definition{}, err
	}
	d.metrics.IndexComputations.WithLabelValues(indexKey, "success").Inc()

	return agg, def, nil
}

// CalculateYear computes an index over one calendar year.
func (d *Dataset) CalculateYear(ctx context.Context, timeframe domain.Timeframe,
	year int, reg region.Region, indexKey string) (grid.Aggregate, catalog.Definition, error) {

	start, end := domain.YearDates(year)
	return d.CalculateIndex(ctx, timeframe, start, end, reg, indexKey)
}

// resolveBundle fetches the series the index category requires: one
// precipitation series, or the tasmax/tasmin pair.
func (d *Dataset) resolveBundle(ctx context.Context, cat catalog.Category,
	timeframe domain.Timeframe, startDate, endDate string, reg region.Region) (engine.Bundle, error) {

	if cat == catalog.CategoryPrecipitation {
		s, err := d.provider.GetSeries(ctx, timeframe, startDate, endDate, reg, domain.VarPrecipitation)
		if err != nil {
			return engine.Bundle{}, err
		}
		return engine.PrecipBundle(s), nil
	}

	tasmax, err := d.provider.GetSeries(ctx, timeframe, startDate, endDate, reg, domain.VarTasmax)
	if err != nil {
		return engine.Bundle{}, err
	}
	tasmin, err := d.provider.GetSeries(ctx, timeframe, startDate, endDate, reg, domain.VarTasmin)
	if err != nil {
		return engine.Bundle{}, err
	}
	return engine.TempBundle(tasmax, tasmin), nil
}

// CacheLen reports the size of the dataset's series cache.
func (d *Dataset) CacheLen() int { return d.provider.CacheLen() }
