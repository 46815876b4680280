// Package provider resolves daily grid series for an analysis request,
// memoizing unit-converted series in a capacity-bounded cache. One provider
// belongs to exactly one dataset instance (model + scenario); concurrent
// dataset instances each own an independent cache store.
package provider

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/geovale/cmip6-index-engine/internal/domain"
	"github.com/geovale/cmip6-index-engine/internal/grid"
	"github.com/geovale/cmip6-index-engine/internal/observability"
	"github.com/geovale/cmip6-index-engine/internal/region"
	"github.com/geovale/cmip6-index-engine/internal/units"
)

// DefaultCacheCapacity bounds the number of cached series per provider.
const DefaultCacheCapacity = 100

// GridQuery describes one backend fetch of raw daily grids.
type GridQuery struct {
	Model     string
	Scenario  string // literal scenario label, already resolved per timeframe
	StartDate string // YYYY-MM-DD inclusive
	EndDate   string // YYYY-MM-DD inclusive
	Variable  domain.Variable
	Region    region.Region
}

// GridBackend fetches raw (not yet unit-converted) daily grid series
// restricted to a region and date range. Implementations evaluate lazily on
// their own infrastructure; the provider only sees the resulting series.
type GridBackend interface {
	FetchDailySeries(ctx context.Context, q GridQuery) (grid.Series, error)
}

// Provider fetches, converts, and caches daily series for one model and
// scenario.
type Provider struct {
	model    string
	scenario domain.Scenario
	backend  GridBackend
	cache    *seriesCache
	clock    clockwork.Clock
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// New creates a Provider for one model/scenario pair with its own cache
// store of the given capacity (DefaultCacheCapacity when <= 0).
func New(model string, scenario domain.Scenario, backend GridBackend, capacity int,
	clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) (*Provider, error) {

	if !domain.ValidModel(model) {
		return nil, &domain.ValidationError{Msg: "invalid model name: " + model}
	}
	if !domain.ValidScenario(scenario) {
		return nil, &domain.ValidationError{Msg: "invalid scenario: " + string(scenario)}
	}
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &Provider{
		model:    model,
		scenario: scenario,
		backend:  backend,
		cache:    newSeriesCache(capacity),
		clock:    clock,
		logger:   logger,
		metrics:  metrics,
	}, nil
}

// Model returns the provider's CMIP6 model name.
func (p *Provider) Model() string { return p.model }

// Scenario returns the provider's configured SSP scenario.
func (p *Provider) Scenario() domain.Scenario { return p.scenario }

// GetSeries returns the unit-converted daily series for the request,
// serving repeats from cache. A cached series is returned unchanged — no
// re-fetch, no re-conversion. On a miss the raw series is fetched, converted
// exactly once, and cached; backend failures are wrapped in DataAccessError
// and never cached, so an identical retry goes back to the backend.
func (p *Provider) GetSeries(ctx context.Context, timeframe domain.Timeframe,
	startDate, endDate string, reg region.Region, variable domain.Variable) (grid.Series, error) {

	fingerprint, err := reg.Fingerprint()
	if err != nil {
		return grid.Series{}, &domain.ValidationError{Msg: "unusable region: " + err.Error()}
	}

	scenarioFilter := timeframe.ScenarioFilter(p.scenario)
	key := cacheKey{
		model:       p.model,
		scenario:    scenarioFilter,
		timeframe:   timeframe,
		startDate:   startDate,
		endDate:     endDate,
		variable:    variable,
		regionPrint: fingerprint,
	}

	if s, ok := p.cache.get(key); ok {
		p.metrics.CacheLookups.WithLabelValues("hit").Inc()
		return s, nil
	}
	p.metrics.CacheLookups.WithLabelValues("miss").Inc()

	raw, err := p.fetch(ctx, GridQuery{
		Model:     p.model,
		Scenario:  scenarioFilter,
		StartDate: startDate,
		EndDate:   endDate,
		Variable:  variable,
		Region:    reg,
	})
	if err != nil {
		return grid.Series{}, err
	}

	converted, err := units.Convert(raw, variable)
	if err != nil {
		return grid.Series{}, err
	}

	evicted := p.cache.put(key, converted, p.clock.Now())
	if evicted {
		p.metrics.CacheEvictions.Inc()
	}
	p.metrics.CacheEntries.Set(float64(p.cache.len()))

	return converted, nil
}

func (p *Provider) fetch(ctx context.Context, q GridQuery) (grid.Series, error) {
	start := time.Now()
	raw, err := p.backend.FetchDailySeries(ctx, q)
	p.metrics.BackendFetchSeconds.Observe(time.Since(start).Seconds())

	if err != nil {
		p.metrics.BackendFetches.WithLabelValues(string(q.Variable), "error").Inc()
		p.logger.Error("backend fetch failed",
			"model", q.Model,
			"scenario", q.Scenario,
			"variable", q.Variable,
			"start", q.StartDate,
			"end", q.EndDate,
			"error", err,
		)
		return grid.Series{}, &domain.DataAccessError{Variable: q.Variable, Model: q.Model, Err: err}
	}

	p.metrics.BackendFetches.WithLabelValues(string(q.Variable), "success").Inc()
	p.logger.Debug("backend fetch complete",
		"model", q.Model,
		"variable", q.Variable,
		"days", raw.Len(),
	)
	return raw, nil
}

// CacheLen reports the current number of cached series.
func (p *Provider) CacheLen() int { return p.cache.len() }
