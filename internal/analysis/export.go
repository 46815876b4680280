package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gammazero/workerpool"

	"github.com/geovale/cmip6-index-engine/internal/catalog"
	"github.com/geovale/cmip6-index-engine/internal/domain"
	"github.com/geovale/cmip6-index-engine/internal/grid"
	"github.com/geovale/cmip6-index-engine/internal/observability"
	"github.com/geovale/cmip6-index-engine/internal/region"
)

// ExportRequest carries one computed aggregate to a sink. Description names
// the export for humans; Folder groups related exports on the sink side.
type ExportRequest struct {
	Aggregate   grid.Aggregate
	Definition  catalog.Definition
	Model       string
	Scenario    domain.Scenario
	Year        int
	Description string
	Folder      string
	Region      region.Region
	Scale       int
	MaxPixels   float64
}

// ExportSink starts an asynchronous export job on its own infrastructure and
// returns an opaque job identifier. Callers do not poll job status here;
// completion is the sink's concern.
type ExportSink interface {
	Export(ctx context.Context, req ExportRequest) (jobID string, err error)
}

// ExportConfig tunes an Exporter.
type ExportConfig struct {
	Workers   int
	Folder    string
	Scale     int
	MaxPixels float64
}

// Exporter submits compute-and-export tasks to a bounded worker pool. Each
// task is independent: one failing year is recorded and never blocks its
// siblings.
type Exporter struct {
	sink    ExportSink
	pool    *workerpool.WorkerPool
	cfg     ExportConfig
	logger  *slog.Logger
	metrics *observability.Metrics

	mu        sync.Mutex
	started   int
	succeeded int
	failures  []error
}

// NewExporter builds an exporter with the given pool size (minimum 1).
func NewExporter(sink ExportSink, cfg ExportConfig, logger *slog.Logger, metrics *observability.Metrics) *Exporter {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NewMetricsForTesting()
	}
	return &Exporter{
		sink:    sink,
		pool:    workerpool.New(cfg.Workers),
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
	}
}

// SubmitYear queues one compute-and-export task for a single year. The call
// returns as soon as the task is queued.
func (x *Exporter) SubmitYear(ctx context.Context, d *Dataset, timeframe domain.Timeframe,
	year int, reg region.Region, indexKey string) {

	x.mu.Lock()
	x.started++
	x.mu.Unlock()

	x.pool.Submit(func() {
		x.runYear(ctx, d, timeframe, year, reg, indexKey)
	})
}

// SubmitAllYears queues one task per year across the full period selection
// and returns the number of tasks started.
func (x *Exporter) SubmitAllYears(ctx context.Context, d *Dataset, sel domain.PeriodSelection,
	reg region.Region, indexKey string) (int, error) {

	if err := sel.Validate(); err != nil {
		return 0, err
	}
	n := 0
	for _, tf := range domain.Timeframes() {
		yr := sel.Range(tf)
		for year := yr.Start; year <= yr.End; year++ {
			x.SubmitYear(ctx, d, tf, year, reg, indexKey)
			n++
		}
	}
	x.logger.Info("export batch queued",
		"model", d.Model(), "index", indexKey, "tasks", n)
	return n, nil
}

// DatasetFactory builds a dataset for one model/scenario pair. Exports that
// span models use it so every model gets an independent cache.
type DatasetFactory func(model string, scenario domain.Scenario) (*Dataset, error)

// SubmitAllModels queues the full per-year batch for every known model. A
// model whose dataset cannot be built is recorded as a failure and skipped.
func (x *Exporter) SubmitAllModels(ctx context.Context, factory DatasetFactory,
	scenario domain.Scenario, sel domain.PeriodSelection, reg region.Region, indexKey string) (int, error) {

	if err := sel.Validate(); err != nil {
		return 0, err
	}
	total := 0
	for _, model := range domain.Models() {
		d, err := factory(model, scenario)
		if err != nil {
			x.recordFailure(fmt.Errorf("dataset %s/%s: %w", model, scenario, err))
			continue
		}
		n, err := x.SubmitAllYears(ctx, d, sel, reg, indexKey)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func (x *Exporter) runYear(ctx context.Context, d *Dataset, timeframe domain.Timeframe,
	year int, reg region.Region, indexKey string) {

	agg, def, err := d.CalculateYear(ctx, timeframe, year, reg, indexKey)
	if err != nil {
		x.fail(d, indexKey, year, fmt.Errorf("compute %s %d: %w", indexKey, year, err))
		return
	}

	desc := fmt.Sprintf("%s_%s_%s_%d", indexKey, d.Model(), d.Scenario(), year)
	jobID, err := x.sink.Export(ctx, ExportRequest{
		Aggregate:   agg,
		Definition:  def,
		Model:       d.Model(),
		Scenario:    d.Scenario(),
		Year:        year,
		Description: desc,
		Folder:      x.cfg.Folder,
		Region:      reg,
		Scale:       x.cfg.Scale,
		MaxPixels:   x.cfg.MaxPixels,
	})
	if err != nil {
		x.fail(d, indexKey, year, fmt.Errorf("export %s %d: %w", indexKey, year, err))
		return
	}

	x.mu.Lock()
	x.succeeded++
	x.mu.Unlock()
	x.metrics.ExportTasks.WithLabelValues("success").Inc()
	x.logger.Debug("export job started",
		"model", d.Model(), "index", indexKey, "year", year, "job", jobID)
}

func (x *Exporter) fail(d *Dataset, indexKey string, year int, err error) {
	x.metrics.ExportTasks.WithLabelValues("error").Inc()
	x.logger.Error("export task failed",
		"model", d.Model(), "index", indexKey, "year", year, "error", err)
	x.recordFailure(err)
}

func (x *Exporter) recordFailure(err error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.failures = append(x.failures, err)
}

// Progress reports queued, succeeded, and failed task counts so far.
func (x *Exporter) Progress() (started, succeeded, failed int) {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.started, x.succeeded, len(x.failures)
}

// Failures returns a copy of the per-task errors recorded so far.
func (x *Exporter) Failures() []error {
	x.mu.Lock()
	defer x.mu.Unlock()
	out := make([]error, len(x.failures))
	copy(out, x.failures)
	return out
}

// Wait blocks until every queued task has run, then shuts the pool down.
// The exporter cannot be reused afterwards.
func (x *Exporter) Wait() {
	x.pool.StopWait()
}
