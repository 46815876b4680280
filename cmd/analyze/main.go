// Command analyze computes climate indices from the NEX-GDDP-CMIP6 daily
// grid fixtures for a region of interest.
//
// Usage:
//
//	analyze -index cdd -timeframe historical -start-year 1980 -end-year 1999 \
//	  -bounds "-10,35,5,45"
//
//	analyze -index txx -trend -periods "1980-2014,2015-2060,2061-2100" \
//	  -geojson region.geojson
//
//	analyze -index rx5day -export-all -periods "1980-2014,2015-2060,2061-2100" \
//	  -bounds "-10,35,5,45"
//
// Configuration comes from the environment (see internal/config); a .env
// file in the working directory is loaded if present.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"

	"github.com/geovale/cmip6-index-engine/internal/adapter/export"
	"github.com/geovale/cmip6-index-engine/internal/adapter/gridfile"
	httpadapter "github.com/geovale/cmip6-index-engine/internal/adapter/http"
	"github.com/geovale/cmip6-index-engine/internal/analysis"
	"github.com/geovale/cmip6-index-engine/internal/config"
	"github.com/geovale/cmip6-index-engine/internal/domain"
	"github.com/geovale/cmip6-index-engine/internal/grid"
	"github.com/geovale/cmip6-index-engine/internal/observability"
	"github.com/geovale/cmip6-index-engine/internal/region"
	"github.com/geovale/cmip6-index-engine/internal/viz"
)

type options struct {
	index     string
	timeframe string
	startYear int
	endYear   int
	bounds    string
	geojson   string
	periods   string
	trend     bool
	exportAll bool
	allModels bool
	serve     bool
}

func main() {
	if err := run(); err != nil {
		slog.Error("analyze failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	var opts options
	flag.StringVar(&opts.index, "index", "", "climate index key (required)")
	flag.StringVar(&opts.timeframe, "timeframe", string(domain.TimeframeHistorical), "analysis era: historical, near_future, far_future")
	flag.IntVar(&opts.startYear, "start-year", 0, "period start year (defaults to era minimum)")
	flag.IntVar(&opts.endYear, "end-year", 0, "period end year (defaults to start-year plus the minimum duration)")
	flag.StringVar(&opts.bounds, "bounds", "", "region bounding box: minLon,minLat,maxLon,maxLat")
	flag.StringVar(&opts.geojson, "geojson", "", "region GeoJSON file (overrides -bounds)")
	flag.StringVar(&opts.periods, "periods", "", "three year ranges for trend/export: \"1980-2014,2015-2060,2061-2100\"")
	flag.BoolVar(&opts.trend, "trend", false, "compute the year-by-year regional trend")
	flag.BoolVar(&opts.exportAll, "export-all", false, "export every year across all three periods")
	flag.BoolVar(&opts.allModels, "all-models", false, "with -export-all: run every CMIP6 model")
	flag.BoolVar(&opts.serve, "serve", false, "keep the HTTP endpoints up after the computation")
	flag.Parse()

	if opts.index == "" {
		flag.Usage()
		return errors.New("missing required flag: -index")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	metrics := observability.NewMetrics()

	reg, err := loadRegion(opts)
	if err != nil {
		return err
	}

	backend := gridfile.New(cfg.DataDir)
	dataset, err := analysis.NewDataset(cfg.Model, cfg.Scenario, backend, analysis.Options{
		CacheCapacity:   cfg.CacheCapacity,
		WetDayThreshold: cfg.WetDayThreshold,
		Logger:          logger,
		Metrics:         metrics,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := httpadapter.NewServer(cfg.HTTPAddr, dataDirCheck{dir: cfg.DataDir}, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
	}()

	switch {
	case opts.trend:
		err = runTrend(ctx, dataset, reg, opts)
	case opts.exportAll:
		err = runExportAll(ctx, cfg, dataset, backend, reg, opts, logger, metrics)
	default:
		err = runSingle(ctx, dataset, reg, opts)
	}
	if err != nil {
		return err
	}

	if opts.serve {
		logger.Info("serving", "addr", cfg.HTTPAddr)
		<-ctx.Done()
	}
	return nil
}

func runSingle(ctx context.Context, d *analysis.Dataset, reg region.Region, opts options) error {
	tf := domain.Timeframe(opts.timeframe)
	tfCfg, err := domain.ConfigFor(tf)
	if err != nil {
		return err
	}

	startYear, endYear := opts.startYear, opts.endYear
	if startYear == 0 {
		startYear = tfCfg.MinYear
	}
	if endYear == 0 {
		endYear = startYear + tfCfg.MinDuration - 1
	}
	if err := tfCfg.ValidatePeriod(startYear, endYear); err != nil {
		return err
	}

	start, end := domain.YearRange{Start: startYear, End: endYear}.Dates()
	agg, def, err := d.CalculateIndex(ctx, tf, start, end, reg, opts.index)
	if err != nil {
		return err
	}

	params, err := viz.Derive([]grid.Aggregate{agg}, def)
	if err != nil {
		return err
	}
	mean, _ := agg.Grid.Mean()

	fmt.Printf("%s (%s), %s %d–%d\n", def.DisplayName, def.Units, tf, startYear, endYear)
	fmt.Printf("  regional mean: %.3f\n", mean)
	fmt.Printf("  range: %.3f .. %.3f\n", params.Min, params.Max)
	return nil
}

func runTrend(ctx context.Context, d *analysis.Dataset, reg region.Region, opts options) error {
	sel, err := parsePeriods(opts.periods)
	if err != nil {
		return err
	}
	trend, err := d.ComputeTrend(ctx, sel, reg, opts.index)
	if err != nil {
		return err
	}
	return trend.WriteCSV(os.Stdout)
}

func runExportAll(ctx context.Context, cfg *config.Config, d *analysis.Dataset,
	backend *gridfile.Backend, reg region.Region, opts options,
	logger *slog.Logger, metrics *observability.Metrics) error {

	sel, err := parsePeriods(opts.periods)
	if err != nil {
		return err
	}

	sink := export.NewCSVSink(cfg.ExportDir, logger)
	exporter := analysis.NewExporter(sink, analysis.ExportConfig{
		Workers:   cfg.ExportWorkers,
		Folder:    opts.index,
		Scale:     cfg.SamplingScale,
		MaxPixels: cfg.MaxPixels,
	}, logger, metrics)

	var total int
	if opts.allModels {
		factory := func(model string, scenario domain.Scenario) (*analysis.Dataset, error) {
			return analysis.NewDataset(model, scenario, backend, analysis.Options{
				CacheCapacity:   cfg.CacheCapacity,
				WetDayThreshold: cfg.WetDayThreshold,
				Logger:          logger,
				Metrics:         metrics,
			})
		}
		total, err = exporter.SubmitAllModels(ctx, factory, cfg.Scenario, sel, reg, opts.index)
	} else {
		total, err = exporter.SubmitAllYears(ctx, d, sel, reg, opts.index)
	}
	if err != nil {
		return err
	}

	bar := progressbar.Default(int64(total), "exporting")
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, succeeded, failed := exporter.Progress()
			_ = bar.Set(succeeded + failed)
			if succeeded+failed >= total {
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(200 * time.Millisecond):
			}
		}
	}()

	exporter.Wait()
	<-done
	_ = bar.Finish()

	if failures := exporter.Failures(); len(failures) > 0 {
		for _, ferr := range failures {
			logger.Error("export task failed", "error", ferr)
		}
		return fmt.Errorf("%d of %d export tasks failed", len(failures), total)
	}
	logger.Info("export complete", "tasks", total, "dir", cfg.ExportDir)
	return nil
}

func loadRegion(opts options) (region.Region, error) {
	if opts.geojson != "" {
		return region.LoadGeoJSON(opts.geojson)
	}
	if opts.bounds == "" {
		return region.Region{}, errors.New("a region is required: set -bounds or -geojson")
	}

	parts := strings.Split(opts.bounds, ",")
	if len(parts) != 4 {
		return region.Region{}, fmt.Errorf("bad -bounds %q: want minLon,minLat,maxLon,maxLat", opts.bounds)
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return region.Region{}, fmt.Errorf("bad -bounds value %q: %w", p, err)
		}
		vals[i] = v
	}
	return region.FromBounds(vals[0], vals[1], vals[2], vals[3])
}

// parsePeriods parses "1980-2014,2015-2060,2061-2100" into a period
// selection, one range per era in chronological order.
func parsePeriods(s string) (domain.PeriodSelection, error) {
	if s == "" {
		return domain.PeriodSelection{}, errors.New("missing required flag: -periods")
	}
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return domain.PeriodSelection{}, fmt.Errorf("bad -periods %q: want three ranges", s)
	}
	ranges := make([]domain.YearRange, 3)
	for i, p := range parts {
		se := strings.Split(strings.TrimSpace(p), "-")
		if len(se) != 2 {
			return domain.PeriodSelection{}, fmt.Errorf("bad period %q: want YYYY-YYYY", p)
		}
		start, err := strconv.Atoi(se[0])
		if err != nil {
			return domain.PeriodSelection{}, fmt.Errorf("bad period %q: %w", p, err)
		}
		end, err := strconv.Atoi(se[1])
		if err != nil {
			return domain.PeriodSelection{}, fmt.Errorf("bad period %q: %w", p, err)
		}
		ranges[i] = domain.YearRange{Start: start, End: end}
	}
	sel := domain.PeriodSelection{Historical: ranges[0], NearFuture: ranges[1], FarFuture: ranges[2]}
	return sel, sel.Validate()
}

// dataDirCheck reports readiness as long as the fixture directory exists.
type dataDirCheck struct {
	dir string
}

func (c dataDirCheck) CheckReadiness(_ context.Context) error {
	info, err := os.Stat(c.dir)
	if err != nil {
		return fmt.Errorf("data dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("data dir %s is not a directory", c.dir)
	}
	return nil
}
