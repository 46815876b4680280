package analysis

import (
	"context"
	"io"
	"sort"
	"sync"

	"github.com/gocarina/gocsv"
	"golang.org/x/sync/errgroup"

	"github.com/geovale/cmip6-index-engine/internal/domain"
	"github.com/geovale/cmip6-index-engine/internal/region"
)

// TrendPoint is one year of the regional-mean trend series.
type TrendPoint struct {
	Timeframe domain.Timeframe `csv:"period"`
	Year      int              `csv:"year"`
	Value     float64          `csv:"value"`
}

// Trend is the per-year regional mean of one index across all three
// comparison periods, ordered by year.
type Trend struct {
	Index  string
	Points []TrendPoint
}

// trendSlot holds at most one finished trend result for its dataset's
// consumer. A newly finished computation replaces whatever was pending;
// TakeTrend pops it.
type trendSlot struct {
	mu     sync.Mutex
	result *Trend
	err    error
	filled bool
}

func (s *trendSlot) deliver(t *Trend, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result, s.err, s.filled = t, err, true
}

func (s *trendSlot) take() (*Trend, error, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.filled {
		return nil, nil, false
	}
	t, err := s.result, s.err
	s.result, s.err, s.filled = nil, nil, false
	return t, err, true
}

// ComputeTrend calculates the year-by-year regional mean of an index over
// the full period selection. The three periods run in parallel; years
// within a period run sequentially so cached series are reused in order.
func (d *Dataset) ComputeTrend(ctx context.Context, sel domain.PeriodSelection,
	reg region.Region, indexKey string) (*Trend, error) {

	if err := sel.Validate(); err != nil {
		return nil, err
	}

	type periodPoints struct {
		points []TrendPoint
	}
	results := make([]periodPoints, 3)
	timeframes := []domain.Timeframe{
		domain.TimeframeHistorical,
		domain.TimeframeNearFuture,
		domain.TimeframeFarFuture,
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, tf := range timeframes {
		yr := sel.Range(tf)
		g.Go(func() error {
			points := make([]TrendPoint, 0, yr.End-yr.Start+1)
			for year := yr.Start; year <= yr.End; year++ {
				agg, _, err := d.CalculateYear(gctx, tf, year, reg, indexKey)
				if err != nil {
					return err
				}
				mean, ok := agg.Grid.Mean()
				if !ok {
					continue
				}
				points = append(points, TrendPoint{Timeframe: tf, Year: year, Value: mean})
			}
			results[i].points = points
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	trend := &Trend{Index: indexKey}
	for _, r := range results {
		trend.Points = append(trend.Points, r.points...)
	}
	sort.Slice(trend.Points, func(a, b int) bool {
		return trend.Points[a].Year < trend.Points[b].Year
	})

	d.logger.Info("trend computed", "index", indexKey, "points", len(trend.Points))
	return trend, nil
}

// StartTrend launches ComputeTrend off the interactive path and delivers the
// outcome to the dataset's single consumer slot, replacing any pending
// result that was never taken.
func (d *Dataset) StartTrend(ctx context.Context, sel domain.PeriodSelection,
	reg region.Region, indexKey string) {

	go func() {
		t, err := d.ComputeTrend(ctx, sel, reg, indexKey)
		if err != nil {
			d.logger.Error("trend computation failed", "index", indexKey, "error", err)
		}
		d.trend.deliver(t, err)
	}()
}

// TakeTrend pops the pending trend result, if any. The slot is emptied on
// take; a second call returns ok=false until another computation finishes.
func (d *Dataset) TakeTrend() (trend *Trend, err error, ok bool) {
	return d.trend.take()
}

// WriteCSV writes the trend as period/year/value rows.
func (t *Trend) WriteCSV(w io.Writer) error {
	return gocsv.Marshal(t.Points, w)
}
