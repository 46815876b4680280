// Package gridfile serves daily grid series from local CSV fixtures, one
// file per model/scenario/variable/year. Fixtures are long-format rows
// (date, x, y, value) written by cmd/genmock; cells absent from a day's rows
// stay no-data. The fixtures are pre-clipped extracts, so the query region
// only participates in cache identity upstream.
package gridfile

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/geovale/cmip6-index-engine/internal/grid"
	"github.com/geovale/cmip6-index-engine/internal/provider"
)

const dateLayout = "2006-01-02"

// Record is one cell observation in a fixture file.
type Record struct {
	Date  string  `csv:"date"`
	X     int     `csv:"x"`
	Y     int     `csv:"y"`
	Value float64 `csv:"value"`
}

// Backend implements provider.GridBackend over a fixture directory.
type Backend struct {
	dir string
}

// New creates a backend rooted at dir.
func New(dir string) *Backend {
	return &Backend{dir: dir}
}

// Path returns the fixture file for one model/scenario/variable/year.
func (b *Backend) Path(model, scenario, band string, year int) string {
	return filepath.Join(b.dir, model, scenario, fmt.Sprintf("%s_%d.csv", band, year))
}

// FetchDailySeries loads every fixture year overlapping the query range and
// assembles the in-range days into one series.
func (b *Backend) FetchDailySeries(ctx context.Context, q provider.GridQuery) (grid.Series, error) {
	start, err := time.Parse(dateLayout, q.StartDate)
	if err != nil {
		return grid.Series{}, fmt.Errorf("gridfile: bad start date %q: %w", q.StartDate, err)
	}
	end, err := time.Parse(dateLayout, q.EndDate)
	if err != nil {
		return grid.Series{}, fmt.Errorf("gridfile: bad end date %q: %w", q.EndDate, err)
	}

	var records []Record
	for year := start.Year(); year <= end.Year(); year++ {
		if err := ctx.Err(); err != nil {
			return grid.Series{}, err
		}
		recs, err := b.readYear(q, year)
		if err != nil {
			return grid.Series{}, err
		}
		records = append(records, recs...)
	}

	return assemble(q, records, start, end)
}

func (b *Backend) readYear(q provider.GridQuery, year int) ([]Record, error) {
	path := b.Path(q.Model, q.Scenario, string(q.Variable), year)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gridfile: open fixture: %w", err)
	}
	defer f.Close()

	var recs []Record
	if err := gocsv.UnmarshalFile(f, &recs); err != nil {
		return nil, fmt.Errorf("gridfile: parse %s: %w", path, err)
	}
	return recs, nil
}

func assemble(q provider.GridQuery, records []Record, start, end time.Time) (grid.Series, error) {
	width, height := 0, 0
	byDate := make(map[string][]Record)
	for _, r := range records {
		d, err := time.Parse(dateLayout, r.Date)
		if err != nil {
			return grid.Series{}, fmt.Errorf("gridfile: bad record date %q: %w", r.Date, err)
		}
		if d.Before(start) || d.After(end) {
			continue
		}
		if r.X+1 > width {
			width = r.X + 1
		}
		if r.Y+1 > height {
			height = r.Y + 1
		}
		byDate[r.Date] = append(byDate[r.Date], r)
	}
	if len(byDate) == 0 {
		return grid.Series{}, fmt.Errorf("gridfile: no records for %s/%s %s in %s..%s",
			q.Model, q.Scenario, q.Variable, q.StartDate, q.EndDate)
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	days := make([]grid.Grid, 0, len(dates))
	for _, date := range dates {
		cells := make([]float64, width*height)
		for i := range cells {
			cells[i] = math.NaN()
		}
		for _, r := range byDate[date] {
			cells[r.Y*width+r.X] = r.Value
		}
		g, err := grid.FromCells(width, height, cells)
		if err != nil {
			return grid.Series{}, err
		}
		days = append(days, g)
	}
	return grid.NewSeries(q.Variable, days)
}
