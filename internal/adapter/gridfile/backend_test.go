package gridfile_test

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geovale/cmip6-index-engine/internal/adapter/gridfile"
	"github.com/geovale/cmip6-index-engine/internal/domain"
	"github.com/geovale/cmip6-index-engine/internal/provider"
)

func writeFixture(t *testing.T, b *gridfile.Backend, model, scenario, band string, year int, recs []gridfile.Record) {
	t.Helper()
	path := b.Path(model, scenario, band, year)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, gocsv.Marshal(recs, f))
}

func TestFetchDailySeriesAssemblesDaysInOrder(t *testing.T) {
	backend := gridfile.New(t.TempDir())
	writeFixture(t, backend, "ACCESS-CM2", "historical", "precipitation", 1990, []gridfile.Record{
		// Second day listed first: assembly must sort by date.
		{Date: "1990-01-02", X: 0, Y: 0, Value: 2e-5},
		{Date: "1990-01-02", X: 1, Y: 0, Value: 3e-5},
		{Date: "1990-01-01", X: 0, Y: 0, Value: 0},
		{Date: "1990-01-01", X: 1, Y: 0, Value: 1e-5},
	})

	s, err := backend.FetchDailySeries(context.Background(), provider.GridQuery{
		Model:     "ACCESS-CM2",
		Scenario:  "historical",
		StartDate: "1990-01-01",
		EndDate:   "1990-01-02",
		Variable:  domain.VarPrecipitation,
	})
	require.NoError(t, err)

	require.Equal(t, 2, s.Len())
	assert.Equal(t, 2, s.Width())
	assert.Equal(t, 1, s.Height())
	assert.Equal(t, 0.0, s.Day(0).Cell(0))
	assert.Equal(t, 2e-5, s.Day(1).Cell(0))
	assert.False(t, s.Converted(), "fixture data stays in raw units")
}

func TestFetchDailySeriesMissingCellsAreNoData(t *testing.T) {
	backend := gridfile.New(t.TempDir())
	writeFixture(t, backend, "ACCESS-CM2", "historical", "tasmax", 1990, []gridfile.Record{
		{Date: "1990-01-01", X: 0, Y: 0, Value: 295},
		{Date: "1990-01-01", X: 1, Y: 1, Value: 297},
	})

	s, err := backend.FetchDailySeries(context.Background(), provider.GridQuery{
		Model:     "ACCESS-CM2",
		Scenario:  "historical",
		StartDate: "1990-01-01",
		EndDate:   "1990-01-01",
		Variable:  domain.VarTasmax,
	})
	require.NoError(t, err)

	day := s.Day(0)
	assert.Equal(t, 295.0, day.At(0, 0))
	assert.Equal(t, 297.0, day.At(1, 1))
	assert.True(t, math.IsNaN(day.At(1, 0)))
	assert.True(t, math.IsNaN(day.At(0, 1)))
}

func TestFetchDailySeriesFiltersDateRange(t *testing.T) {
	backend := gridfile.New(t.TempDir())
	writeFixture(t, backend, "ACCESS-CM2", "historical", "tasmax", 1990, []gridfile.Record{
		{Date: "1990-01-01", X: 0, Y: 0, Value: 290},
		{Date: "1990-01-02", X: 0, Y: 0, Value: 291},
		{Date: "1990-01-03", X: 0, Y: 0, Value: 292},
	})

	s, err := backend.FetchDailySeries(context.Background(), provider.GridQuery{
		Model:     "ACCESS-CM2",
		Scenario:  "historical",
		StartDate: "1990-01-02",
		EndDate:   "1990-01-02",
		Variable:  domain.VarTasmax,
	})
	require.NoError(t, err)

	require.Equal(t, 1, s.Len())
	assert.Equal(t, 291.0, s.Day(0).Cell(0))
}

func TestFetchDailySeriesSpansYearBoundary(t *testing.T) {
	backend := gridfile.New(t.TempDir())
	writeFixture(t, backend, "ACCESS-CM2", "historical", "tasmax", 1990, []gridfile.Record{
		{Date: "1990-12-31", X: 0, Y: 0, Value: 280},
	})
	writeFixture(t, backend, "ACCESS-CM2", "historical", "tasmax", 1991, []gridfile.Record{
		{Date: "1991-01-01", X: 0, Y: 0, Value: 281},
	})

	s, err := backend.FetchDailySeries(context.Background(), provider.GridQuery{
		Model:     "ACCESS-CM2",
		Scenario:  "historical",
		StartDate: "1990-12-31",
		EndDate:   "1991-01-01",
		Variable:  domain.VarTasmax,
	})
	require.NoError(t, err)

	require.Equal(t, 2, s.Len())
	assert.Equal(t, 280.0, s.Day(0).Cell(0))
	assert.Equal(t, 281.0, s.Day(1).Cell(0))
}

func TestFetchDailySeriesMissingFixture(t *testing.T) {
	backend := gridfile.New(t.TempDir())

	_, err := backend.FetchDailySeries(context.Background(), provider.GridQuery{
		Model:     "ACCESS-CM2",
		Scenario:  "historical",
		StartDate: "1990-01-01",
		EndDate:   "1990-12-31",
		Variable:  domain.VarTasmax,
	})
	assert.Error(t, err)
}
