package synthetic_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geovale/cmip6-index-engine/internal/adapter/synthetic"
	"github.com/geovale/cmip6-index-engine/internal/domain"
	"github.com/geovale/cmip6-index-engine/internal/grid"
	"github.com/geovale/cmip6-index-engine/internal/provider"
)

func fetch(t *testing.T, b *synthetic.Backend, q provider.GridQuery) grid.Series {
	t.Helper()
	s, err := b.FetchDailySeries(context.Background(), q)
	require.NoError(t, err)
	return s
}

func baseQuery(v domain.Variable) provider.GridQuery {
	return provider.GridQuery{
		Model:     "ACCESS-CM2",
		Scenario:  "historical",
		StartDate: "1990-01-01",
		EndDate:   "1990-01-31",
		Variable:  v,
	}
}

func TestFetchDailySeriesIsDeterministic(t *testing.T) {
	b := synthetic.New(4, 3)
	q := baseQuery(domain.VarTasmax)

	first := fetch(t, b, q)
	second := fetch(t, b, q)

	require.Equal(t, first.Len(), second.Len())
	for i := 0; i < first.Day(0).Size(); i++ {
		assert.Equal(t, first.Day(0).Cell(i), second.Day(0).Cell(i))
	}
}

func TestFetchDailySeriesCoversDateRange(t *testing.T) {
	b := synthetic.New(2, 2)
	s := fetch(t, b, baseQuery(domain.VarPrecipitation))

	assert.Equal(t, 31, s.Len())
	assert.Equal(t, 2, s.Width())
	assert.Equal(t, 2, s.Height())
	assert.False(t, s.Converted())
}

func TestTemperaturesStayInKelvinRange(t *testing.T) {
	b := synthetic.New(3, 3)
	tasmax := fetch(t, b, baseQuery(domain.VarTasmax))
	tasmin := fetch(t, b, baseQuery(domain.VarTasmin))

	for d := 0; d < tasmax.Len(); d++ {
		for i := 0; i < tasmax.Day(d).Size(); i++ {
			assert.Greater(t, tasmax.Day(d).Cell(i), 200.0, "raw Kelvin, never Celsius")
			assert.Less(t, tasmax.Day(d).Cell(i), 340.0)
			assert.Greater(t, tasmax.Day(d).Cell(i), tasmin.Day(d).Cell(i),
				"daily max above daily min")
		}
	}
}

func TestPrecipitationFluxNonNegativeWithDryDays(t *testing.T) {
	b := synthetic.New(3, 3)
	q := baseQuery(domain.VarPrecipitation)
	q.EndDate = "1990-12-31"
	s := fetch(t, b, q)

	dry := 0
	for d := 0; d < s.Len(); d++ {
		for i := 0; i < s.Day(d).Size(); i++ {
			v := s.Day(d).Cell(i)
			assert.GreaterOrEqual(t, v, 0.0)
			if v == 0 {
				dry++
			}
		}
	}
	assert.Greater(t, dry, 0, "some days must be dry for cdd to be meaningful")
}

func TestModelsDiverge(t *testing.T) {
	b := synthetic.New(2, 2)
	q1 := baseQuery(domain.VarTasmax)
	q2 := q1
	q2.Model = "EC-Earth3"

	s1 := fetch(t, b, q1)
	s2 := fetch(t, b, q2)

	assert.NotEqual(t, s1.Day(0).Cell(0), s2.Day(0).Cell(0))
}

func TestRejectsBadDates(t *testing.T) {
	b := synthetic.New(2, 2)

	q := baseQuery(domain.VarTasmax)
	q.StartDate = "soon"
	_, err := b.FetchDailySeries(context.Background(), q)
	assert.Error(t, err)

	q = baseQuery(domain.VarTasmax)
	q.EndDate = "1989-01-01"
	_, err = b.FetchDailySeries(context.Background(), q)
	assert.Error(t, err)
}
