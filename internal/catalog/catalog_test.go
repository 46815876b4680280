package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geovale/cmip6-index-engine/internal/catalog"
	"github.com/geovale/cmip6-index-engine/internal/domain"
)

func TestListReturnsFullCatalogInOrder(t *testing.T) {
	keys := catalog.List("")
	require.Len(t, keys, 23)
	assert.Equal(t, "annual_total_precip", keys[0])
	assert.Equal(t, "gsl", keys[len(keys)-1])
}

func TestListFiltersByCategory(t *testing.T) {
	precip := catalog.List(catalog.CategoryPrecipitation)
	temp := catalog.List(catalog.CategoryTemperature)

	assert.Len(t, precip, 12)
	assert.Len(t, temp, 11)

	for _, k := range precip {
		def, err := catalog.Get(k)
		require.NoError(t, err)
		assert.Equal(t, catalog.CategoryPrecipitation, def.Category)
	}
}

func TestGetKnownIndex(t *testing.T) {
	def, err := catalog.Get("cdd")
	require.NoError(t, err)

	assert.Equal(t, "cdd", def.Key)
	assert.Equal(t, catalog.CategoryPrecipitation, def.Category)
	assert.Equal(t, "days", def.Units)
}

func TestGetUnknownIndex(t *testing.T) {
	_, err := catalog.Get("heatwave_season")
	require.Error(t, err)

	var unknown *domain.UnknownIndexError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "heatwave_season", unknown.Key)
}

func TestGetFillsDefaultPalette(t *testing.T) {
	for _, key := range catalog.List("") {
		def, err := catalog.Get(key)
		require.NoError(t, err)
		assert.NotEmpty(t, def.Palette, "index %s has no palette", key)
	}
}

func TestPercentageIndicesUsePercentUnits(t *testing.T) {
	for _, key := range []string{"tn10p", "tx90p"} {
		def, err := catalog.Get(key)
		require.NoError(t, err)
		assert.Equal(t, "%", def.Units, key)
	}
}
