// Package catalog is the read-only registry of supported climate indices and
// their metadata. The registry is built once at process start and never
// mutated; consumers receive it by reference.
package catalog

import (
	"github.com/geovale/cmip6-index-engine/internal/domain"
)

// Category groups indices by the variables they consume.
type Category string

const (
	CategoryPrecipitation Category = "precipitation"
	CategoryTemperature   Category = "temperature"
)

// Range is the expected value range of an index, used as a rendering hint.
type Range struct {
	Min float64
	Max float64
}

// Definition is the immutable descriptor of one climate index.
type Definition struct {
	Key         string
	DisplayName string
	Category    Category
	Description string
	Units       string
	ValidRange  Range
	Palette     []string // ordered hex colors; category default when omitted
}

// Default palettes: a 3-stop blue ramp for precipitation, a diverging
// red-blue ramp for temperature.
var (
	defaultPrecipPalette = []string{"#deebf7", "#9ecae1", "#3182bd"}
	defaultTempPalette   = []string{"#2166ac", "#f7f7f7", "#b2182b"}
)

// order preserves the catalog's listing order, precipitation first.
var order = []string{
	"annual_total_precip", "prcptot", "rx1day", "rx5day", "sdii",
	"r10mm", "r20mm", "cdd", "cwd", "r90p", "r95p", "r99p",
	"txx", "tnn", "dtr", "fd", "su", "tr", "wsdi", "csdi",
	"tn10p", "tx90p", "gsl",
}

var indices = map[string]Definition{
	"annual_total_precip": {
		Key: "annual_total_precip", DisplayName: "Annual Total Precipitation",
		Category: CategoryPrecipitation, Units: "mm/year",
		Description: "Total precipitation over the period",
		ValidRange:  Range{0, 3000},
	},
	"prcptot": {
		Key: "prcptot", DisplayName: "Wet-Day Precipitation Total",
		Category: CategoryPrecipitation, Units: "mm/year",
		Description: "Total precipitation on days with at least 1mm",
		ValidRange:  Range{0, 3000},
	},
	"rx1day": {
		Key: "rx1day", DisplayName: "Maximum 1-day Precipitation",
		Category: CategoryPrecipitation, Units: "mm/day",
		Description: "Maximum 1-day precipitation",
		ValidRange:  Range{0, 200},
	},
	"rx5day": {
		Key: "rx5day", DisplayName: "Maximum 5-day Precipitation",
		Category: CategoryPrecipitation, Units: "mm/5day",
		Description: "Maximum precipitation over any 5 consecutive days",
		ValidRange:  Range{0, 400},
	},
	"sdii": {
		Key: "sdii", DisplayName: "Simple Daily Intensity Index",
		Category: CategoryPrecipitation, Units: "mm/day",
		Description: "Mean precipitation on wet days (≥1mm)",
		ValidRange:  Range{0, 50},
	},
	"r10mm": {
		Key: "r10mm", DisplayName: "Heavy Precipitation Days",
		Category: CategoryPrecipitation, Units: "days",
		Description: "Count of days with precipitation ≥10mm",
		ValidRange:  Range{0, 365},
	},
	"r20mm": {
		Key: "r20mm", DisplayName: "Very Heavy Precipitation Days",
		Category: CategoryPrecipitation, Units: "days",
		Description: "Count of days with precipitation ≥20mm",
		ValidRange:  Range{0, 365},
	},
	"cdd": {
		Key: "cdd", DisplayName: "Consecutive Dry Days",
		Category: CategoryPrecipitation, Units: "days",
		Description: "Longest run of consecutive days with precipitation <1mm",
		ValidRange:  Range{0, 365},
	},
	"cwd": {
		Key: "cwd", DisplayName: "Consecutive Wet Days",
		Category: CategoryPrecipitation, Units: "days",
		Description: "Longest run of consecutive days with precipitation ≥1mm",
		ValidRange:  Range{0, 365},
	},
	"r90p": {
		Key: "r90p", DisplayName: "Very Wet Days",
		Category: CategoryPrecipitation, Units: "days",
		Description: "Count of days with precipitation above the series' own 90th percentile",
		ValidRange:  Range{0, 365},
	},
	"r95p": {
		Key: "r95p", DisplayName: "Extremely Wet Days",
		Category: CategoryPrecipitation, Units: "days",
		Description: "Count of days with precipitation above the series' own 95th percentile",
		ValidRange:  Range{0, 365},
	},
	"r99p": {
		Key: "r99p", DisplayName: "Exceptionally Wet Days",
		Category: CategoryPrecipitation, Units: "days",
		Description: "Count of days with precipitation above the series' own 99th percentile",
		ValidRange:  Range{0, 365},
	},

	"txx": {
		Key: "txx", DisplayName: "Maximum Temperature",
		Category: CategoryTemperature, Units: "°C",
		Description: "Maximum value of daily maximum temperature",
		ValidRange:  Range{-10, 45},
	},
	"tnn": {
		Key: "tnn", DisplayName: "Minimum Temperature",
		Category: CategoryTemperature, Units: "°C",
		Description: "Minimum value of daily minimum temperature",
		ValidRange:  Range{-30, 25},
	},
	"dtr": {
		Key: "dtr", DisplayName: "Diurnal Temperature Range",
		Category: CategoryTemperature, Units: "°C",
		Description: "Mean difference between daily max and min temperature",
		ValidRange:  Range{0, 20},
	},
	"fd": {
		Key: "fd", DisplayName: "Frost Days",
		Category: CategoryTemperature, Units: "days",
		Description: "Count of days with minimum temperature <0°C",
		ValidRange:  Range{0, 365},
	},
	"su": {
		Key: "su", DisplayName: "Summer Days",
		Category: CategoryTemperature, Units: "days",
		Description: "Count of days with maximum temperature >25°C",
		ValidRange:  Range{0, 365},
	},
	"tr": {
		Key: "tr", DisplayName: "Tropical Nights",
		Category: CategoryTemperature, Units: "days",
		Description: "Count of days with minimum temperature >20°C",
		ValidRange:  Range{0, 365},
	},
	"wsdi": {
		Key: "wsdi", DisplayName: "Warm Spell Duration",
		Category: CategoryTemperature, Units: "days",
		Description: "Longest run of consecutive days with max temperature above the 90th percentile",
		ValidRange:  Range{0, 365},
	},
	"csdi": {
		Key: "csdi", DisplayName: "Cold Spell Duration",
		Category: CategoryTemperature, Units: "days",
		Description: "Longest run of consecutive days with min temperature below the 10th percentile",
		ValidRange:  Range{0, 365},
	},
	"tn10p": {
		Key: "tn10p", DisplayName: "Cold Nights",
		Category: CategoryTemperature, Units: "%",
		Description: "Share of days with minimum temperature below the series' own 10th percentile",
		ValidRange:  Range{0, 100},
	},
	"tx90p": {
		Key: "tx90p", DisplayName: "Warm Days",
		Category: CategoryTemperature, Units: "%",
		Description: "Share of days with maximum temperature above the series' own 90th percentile",
		ValidRange:  Range{0, 100},
	},
	"gsl": {
		Key: "gsl", DisplayName: "Growing Season Length",
		Category: CategoryTemperature, Units: "days",
		Description: "Longest run of at least 6 consecutive days with mean temperature >5°C",
		ValidRange:  Range{0, 365},
	},
}

// List returns the index keys in catalog order, optionally filtered by
// category (empty category means all).
func List(category Category) []string {
	keys := make([]string, 0, len(order))
	for _, k := range order {
		if category != "" && indices[k].Category != category {
			continue
		}
		keys = append(keys, k)
	}
	return keys
}

// Get returns the definition for key, with the category default palette
// filled in when the entry declares none. Unknown keys fail with
// UnknownIndexError.
func Get(key string) (Definition, error) {
	def, ok := indices[key]
	if !ok {
		return Definition{}, &domain.UnknownIndexError{Key: key}
	}
	if def.Palette == nil {
		if def.Category == CategoryPrecipitation {
			def.Palette = defaultPrecipPalette
		} else {
			def.Palette = defaultTempPalette
		}
	}
	return def, nil
}
