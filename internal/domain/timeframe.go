package domain

import "fmt"

// MinPeriodYears is the minimum analysis period length in years.
const MinPeriodYears = 20

// TimeframeConfig bounds the selectable years of one analysis era.
type TimeframeConfig struct {
	MinYear     int
	MaxYear     int
	MinDuration int // minimum period length in years
}

var timeframeConfigs = map[Timeframe]TimeframeConfig{
	TimeframeHistorical: {MinYear: 1980, MaxYear: 2014, MinDuration: MinPeriodYears},
	TimeframeNearFuture: {MinYear: 2015, MaxYear: 2060, MinDuration: MinPeriodYears},
	TimeframeFarFuture:  {MinYear: 2061, MaxYear: 2100, MinDuration: MinPeriodYears},
}

// ConfigFor returns the year bounds for a timeframe.
func ConfigFor(t Timeframe) (TimeframeConfig, error) {
	cfg, ok := timeframeConfigs[t]
	if !ok {
		return TimeframeConfig{}, &ValidationError{Msg: fmt.Sprintf("unknown timeframe %q", t)}
	}
	return cfg, nil
}

// ValidatePeriod checks that [startYear, endYear] lies inside the timeframe's
// bounds and spans at least MinDuration years.
func (c TimeframeConfig) ValidatePeriod(startYear, endYear int) error {
	if startYear > endYear {
		return &ValidationError{Msg: fmt.Sprintf("start year %d after end year %d", startYear, endYear)}
	}
	if startYear < c.MinYear || endYear > c.MaxYear {
		return &ValidationError{Msg: fmt.Sprintf(
			"period %d–%d outside valid range %d–%d", startYear, endYear, c.MinYear, c.MaxYear)}
	}
	if endYear-startYear+1 < c.MinDuration {
		return &ValidationError{Msg: fmt.Sprintf(
			"period %d–%d shorter than %d years", startYear, endYear, c.MinDuration)}
	}
	return nil
}

// YearRange is an inclusive [Start, End] pair of calendar years.
type YearRange struct {
	Start int
	End   int
}

// Dates renders the range as full-year ISO dates: YYYY-01-01 .. YYYY-12-31.
func (r YearRange) Dates() (string, string) {
	return fmt.Sprintf("%d-01-01", r.Start), fmt.Sprintf("%d-12-31", r.End)
}

// YearDates renders a single calendar year as ISO start/end dates.
func YearDates(year int) (string, string) {
	return YearRange{Start: year, End: year}.Dates()
}

// PeriodSelection holds the chosen year range per analysis era.
type PeriodSelection struct {
	Historical YearRange
	NearFuture YearRange
	FarFuture  YearRange
}

// Range returns the selected year range for a timeframe.
func (p PeriodSelection) Range(t Timeframe) YearRange {
	switch t {
	case TimeframeNearFuture:
		return p.NearFuture
	case TimeframeFarFuture:
		return p.FarFuture
	default:
		return p.Historical
	}
}

// Validate checks every period against its era bounds and requires the three
// periods to be chronologically ordered without overlap.
func (p PeriodSelection) Validate() error {
	for _, t := range Timeframes() {
		cfg, err := ConfigFor(t)
		if err != nil {
			return err
		}
		r := p.Range(t)
		if err := cfg.ValidatePeriod(r.Start, r.End); err != nil {
			return fmt.Errorf("%s: %w", t, err)
		}
	}
	if !(p.Historical.End < p.NearFuture.Start && p.NearFuture.End < p.FarFuture.Start) {
		return &ValidationError{Msg: "periods must be in chronological order without overlap"}
	}
	return nil
}
