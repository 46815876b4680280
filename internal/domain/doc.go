// Package domain models NASA GDDP-CMIP6 downscaled climate projection data.
//
// # Data Source
//
// Daily grids come from the NEX-GDDP-CMIP6 collection: bias-corrected,
// statistically downscaled projections from 31 CMIP6 general circulation
// models, one image per model per scenario per day. Each image carries the
// bands pr (precipitation flux), tas, tasmax and tasmin (near-surface air
// temperatures).
//
// # Raw Units
//
//	pr:               kg·m⁻²·s⁻¹ (flux). Multiplied by 86400 to obtain mm/day.
//	tas/tasmax/tasmin: Kelvin. 273.15 is subtracted to obtain °C.
//
// Unit conversion happens exactly once, in the provider, before a series is
// cached. Downstream index math only ever sees mm/day and °C.
//
// # Scenarios and Timeframes
//
// The collection branches at 2015: records up to 2014 belong to the literal
// "historical" scenario, later records to one of the SSP experiments (ssp245,
// ssp585). A historical analysis period therefore always filters on
// "historical" no matter which SSP the user selected — future-scenario choice
// must never influence the historical baseline.
//
// Analysis eras and their valid year ranges:
//
//	historical:  1980–2014
//	near_future: 2015–2060
//	far_future:  2061–2100
//
// Any selected period must lie inside its era and span at least 20 years,
// the minimum record length for which WMO-style climate indices are
// considered meaningful.
package domain
