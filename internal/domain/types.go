package domain

// Variable identifies a daily climate variable in the source collection.
type Variable string

const (
	VarPrecipitation Variable = "precipitation"
	VarTemperature   Variable = "temperature"
	VarTasmax        Variable = "tasmax"
	VarTasmin        Variable = "tasmin"
)

// VariableInfo describes a variable's source band and units.
type VariableInfo struct {
	Band        string // band name in the source collection
	Units       string // analysis units after conversion
	RawUnits    string // units as stored in the source collection
	Description string
}

var variables = map[Variable]VariableInfo{
	VarPrecipitation: {Band: "pr", Units: "mm/day", RawUnits: "kg/m^2/s", Description: "Daily precipitation rate"},
	VarTemperature:   {Band: "tas", Units: "°C", RawUnits: "K", Description: "Near-surface air temperature"},
	VarTasmax:        {Band: "tasmax", Units: "°C", RawUnits: "K", Description: "Daily maximum near-surface air temperature"},
	VarTasmin:        {Band: "tasmin", Units: "°C", RawUnits: "K", Description: "Daily minimum near-surface air temperature"},
}

// LookupVariable returns metadata for a variable, or UnknownVariableError.
func LookupVariable(v Variable) (VariableInfo, error) {
	info, ok := variables[v]
	if !ok {
		return VariableInfo{}, &UnknownVariableError{Variable: string(v)}
	}
	return info, nil
}

// Scenario is a CMIP6 Shared Socioeconomic Pathway experiment.
type Scenario string

const (
	ScenarioSSP245 Scenario = "ssp245"
	ScenarioSSP585 Scenario = "ssp585"
)

// scenarioHistorical is the literal scenario label of pre-2015 records.
// It is not user-selectable; see Timeframe.ScenarioFilter.
const scenarioHistorical = "historical"

// Scenarios lists the selectable SSP experiments.
func Scenarios() []Scenario {
	return []Scenario{ScenarioSSP245, ScenarioSSP585}
}

// ValidScenario reports whether s is a selectable SSP experiment.
func ValidScenario(s Scenario) bool {
	return s == ScenarioSSP245 || s == ScenarioSSP585
}

// Timeframe is one of the three analysis eras.
type Timeframe string

const (
	TimeframeHistorical Timeframe = "historical"
	TimeframeNearFuture Timeframe = "near_future"
	TimeframeFarFuture  Timeframe = "far_future"
)

// Timeframes lists the analysis eras in chronological order.
func Timeframes() []Timeframe {
	return []Timeframe{TimeframeHistorical, TimeframeNearFuture, TimeframeFarFuture}
}

// ScenarioFilter returns the scenario label to filter source records by for
// this timeframe. Historical periods always resolve to the literal
// "historical" scenario; the configured SSP only applies to future eras.
func (t Timeframe) ScenarioFilter(selected Scenario) string {
	if t == TimeframeHistorical {
		return scenarioHistorical
	}
	return string(selected)
}

// Models lists the 31 CMIP6 general circulation models present in the
// NEX-GDDP-CMIP6 collection.
func Models() []string {
	return []string{
		"ACCESS-CM2", "ACCESS-ESM1-5", "BCC-CSM2-MR", "CESM2",
		"CESM2-WACCM", "CMCC-CM2-SR5", "CMCC-ESM2", "CNRM-CM6-1",
		"CNRM-ESM2-1", "CanESM5", "EC-Earth3", "EC-Earth3-Veg-LR",
		"FGOALS-g3", "GFDL-ESM4", "GISS-E2-1-G", "HadGEM3-GC31-LL",
		"HadGEM3-GC31-MM", "INM-CM4-8", "INM-CM5-0", "IPSL-CM6A-LR",
		"KACE-1-0-G", "KIOST-ESM", "MIROC-ES2L", "MIROC6",
		"MPI-ESM1-2-HR", "MPI-ESM1-2-LR", "MRI-ESM2-0", "NorESM2-LM",
		"NorESM2-MM", "TaiESM1", "UKESM1-0-LL",
	}
}

// ValidModel reports whether name is one of the known CMIP6 models.
func ValidModel(name string) bool {
	for _, m := range Models() {
		if m == name {
			return true
		}
	}
	return false
}
