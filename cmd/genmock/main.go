// Command genmock generates deterministic daily-grid CSV fixtures for the
// analysis and test suites. It runs the actual synthetic backend and writes
// files in the exact layout the gridfile backend reads, so fixture data and
// runtime parsing can never drift apart.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -out data/mock \
//	  -models ACCESS-CM2,EC-Earth3 \
//	  -scenario ssp245 \
//	  -start-year 1995 -end-year 2016 \
//	  -width 12 -height 10
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/geovale/cmip6-index-engine/internal/adapter/gridfile"
	"github.com/geovale/cmip6-index-engine/internal/adapter/synthetic"
	"github.com/geovale/cmip6-index-engine/internal/domain"
	"github.com/geovale/cmip6-index-engine/internal/grid"
	"github.com/geovale/cmip6-index-engine/internal/provider"
)

// futureStartYear is the first year stored under an SSP scenario label;
// everything before it is "historical".
const futureStartYear = 2015

var fixtureVariables = []domain.Variable{
	domain.VarPrecipitation,
	domain.VarTasmax,
	domain.VarTasmin,
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output directory for fixture files")
	models := flag.String("models", "ACCESS-CM2", "comma-separated CMIP6 model names")
	scenario := flag.String("scenario", string(domain.ScenarioSSP245), "SSP scenario for post-2014 years")
	startYear := flag.Int("start-year", 1995, "first fixture year")
	endYear := flag.Int("end-year", 2016, "last fixture year")
	width := flag.Int("width", 12, "grid columns")
	height := flag.Int("height", 10, "grid rows")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if !domain.ValidScenario(domain.Scenario(*scenario)) {
		return fmt.Errorf("unknown scenario %q", *scenario)
	}

	backend := synthetic.New(*width, *height)
	files := 0

	for _, model := range strings.Split(*models, ",") {
		model = strings.TrimSpace(model)
		if !domain.ValidModel(model) {
			return fmt.Errorf("unknown model %q", model)
		}
		for year := *startYear; year <= *endYear; year++ {
			label := scenarioLabel(year, *scenario)
			for _, variable := range fixtureVariables {
				if err := writeYear(backend, *out, model, label, variable, year); err != nil {
					return fmt.Errorf("writing %s/%s %s %d: %w", model, label, variable, year, err)
				}
				files++
			}
		}
		log.Printf("%s: %d years", model, *endYear-*startYear+1)
	}

	log.Printf("wrote %d fixture files under %s", files, *out)
	return nil
}

func scenarioLabel(year int, scenario string) string {
	if year < futureStartYear {
		return "historical"
	}
	return scenario
}

func writeYear(backend *synthetic.Backend, out, model, label string, variable domain.Variable, year int) error {
	start, end := domain.YearDates(year)
	series, err := backend.FetchDailySeries(context.Background(), provider.GridQuery{
		Model:     model,
		Scenario:  label,
		StartDate: start,
		EndDate:   end,
		Variable:  variable,
	})
	if err != nil {
		return err
	}

	reader := gridfile.New(out)
	path := reader.Path(model, label, string(variable), year)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	records := toRecords(series, start)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.Marshal(records, f)
}

// toRecords flattens a series into long-format rows, skipping no-data cells.
// startDate is day zero in YYYY-MM-DD form.
func toRecords(s grid.Series, startDate string) []gridfile.Record {
	var records []gridfile.Record
	for t := 0; t < s.Len(); t++ {
		date := addDays(startDate, t)
		day := s.Day(t)
		for y := 0; y < day.Height(); y++ {
			for x := 0; x < day.Width(); x++ {
				v := day.At(x, y)
				if math.IsNaN(v) {
					continue
				}
				records = append(records, gridfile.Record{Date: date, X: x, Y: y, Value: v})
			}
		}
	}
	return records
}

func addDays(date string, n int) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, n).Format("2006-01-02")
}
