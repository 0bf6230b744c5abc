// Command validate runs a table of reference cases through the Modified
// Berggren chain and checks the computed lambda and depth against the
// expected values. It also cross-checks each trace against the individual
// formula functions and the calculator used by the service.
//
// Usage:
//
//	go run ./cmd/validate -cases cmd/validate/testdata/reference_cases.csv
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/couchcryptid/frost-depth-service/internal/domain"
	"github.com/couchcryptid/frost-depth-service/internal/observability"
	"github.com/couchcryptid/frost-depth-service/internal/pipeline"
	"github.com/jonboulle/clockwork"
)

const tolerance = 1e-9

// refCase is one row of the reference table.
type refCase struct {
	name           string
	inputs         domain.Inputs
	expectedLambda float64
	expectedDepth  float64
}

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	casesPath := flag.String("cases", "cmd/validate/testdata/reference_cases.csv", "path to the reference case CSV")
	flag.Parse()

	if *casesPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(os.Stdout, *casesPath); code != 0 {
		os.Exit(code)
	}
}

func run(w io.Writer, casesPath string) int {
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)))
	defer domain.SetClock(nil)

	fmt.Fprintln(w, "=== Frost Depth Reference Validation ===")
	fmt.Fprintln(w)

	cases, err := loadCases(casesPath)
	if err != nil {
		fmt.Fprintf(w, "FATAL: load cases: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateReferenceDepths(cases),
		validateChainConsistency(cases),
		validateVariantOrdering(cases),
		validateCalculatorParity(cases),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Cases: %d\n", len(cases))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(w, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(w, "\nValidation FAILED.")
	return 1
}

// ── Phase 1: expected lambda and depth ──

func validateReferenceDepths(cases []refCase) *phase {
	p := &phase{name: "Phase 1: Reference depths"}
	for _, c := range cases {
		tr, err := domain.Berggren(c.inputs)
		if err != nil {
			p.errorf("%s: %v", c.name, err)
			continue
		}
		if !closeTo(tr.Lambda, c.expectedLambda) {
			p.errorf("%s: lambda = %g, want %g", c.name, tr.Lambda, c.expectedLambda)
		}
		if !closeTo(tr.Depth, c.expectedDepth) {
			p.errorf("%s: depth = %g ft, want %g ft", c.name, tr.Depth, c.expectedDepth)
		}
	}
	return p
}

// ── Phase 2: trace agrees with the individual formulas ──

func validateChainConsistency(cases []refCase) *phase {
	p := &phase{name: "Phase 2: Derivation chain consistency"}
	for _, c := range cases {
		in := c.inputs
		tr, err := domain.Berggren(in)
		if err != nil {
			p.errorf("%s: %v", c.name, err)
			continue
		}

		check := func(field string, got, want float64) {
			if !closeTo(got, want) {
				p.errorf("%s: %s = %g, recomputed %g", c.name, field, got, want)
			}
		}

		latent := domain.LatentHeatOfFusion(in.DryDensity, in.WaterContent)
		specific := domain.SpecificHeatAverage(in.DryDensity, in.WaterContent)
		check("latent_heat", tr.LatentHeat, latent)
		check("specific_heat", tr.SpecificHeat, specific)
		check("surface_index", tr.SurfaceIndex, in.NFactor*in.AirIndex)

		frozen := domain.SpecificHeatFrozen(in.DryDensity, in.WaterContent)
		unfrozen := domain.SpecificHeatUnfrozen(in.DryDensity, in.WaterContent)
		if specific < frozen || specific > unfrozen {
			p.errorf("%s: average specific heat %g outside [%g, %g]", c.name, specific, frozen, unfrozen)
		}

		var vs float64
		if tr.VsMethod == domain.VsMultiyear {
			vs = domain.MultiyearVs(in.MeanAnnualTemp)
		} else if vs, err = domain.SeasonalVs(tr.SurfaceIndex, in.Duration); err != nil {
			p.errorf("%s: %v", c.name, err)
			continue
		}
		check("v_s", tr.Vs, vs)
		check("v_o", tr.Vo, domain.Vo(tr.GroundTemp))

		ratio, err := domain.ThermalRatio(tr.Vo, tr.Vs)
		if err != nil {
			p.errorf("%s: %v", c.name, err)
			continue
		}
		check("thermal_ratio", tr.ThermalRatio, ratio)

		mu, err := domain.FusionParameter(tr.Vs, tr.SpecificHeat, tr.LatentHeat)
		if err != nil {
			p.errorf("%s: %v", c.name, err)
			continue
		}
		check("mu", tr.Mu, mu)

		lambda, err := domain.LambdaCoefficient(tr.LambdaVariant, tr.Mu, tr.ThermalRatio)
		if err != nil {
			p.errorf("%s: %v", c.name, err)
			continue
		}
		check("lambda", tr.Lambda, lambda)

		depth, err := domain.FrostDepth(tr.Lambda, in.Conductivity, tr.SurfaceIndex, tr.LatentHeat)
		if err != nil {
			p.errorf("%s: %v", c.name, err)
			continue
		}
		check("depth_ft", tr.Depth, depth)
	}
	return p
}

// ── Phase 3: low latitude < blended < high latitude ──

func validateVariantOrdering(cases []refCase) *phase {
	p := &phase{name: "Phase 3: Lambda variant ordering"}
	for _, c := range cases {
		lambdas := make(map[domain.LambdaVariant]float64, 3)
		for _, v := range domain.LambdaVariants() {
			in := c.inputs
			in.Lambda = v
			tr, err := domain.Berggren(in)
			if err != nil {
				p.errorf("%s/%s: %v", c.name, v, err)
				continue
			}
			lambdas[v] = tr.Lambda
		}
		if len(lambdas) != 3 {
			continue
		}
		low, blended, high := lambdas[domain.LambdaLowLatitude], lambdas[domain.LambdaBlended], lambdas[domain.LambdaHighLatitude]
		if !(low < blended && blended < high) {
			p.errorf("%s: lambda ordering low=%g blended=%g high=%g", c.name, low, blended, high)
		}
	}
	return p
}

// ── Phase 4: calculator produces the same result as the bare chain ──

func validateCalculatorParity(cases []refCase) *phase {
	p := &phase{name: "Phase 4: Calculator parity"}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	for _, c := range cases {
		in := c.inputs
		// Air indices arrive from the climate API as whole degree-days.
		if in.AirIndex != math.Trunc(in.AirIndex) {
			continue
		}
		provider := domain.StaticClimate{MeanAnnualTemp: in.MeanAnnualTemp, Freezing: int(in.AirIndex)}
		calc := pipeline.NewCalculator(provider, "", logger, observability.NewUnregisteredMetrics())

		res, err := calc.Compute(context.Background(), domain.Request{
			ID:                c.name,
			DryDensity:        in.DryDensity,
			WaterContent:      in.WaterContent,
			Duration:          in.Duration,
			NFactor:           in.NFactor,
			Conductivity:      in.Conductivity,
			Lat:               64.84,
			Lon:               -147.72,
			Model:             "NCAR-CCSM4",
			IndexModel:        "NCAR-CCSM4",
			Scenario:          "rcp85",
			YearStart:         2040,
			YearEnd:           2069,
			GroundTemperature: in.GroundTemperature,
			Lambda:            in.Lambda,
			VsMethod:          in.VsMethod,
		})
		if err != nil {
			p.errorf("%s: %v", c.name, err)
			continue
		}
		if !closeTo(res.FrostDepth, c.expectedDepth) {
			p.errorf("%s: calculator depth = %g ft, want %g ft", c.name, res.FrostDepth, c.expectedDepth)
		}

		data, err := json.Marshal(res)
		if err != nil {
			p.errorf("%s: marshal result: %v", c.name, err)
			continue
		}
		var fields map[string]any
		if err := json.Unmarshal(data, &fields); err != nil {
			p.errorf("%s: unmarshal result: %v", c.name, err)
			continue
		}
		for _, key := range []string{"id", "mode", "frost_depth_ft", "trace", "computed_at"} {
			if _, ok := fields[key]; !ok {
				p.errorf("%s: result JSON missing %q", c.name, key)
			}
		}
	}
	return p
}

// ── Loading ──

var caseColumns = []string{
	"name", "dry_density", "water_content", "duration_days", "n_factor", "conductivity",
	"mat_f", "air_index", "ground_temperature", "lambda_variant", "vs_method",
	"expected_lambda", "expected_depth_ft",
}

func loadCases(path string) ([]refCase, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s: no cases", path)
	}

	cols := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		cols[h] = i
	}
	for _, name := range caseColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", path, name)
		}
	}

	cases := make([]refCase, 0, len(rows)-1)
	for i, row := range rows[1:] {
		c, err := parseCase(row, cols)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+2, err)
		}
		cases = append(cases, c)
	}
	return cases, nil
}

func parseCase(row []string, cols map[string]int) (refCase, error) {
	var errs []error
	num := func(col string) float64 {
		v, err := strconv.ParseFloat(row[cols[col]], 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", col, err))
		}
		return v
	}

	c := refCase{
		name: row[cols["name"]],
		inputs: domain.Inputs{
			DryDensity:     num("dry_density"),
			WaterContent:   num("water_content"),
			Duration:       num("duration_days"),
			NFactor:        num("n_factor"),
			Conductivity:   num("conductivity"),
			MeanAnnualTemp: num("mat_f"),
			AirIndex:       num("air_index"),
			Lambda:         domain.LambdaVariant(row[cols["lambda_variant"]]),
			VsMethod:       domain.VsMethod(row[cols["vs_method"]]),
		},
		expectedLambda: num("expected_lambda"),
		expectedDepth:  num("expected_depth_ft"),
	}
	if raw := row[cols["ground_temperature"]]; raw != "" {
		g := num("ground_temperature")
		c.inputs.GroundTemperature = &g
	}
	if len(errs) > 0 {
		return refCase{}, errs[0]
	}
	return c, nil
}

func closeTo(a, b float64) bool {
	return math.Abs(a-b) <= tolerance
}
