package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/couchcryptid/frost-depth-service/internal/adapter/snap"
	"github.com/couchcryptid/frost-depth-service/internal/domain"
	"github.com/couchcryptid/frost-depth-service/internal/observability"
	"github.com/couchcryptid/frost-depth-service/internal/pipeline"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/spf13/cobra"
)

type computeOptions struct {
	req domain.Request

	lambda   string
	vsMethod string
	mode     string
	groundF  float64

	mat      float64
	freezing int
	thawing  int

	snapURL string
	timeout time.Duration
	trace   bool
	output  string
}

func computeCmd(newLogger func(io.Writer) *slog.Logger) *cobra.Command {
	var o computeOptions

	c := &cobra.Command{
		Use:   "compute",
		Short: "Compute frost (or thaw) depth for one site",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := o.request(cmd)
			if err != nil {
				return err
			}
			provider, err := o.provider(cmd, req.Mode, newLogger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}

			calc := pipeline.NewCalculator(provider, "", newLogger(cmd.ErrOrStderr()), observability.NewUnregisteredMetrics())
			res, err := calc.Compute(cmd.Context(), req)
			if err != nil {
				return err
			}
			if !o.trace {
				res = res.WithoutTrace()
			}
			return writeResult(cmd.OutOrStdout(), o.output, res)
		},
	}

	f := c.Flags()
	f.Float64Var(&o.req.DryDensity, "dry-density", 0, "Soil dry density, lb/ft³ (required)")
	f.Float64Var(&o.req.WaterContent, "water-content", 0, "Water content, percent (required)")
	f.Float64Var(&o.req.Duration, "duration", 0, "Season length, days (required)")
	f.Float64Var(&o.req.NFactor, "n-factor", 1, "Air-to-surface index conversion factor")
	f.Float64Var(&o.req.Conductivity, "conductivity", 0, "Average thermal conductivity, BTU/(hr·ft·°F) (required)")
	f.Float64Var(&o.req.Lat, "lat", 0, "Latitude (required)")
	f.Float64Var(&o.req.Lon, "lon", 0, "Longitude (required)")
	f.StringVar(&o.req.Model, "model", "NCAR-CCSM4", "Climate model for mean annual temperature")
	f.StringVar(&o.req.IndexModel, "fi-model", "NCAR-CCSM4", "Climate model for the freezing/thawing index")
	f.StringVar(&o.req.Scenario, "scenario", "rcp85", "Emissions scenario")
	f.IntVar(&o.req.YearStart, "year-start", 2040, "First year of the summary period")
	f.IntVar(&o.req.YearEnd, "year-end", 2069, "Last year of the summary period")
	f.StringVar(&o.lambda, "lambda", string(domain.LambdaHighLatitude), "Lambda variant: high_latitude, low_latitude, blended")
	f.StringVar(&o.vsMethod, "vs-method", string(domain.VsSeasonal), "v_s method: seasonal, multiyear")
	f.StringVar(&o.mode, "mode", string(domain.ModeFreeze), "freeze or thaw")
	f.Float64Var(&o.groundF, "ground-temp", 0, "Mean annual ground temperature, °F (defaults to MAT)")
	f.Float64Var(&o.mat, "mat", 0, "Mean annual temperature, °F (skips the climate API with an index flag)")
	f.IntVar(&o.freezing, "freezing-index", 0, "Air freezing index, °F·days")
	f.IntVar(&o.thawing, "thawing-index", 0, "Air thawing index, °F·days")
	f.StringVar(&o.snapURL, "snap-url", sharedcfg.EnvOrDefault("SNAP_BASE_URL", "http://127.0.0.1:5000/"), "SNAP Data API base URL")
	f.DurationVar(&o.timeout, "timeout", 30*time.Second, "Climate API request timeout")
	f.BoolVar(&o.trace, "trace", false, "Include every intermediate quantity")
	f.StringVarP(&o.output, "output", "o", "text", "Output format: text or json")

	for _, name := range []string{"dry-density", "water-content", "duration", "conductivity", "lat", "lon"} {
		_ = c.MarkFlagRequired(name)
	}
	return c
}

func (o *computeOptions) request(cmd *cobra.Command) (domain.Request, error) {
	req := o.req
	req.Lambda = domain.LambdaVariant(o.lambda)
	req.VsMethod = domain.VsMethod(o.vsMethod)
	req.Mode = domain.Mode(o.mode)
	if cmd.Flags().Changed("ground-temp") {
		g := o.groundF
		req.GroundTemperature = &g
	}
	if o.output != "text" && o.output != "json" {
		return req, fmt.Errorf("unknown output format %q", o.output)
	}
	return req, nil
}

// provider returns a static provider when the climate values were given on
// the command line, and a SNAP client otherwise.
func (o *computeOptions) provider(cmd *cobra.Command, mode domain.Mode, logger *slog.Logger) (domain.ClimateProvider, error) {
	flags := cmd.Flags()
	indexFlag := "freezing-index"
	if mode == domain.ModeThaw {
		indexFlag = "thawing-index"
	}

	hasMAT, hasIndex := flags.Changed("mat"), flags.Changed(indexFlag)
	switch {
	case hasMAT && hasIndex:
		return domain.StaticClimate{MeanAnnualTemp: o.mat, Freezing: o.freezing, Thawing: o.thawing}, nil
	case hasMAT || hasIndex:
		return nil, errors.New("--mat and --" + indexFlag + " must be given together")
	}
	return snap.NewClient(o.snapURL, o.timeout, observability.NewUnregisteredMetrics(), logger), nil
}

func writeResult(w io.Writer, format string, res domain.Result) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	label := "Frost depth"
	if res.Mode == domain.ModeThaw {
		label = "Thaw depth"
	}
	if _, err := fmt.Fprintf(w, "%s: %.1f ft\n", label, res.FrostDepth); err != nil {
		return err
	}
	if res.Trace == nil {
		return nil
	}

	tr := res.Trace
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rows := []struct {
		name  string
		value float64
		unit  string
	}{
		{"MAT", tr.MeanAnnualTemp, "°F"},
		{"MAGT", tr.GroundTemp, "°F"},
		{"air index", tr.AirIndex, "°F·days"},
		{"surface index (nFI)", tr.SurfaceIndex, "°F·days"},
		{"latent heat (L)", tr.LatentHeat, "BTU/ft³"},
		{"specific heat (c)", tr.SpecificHeat, "BTU/(ft³·°F)"},
		{"v_s", tr.Vs, ""},
		{"v_o", tr.Vo, ""},
		{"thermal ratio", tr.ThermalRatio, ""},
		{"mu", tr.Mu, ""},
		{"lambda", tr.Lambda, string(tr.LambdaVariant)},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "  %s\t%g\t%s\n", r.name, r.value, r.unit)
	}
	return tw.Flush()
}
