package domain

import (
	"errors"
	"math"
	"time"
)

// Mode chooses between seasonal freezing and seasonal thawing.
type Mode string

const (
	ModeFreeze Mode = "freeze"
	ModeThaw   Mode = "thaw"
)

// ParseMode maps a name to a mode. The empty string selects ModeFreeze.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "":
		return ModeFreeze, nil
	case ModeFreeze, ModeThaw:
		return Mode(s), nil
	default:
		return "", validationErr("mode", "unknown mode %q", s)
	}
}

// Request is a full frost depth computation: soil properties, season, and
// the climate projection to draw MAT and the air index from.
type Request struct {
	ID string `json:"id,omitempty"`

	DryDensity   float64 `json:"dry_density"`
	WaterContent float64 `json:"water_content"`
	Duration     float64 `json:"duration_days"`
	NFactor      float64 `json:"n_factor"`
	Conductivity float64 `json:"conductivity"`

	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	Model      string  `json:"model"`
	IndexModel string  `json:"fi_model"`
	Scenario   string  `json:"scenario"`
	YearStart  int     `json:"year_start"`
	YearEnd    int     `json:"year_end"`

	GroundTemperature *float64      `json:"ground_temperature,omitempty"`
	Lambda            LambdaVariant `json:"lambda_variant,omitempty"`
	VsMethod          VsMethod      `json:"vs_method,omitempty"`
	Mode              Mode          `json:"mode,omitempty"`
}

// TemperatureQuery returns the MAT projection the request draws on.
func (r Request) TemperatureQuery() TemperatureQuery {
	return TemperatureQuery{
		Lat:       r.Lat,
		Lon:       r.Lon,
		Model:     r.Model,
		Scenario:  r.Scenario,
		YearStart: r.YearStart,
		YearEnd:   r.YearEnd,
	}
}

// IndexQuery returns the degree-day projection the request draws on.
func (r Request) IndexQuery() IndexQuery {
	return IndexQuery{
		Lat:       r.Lat,
		Lon:       r.Lon,
		Model:     r.IndexModel,
		YearStart: r.YearStart,
		YearEnd:   r.YearEnd,
	}
}

// Validate reports every invalid field. It performs no I/O.
func (r Request) Validate() error {
	errs := []error{
		nonNegative("dry_density", r.DryDensity),
		nonNegative("water_content", r.WaterContent),
		nonNegative("duration_days", r.Duration),
		nonNegative("n_factor", r.NFactor),
		nonNegative("conductivity", r.Conductivity),
		r.TemperatureQuery().Validate(),
		validateIndexModel(r.IndexModel),
	}
	if r.GroundTemperature != nil && !finite(*r.GroundTemperature) {
		errs = append(errs, validationErr("ground_temperature", "must be finite"))
	}
	// Index summaries cannot start in the final projection year.
	if r.YearStart == MaxProjectionYear {
		errs = append(errs, validationErr("year_start", "index series cannot start in %d", MaxProjectionYear))
	}
	if _, err := ParseLambdaVariant(string(r.Lambda)); err != nil {
		errs = append(errs, err)
	}
	if _, err := ParseVsMethod(string(r.VsMethod)); err != nil {
		errs = append(errs, err)
	}
	if _, err := ParseMode(string(r.Mode)); err != nil {
		errs = append(errs, err)
	}
	return joinErrs(errs)
}

// Result is the outcome of a successful computation.
type Result struct {
	ID         string    `json:"id,omitempty"`
	Mode       Mode      `json:"mode"`
	FrostDepth float64   `json:"frost_depth_ft"`
	Trace      *Trace    `json:"trace,omitempty"`
	ComputedAt time.Time `json:"computed_at"`
}

// NewResult wraps a trace, stamping it with the package clock.
func NewResult(id string, mode Mode, trace Trace) Result {
	t := trace
	return Result{
		ID:         id,
		Mode:       mode,
		FrostDepth: trace.Depth,
		Trace:      &t,
		ComputedAt: clock.Now().UTC(),
	}
}

// WithoutTrace drops the intermediate quantities.
func (r Result) WithoutTrace() Result {
	r.Trace = nil
	return r
}

func nonNegative(field string, v float64) error {
	if !finite(v) {
		return validationErr(field, "must be finite")
	}
	if v < 0 {
		return validationErr(field, "must not be negative, got %g", v)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func joinErrs(errs []error) error {
	return errors.Join(errs...)
}
