package domain

import (
	"context"
	"slices"
)

// Year bounds published by the climate projection service.
const (
	MinProjectionYear = 2007
	MaxProjectionYear = 2100

	// maxIndexStartYear is the last year a degree-day summary may start in.
	maxIndexStartYear = 2099
)

var (
	temperatureModels = []string{"GFDL-CM3", "NCAR-CCSM4", "MRI-CGCM3", "GISS-E2-R", "IPSL-CM5A-LR"}
	indexModels       = []string{"GFDL-CM3", "NCAR-CCSM4"}
	scenarios         = []string{"rcp45", "rcp60", "rcp85"}
)

// TemperatureModels returns the models with a mean annual temperature series.
func TemperatureModels() []string { return slices.Clone(temperatureModels) }

// IndexModels returns the models with freezing and thawing index series.
func IndexModels() []string { return slices.Clone(indexModels) }

// Scenarios returns the supported emissions scenarios.
func Scenarios() []string { return slices.Clone(scenarios) }

// TemperatureQuery selects a mean annual temperature projection.
type TemperatureQuery struct {
	Lat       float64
	Lon       float64
	Model     string
	Scenario  string
	YearStart int
	YearEnd   int
}

// IndexQuery selects a degree-day index projection. Index series are
// published for a single emissions scenario, so none is selected here.
type IndexQuery struct {
	Lat       float64
	Lon       float64
	Model     string
	YearStart int
	YearEnd   int
}

// ClimateProvider supplies projected climate summaries averaged over a
// year range.
type ClimateProvider interface {
	// MeanAnnualTemperature returns the mean annual air temperature, °F,
	// rounded to one decimal.
	MeanAnnualTemperature(ctx context.Context, q TemperatureQuery) (float64, error)

	// FreezingIndex returns the air freezing index, °F·days.
	FreezingIndex(ctx context.Context, q IndexQuery) (int, error)

	// ThawingIndex returns the air thawing index, °F·days.
	ThawingIndex(ctx context.Context, q IndexQuery) (int, error)
}

// Validate checks the query against the published enumerations and year
// bounds.
func (q TemperatureQuery) Validate() error {
	errs := []error{validateCoordinates(q.Lat, q.Lon)}
	if !slices.Contains(temperatureModels, q.Model) {
		errs = append(errs, validationErr("model", "unknown temperature model %q", q.Model))
	}
	if !slices.Contains(scenarios, q.Scenario) {
		errs = append(errs, validationErr("scenario", "unknown scenario %q", q.Scenario))
	}
	errs = append(errs, validateYears(q.YearStart, q.YearEnd, MaxProjectionYear))
	return joinErrs(errs)
}

// Validate checks the query against the published enumerations and year
// bounds.
func (q IndexQuery) Validate() error {
	return joinErrs([]error{
		validateCoordinates(q.Lat, q.Lon),
		validateIndexModel(q.Model),
		validateYears(q.YearStart, q.YearEnd, maxIndexStartYear),
	})
}

func validateIndexModel(model string) error {
	if !slices.Contains(indexModels, model) {
		return validationErr("fi_model", "unknown index model %q", model)
	}
	return nil
}

func validateCoordinates(lat, lon float64) error {
	var errs []error
	if !finite(lat) || lat < -90 || lat > 90 {
		errs = append(errs, validationErr("lat", "latitude %g out of range [-90, 90]", lat))
	}
	if !finite(lon) || lon < -180 || lon > 180 {
		errs = append(errs, validationErr("lon", "longitude %g out of range [-180, 180]", lon))
	}
	return joinErrs(errs)
}

func validateYears(start, end, maxStart int) error {
	var errs []error
	if start < MinProjectionYear || start > maxStart {
		errs = append(errs, validationErr("year_start", "year %d out of range [%d, %d]", start, MinProjectionYear, maxStart))
	}
	if end < MinProjectionYear || end > MaxProjectionYear {
		errs = append(errs, validationErr("year_end", "year %d out of range [%d, %d]", end, MinProjectionYear, MaxProjectionYear))
	}
	if start > end {
		errs = append(errs, validationErr("year_end", "year_end %d precedes year_start %d", end, start))
	}
	return joinErrs(errs)
}

// StaticClimate is a ClimateProvider that returns fixed values, for callers
// that already hold the climate summaries.
type StaticClimate struct {
	MeanAnnualTemp float64
	Freezing       int
	Thawing        int
}

func (s StaticClimate) MeanAnnualTemperature(_ context.Context, _ TemperatureQuery) (float64, error) {
	return s.MeanAnnualTemp, nil
}

func (s StaticClimate) FreezingIndex(_ context.Context, _ IndexQuery) (int, error) {
	return s.Freezing, nil
}

func (s StaticClimate) ThawingIndex(_ context.Context, _ IndexQuery) (int, error) {
	return s.Thawing, nil
}
