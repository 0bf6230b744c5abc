package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/frost-depth-service/internal/domain"
	"github.com/couchcryptid/frost-depth-service/internal/observability"
)

// Calculator runs a complete frost depth computation: validation, climate
// lookup, then the Modified Berggren chain.
type Calculator struct {
	provider       domain.ClimateProvider
	defaultVariant domain.LambdaVariant
	logger         *slog.Logger
	metrics        *observability.Metrics
}

// NewCalculator creates a Calculator. defaultVariant applies to requests that
// do not name a lambda variant; empty means high_latitude.
func NewCalculator(provider domain.ClimateProvider, defaultVariant domain.LambdaVariant, logger *slog.Logger, metrics *observability.Metrics) *Calculator {
	if defaultVariant == "" {
		defaultVariant = domain.LambdaHighLatitude
	}
	return &Calculator{
		provider:       provider,
		defaultVariant: defaultVariant,
		logger:         logger,
		metrics:        metrics,
	}
}

// Compute validates req, fetches MAT and the air index, and returns the
// result with its full trace. Nothing is retried; any failure aborts the run.
func (c *Calculator) Compute(ctx context.Context, req domain.Request) (domain.Result, error) {
	res, err := c.compute(ctx, req)
	if err != nil {
		kind := domain.KindOf(err)
		if kind == "" {
			kind = "unknown"
		}
		c.metrics.ComputationErrors.WithLabelValues(string(kind)).Inc()
		c.logger.Warn("frost depth computation failed",
			"id", req.ID,
			"lat", req.Lat,
			"lon", req.Lon,
			"model", req.Model,
			"kind", kind,
			"error", err,
		)
		return domain.Result{}, err
	}

	c.metrics.Computations.WithLabelValues(string(res.Mode), string(res.Trace.LambdaVariant)).Inc()
	c.metrics.FrostDepth.Observe(res.FrostDepth)
	c.logger.Debug("frost depth computed",
		"id", req.ID,
		"mode", res.Mode,
		"trace", *res.Trace,
	)
	return res, nil
}

func (c *Calculator) compute(ctx context.Context, req domain.Request) (domain.Result, error) {
	if err := req.Validate(); err != nil {
		return domain.Result{}, err
	}
	mode, _ := domain.ParseMode(string(req.Mode))
	if req.Lambda == "" {
		req.Lambda = c.defaultVariant
	}

	mat, err := c.provider.MeanAnnualTemperature(ctx, req.TemperatureQuery())
	if err != nil {
		return domain.Result{}, asProviderError("mean_annual_temperature", err)
	}

	var index int
	switch mode {
	case domain.ModeThaw:
		index, err = c.provider.ThawingIndex(ctx, req.IndexQuery())
		if err != nil {
			return domain.Result{}, asProviderError("thawing_index", err)
		}
	default:
		index, err = c.provider.FreezingIndex(ctx, req.IndexQuery())
		if err != nil {
			return domain.Result{}, asProviderError("freezing_index", err)
		}
	}

	trace, err := domain.Berggren(domain.Inputs{
		DryDensity:        req.DryDensity,
		WaterContent:      req.WaterContent,
		Duration:          req.Duration,
		NFactor:           req.NFactor,
		Conductivity:      req.Conductivity,
		MeanAnnualTemp:    mat,
		AirIndex:          float64(index),
		GroundTemperature: req.GroundTemperature,
		Lambda:            req.Lambda,
		VsMethod:          req.VsMethod,
	})
	if err != nil {
		return domain.Result{}, err
	}
	return domain.NewResult(req.ID, mode, trace), nil
}

// asProviderError classifies an unclassified provider failure, leaving the
// underlying error reachable through errors.Is and errors.As.
func asProviderError(series string, err error) error {
	if domain.KindOf(err) != "" {
		return err
	}
	return domain.ProviderError(series, err)
}
