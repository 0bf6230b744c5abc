package domain

// VsMethod selects how the v_s intensity parameter is derived.
type VsMethod string

const (
	// VsSeasonal spreads the surface index over the season: nFI / d.
	VsSeasonal VsMethod = "seasonal"
	// VsMultiyear uses |MAT − 32| for long-term heat balance changes.
	VsMultiyear VsMethod = "multiyear"
)

// ParseVsMethod maps a name to a method. The empty string selects VsSeasonal.
func ParseVsMethod(s string) (VsMethod, error) {
	switch VsMethod(s) {
	case "":
		return VsSeasonal, nil
	case VsSeasonal, VsMultiyear:
		return VsMethod(s), nil
	default:
		return "", validationErr("vs_method", "unknown v_s method %q", s)
	}
}

// Inputs holds everything one Modified Berggren run consumes.
type Inputs struct {
	DryDensity   float64 // lb/ft³
	WaterContent float64 // percent
	Duration     float64 // days in the freezing (or thawing) season
	NFactor      float64 // air-to-surface index conversion
	Conductivity float64 // BTU/(hr·ft·°F), frozen/unfrozen average

	MeanAnnualTemp float64 // °F
	AirIndex       float64 // freezing or thawing index, °F·days

	// GroundTemperature overrides MAGT. When nil, MAGT = MeanAnnualTemp.
	GroundTemperature *float64

	Lambda   LambdaVariant
	VsMethod VsMethod
}

// Trace records every quantity derived during a run.
type Trace struct {
	MeanAnnualTemp float64       `json:"mat_f"`
	GroundTemp     float64       `json:"magt_f"`
	AirIndex       float64       `json:"air_index"`
	SurfaceIndex   float64       `json:"surface_index"`
	LatentHeat     float64       `json:"latent_heat"`
	SpecificHeat   float64       `json:"specific_heat"`
	Vs             float64       `json:"v_s"`
	Vo             float64       `json:"v_o"`
	ThermalRatio   float64       `json:"thermal_ratio"`
	Mu             float64       `json:"mu"`
	LambdaVariant  LambdaVariant `json:"lambda_variant"`
	VsMethod       VsMethod      `json:"vs_method"`
	Lambda         float64       `json:"lambda"`
	Depth          float64       `json:"depth_ft"`
}

// Berggren runs the Modified Berggren derivation chain. On error the
// returned trace is the zero value; partial traces are never returned.
func Berggren(in Inputs) (Trace, error) {
	variant := in.Lambda
	if variant == "" {
		variant = LambdaHighLatitude
	}
	method := in.VsMethod
	if method == "" {
		method = VsSeasonal
	}

	magt := in.MeanAnnualTemp
	if in.GroundTemperature != nil {
		magt = *in.GroundTemperature
	}
	surfaceIndex := in.NFactor * in.AirIndex

	latent := LatentHeatOfFusion(in.DryDensity, in.WaterContent)
	specific := SpecificHeatAverage(in.DryDensity, in.WaterContent)

	var vs float64
	switch method {
	case VsSeasonal:
		v, err := SeasonalVs(surfaceIndex, in.Duration)
		if err != nil {
			return Trace{}, err
		}
		vs = v
	case VsMultiyear:
		vs = MultiyearVs(in.MeanAnnualTemp)
	default:
		return Trace{}, validationErr("vs_method", "unknown v_s method %q", method)
	}

	vo := Vo(magt)
	ratio, err := ThermalRatio(vo, vs)
	if err != nil {
		return Trace{}, err
	}
	mu, err := FusionParameter(vs, specific, latent)
	if err != nil {
		return Trace{}, err
	}
	lambda, err := LambdaCoefficient(variant, mu, ratio)
	if err != nil {
		return Trace{}, err
	}
	depth, err := FrostDepth(lambda, in.Conductivity, surfaceIndex, latent)
	if err != nil {
		return Trace{}, err
	}

	return Trace{
		MeanAnnualTemp: in.MeanAnnualTemp,
		GroundTemp:     magt,
		AirIndex:       in.AirIndex,
		SurfaceIndex:   surfaceIndex,
		LatentHeat:     latent,
		SpecificHeat:   specific,
		Vs:             vs,
		Vo:             vo,
		ThermalRatio:   ratio,
		Mu:             mu,
		LambdaVariant:  variant,
		VsMethod:       method,
		Lambda:         lambda,
		Depth:          depth,
	}, nil
}
