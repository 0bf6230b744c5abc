package domain

import "math"

// freezingPoint of water, °F.
const freezingPoint = 32.0

// SeasonalVs returns v_s for a single freezing season: the surface index
// spread over the season length. The result is not rounded.
func SeasonalVs(surfaceIndex, duration float64) (float64, error) {
	if duration == 0 {
		return 0, domainErr("seasonal_v_s", "freezing duration is zero")
	}
	return surfaceIndex / duration, nil
}

// MultiyearVs returns v_s for long-term freezing driven by a shift in the
// surface heat balance: |MAT − 32|.
func MultiyearVs(meanAnnualTemp float64) float64 {
	return math.Abs(meanAnnualTemp - freezingPoint)
}

// Vo returns |MAGT − 32|, where MAGT is the mean annual temperature below
// the ground surface.
func Vo(groundTemp float64) float64 {
	return math.Abs(groundTemp - freezingPoint)
}

// ThermalRatio returns v_o / v_s rounded to 3 decimals.
func ThermalRatio(vo, vs float64) (float64, error) {
	if vs == 0 {
		return 0, domainErr("thermal_ratio", "v_s is zero")
	}
	return roundTo(vo/vs, 3), nil
}

// FusionParameter returns μ = v_s · c / L rounded to 3 decimals.
func FusionParameter(vs, specificHeat, latentHeat float64) (float64, error) {
	if latentHeat == 0 {
		return 0, domainErr("fusion_parameter", "latent heat is zero")
	}
	return roundTo(vs*(specificHeat/latentHeat), 3), nil
}
