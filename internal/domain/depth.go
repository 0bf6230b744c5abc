package domain

import "math"

// FrostDepth returns the depth of 32 °F penetration in feet, rounded to one
// decimal. k is the average of frozen and thawed conductivity.
func FrostDepth(lambda, conductivity, surfaceIndex, latentHeat float64) (float64, error) {
	if latentHeat == 0 {
		return 0, domainErr("frost_depth", "latent heat is zero")
	}
	radicand := (48 * conductivity * surfaceIndex) / latentHeat
	if radicand < 0 {
		return 0, domainErr("frost_depth", "negative radicand %g", radicand)
	}
	return roundScaled(lambda*math.Sqrt(radicand), 1), nil
}
