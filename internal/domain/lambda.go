package domain

import "math"

// LambdaVariant selects one of the published lambda coefficient forms.
type LambdaVariant string

const (
	// LambdaHighLatitude is the canonical form. It may overestimate depth.
	LambdaHighLatitude LambdaVariant = "high_latitude"
	// LambdaLowLatitude scales the canonical form by 0.707. It may
	// underestimate depth.
	LambdaLowLatitude LambdaVariant = "low_latitude"
	// LambdaBlended is the arithmetic mean of the other two.
	LambdaBlended LambdaVariant = "blended"
)

const lowLatitudeScale = 0.707

// LambdaVariants lists every supported variant, default first.
func LambdaVariants() []LambdaVariant {
	return []LambdaVariant{LambdaHighLatitude, LambdaLowLatitude, LambdaBlended}
}

// ParseLambdaVariant maps a name to a variant. The empty string selects
// LambdaHighLatitude.
func ParseLambdaVariant(s string) (LambdaVariant, error) {
	switch LambdaVariant(s) {
	case "":
		return LambdaHighLatitude, nil
	case LambdaHighLatitude, LambdaLowLatitude, LambdaBlended:
		return LambdaVariant(s), nil
	default:
		return "", validationErr("lambda_variant", "unknown variant %q", s)
	}
}

// LambdaCoefficient applies the empirical correction for the given variant,
// rounded to 2 decimals.
func LambdaCoefficient(variant LambdaVariant, mu, thermalRatio float64) (float64, error) {
	radicand := 1 + mu*(thermalRatio+0.5)
	if radicand < 0 {
		return 0, domainErr("lambda_coefficient", "negative radicand %g", radicand)
	}
	if radicand == 0 {
		return 0, domainErr("lambda_coefficient", "zero radicand")
	}

	high := 1 / math.Sqrt(radicand)
	switch variant {
	case LambdaHighLatitude, "":
		return roundScaled(high, 2), nil
	case LambdaLowLatitude:
		return roundScaled(lowLatitudeScale*high, 2), nil
	case LambdaBlended:
		return roundScaled((high+lowLatitudeScale*high)/2, 2), nil
	default:
		return 0, validationErr("lambda_variant", "unknown variant %q", variant)
	}
}
