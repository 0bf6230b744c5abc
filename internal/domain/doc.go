// Package domain models seasonal frost (and thaw) penetration with the
// Modified Berggren equation.
//
// # Units
//
// Everything is Imperial, following American geotechnical practice:
//
//	dry density            lb/ft³
//	water content          percent of dry weight
//	temperatures           °F
//	freezing/thaw index    °F·days
//	thermal conductivity   BTU/(hr·ft·°F)
//	latent heat            BTU/ft³
//	volumetric heat        BTU/(ft³·°F)
//	depth                  feet
//
// # Derivation Chain
//
// A run derives its quantities in a fixed order; each is computed once:
//
//	L      = 144 · dry_ro · wc/100                       (2 dp)
//	c      = dry_ro · (0.17 + 0.75 · wc/100)             (2 dp)
//	nFI    = n · FI
//	v_s    = nFI / d            (seasonal, unrounded)
//	       = |MAT − 32|         (multiyear)
//	v_o    = |MAGT − 32|
//	α      = v_o / v_s                                   (3 dp)
//	μ      = v_s · c / L                                 (3 dp)
//	λ      = 1 / √(1 + μ(α + 0.5))                       (2 dp)
//	x      = λ · √(48 · k · nFI / L)                     (1 dp)
//
// 144 is the latent heat of fusion of ice in BTU/lb. 0.17 is the specific
// heat of soil solids in BTU/(lb·°F); water contributes 1.0 unfrozen, 0.5 as
// ice, and 0.75 for the averaged regime. 48 folds 24 hr/day and the factor
// of two from the Stefan solution into a single constant.
//
// # Lambda Coefficient
//
// The correction coefficient follows Aldrich and Paynter (1953), "Analytical
// Studies of Freezing and Thawing of Soils", ACFEL Technical Report 42. Two
// published forms exist and are selected with [LambdaVariant]:
//
//	high_latitude  1     / √(1 + μ(α + 0.5))   tends to overestimate depth
//	low_latitude   0.707 / √(1 + μ(α + 0.5))   tends to underestimate depth
//	blended        mean of the two
//
// # Ground Temperature
//
// MAGT, the mean annual temperature below the surface, defaults to the
// surface MAT. That is a modeling simplification rather than a physical
// identity; callers with measured ground temperatures override it through
// [Inputs.GroundTemperature].
//
// # Rounding
//
// Intermediate quantities are rounded at the precision shown above, and later
// steps consume the rounded values. L, c, the thermal ratio and mu round the
// exact stored value, so 11.285000000000000142 becomes 11.29. Lambda and depth
// round the value scaled by a power of ten, ties to even.
package domain
