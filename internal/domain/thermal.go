package domain

const (
	// iceLatentHeat is the heat absorbed per pound of ice melted, BTU/lb.
	iceLatentHeat = 144.0

	// soilSolidsSpecificHeat holds for most mineral soils, BTU/(lb·°F).
	soilSolidsSpecificHeat = 0.17

	waterSpecificHeatFrozen   = 0.5
	waterSpecificHeatUnfrozen = 1.0
	waterSpecificHeatAverage  = 0.75
)

// LatentHeatOfFusion returns the heat needed to freeze (or melt) the pore
// water in one cubic foot of soil, BTU/ft³. dryDensity is lb/ft³ and
// waterContent is a percentage.
func LatentHeatOfFusion(dryDensity, waterContent float64) float64 {
	return roundTo(iceLatentHeat*dryDensity*(waterContent/100), 2)
}

// SpecificHeatFrozen returns the volumetric specific heat of frozen soil,
// BTU/(ft³·°F).
func SpecificHeatFrozen(dryDensity, waterContent float64) float64 {
	return volumetricHeat(dryDensity, waterContent, waterSpecificHeatFrozen)
}

// SpecificHeatUnfrozen returns the volumetric specific heat of thawed soil,
// BTU/(ft³·°F).
func SpecificHeatUnfrozen(dryDensity, waterContent float64) float64 {
	return volumetricHeat(dryDensity, waterContent, waterSpecificHeatUnfrozen)
}

// SpecificHeatAverage returns the volumetric specific heat averaged over the
// frozen and thawed regimes. The pipeline uses this variant.
func SpecificHeatAverage(dryDensity, waterContent float64) float64 {
	return volumetricHeat(dryDensity, waterContent, waterSpecificHeatAverage)
}

func volumetricHeat(dryDensity, waterContent, waterCoeff float64) float64 {
	return roundTo(dryDensity*(soilSolidsSpecificHeat+waterCoeff*(waterContent/100)), 2)
}
