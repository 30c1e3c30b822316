// internal/derive/derive.go
//
// Pure derivation functions for every derived numeric field. The write path
// invokes these before persistence; nothing here touches storage or
// validates ranges; inputs are assumed to be already validated.
package derive

import (
	"math"

	"github.com/agrostack/fieldops/internal/geo"
)

// HectaresPerDeg2 converts planar degree² area to hectares.
//
// This is a known approximation: 1 degree² ≈ 979,000 ha, valid only near
// 40°N where the managed assets sit. A geodesic computation keyed to the
// stored SRID would replace this constant.
const HectaresPerDeg2 = 979000.0

// SquareMetersPerHectare is the m² → ha divisor.
const SquareMetersPerHectare = 10000.0

// PivotArea returns the cultivated area of a circular pivot in hectares,
// rounded to two decimals: round(π·r²/10000, 2).
func PivotArea(radiusM float64) float64 {
	return round2(math.Pi * radiusM * radiusM / SquareMetersPerHectare)
}

// SectorArea returns the sector area in hectares for the given shape, or nil
// when there is no digitized shape, in which case the caller leaves the
// stored value untouched.
func SectorArea(shape *geo.Polygon) *float64 {
	if shape == nil {
		return nil
	}
	ha := shape.Area() * HectaresPerDeg2
	return &ha
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
