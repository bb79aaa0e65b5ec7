// Package codec implements the numeric encodings used inside BGL records:
// fixed-point angles and base-38 packed identifiers.
package codec

// angleUnit is the full-scale value of a normalized 28-bit angle.
const angleUnit = 1 << 28

const (
	lonScale = 360.0 / (3 * angleUnit)
	latScale = 180.0 / (2 * angleUnit)
)

// Coordinates converts raw longitude and latitude fields to degrees.
//
// The conversion is applied to any input; values past the nominal 28-bit
// range come back outside [-180,180] / [-90,90] instead of failing.
func Coordinates(rawLon, rawLat uint32) (lon, lat float64) {
	return Longitude(rawLon), Latitude(rawLat)
}

// Longitude converts a raw longitude field to degrees.
func Longitude(raw uint32) float64 {
	// The explicit conversion rounds the product before the subtraction,
	// so the result does not depend on FMA fusion.
	return float64(float64(raw)*lonScale) - 180
}

// Latitude converts a raw latitude field to degrees.
func Latitude(raw uint32) float64 {
	return 90 - float64(float64(raw)*latScale)
}
