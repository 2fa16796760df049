// Package helpers provides safe numeric conversions that may lose precision.
// They clamp values to the target type's range instead of overflowing, which
// matters for wire fields like DNS section counts and RDATA lengths.
package helpers

import "math"

// clampInt restricts v to the range [minVal, maxVal].
func clampInt(v, minVal, maxVal int) int {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// ClampInt restricts v to the range [lowerLimit, upperLimit].
func ClampInt(v, lowerLimit, upperLimit int) int {
	return clampInt(v, lowerLimit, upperLimit)
}

// ClampIntToUint16 converts v to uint16 with clamping.
// Values below 0 become 0; values above math.MaxUint16 become math.MaxUint16.
func ClampIntToUint16(v int) uint16 {
	clamped := clampInt(v, 0, math.MaxUint16)
	return uint16(clamped) //nolint:gosec // clamped to valid range
}

// ClampIntToUint8 converts v to uint8 with clamping.
// Values below 0 become 0; values above math.MaxUint8 become math.MaxUint8.
func ClampIntToUint8(v int) uint8 {
	clamped := clampInt(v, 0, math.MaxUint8)
	return uint8(clamped) //nolint:gosec // clamped to valid range
}
