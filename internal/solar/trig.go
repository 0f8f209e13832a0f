package solar

import "math"

// The sunrise equation works in degrees throughout; these helpers keep
// the radian conversions in one place.

func sinDeg(d float64) float64 { return math.Sin(d * math.Pi / 180) }
func cosDeg(d float64) float64 { return math.Cos(d * math.Pi / 180) }
func tanDeg(d float64) float64 { return math.Tan(d * math.Pi / 180) }

func asinDeg(x float64) float64 { return math.Asin(x) * 180 / math.Pi }
func acosDeg(x float64) float64 { return math.Acos(x) * 180 / math.Pi }
func atanDeg(x float64) float64 { return math.Atan(x) * 180 / math.Pi }

// normalizeDegrees maps any angle into [0, 360) with a floored modulo,
// so negative inputs stay non-negative.
func normalizeDegrees(d float64) float64 {
	v := math.Mod(d, 360)
	if v < 0 {
		v += 360
	}
	return v
}

// normalizeHours maps any hour value into [0, 24).
func normalizeHours(h float64) float64 {
	v := math.Mod(h, 24)
	if v < 0 {
		v += 24
	}
	return v
}
