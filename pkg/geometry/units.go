package geometry

import "math"

// Eps is the tolerance used for clearance comparisons in centimeters.
const Eps = 1e-9

// CmToPx converts a length in centimeters to pixels at the given scale.
func CmToPx(cm, scale float64) float64 { return cm * scale }

// PxToCm converts a length in pixels to centimeters at the given scale.
// A non-positive scale yields zero rather than an infinity.
func PxToCm(px, scale float64) float64 {
	if scale <= 0 {
		return 0
	}
	return px / scale
}

// CmToMm converts centimeters to millimeters.
func CmToMm(cm float64) float64 { return cm * 10 }

// MmToCm converts millimeters to centimeters.
func MmToCm(mm float64) float64 { return mm / 10 }

// AtLeast reports whether a >= b within Eps.
func AtLeast(a, b float64) bool { return a >= b-Eps }

// Near reports whether a and b differ by at most tol.
func Near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

// Finite replaces NaN and infinities with zero.
func Finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
