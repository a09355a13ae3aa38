package wheel

import "math"

// SectorAngle returns the angular width of one of n sectors.
func SectorAngle(n int) float64 {
	return 2 * math.Pi / float64(max(1, n))
}

// TargetAngleFor returns the face rotation that puts the midpoint of sector
// index under the fixed pointer at the top.
func TargetAngleFor(index, n int) float64 {
	per := SectorAngle(n)
	return -float64(index)*per - per/2
}

// indexEpsilon absorbs rounding in theta/angle so that a sector midpoint,
// which maps to an integer, never floors to the previous sector.
const indexEpsilon = 1e-7

// IndexForAngle returns the sector under the pointer when the face is rotated
// by theta. It is defined for any theta, negative or many turns large.
func IndexForAngle(theta float64, n int) int {
	n = max(1, n)
	v := mod(-theta/SectorAngle(n)-0.5, float64(n))
	// v can also come back as exactly n for tiny negative inputs; both cases wrap to 0
	return int(math.Floor(v+indexEpsilon)) % n
}

// mod is a floored modulo: the result has the sign of m.
func mod(x, m float64) float64 {
	r := math.Mod(x, m)
	if r < 0 {
		r += m
	}
	return r
}

// Ease is the cubic ease-out used for the spin: fast start, slow stop.
func Ease(t float64) float64 {
	t = clamp(t, 0, 1)
	u := 1 - t
	return 1 - u*u*u
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
