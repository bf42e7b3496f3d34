package models

// Plain helpers, no entity declarations anywhere in this file.

func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
