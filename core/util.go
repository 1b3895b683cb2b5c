package core

import (
	"math"
	"strings"
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// Round2 rounds v to 2 decimal places (half away from zero).
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Percentage returns part/total*100 rounded to 2 decimal places; 0 when total is 0.
func Percentage(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return Round2(float64(part) / float64(total) * 100)
}
