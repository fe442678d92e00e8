// Package sim implements the notes-to-simulation pipeline: direct pattern
// extraction, topic classification, LLM-backed extraction, deterministic
// physics evaluation, and result caching.
package sim

import "strings"

// unitFactors maps a lowercased unit token to the multiplier that converts
// the value to the SI-ish canonical unit the evaluator expects.
// m/s, kg, m, V, %, degrees are already canonical.
var unitFactors = map[string]float64{
	"mph":     0.447, // → m/s
	"km/h":    0.2778,
	"kmh":     0.2778,
	"m/s":     1,
	"lb":      0.4536, // → kg
	"lbs":     0.4536,
	"pound":   0.4536,
	"pounds":  0.4536,
	"kg":      1,
	"g":       0.001,
	"cm":      0.01, // → m
	"mm":      0.001,
	"m":       1,
	"ft":      0.3048,
	"in":      0.0254,
	"v":       1,
	"volt":    1,
	"volts":   1,
	"%":       1,
	"deg":     1,
	"degree":  1,
	"degrees": 1,
}

// NormalizeUnit converts a magnitude with an optional unit token to its
// canonical value. Unknown units are treated as unitless and the value
// passes through unchanged. Both extraction paths funnel through this one
// function.
func NormalizeUnit(value float64, unit string) float64 {
	unit = strings.ToLower(strings.TrimSpace(unit))
	if unit == "" {
		return value
	}
	if factor, ok := unitFactors[unit]; ok {
		return value * factor
	}
	return value
}
