package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeUnit(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		unit  string
		want  float64
	}{
		{"mph to m/s", 100, "mph", 44.7},
		{"km/h to m/s", 100, "km/h", 27.78},
		{"lbs to kg", 50, "lbs", 22.68},
		{"pounds to kg", 10, "pounds", 4.536},
		{"cm to m", 10, "cm", 0.1},
		{"mm to m", 250, "mm", 0.25},
		{"ft to m", 10, "ft", 3.048},
		{"grams to kg", 500, "g", 0.5},
		{"canonical m/s unchanged", 42, "m/s", 42},
		{"canonical kg unchanged", 42, "kg", 42},
		{"volts unchanged", 12, "V", 12},
		{"degrees unchanged", 45, "degrees", 45},
		{"empty unit passes through", 7.5, "", 7.5},
		{"whitespace unit passes through", 7.5, "  ", 7.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, NormalizeUnit(tt.value, tt.unit), 1e-9)
		})
	}
}

func TestNormalizeUnitUnknownPassesThrough(t *testing.T) {
	// Unknown units are unitless, not an error. "Nm" is the motivating case:
	// torque values must survive extraction untouched.
	assert.Equal(t, 12.0, NormalizeUnit(12, "Nm"))
	assert.Equal(t, 3.3, NormalizeUnit(3.3, "widgets"))
}

func TestNormalizeUnitCaseInsensitive(t *testing.T) {
	assert.InDelta(t, 44.7, NormalizeUnit(100, "MPH"), 1e-9)
	assert.InDelta(t, 22.68, NormalizeUnit(50, "LBS"), 1e-9)
}
