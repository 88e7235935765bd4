package domain

import (
	"fmt"
	"strings"
)

const (
	kgToLb = 2.2046226218
	inToCm = 2.54
)

// MeasurementSystem selects the units of every weight and height it tags:
// pounds and inches for Imperial, kilograms and centimeters for Metric.
type MeasurementSystem int

const (
	Imperial MeasurementSystem = iota
	Metric
)

// ParseMeasurementSystem accepts "imperial"/"metric" and the unit shorthands
// "lb"/"kg".
func ParseMeasurementSystem(s string) (MeasurementSystem, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "imperial", "lb", "lbs":
		return Imperial, nil
	case "metric", "kg":
		return Metric, nil
	}
	return 0, fmt.Errorf("unknown measurement system %q", s)
}

func (m MeasurementSystem) String() string {
	if m == Metric {
		return "metric"
	}
	return "imperial"
}

// Valid reports whether m is one of the defined systems.
func (m MeasurementSystem) Valid() bool {
	return m == Imperial || m == Metric
}

// WeightUnit returns "kg" or "lb".
func (m MeasurementSystem) WeightUnit() string {
	if m == Metric {
		return "kg"
	}
	return "lb"
}

// HeightUnit returns "cm" or "in".
func (m MeasurementSystem) HeightUnit() string {
	if m == Metric {
		return "cm"
	}
	return "in"
}

// MarshalText implements encoding.TextMarshaler.
func (m MeasurementSystem) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *MeasurementSystem) UnmarshalText(b []byte) error {
	v, err := ParseMeasurementSystem(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ConvertWeight converts a weight value between systems.
// Returns v unchanged if from == to.
func ConvertWeight(v float64, from, to MeasurementSystem) float64 {
	switch {
	case from == to:
		return v
	case from == Metric:
		return v * kgToLb
	default:
		return v / kgToLb
	}
}

// ConvertHeight converts a height value between systems.
func ConvertHeight(v float64, from, to MeasurementSystem) float64 {
	switch {
	case from == to:
		return v
	case from == Metric:
		return v / inToCm
	default:
		return v * inToCm
	}
}
