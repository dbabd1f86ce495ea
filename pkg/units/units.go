// Package units converts real-world lengths to and from the Model Store's
// internal linear unit, decimal feet.
package units

import (
	"fmt"
	"strings"
)

// Unit is a linear length unit.
type Unit int

const (
	Feet Unit = iota // internal unit
	Millimeters
	Centimeters
	Meters
	Inches
)

// Internal is the unit every geometric computation runs in.
const Internal = Feet

// feetPer holds the length of one unit expressed in feet.
var feetPer = map[Unit]float64{
	Feet:        1,
	Millimeters: 1 / 304.8,
	Centimeters: 1 / 30.48,
	Meters:      1 / 0.3048,
	Inches:      1.0 / 12,
}

func (u Unit) String() string {
	switch u {
	case Feet:
		return "ft"
	case Millimeters:
		return "mm"
	case Centimeters:
		return "cm"
	case Meters:
		return "m"
	case Inches:
		return "in"
	default:
		return fmt.Sprintf("Unit(%d)", int(u))
	}
}

// Parse accepts the short symbol or the plural name of a unit.
func Parse(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ft", "feet", "foot":
		return Feet, nil
	case "mm", "millimeters", "millimetres":
		return Millimeters, nil
	case "cm", "centimeters", "centimetres":
		return Centimeters, nil
	case "m", "meters", "metres":
		return Meters, nil
	case "in", "inches", "inch":
		return Inches, nil
	}
	return 0, fmt.Errorf("units: unknown unit %q", s)
}

// UnmarshalText lets YAML and flag parsers decode unit names.
func (u *Unit) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// MarshalText encodes the unit as its short symbol.
func (u Unit) MarshalText() ([]byte, error) {
	if _, ok := feetPer[u]; !ok {
		return nil, fmt.Errorf("units: unknown unit %d", int(u))
	}
	return []byte(u.String()), nil
}

func factor(u Unit) float64 {
	f, ok := feetPer[u]
	if !ok {
		panic(fmt.Sprintf("units: unknown unit %d", int(u)))
	}
	return f
}

// ToInternal converts v, measured in u, to internal units.
func ToInternal(v float64, u Unit) float64 {
	return v * factor(u)
}

// FromInternal converts v, measured in internal units, to u.
func FromInternal(v float64, u Unit) float64 {
	return v / factor(u)
}

// Convert converts v from one unit to another.
func Convert(v float64, from, to Unit) float64 {
	return FromInternal(ToInternal(v, from), to)
}

// MM is shorthand for ToInternal(v, Millimeters).
func MM(v float64) float64 {
	return ToInternal(v, Millimeters)
}
