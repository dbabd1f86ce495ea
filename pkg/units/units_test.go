package units

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestToInternal(t *testing.T) {
	tests := []struct {
		name string
		v    float64
		u    Unit
		want float64
	}{
		{"one foot of mm", 304.8, Millimeters, 1},
		{"house width", 10000, Millimeters, 10000 / 304.8},
		{"one meter", 1, Meters, 1 / 0.3048},
		{"twelve inches", 12, Inches, 1},
		{"feet are internal", 7.5, Feet, 7.5},
		{"centimeters", 30.48, Centimeters, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToInternal(tt.v, tt.u); math.Abs(got-tt.want) > eps {
				t.Errorf("ToInternal(%v, %v) = %v, want %v", tt.v, tt.u, got, tt.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for _, u := range []Unit{Feet, Millimeters, Centimeters, Meters, Inches} {
		for _, v := range []float64{0, 1, 2500, 5000, 10000, -42.125} {
			got := FromInternal(ToInternal(v, u), u)
			if math.Abs(got-v) > eps*math.Max(1, math.Abs(v)) {
				t.Errorf("%v: round trip %v -> %v", u, v, got)
			}
		}
	}
}

func TestConvertIsLinear(t *testing.T) {
	a, b := 1234.5, 678.9
	sum := Convert(a+b, Millimeters, Inches)
	parts := Convert(a, Millimeters, Inches) + Convert(b, Millimeters, Inches)
	if math.Abs(sum-parts) > eps {
		t.Errorf("Convert not additive: %v vs %v", sum, parts)
	}
	if got := Convert(1, Meters, Millimeters); math.Abs(got-1000) > 1e-6 {
		t.Errorf("1 m = %v mm, want 1000", got)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Unit
		wantErr bool
	}{
		{"mm", Millimeters, false},
		{" Millimetres ", Millimeters, false},
		{"ft", Feet, false},
		{"m", Meters, false},
		{"in", Inches, false},
		{"furlong", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTextRoundTrip(t *testing.T) {
	var u Unit
	if err := u.UnmarshalText([]byte("cm")); err != nil {
		t.Fatal(err)
	}
	b, err := u.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "cm" {
		t.Errorf("MarshalText = %q, want cm", b)
	}
}
