package memstore

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/chazu/housewright/pkg/model"
	"github.com/chazu/housewright/pkg/units"
	"gopkg.in/yaml.v3"
)

// Fixture describes the content of a host document: its levels and the
// catalog the generator selects from. Lengths are in Units.
type Fixture struct {
	Units         string          `yaml:"units"`
	WallThickness float64         `yaml:"wall_thickness"`
	Levels        []FixtureLevel  `yaml:"levels"`
	FamilyTypes   []FixtureFamily `yaml:"family_types"`
	RoofTypes     []FixtureRoof   `yaml:"roof_types"`
}

// FixtureLevel is a level entry.
type FixtureLevel struct {
	Name      string  `yaml:"name"`
	Elevation float64 `yaml:"elevation"`
}

// FixtureFamily is a door or window catalog entry.
type FixtureFamily struct {
	Category string `yaml:"category"`
	Family   string `yaml:"family"`
	Name     string `yaml:"name"`
	Active   bool   `yaml:"active"`
}

// FixtureRoof is a roof catalog entry.
type FixtureRoof struct {
	Name      string  `yaml:"name"`
	Thickness float64 `yaml:"thickness"`
	Default   bool    `yaml:"default"`
}

// LoadFixture reads and parses a YAML fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("memstore: read fixture: %w", err)
	}
	return ParseFixture(data)
}

// ParseFixture parses YAML fixture data. Unknown fields are rejected.
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("memstore: parse fixture: %w", err)
	}
	return &f, nil
}

func (f *Fixture) unit() (units.Unit, error) {
	if strings.TrimSpace(f.Units) == "" {
		return units.Millimeters, nil
	}
	return units.Parse(f.Units)
}

// Document validates the fixture and builds a document from it. Validation
// errors abort; warnings are returned alongside the document.
func (f *Fixture) Document(opts ...Option) (*Document, []Finding, error) {
	result := f.Validate()
	if len(result.Errors) > 0 {
		msgs := make([]string, len(result.Errors))
		for i, e := range result.Errors {
			msgs[i] = e.Error()
		}
		return nil, result.Warnings, fmt.Errorf("memstore: invalid fixture: %s", strings.Join(msgs, "; "))
	}

	u, _ := f.unit()
	if f.WallThickness > 0 {
		opts = append([]Option{WithWallThickness(units.ToInternal(f.WallThickness, u))}, opts...)
	}
	d := New(opts...)
	for _, l := range f.Levels {
		d.AddLevel(l.Name, units.ToInternal(l.Elevation, u))
	}
	for _, ft := range f.FamilyTypes {
		cat, _ := model.ParseCategory(ft.Category)
		d.addFamilyType(cat, ft.Family, ft.Name, ft.Active)
	}
	for _, rt := range f.RoofTypes {
		d.AddRoofType(rt.Name, units.ToInternal(rt.Thickness, u), rt.Default)
	}
	return d, result.Warnings, nil
}
