package build

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chazu/housewright/pkg/model"
	"github.com/chazu/housewright/pkg/units"
	"gopkg.in/yaml.v3"
)

// Default plan values. Lengths are millimetres; SillOffset and RidgeRise
// are internal units.
const (
	DefaultWidth      = 10000.0
	DefaultDepth      = 5000.0
	DefaultRoofDepth  = 5000.0
	DefaultSillOffset = 0.5
	DefaultRidgeRise  = 5.0
	DefaultBaseLevel  = "Level 1"
	DefaultTopLevel   = "Level 2"
)

// OpeningSpec names a door or window catalog type by its exact type and
// family names.
type OpeningSpec struct {
	Type   string `yaml:"type"`
	Family string `yaml:"family"`
}

func (s OpeningSpec) String() string {
	return fmt.Sprintf("%s: %s", s.Family, s.Type)
}

// Plan describes one generated building. Width, Depth and RoofDepth are
// measured in Unit; SillOffset and RidgeRise are already internal.
type Plan struct {
	Unit       units.Unit  `yaml:"unit"`
	Width      float64     `yaml:"width"`
	Depth      float64     `yaml:"depth"`
	RoofDepth  float64     `yaml:"roof_depth"`
	BaseLevel  string      `yaml:"base_level"`
	TopLevel   string      `yaml:"top_level"`
	Door       OpeningSpec `yaml:"door"`
	Window     OpeningSpec `yaml:"window"`
	SillOffset float64     `yaml:"sill_offset"`
	RidgeRise  float64     `yaml:"ridge_rise"`
}

// DefaultPlan returns the stock 10 m × 5 m house.
func DefaultPlan() *Plan {
	return &Plan{
		Unit:       units.Millimeters,
		Width:      DefaultWidth,
		Depth:      DefaultDepth,
		RoofDepth:  DefaultRoofDepth,
		BaseLevel:  DefaultBaseLevel,
		TopLevel:   DefaultTopLevel,
		Door:       OpeningSpec{Type: "0915 x 2134mm", Family: "Single-Flush"},
		Window:     OpeningSpec{Type: "0610 x 1220mm", Family: "Fixed"},
		SillOffset: DefaultSillOffset,
		RidgeRise:  DefaultRidgeRise,
	}
}

// Dimensions are the plan lengths converted to internal units.
type Dimensions struct {
	Width     float64
	Depth     float64
	RoofDepth float64
}

// Dimensions converts the plan lengths to internal units.
func (p *Plan) Dimensions() Dimensions {
	return Dimensions{
		Width:     units.ToInternal(p.Width, p.Unit),
		Depth:     units.ToInternal(p.Depth, p.Unit),
		RoofDepth: units.ToInternal(p.RoofDepth, p.Unit),
	}
}

// Validate reports every problem with the plan at once. The returned error
// wraps model.ErrInvalidPlan.
func (p *Plan) Validate() error {
	var problems []string
	if _, err := p.Unit.MarshalText(); err != nil {
		problems = append(problems, err.Error())
	}
	if p.Width <= 0 {
		problems = append(problems, fmt.Sprintf("width %g must be positive", p.Width))
	}
	if p.Depth <= 0 {
		problems = append(problems, fmt.Sprintf("depth %g must be positive", p.Depth))
	}
	if p.RoofDepth <= 0 {
		problems = append(problems, fmt.Sprintf("roof depth %g must be positive", p.RoofDepth))
	}
	if p.BaseLevel == "" || p.TopLevel == "" {
		problems = append(problems, "base and top level names are required")
	} else if p.BaseLevel == p.TopLevel {
		problems = append(problems, fmt.Sprintf("base and top level are both %q", p.BaseLevel))
	}
	if p.Door.Type == "" || p.Door.Family == "" {
		problems = append(problems, "door type and family are required")
	}
	if p.Window.Type == "" || p.Window.Family == "" {
		problems = append(problems, "window type and family are required")
	}
	if p.SillOffset < 0 {
		problems = append(problems, fmt.Sprintf("sill offset %g must not be negative", p.SillOffset))
	}
	if p.RidgeRise <= 0 {
		problems = append(problems, fmt.Sprintf("ridge rise %g must be positive", p.RidgeRise))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", model.ErrInvalidPlan, strings.Join(problems, "; "))
	}
	return nil
}

// LoadPlanYAML reads a YAML plan file. Fields the file omits keep their
// DefaultPlan values.
func LoadPlanYAML(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("build: read plan: %w", err)
	}
	return ParsePlanYAML(data)
}

// ParsePlanYAML decodes YAML plan data over DefaultPlan. Unknown fields are
// rejected; an empty document yields the default plan.
func ParsePlanYAML(data []byte) (*Plan, error) {
	p := DefaultPlan()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("build: parse plan: %w: %v", model.ErrInvalidPlan, err)
	}
	return p, nil
}
