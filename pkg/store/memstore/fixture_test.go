package memstore

import (
	"testing"

	"github.com/chazu/housewright/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFixture(t *testing.T) {
	f, err := LoadFixture("testdata/document.yaml")
	require.NoError(t, err)

	d, warnings, err := f.Document(WithIDGenerator(seqIDs()))
	require.NoError(t, err)
	assert.Empty(t, warnings)

	levels := d.Levels()
	require.Len(t, levels, 2)
	assert.Equal(t, "Level 2", levels[1].Name)
	assert.InDelta(t, 3000/304.8, levels[1].Elevation, 1e-12)

	door, ok := d.FindFamilyType(model.CategoryDoors, "0915 x 2134mm", "Single-Flush")
	require.True(t, ok)
	assert.False(t, door.Active)

	active, ok := d.FindFamilyType(model.CategoryWindows, "0915 x 1830mm", "Fixed")
	require.True(t, ok)
	assert.True(t, active.Active)

	rt, ok := d.DefaultRoofType()
	require.True(t, ok)
	assert.Equal(t, "Generic - 400mm", rt.Name)
	assert.InDelta(t, 400/304.8, rt.Thickness, 1e-12)
}

func TestLoadFixtureMissingFile(t *testing.T) {
	_, err := LoadFixture("testdata/nope.yaml")
	require.Error(t, err)
}

func TestParseFixtureUnknownField(t *testing.T) {
	_, err := ParseFixture([]byte("levels: []\nstoreys: 2\n"))
	require.Error(t, err)
}

func TestFixtureWallThicknessUnits(t *testing.T) {
	f, err := ParseFixture([]byte("units: m\nwall_thickness: 0.3048\nlevels:\n  - {name: L, elevation: 0}\n"))
	require.NoError(t, err)
	d, _, err := f.Document()
	require.NoError(t, err)

	require.NoError(t, d.RunInMutationScope("walls", func() error {
		_, err := d.CreateWall(model.Seg(model.Pt(0, 0, 0), model.Pt(1, 0, 0)), d.Levels()[0].ID, false)
		return err
	}))
	assert.InDelta(t, 1.0, d.Walls()[0].Thickness, 1e-12)
}

func TestFixtureValidate(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		errors   []string
		warnings []string
	}{
		{
			name: "clean",
			yaml: `
levels:
  - {name: Level 1, elevation: 0}
roof_types:
  - {name: R, thickness: 100}
`,
		},
		{
			name:   "bad units",
			yaml:   "units: furlongs\n",
			errors: []string{"units"},
		},
		{
			name:   "negative wall thickness",
			yaml:   "wall_thickness: -1\n",
			errors: []string{"wall_thickness"},
		},
		{
			name: "level problems",
			yaml: `
levels:
  - {name: Level 1, elevation: 0}
  - {name: "", elevation: 5}
  - {name: Level 1, elevation: 10}
`,
			errors:   []string{"levels[1]"},
			warnings: []string{"levels[2]"},
		},
		{
			name: "family problems",
			yaml: `
family_types:
  - {category: doors, family: F, name: T}
  - {category: roofs, family: F, name: T}
  - {category: windows, family: "", name: T}
  - {category: doors, family: F, name: T}
`,
			errors:   []string{"family_types[1]", "family_types[2]"},
			warnings: []string{"family_types[3]"},
		},
		{
			name: "roof type problems",
			yaml: `
roof_types:
  - {name: "", thickness: 10, default: true}
  - {name: B, thickness: 0, default: true}
`,
			errors: []string{"roof_types[0]", "roof_types[1]", "roof_types"},
		},
	}
	paths := func(fs []Finding) []string {
		var out []string
		for _, f := range fs {
			out = append(out, f.Path)
		}
		return out
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := ParseFixture([]byte(tt.yaml))
			require.NoError(t, err)
			r := f.Validate()
			assert.Equal(t, tt.errors, paths(r.Errors))
			assert.Equal(t, tt.warnings, paths(r.Warnings))
		})
	}
}

func TestFixtureDocumentRejectsErrors(t *testing.T) {
	f, err := ParseFixture([]byte("levels:\n  - {name: \"\", elevation: 0}\n"))
	require.NoError(t, err)
	d, _, err := f.Document()
	require.Error(t, err)
	assert.Nil(t, d)
	assert.Contains(t, err.Error(), "levels[0]")
}

func TestFindingError(t *testing.T) {
	f := Finding{Path: "levels[0]", Message: "level has no name", Severity: SeverityError}
	assert.Equal(t, "[error] levels[0]: level has no name", f.Error())
	f = Finding{Message: "odd", Severity: SeverityWarning}
	assert.Equal(t, "[warning] odd", f.Error())
}
