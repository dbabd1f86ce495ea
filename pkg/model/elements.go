package model

import "fmt"

// ElementID identifies an element inside a Model Store. The store assigns
// it; the generator treats it as opaque.
type ElementID string

// InvalidID is the zero ElementID.
const InvalidID ElementID = ""

// IsZero reports whether the ID is unset.
func (id ElementID) IsZero() bool {
	return id == InvalidID
}

// Short returns the first 8 characters of the ID for log output.
func (id ElementID) Short() string {
	if len(id) > 8 {
		return string(id[:8])
	}
	return string(id)
}

func (id ElementID) String() string {
	return string(id)
}

// Level is a named horizontal reference plane. The generator resolves
// levels, it never creates them.
type Level struct {
	ID        ElementID `json:"id"`
	Name      string    `json:"name"`
	Elevation float64   `json:"elevation"`
}

// Wall is a straight wall created on a base level. Height follows the top
// constraint once one is assigned.
type Wall struct {
	ID         ElementID `json:"id"`
	BaseLevel  ElementID `json:"base_level"`
	TopLevel   ElementID `json:"top_level,omitempty"`
	Location   Segment   `json:"location"` // centerline
	Height     float64   `json:"height"`
	Thickness  float64   `json:"thickness"`
	Structural bool      `json:"structural"`
}

// Length returns the centerline length.
func (w Wall) Length() float64 {
	return w.Location.Length()
}

// Category distinguishes catalog families.
type Category int

const (
	CategoryDoors Category = iota
	CategoryWindows
)

func (c Category) String() string {
	switch c {
	case CategoryDoors:
		return "doors"
	case CategoryWindows:
		return "windows"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// ParseCategory converts "doors"/"windows" (or the singular) to a Category.
func ParseCategory(s string) (Category, error) {
	switch s {
	case "doors", "door":
		return CategoryDoors, nil
	case "windows", "window":
		return CategoryWindows, nil
	}
	return 0, fmt.Errorf("unknown category %q", s)
}

// FamilyType is a catalog entry identified by its (Name, FamilyName) pair.
// A type must be active before it can be instanced.
type FamilyType struct {
	ID         ElementID `json:"id"`
	Category   Category  `json:"category"`
	Name       string    `json:"name"`
	FamilyName string    `json:"family_name"`
	Active     bool      `json:"active"`
}

func (t FamilyType) String() string {
	return fmt.Sprintf("%s: %s", t.FamilyName, t.Name)
}

// StructuralType tells the store how a family instance participates in the
// structural model.
type StructuralType int

const (
	NonStructural StructuralType = iota
	Beam
	Column
	Footing
)

func (s StructuralType) String() string {
	switch s {
	case NonStructural:
		return "non-structural"
	case Beam:
		return "beam"
	case Column:
		return "column"
	case Footing:
		return "footing"
	default:
		return fmt.Sprintf("StructuralType(%d)", int(s))
	}
}

// FamilyInstance is a placed door or window, hosted on exactly one wall.
type FamilyInstance struct {
	ID         ElementID      `json:"id"`
	Type       ElementID      `json:"type"`
	Host       ElementID      `json:"host"`
	Level      ElementID      `json:"level"`
	Point      Point3D        `json:"point"`
	Structural StructuralType `json:"structural"`
}

// RoofType is a roof catalog entry.
type RoofType struct {
	ID        ElementID `json:"id"`
	Name      string    `json:"name"`
	Thickness float64   `json:"thickness"`
}

// Plane is a working plane. Normal and Up are unit vectors and
// perpendicular to each other.
type Plane struct {
	ID     ElementID `json:"id"`
	Origin Point3D   `json:"origin"`
	Normal Vec3      `json:"normal"`
	Up     Vec3      `json:"up"`
}

// Right returns the in-plane horizontal axis, Up × Normal.
func (p Plane) Right() Vec3 {
	return p.Up.Cross(p.Normal)
}

// Project returns the coordinates of q in the plane frame: u along Right,
// v along Up and w along Normal, all measured from Origin.
func (p Plane) Project(q Point3D) (u, v, w float64) {
	d := q.Sub(p.Origin)
	return d.Dot(p.Right()), d.Dot(p.Up), d.Dot(p.Normal)
}

// RoofFootprint is the ordered profile a roof is extruded from. It is not
// persisted.
type RoofFootprint []Segment

// Points returns the profile vertices: every segment start plus the final
// end point.
func (f RoofFootprint) Points() []Point3D {
	if len(f) == 0 {
		return nil
	}
	pts := make([]Point3D, 0, len(f)+1)
	for _, s := range f {
		pts = append(pts, s.Start)
	}
	return append(pts, f[len(f)-1].End)
}

// Roof is an extrusion roof. The profile is extruded along the plane normal
// from Start to Start+Depth.
type Roof struct {
	ID        ElementID     `json:"id"`
	Type      ElementID     `json:"type"`
	Level     ElementID     `json:"level"`
	Plane     Plane         `json:"plane"`
	Footprint RoofFootprint `json:"footprint"`
	Start     float64       `json:"start"`
	Depth     float64       `json:"depth"`
	Thickness float64       `json:"thickness"`
}
