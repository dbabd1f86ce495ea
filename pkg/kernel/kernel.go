// Package kernel defines the abstract geometry kernel interface used by the
// reference model store to validate roof profiles and by the tessellator to
// build preview meshes. Implementations live in sub-packages.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Box creates a box with its minimum corner at the origin.
	Box(x, y, z float64) Solid

	// Extrude sweeps a closed 2D polygon in the XY plane along +Z from
	// z=0 to z=height. It fails when the polygon is degenerate.
	Extrude(polygon [][2]float64, height float64) (Solid, error)

	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	ToMesh(s Solid) (*Mesh, error)
}
