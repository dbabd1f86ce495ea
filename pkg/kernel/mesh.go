package kernel

import "math"

// Mesh is a triangle mesh suitable for rendering.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	PartName string    `json:"partName"` // which element this came from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Bounds returns the axis-aligned bounds of the vertices. An empty mesh
// returns zero bounds.
func (m *Mesh) Bounds() (min, max [3]float64) {
	if m.IsEmpty() {
		return min, max
	}
	for i := 0; i < 3; i++ {
		min[i] = math.Inf(1)
		max[i] = math.Inf(-1)
	}
	for i := 0; i+2 < len(m.Vertices); i += 3 {
		for j := 0; j < 3; j++ {
			v := float64(m.Vertices[i+j])
			min[j] = math.Min(min[j], v)
			max[j] = math.Max(max[j], v)
		}
	}
	return min, max
}

// Frame is an orthonormal coordinate frame. A local point (x, y, z) maps to
// Origin + x*X + y*Y + z*Z.
type Frame struct {
	Origin  [3]float64
	X, Y, Z [3]float64
}

// Reframe maps every vertex and normal of m from local coordinates into f.
// X, Y, Z must form a right-handed orthonormal basis so winding and normal
// orientation are preserved.
func (m *Mesh) Reframe(f Frame) {
	for i := 0; i+2 < len(m.Vertices); i += 3 {
		x, y, z := float64(m.Vertices[i]), float64(m.Vertices[i+1]), float64(m.Vertices[i+2])
		for j := 0; j < 3; j++ {
			m.Vertices[i+j] = float32(f.Origin[j] + x*f.X[j] + y*f.Y[j] + z*f.Z[j])
		}
	}
	for i := 0; i+2 < len(m.Normals); i += 3 {
		x, y, z := float64(m.Normals[i]), float64(m.Normals[i+1]), float64(m.Normals[i+2])
		for j := 0; j < 3; j++ {
			m.Normals[i+j] = float32(x*f.X[j] + y*f.Y[j] + z*f.Z[j])
		}
	}
}

// ThickenPolyline turns an open polyline into a closed polygon by walking it
// forward and then walking it back offset by -thickness along Y. It is how
// a roof profile line becomes a roof slab cross-section.
func ThickenPolyline(pts [][2]float64, thickness float64) [][2]float64 {
	out := make([][2]float64, 0, 2*len(pts))
	out = append(out, pts...)
	for i := len(pts) - 1; i >= 0; i-- {
		out = append(out, [2]float64{pts[i][0], pts[i][1] - thickness})
	}
	return out
}

// SignedArea returns the shoelace area of a closed polygon; positive for
// counter-clockwise winding.
func SignedArea(polygon [][2]float64) float64 {
	var a float64
	n := len(polygon)
	for i := 0; i < n; i++ {
		p, q := polygon[i], polygon[(i+1)%n]
		a += p[0]*q[1] - q[0]*p[1]
	}
	return a / 2
}
