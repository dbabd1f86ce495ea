package model

import (
	"fmt"
	"math"
)

// Tolerance is the coordinate tolerance used for point comparisons.
const Tolerance = 1e-9

// Point3D is a coordinate triple in internal units. It is a value type;
// every operation returns a new point.
type Point3D struct {
	X, Y, Z float64
}

// Vec3 is a direction in internal units. It shares its representation with
// Point3D.
type Vec3 = Point3D

// Pt is shorthand for Point3D{X: x, Y: y, Z: z}.
func Pt(x, y, z float64) Point3D {
	return Point3D{X: x, Y: y, Z: z}
}

// Add returns p + q.
func (p Point3D) Add(q Point3D) Point3D {
	return Point3D{p.X + q.X, p.Y + q.Y, p.Z + q.Z}
}

// Sub returns p - q.
func (p Point3D) Sub(q Point3D) Point3D {
	return Point3D{p.X - q.X, p.Y - q.Y, p.Z - q.Z}
}

// Scale returns p * s.
func (p Point3D) Scale(s float64) Point3D {
	return Point3D{p.X * s, p.Y * s, p.Z * s}
}

// Raise returns p moved up by dz.
func (p Point3D) Raise(dz float64) Point3D {
	return Point3D{p.X, p.Y, p.Z + dz}
}

// Mid returns the midpoint of p and q, computed as (p + q) / 2.
func (p Point3D) Mid(q Point3D) Point3D {
	return p.Add(q).Scale(0.5)
}

// Dot returns the dot product.
func (p Point3D) Dot(q Point3D) float64 {
	return p.X*q.X + p.Y*q.Y + p.Z*q.Z
}

// Cross returns the cross product p × q.
func (p Point3D) Cross(q Point3D) Point3D {
	return Point3D{
		p.Y*q.Z - p.Z*q.Y,
		p.Z*q.X - p.X*q.Z,
		p.X*q.Y - p.Y*q.X,
	}
}

// Length returns the Euclidean norm.
func (p Point3D) Length() float64 {
	return math.Sqrt(p.Dot(p))
}

// Normalize returns p scaled to unit length. The zero vector is returned
// unchanged.
func (p Point3D) Normalize() Point3D {
	l := p.Length()
	if l == 0 {
		return p
	}
	return p.Scale(1 / l)
}

// IsZero reports whether every component is within Tolerance of zero.
func (p Point3D) IsZero() bool {
	return p.Length() <= Tolerance
}

// ApproxEqual reports whether p and q are within tol of each other.
func (p Point3D) ApproxEqual(q Point3D, tol float64) bool {
	return p.Sub(q).Length() <= tol
}

func (p Point3D) String() string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", p.X, p.Y, p.Z)
}

// Segment is a bounded straight edge between two points. It is the basis of
// wall centerlines and roof footprint edges.
type Segment struct {
	Start Point3D `json:"start" yaml:"start"`
	End   Point3D `json:"end" yaml:"end"`
}

// Seg is shorthand for Segment{Start: a, End: b}.
func Seg(a, b Point3D) Segment {
	return Segment{Start: a, End: b}
}

// Length returns the distance between the endpoints.
func (s Segment) Length() float64 {
	return s.End.Sub(s.Start).Length()
}

// Midpoint returns the point halfway between the endpoints.
func (s Segment) Midpoint() Point3D {
	return s.Start.Mid(s.End)
}

// Direction returns the unit vector from Start to End.
func (s Segment) Direction() Vec3 {
	return s.End.Sub(s.Start).Normalize()
}

// PlanDistance returns the horizontal (XY) distance from p to the segment.
func (s Segment) PlanDistance(p Point3D) float64 {
	ax, ay := s.Start.X, s.Start.Y
	dx, dy := s.End.X-ax, s.End.Y-ay
	px, py := p.X-ax, p.Y-ay
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Hypot(px, py)
	}
	t := (px*dx + py*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(px-t*dx, py-t*dy)
}

func (s Segment) String() string {
	return fmt.Sprintf("%s -> %s", s.Start, s.End)
}
