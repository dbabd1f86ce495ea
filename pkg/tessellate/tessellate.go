// Package tessellate turns the walls and roofs of a model document into
// triangle meshes using a geometry kernel. One mesh is produced per element.
package tessellate

import (
	"fmt"
	"math"

	"github.com/chazu/housewright/pkg/kernel"
	"github.com/chazu/housewright/pkg/model"
)

// Scene is the read-only view of a document the tessellator needs.
type Scene interface {
	Levels() []model.Level
	Walls() []model.Wall
	Roofs() []model.Roof
}

// placement is a rigid transform: rotation about Z, then translation.
type placement struct {
	rotateZ     float64 // degrees
	translation model.Vec3
}

// apply rotates then translates the solid, skipping identity steps.
func (p placement) apply(k kernel.Kernel, s kernel.Solid) kernel.Solid {
	if p.rotateZ != 0 {
		s = k.Rotate(s, 0, 0, p.rotateZ)
	}
	if t := p.translation; t.X != 0 || t.Y != 0 || t.Z != 0 {
		s = k.Translate(s, t.X, t.Y, t.Z)
	}
	return s
}

// Tessellate produces one mesh per wall and one per roof, walls first, in
// document order. Doors and windows are metadata only and produce no
// geometry. The tessellator never mutates the scene.
func Tessellate(scene Scene, k kernel.Kernel) ([]*kernel.Mesh, error) {
	if scene == nil {
		return nil, nil
	}

	elevations := make(map[model.ElementID]float64)
	for _, l := range scene.Levels() {
		elevations[l.ID] = l.Elevation
	}

	var meshes []*kernel.Mesh
	for _, w := range scene.Walls() {
		m, err := wallMesh(k, w, elevations[w.BaseLevel])
		if err != nil {
			return nil, fmt.Errorf("tessellate: wall %s: %w", w.ID.Short(), err)
		}
		meshes = append(meshes, m)
	}
	for _, r := range scene.Roofs() {
		m, err := roofMesh(k, r)
		if err != nil {
			return nil, fmt.Errorf("tessellate: roof %s: %w", r.ID.Short(), err)
		}
		meshes = append(meshes, m)
	}
	return meshes, nil
}

// wallMesh builds a wall as a box centred on its centerline, standing on
// its base level.
func wallMesh(k kernel.Kernel, w model.Wall, baseElevation float64) (*kernel.Mesh, error) {
	length := w.Length()
	if length <= model.Tolerance || w.Height <= 0 || w.Thickness <= 0 {
		return nil, fmt.Errorf("degenerate wall %.4f x %.4f x %.4f", length, w.Thickness, w.Height)
	}

	solid := k.Box(length, w.Thickness, w.Height)
	solid = k.Translate(solid, 0, -w.Thickness/2, 0)

	dir := w.Location.Direction()
	start := w.Location.Start
	solid = placement{
		rotateZ:     math.Atan2(dir.Y, dir.X) * 180 / math.Pi,
		translation: model.Pt(start.X, start.Y, baseElevation),
	}.apply(k, solid)

	mesh, err := k.ToMesh(solid)
	if err != nil {
		return nil, err
	}
	mesh.PartName = "wall " + w.ID.Short()
	return mesh, nil
}

// roofMesh builds a roof as its footprint thickened downward into a slab,
// extruded in the working plane frame and mapped back to model space.
func roofMesh(k kernel.Kernel, r model.Roof) (*kernel.Mesh, error) {
	pts := r.Footprint.Points()
	if len(pts) < 2 {
		return nil, fmt.Errorf("footprint has %d points", len(pts))
	}
	profile := make([][2]float64, len(pts))
	for i, p := range pts {
		u, v, _ := r.Plane.Project(p)
		profile[i] = [2]float64{u, v}
	}

	solid, err := k.Extrude(kernel.ThickenPolyline(profile, r.Thickness), r.Depth)
	if err != nil {
		return nil, err
	}
	mesh, err := k.ToMesh(solid)
	if err != nil {
		return nil, err
	}

	origin := r.Plane.Origin.Add(r.Plane.Normal.Scale(r.Start))
	mesh.Reframe(kernel.Frame{
		Origin: vec(origin),
		X:      vec(r.Plane.Right()),
		Y:      vec(r.Plane.Up),
		Z:      vec(r.Plane.Normal),
	})
	mesh.PartName = "roof " + r.ID.Short()
	return mesh, nil
}

func vec(p model.Point3D) [3]float64 {
	return [3]float64{p.X, p.Y, p.Z}
}
