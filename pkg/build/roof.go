package build

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/housewright/pkg/model"
)

// Working plane of the roof profile: a vertical plane through the origin
// whose normal is the ridge direction.
var (
	roofPlaneOrigin = model.Pt(0, 0, 0)
	roofPlaneNormal = model.Pt(1, 0, 0)
	roofPlaneUp     = model.Pt(0, 0, 1)
)

// RoofResult is the outcome of BuildRoof. Exactly one of Roof and Failure
// is set.
type RoofResult struct {
	Roof      *model.Roof
	Plane     *model.Plane
	Footprint model.RoofFootprint
	// Failure is the geometry engine's rejection of the roof, if any.
	Failure error
	// MaxWallLength is the longest wall in the loop. Diagnostic only.
	MaxWallLength float64
}

// Failed reports whether the geometry engine rejected the roof.
func (r RoofResult) Failed() bool {
	return r.Failure != nil
}

// MaxWallLength returns the length of the longest wall in the loop.
func MaxWallLength(loop WallLoop) float64 {
	longest := 0.0
	for _, w := range loop.Walls() {
		if w != nil {
			longest = math.Max(longest, w.Length())
		}
	}
	return longest
}

// GableFootprint returns the two-segment gable profile spanning front and
// back. Each eave point is the wall's start raised by the wall's height;
// the ridge sits rise above their midpoint.
func GableFootprint(front, back *model.Wall, rise float64) model.RoofFootprint {
	p1 := front.Location.Start.Raise(front.Height)
	p2 := back.Location.Start.Raise(back.Height)
	ridge := p1.Mid(p2).Raise(rise)
	return model.RoofFootprint{model.Seg(p1, ridge), model.Seg(ridge, p2)}
}

// BuildRoof creates the working plane and the gable extrusion roof over
// loop in one mutation scope. The profile is extruded along the plane
// normal from the front eave's X coordinate for depth internal units.
//
// A *model.GeometryError from the store does not fail the scope: the plane
// is kept and the rejection is returned in RoofResult.Failure. Any other
// error rolls the scope back and is returned.
func BuildRoof(store model.Store, tx model.Transactor, loop WallLoop, level *model.Level, roofType *model.RoofType, depth, rise float64) (RoofResult, error) {
	if loop.Front == nil || loop.Back == nil {
		return RoofResult{}, fmt.Errorf("build: %s: incomplete wall loop: %w", ScopeRoof, model.ErrInvalidArgument)
	}
	if level == nil || roofType == nil {
		return RoofResult{}, fmt.Errorf("build: %s: level and roof type are required: %w", ScopeRoof, model.ErrInvalidArgument)
	}

	res := RoofResult{
		Footprint:     GableFootprint(loop.Front, loop.Back, rise),
		MaxWallLength: MaxWallLength(loop),
	}
	start := res.Footprint[0].Start.Dot(roofPlaneNormal)

	err := tx.RunInMutationScope(ScopeRoof, func() error {
		plane, err := store.CreateWorkingPlane(roofPlaneOrigin, roofPlaneNormal, roofPlaneUp)
		if err != nil {
			return fmt.Errorf("create working plane: %w", err)
		}
		res.Plane = plane

		roof, err := store.CreateExtrusionRoof(res.Footprint, plane.ID, level.ID, roofType.ID, start, depth)
		var geomErr *model.GeometryError
		switch {
		case errors.As(err, &geomErr):
			res.Failure = err
			return nil
		case err != nil:
			return fmt.Errorf("create extrusion roof: %w", err)
		}
		res.Roof = roof
		return nil
	})
	if err != nil {
		return RoofResult{}, fmt.Errorf("build: %s: %w", ScopeRoof, err)
	}
	return res, nil
}
