package model

import (
	"errors"
	"math"
	"testing"
)

func TestPointMid(t *testing.T) {
	got := Pt(-2, 4, 1).Mid(Pt(6, 0, 3))
	want := Pt(2, 2, 2)
	if !got.ApproxEqual(want, Tolerance) {
		t.Errorf("Mid = %v, want %v", got, want)
	}
}

func TestPointCross(t *testing.T) {
	tests := []struct {
		name string
		a, b Vec3
		want Vec3
	}{
		{"x cross y", Pt(1, 0, 0), Pt(0, 1, 0), Pt(0, 0, 1)},
		{"z cross x", Pt(0, 0, 1), Pt(1, 0, 0), Pt(0, 1, 0)},
		{"parallel", Pt(2, 0, 0), Pt(5, 0, 0), Pt(0, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cross(tt.b); !got.ApproxEqual(tt.want, Tolerance) {
				t.Errorf("Cross = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeZero(t *testing.T) {
	if got := (Point3D{}).Normalize(); !got.IsZero() {
		t.Errorf("Normalize(0) = %v, want zero", got)
	}
	if got := Pt(3, 4, 0).Normalize().Length(); math.Abs(got-1) > Tolerance {
		t.Errorf("|Normalize| = %v, want 1", got)
	}
}

func TestSegmentPlanDistance(t *testing.T) {
	s := Seg(Pt(0, 0, 0), Pt(10, 0, 0))
	tests := []struct {
		name string
		p    Point3D
		want float64
	}{
		{"on segment", Pt(5, 0, 0), 0},
		{"raised over segment", Pt(5, 0, 7), 0},
		{"beside segment", Pt(5, 3, 0), 3},
		{"past the end", Pt(13, 4, 0), 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.PlanDistance(tt.p); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("PlanDistance = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPlaneProject(t *testing.T) {
	p := Plane{Origin: Pt(0, 0, 0), Normal: Pt(1, 0, 0), Up: Pt(0, 0, 1)}
	if r := p.Right(); !r.ApproxEqual(Pt(0, 1, 0), Tolerance) {
		t.Fatalf("Right = %v, want +Y", r)
	}
	u, v, w := p.Project(Pt(-3, 2, 5))
	if u != 2 || v != 5 || w != -3 {
		t.Errorf("Project = (%v, %v, %v), want (2, 5, -3)", u, v, w)
	}
}

func TestFootprintPoints(t *testing.T) {
	fp := RoofFootprint{Seg(Pt(0, 0, 0), Pt(1, 0, 1)), Seg(Pt(1, 0, 1), Pt(2, 0, 0))}
	pts := fp.Points()
	if len(pts) != 3 {
		t.Fatalf("len(Points) = %d, want 3", len(pts))
	}
	if !pts[2].ApproxEqual(Pt(2, 0, 0), Tolerance) {
		t.Errorf("last point = %v", pts[2])
	}
	if RoofFootprint(nil).Points() != nil {
		t.Error("empty footprint should have no points")
	}
}

func TestErrorsUnwrap(t *testing.T) {
	var err error = &PreconditionError{What: "level", Name: "Level 1", Err: ErrMissingLevel}
	if !errors.Is(err, ErrMissingLevel) {
		t.Error("PreconditionError should unwrap to ErrMissingLevel")
	}
	if !IsPrecondition(err) {
		t.Error("IsPrecondition = false")
	}
	if want := `precondition failed: level "Level 1": level not found`; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	err = &GeometryError{Op: "extrusion roof", Reason: "profile folds back"}
	if !errors.Is(err, ErrGeometry) {
		t.Error("GeometryError should unwrap to ErrGeometry")
	}
	if IsPrecondition(err) {
		t.Error("GeometryError is not a precondition failure")
	}
}
