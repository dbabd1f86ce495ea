package memstore

import (
	"fmt"
	"math"

	"github.com/chazu/housewright/pkg/model"
)

// profileTolerance is the distance below which two profile points are the
// same point.
const profileTolerance = 1e-6

func geometryErr(format string, args ...any) error {
	return &model.GeometryError{Op: "extrusion roof", Reason: fmt.Sprintf(format, args...)}
}

// projectProfile checks that footprint is a usable extrusion profile and
// returns its vertices in plane coordinates (u along Right, v along Up).
//
// A usable profile is a non-empty, contiguous, open chain of segments whose
// projections have length, never fold back on themselves, and never cross.
func projectProfile(fp model.RoofFootprint, pl model.Plane) ([][2]float64, error) {
	if len(fp) == 0 {
		return nil, geometryErr("footprint is empty")
	}
	for i := 0; i+1 < len(fp); i++ {
		if !fp[i].End.ApproxEqual(fp[i+1].Start, profileTolerance) {
			return nil, geometryErr("footprint is not contiguous between segments %d and %d", i, i+1)
		}
	}

	pts := make([][2]float64, 0, len(fp)+1)
	for _, p := range fp.Points() {
		u, v, _ := pl.Project(p)
		pts = append(pts, [2]float64{u, v})
	}

	if len(fp) > 1 && dist2(pts[0], pts[len(pts)-1]) <= profileTolerance {
		return nil, geometryErr("profile is closed; an extrusion roof needs an open profile")
	}
	for i := 0; i+1 < len(pts); i++ {
		if dist2(pts[i], pts[i+1]) <= profileTolerance {
			return nil, geometryErr("segment %d is degenerate in the working plane", i)
		}
	}
	for i := 0; i+2 < len(pts); i++ {
		if foldsBack(pts[i], pts[i+1], pts[i+2]) {
			return nil, geometryErr("profile folds back on itself at segment %d", i+1)
		}
	}
	for i := 0; i+1 < len(pts); i++ {
		for j := i + 2; j+1 < len(pts); j++ {
			if segmentsCross(pts[i], pts[i+1], pts[j], pts[j+1]) {
				return nil, geometryErr("segments %d and %d intersect", i, j)
			}
		}
	}
	return pts, nil
}

func dist2(a, b [2]float64) float64 {
	return math.Hypot(b[0]-a[0], b[1]-a[1])
}

func cross2(o, a, b [2]float64) float64 {
	return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
}

// foldsBack reports whether b→c reverses direction along a→b.
func foldsBack(a, b, c [2]float64) bool {
	d1 := [2]float64{b[0] - a[0], b[1] - a[1]}
	d2 := [2]float64{c[0] - b[0], c[1] - b[1]}
	l := math.Hypot(d1[0], d1[1]) * math.Hypot(d2[0], d2[1])
	if l == 0 {
		return false
	}
	crossN := (d1[0]*d2[1] - d1[1]*d2[0]) / l
	dotN := (d1[0]*d2[0] + d1[1]*d2[1]) / l
	return math.Abs(crossN) <= profileTolerance && dotN < 0
}

// segmentsCross reports whether closed segments ab and cd share a point.
func segmentsCross(a, b, c, d [2]float64) bool {
	d1 := cross2(c, d, a)
	d2 := cross2(c, d, b)
	d3 := cross2(a, b, c)
	d4 := cross2(a, b, d)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) && ((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	return (math.Abs(d1) <= profileTolerance && onSegment(c, d, a)) ||
		(math.Abs(d2) <= profileTolerance && onSegment(c, d, b)) ||
		(math.Abs(d3) <= profileTolerance && onSegment(a, b, c)) ||
		(math.Abs(d4) <= profileTolerance && onSegment(a, b, d))
}

// onSegment reports whether p, known to be collinear with ab, lies within
// its bounding box.
func onSegment(a, b, p [2]float64) bool {
	return math.Min(a[0], b[0])-profileTolerance <= p[0] && p[0] <= math.Max(a[0], b[0])+profileTolerance &&
		math.Min(a[1], b[1])-profileTolerance <= p[1] && p[1] <= math.Max(a[1], b[1])+profileTolerance
}
