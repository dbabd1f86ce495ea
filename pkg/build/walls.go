package build

import (
	"fmt"

	"github.com/chazu/housewright/pkg/model"
)

// Mutation scope labels.
const (
	ScopeWalls  = "Create walls"
	ScopeDoor   = "Create door"
	ScopeWindow = "Create window"
	ScopeRoof   = "Create roof"
)

// EdgeIndex names a wall of the loop by its position.
type EdgeIndex int

const (
	Front EdgeIndex = iota // (-W/2,-D/2) → (W/2,-D/2), hosts the door
	Right                  // (W/2,-D/2) → (W/2,D/2)
	Back                   // (W/2,D/2) → (-W/2,D/2), the other gable end
	Left                   // (-W/2,D/2) → (-W/2,-D/2)
)

var edgeNames = [...]string{"front", "right", "back", "left"}

func (e EdgeIndex) String() string {
	if e < Front || e > Left {
		return fmt.Sprintf("EdgeIndex(%d)", int(e))
	}
	return edgeNames[e]
}

// WallLoop is the closed loop of four walls, in creation order.
type WallLoop struct {
	Front *model.Wall
	Right *model.Wall
	Back  *model.Wall
	Left  *model.Wall
}

// Walls returns the walls in creation order.
func (l WallLoop) Walls() [4]*model.Wall {
	return [4]*model.Wall{l.Front, l.Right, l.Back, l.Left}
}

// Edge returns the wall at e.
func (l WallLoop) Edge(e EdgeIndex) *model.Wall {
	switch e {
	case Front:
		return l.Front
	case Right:
		return l.Right
	case Back:
		return l.Back
	case Left:
		return l.Left
	}
	panic(fmt.Sprintf("build: no wall at %s", e))
}

// Closed reports whether consecutive walls share endpoints and the last
// wall ends where the first starts.
func (l WallLoop) Closed(tol float64) bool {
	walls := l.Walls()
	for i, w := range walls {
		next := walls[(i+1)%len(walls)]
		if w == nil || next == nil {
			return false
		}
		if !w.Location.End.ApproxEqual(next.Location.Start, tol) {
			return false
		}
	}
	return true
}

// RectangleCorners returns the corners of a width × depth rectangle centred
// on the origin, counter-clockwise from the front-left corner, with the
// first corner repeated at the end.
func RectangleCorners(width, depth float64) [5]model.Point3D {
	dx, dy := width/2, depth/2
	return [5]model.Point3D{
		model.Pt(-dx, -dy, 0),
		model.Pt(dx, -dy, 0),
		model.Pt(dx, dy, 0),
		model.Pt(-dx, dy, 0),
		model.Pt(-dx, -dy, 0),
	}
}

// BuildWallLoop creates the four walls of a width × depth rectangle on the
// base level, each with its top bound to the top level, in a single
// mutation scope. Width and depth are internal units.
func BuildWallLoop(store model.Store, tx model.Transactor, levels LevelPair, width, depth float64) (WallLoop, error) {
	if err := levels.Err(); err != nil {
		return WallLoop{}, err
	}
	if width <= 0 || depth <= 0 {
		return WallLoop{}, fmt.Errorf("build: wall loop %g x %g: %w", width, depth, model.ErrInvalidPlan)
	}

	corners := RectangleCorners(width, depth)
	var walls [4]*model.Wall
	err := tx.RunInMutationScope(ScopeWalls, func() error {
		for i := range walls {
			edge := EdgeIndex(i)
			w, err := store.CreateWall(model.Seg(corners[i], corners[i+1]), levels.Base.ID, false)
			if err != nil {
				return fmt.Errorf("create %s wall: %w", edge, err)
			}
			w, err = store.SetTopLevel(w.ID, levels.Top.ID)
			if err != nil {
				return fmt.Errorf("bind %s wall to %q: %w", edge, levels.Top.Name, err)
			}
			walls[i] = w
		}
		return nil
	})
	if err != nil {
		return WallLoop{}, fmt.Errorf("build: %s: %w", ScopeWalls, err)
	}
	return WallLoop{Front: walls[Front], Right: walls[Right], Back: walls[Back], Left: walls[Left]}, nil
}
