package build

import (
	"fmt"
	"strings"

	"github.com/chazu/housewright/pkg/model"
	"github.com/chazu/housewright/pkg/units"
)

// Status summarises a finished run.
type Status string

const (
	// StatusComplete means walls, openings and roof were all created.
	StatusComplete Status = "complete"
	// StatusPartial means the roof was rejected; walls and openings stand.
	StatusPartial Status = "partial"
)

// Report records everything a run created.
type Report struct {
	Plan    Plan
	Levels  LevelPair
	Walls   WallLoop
	Door    *model.FamilyInstance
	Windows [3]*model.FamilyInstance // on Right, Back, Left
	Roof    RoofResult
}

// Status is StatusPartial when the roof failed, StatusComplete otherwise.
func (r *Report) Status() Status {
	if r.Roof.Failed() || r.Roof.Roof == nil {
		return StatusPartial
	}
	return StatusComplete
}

// Summary renders a short human-readable account of the run. Lengths are
// shown in the plan's unit.
func (r *Report) Summary() string {
	u := r.Plan.Unit
	var b strings.Builder
	fmt.Fprintf(&b, "status: %s\n", r.Status())
	if r.Levels.Base != nil && r.Levels.Top != nil {
		fmt.Fprintf(&b, "levels: %s → %s\n", r.Levels.Base.Name, r.Levels.Top.Name)
	}
	for i, w := range r.Walls.Walls() {
		if w == nil {
			continue
		}
		fmt.Fprintf(&b, "wall %-5s %s length %.0f%s height %.0f%s\n",
			EdgeIndex(i), w.ID.Short(),
			units.FromInternal(w.Length(), u), u,
			units.FromInternal(w.Height, u), u)
	}
	if r.Door != nil {
		fmt.Fprintf(&b, "door %s on %s\n", r.Door.ID.Short(), r.Door.Host.Short())
	}
	for _, win := range r.Windows {
		if win != nil {
			fmt.Fprintf(&b, "window %s on %s\n", win.ID.Short(), win.Host.Short())
		}
	}
	switch {
	case r.Roof.Roof != nil:
		fmt.Fprintf(&b, "roof %s depth %.0f%s\n", r.Roof.Roof.ID.Short(), units.FromInternal(r.Roof.Roof.Depth, u), u)
	case r.Roof.Failure != nil:
		fmt.Fprintf(&b, "roof failed: %v\n", r.Roof.Failure)
	}
	fmt.Fprintf(&b, "longest wall: %.0f%s\n", units.FromInternal(r.Roof.MaxWallLength, u), u)
	return b.String()
}
