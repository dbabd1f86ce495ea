package build

import (
	"fmt"
	"log/slog"

	"github.com/chazu/housewright/pkg/model"
)

// Generator builds a house into Store, opening mutation scopes through Tx.
type Generator struct {
	Store  model.Store
	Tx     model.Transactor
	Logger *slog.Logger
}

func (g *Generator) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}

// Run executes plan. A nil plan runs DefaultPlan.
//
// Errors:
//   - an invalid plan wraps model.ErrInvalidPlan;
//   - a missing level, door, window or roof type is a
//     *model.PreconditionError and nothing has been mutated;
//   - any other store error is returned as is, with the report of what was
//     committed before it.
//
// A rejected roof is not an error: the report has StatusPartial.
func (g *Generator) Run(plan *Plan) (*Report, error) {
	if plan == nil {
		plan = DefaultPlan()
	}
	log := g.logger()

	// Step 1: validate and convert every plan length to internal units.
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	dims := plan.Dimensions()
	report := &Report{Plan: *plan}

	// Step 2: resolve everything the mutations depend on.
	levels := ResolveLevels(g.Store, plan.BaseLevel, plan.TopLevel)
	if err := levels.Err(); err != nil {
		log.Error("levels not found", "missing", levels.Missing())
		return nil, err
	}
	report.Levels = levels

	doorType, err := ResolveFamilyType(g.Store, model.CategoryDoors, plan.Door)
	if err != nil {
		return nil, err
	}
	windowType, err := ResolveFamilyType(g.Store, model.CategoryWindows, plan.Window)
	if err != nil {
		return nil, err
	}
	roofType, ok := g.Store.DefaultRoofType()
	if !ok || roofType == nil {
		return nil, &model.PreconditionError{What: "roof type", Err: model.ErrMissingRoofType}
	}
	log.Debug("resolved",
		"base", levels.Base.Name, "top", levels.Top.Name,
		"door", doorType.String(), "window", windowType.String(), "roof", roofType.Name)

	// Step 3: walls.
	loop, err := BuildWallLoop(g.Store, g.Tx, levels, dims.Width, dims.Depth)
	if err != nil {
		return report, err
	}
	report.Walls = loop
	log.Info(ScopeWalls, "count", len(loop.Walls()), "width", dims.Width, "depth", dims.Depth)

	// Step 4: door on the front wall, a window on each of the others.
	door, err := PlaceDoor(g.Store, g.Tx, loop.Front, levels.Base, doorType)
	if err != nil {
		return report, err
	}
	report.Door = door
	log.Info(ScopeDoor, "id", door.ID.Short(), "host", Front.String())

	for i, edge := range []EdgeIndex{Right, Back, Left} {
		win, err := PlaceWindow(g.Store, g.Tx, loop.Edge(edge), levels.Base, windowType, plan.SillOffset)
		if err != nil {
			return report, fmt.Errorf("%s wall: %w", edge, err)
		}
		report.Windows[i] = win
		log.Info(ScopeWindow, "id", win.ID.Short(), "host", edge.String())
	}

	// Step 5: roof on the top level.
	roof, err := BuildRoof(g.Store, g.Tx, loop, levels.Top, roofType, dims.RoofDepth, plan.RidgeRise)
	if err != nil {
		return report, err
	}
	report.Roof = roof
	log.Debug("max wall length", "length", roof.MaxWallLength)
	if roof.Failed() {
		log.Warn("roof rejected", "err", roof.Failure)
	} else {
		log.Info(ScopeRoof, "id", roof.Roof.ID.Short(), "depth", dims.RoofDepth)
	}

	log.Info("generation finished", "status", string(report.Status()))
	return report, nil
}
