package build

import (
	"fmt"

	"github.com/chazu/housewright/pkg/model"
)

// ResolveFamilyType finds the catalog type named by spec. A missing entry
// is a *model.PreconditionError wrapping model.ErrMissingFamilyType.
func ResolveFamilyType(store model.Store, category model.Category, spec OpeningSpec) (*model.FamilyType, error) {
	t, ok := store.FindFamilyType(category, spec.Type, spec.Family)
	if !ok || t == nil {
		what := "door type"
		if category == model.CategoryWindows {
			what = "window type"
		}
		return nil, &model.PreconditionError{What: what, Name: spec.String(), Err: model.ErrMissingFamilyType}
	}
	return t, nil
}

// DoorPoint is the midpoint of the wall's centerline endpoints.
func DoorPoint(w *model.Wall) model.Point3D {
	return w.Location.Start.Mid(w.Location.End)
}

// WindowPoint raises both centerline endpoints by sill and returns their
// midpoint.
func WindowPoint(w *model.Wall, sill float64) model.Point3D {
	return w.Location.Start.Raise(sill).Mid(w.Location.End.Raise(sill))
}

// PlaceDoor hosts a door of type typ at the middle of wall.
func PlaceDoor(store model.Store, tx model.Transactor, wall *model.Wall, level *model.Level, typ *model.FamilyType) (*model.FamilyInstance, error) {
	return placeOpening(store, tx, ScopeDoor, DoorPoint(wall), wall, level, typ)
}

// PlaceWindow hosts a window of type typ at the middle of wall, sill above
// its base.
func PlaceWindow(store model.Store, tx model.Transactor, wall *model.Wall, level *model.Level, typ *model.FamilyType, sill float64) (*model.FamilyInstance, error) {
	return placeOpening(store, tx, ScopeWindow, WindowPoint(wall, sill), wall, level, typ)
}

// placeOpening activates typ if needed and creates the hosted instance, both
// in one scope. typ.Active is updated once the scope commits so a shared
// type is activated only once.
func placeOpening(store model.Store, tx model.Transactor, label string, point model.Point3D, wall *model.Wall, level *model.Level, typ *model.FamilyType) (*model.FamilyInstance, error) {
	if wall == nil || level == nil || typ == nil {
		return nil, fmt.Errorf("build: %s: wall, level and type are required: %w", label, model.ErrInvalidArgument)
	}
	var inst *model.FamilyInstance
	err := tx.RunInMutationScope(label, func() error {
		if !typ.Active {
			if err := store.ActivateType(typ.ID); err != nil {
				return fmt.Errorf("activate %s: %w", typ, err)
			}
		}
		var err error
		inst, err = store.CreateFamilyInstance(point, typ.ID, wall.ID, level.ID, model.NonStructural)
		if err != nil {
			return fmt.Errorf("place %s on wall %s: %w", typ, wall.ID.Short(), err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("build: %s: %w", label, err)
	}
	typ.Active = true
	return inst, nil
}
