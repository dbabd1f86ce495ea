// Package memstore is an in-memory Model Store and Transaction Service.
//
// A Document holds levels, catalog types and the elements created against
// it. Mutations are only accepted inside RunInMutationScope; each scope
// works on a private copy of the document state that replaces the committed
// state when the scope body succeeds and is discarded when it fails.
//
// Roof profiles are checked by a small geometry engine: planar validation
// here, and, when a kernel is configured, a trial extrusion of the roof slab.
package memstore

import (
	"fmt"
	"sync"

	"github.com/chazu/housewright/pkg/kernel"
	"github.com/chazu/housewright/pkg/model"
	"github.com/google/uuid"
)

// Compile-time interface checks.
var (
	_ model.Store      = (*Document)(nil)
	_ model.Transactor = (*Document)(nil)
)

// DefaultUnconnectedHeight is the height a wall has before a top level is
// assigned.
const DefaultUnconnectedHeight = 10.0

// DefaultWallThickness is the wall thickness used when none is configured.
const DefaultWallThickness = 200 / 304.8

// Option configures a Document.
type Option func(*Document)

// WithKernel makes CreateExtrusionRoof run a trial extrusion of every roof
// slab through k.
func WithKernel(k kernel.Kernel) Option {
	return func(d *Document) { d.kernel = k }
}

// WithWallThickness sets the thickness of created walls.
func WithWallThickness(t float64) Option {
	return func(d *Document) { d.wallThickness = t }
}

// WithIDGenerator replaces the uuid generator. Used by tests that need
// stable IDs.
func WithIDGenerator(next func() string) Option {
	return func(d *Document) { d.nextID = next }
}

// Document is an open in-memory model document.
type Document struct {
	mu            sync.Mutex
	state         state
	scope         *scope
	calls         []Call
	scopes        []ScopeRecord
	kernel        kernel.Kernel
	wallThickness float64
	nextID        func() string
}

// New returns an empty document.
func New(opts ...Option) *Document {
	d := &Document{
		wallThickness: DefaultWallThickness,
		nextID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Document) newID() model.ElementID {
	return model.ElementID(d.nextID())
}

// view returns the state visible to readers: the open scope's working copy
// if there is one, the committed state otherwise. Caller holds d.mu.
func (d *Document) view() *state {
	if d.scope != nil {
		return &d.scope.state
	}
	return &d.state
}

// ---------------------------------------------------------------------------
// Document setup. These model content that already exists in the host
// document and are not recorded as mutation calls.
// ---------------------------------------------------------------------------

// AddLevel adds a level to the committed document.
func (d *Document) AddLevel(name string, elevation float64) model.Level {
	d.mu.Lock()
	defer d.mu.Unlock()
	l := model.Level{ID: d.newID(), Name: name, Elevation: elevation}
	d.state.levels = append(d.state.levels, l)
	return l
}

// AddFamilyType adds an inactive catalog type.
func (d *Document) AddFamilyType(category model.Category, familyName, typeName string) model.FamilyType {
	return d.addFamilyType(category, familyName, typeName, false)
}

func (d *Document) addFamilyType(category model.Category, familyName, typeName string, active bool) model.FamilyType {
	d.mu.Lock()
	defer d.mu.Unlock()
	t := model.FamilyType{ID: d.newID(), Category: category, Name: typeName, FamilyName: familyName, Active: active}
	d.state.types = append(d.state.types, t)
	return t
}

// AddRoofType adds a roof type. The first roof type added, or any added
// with makeDefault, becomes the document default.
func (d *Document) AddRoofType(name string, thickness float64, makeDefault bool) model.RoofType {
	d.mu.Lock()
	defer d.mu.Unlock()
	rt := model.RoofType{ID: d.newID(), Name: name, Thickness: thickness}
	d.state.roofTypes = append(d.state.roofTypes, rt)
	if makeDefault || d.state.defaultRoofType.IsZero() {
		d.state.defaultRoofType = rt.ID
	}
	return rt
}

// ---------------------------------------------------------------------------
// Lookups
// ---------------------------------------------------------------------------

// FindLevelsByName returns the first level matching each name exactly.
func (d *Document) FindLevelsByName(names ...string) map[string]*model.Level {
	d.mu.Lock()
	defer d.mu.Unlock()
	found := make(map[string]*model.Level, len(names))
	for _, name := range names {
		if _, done := found[name]; done {
			continue
		}
		for _, l := range d.view().levels {
			if l.Name == name {
				found[name] = &l
				break
			}
		}
	}
	return found
}

// FindFamilyType returns the first type in category with the exact type and
// family names.
func (d *Document) FindFamilyType(category model.Category, typeName, familyName string) (*model.FamilyType, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, t := range d.view().types {
		if t.Category == category && t.Name == typeName && t.FamilyName == familyName {
			return &t, true
		}
	}
	return nil, false
}

// DefaultRoofType returns the document's default roof type.
func (d *Document) DefaultRoofType() (*model.RoofType, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	st := d.view()
	if i := st.roofTypeIndex(st.defaultRoofType); i >= 0 {
		rt := st.roofTypes[i]
		return &rt, true
	}
	return nil, false
}

// ---------------------------------------------------------------------------
// Mutations
// ---------------------------------------------------------------------------

// CreateWall creates a wall on baseLevel along curve.
func (d *Document) CreateWall(curve model.Segment, baseLevel model.ElementID, structural bool) (*model.Wall, error) {
	var created model.Wall
	err := d.mutate("CreateWall", func(st *state) error {
		if curve.Length() <= model.Tolerance {
			return fmt.Errorf("memstore: CreateWall: zero-length curve: %w", model.ErrInvalidArgument)
		}
		if st.levelIndex(baseLevel) < 0 {
			return fmt.Errorf("memstore: CreateWall: base level %s: %w", baseLevel.Short(), model.ErrNotFound)
		}
		created = model.Wall{
			ID:         d.newID(),
			BaseLevel:  baseLevel,
			Location:   curve,
			Height:     DefaultUnconnectedHeight,
			Thickness:  d.wallThickness,
			Structural: structural,
		}
		st.walls = append(st.walls, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// SetTopLevel constrains the top of wall to level and returns the updated
// wall. The wall height becomes the elevation difference between its top
// and base levels.
func (d *Document) SetTopLevel(wall, level model.ElementID) (*model.Wall, error) {
	var updated model.Wall
	err := d.mutate("SetTopLevel", func(st *state) error {
		wi := st.wallIndex(wall)
		if wi < 0 {
			return fmt.Errorf("memstore: SetTopLevel: wall %s: %w", wall.Short(), model.ErrNotFound)
		}
		ti := st.levelIndex(level)
		if ti < 0 {
			return fmt.Errorf("memstore: SetTopLevel: level %s: %w", level.Short(), model.ErrNotFound)
		}
		w := &st.walls[wi]
		base := st.levels[st.levelIndex(w.BaseLevel)]
		top := st.levels[ti]
		if top.Elevation <= base.Elevation {
			return fmt.Errorf("memstore: SetTopLevel: top level %q is not above base level %q: %w",
				top.Name, base.Name, model.ErrInvalidArgument)
		}
		w.TopLevel = top.ID
		w.Height = top.Elevation - base.Elevation
		updated = *w
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// ActivateType marks a family type active. Activating an active type is a
// no-op but is still recorded as a call.
func (d *Document) ActivateType(id model.ElementID) error {
	return d.mutate("ActivateType", func(st *state) error {
		i := st.typeIndex(id)
		if i < 0 {
			return fmt.Errorf("memstore: ActivateType: type %s: %w", id.Short(), model.ErrNotFound)
		}
		st.types[i].Active = true
		return nil
	})
}

// CreateFamilyInstance places an instance of typ hosted on host.
func (d *Document) CreateFamilyInstance(point model.Point3D, typ, host, level model.ElementID, structural model.StructuralType) (*model.FamilyInstance, error) {
	var created model.FamilyInstance
	err := d.mutate("CreateFamilyInstance", func(st *state) error {
		ti := st.typeIndex(typ)
		if ti < 0 {
			return fmt.Errorf("memstore: CreateFamilyInstance: type %s: %w", typ.Short(), model.ErrNotFound)
		}
		if !st.types[ti].Active {
			return fmt.Errorf("memstore: CreateFamilyInstance: %s: %w", st.types[ti], model.ErrInactiveType)
		}
		wi := st.wallIndex(host)
		if wi < 0 {
			return fmt.Errorf("memstore: CreateFamilyInstance: host wall %s: %w", host.Short(), model.ErrNotFound)
		}
		if st.levelIndex(level) < 0 {
			return fmt.Errorf("memstore: CreateFamilyInstance: level %s: %w", level.Short(), model.ErrNotFound)
		}
		w := st.walls[wi]
		if dist := w.Location.PlanDistance(point); dist > w.Thickness/2+model.Tolerance {
			return fmt.Errorf("memstore: CreateFamilyInstance: point %s is %.4f off host wall %s: %w",
				point, dist, host.Short(), model.ErrInvalidArgument)
		}
		created = model.FamilyInstance{
			ID:         d.newID(),
			Type:       typ,
			Host:       host,
			Level:      level,
			Point:      point,
			Structural: structural,
		}
		st.instances = append(st.instances, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// CreateWorkingPlane creates a working plane through origin. normal and up
// must be non-zero and perpendicular; both are stored normalized.
func (d *Document) CreateWorkingPlane(origin model.Point3D, normal, up model.Vec3) (*model.Plane, error) {
	var created model.Plane
	err := d.mutate("CreateWorkingPlane", func(st *state) error {
		if normal.IsZero() || up.IsZero() {
			return fmt.Errorf("memstore: CreateWorkingPlane: zero direction: %w", model.ErrInvalidArgument)
		}
		n, u := normal.Normalize(), up.Normalize()
		if dot := n.Dot(u); dot > 1e-9 || dot < -1e-9 {
			return fmt.Errorf("memstore: CreateWorkingPlane: normal and up are not perpendicular: %w", model.ErrInvalidArgument)
		}
		created = model.Plane{ID: d.newID(), Origin: origin, Normal: n, Up: u}
		st.planes = append(st.planes, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// CreateExtrusionRoof extrudes footprint, projected into plane, along the
// plane normal from start to start+depth. A profile the geometry engine
// cannot build yields a *model.GeometryError.
func (d *Document) CreateExtrusionRoof(footprint model.RoofFootprint, plane, level, roofType model.ElementID, start, depth float64) (*model.Roof, error) {
	var created model.Roof
	err := d.mutate("CreateExtrusionRoof", func(st *state) error {
		pi := st.planeIndex(plane)
		if pi < 0 {
			return fmt.Errorf("memstore: CreateExtrusionRoof: plane %s: %w", plane.Short(), model.ErrNotFound)
		}
		if st.levelIndex(level) < 0 {
			return fmt.Errorf("memstore: CreateExtrusionRoof: level %s: %w", level.Short(), model.ErrNotFound)
		}
		ri := st.roofTypeIndex(roofType)
		if ri < 0 {
			return fmt.Errorf("memstore: CreateExtrusionRoof: roof type %s: %w", roofType.Short(), model.ErrNotFound)
		}
		pl := st.planes[pi]
		rt := st.roofTypes[ri]

		profile, err := projectProfile(footprint, pl)
		if err != nil {
			return err
		}
		if depth <= model.Tolerance {
			return geometryErr("extrusion depth %.6f must be positive", depth)
		}
		if d.kernel != nil {
			slab := kernel.ThickenPolyline(profile, rt.Thickness)
			if _, err := d.kernel.Extrude(slab, depth); err != nil {
				return geometryErr("%v", err)
			}
		}

		created = model.Roof{
			ID:        d.newID(),
			Type:      rt.ID,
			Level:     level,
			Plane:     pl,
			Footprint: append(model.RoofFootprint(nil), footprint...),
			Start:     start,
			Depth:     depth,
			Thickness: rt.Thickness,
		}
		st.roofs = append(st.roofs, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// ---------------------------------------------------------------------------
// Committed-state accessors
// ---------------------------------------------------------------------------

// Levels returns the committed levels in document order.
func (d *Document) Levels() []model.Level {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]model.Level(nil), d.state.levels...)
}

// Walls returns the committed walls in creation order.
func (d *Document) Walls() []model.Wall {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]model.Wall(nil), d.state.walls...)
}

// FamilyTypes returns the committed catalog types.
func (d *Document) FamilyTypes() []model.FamilyType {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]model.FamilyType(nil), d.state.types...)
}

// Instances returns the committed family instances in creation order.
func (d *Document) Instances() []model.FamilyInstance {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]model.FamilyInstance(nil), d.state.instances...)
}

// Planes returns the committed working planes.
func (d *Document) Planes() []model.Plane {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]model.Plane(nil), d.state.planes...)
}

// Roofs returns the committed roofs.
func (d *Document) Roofs() []model.Roof {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]model.Roof, len(d.state.roofs))
	for i, r := range d.state.roofs {
		out[i] = cloneRoof(r)
	}
	return out
}
