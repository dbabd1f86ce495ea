package memstore

import (
	"fmt"

	"github.com/chazu/housewright/pkg/model"
)

type state struct {
	levels          []model.Level
	walls           []model.Wall
	types           []model.FamilyType
	instances       []model.FamilyInstance
	roofTypes       []model.RoofType
	planes          []model.Plane
	roofs           []model.Roof
	defaultRoofType model.ElementID
}

func (s state) clone() state {
	c := state{
		levels:          append([]model.Level(nil), s.levels...),
		walls:           append([]model.Wall(nil), s.walls...),
		types:           append([]model.FamilyType(nil), s.types...),
		instances:       append([]model.FamilyInstance(nil), s.instances...),
		roofTypes:       append([]model.RoofType(nil), s.roofTypes...),
		planes:          append([]model.Plane(nil), s.planes...),
		defaultRoofType: s.defaultRoofType,
	}
	if s.roofs != nil {
		c.roofs = make([]model.Roof, len(s.roofs))
		for i, r := range s.roofs {
			c.roofs[i] = cloneRoof(r)
		}
	}
	return c
}

func cloneRoof(r model.Roof) model.Roof {
	r.Footprint = append(model.RoofFootprint(nil), r.Footprint...)
	return r
}

func (s *state) levelIndex(id model.ElementID) int {
	for i := range s.levels {
		if s.levels[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *state) wallIndex(id model.ElementID) int {
	for i := range s.walls {
		if s.walls[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *state) typeIndex(id model.ElementID) int {
	for i := range s.types {
		if s.types[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *state) roofTypeIndex(id model.ElementID) int {
	if id.IsZero() {
		return -1
	}
	for i := range s.roofTypes {
		if s.roofTypes[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *state) planeIndex(id model.ElementID) int {
	for i := range s.planes {
		if s.planes[i].ID == id {
			return i
		}
	}
	return -1
}

// scope is an open mutation scope working on a private copy of the state.
type scope struct {
	label string
	state state
}

// Call records one attempted mutation.
type Call struct {
	Op     string // store method name
	Scope  string // label of the enclosing scope, empty if none was open
	Failed bool
}

// ScopeOutcome tells how a mutation scope ended.
type ScopeOutcome int

const (
	Committed ScopeOutcome = iota
	RolledBack
)

func (o ScopeOutcome) String() string {
	switch o {
	case Committed:
		return "committed"
	case RolledBack:
		return "rolled back"
	default:
		return fmt.Sprintf("ScopeOutcome(%d)", int(o))
	}
}

// ScopeRecord records one finished mutation scope.
type ScopeRecord struct {
	Label   string
	Outcome ScopeOutcome
}

// RunInMutationScope runs body with mutations enabled. If body returns an
// error or panics, every mutation it made is discarded. Scopes do not nest.
func (d *Document) RunInMutationScope(label string, body func() error) error {
	d.mu.Lock()
	if d.scope != nil {
		open := d.scope.label
		d.mu.Unlock()
		return fmt.Errorf("memstore: cannot open %q while %q is open: %w", label, open, model.ErrScopeOpen)
	}
	d.scope = &scope{label: label, state: d.state.clone()}
	d.mu.Unlock()

	committed := false
	defer func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		sc := d.scope
		d.scope = nil
		if committed {
			d.state = sc.state
			d.scopes = append(d.scopes, ScopeRecord{Label: label, Outcome: Committed})
			return
		}
		d.scopes = append(d.scopes, ScopeRecord{Label: label, Outcome: RolledBack})
	}()

	if err := body(); err != nil {
		return err
	}
	committed = true
	return nil
}

// mutate runs fn against the open scope's state and records the call.
func (d *Document) mutate(op string, fn func(st *state) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.scope == nil {
		d.calls = append(d.calls, Call{Op: op, Failed: true})
		return fmt.Errorf("memstore: %s: %w", op, model.ErrNoScope)
	}
	err := fn(&d.scope.state)
	d.calls = append(d.calls, Call{Op: op, Scope: d.scope.label, Failed: err != nil})
	return err
}

// Calls returns every mutation attempted against the document, including
// failed ones and ones inside rolled-back scopes.
func (d *Document) Calls() []Call {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Call(nil), d.calls...)
}

// Scopes returns every finished mutation scope in order.
func (d *Document) Scopes() []ScopeRecord {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]ScopeRecord(nil), d.scopes...)
}

// InScope reports whether a mutation scope is currently open.
func (d *Document) InScope() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.scope != nil
}
