package build

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/chazu/housewright/pkg/kernel/sdfx"
	"github.com/chazu/housewright/pkg/model"
	"github.com/chazu/housewright/pkg/store/memstore"
	"github.com/chazu/housewright/pkg/units"
	"github.com/google/go-cmp/cmp"
)

func newGenerator(d *memstore.Document, store model.Store) (*Generator, *bytes.Buffer) {
	var buf bytes.Buffer
	if store == nil {
		store = d
	}
	return &Generator{
		Store:  store,
		Tx:     d,
		Logger: slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})),
	}, &buf
}

func scopeLabels(d *memstore.Document) []string {
	var labels []string
	for _, s := range d.Scopes() {
		labels = append(labels, s.Label+"/"+s.Outcome.String())
	}
	return labels
}

func TestRunScenario(t *testing.T) {
	d := newDocument(t, memstore.WithKernel(sdfx.New()))
	g, logs := newGenerator(d, nil)

	report, err := g.Run(testPlan())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Status() != StatusComplete {
		t.Errorf("status = %s, want complete; roof failure: %v", report.Status(), report.Roof.Failure)
	}

	hx, hy := units.MM(10000)/2, units.MM(5000)/2
	wantEnds := []model.Segment{
		model.Seg(model.Pt(-hx, -hy, 0), model.Pt(hx, -hy, 0)),
		model.Seg(model.Pt(hx, -hy, 0), model.Pt(hx, hy, 0)),
		model.Seg(model.Pt(hx, hy, 0), model.Pt(-hx, hy, 0)),
		model.Seg(model.Pt(-hx, hy, 0), model.Pt(-hx, -hy, 0)),
	}
	walls := d.Walls()
	var gotEnds []model.Segment
	for _, w := range walls {
		gotEnds = append(gotEnds, w.Location)
		if w.TopLevel != report.Levels.Top.ID {
			t.Errorf("wall %s top level = %s, want L2", w.ID, w.TopLevel)
		}
		if diff := cmp.Diff(units.MM(3000), w.Height, approx); diff != "" {
			t.Errorf("wall %s height mismatch (-want +got):\n%s", w.ID, diff)
		}
	}
	if diff := cmp.Diff(wantEnds, gotEnds, approx); diff != "" {
		t.Errorf("wall centerlines mismatch (-want +got):\n%s", diff)
	}

	// One door on the front wall, one window on each other wall.
	hosts := map[model.ElementID]int{}
	for _, inst := range d.Instances() {
		hosts[inst.Host]++
		if inst.Level != report.Levels.Base.ID {
			t.Errorf("instance %s on level %s, want base level", inst.ID, inst.Level)
		}
		if inst.Structural != model.NonStructural {
			t.Errorf("instance %s is %s", inst.ID, inst.Structural)
		}
	}
	for i, w := range walls {
		if hosts[w.ID] != 1 {
			t.Errorf("wall %d hosts %d openings, want 1", i, hosts[w.ID])
		}
	}
	if report.Door.Host != walls[0].ID {
		t.Errorf("door hosted on %s, want front wall %s", report.Door.Host, walls[0].ID)
	}
	if diff := cmp.Diff(DoorPoint(&walls[0]), report.Door.Point, approx); diff != "" {
		t.Errorf("door point mismatch (-want +got):\n%s", diff)
	}
	for i, edge := range []EdgeIndex{Right, Back, Left} {
		win := report.Windows[i]
		if win.Host != walls[edge].ID {
			t.Errorf("window %d hosted on %s, want %s wall", i, win.Host, edge)
		}
		if diff := cmp.Diff(WindowPoint(&walls[edge], DefaultSillOffset), win.Point, approx); diff != "" {
			t.Errorf("%s window point mismatch (-want +got):\n%s", edge, diff)
		}
	}

	wantScopes := []string{
		"Create walls/committed",
		"Create door/committed",
		"Create window/committed",
		"Create window/committed",
		"Create window/committed",
		"Create roof/committed",
	}
	if diff := cmp.Diff(wantScopes, scopeLabels(d)); diff != "" {
		t.Errorf("scopes mismatch (-want +got):\n%s", diff)
	}

	roofs := d.Roofs()
	if len(roofs) != 1 {
		t.Fatalf("document has %d roofs, want 1", len(roofs))
	}
	roof := roofs[0]
	if roof.Level != report.Levels.Top.ID {
		t.Errorf("roof on level %s, want top level", roof.Level)
	}
	if diff := cmp.Diff(-hx, roof.Start, approx); diff != "" {
		t.Errorf("roof start mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(units.MM(5000), roof.Depth, approx); diff != "" {
		t.Errorf("roof depth mismatch (-want +got):\n%s", diff)
	}
	if len(roof.Footprint) != 2 {
		t.Errorf("roof footprint has %d segments, want 2", len(roof.Footprint))
	}
	if diff := cmp.Diff(units.MM(10000), report.Roof.MaxWallLength, approx); diff != "" {
		t.Errorf("max wall length mismatch (-want +got):\n%s", diff)
	}

	if !strings.Contains(logs.String(), "max wall length") {
		t.Errorf("max wall length not logged:\n%s", logs)
	}
}

func TestRunActivatesEachTypeOnce(t *testing.T) {
	d := newDocument(t)
	g, _ := newGenerator(d, nil)
	if _, err := g.Run(testPlan()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var activations []string
	for _, c := range d.Calls() {
		if c.Op == "ActivateType" {
			activations = append(activations, c.Scope)
		}
	}
	if diff := cmp.Diff([]string{ScopeDoor, ScopeWindow}, activations); diff != "" {
		t.Errorf("activations mismatch (-want +got):\n%s", diff)
	}
	for _, ft := range d.FamilyTypes() {
		if !ft.Active {
			t.Errorf("%s is not active", ft)
		}
	}
}

func TestRunMissingLevel(t *testing.T) {
	tests := []struct {
		name        string
		base, top   string
		wantMissing []string
	}{
		{"base", "Ground", "L2", []string{"Ground"}},
		{"top", "L1", "Roof", []string{"Roof"}},
		{"both", "Ground", "Roof", []string{"Ground", "Roof"}},
		{"case differs", "l1", "L2", []string{"l1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDocument(t)
			g, _ := newGenerator(d, nil)
			plan := testPlan()
			plan.BaseLevel, plan.TopLevel = tt.base, tt.top

			report, err := g.Run(plan)
			if report != nil {
				t.Errorf("report = %+v, want nil", report)
			}
			if !model.IsPrecondition(err) || !errors.Is(err, model.ErrMissingLevel) {
				t.Fatalf("err = %v, want missing level precondition", err)
			}
			for _, name := range tt.wantMissing {
				if !strings.Contains(err.Error(), name) {
					t.Errorf("error %q does not name %q", err, name)
				}
			}
			if calls := d.Calls(); len(calls) != 0 {
				t.Errorf("mutation calls recorded: %+v", calls)
			}
			if scopes := d.Scopes(); len(scopes) != 0 {
				t.Errorf("scopes opened: %+v", scopes)
			}
		})
	}
}

func TestRunMissingCatalogEntry(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Plan)
		noRoof  bool
		wantErr error
	}{
		{"door", func(p *Plan) { p.Door.Type = "0762 x 2032mm" }, false, model.ErrMissingFamilyType},
		{"door family", func(p *Plan) { p.Door.Family = "Double-Glass" }, false, model.ErrMissingFamilyType},
		{"window", func(p *Plan) { p.Window.Family = "Casement" }, false, model.ErrMissingFamilyType},
		{"roof type", func(p *Plan) {}, true, model.ErrMissingRoofType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := memstore.New()
			d.AddLevel("L1", 0)
			d.AddLevel("L2", 10)
			plan := testPlan()
			d.AddFamilyType(model.CategoryDoors, plan.Door.Family, plan.Door.Type)
			d.AddFamilyType(model.CategoryWindows, plan.Window.Family, plan.Window.Type)
			if !tt.noRoof {
				d.AddRoofType("Generic", 1, true)
			}
			tt.mutate(plan)

			g, _ := newGenerator(d, nil)
			_, err := g.Run(plan)
			if !model.IsPrecondition(err) || !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want precondition wrapping %v", err, tt.wantErr)
			}
			if calls := d.Calls(); len(calls) != 0 {
				t.Errorf("mutation calls recorded: %+v", calls)
			}
		})
	}
}

func TestRunInvalidPlan(t *testing.T) {
	d := newDocument(t)
	g, _ := newGenerator(d, nil)
	plan := testPlan()
	plan.Width = -1
	if _, err := g.Run(plan); !errors.Is(err, model.ErrInvalidPlan) {
		t.Fatalf("err = %v, want ErrInvalidPlan", err)
	}
	if calls := d.Calls(); len(calls) != 0 {
		t.Errorf("mutation calls recorded: %+v", calls)
	}
}

// foldingRoofStore hands the store a footprint whose second segment runs
// back along the first, which the geometry engine rejects.
type foldingRoofStore struct {
	*memstore.Document
}

func (s foldingRoofStore) CreateExtrusionRoof(fp model.RoofFootprint, plane, level, roofType model.ElementID, start, depth float64) (*model.Roof, error) {
	folded := model.RoofFootprint{fp[0], model.Seg(fp[0].End, fp[0].Start.Mid(fp[0].End))}
	return s.Document.CreateExtrusionRoof(folded, plane, level, roofType, start, depth)
}

func TestRunRoofRejected(t *testing.T) {
	d := newDocument(t, memstore.WithKernel(sdfx.New()))
	g, logs := newGenerator(d, foldingRoofStore{d})

	report, err := g.Run(testPlan())
	if err != nil {
		t.Fatalf("Run returned %v, want the failure in the report", err)
	}
	if report.Status() != StatusPartial {
		t.Errorf("status = %s, want partial", report.Status())
	}
	if !errors.Is(report.Roof.Failure, model.ErrGeometry) {
		t.Errorf("roof failure = %v, want geometry error", report.Roof.Failure)
	}
	if report.Roof.Roof != nil {
		t.Errorf("roof = %+v, want nil", report.Roof.Roof)
	}

	if n := len(d.Walls()); n != 4 {
		t.Errorf("%d walls committed, want 4", n)
	}
	if n := len(d.Instances()); n != 4 {
		t.Errorf("%d openings committed, want 4", n)
	}
	if n := len(d.Roofs()); n != 0 {
		t.Errorf("%d roofs committed, want 0", n)
	}
	if n := len(d.Planes()); n != 1 {
		t.Errorf("%d working planes committed, want 1", n)
	}
	last := d.Scopes()[len(d.Scopes())-1]
	if last.Label != ScopeRoof || last.Outcome != memstore.Committed {
		t.Errorf("last scope = %+v, want committed roof scope", last)
	}
	if !strings.Contains(logs.String(), "roof rejected") {
		t.Errorf("roof rejection not logged:\n%s", logs)
	}
	if !strings.Contains(report.Summary(), "roof failed") {
		t.Errorf("summary does not report the roof failure:\n%s", report.Summary())
	}
}

// brokenHostStore refuses every family instance.
type brokenHostStore struct {
	*memstore.Document
}

var errHost = errors.New("host wall is locked")

func (s brokenHostStore) CreateFamilyInstance(model.Point3D, model.ElementID, model.ElementID, model.ElementID, model.StructuralType) (*model.FamilyInstance, error) {
	return nil, errHost
}

func TestRunStoreErrorPropagates(t *testing.T) {
	d := newDocument(t)
	g, _ := newGenerator(d, brokenHostStore{d})

	report, err := g.Run(testPlan())
	if !errors.Is(err, errHost) {
		t.Fatalf("err = %v, want %v", err, errHost)
	}
	if model.IsPrecondition(err) {
		t.Errorf("store error reported as precondition: %v", err)
	}
	if report == nil || report.Walls.Front == nil {
		t.Fatalf("report = %+v, want committed walls", report)
	}
	if n := len(d.Walls()); n != 4 {
		t.Errorf("%d walls committed, want 4", n)
	}

	// The activation shares the door scope and is rolled back with it.
	door, _ := d.FindFamilyType(model.CategoryDoors, report.Plan.Door.Type, report.Plan.Door.Family)
	if door.Active {
		t.Error("door type activation survived the rolled-back scope")
	}
	wantScopes := []string{"Create walls/committed", "Create door/rolled back"}
	if diff := cmp.Diff(wantScopes, scopeLabels(d)); diff != "" {
		t.Errorf("scopes mismatch (-want +got):\n%s", diff)
	}
}

func TestRunNilPlanUsesDefaults(t *testing.T) {
	d := memstore.New()
	d.AddLevel(DefaultBaseLevel, 0)
	d.AddLevel(DefaultTopLevel, units.MM(3000))
	plan := DefaultPlan()
	d.AddFamilyType(model.CategoryDoors, plan.Door.Family, plan.Door.Type)
	d.AddFamilyType(model.CategoryWindows, plan.Window.Family, plan.Window.Type)
	d.AddRoofType("Generic", units.MM(300), false)

	g, _ := newGenerator(d, nil)
	report, err := g.Run(nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Status() != StatusComplete {
		t.Errorf("status = %s, want complete", report.Status())
	}
	if report.Plan.Width != DefaultWidth {
		t.Errorf("plan width = %g, want %g", report.Plan.Width, DefaultWidth)
	}
}
