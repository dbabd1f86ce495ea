package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/housewright/pkg/build"
	"github.com/chazu/housewright/pkg/engine"
	"github.com/chazu/housewright/pkg/kernel"
	"github.com/chazu/housewright/pkg/kernel/sdfx"
	"github.com/chazu/housewright/pkg/model"
	"github.com/chazu/housewright/pkg/store/memstore"
	"github.com/chazu/housewright/pkg/tessellate"
)

// colorPalette is a default palette used to assign distinct colors to parts.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App ties the plan engine, the generator and the mesh preview together.
type App struct {
	engine *engine.Engine
	kernel kernel.Kernel
	logger *slog.Logger
}

// MeshData is the JSON-serializable mesh format of the preview output.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable plan script error.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// Result is the full result of one generation.
type Result struct {
	Status  string          `json:"status"`
	Summary string          `json:"summary"`
	Meshes  []MeshData      `json:"meshes"`
	Errors  []EvalErrorData `json:"errors"`
}

// ScriptError carries the evaluation errors of a plan script.
type ScriptError struct {
	Errors []engine.EvalError
}

func (e *ScriptError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, ee := range e.Errors {
		msgs[i] = ee.Error()
	}
	return "plan script: " + strings.Join(msgs, "; ")
}

func (e *ScriptError) Unwrap() error {
	return model.ErrInvalidPlan
}

// NewApp creates a new App with an engine and the sdfx kernel.
func NewApp(logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		engine: engine.NewEngine(),
		kernel: sdfx.New(),
		logger: logger,
	}
}

// OpenDocument loads a YAML document fixture. Roof profiles are checked
// against the app's kernel.
func (a *App) OpenDocument(path string) (*memstore.Document, error) {
	f, err := memstore.LoadFixture(path)
	if err != nil {
		return nil, err
	}
	doc, warnings, err := f.Document(memstore.WithKernel(a.kernel))
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		a.logger.Warn("document", "path", w.Path, "finding", w.Message)
	}
	return doc, nil
}

// LoadPlan reads the plan at path. YAML files are decoded directly, anything
// else is evaluated as a plan script. An empty path yields the default plan.
func (a *App) LoadPlan(path string) (*build.Plan, error) {
	if path == "" {
		return build.DefaultPlan(), nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return build.LoadPlanYAML(path)
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	return a.EvaluatePlan(string(source))
}

// EvaluatePlan runs a plan script. Parse and evaluation errors come back as
// a *ScriptError.
func (a *App) EvaluatePlan(source string) (*build.Plan, error) {
	plan, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		return nil, fmt.Errorf("plan script: %w", err)
	}
	if len(evalErrs) > 0 {
		return nil, &ScriptError{Errors: evalErrs}
	}
	return plan, nil
}

// Generate builds plan into doc and tessellates the result for preview.
func (a *App) Generate(doc *memstore.Document, plan *build.Plan) (*Result, error) {
	// Step 1: run the generator against the document.
	gen := &build.Generator{Store: doc, Tx: doc, Logger: a.logger}
	report, err := gen.Run(plan)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Status:  string(report.Status()),
		Summary: report.Summary(),
		Meshes:  []MeshData{},
		Errors:  []EvalErrorData{},
	}

	// Step 2: tessellate what the document now holds.
	meshes, err := tessellate.Tessellate(doc, a.kernel)
	if err != nil {
		return nil, fmt.Errorf("tessellation failed: %w", err)
	}

	// Step 3: convert kernel meshes to the output format.
	for i, m := range meshes {
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			PartName: m.PartName,
			Color:    colorPalette[i%len(colorPalette)],
		})
	}
	return result, nil
}

// Evaluate runs a plan script end to end. Script errors are reported in the
// result as well as returned.
func (a *App) Evaluate(doc *memstore.Document, source string) (*Result, error) {
	plan, err := a.EvaluatePlan(source)
	if err != nil {
		result := &Result{Meshes: []MeshData{}, Errors: []EvalErrorData{}}
		var se *ScriptError
		if errors.As(err, &se) {
			for _, e := range se.Errors {
				result.Errors = append(result.Errors, EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message})
			}
		} else {
			result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		}
		return result, err
	}
	return a.Generate(doc, plan)
}
