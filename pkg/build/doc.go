// Package build generates a simple building in an open model document.
//
// A run resolves two named levels, builds a closed rectangular loop of four
// walls between them, hosts a door on the front wall and a window on each of
// the other three, and caps the loop with a gable extrusion roof.
//
// The package only talks to the document through model.Store and
// model.Transactor. Every step runs in its own mutation scope:
//
//	Create walls   four walls, each bound base → top
//	Create door    door type activation + instance on Front
//	Create window  window type activation + instance, once per wall
//	Create roof    working plane + extrusion roof
//
// Levels and catalog types are resolved before the first scope opens, so a
// missing one produces a *model.PreconditionError and no mutations at all.
// A roof the geometry engine rejects is reported in the Report rather than
// returned as an error.
package build
