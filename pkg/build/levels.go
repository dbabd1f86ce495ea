package build

import (
	"errors"

	"github.com/chazu/housewright/pkg/model"
)

// LevelPair holds the two levels a building spans. A nil level was not
// found in the document.
type LevelPair struct {
	Base *model.Level
	Top  *model.Level

	baseName, topName string
}

// ResolveLevels looks up the base and top levels by exact name. It never
// fails; check Missing or Err before using the pair.
func ResolveLevels(store model.Store, baseName, topName string) LevelPair {
	found := store.FindLevelsByName(baseName, topName)
	return LevelPair{
		Base:     found[baseName],
		Top:      found[topName],
		baseName: baseName,
		topName:  topName,
	}
}

// Missing returns the names that did not resolve, base first.
func (p LevelPair) Missing() []string {
	var missing []string
	if p.Base == nil {
		missing = append(missing, p.baseName)
	}
	if p.Top == nil {
		missing = append(missing, p.topName)
	}
	return missing
}

// Err returns one *model.PreconditionError per missing level, joined, or
// nil when both levels resolved.
func (p LevelPair) Err() error {
	var errs []error
	for _, name := range p.Missing() {
		errs = append(errs, &model.PreconditionError{What: "level", Name: name, Err: model.ErrMissingLevel})
	}
	return errors.Join(errs...)
}
