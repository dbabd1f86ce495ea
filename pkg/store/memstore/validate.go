package memstore

import (
	"fmt"

	"github.com/chazu/housewright/pkg/model"
)

// Severity indicates whether a fixture finding blocks loading or is merely
// informational.
type Severity int

const (
	SeverityError   Severity = iota // blocks loading
	SeverityWarning                 // informational
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Finding describes a single fixture validation finding.
type Finding struct {
	Path     string // e.g. "levels[1]"
	Message  string
	Severity Severity
}

func (f Finding) Error() string {
	if f.Path == "" {
		return fmt.Sprintf("[%s] %s", f.Severity, f.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", f.Severity, f.Path, f.Message)
}

// ValidationResult separates blocking findings from advisory ones.
type ValidationResult struct {
	Errors   []Finding
	Warnings []Finding
}

func (r *ValidationResult) add(f Finding) {
	if f.Severity == SeverityWarning {
		r.Warnings = append(r.Warnings, f)
		return
	}
	r.Errors = append(r.Errors, f)
}

// Validate checks the fixture. It is read-only.
//
// Duplicate level names and duplicate catalog entries are warnings: lookups
// take the first match, so a duplicate is ambiguous rather than broken.
func (f *Fixture) Validate() ValidationResult {
	var r ValidationResult
	if _, err := f.unit(); err != nil {
		r.add(Finding{Path: "units", Message: err.Error(), Severity: SeverityError})
	}
	if f.WallThickness < 0 {
		r.add(Finding{Path: "wall_thickness", Message: "must not be negative", Severity: SeverityError})
	}
	validateLevels(f, &r)
	validateFamilies(f, &r)
	validateRoofTypes(f, &r)
	return r
}

func validateLevels(f *Fixture, r *ValidationResult) {
	seen := make(map[string]int)
	for i, l := range f.Levels {
		path := fmt.Sprintf("levels[%d]", i)
		if l.Name == "" {
			r.add(Finding{Path: path, Message: "level has no name", Severity: SeverityError})
			continue
		}
		if first, dup := seen[l.Name]; dup {
			r.add(Finding{
				Path:     path,
				Message:  fmt.Sprintf("level name %q duplicates levels[%d]; lookups use the first", l.Name, first),
				Severity: SeverityWarning,
			})
			continue
		}
		seen[l.Name] = i
	}
}

type familyKey struct {
	category     model.Category
	family, name string
}

func validateFamilies(f *Fixture, r *ValidationResult) {
	seen := make(map[familyKey]int)
	for i, ft := range f.FamilyTypes {
		path := fmt.Sprintf("family_types[%d]", i)
		cat, err := model.ParseCategory(ft.Category)
		if err != nil {
			r.add(Finding{Path: path, Message: err.Error(), Severity: SeverityError})
			continue
		}
		if ft.Family == "" || ft.Name == "" {
			r.add(Finding{Path: path, Message: "family and name are both required", Severity: SeverityError})
			continue
		}
		key := familyKey{cat, ft.Family, ft.Name}
		if first, dup := seen[key]; dup {
			r.add(Finding{
				Path:     path,
				Message:  fmt.Sprintf("%s %q / %q duplicates family_types[%d]; lookups use the first", cat, ft.Family, ft.Name, first),
				Severity: SeverityWarning,
			})
			continue
		}
		seen[key] = i
	}
}

func validateRoofTypes(f *Fixture, r *ValidationResult) {
	defaults := 0
	for i, rt := range f.RoofTypes {
		path := fmt.Sprintf("roof_types[%d]", i)
		if rt.Name == "" {
			r.add(Finding{Path: path, Message: "roof type has no name", Severity: SeverityError})
		}
		if rt.Thickness <= 0 {
			r.add(Finding{Path: path, Message: fmt.Sprintf("thickness is %.4f, must be positive", rt.Thickness), Severity: SeverityError})
		}
		if rt.Default {
			defaults++
		}
	}
	if defaults > 1 {
		r.add(Finding{Path: "roof_types", Message: fmt.Sprintf("%d roof types marked default, at most one allowed", defaults), Severity: SeverityError})
	}
}
