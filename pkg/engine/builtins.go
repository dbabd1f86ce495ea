package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/chazu/housewright/pkg/build"
	"github.com/chazu/housewright/pkg/units"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms plan Lisp source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: roof-depth -> roof_depth
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpOpening wraps a build.OpeningSpec so it can be returned from `family`
// and consumed by `house`.
type sexpOpening struct {
	spec build.OpeningSpec
}

func (o *sexpOpening) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(family %q %q)", o.spec.Family, o.spec.Type)
}
func (o *sexpOpening) Type() *zygo.RegisteredType { return nil }

// sexpPlan is the value of a `house` form.
type sexpPlan struct {
	plan *build.Plan
}

func (p *sexpPlan) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(house :width %g :depth %g :unit :%s)", p.plan.Width, p.plan.Depth, p.plan.Unit)
}
func (p *sexpPlan) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_z) and plain strings ("z").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toUnit converts a keyword or string to a units.Unit.
func toUnit(s zygo.Sexp) (units.Unit, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, fmt.Errorf("expected unit keyword (:mm, :m, :ft, ...): %w", err)
	}
	return units.Parse(name)
}

// toOpening extracts an OpeningSpec from a sexpOpening or from a two-string
// list of family and type names.
func toOpening(s zygo.Sexp) (build.OpeningSpec, error) {
	if o, ok := s.(*sexpOpening); ok {
		return o.spec, nil
	}
	items, err := sexpListToSlice(s)
	if err != nil || len(items) != 2 {
		return build.OpeningSpec{}, fmt.Errorf("expected (family ...) or a family/type pair, got %T (%s)", s, s.SexpString(nil))
	}
	f, err := toString(items[0])
	if err != nil {
		return build.OpeningSpec{}, fmt.Errorf("family name: %w", err)
	}
	t, err := toString(items[1])
	if err != nil {
		return build.OpeningSpec{}, fmt.Errorf("type name: %w", err)
	}
	return build.OpeningSpec{Family: f, Type: t}, nil
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// planBuilder collects the plan declared by a script.
type planBuilder struct {
	plan    *build.Plan
	defined bool
}

// houseOptions maps each `house` keyword to the plan field it sets.
var houseOptions = map[string]func(p *build.Plan, v zygo.Sexp) error{
	"width":       floatOption(func(p *build.Plan) *float64 { return &p.Width }),
	"depth":       floatOption(func(p *build.Plan) *float64 { return &p.Depth }),
	"roof-depth":  floatOption(func(p *build.Plan) *float64 { return &p.RoofDepth }),
	"sill-offset": floatOption(func(p *build.Plan) *float64 { return &p.SillOffset }),
	"ridge-rise":  floatOption(func(p *build.Plan) *float64 { return &p.RidgeRise }),
	"base-level":  stringOption(func(p *build.Plan) *string { return &p.BaseLevel }),
	"top-level":   stringOption(func(p *build.Plan) *string { return &p.TopLevel }),
	"door":        openingOption(func(p *build.Plan) *build.OpeningSpec { return &p.Door }),
	"window":      openingOption(func(p *build.Plan) *build.OpeningSpec { return &p.Window }),
	"unit": func(p *build.Plan, v zygo.Sexp) error {
		u, err := toUnit(v)
		if err != nil {
			return err
		}
		p.Unit = u
		return nil
	},
}

func floatOption(field func(*build.Plan) *float64) func(*build.Plan, zygo.Sexp) error {
	return func(p *build.Plan, v zygo.Sexp) error {
		f, err := toFloat64(v)
		if err != nil {
			return err
		}
		*field(p) = f
		return nil
	}
}

func stringOption(field func(*build.Plan) *string) func(*build.Plan, zygo.Sexp) error {
	return func(p *build.Plan, v zygo.Sexp) error {
		s, err := toString(v)
		if err != nil {
			return err
		}
		*field(p) = s
		return nil
	}
}

func openingOption(field func(*build.Plan) *build.OpeningSpec) func(*build.Plan, zygo.Sexp) error {
	return func(p *build.Plan, v zygo.Sexp) error {
		o, err := toOpening(v)
		if err != nil {
			return err
		}
		*field(p) = o
		return nil
	}
}

// registerBuiltins installs the plan builtins into a zygomys environment.
// `house` records its plan in pb.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, pb *planBuilder) {

	// -----------------------------------------------------------------------
	// (family "Single-Flush" "0915 x 2134mm")
	// (family :family "Fixed" :type "0610 x 1220mm")
	// -----------------------------------------------------------------------
	env.AddFunction("family", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var spec build.OpeningSpec

		if len(pa.positional) == 2 {
			f, err := toString(pa.positional[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("family: family name: %w", err)
			}
			t, err := toString(pa.positional[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("family: type name: %w", err)
			}
			spec = build.OpeningSpec{Family: f, Type: t}
		} else if len(pa.positional) != 0 {
			return zygo.SexpNull, fmt.Errorf("family takes a family and a type name, got %d arguments", len(pa.positional))
		}
		if v, ok := pa.kw["family"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("family: family: %w", err)
			}
			spec.Family = s
		}
		if v, ok := pa.kw["type"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("family: type: %w", err)
			}
			spec.Type = s
		}
		if spec.Family == "" || spec.Type == "" {
			return zygo.SexpNull, fmt.Errorf("family requires both a family and a type name")
		}

		return &sexpOpening{spec: spec}, nil
	})

	// -----------------------------------------------------------------------
	// (convert 3 :m :mm)
	// -----------------------------------------------------------------------
	env.AddFunction("convert", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("convert requires a value, a source unit and a target unit")
		}
		v, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("convert: value: %w", err)
		}
		from, err := toUnit(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("convert: from: %w", err)
		}
		to, err := toUnit(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("convert: to: %w", err)
		}
		return &zygo.SexpFloat{Val: units.Convert(v, from, to)}, nil
	})

	// -----------------------------------------------------------------------
	// (house :width 10000 :depth 5000 :unit :mm
	//        :base-level "Level 1" :top-level "Level 2"
	//        :door (family "Single-Flush" "0915 x 2134mm")
	//        :window (family "Fixed" "0610 x 1220mm")
	//        :roof-depth 5000 :ridge-rise 5 :sill-offset 0.5)
	//
	// Omitted options keep their default values.
	// -----------------------------------------------------------------------
	env.AddFunction("house", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if pb.defined {
			return zygo.SexpNull, fmt.Errorf("house: a script may declare only one house")
		}
		pa := parseArgs(args)
		if len(pa.positional) > 0 {
			return zygo.SexpNull, fmt.Errorf("house takes keyword options only, got %d positional arguments", len(pa.positional))
		}

		plan := build.DefaultPlan()
		// Apply options in a fixed order so error messages are stable.
		keys := make([]string, 0, len(pa.kw))
		for k := range pa.kw {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			set, ok := houseOptions[k]
			if !ok {
				return zygo.SexpNull, fmt.Errorf("house: unknown option :%s", k)
			}
			if err := set(plan, pa.kw[k]); err != nil {
				return zygo.SexpNull, fmt.Errorf("house: %s: %w", k, err)
			}
		}

		pb.plan = plan
		pb.defined = true
		return &sexpPlan{plan: plan}, nil
	})
}
