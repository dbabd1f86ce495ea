package model

import (
	"errors"
	"fmt"
)

var (
	ErrMissingLevel      = errors.New("level not found")
	ErrMissingFamilyType = errors.New("family type not found")
	ErrMissingRoofType   = errors.New("no default roof type")
	ErrInvalidPlan       = errors.New("invalid plan")
	ErrGeometry          = errors.New("geometry rejected")
	ErrScopeOpen         = errors.New("a mutation scope is already open")
	ErrNoScope           = errors.New("mutation outside a mutation scope")
	ErrNotFound          = errors.New("element not found")
	ErrInactiveType      = errors.New("family type is not active")
	ErrInvalidArgument   = errors.New("invalid argument")
)

// PreconditionError reports an input the generator needs before it may open
// any mutation scope: a missing level, catalog type or roof type.
type PreconditionError struct {
	What string // "level", "door type", ...
	Name string // the name that was looked up
	Err  error  // one of the ErrMissing* sentinels
}

func (e *PreconditionError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("precondition failed: %s: %v", e.What, e.Err)
	}
	return fmt.Sprintf("precondition failed: %s %q: %v", e.What, e.Name, e.Err)
}

func (e *PreconditionError) Unwrap() error {
	return e.Err
}

// GeometryError is returned by the geometry engine when it rejects a
// profile or shape.
type GeometryError struct {
	Op     string
	Reason string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

func (e *GeometryError) Unwrap() error {
	return ErrGeometry
}

// IsPrecondition reports whether err is or wraps a *PreconditionError.
func IsPrecondition(err error) bool {
	var pe *PreconditionError
	return errors.As(err, &pe)
}
