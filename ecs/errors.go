package ecs

import "errors"

// Failures reported by entity, scene and system operations. None of them are
// fatal: the operation that reports one has no side effect.
var (
	ErrInvalidEntity      = errors.New("entity is not attached to a scene")
	ErrInvalidComponent   = errors.New("invalid component value")
	ErrDuplicateComponent = errors.New("component type already present on entity")
	ErrMissingComponent   = errors.New("component type not present on entity")
	ErrBorrowConflict     = errors.New("component is already borrowed")
	ErrTypeMismatch       = errors.New("component has unexpected concrete type")
	ErrInvalidSystem      = errors.New("invalid system value")
	ErrDuplicateSystem    = errors.New("system type already installed")
	ErrMissingSystem      = errors.New("system type not installed")
)
