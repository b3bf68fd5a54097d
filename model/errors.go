// Package model defines the entity graph for a chip placement: ports, hard
// and soft macros, and their pins, plus the connectivity and dirty-flag
// bookkeeping every downstream cost engine reads from.
package model

import "errors"

// Sentinel errors for model operations, checked with errors.Is. Positional
// context (which index, which name) is attached with fmt.Errorf("...: %w").
var (
	// ErrIndexOutOfRange indicates a module index outside [0, len(modules)).
	ErrIndexOutOfRange = errors.New("model: index out of range")

	// ErrUnknownModule indicates a module name with no registered index.
	ErrUnknownModule = errors.New("model: unknown module name")

	// ErrTypeMismatch indicates an operation was applied to a module Kind
	// that does not support it (e.g. SetOrientation on a Port).
	ErrTypeMismatch = errors.New("model: type mismatch")

	// ErrDuplicateName indicates a module name was registered twice.
	ErrDuplicateName = errors.New("model: duplicate module name")

	// ErrFixedNode indicates a mutation was attempted on a fixed module.
	// This is a recoverable no-op, not a hard failure: callers
	// that want to observe it check errors.Is(err, ErrFixedNode).
	ErrFixedNode = errors.New("model: node is fixed")
)
