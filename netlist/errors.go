// Package netlist reads the textual protobuf-style netlist format into a
// *model.Graph.
package netlist

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyNetlist is returned when the input has no node records at all.
	ErrEmptyNetlist = errors.New("netlist: empty input")

	// ErrMissingAttr is returned when a node is missing an attribute its
	// type requires (e.g. a MACRO node with no orientation).
	ErrMissingAttr = errors.New("netlist: missing required attribute")

	// ErrUnknownPin is returned when an `input` line names a driver that
	// is not a declared node. A pin whose macro_name does not resolve to a
	// declared macro fails with a ParseError wrapping
	// model.ErrUnknownModule instead.
	ErrUnknownPin = errors.New("netlist: pin references unknown macro")

	// ErrUnknownType is returned for a node whose "type" attribute is not
	// one of the five recognized values.
	ErrUnknownType = errors.New("netlist: unrecognized node type")

	// ErrSyntax is returned for malformed node-record text.
	ErrSyntax = errors.New("netlist: syntax error")
)

// ParseError wraps a sentinel error with the 1-based line number and node
// name (if known) where it occurred.
type ParseError struct {
	Line int
	Node string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("netlist: line %d: node %s: %s", e.Line, e.Node, e.Err)
	}
	return fmt.Sprintf("netlist: line %d: %s", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
