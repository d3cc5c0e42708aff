// Package args defines the call-site data model the reorder engine works on:
// formal and actual parameters, formal/actual pairings, and immutable
// invocation snapshots. The model is purely syntactic; extractors in
// internal/callsites populate it and never hand the engine partial data.
package args

import (
	"swaplint/internal/source"
)

// Kind classifies the surface syntax of a parameter.
type Kind uint8

const (
	// KindOther covers expressions with no usable name (calls, arithmetic,
	// constructor invocations).
	KindOther Kind = iota
	// KindIdentifier is a bare name.
	KindIdentifier
	// KindMemberSelect is a qualified access such as Color.RED or obj.field.
	KindMemberSelect
	// KindLiteral is a literal constant (number, string, char, bool, null).
	KindLiteral
)

func (k Kind) String() string {
	switch k {
	case KindIdentifier:
		return "identifier"
	case KindMemberSelect:
		return "member-select"
	case KindLiteral:
		return "literal"
	default:
		return "other"
	}
}

// Parameter describes one formal or actual parameter of a call. Values are
// plain data: the engine never mutates them and copies of an Invocation may
// be shared across goroutines.
//
// For formals, Text mirrors Name and Span is empty (a declared parameter has
// no location inside the call being analyzed). For actuals, Text holds the
// exact source text of the argument expression and Name holds the derived
// name used by distance functions (identifier text, the final segment of a
// member select, or "" when no name applies).
type Parameter struct {
	Index    int
	Name     string
	Text     string
	Span     source.Span
	Kind     Kind
	Constant bool
	Enum     bool
	Type     string
}

// Named reports whether the parameter carries a usable name.
func (p Parameter) Named() bool {
	return p.Name != ""
}

// Pair is a transient pairing of a formal with a candidate actual, the unit
// a distance function scores.
type Pair struct {
	Formal Parameter
	Actual Parameter
}
