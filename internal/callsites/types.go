// Package callsites extracts call expressions from source files.
//
// Each supported language contributes an Extractor that turns a source.File
// into a flat, span-ordered list of Call values. Extraction is syntax-only:
// the literal/identifier/member-select classification and the constant and
// enum judgements come from surface spelling, never from type resolution.
// Checkers consume the calls and decide which are worth scoring.
package callsites

import (
	"strings"

	"swaplint/internal/args"
	"swaplint/internal/source"
)

// Arg is one actual argument of an extracted call.
type Arg struct {
	Span     source.Span
	Text     string // exact source text of the expression
	Name     string // derived name: identifier text, member-select field, callee of a nested call
	Kind     args.Kind
	Constant bool   // literal, or CONSTANT_CASE spelling
	Enum     bool   // CONSTANT_CASE member select on a type-like qualifier
	TypeHint string // created or cast-to type when the syntax names one
}

// Call is a single extracted invocation. The file it came from is carried by
// Span.File.
type Call struct {
	Span                 source.Span // whole call expression
	ArgListSpan          source.Span // argument list including parentheses
	Callee               string      // simple name of the invoked function or method
	Qualifier            string      // text before the callee (receiver, class, package), "" when unqualified
	Enclosing            string      // name of the enclosing function, method or constructor
	EnclosingSpan        source.Span
	EnclosingAnnotations []string // annotations on the enclosing declaration (Java only)
	Args                 []Arg
}

// Arity returns the number of arguments.
func (c *Call) Arity() int {
	return len(c.Args)
}

// RenderArgs returns the argument list as written, comma separated.
func (c *Call) RenderArgs() string {
	texts := make([]string, len(c.Args))
	for i, a := range c.Args {
		texts[i] = a.Text
	}
	return strings.Join(texts, ", ")
}

// FullName returns the qualified callee, e.g. "Assert.assertEquals".
func (c *Call) FullName() string {
	if c.Qualifier == "" {
		return c.Callee
	}
	return c.Qualifier + "." + c.Callee
}
