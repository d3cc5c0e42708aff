package args

import (
	"errors"
	"fmt"

	"swaplint/internal/source"
)

var (
	// ErrNoCallee rejects invocations without a callee name.
	ErrNoCallee = errors.New("invocation has no callee name")
	// ErrNoArguments rejects empty argument lists.
	ErrNoArguments = errors.New("invocation has no arguments")
	// ErrArityMismatch rejects formal/actual lists of different lengths.
	ErrArityMismatch = errors.New("formal and actual parameter counts differ")
	// ErrBadIndex rejects parameters whose Index does not match their position.
	ErrBadIndex = errors.New("parameter index does not match its position")
	// ErrBadEnumKind rejects enum-valued parameters of non-name kinds.
	ErrBadEnumKind = errors.New("enum-valued parameter must be an identifier or member select")
)

// Invocation is an immutable snapshot of a single call site: the callee,
// its span, the formal parameters of the resolved signature, and the actual
// arguments as written. Construction validates the cross-parameter
// invariants once; everything downstream assumes them.
type Invocation struct {
	callee   string
	span     source.Span
	formals  []Parameter
	actuals  []Parameter
	siblings []string
}

// InvocationOption configures optional invocation data.
type InvocationOption func(*Invocation)

// WithSiblings records the rendered argument lists of other calls to the
// same callee in the enclosing scope. The duplicate-call heuristic compares
// candidate permutations against these renders.
func WithSiblings(renders []string) InvocationOption {
	return func(inv *Invocation) {
		inv.siblings = append(inv.siblings, renders...)
	}
}

// NewInvocation validates and freezes a call site. Formals and actuals are
// copied, so callers may reuse their slices.
func NewInvocation(callee string, span source.Span, formals, actuals []Parameter, opts ...InvocationOption) (*Invocation, error) {
	if callee == "" {
		return nil, ErrNoCallee
	}
	if len(actuals) == 0 {
		return nil, fmt.Errorf("%s: %w", callee, ErrNoArguments)
	}
	if len(formals) != len(actuals) {
		return nil, fmt.Errorf("%s: %w: %d formals, %d actuals", callee, ErrArityMismatch, len(formals), len(actuals))
	}
	for i, p := range formals {
		if p.Index != i {
			return nil, fmt.Errorf("%s: formal %q: %w: index %d at position %d", callee, p.Name, ErrBadIndex, p.Index, i)
		}
	}
	for i, p := range actuals {
		if p.Index != i {
			return nil, fmt.Errorf("%s: actual %q: %w: index %d at position %d", callee, p.Text, ErrBadIndex, p.Index, i)
		}
		if p.Enum && p.Kind != KindIdentifier && p.Kind != KindMemberSelect {
			return nil, fmt.Errorf("%s: actual %q: %w: kind %s", callee, p.Text, ErrBadEnumKind, p.Kind)
		}
	}

	inv := &Invocation{
		callee:  callee,
		span:    span,
		formals: make([]Parameter, len(formals)),
		actuals: make([]Parameter, len(actuals)),
	}
	copy(inv.formals, formals)
	copy(inv.actuals, actuals)

	// Formals have no source text of their own; the declared name stands in.
	for i := range inv.formals {
		if inv.formals[i].Text == "" {
			inv.formals[i].Text = inv.formals[i].Name
		}
	}

	for _, opt := range opts {
		opt(inv)
	}
	return inv, nil
}

// Callee returns the called function or method name.
func (inv *Invocation) Callee() string {
	return inv.callee
}

// Span returns the span of the whole call expression.
func (inv *Invocation) Span() source.Span {
	return inv.span
}

// Arity returns the number of parameters.
func (inv *Invocation) Arity() int {
	return len(inv.actuals)
}

// Formal returns the formal parameter at position i.
func (inv *Invocation) Formal(i int) Parameter {
	return inv.formals[i]
}

// Actual returns the actual argument at position i.
func (inv *Invocation) Actual(i int) Parameter {
	return inv.actuals[i]
}

// Formals returns the formal parameters.
// Do not modify the returned slice: it aliases the invocation's internal array.
func (inv *Invocation) Formals() []Parameter {
	return inv.formals
}

// Actuals returns the actual arguments.
// Do not modify the returned slice: it aliases the invocation's internal array.
func (inv *Invocation) Actuals() []Parameter {
	return inv.actuals
}

// Siblings returns rendered argument lists of neighbouring same-callee calls.
// Do not modify the returned slice: it aliases the invocation's internal array.
func (inv *Invocation) Siblings() []string {
	return inv.siblings
}

// PairAt pairs formal i with actual j for cost evaluation.
func (inv *Invocation) PairAt(i, j int) Pair {
	return Pair{Formal: inv.formals[i], Actual: inv.actuals[j]}
}
