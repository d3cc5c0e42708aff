// Package reorder decides whether the arguments of a call site should be
// permuted. Given an invocation snapshot and a distance function, the
// Finder builds a cost matrix over formals × actuals, solves the
// minimum-cost assignment, and passes any non-identity winner through a
// veto chain. The verdict is a Changes value the caller turns into edits.
//
// Everything here is pure and allocation-local: a single Finder may score
// call sites from many goroutines concurrently.
package reorder

import (
	"errors"

	"swaplint/internal/args"
)

// ErrNoDistance rejects building a Finder without a distance function.
var ErrNoDistance = errors.New("finder requires a distance function")

// Finder scores one call site at a time against a fixed cost model and
// heuristic chain.
type Finder struct {
	distance   DistanceFunc
	heuristics []Heuristic
}

// Builder assembles a Finder. Distance is mandatory; heuristics run in the
// order added.
type Builder struct {
	distance   DistanceFunc
	heuristics []Heuristic
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Distance sets the cost model.
func (b *Builder) Distance(fn DistanceFunc) *Builder {
	b.distance = fn
	return b
}

// AddHeuristic appends a veto to the chain.
func (b *Builder) AddHeuristic(h Heuristic) *Builder {
	b.heuristics = append(b.heuristics, h)
	return b
}

func (b *Builder) Build() (*Finder, error) {
	if b.distance == nil {
		return nil, ErrNoDistance
	}
	f := &Finder{
		distance:   b.distance,
		heuristics: make([]Heuristic, len(b.heuristics)),
	}
	copy(f.heuristics, b.heuristics)
	return f, nil
}

// Find computes the best feasible permutation for the invocation. The
// result is empty when the written order is already optimal, when no
// feasible alternative exists, or when a heuristic vetoes the winner.
// All three are ordinary outcomes, not errors.
func (f *Finder) Find(inv *args.Invocation) Changes {
	ex := f.Explain(inv)
	if !ex.Accepted {
		return Empty()
	}
	return ex.Best
}

// Explanation is the solver's full view of one invocation, kept around
// for debugging dumps. Matrix[i][j] is the cost of pairing formal i with
// actual j.
type Explanation struct {
	Matrix       [][]float64
	OriginalCost float64
	// Best is the minimum-cost non-identity assignment; empty when the
	// written order already wins or no feasible alternative exists.
	Best Changes
	// Accepted reports whether Best survived the veto chain.
	Accepted bool
}

// Explain scores the invocation and returns the evidence alongside the
// verdict.
func (f *Finder) Explain(inv *args.Invocation) Explanation {
	n := inv.Arity()

	cost := make([][]float64, n)
	for i := 0; i < n; i++ {
		cost[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			cost[i][j] = f.distance(inv.PairAt(i, j))
		}
	}

	// Identity cost sums the diagonal as written; a forbidden diagonal
	// entry propagates +Inf, which any finite assignment then beats.
	originalCost := 0.0
	for i := 0; i < n; i++ {
		originalCost += cost[i][i]
	}

	ex := Explanation{Matrix: cost, OriginalCost: originalCost}

	perm, total, ok := solveAssignment(cost)
	if !ok || isIdentity(perm) {
		return ex
	}

	ex.Best = Changes{
		perm:           perm,
		originalCost:   originalCost,
		assignmentCost: total,
	}
	ex.Accepted = true
	for _, h := range f.heuristics {
		if !h.Accept(inv, ex.Best) {
			ex.Accepted = false
			break
		}
	}
	return ex
}
