package checks

import (
	"strings"

	"swaplint/internal/callsites"
	"swaplint/internal/source"
)

// ScoredCall is the engine's view of one scored call site, exposed for
// the calls dump.
type ScoredCall struct {
	Call    *callsites.Call
	Formals []string
	// Matrix[i][j] is the cost of pairing formal i with actual j.
	Matrix       [][]float64
	OriginalCost float64
	BestCost     float64
	// Perm maps formal index to the actual chosen for it; nil when the
	// written order is already the best feasible assignment.
	Perm     []int
	Proposed string
	// Flagged reports whether Check would emit a diagnostic for this call.
	Flagged bool
}

// Score runs the candidate filter and cost model over calls without
// reporting, returning the evidence for every call that reached the
// solver.
func (c *AssertOrder) Score(file *source.File, calls []callsites.Call) []ScoredCall {
	goFile := strings.HasSuffix(file.Path, ".go")
	var out []ScoredCall
	for i := range calls {
		call := &calls[i]
		formals, ok := c.candidate(call, goFile)
		if !ok {
			continue
		}
		if call.Arity() > maxScoredArity || c.hasExcludedArg(call) {
			continue
		}
		inv, err := buildInvocation(call, formals, siblingRenders(calls, call))
		if err != nil {
			continue
		}

		ex := c.finder.Explain(inv)
		sc := ScoredCall{
			Call:         call,
			Formals:      formals,
			Matrix:       ex.Matrix,
			OriginalCost: ex.OriginalCost,
			BestCost:     ex.OriginalCost,
			Flagged:      ex.Accepted,
		}
		if !ex.Best.IsEmpty() {
			sc.BestCost = ex.Best.AssignmentCost()
			sc.Perm = ex.Best.Perm()
			sc.Proposed = ex.Best.Render(inv)
		}
		out = append(out, sc)
	}
	return out
}
