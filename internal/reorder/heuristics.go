package reorder

import (
	"golang.org/x/text/unicode/norm"

	"swaplint/internal/args"
)

// Heuristic vetoes an otherwise-winning permutation. The chain is a logical
// AND evaluated in registration order with short-circuit on the first
// rejection. Implementations must be pure.
type Heuristic interface {
	Accept(inv *args.Invocation, ch Changes) bool
}

// HeuristicFunc adapts a plain function to the Heuristic interface.
type HeuristicFunc func(inv *args.Invocation, ch Changes) bool

func (f HeuristicFunc) Accept(inv *args.Invocation, ch Changes) bool {
	return f(inv, ch)
}

// CostImprovement accepts only strict improvements. Ties are never
// proposed: an equally-plausible ordering is churn, not a fix.
func CostImprovement() Heuristic {
	return HeuristicFunc(func(_ *args.Invocation, ch Changes) bool {
		return ch.AssignmentCost() < ch.OriginalCost()
	})
}

// NoDuplicateCall rejects permutations whose rendered argument list is
// textually indistinguishable from the call as written (swapping equal
// texts) or duplicates a neighbouring call to the same callee. Such a
// rewrite would either be a no-op that re-triggers on every run or turn
// two deliberate variants into copies. Comparison is NFC-normalized so
// visually identical spellings compare equal.
func NoDuplicateCall() Heuristic {
	return HeuristicFunc(func(inv *args.Invocation, ch Changes) bool {
		permuted := norm.NFC.String(ch.Render(inv))
		if permuted == norm.NFC.String(renderIdentity(inv)) {
			return false
		}
		for _, sibling := range inv.Siblings() {
			if permuted == norm.NFC.String(sibling) {
				return false
			}
		}
		return true
	})
}
