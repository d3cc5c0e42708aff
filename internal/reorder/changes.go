package reorder

import (
	"strings"

	"swaplint/internal/args"
	"swaplint/internal/diag"
)

// Changes is the engine's verdict for one call site: the winning
// permutation together with the costs that justified it. A zero Changes
// (or one whose permutation is the identity) means "leave the call alone".
// Changes must only ever be applied to the invocation that produced it.
type Changes struct {
	perm           []int
	originalCost   float64
	assignmentCost float64
}

// Empty returns the no-change verdict.
func Empty() Changes {
	return Changes{}
}

// IsEmpty reports whether the verdict proposes no reordering.
func (c Changes) IsEmpty() bool {
	return c.perm == nil || isIdentity(c.perm)
}

// Perm returns a copy of the permutation: slot i receives actual Perm()[i].
func (c Changes) Perm() []int {
	if c.perm == nil {
		return nil
	}
	out := make([]int, len(c.perm))
	copy(out, c.perm)
	return out
}

// OriginalCost is the total cost of the arguments as written.
func (c Changes) OriginalCost() float64 {
	return c.originalCost
}

// AssignmentCost is the total cost under the proposed permutation.
func (c Changes) AssignmentCost() float64 {
	return c.assignmentCost
}

// Moved lists the slot indices the permutation changes, in ascending order.
func (c Changes) Moved() []int {
	var moved []int
	for i, p := range c.perm {
		if p != i {
			moved = append(moved, i)
		}
	}
	return moved
}

// Edits renders the permutation as textual replacements over the original
// argument spans: slot i gets the source text of actual Perm()[i]. Unmoved
// slots produce no edit, so everything outside the moved arguments is
// byte-for-byte untouched. OldText guards each edit against stale files.
func (c Changes) Edits(inv *args.Invocation) []diag.TextEdit {
	if c.IsEmpty() {
		return nil
	}
	var edits []diag.TextEdit
	for i, p := range c.perm {
		if p == i {
			continue
		}
		slot := inv.Actual(i)
		repl := inv.Actual(p)
		edits = append(edits, diag.TextEdit{
			Span:    slot.Span,
			NewText: repl.Text,
			OldText: slot.Text,
		})
	}
	return edits
}

// Render returns the argument list text under the permutation, in the
// canonical "a, b, c" form the duplicate heuristic and messages use.
func (c Changes) Render(inv *args.Invocation) string {
	n := inv.Arity()
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		j := i
		if !c.IsEmpty() {
			j = c.perm[i]
		}
		parts[i] = inv.Actual(j).Text
	}
	return strings.Join(parts, ", ")
}

// renderIdentity is Render for the call as written.
func renderIdentity(inv *args.Invocation) string {
	parts := make([]string, inv.Arity())
	for i := range parts {
		parts[i] = inv.Actual(i).Text
	}
	return strings.Join(parts, ", ")
}
