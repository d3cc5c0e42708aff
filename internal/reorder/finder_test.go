package reorder

import (
	"errors"
	"strings"
	"testing"

	"swaplint/internal/args"
	"swaplint/internal/source"
)

// junitModel replicates the assertEquals cost table: expected prefers
// constants, enums, and expected-prefixed names; actual penalizes
// constants; every other formal is pinned to its slot.
func junitModel(pair args.Pair) float64 {
	formal, actual := pair.Formal, pair.Actual
	switch formal.Name {
	case "expected":
		if actual.Constant || actual.Enum {
			return 0
		}
		if strings.HasPrefix(actual.Name, "expected") {
			return 0
		}
		return 1
	case "actual":
		if actual.Constant || actual.Enum {
			return 1
		}
		if strings.HasPrefix(actual.Name, "actual") {
			return 0
		}
		return 1
	default:
		if formal.Index == actual.Index {
			return 0
		}
		return Forbidden()
	}
}

func newJUnitFinder(t *testing.T) *Finder {
	t.Helper()
	f, err := NewBuilder().
		Distance(junitModel).
		AddHeuristic(CostImprovement()).
		AddHeuristic(NoDuplicateCall()).
		Build()
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	return f
}

func expectedActualFormals() []args.Parameter {
	return []args.Parameter{
		{Index: 0, Name: "expected", Kind: args.KindIdentifier},
		{Index: 1, Name: "actual", Kind: args.KindIdentifier},
	}
}

func mustInvocation(t *testing.T, formals, actuals []args.Parameter, opts ...args.InvocationOption) *args.Invocation {
	t.Helper()
	inv, err := args.NewInvocation("assertEquals", source.Span{File: 0, Start: 0, End: 60}, formals, actuals, opts...)
	if err != nil {
		t.Fatalf("NewInvocation returned error: %v", err)
	}
	return inv
}

func TestFinderProposesSwapForConstantInActualSlot(t *testing.T) {
	finder := newJUnitFinder(t)
	inv := mustInvocation(t, expectedActualFormals(), []args.Parameter{
		{Index: 0, Name: "result", Text: "result", Kind: args.KindIdentifier},
		{Index: 1, Name: "EXPECTED_CONST", Text: "EXPECTED_CONST", Kind: args.KindIdentifier, Constant: true},
	})

	ch := finder.Find(inv)
	if ch.IsEmpty() {
		t.Fatal("Expected a proposed swap")
	}
	perm := ch.Perm()
	if perm[0] != 1 || perm[1] != 0 {
		t.Errorf("Expected perm [1 0], got %v", perm)
	}
	if ch.OriginalCost() != 2 {
		t.Errorf("Expected original cost 2, got %v", ch.OriginalCost())
	}
	if ch.AssignmentCost() != 1 {
		t.Errorf("Expected assignment cost 1, got %v", ch.AssignmentCost())
	}
}

func TestFinderSwapStrongerWithActualPrefixedName(t *testing.T) {
	// An actual-prefixed identifier drops the swapped cost to 0: the
	// constant lands on expected (0) and the name match lands on actual (0).
	finder := newJUnitFinder(t)
	inv := mustInvocation(t, expectedActualFormals(), []args.Parameter{
		{Index: 0, Name: "actualResult", Text: "actualResult", Kind: args.KindIdentifier},
		{Index: 1, Name: "EXPECTED_CONST", Text: "EXPECTED_CONST", Kind: args.KindIdentifier, Constant: true},
	})

	ch := finder.Find(inv)
	if ch.IsEmpty() {
		t.Fatal("Expected a proposed swap")
	}
	if ch.AssignmentCost() != 0 {
		t.Errorf("Expected assignment cost 0, got %v", ch.AssignmentCost())
	}
}

func TestFinderKeepsNameMatchedOrder(t *testing.T) {
	finder := newJUnitFinder(t)
	inv := mustInvocation(t, expectedActualFormals(), []args.Parameter{
		{Index: 0, Name: "expectedValue", Text: "expectedValue", Kind: args.KindIdentifier},
		{Index: 1, Name: "actualValue", Text: "actualValue", Kind: args.KindIdentifier},
	})

	if ch := finder.Find(inv); !ch.IsEmpty() {
		t.Errorf("Expected no change for name-matched order, got perm %v", ch.Perm())
	}
}

func TestFinderPinsMessageSlot(t *testing.T) {
	// Three-argument form: the message formal is pinned by the forbidden
	// off-diagonal cost, so only the trailing pair may move.
	finder := newJUnitFinder(t)
	formals := []args.Parameter{
		{Index: 0, Name: "message", Kind: args.KindIdentifier},
		{Index: 1, Name: "expected", Kind: args.KindIdentifier},
		{Index: 2, Name: "actual", Kind: args.KindIdentifier},
	}
	actuals := []args.Parameter{
		{Index: 0, Text: `"size differs"`, Kind: args.KindLiteral, Constant: true},
		{Index: 1, Name: "actualSize", Text: "actualSize", Kind: args.KindIdentifier},
		{Index: 2, Name: "expectedSize", Text: "expectedSize", Kind: args.KindIdentifier},
	}

	ch := finder.Find(mustInvocation(t, formals, actuals))
	if ch.IsEmpty() {
		t.Fatal("Expected a proposed swap of the trailing pair")
	}
	perm := ch.Perm()
	if perm[0] != 0 {
		t.Errorf("Expected message slot pinned at 0, got perm %v", perm)
	}
	if perm[1] != 2 || perm[2] != 1 {
		t.Errorf("Expected trailing pair swapped, got perm %v", perm)
	}
}

func TestFinderVetoesSiblingDuplicate(t *testing.T) {
	// The swap beats the identity on cost, but its render duplicates a
	// neighbouring call, so the verdict is still empty.
	finder := newJUnitFinder(t)
	actuals := []args.Parameter{
		{Index: 0, Name: "result", Text: "result", Kind: args.KindIdentifier},
		{Index: 1, Name: "EXPECTED_CONST", Text: "EXPECTED_CONST", Kind: args.KindIdentifier, Constant: true},
	}

	withSibling := mustInvocation(t, expectedActualFormals(), actuals,
		args.WithSiblings([]string{"EXPECTED_CONST, result"}))
	if ch := finder.Find(withSibling); !ch.IsEmpty() {
		t.Errorf("Expected sibling duplicate to veto the swap, got perm %v", ch.Perm())
	}

	without := mustInvocation(t, expectedActualFormals(), actuals)
	if ch := finder.Find(without); ch.IsEmpty() {
		t.Error("Expected the same swap to be accepted without the sibling")
	}
}

func TestFinderDeterministic(t *testing.T) {
	finder := newJUnitFinder(t)
	inv := mustInvocation(t, expectedActualFormals(), []args.Parameter{
		{Index: 0, Name: "result", Text: "result", Kind: args.KindIdentifier},
		{Index: 1, Name: "EXPECTED_CONST", Text: "EXPECTED_CONST", Kind: args.KindIdentifier, Constant: true},
	})

	first := finder.Find(inv)
	for run := 0; run < 10; run++ {
		ch := finder.Find(inv)
		if ch.IsEmpty() != first.IsEmpty() {
			t.Fatalf("Run %d: emptiness differs", run)
		}
		if ch.OriginalCost() != first.OriginalCost() || ch.AssignmentCost() != first.AssignmentCost() {
			t.Fatalf("Run %d: costs differ", run)
		}
		fp, cp := first.Perm(), ch.Perm()
		for i := range fp {
			if fp[i] != cp[i] {
				t.Fatalf("Run %d: perm %v differs from first %v", run, cp, fp)
			}
		}
	}
}

func TestFinderRespectsForbiddenEdges(t *testing.T) {
	// A model that forbids moving the first actual anywhere else: the only
	// alternatives cross forbidden edges, so the verdict stays empty even
	// though the diagonal is expensive.
	pinned := func(pair args.Pair) float64 {
		if pair.Actual.Index == 0 && pair.Formal.Index != 0 {
			return Forbidden()
		}
		if pair.Formal.Index == pair.Actual.Index {
			return 5
		}
		return 0
	}
	finder, err := NewBuilder().Distance(pinned).Build()
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	inv := mustInvocation(t, expectedActualFormals(), []args.Parameter{
		{Index: 0, Name: "a", Text: "a", Kind: args.KindIdentifier},
		{Index: 1, Name: "b", Text: "b", Kind: args.KindIdentifier},
	})

	if ch := finder.Find(inv); !ch.IsEmpty() {
		t.Errorf("Expected forbidden edges to block every swap, got perm %v", ch.Perm())
	}
}

// applyPerm rebuilds the invocation as it would read after the fix.
func applyPerm(t *testing.T, inv *args.Invocation, perm []int) *args.Invocation {
	t.Helper()
	n := inv.Arity()
	actuals := make([]args.Parameter, n)
	for i := 0; i < n; i++ {
		p := inv.Actual(perm[i])
		p.Index = i
		actuals[i] = p
	}
	formals := make([]args.Parameter, n)
	copy(formals, inv.Formals())
	out, err := args.NewInvocation(inv.Callee(), inv.Span(), formals, actuals)
	if err != nil {
		t.Fatalf("rebuilding invocation: %v", err)
	}
	return out
}

func TestFinderIdempotent(t *testing.T) {
	finder := newJUnitFinder(t)
	inv := mustInvocation(t, expectedActualFormals(), []args.Parameter{
		{Index: 0, Name: "result", Text: "result", Kind: args.KindIdentifier},
		{Index: 1, Name: "EXPECTED_CONST", Text: "EXPECTED_CONST", Kind: args.KindIdentifier, Constant: true},
	})

	ch := finder.Find(inv)
	if ch.IsEmpty() {
		t.Fatal("Expected a proposed swap")
	}

	fixed := applyPerm(t, inv, ch.Perm())
	if again := finder.Find(fixed); !again.IsEmpty() {
		t.Errorf("Expected fixed call to be a fixed point, got perm %v", again.Perm())
	}
}

func TestBuilderRequiresDistance(t *testing.T) {
	_, err := NewBuilder().AddHeuristic(CostImprovement()).Build()
	if !errors.Is(err, ErrNoDistance) {
		t.Errorf("Expected ErrNoDistance, got %v", err)
	}
}

func TestBuilderCopiesHeuristics(t *testing.T) {
	b := NewBuilder().Distance(junitModel)
	b.AddHeuristic(CostImprovement())
	f, err := b.Build()
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	// Appending to the builder after Build must not affect the finder.
	b.AddHeuristic(HeuristicFunc(func(*args.Invocation, Changes) bool { return false }))

	inv := mustInvocation(t, expectedActualFormals(), []args.Parameter{
		{Index: 0, Name: "result", Text: "result", Kind: args.KindIdentifier},
		{Index: 1, Name: "EXPECTED_CONST", Text: "EXPECTED_CONST", Kind: args.KindIdentifier, Constant: true},
	})
	if ch := f.Find(inv); ch.IsEmpty() {
		t.Error("Expected the built finder to keep its original heuristic chain")
	}
}
