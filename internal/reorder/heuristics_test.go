package reorder

import (
	"testing"

	"swaplint/internal/args"
	"swaplint/internal/source"
)

func TestCostImprovementStrict(t *testing.T) {
	h := CostImprovement()
	inv := buildCall(t)

	improving := Changes{perm: []int{1, 0}, originalCost: 2, assignmentCost: 1}
	if !h.Accept(inv, improving) {
		t.Error("Expected strict improvement to be accepted")
	}

	tie := Changes{perm: []int{1, 0}, originalCost: 2, assignmentCost: 2}
	if h.Accept(inv, tie) {
		t.Error("Expected cost tie to be rejected")
	}

	worse := Changes{perm: []int{1, 0}, originalCost: 1, assignmentCost: 2}
	if h.Accept(inv, worse) {
		t.Error("Expected regression to be rejected")
	}
}

func TestNoDuplicateCallRejectsTextualNoOp(t *testing.T) {
	// Both arguments read "x"; swapping them renders the identical list.
	inv, err := args.NewInvocation(
		"assertEquals",
		source.Span{File: 0, Start: 0, End: 20},
		[]args.Parameter{
			{Index: 0, Name: "expected", Kind: args.KindIdentifier},
			{Index: 1, Name: "actual", Kind: args.KindIdentifier},
		},
		[]args.Parameter{
			{Index: 0, Name: "x", Text: "x", Kind: args.KindIdentifier},
			{Index: 1, Name: "x", Text: "x", Kind: args.KindIdentifier},
		},
	)
	if err != nil {
		t.Fatalf("NewInvocation returned error: %v", err)
	}

	h := NoDuplicateCall()
	ch := Changes{perm: []int{1, 0}, originalCost: 2, assignmentCost: 1}
	if h.Accept(inv, ch) {
		t.Error("Expected textually identical rewrite to be rejected")
	}
}

func TestNoDuplicateCallRejectsSiblingDuplicate(t *testing.T) {
	inv, err := args.NewInvocation(
		"assertEquals",
		source.Span{File: 0, Start: 0, End: 40},
		[]args.Parameter{
			{Index: 0, Name: "expected", Kind: args.KindIdentifier},
			{Index: 1, Name: "actual", Kind: args.KindIdentifier},
		},
		[]args.Parameter{
			{Index: 0, Name: "result", Text: "result", Kind: args.KindIdentifier},
			{Index: 1, Name: "EXPECTED_CONST", Text: "EXPECTED_CONST", Kind: args.KindIdentifier, Constant: true},
		},
		args.WithSiblings([]string{"EXPECTED_CONST, result"}),
	)
	if err != nil {
		t.Fatalf("NewInvocation returned error: %v", err)
	}

	h := NoDuplicateCall()
	ch := Changes{perm: []int{1, 0}, originalCost: 2, assignmentCost: 1}
	if h.Accept(inv, ch) {
		t.Error("Expected rewrite duplicating a sibling call to be rejected")
	}
}

func TestNoDuplicateCallAcceptsDistinctRewrite(t *testing.T) {
	inv := buildCall(t)

	h := NoDuplicateCall()
	ch := Changes{perm: []int{1, 0}, originalCost: 2, assignmentCost: 1}
	if !h.Accept(inv, ch) {
		t.Error("Expected distinct rewrite to be accepted")
	}
}

func TestNoDuplicateCallNormalizesUnicode(t *testing.T) {
	// The argument text uses the decomposed form of é; the sibling uses
	// the composed form. NFC comparison must see them as the same call.
	decomposed := "café"
	composed := "café"

	inv, err := args.NewInvocation(
		"assertEquals",
		source.Span{File: 0, Start: 0, End: 40},
		[]args.Parameter{
			{Index: 0, Name: "expected", Kind: args.KindIdentifier},
			{Index: 1, Name: "actual", Kind: args.KindIdentifier},
		},
		[]args.Parameter{
			{Index: 0, Name: "result", Text: "result", Kind: args.KindIdentifier},
			{Index: 1, Name: decomposed, Text: decomposed, Kind: args.KindIdentifier},
		},
		args.WithSiblings([]string{composed + ", result"}),
	)
	if err != nil {
		t.Fatalf("NewInvocation returned error: %v", err)
	}

	h := NoDuplicateCall()
	ch := Changes{perm: []int{1, 0}, originalCost: 2, assignmentCost: 1}
	if h.Accept(inv, ch) {
		t.Error("Expected NFC-equal sibling duplicate to be rejected")
	}
}

func TestHeuristicFuncAdapter(t *testing.T) {
	calls := 0
	h := HeuristicFunc(func(inv *args.Invocation, ch Changes) bool {
		calls++
		return false
	})
	if h.Accept(buildCall(t), Empty()) {
		t.Error("Expected adapter to forward the rejection")
	}
	if calls != 1 {
		t.Errorf("Expected one call through the adapter, got %d", calls)
	}
}
