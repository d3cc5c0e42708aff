package diag

import (
	"swaplint/internal/source"
)

// Note attaches secondary context to a diagnostic.
type Note struct {
	Span source.Span
	Msg  string
}

// FixKind is a coarse classification of what a fix does.
type FixKind uint8

const (
	// FixKindQuickFix is a small local correction.
	FixKindQuickFix FixKind = iota
	// FixKindRefactor restructures code without changing behavior.
	FixKindRefactor
)

func (k FixKind) String() string {
	switch k {
	case FixKindQuickFix:
		return "quickfix"
	case FixKindRefactor:
		return "refactor"
	}
	return "unknown"
}

// FixApplicability states how safely a fix can be applied without review.
type FixApplicability uint8

const (
	// ApplicabilityAlwaysSafe fixes preserve behavior unconditionally.
	ApplicabilityAlwaysSafe FixApplicability = iota
	// ApplicabilitySafeWithHeuristics fixes were vetted by the producing
	// check's heuristics but rest on inference, not proof.
	ApplicabilitySafeWithHeuristics
	// ApplicabilityNeedsReview fixes require a human decision.
	ApplicabilityNeedsReview
)

func (a FixApplicability) String() string {
	switch a {
	case ApplicabilityAlwaysSafe:
		return "always-safe"
	case ApplicabilitySafeWithHeuristics:
		return "safe-with-heuristics"
	case ApplicabilityNeedsReview:
		return "needs-review"
	}
	return "unknown"
}

// TextEdit replaces the text covered by Span with NewText. OldText, when
// non-empty, guards the edit: application fails if the file no longer
// contains exactly OldText at Span.
type TextEdit struct {
	Span    source.Span
	NewText string
	OldText string
}

// Fix is a concrete source change attached to a diagnostic.
type Fix struct {
	ID            string
	Title         string
	Kind          FixKind
	Applicability FixApplicability
	IsPreferred   bool
	Edits         []TextEdit
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}
