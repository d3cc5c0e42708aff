// Package testkit provides invariant checks shared by extraction tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"swaplint/internal/callsites"
	"swaplint/internal/source"
)

// CheckCallInvariants runs the structural guarantees every extractor owes
// its consumers on one file's extraction:
//  1. call spans are non-empty, in content bounds, and point at the file
//  2. the argument list span sits inside the call span
//  3. argument spans sit inside the list span, ordered and non-overlapping
//  4. each argument's Text is exactly the bytes its span covers
//  5. calls are ordered by start offset
//
// Nested calls legitimately overlap their parents, so no disjointness is
// required between calls.
func CheckCallInvariants(sf *source.File, calls []callsites.Call) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}

	var prevStart uint32
	for i := range calls {
		call := &calls[i]
		if err := checkSpan(call.Span, sf.ID, lenContent); err != nil {
			return fmt.Errorf("call %d (%s): span: %w", i, call.Callee, err)
		}
		if call.Callee == "" {
			return fmt.Errorf("call %d: empty callee", i)
		}
		if i > 0 && call.Span.Start < prevStart {
			return fmt.Errorf("call %d (%s): out of order: start %d after %d",
				i, call.Callee, call.Span.Start, prevStart)
		}
		prevStart = call.Span.Start

		if len(call.Args) > 0 {
			if err := checkSpan(call.ArgListSpan, sf.ID, lenContent); err != nil {
				return fmt.Errorf("call %d (%s): arg list span: %w", i, call.Callee, err)
			}
			if call.ArgListSpan.Start < call.Span.Start || call.ArgListSpan.End > call.Span.End {
				return fmt.Errorf("call %d (%s): arg list %v outside call span %v",
					i, call.Callee, call.ArgListSpan, call.Span)
			}
		}

		var prevEnd uint32
		for j, arg := range call.Args {
			if err := checkSpan(arg.Span, sf.ID, lenContent); err != nil {
				return fmt.Errorf("call %d (%s): arg %d: %w", i, call.Callee, j, err)
			}
			if arg.Span.Start < call.ArgListSpan.Start || arg.Span.End > call.ArgListSpan.End {
				return fmt.Errorf("call %d (%s): arg %d span %v outside list span %v",
					i, call.Callee, j, arg.Span, call.ArgListSpan)
			}
			if j > 0 && arg.Span.Start < prevEnd {
				return fmt.Errorf("call %d (%s): arg %d overlaps its left sibling", i, call.Callee, j)
			}
			prevEnd = arg.Span.End

			covered := string(sf.Content[arg.Span.Start:arg.Span.End])
			if arg.Text != covered {
				return fmt.Errorf("call %d (%s): arg %d text mismatch: text=%q span=%q",
					i, call.Callee, j, arg.Text, covered)
			}
		}
	}
	return nil
}

func checkSpan(s source.Span, id source.FileID, lenContent uint32) error {
	if s.File != id {
		return fmt.Errorf("span file mismatch: got=%d want=%d", s.File, id)
	}
	if s.End <= s.Start {
		return fmt.Errorf("empty span: %v", s)
	}
	if s.End > lenContent {
		return fmt.Errorf("span end beyond content: %d > %d", s.End, lenContent)
	}
	return nil
}
