package fix

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"swaplint/internal/diag"
)

// Preview applies edits to content in memory and returns the patched bytes.
// Spans are read as byte offsets into content; the File component is ignored.
// Edits must not overlap, and OldText guards are verified the same way Apply
// verifies them on disk. content is never mutated.
func Preview(content []byte, edits []diag.TextEdit) ([]byte, error) {
	patched := append([]byte(nil), content...)
	if len(edits) == 0 {
		return patched, nil
	}

	sorted := make([]diag.TextEdit, len(edits))
	for i, e := range edits {
		sorted[i] = copyEdit(e)
	}
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if spansConflict(sorted[i], sorted[j]) {
				return nil, fmt.Errorf("edits %d and %d overlap", i, j)
			}
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Span.Start == sorted[j].Span.Start {
			return sorted[i].Span.End > sorted[j].Span.End
		}
		return sorted[i].Span.Start > sorted[j].Span.Start
	})

	for _, edit := range sorted {
		start, end := int(edit.Span.Start), int(edit.Span.End)
		if end < start || end > len(patched) {
			return nil, fmt.Errorf("edit span [%d, %d) out of range", start, end)
		}
		if edit.OldText != "" && string(patched[start:end]) != edit.OldText {
			return nil, fmt.Errorf("existing text %q does not match expected %q", patched[start:end], edit.OldText)
		}
		suffix := append([]byte(nil), patched[end:]...)
		patched = append(append(patched[:start], []byte(edit.NewText)...), suffix...)
	}
	return patched, nil
}

// UnifiedDiff renders a classic unified patch (---/+++ headers, @@ hunks)
// between the old and new contents of path.
func UnifiedDiff(path string, oldContent, newContent []byte) (string, error) {
	ud := difflib.UnifiedDiff{
		A:        splitLinesKeepNL(string(oldContent)),
		B:        splitLinesKeepNL(string(newContent)),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(ud)
}

// splitLinesKeepNL splits into lines keeping the trailing newline on each,
// which produces better unified hunks. A final line without a newline stays
// bare rather than gaining a phantom empty line.
func splitLinesKeepNL(s string) []string {
	if s == "" {
		return []string{}
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
