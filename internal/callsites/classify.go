package callsites

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"

	"swaplint/internal/source"
)

// isConstantCase reports whether name is spelled like a constant: uppercase
// letters, digits and underscores, with at least one letter.
func isConstantCase(name string) bool {
	hasLetter := false
	for _, r := range name {
		switch {
		case unicode.IsUpper(r):
			hasLetter = true
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return false
		}
	}
	return hasLetter
}

// isTypeName reports whether name is spelled like a type reference: leading
// uppercase with at least one lowercase letter, so that CONSTANT_CASE
// holders do not qualify.
func isTypeName(name string) bool {
	first, _ := utf8.DecodeRuneInString(name)
	if !unicode.IsUpper(first) {
		return false
	}
	for _, r := range name {
		if unicode.IsLower(r) {
			return true
		}
	}
	return false
}

// lastSegment returns the text after the final dot.
func lastSegment(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndex(s, "."); i != -1 {
		return s[i+1:]
	}
	return s
}

func nodeSpan(id source.FileID, node *sitter.Node) source.Span {
	return source.Span{File: id, Start: node.StartByte(), End: node.EndByte()}
}

// sortCalls orders calls by start offset, outermost first on ties.
func sortCalls(calls []Call) {
	sort.Slice(calls, func(i, j int) bool {
		if calls[i].Span.Start != calls[j].Span.Start {
			return calls[i].Span.Start < calls[j].Span.Start
		}
		return calls[i].Span.End > calls[j].Span.End
	})
}
