package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"swaplint/internal/callsites"
	"swaplint/internal/source"
)

// ArgOutput is one call argument in the JSON dump.
type ArgOutput struct {
	Text     string      `json:"text"`
	Name     string      `json:"name,omitempty"`
	Kind     string      `json:"kind"`
	Constant bool        `json:"constant,omitempty"`
	Enum     bool        `json:"enum,omitempty"`
	TypeHint string      `json:"type_hint,omitempty"`
	Span     source.Span `json:"span"`
}

// CallOutput is one extracted call in the JSON dump.
type CallOutput struct {
	Callee    string      `json:"callee"`
	Qualifier string      `json:"qualifier,omitempty"`
	Enclosing string      `json:"enclosing,omitempty"`
	Span      source.Span `json:"span"`
	ArgList   source.Span `json:"arg_list"`
	Args      []ArgOutput `json:"args"`
}

// FormatCallsPretty dumps extracted calls in a human-readable format, one
// call per block with its arguments indented below.
func FormatCallsPretty(w io.Writer, calls []callsites.Call, fs *source.FileSet) error {
	for i := range calls {
		c := &calls[i]
		startPos, endPos := fs.Resolve(c.Span)

		fmt.Fprintf(w, "%3d: %-20s at %d:%d-%d:%d",
			i+1, c.FullName(),
			startPos.Line, startPos.Col,
			endPos.Line, endPos.Col)

		if c.Enclosing != "" {
			fmt.Fprintf(w, " (in %s)", c.Enclosing)
		}
		fmt.Fprintln(w)

		for j, a := range c.Args {
			fmt.Fprintf(w, "     %d: %-13s %q", j+1, a.Kind.String(), a.Text)

			var marks []string
			if a.Constant {
				marks = append(marks, "constant")
			}
			if a.Enum {
				marks = append(marks, "enum")
			}
			if a.TypeHint != "" {
				marks = append(marks, "type="+a.TypeHint)
			}
			if a.Name != "" && a.Name != a.Text {
				marks = append(marks, "name="+a.Name)
			}
			if len(marks) > 0 {
				fmt.Fprintf(w, " (%s)", strings.Join(marks, ", "))
			}
			fmt.Fprintln(w)
		}
	}
	return nil
}

// FormatCallsJSON dumps extracted calls as an indented JSON array.
func FormatCallsJSON(w io.Writer, calls []callsites.Call) error {
	output := make([]CallOutput, 0, len(calls))

	for i := range calls {
		c := &calls[i]
		callOut := CallOutput{
			Callee:    c.Callee,
			Qualifier: c.Qualifier,
			Enclosing: c.Enclosing,
			Span:      c.Span,
			ArgList:   c.ArgListSpan,
			Args:      make([]ArgOutput, len(c.Args)),
		}
		for j, a := range c.Args {
			callOut.Args[j] = ArgOutput{
				Text:     a.Text,
				Name:     a.Name,
				Kind:     a.Kind.String(),
				Constant: a.Constant,
				Enum:     a.Enum,
				TypeHint: a.TypeHint,
				Span:     a.Span,
			}
		}
		output = append(output, callOut)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
