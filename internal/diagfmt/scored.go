package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"swaplint/internal/checks"
	"swaplint/internal/reorder"
	"swaplint/internal/source"
)

// ScoredOutput is one scored call in the JSON dump. Forbidden pairings
// marshal as null since JSON has no infinity.
type ScoredOutput struct {
	Callee       string       `json:"callee"`
	Span         source.Span  `json:"span"`
	Formals      []string     `json:"formals"`
	Actuals      []string     `json:"actuals"`
	Matrix       [][]*float64 `json:"matrix"`
	OriginalCost *float64     `json:"original_cost"`
	BestCost     *float64     `json:"best_cost"`
	Perm         []int        `json:"perm,omitempty"`
	Proposed     string       `json:"proposed,omitempty"`
	Flagged      bool         `json:"flagged"`
}

// FormatScoredJSON dumps scoring evidence as an indented JSON array.
func FormatScoredJSON(w io.Writer, scored []checks.ScoredCall) error {
	output := make([]ScoredOutput, 0, len(scored))

	for i := range scored {
		sc := &scored[i]
		out := ScoredOutput{
			Callee:       sc.Call.Callee,
			Span:         sc.Call.Span,
			Formals:      sc.Formals,
			Actuals:      make([]string, 0, len(sc.Call.Args)),
			Matrix:       make([][]*float64, len(sc.Matrix)),
			OriginalCost: costValue(sc.OriginalCost),
			BestCost:     costValue(sc.BestCost),
			Perm:         sc.Perm,
			Proposed:     sc.Proposed,
			Flagged:      sc.Flagged,
		}
		for _, a := range sc.Call.Args {
			out.Actuals = append(out.Actuals, a.Text)
		}
		for r, row := range sc.Matrix {
			cells := make([]*float64, len(row))
			for c, cost := range row {
				cells[c] = costValue(cost)
			}
			out.Matrix[r] = cells
		}
		output = append(output, out)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// FormatScoredPretty dumps scoring evidence in a human-readable format:
// the cost matrix with formals as rows and actuals as columns, then the
// verdict.
func FormatScoredPretty(w io.Writer, scored []checks.ScoredCall, fs *source.FileSet) error {
	for i := range scored {
		sc := &scored[i]
		startPos, endPos := fs.Resolve(sc.Call.Span)

		fmt.Fprintf(w, "%3d: %-20s at %d:%d-%d:%d\n",
			i+1, sc.Call.FullName(),
			startPos.Line, startPos.Col,
			endPos.Line, endPos.Col)

		actuals := make([]string, len(sc.Call.Args))
		for j, a := range sc.Call.Args {
			actuals[j] = a.Text
		}
		fmt.Fprintf(w, "     actuals: %s\n", strings.Join(actuals, ", "))

		for r, row := range sc.Matrix {
			cells := make([]string, len(row))
			for c, cost := range row {
				cells[c] = fmt.Sprintf("%5s", costCell(cost))
			}
			fmt.Fprintf(w, "     %-12s %s\n", sc.Formals[r], strings.Join(cells, " "))
		}

		switch {
		case sc.Flagged:
			fmt.Fprintf(w, "     cost %s -> %s, reorder to (%s)\n",
				costCell(sc.OriginalCost), costCell(sc.BestCost), sc.Proposed)
		case sc.Perm != nil:
			fmt.Fprintf(w, "     cost %s -> %s, vetoed, kept as written\n",
				costCell(sc.OriginalCost), costCell(sc.BestCost))
		default:
			fmt.Fprintf(w, "     cost %s, kept as written\n", costCell(sc.OriginalCost))
		}
	}
	return nil
}

func costValue(cost float64) *float64 {
	if reorder.IsForbidden(cost) {
		return nil
	}
	return &cost
}

func costCell(cost float64) string {
	if reorder.IsForbidden(cost) {
		return "inf"
	}
	return strconv.FormatFloat(cost, 'g', -1, 64)
}
