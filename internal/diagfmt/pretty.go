package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"swaplint/internal/diag"
	"swaplint/internal/source"
)

// Pretty renders diagnostics in a human-readable form. It walks bag.Items()
// (the bag is expected to be sorted) and prints, per diagnostic:
//
//	<path>:<line>:<col>: <SEVERITY> <CODE>: <message>
//
// followed by the source line with a ^~~~ underline, surrounding context
// lines per opts.Context, then notes and fix suggestions when enabled.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := palette{enabled: opts.Color}
	items := bag.Items()
	for i := range items {
		writePretty(w, &items[i], fs, opts, pal)
	}
}

func writePretty(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	file := fs.Get(d.Primary.File)
	start, end := fs.Resolve(d.Primary)
	path := displayPath(file, opts.PathMode, fs)

	msg := d.Message
	if opts.Width > 0 {
		prefix := fmt.Sprintf("%s:%d:%d: %s %s: ", path, start.Line, start.Col, d.Severity.String(), d.Code.ID())
		avail := int(opts.Width) - runewidth.StringWidth(prefix)
		if avail > 3 && runewidth.StringWidth(msg) > avail {
			msg = runewidth.Truncate(msg, avail, "...")
		}
	}

	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
		path, start.Line, start.Col,
		pal.severity(d.Severity), pal.code(d.Code.ID()), msg)

	writeContext(w, file, start, end, opts, pal)

	if opts.ShowNotes {
		for _, note := range d.Notes {
			noteFile := fs.Get(note.Span.File)
			notePos, _ := fs.Resolve(note.Span)
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n",
				pal.note("note:"), displayPath(noteFile, opts.PathMode, fs),
				notePos.Line, notePos.Col, note.Msg)
		}
	}

	if opts.ShowFixes {
		for i := range d.Fixes {
			writeFix(w, fs, &d.Fixes[i], i, opts)
		}
	}
}

// writeContext prints the primary line with its underline plus up to
// opts.Context lines on either side.
func writeContext(w io.Writer, file *source.File, start, end source.LineCol, opts PrettyOpts, pal palette) {
	lineCount := uint32(len(file.LineIdx)) + 1

	ctx := uint32(0)
	if opts.Context > 0 {
		ctx = uint32(opts.Context)
	}
	lo := uint32(1)
	if start.Line > ctx {
		lo = start.Line - ctx
	}
	hi := start.Line + ctx
	if hi > lineCount {
		hi = lineCount
	}

	gutter := len(fmt.Sprintf("%d", hi))
	for ln := lo; ln <= hi; ln++ {
		text := expandTabs(file.GetLine(ln))
		fmt.Fprintf(w, "  %*d | %s\n", gutter, ln, text)
		if ln == start.Line {
			writeUnderline(w, file, start, end, gutter, pal)
		}
	}
}

func writeUnderline(w io.Writer, file *source.File, start, end source.LineCol, gutter int, pal palette) {
	lineText := file.GetLine(start.Line)

	startIdx := int(start.Col) - 1
	if startIdx < 0 {
		startIdx = 0
	}
	if startIdx > len(lineText) {
		startIdx = len(lineText)
	}

	endIdx := len(lineText)
	if end.Line == start.Line {
		endIdx = int(end.Col) - 1
		if endIdx < startIdx {
			endIdx = startIdx
		}
		if endIdx > len(lineText) {
			endIdx = len(lineText)
		}
	}

	pad := runewidth.StringWidth(expandTabs(lineText[:startIdx]))
	width := runewidth.StringWidth(expandTabs(lineText[startIdx:endIdx]))
	if width < 1 {
		width = 1
	}

	marker := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, "  %s | %s%s\n",
		strings.Repeat(" ", gutter), strings.Repeat(" ", pad), pal.caret(marker))
}

func writeFix(w io.Writer, fs *source.FileSet, f *diag.Fix, idx int, opts PrettyOpts) {
	head := fmt.Sprintf("fix #%d: %s [%s, %s]", idx+1, f.Title, f.Kind, f.Applicability)
	if f.IsPreferred {
		head += " (preferred)"
	}
	if f.ID != "" {
		head += " id=" + f.ID
	}
	fmt.Fprintf(w, "  %s\n", head)

	for _, edit := range f.Edits {
		editFile := fs.Get(edit.Span.File)
		editPos, _ := fs.Resolve(edit.Span)
		fmt.Fprintf(w, "    apply=%q at %s:%d:%d\n",
			edit.NewText, displayPath(editFile, opts.PathMode, fs), editPos.Line, editPos.Col)
	}

	if opts.ShowPreview && len(f.Edits) > 0 {
		preview, err := buildFixPreview(fs, f.Edits)
		if err != nil {
			return
		}
		fmt.Fprintf(w, "    preview:\n")
		for _, line := range preview.before {
			fmt.Fprintf(w, "    - %s\n", line)
		}
		for _, line := range preview.after {
			fmt.Fprintf(w, "    + %s\n", line)
		}
	}
}

func displayPath(f *source.File, mode PathMode, fs *source.FileSet) string {
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	default:
		return f.FormatPath("auto", "")
	}
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

// palette gates ANSI styling so plain output stays byte-stable for tests
// and piped runs.
type palette struct {
	enabled bool
}

func (p palette) severity(sev diag.Severity) string {
	label := sev.String()
	if !p.enabled {
		return label
	}
	c := color.New(color.FgCyan, color.Bold)
	switch sev {
	case diag.SevError:
		c = color.New(color.FgRed, color.Bold)
	case diag.SevWarning:
		c = color.New(color.FgYellow, color.Bold)
	}
	c.EnableColor()
	return c.Sprint(label)
}

func (p palette) code(s string) string {
	if !p.enabled {
		return s
	}
	c := color.New(color.Bold)
	c.EnableColor()
	return c.Sprint(s)
}

func (p palette) caret(s string) string {
	if !p.enabled {
		return s
	}
	c := color.New(color.FgGreen, color.Bold)
	c.EnableColor()
	return c.Sprint(s)
}

func (p palette) note(s string) string {
	if !p.enabled {
		return s
	}
	c := color.New(color.FgCyan)
	c.EnableColor()
	return c.Sprint(s)
}
