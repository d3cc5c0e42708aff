package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"swaplint/internal/diag"
	"swaplint/internal/source"
)

func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("void test() {\n\tassertEquals(result, EXPECTED);\n}\n")
	fileID := fs.AddVirtual("CalcTest.java", content)

	bag := diag.NewBag(10)
	d := diag.New(
		diag.SevWarning,
		diag.ChkArgumentsSwapped,
		source.Span{File: fileID, Start: 27, End: 45},
		"arguments 1 and 2 look swapped",
	)
	bag.Add(d)

	var buf bytes.Buffer
	opts := JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		Max:              0,
		IncludeNotes:     true,
		IncludeFixes:     true,
	}

	err := JSON(&buf, bag, fs, opts)
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("invalid JSON output: %v\noutput: %s", err, buf.String())
	}

	if output.Count != 1 {
		t.Errorf("expected count=1, got %d", output.Count)
	}

	if len(output.Diagnostics) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(output.Diagnostics))
	}

	got := output.Diagnostics[0]
	if got.Severity != "WARNING" {
		t.Errorf("expected severity=WARNING, got %s", got.Severity)
	}

	if got.Code != "CHK3001" {
		t.Errorf("expected code=CHK3001, got %s", got.Code)
	}

	if got.Message != "arguments 1 and 2 look swapped" {
		t.Errorf("unexpected message: %s", got.Message)
	}

	if got.Location.File != "CalcTest.java" {
		t.Errorf("expected file=CalcTest.java, got %s", got.Location.File)
	}

	if got.Location.StartByte != 27 {
		t.Errorf("expected start_byte=27, got %d", got.Location.StartByte)
	}

	if got.Location.EndByte != 45 {
		t.Errorf("expected end_byte=45, got %d", got.Location.EndByte)
	}

	if got.Location.StartLine != 2 {
		t.Errorf("expected start_line=2, got %d", got.Location.StartLine)
	}

	if got.Location.StartCol != 14 {
		t.Errorf("expected start_col=14, got %d", got.Location.StartCol)
	}
}

func TestJSONWithNotesAndFixes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("assertEquals(result, EXPECTED);")
	fileID := fs.AddVirtual("CalcTest.java", content)

	bag := diag.NewBag(10)
	d := diag.New(
		diag.SevWarning,
		diag.ChkArgumentsSwapped,
		source.Span{File: fileID, Start: 12, End: 30},
		"arguments look swapped",
	)

	d = d.WithNote(
		source.Span{File: fileID, Start: 13, End: 19},
		"this argument matches the expected parameter better",
	)

	d = d.WithFix(
		"swap expected and actual",
		diag.TextEdit{
			Span:    source.Span{File: fileID, Start: 13, End: 19},
			NewText: "EXPECTED",
			OldText: "result",
		},
		diag.TextEdit{
			Span:    source.Span{File: fileID, Start: 21, End: 29},
			NewText: "result",
			OldText: "EXPECTED",
		},
	)

	bag.Add(d)

	var buf bytes.Buffer
	opts := JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		Max:              0,
		IncludeNotes:     true,
		IncludeFixes:     true,
	}

	err := JSON(&buf, bag, fs, opts)
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}

	if len(output.Diagnostics) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(output.Diagnostics))
	}

	got := output.Diagnostics[0]

	if len(got.Notes) != 1 {
		t.Fatalf("expected 1 note, got %d", len(got.Notes))
	}

	note := got.Notes[0]
	if note.Message != "this argument matches the expected parameter better" {
		t.Errorf("unexpected note message: %s", note.Message)
	}

	if len(got.Fixes) != 1 {
		t.Fatalf("expected 1 fix, got %d", len(got.Fixes))
	}

	gotFix := got.Fixes[0]
	if gotFix.Title != "swap expected and actual" {
		t.Errorf("unexpected fix title: %s", gotFix.Title)
	}

	if gotFix.Kind != "quickfix" {
		t.Errorf("expected kind quickfix, got %s", gotFix.Kind)
	}
	if gotFix.Applicability != "always-safe" {
		t.Errorf("expected applicability always-safe, got %s", gotFix.Applicability)
	}
	if gotFix.IsPreferred {
		t.Errorf("expected is_preferred to be false")
	}

	if len(gotFix.Edits) != 2 {
		t.Fatalf("expected 2 edits, got %d", len(gotFix.Edits))
	}

	edit := gotFix.Edits[0]
	if edit.NewText != "EXPECTED" {
		t.Errorf("expected new_text=EXPECTED, got %s", edit.NewText)
	}
	if edit.OldText != "result" {
		t.Errorf("expected old_text=result, got %s", edit.OldText)
	}
}

func TestJSONWithoutPositions(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("assertEquals(result, EXPECTED);")
	fileID := fs.AddVirtual("CalcTest.java", content)

	bag := diag.NewBag(10)
	d := diag.New(
		diag.SevInfo,
		diag.ChkInfo,
		source.Span{File: fileID, Start: 13, End: 19},
		"informational message",
	)
	bag.Add(d)

	var buf bytes.Buffer
	opts := JSONOpts{
		IncludePositions: false,
		PathMode:         PathModeBasename,
		Max:              0,
	}

	err := JSON(&buf, bag, fs, opts)
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}

	got := output.Diagnostics[0]

	if got.Location.StartLine != 0 {
		t.Errorf("expected start_line to be omitted (0), got %d", got.Location.StartLine)
	}

	if got.Location.StartByte != 13 {
		t.Errorf("expected start_byte=13, got %d", got.Location.StartByte)
	}
}

func TestJSONMaxLimit(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("check(a, b, c, d, e);")
	fileID := fs.AddVirtual("CalcTest.java", content)

	bag := diag.NewBag(10)

	for i := 0; i < 5; i++ {
		d := diag.New(
			diag.SevWarning,
			diag.ChkArgumentsSwapped,
			source.Span{File: fileID, Start: uint32(i), End: uint32(i + 1)},
			"arguments look swapped",
		)
		bag.Add(d)
	}

	var buf bytes.Buffer
	opts := JSONOpts{
		IncludePositions: false,
		PathMode:         PathModeBasename,
		Max:              3,
	}

	err := JSON(&buf, bag, fs, opts)
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}

	if output.Count != 3 {
		t.Errorf("expected count=3 (limited), got %d", output.Count)
	}

	if len(output.Diagnostics) != 3 {
		t.Errorf("expected 3 diagnostics (limited), got %d", len(output.Diagnostics))
	}
}

func TestJSONPathModes(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/home/user/project")

	content := []byte("assertEquals(result, EXPECTED);")
	fileID := fs.AddVirtual("/home/user/project/src/CalcTest.java", content)

	bag := diag.NewBag(10)
	d := diag.New(
		diag.SevWarning,
		diag.ChkArgumentsSwapped,
		source.Span{File: fileID, Start: 12, End: 30},
		"arguments look swapped",
	)
	bag.Add(d)

	tests := []struct {
		name     string
		pathMode PathMode
		expected string
	}{
		{"absolute", PathModeAbsolute, "/home/user/project/src/CalcTest.java"},
		{"relative", PathModeRelative, "src/CalcTest.java"},
		{"basename", PathModeBasename, "CalcTest.java"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			opts := JSONOpts{
				IncludePositions: false,
				PathMode:         tt.pathMode,
				Max:              0,
			}

			err := JSON(&buf, bag, fs, opts)
			if err != nil {
				t.Fatalf("JSON() error: %v", err)
			}

			var output DiagnosticsOutput
			if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
				t.Fatalf("invalid JSON output: %v", err)
			}

			if output.Diagnostics[0].Location.File != tt.expected {
				t.Errorf("expected file=%s, got %s", tt.expected, output.Diagnostics[0].Location.File)
			}
		})
	}
}

func TestJSONFixPreview(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("assertEquals(result, EXPECTED);")
	fileID := fs.AddVirtual("CalcTest.java", content)

	bag := diag.NewBag(2)
	d := diag.New(
		diag.SevWarning,
		diag.ChkArgumentsSwapped,
		source.Span{File: fileID, Start: 12, End: 30},
		"arguments look swapped",
	)
	d = d.WithFix("replace with expected value", diag.TextEdit{
		Span:    source.Span{File: fileID, Start: 13, End: 19},
		NewText: "EXPECTED",
		OldText: "result",
	})
	bag.Add(d)

	var buf bytes.Buffer
	opts := JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeFixes:     true,
		IncludePreviews:  true,
	}

	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}

	if len(output.Diagnostics) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(output.Diagnostics))
	}

	diagJSON := output.Diagnostics[0]
	if len(diagJSON.Fixes) != 1 {
		t.Fatalf("expected 1 fix, got %d", len(diagJSON.Fixes))
	}

	fixJSON := diagJSON.Fixes[0]
	if len(fixJSON.Edits) != 1 {
		t.Fatalf("expected 1 edit, got %d", len(fixJSON.Edits))
	}

	editJSON := fixJSON.Edits[0]
	if len(editJSON.BeforeLines) != 1 {
		t.Fatalf("expected 1 before line, got %d", len(editJSON.BeforeLines))
	}
	if editJSON.BeforeLines[0] != "assertEquals(result, EXPECTED);" {
		t.Errorf("unexpected before line: %q", editJSON.BeforeLines[0])
	}

	if len(editJSON.AfterLines) != 1 {
		t.Fatalf("expected 1 after line, got %d", len(editJSON.AfterLines))
	}
	if editJSON.AfterLines[0] != "assertEquals(EXPECTED, EXPECTED);" {
		t.Errorf("unexpected after line: %q", editJSON.AfterLines[0])
	}
}

func TestJSONTimingNotesAlwaysIncluded(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("CalcTest.java", []byte("assertEquals(result, EXPECTED);"))

	bag := diag.NewBag(2)
	span := source.Span{File: fileID, Start: 0, End: 0}
	d := diag.New(diag.SevInfo, diag.ObsTimings, span, "pipeline timings")
	d = d.WithNote(span, "parse: 2ms")
	d = d.WithNote(span, "checks: 1ms")
	bag.Add(d)

	var buf bytes.Buffer
	opts := JSONOpts{
		PathMode:     PathModeBasename,
		IncludeNotes: false,
	}

	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}

	if len(output.Diagnostics) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(output.Diagnostics))
	}
	if len(output.Diagnostics[0].Notes) != 2 {
		t.Fatalf("expected timing notes to survive IncludeNotes=false, got %d", len(output.Diagnostics[0].Notes))
	}
}
