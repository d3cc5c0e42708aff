package diagfmt

import (
	"encoding/json"
	"io"
	"path/filepath"

	"swaplint/internal/diag"
	"swaplint/internal/source"
)

const sarifSchemaURI = "https://json.schemastore.org/sarif-2.1.0.json"

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Invocations []sarifInvocation `json:"invocations,omitempty"`
	Results     []sarifResult     `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID           string          `json:"ruleId"`
	RuleIndex        int             `json:"ruleIndex"`
	Level            string          `json:"level"`
	Message          sarifMessage    `json:"message"`
	Locations        []sarifLocation `json:"locations"`
	RelatedLocations []sarifLocation `json:"relatedLocations,omitempty"`
	Fixes            []sarifFix      `json:"fixes,omitempty"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
	Message          *sarifMessage         `json:"message,omitempty"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion           `json:"region"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine"`
	StartColumn uint32 `json:"startColumn"`
	EndLine     uint32 `json:"endLine"`
	EndColumn   uint32 `json:"endColumn"`
	CharOffset  uint32 `json:"charOffset"`
	CharLength  uint32 `json:"charLength"`
}

type sarifFix struct {
	Description     sarifMessage          `json:"description"`
	ArtifactChanges []sarifArtifactChange `json:"artifactChanges"`
}

type sarifArtifactChange struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Replacements     []sarifReplacement    `json:"replacements"`
}

type sarifReplacement struct {
	DeletedRegion   sarifRegion   `json:"deletedRegion"`
	InsertedContent *sarifMessage `json:"insertedContent,omitempty"`
}

// Sarif writes diagnostics as a SARIF v2.1.0 log. Rule metadata comes
// from the known diagnostic codes, so ruleIndex is stable across runs.
func Sarif(w io.Writer, bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta) error {
	codes := diag.KnownCodes()
	ruleIndex := make(map[diag.Code]int, len(codes))
	rules := make([]sarifRule, len(codes))
	for i, code := range codes {
		ruleIndex[code] = i
		rules[i] = sarifRule{
			ID:               code.ID(),
			ShortDescription: sarifMessage{Text: code.Title()},
		}
	}

	items := bag.Items()
	results := make([]sarifResult, 0, len(items))
	for i := range items {
		d := &items[i]

		idx, ok := ruleIndex[d.Code]
		if !ok {
			idx = -1
		}
		result := sarifResult{
			RuleID:    d.Code.ID(),
			RuleIndex: idx,
			Level:     sarifLevel(d.Severity),
			Message:   sarifMessage{Text: d.Message},
			Locations: []sarifLocation{
				{PhysicalLocation: makeSarifPhysicalLocation(d.Primary, fs)},
			},
		}

		for _, note := range d.Notes {
			result.RelatedLocations = append(result.RelatedLocations, sarifLocation{
				PhysicalLocation: makeSarifPhysicalLocation(note.Span, fs),
				Message:          &sarifMessage{Text: note.Msg},
			})
		}

		for fi := range d.Fixes {
			result.Fixes = append(result.Fixes, makeSarifFix(&d.Fixes[fi], fs))
		}

		results = append(results, result)
	}

	log := sarifLog{
		Schema:  sarifSchemaURI,
		Version: "2.1.0",
		Runs: []sarifRun{{
			Tool: sarifTool{Driver: sarifDriver{
				Name:           meta.ToolName,
				Version:        meta.ToolVersion,
				InformationURI: meta.InformationURI,
				Rules:          rules,
			}},
			Invocations: []sarifInvocation{{
				Arguments:           meta.InvocationArgs,
				ExecutionSuccessful: true,
			}},
			Results: results,
		}},
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(log)
}

func sarifLevel(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "note"
	}
}

func makeSarifPhysicalLocation(span source.Span, fs *source.FileSet) sarifPhysicalLocation {
	f := fs.Get(span.File)
	return sarifPhysicalLocation{
		ArtifactLocation: sarifArtifactLocation{URI: sarifURI(f, fs)},
		Region:           makeSarifRegion(span, fs),
	}
}

func makeSarifRegion(span source.Span, fs *source.FileSet) sarifRegion {
	startPos, endPos := fs.Resolve(span)
	return sarifRegion{
		StartLine:   startPos.Line,
		StartColumn: startPos.Col,
		EndLine:     endPos.Line,
		EndColumn:   endPos.Col,
		CharOffset:  span.Start,
		CharLength:  span.End - span.Start,
	}
}

func sarifURI(f *source.File, fs *source.FileSet) string {
	return filepath.ToSlash(f.FormatPath("relative", fs.BaseDir()))
}

func makeSarifFix(f *diag.Fix, fs *source.FileSet) sarifFix {
	changeIdx := make(map[source.FileID]int)
	changes := make([]sarifArtifactChange, 0, 1)
	for _, edit := range f.Edits {
		ci, ok := changeIdx[edit.Span.File]
		if !ok {
			file := fs.Get(edit.Span.File)
			changes = append(changes, sarifArtifactChange{
				ArtifactLocation: sarifArtifactLocation{URI: sarifURI(file, fs)},
			})
			ci = len(changes) - 1
			changeIdx[edit.Span.File] = ci
		}
		repl := sarifReplacement{DeletedRegion: makeSarifRegion(edit.Span, fs)}
		if edit.NewText != "" {
			repl.InsertedContent = &sarifMessage{Text: edit.NewText}
		}
		changes[ci].Replacements = append(changes[ci].Replacements, repl)
	}

	return sarifFix{
		Description:     sarifMessage{Text: f.Title},
		ArtifactChanges: changes,
	}
}
