package diagfmt

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"swaplint/internal/diag"
	"swaplint/internal/fix"
	"swaplint/internal/source"
)

type fixPreview struct {
	before []string
	after  []string
}

// buildFixPreview renders the lines a fix touches before and after all of
// its edits are applied. Edits must target a single file.
func buildFixPreview(fs *source.FileSet, edits []diag.TextEdit) (fixPreview, error) {
	if fs == nil {
		return fixPreview{}, fmt.Errorf("nil FileSet")
	}
	if len(edits) == 0 {
		return fixPreview{}, fmt.Errorf("fix has no edits")
	}

	fileID := edits[0].Span.File
	minStart := edits[0].Span.Start
	maxEnd := edits[0].Span.End
	for _, edit := range edits {
		if edit.Span.File != fileID {
			return fixPreview{}, fmt.Errorf("fix edits span multiple files")
		}
		if edit.Span.Start < minStart {
			minStart = edit.Span.Start
		}
		if edit.Span.End > maxEnd {
			maxEnd = edit.Span.End
		}
	}

	file := fs.Get(fileID)
	startPos, endPos := fs.Resolve(source.Span{File: fileID, Start: minStart, End: maxEnd})
	endLine := endPos.Line
	if endLine < startPos.Line {
		endLine = startPos.Line
	}

	blockStart := lineStartOffset(file, startPos.Line)
	blockEnd := max(lineEndOffsetInclusive(file, endLine), blockStart)

	lenFileContent, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		return fixPreview{}, fmt.Errorf("len file content overflow: %w", err)
	}
	blockEnd = min(blockEnd, lenFileContent)

	original := make([]byte, blockEnd-blockStart)
	copy(original, file.Content[blockStart:blockEnd])

	rebased := make([]diag.TextEdit, len(edits))
	for i, edit := range edits {
		if edit.Span.Start < blockStart || edit.Span.End > blockEnd {
			return fixPreview{}, fmt.Errorf("edit span [%d, %d) out of range for preview block", edit.Span.Start, edit.Span.End)
		}
		rebased[i] = diag.TextEdit{
			Span: source.Span{
				File:  edit.Span.File,
				Start: edit.Span.Start - blockStart,
				End:   edit.Span.End - blockStart,
			},
			NewText: edit.NewText,
			OldText: edit.OldText,
		}
	}

	after, err := fix.Preview(original, rebased)
	if err != nil {
		return fixPreview{}, err
	}

	return fixPreview{
		before: splitPreviewLines(original),
		after:  splitPreviewLines(after),
	}, nil
}

func splitPreviewLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	return strings.Split(strings.TrimRight(string(content), "\n"), "\n")
}

func lineStartOffset(f *source.File, line uint32) uint32 {
	if line <= 1 {
		return 0
	}
	idx := line - 2
	if int(idx) < len(f.LineIdx) {
		return f.LineIdx[idx] + 1
	}
	lenFileContent, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return lenFileContent
}

func lineEndOffsetInclusive(f *source.File, line uint32) uint32 {
	if line == 0 {
		return 0
	}
	idx := line - 1
	if int(idx) < len(f.LineIdx) {
		return f.LineIdx[idx] + 1
	}
	lenFileContent, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return lenFileContent
}
