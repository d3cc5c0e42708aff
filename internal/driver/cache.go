package driver

import (
	"crypto/sha256"

	lru "github.com/hashicorp/golang-lru/v2"

	"swaplint/internal/diag"
	"swaplint/internal/project"
	"swaplint/internal/source"
)

// cachedDiagnostic is the FileID-free form of a diagnostic. Spans keep only
// their byte offsets; Rebind restores them against whatever FileID the file
// gets in the current FileSet.
type cachedDiagnostic struct {
	Severity uint8
	Code     uint16
	Message  string
	Start    uint32
	End      uint32
	Notes    []cachedNote
	Fixes    []cachedFix
}

type cachedNote struct {
	Start uint32
	End   uint32
	Msg   string
}

type cachedFix struct {
	ID            string
	Title         string
	Kind          uint8
	Applicability uint8
	IsPreferred   bool
	Edits         []cachedEdit
}

type cachedEdit struct {
	Start   uint32
	End     uint32
	NewText string
	OldText string
}

// encodeDiagnostics strips FileIDs from a bag's items. Timing entries are
// per-run and are not cached.
func encodeDiagnostics(items []diag.Diagnostic) []cachedDiagnostic {
	out := make([]cachedDiagnostic, 0, len(items))
	for i := range items {
		d := &items[i]
		if d.Code == diag.ObsTimings {
			continue
		}
		entry := cachedDiagnostic{
			Severity: uint8(d.Severity),
			Code:     uint16(d.Code),
			Message:  d.Message,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
		}
		for _, n := range d.Notes {
			entry.Notes = append(entry.Notes, cachedNote{Start: n.Span.Start, End: n.Span.End, Msg: n.Msg})
		}
		for _, f := range d.Fixes {
			cf := cachedFix{
				ID:            f.ID,
				Title:         f.Title,
				Kind:          uint8(f.Kind),
				Applicability: uint8(f.Applicability),
				IsPreferred:   f.IsPreferred,
			}
			for _, e := range f.Edits {
				cf.Edits = append(cf.Edits, cachedEdit{
					Start:   e.Span.Start,
					End:     e.Span.End,
					NewText: e.NewText,
					OldText: e.OldText,
				})
			}
			entry.Fixes = append(entry.Fixes, cf)
		}
		out = append(out, entry)
	}
	return out
}

// decodeDiagnostics rebinds cached entries to fileID and appends them to bag.
func decodeDiagnostics(entries []cachedDiagnostic, fileID source.FileID, bag *diag.Bag) {
	for _, entry := range entries {
		d := diag.Diagnostic{
			Severity: diag.Severity(entry.Severity),
			Code:     diag.Code(entry.Code),
			Message:  entry.Message,
			Primary:  source.Span{File: fileID, Start: entry.Start, End: entry.End},
		}
		for _, n := range entry.Notes {
			d.Notes = append(d.Notes, diag.Note{
				Span: source.Span{File: fileID, Start: n.Start, End: n.End},
				Msg:  n.Msg,
			})
		}
		for _, f := range entry.Fixes {
			df := diag.Fix{
				ID:            f.ID,
				Title:         f.Title,
				Kind:          diag.FixKind(f.Kind),
				Applicability: diag.FixApplicability(f.Applicability),
				IsPreferred:   f.IsPreferred,
			}
			for _, e := range f.Edits {
				df.Edits = append(df.Edits, diag.TextEdit{
					Span:    source.Span{File: fileID, Start: e.Start, End: e.End},
					NewText: e.NewText,
					OldText: e.OldText,
				})
			}
			d.Fixes = append(d.Fixes, df)
		}
		bag.Add(d)
	}
}

// cacheKey mixes content, language, and configuration. The language matters
// because identical bytes parse differently under different grammars; the
// config fingerprint invalidates results when tuning changes.
func cacheKey(contentHash [32]byte, lang string, fingerprint project.Digest) project.Digest {
	return project.Combine(project.Digest(contentHash), project.Digest(sha256.Sum256([]byte(lang))), fingerprint)
}

// ResultCache is an in-process LRU of per-file results keyed by cacheKey.
// A nil *ResultCache is a valid no-op cache.
type ResultCache struct {
	lru *lru.Cache[project.Digest, []cachedDiagnostic]
}

// NewResultCache creates a cache holding up to capacity files. Non-positive
// capacities fall back to 512.
func NewResultCache(capacity int) (*ResultCache, error) {
	if capacity <= 0 {
		capacity = 512
	}
	inner, err := lru.New[project.Digest, []cachedDiagnostic](capacity)
	if err != nil {
		return nil, err
	}
	return &ResultCache{lru: inner}, nil
}

// Get returns the cached entries for key, if present.
func (c *ResultCache) Get(key project.Digest) ([]cachedDiagnostic, bool) {
	if c == nil {
		return nil, false
	}
	return c.lru.Get(key)
}

// Put stores entries under key.
func (c *ResultCache) Put(key project.Digest, entries []cachedDiagnostic) {
	if c == nil {
		return
	}
	c.lru.Add(key, entries)
}

// Len returns the number of cached files.
func (c *ResultCache) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}
