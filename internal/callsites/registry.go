package callsites

import (
	"path/filepath"
	"sort"
	"strings"

	"swaplint/internal/source"
)

// Extractor turns one loaded file into its call sites.
//
// Implementations are safe for concurrent use; the driver runs one Extract
// per file across a worker pool. Syntax errors inside the file do not fail
// the extraction: the grammar recovers around them and whatever calls remain
// readable are returned.
type Extractor interface {
	// Language returns the language name, e.g. "java" or "go".
	Language() string

	// Extensions returns the file extensions this extractor handles.
	Extensions() []string

	// Extract returns the calls found in file, ordered by span.
	Extract(file *source.File) ([]Call, error)
}

// Registry dispatches files to extractors by extension.
type Registry struct {
	byLang map[string]Extractor
	byExt  map[string]string // extension -> language name
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byLang: make(map[string]Extractor),
		byExt:  make(map[string]string),
	}
}

// NewDefaultRegistry creates a registry with all supported languages.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewJavaExtractor())
	r.Register(NewGoExtractor())
	return r
}

// Register adds an extractor. A later registration for the same language or
// extension wins.
func (r *Registry) Register(x Extractor) {
	r.byLang[x.Language()] = x
	for _, ext := range x.Extensions() {
		r.byExt[strings.ToLower(ext)] = x.Language()
	}
}

// ForFile returns the extractor responsible for path, if any.
func (r *Registry) ForFile(path string) (Extractor, bool) {
	lang, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, false
	}
	x, ok := r.byLang[lang]
	return x, ok
}

// ForLanguage returns the extractor registered under lang.
func (r *Registry) ForLanguage(lang string) (Extractor, bool) {
	x, ok := r.byLang[lang]
	return x, ok
}

// Extensions returns all handled extensions, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Languages returns all registered language names, sorted.
func (r *Registry) Languages() []string {
	langs := make([]string, 0, len(r.byLang))
	for lang := range r.byLang {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}
