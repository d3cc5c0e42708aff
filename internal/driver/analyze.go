// Package driver orchestrates the analysis pipeline: it loads files into a
// FileSet, extracts call sites, runs the configured checkers, and collects
// diagnostics. AnalyzeFile handles one file; AnalyzeDir fans a directory
// walk out over a worker pool. Both paths share the per-content caches.
package driver

import (
	"context"
	"fmt"
	"path/filepath"
	"unicode/utf8"

	"swaplint/internal/callsites"
	"swaplint/internal/checks"
	"swaplint/internal/diag"
	"swaplint/internal/observ"
	"swaplint/internal/project"
	"swaplint/internal/source"
)

// Result holds everything produced for one analyzed file.
type Result struct {
	FileSet *source.FileSet
	File    *source.File
	FileID  source.FileID
	Calls   []callsites.Call
	Bag     *diag.Bag
	Timing  *observ.Report
	// Cached reports that diagnostics came from a cache. Calls is nil then:
	// cached entries carry findings, not the extraction they came from.
	Cached bool
}

// Options configures AnalyzeFile and AnalyzeDir.
type Options struct {
	// Config supplies scan and checker tuning. Nil means project.Default().
	Config *project.Config
	// Extractors overrides the default language registry.
	Extractors *callsites.Registry
	// Checks overrides the checkers built from Config.
	Checks *checks.Registry
	// MaxDiagnostics caps each file's bag. Zero falls back to the config.
	MaxDiagnostics int
	// Jobs bounds AnalyzeDir's worker pool. Zero or negative means
	// GOMAXPROCS.
	Jobs             int
	IgnoreWarnings   bool
	WarningsAsErrors bool
	EnableTimings    bool
	// Cache serves repeated analyses of unchanged content within the
	// process. Optional.
	Cache *ResultCache
	// DiskCache persists results across runs. Optional.
	DiskCache *DiskCache
	// Progress receives per-file events during AnalyzeDir. Optional.
	Progress ProgressFunc
}

// UnknownLanguageError reports a [scan].langs entry with no extractor.
type UnknownLanguageError struct {
	Lang string
}

func (e *UnknownLanguageError) Error() string {
	return fmt.Sprintf("unknown language %q in [scan].langs", e.Lang)
}

// CheckersFromConfig builds the registry of checkers the configuration
// enables, compiled with their configured patterns.
func CheckersFromConfig(cfg project.Config) (*checks.Registry, error) {
	r := checks.NewRegistry()
	if cfg.Checks.AssertOrder.Enabled {
		assertOrder, err := checks.NewAssertOrder(checks.AssertOrderConfig{
			Functions:          cfg.Checks.AssertOrder.Functions,
			Qualifiers:         cfg.Checks.AssertOrder.Qualifiers,
			ExcludeArgTypes:    cfg.Checks.AssertOrder.ExcludeArgTypes,
			ExcludeAnnotations: cfg.Checks.AssertOrder.ExcludeAnnotations,
			Signatures:         cfg.Checks.AssertOrder.Signatures,
		})
		if err != nil {
			return nil, err
		}
		r.Register(assertOrder)
	}
	return r, nil
}

// session is the per-run view of Options with registries, patterns, and
// the config fingerprint resolved once. Workers share one instance.
type session struct {
	extractors       *callsites.Registry
	checkers         []checks.Checker
	ignore           *project.IgnoreMatcher
	exts             map[string]bool
	fingerprint      project.Digest
	maxDiagnostics   int
	jobs             int
	ignoreWarnings   bool
	warningsAsErrors bool
	timings          bool
	memCache         *ResultCache
	diskCache        *DiskCache
	progress         ProgressFunc
}

func newSession(opts Options) (*session, error) {
	cfg := project.Default()
	if opts.Config != nil {
		cfg = *opts.Config
	}

	extractors := opts.Extractors
	if extractors == nil {
		extractors = callsites.NewDefaultRegistry()
	}

	checkReg := opts.Checks
	if checkReg == nil {
		var err error
		checkReg, err = CheckersFromConfig(cfg)
		if err != nil {
			return nil, err
		}
	}

	exts, err := scanExtensions(extractors, cfg.Scan.Langs)
	if err != nil {
		return nil, err
	}

	maxDiagnostics := opts.MaxDiagnostics
	if maxDiagnostics <= 0 {
		maxDiagnostics = cfg.Output.MaxDiagnostics
	}
	if maxDiagnostics <= 0 {
		maxDiagnostics = 100
	}

	return &session{
		extractors:       extractors,
		checkers:         checkReg.All(),
		ignore:           project.NewIgnoreMatcher(cfg.Scan.Ignore),
		exts:             exts,
		fingerprint:      cfg.Fingerprint(),
		maxDiagnostics:   maxDiagnostics,
		jobs:             opts.Jobs,
		ignoreWarnings:   opts.IgnoreWarnings,
		warningsAsErrors: opts.WarningsAsErrors,
		timings:          opts.EnableTimings,
		memCache:         opts.Cache,
		diskCache:        opts.DiskCache,
		progress:         opts.Progress,
	}, nil
}

// scanExtensions resolves the configured languages to the set of file
// extensions worth walking. An empty language list means every registered
// language.
func scanExtensions(reg *callsites.Registry, langs []string) (map[string]bool, error) {
	exts := make(map[string]bool)
	if len(langs) == 0 {
		for _, ext := range reg.Extensions() {
			exts[ext] = true
		}
		return exts, nil
	}
	for _, lang := range langs {
		x, ok := reg.ForLanguage(lang)
		if !ok {
			return nil, &UnknownLanguageError{Lang: lang}
		}
		for _, ext := range x.Extensions() {
			exts[ext] = true
		}
	}
	return exts, nil
}

// AnalyzeFile loads a single file, extracts its call sites, and runs every
// configured checker over them.
func AnalyzeFile(ctx context.Context, path string, opts Options) (*Result, error) {
	sess, err := newSession(opts)
	if err != nil {
		return nil, err
	}
	return sess.analyzePath(ctx, path)
}

func (s *session) analyzePath(ctx context.Context, path string) (*Result, error) {
	timer := s.newTimer()

	loadIdx := -1
	if timer != nil {
		loadIdx = timer.Begin("load_file")
	}
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if timer != nil {
		timer.End(loadIdx, "")
	}
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return s.analyzeLoaded(fs, fileID, timer), nil
}

func (s *session) newTimer() *observ.Timer {
	if !s.timings {
		return nil
	}
	return observ.NewTimer()
}

// analyzeLoaded runs extraction and checking for one already-loaded file.
// It never fails: everything that goes wrong becomes a diagnostic.
func (s *session) analyzeLoaded(fs *source.FileSet, fileID source.FileID, timer *observ.Timer) *Result {
	begin := func(name string) int {
		if timer == nil {
			return -1
		}
		return timer.Begin(name)
	}
	end := func(idx int, note string) {
		if timer == nil || idx < 0 {
			return
		}
		timer.End(idx, note)
	}

	file := fs.Get(fileID)
	bag := diag.NewBag(s.maxDiagnostics)
	res := &Result{FileSet: fs, File: file, FileID: fileID, Bag: bag}

	extractor, hasExtractor := s.extractors.ForFile(file.Path)

	var key project.Digest
	cacheable := hasExtractor && (s.memCache != nil || s.diskCache != nil)
	if cacheable {
		key = cacheKey(file.Hash, extractor.Language(), s.fingerprint)
		if entries, ok := s.lookupCached(key); ok {
			decodeDiagnostics(entries, fileID, bag)
			res.Cached = true
			s.finish(res, timer)
			return res
		}
	}

	extractIdx := begin("extract")
	var calls []callsites.Call
	switch {
	case !hasExtractor:
		bag.Add(diag.NewError(diag.ParseNoGrammar, source.Span{File: fileID},
			fmt.Sprintf("no grammar registered for %q files", filepath.Ext(file.Path))))
	case !utf8.Valid(file.Content):
		bag.Add(diag.NewError(diag.ParseEncodingInvalid, source.Span{File: fileID},
			"file content is not valid UTF-8"))
	default:
		var err error
		calls, err = extractor.Extract(file)
		if err != nil {
			bag.Add(diag.NewError(diag.ParseFailed, source.Span{File: fileID},
				fmt.Sprintf("extraction failed: %v", err)))
		}
	}
	extractNote := ""
	if timer != nil {
		extractNote = fmt.Sprintf("calls=%d", len(calls))
	}
	end(extractIdx, extractNote)
	res.Calls = calls

	checkIdx := begin("check")
	reporter := diag.BagReporter{Bag: bag}
	for _, c := range s.checkers {
		c.Check(reporter, file, calls)
	}
	checkNote := ""
	if timer != nil {
		checkNote = fmt.Sprintf("diags=%d", bag.Len())
	}
	end(checkIdx, checkNote)

	bag.Sort()

	if cacheable {
		s.storeCached(key, encodeDiagnostics(bag.Items()))
	}

	s.finish(res, timer)
	return res
}

// finish applies the per-run view transforms and the timing entry. Caches
// are written before this point, so cached results stay transform-free.
func (s *session) finish(res *Result, timer *observ.Timer) {
	bag := res.Bag
	if s.ignoreWarnings {
		bag.Filter(func(d *diag.Diagnostic) bool {
			return d.Severity != diag.SevWarning && d.Severity != diag.SevInfo
		})
	}
	if s.warningsAsErrors {
		bag.Transform(func(d *diag.Diagnostic) {
			if d.Severity == diag.SevWarning {
				d.Severity = diag.SevError
			}
		})
		// Severity changed, restore the sort order.
		bag.Sort()
	}

	if timer != nil {
		report := timer.Report()
		res.Timing = &report
		appendTimingDiagnostic(bag, timingPayload{
			Kind:    "file",
			Path:    res.File.Path,
			TotalMS: report.TotalMS,
			Phases:  report.Phases,
		})
	}
}

func (s *session) lookupCached(key project.Digest) ([]cachedDiagnostic, bool) {
	if entries, ok := s.memCache.Get(key); ok {
		return entries, true
	}
	entries, ok, err := s.diskCache.Get(key)
	if err != nil || !ok {
		return nil, false
	}
	s.memCache.Put(key, entries)
	return entries, true
}

func (s *session) storeCached(key project.Digest, entries []cachedDiagnostic) {
	s.memCache.Put(key, entries)
	// Disk writes are best effort; a failed write just means a re-analysis
	// next run.
	_ = s.diskCache.Put(key, entries)
}

func (s *session) emit(ev Event) {
	if s.progress == nil {
		return
	}
	s.progress(ev)
}

// countFindings counts warnings and errors, leaving info entries out.
func countFindings(bag *diag.Bag) int {
	n := 0
	for _, d := range bag.Items() {
		if d.Severity >= diag.SevWarning {
			n++
		}
	}
	return n
}
