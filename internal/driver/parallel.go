package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"swaplint/internal/callsites"
	"swaplint/internal/diag"
	"swaplint/internal/observ"
	"swaplint/internal/project"
	"swaplint/internal/source"
)

// DirResult holds one file's outcome from AnalyzeDir.
type DirResult struct {
	Path   string // path as walked, relative to the invocation
	FileID source.FileID
	Calls  []callsites.Call
	Bag    *diag.Bag
	Timing *observ.Report
	Cached bool
}

// listSourceFiles returns the sorted list of analyzable files under root.
// Ignore rules prune whole directories before descent.
func listSourceFiles(root string, exts map[string]bool, ignore *project.IgnoreMatcher) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		if d.IsDir() {
			if ignore.Ignored(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if !exts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		if ignore.Ignored(rel, false) {
			return nil
		}
		files = append(files, path)
		return nil
	})

	if err != nil {
		return nil, err
	}

	// Sorted for a deterministic result order.
	sort.Strings(files)
	return files, nil
}

// ListFiles returns the files AnalyzeDir would analyze under dir, in the
// same order. Callers seeding progress displays get paths that match the
// Event.Path values the run will emit.
func ListFiles(dir string, opts Options) ([]string, error) {
	sess, err := newSession(opts)
	if err != nil {
		return nil, err
	}
	return listSourceFiles(dir, sess.exts, sess.ignore)
}

// AnalyzeDir analyzes every supported file under dir in parallel. The
// returned slice is ordered by path regardless of worker scheduling.
func AnalyzeDir(ctx context.Context, dir string, opts Options) (*source.FileSet, []DirResult, error) {
	sess, err := newSession(opts)
	if err != nil {
		return nil, nil, err
	}

	files, err := listSourceFiles(dir, sess.exts, sess.ignore)
	if err != nil {
		return nil, nil, err
	}

	if len(files) == 0 {
		return source.NewFileSetWithBase(dir), nil, nil
	}

	// Preload every file up front. Workers never append to the FileSet, so
	// File pointers handed out during analysis stay valid.
	fileSet := source.NewFileSetWithBase(dir)
	fileIDs := make(map[string]source.FileID, len(files))
	loadErrors := make(map[string]error, len(files))

	for _, path := range files {
		fileID, err := fileSet.Load(path)
		if err != nil {
			loadErrors[path] = err
			// An empty placeholder entry keeps the path addressable, so
			// the load diagnostic renders against the right file.
			fileID = fileSet.AddVirtual(path, nil)
		}
		fileIDs[path] = fileID
	}

	jobs := sess.jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Each worker writes its own index, so no mutex is needed.
	results := make([]DirResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func(i int, path string) func() error {
			return func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				sess.emit(Event{Path: path, State: EventStart})

				fileID := fileIDs[path]

				if loadErr, hadError := loadErrors[path]; hadError {
					bag := diag.NewBag(sess.maxDiagnostics)
					bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{File: fileID},
						"failed to load file: "+loadErr.Error()))
					results[i] = DirResult{Path: path, FileID: fileID, Bag: bag}
					sess.emit(Event{Path: path, State: EventFailed, Findings: countFindings(bag)})
					return nil
				}

				res := sess.analyzeLoaded(fileSet, fileID, sess.newTimer())
				results[i] = DirResult{
					Path:   path,
					FileID: fileID,
					Calls:  res.Calls,
					Bag:    res.Bag,
					Timing: res.Timing,
					Cached: res.Cached,
				}

				state := EventDone
				if res.Cached {
					state = EventCached
				}
				sess.emit(Event{Path: path, State: state, Findings: countFindings(res.Bag)})
				return nil
			}
		}(i, path))
	}

	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}

	return fileSet, results, nil
}
