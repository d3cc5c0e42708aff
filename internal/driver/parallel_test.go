package driver

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"swaplint/internal/diag"
	"swaplint/internal/project"
)

const swappedGo = `package demo

import "testing"

func TestAdd(t *testing.T) {
	result := add(3, 4)
	assert.Equal(t, result, EXPECTED)
}
`

func TestAnalyzeDirFindsAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, filepath.Join("src", "CalcTest.java"), swappedJava)
	writeSource(t, dir, filepath.Join("src", "util", "StringTest.java"), orderedJava)
	writeSource(t, dir, "add_test.go", swappedGo)

	fs, results, err := AnalyzeDir(context.Background(), dir, Options{})
	if err != nil {
		t.Fatalf("AnalyzeDir: %v", err)
	}
	if fs == nil {
		t.Fatal("expected a fileset")
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if !sort.SliceIsSorted(results, func(i, j int) bool { return results[i].Path < results[j].Path }) {
		t.Error("results should be ordered by path")
	}

	findings := make(map[string]int, len(results))
	for _, res := range results {
		rel, err := filepath.Rel(dir, res.Path)
		if err != nil {
			t.Fatalf("rel: %v", err)
		}
		findings[filepath.ToSlash(rel)] = len(findCode(res.Bag, diag.ChkArgumentsSwapped))
	}
	want := map[string]int{
		"add_test.go":              1,
		"src/CalcTest.java":        1,
		"src/util/StringTest.java": 0,
	}
	for path, n := range want {
		if findings[path] != n {
			t.Errorf("%s: expected %d findings, got %d (all: %v)", path, n, findings[path], findings)
		}
	}
}

func TestAnalyzeDirHonorsIgnoreRules(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, filepath.Join("src", "CalcTest.java"), swappedJava)
	writeSource(t, dir, filepath.Join("generated", "GenTest.java"), swappedJava)

	cfg := project.Default()
	cfg.Scan.Ignore = []string{"generated/"}

	_, results, err := AnalyzeDir(context.Background(), dir, Options{Config: &cfg})
	if err != nil {
		t.Fatalf("AnalyzeDir: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected the generated tree to be pruned, got %d results", len(results))
	}
	if filepath.Base(results[0].Path) != "CalcTest.java" {
		t.Errorf("unexpected surviving path %q", results[0].Path)
	}
}

func TestAnalyzeDirSkipsDefaultDirs(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, filepath.Join("src", "CalcTest.java"), orderedJava)
	writeSource(t, dir, filepath.Join("target", "CalcTest.java"), swappedJava)
	writeSource(t, dir, filepath.Join("node_modules", "dep", "DepTest.java"), swappedJava)
	writeSource(t, dir, filepath.Join(".git", "hooks", "HookTest.java"), swappedJava)

	_, results, err := AnalyzeDir(context.Background(), dir, Options{})
	if err != nil {
		t.Fatalf("AnalyzeDir: %v", err)
	}
	if len(results) != 1 {
		paths := make([]string, len(results))
		for i, res := range results {
			paths[i] = res.Path
		}
		t.Fatalf("expected only src to be scanned, got %v", paths)
	}
}

func TestAnalyzeDirLanguageFilter(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "CalcTest.java", swappedJava)
	writeSource(t, dir, "add_test.go", swappedGo)

	cfg := project.Default()
	cfg.Scan.Langs = []string{"java"}

	_, results, err := AnalyzeDir(context.Background(), dir, Options{Config: &cfg})
	if err != nil {
		t.Fatalf("AnalyzeDir: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected only the java file, got %d results", len(results))
	}
	if filepath.Ext(results[0].Path) != ".java" {
		t.Errorf("unexpected path %q", results[0].Path)
	}
}

func TestAnalyzeDirEmpty(t *testing.T) {
	fs, results, err := AnalyzeDir(context.Background(), t.TempDir(), Options{})
	if err != nil {
		t.Fatalf("AnalyzeDir: %v", err)
	}
	if fs == nil {
		t.Fatal("expected a fileset even for an empty tree")
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

func TestAnalyzeDirBrokenSymlink(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "CalcTest.java", orderedJava)
	if err := os.Symlink(filepath.Join(dir, "missing.java"), filepath.Join(dir, "Broken.java")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	fs, results, err := AnalyzeDir(context.Background(), dir, Options{})
	if err != nil {
		t.Fatalf("AnalyzeDir: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	var ioDiags int
	for _, res := range results {
		diags := findCode(res.Bag, diag.IOLoadFileError)
		ioDiags += len(diags)
		for _, d := range diags {
			// The placeholder entry keeps the diagnostic on the file that
			// failed, not on whatever loaded first.
			got := fs.Get(d.Primary.File).Path
			if filepath.Base(got) != "Broken.java" {
				t.Errorf("load error attributed to %q", got)
			}
		}
	}
	if ioDiags != 1 {
		t.Fatalf("expected 1 load-error diagnostic, got %d", ioDiags)
	}
}

func TestAnalyzeDirProgressEvents(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "CalcTest.java", swappedJava)
	writeSource(t, dir, "StringTest.java", orderedJava)

	var mu sync.Mutex
	var events []Event
	opts := Options{
		Jobs: 2,
		Progress: func(ev Event) {
			mu.Lock()
			events = append(events, ev)
			mu.Unlock()
		},
	}

	if _, _, err := AnalyzeDir(context.Background(), dir, opts); err != nil {
		t.Fatalf("AnalyzeDir: %v", err)
	}

	if len(events) != 4 {
		t.Fatalf("expected start+done per file, got %d events: %+v", len(events), events)
	}
	byPath := make(map[string][]Event)
	for _, ev := range events {
		byPath[filepath.Base(ev.Path)] = append(byPath[filepath.Base(ev.Path)], ev)
	}
	for _, name := range []string{"CalcTest.java", "StringTest.java"} {
		evs := byPath[name]
		if len(evs) != 2 {
			t.Fatalf("%s: expected 2 events, got %+v", name, evs)
		}
		if evs[0].State != EventStart || evs[1].State != EventDone {
			t.Errorf("%s: expected start then done, got %s then %s", name, evs[0].State, evs[1].State)
		}
	}
	calc := byPath["CalcTest.java"][1]
	if calc.Findings != 1 {
		t.Errorf("CalcTest.java: expected 1 finding in the done event, got %d", calc.Findings)
	}
}

func TestAnalyzeDirCachedEvents(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "CalcTest.java", swappedJava)

	cache, err := NewResultCache(16)
	if err != nil {
		t.Fatalf("NewResultCache: %v", err)
	}

	if _, _, err := AnalyzeDir(context.Background(), dir, Options{Cache: cache}); err != nil {
		t.Fatalf("first AnalyzeDir: %v", err)
	}

	var mu sync.Mutex
	var states []EventState
	opts := Options{
		Cache: cache,
		Progress: func(ev Event) {
			mu.Lock()
			states = append(states, ev.State)
			mu.Unlock()
		},
	}
	_, results, err := AnalyzeDir(context.Background(), dir, opts)
	if err != nil {
		t.Fatalf("second AnalyzeDir: %v", err)
	}
	if len(results) != 1 || !results[0].Cached {
		t.Fatalf("expected a cached result, got %+v", results)
	}
	if len(states) != 2 || states[1] != EventCached {
		t.Fatalf("expected a cached event, got %v", states)
	}
}

func TestAnalyzeDirCanceledContext(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "CalcTest.java", swappedJava)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := AnalyzeDir(ctx, dir, Options{})
	if err == nil {
		t.Fatal("expected a context error")
	}
}
