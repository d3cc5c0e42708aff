package project

import "testing"

func TestIgnoreMatcherDefaultsAndUserOverrides(t *testing.T) {
	m := NewIgnoreMatcher([]string{
		"generated/**",
		"!generated/keep/Main.java",
		"*.tmp",
	})

	cases := []struct {
		path    string
		isDir   bool
		ignored bool
	}{
		{path: ".git/config", isDir: false, ignored: true},
		{path: "node_modules/pkg/index.js", isDir: false, ignored: true},
		{path: "target/classes/App.class", isDir: false, ignored: true},
		{path: "vendor/lib/a.go", isDir: false, ignored: true},
		{path: "generated/api/Client.java", isDir: false, ignored: true},
		{path: "generated/keep/Main.java", isDir: false, ignored: false},
		{path: "nested/cache.tmp", isDir: false, ignored: true},
		{path: "src/test/java/CalcTest.java", isDir: false, ignored: false},
	}

	for _, tc := range cases {
		got := m.Ignored(tc.path, tc.isDir)
		if got != tc.ignored {
			t.Fatalf("path %s: expected ignored=%v, got %v", tc.path, tc.ignored, got)
		}
	}
}

func TestIgnoreMatcherNegatedDirectoryRule(t *testing.T) {
	m := NewIgnoreMatcher([]string{
		"out/",
		"!out/reports/",
	})

	if !m.Ignored("out/scratch/file.java", false) {
		t.Fatalf("expected out/scratch/file.java to be ignored")
	}
	if m.Ignored("out/reports/file.java", false) {
		t.Fatalf("expected out/reports/file.java to be included")
	}
}

func TestIgnoreMatcherAnchoredRule(t *testing.T) {
	m := NewIgnoreMatcher([]string{"/docs/"})

	if !m.Ignored("docs/readme.md", false) {
		t.Error("expected top-level docs to be ignored")
	}
	if m.Ignored("src/docs/readme.md", false) {
		t.Error("expected nested docs to be kept for an anchored rule")
	}
}

func TestIgnoreMatcherSegmentGlobs(t *testing.T) {
	m := NewIgnoreMatcher([]string{"*.class"})

	if !m.Ignored("out/com/app/Main.class", false) {
		t.Error("expected *.class to match at any depth")
	}
	if m.Ignored("src/Main.java", false) {
		t.Error("expected non-matching file to be kept")
	}
}

func TestIgnoreMatcherDirectoryGlobQuery(t *testing.T) {
	m := NewIgnoreMatcher([]string{"temp*/"})

	// Directory walks ask about the directory itself and prune there.
	if !m.Ignored("tempfiles", true) {
		t.Error("expected glob directory rule to match the directory entry")
	}
	if m.Ignored("template.java", false) {
		t.Error("expected directory-only rule to leave files alone")
	}
}

func TestIgnoreMatcherSkipsCommentsAndBlanks(t *testing.T) {
	m := NewIgnoreMatcher([]string{"", "# just a comment", "scratch/"})

	if !m.Ignored("scratch/notes.txt", false) {
		t.Error("expected scratch/ rule to survive surrounding noise")
	}
	if m.Ignored("just a comment", false) {
		t.Error("comment lines must not become rules")
	}
}
