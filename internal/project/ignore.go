package project

import (
	"path/filepath"
	"regexp"
	"strings"
)

// IgnoreMatcher applies gitignore-like exclusion rules with last-match-wins
// semantics.
type IgnoreMatcher struct {
	rules []ignoreRule
}

type ignoreRule struct {
	re       *regexp.Regexp
	raw      string
	negated  bool
	dirOnly  bool
	anchored bool
	slashed  bool
}

var defaultIgnoreRules = []string{
	".git/",
	"vendor/",
	"node_modules/",
	"build/",
	"target/",
	"dist/",
	"__pycache__/",
}

// NewIgnoreMatcher builds a matcher from [scan].ignore lines. The standard
// build and VCS directories are prepended so user negation rules can still
// re-include paths beneath them.
func NewIgnoreMatcher(userRules []string) *IgnoreMatcher {
	all := make([]string, 0, len(defaultIgnoreRules)+len(userRules))
	all = append(all, defaultIgnoreRules...)
	all = append(all, userRules...)

	m := &IgnoreMatcher{rules: make([]ignoreRule, 0, len(all))}
	for _, line := range all {
		if r, ok := parseIgnoreRule(line); ok {
			m.rules = append(m.rules, r)
		}
	}
	return m
}

// Ignored reports whether relPath is excluded from the scan. relPath is
// taken relative to the scan root.
func (m *IgnoreMatcher) Ignored(relPath string, isDir bool) bool {
	relPath = normalizeIgnorePath(relPath)
	ignored := false
	for i := range m.rules {
		if m.rules[i].matches(relPath, isDir) {
			ignored = !m.rules[i].negated
		}
	}
	return ignored
}

func parseIgnoreRule(line string) (ignoreRule, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return ignoreRule{}, false
	}

	var r ignoreRule
	if strings.HasPrefix(line, "!") {
		r.negated = true
		line = line[1:]
	}
	if strings.HasPrefix(line, "/") {
		r.anchored = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		r.dirOnly = true
		line = line[:len(line)-1]
	}

	line = normalizeIgnorePath(line)
	if line == "" {
		return ignoreRule{}, false
	}
	r.raw = line
	r.slashed = strings.Contains(line, "/")

	re, err := regexp.Compile("^" + globRegexp(line) + "$")
	if err != nil {
		return ignoreRule{}, false
	}
	r.re = re
	return r, true
}

func (r *ignoreRule) matches(relPath string, isDir bool) bool {
	if r.dirOnly {
		// The named directory itself, or anything beneath it.
		if relPath == r.raw || strings.HasPrefix(relPath, r.raw+"/") {
			return true
		}
		if r.anchored {
			return false
		}
		segments := strings.Split(relPath, "/")
		for i := range segments {
			if strings.Join(segments[:i+1], "/") == r.raw {
				return true
			}
		}
		return isDir && r.re.MatchString(segments[len(segments)-1])
	}

	if r.anchored {
		return r.re.MatchString(relPath)
	}

	if r.slashed {
		if r.re.MatchString(relPath) {
			return true
		}
		segments := strings.Split(relPath, "/")
		for i := 1; i < len(segments); i++ {
			if r.re.MatchString(strings.Join(segments[i:], "/")) {
				return true
			}
		}
		return false
	}

	for _, segment := range strings.Split(relPath, "/") {
		if r.re.MatchString(segment) {
			return true
		}
	}
	return false
}

// globRegexp translates a gitignore glob into regexp source. "**" crosses
// path separators, "*" and "?" stop at them.
func globRegexp(pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		ch := pattern[i]
		switch {
		case ch == '*':
			if i+1 < len(pattern) && pattern[i+1] == '*' {
				b.WriteString(".*")
				i++
			} else {
				b.WriteString("[^/]*")
			}
		case ch == '?':
			b.WriteString("[^/]")
		case strings.ContainsRune(`.+()|[]{}^$\`, rune(ch)):
			b.WriteByte('\\')
			b.WriteByte(ch)
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

func normalizeIgnorePath(p string) string {
	p = filepath.ToSlash(p)
	p = strings.TrimPrefix(p, "./")
	return strings.TrimPrefix(p, "/")
}
