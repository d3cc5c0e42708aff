package checks

import (
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"

	"swaplint/internal/args"
	"swaplint/internal/callsites"
	"swaplint/internal/diag"
	"swaplint/internal/fix"
	"swaplint/internal/reorder"
	"swaplint/internal/source"
)

// AssertOrderConfig tunes the assert-order checker. Zero fields fall back
// to the defaults.
type AssertOrderConfig struct {
	// Functions are patterns matched against the callee name.
	Functions []string
	// Qualifiers is the allowlist for qualified calls. Unqualified calls
	// (static imports, package-local helpers) always pass.
	Qualifiers []string
	// ExcludeArgTypes are patterns matched against each argument's type
	// hint and derived name; one hit skips the whole call.
	ExcludeArgTypes []string
	// ExcludeAnnotations suppress calls inside methods carrying one of
	// these annotations (simple names).
	ExcludeAnnotations []string
	// Signatures overrides the formal names per callee. A callee listed
	// here is only scored at exactly this arity.
	Signatures map[string][]string
}

// DefaultAssertOrderConfig covers JUnit's assert family and testify's
// Equal family.
func DefaultAssertOrderConfig() AssertOrderConfig {
	return AssertOrderConfig{
		Functions: []string{
			`^assert`,
			`^(Equal|NotEqual|Same|NotSame|EqualValues)$`,
		},
		Qualifiers: []string{
			"Assert", "org.junit.Assert",
			"TestCase", "junit.framework.TestCase", "junit.framework.Assert",
			"assert", "require",
		},
		ExcludeArgTypes:    []string{`(?i)(exception|throwable)$`},
		ExcludeAnnotations: []string{"BeforeTemplate"},
	}
}

// maxScoredArity bounds the exhaustive assignment search. Signature
// overrides are the only way past the built-in shapes, and 8!
// permutations per call site is the largest matrix worth solving.
const maxScoredArity = 8

// AssertOrder flags assertEquals-style calls whose arguments are likely
// passed in the wrong order and proposes the reordering as a fix.
type AssertOrder struct {
	functions       []*regexp2.Regexp
	qualifiers      map[string]bool
	excludeArgTypes []*regexp2.Regexp
	excludeAnns     map[string]bool
	signatures      map[string][]string
	finder          *reorder.Finder
}

// NewAssertOrder compiles the configuration into a ready checker.
func NewAssertOrder(cfg AssertOrderConfig) (*AssertOrder, error) {
	def := DefaultAssertOrderConfig()
	if len(cfg.Functions) == 0 {
		cfg.Functions = def.Functions
	}
	if len(cfg.Qualifiers) == 0 {
		cfg.Qualifiers = def.Qualifiers
	}
	if len(cfg.ExcludeArgTypes) == 0 {
		cfg.ExcludeArgTypes = def.ExcludeArgTypes
	}
	if len(cfg.ExcludeAnnotations) == 0 {
		cfg.ExcludeAnnotations = def.ExcludeAnnotations
	}

	c := &AssertOrder{
		qualifiers:  make(map[string]bool, len(cfg.Qualifiers)),
		excludeAnns: make(map[string]bool, len(cfg.ExcludeAnnotations)),
		signatures:  cfg.Signatures,
	}
	for _, p := range cfg.Functions {
		re, err := regexp2.Compile(p, regexp2.None)
		if err != nil {
			return nil, fmt.Errorf("assert-order: function pattern %q: %w", p, err)
		}
		c.functions = append(c.functions, re)
	}
	for _, p := range cfg.ExcludeArgTypes {
		re, err := regexp2.Compile(p, regexp2.None)
		if err != nil {
			return nil, fmt.Errorf("assert-order: exclude-arg-types pattern %q: %w", p, err)
		}
		c.excludeArgTypes = append(c.excludeArgTypes, re)
	}
	for _, q := range cfg.Qualifiers {
		c.qualifiers[q] = true
	}
	for _, a := range cfg.ExcludeAnnotations {
		c.excludeAnns[a] = true
	}

	finder, err := reorder.NewBuilder().
		Distance(assertDistance).
		AddHeuristic(reorder.CostImprovement()).
		AddHeuristic(reorder.NoDuplicateCall()).
		Build()
	if err != nil {
		return nil, fmt.Errorf("assert-order: %w", err)
	}
	c.finder = finder
	return c, nil
}

func (c *AssertOrder) Name() string {
	return "assert-order"
}

func (c *AssertOrder) Check(r diag.Reporter, file *source.File, calls []callsites.Call) {
	goFile := strings.HasSuffix(file.Path, ".go")
	for i := range calls {
		call := &calls[i]
		formals, ok := c.candidate(call, goFile)
		if !ok {
			continue
		}
		if call.Arity() > maxScoredArity {
			diag.ReportInfo(r, diag.ParseTooManyArgs, call.ArgListSpan,
				fmt.Sprintf("%s: %d arguments exceed the %d-argument scoring limit", call.Callee, call.Arity(), maxScoredArity)).
				Emit()
			continue
		}
		if c.hasExcludedArg(call) {
			continue
		}
		inv, err := buildInvocation(call, formals, siblingRenders(calls, call))
		if err != nil {
			continue
		}
		ch := c.finder.Find(inv)
		if ch.IsEmpty() {
			continue
		}
		c.report(r, call, inv, ch)
	}
}

// candidate applies the callee, qualifier, annotation and shape filters,
// returning the formal names for calls worth scoring.
func (c *AssertOrder) candidate(call *callsites.Call, goFile bool) ([]string, bool) {
	if !c.matchesCallee(call.Callee) {
		return nil, false
	}
	if !c.allowsQualifier(call.Qualifier) {
		return nil, false
	}
	if c.annotationSuppressed(call) {
		return nil, false
	}
	return c.formalsFor(call, goFile)
}

// assertDistance scores a formal/actual pairing for assertEquals-shaped
// signatures. Constants and enums belong in the expected slot: pairing one
// with "expected" is free while pairing one with "actual" costs a unit even
// if its name starts with "actual". Every other formal is pinned to its own
// position.
func assertDistance(pair args.Pair) float64 {
	switch pair.Formal.Name {
	case "expected":
		if pair.Actual.Constant || pair.Actual.Enum {
			return 0
		}
		if strings.HasPrefix(pair.Actual.Name, "expected") {
			return 0
		}
		return 1
	case "actual":
		if pair.Actual.Constant || pair.Actual.Enum {
			return 1
		}
		if strings.HasPrefix(pair.Actual.Name, "actual") {
			return 0
		}
		return 1
	default:
		if pair.Formal.Index == pair.Actual.Index {
			return 0
		}
		return reorder.Forbidden()
	}
}

func (c *AssertOrder) matchesCallee(name string) bool {
	for _, re := range c.functions {
		if ok, err := re.MatchString(name); err == nil && ok {
			return true
		}
	}
	return false
}

func (c *AssertOrder) allowsQualifier(q string) bool {
	if q == "" || len(c.qualifiers) == 0 {
		return true
	}
	return c.qualifiers[q] || c.qualifiers[simpleName(q)]
}

func (c *AssertOrder) annotationSuppressed(call *callsites.Call) bool {
	for _, ann := range call.EnclosingAnnotations {
		if c.excludeAnns[simpleName(ann)] {
			return true
		}
	}
	return false
}

func (c *AssertOrder) hasExcludedArg(call *callsites.Call) bool {
	for _, a := range call.Args {
		for _, re := range c.excludeArgTypes {
			if patternHits(re, a.TypeHint) || patternHits(re, a.Name) {
				return true
			}
		}
	}
	return false
}

// formalsFor resolves the formal names the call is scored against. Calls
// with no known shape at their arity are never scored.
func (c *AssertOrder) formalsFor(call *callsites.Call, goFile bool) ([]string, bool) {
	if names, ok := c.signatures[call.Callee]; ok {
		if len(names) != call.Arity() {
			return nil, false
		}
		return names, true
	}
	switch call.Arity() {
	case 2:
		return []string{"expected", "actual"}, true
	case 3:
		if goFile {
			// testify shape: the testing handle rides in front.
			return []string{"t", "expected", "actual"}, true
		}
		// JUnit's three-argument form carries the failure message first.
		// Requiring a message-looking argument keeps the delta overloads
		// (expected, actual, delta) out of scope.
		if looksLikeMessage(call.Args[0]) {
			return []string{"message", "expected", "actual"}, true
		}
		return nil, false
	}
	return nil, false
}

func (c *AssertOrder) report(r diag.Reporter, call *callsites.Call, inv *args.Invocation, ch reorder.Changes) {
	proposed := ch.Render(inv)
	reorderFix := fix.NewFix(
		fmt.Sprintf("reorder arguments to (%s)", proposed),
		ch.Edits(inv),
		fix.Preferred(),
		fix.WithApplicability(diag.ApplicabilitySafeWithHeuristics),
	)
	diag.ReportWarning(r, diag.ChkArgumentsSwapped, call.ArgListSpan,
		fmt.Sprintf("%s: arguments appear to be in the wrong order", call.Callee)).
		WithNote(call.ArgListSpan, fmt.Sprintf("expected order is %s(%s)", call.Callee, proposed)).
		WithFixSuggestion(reorderFix).
		Emit()
}

func buildInvocation(call *callsites.Call, formalNames []string, siblings []string) (*args.Invocation, error) {
	formals := make([]args.Parameter, len(formalNames))
	for i, name := range formalNames {
		formals[i] = args.Parameter{Index: i, Name: name}
	}
	actuals := make([]args.Parameter, len(call.Args))
	for i, a := range call.Args {
		actuals[i] = args.Parameter{
			Index:    i,
			Name:     a.Name,
			Text:     a.Text,
			Span:     a.Span,
			Kind:     a.Kind,
			Constant: a.Constant,
			Enum:     a.Enum,
			Type:     a.TypeHint,
		}
	}
	var opts []args.InvocationOption
	if len(siblings) > 0 {
		opts = append(opts, args.WithSiblings(siblings))
	}
	return args.NewInvocation(call.Callee, call.Span, formals, actuals, opts...)
}

// siblingRenders collects the argument lists of other same-callee,
// same-arity calls in the same enclosing function.
func siblingRenders(calls []callsites.Call, self *callsites.Call) []string {
	var out []string
	for i := range calls {
		other := &calls[i]
		if other.Span == self.Span {
			continue
		}
		if other.Callee != self.Callee || other.Arity() != self.Arity() {
			continue
		}
		if other.EnclosingSpan != self.EnclosingSpan {
			continue
		}
		out = append(out, other.RenderArgs())
	}
	return out
}

// looksLikeMessage reports whether the argument reads as a failure message:
// a string literal, or a name ending in msg/message.
func looksLikeMessage(a callsites.Arg) bool {
	if a.Kind == args.KindLiteral && strings.HasPrefix(a.Text, `"`) {
		return true
	}
	n := strings.ToLower(a.Name)
	return n == "msg" || strings.HasSuffix(n, "message") || strings.HasSuffix(n, "msg")
}

func simpleName(s string) string {
	if i := strings.LastIndex(s, "."); i != -1 {
		return s[i+1:]
	}
	return s
}

// patternHits matches s against re, treating empty strings and match
// timeouts as misses.
func patternHits(re *regexp2.Regexp, s string) bool {
	if s == "" {
		return false
	}
	ok, err := re.MatchString(s)
	return err == nil && ok
}
