// Package checks hosts the analyses that turn extracted call sites into
// diagnostics. Each Checker owns one class of findings and reports through
// a diag.Reporter, so callers decide how results are collected.
package checks

import (
	"sort"

	"swaplint/internal/callsites"
	"swaplint/internal/diag"
	"swaplint/internal/source"
)

// Checker inspects the call sites of one file.
//
// Implementations must be safe for concurrent use: the driver shares a
// single instance across its worker pool.
type Checker interface {
	// Name returns the stable identifier used by config sections and output.
	Name() string

	// Check reports findings for the calls extracted from file.
	Check(r diag.Reporter, file *source.File, calls []callsites.Call)
}

// Registry holds checkers by name.
type Registry struct {
	byName map[string]Checker
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Checker)}
}

// NewDefaultRegistry creates a registry with every built-in checker under
// its default configuration.
func NewDefaultRegistry() (*Registry, error) {
	assertOrder, err := NewAssertOrder(DefaultAssertOrderConfig())
	if err != nil {
		return nil, err
	}
	r := NewRegistry()
	r.Register(assertOrder)
	return r, nil
}

// Register adds a checker. A later registration for the same name wins.
func (r *Registry) Register(c Checker) {
	r.byName[c.Name()] = c
}

// Get returns the checker registered under name.
func (r *Registry) Get(name string) (Checker, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// Names returns all registered checker names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns all registered checkers in name order.
func (r *Registry) All() []Checker {
	names := r.Names()
	out := make([]Checker, len(names))
	for i, name := range names {
		out[i] = r.byName[name]
	}
	return out
}
