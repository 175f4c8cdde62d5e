package model

import "strconv"

// Scope is a node in a tree rooted at each module. Scopes are created
// once during preprocessing and never destroyed; Counters is reset at the start
// of every postprocessing iteration so anonymous-site names are deterministic
// across iterations, which is what makes convergence observable.
type Scope struct {
	Namespace       string
	ParentNamespace string // "" for a module-root scope
	Kind            string // "module", "class", "function", "lambda", "comprehension"
	Name            string // simple name, e.g. "f" or "<lambda>#1"; the module namespace for a root scope

	// Locals maps a simple name to the namespace of the Definition it resolves to
	// within this scope.
	Locals map[string]string

	// Counters names anonymous sites (e.g. "<listcomp>#3"), one counter per
	// construct tag so distinct anonymous-construct kinds don't collide.
	Counters map[string]int
}

// NewScope creates an empty Scope.
func NewScope(ns, parentNS, kind, name string) *Scope {
	return &Scope{
		Namespace:       ns,
		ParentNamespace: parentNS,
		Kind:            kind,
		Name:            name,
		Locals:          map[string]string{},
		Counters:        map[string]int{},
	}
}

// Bind registers simpleName -> defNS as a lookup target in this scope.
func (s *Scope) Bind(simpleName, defNS string) {
	s.Locals[simpleName] = defNS
}

// ResetCounters zeroes every counter (called between postprocessing iterations).
func (s *Scope) ResetCounters() {
	for k := range s.Counters {
		delete(s.Counters, k)
	}
}

// NextAnonymousName fabricates a deterministic name for an anonymous construct
// tagged by construct, e.g. NextAnonymousName("listcomp") -> "<listcomp>#3".
func (s *Scope) NextAnonymousName(construct string) string {
	s.Counters[construct]++
	n := s.Counters[construct]
	return "<" + construct + ">#" + strconv.Itoa(n)
}

// LocalNamespaces returns the set of fully-qualified namespaces of this scope's
// local definitions (used by the convergence snapshot).
func (s *Scope) LocalNamespaces() map[string]struct{} {
	out := make(map[string]struct{}, len(s.Locals))
	for _, ns := range s.Locals {
		out[ns] = struct{}{}
	}
	return out
}
