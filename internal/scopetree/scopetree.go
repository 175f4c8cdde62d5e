// Package scopetree implements the ScopeTree: nested scopes with
// per-scope definition tables and anonymous-site counters.
package scopetree

import "github.com/example/aidcall/internal/model"

// ScopeTree owns every Scope for one analysis invocation, keyed by namespace
// (an arena-by-key rather than a pointer tree, so Scope and Definition never
// form a reference cycle).
type ScopeTree struct {
	scopes map[string]*model.Scope
}

// New creates an empty ScopeTree.
func New() *ScopeTree {
	return &ScopeTree{scopes: map[string]*model.Scope{}}
}

// AddScope creates a child scope under parentNS named name and returns it.
// Scopes are created once during preprocessing and never destroyed: calling
// AddScope again for the same (parentNS, name) pair returns the existing scope.
func (t *ScopeTree) AddScope(parentNS, name, kind string) *model.Scope {
	ns := name
	if parentNS != "" {
		ns = parentNS + "." + name
	}
	if s, ok := t.scopes[ns]; ok {
		return s
	}
	s := model.NewScope(ns, parentNS, kind, name)
	t.scopes[ns] = s
	return s
}

// AddRootScope registers a module-level root scope (no parent).
func (t *ScopeTree) AddRootScope(ns, kind string) *model.Scope {
	if s, ok := t.scopes[ns]; ok {
		return s
	}
	s := model.NewScope(ns, "", kind, ns)
	t.scopes[ns] = s
	return s
}

// GetScope returns the scope whose fully-qualified name matches ns.
func (t *ScopeTree) GetScope(ns string) (*model.Scope, bool) {
	s, ok := t.scopes[ns]
	return s, ok
}

// Bind registers a definition lookup target (defNS) for simpleName in scope.
func (t *ScopeTree) Bind(scope *model.Scope, simpleName, defNS string) {
	scope.Bind(simpleName, defNS)
}

// ResetAllCounters resets every scope's anonymous-site counters (called
// between postprocessor iterations so naming is deterministic across them).
func (t *ScopeTree) ResetAllCounters() {
	for _, s := range t.scopes {
		s.ResetCounters()
	}
}

// Lookup resolves simpleName starting at scope and walking parent scopes.
// It does not consult the module import table or fabricate an EXT; that
// decision belongs to the caller (usually the front-end, which has access
// to the ModuleRegistry and ImportResolver).
func (t *ScopeTree) Lookup(scope *model.Scope, simpleName string) (string, bool) {
	for cur := scope; cur != nil; {
		if ns, ok := cur.Locals[simpleName]; ok {
			return ns, true
		}
		if cur.ParentNamespace == "" {
			return "", false
		}
		parent, ok := t.scopes[cur.ParentNamespace]
		if !ok {
			return "", false
		}
		cur = parent
	}
	return "", false
}

// All returns every scope keyed by namespace.
func (t *ScopeTree) All() map[string]*model.Scope {
	return t.scopes
}
