// Package store implements the DefinitionStore: Definitions keyed
// by fully-qualified namespace, with the points-to pointers that drive the
// fixed-point loop.
package store

import (
	"sort"

	"github.com/example/aidcall/internal/errs"
	"github.com/example/aidcall/internal/model"
)

// Store owns every Definition for one analysis invocation. It is handed to the
// front-end by reference during a pass; outside a pass only Complete and
// Remove are legal.
type Store struct {
	defs map[string]*model.Definition
}

// New creates an empty Store.
func New() *Store {
	return &Store{defs: map[string]*model.Definition{}}
}

// Create is idempotent on (ns, kind): if ns exists with a different kind the
// existing record is returned unchanged; callers must not assume kind upgrade.
func (s *Store) Create(ns string, kind model.Kind) *model.Definition {
	if d, ok := s.defs[ns]; ok {
		return d
	}
	d := model.New(ns, kind)
	s.defs[ns] = d
	return d
}

// Get returns the Definition for ns, or a LookupFailure if absent. A miss is
// a structural-defect signal: the front-end's pass ordering is expected to
// have created every namespace it later dereferences.
func (s *Store) Get(ns string) (*model.Definition, error) {
	d, ok := s.defs[ns]
	if !ok {
		return nil, &errs.LookupFailure{Namespace: ns}
	}
	return d, nil
}

// Has reports whether ns has a Definition.
func (s *Store) Has(ns string) bool {
	_, ok := s.defs[ns]
	return ok
}

// Remove deletes ns and scrubs it from every pointer set in the store.
func (s *Store) Remove(ns string) {
	delete(s.defs, ns)
	for _, d := range s.defs {
		d.RemoveNamespace(ns)
	}
}

// Complete ensures every namespace named in any pointer-set entry exists in
// the store, lazily creating EXT placeholders with empty pointers for any
// that don't. Idempotent; must be called after every pass.
func (s *Store) Complete() {
	for {
		var missing []string
		for _, d := range s.defs {
			for attr := range d.NamePointer {
				for target := range d.NamePointer[attr] {
					if _, ok := s.defs[target]; !ok {
						missing = append(missing, target)
					}
				}
			}
		}
		if len(missing) == 0 {
			return
		}
		for _, ns := range missing {
			if _, ok := s.defs[ns]; !ok {
				s.defs[ns] = model.New(ns, model.KindExt)
			}
		}
	}
}

// All returns every Definition keyed by namespace. Callers must not mutate the
// returned map's membership directly; use Create/Remove.
func (s *Store) All() map[string]*model.Definition {
	return s.defs
}

// SortedNamespaces returns every namespace in the store, sorted, useful for
// deterministic iteration (snapshotting, test fixtures).
func (s *Store) SortedNamespaces() []string {
	out := make([]string, 0, len(s.defs))
	for ns := range s.defs {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}
