// Package classreg implements the ClassRegistry: class
// descriptors and their C3-linearized method-resolution order.
package classreg

import (
	"fmt"

	"github.com/example/aidcall/internal/errs"
	"github.com/example/aidcall/internal/model"
)

// Registry owns every Class for one analysis invocation.
type Registry struct {
	classes map[string]*model.Class
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{classes: map[string]*model.Class{}}
}

// AddClass registers a class namespace owned by moduleNS, idempotently.
func (r *Registry) AddClass(ns, moduleNS string) *model.Class {
	if c, ok := r.classes[ns]; ok {
		return c
	}
	c := &model.Class{Namespace: ns, Module: moduleNS, MRO: []string{ns}}
	r.classes[ns] = c
	return c
}

// Get returns the class descriptor for ns.
func (r *Registry) Get(ns string) (*model.Class, bool) {
	c, ok := r.classes[ns]
	return c, ok
}

// All returns every class keyed by namespace.
func (r *Registry) All() map[string]*model.Class {
	return r.classes
}

// SetBases records the declared base namespaces for ns and recomputes its
// MRO. Bases that do not (yet) resolve to a known class are recorded but
// omitted from the linearization; a later call to SetBases (once the base
// resolves) re-linearizes.
func (r *Registry) SetBases(ns string, bases []string) error {
	c, ok := r.classes[ns]
	if !ok {
		c = r.AddClass(ns, "")
	}
	c.Bases = bases
	return r.relinearize(c)
}

// Relinearize recomputes the MRO of ns from its recorded bases. Only ns is
// recomputed; classes that list ns as a base keep their MRO until they are
// relinearized themselves. An unknown ns is a no-op.
func (r *Registry) Relinearize(ns string) error {
	c, ok := r.classes[ns]
	if !ok {
		return nil
	}
	return r.relinearize(c)
}

func (r *Registry) relinearize(c *model.Class) error {
	var known [][]string
	var linear [][]string
	for _, base := range c.Bases {
		bc, ok := r.classes[base]
		if !ok {
			continue
		}
		known = append(known, []string{bc.Namespace})
		linear = append(linear, append([]string{}, bc.MRO...))
	}
	if len(known) == 0 {
		c.MRO = []string{c.Namespace}
		return nil
	}
	merged, err := c3Merge(linear, directBases(known))
	if err != nil {
		c.MRO = []string{c.Namespace}
		return fmt.Errorf("%w: %v", &errs.CycleInMRO{Class: c.Namespace}, err)
	}
	c.MRO = append([]string{c.Namespace}, merged...)
	return nil
}

func directBases(known [][]string) []string {
	out := make([]string, 0, len(known))
	for _, k := range known {
		out = append(out, k[0])
	}
	return out
}

// MRO returns the MRO last computed for ns by SetBases or Relinearize.
func (r *Registry) MRO(ns string) ([]string, error) {
	c, ok := r.classes[ns]
	if !ok {
		return nil, fmt.Errorf("classreg: unknown class %s", ns)
	}
	return c.MRO, nil
}

// c3Merge merges a set of parent linearizations plus the direct-base list
// according to the C3 algorithm: take the head of the first list that does
// not appear in the tail of any other list, repeat until every list is empty.
func c3Merge(lists [][]string, directBases []string) ([]string, error) {
	all := append([][]string{}, lists...)
	all = append(all, append([]string{}, directBases...))
	var result []string
	for {
		all = dropEmpty(all)
		if len(all) == 0 {
			return result, nil
		}
		var head string
		found := false
		for _, l := range all {
			candidate := l[0]
			if !inAnyTail(candidate, all) {
				head = candidate
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("inconsistent hierarchy")
		}
		result = append(result, head)
		for i, l := range all {
			all[i] = removeHead(l, head)
		}
	}
}

func dropEmpty(lists [][]string) [][]string {
	out := lists[:0]
	for _, l := range lists {
		if len(l) > 0 {
			out = append(out, l)
		}
	}
	return out
}

func inAnyTail(x string, lists [][]string) bool {
	for _, l := range lists {
		for _, v := range l[1:] {
			if v == x {
				return true
			}
		}
	}
	return false
}

func removeHead(l []string, head string) []string {
	if len(l) > 0 && l[0] == head {
		return l[1:]
	}
	return l
}
