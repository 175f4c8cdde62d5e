package model

import "sort"

// Definition is one record per namespace. Pointer sets are growth-only
// within a pass; Remove scrubs a namespace from every set that referenced
// it, which the owning store is responsible for invoking across the whole
// definition table.
type Definition struct {
	Namespace string
	Kind      Kind

	// NamePointer maps an attribute name to the set of namespaces it may refer
	// to. The RootAttr key denotes the name's own points-to value.
	NamePointer map[string]map[string]struct{}
	// LitPointer maps an attribute name to the set of literal tags it may carry.
	LitPointer map[string]map[LiteralTag]struct{}

	// ScopeNamespace back-links to the containing scope by its fully-qualified
	// namespace (an arena-style index rather than a live pointer, so Definition
	// and Scope never form a reference cycle).
	ScopeNamespace string

	// Params holds the ordered formal parameter simple names for a callable
	// Definition, as recorded by the front-end at discovery time. It is set
	// once during preprocessing and is not affected by later pointer growth,
	// which is what lets the parameter snapshot stay immune to propagation.
	Params []string
}

// New creates an empty Definition for ns/kind.
func New(ns string, kind Kind) *Definition {
	return &Definition{
		Namespace:   ns,
		Kind:        kind,
		NamePointer: map[string]map[string]struct{}{},
		LitPointer:  map[string]map[LiteralTag]struct{}{},
	}
}

// AddNamePointer records that attr may point to target. It returns true if
// this grew the set, making monotone growth an observable fact for callers
// that track fixed-point progress.
func (d *Definition) AddNamePointer(attr, target string) bool {
	set, ok := d.NamePointer[attr]
	if !ok {
		set = map[string]struct{}{}
		d.NamePointer[attr] = set
	}
	if _, exists := set[target]; exists {
		return false
	}
	set[target] = struct{}{}
	return true
}

// AddLitPointer records that attr may carry literal tag. Returns true if new.
func (d *Definition) AddLitPointer(attr string, tag LiteralTag) bool {
	set, ok := d.LitPointer[attr]
	if !ok {
		set = map[LiteralTag]struct{}{}
		d.LitPointer[attr] = set
	}
	if _, exists := set[tag]; exists {
		return false
	}
	set[tag] = struct{}{}
	return true
}

// NamesOf returns the sorted points-to set for attr (empty if absent).
func (d *Definition) NamesOf(attr string) []string {
	set, ok := d.NamePointer[attr]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(set))
	for ns := range set {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

// LitsOf returns the sorted literal-tag set for attr (empty if absent).
func (d *Definition) LitsOf(attr string) []LiteralTag {
	set, ok := d.LitPointer[attr]
	if !ok {
		return nil
	}
	out := make([]LiteralTag, 0, len(set))
	for tag := range set {
		out = append(out, tag)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Attributes returns the sorted set of attribute names with a name_pointer entry.
func (d *Definition) Attributes() []string {
	out := make([]string, 0, len(d.NamePointer))
	for attr := range d.NamePointer {
		out = append(out, attr)
	}
	sort.Strings(out)
	return out
}

// RemoveNamespace scrubs ns from every pointer set on this Definition. The
// store applies this to every Definition on a removal.
func (d *Definition) RemoveNamespace(ns string) {
	for _, set := range d.NamePointer {
		delete(set, ns)
	}
}

// IsCallable reports whether this Definition denotes something that may be invoked.
func (d *Definition) IsCallable() bool {
	return d.Kind == KindFunction
}
