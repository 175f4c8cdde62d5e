// Package typeinfer implements TypeInference: linking
// unresolved attribute accesses back to the classes that declare them.
package typeinfer

import (
	"sort"
	"strings"

	"github.com/example/aidcall/internal/classreg"
	"github.com/example/aidcall/internal/model"
	"github.com/example/aidcall/internal/namespace"
	"github.com/example/aidcall/internal/scopetree"
	"github.com/example/aidcall/internal/store"
)

// Result holds TypeInference's three outputs. Ties are kept as
// sets rather than resolved to a single candidate: no heuristic weighting.
type Result struct {
	// AttributeMatchingToClass maps an unresolved access site (the receiver
	// namespace joined with the accessed attribute, which is the namespace
	// that acts as a receiver or call target downstream) to the set of
	// candidate class namespaces that declare the accessed attribute.
	AttributeMatchingToClass map[string]map[string]struct{}
	// MethodsWithNoPath lists attribute names accessed on a callable
	// (FUNCTION) receiver at an unresolved site that no class declares.
	// Whether the access site is itself called, and whether a declaring
	// class's member is callable, are not examined.
	MethodsWithNoPath []string
	// AttributesWithNoPath lists attribute names that resolve nowhere at all.
	AttributesWithNoPath []string
}

// access describes one attribute-access site discovered during analysis: a
// receiver namespace together with the attribute name it dereferences.
// Front-ends emit these via Definition.NamePointer keys; any attribute key
// on a Definition whose own points-to set doesn't resolve to a namespace
// that defines that attribute is an unresolved access site.
type access struct {
	receiver string
	attr     string
}

// Generate consumes the converged state (defs, scopes, classes) and produces
// the TypeInference result.
func Generate(defs *store.Store, scopes *scopetree.ScopeTree, classes *classreg.Registry) *Result {
	res := &Result{AttributeMatchingToClass: map[string]map[string]struct{}{}}

	classAttrs := classAttributeIndex(defs, classes)

	methodsSeen := map[string]bool{}
	attrsSeen := map[string]bool{}
	methodsResolved := map[string]bool{}
	attrsResolved := map[string]bool{}

	for _, site := range unresolvedAccesses(defs) {
		attrsSeen[site.attr] = true
		receiverDef, err := defs.Get(site.receiver)
		isCallAttr := false
		if err == nil {
			isCallAttr = receiverDef.IsCallable()
		}
		if isCallAttr {
			methodsSeen[site.attr] = true
		}

		candidates := classAttrs[site.attr]
		if len(candidates) == 0 {
			continue
		}
		attrsResolved[site.attr] = true
		if isCallAttr {
			methodsResolved[site.attr] = true
		}
		siteNS := namespace.Join(site.receiver, site.attr)
		set, ok := res.AttributeMatchingToClass[siteNS]
		if !ok {
			set = map[string]struct{}{}
			res.AttributeMatchingToClass[siteNS] = set
		}
		for cls := range candidates {
			set[cls] = struct{}{}
		}
	}

	for attr := range methodsSeen {
		if !methodsResolved[attr] {
			res.MethodsWithNoPath = append(res.MethodsWithNoPath, attr)
		}
	}
	for attr := range attrsSeen {
		if !attrsResolved[attr] {
			res.AttributesWithNoPath = append(res.AttributesWithNoPath, attr)
		}
	}
	sort.Strings(res.MethodsWithNoPath)
	sort.Strings(res.AttributesWithNoPath)
	return res
}

// classAttributeIndex maps attribute name -> set of class namespaces that
// declare it, directly or through their MRO.
func classAttributeIndex(defs *store.Store, classes *classreg.Registry) map[string]map[string]struct{} {
	index := map[string]map[string]struct{}{}
	for clsNS, cls := range classes.All() {
		for _, ancestor := range cls.MRO {
			for _, attr := range declaredAttributes(defs, ancestor) {
				set, ok := index[attr]
				if !ok {
					set = map[string]struct{}{}
					index[attr] = set
				}
				set[clsNS] = struct{}{}
			}
		}
	}
	return index
}

// declaredAttributes returns the simple names a class declares directly: the
// simple name of every Definition namespaced directly under clsNS.
func declaredAttributes(defs *store.Store, clsNS string) []string {
	var out []string
	prefix := clsNS + "."
	for ns := range defs.All() {
		if len(ns) > len(prefix) && ns[:len(prefix)] == prefix && !containsDot(ns[len(prefix):]) {
			out = append(out, ns[len(prefix):])
		}
	}
	return out
}

func containsDot(s string) bool {
	for _, r := range s {
		if r == '.' {
			return true
		}
	}
	return false
}

// unresolvedAccesses enumerates every attribute access whose receiver's
// points-to set contains no namespace that itself defines attr.
func unresolvedAccesses(defs *store.Store) []access {
	var sites []access
	for ns, d := range defs.All() {
		for _, attr := range d.Attributes() {
			// Synthetic marker keys ("<call>", "<subscript>:...") are not
			// attribute accesses in the target language.
			if attr == model.RootAttr || strings.HasPrefix(attr, "<") {
				continue
			}
			if definesAttr(defs, d.NamesOf(model.RootAttr), attr) {
				continue
			}
			sites = append(sites, access{receiver: ns, attr: attr})
		}
	}
	return sites
}

// definesAttr reports whether any namespace in candidates defines attr
// directly (has a namespace+"."+attr Definition in the store).
func definesAttr(defs *store.Store, candidates []string, attr string) bool {
	for _, c := range candidates {
		if defs.Has(c + "." + attr) {
			return true
		}
	}
	return false
}
