// Package dataflow implements the Dataflow pass: assign/return
// edges between callables, collected over the converged state.
package dataflow

import (
	"sort"
	"strings"

	"github.com/example/aidcall/internal/store"
)

// Result holds Dataflow's three outputs, each keyed by callable namespace.
type Result struct {
	// Methods lists every callable namespace considered.
	Methods []string
	// AssignInformation maps a callable to the set of namespaces it is
	// assigned to or from: every namespace whose pointer set holds the
	// callable (callable or not), plus, when that holder is itself callable,
	// the reverse edge under the holder.
	AssignInformation map[string]map[string]struct{}
	// ReturnInformation maps a callable to the set of namespaces its return
	// expressions may reach.
	ReturnInformation map[string]map[string]struct{}
}

// returnAttr is the attribute key the front-end uses to record a callable's
// return-expression points-to set on its own Definition.
const returnAttr = "<return>"

// Generate enumerates every callable in defs and collects assign/return
// relations from the converged pointer state.
func Generate(defs *store.Store) *Result {
	res := &Result{
		AssignInformation: map[string]map[string]struct{}{},
		ReturnInformation: map[string]map[string]struct{}{},
	}

	callables := map[string]struct{}{}
	for ns, d := range defs.All() {
		if d.IsCallable() {
			callables[ns] = struct{}{}
		}
	}

	for ns := range callables {
		res.Methods = append(res.Methods, ns)

		d, err := defs.Get(ns)
		if err != nil {
			continue
		}

		if rets := d.NamesOf(returnAttr); len(rets) > 0 {
			set := map[string]struct{}{}
			for _, target := range rets {
				set[target] = struct{}{}
			}
			res.ReturnInformation[ns] = set
		}
	}

	// Assignment edges: any pointer entry whose target is a callable means a
	// callable value flowed into that name. Synthetic marker keys ("<call>",
	// "<return>", "<dict-keys>", "<subscript>:...") are not assignments.
	for ns, d := range defs.All() {
		for _, attr := range d.Attributes() {
			if strings.HasPrefix(attr, "<") {
				continue
			}
			for _, target := range d.NamesOf(attr) {
				if _, targetCallable := callables[target]; !targetCallable {
					continue
				}
				addAssign(res.AssignInformation, target, ns)
				if _, nsCallable := callables[ns]; nsCallable {
					addAssign(res.AssignInformation, ns, target)
				}
			}
		}
	}

	sort.Strings(res.Methods)
	return res
}

func addAssign(table map[string]map[string]struct{}, from, to string) {
	set, ok := table[from]
	if !ok {
		set = map[string]struct{}{}
		table[from] = set
	}
	set[to] = struct{}{}
}
