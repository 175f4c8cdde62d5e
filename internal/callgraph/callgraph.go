// Package callgraph implements CallGraphBuilder: materializing
// caller/callee edges from the converged state, the type-inference outputs,
// and the dataflow outputs.
package callgraph

import (
	"sort"

	"github.com/example/aidcall/internal/classreg"
	"github.com/example/aidcall/internal/dataflow"
	"github.com/example/aidcall/internal/model"
	"github.com/example/aidcall/internal/namespace"
	"github.com/example/aidcall/internal/store"
	"github.com/example/aidcall/internal/typeinfer"
)

// callAttr is the attribute key the front-end uses to record a call site's
// target points-to set on the caller Definition (one entry per call target
// expression encountered in that callable's body).
const callAttr = "<call>"

// Graph is the materialized call graph: caller namespace -> callee namespaces.
type Graph struct {
	Edges map[string][]string
}

// Build materializes a multigraph of caller -> callee edges:
// for each call site, the callee set is the points-to set of the call
// target, widened by any class candidates TypeInference associated with the
// target's access site, restricted to namespaces that are callable. A
// candidate class contributes the method its MRO resolves the target's
// simple name to.
func Build(defs *store.Store, classes *classreg.Registry, ti *typeinfer.Result) *Graph {
	g := &Graph{Edges: map[string][]string{}}
	for caller, d := range defs.All() {
		targets := d.NamesOf(callAttr)
		if len(targets) == 0 {
			continue
		}
		calleeSet := map[string]struct{}{}
		for _, target := range targets {
			if isCallable(defs, target) {
				calleeSet[target] = struct{}{}
			}
			if candidates, ok := ti.AttributeMatchingToClass[target]; ok {
				attr := namespace.SimpleName(target)
				for cls := range candidates {
					if method, ok := resolveMethod(defs, classes, cls, attr); ok {
						calleeSet[method] = struct{}{}
					}
				}
			}
		}
		if len(calleeSet) == 0 {
			continue
		}
		callees := make([]string, 0, len(calleeSet))
		for c := range calleeSet {
			callees = append(callees, c)
		}
		sort.Strings(callees)
		g.Edges[caller] = callees
	}
	return g
}

func isCallable(defs *store.Store, ns string) bool {
	d, err := defs.Get(ns)
	if err != nil {
		return false
	}
	return d.Kind == model.KindFunction
}

// resolveMethod walks cls's MRO and returns the first ancestor whose attr is
// a callable definition in the store.
func resolveMethod(defs *store.Store, classes *classreg.Registry, cls, attr string) (string, bool) {
	c, ok := classes.Get(cls)
	if !ok {
		return "", false
	}
	for _, ancestor := range c.MRO {
		method := namespace.Join(ancestor, attr)
		if isCallable(defs, method) {
			return method, true
		}
	}
	return "", false
}

// BuildDataflowGraph generates a separate, on-demand dataflow call-graph by
// walking the assign/return relations transitively: starting
// from each callable's return-information, follow assign edges to find every
// callable that the returned value could ultimately reach.
func BuildDataflowGraph(df *dataflow.Result) *Graph {
	g := &Graph{Edges: map[string][]string{}}
	for caller, returns := range df.ReturnInformation {
		visited := map[string]struct{}{}
		queue := make([]string, 0, len(returns))
		for target := range returns {
			queue = append(queue, target)
		}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			if _, ok := visited[cur]; ok {
				continue
			}
			visited[cur] = struct{}{}
			for next := range df.AssignInformation[cur] {
				if _, ok := visited[next]; !ok {
					queue = append(queue, next)
				}
			}
		}
		if len(visited) == 0 {
			continue
		}
		callees := make([]string, 0, len(visited))
		for c := range visited {
			callees = append(callees, c)
		}
		sort.Strings(callees)
		g.Edges[caller] = callees
	}
	return g
}
