// Package render formats analysis results for output. It stays deliberately
// thin: YAML marshal helpers, no flag parsing or file writing.
package render

import (
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/example/aidcall/internal/callgraph"
	"github.com/example/aidcall/internal/classreg"
	"github.com/example/aidcall/internal/dataflow"
	"github.com/example/aidcall/internal/keyerr"
	"github.com/example/aidcall/internal/model"
	"github.com/example/aidcall/internal/modreg"
	"github.com/example/aidcall/internal/store"
	"github.com/example/aidcall/internal/typeinfer"
)

// Edge is one caller/callee pair in the flattened edge list, annotated with
// whatever dataflow relations also connect the two namespaces.
type Edge struct {
	Caller   string `yaml:"caller"`
	Callee   string `yaml:"callee"`
	Assigned bool   `yaml:"assigned,omitempty"`
	Returned bool   `yaml:"returned,omitempty"`
}

// ModuleEntry is one entry of the internal/external module maps.
type ModuleEntry struct {
	Filename *string  `yaml:"filename"`
	Methods  []string `yaml:"methods"`
}

// ClassEntry is one entry of the class list.
type ClassEntry struct {
	MRO    []string `yaml:"mro"`
	Module string   `yaml:"module"`
}

// DefinitionEntry is one entry of the raw definition map.
type DefinitionEntry struct {
	Kind        string              `yaml:"kind"`
	NamePointer map[string][]string `yaml:"namePointer,omitempty"`
	LitPointer  map[string][]string `yaml:"litPointer,omitempty"`
}

// CallGraphDocument is the serializable shape of a CALL_GRAPH result.
type CallGraphDocument struct {
	Edges                    map[string][]string        `yaml:"edges"`
	EdgeList                 []Edge                     `yaml:"edgeList,omitempty"`
	DataflowEdges            map[string][]string        `yaml:"dataflowEdges,omitempty"`
	AttributeMatchingToClass map[string][]string        `yaml:"attributeMatchingToClass,omitempty"`
	MethodsWithNoPath        []string                   `yaml:"methodsWithNoPath,omitempty"`
	AttributesWithNoPath     []string                   `yaml:"attributesWithNoPath,omitempty"`
	InternalModules          map[string]ModuleEntry     `yaml:"internalModules,omitempty"`
	ExternalModules          map[string]ModuleEntry     `yaml:"externalModules,omitempty"`
	Functions                []string                   `yaml:"functions,omitempty"`
	Classes                  map[string]ClassEntry      `yaml:"classes,omitempty"`
	Definitions              map[string]DefinitionEntry `yaml:"definitions,omitempty"`
}

// KeyErrDocument is the serializable shape of a KEY_ERR result.
type KeyErrDocument struct {
	Findings []keyerr.Finding `yaml:"findings"`
}

// MarshalCallGraph builds and marshals a CallGraphDocument to YAML: the call
// graph itself, an edge list annotated with dataflow relations, the
// internal/external module maps, the function and class lists, and the raw
// definition map.
func MarshalCallGraph(
	g, dataflowGraph *callgraph.Graph,
	ti *typeinfer.Result,
	df *dataflow.Result,
	modules *modreg.Registry,
	classes *classreg.Registry,
	defs *store.Store,
) ([]byte, error) {
	doc := CallGraphDocument{Edges: g.Edges}
	if dataflowGraph != nil {
		doc.DataflowEdges = dataflowGraph.Edges
	}
	doc.EdgeList = buildEdgeList(g, df)
	if ti != nil {
		doc.AttributeMatchingToClass = map[string][]string{}
		for receiver, set := range ti.AttributeMatchingToClass {
			var cls []string
			for c := range set {
				cls = append(cls, c)
			}
			sort.Strings(cls)
			doc.AttributeMatchingToClass[receiver] = cls
		}
		doc.MethodsWithNoPath = ti.MethodsWithNoPath
		doc.AttributesWithNoPath = ti.AttributesWithNoPath
	}
	if modules != nil {
		doc.InternalModules = moduleMap(modules.Internal())
		doc.ExternalModules = moduleMap(modules.External())
	}
	if classes != nil {
		doc.Classes = map[string]ClassEntry{}
		for ns, c := range classes.All() {
			doc.Classes[ns] = ClassEntry{MRO: c.MRO, Module: c.Module}
		}
	}
	if defs != nil {
		doc.Functions = functionList(defs)
		doc.Definitions = definitionMap(defs)
	}
	return yaml.Marshal(doc)
}

// MarshalKeyErr marshals a KEY_ERR result to YAML.
func MarshalKeyErr(findings []keyerr.Finding) ([]byte, error) {
	return yaml.Marshal(KeyErrDocument{Findings: findings})
}

// buildEdgeList flattens the call graph into caller/callee pairs, annotating
// each with whether the dataflow pass also observed an assign or return
// relation between the two namespaces.
func buildEdgeList(g *callgraph.Graph, df *dataflow.Result) []Edge {
	var edges []Edge
	for caller, callees := range g.Edges {
		for _, callee := range callees {
			e := Edge{Caller: caller, Callee: callee}
			if df != nil {
				if assigns, ok := df.AssignInformation[caller]; ok {
					_, e.Assigned = assigns[callee]
				}
				if returns, ok := df.ReturnInformation[caller]; ok {
					_, e.Returned = returns[callee]
				}
			}
			edges = append(edges, e)
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Caller != edges[j].Caller {
			return edges[i].Caller < edges[j].Caller
		}
		return edges[i].Callee < edges[j].Callee
	})
	return edges
}

func moduleMap(in map[string]*model.Module) map[string]ModuleEntry {
	out := map[string]ModuleEntry{}
	for ns, m := range in {
		var fn *string
		if m.SourcePath != "" {
			p := m.SourcePath
			fn = &p
		}
		methods := append([]string{}, m.Methods...)
		sort.Strings(methods)
		out[ns] = ModuleEntry{Filename: fn, Methods: methods}
	}
	return out
}

func functionList(defs *store.Store) []string {
	var out []string
	for ns, d := range defs.All() {
		if d.IsCallable() {
			out = append(out, ns)
		}
	}
	sort.Strings(out)
	return out
}

func definitionMap(defs *store.Store) map[string]DefinitionEntry {
	out := map[string]DefinitionEntry{}
	for ns, d := range defs.All() {
		entry := DefinitionEntry{Kind: d.Kind.String()}
		for _, attr := range d.Attributes() {
			if entry.NamePointer == nil {
				entry.NamePointer = map[string][]string{}
			}
			entry.NamePointer[attr] = d.NamesOf(attr)
		}
		for attr, set := range d.LitPointer {
			if len(set) == 0 {
				continue
			}
			if entry.LitPointer == nil {
				entry.LitPointer = map[string][]string{}
			}
			var tags []string
			for tag := range set {
				tags = append(tags, tag.String())
			}
			sort.Strings(tags)
			entry.LitPointer[attr] = tags
		}
		out[ns] = entry
	}
	return out
}
