package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
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

func TestMarshalCallGraphIncludesFullOutputContract(t *testing.T) {
	defs := store.New()
	fn := defs.Create("m.f", model.KindFunction)
	fn.AddNamePointer(model.RootAttr, "m.g")
	defs.Create("m.g", model.KindFunction)

	modules := modreg.New()
	modules.AddModule("m", "/pkg/m.py", true)
	modules.AddMethod("m", "m.f")
	modules.AddMethod("m", "m.g")

	classes := classreg.New()
	classes.AddClass("m.A", "m")

	g := &callgraph.Graph{Edges: map[string][]string{"m.f": {"m.g"}}}
	ti := &typeinfer.Result{AttributeMatchingToClass: map[string]map[string]struct{}{
		"m.f.self.client": {"m.A": {}},
	}}
	df := &dataflow.Result{
		Methods:           []string{"m.f", "m.g"},
		AssignInformation: map[string]map[string]struct{}{"m.f": {"m.g": {}}},
		ReturnInformation: map[string]map[string]struct{}{},
	}

	out, err := MarshalCallGraph(g, nil, ti, df, modules, classes, defs)
	assert.NoError(t, err)

	var doc CallGraphDocument
	assert.NoError(t, yaml.Unmarshal(out, &doc))

	assert.Equal(t, []string{"m.g"}, doc.Edges["m.f"])
	assert.Equal(t, []Edge{{Caller: "m.f", Callee: "m.g", Assigned: true}}, doc.EdgeList)
	assert.Equal(t, []string{"m.A"}, doc.AttributeMatchingToClass["m.f.self.client"])
	assert.Contains(t, doc.InternalModules, "m")
	assert.Equal(t, []string{"m.f", "m.g"}, doc.InternalModules["m"].Methods)
	assert.Contains(t, doc.Classes, "m.A")
	assert.ElementsMatch(t, []string{"m.f", "m.g"}, doc.Functions)
	assert.Contains(t, doc.Definitions, "m.f")
}

func TestMarshalKeyErr(t *testing.T) {
	findings := []keyerr.Finding{{Receiver: "m.d", Key: "missing"}}
	out, err := MarshalKeyErr(findings)
	assert.NoError(t, err)

	var doc KeyErrDocument
	assert.NoError(t, yaml.Unmarshal(out, &doc))
	assert.Equal(t, findings, doc.Findings)
}
