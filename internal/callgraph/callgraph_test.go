package callgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/aidcall/internal/classreg"
	"github.com/example/aidcall/internal/dataflow"
	"github.com/example/aidcall/internal/model"
	"github.com/example/aidcall/internal/store"
	"github.com/example/aidcall/internal/typeinfer"
)

func emptyInference() *typeinfer.Result {
	return &typeinfer.Result{AttributeMatchingToClass: map[string]map[string]struct{}{}}
}

func TestBuildDirectCallEdges(t *testing.T) {
	defs := store.New()
	f := defs.Create("m.f", model.KindFunction)
	defs.Create("m.g", model.KindFunction)
	f.AddNamePointer("<call>", "m.g")

	g := Build(defs, classreg.New(), emptyInference())

	assert.Equal(t, []string{"m.g"}, g.Edges["m.f"])
	_, ok := g.Edges["m.g"]
	assert.False(t, ok, "a callable with no call sites has no edge entry")
}

func TestBuildDropsNonCallableTargets(t *testing.T) {
	defs := store.New()
	f := defs.Create("m.f", model.KindFunction)
	defs.Create("m.x", model.KindName)
	f.AddNamePointer("<call>", "m.x")

	g := Build(defs, classreg.New(), emptyInference())

	assert.Empty(t, g.Edges)
}

func TestBuildWidensThroughClassCandidates(t *testing.T) {
	defs := store.New()
	classes := classreg.New()

	// class A defines m; class B(A) inherits it. A call through an
	// unresolved B.m access site routes to A.m via B's MRO.
	classes.AddClass("m.A", "m")
	defs.Create("m.A", model.KindClass)
	defs.Create("m.A.m", model.KindFunction)
	classes.AddClass("m.B", "m")
	defs.Create("m.B", model.KindClass)
	require.NoError(t, classes.SetBases("m.B", []string{"m.A"}))
	defs.Create("m.B.m", model.KindExt)

	main := defs.Create("m.main", model.KindFunction)
	main.AddNamePointer("<call>", "m.B.m")

	ti := emptyInference()
	ti.AttributeMatchingToClass["m.B.m"] = map[string]struct{}{"m.A": {}, "m.B": {}}

	g := Build(defs, classes, ti)

	assert.Equal(t, []string{"m.A.m"}, g.Edges["m.main"], "both candidates resolve to the same inherited method")
}

func TestBuildWideningRespectsCallableRestriction(t *testing.T) {
	defs := store.New()
	classes := classreg.New()

	classes.AddClass("m.C", "m")
	defs.Create("m.C", model.KindClass)
	defs.Create("m.C.label", model.KindName)

	main := defs.Create("m.main", model.KindFunction)
	main.AddNamePointer("<call>", "obj.label")

	ti := emptyInference()
	ti.AttributeMatchingToClass["obj.label"] = map[string]struct{}{"m.C": {}}

	g := Build(defs, classes, ti)

	assert.Empty(t, g.Edges, "m.C.label is not callable, so the candidate contributes nothing")
}

func TestBuildDataflowGraphWalksTransitively(t *testing.T) {
	df := &dataflow.Result{
		AssignInformation: map[string]map[string]struct{}{
			"m.g": {"m.h": {}},
		},
		ReturnInformation: map[string]map[string]struct{}{
			"m.f": {"m.g": {}},
		},
	}

	g := BuildDataflowGraph(df)

	assert.Equal(t, []string{"m.g", "m.h"}, g.Edges["m.f"])
}

func TestBuildDataflowGraphHandlesCycles(t *testing.T) {
	df := &dataflow.Result{
		AssignInformation: map[string]map[string]struct{}{
			"m.g": {"m.h": {}},
			"m.h": {"m.g": {}},
		},
		ReturnInformation: map[string]map[string]struct{}{
			"m.f": {"m.g": {}},
		},
	}

	g := BuildDataflowGraph(df)

	assert.Equal(t, []string{"m.g", "m.h"}, g.Edges["m.f"], "a cyclic assign relation must not loop forever")
}
