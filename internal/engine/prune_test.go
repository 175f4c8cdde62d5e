package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/aidcall/internal/classreg"
	"github.com/example/aidcall/internal/model"
	"github.com/example/aidcall/internal/store"
)

func TestPruneExternalsRemovesResolvedExt(t *testing.T) {
	defs := store.New()
	defs.Create("Widget.render", model.KindExt)

	classes := classreg.New()
	classes.AddClass("pkg.mod.Widget", "pkg.mod")
	defs.Create("pkg.mod.Widget.render", model.KindFunction)

	pruneExternals(defs, classes)

	assert.False(t, defs.Has("Widget.render"), "EXT resolves to an already-known class method, so it is pruned")
	assert.True(t, defs.Has("pkg.mod.Widget.render"))
}

func TestPruneExternalsKeepsUnresolvedExt(t *testing.T) {
	defs := store.New()
	defs.Create("Widget.render", model.KindExt)

	classes := classreg.New()
	classes.AddClass("pkg.mod.Widget", "pkg.mod")
	// pkg.mod.Widget.render is not in the store, so the EXT has no known
	// resolution and must survive.

	pruneExternals(defs, classes)

	assert.True(t, defs.Has("Widget.render"))
}

func TestPruneExternalsScrubsPointerSets(t *testing.T) {
	defs := store.New()
	defs.Create("Widget.render", model.KindExt)
	caller := defs.Create("pkg.mod.main", model.KindFunction)
	caller.AddNamePointer("<call>", "Widget.render")

	classes := classreg.New()
	classes.AddClass("pkg.mod.Widget", "pkg.mod")
	defs.Create("pkg.mod.Widget.render", model.KindFunction)

	pruneExternals(defs, classes)

	assert.NotContains(t, caller.NamesOf("<call>"), "Widget.render")
}

func TestPruneExternalsSkipsRootNamespaces(t *testing.T) {
	defs := store.New()
	defs.Create("solo", model.KindExt)

	pruneExternals(defs, classreg.New())

	assert.True(t, defs.Has("solo"), "an EXT with no dotted parent is never pruned")
}

func TestPruneExternalsSkipsNonExtKinds(t *testing.T) {
	defs := store.New()
	defs.Create("pkg.mod.Widget.render", model.KindFunction)

	classes := classreg.New()
	classes.AddClass("pkg.mod.Widget", "pkg.mod")

	pruneExternals(defs, classes)

	assert.True(t, defs.Has("pkg.mod.Widget.render"))
}
