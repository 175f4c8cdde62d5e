package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/aidcall/internal/model"
	"github.com/example/aidcall/internal/store"
)

func TestExtractParametersCapturesFunctionsAndConstructors(t *testing.T) {
	defs := store.New()
	fn := defs.Create("pkg.mod.greet", model.KindFunction)
	fn.Params = []string{"name", "loud"}

	ctor := defs.Create("pkg.mod.Widget.__init__", model.KindName)
	ctor.Params = []string{"self", "label"}

	defs.Create("pkg.mod.Widget.render", model.KindName)

	params := extractParameters(defs, defaultConstructorName)

	assert.Equal(t, []string{"name", "loud"}, params["pkg.mod.greet"])
	assert.Equal(t, []string{"self", "label"}, params["pkg.mod.Widget.__init__"])
	_, ok := params["pkg.mod.Widget.render"]
	assert.False(t, ok)
}

func TestExtractParametersHonorsConfiguredConstructorName(t *testing.T) {
	defs := store.New()
	ctor := defs.Create("pkg.mod.Widget.initialize", model.KindName)
	ctor.Params = []string{"self"}
	defs.Create("pkg.mod.Widget.__init__", model.KindName)

	params := extractParameters(defs, "initialize")

	assert.Equal(t, []string{"self"}, params["pkg.mod.Widget.initialize"])
	_, ok := params["pkg.mod.Widget.__init__"]
	assert.False(t, ok)

	assert.Equal(t, "initialize", Config{ConstructorName: "initialize"}.constructorName())
	assert.Equal(t, defaultConstructorName, Config{}.constructorName())
}

func TestExtractParametersSnapshotIsIndependentOfLaterMutation(t *testing.T) {
	defs := store.New()
	fn := defs.Create("pkg.mod.greet", model.KindFunction)
	fn.Params = []string{"name"}

	params := extractParameters(defs, defaultConstructorName)
	fn.Params = append(fn.Params, "extra")

	assert.Equal(t, []string{"name"}, params["pkg.mod.greet"], "snapshot must not alias the live Params slice")
}
