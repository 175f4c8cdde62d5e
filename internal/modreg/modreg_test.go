package modreg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddModuleIsIdempotent(t *testing.T) {
	r := New()
	m1 := r.AddModule("pkg.mod", "/pkg/mod.py", true)
	m2 := r.AddModule("pkg.mod", "/other/path.py", false)
	assert.Same(t, m1, m2)
	assert.True(t, m2.Internal, "first AddModule call wins")
}

func TestAddMethodDeduplicates(t *testing.T) {
	r := New()
	r.AddModule("pkg.mod", "/pkg/mod.py", true)
	r.AddMethod("pkg.mod", "pkg.mod.f")
	r.AddMethod("pkg.mod", "pkg.mod.f")
	r.AddMethod("pkg.mod", "pkg.mod.g")

	m, ok := r.Get("pkg.mod")
	assert.True(t, ok)
	assert.Equal(t, []string{"pkg.mod.f", "pkg.mod.g"}, m.Methods)
}

func TestAddMethodOnUnknownModuleIsNoop(t *testing.T) {
	r := New()
	r.AddMethod("pkg.missing", "pkg.missing.f")
	_, ok := r.Get("pkg.missing")
	assert.False(t, ok)
}

func TestInternalAndExternalPartitioning(t *testing.T) {
	r := New()
	r.AddModule("pkg.a", "/pkg/a.py", true)
	r.AddModule("pkg.b", "", false)

	internal := r.Internal()
	external := r.External()

	_, ok := internal["pkg.a"]
	assert.True(t, ok)
	_, ok = internal["pkg.b"]
	assert.False(t, ok)

	_, ok = external["pkg.b"]
	assert.True(t, ok)
	_, ok = external["pkg.a"]
	assert.False(t, ok)
}
