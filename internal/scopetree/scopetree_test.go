package scopetree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddScopeIsIdempotent(t *testing.T) {
	tree := New()
	s1 := tree.AddScope("pkg.mod", "f", "function")
	s2 := tree.AddScope("pkg.mod", "f", "function")
	assert.Same(t, s1, s2)
	assert.Equal(t, "pkg.mod.f", s1.Namespace)
}

func TestAddRootScopeIsIdempotent(t *testing.T) {
	tree := New()
	r1 := tree.AddRootScope("pkg.mod", "module")
	r2 := tree.AddRootScope("pkg.mod", "module")
	assert.Same(t, r1, r2)
	assert.Equal(t, "", r1.ParentNamespace)
}

func TestLookupWalksParentChain(t *testing.T) {
	tree := New()
	root := tree.AddRootScope("pkg.mod", "module")
	tree.Bind(root, "x", "pkg.mod.x")
	fn := tree.AddScope("pkg.mod", "f", "function")

	ns, ok := tree.Lookup(fn, "x")
	require.True(t, ok)
	assert.Equal(t, "pkg.mod.x", ns)

	_, ok = tree.Lookup(fn, "missing")
	assert.False(t, ok)
}

func TestLookupPrefersLocalBinding(t *testing.T) {
	tree := New()
	root := tree.AddRootScope("pkg.mod", "module")
	tree.Bind(root, "x", "pkg.mod.x")
	fn := tree.AddScope("pkg.mod", "f", "function")
	tree.Bind(fn, "x", "pkg.mod.f.x")

	ns, ok := tree.Lookup(fn, "x")
	require.True(t, ok)
	assert.Equal(t, "pkg.mod.f.x", ns)
}

func TestResetAllCounters(t *testing.T) {
	tree := New()
	root := tree.AddRootScope("pkg.mod", "module")
	root.NextAnonymousName("listcomp")
	root.NextAnonymousName("listcomp")

	tree.ResetAllCounters()
	assert.Equal(t, "<listcomp>#1", root.NextAnonymousName("listcomp"))
}
