package resolve

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	calls int
}

func (s *stubResolver) Resolve(currentModule, importSpec string) (string, error) {
	s.calls++
	return "resolved." + importSpec, nil
}

func TestHookedLifecycle(t *testing.T) {
	stub := &stubResolver{}
	h := NewHooked(stub)
	assert.False(t, h.Active())
	assert.Equal(t, "", h.PackageRoot())

	h.InstallHooks("/pkg/root")
	assert.True(t, h.Active())
	assert.Equal(t, "/pkg/root", h.PackageRoot())

	ns, err := h.Resolve("pkg.mod", "pkg.other")
	require.NoError(t, err)
	assert.Equal(t, "resolved.pkg.other", ns)
	assert.Equal(t, 1, stub.calls)

	h.RemoveHooks()
	assert.False(t, h.Active())
	assert.Equal(t, "", h.PackageRoot())
}

func TestHookedRemoveIsSafeWithoutInstall(t *testing.T) {
	h := NewHooked(&stubResolver{})
	h.RemoveHooks()
	assert.False(t, h.Active())
}

func TestDottedAbsoluteImport(t *testing.T) {
	ns, err := (Dotted{}).Resolve("pkg.mod", "pkg.other")
	require.NoError(t, err)
	assert.Equal(t, "pkg.other", ns)
}

func TestDottedEmptyImportIsError(t *testing.T) {
	_, err := (Dotted{}).Resolve("pkg.mod", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyImport))
}

func TestDottedSingleLevelRelativeImport(t *testing.T) {
	ns, err := (Dotted{}).Resolve("pkg.mod", ".sibling")
	require.NoError(t, err)
	assert.Equal(t, "pkg.sibling", ns)
}

func TestDottedMultiLevelRelativeImport(t *testing.T) {
	ns, err := (Dotted{}).Resolve("pkg.mod", "..sibling")
	require.NoError(t, err)
	assert.Equal(t, "sibling", ns)
}

func TestDottedRelativeImportBeyondRootStaysAtRoot(t *testing.T) {
	ns, err := (Dotted{}).Resolve("mod", "..sibling")
	require.NoError(t, err)
	assert.Equal(t, "sibling", ns)
}
