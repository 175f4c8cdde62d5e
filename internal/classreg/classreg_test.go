package classreg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearSingleInheritance(t *testing.T) {
	r := New()
	r.AddClass("pkg.A", "pkg")
	r.AddClass("pkg.B", "pkg")
	r.AddClass("pkg.C", "pkg")

	require.NoError(t, r.SetBases("pkg.B", []string{"pkg.A"}))
	require.NoError(t, r.SetBases("pkg.C", []string{"pkg.B"}))

	mro, err := r.MRO("pkg.C")
	require.NoError(t, err)
	assert.Equal(t, []string{"pkg.C", "pkg.B", "pkg.A"}, mro)
}

func TestDiamondInheritanceC3(t *testing.T) {
	r := New()
	r.AddClass("pkg.O", "pkg")
	r.AddClass("pkg.A", "pkg")
	r.AddClass("pkg.B", "pkg")
	r.AddClass("pkg.C", "pkg")

	require.NoError(t, r.SetBases("pkg.A", []string{"pkg.O"}))
	require.NoError(t, r.SetBases("pkg.B", []string{"pkg.O"}))
	require.NoError(t, r.SetBases("pkg.C", []string{"pkg.A", "pkg.B"}))

	mro, err := r.MRO("pkg.C")
	require.NoError(t, err)
	assert.Equal(t, []string{"pkg.C", "pkg.A", "pkg.B", "pkg.O"}, mro)
}

func TestInconsistentMROFallsBackToSelf(t *testing.T) {
	r := New()
	r.AddClass("pkg.X", "pkg")
	r.AddClass("pkg.Y", "pkg")
	r.AddClass("pkg.A", "pkg")
	r.AddClass("pkg.B", "pkg")
	r.AddClass("pkg.C", "pkg")

	require.NoError(t, r.SetBases("pkg.X", nil))
	require.NoError(t, r.SetBases("pkg.Y", nil))
	require.NoError(t, r.SetBases("pkg.A", []string{"pkg.X", "pkg.Y"}))
	require.NoError(t, r.SetBases("pkg.B", []string{"pkg.Y", "pkg.X"}))

	err := r.SetBases("pkg.C", []string{"pkg.A", "pkg.B"})
	require.Error(t, err, "A and B demand conflicting orderings of X and Y")

	mro, mroErr := r.MRO("pkg.C")
	require.NoError(t, mroErr)
	assert.Equal(t, []string{"pkg.C"}, mro, "inconsistent hierarchy degrades MRO to [self]")
}

func TestUnresolvedBaseOmittedFromLinearization(t *testing.T) {
	r := New()
	r.AddClass("pkg.B", "pkg")
	require.NoError(t, r.SetBases("pkg.B", []string{"pkg.Unknown"}))

	mro, err := r.MRO("pkg.B")
	require.NoError(t, err)
	assert.Equal(t, []string{"pkg.B"}, mro)

	c, ok := r.Get("pkg.B")
	require.True(t, ok)
	assert.Equal(t, []string{"pkg.Unknown"}, c.Bases)
}
