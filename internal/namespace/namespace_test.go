package namespace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoin(t *testing.T) {
	tests := []struct {
		description string
		parent      string
		name        string
		expected    string
	}{
		{"both present", "pkg.mod", "Class", "pkg.mod.Class"},
		{"empty parent", "", "Class", "Class"},
		{"empty name", "pkg.mod", "", "pkg.mod"},
	}
	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.expected, Join(tc.parent, tc.name))
		})
	}
}

func TestSimpleNameAndParent(t *testing.T) {
	assert.Equal(t, "method", SimpleName("pkg.mod.Class.method"))
	assert.Equal(t, "pkg.mod.Class", Parent("pkg.mod.Class.method"))
	assert.Equal(t, "mod", SimpleName("mod"))
	assert.Equal(t, "", Parent("mod"))
}

func TestAttributeEqual(t *testing.T) {
	tests := []struct {
		description string
		a, b        string
		expected    bool
	}{
		{"identical", "pkg.mod.Foo", "pkg.mod.Foo", true},
		{"suffix match", "mod.Foo", "pkg.mod.Foo", true},
		{"different leaf", "ext.Foo", "pkg.mod.Bar", false},
		{"empty a", "", "pkg.mod.Foo", false},
		{"empty b", "pkg.mod.Foo", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.expected, AttributeEqual(tc.a, tc.b))
		})
	}
}

func TestFromFilePath(t *testing.T) {
	tests := []struct {
		description string
		root        string
		path        string
		expected    string
		wantErr     bool
	}{
		{"simple module", "/pkg", "/pkg/mod.py", "mod", false},
		{"nested module", "/pkg", "/pkg/sub/mod.py", "sub.mod", false},
		{"package init", "/pkg", "/pkg/sub/__init__.py", "sub", false},
		{"root init", "/pkg", "/pkg/__init__.py", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			got, err := FromFilePath(tc.root, tc.path)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}
