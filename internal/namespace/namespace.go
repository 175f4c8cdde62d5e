// Package namespace provides canonical dotted-name manipulation for fully
// qualified program constructs (e.g. "pkg.mod.Class.method.local").
package namespace

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrEmpty is returned when an operation is asked to operate on the empty namespace.
var ErrEmpty = errors.New("namespace: empty namespace is invalid")

// Join builds a child namespace under parent, e.g. Join("pkg.mod", "Class") -> "pkg.mod.Class".
// Join("", "Class") -> "Class".
func Join(parent, name string) string {
	if parent == "" {
		return name
	}
	if name == "" {
		return parent
	}
	return parent + "." + name
}

// SimpleName returns the last dotted component of ns, the construct's own name.
func SimpleName(ns string) string {
	if idx := strings.LastIndex(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return ns
}

// Parent returns everything before the last dot, or "" if ns has no parent.
func Parent(ns string) string {
	if idx := strings.LastIndex(ns, "."); idx >= 0 {
		return ns[:idx]
	}
	return ""
}

// Split splits ns into its dotted components.
func Split(ns string) []string {
	if ns == "" {
		return nil
	}
	return strings.Split(ns, ".")
}

// AttributeEqual implements the attribute-equality rule used for external-definition
// pruning: two namespaces are attribute-equal if one is a suffix of the
// other when split on dots, compared component-wise from the right. This is an
// intentionally coarse, right-anchored match: it can over-match when two unrelated
// classes share a simple name.
func AttributeEqual(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	as := Split(a)
	bs := Split(b)
	n := len(as)
	if len(bs) < n {
		n = len(bs)
	}
	for i := 1; i <= n; i++ {
		if as[len(as)-i] != bs[len(bs)-i] {
			return false
		}
	}
	return true
}

// FromFilePath canonicalizes a source file path into a module namespace, relative
// to packageRoot: strip the file extension, replace path separators with dots, and
// trim a trailing "__init__" component so "pkg/__init__" becomes "pkg".
func FromFilePath(packageRoot, filePath string) (string, error) {
	rel, err := filepath.Rel(packageRoot, filePath)
	if err != nil {
		return "", err
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	rel = strings.ReplaceAll(rel, string(filepath.Separator), ".")
	rel = strings.ReplaceAll(rel, "/", ".")
	rel = strings.TrimSuffix(rel, ".__init__")
	if rel == "__init__" {
		rel = ""
	}
	if rel == "" {
		return "", ErrEmpty
	}
	return rel, nil
}
