// Package resolve implements the ImportResolver: an abstract
// interface to the front-end for mapping import requests to module
// descriptors, with hooks scoped to a package root for the duration of one
// preprocessor pass.
package resolve

import (
	"errors"

	"github.com/example/aidcall/internal/namespace"
)

// ErrEmptyImport is returned for an empty import spec.
var ErrEmptyImport = errors.New("resolve: empty import spec")

// Resolver maps an import request seen in currentModule to the namespace of
// the module it names. Implementations are supplied by the front-end
// collaborator; the engine never resolves imports itself.
type Resolver interface {
	Resolve(currentModule, importSpec string) (moduleNS string, err error)
}

// Hooked wraps a Resolver with install/remove semantics scoped to a single
// package root, realizing the "module-global state" design note:
// a scoped-acquisition resource owned by the engine, begun on pass start and
// released unconditionally on pass end, including faults.
type Hooked struct {
	inner       Resolver
	packageRoot string
	active      bool
}

// NewHooked wraps inner with hook scoping.
func NewHooked(inner Resolver) *Hooked {
	return &Hooked{inner: inner}
}

// InstallHooks scopes the resolver to packageRoot. Must be called before a
// preprocessor walk begins.
func (h *Hooked) InstallHooks(packageRoot string) {
	h.packageRoot = packageRoot
	h.active = true
}

// RemoveHooks releases the scope. Must be called on every exit path from a
// preprocessor walk, including faults; callers should `defer h.RemoveHooks()`
// immediately after InstallHooks.
func (h *Hooked) RemoveHooks() {
	h.active = false
	h.packageRoot = ""
}

// Active reports whether hooks are currently installed.
func (h *Hooked) Active() bool {
	return h.active
}

// PackageRoot returns the root hooks are currently scoped to, or "" if inactive.
func (h *Hooked) PackageRoot() string {
	return h.packageRoot
}

// Resolve delegates to the wrapped Resolver. The fixed-point (postprocessor)
// loop never installs hooks and must not call Resolve.
func (h *Hooked) Resolve(currentModule, importSpec string) (string, error) {
	return h.inner.Resolve(currentModule, importSpec)
}

// Dotted is the default Resolver: it treats an import spec as already being
// a dotted module namespace, independent of the importing module. Relative
// imports (a leading dot) are resolved against currentModule's package.
type Dotted struct{}

// Resolve implements Resolver.
func (Dotted) Resolve(currentModule, importSpec string) (string, error) {
	if importSpec == "" {
		return "", ErrEmptyImport
	}
	if importSpec[0] != '.' {
		return importSpec, nil
	}
	level := 0
	for level < len(importSpec) && importSpec[level] == '.' {
		level++
	}
	base := currentModule
	for i := 0; i < level && base != ""; i++ {
		base = namespace.Parent(base)
	}
	rest := importSpec[level:]
	return namespace.Join(base, rest), nil
}
