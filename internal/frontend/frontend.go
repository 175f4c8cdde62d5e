// Package frontend defines the external front-end collaborator boundary:
// the syntactic layer that walks program text to discover
// definitions (PRE) or propagate points-to pointers (POST). The engine
// depends only on this interface; concrete walkers (e.g. the tree-sitter
// reference implementation in ./treesitter) are swappable.
package frontend

import (
	"github.com/example/aidcall/internal/classreg"
	"github.com/example/aidcall/internal/modreg"
	"github.com/example/aidcall/internal/resolve"
	"github.com/example/aidcall/internal/scopetree"
	"github.com/example/aidcall/internal/store"
)

// Mode selects whether a walk discovers new records (Pre) or only propagates
// points-to pointers over already-discovered scopes/classes/modules (Post).
type Mode uint8

const (
	ModePre Mode = iota
	ModePost
)

// FrontEnd walks one entry point's source and mutates the shared stores.
// Analyze returns the set of module namespaces it has transitively walked
// (e.g. by following imports).
type FrontEnd interface {
	Analyze() (modulesWalked map[string]struct{}, err error)
}

// Params bundles the constructor arguments a front-end collaborator needs:
// the input file and its module namespace, the set of modules already
// analyzed this invocation, the import resolver, the four shared stores it
// mutates, and the walk mode.
type Params struct {
	InputFile       string
	InputModuleNS   string
	ModulesAnalyzed map[string]struct{}
	Resolver        *resolve.Hooked
	Scopes          *scopetree.ScopeTree
	Defs            *store.Store
	Classes         *classreg.Registry
	Modules         *modreg.Registry
	Mode            Mode
}

// Factory constructs a FrontEnd for one pass over one entry point. The
// Preprocessor/Postprocessor drivers hold one Factory per Mode.
type Factory func(p Params) (FrontEnd, error)
