package engine

import (
	"github.com/example/aidcall/internal/model"
	"github.com/example/aidcall/internal/namespace"
	"github.com/example/aidcall/internal/store"
)

// defaultConstructorName is the target language's conventional constructor
// method name, used when Config.ConstructorName is left empty.
const defaultConstructorName = "__init__"

// ParameterTable maps a callable namespace to its ordered formal parameter
// simple names, as captured immediately after preprocessing.
type ParameterTable map[string][]string

// extractParameters runs once, after preprocessing completes, over every
// FUNCTION definition plus every constructor-equivalent method (namespace's
// simple name equals ctorName). It reads Definition.Params, which the
// front-end records at discovery time; this snapshot is immune to later
// pointer propagation.
func extractParameters(defs *store.Store, ctorName string) ParameterTable {
	out := ParameterTable{}
	for ns, d := range defs.All() {
		if d.Kind == model.KindFunction || namespace.SimpleName(ns) == ctorName {
			out[ns] = append([]string{}, d.Params...)
		}
	}
	return out
}
