package engine

import (
	"strings"

	"github.com/example/aidcall/internal/classreg"
	"github.com/example/aidcall/internal/model"
	"github.com/example/aidcall/internal/namespace"
	"github.com/example/aidcall/internal/store"
)

// pruneExternals implements the one-shot external-definition prune, run only
// between iteration 0 and iteration 1. For every EXT definition whose namespace
// contains a dot, split into ext_class.ext_method. If some class namespace is
// attribute-equal to ext_class and the store already contains a non-EXT
// definition of <that_class>.<ext_method>, the speculative EXT has been
// resolved to a real class method and is scheduled for removal. Removal goes through Store.Remove
// (which also scrubs pointer sets) and Complete is called afterward, leaving
// unresolved externals in place.
func pruneExternals(defs *store.Store, classes *classreg.Registry) {
	toRemove := map[string]struct{}{}
	for ns, d := range defs.All() {
		if d.Kind != model.KindExt || !strings.Contains(ns, ".") {
			continue
		}
		extClass := namespace.Parent(ns)
		extMethod := namespace.SimpleName(ns)
		for _, c := range classes.All() {
			if !namespace.AttributeEqual(extClass, c.Namespace) {
				continue
			}
			resolved := namespace.Join(c.Namespace, extMethod)
			if rd, err := defs.Get(resolved); err == nil && rd.Kind != model.KindExt {
				toRemove[ns] = struct{}{}
				break
			}
		}
	}
	for ns := range toRemove {
		defs.Remove(ns)
	}
	defs.Complete()
}
