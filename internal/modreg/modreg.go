// Package modreg implements the ModuleRegistry:
// internal vs. external modules and their exported method lists.
package modreg

import "github.com/example/aidcall/internal/model"

// Registry owns every Module descriptor for one analysis invocation.
type Registry struct {
	modules map[string]*model.Module
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{modules: map[string]*model.Module{}}
}

// AddModule registers ns, classified internal or external by the internal
// argument (callers pass true when they parsed the module's source). The
// first registration of ns wins; later calls return it unchanged.
func (r *Registry) AddModule(ns, sourcePath string, internal bool) *model.Module {
	if m, ok := r.modules[ns]; ok {
		return m
	}
	m := &model.Module{Namespace: ns, SourcePath: sourcePath, Internal: internal}
	r.modules[ns] = m
	return m
}

// Get returns the module descriptor for ns.
func (r *Registry) Get(ns string) (*model.Module, bool) {
	m, ok := r.modules[ns]
	return m, ok
}

// AddMethod appends methodNS to ns's exported method list, if not already present.
func (r *Registry) AddMethod(ns, methodNS string) {
	m, ok := r.modules[ns]
	if !ok {
		return
	}
	for _, existing := range m.Methods {
		if existing == methodNS {
			return
		}
	}
	m.Methods = append(m.Methods, methodNS)
}

// Internal returns every module whose source was parsed.
func (r *Registry) Internal() map[string]*model.Module {
	return filterBy(r.modules, true)
}

// External returns every module believed to live outside the analyzed package.
func (r *Registry) External() map[string]*model.Module {
	return filterBy(r.modules, false)
}

func filterBy(modules map[string]*model.Module, internal bool) map[string]*model.Module {
	out := map[string]*model.Module{}
	for ns, m := range modules {
		if m.Internal == internal {
			out[ns] = m
		}
	}
	return out
}

// All returns every module keyed by namespace.
func (r *Registry) All() map[string]*model.Module {
	return r.modules
}
