package engine

import (
	"bytes"
	"sort"

	"github.com/minio/highwayhash"

	"github.com/example/aidcall/internal/classreg"
	"github.com/example/aidcall/internal/model"
	"github.com/example/aidcall/internal/scopetree"
	"github.com/example/aidcall/internal/store"
)

// hashKey is a fixed 32-byte key for the highwayhash digest used to compare
// snapshots on the fast path.
var hashKey = []byte("AIDCALL-CONVERGENCE-DIGEST-01234")

// DefSnapshot is the minimal observable state of one Definition for
// convergence comparison.
type DefSnapshot struct {
	NamePointer map[string][]string
	LitPointer  map[string][]model.LiteralTag
}

// Snapshot is the minimal observable state compared across postprocessing
// iterations to detect convergence.
type Snapshot struct {
	Defs    map[string]DefSnapshot
	Scopes  map[string][]string // scope namespace -> sorted local definition namespaces
	Classes map[string][]string // class namespace -> MRO
	digest  uint64
}

// TakeSnapshot captures the current observable state of defs/scopes/classes.
func TakeSnapshot(defs *store.Store, scopes *scopetree.ScopeTree, classes *classreg.Registry) *Snapshot {
	s := &Snapshot{
		Defs:    map[string]DefSnapshot{},
		Scopes:  map[string][]string{},
		Classes: map[string][]string{},
	}
	for ns, d := range defs.All() {
		ds := DefSnapshot{NamePointer: map[string][]string{}, LitPointer: map[string][]model.LiteralTag{}}
		for _, attr := range d.Attributes() {
			ds.NamePointer[attr] = d.NamesOf(attr)
		}
		for attr, set := range d.LitPointer {
			if len(set) == 0 {
				continue
			}
			out := make([]model.LiteralTag, 0, len(set))
			for tag := range set {
				out = append(out, tag)
			}
			sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
			ds.LitPointer[attr] = out
		}
		s.Defs[ns] = ds
	}
	for ns, scope := range scopes.All() {
		locals := make([]string, 0, len(scope.Locals))
		for _, defNS := range scope.Locals {
			locals = append(locals, defNS)
		}
		sort.Strings(locals)
		s.Scopes[ns] = locals
	}
	for ns, c := range classes.All() {
		s.Classes[ns] = append([]string{}, c.MRO...)
	}
	s.digest = digest(s)
	return s
}

// HasConverged reports whether current is an idempotent re-observation of
// prev. The predicate is intentionally asymmetric: every entry
// present in current must be present in prev with an exactly equal value;
// new keys in current make convergence false, but keys that disappeared
// from current (e.g. via the one-shot external-definition prune) do not.
func HasConverged(prev, current *Snapshot) bool {
	if prev == nil {
		return false
	}
	if prev.digest == current.digest {
		return true
	}
	return structurallyConverged(prev, current)
}

func structurallyConverged(prev, current *Snapshot) bool {
	for ns, ds := range current.Defs {
		prevDS, ok := prev.Defs[ns]
		if !ok {
			return false
		}
		if !equalStringSliceMap(ds.NamePointer, prevDS.NamePointer) {
			return false
		}
		if !equalLitSliceMap(ds.LitPointer, prevDS.LitPointer) {
			return false
		}
	}
	for ns, locals := range current.Scopes {
		prevLocals, ok := prev.Scopes[ns]
		if !ok || !equalStringSlice(locals, prevLocals) {
			return false
		}
	}
	for ns, mro := range current.Classes {
		prevMRO, ok := prev.Classes[ns]
		if !ok || !equalStringSlice(mro, prevMRO) {
			return false
		}
	}
	return true
}

func digest(s *Snapshot) uint64 {
	var buf bytes.Buffer
	defNames := make([]string, 0, len(s.Defs))
	for ns := range s.Defs {
		defNames = append(defNames, ns)
	}
	sort.Strings(defNames)
	for _, ns := range defNames {
		buf.WriteString(ns)
		ds := s.Defs[ns]
		attrs := make([]string, 0, len(ds.NamePointer))
		for attr := range ds.NamePointer {
			attrs = append(attrs, attr)
		}
		sort.Strings(attrs)
		for _, attr := range attrs {
			buf.WriteString(attr)
			for _, target := range ds.NamePointer[attr] {
				buf.WriteString(target)
			}
		}
		litAttrs := make([]string, 0, len(ds.LitPointer))
		for attr := range ds.LitPointer {
			litAttrs = append(litAttrs, attr)
		}
		sort.Strings(litAttrs)
		for _, attr := range litAttrs {
			buf.WriteString(attr)
			for _, tag := range ds.LitPointer[attr] {
				buf.WriteByte(byte(tag))
			}
		}
	}
	scopeNames := make([]string, 0, len(s.Scopes))
	for ns := range s.Scopes {
		scopeNames = append(scopeNames, ns)
	}
	sort.Strings(scopeNames)
	for _, ns := range scopeNames {
		buf.WriteString(ns)
		for _, local := range s.Scopes[ns] {
			buf.WriteString(local)
		}
	}
	classNames := make([]string, 0, len(s.Classes))
	for ns := range s.Classes {
		classNames = append(classNames, ns)
	}
	sort.Strings(classNames)
	for _, ns := range classNames {
		buf.WriteString(ns)
		for _, base := range s.Classes[ns] {
			buf.WriteString(base)
		}
	}
	hash, err := highwayhash.New64(hashKey)
	if err != nil {
		// hashKey is a fixed constant of the correct length; this cannot fail.
		panic(err)
	}
	_, _ = hash.Write(buf.Bytes())
	return hash.Sum64()
}

func equalStringSlice(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalStringSliceMap(a, b map[string][]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		bv, ok := b[k]
		if !ok || !equalStringSlice(v, bv) {
			return false
		}
	}
	return true
}

func equalLitSliceMap(a, b map[string][]model.LiteralTag) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		bv, ok := b[k]
		if !ok || len(v) != len(bv) {
			return false
		}
		for i := range v {
			if v[i] != bv[i] {
				return false
			}
		}
	}
	return true
}
