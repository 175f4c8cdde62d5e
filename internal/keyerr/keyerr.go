// Package keyerr implements the KEY_ERR operation: a pass,
// external to the core, that reports potential key-lookup errors on
// associative containers. It consumes only the DefinitionStore.
package keyerr

import (
	"sort"
	"strings"

	"github.com/example/aidcall/internal/store"
)

// litAttr is the attribute key the front-end uses to record the set of
// literal string keys a dict-like Definition is known to have been
// constructed or written with.
const litAttr = "<dict-keys>"

// accessAttrPrefix marks an attribute recording one subscript-access key
// expression against a dict-like Definition, e.g. "<subscript>:k".
const accessAttrPrefix = "<subscript>:"

// Finding reports one potential KeyError: accessing key on receiver where
// key is not among the literal keys observed for receiver.
type Finding struct {
	Receiver string
	Key      string
}

// Generate scans every Definition for subscript accesses whose key is not
// present in the receiver's known literal key set.
func Generate(defs *store.Store) []Finding {
	var findings []Finding
	for ns, d := range defs.All() {
		known := map[string]struct{}{}
		for _, k := range d.NamesOf(litAttr) {
			known[k] = struct{}{}
		}
		for _, attr := range d.Attributes() {
			if !strings.HasPrefix(attr, accessAttrPrefix) {
				continue
			}
			key := attr[len(accessAttrPrefix):]
			if _, ok := known[key]; !ok {
				findings = append(findings, Finding{Receiver: ns, Key: key})
			}
		}
	}
	sort.Slice(findings, func(i, j int) bool {
		if findings[i].Receiver != findings[j].Receiver {
			return findings[i].Receiver < findings[j].Receiver
		}
		return findings[i].Key < findings[j].Key
	})
	return findings
}
