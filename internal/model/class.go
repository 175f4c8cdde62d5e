package model

// Class is a class descriptor: name, owning module, declared bases,
// and a linearized MRO computed by C3 over the currently known base set. Absent
// or unknown bases degrade to a single-element MRO containing the class itself.
type Class struct {
	Namespace string
	Module    string
	// Bases holds every declared base namespace, including ones not yet
	// resolved to a known Class; classreg re-linearizes when a base resolves.
	Bases []string
	MRO   []string
}
