// Package errs defines the engine's error taxonomy.
package errs

import "fmt"

// LookupFailure indicates a namespace expected to exist in the DefinitionStore is
// absent. It propagates and signals a bug in the front-end's pass ordering.
type LookupFailure struct {
	Namespace string
}

func (e *LookupFailure) Error() string {
	return fmt.Sprintf("lookup failure: namespace %q not found in definition store", e.Namespace)
}

// ConfigurationError is fatal at the top level: empty entry-point set,
// unresolvable package root, or an unknown operation selector.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// CycleInMRO signals that C3 linearization failed for a class. It is not fatal:
// the class's MRO degrades to [self] and analysis continues.
type CycleInMRO struct {
	Class string
}

func (e *CycleInMRO) Error() string {
	return fmt.Sprintf("cycle in MRO for class %q, degrading to [self]", e.Class)
}

// IterationCapReached is not an error in the Go `error` sense; it is surfaced as a
// flag on the result so downstream consumers may downgrade confidence. It
// satisfies error so it can be logged uniformly alongside the other taxonomy
// members when useful.
type IterationCapReached struct {
	MaxIter int
}

func (e *IterationCapReached) Error() string {
	return fmt.Sprintf("iteration cap (%d) reached before convergence", e.MaxIter)
}
