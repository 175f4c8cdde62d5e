// Package engine drives the fixed-point abstract-interpretation loop: the
// Preprocessor and Postprocessor drivers, convergence detection, the
// one-shot external-definition prune, and the parameter snapshot.
package engine

// Operation selects which downstream pass consumes the converged state.
type Operation string

const (
	OpCallGraph Operation = "CALL_GRAPH"
	OpKeyErr    Operation = "KEY_ERR"
)

// defaultMaxIter is the fallback iteration cap when Config.MaxIter is left
// at its zero value. The original reference implementation hard-codes this
// default even when a caller passes something else; this rewrite honors
// whatever MaxIter the caller supplies and only substitutes the default
// when the field was never set.
const defaultMaxIter = 10

// Config configures one analysis invocation.
type Config struct {
	// EntryPoints lists source files to start analysis from.
	EntryPoints []string
	// PackageRoot is the directory entry-point paths are relativized against
	// to produce module namespaces.
	PackageRoot string
	// MaxIter bounds postprocessor iterations. Zero selects defaultMaxIter;
	// negative means "until converged".
	MaxIter int
	// Operation selects CALL_GRAPH or KEY_ERR.
	Operation Operation
	// ConstructorName is the method name the parameter snapshot treats as a
	// class constructor. Empty selects the target language's conventional
	// defaultConstructorName.
	ConstructorName string
}

func (c Config) maxIter() int {
	if c.MaxIter == 0 {
		return defaultMaxIter
	}
	return c.MaxIter
}

func (c Config) constructorName() string {
	if c.ConstructorName == "" {
		return defaultConstructorName
	}
	return c.ConstructorName
}
