package model

// Module is a module descriptor: name, source path (absent for
// external modules), and the top-level callable namespaces it exports.
// Classified as internal if its source was parsed, else external.
type Module struct {
	Namespace  string
	SourcePath string // "" for external modules
	Internal   bool
	Methods    []string
}
