package engine

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/example/aidcall/internal/classreg"
	"github.com/example/aidcall/internal/errs"
	"github.com/example/aidcall/internal/frontend"
	"github.com/example/aidcall/internal/modreg"
	"github.com/example/aidcall/internal/namespace"
	"github.com/example/aidcall/internal/resolve"
	"github.com/example/aidcall/internal/scopetree"
	"github.com/example/aidcall/internal/store"
)

// Engine owns the DefinitionStore, ScopeTree, ClassRegistry, and
// ModuleRegistry exclusively for one analysis invocation, and drives the
// preprocessor/postprocessor passes to a fixed point.
type Engine struct {
	cfg Config

	preFactory  frontend.Factory
	postFactory frontend.Factory
	resolver    *resolve.Hooked

	Scopes  *scopetree.ScopeTree
	Defs    *store.Store
	Classes *classreg.Registry
	Modules *modreg.Registry

	iterationCapReached bool
	iterations          int
	Parameters          ParameterTable
}

// New validates cfg and constructs an Engine. An empty entry-point set, an
// unresolvable package root, or an unknown operation selector is a fatal
// ConfigurationError.
func New(cfg Config, preFactory, postFactory frontend.Factory, resolver resolve.Resolver) (*Engine, error) {
	if len(cfg.EntryPoints) == 0 {
		return nil, &errs.ConfigurationError{Reason: "empty entry-point set"}
	}
	root, err := filepath.Abs(cfg.PackageRoot)
	if err != nil || cfg.PackageRoot == "" {
		return nil, &errs.ConfigurationError{Reason: "unresolvable package root: " + cfg.PackageRoot}
	}
	if cfg.Operation != OpCallGraph && cfg.Operation != OpKeyErr {
		return nil, &errs.ConfigurationError{Reason: "unknown operation selector: " + string(cfg.Operation)}
	}
	cfg.PackageRoot = root
	return &Engine{
		cfg:         cfg,
		preFactory:  preFactory,
		postFactory: postFactory,
		resolver:    resolve.NewHooked(resolver),
		Scopes:      scopetree.New(),
		Defs:        store.New(),
		Classes:     classreg.New(),
		Modules:     modreg.New(),
	}, nil
}

// Config exposes the validated configuration.
func (e *Engine) Config() Config { return e.cfg }

// IterationCapReached reports whether the fixed-point loop exhausted
// MaxIter before HasConverged returned true.
func (e *Engine) IterationCapReached() bool { return e.iterationCapReached }

// Iterations reports how many postprocessing iterations actually ran.
func (e *Engine) Iterations() int { return e.iterations }

// Run executes the preprocessor pass, the parameter snapshot, and the
// postprocessor fixed-point loop with the one-shot external-definition
// prune between iterations 0 and 1.
func (e *Engine) Run(ctx context.Context) error {
	if err := e.preprocess(ctx); err != nil {
		return err
	}
	e.Defs.Complete()
	e.Parameters = extractParameters(e.Defs, e.cfg.constructorName())

	var prev *Snapshot
	current := TakeSnapshot(e.Defs, e.Scopes, e.Classes)
	maxIter := e.cfg.maxIter()
	iter := 0
	for (maxIter < 0 || iter < maxIter) && !HasConverged(prev, current) {
		prev = current
		e.Scopes.ResetAllCounters()

		if err := e.postprocess(ctx); err != nil {
			return err
		}

		if iter == 0 {
			pruneExternals(e.Defs, e.Classes)
		}

		e.Defs.Complete()
		iter++
		current = TakeSnapshot(e.Defs, e.Scopes, e.Classes)
	}
	e.iterations = iter
	e.iterationCapReached = maxIter >= 0 && iter >= maxIter && !HasConverged(prev, current)
	e.Scopes.ResetAllCounters()
	return nil
}

// preprocess runs the discovery pass (PRE) over every entry point not yet
// analyzed in this invocation. A failure inside one entry point's walk is
// logged and that entry point is skipped; the engine continues with the
// rest.
func (e *Engine) preprocess(ctx context.Context) error {
	return e.doPass(ctx, e.preFactory, true)
}

// postprocess runs the propagation pass (POST); the fixed-point loop never
// installs import hooks.
func (e *Engine) postprocess(ctx context.Context) error {
	return e.doPass(ctx, e.postFactory, false)
}

func (e *Engine) doPass(ctx context.Context, factory frontend.Factory, installHooks bool) error {
	modulesAnalyzed := map[string]struct{}{}
	for _, entry := range e.cfg.EntryPoints {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		modNS, err := namespace.FromFilePath(e.cfg.PackageRoot, entry)
		if err != nil || modNS == "" {
			continue
		}
		if _, done := modulesAnalyzed[modNS]; done {
			continue
		}

		if err := e.walkEntry(entry, modNS, modulesAnalyzed, factory, installHooks); err != nil {
			log.Warn().Err(err).Str("entryPoint", entry).Msg("skipping entry point after walk failure")
			continue
		}
		modulesAnalyzed[modNS] = struct{}{}
	}
	return nil
}

// walkEntry runs one front-end walk over one entry point. Hooks, when
// installed, are removed on every exit path, faults included.
func (e *Engine) walkEntry(entry, modNS string, modulesAnalyzed map[string]struct{}, factory frontend.Factory, installHooks bool) error {
	mode := frontend.ModePost
	if installHooks {
		mode = frontend.ModePre
		e.resolver.InstallHooks(e.cfg.PackageRoot)
		defer e.resolver.RemoveHooks()
	}

	fe, err := factory(frontend.Params{
		InputFile:       entry,
		InputModuleNS:   modNS,
		ModulesAnalyzed: modulesAnalyzed,
		Resolver:        e.resolver,
		Scopes:          e.Scopes,
		Defs:            e.Defs,
		Classes:         e.Classes,
		Modules:         e.Modules,
		Mode:            mode,
	})
	if err != nil {
		return err
	}
	walked, err := fe.Analyze()
	for w := range walked {
		modulesAnalyzed[w] = struct{}{}
	}
	return err
}
