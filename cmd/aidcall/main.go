// Command aidcall runs the whole-program analysis engine over a package
// root and prints either a call graph or a key-lookup-error report.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"

	"github.com/example/aidcall/internal/callgraph"
	"github.com/example/aidcall/internal/dataflow"
	"github.com/example/aidcall/internal/engine"
	"github.com/example/aidcall/internal/frontend/treesitter"
	"github.com/example/aidcall/internal/keyerr"
	"github.com/example/aidcall/internal/render"
	"github.com/example/aidcall/internal/resolve"
	"github.com/example/aidcall/internal/typeinfer"
)

func main() {
	cmd := &cli.Command{
		Name:  "aidcall",
		Usage: "whole-program call-graph and key-error analysis",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "package-root",
				Aliases:  []string{"r"},
				Usage:    "directory entry points are relativized against",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:    "entry",
				Aliases: []string{"e"},
				Usage:   "entry-point source file (repeatable; omit to discover sources under the package root)",
			},
			&cli.StringFlag{
				Name:  "operation",
				Usage: "CALL_GRAPH or KEY_ERR",
				Value: string(engine.OpCallGraph),
			},
			&cli.IntFlag{
				Name:  "max-iter",
				Usage: "postprocessor iteration cap (0 = default, negative = until converged)",
			},
			&cli.StringFlag{
				Name:  "constructor-name",
				Usage: "method name treated as a class constructor",
				Value: "__init__",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "enable debug logging",
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("verbose") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	fs := afs.New()
	entries := cmd.StringSlice("entry")
	if len(entries) == 0 {
		var err error
		entries, err = discoverEntryPoints(ctx, fs, cmd.String("package-root"))
		if err != nil {
			return err
		}
	}

	cfg := engine.Config{
		EntryPoints:     entries,
		PackageRoot:     cmd.String("package-root"),
		MaxIter:         int(cmd.Int("max-iter")),
		Operation:       engine.Operation(cmd.String("operation")),
		ConstructorName: cmd.String("constructor-name"),
	}

	walkerFactory := treesitter.NewFactory(fs)

	eng, err := engine.New(cfg, walkerFactory, walkerFactory, resolve.Dotted{})
	if err != nil {
		return err
	}

	if err := eng.Run(ctx); err != nil {
		return err
	}
	if eng.IterationCapReached() {
		log.Warn().Int("iterations", eng.Iterations()).Msg("iteration cap reached before convergence")
	}

	var out []byte
	switch cfg.Operation {
	case engine.OpKeyErr:
		findings := keyerr.Generate(eng.Defs)
		out, err = render.MarshalKeyErr(findings)
	default:
		ti := typeinfer.Generate(eng.Defs, eng.Scopes, eng.Classes)
		df := dataflow.Generate(eng.Defs)
		g := callgraph.Build(eng.Defs, eng.Classes, ti)
		dg := callgraph.BuildDataflowGraph(df)
		out, err = render.MarshalCallGraph(g, dg, ti, df, eng.Modules, eng.Classes, eng.Defs)
	}
	if err != nil {
		return err
	}

	_, err = os.Stdout.Write(out)
	return err
}

// discoverEntryPoints walks the package root and collects every source file
// of the target language as an entry point.
func discoverEntryPoints(ctx context.Context, fs afs.Service, root string) ([]string, error) {
	var entries []string
	var visitor storage.OnVisit = func(ctx context.Context, baseURL, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
		if info.IsDir() {
			return true, nil
		}
		if strings.HasSuffix(info.Name(), ".py") {
			entries = append(entries, url.Join(url.Join(baseURL, parent), info.Name()))
		}
		return true, nil
	}
	if err := fs.Walk(ctx, root, visitor); err != nil {
		return nil, err
	}
	sort.Strings(entries)
	return entries, nil
}
