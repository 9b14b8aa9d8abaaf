package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, []*cli.Opt{
		&cli.Opt{
			Name:        "o",
			Description: "output file (default stdout)",
			Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
		},
		&cli.Opt{
			Name:        "O",
			Aliases:     []string{"ofmt"},
			Description: "output format: yaml/y, json/j",
			Type:        cli.NamedFuncOpt(cfg.fmtOpt, "(format)"),
		}}...)

	return cli.NewCommandAt(&cfg.Main, "weave").
		WithSynopsis("weave [opts] command [opts]").
		WithDescription("weave resolves cross-file references in structured config documents.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return weaveMain(cfg, cc, args)
		}).
		WithSubs(
			ResolveCommand(cfg),
			ViewCommand(cfg),
			DiffCommand(cfg))
}

func ResolveCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ResolveConfig{MainConfig: mainCfg}
	opts := []*cli.Opt{
		&cli.Opt{
			Name:        "r",
			Aliases:     []string{"root"},
			Description: "extra allowed root directory (repeatable)",
			Type:        cli.NamedFuncOpt(rootOptFunc(&cfg.Roots), "(dir)"),
		},
		&cli.Opt{
			Name:        "p",
			Aliases:     []string{"patch"},
			Description: "apply an RFC 7386 merge patch file to the result",
			Type:        cli.NamedFuncOpt(stringOptFunc(&cfg.Patch), "(filepath)"),
		},
		&cli.Opt{
			Name:        "s",
			Aliases:     []string{"select"},
			Description: "output only the subtree at a document path, e.g. $.a[0].b",
			Type:        cli.NamedFuncOpt(stringOptFunc(&cfg.Select), "(docpath)"),
		},
	}
	cmd := cli.NewCommand("resolve").
		WithAliases("r", "res").
		WithSynopsis("resolve [-r dir]... [-p patchfile] [-s docpath] <file>").
		WithDescription("Resolve all reference markers in a document file").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return weaveResolve(cfg, cc, args)
		})
	cfg.Resolve = cmd
	return cmd
}

func ViewCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ViewConfig{MainConfig: mainCfg}
	cmd := cli.NewCommand("view").
		WithAliases("v").
		WithSynopsis("view [files]").
		WithDescription("view document files with markers, without resolving").
		WithRun(func(cc *cli.Context, args []string) error {
			return view(cfg, cc, args)
		})
	cfg.View = cmd
	return cmd
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	opts := []*cli.Opt{
		&cli.Opt{
			Name:        "r",
			Aliases:     []string{"root"},
			Description: "extra allowed root directory (repeatable)",
			Type:        cli.NamedFuncOpt(rootOptFunc(&cfg.Roots), "(dir)"),
		},
	}
	cmd := cli.NewCommand("diff").
		WithAliases("d").
		WithSynopsis("diff <file1> <file2>").
		WithDescription("resolve two documents and show a line diff of the rendered results").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
	cfg.Diff = cmd
	return cmd
}

func rootOptFunc(roots *[]string) func(cc *cli.Context, a string) (any, error) {
	return func(cc *cli.Context, a string) (any, error) {
		*roots = append(*roots, a)
		return a, nil
	}
}

func stringOptFunc(dst *string) func(cc *cli.Context, a string) (any, error) {
	return func(cc *cli.Context, a string) (any, error) {
		*dst = a
		return a, nil
	}
}
