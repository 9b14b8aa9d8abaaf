package main

import (
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/scott-cotton/cli"

	"github.com/weavedoc/weave/encode"
	"github.com/weavedoc/weave/ir"
	"github.com/weavedoc/weave/parse"
	"github.com/weavedoc/weave/resolve"
)

func weaveResolve(cfg *ResolveConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Resolve.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: resolve requires 1 file arg, got %d", cli.ErrUsage, len(args))
	}
	rr := resolve.New(resolve.WithRoots(cfg.Roots...))
	y, err := rr.ResolveFile(args[0])
	if err != nil {
		return fmt.Errorf("error resolving %s: %w", args[0], err)
	}
	if cfg.Patch != "" {
		y, err = applyPatch(y, cfg.Patch)
		if err != nil {
			return fmt.Errorf("error applying patch %s: %w", cfg.Patch, err)
		}
	}
	if cfg.Select != "" {
		y, err = y.GetPath(cfg.Select)
		if err != nil {
			return fmt.Errorf("error selecting %q: %w", cfg.Select, err)
		}
		if y == nil {
			return fmt.Errorf("no value at %q in %s", cfg.Select, args[0])
		}
	}
	if err := encode.Encode(y, cc.Out, cfg.encOpts(cc.Out)...); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	return nil
}

// applyPatch applies an RFC 7386 merge patch to a fully resolved document.
// The patch file itself may not contain markers.
func applyPatch(y *ir.Node, patchFile string) (*ir.Node, error) {
	p, err := parse.ParseFile(patchFile)
	if err != nil {
		return nil, err
	}
	orig, err := ir.ToAny(y)
	if err != nil {
		return nil, err
	}
	pAny, err := ir.ToAny(p)
	if err != nil {
		return nil, err
	}
	origJSON, err := json.Marshal(orig)
	if err != nil {
		return nil, err
	}
	patchJSON, err := json.Marshal(pAny)
	if err != nil {
		return nil, err
	}
	res, err := jsonpatch.MergePatch(origJSON, patchJSON)
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(res, &v); err != nil {
		return nil, err
	}
	return ir.FromAny(v)
}
