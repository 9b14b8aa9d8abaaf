package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/weavedoc/weave/encode"
	"github.com/weavedoc/weave/resolve"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 file args, got %d", cli.ErrUsage, len(args))
	}
	rr := resolve.New(resolve.WithRoots(cfg.Roots...))
	s1, err := renderResolved(cfg, rr, args[0])
	if err != nil {
		return err
	}
	s2, err := renderResolved(cfg, rr, args[1])
	if err != nil {
		return err
	}
	if s1 == s2 {
		return nil
	}
	dmp := diffmatchpatch.New()
	c1, c2, lines := dmp.DiffLinesToChars(s1+"\n", s2+"\n")
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(c1, c2, false), lines)
	paint := diffPainter(cfg, cc.Out)
	for _, d := range diffs {
		writeDiffChunk(cc.Out, d, paint)
	}
	return cli.ExitCodeErr(1)
}

// renderResolved produces the plain rendering for diffing; colors go on
// the diff lines, not inside them.
func renderResolved(cfg *DiffConfig, rr *resolve.Resolver, file string) (string, error) {
	y, err := rr.ResolveFile(file)
	if err != nil {
		return "", fmt.Errorf("error resolving %s: %w", file, err)
	}
	return encode.MustString(y, encode.EncodeFormat(formatOf(cfg.MainConfig))), nil
}

func diffPainter(cfg *DiffConfig, w io.Writer) func(diffmatchpatch.Operation, string) string {
	colored := cfg.Color
	if !colored {
		if f, ok := w.(*os.File); ok {
			colored = isatty.IsTerminal(f.Fd())
		}
	}
	if !colored {
		return func(_ diffmatchpatch.Operation, line string) string { return line }
	}
	ins := color.New(color.FgGreen).SprintFunc()
	del := color.New(color.FgRed).SprintFunc()
	return func(op diffmatchpatch.Operation, line string) string {
		switch op {
		case diffmatchpatch.DiffInsert:
			return ins(line)
		case diffmatchpatch.DiffDelete:
			return del(line)
		default:
			return line
		}
	}
}

func writeDiffChunk(w io.Writer, d diffmatchpatch.Diff, paint func(diffmatchpatch.Operation, string) string) {
	var prefix string
	switch d.Type {
	case diffmatchpatch.DiffInsert:
		prefix = "+"
	case diffmatchpatch.DiffDelete:
		prefix = "-"
	default:
		prefix = " "
	}
	lines := strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n")
	for _, line := range lines {
		fmt.Fprintln(w, paint(d.Type, prefix+line))
	}
}
