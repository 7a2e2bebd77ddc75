package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/zbxtpl/zbxtpl/doc"
	"github.com/zbxtpl/zbxtpl/libdiff"
)

func zbxMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.Color && cfg.NoColor {
		return fmt.Errorf("%w: -color and -nocolor are exclusive", cli.ErrUsage)
	}
	if cfg.V {
		logLevel.Set(slog.LevelInfo)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: missing input file", cli.ErrUsage)
	}
	cfg.Infile = args[0]
	if len(args) == 1 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[1])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[1])
	}
	d, err := doc.LoadFile(cfg.Infile, doc.DefaultFormat())
	if err != nil {
		return err
	}
	cfg.Doc = d
	err = sub.Run(cc, args[2:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

// outfile returns the optional single output file argument.
func outfile(args []string) (string, error) {
	switch len(args) {
	case 0:
		return "", nil
	case 1:
		return args[0], nil
	}
	return "", fmt.Errorf("%w: unexpected arguments %q", cli.ErrUsage, args[1:])
}

// emit writes the edited document to outfile, to w when outfile is "-",
// or back over the input file when outfile is empty.  With dryRun nothing
// is written and the difference from before is shown on w.
func (cfg *MainConfig) emit(w io.Writer, outfile string, dryRun bool, before string) error {
	if dryRun {
		lines := libdiff.Lines(before, cfg.Doc.String())
		if !libdiff.Changed(lines) {
			theLog.Info("no changes", "file", cfg.Infile)
			return nil
		}
		return libdiff.Write(w, lines, 3, cfg.diffColors(w))
	}
	if outfile == "-" {
		_, err := cfg.Doc.WriteTo(w)
		return err
	}
	dst := cfg.Infile
	if outfile != "" {
		dst = outfile
	}
	if err := cfg.Doc.SaveAs(dst); err != nil {
		return err
	}
	theLog.Info("wrote", "file", dst)
	return nil
}
