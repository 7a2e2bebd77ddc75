package main

import (
	"github.com/scott-cotton/cli"
)

func reformat(cfg *FmtConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Parse(cc, args)
	if err != nil {
		return err
	}
	out, err := outfile(args)
	if err != nil {
		return err
	}
	before := cfg.Doc.String()
	if err := cfg.Doc.Reformat(); err != nil {
		return err
	}
	return cfg.emit(cc.Out, out, cfg.DryRun, before)
}
