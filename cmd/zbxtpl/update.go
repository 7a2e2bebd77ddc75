package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/zbxtpl/zbxtpl/debug"
)

func update(cfg *UpdateConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Parse(cc, args)
	if err != nil {
		return err
	}
	out, err := outfile(args)
	if err != nil {
		return err
	}
	if cfg.Path == "" {
		return fmt.Errorf("%w: update requires -p path", cli.ErrUsage)
	}
	p, err := cfg.parsePath(cfg.Path)
	if err != nil {
		return err
	}
	before := cfg.Doc.String()
	if debug.Set() {
		debug.Logf("update %s = %q\n", p, cfg.Value)
	}
	if err := cfg.Doc.Set(p, cfg.Value); err != nil {
		return err
	}
	theLog.Info("update", "path", p.String(), "value", cfg.Value)
	return cfg.emit(cc.Out, out, cfg.DryRun, before)
}
