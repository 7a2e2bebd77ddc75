package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/zbxtpl/zbxtpl"
)

func updateUUIDs(cfg *UUIDConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Parse(cc, args)
	if err != nil {
		return err
	}
	out, err := outfile(args)
	if err != nil {
		return err
	}
	mode, err := zbxtpl.UUIDModeOf(cfg.Regenerate, cfg.Clear)
	if err != nil {
		return fmt.Errorf("%w: -U and -c: %w", cli.ErrUsage, err)
	}
	before := cfg.Doc.String()
	rep, err := zbxtpl.UpdateUUIDs(cfg.Doc, mode, nil)
	if err != nil {
		return err
	}
	theLog.Info("uuid", "mode", rep.Mode.String(), "found", rep.Found, "changed", rep.Changed)
	return cfg.emit(cc.Out, out, cfg.DryRun, before)
}
