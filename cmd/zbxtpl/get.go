package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: get requires one argument, a path", cli.ErrUsage)
	}
	p, err := cfg.parsePath(args[0])
	if err != nil {
		return err
	}
	if cfg.Annotate {
		s, err := cfg.Doc.Annotate(p, cfg.colored(cc.Out))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cc.Out, s)
		return err
	}
	d, err := cfg.Doc.Encode(p)
	if err != nil {
		return err
	}
	_, err = cc.Out.Write(d)
	return err
}
