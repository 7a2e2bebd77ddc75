// Command zbx-uuid fills in, regenerates or clears the uuid fields of a
// Zabbix template export.
package main

import (
	"context"
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/zbxtpl/zbxtpl"
	"github.com/zbxtpl/zbxtpl/doc"
)

type config struct {
	*cli.Command

	Update bool `cli:"name=U aliases=update desc='replace every uuid, existing ones included'"`
	Clear  bool `cli:"name=c aliases=clear desc='empty every uuid'"`
	V      bool `cli:"name=v desc='report what was changed'"`
}

func main() {
	cli.MainContext(context.Background(), command())
}

func command() *cli.Command {
	cfg := &config{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Command, "zbx-uuid").
		WithSynopsis("zbx-uuid [-U | -c] inFile [outFile]").
		WithDescription("zbx-uuid gives empty uuid fields of a Zabbix template a new value.\n" +
			"With -U every uuid is replaced, with -c every uuid is emptied.\n" +
			"The result is written to outFile, or back to inFile.").
		WithOpts(opts...).
		WithRun(cfg.run)
}

func (cfg *config) run(cc *cli.Context, args []string) error {
	args, err := cfg.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 || len(args) > 2 {
		return fmt.Errorf("%w: expected inFile [outFile]", cli.ErrUsage)
	}
	mode, err := zbxtpl.UUIDModeOf(cfg.Update, cfg.Clear)
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	d, err := doc.LoadFile(args[0], doc.DefaultFormat())
	if err != nil {
		return err
	}
	if len(args) == 2 {
		d.Dest = args[1]
	}
	rep, err := zbxtpl.UpdateUUIDs(d, mode, nil)
	if err != nil {
		return err
	}
	if err := d.Save(); err != nil {
		return err
	}
	if cfg.V {
		theLog.Info("uuid", "mode", rep.Mode.String(), "found", rep.Found, "changed", rep.Changed, "file", d.Dest)
	}
	return nil
}
