package main

import (
	"github.com/scott-cotton/cli"
)

const description = `zbxtpl edits Zabbix template exports in place, keeping comments,
key order and quoting of everything it does not touch.

Paths are keys and sequence indices joined with '.', for example
zabbix_export.templates.0.items.3.uuid.

Examples:
  zbxtpl tmpl.yaml find -k '^uuid$'
  zbxtpl tmpl.yaml find -value agent -where 'depth > 4' found.txt
  zbxtpl tmpl.yaml update -p zabbix_export.version -value 7.0
  zbxtpl tmpl.yaml update -n -p zabbix_export.templates.0.name -value X
  zbxtpl tmpl.yaml get -a zabbix_export.templates.0.template
  zbxtpl tmpl.yaml uuid -U out.yaml
  zbxtpl tmpl.yaml fmt`

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "zbxtpl").
		WithSynopsis("zbxtpl [opts] <infile> command [opts]").
		WithDescription(description).
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return zbxMain(cfg, cc, args)
		}).
		WithSubs(
			FindCommand(cfg),
			UpdateCommand(cfg),
			GetCommand(cfg),
			UUIDCommand(cfg),
			FmtCommand(cfg))
}

func FindCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &FindConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Command, "find").
		WithAliases("f").
		WithSynopsis("find [-k pattern] [-value pattern] [-where expr] [outfile]").
		WithDescription("list the paths of entries whose key and value start with the given patterns").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return find(cfg, cc, args)
		})
}

func UpdateCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &UpdateConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Command, "update").
		WithAliases("u", "set").
		WithSynopsis("update -p path -value value [-n] [outfile]").
		WithDescription("set the value at path to a string, writing outfile or the input file").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return update(cfg, cc, args)
		})
}

func GetCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &GetConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Command, "get").
		WithAliases("g").
		WithSynopsis("get [-a] path").
		WithDescription("print the value at path").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return get(cfg, cc, args)
		})
}

func UUIDCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &UUIDConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Command, "uuid").
		WithSynopsis("uuid [-U | -c] [-n] [outfile]").
		WithDescription("fill in missing uuid fields, regenerate all of them (-U) or clear them (-c)").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return updateUUIDs(cfg, cc, args)
		})
}

func FmtCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &FmtConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Command, "fmt").
		WithSynopsis("fmt [-n] [outfile]").
		WithDescription("reindent the document in the layout of Zabbix exports").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return reformat(cfg, cc, args)
		})
}
