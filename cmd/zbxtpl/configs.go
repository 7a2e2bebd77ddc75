package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/zbxtpl/zbxtpl/doc"
	"github.com/zbxtpl/zbxtpl/libdiff"
	"github.com/zbxtpl/zbxtpl/ypath"
)

type MainConfig struct {
	V       bool `cli:"name=v desc='log what is changed and written'"`
	Lenient bool `cli:"name=lenient desc='accept path keys with any characters but #><-$'"`
	Color   bool `cli:"name=color desc='color output even when not on a terminal'"`
	NoColor bool `cli:"name=nocolor desc='never color output'"`

	Infile string
	Doc    *doc.Document

	Main *cli.Command
}

func (cfg *MainConfig) parsePath(text string) (ypath.Path, error) {
	rule := ypath.Strict
	if cfg.Lenient {
		rule = ypath.Lenient
	}
	p, err := rule.Parse(text)
	if err != nil {
		return ypath.Path{}, fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	return p, nil
}

func (cfg *MainConfig) colored(w io.Writer) bool {
	switch {
	case cfg.NoColor:
		return false
	case cfg.Color:
		return true
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

func (cfg *MainConfig) newColor(w io.Writer, attrs ...color.Attribute) *color.Color {
	if !cfg.colored(w) {
		return nil
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c
}

func (cfg *MainConfig) diffColors(w io.Writer) *libdiff.Colors {
	ins := cfg.newColor(w, color.FgGreen)
	if ins == nil {
		return nil
	}
	return &libdiff.Colors{
		Insert: ins.SprintfFunc(),
		Delete: cfg.newColor(w, color.FgRed).SprintfFunc(),
	}
}

type FindConfig struct {
	*cli.Command
	*MainConfig

	Key   string `cli:"name=key aliases=k desc='pattern matched at the start of keys and indices'"`
	Value string `cli:"name=value desc='pattern matched at the start of scalar values'"`
	Where string `cli:"name=where desc='expression over key, value, path, depth and kind'"`
}

type UpdateConfig struct {
	*cli.Command
	*MainConfig

	Path   string `cli:"name=path aliases=p desc='path of the value to set'"`
	Value  string `cli:"name=value desc='the new value, written as a string'"`
	DryRun bool   `cli:"name=n desc='print a diff instead of writing'"`
}

type GetConfig struct {
	*cli.Command
	*MainConfig

	Annotate bool `cli:"name=a aliases=annotate desc='show the value in its source context'"`
}

type UUIDConfig struct {
	*cli.Command
	*MainConfig

	Regenerate bool `cli:"name=U aliases=update desc='give every uuid field a new value'"`
	Clear      bool `cli:"name=c aliases=clear desc='empty every uuid field'"`
	DryRun     bool `cli:"name=n desc='print a diff instead of writing'"`
}

type FmtConfig struct {
	*cli.Command
	*MainConfig

	DryRun bool `cli:"name=n desc='print a diff instead of writing'"`
}
