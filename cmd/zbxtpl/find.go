package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"

	"github.com/zbxtpl/zbxtpl"
	"github.com/zbxtpl/zbxtpl/ypath"
)

func find(cfg *FindConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Parse(cc, args)
	if err != nil {
		return err
	}
	out, err := outfile(args)
	if err != nil {
		return err
	}
	opts, err := zbxtpl.CompileFindOptions(cfg.Key, cfg.Value, cfg.Where)
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	paths, err := zbxtpl.Find(cfg.Doc, opts)
	if err != nil {
		return err
	}
	theLog.Info("find", "file", cfg.Infile, "matches", len(paths))
	switch out {
	case "":
		return writePathList(cc.Out, paths, cfg.newColor(cc.Out, color.FgCyan))
	case "-":
		return writePathLines(cc.Out, paths)
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := writePathLines(f, paths); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	theLog.Info("wrote", "file", out)
	return nil
}

// writePathList prints paths as a single bracketed list.
func writePathList(w io.Writer, paths []ypath.Path, c *color.Color) error {
	if _, err := io.WriteString(w, "["); err != nil {
		return err
	}
	for i, p := range paths {
		s := p.String()
		if c != nil {
			s = c.Sprint(s)
		}
		if i > 0 {
			s = ", " + s
		}
		if _, err := io.WriteString(w, s); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "]\n")
	return err
}

func writePathLines(w io.Writer, paths []ypath.Path) error {
	for _, p := range paths {
		if _, err := fmt.Fprintln(w, p.String()); err != nil {
			return err
		}
	}
	return nil
}
