// Package libdiff computes line diffs between two renderings of a document
// for previewing edits before they are written.
package libdiff

import (
	"fmt"
	"io"
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

type Op int

const (
	Equal Op = iota
	Insert
	Delete
)

// Line is one line of a diff, without its line terminator.
type Line struct {
	Op   Op
	Text string
}

// Lines diffs from and to line by line.
func Lines(from, to string) []Line {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)
	var res []Line
	for _, d := range diffs {
		op := Equal
		switch d.Type {
		case diffpatch.DiffInsert:
			op = Insert
		case diffpatch.DiffDelete:
			op = Delete
		}
		for _, l := range strings.SplitAfter(d.Text, "\n") {
			if l == "" {
				continue
			}
			res = append(res, Line{Op: op, Text: strings.TrimSuffix(l, "\n")})
		}
	}
	return res
}

// Changed reports whether any line was inserted or deleted.
func Changed(lines []Line) bool {
	for _, l := range lines {
		if l.Op != Equal {
			return true
		}
	}
	return false
}

// Colors styles the lines written by Write; nil funcs print plain text.
type Colors struct {
	Insert func(string, ...any) string
	Delete func(string, ...any) string
}

// Write writes the changed lines with context unchanged lines around
// each change, marking them with '+', '-' and ' '.  Skipped runs of
// unchanged lines are shown as "...".
func Write(w io.Writer, lines []Line, context int, colors *Colors) error {
	keep := make([]bool, len(lines))
	for i, l := range lines {
		if l.Op == Equal {
			continue
		}
		for j := max(0, i-context); j <= min(len(lines)-1, i+context); j++ {
			keep[j] = true
		}
	}
	skipped := false
	for i, l := range lines {
		if !keep[i] {
			skipped = true
			continue
		}
		if skipped {
			if _, err := io.WriteString(w, "...\n"); err != nil {
				return err
			}
			skipped = false
		}
		var s string
		switch l.Op {
		case Insert:
			s = colorize(colors, true, "+"+l.Text)
		case Delete:
			s = colorize(colors, false, "-"+l.Text)
		default:
			s = " " + l.Text
		}
		if _, err := fmt.Fprintln(w, s); err != nil {
			return err
		}
	}
	if skipped {
		_, err := io.WriteString(w, "...\n")
		return err
	}
	return nil
}

func colorize(c *Colors, insert bool, s string) string {
	if c == nil {
		return s
	}
	f := c.Delete
	if insert {
		f = c.Insert
	}
	if f == nil {
		return s
	}
	return f("%s", s)
}
