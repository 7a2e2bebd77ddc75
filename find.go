package zbxtpl

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/goccy/go-yaml/ast"

	"github.com/zbxtpl/zbxtpl/debug"
	"github.com/zbxtpl/zbxtpl/doc"
	"github.com/zbxtpl/zbxtpl/ypath"
)

// FindOptions select the entries reported by Find.  A nil field does not
// constrain the search; all non-nil fields must hold for an entry to be
// reported.
type FindOptions struct {
	// Key is matched against mapping keys and against sequence indices
	// rendered in decimal.
	Key *regexp.Regexp
	// Value is matched against the text of scalar values.  Mappings and
	// sequences never match a Value pattern.
	Value *regexp.Regexp
	// Where is a boolean expression over the entry, see CompileWhere.
	Where *vm.Program
}

// CompileFindOptions compiles key and value patterns and a where
// expression; empty strings leave the corresponding option unset.
//
// Patterns are anchored at the start of the text only, so "uuid" matches
// "uuid" and "uuids" while "^uuid$" matches "uuid" alone.
func CompileFindOptions(key, value, where string) (*FindOptions, error) {
	opts := &FindOptions{}
	var err error
	if key != "" {
		if opts.Key, err = compilePrefix(key); err != nil {
			return nil, fmt.Errorf("key pattern: %w", err)
		}
	}
	if value != "" {
		if opts.Value, err = compilePrefix(value); err != nil {
			return nil, fmt.Errorf("value pattern: %w", err)
		}
	}
	if where != "" {
		if opts.Where, err = CompileWhere(where); err != nil {
			return nil, err
		}
	}
	return opts, nil
}

func compilePrefix(p string) (*regexp.Regexp, error) {
	return regexp.Compile(`^(?:` + p + `)`)
}

// Entry is what a where expression sees.
type Entry struct {
	Key   string `expr:"key"`
	Value string `expr:"value"`
	Path  string `expr:"path"`
	Depth int    `expr:"depth"`
	Kind  string `expr:"kind"`
}

// CompileWhere compiles a boolean expr-lang expression evaluated for each
// entry with key, value, path, depth and kind in scope, for example
//
//	kind == "scalar" && value contains "agent"
func CompileWhere(src string) (*vm.Program, error) {
	prog, err := expr.Compile(src, expr.Env(Entry{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("where expression: %w", err)
	}
	return prog, nil
}

// Find searches the whole document.
func Find(d *doc.Document, opts *FindOptions) ([]ypath.Path, error) {
	return FindFrom(d.Root(), ypath.New(), opts)
}

// FindFrom searches the tree under node, whose own path is prefix, and
// returns the paths of the matching entries depth first, each entry
// before its descendants, siblings in document order.  The node itself
// is not a candidate.  No match is an empty result, not an error.
func FindFrom(node ast.Node, prefix ypath.Path, opts *FindOptions) ([]ypath.Path, error) {
	if opts == nil {
		opts = &FindOptions{}
	}
	res := []ypath.Path{}
	if err := find(&res, node, prefix, opts); err != nil {
		return nil, err
	}
	if debug.Find() {
		debug.Logf("find under %q: %d match(es)\n", prefix.String(), len(res))
	}
	return res, nil
}

func find(dst *[]ypath.Path, node ast.Node, prefix ypath.Path, opts *FindOptions) error {
	var isSeq bool
	switch doc.KindOf(node) {
	case doc.ScalarKind:
		return nil
	case doc.SequenceKind:
		isSeq = true
	}
	for _, c := range doc.Children(node) {
		seg, key := ypath.Key(c.Key), c.Key
		if isSeq {
			seg, key = ypath.Index(c.Index), strconv.Itoa(c.Index)
		}
		p := prefix.Append(seg)
		ok, err := opts.match(key, c.Node, p)
		if err != nil {
			return err
		}
		if ok {
			*dst = append(*dst, p)
		}
		if doc.KindOf(c.Node) == doc.ScalarKind {
			continue
		}
		if err := find(dst, c.Node, p, opts); err != nil {
			return err
		}
	}
	return nil
}

func (o *FindOptions) match(key string, node ast.Node, p ypath.Path) (bool, error) {
	if o.Key != nil && !o.Key.MatchString(key) {
		return false, nil
	}
	text, scalar := doc.ScalarText(node)
	if o.Value != nil && (!scalar || !o.Value.MatchString(text)) {
		return false, nil
	}
	if o.Where == nil {
		return true, nil
	}
	env := Entry{
		Key:   key,
		Value: text,
		Path:  p.String(),
		Depth: p.Len(),
		Kind:  doc.KindOf(node).String(),
	}
	out, err := expr.Run(o.Where, env)
	if err != nil {
		return false, fmt.Errorf("where expression at %s: %w", p, err)
	}
	b, _ := out.(bool)
	return b, nil
}
