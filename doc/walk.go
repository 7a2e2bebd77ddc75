package doc

import (
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"

	"github.com/zbxtpl/zbxtpl/debug"
	"github.com/zbxtpl/zbxtpl/ypath"
)

// Get returns the node at p.  The root path addresses the document body.
func (d *Document) Get(p ypath.Path) (ast.Node, error) {
	node := d.Root()
	for i := range p.Len() {
		next, err := child(node, p.At(i))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrPathNotFound, p.Slice(0, i+1), err)
		}
		node = next
	}
	return node, nil
}

// Value decodes the node at p into plain Go values: nil, string, numbers,
// bool, yaml.MapSlice or []any.
func (d *Document) Value(p ypath.Path) (any, error) {
	node, err := d.Get(p)
	if err != nil {
		return nil, err
	}
	return decode(node, d.format)
}

func decode(node ast.Node, f *Format) (any, error) {
	switch x := Unwrap(node).(type) {
	case nil, *ast.NullNode, *ast.CommentGroupNode:
		return nil, nil
	case *ast.StringNode:
		return x.Value, nil
	}
	var v any
	if err := yaml.NodeToValue(node, &v, f.decodeOpts()...); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return v, nil
}

// Set replaces the value at p.  Every segment but the last must already
// exist; Set creates no intermediate nodes and, for sequences, never
// appends.  value is converted with NewNode.
func (d *Document) Set(p ypath.Path, value any) error {
	last, ok := p.Last()
	if !ok {
		return fmt.Errorf("%w: cannot replace the document root", ErrPathNotFound)
	}
	parent, err := d.Get(p.Parent())
	if err != nil {
		return err
	}
	old, err := child(parent, last)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrPathNotFound, p, err)
	}
	node, err := d.NewNode(value, old)
	if err != nil {
		return err
	}
	if debug.Set() {
		debug.Logf("set %s: %q -> %q\n", p, old, node)
	}
	switch x := Unwrap(parent).(type) {
	case *ast.MappingNode:
		mv := lastEntry(x, last.Key)
		if err := mv.Replace(node); err != nil {
			return fmt.Errorf("replacing %s: %w", p, err)
		}
	case *ast.SequenceNode:
		if err := x.Replace(last.Index, node); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrPathNotFound, p, err)
		}
	}
	d.place(p, parent, old, node)
	return nil
}

// child looks up seg in n.  Keys only address mappings and indices only
// address sequences.
func child(n ast.Node, seg ypath.Segment) (ast.Node, error) {
	switch x := Unwrap(n).(type) {
	case *ast.MappingNode:
		if seg.IsIndex {
			return nil, fmt.Errorf("index %d applied to a mapping", seg.Index)
		}
		mv := lastEntry(x, seg.Key)
		if mv == nil {
			return nil, fmt.Errorf("no key %q", seg.Key)
		}
		return mv.Value, nil
	case *ast.SequenceNode:
		if !seg.IsIndex {
			return nil, fmt.Errorf("key %q applied to a sequence", seg.Key)
		}
		if seg.Index < 0 || seg.Index >= len(x.Values) {
			return nil, fmt.Errorf("index %d out of range [0,%d)", seg.Index, len(x.Values))
		}
		return x.Values[seg.Index], nil
	}
	return nil, fmt.Errorf("%s applied to a %s", seg, KindOf(n))
}

// lastEntry finds the last entry for key, so that with duplicate keys the
// later one wins.
func lastEntry(m *ast.MappingNode, key string) *ast.MappingValueNode {
	for i := len(m.Values) - 1; i >= 0; i-- {
		mv := m.Values[i]
		if keyText(mv.Key) == key {
			return mv
		}
	}
	return nil
}
