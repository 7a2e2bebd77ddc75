package doc

import (
	"github.com/goccy/go-yaml/ast"
)

// Kind is the tag of a tree node.
type Kind int

const (
	ScalarKind Kind = iota
	MappingKind
	SequenceKind
)

func (k Kind) String() string {
	switch k {
	case MappingKind:
		return "mapping"
	case SequenceKind:
		return "sequence"
	}
	return "scalar"
}

// Unwrap strips tags and anchors, returning the node holding the content.
func Unwrap(n ast.Node) ast.Node {
	for {
		switch x := n.(type) {
		case *ast.TagNode:
			n = x.Value
		case *ast.AnchorNode:
			n = x.Value
		case *ast.DocumentNode:
			n = x.Body
		default:
			return n
		}
	}
}

// KindOf classifies n.  Aliases, comments and nil count as scalars.
func KindOf(n ast.Node) Kind {
	switch Unwrap(n).(type) {
	case *ast.MappingNode:
		return MappingKind
	case *ast.SequenceNode:
		return SequenceKind
	}
	return ScalarKind
}

// ScalarText is the text of a scalar node: the unquoted string for
// strings, the literal text for numbers and booleans, and "" for null.
// ok is false for mappings and sequences.
func ScalarText(n ast.Node) (text string, ok bool) {
	switch x := Unwrap(n).(type) {
	case nil:
		return "", true
	case *ast.MappingNode, *ast.SequenceNode:
		return "", false
	case *ast.NullNode:
		return "", true
	case *ast.StringNode:
		return x.Value, true
	case *ast.LiteralNode:
		return x.Value.Value, true
	case *ast.CommentGroupNode:
		return "", true
	default:
		if tk := x.GetToken(); tk != nil {
			return tk.Value, true
		}
		return "", true
	}
}

// Child is one entry of a mapping or sequence.
type Child struct {
	// Key is set for mapping entries.
	Key string
	// Index is the position of the entry in its parent.
	Index int
	Node  ast.Node
}

// Children lists the entries of a mapping or a sequence in document order.
// Scalars have no children.  Mapping entries whose key is a merge key
// (<<) are listed like any other key.
func Children(n ast.Node) []Child {
	switch x := Unwrap(n).(type) {
	case *ast.MappingNode:
		res := make([]Child, len(x.Values))
		for i, mv := range x.Values {
			res[i] = Child{Key: keyText(mv.Key), Index: i, Node: mv.Value}
		}
		return res
	case *ast.SequenceNode:
		res := make([]Child, 0, len(x.Values))
		for i, v := range x.Values {
			res = append(res, Child{Index: i, Node: v})
		}
		return res
	}
	return nil
}

func keyText(k ast.MapKeyNode) string {
	if k == nil {
		return ""
	}
	if s, ok := ScalarText(k); ok {
		return s
	}
	return k.GetToken().Value
}
