package doc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/token"
)

// NewNode builds a node for value, laid out to take the place of old.
//
// Strings are never reinterpreted: "123" stays a string and is quoted as
// needed.  With PreserveQuotes a string replacing a quoted string keeps
// the old quote style.  nil becomes an empty (implicit) null.  A line
// comment on old is carried over to scalar replacements.  Other values
// are encoded with the goccy encoder.
func (d *Document) NewNode(value any, old ast.Node) (ast.Node, error) {
	pos := &token.Position{Column: 1, IndentNum: d.format.Indent}
	if old != nil && old.GetToken() != nil {
		p := *old.GetToken().Position
		pos = &p
	}
	var node ast.Node
	switch x := value.(type) {
	case nil:
		tk := token.New("null", "null", pos)
		tk.Type = token.ImplicitNullType
		node = ast.Null(tk)
	case string:
		node = d.newString(x, old, pos)
	case ast.Node:
		return x, nil
	default:
		n, err := yaml.ValueToNode(value, d.format.encodeOpts()...)
		if err != nil {
			return nil, fmt.Errorf("encoding %T: %w", value, err)
		}
		n.AddColumn(pos.Column - 1)
		return n, nil
	}
	if old != nil {
		if _, scalar := old.(ast.ScalarNode); scalar && old.GetComment() != nil {
			if err := node.SetComment(old.GetComment()); err != nil {
				return nil, err
			}
		}
	}
	return node, nil
}

func (d *Document) newString(s string, old ast.Node, pos *token.Position) ast.Node {
	typ := token.StringType
	switch {
	case strings.Contains(s, "\n"):
		typ = token.DoubleQuoteType
	case d.format.PreserveQuotes && quoteType(old) != token.StringType:
		typ = quoteType(old)
	case token.IsNeedQuoted(s):
		typ = token.DoubleQuoteType
		if d.format.SingleQuote {
			typ = token.SingleQuoteType
		}
	}
	var tk *token.Token
	switch typ {
	case token.SingleQuoteType:
		tk = token.SingleQuote(s, "'"+strings.ReplaceAll(s, "'", "''")+"'", pos)
	case token.DoubleQuoteType:
		tk = token.DoubleQuote(s, strconv.Quote(s), pos)
	default:
		tk = token.New(s, s, pos)
		tk.Type = token.StringType
	}
	n := ast.String(tk)
	n.Value = s
	return n
}

func quoteType(n ast.Node) token.Type {
	s, ok := n.(*ast.StringNode)
	if !ok || s.Token == nil {
		return token.StringType
	}
	switch s.Token.Type {
	case token.SingleQuoteType, token.DoubleQuoteType:
		return s.Token.Type
	}
	return token.StringType
}
