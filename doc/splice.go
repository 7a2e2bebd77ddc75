package doc

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/token"

	"github.com/zbxtpl/zbxtpl/debug"
	"github.com/zbxtpl/zbxtpl/ypath"
)

// A Document is written by copying its source and replacing the byte
// ranges of the values that were Set.  The goccy printer does not
// reproduce multi-line quoted scalars, escaped line breaks or CRLF line
// ends, so nothing it renders reaches the output unless an edit cannot be
// placed in the source.

var errNotInPlace = errors.New("value cannot be edited in place")

// splice replaces src[start:end] with text.
type splice struct {
	start, end int
	text       string
}

// source is the text a Document was parsed from, with indexes for
// mapping goccy token positions to byte offsets.
type source struct {
	b          []byte
	lineStarts []int
	// runeStarts maps rune offsets to byte offsets; nil when b is ASCII.
	runeStarts []int
}

func newSource(b []byte) *source {
	s := &source{b: b, lineStarts: []int{0}}
	ascii := true
	for i, c := range b {
		if c == '\n' {
			s.lineStarts = append(s.lineStarts, i+1)
		}
		if c >= utf8.RuneSelf {
			ascii = false
		}
	}
	if !ascii {
		s.runeStarts = make([]int, 0, len(b))
		for i := range string(b) {
			s.runeStarts = append(s.runeStarts, i)
		}
	}
	return s
}

func (s *source) runeToByte(n int) int {
	if n < 0 {
		return -1
	}
	if s.runeStarts == nil {
		return n
	}
	if n >= len(s.runeStarts) {
		return -1
	}
	return s.runeStarts[n]
}

func (s *source) lineColToByte(line, col int) int {
	if line < 1 || line > len(s.lineStarts) || col < 1 {
		return -1
	}
	i := s.lineStarts[line-1]
	for range col - 1 {
		if i >= len(s.b) || s.b[i] == '\n' {
			return -1
		}
		_, n := utf8.DecodeRune(s.b[i:])
		i += n
	}
	return i
}

// offsetOf finds the byte offset of the one byte token at pos, trying the
// rune offset goccy records and then its line and column.
func (s *source) offsetOf(pos *token.Position, want byte) (int, bool) {
	if pos == nil {
		return 0, false
	}
	for _, i := range []int{s.runeToByte(pos.Offset - 1), s.lineColToByte(pos.Line, pos.Column)} {
		if i >= 0 && i < len(s.b) && s.b[i] == want {
			return i, true
		}
	}
	return 0, false
}

func (s *source) lineStart(i int) int {
	return bytes.LastIndexByte(s.b[:i], '\n') + 1
}

// lineEnd is the offset of the '\n' (or '\r\n') ending the line holding i.
func (s *source) lineEnd(i int) int {
	e := bytes.IndexByte(s.b[i:], '\n')
	if e < 0 {
		e = len(s.b)
	} else {
		e += i
	}
	if e > i && s.b[e-1] == '\r' {
		e--
	}
	return e
}

func (s *source) nextLine(i int) int {
	e := bytes.IndexByte(s.b[i:], '\n')
	if e < 0 {
		return len(s.b)
	}
	return i + e + 1
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t'
}

// trimEnd backs up over blanks ending at e, not before from.
func (s *source) trimEnd(from, e int) int {
	for e > from && isBlank(s.b[e-1]) {
		e--
	}
	return e
}

// keyIndent is the column of the mapping key whose ':' is at colon.
func (s *source) keyIndent(colon int) int {
	ls := s.lineStart(colon)
	i := ls
	for {
		for i < colon && isBlank(s.b[i]) {
			i++
		}
		if i+1 < colon && s.b[i] == '-' && isBlank(s.b[i+1]) {
			i += 2
			continue
		}
		return i - ls
	}
}

// blockEnd extends the value whose first line ends at from over the
// following lines indented deeper than indent.  With dashes, lines at
// indent starting a sequence entry belong to the value as well.  Blank
// and comment lines only count when content follows them.
func (s *source) blockEnd(from, indent int, dashes bool) int {
	end := from
	for i := s.nextLine(from); i < len(s.b); i = s.nextLine(i) {
		le := s.lineEnd(i)
		ind := 0
		for i+ind < le && s.b[i+ind] == ' ' {
			ind++
		}
		rest := s.b[i+ind : le]
		if len(bytes.TrimSpace(rest)) == 0 {
			continue
		}
		seqEntry := dashes && ind == indent && rest[0] == '-' && (len(rest) == 1 || isBlank(rest[1]))
		if ind <= indent && !seqEntry {
			break
		}
		if rest[0] != '#' {
			end = s.trimEnd(i, le)
		}
	}
	return end
}

func (s *source) quotedEnd(i int) (int, error) {
	q := s.b[i]
	for j := i + 1; j < len(s.b); j++ {
		switch c := s.b[j]; {
		case q == '"' && c == '\\':
			j++
		case c == q && q == '\'' && j+1 < len(s.b) && s.b[j+1] == '\'':
			j++
		case c == q:
			return j + 1, nil
		}
	}
	return 0, fmt.Errorf("unterminated quoted scalar at byte %d", i)
}

func (s *source) flowEnd(i int) (int, error) {
	depth := 0
	for j := i; j < len(s.b); j++ {
		switch s.b[j] {
		case '\'', '"':
			e, err := s.quotedEnd(j)
			if err != nil {
				return 0, err
			}
			j = e - 1
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return j + 1, nil
			}
		}
	}
	return 0, fmt.Errorf("unterminated flow collection at byte %d", i)
}

// plainEnd is the end of a plain scalar starting at i on its line, before
// any comment.
func (s *source) plainEnd(i int) int {
	le := s.lineEnd(i)
	e := le
	for j := i + 1; j < le; j++ {
		if s.b[j] == '#' && isBlank(s.b[j-1]) {
			e = j
			break
		}
	}
	return s.trimEnd(i, e)
}

// valueSpan locates the source of old, the value following the delimiter
// at delim.  The span starts right after the delimiter so that the
// replacement decides the spacing.
func (s *source) valueSpan(delim, indent int, old ast.Node) (*splice, error) {
	after := delim + 1
	sp := &splice{start: after, end: after}
	if n, ok := old.(*ast.NullNode); ok && n.Token != nil && n.Token.Type == token.ImplicitNullType {
		return sp, nil
	}
	i := after
	le := s.lineEnd(i)
	for i < le && isBlank(s.b[i]) {
		i++
	}
	onLine := i < le && s.b[i] != '#'
	var err error
	switch {
	case onLine && (s.b[i] == '\'' || s.b[i] == '"'):
		if !quotedAs(old, s.b[i]) {
			return nil, fmt.Errorf("%w: quote mismatch at byte %d", errNotInPlace, i)
		}
		sp.end, err = s.quotedEnd(i)
	case onLine && (s.b[i] == '{' || s.b[i] == '['):
		sp.end, err = s.flowEnd(i)
	case onLine && isPlain(old):
		sp.end = s.plainEnd(i)
		if more := s.blockEnd(sp.end, indent, false); more > sp.end {
			sp.end = more
		} else if tk := old.GetToken(); tk != nil && string(s.b[i:sp.end]) != tk.Value {
			return nil, fmt.Errorf("%w: %q is not %q", errNotInPlace, s.b[i:sp.end], tk.Value)
		}
	default:
		sp.end = s.blockEnd(s.trimEnd(after, le), indent, KindOf(old) == SequenceKind)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errNotInPlace, err)
	}
	return sp, nil
}

func quotedAs(n ast.Node, q byte) bool {
	tk := n.GetToken()
	if tk == nil {
		return false
	}
	switch q {
	case '\'':
		return tk.Type == token.SingleQuoteType
	case '"':
		return tk.Type == token.DoubleQuoteType
	}
	return false
}

// isPlain reports whether n is an untagged plain scalar.
func isPlain(n ast.Node) bool {
	if _, ok := n.(*ast.LiteralNode); ok {
		return false
	}
	if _, ok := n.(ast.ScalarNode); !ok {
		return false
	}
	tk := n.GetToken()
	return tk != nil && tk.Type != token.SingleQuoteType && tk.Type != token.DoubleQuoteType
}

// inlineText renders a scalar replacement as it follows its delimiter.
func inlineText(n ast.Node) (string, error) {
	var v string
	switch x := n.(type) {
	case *ast.NullNode:
		if x.Token == nil || x.Token.Type == token.ImplicitNullType {
			return "", nil
		}
		v = x.Token.Value
	case *ast.StringNode:
		switch x.Token.Type {
		case token.SingleQuoteType:
			v = "'" + strings.ReplaceAll(x.Value, "'", "''") + "'"
		case token.DoubleQuoteType:
			v = strconv.Quote(x.Value)
		default:
			v = x.Value
		}
	case *ast.LiteralNode:
		return "", fmt.Errorf("%w: block scalar replacement", errNotInPlace)
	case ast.ScalarNode:
		tk := x.GetToken()
		if tk == nil {
			return "", fmt.Errorf("%w: %T without token", errNotInPlace, n)
		}
		v = tk.Value
	default:
		return "", fmt.Errorf("%w: %s replacement", errNotInPlace, KindOf(n))
	}
	return " " + v, nil
}

// locate finds the source span of the value at seg in parent.
func (d *Document) locate(parent ast.Node, seg ypath.Segment, old ast.Node) (*splice, error) {
	if prev, ok := d.splices[old]; ok {
		return &splice{start: prev.start, end: prev.end}, nil
	}
	switch x := Unwrap(parent).(type) {
	case *ast.MappingNode:
		if x.IsFlowStyle {
			return nil, fmt.Errorf("%w: flow mapping", errNotInPlace)
		}
		mv := lastEntry(x, seg.Key)
		if mv == nil || mv.IsFlowStyle {
			return nil, fmt.Errorf("%w: no block entry for %q", errNotInPlace, seg.Key)
		}
		at, ok := d.src.offsetOf(mv.Start.Position, ':')
		if !ok {
			return nil, fmt.Errorf("%w: ':' for %q not found", errNotInPlace, seg.Key)
		}
		return d.src.valueSpan(at, d.src.keyIndent(at), old)
	case *ast.SequenceNode:
		if x.IsFlowStyle || seg.Index >= len(x.Entries) {
			return nil, fmt.Errorf("%w: flow sequence", errNotInPlace)
		}
		at, ok := d.src.offsetOf(x.Entries[seg.Index].Start.Position, '-')
		if !ok {
			return nil, fmt.Errorf("%w: '-' for %d not found", errNotInPlace, seg.Index)
		}
		return d.src.valueSpan(at, at-d.src.lineStart(at), old)
	}
	return nil, fmt.Errorf("%w: parent is a %s", errNotInPlace, KindOf(parent))
}

// place records the replacement of old by node at p.  When the edit
// cannot be placed in the source, the document falls back to the goccy
// printer for good.
func (d *Document) place(p ypath.Path, parent, old, node ast.Node) {
	if d.rendered {
		return
	}
	sp, err := d.locate(parent, p.At(p.Len()-1), old)
	if err == nil {
		sp.text, err = inlineText(node)
	}
	if err != nil {
		if debug.Set() {
			debug.Logf("set %s: rendering whole document: %v\n", p, err)
		}
		d.rendered = true
		d.splices = nil
		return
	}
	delete(d.splices, old)
	for n, o := range d.splices {
		if o.start >= sp.start && o.end <= sp.end {
			delete(d.splices, n)
		}
	}
	d.splices[node] = sp
}

// render applies the splices to the source.
func (d *Document) render() []byte {
	if d.rendered {
		return []byte(d.file.String())
	}
	if len(d.splices) == 0 {
		return bytes.Clone(d.src.b)
	}
	ss := make([]*splice, 0, len(d.splices))
	for _, sp := range d.splices {
		ss = append(ss, sp)
	}
	slices.SortFunc(ss, func(a, b *splice) int { return a.start - b.start })
	var buf bytes.Buffer
	at := 0
	for _, sp := range ss {
		buf.Write(d.src.b[at:sp.start])
		buf.WriteString(sp.text)
		at = sp.end
	}
	buf.Write(d.src.b[at:])
	return buf.Bytes()
}
