package ypath

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

var ErrInvalidPath = errors.New("invalid path")

// Segment is one step of a Path: either a mapping key or a sequence index.
type Segment struct {
	Key   string
	Index int
	// IsIndex distinguishes Index(0) from Key("").
	IsIndex bool
}

func Key(k string) Segment { return Segment{Key: k} }

func Index(i int) Segment { return Segment{Index: i, IsIndex: true} }

func (s Segment) String() string {
	if s.IsIndex {
		return strconv.Itoa(s.Index)
	}
	return s.Key
}

// Path addresses a node in a document by keys and indices from the root.
// The zero Path is the root.
type Path struct {
	segs []Segment
}

func New(segs ...Segment) Path {
	if len(segs) == 0 {
		return Path{}
	}
	return Path{segs: append([]Segment(nil), segs...)}
}

// Parse parses dotted path text such as "zabbix_export.templates.0.uuid".
// One pair of enclosing brackets is stripped.  Segments made only of
// decimal digits are indices, everything else is a key.
func Parse(text string) (Path, error) {
	return parse(text, Strict)
}

// ParseLenient is like Parse but validates with Lenient.
func ParseLenient(text string) (Path, error) {
	return parse(text, Lenient)
}

func parse(text string, rule Rule) (Path, error) {
	text = strings.TrimPrefix(text, "[")
	text = strings.TrimSuffix(text, "]")
	if text == "" {
		return Path{}, nil
	}
	if !rule.validText(text) {
		return Path{}, fmt.Errorf("%w: %q", ErrInvalidPath, text)
	}
	parts := strings.Split(text, ".")
	res := Path{segs: make([]Segment, 0, len(parts))}
	for _, part := range parts {
		if part == "" {
			return Path{}, fmt.Errorf("%w: empty segment in %q", ErrInvalidPath, text)
		}
		if isDigits(part) {
			i, err := strconv.Atoi(part)
			if err != nil {
				return Path{}, fmt.Errorf("%w: index %q: %w", ErrInvalidPath, part, err)
			}
			res.segs = append(res.segs, Index(i))
			continue
		}
		res.segs = append(res.segs, Key(part))
	}
	return res, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

// String renders p as dot separated text.  Parse(p.String()) == p for
// paths whose keys pass Strict validation and are not all digits.
func (p Path) String() string {
	buf := bytes.NewBuffer(nil)
	for i, s := range p.segs {
		if i > 0 {
			buf.WriteByte('.')
		}
		buf.WriteString(s.String())
	}
	return buf.String()
}

// GoString renders p with each segment quoted, e.g. ['a'.0.'uuid'].
func (p Path) GoString() string {
	parts := make([]string, len(p.segs))
	for i, s := range p.segs {
		if s.IsIndex {
			parts[i] = strconv.Itoa(s.Index)
			continue
		}
		parts[i] = "'" + s.Key + "'"
	}
	return "[" + strings.Join(parts, ".") + "]"
}

// YAMLPath converts p to a goccy yaml path ($.a.b[0]).
func (p Path) YAMLPath() *yaml.Path {
	b := (&yaml.PathBuilder{}).Root()
	for _, s := range p.segs {
		if s.IsIndex {
			b = b.Index(uint(s.Index))
			continue
		}
		b = b.Child(s.Key)
	}
	return b.Build()
}

func (p Path) Len() int { return len(p.segs) }

func (p Path) IsRoot() bool { return len(p.segs) == 0 }

func (p Path) At(i int) Segment { return p.segs[i] }

// Last returns the final segment; ok is false for the root path.
func (p Path) Last() (seg Segment, ok bool) {
	if len(p.segs) == 0 {
		return Segment{}, false
	}
	return p.segs[len(p.segs)-1], true
}

// Parent returns p without its last segment.  The parent of the root is
// the root.
func (p Path) Parent() Path {
	if len(p.segs) == 0 {
		return p
	}
	return p.Slice(0, len(p.segs)-1)
}

// Append returns a new path; p is never modified.
func (p Path) Append(segs ...Segment) Path {
	res := make([]Segment, 0, len(p.segs)+len(segs))
	res = append(res, p.segs...)
	res = append(res, segs...)
	return Path{segs: res}
}

func (p Path) Slice(from, to int) Path {
	return New(p.segs[from:to]...)
}

// Segments returns a copy of the segments of p.
func (p Path) Segments() []Segment {
	return append([]Segment(nil), p.segs...)
}

func (p Path) Equal(o Path) bool {
	return p.Compare(o) == 0
}

// Compare orders paths segment by segment.  Indices sort before keys, and
// a path sorts before any path it is a prefix of.
func (p Path) Compare(o Path) int {
	n := min(len(p.segs), len(o.segs))
	for i := range n {
		if c := compareSegment(p.segs[i], o.segs[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(p.segs) < len(o.segs):
		return -1
	case len(p.segs) > len(o.segs):
		return 1
	}
	return 0
}

func compareSegment(a, b Segment) int {
	switch {
	case a.IsIndex && !b.IsIndex:
		return -1
	case !a.IsIndex && b.IsIndex:
		return 1
	case a.IsIndex:
		return a.Index - b.Index
	}
	return strings.Compare(a.Key, b.Key)
}

// HasPrefix reports whether q is a prefix of p.
func (p Path) HasPrefix(q Path) bool {
	if len(q.segs) > len(p.segs) {
		return false
	}
	return p.Slice(0, len(q.segs)).Equal(q)
}
