package ypath

import (
	"strings"
	"unicode"
)

// Rule decides which characters may appear in a path.
type Rule int

const (
	// Strict admits letters, digits and '_' in keys.
	Strict Rule = iota
	// Lenient only rejects the characters in Disallowed, matching the
	// behaviour of the older python tooling for Zabbix exports.
	Lenient
)

// Disallowed are rejected under every rule.
const Disallowed = "#><-$"

func (r Rule) validRune(c rune) bool {
	if strings.ContainsRune(Disallowed, c) {
		return false
	}
	if r == Lenient {
		return true
	}
	return c == '_' || unicode.IsLetter(c) || unicode.IsDigit(c)
}

func (r Rule) validKey(k string) bool {
	for _, c := range k {
		if !r.validRune(c) {
			return false
		}
	}
	return true
}

// validText checks full path text, where '.' separates segments.
func (r Rule) validText(text string) bool {
	for _, part := range strings.Split(text, ".") {
		if !r.validKey(part) {
			return false
		}
	}
	return true
}

// Validate reports whether v is a valid path under Strict.  v may be path
// text, a Path, a []Segment or a []any holding only ints and strings.
// Any other type is invalid.
func Validate(v any) bool {
	return Strict.Validate(v)
}

func (r Rule) Validate(v any) bool {
	switch x := v.(type) {
	case string:
		x = strings.TrimSuffix(strings.TrimPrefix(x, "["), "]")
		return r.validText(x)
	case Path:
		return r.validSegments(x.segs)
	case []Segment:
		return r.validSegments(x)
	case []any:
		for _, item := range x {
			switch y := item.(type) {
			case int:
				if y < 0 {
					return false
				}
			case string:
				if !r.validKey(y) {
					return false
				}
			default:
				return false
			}
		}
		return true
	}
	return false
}

func (r Rule) validSegments(segs []Segment) bool {
	for _, s := range segs {
		if s.IsIndex {
			if s.Index < 0 {
				return false
			}
			continue
		}
		if !r.validKey(s.Key) {
			return false
		}
	}
	return true
}

// FromAny builds a Path from ints and strings, as accepted by Validate.
func FromAny(items ...any) (Path, error) {
	return Strict.FromAny(items...)
}

func (r Rule) FromAny(items ...any) (Path, error) {
	if !r.Validate(items) {
		return Path{}, ErrInvalidPath
	}
	res := Path{segs: make([]Segment, 0, len(items))}
	for _, item := range items {
		switch y := item.(type) {
		case int:
			res.segs = append(res.segs, Index(y))
		case string:
			res.segs = append(res.segs, Key(y))
		}
	}
	return res, nil
}

// Parse parses text validating with r.
func (r Rule) Parse(text string) (Path, error) {
	return parse(text, r)
}
