package doc

import (
	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/parser"
)

// Format holds the serializer settings for a Document.  A Format is built
// once and handed to Load; documents never share mutable settings.
//
// The defaults reproduce the layout of Zabbix template exports: mappings
// indented by 2, sequence entries indented by 4 with the dash at offset 2.
type Format struct {
	// Indent is the mapping indentation.
	Indent int
	// SequenceOffset is the indentation of the '-' of a block sequence
	// relative to its parent key.  The entry content always follows the
	// dash and a space, so the effective sequence indent is
	// SequenceOffset+2.  The encoder can only place the dash at 0 or at
	// Indent, so any positive value means Indent when reformatting.
	SequenceOffset int
	// PreserveQuotes keeps the quote style of a scalar when its value is
	// replaced.
	PreserveQuotes bool
	// AllowDuplicateKeys tolerates repeated keys in a mapping.  Get and
	// Set address the last occurrence.
	AllowDuplicateKeys bool
	// SingleQuote selects ' over " for strings which need quoting.
	SingleQuote bool
}

func DefaultFormat() *Format {
	return &Format{
		Indent:             2,
		SequenceOffset:     2,
		PreserveQuotes:     true,
		AllowDuplicateKeys: true,
		SingleQuote:        true,
	}
}

func (f *Format) parseOpts() []parser.Option {
	if f.AllowDuplicateKeys {
		return []parser.Option{parser.AllowDuplicateMapKey()}
	}
	return nil
}

func (f *Format) decodeOpts() []yaml.DecodeOption {
	res := []yaml.DecodeOption{yaml.UseOrderedMap()}
	if f.AllowDuplicateKeys {
		res = append(res, yaml.AllowDuplicateMapKey())
	}
	return res
}

func (f *Format) encodeOpts() []yaml.EncodeOption {
	return []yaml.EncodeOption{
		yaml.Indent(f.Indent),
		yaml.IndentSequence(f.SequenceOffset > 0),
		yaml.UseSingleQuote(f.SingleQuote),
		yaml.UseLiteralStyleIfMultiline(true),
	}
}
