// Package doc holds a parsed YAML document which can be addressed and edited
// by path and written back without disturbing the parts that were not
// edited: comments, key order, quoting and layout survive a load/save
// round trip.
package doc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"

	"github.com/zbxtpl/zbxtpl/debug"
)

var (
	ErrIO           = errors.New("i/o error")
	ErrParse        = errors.New("parse error")
	ErrPathNotFound = errors.New("path not found")
)

// Document is one parsed YAML file.  It owns its tree exclusively.
type Document struct {
	// Source is where the document was read from; Dest is where Save
	// writes, and defaults to Source.
	Source string
	Dest   string

	format *Format
	file   *ast.File
	src    *source
	// splices are keyed by the node which replaced the spliced value.
	splices map[ast.Node]*splice
	// rendered is set once an edit could not be placed in src.
	rendered bool
}

// Load reads and parses a document from r.  name is used for messages and
// as the default destination.  A nil format means DefaultFormat().
func Load(r io.Reader, name string, format *Format) (*Document, error) {
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrIO, name, err)
	}
	return ParseBytes(d, name, format)
}

// LoadFile loads the file at path.
func LoadFile(path string, format *Format) (*Document, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	return ParseBytes(d, path, format)
}

func ParseBytes(d []byte, name string, format *Format) (*Document, error) {
	if format == nil {
		format = DefaultFormat()
	}
	f, err := parser.ParseBytes(d, parser.ParseComments, format.parseOpts()...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrParse, name, yaml.FormatError(err, false, true))
	}
	f.Name = name
	if debug.Load() {
		debug.Logf("loaded %s: %d document(s)\n", name, len(f.Docs))
	}
	return &Document{
		Source:  name,
		Dest:    name,
		format:  format,
		file:    f,
		src:     newSource(d),
		splices: map[ast.Node]*splice{},
	}, nil
}

// Root returns the body of the first YAML document in the file, which may
// be nil for an empty file.
func (d *Document) Root() ast.Node {
	if len(d.file.Docs) == 0 {
		return nil
	}
	return d.file.Docs[0].Body
}

// Bytes serializes the document: the source it was parsed from with the
// values changed by Set replaced.
func (d *Document) Bytes() []byte {
	return d.render()
}

func (d *Document) String() string {
	return string(d.render())
}

// WriteTo writes the serialized document to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(d.Bytes())
	return int64(n), err
}

// Save writes the document to d.Dest.
func (d *Document) Save() error {
	return d.SaveAs(d.Dest)
}

// SaveAs writes the document to dst through a temporary file in the same
// directory which is renamed into place, so that dst is either untouched
// or completely rewritten.  An existing dst keeps its permissions.
func (d *Document) SaveAs(dst string) error {
	if dst == "" {
		return fmt.Errorf("%w: no destination for %s", ErrIO, d.Source)
	}
	mode := os.FileMode(0644)
	if fi, err := os.Stat(dst); err == nil {
		mode = fi.Mode().Perm()
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, bytes.NewReader(d.Bytes())); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: writing %s: %w", ErrIO, dst, err)
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}
