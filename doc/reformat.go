package doc

import (
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/zbxtpl/zbxtpl/ypath"
)

// Reformat re-encodes the whole document with the indentation of its
// Format.  Key order and comments are kept; quoting and scalar layout are
// normalized.
func (d *Document) Reformat() error {
	cm := yaml.CommentMap{}
	var v any
	opts := append(d.format.decodeOpts(), yaml.CommentToMap(cm))
	if err := yaml.UnmarshalWithOptions(d.Bytes(), &v, opts...); err != nil {
		return fmt.Errorf("%w: %s: %s", ErrParse, d.Source, yaml.FormatError(err, false, true))
	}
	out, err := yaml.MarshalWithOptions(v, append(d.format.encodeOpts(), yaml.WithComment(cm))...)
	if err != nil {
		return fmt.Errorf("reformatting %s: %w", d.Source, err)
	}
	r, err := ParseBytes(out, d.Source, d.format)
	if err != nil {
		return err
	}
	d.file, d.src = r.file, r.src
	d.splices, d.rendered = r.splices, false
	return nil
}

// Annotate renders the source around the node at p with the node marked,
// in the style of yaml error messages.
func (d *Document) Annotate(p ypath.Path, colored bool) (string, error) {
	if _, err := d.Get(p); err != nil {
		return "", err
	}
	out, err := p.YAMLPath().AnnotateSource(d.Bytes(), colored)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrPathNotFound, p, err)
	}
	return string(out), nil
}

// Encode renders the subtree at p as a standalone YAML document using the
// Format's indentation.  Scalars are rendered bare, without quotes or a
// document marker.
func (d *Document) Encode(p ypath.Path) ([]byte, error) {
	n, err := d.Get(p)
	if err != nil {
		return nil, err
	}
	if text, ok := ScalarText(n); ok {
		return []byte(text + "\n"), nil
	}
	v, err := decode(n, d.format)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", p, err)
	}
	return yaml.MarshalWithOptions(v, d.format.encodeOpts()...)
}
