package doc

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zbxtpl/zbxtpl/ypath"
)

const template = `zabbix_export:
  version: '6.0'
  # templates follow
  templates:
    - uuid: 7df96b18c230490a9a0a9e2307226338
      template: 'Template App'
      name: 'Template App'
      items:
        - uuid: ''
          name: 'Item one'
          key: item.one # main key
          delay: 1m
        - uuid:
          name: Item two
          key: item.two
`

func mustParse(t *testing.T, src string) *Document {
	t.Helper()
	d, err := ParseBytes([]byte(src), "test.yaml", nil)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func mustPath(t *testing.T, s string) ypath.Path {
	t.Helper()
	p, err := ypath.Parse(s)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

// described has the layouts found in real exports which the goccy printer
// does not reproduce.
const described = "zabbix_export:\n" +
	"  version: '6.0'\n" +
	"  templates:\n" +
	"    - uuid: ''\n" +
	"      template: 'Template App'\n" +
	"      description: 'Checks the agent.\n" +
	"        \n" +
	"        Second paragraph.'\n" +
	"      items:\n" +
	"        - uuid:\n" +
	"          name: 'Agent ping'\n" +
	"          description: \"first\\\n" +
	"            second\"\n" +
	"          key: agent.ping\n" +
	"          tags:\n" +
	"            - tag: component\n" +
	"              value: system\n"

var roundTrips = []string{
	template,
	described,
	"description: 'Para one.\n        \n        Para two.'\nname: x\n",
	"a: 'Checks the agent.\n  Second line here.'\nb: 1\n",
	"a: \"foo\\\n  bar\"\n",
	"a: 1\r\nb: 'x'\r\nc:\r\n  - d\r\n",
	"a: |\n  literal\n\n  text\nb: >-\n  folded\n  text\n",
	"# head\na: 1 # line\n\n# foot\n",
}

func TestRoundTrip(t *testing.T) {
	for i, src := range roundTrips {
		d := mustParse(t, src)
		if got := d.String(); got != src {
			t.Errorf("%d: round trip:\nexpected:\n%q\ngot:\n%q", i, src, got)
		}
	}
}

func TestSetKeepsSource(t *testing.T) {
	d := mustParse(t, described)
	descs := []string{
		"zabbix_export.templates.0.description",
		"zabbix_export.templates.0.items.0.description",
	}
	before := map[string]any{}
	for _, p := range descs {
		v, err := d.Value(mustPath(t, p))
		if err != nil {
			t.Fatal(err)
		}
		before[p] = v
	}
	sets := []struct {
		Path string
		Val  any
	}{
		{"zabbix_export.templates.0.uuid", "0123456789abcdef0123456789abcdef"},
		{"zabbix_export.templates.0.items.0.uuid", "abcdef0123456789abcdef0123456789"},
		{"zabbix_export.templates.0.items.0.key", "agent.version"},
	}
	for _, s := range sets {
		if err := d.Set(mustPath(t, s.Path), s.Val); err != nil {
			t.Fatalf("%s: %v", s.Path, err)
		}
	}
	want := strings.NewReplacer(
		"    - uuid: ''\n", "    - uuid: '0123456789abcdef0123456789abcdef'\n",
		"        - uuid:\n", "        - uuid: abcdef0123456789abcdef0123456789\n",
		"key: agent.ping\n", "key: agent.version\n",
	).Replace(described)
	if got := d.String(); got != want {
		t.Fatalf("expected:\n%s\ngot:\n%s", want, got)
	}
	r := mustParse(t, d.String())
	for _, p := range descs {
		v, err := r.Value(mustPath(t, p))
		if err != nil {
			t.Fatal(err)
		}
		if v != before[p] {
			t.Errorf("%s: %q, was %q", p, v, before[p])
		}
	}
}

func TestSetCRLF(t *testing.T) {
	d := mustParse(t, "a:\r\n  uuid: ''\r\n  name: x\r\nb:\r\n  - uuid:\r\n")
	if err := d.Set(mustPath(t, "a.uuid"), "u1"); err != nil {
		t.Fatal(err)
	}
	if err := d.Set(mustPath(t, "b.0.uuid"), "u2"); err != nil {
		t.Fatal(err)
	}
	want := "a:\r\n  uuid: 'u1'\r\n  name: x\r\nb:\r\n  - uuid: u2\r\n"
	if got := d.String(); got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestSetBlockValues(t *testing.T) {
	src := "a:\n  b: 1\n  c:\n    - x\n    - y2\nd: plain\n  continued\ne: |\n  text\n  more\nf: end # done\n"
	d := mustParse(t, src)
	sets := []struct {
		Path string
		Val  any
	}{
		{"a.c", "none"},
		{"d", "one line"},
		{"e", "short"},
		{"a.b", 2},
		{"a.b", 3},
		{"f", nil},
	}
	for _, s := range sets {
		if err := d.Set(mustPath(t, s.Path), s.Val); err != nil {
			t.Fatalf("%s: %v", s.Path, err)
		}
	}
	want := "a:\n  b: 3\n  c: none\nd: one line\ne: short\nf: # done\n"
	if got := d.String(); got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestSetFlowStyle(t *testing.T) {
	d := mustParse(t, "a: {b: 1, c: 2}\nz: 'keep'\n")
	if err := d.Set(mustPath(t, "a.b"), "x"); err != nil {
		t.Fatal(err)
	}
	r := mustParse(t, d.String())
	for p, want := range map[string]any{"a.b": "x", "z": "keep"} {
		v, err := r.Value(mustPath(t, p))
		if err != nil {
			t.Fatal(err)
		}
		if v != want {
			t.Errorf("%s: got %#v want %#v", p, v, want)
		}
	}
}

type getTest struct {
	Path string
	Val  any
	Kind Kind
	Fail bool
}

var getTests = []getTest{
	{Path: "zabbix_export.version", Val: "6.0"},
	{Path: "zabbix_export.templates.0.uuid", Val: "7df96b18c230490a9a0a9e2307226338"},
	{Path: "zabbix_export.templates.0.items.0.uuid", Val: ""},
	{Path: "zabbix_export.templates.0.items.1.uuid", Val: nil},
	{Path: "zabbix_export.templates.0.items.0.key", Val: "item.one"},
	{Path: "zabbix_export.templates", Kind: SequenceKind},
	{Path: "zabbix_export.templates.0", Kind: MappingKind},
	{Path: "zabbix_export.templates.1", Fail: true},
	{Path: "zabbix_export.templates.uuid", Fail: true},
	{Path: "zabbix_export.0", Fail: true},
	{Path: "zabbix_export.version.x", Fail: true},
	{Path: "nope", Fail: true},
}

func TestGet(t *testing.T) {
	d := mustParse(t, template)
	for _, tc := range getTests {
		p := mustPath(t, tc.Path)
		n, err := d.Get(p)
		if tc.Fail {
			if !errors.Is(err, ErrPathNotFound) {
				t.Errorf("%s: expected ErrPathNotFound, got %v", tc.Path, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: %v", tc.Path, err)
			continue
		}
		if k := KindOf(n); k != tc.Kind {
			t.Errorf("%s: kind %s, want %s", tc.Path, k, tc.Kind)
		}
		if tc.Kind != ScalarKind {
			continue
		}
		v, err := d.Value(p)
		if err != nil {
			t.Errorf("%s: %v", tc.Path, err)
			continue
		}
		if v != tc.Val {
			t.Errorf("%s: got %#v want %#v", tc.Path, v, tc.Val)
		}
	}
}

func TestSet(t *testing.T) {
	d := mustParse(t, template)
	sets := []struct {
		Path string
		Val  any
	}{
		{"zabbix_export.templates.0.items.0.uuid", "0123456789abcdef0123456789abcdef"},
		{"zabbix_export.templates.0.items.1.uuid", "fedcba9876543210fedcba9876543210"},
		{"zabbix_export.templates.0.items.0.key", "item.renamed"},
		{"zabbix_export.templates.0.items.1.name", "123"},
		{"zabbix_export.templates.0.uuid", nil},
	}
	for _, s := range sets {
		if err := d.Set(mustPath(t, s.Path), s.Val); err != nil {
			t.Fatalf("%s: %v", s.Path, err)
		}
	}
	expect := `zabbix_export:
  version: '6.0'
  # templates follow
  templates:
    - uuid:
      template: 'Template App'
      name: 'Template App'
      items:
        - uuid: '0123456789abcdef0123456789abcdef'
          name: 'Item one'
          key: item.renamed # main key
          delay: 1m
        - uuid: fedcba9876543210fedcba9876543210
          name: '123'
          key: item.two
`
	if got := d.String(); got != expect {
		t.Errorf("expected:\n%s\ngot:\n%s", expect, got)
	}
	r := mustParse(t, d.String())
	for _, s := range sets {
		v, err := r.Value(mustPath(t, s.Path))
		if err != nil {
			t.Fatal(err)
		}
		if v != s.Val {
			t.Errorf("%s: reparsed %#v want %#v", s.Path, v, s.Val)
		}
	}
}

func TestSetMissingParent(t *testing.T) {
	src := "a:\n  uuid: ''\n  name: x\nb:\n  - uuid: '1234'\n"
	d := mustParse(t, src)
	p, err := ypath.FromAny("a", "missing", "x")
	if err != nil {
		t.Fatal(err)
	}
	err = d.Set(p, 1)
	if !errors.Is(err, ErrPathNotFound) {
		t.Fatalf("expected ErrPathNotFound, got %v", err)
	}
	if d.String() != src {
		t.Errorf("document modified:\n%s", d.String())
	}
	if err := d.Set(mustPath(t, "b.1"), "x"); !errors.Is(err, ErrPathNotFound) {
		t.Errorf("set past end of sequence: %v", err)
	}
	if err := d.Set(ypath.New(), "x"); !errors.Is(err, ErrPathNotFound) {
		t.Errorf("set root: %v", err)
	}
}

func TestSetNoQuotePreservation(t *testing.T) {
	f := DefaultFormat()
	f.PreserveQuotes = false
	d, err := ParseBytes([]byte("a: 'x'\nb: \"y\"\n"), "t", f)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Set(mustPath(t, "a"), "plain"); err != nil {
		t.Fatal(err)
	}
	if err := d.Set(mustPath(t, "b"), "true"); err != nil {
		t.Fatal(err)
	}
	if got, want := d.String(), "a: plain\nb: 'true'\n"; got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestDuplicateKeys(t *testing.T) {
	src := "a: 1\nb: 2\na: 3\n"
	d := mustParse(t, src)
	v, err := d.Value(mustPath(t, "a"))
	if err != nil {
		t.Fatal(err)
	}
	if v != uint64(3) && v != int64(3) && v != 3 {
		t.Errorf("expected last duplicate, got %#v", v)
	}
	if err := d.Set(mustPath(t, "a"), "x"); err != nil {
		t.Fatal(err)
	}
	if got, want := d.String(), "a: 1\nb: 2\na: x\n"; got != want {
		t.Errorf("got %q want %q", got, want)
	}

	f := DefaultFormat()
	f.AllowDuplicateKeys = false
	if _, err := ParseBytes([]byte(src), "dup", f); !errors.Is(err, ErrParse) {
		t.Errorf("expected ErrParse, got %v", err)
	}
}

func TestParseError(t *testing.T) {
	_, err := ParseBytes([]byte("a: [1, 2\nb: c\n"), "bad.yaml", nil)
	if !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
	if !strings.Contains(err.Error(), "bad.yaml") {
		t.Errorf("error should name the source: %v", err)
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	if !errors.Is(err, ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected the cause to be kept: %v", err)
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.yaml")
	if err := os.WriteFile(src, []byte(template), 0600); err != nil {
		t.Fatal(err)
	}
	d, err := LoadFile(src, nil)
	if err != nil {
		t.Fatal(err)
	}
	if d.Dest != src {
		t.Errorf("default destination %q", d.Dest)
	}
	if err := d.Set(mustPath(t, "zabbix_export.version"), "7.0"); err != nil {
		t.Fatal(err)
	}
	if err := d.Save(); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(src)
	if err != nil {
		t.Fatal(err)
	}
	if want := strings.Replace(template, "'6.0'", "'7.0'", 1); string(got) != want {
		t.Errorf("saved:\n%s", got)
	}
	fi, err := os.Stat(src)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Mode().Perm() != 0600 {
		t.Errorf("mode %v", fi.Mode().Perm())
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}

	out := filepath.Join(dir, "out.yaml")
	if err := d.SaveAs(out); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Error(err)
	}
	if err := d.SaveAs(filepath.Join(dir, "no", "such", "dir.yaml")); !errors.Is(err, ErrIO) {
		t.Errorf("expected ErrIO, got %v", err)
	}
}

func TestReformat(t *testing.T) {
	src := "zabbix_export:\n  version: '6.0'\n  templates:\n  - template: a\n    groups:\n    - name: Templates\n"
	d := mustParse(t, src)
	before, err := d.Value(ypath.New())
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Reformat(); err != nil {
		t.Fatal(err)
	}
	out := d.String()
	if !strings.Contains(out, "\n    - template: a\n") {
		t.Errorf("sequence not indented:\n%s", out)
	}
	after, err := d.Value(ypath.New())
	if err != nil {
		t.Fatal(err)
	}
	if fmt.Sprint(before) != fmt.Sprint(after) {
		t.Errorf("content changed:\n%v\n%v", before, after)
	}
}

func TestAnnotate(t *testing.T) {
	d := mustParse(t, template)
	out, err := d.Annotate(mustPath(t, "zabbix_export.templates.0.items.0.key"), false)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "item.one") {
		t.Errorf("annotation:\n%s", out)
	}
	if _, err := d.Annotate(mustPath(t, "zabbix_export.nope"), false); !errors.Is(err, ErrPathNotFound) {
		t.Errorf("expected ErrPathNotFound, got %v", err)
	}
}

func TestScalarText(t *testing.T) {
	d := mustParse(t, "s: 'x'\ni: 12\nb: true\nn:\nm: {a: 1}\n")
	tests := []struct {
		Path string
		Text string
		OK   bool
	}{
		{"s", "x", true},
		{"i", "12", true},
		{"b", "true", true},
		{"n", "", true},
		{"m", "", false},
	}
	for _, tc := range tests {
		n, err := d.Get(mustPath(t, tc.Path))
		if err != nil {
			t.Fatal(err)
		}
		text, ok := ScalarText(n)
		if text != tc.Text || ok != tc.OK {
			t.Errorf("%s: got %q %t", tc.Path, text, ok)
		}
	}
}

func TestEncode(t *testing.T) {
	d := mustParse(t, template)
	out, err := d.Encode(mustPath(t, "zabbix_export.version"))
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "6.0\n" {
		t.Errorf("scalar: %q", out)
	}
	d = mustParse(t, "a:\n  b: x\n  c:\n  - item\n")
	out, err = d.Encode(mustPath(t, "a"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(out), "b: x\nc:\n") || !strings.Contains(string(out), "- item\n") {
		t.Errorf("mapping:\n%s", out)
	}
	if _, err := d.Encode(mustPath(t, "z")); !errors.Is(err, ErrPathNotFound) {
		t.Errorf("expected ErrPathNotFound, got %v", err)
	}
}
