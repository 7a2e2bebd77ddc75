package debug

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/goccy/go-yaml/ast"
)

// Logf writes to stderr, rendering maps, slices and yaml nodes readably.
func Logf(msg string, args ...any) {
	for i, a := range args {
		switch a.(type) {
		case map[string]any, []any:
			d, err := json.MarshalIndent(a, "   |", "  ")
			if err != nil {
				args[i] = fmt.Sprintf("%v", a)
				continue
			}
			args[i] = string(d)
			continue
		}
		if s, ok := render(a); ok {
			args[i] = s
		}
	}
	fmt.Fprintf(os.Stderr, msg, args...)
}

// render gives yaml nodes and Stringers their text form.
func render(v any) (string, bool) {
	switch x := v.(type) {
	case ast.Node:
		if x == nil {
			return "<nil node>", true
		}
		return x.String(), true
	case fmt.Stringer:
		return x.String(), true
	}
	return "", false
}
