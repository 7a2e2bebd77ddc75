// Package debug turns on tracing of document loads, searches, edits and
// uuid passes with ZBXTPL_DEBUG_<NAME>=true in the environment.
package debug

import (
	"encoding/json"
	"os"
	"strconv"
)

var switches = map[string]bool{}

func init() {
	for _, name := range []string{"LOAD", "FIND", "SET", "UUID"} {
		switches[name], _ = strconv.ParseBool(os.Getenv("ZBXTPL_DEBUG_" + name))
	}
}

func Load() bool { return switches["LOAD"] }
func Find() bool { return switches["FIND"] }
func Set() bool  { return switches["SET"] }
func UUID() bool { return switches["UUID"] }

// LogAny writes v on a line of its own, as Logf renders arguments, with
// other values as json.
func LogAny(v any) {
	switch v.(type) {
	case map[string]any, []any:
		Logf("%s\n", v)
		return
	}
	if s, ok := render(v); ok {
		Logf("%s\n", s)
		return
	}
	d, err := json.Marshal(v)
	if err != nil {
		Logf("%v\n", v)
		return
	}
	Logf("%s\n", d)
}
