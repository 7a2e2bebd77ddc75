package zbxtpl

import (
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"

	"github.com/google/uuid"

	"github.com/zbxtpl/zbxtpl/debug"
	"github.com/zbxtpl/zbxtpl/doc"
)

// UUIDMode selects how UpdateUUIDs treats uuid fields.
type UUIDMode int

const (
	// FillMissing gives a new identifier to uuid fields which are null or
	// empty and leaves the others alone.
	FillMissing UUIDMode = iota
	// Regenerate gives every uuid field a new identifier.
	Regenerate
	// Clear sets every uuid field to null.
	Clear
)

func (m UUIDMode) String() string {
	switch m {
	case Regenerate:
		return "regenerate"
	case Clear:
		return "clear"
	}
	return "fill-missing"
}

// ErrUUIDModes is returned when more than one of the regenerate and clear
// modes is requested.
var ErrUUIDModes = errors.New("regenerate and clear are mutually exclusive")

// UUIDModeOf selects the mode from the command line switches; neither
// switch means FillMissing.
func UUIDModeOf(regenerate, clear bool) (UUIDMode, error) {
	switch {
	case regenerate && clear:
		return FillMissing, ErrUUIDModes
	case regenerate:
		return Regenerate, nil
	case clear:
		return Clear, nil
	}
	return FillMissing, nil
}

// UUIDKey is the key of the fields Zabbix uses to deduplicate template
// objects on import.
const UUIDKey = "uuid"

var uuidKeyRE = regexp.MustCompile(`^` + UUIDKey + `$`)

// NewUUID returns a random version 4 UUID as 32 lower case hex digits, the
// form found in Zabbix exports.
func NewUUID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

// UUIDReport summarizes an UpdateUUIDs pass.
type UUIDReport struct {
	Mode    UUIDMode
	Found   int
	Changed int
}

func (r UUIDReport) String() string {
	return fmt.Sprintf("%s: %d uuid field(s), %d changed", r.Mode, r.Found, r.Changed)
}

// UpdateUUIDs applies mode to every entry keyed "uuid" in d.  gen makes new
// identifiers and defaults to NewUUID.  Uniqueness of generated values is
// not checked against the rest of the document.  The document is changed
// in memory only; persisting it is up to the caller.
func UpdateUUIDs(d *doc.Document, mode UUIDMode, gen func() string) (UUIDReport, error) {
	if gen == nil {
		gen = NewUUID
	}
	rep := UUIDReport{Mode: mode}
	paths, err := Find(d, &FindOptions{Key: uuidKeyRE})
	if err != nil {
		return rep, err
	}
	rep.Found = len(paths)
	for _, p := range paths {
		var value any
		switch mode {
		case Regenerate:
			value = gen()
		case Clear:
			value = nil
		default:
			cur, err := d.Value(p)
			if err != nil {
				return rep, err
			}
			if cur != nil && cur != "" {
				continue
			}
			value = gen()
		}
		if debug.UUID() {
			debug.Logf("uuid %s: %s -> %v\n", mode, p, value)
		}
		if err := d.Set(p, value); err != nil {
			return rep, err
		}
		rep.Changed++
	}
	if debug.UUID() {
		debug.LogAny(rep)
	}
	return rep, nil
}
