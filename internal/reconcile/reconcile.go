// Package reconcile merges user-supplied corrections into an FIR record.
//
// Apply is a best-effort merge: empty corrections are skipped so a blank
// form field can never clear an already-extracted value, and malformed
// paths are skipped rather than failing the whole batch. Completeness is
// the caller's concern — re-run validate.MissingFields after applying.
package reconcile

import (
	"strings"
	"time"

	"github.com/Shiva-Prasad-Naroju/schema-based-summarizer/internal/schema"
)

// Apply sets every non-empty correction into the record in place.
// Corrections are keyed by dotted path. Empty or nil values are no-ops.
func Apply(tree schema.Tree, corrections map[string]any) {
	for path, value := range corrections {
		if isEmpty(value) {
			continue
		}
		// Best effort: a correction that conflicts with the record shape
		// is dropped, the rest of the batch still lands.
		_ = schema.Set(tree, schema.ParsePath(path), value)
	}
}

func isEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	default:
		return false
	}
}

// dateInputLayouts are the widget formats Coerce will normalize from, in
// the order they are tried. The canonical storage form is always
// YYYY-MM-DD.
var dateInputLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"2 January 2006",
	"January 2, 2006",
}

// Coerce validates and normalizes one raw user input according to the
// mandatory field's kind, returning the value to pass to Apply. ok=false
// means the input is unusable and the caller should re-prompt.
//
// Date fields normalize to YYYY-MM-DD. Enum fields must be a member of
// the offense enumeration (case-folded). Free text is trimmed; an
// all-whitespace answer is rejected rather than stored.
func Coerce(field schema.MandatoryField, raw string) (any, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}

	switch field.Kind {
	case schema.KindDate:
		for _, layout := range dateInputLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return t.Format("2006-01-02"), true
			}
		}
		return nil, false

	case schema.KindEnum:
		folded := strings.ToLower(raw)
		if !schema.IsOffenseType(folded) {
			return nil, false
		}
		return folded, true

	default:
		return raw, true
	}
}
