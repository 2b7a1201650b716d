// Package validate provides field-format validators and the
// mandatory-field completeness check for FIR records.
//
// All predicates are total: malformed input returns false, never an
// error. Completeness is recomputed on every call so the result always
// reflects the current record state.
package validate

import (
	"regexp"
	"strings"
	"time"

	"github.com/Shiva-Prasad-Naroju/schema-based-summarizer/internal/schema"
)

// mobileRE is the Indian mobile shape: exactly 10 digits, leading 6-9.
var mobileRE = regexp.MustCompile(`^[6-9]\d{9}$`)

// phoneNoiseReplacer strips the separators people type into phone numbers.
var phoneNoiseReplacer = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", "\t", "")

// nonDigitRE matches everything that is not a decimal digit.
var nonDigitRE = regexp.MustCompile(`\D`)

// Phone reports whether s is a valid Indian mobile number after stripping
// whitespace, hyphens, and parentheses.
func Phone(s string) bool {
	return mobileRE.MatchString(phoneNoiseReplacer.Replace(s))
}

// Date reports whether s is a real calendar date in YYYY-MM-DD form.
// Out-of-range months and days are rejected.
func Date(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// Time reports whether s is a 24-hour HH:MM time.
func Time(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}

// CleanPhone strips every non-digit character and, when more than 10
// digits remain, keeps the last 10 (dropping country and trunk codes).
func CleanPhone(s string) string {
	digits := nonDigitRE.ReplaceAllString(s, "")
	if len(digits) > 10 {
		digits = digits[len(digits)-10:]
	}
	return digits
}

// Missing is one unsatisfied mandatory field.
type Missing struct {
	Field schema.MandatoryField
}

// Path is a convenience accessor for the missing field's dotted path.
func (m Missing) Path() string { return m.Field.Path.String() }

// Label is a convenience accessor for the missing field's display label.
func (m Missing) Label() string { return m.Field.Label }

// MissingFields checks every mandatory field against the record. A field
// counts as missing when its path does not resolve, or resolves to nil,
// an empty string, or the literal string "null" (LLM extractors sometimes
// emit it as text). Declared field order is preserved.
func MissingFields(tree schema.Tree, fields []schema.MandatoryField) []Missing {
	var missing []Missing
	for _, f := range fields {
		v, ok := schema.Get(tree, f.Path)
		if !ok || isEmptyValue(v) {
			missing = append(missing, Missing{Field: f})
		}
	}
	return missing
}

func isEmptyValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == "" || val == "null"
	default:
		return false
	}
}
