// Package format renders FIR records for display and export: long-form
// date/time display, FIR number generation, pretty JSON, and the plain
// text report wrapper.
package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/Shiva-Prasad-Naroju/schema-based-summarizer/internal/schema"
)

// DatetimeDisplay renders a YYYY-MM-DD date as "15 January 2025",
// appending " at HH:MM" when a time is supplied. When the date does not
// parse, the raw values are concatenated unchanged instead of failing.
func DatetimeDisplay(date, timeStr string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return strings.TrimSpace(date + " " + timeStr)
	}
	out := t.Format("02 January 2006")
	if timeStr != "" {
		out += " at " + timeStr
	}
	return out
}

// FIRNumber builds the record identifier "<DIST3>-<YEAR>-<SEQ4>". The
// district code is the first three characters uppercased, "UNK" when the
// district is empty. Year 0 means the current calendar year.
func FIRNumber(district string, year, seq int) string {
	if year == 0 {
		year = time.Now().Year()
	}
	code := "UNK"
	if d := strings.TrimSpace(district); d != "" {
		r := []rune(strings.ToUpper(d))
		if len(r) > 3 {
			r = r[:3]
		}
		code = string(r)
	}
	return fmt.Sprintf("%s-%d-%04d", code, year, seq)
}

// RandomSequence returns a sequence number in [1000, 9999]. Only used
// when no store is open; the persisted store.NextSequence is the real
// allocator.
func RandomSequence() int {
	return 1000 + rand.Intn(9000)
}

// ToJSON serializes the record as two-space-indented JSON with UTF-8
// preserved unescaped. With pruneNulls set, null, empty-string, and
// empty-container fields are removed first (the record itself is not
// modified).
func ToJSON(tree schema.Tree, pruneNulls bool) (string, error) {
	if pruneNulls {
		tree = schema.Prune(tree)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tree); err != nil {
		return "", fmt.Errorf("encoding record: %w", err)
	}
	return string(bytes.TrimSpace(buf.Bytes())), nil
}

// reportBanner is the fixed header of the exported text report.
const reportBanner = "FIR SUMMARY REPORT"

// reportSeparator divides the report sections.
const reportSeparator = "====================================="

// Report assembles the full plain-text export: banner, generation
// timestamp, the summary paragraph, a separator, and the structured JSON.
func Report(summary, prettyJSON string, generatedAt time.Time) string {
	var sb strings.Builder
	sb.WriteString(reportBanner + "\n")
	sb.WriteString("Generated: " + generatedAt.Format("2006-01-02 15:04:05") + "\n")
	sb.WriteString(reportSeparator + "\n\n")
	sb.WriteString(summary + "\n\n")
	sb.WriteString(reportSeparator + "\n")
	sb.WriteString("STRUCTURED DATA:\n")
	sb.WriteString(prettyJSON + "\n")
	return sb.String()
}
