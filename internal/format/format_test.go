package format

import (
	"strings"
	"testing"
	"time"

	"github.com/Shiva-Prasad-Naroju/schema-based-summarizer/internal/schema"
)

func TestDatetimeDisplay(t *testing.T) {
	cases := []struct {
		date string
		time string
		want string
	}{
		{"2025-01-15", "20:30", "15 January 2025 at 20:30"},
		{"2025-01-15", "", "15 January 2025"},
		{"2025-12-01", "09:05", "01 December 2025 at 09:05"},
		// Unparseable dates fall back to raw concatenation.
		{"15/01/2025", "20:30", "15/01/2025 20:30"},
		{"unknown", "", "unknown"},
		{"", "20:30", "20:30"},
	}
	for _, tc := range cases {
		if got := DatetimeDisplay(tc.date, tc.time); got != tc.want {
			t.Errorf("DatetimeDisplay(%q, %q) = %q, want %q", tc.date, tc.time, got, tc.want)
		}
	}
}

func TestFIRNumber(t *testing.T) {
	if got := FIRNumber("Bengaluru Urban", 2025, 1042); got != "BEN-2025-1042" {
		t.Errorf("FIRNumber = %q", got)
	}
	if got := FIRNumber("", 2025, 1000); got != "UNK-2025-1000" {
		t.Errorf("FIRNumber with empty district = %q", got)
	}
	if got := FIRNumber("My", 2025, 9999); got != "MY-2025-9999" {
		t.Errorf("FIRNumber with short district = %q", got)
	}

	// Year 0 defaults to the current year.
	now := time.Now().Year()
	if got := FIRNumber("Del", 0, 1000); !strings.Contains(got, "-"+itoa(now)+"-") {
		t.Errorf("FIRNumber with year 0 = %q, want current year %d", got, now)
	}
}

func itoa(n int) string {
	return time.Date(n, 1, 1, 0, 0, 0, 0, time.UTC).Format("2006")
}

func TestRandomSequenceRange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		seq := RandomSequence()
		if seq < 1000 || seq > 9999 {
			t.Fatalf("RandomSequence out of range: %d", seq)
		}
	}
}

func TestToJSON_PrunesNulls(t *testing.T) {
	tree := schema.Template()
	mustSet(t, tree, "complainant.name", "Rajesh Kumar")
	mustSet(t, tree, "offense_details.type", "theft")

	out, err := ToJSON(tree, true)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	if strings.Contains(out, "null") {
		t.Errorf("pruned JSON still contains nulls:\n%s", out)
	}
	if !strings.Contains(out, `"name": "Rajesh Kumar"`) {
		t.Errorf("pruned JSON lost a value:\n%s", out)
	}

	// The record itself must be untouched.
	if v, ok := schema.Get(tree, schema.ParsePath("complainant.email")); !ok || v != nil {
		t.Error("ToJSON with pruning mutated the record")
	}
}

func TestToJSON_KeepsNullsWhenNotPruning(t *testing.T) {
	tree := schema.Template()
	out, err := ToJSON(tree, false)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	if !strings.Contains(out, "null") {
		t.Error("unpruned JSON should keep null leaves")
	}
}

func TestToJSON_UnescapedUTF8(t *testing.T) {
	tree := schema.Tree{"loss": "₹50,000 — सोने की चेन"}
	out, err := ToJSON(tree, false)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	if !strings.Contains(out, "₹50,000") || !strings.Contains(out, "सोने") {
		t.Errorf("UTF-8 was escaped:\n%s", out)
	}
}

func TestReport_Layout(t *testing.T) {
	generated := time.Date(2025, 1, 16, 10, 30, 0, 0, time.UTC)
	report := Report("Complainant Rajesh Kumar reported a chain snatching.", `{"ok": true}`, generated)

	for _, want := range []string{
		"FIR SUMMARY REPORT",
		"Generated: 2025-01-16 10:30:00",
		"Complainant Rajesh Kumar reported a chain snatching.",
		"STRUCTURED DATA:",
		`{"ok": true}`,
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}

	// Summary must come before the structured data section.
	if strings.Index(report, "Complainant") > strings.Index(report, "STRUCTURED DATA:") {
		t.Error("summary placed after structured data")
	}
}

func mustSet(t *testing.T, tree schema.Tree, path string, v any) {
	t.Helper()
	if err := schema.Set(tree, schema.ParsePath(path), v); err != nil {
		t.Fatalf("Set(%s): %v", path, err)
	}
}
