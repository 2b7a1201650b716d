package fir

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/Shiva-Prasad-Naroju/schema-based-summarizer/internal/llm"
	"github.com/Shiva-Prasad-Naroju/schema-based-summarizer/internal/schema"
	"github.com/Shiva-Prasad-Naroju/schema-based-summarizer/internal/store"
)

// stubProvider returns a canned response or error for every call.
type stubProvider struct {
	response string
	err      error
	lastOpts llm.CompletionOpts
	calls    int
}

func (s *stubProvider) Complete(_ context.Context, _ string, opts llm.CompletionOpts) (string, error) {
	s.calls++
	s.lastOpts = opts
	return s.response, s.err
}

func (s *stubProvider) Name() string { return "stub" }

func filledRecordJSON(t *testing.T) string {
	t.Helper()
	tree := schema.Template()
	set := func(path string, v any) {
		if err := schema.Set(tree, schema.ParsePath(path), v); err != nil {
			t.Fatalf("set %s: %v", path, err)
		}
	}
	set("complainant.name", "Rajesh Kumar")
	set("complainant.address", "45 MG Road, Bengaluru")
	set("complainant.phone", "9876543210")
	set("incident.location.address", "City Market area")
	set("incident.datetime.occurred_on", "2025-01-15")
	set("offense_details.type", "theft")
	set("offense_details.description", "Gold chain snatched at knife point")
	b, err := json.Marshal(tree)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

func TestExtractRecordSuccess(t *testing.T) {
	p := &stubProvider{response: filledRecordJSON(t)}
	tree := ExtractRecord(context.Background(), p, "complaint text", schema.Template())

	if got := schema.GetString(tree, schema.ParsePath("complainant.name")); got != "Rajesh Kumar" {
		t.Errorf("complainant.name = %q", got)
	}
	if p.lastOpts.Format != "json" {
		t.Error("extraction should request json format")
	}
	// The model omitted original_text; the pipeline preserves it.
	if got := schema.GetString(tree, schema.ParsePath("original_text")); got != "complaint text" {
		t.Errorf("original_text = %q", got)
	}
	if schema.GetString(tree, schema.ParsePath("complaint_metadata.submission_datetime")) == "" {
		t.Error("submission_datetime not stamped")
	}
}

func TestExtractRecordStripsFences(t *testing.T) {
	p := &stubProvider{response: "```json\n" + filledRecordJSON(t) + "\n```"}
	tree := ExtractRecord(context.Background(), p, "text", schema.Template())
	if got := schema.GetString(tree, schema.ParsePath("offense_details.type")); got != "theft" {
		t.Errorf("offense_details.type = %q after fence strip", got)
	}
}

func TestExtractRecordNormalizesPhone(t *testing.T) {
	record := schema.Template()
	if err := schema.Set(record, schema.ParsePath("complainant.phone"), "+91-98765 43210"); err != nil {
		t.Fatal(err)
	}
	b, _ := json.Marshal(record)
	p := &stubProvider{response: string(b)}

	tree := ExtractRecord(context.Background(), p, "text", schema.Template())
	if got := schema.GetString(tree, schema.ParsePath("complainant.phone")); got != "9876543210" {
		t.Errorf("phone = %q, want digits only", got)
	}
}

func TestExtractRecordFallback(t *testing.T) {
	cases := []struct {
		name     string
		provider llm.Provider
	}{
		{"provider error", &stubProvider{err: errors.New("rate limited")}},
		{"invalid json", &stubProvider{response: "I could not process that."}},
		{"nil provider", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			template := schema.Template()
			tree := ExtractRecord(context.Background(), tc.provider, "raw complaint", template)

			if got := schema.GetString(tree, schema.ParsePath("original_text")); got != "raw complaint" {
				t.Errorf("fallback original_text = %q", got)
			}
			if schema.GetString(tree, schema.ParsePath("complaint_metadata.submission_datetime")) == "" {
				t.Error("fallback must stamp submission_datetime")
			}
			// The shared template must stay pristine.
			if v, _ := schema.Get(template, schema.ParsePath("original_text")); v != nil {
				t.Error("fallback mutated the template")
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	p := &stubProvider{response: "  Rajesh Kumar reported a chain snatching.  "}
	tree := schema.Template()
	got := Summarize(context.Background(), p, tree)
	if got != "Rajesh Kumar reported a chain snatching." {
		t.Errorf("Summarize = %q", got)
	}
	if p.lastOpts.Format == "json" {
		t.Error("summary must not request json format")
	}
}

func TestSummarizeError(t *testing.T) {
	p := &stubProvider{err: errors.New("connection refused")}
	got := Summarize(context.Background(), p, schema.Template())
	if !strings.HasPrefix(got, "Error generating summary: ") {
		t.Errorf("Summarize error = %q", got)
	}
	if !strings.Contains(got, "connection refused") {
		t.Errorf("error cause missing: %q", got)
	}
}

func TestRefillKeepsTreeOnFailure(t *testing.T) {
	tree := schema.Template()
	if err := schema.Set(tree, schema.ParsePath("complainant.name"), "Asha"); err != nil {
		t.Fatal(err)
	}
	p := &stubProvider{err: errors.New("unavailable")}
	got := Refill(context.Background(), p, tree, "phone is 9876543210")
	if schema.GetString(got, schema.ParsePath("complainant.name")) != "Asha" {
		t.Error("failed refill must return the input tree")
	}
}

func TestScan(t *testing.T) {
	text := "On 15/01/2025 at 8:30 PM my chain worth Rs. 50,000 was snatched. Call me on 9876543210."
	res := Scan(text)
	if len(res.Dates) == 0 || len(res.Times) == 0 || len(res.Phones) == 0 {
		t.Errorf("scan missed candidates: %+v", res)
	}
	if len(res.Amounts) != 1 || res.Amounts[0].Value != 50000 {
		t.Errorf("amounts = %+v", res.Amounts)
	}
	found := false
	for _, o := range res.Offenses {
		if o == "theft" {
			found = true
		}
	}
	if !found {
		t.Errorf("offenses = %v, want theft", res.Offenses)
	}
	if res.Empty() {
		t.Error("Empty() on a populated result")
	}
	if !Scan("").Empty() {
		t.Error("Empty() false for empty text")
	}
}

func TestSessionLifecycle(t *testing.T) {
	p := &stubProvider{err: errors.New("offline")}
	s := NewSession(schema.Template())

	s.Extract(context.Background(), p, "my scooter was stolen")
	missing := s.Missing()
	if len(missing) != 7 {
		t.Fatalf("missing = %d fields after fallback extraction", len(missing))
	}
	if s.Complete() {
		t.Error("session complete with missing fields")
	}

	errs := s.Correct(map[string]string{
		"complainant.name":              "Rajesh Kumar",
		"complainant.address":           "45 MG Road, Bengaluru",
		"complainant.phone":             "9876543210",
		"incident.location.address":     "City Market",
		"incident.datetime.occurred_on": "15/01/2025",
		"offense_details.type":          "Theft",
		"offense_details.description":   "Scooter stolen from parking",
	})
	if len(errs) != 0 {
		t.Fatalf("corrections rejected: %v", errs)
	}
	if !s.Complete() {
		t.Errorf("still missing: %v", s.Missing())
	}
	if got := schema.GetString(s.Record, schema.ParsePath("incident.datetime.occurred_on")); got != "2025-01-15" {
		t.Errorf("date not normalized: %q", got)
	}
	if got := schema.GetString(s.Record, schema.ParsePath("offense_details.type")); got != "theft" {
		t.Errorf("offense type not folded: %q", got)
	}
}

func TestSessionCorrectRejectsBadValues(t *testing.T) {
	s := NewSession(schema.Template())
	errs := s.Correct(map[string]string{
		"incident.datetime.occurred_on": "sometime last week",
		"offense_details.type":          "jaywalking",
	})
	if len(errs) != 2 {
		t.Fatalf("errs = %v, want 2 rejections", errs)
	}
}

func TestFinalize(t *testing.T) {
	st, err := store.NewStore(store.Config{DBPath: ":memory:"})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	ctx := context.Background()

	var record schema.Tree
	if err := json.Unmarshal([]byte(filledRecordJSON(t)), &record); err != nil {
		t.Fatal(err)
	}

	rec, report, err := Finalize(ctx, st, record, "Chain snatching near City Market.", "Bengaluru")
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if !strings.HasPrefix(rec.FIRNumber, "BEN-") || !strings.HasSuffix(rec.FIRNumber, "-1000") {
		t.Errorf("fir_number = %q", rec.FIRNumber)
	}
	if got := schema.GetString(record, schema.ParsePath("complaint_metadata.fir_number")); got != rec.FIRNumber {
		t.Errorf("fir_number not stamped into record: %q", got)
	}
	if !strings.Contains(report, "FIR SUMMARY REPORT") || !strings.Contains(report, rec.FIRNumber) {
		t.Error("report missing banner or FIR number")
	}

	saved, err := st.GetRecordByFIRNumber(ctx, rec.FIRNumber)
	if err != nil || saved == nil {
		t.Fatalf("record not persisted: %v", err)
	}
	if saved.OffenseType != "theft" || saved.District != "Bengaluru" {
		t.Errorf("saved = %+v", saved)
	}

	// Incomplete records are rejected before any allocation.
	if _, _, err := Finalize(ctx, st, schema.Template(), "", "Bengaluru"); err == nil {
		t.Error("expected error for incomplete record")
	}
}

func TestFinalizeRejectsUnstampableRecord(t *testing.T) {
	st, err := store.NewStore(store.Config{DBPath: ":memory:"})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	ctx := context.Background()

	var record schema.Tree
	if err := json.Unmarshal([]byte(filledRecordJSON(t)), &record); err != nil {
		t.Fatal(err)
	}
	// A scalar in place of the metadata object leaves nowhere to
	// stamp the FIR number; finalizing must fail rather than persist
	// a row whose body lacks the number.
	record["complaint_metadata"] = "FIR/2025"

	if _, _, err := Finalize(ctx, st, record, "", "Bengaluru"); err == nil {
		t.Fatal("expected error when fir number cannot be stamped")
	}

	stats, err := st.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.RecordCount != 0 {
		t.Errorf("record_count = %d, want 0", stats.RecordCount)
	}
}

func TestSessionExportReport(t *testing.T) {
	s := NewSession(schema.Template())
	if _, err := s.ExportReport(); err == nil {
		t.Error("report before extraction should fail")
	}

	s.Record = schema.Template()
	if err := schema.Set(s.Record, schema.ParsePath("complainant.name"), "Asha"); err != nil {
		t.Fatal(err)
	}
	s.Summary = "Asha reported an incident."

	report, err := s.ExportReport()
	if err != nil {
		t.Fatalf("ExportReport: %v", err)
	}
	if !strings.Contains(report, "FIR SUMMARY REPORT") {
		t.Error("report missing banner")
	}
	if !strings.Contains(report, "Asha reported an incident.") {
		t.Error("report missing summary")
	}
	if strings.Contains(report, "null") {
		t.Error("report should prune null fields")
	}
}
