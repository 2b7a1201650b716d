package fir

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Shiva-Prasad-Naroju/schema-based-summarizer/internal/format"
	"github.com/Shiva-Prasad-Naroju/schema-based-summarizer/internal/llm"
	"github.com/Shiva-Prasad-Naroju/schema-based-summarizer/internal/reconcile"
	"github.com/Shiva-Prasad-Naroju/schema-based-summarizer/internal/schema"
	"github.com/Shiva-Prasad-Naroju/schema-based-summarizer/internal/validate"
)

// Session holds the working state for one complaint as it moves from
// raw text through extraction, correction, and summary. Callers own
// the session; the pipeline functions themselves stay stateless.
type Session struct {
	Template schema.Tree
	Text     string
	Record   schema.Tree
	Summary  string
}

func NewSession(template schema.Tree) *Session {
	return &Session{Template: template}
}

// Extract runs LLM extraction over the complaint text and stores the
// resulting record. A previous record and summary are discarded.
func (s *Session) Extract(ctx context.Context, provider llm.Provider, complaintText string) schema.Tree {
	s.Text = complaintText
	s.Record = ExtractRecord(ctx, provider, complaintText, s.Template)
	s.Summary = ""
	return s.Record
}

// Missing reports which mandatory fields are still unfilled.
func (s *Session) Missing() []validate.Missing {
	if s.Record == nil {
		return validate.MissingFields(s.Template, schema.MandatoryFields())
	}
	return validate.MissingFields(s.Record, schema.MandatoryFields())
}

// Correct coerces and applies user-supplied values for mandatory
// fields, keyed by dotted path. Unknown paths and values that fail
// coercion are reported back, valid ones are applied.
func (s *Session) Correct(corrections map[string]string) []error {
	if s.Record == nil {
		s.Record = schema.Clone(s.Template)
	}
	byPath := make(map[string]schema.MandatoryField, len(schema.MandatoryFields()))
	for _, f := range schema.MandatoryFields() {
		byPath[f.Path.String()] = f
	}

	var errs []error
	coerced := make(map[string]any, len(corrections))
	for path, raw := range corrections {
		field, known := byPath[path]
		if !known {
			// Non-mandatory paths pass through untyped.
			coerced[path] = strings.TrimSpace(raw)
			continue
		}
		v, ok := reconcile.Coerce(field, raw)
		if !ok {
			errs = append(errs, fmt.Errorf("field %s: cannot interpret %q", path, raw))
			continue
		}
		coerced[path] = v
	}
	reconcile.Apply(s.Record, coerced)
	return errs
}

// Summarize generates and caches the officer-facing summary.
func (s *Session) Summarize(ctx context.Context, provider llm.Provider) string {
	if s.Record == nil {
		s.Summary = "Error generating summary: no record extracted"
		return s.Summary
	}
	s.Summary = Summarize(ctx, provider, s.Record)
	return s.Summary
}

// ExportJSON renders the record as pretty JSON, optionally pruned of
// empty values.
func (s *Session) ExportJSON(pruneNulls bool) (string, error) {
	if s.Record == nil {
		return "", fmt.Errorf("no record extracted")
	}
	return format.ToJSON(s.Record, pruneNulls)
}

// ExportReport renders the full text report: summary plus pruned
// structured data.
func (s *Session) ExportReport() (string, error) {
	body, err := s.ExportJSON(true)
	if err != nil {
		return "", err
	}
	summary := s.Summary
	if summary == "" {
		summary = "(no summary generated)"
	}
	return format.Report(summary, body, time.Now()), nil
}

// Complete reports whether every mandatory field is filled.
func (s *Session) Complete() bool {
	return s.Record != nil && len(s.Missing()) == 0
}
