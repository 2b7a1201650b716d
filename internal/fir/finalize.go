package fir

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Shiva-Prasad-Naroju/schema-based-summarizer/internal/format"
	"github.com/Shiva-Prasad-Naroju/schema-based-summarizer/internal/schema"
	"github.com/Shiva-Prasad-Naroju/schema-based-summarizer/internal/store"
	"github.com/Shiva-Prasad-Naroju/schema-based-summarizer/internal/validate"
)

// Finalize allocates a FIR number for a completed record, stamps it
// in, persists the record, and renders the report. The record must
// have no missing mandatory fields.
func Finalize(ctx context.Context, st store.Store, record schema.Tree, summary, district string) (*store.Record, string, error) {
	if st == nil {
		return nil, "", fmt.Errorf("no store configured")
	}
	if missing := validate.MissingFields(record, schema.MandatoryFields()); len(missing) > 0 {
		return nil, "", fmt.Errorf("record has %d missing mandatory fields", len(missing))
	}

	now := time.Now()
	seq, err := st.NextSequence(ctx, district, now.Year())
	if err != nil {
		return nil, "", fmt.Errorf("allocating sequence: %w", err)
	}
	firNumber := format.FIRNumber(district, now.Year(), seq)

	if err := schema.Set(record, schema.ParsePath("complaint_metadata.fir_number"), firNumber); err != nil {
		return nil, "", fmt.Errorf("stamping fir number: %w", err)
	}
	if schema.GetString(record, schema.ParsePath("complaint_metadata.district")) == "" {
		if err := schema.Set(record, schema.ParsePath("complaint_metadata.district"), district); err != nil {
			return nil, "", fmt.Errorf("stamping district: %w", err)
		}
	}

	body, err := json.Marshal(record)
	if err != nil {
		return nil, "", fmt.Errorf("encoding record: %w", err)
	}

	rec := &store.Record{
		FIRNumber:   firNumber,
		District:    district,
		OffenseType: schema.GetString(record, schema.ParsePath("offense_details.type")),
		Summary:     summary,
		RecordJSON:  string(body),
	}
	if _, err := st.SaveRecord(ctx, rec); err != nil {
		return nil, "", fmt.Errorf("saving record: %w", err)
	}

	pretty, err := format.ToJSON(record, true)
	if err != nil {
		return nil, "", fmt.Errorf("formatting record: %w", err)
	}
	if summary == "" {
		summary = "(no summary generated)"
	}
	return rec, format.Report(summary, pretty, now), nil
}
