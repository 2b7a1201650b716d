package store

import (
	"context"
	"testing"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	s, err := NewStore(Config{DBPath: ":memory:"})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecord(firNumber string) *Record {
	return &Record{
		FIRNumber:   firNumber,
		District:    "Bengaluru",
		OffenseType: "theft",
		Summary:     "Chain snatching near City Market.",
		RecordJSON:  `{"complainant":{"name":"Rajesh Kumar"}}`,
	}
}

func TestSaveAndGetRecord(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.SaveRecord(ctx, sampleRecord("BEN-2025-1000"))
	if err != nil {
		t.Fatalf("SaveRecord: %v", err)
	}
	if id <= 0 {
		t.Fatalf("id = %d", id)
	}

	got, err := s.GetRecord(ctx, id)
	if err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
	if got == nil || got.FIRNumber != "BEN-2025-1000" || got.District != "Bengaluru" {
		t.Errorf("GetRecord = %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("created_at not set")
	}

	byNum, err := s.GetRecordByFIRNumber(ctx, "BEN-2025-1000")
	if err != nil {
		t.Fatalf("GetRecordByFIRNumber: %v", err)
	}
	if byNum == nil || byNum.ID != id {
		t.Errorf("GetRecordByFIRNumber = %+v", byNum)
	}
}

func TestGetRecordMissing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	got, err := s.GetRecord(ctx, 42)
	if err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing record, got %+v", got)
	}
}

func TestSaveRecordValidation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.SaveRecord(ctx, &Record{RecordJSON: "{}"}); err == nil {
		t.Error("expected error for missing FIR number")
	}
	if _, err := s.SaveRecord(ctx, &Record{FIRNumber: "X-2025-1000"}); err == nil {
		t.Error("expected error for missing JSON body")
	}
}

func TestSaveRecordDuplicateFIRNumber(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.SaveRecord(ctx, sampleRecord("BEN-2025-1000")); err != nil {
		t.Fatalf("SaveRecord: %v", err)
	}
	if _, err := s.SaveRecord(ctx, sampleRecord("BEN-2025-1000")); err == nil {
		t.Error("expected unique constraint error for duplicate FIR number")
	}
}

func TestListRecordsFilterAndPagination(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i, r := range []*Record{
		{FIRNumber: "BEN-2025-1000", District: "Bengaluru", OffenseType: "theft", RecordJSON: "{}"},
		{FIRNumber: "BEN-2025-1001", District: "Bengaluru", OffenseType: "fraud", RecordJSON: "{}"},
		{FIRNumber: "MYS-2025-1000", District: "Mysuru", OffenseType: "theft", RecordJSON: "{}"},
	} {
		if _, err := s.SaveRecord(ctx, r); err != nil {
			t.Fatalf("SaveRecord %d: %v", i, err)
		}
	}

	all, err := s.ListRecords(ctx, ListOpts{})
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len(all) = %d", len(all))
	}

	ben, err := s.ListRecords(ctx, ListOpts{District: "Bengaluru"})
	if err != nil {
		t.Fatalf("ListRecords district: %v", err)
	}
	if len(ben) != 2 {
		t.Errorf("district filter = %d records", len(ben))
	}

	theft, err := s.ListRecords(ctx, ListOpts{OffenseType: "theft"})
	if err != nil {
		t.Fatalf("ListRecords offense: %v", err)
	}
	if len(theft) != 2 {
		t.Errorf("offense filter = %d records", len(theft))
	}

	page, err := s.ListRecords(ctx, ListOpts{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("ListRecords page: %v", err)
	}
	if len(page) != 1 {
		t.Errorf("page = %d records", len(page))
	}
}

func TestNextSequence(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.NextSequence(ctx, "Bengaluru", 2025)
	if err != nil {
		t.Fatalf("NextSequence: %v", err)
	}
	if first != 1000 {
		t.Errorf("first allocation = %d, want 1000", first)
	}

	second, err := s.NextSequence(ctx, "Bengaluru", 2025)
	if err != nil {
		t.Fatalf("NextSequence: %v", err)
	}
	if second != 1001 {
		t.Errorf("second allocation = %d, want 1001", second)
	}

	// Independent counters per district and per year.
	other, err := s.NextSequence(ctx, "Mysuru", 2025)
	if err != nil {
		t.Fatalf("NextSequence: %v", err)
	}
	if other != 1000 {
		t.Errorf("other district = %d, want 1000", other)
	}
	nextYear, err := s.NextSequence(ctx, "Bengaluru", 2026)
	if err != nil {
		t.Fatalf("NextSequence: %v", err)
	}
	if nextYear != 1000 {
		t.Errorf("next year = %d, want 1000", nextYear)
	}
}

func TestNextSequenceInvalidYear(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.NextSequence(context.Background(), "Bengaluru", 0); err == nil {
		t.Error("expected error for year 0")
	}
}

func TestStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, r := range []*Record{
		{FIRNumber: "A-2025-1000", OffenseType: "theft", RecordJSON: "{}"},
		{FIRNumber: "A-2025-1001", OffenseType: "theft", RecordJSON: "{}"},
		{FIRNumber: "A-2025-1002", OffenseType: "fraud", RecordJSON: "{}"},
	} {
		if _, err := s.SaveRecord(ctx, r); err != nil {
			t.Fatalf("SaveRecord: %v", err)
		}
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.RecordCount != 3 {
		t.Errorf("RecordCount = %d", stats.RecordCount)
	}
	if stats.ByOffenseType["theft"] != 2 || stats.ByOffenseType["fraud"] != 1 {
		t.Errorf("ByOffenseType = %v", stats.ByOffenseType)
	}
}
