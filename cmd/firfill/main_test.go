package main

import (
	"os"
	"path/filepath"
	"testing"
)

// ==================== splitCommon ====================

func TestSplitCommon(t *testing.T) {
	c, rest, err := splitCommon([]string{"--db", "/tmp/test.db", "--district", "Bengaluru", "complaint.txt", "--save"})
	if err != nil {
		t.Fatalf("splitCommon: %v", err)
	}
	if c.db != "/tmp/test.db" || c.district != "Bengaluru" {
		t.Errorf("common = %+v", c)
	}
	if len(rest) != 2 || rest[0] != "complaint.txt" || rest[1] != "--save" {
		t.Errorf("rest = %v", rest)
	}
}

func TestSplitCommonMissingValue(t *testing.T) {
	if _, _, err := splitCommon([]string{"--db"}); err == nil {
		t.Error("expected error for --db without value")
	}
}

func TestSplitCommonNoFlags(t *testing.T) {
	c, rest, err := splitCommon([]string{"scan", "-"})
	if err != nil {
		t.Fatalf("splitCommon: %v", err)
	}
	if c.db != "" || c.llm != "" {
		t.Errorf("common should be empty, got %+v", c)
	}
	if len(rest) != 2 {
		t.Errorf("rest = %v", rest)
	}
}

// ==================== readComplaint ====================

func TestReadComplaintFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "complaint.txt")
	if err := os.WriteFile(path, []byte("  my bike was stolen \n"), 0o600); err != nil {
		t.Fatal(err)
	}
	text, err := readComplaint(path)
	if err != nil {
		t.Fatalf("readComplaint: %v", err)
	}
	if text != "my bike was stolen" {
		t.Errorf("text = %q", text)
	}
}

func TestReadComplaintEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, []byte("   \n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := readComplaint(path); err == nil {
		t.Error("expected error for empty complaint")
	}
}

func TestReadComplaintMissingFile(t *testing.T) {
	if _, err := readComplaint(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

// ==================== process (no LLM, in-temp db) ====================

func TestRunProcessNoLLM(t *testing.T) {
	tmp := t.TempDir()
	complaint := filepath.Join(tmp, "complaint.txt")
	body := "I am Rajesh Kumar from 45 MG Road. On 15/01/2025 my gold chain was snatched near City Market. My number is 9876543210."
	if err := os.WriteFile(complaint, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("FIRFILL_DB", "")
	t.Setenv("FIRFILL_LLM", "")
	t.Setenv("FIRFILL_SCHEMA", "")
	t.Setenv("FIRFILL_DISTRICT", "")

	err := runProcess([]string{
		complaint,
		"--no-llm",
		"--json",
		"--config", filepath.Join(tmp, "nope.yaml"),
		"--set", "complainant.name=Rajesh Kumar",
		"--set", "complainant.address=45 MG Road, Bengaluru",
		"--set", "complainant.phone=9876543210",
		"--set", "incident.location.address=City Market",
		"--set", "incident.datetime.occurred_on=2025-01-15",
		"--set", "offense_details.type=theft",
		"--set", "offense_details.description=Gold chain snatched",
	})
	if err != nil {
		t.Fatalf("runProcess: %v", err)
	}
}

func TestRunProcessSaveRejectsIncomplete(t *testing.T) {
	tmp := t.TempDir()
	complaint := filepath.Join(tmp, "complaint.txt")
	if err := os.WriteFile(complaint, []byte("something happened"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("FIRFILL_DB", "")
	t.Setenv("FIRFILL_LLM", "")
	t.Setenv("FIRFILL_SCHEMA", "")
	t.Setenv("FIRFILL_DISTRICT", "")

	err := runProcess([]string{
		complaint,
		"--no-llm",
		"--save",
		"--config", filepath.Join(tmp, "nope.yaml"),
		"--db", filepath.Join(tmp, "firfill.db"),
	})
	if err == nil {
		t.Fatal("expected error saving an incomplete record")
	}
}

func TestRunProcessBadSetFlag(t *testing.T) {
	if err := runProcess([]string{"file.txt", "--set", "no-equals-sign"}); err == nil {
		t.Error("expected error for malformed --set")
	}
}

func TestRunProcessRequiresInput(t *testing.T) {
	if err := runProcess([]string{"--no-llm"}); err == nil {
		t.Error("expected usage error without input file")
	}
}
