package fir

import (
	"github.com/Shiva-Prasad-Naroju/schema-based-summarizer/internal/extract"
)

// ScanResult bundles deterministic extractor candidates for one
// complaint text. The values are advisory signal shown alongside LLM
// output, not authoritative field assignments.
type ScanResult struct {
	Dates    []extract.Match  `json:"dates"`
	Times    []extract.Match  `json:"times"`
	Phones   []extract.Match  `json:"phones"`
	Amounts  []extract.Amount `json:"amounts"`
	Offenses []string         `json:"offenses"`
}

// Scan runs every rule-based extractor over the text.
func Scan(text string) ScanResult {
	return ScanResult{
		Dates:    extract.Dates(text),
		Times:    extract.Times(text),
		Phones:   extract.PhoneNumbers(text),
		Amounts:  extract.Amounts(text),
		Offenses: extract.OffenseKeywords(text),
	}
}

// Empty reports whether the scan produced no candidates at all.
func (s ScanResult) Empty() bool {
	return len(s.Dates) == 0 && len(s.Times) == 0 && len(s.Phones) == 0 &&
		len(s.Amounts) == 0 && len(s.Offenses) == 0
}
