// Package extract provides deterministic, rule-based extraction of
// structured signals from raw complaint text:
// - Dates ("15/01/2025", "15 January 2025", "Jan 15, 2025")
// - Times ("20:30", "8 PM", "around 8:30")
// - Indian phone numbers (mobile, +91-prefixed, landline)
// - Monetary amounts ("Rs. 50,000", "2 lakh rupees")
// - Offense categories from a fixed keyword table
//
// Every extractor is a pure, total function over the input text: unmatched
// patterns yield an empty result, never an error. The semantic mapping of
// text to a full FIR record is an LLM concern (internal/fir); these
// extractors are the advisory pre-scan signal surfaced alongside it.
package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Match is a single raw pattern hit with its byte offset in the input.
type Match struct {
	Text string `json:"text"`
	Pos  int    `json:"pos"`
}

// Amount is a parsed monetary value with its currency code.
type Amount struct {
	Value    float64 `json:"amount"`
	Currency string  `json:"currency"`
	Pos      int     `json:"pos"`
}

// textPattern pairs a compiled regex with a name for table readability.
type textPattern struct {
	regex *regexp.Regexp
	name  string
}

// datePatterns covers the four literal date shapes seen in complaints.
// Calendar validity is not checked here; that is internal/validate's job.
var datePatterns = []*textPattern{
	// DD-MM-YYYY / DD/MM/YY (also matches MM-DD orderings; syntactic only)
	{regex: regexp.MustCompile(`\d{1,2}[-/]\d{1,2}[-/]\d{2,4}`), name: "numeric_dmy"},
	// YYYY-MM-DD / YYYY/MM/DD
	{regex: regexp.MustCompile(`\d{4}[-/]\d{1,2}[-/]\d{1,2}`), name: "numeric_ymd"},
	// 15 January 2025, 15 Jan 25
	{regex: regexp.MustCompile(`(?i)\d{1,2}(?:st|nd|rd|th)?\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{2,4}`), name: "day_month_year"},
	// January 15, 2025
	{regex: regexp.MustCompile(`(?i)(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{1,2},?\s+\d{2,4}`), name: "month_day_year"},
}

// timePatterns covers explicit and informal time mentions.
var timePatterns = []*textPattern{
	// 20:30, 8:30 PM
	{regex: regexp.MustCompile(`(?i)\d{1,2}:\d{2}(?:\s*(?:AM|PM))?`), name: "hh_mm"},
	// 8 PM
	{regex: regexp.MustCompile(`(?i)\d{1,2}\s*(?:AM|PM)`), name: "hour_meridiem"},
	// around 8, around 8:30
	{regex: regexp.MustCompile(`(?i)around\s+\d{1,2}(?::\d{2})?`), name: "around"},
}

// phonePatterns covers Indian phone number shapes.
var phonePatterns = []*textPattern{
	// Bare 10-digit mobile, leading digit 6-9
	{regex: regexp.MustCompile(`[6-9]\d{9}`), name: "mobile"},
	// +91 prefixed mobile
	{regex: regexp.MustCompile(`\+91[-\s]?[6-9]\d{9}`), name: "mobile_cc"},
	// Landline: trunk 0 + 2-4 digit area code + 6-8 digit local number
	{regex: regexp.MustCompile(`0\d{2,4}[-\s]?\d{6,8}`), name: "landline"},
}

// amountPatterns capture the numeric literal in group 1. Currency is fixed
// to INR for both shapes; an optional lakh unit may sit between the number
// and a trailing currency word.
var amountPatterns = []*textPattern{
	// Rs. 50,000 / ₹2.5 lakh
	{regex: regexp.MustCompile(`(?i)(?:Rs\.?|₹)\s*(\d+(?:,\d+)*(?:\.\d+)?)\s*(?:lakhs?|L)?`), name: "currency_prefix"},
	// 50,000 rupees / 2 lakh INR
	{regex: regexp.MustCompile(`(?i)(\d+(?:,\d+)*(?:\.\d+)?)\s*(?:lakhs?\s+)?(?:rupees|Rs\.?|INR)`), name: "currency_suffix"},
}

// lakhWindow is how far past a matched number the extractor looks for a
// "lakh" unit word before scaling the value.
const lakhWindow = 20

// lakh is the South Asian numeral unit: 1 lakh = 100,000.
const lakh = 100000

// Dates returns every date-shaped substring in order of match position.
func Dates(text string) []Match {
	return matchAll(text, datePatterns)
}

// Times returns every time-shaped substring in order of match position.
func Times(text string) []Match {
	return matchAll(text, timePatterns)
}

// PhoneNumbers returns every phone-shaped substring in order of match
// position. Candidates are raw matches; validate.Phone and
// validate.CleanPhone decide what is actually usable.
func PhoneNumbers(text string) []Match {
	return matchAll(text, phonePatterns)
}

// matchAll runs every pattern in the table and merges hits by position.
// Overlapping hits from different patterns are kept; candidates are
// deliberately not deduplicated.
func matchAll(text string, patterns []*textPattern) []Match {
	var out []Match
	for _, p := range patterns {
		for _, loc := range p.regex.FindAllStringIndex(text, -1) {
			out = append(out, Match{Text: text[loc[0]:loc[1]], Pos: loc[0]})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Pos < out[j].Pos })
	return out
}

// Amounts returns every monetary amount in order of match position. The
// numeric literal is stripped of separators and parsed; values followed
// within lakhWindow characters by a "lakh" unit are scaled by 100,000.
// Matches whose literal fails to parse after cleanup are dropped silently.
func Amounts(text string) []Amount {
	lower := strings.ToLower(text)

	var out []Amount
	for _, p := range amountPatterns {
		for _, loc := range p.regex.FindAllStringSubmatchIndex(text, -1) {
			numStart, numEnd := loc[2], loc[3]
			if numStart < 0 {
				continue
			}
			raw := text[numStart:numEnd]
			cleaned := strings.NewReplacer(",", "", " ", "").Replace(raw)
			value, err := strconv.ParseFloat(cleaned, 64)
			if err != nil {
				continue
			}

			windowEnd := numStart + lakhWindow
			if windowEnd > len(lower) {
				windowEnd = len(lower)
			}
			if strings.Contains(lower[numStart:windowEnd], "lakh") {
				value *= lakh
			}

			out = append(out, Amount{Value: value, Currency: "INR", Pos: loc[0]})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Pos < out[j].Pos })
	return out
}
