// Package fir orchestrates the complaint intake pipeline: LLM-backed
// extraction into the FIR schema, deterministic pre-scan signals,
// correction handling, and summary generation.
package fir

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/Shiva-Prasad-Naroju/schema-based-summarizer/internal/llm"
	"github.com/Shiva-Prasad-Naroju/schema-based-summarizer/internal/schema"
	"github.com/Shiva-Prasad-Naroju/schema-based-summarizer/internal/validate"
)

var pathComplainantPhone = schema.ParsePath("complainant.phone")
var pathOriginalText = schema.ParsePath("original_text")
var pathSubmissionTime = schema.ParsePath("complaint_metadata.submission_datetime")

// ExtractRecord asks the provider to fill the FIR template from raw
// complaint text. It never fails: on any provider, parse, or shape
// error it falls back to a clone of the template carrying the original
// text and a submission timestamp, so downstream validation can drive
// manual completion instead.
func ExtractRecord(ctx context.Context, provider llm.Provider, complaintText string, template schema.Tree) schema.Tree {
	fallback := func() schema.Tree {
		tree := schema.Clone(template)
		_ = schema.Set(tree, pathOriginalText, complaintText)
		_ = schema.Set(tree, pathSubmissionTime, time.Now().Format(time.RFC3339))
		return tree
	}

	if provider == nil {
		return fallback()
	}

	resp, err := provider.Complete(ctx, extractionPrompt(complaintText, template), llm.CompletionOpts{
		System:      extractionSystem,
		Temperature: 0.1,
		MaxTokens:   2000,
		Format:      "json",
	})
	if err != nil {
		return fallback()
	}

	tree, err := parseRecordJSON(resp)
	if err != nil {
		return fallback()
	}

	normalizeRecord(tree, complaintText)
	return tree
}

// Summarize renders filled FIR data as a short officer-facing
// paragraph. Provider failures surface as an error string rather than
// an error value, matching how the summary is displayed to operators.
func Summarize(ctx context.Context, provider llm.Provider, tree schema.Tree) string {
	if provider == nil {
		return "Error generating summary: no LLM provider configured"
	}
	pretty, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return "Error generating summary: " + err.Error()
	}
	resp, err := provider.Complete(ctx, summaryPrompt(string(pretty)), llm.CompletionOpts{
		System:      summarySystem,
		Temperature: 0.3,
		MaxTokens:   500,
	})
	if err != nil {
		return "Error generating summary: " + err.Error()
	}
	return strings.TrimSpace(resp)
}

// Refill asks the provider to merge free-form user-supplied details
// into a partially filled record. On any failure the input tree is
// returned unchanged so corrections are never lost.
func Refill(ctx context.Context, provider llm.Provider, tree schema.Tree, missingInfo string) schema.Tree {
	if provider == nil || strings.TrimSpace(missingInfo) == "" {
		return tree
	}
	pretty, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return tree
	}
	resp, err := provider.Complete(ctx, refillPrompt(string(pretty), missingInfo), llm.CompletionOpts{
		System:      extractionSystem,
		Temperature: 0.1,
		MaxTokens:   2000,
		Format:      "json",
	})
	if err != nil {
		return tree
	}
	updated, err := parseRecordJSON(resp)
	if err != nil {
		return tree
	}
	normalizeRecord(updated, "")
	return updated
}

// parseRecordJSON unmarshals a model response into a tree, tolerating
// markdown code fences around the JSON body.
func parseRecordJSON(resp string) (schema.Tree, error) {
	body := stripFences(resp)
	var tree schema.Tree
	if err := json.Unmarshal([]byte(body), &tree); err != nil {
		return nil, err
	}
	return tree, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	s = strings.TrimPrefix(strings.TrimSpace(s), "json")
	return strings.TrimSpace(s)
}

// normalizeRecord fixes up model output in place: phone digits only,
// original_text preserved, submission timestamp stamped when absent.
func normalizeRecord(tree schema.Tree, complaintText string) {
	if phone := schema.GetString(tree, pathComplainantPhone); phone != "" {
		if cleaned := validate.CleanPhone(phone); cleaned != phone {
			_ = schema.Set(tree, pathComplainantPhone, cleaned)
		}
	}
	if complaintText != "" && schema.GetString(tree, pathOriginalText) == "" {
		_ = schema.Set(tree, pathOriginalText, complaintText)
	}
	if schema.GetString(tree, pathSubmissionTime) == "" {
		_ = schema.Set(tree, pathSubmissionTime, time.Now().Format(time.RFC3339))
	}
}
