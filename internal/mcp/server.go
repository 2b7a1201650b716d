// Package mcp provides a Model Context Protocol server for the FIR
// intake pipeline.
//
// It exposes complaint processing (scan, extract, apply corrections,
// export) and the record archive (list, stats) as MCP tools, plus
// recent records as an MCP resource. Supports stdio transport.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Shiva-Prasad-Naroju/schema-based-summarizer/internal/fir"
	"github.com/Shiva-Prasad-Naroju/schema-based-summarizer/internal/llm"
	"github.com/Shiva-Prasad-Naroju/schema-based-summarizer/internal/reconcile"
	"github.com/Shiva-Prasad-Naroju/schema-based-summarizer/internal/schema"
	"github.com/Shiva-Prasad-Naroju/schema-based-summarizer/internal/store"
	"github.com/Shiva-Prasad-Naroju/schema-based-summarizer/internal/validate"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ServerConfig holds configuration for the MCP server.
type ServerConfig struct {
	Store    store.Store
	Provider llm.Provider // optional; extraction degrades to fallback without it
	Template schema.Tree  // optional; built-in template when nil
	District string       // default district for FIR number allocation
	Version  string
}

// dbMu serializes all MCP tool calls that touch the database.
// The mcp-go library dispatches handlers concurrently via goroutines.
// SQLite (even with WAL) supports only one writer at a time, and a
// global mutex ensures exports complete before listings see their data.
var dbMu sync.Mutex

// NewServer creates a configured MCP server with all FIR tools and
// resources.
func NewServer(cfg ServerConfig) *server.MCPServer {
	ver := cfg.Version
	if ver == "" {
		ver = "dev"
	}
	if cfg.Template == nil {
		cfg.Template = schema.Template()
	}
	if cfg.District == "" {
		cfg.District = "Unknown"
	}

	s := server.NewMCPServer(
		"FIRFill",
		ver,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(true, false),
	)

	registerScanTool(s)
	registerExtractTool(s, cfg.Provider, cfg.Template)
	registerApplyTool(s)
	registerExportTool(s, cfg.Store, cfg.District)
	registerRecordsTool(s, cfg.Store)
	registerStatsTool(s, cfg.Store)

	registerRecentResource(s, cfg.Store)

	return s
}

// --- Tools ---

func registerScanTool(s *server.MCPServer) {
	tool := mcp.NewTool("fir_scan",
		mcp.WithDescription("Run rule-based extractors over complaint text. Returns candidate dates, times, phone numbers, monetary amounts, and matched offense categories with text positions."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Raw complaint text to scan"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := req.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError("text is required"), nil
		}

		result := fir.Scan(text)
		data, _ := json.MarshalIndent(result, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerExtractTool(s *server.MCPServer, provider llm.Provider, template schema.Tree) {
	tool := mcp.NewTool("fir_extract",
		mcp.WithDescription("Extract a structured FIR record from complaint text using the configured LLM. Returns the filled record plus a list of mandatory fields still missing. Without an LLM the record carries only the original text and timestamp."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Raw complaint text"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		text, err := req.RequireString("text")
		if err != nil {
			return mcp.NewToolResultError("text is required"), nil
		}
		if strings.TrimSpace(text) == "" {
			return mcp.NewToolResultError("complaint text cannot be empty"), nil
		}

		record := fir.ExtractRecord(ctx, provider, text, template)
		missing := validate.MissingFields(record, schema.MandatoryFields())

		payload := map[string]any{
			"record":  record,
			"missing": missingPayload(missing),
		}
		data, _ := json.MarshalIndent(payload, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerApplyTool(s *server.MCPServer) {
	tool := mcp.NewTool("fir_apply",
		mcp.WithDescription("Apply field corrections to an FIR record. Corrections are keyed by dotted path (e.g. complainant.phone). Date fields are normalized to YYYY-MM-DD and offense types validated. Returns the updated record and the remaining missing fields."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("record",
			mcp.Required(),
			mcp.Description("Current FIR record as a JSON object"),
		),
		mcp.WithString("corrections",
			mcp.Required(),
			mcp.Description("JSON object mapping dotted field paths to string values"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		recordStr, err := req.RequireString("record")
		if err != nil {
			return mcp.NewToolResultError("record is required"), nil
		}
		correctionsStr, err := req.RequireString("corrections")
		if err != nil {
			return mcp.NewToolResultError("corrections is required"), nil
		}

		var record schema.Tree
		if err := json.Unmarshal([]byte(recordStr), &record); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid record JSON: %v", err)), nil
		}
		var corrections map[string]string
		if err := json.Unmarshal([]byte(correctionsStr), &corrections); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid corrections JSON: %v", err)), nil
		}

		rejected := applyCorrections(record, corrections)
		missing := validate.MissingFields(record, schema.MandatoryFields())

		payload := map[string]any{
			"record":  record,
			"missing": missingPayload(missing),
		}
		if len(rejected) > 0 {
			payload["rejected"] = rejected
		}
		data, _ := json.MarshalIndent(payload, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerExportTool(s *server.MCPServer, st store.Store, district string) {
	tool := mcp.NewTool("fir_export",
		mcp.WithDescription("Finalize an FIR record: allocate a FIR number, persist it, and return the formatted report. Fails if mandatory fields are missing."),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("record",
			mcp.Required(),
			mcp.Description("Completed FIR record as a JSON object"),
		),
		mcp.WithString("summary",
			mcp.Description("Officer-facing summary paragraph to store with the record"),
		),
		mcp.WithString("district",
			mcp.Description("District for FIR number allocation (defaults to server configuration)"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		if st == nil {
			return mcp.NewToolResultError("no database configured"), nil
		}

		recordStr, err := req.RequireString("record")
		if err != nil {
			return mcp.NewToolResultError("record is required"), nil
		}
		var record schema.Tree
		if err := json.Unmarshal([]byte(recordStr), &record); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid record JSON: %v", err)), nil
		}

		if missing := validate.MissingFields(record, schema.MandatoryFields()); len(missing) > 0 {
			labels := make([]string, 0, len(missing))
			for _, m := range missing {
				labels = append(labels, m.Label())
			}
			return mcp.NewToolResultError("mandatory fields missing: " + strings.Join(labels, ", ")), nil
		}

		summary := ""
		if v, err := req.RequireString("summary"); err == nil {
			summary = v
		}
		d := district
		if v, err := req.RequireString("district"); err == nil && strings.TrimSpace(v) != "" {
			d = v
		}

		rec, report, err := fir.Finalize(ctx, st, record, summary, d)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("export error: %v", err)), nil
		}

		payload := map[string]any{
			"id":         rec.ID,
			"fir_number": rec.FIRNumber,
			"report":     report,
		}
		data, _ := json.MarshalIndent(payload, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerRecordsTool(s *server.MCPServer, st store.Store) {
	tool := mcp.NewTool("fir_records",
		mcp.WithDescription("List persisted FIR records, newest first. Optionally filter by district or offense type."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("district",
			mcp.Description("Filter by district"),
		),
		mcp.WithString("offense_type",
			mcp.Description("Filter by offense type (e.g. theft, fraud)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of records (default: 20, max: 100)"),
		),
		mcp.WithNumber("offset",
			mcp.Description("Number of records to skip"),
		),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		if st == nil {
			return mcp.NewToolResultError("no database configured"), nil
		}

		opts := store.ListOpts{Limit: 20}
		if v, err := req.RequireString("district"); err == nil && v != "" {
			opts.District = v
		}
		if v, err := req.RequireString("offense_type"); err == nil && v != "" {
			opts.OffenseType = v
		}
		if v, err := req.RequireFloat("limit"); err == nil {
			limit := int(v)
			if limit > 100 {
				limit = 100
			}
			if limit > 0 {
				opts.Limit = limit
			}
		}
		if v, err := req.RequireFloat("offset"); err == nil && int(v) > 0 {
			opts.Offset = int(v)
		}

		records, err := st.ListRecords(ctx, opts)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list error: %v", err)), nil
		}

		data, _ := json.MarshalIndent(recordsPayload(records), "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

func registerStatsTool(s *server.MCPServer, st store.Store) {
	tool := mcp.NewTool("fir_stats",
		mcp.WithDescription("Show archive statistics: record count, breakdown by offense type, database size."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		if st == nil {
			return mcp.NewToolResultError("no database configured"), nil
		}

		stats, err := st.Stats(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("stats error: %v", err)), nil
		}

		payload := map[string]any{
			"record_count":    stats.RecordCount,
			"by_offense_type": stats.ByOffenseType,
			"db_size_bytes":   stats.DBSizeBytes,
		}
		data, _ := json.MarshalIndent(payload, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	})
}

// --- Shared helpers ---

// applyCorrections coerces and applies path-keyed string corrections,
// returning messages for values that could not be interpreted.
func applyCorrections(record schema.Tree, corrections map[string]string) []string {
	byPath := map[string]schema.MandatoryField{}
	for _, f := range schema.MandatoryFields() {
		byPath[f.Path.String()] = f
	}

	var rejected []string
	coerced := make(map[string]any, len(corrections))
	for path, raw := range corrections {
		field, known := byPath[path]
		if !known {
			coerced[path] = strings.TrimSpace(raw)
			continue
		}
		v, ok := reconcile.Coerce(field, raw)
		if !ok {
			rejected = append(rejected, fmt.Sprintf("%s: cannot interpret %q", path, raw))
			continue
		}
		coerced[path] = v
	}
	reconcile.Apply(record, coerced)
	return rejected
}

func missingPayload(missing []validate.Missing) []map[string]string {
	out := make([]map[string]string, 0, len(missing))
	for _, m := range missing {
		out = append(out, map[string]string{"path": m.Path(), "label": m.Label()})
	}
	return out
}

func recordsPayload(records []*store.Record) []map[string]any {
	out := make([]map[string]any, 0, len(records))
	for _, r := range records {
		out = append(out, map[string]any{
			"id":           r.ID,
			"fir_number":   r.FIRNumber,
			"district":     r.District,
			"offense_type": r.OffenseType,
			"summary":      r.Summary,
			"created_at":   r.CreatedAt.Format(time.RFC3339),
		})
	}
	return out
}
