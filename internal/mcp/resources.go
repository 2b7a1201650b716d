package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Shiva-Prasad-Naroju/schema-based-summarizer/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerRecentResource(s *server.MCPServer, st store.Store) {
	resource := mcp.NewResource(
		"fir://records/recent",
		"Recent FIR Records",
		mcp.WithResourceDescription("The 20 most recently persisted FIR records with their summaries."),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(resource, func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		dbMu.Lock()
		defer dbMu.Unlock()

		if st == nil {
			return nil, fmt.Errorf("no database configured")
		}

		records, err := st.ListRecords(ctx, store.ListOpts{Limit: 20})
		if err != nil {
			return nil, fmt.Errorf("querying recent records: %w", err)
		}

		payload := map[string]any{
			"records": recordsPayload(records),
			"count":   len(records),
		}
		data, _ := json.MarshalIndent(payload, "", "  ")
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: req.Params.URI, MIMEType: "application/json", Text: string(data)},
		}, nil
	})
}
