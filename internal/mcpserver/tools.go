// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mcpserver

import (
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/pdiddy/arxiv-mcp/internal/search"
	"github.com/pdiddy/arxiv-mcp/pkg/types"
)

const searchToolName = "search_papers"

// SearchInput is the argument object of the search_papers tool.
type SearchInput struct {
	Query        string   `json:"query"`
	MaxResults   *int     `json:"max_results,omitempty"`
	DateFrom     string   `json:"date_from,omitempty"`
	DateTo       string   `json:"date_to,omitempty"`
	Categories   []string `json:"categories,omitempty"`
	SortByMethod string   `json:"sort_by_method,omitempty"`
}

func (in SearchInput) request() search.Request {
	return search.Request{
		Query:      in.Query,
		MaxResults: in.MaxResults,
		DateFrom:   in.DateFrom,
		DateTo:     in.DateTo,
		Categories: in.Categories,
		SortBy:     in.SortByMethod,
	}
}

// searchInputSchema is written by hand so sort_by_method carries its enum.
func searchInputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"query": {
				Type:        "string",
				Description: `search terms; plain words are matched against all fields, or use field prefixes such as ti:, au:, abs:, cat:`,
			},
			"max_results": {
				Type:        "integer",
				Description: "maximum number of papers to return (default 10, capped by server configuration)",
			},
			"date_from": {
				Type:        "string",
				Description: "earliest submission date, e.g. 2023-01-01",
			},
			"date_to": {
				Type:        "string",
				Description: "latest submission date, e.g. 2024-06-30 (default: now)",
			},
			"categories": {
				Type:        "array",
				Items:       &jsonschema.Schema{Type: "string"},
				Description: "arXiv category codes such as cs.AI or cs.LG; a paper in any of them matches",
			},
			"sort_by_method": {
				Type:        "string",
				Enum:        []any{"submitted", "relevance"},
				Description: "result ordering (default relevance)",
			},
		},
		Required: []string{"query"},
	}
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        searchToolName,
		Description: "Search for papers on arXiv with advanced filtering",
		InputSchema: searchInputSchema(),
	}, s.handleSearch)
}

// handleSearch answers every call with a single text block: the JSON
// envelope on success, or a JSON ErrorPayload flagged IsError. Only context
// cancellation is handed back to the protocol layer as an error.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (result *mcp.CallToolResult, _ any, err error) {
	ctx = s.callContext(ctx, searchToolName)
	log := zerolog.Ctx(ctx)

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("search handler panicked")
			result = errorResult(types.ErrorPayload{Error: fmt.Sprint(r), Type: types.ErrorInternal})
			err = nil
		}
	}()

	resp, err := s.searcher.Search(ctx, input.request())
	if err != nil {
		if search.IsCancellation(err) {
			return nil, nil, err
		}
		payload := search.Payload(err)
		log.Warn().Err(err).Str("error_type", string(payload.Type)).Msg("search failed")
		return errorResult(payload), nil, nil
	}

	text, err := search.MarshalJSON(resp)
	if err != nil {
		return errorResult(search.Payload(err)), nil, nil
	}
	return textResult(text), nil, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(p types.ErrorPayload) *mcp.CallToolResult {
	text, err := search.MarshalJSON(p)
	if err != nil {
		text = fmt.Sprintf("Error: %s", p.Error)
	}
	res := textResult(text)
	res.IsError = true
	return res
}
