// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mcpserver exposes the arXiv search service as an MCP tool server.
package mcpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/pdiddy/arxiv-mcp/internal/search"
	"github.com/pdiddy/arxiv-mcp/pkg/types"
)

// ErrMissingSearcher is returned when NewServer gets a nil Searcher.
var ErrMissingSearcher = errors.New("mcpserver: search service is required")

// Searcher runs one search. *search.Service implements it.
type Searcher interface {
	Search(ctx context.Context, req search.Request) (types.SearchResponse, error)
}

// Server is the arXiv MCP server.
type Server struct {
	searcher Searcher
	server   *mcp.Server
	log      zerolog.Logger
}

// NewServer registers the search_papers tool on a new MCP server.
func NewServer(searcher Searcher, version string, log zerolog.Logger) (*Server, error) {
	if searcher == nil {
		return nil, ErrMissingSearcher
	}

	impl := &mcp.Implementation{
		Name:    "arxiv-mcp",
		Version: version,
	}

	s := &Server{
		searcher: searcher,
		server:   mcp.NewServer(impl, nil),
		log:      log,
	}
	s.registerTools()

	return s, nil
}

// Run serves MCP over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.log.Info().Str("transport", "stdio").Msg("MCP server starting")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves MCP over streamable HTTP on addr until ctx is cancelled.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()

	s.log.Info().Str("transport", "http").Str("addr", addr).Msg("MCP server starting")
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// callContext attaches a per-call logger carrying a fresh request id.
func (s *Server) callContext(ctx context.Context, tool string) context.Context {
	log := s.log.With().
		Str("request_id", uuid.NewString()).
		Str("tool", tool).
		Logger()
	return log.WithContext(ctx)
}
