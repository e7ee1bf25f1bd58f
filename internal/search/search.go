// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search compiles structured search parameters into arXiv queries,
// pulls matching entries from a Provider, and shapes them into the
// SearchResponse contract.
package search

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/arxiv-mcp/internal/arxiv"
	"github.com/pdiddy/arxiv-mcp/pkg/types"
)

const (
	// DefaultMaxResults applies when the caller does not set max_results.
	DefaultMaxResults = 10

	// DefaultCeiling applies when the config does not set max_results.
	DefaultCeiling = 50

	sortSubmitted = "submitted"
)

// Provider yields arXiv entries for a search, one page at a time.
// *arxiv.Client implements it.
type Provider interface {
	Results(ctx context.Context, s arxiv.Search) iter.Seq2[arxiv.Paper, error]
}

// Request holds the caller's search parameters.
type Request struct {
	Query string

	// MaxResults is the requested result count; nil means DefaultMaxResults.
	MaxResults *int

	// DateFrom and DateTo bound the submission date. Any format the date
	// parser understands is accepted ("2023-01-01", "Jan 2 2023", ...).
	DateFrom string
	DateTo   string

	Categories []string

	// SortBy is "submitted" or "relevance"; anything else means relevance.
	SortBy string
}

// Service runs searches against a Provider. It holds no per-call state.
type Service struct {
	provider Provider
	ceiling  int
	now      func() time.Time
}

// NewService returns a Service that caps every request at cfg.MaxResults.
func NewService(p Provider, cfg types.SearchConfig) *Service {
	ceiling := cfg.MaxResults
	if ceiling <= 0 {
		ceiling = DefaultCeiling
	}
	return &Service{provider: p, ceiling: ceiling, now: time.Now}
}

// Ceiling returns the configured max_results cap.
func (s *Service) Ceiling() int { return s.ceiling }

// Search compiles req, pulls entries from the provider until the clamped
// limit is reached, and returns them normalized. Errors are returned
// unformatted; Payload maps them onto the error contract.
func (s *Service) Search(ctx context.Context, req Request) (types.SearchResponse, error) {
	limit := s.clamp(req.MaxResults)
	sortBy := ResolveSort(req.SortBy)

	query, err := Compile(req, s.now())
	if err != nil {
		return types.SearchResponse{}, err
	}

	log := zerolog.Ctx(ctx)
	log.Debug().Str("query", query).Int("limit", limit).Str("sort_by", string(sortBy)).Msg("compiled arXiv query")

	resp := types.SearchResponse{Papers: []types.Paper{}}
	if limit == 0 {
		return resp, nil
	}

	search := arxiv.Search{
		Query:      query,
		MaxResults: limit,
		SortBy:     sortBy,
		SortOrder:  arxiv.Descending,
	}
	for p, err := range s.provider.Results(ctx, search) {
		if err != nil {
			return types.SearchResponse{}, fmt.Errorf("searching arXiv: %w", err)
		}
		resp.Papers = append(resp.Papers, Normalize(p))
		if len(resp.Papers) >= limit {
			break
		}
	}
	resp.TotalResults = len(resp.Papers)

	log.Info().Int("total_results", resp.TotalResults).Msg("search completed")
	return resp, nil
}

// clamp resolves the requested count against the default and ceiling.
func (s *Service) clamp(requested *int) int {
	n := DefaultMaxResults
	if requested != nil {
		n = *requested
	}
	return max(0, min(n, s.ceiling))
}

// ResolveSort maps the caller's sort_by_method onto an arXiv criterion.
func ResolveSort(method string) arxiv.SortBy {
	if method == sortSubmitted {
		return arxiv.SortBySubmittedDate
	}
	return arxiv.SortByRelevance
}

// Payload classifies err into the error contract returned to callers.
func Payload(err error) types.ErrorPayload {
	var verr *ValidationError
	var aerr *arxiv.APIError
	switch {
	case errors.As(err, &verr):
		return types.ErrorPayload{Error: verr.Error(), Type: types.ErrorValidation}
	case errors.As(err, &aerr):
		return types.ErrorPayload{Error: err.Error(), Type: types.ErrorProvider}
	default:
		return types.ErrorPayload{Error: err.Error(), Type: types.ErrorInternal}
	}
}

// IsCancellation reports whether err comes from a cancelled or expired
// context. Such errors belong to the caller and are not formatted.
func IsCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
