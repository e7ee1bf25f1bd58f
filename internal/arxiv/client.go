// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package arxiv is a paginating client for the arXiv query API.
//
// Results are exposed as a lazy iter.Seq2: pages are fetched only while the
// consumer keeps ranging, so breaking out of the loop stops all further
// requests.
package arxiv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/pdiddy/arxiv-mcp/internal/httputil"
	"github.com/pdiddy/arxiv-mcp/pkg/types"
)

const (
	// DefaultAPIURL is the arXiv query endpoint.
	DefaultAPIURL = "https://export.arxiv.org/api/query"

	// DefaultPageSize is the number of entries requested per page.
	DefaultPageSize = 100

	// DefaultRequestInterval is the gap arXiv asks clients to keep between requests.
	DefaultRequestInterval = 3 * time.Second

	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "arxiv-mcp/dev"
)

// APIError reports a failed exchange with arXiv: a non-200 status, an
// error feed, or a transport failure (Err).
type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("arXiv API returned HTTP %d: %s", e.StatusCode, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("arXiv API request: %v", e.Err)
	default:
		return "arXiv API error: " + e.Message
	}
}

func (e *APIError) Unwrap() error { return e.Err }

// Client queries the arXiv API. A Client holds no per-search state and is
// safe for concurrent use; the Limiter paces requests across all searches.
type Client struct {
	HTTP       *http.Client
	BaseURL    string
	PageSize   int
	UserAgent  string
	MaxRetries int

	// Limiter spaces out requests. Nil disables pacing.
	Limiter *rate.Limiter

	// FormatURL builds each page URL. Nil means FormatURL.
	FormatURL URLFormatter
}

// NewClient builds a Client from cfg, filling defaults for zero values.
func NewClient(cfg types.SearchConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	interval := cfg.RequestInterval
	if interval <= 0 {
		interval = DefaultRequestInterval
	}
	baseURL := cfg.APIURL
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}

	return &Client{
		HTTP:       &http.Client{Timeout: timeout},
		BaseURL:    baseURL,
		PageSize:   cfg.PageSize,
		UserAgent:  ua,
		MaxRetries: cfg.MaxRetries,
		Limiter:    rate.NewLimiter(rate.Every(interval), 1),
		FormatURL:  FormatURL,
	}
}

// Results returns a lazy sequence of papers matching s. Pages of PageSize
// entries are requested on demand until s.MaxResults entries were yielded,
// the feed is exhausted, or the consumer stops. A failure is yielded once
// as the error value and ends the sequence.
func (c *Client) Results(ctx context.Context, s Search) iter.Seq2[Paper, error] {
	return func(yield func(Paper, error) bool) {
		pageSize := c.PageSize
		if pageSize <= 0 {
			pageSize = DefaultPageSize
		}

		for start := 0; s.MaxResults <= 0 || start < s.MaxResults; {
			n := pageSize
			if s.MaxResults > 0 {
				n = min(pageSize, s.MaxResults-start)
			}

			pg, err := c.fetchPage(ctx, s, start, n)
			if err != nil {
				yield(Paper{}, err)
				return
			}
			for _, p := range pg.Papers {
				if !yield(p, nil) {
					return
				}
			}

			start += len(pg.Papers)
			if len(pg.Papers) == 0 || start >= pg.TotalResults {
				return
			}
		}
	}
}

func (c *Client) fetchPage(ctx context.Context, s Search, start, pageSize int) (page, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return page{}, ctx.Err()
			}
			// Wait fails early when the next token would arrive after the
			// deadline.
			return page{}, fmt.Errorf("waiting for rate limiter: %w", context.DeadlineExceeded)
		}
	}

	format := c.FormatURL
	if format == nil {
		format = FormatURL
	}
	url := format(c.BaseURL, s, start, pageSize)

	log := zerolog.Ctx(ctx)
	log.Debug().Str("url", url).Int("start", start).Int("page_size", pageSize).Msg("fetching arXiv page")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return page{}, fmt.Errorf("creating request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := httputil.DoWithRetry(ctx, client, req, c.MaxRetries)
	if err != nil {
		if ctx.Err() != nil {
			return page{}, ctx.Err()
		}
		return page{}, &APIError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return page{}, statusError(resp)
	}

	pg, err := decodePage(resp.Body)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return page{}, err
		}
		return page{}, &APIError{Err: err}
	}

	log.Debug().Int("entries", len(pg.Papers)).Int("total_results", pg.TotalResults).Msg("fetched arXiv page")
	return pg, nil
}

// statusError builds the APIError for a non-200 response. arXiv answers
// rejected queries with a 4xx carrying an error feed; its message is kept
// when present.
func statusError(resp *http.Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		var feedErr *APIError
		if _, err := decodePage(resp.Body); errors.As(err, &feedErr) && feedErr.Message != "" {
			apiErr.Message = feedErr.Message
		}
	}
	io.Copy(io.Discard, resp.Body)
	return apiErr
}
