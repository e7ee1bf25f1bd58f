// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/pdiddy/arxiv-mcp/internal/httputil"
)

func init() {
	httputil.RetryBaseDelay = time.Millisecond
}

const sampleFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:opensearch="http://a9.com/-/spec/opensearch/1.1/" xmlns:arxiv="http://arxiv.org/schemas/atom">
  <title>arXiv Query</title>
  <opensearch:totalResults>2</opensearch:totalResults>
  <opensearch:startIndex>0</opensearch:startIndex>
  <entry>
    <id>http://arxiv.org/abs/2103.12345v1</id>
    <updated>2021-03-24T10:00:00Z</updated>
    <published>2021-03-23T09:30:00Z</published>
    <title>Test Paper:
      A Study</title>
    <summary>  We study things.
    </summary>
    <author><name>Alice Example</name></author>
    <author><name>Bob Example</name></author>
    <arxiv:doi>10.1000/xyz</arxiv:doi>
    <arxiv:comment>12 pages</arxiv:comment>
    <arxiv:primary_category term="cs.AI" scheme="http://arxiv.org/schemas/atom"/>
    <category term="cs.AI" scheme="http://arxiv.org/schemas/atom"/>
    <category term="cs.LG" scheme="http://arxiv.org/schemas/atom"/>
    <link href="http://arxiv.org/abs/2103.12345v1" rel="alternate" type="text/html"/>
    <link title="pdf" href="http://arxiv.org/pdf/2103.12345v1" rel="related" type="application/pdf"/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/hep-th/9901001v2</id>
    <published>1999-01-01T00:00:00Z</published>
    <title>Old Paper</title>
    <summary>Strings.</summary>
    <author><name>Carol</name></author>
    <category term="hep-th"/>
  </entry>
</feed>`

const errorFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:opensearch="http://a9.com/-/spec/opensearch/1.1/">
  <opensearch:totalResults>1</opensearch:totalResults>
  <entry>
    <id>http://arxiv.org/api/errors#incorrect_id_format_for_1234</id>
    <title>Error</title>
    <summary>incorrect id format for 1234</summary>
  </entry>
</feed>`

// pagedFeed renders a feed of n entries numbered from start, claiming total results overall.
func pagedFeed(start, n, total int) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<feed xmlns="http://www.w3.org/2005/Atom" xmlns:opensearch="http://a9.com/-/spec/opensearch/1.1/"><opensearch:totalResults>%d</opensearch:totalResults>`, total)
	for i := start; i < start+n && i < total; i++ {
		fmt.Fprintf(&b, `<entry><id>http://arxiv.org/abs/2401.%05dv1</id><title>Paper %d</title><published>2024-01-01T00:00:00Z</published></entry>`, i, i)
	}
	b.WriteString(`</feed>`)
	return b.String()
}

func testClient(ts *httptest.Server) *Client {
	return &Client{
		HTTP:      ts.Client(),
		BaseURL:   ts.URL,
		PageSize:  10,
		UserAgent: "arxiv-mcp/test",
	}
}

func collect(t *testing.T, c *Client, s Search) ([]Paper, error) {
	t.Helper()
	var papers []Paper
	for p, err := range c.Results(context.Background(), s) {
		if err != nil {
			return papers, err
		}
		papers = append(papers, p)
	}
	return papers, nil
}

func TestResultsDecodesEntries(t *testing.T) {
	var gotUA, gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/atom+xml")
		fmt.Fprint(w, sampleFeedXML)
	}))
	defer ts.Close()

	papers, err := collect(t, testClient(ts), Search{Query: "all:test", MaxResults: 5, SortBy: SortByRelevance, SortOrder: Descending})
	require.NoError(t, err)
	require.Len(t, papers, 2)

	assert.Equal(t, "arxiv-mcp/test", gotUA)
	assert.True(t, strings.HasPrefix(gotQuery, "search_query=all:test&"), gotQuery)
	assert.Contains(t, gotQuery, "max_results=5")
	assert.Contains(t, gotQuery, "sortBy=relevance")

	p := papers[0]
	assert.Equal(t, "2103.12345v1", p.ShortID())
	assert.Equal(t, "Test Paper: A Study", p.Title)
	assert.Equal(t, "We study things.", p.Summary)
	assert.Equal(t, []Author{{Name: "Alice Example"}, {Name: "Bob Example"}}, p.Authors)
	assert.Equal(t, []string{"cs.AI", "cs.LG"}, p.Categories)
	assert.Equal(t, "cs.AI", p.PrimaryCategory)
	assert.Equal(t, "10.1000/xyz", p.DOI)
	assert.Equal(t, "12 pages", p.Comment)
	assert.Equal(t, "http://arxiv.org/pdf/2103.12345v1", p.PDFURL())
	assert.Equal(t, time.Date(2021, 3, 23, 9, 30, 0, 0, time.UTC), p.Published.UTC())
	assert.Equal(t, time.Date(2021, 3, 24, 10, 0, 0, 0, time.UTC), p.Updated.UTC())

	old := papers[1]
	assert.Equal(t, "hep-th/9901001v2", old.ShortID())
	assert.Empty(t, old.PDFURL())
}

func TestResultsPaginates(t *testing.T) {
	var calls int32
	var starts []int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		start, _ := strconv.Atoi(r.URL.Query().Get("start"))
		n, _ := strconv.Atoi(r.URL.Query().Get("max_results"))
		starts = append(starts, start)
		fmt.Fprint(w, pagedFeed(start, n, 25))
	}))
	defer ts.Close()

	papers, err := collect(t, testClient(ts), Search{Query: "all:x", MaxResults: 100})
	require.NoError(t, err)

	assert.Len(t, papers, 25, "stops when the feed is exhausted")
	assert.Equal(t, []int{0, 10, 20}, starts)
	assert.Equal(t, "2401.00024v1", papers[24].ShortID())
}

func TestResultsLastPageIsTrimmedToMaxResults(t *testing.T) {
	var sizes []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start, _ := strconv.Atoi(r.URL.Query().Get("start"))
		n, _ := strconv.Atoi(r.URL.Query().Get("max_results"))
		sizes = append(sizes, r.URL.Query().Get("max_results"))
		fmt.Fprint(w, pagedFeed(start, n, 1000))
	}))
	defer ts.Close()

	papers, err := collect(t, testClient(ts), Search{Query: "all:x", MaxResults: 15})
	require.NoError(t, err)
	assert.Len(t, papers, 15)
	assert.Equal(t, []string{"10", "5"}, sizes)
}

func TestResultsStopsFetchingWhenConsumerBreaks(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		start, _ := strconv.Atoi(r.URL.Query().Get("start"))
		fmt.Fprint(w, pagedFeed(start, 10, 1000))
	}))
	defer ts.Close()

	c := testClient(ts)
	seen := 0
	for _, err := range c.Results(context.Background(), Search{Query: "all:x"}) {
		require.NoError(t, err)
		seen++
		if seen == 3 {
			break
		}
	}
	assert.Equal(t, 3, seen)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestResultsErrorFeed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, errorFeedXML)
	}))
	defer ts.Close()

	_, err := collect(t, testClient(ts), Search{Query: "id:1234", MaxResults: 1})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "incorrect id format for 1234", apiErr.Message)
	assert.Equal(t, "arXiv API error: incorrect id format for 1234", err.Error())
}

func TestResultsHTTPErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"bad request", http.StatusBadRequest, "", "arXiv API returned HTTP 400: Bad Request"},
		{"bad request with error feed", http.StatusBadRequest, errorFeedXML, "arXiv API returned HTTP 400: incorrect id format for 1234"},
		{"server error body is not parsed", http.StatusInternalServerError, errorFeedXML, "arXiv API returned HTTP 500: Internal Server Error"},
		{"server error", http.StatusInternalServerError, "", "arXiv API returned HTTP 500: Internal Server Error"},
		{"throttled after retries", http.StatusServiceUnavailable, "", "arXiv API returned HTTP 503: Service Unavailable"},
		{"malformed xml", http.StatusOK, "<feed><entry>", "parsing arXiv response"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer ts.Close()

			c := testClient(ts)
			c.MaxRetries = 1
			papers, err := collect(t, c, Search{Query: "all:x", MaxResults: 5})
			assert.Empty(t, papers)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestResultsContextCancelled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, sampleFeedXML)
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var gotErr error
	for _, err := range testClient(ts).Results(ctx, Search{Query: "all:x", MaxResults: 5}) {
		gotErr = err
	}
	assert.True(t, errors.Is(gotErr, context.Canceled), "got %v", gotErr)
}

func TestResultsUsesCustomFormatter(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "custom", r.URL.Query().Get("q"))
		fmt.Fprint(w, pagedFeed(0, 1, 1))
	}))
	defer ts.Close()

	c := testClient(ts)
	c.FormatURL = func(base string, _ Search, _, _ int) string { return base + "?q=custom" }
	papers, err := collect(t, c, Search{Query: "ignored", MaxResults: 1})
	require.NoError(t, err)
	assert.Len(t, papers, 1)
}

func TestResultsLimiterWaitPastDeadline(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		fmt.Fprint(w, sampleFeedXML)
	}))
	defer ts.Close()

	c := testClient(ts)
	c.Limiter = rate.NewLimiter(rate.Every(time.Hour), 1)
	require.True(t, c.Limiter.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	var gotErr error
	for _, err := range c.Results(ctx, Search{Query: "all:x", MaxResults: 5}) {
		gotErr = err
	}
	assert.ErrorIs(t, gotErr, context.DeadlineExceeded)
	var apiErr *APIError
	assert.False(t, errors.As(gotErr, &apiErr), "deadline surfaced as provider error: %v", gotErr)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}
