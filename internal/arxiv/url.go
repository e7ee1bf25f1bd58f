// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"net/url"
	"strconv"
	"strings"
)

// SortBy selects the arXiv result ordering.
type SortBy string

const (
	SortByRelevance     SortBy = "relevance"
	SortBySubmittedDate SortBy = "submittedDate"
	SortByLastUpdated   SortBy = "lastUpdatedDate"
)

// SortOrder selects ascending or descending order for SortBy.
type SortOrder string

const (
	Descending SortOrder = "descending"
	Ascending  SortOrder = "ascending"
)

// Search describes one query against the arXiv API.
type Search struct {
	// Query is an already compiled search_query expression.
	Query string

	// MaxResults bounds the total number of entries fetched across pages.
	// Zero or negative means "until the feed is exhausted".
	MaxResults int

	SortBy    SortBy
	SortOrder SortOrder
}

// URLFormatter builds the request URL for one page of a search. The client
// calls it once per page; swapping it changes how the query reaches arXiv.
type URLFormatter func(base string, s Search, start, pageSize int) string

// FormatURL is the default URLFormatter. The search_query parameter is
// encoded with EncodeQuery so the grammar's structural tokens survive; the
// remaining parameters use standard form encoding.
func FormatURL(base string, s Search, start, pageSize int) string {
	v := url.Values{}
	v.Set("start", strconv.Itoa(start))
	v.Set("max_results", strconv.Itoa(pageSize))
	if s.SortBy != "" {
		v.Set("sortBy", string(s.SortBy))
	}
	if s.SortOrder != "" {
		v.Set("sortOrder", string(s.SortOrder))
	}
	return base + "?search_query=" + EncodeQuery(s.Query) + "&" + v.Encode()
}

// structural lists the characters of the arXiv query grammar that must
// reach the API unescaped: "+" separates terms and boolean operators, ":"
// binds field prefixes, and "[" "]" delimit date ranges.
const structural = ":+[]"

const upperhex = "0123456789ABCDEF"

// EncodeQuery percent-encodes a compiled query for the search_query
// parameter. Spaces become "+", unreserved characters and the structural
// characters pass through, everything else is encoded byte by byte.
func EncodeQuery(q string) string {
	var b strings.Builder
	b.Grow(len(q))
	for i := 0; i < len(q); i++ {
		c := q[i]
		switch {
		case c == ' ':
			b.WriteByte('+')
		case isUnreserved(c) || strings.IndexByte(structural, c) >= 0:
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&15])
		}
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '_', c == '.', c == '~':
		return true
	}
	return false
}
