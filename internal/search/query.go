// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// arXiv query grammar tokens. "+" stands for a space in the API's
// search_query parameter.
const (
	andToken = "+AND+"
	orToken  = "+OR+"

	// dateFloor is the lower submittedDate bound when date_from is absent.
	dateFloor  = "197001010000"
	dateLayout = "200601021504"
)

// fieldPrefixes are the arXiv field specifiers that mark a query as
// already field-qualified.
var fieldPrefixes = []string{"all:", "ti:", "abs:", "au:", "cat:"}

// ErrEmptyQuery is wrapped in a ValidationError when the query is blank.
var ErrEmptyQuery = errors.New("query is empty")

// ValidationError reports caller input that cannot be turned into an
// arXiv query.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Compile translates req into arXiv's search_query grammar:
//
//	[<categories>+AND+]<text>+AND+submittedDate:[<from>+TO+<to>]
//
// The date clause is always present; a missing date_to is bound to now.
// Bounds are rendered in UTC: a date carrying an offset is shifted rather
// than keeping its wall time, so "2023-06-15T14:30:00+02:00" becomes
// 202306151230.
func Compile(req Request, now time.Time) (string, error) {
	if strings.TrimSpace(req.Query) == "" {
		return "", &ValidationError{Field: "query", Err: ErrEmptyQuery}
	}

	dates, err := dateClause(req.DateFrom, req.DateTo, now)
	if err != nil {
		return "", err
	}

	var parts []string
	if cats := categoryClause(req.Categories); cats != "" {
		parts = append(parts, cats)
	}
	parts = append(parts, textClause(req.Query), dates)
	return strings.Join(parts, andToken), nil
}

// categoryClause ORs every category in caller order. Blank codes are
// dropped; with nothing left the clause is empty.
func categoryClause(categories []string) string {
	var terms []string
	for _, c := range categories {
		if c = strings.TrimSpace(c); c != "" {
			terms = append(terms, "cat:"+c)
		}
	}
	return strings.Join(terms, orToken)
}

// textClause qualifies every term of a plain query with "all:". arXiv ranks
// unqualified multi-word queries poorly once a date filter is attached.
// Queries that already carry a field prefix only have their spaces turned
// into AND tokens, and quoted phrases are kept whole.
func textClause(query string) string {
	if hasFieldPrefix(query) {
		return strings.ReplaceAll(query, " ", andToken)
	}
	if strings.Contains(query, `"`) {
		return "all:" + query
	}

	terms := strings.Fields(query)
	for i, t := range terms {
		terms[i] = "all:" + t
	}
	return strings.Join(terms, andToken)
}

func hasFieldPrefix(query string) bool {
	for _, p := range fieldPrefixes {
		if strings.Contains(query, p) {
			return true
		}
	}
	return false
}

// dateClause renders the submittedDate range. Bounds are parsed with a
// permissive parser and rendered in UTC.
func dateClause(from, to string, now time.Time) (string, error) {
	lo := dateFloor
	hi := now.UTC().Format(dateLayout)

	if from = strings.TrimSpace(from); from != "" {
		t, err := parseDate("date_from", from)
		if err != nil {
			return "", err
		}
		lo = t.Format(dateLayout)
	}
	if to = strings.TrimSpace(to); to != "" {
		t, err := parseDate("date_to", to)
		if err != nil {
			return "", err
		}
		hi = t.Format(dateLayout)
	}

	return "submittedDate:[" + lo + "+TO+" + hi + "]", nil
}

func parseDate(field, value string) (time.Time, error) {
	t, err := dateparse.ParseIn(value, time.UTC)
	if err != nil {
		return time.Time{}, &ValidationError{Field: field, Err: fmt.Errorf("invalid date format: %w", err)}
	}
	return t.UTC(), nil
}
