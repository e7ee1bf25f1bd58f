// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data structures shared between the search
// service, the MCP server, and the CLI.
package types

// Paper is the normalized form of an arXiv record returned to callers.
type Paper struct {
	// ID is the short arXiv identifier (e.g. "2103.12345v1").
	ID string `json:"id" yaml:"id"`

	// Title is the paper title with internal whitespace collapsed.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Abstract is the paper abstract.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Categories lists the arXiv category codes in source order.
	Categories []string `json:"categories" yaml:"categories"`

	// Published is the first-version submission time in ISO-8601.
	Published string `json:"published" yaml:"published"`

	// URL is the PDF location.
	URL string `json:"url" yaml:"url"`

	// ResourceURI addresses the paper for downstream resource fetches
	// ("arxiv://" followed by ID).
	ResourceURI string `json:"resource_uri" yaml:"resource_uri"`
}

// SearchResponse is the envelope returned by a search call. TotalResults
// always equals len(Papers).
type SearchResponse struct {
	TotalResults int     `json:"total_results" yaml:"total_results"`
	Papers       []Paper `json:"papers" yaml:"papers"`
}

// ErrorKind classifies a failed search call.
type ErrorKind string

const (
	ErrorValidation ErrorKind = "validation_error"
	ErrorProvider   ErrorKind = "provider_error"
	ErrorInternal   ErrorKind = "internal_error"
)

// ErrorPayload is the body returned in place of a SearchResponse when a
// call fails.
type ErrorPayload struct {
	Error string    `json:"error" yaml:"error"`
	Type  ErrorKind `json:"type" yaml:"type"`
}
