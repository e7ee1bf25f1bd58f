package types

import "time"

// HTTPConfig holds shared HTTP settings for requests to arXiv.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "arxiv-mcp/0.1 (mailto:someone@example.com)").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries is the number of retries on HTTP 429 and 503 (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// SearchConfig holds settings for the search service and its arXiv client.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults is the ceiling applied to the caller's max_results (default 50).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// APIURL is the arXiv query endpoint.
	APIURL string `json:"api_url" yaml:"api_url"`

	// PageSize is the number of entries requested per provider page (default 100).
	PageSize int `json:"page_size" yaml:"page_size"`

	// RequestInterval is the minimum gap between two provider requests
	// (default 3s, per the arXiv API terms of use).
	RequestInterval time.Duration `json:"request_interval" yaml:"request_interval"`
}

// LogConfig selects the zerolog level and output format.
type LogConfig struct {
	// Level is a zerolog level name: trace, debug, info, warn, error.
	Level string `json:"level" yaml:"level"`

	// Format is "json" (default) or "console".
	Format string `json:"format" yaml:"format"`
}

// ServerConfig groups everything the arxiv-mcp binary reads from config.
type ServerConfig struct {
	Search SearchConfig `json:"search" yaml:"search"`
	Log    LogConfig    `json:"log" yaml:"log"`
}
