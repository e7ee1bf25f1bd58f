package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/pdiddy/arxiv-mcp/internal/arxiv"
	"github.com/pdiddy/arxiv-mcp/internal/search"
	"github.com/pdiddy/arxiv-mcp/pkg/types"
)

// contactEmailSecret names the secret file whose value is added to the
// User-Agent, as arXiv asks API clients to identify themselves.
const contactEmailSecret = "arxiv-contact-email"

func setConfigDefaults() {
	viper.SetDefault("max_results", search.DefaultCeiling)
	viper.SetDefault("api_url", arxiv.DefaultAPIURL)
	viper.SetDefault("page_size", arxiv.DefaultPageSize)
	viper.SetDefault("request_interval", arxiv.DefaultRequestInterval)
	viper.SetDefault("timeout", "30s")
	viper.SetDefault("max_retries", 3)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "json")
}

// loadConfig reads the server configuration from viper.
func loadConfig() types.ServerConfig {
	return types.ServerConfig{
		Search: types.SearchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:    viper.GetDuration("timeout"),
				UserAgent:  userAgent(loadedSecrets[contactEmailSecret]),
				MaxRetries: viper.GetInt("max_retries"),
			},
			MaxResults:      viper.GetInt("max_results"),
			APIURL:          viper.GetString("api_url"),
			PageSize:        viper.GetInt("page_size"),
			RequestInterval: viper.GetDuration("request_interval"),
		},
		Log: types.LogConfig{
			Level:  viper.GetString("log_level"),
			Format: viper.GetString("log_format"),
		},
	}
}

func userAgent(email string) string {
	ua := "arxiv-mcp/" + version
	if email != "" {
		ua += " (mailto:" + email + ")"
	}
	return ua
}

// newLogger builds the process logger. Logs always go to stderr because
// stdout carries the MCP stdio stream.
func newLogger(cfg types.LogConfig) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var log zerolog.Logger
	switch cfg.Format {
	case "", "json":
		log = zerolog.New(os.Stderr)
	case "console":
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %q (want json or console)", cfg.Format)
	}
	return log.Level(level).With().Timestamp().Logger(), nil
}

// newService wires the arXiv client into a search service.
func newService(cfg types.SearchConfig) *search.Service {
	return search.NewService(arxiv.NewClient(cfg), cfg)
}
