package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-mcp/internal/search"
	"github.com/pdiddy/arxiv-mcp/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search arXiv for papers",
	Long: `Search runs the same search as the search_papers MCP tool and prints the
results. The query may be given as arguments or with --query; plain words are
matched against all fields, and field prefixes (ti:, au:, abs:, cat:) are
passed through.

Failures are printed as the same JSON error payload the MCP tool returns.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("query", "", "search terms")
	searchCmd.Flags().StringSlice("category", nil, "arXiv category code (repeatable, e.g. cs.AI)")
	searchCmd.Flags().String("from", "", "earliest submission date")
	searchCmd.Flags().String("to", "", "latest submission date (default: now)")
	searchCmd.Flags().String("sort", "relevance", "result ordering: relevance or submitted")
	searchCmd.Flags().Int("max-results", search.DefaultMaxResults, "maximum number of results to return")
	searchCmd.Flags().String("format", "table", "output format: table, json, or yaml")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	req := searchRequest(cmd, args)
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("unknown format %q (want table, json, or yaml)", format)
	}

	cfg := loadConfig()
	log, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	ctx := log.WithContext(context.Background())

	resp, err := newService(cfg.Search).Search(ctx, req)
	if err != nil {
		if search.IsCancellation(err) {
			return err
		}
		if perr := search.FormatJSON(search.Payload(err), os.Stdout); perr != nil {
			return perr
		}
		return fmt.Errorf("search failed")
	}

	return writeResults(os.Stdout, format, resp)
}

func searchRequest(cmd *cobra.Command, args []string) search.Request {
	query, _ := cmd.Flags().GetString("query")
	if query == "" && len(args) > 0 {
		query = strings.Join(args, " ")
	}
	categories, _ := cmd.Flags().GetStringSlice("category")
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	sortBy, _ := cmd.Flags().GetString("sort")
	maxResults, _ := cmd.Flags().GetInt("max-results")

	return search.Request{
		Query:      query,
		MaxResults: &maxResults,
		DateFrom:   from,
		DateTo:     to,
		Categories: categories,
		SortBy:     sortBy,
	}
}

func writeResults(w io.Writer, format string, resp types.SearchResponse) error {
	switch format {
	case "json":
		return search.FormatJSON(resp, w)
	case "yaml":
		return search.FormatYAML(resp, w)
	case "table", "":
		search.FormatTable(resp, w)
		return nil
	}
	return fmt.Errorf("unknown format %q (want table, json, or yaml)", format)
}
