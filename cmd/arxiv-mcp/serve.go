package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxiv-mcp/internal/mcpserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server",
	Long: `Serve starts an MCP server exposing the search_papers tool. By default it
speaks MCP over stdio, which is what desktop MCP clients expect. With --http
it serves the streamable HTTP transport on the given address instead.

Logs are written to stderr.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("http", "", "serve streamable HTTP on this address (e.g. :8080) instead of stdio")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	log, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}

	srv, err := mcpserver.NewServer(newService(cfg.Search), version, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Int("max_results", cfg.Search.MaxResults).
		Str("api_url", cfg.Search.APIURL).
		Dur("request_interval", cfg.Search.RequestInterval).
		Msg("configuration loaded")

	if addr, _ := cmd.Flags().GetString("http"); addr != "" {
		return srv.RunHTTP(ctx, addr)
	}
	return srv.Run(ctx)
}
