//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Search builds the CLI and runs a live arXiv search for query, printed as a table.
func Search(query string) error {
	mg.Deps(Build)
	return sh.RunV(binPath, "search", "--max-results", "5", query)
}

// Serve builds the CLI and runs the MCP server over streamable HTTP on addr.
func Serve(addr string) error {
	mg.Deps(Build)
	return sh.RunV(binPath, "serve", "--http", addr)
}
