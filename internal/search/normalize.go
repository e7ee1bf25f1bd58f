// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"github.com/pdiddy/arxiv-mcp/internal/arxiv"
	"github.com/pdiddy/arxiv-mcp/pkg/types"
)

const (
	resourceScheme = "arxiv://"

	// publishedLayout is ISO-8601 with a numeric offset ("+00:00" for UTC).
	publishedLayout = "2006-01-02T15:04:05-07:00"
)

// Normalize projects an arXiv entry onto the output contract.
func Normalize(p arxiv.Paper) types.Paper {
	id := p.ShortID()

	authors := make([]string, 0, len(p.Authors))
	for _, a := range p.Authors {
		authors = append(authors, a.Name)
	}

	out := types.Paper{
		ID:          id,
		Title:       p.Title,
		Authors:     authors,
		Abstract:    p.Summary,
		Categories:  append([]string{}, p.Categories...),
		URL:         p.PDFURL(),
		ResourceURI: resourceScheme + id,
	}
	if !p.Published.IsZero() {
		out.Published = p.Published.Format(publishedLayout)
	}
	return out
}
