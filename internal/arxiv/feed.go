// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package arxiv

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"
)

// Paper is one arXiv entry as returned by the API.
type Paper struct {
	// EntryID is the abstract page URL (e.g. "http://arxiv.org/abs/2103.12345v1").
	EntryID string

	Updated   time.Time
	Published time.Time

	Title   string
	Summary string
	Authors []Author

	Comment    string
	JournalRef string
	DOI        string

	PrimaryCategory string
	Categories      []string

	Links []Link
}

// Author is a paper author.
type Author struct {
	Name string
}

// Link is an Atom link attached to an entry.
type Link struct {
	Href        string
	Title       string
	Rel         string
	ContentType string
}

// ShortID returns the identifier after "arxiv.org/abs/", version suffix
// included (e.g. "2103.12345v1" or "hep-th/9901001v2").
func (p Paper) ShortID() string {
	const marker = "arxiv.org/abs/"
	if idx := strings.LastIndex(p.EntryID, marker); idx >= 0 {
		return p.EntryID[idx+len(marker):]
	}
	return p.EntryID
}

// PDFURL returns the href of the entry's "pdf" link, or "" if it has none.
func (p Paper) PDFURL() string {
	for _, l := range p.Links {
		if l.Title == "pdf" {
			return l.Href
		}
	}
	return ""
}

// page is one decoded response from the query endpoint.
type page struct {
	TotalResults int
	Papers       []Paper
}

// arXiv Atom feed XML structures.
type atomFeed struct {
	TotalResults int         `xml:"totalResults"`
	Entries      []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID              string         `xml:"id"`
	Updated         string         `xml:"updated"`
	Published       string         `xml:"published"`
	Title           string         `xml:"title"`
	Summary         string         `xml:"summary"`
	Authors         []atomAuthor   `xml:"author"`
	Comment         string         `xml:"comment"`
	JournalRef      string         `xml:"journal_ref"`
	DOI             string         `xml:"doi"`
	PrimaryCategory atomCategory   `xml:"primary_category"`
	Categories      []atomCategory `xml:"category"`
	Links           []atomLink     `xml:"link"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

type atomLink struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
	Rel   string `xml:"rel,attr"`
	Type  string `xml:"type,attr"`
}

// decodePage parses an Atom response. arXiv reports query errors as a feed
// holding a single entry whose id points under /api/errors; that case is
// returned as an *APIError.
func decodePage(r io.Reader) (page, error) {
	var feed atomFeed
	if err := xml.NewDecoder(r).Decode(&feed); err != nil {
		return page{}, fmt.Errorf("parsing arXiv response: %w", err)
	}

	p := page{TotalResults: feed.TotalResults}
	for _, e := range feed.Entries {
		if strings.Contains(e.ID, "/api/errors") {
			return page{}, &APIError{Message: strings.TrimSpace(e.Summary)}
		}
		p.Papers = append(p.Papers, e.paper())
	}
	return p, nil
}

func (e atomEntry) paper() Paper {
	p := Paper{
		EntryID:         strings.TrimSpace(e.ID),
		Title:           strings.Join(strings.Fields(e.Title), " "),
		Summary:         strings.TrimSpace(e.Summary),
		Comment:         strings.TrimSpace(e.Comment),
		JournalRef:      strings.TrimSpace(e.JournalRef),
		DOI:             strings.TrimSpace(e.DOI),
		PrimaryCategory: e.PrimaryCategory.Term,
	}
	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(e.Published)); err == nil {
		p.Published = t
	}
	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(e.Updated)); err == nil {
		p.Updated = t
	}
	for _, a := range e.Authors {
		p.Authors = append(p.Authors, Author{Name: strings.TrimSpace(a.Name)})
	}
	for _, c := range e.Categories {
		if c.Term != "" {
			p.Categories = append(p.Categories, c.Term)
		}
	}
	for _, l := range e.Links {
		p.Links = append(p.Links, Link{Href: l.Href, Title: l.Title, Rel: l.Rel, ContentType: l.Type})
	}
	return p
}
