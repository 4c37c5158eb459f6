package cds

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Different document eras and collections publish supplementary plots through
// different channels. The probes below encode the observed precedence, most
// reliable first; the chain short-circuits on the first hit.
type probe struct {
	name string
	fn   func(ctx context.Context, c *Client, doc *goquery.Document, recordURL string) string
}

func plotProbes() []probe {
	return []probe{
		{name: "note-link", fn: probeNoteLink},
		{name: "atlas-link", fn: probeAtlasLink},
		{name: "cms-link", fn: probeCMSLink},
		{name: "figure-preview", fn: probeFigurePreview},
		{name: "paper-name", fn: probePaperName},
	}
}

// ProbeNames returns the probe chain in evaluation order.
func ProbeNames() []string {
	probes := plotProbes()
	names := make([]string, len(probes))

	for i, p := range probes {
		names[i] = p.name
	}

	return names
}

// ResolvePlotLocation runs the probe chain over a parsed record page and
// returns the resolved plot location together with the name of the probe
// that produced it. When no probe succeeds, the location is NotFound and the
// probe name is empty.
func (c *Client) ResolvePlotLocation(ctx context.Context, doc *goquery.Document, recordURL string) (string, string) {
	for _, p := range plotProbes() {
		if loc := p.fn(ctx, c, doc, recordURL); loc != "" {
			if c.verbose {
				fmt.Fprintf(os.Stderr, "plot location for %s: %s (probe %s)\n", recordURL, loc, p.name)
			}

			return loc, p.name
		}
	}

	return NotFound, ""
}

// probeNoteLink looks for a link in the record's "Note" field, where recent
// papers and ATLAS PUB/CONF notes publish their plot pages.
func probeNoteLink(_ context.Context, _ *Client, doc *goquery.Document, _ string) string {
	var href string

	doc.Find("td.formatRecordLabel").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.TrimSpace(s.Text()) != "Note" {
			return true
		}

		row := s.Closest("tr")
		if row.Length() == 0 {
			return true
		}

		if link, ok := row.Find("a[href]").First().Attr("href"); ok {
			href = link
			return false
		}

		return true
	})

	return href
}

func probeAtlasLink(_ context.Context, _ *Client, doc *goquery.Document, _ string) string {
	return firstHrefContaining(doc, "atlas.web.cern.ch/Atlas")
}

func probeCMSLink(_ context.Context, _ *Client, doc *goquery.Document, _ string) string {
	return firstHrefContaining(doc, "cms-results.web.cern.ch/cms-results")
}

func firstHrefContaining(doc *goquery.Document, substr string) string {
	var href string

	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		link, ok := s.Attr("href")
		if ok && strings.Contains(link, substr) {
			href = link
			return false
		}

		return true
	})

	return href
}

// probeFigurePreview detects records whose image previews point back at the
// repository's own figure endpoint. Mentions then resolve via the record page
// itself rather than an external site.
func probeFigurePreview(_ context.Context, _ *Client, doc *goquery.Document, recordURL string) string {
	found := false

	doc.Find(`meta[property="og:image"], meta[property="og:image:secure_url"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		content, ok := s.Attr("content")
		if ok && strings.Contains(content, "cds.cern.ch/record") && strings.Contains(content, "Figure") {
			found = true
			return false
		}

		return true
	})

	if found {
		return recordURL
	}

	return ""
}

// probePaperName recognizes the "...-PAPER" PDF naming convention of
// published ATLAS papers and constructs the candidate institutional URL from
// the name. The candidate is accepted only if it actually resolves.
func probePaperName(ctx context.Context, c *Client, doc *goquery.Document, _ string) string {
	pdfURL, ok := doc.Find(`meta[name="citation_pdf_url"]`).Attr("content")
	if !ok {
		return ""
	}

	name := strings.TrimSuffix(path.Base(pdfURL), ".pdf")
	if !strings.Contains(name, "PAPER") {
		return ""
	}

	name = strings.TrimPrefix(name, "ANA-")
	name = strings.TrimSuffix(name, "-PAPER")
	candidate := c.paperBaseURL + "/" + name

	resp, err := c.http.R().SetContext(ctx).Get(candidate)
	if err != nil || !resp.IsSuccess() {
		return ""
	}

	return candidate
}
