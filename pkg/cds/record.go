package cds

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// dummyLastModified substitutes for records that expose no modification box.
// Old enough to predate every record, so such documents are always refreshed
// on first encounter and never after.
const dummyLastModified = "2001-01-01"

// Record holds the metadata read from one CDS record page.
type Record struct {
	URL            string
	LastModified   string // YYYY-MM-DD
	PDFURL         string
	TechReportNums []string
	PlotLocation   string
}

// FetchRecord retrieves and parses a record page. The page is fetched exactly
// once; the PDF URL, technical-report numbers, modification date, and plot
// location all come from this single response.
func (c *Client) FetchRecord(ctx context.Context, recordURL string) (*Record, error) {
	resp, err := c.http.R().SetContext(ctx).Get(recordURL)
	if err != nil {
		return nil, &Error{Type: "network_error", Message: err.Error(), URL: recordURL}
	}

	if !resp.IsSuccess() {
		return nil, &Error{Type: "http_error", Message: fmt.Sprintf("HTTP %d", resp.StatusCode()), URL: recordURL}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("parse record page: %w", err)
	}

	rec := &Record{URL: recordURL}

	rec.PDFURL, _ = doc.Find(`meta[name="citation_pdf_url"]`).Attr("content")

	doc.Find(`meta[name="citation_technical_report_number"]`).Each(func(_ int, s *goquery.Selection) {
		if content, ok := s.Attr("content"); ok && content != "" {
			rec.TechReportNums = append(rec.TechReportNums, content)
		}
	})

	rec.LastModified = lastModifiedDate(doc)
	rec.PlotLocation, _ = c.ResolvePlotLocation(ctx, doc, recordURL)

	return rec, nil
}

// lastModifiedDate reads the record's last-modification date from its info
// box, falling back to a dummy date when the box is absent.
func lastModifiedDate(doc *goquery.Document) string {
	box := doc.Find("div.recordlastmodifiedbox")
	if box.Length() == 0 {
		return dummyLastModified
	}

	text := strings.TrimSpace(box.First().Text())
	parts := strings.Split(text, "last modified")

	return strings.TrimSpace(parts[len(parts)-1])
}
