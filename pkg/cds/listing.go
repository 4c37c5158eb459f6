package cds

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// resultsPerPage is the page size requested from the search endpoint.
const resultsPerPage = 10

// DocumentLink is one entry of a search-result listing.
type DocumentLink struct {
	URL   string
	Title string
}

var recordIDPattern = regexp.MustCompile(`record/(\d+)`)

// RecordID extracts the numeric record id from a document URL.
func RecordID(docURL string) (string, bool) {
	m := recordIDPattern.FindStringSubmatch(docURL)
	if m == nil {
		return "", false
	}

	return m[1], true
}

// SearchURL builds the search URL for one result page of a collection.
// Result pages are zero-indexed; page n starts at record n*10+1.
func (c *Client) SearchURL(collection string, page int) string {
	values := url.Values{}
	values.Set("cc", collection)
	values.Set("rg", strconv.Itoa(resultsPerPage))
	values.Set("m1", "a")
	values.Set("jrec", strconv.Itoa(page*resultsPerPage+1))

	return c.baseURL + "/search?" + values.Encode()
}

// FetchListing retrieves one search-result page and returns its document
// links in page order. An empty slice signals the end of the result set.
func (c *Client) FetchListing(ctx context.Context, collection string, page int) ([]DocumentLink, error) {
	searchURL := c.SearchURL(collection, page)

	resp, err := c.http.R().SetContext(ctx).Get(searchURL)
	if err != nil {
		return nil, &Error{Type: "network_error", Message: err.Error(), URL: searchURL}
	}

	if !resp.IsSuccess() {
		return nil, &Error{Type: "http_error", Message: fmt.Sprintf("HTTP %d", resp.StatusCode()), URL: searchURL}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, fmt.Errorf("parse listing page: %w", err)
	}

	return parseListing(doc), nil
}

// parseListing extracts the document links of a search-result page.
// Truncated titles ("[...]") are repeated entries and are skipped.
func parseListing(doc *goquery.Document) []DocumentLink {
	var links []DocumentLink

	doc.Find("a.titlelink").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}

		title := s.Text()
		if strings.Contains(title, "[...]") {
			return
		}

		links = append(links, DocumentLink{
			URL:   strings.TrimSuffix(href, "?ln=en"),
			Title: title,
		})
	})

	return links
}

// Count returns the total number of records in a collection, read from the
// search-result header without crawling.
func (c *Client) Count(ctx context.Context, collection string) (int, error) {
	searchURL := c.SearchURL(collection, 0)

	resp, err := c.http.R().SetContext(ctx).Get(searchURL)
	if err != nil {
		return 0, &Error{Type: "network_error", Message: err.Error(), URL: searchURL}
	}

	if !resp.IsSuccess() {
		return 0, &Error{Type: "http_error", Message: fmt.Sprintf("HTTP %d", resp.StatusCode()), URL: searchURL}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return 0, fmt.Errorf("parse listing page: %w", err)
	}

	text := doc.Find("td.searchresultsboxheader strong").First().Text()
	if text == "" {
		return 0, &Error{Type: "parse_error", Message: "no record count in search header", URL: searchURL}
	}

	count, err := strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(text), ",", ""))
	if err != nil {
		return 0, fmt.Errorf("parse record count %q: %w", text, err)
	}

	return count, nil
}
