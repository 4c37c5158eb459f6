// Package cds provides a client for the CERN Document Server: search-result
// listings, record pages, PDF retrieval, and the heuristic chain used to
// locate a record's supplementary plot pages.
package cds

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	// DefaultBaseURL is the public CDS instance.
	DefaultBaseURL = "https://cds.cern.ch"

	// DefaultPaperBaseURL hosts the plot pages of published ATLAS papers,
	// used when a record's PDF name follows the "-PAPER" convention.
	DefaultPaperBaseURL = "https://atlas.web.cern.ch/Atlas/GROUPS/PHYSICS/PAPERS"

	// NotFound marks an unresolved plot location. It is a normal, expected
	// value; callers must not treat it as an error.
	NotFound = "None"
)

// Client talks to a CDS instance.
type Client struct {
	http         *resty.Client
	baseURL      string
	paperBaseURL string
	timeout      time.Duration
	verbose      bool
	validatePDF  bool
}

// NewClient creates a CDS client.
func NewClient(options ...Option) *Client {
	c := &Client{
		http:         resty.New(),
		baseURL:      DefaultBaseURL,
		paperBaseURL: DefaultPaperBaseURL,
		timeout:      30 * time.Second,
	}

	for _, option := range options {
		option(c)
	}

	c.http.SetTimeout(c.timeout)

	return c
}

// Option defines configuration options for Client.
type Option func(*Client)

// WithTimeout sets the HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithBaseURL points the client at a different CDS instance.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithPaperBaseURL overrides the institutional paper-page base URL used by
// the plot-location probes.
func WithPaperBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.paperBaseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithVerbose enables verbose logging of probe decisions.
func WithVerbose(verbose bool) Option {
	return func(c *Client) {
		c.verbose = verbose
	}
}

// WithValidation enables structural validation of downloaded PDFs.
func WithValidation(validate bool) Option {
	return func(c *Client) {
		c.validatePDF = validate
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.http = resty.NewWithClient(client)
	}
}

// CollectionSlug converts a collection name to its on-disk directory name.
func CollectionSlug(collection string) string {
	return strings.ReplaceAll(collection, " ", "_")
}

// Error is a typed error for CDS operations.
type Error struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	URL     string `json:"url,omitempty"`
}

func (e *Error) Error() string {
	if e.URL != "" {
		return e.Type + ": " + e.Message + " (" + e.URL + ")"
	}

	return e.Type + ": " + e.Message
}
