// Package test provides shared fixtures for pallaq's tests: a mock CDS
// server with listing, record, and file endpoints, plus a stub text tool.
package test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// RecordPage describes one mock CDS record.
type RecordPage struct {
	ID             string
	Title          string
	LastModified   string // empty omits the modification box
	PDFName        string // empty omits the citation_pdf_url meta tag
	PDFBody        string
	TechReports    []string
	NoteLink       string // optional link published in the Note row
	AtlasLink      string // optional bare institutional link in the body
	FigurePreviews bool   // expose og:image previews pointing back at CDS
}

// MockCDS is an HTTP test server that mimics the CDS endpoints the pipeline
// touches.
type MockCDS struct {
	Server  *httptest.Server
	Records []RecordPage

	mu      sync.Mutex
	pdfHits map[string]int
}

// NewMockCDS starts a mock server over the given records. All records are
// served on result page zero; later pages are empty.
func NewMockCDS(records []RecordPage) *MockCDS {
	m := &MockCDS{
		Records: records,
		pdfHits: make(map[string]int),
	}
	m.Server = httptest.NewServer(http.HandlerFunc(m.handle))

	return m
}

// URL returns the server's base URL.
func (m *MockCDS) URL() string { return m.Server.URL }

// Close shuts the server down.
func (m *MockCDS) Close() { m.Server.Close() }

// PDFHits returns how many times the body of a PDF was requested.
func (m *MockCDS) PDFHits(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.pdfHits[name]
}

func (m *MockCDS) handle(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/search":
		jrec, _ := strconv.Atoi(r.URL.Query().Get("jrec"))
		if jrec < 1 {
			jrec = 1
		}

		if (jrec-1)/10 == 0 {
			fmt.Fprint(w, m.listingHTML())
		} else {
			fmt.Fprint(w, emptyListingHTML)
		}
	case strings.HasPrefix(r.URL.Path, "/record/"):
		id := strings.TrimPrefix(r.URL.Path, "/record/")
		for _, rec := range m.Records {
			if rec.ID == id {
				fmt.Fprint(w, m.recordHTML(rec))
				return
			}
		}

		http.NotFound(w, r)
	case strings.HasPrefix(r.URL.Path, "/files/"):
		name := strings.TrimPrefix(r.URL.Path, "/files/")

		m.mu.Lock()
		m.pdfHits[name]++
		m.mu.Unlock()

		for _, rec := range m.Records {
			if rec.PDFName == name {
				w.Header().Set("Content-Type", "application/pdf")
				w.Write([]byte(rec.PDFBody))

				return
			}
		}

		http.NotFound(w, r)
	default:
		http.NotFound(w, r)
	}
}

const emptyListingHTML = `<html><body><table></table></body></html>`

func (m *MockCDS) listingHTML() string {
	var b strings.Builder

	b.WriteString(`<html><body>`)
	fmt.Fprintf(&b, `<table><tr><td class="searchresultsboxheader" align="center"><strong>%d</strong> records found</td></tr></table>`, len(m.Records))

	for _, rec := range m.Records {
		fmt.Fprintf(&b, `<a class="titlelink" href="%s/record/%s?ln=en">%s</a>`, m.URL(), rec.ID, rec.Title)
	}

	b.WriteString(`</body></html>`)

	return b.String()
}

func (m *MockCDS) recordHTML(rec RecordPage) string {
	var b strings.Builder

	b.WriteString(`<html><head>`)

	if rec.PDFName != "" {
		fmt.Fprintf(&b, `<meta name="citation_pdf_url" content="%s/files/%s" />`, m.URL(), rec.PDFName)
	}

	for _, num := range rec.TechReports {
		fmt.Fprintf(&b, `<meta name="citation_technical_report_number" content="%s" />`, num)
	}

	if rec.FigurePreviews {
		fmt.Fprintf(&b, `<meta property="og:image" content="https://cds.cern.ch/record/%s/files/Figure_001.png" />`, rec.ID)
	}

	b.WriteString(`</head><body>`)

	if rec.LastModified != "" {
		fmt.Fprintf(&b, `<div class="recordlastmodifiedbox">Record created 2001-05-14, last modified %s</div>`, rec.LastModified)
	}

	b.WriteString(`<table>`)

	if rec.NoteLink != "" {
		fmt.Fprintf(&b, `<tr><td class="formatRecordLabel">Note</td><td><a href="%s">All figures available here</a></td></tr>`, rec.NoteLink)
	}

	b.WriteString(`</table>`)

	if rec.AtlasLink != "" {
		fmt.Fprintf(&b, `<p><a href="%s">plots</a></p>`, rec.AtlasLink)
	}

	b.WriteString(`</body></html>`)

	return b.String()
}

// StubTool is a text tool that writes fixed lines as the document's text
// file, recording every invocation.
type StubTool struct {
	Lines []string
	Calls []StubCall
}

// StubCall captures one Extract invocation.
type StubCall struct {
	PDFPath   string
	OutDir    string
	PageBound int
}

// Name implements the text tool interface.
func (t *StubTool) Name() string { return "stub" }

// Extract implements the text tool interface.
func (t *StubTool) Extract(_ context.Context, pdfPath, outDir string, pageBound int) error {
	t.Calls = append(t.Calls, StubCall{PDFPath: pdfPath, OutDir: outDir, PageBound: pageBound})

	content := strings.Join(t.Lines, "\n") + "\n"

	return os.WriteFile(filepath.Join(outDir, "document.mmd"), []byte(content), 0o644)
}
