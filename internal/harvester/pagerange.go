package harvester

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// NoPageBound means every page of the document should be processed.
const NoPageBound = -1

// Keywords whose last occurrence marks the end of the text worth mining.
// Bounding extraction there avoids re-citing figure numbers out of the
// reference list.
var boundKeywords = []string{"References", "ACKNOWLEDGMENT"}

// PageRangeFinder locates keyword-bearing pages inside a PDF so the external
// extraction step can stop before the references and acknowledgment sections.
type PageRangeFinder struct {
	pageTexts func(path string) ([]string, error)
}

// NewPageRangeFinder creates a finder backed by the PDF reader.
func NewPageRangeFinder() *PageRangeFinder {
	return &PageRangeFinder{pageTexts: pdfPageTexts}
}

// FindKeywordPage scans pages from last to first and returns the 1-indexed
// number of the first page (from the end) containing keyword. Unreadable
// documents are reported as not found.
func (f *PageRangeFinder) FindKeywordPage(path, keyword string) (int, bool) {
	pages, err := f.pageTexts(path)
	if err != nil {
		return 0, false
	}

	for i := len(pages) - 1; i >= 0; i-- {
		if strings.Contains(pages[i], keyword) {
			return i + 1, true
		}
	}

	return 0, false
}

// PageBound returns the last page worth extracting from the PDF at path: the
// minimum over the bound keywords' pages, ignoring keywords that were not
// found. When no keyword is found the bound is NoPageBound.
func (f *PageRangeFinder) PageBound(path string) int {
	bound := NoPageBound

	for _, keyword := range boundKeywords {
		page, found := f.FindKeywordPage(path, keyword)
		if !found {
			continue
		}

		if bound == NoPageBound || page < bound {
			bound = page
		}
	}

	return bound
}

// pdfPageTexts extracts the plain text of every page. The PDF reader panics
// on some malformed documents; those are contained and surfaced as errors.
func pdfPageTexts(path string) (texts []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("read pdf %s: %v", path, r)
		}
	}()

	file, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer file.Close()

	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			texts = append(texts, "")
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			texts = append(texts, "")
			continue
		}

		texts = append(texts, text)
	}

	return texts, nil
}
