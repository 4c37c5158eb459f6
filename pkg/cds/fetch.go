package cds

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// DownloadPDF fetches the primary source file of rec into folder and returns
// its local path. The fetch is idempotent: when the file already exists and
// overwrite is not requested, the existing path is returned without touching
// the network. With overwrite, any existing file is removed first. A partial
// file never survives a failed download.
func (c *Client) DownloadPDF(ctx context.Context, rec *Record, folder string, overwrite bool) (string, error) {
	if rec.PDFURL == "" {
		return "", &Error{Type: "no_pdf_link", Message: "no citation_pdf_url meta tag found", URL: rec.URL}
	}

	name := strings.TrimSuffix(path.Base(rec.PDFURL), ".pdf")
	fullPath := filepath.Join(folder, name+".pdf")

	if _, err := os.Stat(fullPath); err == nil {
		if !overwrite {
			return fullPath, nil
		}

		if err := os.Remove(fullPath); err != nil {
			return "", fmt.Errorf("remove stale pdf: %w", err)
		}
	}

	resp, err := c.http.R().SetContext(ctx).Get(rec.PDFURL)
	if err != nil {
		return "", &Error{Type: "network_error", Message: err.Error(), URL: rec.PDFURL}
	}

	if !resp.IsSuccess() {
		return "", &Error{Type: "download_failed", Message: fmt.Sprintf("HTTP %d", resp.StatusCode()), URL: rec.PDFURL}
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("create pdf file: %w", err)
	}

	if _, err := io.Copy(file, bytes.NewReader(resp.Body())); err != nil {
		file.Close()
		os.Remove(fullPath)

		return "", fmt.Errorf("write pdf file: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(fullPath)

		return "", fmt.Errorf("close pdf file: %w", err)
	}

	if c.validatePDF {
		if err := api.ValidateFile(fullPath, nil); err != nil {
			os.Remove(fullPath)

			return "", &Error{Type: "invalid_pdf", Message: err.Error(), URL: rec.PDFURL}
		}
	}

	return fullPath, nil
}
