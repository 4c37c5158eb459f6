// Package harvester implements the incremental crawl over CDS search
// results: depth-limited pagination, per-document refresh decisions, PDF
// retrieval, and page-bounded text extraction. Execution is fully sequential;
// a single bad document never halts the crawl.
package harvester

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/btraven00/pallaq/pkg/cds"
	"github.com/btraven00/pallaq/pkg/metafile"
	"github.com/btraven00/pallaq/pkg/runlog"
)

// Config holds configuration for a harvest run.
type Config struct {
	Collection string
	StartPage  int
	Depth      int // last result page to visit; negative means unbounded
	OutputRoot string
	Extract    bool
	Overwrite  bool
	Client     *cds.Client
	Tool       TextTool
	Run        *runlog.Run
}

// Stats summarizes one harvest run.
type Stats struct {
	Pages     int `json:"pages"`
	Documents int `json:"documents"`
	Refreshed int `json:"refreshed"`
	Skipped   int `json:"skipped"`
	Extracted int `json:"extracted"`
	Failures  int `json:"failures"`
}

// Harvester drives the crawl.
type Harvester struct {
	config Config
	finder *PageRangeFinder
	logger *slog.Logger
}

// New creates a Harvester instance.
func New(config Config) *Harvester {
	if config.Client == nil {
		config.Client = cds.NewClient()
	}

	if config.Run == nil {
		config.Run = runlog.Discard()
	}

	return &Harvester{
		config: config,
		finder: NewPageRangeFinder(),
		logger: config.Run.Logger,
	}
}

// Run pages through the collection's search results until a listing comes
// back empty or the depth bound is exceeded, processing each linked document
// in order. An unusable output root aborts before any document is touched;
// per-document errors are recorded in the failure list and skipped. A
// canceled context stops the crawl at the next page boundary.
func (h *Harvester) Run(ctx context.Context) (*Stats, error) {
	collectionDir := filepath.Join(h.config.OutputRoot, cds.CollectionSlug(h.config.Collection))
	if err := os.MkdirAll(collectionDir, 0o755); err != nil {
		return nil, fmt.Errorf("create collection directory: %w", err)
	}

	failures, err := OpenFailureList(collectionDir)
	if err != nil {
		return nil, err
	}
	defer failures.Close()

	stats := &Stats{}

	for page := h.config.StartPage; ; page++ {
		if h.config.Depth >= 0 && page > h.config.Depth {
			h.logger.Info("depth reached, ending crawl", "page", page, "depth", h.config.Depth)
			break
		}

		if err := ctx.Err(); err != nil {
			return stats, err
		}

		h.logger.Info("fetching results page", "page", page)

		links, err := h.config.Client.FetchListing(ctx, h.config.Collection, page)
		if err != nil {
			return stats, fmt.Errorf("fetch listing page %d: %w", page, err)
		}

		if len(links) == 0 {
			h.logger.Info("no more documents, ending crawl", "page", page)
			break
		}

		stats.Pages++

		for _, link := range links {
			h.processDocument(ctx, link, collectionDir, failures, stats)
		}
	}

	stats.Failures = failures.Count()

	return stats, nil
}

// processDocument runs the per-document pipeline: record fetch, refresh
// decision, PDF download, metadata rewrite, and optional text extraction.
func (h *Harvester) processDocument(ctx context.Context, link cds.DocumentLink, collectionDir string, failures *FailureList, stats *Stats) {
	stats.Documents++
	logger := h.logger.With("url", link.URL)

	fail := func(msg string, err error) {
		logger.Error(msg, "err", err)

		if err := failures.Record(link.URL); err != nil {
			logger.Error("record failure", "err", err)
		}
	}

	id, ok := cds.RecordID(link.URL)
	if !ok {
		fail("document link carries no record id", nil)
		return
	}

	folder := filepath.Join(collectionDir, "CDS_Record_"+id)
	if err := os.MkdirAll(folder, 0o755); err != nil {
		fail("create document folder", err)
		return
	}

	rec, err := h.config.Client.FetchRecord(ctx, link.URL)
	if err != nil {
		fail("fetch record page", err)
		return
	}

	stored := ""

	if meta, err := metafile.Read(folder); err == nil {
		stored = meta.LastModified
	} else if !errors.Is(err, os.ErrNotExist) {
		logger.Warn("unreadable metadata, treating as first encounter", "err", err)
	}

	needsRefresh, err := NeedsRefresh(stored, rec.LastModified)
	if err != nil {
		// Fatal for this document only.
		logger.Error("date comparison failed, skipping document", "err", err)
		return
	}

	// Re-download only documents that actually changed, even when the
	// caller forces an overwrite.
	pdfPath, err := h.config.Client.DownloadPDF(ctx, rec, folder, h.config.Overwrite && needsRefresh)
	if err != nil {
		fail("download source file", err)
		return
	}

	if needsRefresh || h.config.Overwrite {
		meta := &metafile.Meta{
			PaperName:      link.Title,
			LastModified:   rec.LastModified,
			URL:            link.URL,
			Collection:     cds.CollectionSlug(h.config.Collection),
			TechReportNums: rec.TechReportNums,
			PlotLocation:   rec.PlotLocation,
		}

		if err := metafile.Write(folder, meta); err != nil {
			fail("write metadata", err)
			return
		}

		logger.Info("document refreshed", "folder", folder, "lastModified", rec.LastModified)
		stats.Refreshed++
	} else {
		logger.Info("document unchanged", "folder", folder)
		stats.Skipped++
	}

	if !h.config.Extract {
		return
	}

	textPath := filepath.Join(folder, TextFileName)
	needsExtract := true

	if _, err := os.Stat(textPath); err == nil {
		needsExtract = h.config.Overwrite

		if needsExtract {
			if err := os.Remove(textPath); err != nil {
				fail("remove stale text file", err)
				return
			}
		}
	}

	if !needsExtract {
		return
	}

	if err := h.extract(ctx, pdfPath, folder); err != nil {
		fail("text extraction failed", err)
		return
	}

	stats.Extracted++
}

func (h *Harvester) extract(ctx context.Context, pdfPath, folder string) error {
	if h.config.Tool == nil {
		return fmt.Errorf("no text tool configured")
	}

	bound := h.finder.PageBound(pdfPath)
	h.logger.Info("extracting text", "pdf", pdfPath, "pageBound", bound, "tool", h.config.Tool.Name())

	return h.config.Tool.Extract(ctx, pdfPath, folder, bound)
}
