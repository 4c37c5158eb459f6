package mentions

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/btraven00/pallaq/pkg/cds"
	"github.com/btraven00/pallaq/pkg/metafile"
	"github.com/btraven00/pallaq/pkg/runlog"
)

const (
	// DefaultOutputFile is the structured record artifact per document.
	DefaultOutputFile = "figures_and_tables.json"

	// DefaultTextFile matches the harvester's extracted-text artifact.
	DefaultTextFile = "document.mmd"
)

// Config holds configuration for the mentions stage.
type Config struct {
	InputRoot  string
	OutputRoot string // empty writes each document's output beside its input
	OutputFile string
	TextFile   string
	Converter  Converter
	Run        *runlog.Run
}

// Stats summarizes one stage run.
type Stats struct {
	Documents int `json:"documents"`
	Records   int `json:"records"`
	Skipped   int `json:"skipped"`
}

// Stage walks the harvested document folders and produces the structured
// mention records.
type Stage struct {
	config     Config
	normalizer *Normalizer
	logger     *slog.Logger
}

// NewStage creates a Stage instance.
func NewStage(config Config) *Stage {
	if config.OutputFile == "" {
		config.OutputFile = DefaultOutputFile
	}

	if config.TextFile == "" {
		config.TextFile = DefaultTextFile
	}

	if config.Run == nil {
		config.Run = runlog.Discard()
	}

	return &Stage{
		config:     config,
		normalizer: NewNormalizer(config.Converter, config.Run.Logger),
		logger:     config.Run.Logger,
	}
}

// Run processes every immediate subdirectory of the input root in directory
// order. A document missing its text or metadata file is logged and skipped;
// an unreadable input root aborts before any document is touched.
func (s *Stage) Run(ctx context.Context) (*Stats, error) {
	entries, err := os.ReadDir(s.config.InputRoot)
	if err != nil {
		return nil, fmt.Errorf("read input root: %w", err)
	}

	stats := &Stats{}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		if err := ctx.Err(); err != nil {
			return stats, err
		}

		records, err := s.processDocument(ctx, entry.Name())
		if err != nil {
			s.logger.Error("document skipped", "dir", entry.Name(), "err", err)
			stats.Skipped++

			continue
		}

		s.logger.Info("document processed", "dir", entry.Name(), "records", records)
		stats.Documents++
		stats.Records += records
	}

	return stats, nil
}

func (s *Stage) processDocument(ctx context.Context, dir string) (int, error) {
	folder := filepath.Join(s.config.InputRoot, dir)

	lines, err := readLines(filepath.Join(folder, s.config.TextFile))
	if err != nil {
		return 0, fmt.Errorf("read text file: %w", err)
	}

	meta, err := metafile.Read(folder)
	if err != nil {
		return 0, fmt.Errorf("read metadata: %w", err)
	}

	plotLocation := meta.PlotLocation
	if plotLocation == "" {
		plotLocation = cds.NotFound
	}

	records := Assemble(ctx, Extract(lines), s.normalizer, dir, meta.PaperName, plotLocation)

	outDir := folder
	if s.config.OutputRoot != "" {
		outDir = filepath.Join(s.config.OutputRoot, dir)

		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return 0, fmt.Errorf("create output directory: %w", err)
		}
	}

	if err := WriteRecords(filepath.Join(outDir, s.config.OutputFile), records); err != nil {
		return 0, err
	}

	return len(records), nil
}

// readLines reads a text file line by line with newlines stripped. Extracted
// markup can carry very long logical statements, hence the 1 MiB line cap.
func readLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}
