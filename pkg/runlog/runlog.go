// Package runlog provides the run context shared by the pipeline stages: a
// structured logger backed by a timestamped log file, the run's start time,
// and the log file path. Passing a Run explicitly keeps the stages free of
// global logging state, so they can be invoked repeatedly in one process.
package runlog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Run is the context for one pipeline invocation.
type Run struct {
	Logger  *slog.Logger
	Started time.Time
	LogPath string

	file *os.File
}

// New creates a run context whose logger writes to a timestamped file named
// <stage>_<YYYYMMDD_HHMMSS>.log under dir. Unless quiet is set, log lines are
// mirrored to stderr.
func New(dir, stage string, quiet bool) (*Run, error) {
	started := time.Now()
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.log", stage, started.Format("20060102_150405")))

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open run log: %w", err)
	}

	var w io.Writer = file
	if !quiet {
		w = io.MultiWriter(file, os.Stderr)
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	return &Run{
		Logger:  logger,
		Started: started,
		LogPath: path,
		file:    file,
	}, nil
}

// Discard returns a run context that logs nowhere, for tests and embedding.
func Discard() *Run {
	return &Run{
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Started: time.Now(),
	}
}

// Close releases the underlying log file, if any.
func (r *Run) Close() error {
	if r.file == nil {
		return nil
	}

	return r.file.Close()
}
