package harvester

import (
	"fmt"
	"os"
	"path/filepath"
)

// FailureFileName is the append-only list of source URLs that could not be
// processed, one per line, kept per collection. Append mode preserves the
// failures of previous runs so a restart is a plain re-invocation.
const FailureFileName = "failed_list.txt"

// FailureList records failed document URLs for one run.
type FailureList struct {
	file  *os.File
	count int
}

// OpenFailureList opens (or creates) the failure list of a collection
// directory in append mode.
func OpenFailureList(dir string) (*FailureList, error) {
	file, err := os.OpenFile(filepath.Join(dir, FailureFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open failure list: %w", err)
	}

	return &FailureList{file: file}, nil
}

// Record appends one source URL to the list.
func (l *FailureList) Record(url string) error {
	l.count++

	if _, err := fmt.Fprintln(l.file, url); err != nil {
		return fmt.Errorf("append to failure list: %w", err)
	}

	return nil
}

// Count returns the number of failures recorded during this run.
func (l *FailureList) Count() int { return l.count }

// Close releases the underlying file.
func (l *FailureList) Close() error { return l.file.Close() }
