package runlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesTimestampedFile(t *testing.T) {
	dir := t.TempDir()

	run, err := New(dir, "harvest", true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	run.Logger.Info("page done", "page", 3)

	if err := run.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	base := filepath.Base(run.LogPath)
	if !strings.HasPrefix(base, "harvest_") || !strings.HasSuffix(base, ".log") {
		t.Errorf("log file name = %q", base)
	}

	data, err := os.ReadFile(run.LogPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}

	content := string(data)
	if !strings.Contains(content, "page done") || !strings.Contains(content, "page=3") {
		t.Errorf("log content = %q", content)
	}
}

func TestNewSeparatesStages(t *testing.T) {
	dir := t.TempDir()

	harvest, err := New(dir, "harvest", true)
	if err != nil {
		t.Fatal(err)
	}
	defer harvest.Close()

	mentions, err := New(dir, "mentions", true)
	if err != nil {
		t.Fatal(err)
	}
	defer mentions.Close()

	if harvest.LogPath == mentions.LogPath {
		t.Errorf("stages share a log file: %q", harvest.LogPath)
	}
}

func TestDiscard(t *testing.T) {
	run := Discard()

	// Logging must be safe and Close a no-op without a backing file.
	run.Logger.Info("ignored")

	if err := run.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}

	if run.LogPath != "" {
		t.Errorf("LogPath = %q, want empty", run.LogPath)
	}
}
