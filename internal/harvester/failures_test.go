package harvester

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFailureListAppend(t *testing.T) {
	dir := t.TempDir()

	list, err := OpenFailureList(dir)
	if err != nil {
		t.Fatalf("OpenFailureList: %v", err)
	}

	urls := []string{
		"https://cds.cern.ch/record/1001",
		"https://cds.cern.ch/record/1002",
	}

	for _, url := range urls {
		if err := list.Record(url); err != nil {
			t.Fatalf("Record(%q): %v", url, err)
		}
	}

	if list.Count() != 2 {
		t.Errorf("Count = %d, want 2", list.Count())
	}

	if err := list.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, FailureFileName))
	if err != nil {
		t.Fatalf("read failure list: %v", err)
	}

	want := "https://cds.cern.ch/record/1001\nhttps://cds.cern.ch/record/1002\n"
	if string(data) != want {
		t.Errorf("failure list = %q, want %q", string(data), want)
	}
}

func TestFailureListAppendsAcrossRuns(t *testing.T) {
	dir := t.TempDir()

	for _, url := range []string{"https://cds.cern.ch/record/1", "https://cds.cern.ch/record/2"} {
		list, err := OpenFailureList(dir)
		if err != nil {
			t.Fatalf("OpenFailureList: %v", err)
		}

		if err := list.Record(url); err != nil {
			t.Fatalf("Record: %v", err)
		}

		// Every run starts counting from zero; the file keeps history.
		if list.Count() != 1 {
			t.Errorf("Count = %d, want 1", list.Count())
		}

		list.Close()
	}

	data, err := os.ReadFile(filepath.Join(dir, FailureFileName))
	if err != nil {
		t.Fatalf("read failure list: %v", err)
	}

	want := "https://cds.cern.ch/record/1\nhttps://cds.cern.ch/record/2\n"
	if string(data) != want {
		t.Errorf("failure list = %q, want %q", string(data), want)
	}
}
