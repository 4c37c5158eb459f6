package cds

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/btraven00/pallaq/test"
)

func TestFetchRecord(t *testing.T) {
	mock := test.NewMockCDS([]test.RecordPage{{
		ID:           "1001",
		Title:        "Measurement paper",
		LastModified: "2024-03-15",
		PDFName:      "ATLAS-CONF-2024-001.pdf",
		TechReports:  []string{"ATLAS-CONF-2024-001", "CERN-EP-2024-042"},
		NoteLink:     "https://atlas.web.cern.ch/Atlas/GROUPS/PHYSICS/CONFNOTES/ATLAS-CONF-2024-001/",
	}})
	defer mock.Close()

	client := NewClient(WithBaseURL(mock.URL()))

	rec, err := client.FetchRecord(context.Background(), mock.URL()+"/record/1001")
	if err != nil {
		t.Fatalf("FetchRecord: %v", err)
	}

	if rec.PDFURL != mock.URL()+"/files/ATLAS-CONF-2024-001.pdf" {
		t.Errorf("PDFURL = %q", rec.PDFURL)
	}

	if rec.LastModified != "2024-03-15" {
		t.Errorf("LastModified = %q, want 2024-03-15", rec.LastModified)
	}

	want := []string{"ATLAS-CONF-2024-001", "CERN-EP-2024-042"}
	if !reflect.DeepEqual(rec.TechReportNums, want) {
		t.Errorf("TechReportNums = %v, want %v", rec.TechReportNums, want)
	}

	if rec.PlotLocation != "https://atlas.web.cern.ch/Atlas/GROUPS/PHYSICS/CONFNOTES/ATLAS-CONF-2024-001/" {
		t.Errorf("PlotLocation = %q", rec.PlotLocation)
	}
}

func TestFetchRecordWithoutModificationBox(t *testing.T) {
	mock := test.NewMockCDS([]test.RecordPage{{
		ID:    "1002",
		Title: "Bare record",
	}})
	defer mock.Close()

	client := NewClient(WithBaseURL(mock.URL()))

	rec, err := client.FetchRecord(context.Background(), mock.URL()+"/record/1002")
	if err != nil {
		t.Fatalf("FetchRecord: %v", err)
	}

	if rec.LastModified != "2001-01-01" {
		t.Errorf("LastModified = %q, want the dummy date", rec.LastModified)
	}

	if rec.PDFURL != "" {
		t.Errorf("PDFURL = %q, want empty", rec.PDFURL)
	}

	if rec.PlotLocation != NotFound {
		t.Errorf("PlotLocation = %q, want %q", rec.PlotLocation, NotFound)
	}
}

func TestFetchRecordMissing(t *testing.T) {
	mock := test.NewMockCDS(nil)
	defer mock.Close()

	client := NewClient(WithBaseURL(mock.URL()))

	_, err := client.FetchRecord(context.Background(), mock.URL()+"/record/9999")

	var cdsErr *Error
	if !errors.As(err, &cdsErr) || cdsErr.Type != "http_error" {
		t.Errorf("err = %v, want http_error", err)
	}
}
