// Package metafile reads and writes the per-document meta_info.txt file that
// carries a harvested record's metadata between the harvest and mentions
// stages. The format is plain key-labeled lines; consumers parse by line
// prefix, never by fixed offsets.
package metafile

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Filename is the metadata file written into each document folder.
const Filename = "meta_info.txt"

// Line labels. The spacing is part of the wire format.
const (
	labelPaperName    = "PAPER NAME :"
	labelLastModified = "LAST MODIFICATION DATE :"
	labelURL          = "URL :"
	labelCollection   = "COLLECTION :"
	labelTechReports  = "TECH REP NUM:"
	labelPlotLocation = "PLOT LOC:"
)

// Meta is the metadata stored for one document.
type Meta struct {
	PaperName      string
	LastModified   string // YYYY-MM-DD
	URL            string
	Collection     string
	TechReportNums []string
	PlotLocation   string
}

// Write stores m as the metadata file of dir, replacing any previous one.
func Write(dir string, m *Meta) error {
	var b strings.Builder

	b.WriteString(labelPaperName + " ")
	b.WriteString(strings.ReplaceAll(m.PaperName, "\n", "") + "\n")
	b.WriteString(labelLastModified + " ")
	b.WriteString(m.LastModified + "\n")
	b.WriteString(labelURL + " ")
	b.WriteString(strings.ReplaceAll(m.URL, "\n", "") + "\n")
	b.WriteString(labelCollection + " ")
	b.WriteString(m.Collection + "\n")
	b.WriteString(labelTechReports + " ")
	b.WriteString(strings.Join(m.TechReportNums, ", ") + "\n")
	b.WriteString(labelPlotLocation + " ")
	b.WriteString(m.PlotLocation + "\n")

	path := filepath.Join(dir, Filename)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write metadata file: %w", err)
	}

	return nil
}

// Read parses the metadata file of dir. A missing file is reported as
// os.ErrNotExist so callers can distinguish first encounters. The paper name
// may span multiple lines; capture continues until the modification-date
// label is reached.
func Read(dir string) (*Meta, error) {
	file, err := os.Open(filepath.Join(dir, Filename))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	m := &Meta{}
	capture := false

	var nameLines []string

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, labelPaperName):
			capture = true

			if name := value(line, labelPaperName); name != "" {
				nameLines = append(nameLines, name)
			}
		case strings.HasPrefix(line, labelLastModified):
			capture = false
			m.LastModified = value(line, labelLastModified)
		case strings.HasPrefix(line, labelURL):
			m.URL = value(line, labelURL)
		case strings.HasPrefix(line, labelCollection):
			m.Collection = value(line, labelCollection)
		case strings.HasPrefix(line, labelTechReports):
			if v := value(line, labelTechReports); v != "" {
				m.TechReportNums = strings.Split(v, ", ")
			}
		case strings.HasPrefix(line, labelPlotLocation):
			m.PlotLocation = value(line, labelPlotLocation)
		case capture:
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				nameLines = append(nameLines, trimmed)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read metadata file: %w", err)
	}

	m.PaperName = strings.Join(nameLines, " ")

	return m, nil
}

func value(line, label string) string {
	return strings.TrimSpace(strings.TrimPrefix(line, label))
}
