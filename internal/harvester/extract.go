package harvester

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv/v2"
)

// TextFileName is the line-oriented text artifact written into each document
// folder and consumed by the mentions stage.
const TextFileName = "document.mmd"

// TextTool converts a downloaded PDF into the text file the mentions stage
// reads. Implementations may shell out to external binaries.
type TextTool interface {
	// Extract writes the text for pdfPath into outDir, honoring pageBound
	// (NoPageBound processes every page).
	Extract(ctx context.Context, pdfPath, outDir string, pageBound int) error

	// Name identifies the tool in logs.
	Name() string
}

// NougatTool runs the nougat OCR binary. Nougat understands the markup of
// papers compiled from LaTeX, so its output keeps figure and table citations
// intact.
type NougatTool struct {
	Binary string // defaults to "nougat"
}

// Name implements TextTool.
func (t *NougatTool) Name() string { return "nougat" }

// Extract implements TextTool.
func (t *NougatTool) Extract(ctx context.Context, pdfPath, outDir string, pageBound int) error {
	binary := t.Binary
	if binary == "" {
		binary = "nougat"
	}

	args := []string{pdfPath, "-o", outDir}
	if pageBound != NoPageBound {
		args = append(args, "-p", fmt.Sprintf("1-%d", pageBound))
	}

	cmd := exec.CommandContext(ctx, binary, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s: %w: %s", binary, pdfPath, err, strings.TrimSpace(stderr.String()))
	}

	// Nougat names its output after the PDF; the pipeline expects one
	// canonical name per folder.
	produced := filepath.Join(outDir, strings.TrimSuffix(path.Base(pdfPath), ".pdf")+".mmd")
	target := filepath.Join(outDir, TextFileName)

	if produced != target {
		if err := os.Rename(produced, target); err != nil {
			return fmt.Errorf("rename nougat output: %w", err)
		}
	}

	return nil
}

// DocconvTool extracts text in-process with docconv. It needs no external
// binary but cannot honor a page bound; docconv converts whole documents.
type DocconvTool struct{}

// Name implements TextTool.
func (t *DocconvTool) Name() string { return "docconv" }

// Extract implements TextTool.
func (t *DocconvTool) Extract(ctx context.Context, pdfPath, outDir string, _ int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	res, err := docconv.ConvertPath(pdfPath)
	if err != nil {
		return fmt.Errorf("convert %s: %w", pdfPath, err)
	}

	lines := FlattenParagraphs(res.Body)

	target := filepath.Join(outDir, TextFileName)
	if err := os.WriteFile(target, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		return fmt.Errorf("write text file: %w", err)
	}

	return nil
}

// FlattenParagraphs reduces converter output to one logical statement per
// line: paragraphs become lines, internal line breaks become spaces.
func FlattenParagraphs(text string) []string {
	var lines []string

	for _, paragraph := range strings.Split(text, "\n\n") {
		flat := strings.TrimSpace(strings.Join(strings.Fields(paragraph), " "))
		if flat != "" {
			lines = append(lines, flat)
		}
	}

	return lines
}
