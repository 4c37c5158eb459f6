package mentions

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/btraven00/pallaq/pkg/jsonutil"
)

// Record is one output entry per mention key. Every record of a document
// carries the document's full mention map, not just its own key's contexts.
// Downstream consumers rely on that repetition; see DESIGN.md before
// normalizing it away.
type Record struct {
	Name      string      `json:"name"`
	Mentions  *MentionMap `json:"mentions"`
	AtlusURL  string      `json:"atlusUrl"`
	Paper     string      `json:"paper"`
	PaperName *string     `json:"paperName"`
}

// Assemble normalizes every context of m and emits one record per key, in
// key order. paperName may be empty when the metadata carried none; the
// field is then serialized as null.
func Assemble(ctx context.Context, m *MentionMap, normalizer *Normalizer, paper, paperName, plotLocation string) []Record {
	normalized := NewMentionMap()

	for _, key := range m.Keys() {
		for _, context := range m.Contexts(key) {
			normalized.Add(key, normalizer.Normalize(ctx, context))
		}
	}

	var name *string
	if paperName != "" {
		name = &paperName
	}

	records := make([]Record, 0, normalized.Len())

	for _, key := range normalized.Keys() {
		records = append(records, Record{
			Name:      key,
			Mentions:  normalized,
			AtlusURL:  plotLocation,
			Paper:     paper,
			PaperName: name,
		})
	}

	return records
}

// WriteRecords replaces any pre-existing artifact at path with the records,
// serialized as indented UTF-8 JSON without forced escaping.
func WriteRecords(path string, records []Record) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove stale output: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	encoder := jsonutil.NewEncoder(file)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(records); err != nil {
		file.Close()
		return fmt.Errorf("encode records: %w", err)
	}

	return file.Close()
}
