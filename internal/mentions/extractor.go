// Package mentions mines extracted document text for figure and table
// citations, recovers the sentence context around each citation, and
// assembles the structured records written per document.
package mentions

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/btraven00/pallaq/pkg/jsonutil"
)

var (
	figurePattern = regexp.MustCompile(`[Ff]ig\. (\d+)|[Ff]igures* (\d+)`)
	tablePattern  = regexp.MustCompile(`[Tt]able (\d+)`)
)

const (
	figureIdentifier = "Figure "
	tableIdentifier  = "Table "

	// continuationMarker ends table rows in extracted markup. A "Table N"
	// match on such a line is the table citing its own number, not a
	// mention in running text.
	continuationMarker = `\\`
)

// MentionMap maps a mention key ("Figure 3", "Table 1") to the context of
// every citation of that key, in order of appearance. Key order is insertion
// order, which JSON serialization preserves.
type MentionMap struct {
	keys     []string
	contexts map[string][]string
}

// NewMentionMap creates an empty map.
func NewMentionMap() *MentionMap {
	return &MentionMap{contexts: make(map[string][]string)}
}

// Add appends one context to key, registering the key on first use.
// Identical context strings are kept; deduplication would change the output
// contract.
func (m *MentionMap) Add(key, context string) {
	if _, ok := m.contexts[key]; !ok {
		m.keys = append(m.keys, key)
	}

	m.contexts[key] = append(m.contexts[key], context)
}

// Keys returns the mention keys in insertion order.
func (m *MentionMap) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Contexts returns the context sequence recorded for key.
func (m *MentionMap) Contexts(key string) []string {
	return m.contexts[key]
}

// Len returns the number of distinct keys.
func (m *MentionMap) Len() int { return len(m.keys) }

// MarshalJSON serializes the map as a JSON object in insertion order.
func (m *MentionMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, key := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		kb, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}

		buf.Write(kb)
		buf.WriteByte(':')

		vb, err := jsonutil.Marshal(m.contexts[key])
		if err != nil {
			return nil, err
		}

		buf.Write(vb)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// Extract scans line-oriented document text for figure and table citations
// and returns the raw mention map. Figures are collected first, then tables,
// each in first-appearance order. Table citations on lines ending in the
// continuation marker are excluded.
func Extract(lines []string) *MentionMap {
	m := NewMentionMap()

	for _, line := range lines {
		extractPattern(m, line, figurePattern, figureIdentifier)
	}

	for _, line := range lines {
		if strings.HasSuffix(strings.TrimRight(line, " \t"), continuationMarker) {
			continue
		}

		extractPattern(m, line, tablePattern, tableIdentifier)
	}

	return m
}

func extractPattern(m *MentionMap, line string, pattern *regexp.Regexp, identifier string) {
	for _, idx := range pattern.FindAllStringSubmatchIndex(line, -1) {
		number := firstGroup(line, idx)
		if number == "" {
			continue
		}

		m.Add(identifier+number, snipSentence(line, idx[0], idx[1]))
	}
}

// firstGroup returns the first non-empty capture group of a match.
func firstGroup(line string, idx []int) string {
	for g := 1; 2*g < len(idx); g++ {
		if idx[2*g] >= 0 {
			return line[idx[2*g]:idx[2*g+1]]
		}
	}

	return ""
}

// snipSentence returns the sentence window around a match: from the nearest
// preceding ". " boundary to the nearest following one, within the line.
// Without a boundary the window extends to the line's start or end. The
// period-plus-space rule is a deliberate heuristic; see DESIGN.md.
func snipSentence(line string, start, end int) string {
	before := line[:start]
	if i := strings.LastIndex(before, ". "); i >= 0 {
		before = before[i+2:]
	}

	after := line[end:]
	if i := strings.Index(after, ". "); i >= 0 {
		after = after[:i]
	}

	return before + line[start:end] + after
}
