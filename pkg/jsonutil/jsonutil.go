// Package jsonutil provides JSON encoding helpers for the pipeline's output
// artifacts, which must stay UTF-8 without forced HTML or ASCII escaping.
package jsonutil

import (
	"bytes"
	"encoding/json"
	"io"
)

// NewEncoder returns an encoder that writes compact JSON without escaping
// HTML characters.
func NewEncoder(w io.Writer) *json.Encoder {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)

	return encoder
}

// Marshal returns the JSON encoding of v without HTML escaping.
func Marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer

	encoder := NewEncoder(&buf)
	if err := encoder.Encode(v); err != nil {
		return nil, err
	}

	// Encode appends a newline; callers expect the bare value.
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// MarshalIndent returns the JSON encoding of v indented with two spaces,
// without HTML escaping.
func MarshalIndent(v interface{}) ([]byte, error) {
	var buf bytes.Buffer

	encoder := NewEncoder(&buf)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(v); err != nil {
		return nil, err
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Unmarshal parses JSON data and stores the result in v.
func Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}
