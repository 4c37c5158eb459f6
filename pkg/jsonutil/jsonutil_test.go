package jsonutil

import (
	"bytes"
	"testing"
)

func TestMarshalNoHTMLEscaping(t *testing.T) {
	data, err := Marshal(map[string]string{"url": "https://cds.cern.ch/search?cc=ATLAS&rg=10"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	want := `{"url":"https://cds.cern.ch/search?cc=ATLAS&rg=10"}`
	if string(data) != want {
		t.Errorf("Marshal = %s, want %s", data, want)
	}
}

func TestMarshalTrimsTrailingNewline(t *testing.T) {
	data, err := Marshal([]int{1, 2, 3})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	if bytes.HasSuffix(data, []byte("\n")) {
		t.Errorf("Marshal output ends with newline: %q", data)
	}
}

func TestMarshalKeepsUnicode(t *testing.T) {
	data, err := Marshal("125 ± 2 GeV")
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	if string(data) != `"125 ± 2 GeV"` {
		t.Errorf("Marshal = %s", data)
	}
}

func TestMarshalIndent(t *testing.T) {
	data, err := MarshalIndent(map[string]string{"name": "Figure 1"})
	if err != nil {
		t.Fatalf("MarshalIndent: %v", err)
	}

	want := "{\n  \"name\": \"Figure 1\"\n}"
	if string(data) != want {
		t.Errorf("MarshalIndent = %q, want %q", data, want)
	}
}

func TestUnmarshal(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}

	if err := Unmarshal([]byte(`{"name":"Table 2"}`), &v); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if v.Name != "Table 2" {
		t.Errorf("Name = %q", v.Name)
	}
}
