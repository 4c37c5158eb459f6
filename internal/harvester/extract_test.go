package harvester

import (
	"reflect"
	"testing"
)

func TestFlattenParagraphs(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "paragraphs become lines",
			text: "First paragraph.\n\nSecond paragraph.",
			want: []string{"First paragraph.", "Second paragraph."},
		},
		{
			name: "internal line breaks become spaces",
			text: "A sentence\nsplit over\nlines.\n\nNext.",
			want: []string{"A sentence split over lines.", "Next."},
		},
		{
			name: "blank paragraphs dropped",
			text: "One.\n\n   \n\nTwo.",
			want: []string{"One.", "Two."},
		},
		{
			name: "empty input",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FlattenParagraphs(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FlattenParagraphs(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}
