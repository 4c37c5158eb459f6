package harvester

import (
	"errors"
	"testing"
)

func stubFinder(pages []string, err error) *PageRangeFinder {
	return &PageRangeFinder{
		pageTexts: func(string) ([]string, error) {
			return pages, err
		},
	}
}

func TestFindKeywordPage(t *testing.T) {
	tests := []struct {
		name      string
		pages     []string
		keyword   string
		wantPage  int
		wantFound bool
	}{
		{
			name:      "last occurrence wins",
			pages:     []string{"intro", "References in text", "body", "References"},
			keyword:   "References",
			wantPage:  4,
			wantFound: true,
		},
		{
			name:      "single occurrence",
			pages:     []string{"a", "ACKNOWLEDGMENT", "b"},
			keyword:   "ACKNOWLEDGMENT",
			wantPage:  2,
			wantFound: true,
		},
		{
			name:      "not present",
			pages:     []string{"a", "b"},
			keyword:   "References",
			wantFound: false,
		},
		{
			name:      "empty document",
			pages:     nil,
			keyword:   "References",
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			finder := stubFinder(tt.pages, nil)

			page, found := finder.FindKeywordPage("doc.pdf", tt.keyword)
			if found != tt.wantFound {
				t.Fatalf("FindKeywordPage found = %t, want %t", found, tt.wantFound)
			}

			if found && page != tt.wantPage {
				t.Errorf("FindKeywordPage page = %d, want %d", page, tt.wantPage)
			}
		})
	}
}

func TestFindKeywordPageUnreadable(t *testing.T) {
	finder := stubFinder(nil, errors.New("malformed xref table"))

	if _, found := finder.FindKeywordPage("broken.pdf", "References"); found {
		t.Error("unreadable PDF should report keyword as not found")
	}
}

func TestPageBound(t *testing.T) {
	tests := []struct {
		name  string
		pages []string
		want  int
	}{
		{
			name:  "minimum of both keywords",
			pages: []string{"body", "ACKNOWLEDGMENT", "more", "References"},
			want:  2,
		},
		{
			name:  "references only",
			pages: []string{"body", "References"},
			want:  2,
		},
		{
			name:  "acknowledgment only",
			pages: []string{"body", "more", "ACKNOWLEDGMENT"},
			want:  3,
		},
		{
			name:  "neither found",
			pages: []string{"body", "more body"},
			want:  NoPageBound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			finder := stubFinder(tt.pages, nil)

			if got := finder.PageBound("doc.pdf"); got != tt.want {
				t.Errorf("PageBound = %d, want %d", got, tt.want)
			}
		})
	}
}
