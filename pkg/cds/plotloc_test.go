package cds

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}

	return doc
}

const noteRowHTML = `<table><tr>
	<td class="formatRecordLabel">Note</td>
	<td><a href="https://atlas.web.cern.ch/Atlas/GROUPS/PHYSICS/CONFNOTES/ATLAS-CONF-2024-001/">All figures available here</a></td>
</tr></table>`

func TestResolvePlotLocationPrecedence(t *testing.T) {
	tests := []struct {
		name      string
		html      string
		recordURL string
		want      string
		probe     string
	}{
		{
			name:  "note link wins over body links",
			html:  noteRowHTML + `<p><a href="https://atlas.web.cern.ch/Atlas/elsewhere">other</a></p>`,
			want:  "https://atlas.web.cern.ch/Atlas/GROUPS/PHYSICS/CONFNOTES/ATLAS-CONF-2024-001/",
			probe: "note-link",
		},
		{
			name:  "atlas body link",
			html:  `<p><a href="https://atlas.web.cern.ch/Atlas/GROUPS/PHYSICS/PAPERS/HIGG-2024-01/">plots</a></p>`,
			want:  "https://atlas.web.cern.ch/Atlas/GROUPS/PHYSICS/PAPERS/HIGG-2024-01/",
			probe: "atlas-link",
		},
		{
			name:  "cms results link",
			html:  `<p><a href="http://cms-results.web.cern.ch/cms-results/public-results/publications/SMP-24-001/">plots</a></p>`,
			want:  "http://cms-results.web.cern.ch/cms-results/public-results/publications/SMP-24-001/",
			probe: "cms-link",
		},
		{
			name:      "figure preview falls back to the record itself",
			html:      `<meta property="og:image" content="https://cds.cern.ch/record/1001/files/Figure_001.png" />`,
			recordURL: "https://cds.cern.ch/record/1001",
			want:      "https://cds.cern.ch/record/1001",
			probe:     "figure-preview",
		},
		{
			name: "nothing resolves",
			html: `<p><a href="https://example.org/unrelated">link</a></p>`,
			want: NotFound,
		},
	}

	client := NewClient()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parseHTML(t, `<html><body>`+tt.html+`</body></html>`)

			loc, probe := client.ResolvePlotLocation(context.Background(), doc, tt.recordURL)
			if loc != tt.want {
				t.Errorf("location = %q, want %q", loc, tt.want)
			}

			if probe != tt.probe {
				t.Errorf("probe = %q, want %q", probe, tt.probe)
			}
		})
	}
}

func TestProbeFigurePreviewIgnoresExternalImages(t *testing.T) {
	doc := parseHTML(t, `<html><head>
		<meta property="og:image" content="https://example.org/preview.png" />
	</head></html>`)

	if got := probeFigurePreview(context.Background(), nil, doc, "https://cds.cern.ch/record/1001"); got != "" {
		t.Errorf("probeFigurePreview = %q, want empty for external previews", got)
	}
}

func TestProbePaperNameConfirmsCandidate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/HIGG-2024-01" {
			fmt.Fprint(w, "<html>paper plots</html>")
			return
		}

		http.NotFound(w, r)
	}))
	defer server.Close()

	client := NewClient(WithPaperBaseURL(server.URL))

	doc := parseHTML(t, `<html><head>
		<meta name="citation_pdf_url" content="https://cds.cern.ch/record/1001/files/ANA-HIGG-2024-01-PAPER.pdf" />
	</head></html>`)

	loc, probe := client.ResolvePlotLocation(context.Background(), doc, "https://cds.cern.ch/record/1001")

	if loc != server.URL+"/HIGG-2024-01" {
		t.Errorf("location = %q, want confirmed candidate", loc)
	}

	if probe != "paper-name" {
		t.Errorf("probe = %q, want paper-name", probe)
	}
}

func TestProbePaperNameRejectsUnconfirmedCandidate(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	client := NewClient(WithPaperBaseURL(server.URL))

	doc := parseHTML(t, `<html><head>
		<meta name="citation_pdf_url" content="https://cds.cern.ch/record/1001/files/ANA-HIGG-2024-01-PAPER.pdf" />
	</head></html>`)

	loc, probe := client.ResolvePlotLocation(context.Background(), doc, "https://cds.cern.ch/record/1001")

	if loc != NotFound || probe != "" {
		t.Errorf("location = %q, probe = %q, want unresolved", loc, probe)
	}
}

func TestProbePaperNameSkipsNonPaperNames(t *testing.T) {
	// No network setup: a non-PAPER name must never produce a candidate GET.
	client := NewClient(WithPaperBaseURL("http://127.0.0.1:0"))

	doc := parseHTML(t, `<html><head>
		<meta name="citation_pdf_url" content="https://cds.cern.ch/record/1001/files/ATLAS-CONF-2024-001.pdf" />
	</head></html>`)

	if got := probePaperName(context.Background(), client, doc, ""); got != "" {
		t.Errorf("probePaperName = %q, want empty", got)
	}
}

func TestProbeNames(t *testing.T) {
	want := []string{"note-link", "atlas-link", "cms-link", "figure-preview", "paper-name"}

	got := ProbeNames()
	if len(got) != len(want) {
		t.Fatalf("ProbeNames = %v", got)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("probe %d = %q, want %q", i, got[i], want[i])
		}
	}
}
