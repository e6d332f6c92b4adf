package bilara

import "testing"

const tocSkeleton = `
<article id="mn10">
  <header><h1><span class="segment" id="mn10:0.2"></span></h1></header>
  <h2><span class="segment" id="mn10:3.1"></span></h2>
  <p><span class="segment" id="mn10:4.1"></span></p>
  <h2><span class="segment" id="mn10:9.1"></span></h2>
  <h2>no segment inside</h2>
</article>`

func TestExtractTOC(t *testing.T) {
	sk := mustParse(t, tocSkeleton)
	source := &TextSource{Lang: "en", Segments: Overlay{
		"mn10:0.2": "Mindfulness Meditation",
		"mn10:3.1": "1. Observing the Body",
		"mn10:9.1": "2. Observing Feelings",
	}}

	toc := ExtractTOC(sk, source)
	if len(toc) != 2 {
		t.Fatalf("toc entries = %d, want 2: %+v", len(toc), toc)
	}
	if toc[0].Link != "mn10:3.1" || toc[0].Name != "Observing the Body" {
		t.Errorf("first entry = %+v, want stripped heading for mn10:3.1", toc[0])
	}
	if toc[1].Link != "mn10:9.1" || toc[1].Name != "Observing Feelings" {
		t.Errorf("second entry = %+v", toc[1])
	}
}

func TestExtractTOCSkipsHeadingsWithoutText(t *testing.T) {
	sk := mustParse(t, tocSkeleton)
	source := &TextSource{Lang: "en", Segments: Overlay{
		"mn10:3.1": "1. Observing the Body",
	}}

	toc := ExtractTOC(sk, source)
	if len(toc) != 1 {
		t.Fatalf("headings without source text must be skipped, got %+v", toc)
	}

	if got := ExtractTOC(sk, nil); got != nil {
		t.Errorf("nil source must yield no toc, got %+v", got)
	}
}

func TestStripLeadingOrdering(t *testing.T) {
	tests := []struct{ in, want string }{
		{"1. The Chapter", "The Chapter"},
		{"12.The Chapter", "The Chapter"},
		{"No number", "No number"},
		{"3 dots without period", "3 dots without period"},
	}
	for _, tt := range tests {
		if got := stripLeadingOrdering(tt.in); got != tt.want {
			t.Errorf("stripLeadingOrdering(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
