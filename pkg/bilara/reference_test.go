package bilara

import (
	"strings"
	"testing"
)

func TestClassifyReferenceToken(t *testing.T) {
	editions := testEditions()
	tests := []struct {
		name      string
		token     string
		wantClass string
		wantTitle string
	}{
		{"pts family by prefix", "pts-vp-pli1.2", "pts", "PTS vinaya"},
		{"sya token cites the combined edition", "sya12.3", "sya", "Syāmaraṭṭha"},
		{"csp family", "csp1ed4.5", "csp", "Chaṭṭha Saṅgāyana"},
		{"sc tokens without an edition entry", "sc12", "sc", "sc12"},
		{"unknown token degrades to itself", "bj7.2", "bj7.2", "bj7.2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			class, title := classifyReferenceToken(tt.token, editions)
			if class != tt.wantClass {
				t.Errorf("class = %q, want %q", class, tt.wantClass)
			}
			if title != tt.wantTitle {
				t.Errorf("title = %q, want %q", title, tt.wantTitle)
			}
		})
	}
}

func TestLookupEditionLongestPrefixWins(t *testing.T) {
	editions := []Edition{
		{UID: "pts", EditionSet: "pts", LongName: "PTS 1st ed"},
		{UID: "pts-vp-pli", EditionSet: "pts", LongName: "PTS Vinaya Pali"},
	}
	e := lookupEditionByPrefix("pts-vp-pli1.4", editions)
	if e == nil || e.UID != "pts-vp-pli" {
		t.Fatalf("lookup = %+v, want the longest matching uid", e)
	}
}

func TestAnnotateReferencesBuildsAnchors(t *testing.T) {
	sk := mustParse(t, testSkeleton)
	ov := testOverlays()
	ov.Reference = Overlay{"mn1:1.1": "pts-vp-pli1.2, sc12"}
	if err := Merge(sk, ov, testEditions()); err != nil {
		t.Fatal(err)
	}

	out := mustRender(t, sk)
	if !strings.Contains(out, `<a class="pts" title="PTS vinaya" id="pts-vp-pli1.2" href="#pts-vp-pli1.2">pts-vp-pli1.2</a>`) {
		t.Errorf("pts anchor malformed: %s", out)
	}
	if !strings.Contains(out, `<a class="sc" title="sc12" id="sc12" href="#sc12">sc12</a>`) {
		t.Errorf("sc anchor malformed: %s", out)
	}
}

func TestAnnotateReferencesDeduplicates(t *testing.T) {
	sk := mustParse(t, testSkeleton)
	ov := testOverlays()
	ov.Reference = Overlay{
		"mn1:1.1": "pts-vp-pli1.2, pts-vp-pli1.2",
		"mn1:1.2": "pts-vp-pli1.2",
	}
	if err := Merge(sk, ov, testEditions()); err != nil {
		t.Fatal(err)
	}

	out := mustRender(t, sk)
	if got := strings.Count(out, `id="pts-vp-pli1.2"`); got != 1 {
		t.Errorf("duplicate citation produced %d anchors, want 1", got)
	}
}

func TestAnnotateReferencesWithoutEditionMetadata(t *testing.T) {
	sk := mustParse(t, testSkeleton)
	ov := testOverlays()
	ov.Reference = Overlay{"mn1:1.1": "pts-vp-pli1.2"}
	// Edition metadata unavailable: the token still becomes an anchor,
	// classified by itself.
	if err := Merge(sk, ov, nil); err != nil {
		t.Fatal(err)
	}

	out := mustRender(t, sk)
	if !strings.Contains(out, `<a class="pts-vp-pli1.2" title="pts-vp-pli1.2"`) {
		t.Errorf("token not preserved without metadata: %s", out)
	}
}

func TestSplitReferenceTokens(t *testing.T) {
	got := splitReferenceTokens(" pts1.1 ,\tsc2,, ")
	want := []string{"pts1.1", "sc2"}
	if len(got) != len(want) {
		t.Fatalf("tokens = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
