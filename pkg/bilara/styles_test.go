package bilara

import (
	"strings"
	"testing"
)

// Every layout x notes combination plus the two no-translation cases must
// resolve to a defined stylesheet.
func TestSelectStyleTotality(t *testing.T) {
	layouts := []Layout{LayoutPlain, LayoutSideBySide, LayoutLineByLine}
	notes := []NoteMode{NotesNone, NotesAsterisk, NotesSidenotes}

	for _, l := range layouts {
		for _, n := range notes {
			vs := ViewState{Layout: l, Notes: n, Script: DefaultScript, References: []string{"none"}}
			if s := SelectStyle(vs, true, true); s == nil {
				t.Errorf("SelectStyle(%s, %s) = nil", n, l)
			}
		}
	}

	for _, n := range notes {
		vs := ViewState{Layout: LayoutSideBySide, Notes: n, Script: DefaultScript, References: []string{"none"}}
		if s := SelectStyle(vs, true, false); s == nil {
			t.Errorf("root-only SelectStyle(%s) = nil", n)
		}
	}
}

func TestSelectStyleRootOnly(t *testing.T) {
	vs := ViewState{Layout: LayoutLineByLine, Notes: NotesSidenotes, Script: DefaultScript, References: []string{"none"}}
	if s := SelectStyle(vs, true, false); s != styleTable["sidenotes_root"] {
		t.Errorf("sidenotes without translation must use the root sidenote style, got %q", s.Name)
	}

	vs.Notes = NotesAsterisk
	if s := SelectStyle(vs, true, false); s != styleTable["pali"] {
		t.Errorf("root-only documents ignore the layout choice, got %q", s.Name)
	}
}

func TestSelectStyleUnmappedFallsBack(t *testing.T) {
	vs := ViewState{Layout: Layout("spiral"), Notes: NotesSidenotes, Script: DefaultScript, References: []string{"none"}}
	if s := SelectStyle(vs, true, true); s != styleTable["sidenotes_plain"] {
		t.Errorf("unmapped layout must fall back to the plain entry for that notes value, got %q", s.Name)
	}

	vs = ViewState{Layout: Layout("spiral"), Notes: NoteMode("marginalia"), Script: DefaultScript, References: []string{"none"}}
	if s := SelectStyle(vs, true, true); s != plainStyles {
		t.Errorf("fully unmapped combination must fall back to plain, got %q", s.Name)
	}
}

func TestReferenceDisplayCSS(t *testing.T) {
	tests := []struct {
		name           string
		refs           []string
		fragmentActive bool
		wantHidden     bool
		wantContains   []string
		wantMissing    []string
	}{
		{
			name:       "none and no fragment hides everything",
			refs:       []string{"none"},
			wantHidden: true,
		},
		{
			name:           "none with an active fragment reveals the main family",
			refs:           []string{"none"},
			fragmentActive: true,
			wantContains:   []string{"a.sc", "a.vns"},
		},
		{
			name:         "main reveals the main family only",
			refs:         []string{"main"},
			wantContains: []string{"a.sc"},
			wantMissing:  []string{"a.pts"},
		},
		{
			name:         "pts also reveals vnp verse numbers",
			refs:         []string{"pts"},
			wantContains: []string{"a.pts", "a.vnp"},
			wantMissing:  []string{"a.sc,"},
		},
		{
			name:         "main plus edition reveals both",
			refs:         []string{"main", "csp"},
			wantContains: []string{"a.sc", "a.csp"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			css := ReferenceDisplayCSS(tt.refs, tt.fragmentActive)
			if tt.wantHidden {
				if css != ".reference { display: none; }" {
					t.Errorf("want fully hidden, got %s", css)
				}
				return
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(css, want) {
					t.Errorf("css missing %q: %s", want, css)
				}
			}
			for _, missing := range tt.wantMissing {
				if strings.Contains(css, missing) {
					t.Errorf("css must not contain %q: %s", missing, css)
				}
			}
		})
	}
}

func TestApplyHighlight(t *testing.T) {
	sk := mustParse(t, testSkeleton)
	ApplyHighlight(sk, true)
	if out := mustRender(t, sk); !strings.Contains(out, `class="highlight"`) {
		t.Errorf("highlight class not applied: %s", out)
	}
	ApplyHighlight(sk, false)
	if out := mustRender(t, sk); strings.Contains(out, "highlight") {
		t.Errorf("highlight class not removed: %s", out)
	}
}

func TestNoteDisplayCSS(t *testing.T) {
	if css := NoteDisplayCSS(NotesNone); !strings.Contains(css, "content: none") {
		t.Errorf("none mode must hide the asterisk marker: %s", css)
	}
	if css := NoteDisplayCSS(NotesAsterisk); !strings.Contains(css, "content: '*'") {
		t.Errorf("asterisk mode must show the marker: %s", css)
	}
	if css := NoteDisplayCSS(NotesSidenotes); css != "" {
		t.Errorf("sidenote mode needs no marker rules: %s", css)
	}
}
