package bilara

import (
	"strings"
	"testing"
)

func savedState() ViewState {
	return ViewState{
		Layout:     LayoutLineByLine,
		Notes:      NotesAsterisk,
		Script:     "latin",
		References: []string{"none"},
		Highlight:  false,
	}
}

func TestReconcileMismatchFlag(t *testing.T) {
	editions := testEditions()
	saved := savedState()

	tests := []struct {
		name         string
		params       QueryParams
		wantMismatch bool
		check        func(t *testing.T, r Resolution)
	}{
		{
			name:         "no parameters means no mismatch",
			params:       QueryParams{},
			wantMismatch: false,
		},
		{
			name:         "parameters equal to preference mean no mismatch",
			params:       QueryParams{Layout: "linebyline", Notes: "asterisk", Script: "latin", Highlight: "false", Reference: "none"},
			wantMismatch: false,
		},
		{
			name:         "differing layout sets the flag",
			params:       QueryParams{Layout: "plain"},
			wantMismatch: true,
			check: func(t *testing.T, r Resolution) {
				if r.State.Layout != LayoutPlain {
					t.Errorf("layout = %s, want plain", r.State.Layout)
				}
			},
		},
		{
			name:         "invalid layout falls back to preference",
			params:       QueryParams{Layout: "diagonal"},
			wantMismatch: false,
		},
		{
			name:         "invalid value alongside a valid one",
			params:       QueryParams{Layout: "diagonal", Highlight: "true"},
			wantMismatch: true,
			check: func(t *testing.T, r Resolution) {
				if r.State.Layout != LayoutLineByLine {
					t.Errorf("invalid layout must keep saved value, got %s", r.State.Layout)
				}
				if !r.State.Highlight {
					t.Error("valid highlight must be adopted")
				}
			},
		},
		{
			name:         "reference tokens filtered individually",
			params:       QueryParams{Reference: "pts/bogus"},
			wantMismatch: true,
			check: func(t *testing.T, r Resolution) {
				if !ReferencesEqual(r.State.References, []string{"pts"}) {
					t.Errorf("references = %v, want [pts]", r.State.References)
				}
			},
		},
		{
			name:         "reference param with no valid token is invalid",
			params:       QueryParams{Reference: "bogus/other"},
			wantMismatch: false,
		},
		{
			name:         "unknown script falls back",
			params:       QueryParams{Script: "klingon"},
			wantMismatch: false,
		},
		{
			name:         "known script is adopted",
			params:       QueryParams{Script: "devanagari"},
			wantMismatch: true,
		},
		{
			name:         "case-insensitive enumerations",
			params:       QueryParams{Notes: "SIDENOTES"},
			wantMismatch: true,
			check: func(t *testing.T, r Resolution) {
				if r.State.Notes != NotesSidenotes {
					t.Errorf("notes = %s, want sidenotes", r.State.Notes)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Reconcile(tt.params, saved, editions, false)
			if r.Mismatch != tt.wantMismatch {
				t.Errorf("mismatch = %v, want %v", r.Mismatch, tt.wantMismatch)
			}
			if tt.check != nil {
				tt.check(t, r)
			}
		})
	}
}

func TestReconcileRestoreClearsMismatch(t *testing.T) {
	saved := savedState()
	params := QueryParams{Layout: "plain", Notes: "none", Highlight: "true"}

	r := Reconcile(params, saved, testEditions(), true)
	if r.Mismatch {
		t.Error("restore mode must clear the mismatch flag")
	}
	if !r.State.Equal(saved) {
		t.Errorf("restore mode must revert to the saved preference, got %+v", r.State)
	}
}

func TestCanonicalQuery(t *testing.T) {
	vs := ViewState{
		Layout:     LayoutSideBySide,
		Notes:      NotesNone,
		Script:     "devanagari",
		References: []string{"main", "pts"},
		Highlight:  true,
	}

	q := CanonicalQuery(vs, "en", "1.2")
	for _, want := range []string{
		"layout=sidebyside",
		"notes=none",
		"script=devanagari",
		"highlight=true",
		"lang=en",
		"#1.2",
	} {
		if !strings.Contains(q, want) {
			t.Errorf("query missing %q: %s", want, q)
		}
	}
	// The reference selection is slash-joined (encoded in the query).
	if !strings.Contains(q, "reference=main%2Fpts") {
		t.Errorf("reference selection not slash-joined: %s", q)
	}
	// The fragment is preserved at the very end.
	if !strings.HasSuffix(q, "#1.2") {
		t.Errorf("fragment not preserved verbatim: %s", q)
	}
}

func TestCanonicalQueryRoundTripsThroughReconcile(t *testing.T) {
	editions := testEditions()
	effective := ViewState{
		Layout:     LayoutPlain,
		Notes:      NotesSidenotes,
		Script:     "sinhala",
		References: []string{"main", "sya"},
		Highlight:  true,
	}

	// A shared link built from the effective state resolves back to it,
	// regardless of the recipient's saved preference.
	r := Reconcile(QueryParams{
		Layout:    string(effective.Layout),
		Notes:     string(effective.Notes),
		Script:    effective.Script,
		Highlight: "true",
		Reference: ReferenceParam(effective.References),
	}, savedState(), editions, false)

	if !r.State.Equal(effective) {
		t.Errorf("shared state %+v did not survive the round trip: %+v", effective, r.State)
	}
	if !r.Mismatch {
		t.Error("a foreign saved preference must flag a mismatch")
	}
}
