package bilara

import "strings"

// Layout selects how root and translation columns are arranged.
type Layout string

const (
	LayoutPlain      Layout = "plain"
	LayoutSideBySide Layout = "sidebyside"
	LayoutLineByLine Layout = "linebyline"
)

// NoteMode selects how comments and variants are presented.
type NoteMode string

const (
	NotesNone      NoteMode = "none"
	NotesAsterisk  NoteMode = "asterisk"
	NotesSidenotes NoteMode = "sidenotes"
)

// Reference selection tokens that are not edition ids.
const (
	ReferenceNone = "none"
	ReferenceMain = "main"
)

// DefaultScript is the script every root text is published in.
const DefaultScript = "latin"

// scriptIdentifiers lists the registered transliteration targets.
var scriptIdentifiers = []string{
	"latin",
	"sinhala",
	"devanagari",
	"thai",
	"myanmar",
	"khmer",
	"bengali",
	"gujarati",
	"gurmukhi",
	"kannada",
	"malayalam",
	"telugu",
	"tibetan",
	"cyrillic",
}

// KnownScript reports whether the identifier names a registered script.
func KnownScript(script string) bool {
	for _, s := range scriptIdentifiers {
		if s == script {
			return true
		}
	}
	return false
}

// Scripts returns the registered script identifiers.
func Scripts() []string {
	out := make([]string, len(scriptIdentifiers))
	copy(out, scriptIdentifiers)
	return out
}

// ViewState is the five-dimensional presentation preference vector. It is
// created once per reader session from the persisted preference and carried
// across document navigations.
type ViewState struct {
	Layout     Layout   `json:"layout"`
	Notes      NoteMode `json:"notes"`
	Script     string   `json:"script"`
	References []string `json:"references"`
	Highlight  bool     `json:"highlight"`
}

// DefaultViewState is the state used before any preference is saved.
func DefaultViewState() ViewState {
	return ViewState{
		Layout:     LayoutSideBySide,
		Notes:      NotesAsterisk,
		Script:     DefaultScript,
		References: []string{ReferenceNone},
		Highlight:  false,
	}
}

// ParseLayout validates a layout token, case-insensitively.
func ParseLayout(s string) (Layout, bool) {
	switch Layout(strings.ToLower(s)) {
	case LayoutPlain, LayoutSideBySide, LayoutLineByLine:
		return Layout(strings.ToLower(s)), true
	}
	return "", false
}

// ParseNotes validates a note-mode token, case-insensitively.
func ParseNotes(s string) (NoteMode, bool) {
	switch NoteMode(strings.ToLower(s)) {
	case NotesNone, NotesAsterisk, NotesSidenotes:
		return NoteMode(strings.ToLower(s)), true
	}
	return "", false
}

// ParseHighlight validates a highlight token.
func ParseHighlight(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

// ParseReferenceParam splits a slash-joined reference parameter and filters
// each token individually against the valid selection tokens plus the known
// edition sets. An empty result after filtering counts as invalid.
func ParseReferenceParam(raw string, editions []Edition) ([]string, bool) {
	if raw == "" {
		return nil, false
	}
	var out []string
	for _, tok := range strings.Split(raw, "/") {
		lower := strings.ToLower(tok)
		if lower == ReferenceMain || lower == ReferenceNone {
			out = append(out, lower)
			continue
		}
		for _, e := range editions {
			if e.EditionSet == tok {
				out = append(out, tok)
				break
			}
		}
	}
	if len(out) == 0 {
		return nil, false
	}
	return NormalizeReferences(out), true
}

// NormalizeReferences enforces the selection invariants: the set is never
// empty (absence means {none}), duplicates are dropped, and "none" is
// mutually exclusive with any other selection.
func NormalizeReferences(refs []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range refs {
		if r == "" || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	if len(out) == 0 {
		return []string{ReferenceNone}
	}
	if seen[ReferenceNone] && len(out) > 1 {
		filtered := out[:0]
		for _, r := range out {
			if r != ReferenceNone {
				filtered = append(filtered, r)
			}
		}
		out = filtered
	}
	return out
}

// ReferenceParam serializes a reference selection to its slash-joined query
// token form.
func ReferenceParam(refs []string) string {
	return strings.Join(NormalizeReferences(refs), "/")
}

// ReferencesEqual compares two selections as sets, after normalization.
func ReferencesEqual(a, b []string) bool {
	na, nb := NormalizeReferences(a), NormalizeReferences(b)
	if len(na) != len(nb) {
		return false
	}
	set := make(map[string]bool, len(na))
	for _, r := range na {
		set[r] = true
	}
	for _, r := range nb {
		if !set[r] {
			return false
		}
	}
	return true
}

// Equal reports whether two states agree on all five dimensions.
func (v ViewState) Equal(o ViewState) bool {
	return v.Layout == o.Layout &&
		v.Notes == o.Notes &&
		v.Script == o.Script &&
		v.Highlight == o.Highlight &&
		ReferencesEqual(v.References, o.References)
}

// ReferencesHidden reports whether the selection is just {none}.
func (v ViewState) ReferencesHidden() bool {
	refs := NormalizeReferences(v.References)
	return len(refs) == 1 && refs[0] == ReferenceNone
}
