package bilara

import "strings"

// StyleSheet is a named CSS block selected by the view state. The CSS bodies
// here carry only the structural rules the engine is responsible for; visual
// typography ships with the site chrome.
type StyleSheet struct {
	Name string `json:"name"`
	CSS  string `json:"css"`
}

var (
	plainStyles = &StyleSheet{
		Name: "plain",
		CSS:  ".translation { display: block; } .root { display: none; }",
	}
	plainPlusStyles = &StyleSheet{
		Name: "plain-plus",
		CSS:  ".translation { display: block; } .root { display: none; } .comment { display: inline-block; position: absolute; }",
	}
	sideBySideStyles = &StyleSheet{
		Name: "sidebyside",
		CSS:  ".segment { display: flex; } .root, .translation { flex: 1; }",
	}
	sideBySidePlusStyles = &StyleSheet{
		Name: "sidebyside-plus",
		CSS:  ".segment { display: flex; } .root, .translation { flex: 1; } .comment { display: inline-block; position: absolute; }",
	}
	lineByLineStyles = &StyleSheet{
		Name: "linebyline",
		CSS:  ".root, .translation { display: block; }",
	}
	lineByLinePlusStyles = &StyleSheet{
		Name: "linebyline-plus",
		CSS:  ".root, .translation { display: block; } .comment { display: inline-block; position: absolute; }",
	}
	plainPaliStyles = &StyleSheet{
		Name: "pali",
		CSS:  ".root { display: block; } .translation { display: none; }",
	}
	rootPlainPlusStyles = &StyleSheet{
		Name: "root-plus",
		CSS:  ".root { display: block; } .translation { display: none; } .comment { display: inline-block; position: absolute; }",
	}

	hideAsteriskStyles = ".comment:before, .variant:before { content: none; }"
	showAsteriskStyles = ".comment:before, .variant:before { content: '*'; }"
)

// styleTable maps "<notes>_<layout>" keys to stylesheets.
var styleTable = map[string]*StyleSheet{
	"sidenotes_plain":      plainPlusStyles,
	"sidenotes_sidebyside": sideBySidePlusStyles,
	"sidenotes_linebyline": lineByLinePlusStyles,
	"none_plain":           plainStyles,
	"asterisk_plain":       plainStyles,
	"none_sidebyside":      sideBySideStyles,
	"asterisk_sidebyside":  sideBySideStyles,
	"none_linebyline":      lineByLineStyles,
	"asterisk_linebyline":  lineByLineStyles,
	"pali":                 plainPaliStyles,
	"sidenotes_root":       rootPlainPlusStyles,
}

// StyleKey composes the table key for a notes/layout combination.
func StyleKey(notes NoteMode, layout Layout) string {
	return strings.ToLower(string(notes)) + "_" + strings.ToLower(string(layout))
}

// SelectStyle resolves the active stylesheet for a view state. Without a
// translation the layout choice is meaningless, so root-only documents map
// onto the dedicated root-only styles regardless of the nominal layout.
// The lookup is total: any unmapped combination falls back to the plain
// layout stylesheet for that notes value, then to the global plain default.
func SelectStyle(vs ViewState, hasRoot, hasTranslation bool) *StyleSheet {
	if !hasTranslation && hasRoot {
		if vs.Notes == NotesSidenotes {
			return styleTable["sidenotes_root"]
		}
		return styleTable["pali"]
	}
	if s, ok := styleTable[StyleKey(vs.Notes, vs.Layout)]; ok {
		return s
	}
	if s, ok := styleTable[StyleKey(vs.Notes, LayoutPlain)]; ok {
		return s
	}
	return plainStyles
}

// IsSidenoteStyle reports whether the stylesheet positions comments in the
// margin, which requires the comment overflow bookkeeping.
func IsSidenoteStyle(s *StyleSheet) bool {
	return s == plainPlusStyles || s == sideBySidePlusStyles || s == lineByLinePlusStyles || s == rootPlainPlusStyles
}

// NoteDisplayCSS returns the asterisk marker rules for a note mode.
// Sidenote mode needs no marker rules: the comments themselves are shown.
func NoteDisplayCSS(notes NoteMode) string {
	switch notes {
	case NotesNone:
		return hideAsteriskStyles
	case NotesAsterisk:
		return showAsteriskStyles
	}
	return ""
}

// ReferenceDisplayCSS computes the visibility rules for citation anchors.
// With a {none} selection and no fragment targeting an in-page anchor the
// reference spans are hidden entirely. Otherwise anchors of each selected
// family are revealed; the primary segment-number family is implied whenever
// "main" is selected or a fragment is active, and selecting "pts" also
// reveals the companion "vnp" verse numbers.
func ReferenceDisplayCSS(refs []string, fragmentActive bool) string {
	refs = NormalizeReferences(refs)
	if len(refs) == 1 && refs[0] == ReferenceNone && !fragmentActive {
		return ".reference { display: none; }"
	}

	var b strings.Builder
	b.WriteString(".reference { display: inline; } .reference a { display: none; }")

	if contains(refs, ReferenceMain) || fragmentActive {
		b.WriteString(" .reference a.sc, .reference a.vns { display: inline; }")
	}
	for _, set := range refs {
		if set == ReferenceNone || set == ReferenceMain {
			continue
		}
		b.WriteString(" .reference a." + set + " { display: inline; }")
	}
	if contains(refs, "pts") {
		b.WriteString(" .reference a.vnp { display: inline; }")
	}
	return b.String()
}

// HighlightClass is toggled on the content root by the highlight dimension.
const HighlightClass = "highlight"

// ApplyHighlight toggles the highlight class on every article element.
func ApplyHighlight(sk *Skeleton, on bool) {
	for _, article := range sk.articles {
		if on {
			addClass(article, HighlightClass)
		} else {
			removeClass(article, HighlightClass)
		}
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
