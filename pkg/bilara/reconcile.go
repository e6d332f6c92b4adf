package bilara

import (
	"net/url"
)

// QueryParams holds the raw shareable query-string values. An empty string
// means the parameter was absent.
type QueryParams struct {
	Layout    string
	Notes     string
	Script    string
	Highlight string
	Reference string
	Lang      string
}

// Empty reports whether none of the five view parameters were supplied.
func (q QueryParams) Empty() bool {
	return q.Layout == "" && q.Notes == "" && q.Script == "" && q.Highlight == "" && q.Reference == ""
}

// Resolution is the outcome of reconciling query parameters against the
// persisted preference.
type Resolution struct {
	// State is the effective view state rendering must use.
	State ViewState
	// Mismatch is true iff the resolved incoming parameters differ from the
	// persisted preference on at least one dimension. While true, rendering
	// follows the URL-resolved state even though user interactions keep
	// writing through to the preference store.
	Mismatch bool
}

// Reconcile resolves the three state copies into the effective view state.
//
// Each parameter is adopted only when present and valid; invalid or absent
// values fall back to the saved preference, so a malformed URL never blocks
// rendering. When restore is set (the user asked to go back to their saved
// settings) the URL is ignored outright and the mismatch flag is cleared,
// which is also what breaks the store -> state -> store cycle: outside
// restore mode the preference store is write-only from here.
func Reconcile(params QueryParams, saved ViewState, editions []Edition, restore bool) Resolution {
	saved.References = NormalizeReferences(saved.References)
	if restore || params.Empty() {
		return Resolution{State: saved, Mismatch: false}
	}

	resolved := saved
	if layout, ok := ParseLayout(params.Layout); ok {
		resolved.Layout = layout
	}
	if notes, ok := ParseNotes(params.Notes); ok {
		resolved.Notes = notes
	}
	if params.Script != "" && KnownScript(params.Script) {
		resolved.Script = params.Script
	}
	if highlight, ok := ParseHighlight(params.Highlight); ok {
		resolved.Highlight = highlight
	}
	if refs, ok := ParseReferenceParam(params.Reference, editions); ok {
		resolved.References = refs
	}

	return Resolution{
		State:    resolved,
		Mismatch: !resolved.Equal(saved),
	}
}

// CanonicalQuery rewrites the shareable query string from the effective view
// state, preserving the URL fragment verbatim, so the current view is always
// shareable via copy-link regardless of mismatch state.
func CanonicalQuery(effective ViewState, lang, fragment string) string {
	values := url.Values{}
	if lang != "" {
		values.Set("lang", lang)
	}
	values.Set("layout", string(effective.Layout))
	values.Set("reference", ReferenceParam(effective.References))
	values.Set("notes", string(effective.Notes))
	if effective.Highlight {
		values.Set("highlight", "true")
	} else {
		values.Set("highlight", "false")
	}
	values.Set("script", effective.Script)

	q := "?" + values.Encode()
	if fragment != "" {
		q += "#" + fragment
	}
	return q
}
