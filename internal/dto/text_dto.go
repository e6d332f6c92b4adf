package dto

// ViewStateDTO is the effective presentation vector echoed to the client.
type ViewStateDTO struct {
	Layout     string   `json:"layout"`
	Notes      string   `json:"notes"`
	Script     string   `json:"script"`
	References []string `json:"references"`
	Highlight  bool     `json:"highlight"`
}

type TOCEntryDTO struct {
	Link string `json:"link"`
	Name string `json:"name"`
}

// PublicationDTO carries the source attribution of the composed document.
type PublicationDTO struct {
	Uid             string `json:"uid"`
	RootLang        string `json:"root_lang,omitempty"`
	TranslationLang string `json:"translation_lang,omitempty"`
	Author          string `json:"author,omitempty"`
	Title           string `json:"title,omitempty"`
}

type ComposeResponse struct {
	Uid            string         `json:"uid"`
	Html           string         `json:"html"`
	ViewState      ViewStateDTO   `json:"view_state"`
	StyleName      string         `json:"style_name"`
	StyleCSS       string         `json:"style_css"`
	NoteCSS        string         `json:"note_css,omitempty"`
	ReferenceCSS   string         `json:"reference_css"`
	CanonicalQuery string         `json:"canonical_query"`
	Mismatch       bool           `json:"mismatch"`
	VisibleRange   string         `json:"visible_range,omitempty"`
	Toc            []TOCEntryDTO  `json:"toc,omitempty"`
	Publication    PublicationDTO `json:"publication"`
}

type LookupRequest struct {
	SegmentId string `json:"segment_id" validate:"required"`
	Word      string `json:"word" validate:"required"`
	Lang      string `json:"lang"`
}

type LookupResponse struct {
	SegmentId  string `json:"segment_id"`
	Word       string `json:"word"`
	Definition string `json:"definition"`
	SpanCount  int    `json:"span_count"`
}
