// Package bilara implements the segment-composition engine for segmented
// bilingual canonical texts: overlay merging onto an HTML skeleton, citation
// annotation, view-state derived styling, URL/preference reconciliation,
// word/grapheme segmentation and sub-range resolution.
package bilara

import "strings"

// SegmentID is an opaque segment key, stable across text sources.
// By convention it looks like "<work-id>:<ordinal>" but the engine only
// splits on the first colon when it needs the ordinal suffix.
type SegmentID string

// Suffix returns the ordinal part of the id, used for in-page anchors.
// "mn1:1.2" => "1.2". Ids without a colon drop the leading work letters
// instead: "s1" => "1".
func (id SegmentID) Suffix() string {
	s := string(id)
	if i := strings.Index(s, ":"); i >= 0 {
		return s[i+1:]
	}
	if i := strings.IndexAny(s, "0123456789"); i > 0 {
		return s[i:]
	}
	return s
}

// WorkID returns the part before the colon, or the whole id.
func (id SegmentID) WorkID() string {
	s := string(id)
	if i := strings.Index(s, ":"); i >= 0 {
		return s[:i]
	}
	return s
}

// Overlay maps segment ids to HTML fragment strings.
type Overlay map[SegmentID]string

// TextSource is an overlay together with its declared language, as published
// for root and translated texts.
type TextSource struct {
	Lang     string  `json:"lang"`
	Author   string  `json:"author_uid,omitempty"`
	Segments Overlay `json:"segments"`
}

// OverlaySet bundles every overlay kind a document may carry. Each member is
// independently optional: a document may be root-only, translation-only or
// anything in between.
type OverlaySet struct {
	Root        *TextSource
	Translation *TextSource
	Reference   Overlay
	Variant     Overlay
	Comment     Overlay
}

// HasRoot reports whether a non-empty root source is present.
func (o OverlaySet) HasRoot() bool {
	return o.Root != nil && len(o.Root.Segments) > 0
}

// HasTranslation reports whether a non-empty translation source is present.
func (o OverlaySet) HasTranslation() bool {
	return o.Translation != nil && len(o.Translation.Segments) > 0
}
