package entity

import "bilara-reader-be/pkg/bilara"

// Publication is the attribution metadata shipped alongside a document.
type Publication struct {
	Uid             string
	RootLang        string
	TranslationLang string
	Author          string
	Title           string
}

// Document is one segmented text as loaded from the archive: the HTML
// skeleton plus whichever overlays exist for it.
type Document struct {
	Uid         string
	Skeleton    string
	Overlays    bilara.OverlaySet
	Publication Publication
}
