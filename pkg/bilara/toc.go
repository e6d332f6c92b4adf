package bilara

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// TOCEntry is one table-of-contents row: a fragment link plus the heading
// text taken from the preferred text source.
type TOCEntry struct {
	Link string `json:"link"`
	Name string `json:"name"`
}

var leadingOrdering = regexp.MustCompile(`^\d+\.`)

// ExtractTOC builds the table of contents from the h2 section headings of
// the skeleton. The heading name comes from the given source (translation
// when available, root otherwise); headings without a segment id or without
// source text are skipped.
func ExtractTOC(sk *Skeleton, source *TextSource) []TOCEntry {
	if source == nil || len(source.Segments) == 0 {
		return nil
	}
	var toc []TOCEntry
	for _, h2 := range findAllDescendants(sk.body, func(n *html.Node) bool { return n.Data == "h2" }) {
		seg := findDescendant(h2, classFinder("segment"))
		if seg == nil {
			continue
		}
		id := SegmentID(getAttr(seg, "id"))
		name, ok := source.Segments[id]
		if !ok {
			continue
		}
		toc = append(toc, TOCEntry{
			Link: string(id),
			Name: stripLeadingOrdering(name),
		})
	}
	return toc
}

// stripLeadingOrdering drops a leading "N." chapter number from a heading.
func stripLeadingOrdering(name string) string {
	return strings.TrimSpace(leadingOrdering.ReplaceAllString(name, ""))
}
