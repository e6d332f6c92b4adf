package bilara

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

var (
	// ErrRangeNotFound is returned when no container covers the requested
	// sub-work; the caller is responsible for signalling not-found.
	ErrRangeNotFound = errors.New("no container covers the requested id")
	// ErrOverlappingRanges is returned when two range containers claim the
	// same ordinal. Upstream data guarantees non-overlap; a violation is
	// reported instead of silently picking the first match.
	ErrOverlappingRanges = errors.New("range containers overlap")
)

// ordinalRange is one candidate container of a compound document.
type ordinalRange struct {
	start, end int
	node       *html.Node
	id         string
}

// ResolveRange narrows a compound skeleton that bundles several logical
// works down to the one covering requestedID. An exact container match wins;
// otherwise containers named "<work>.<start>-<end>" are searched for numeric
// containment of "<work>.<n>". The chosen container is shown and all other
// work containers hidden. It returns the id of the visible container.
func ResolveRange(sk *Skeleton, requestedID string) (string, error) {
	if len(sk.articles) == 0 {
		return "", ErrRangeNotFound
	}

	for _, article := range sk.articles {
		hideNode(article)
	}

	for _, article := range sk.articles {
		if getAttr(article, "id") == requestedID {
			showNode(article)
			return requestedID, nil
		}
	}

	work, ordinal, ok := splitOrdinalID(requestedID)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrRangeNotFound, requestedID)
	}

	var candidates []ordinalRange
	for _, article := range sk.articles {
		id := getAttr(article, "id")
		rw, start, end, ok := splitRangeID(id)
		if !ok || rw != work {
			continue
		}
		candidates = append(candidates, ordinalRange{start: start, end: end, node: article, id: id})
	}

	if err := checkOverlap(candidates); err != nil {
		return "", err
	}

	for _, c := range candidates {
		if ordinal >= c.start && ordinal <= c.end {
			showNode(c.node)
			return c.id, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrRangeNotFound, requestedID)
}

// ResolveVerseRange narrows a verse-collection skeleton where segments of
// many works share the same containers. Segments whose work id differs from
// the requested one are hidden together with their following blockquote;
// heading segments stay visible so chapter titles survive.
func ResolveVerseRange(sk *Skeleton, workID string) {
	lower := strings.ToLower(workID)
	for _, id := range sk.order {
		seg := sk.segments[id]
		if strings.ToLower(id.WorkID()) == lower {
			continue
		}
		if insideHeading(seg) {
			continue
		}
		hideNode(seg)
		if next := nextElementSibling(seg); next != nil && next.Data == "blockquote" {
			hideNode(next)
		}
	}
}

// UpdateRangeTitles substitutes the sub-work ordinal into the range title
// nodes of the visible container, mirroring how a bundled document presents
// the single selected work.
func UpdateRangeTitles(sk *Skeleton, requestedID string) {
	_, ordinal, ok := splitOrdinalID(requestedID)
	if !ok {
		return
	}
	title := strconv.Itoa(ordinal)
	for _, sel := range []string{"range-title", "sutta-title"} {
		for _, holder := range findAllDescendants(sk.body, classFinder(sel)) {
			for _, cls := range []string{"root", "translation"} {
				if span := findDescendant(holder, classFinder(cls)); span != nil {
					if text := findDescendant(span, classFinder("text")); text != nil {
						removeChildren(text)
						text.AppendChild(textNode(title))
					}
				}
			}
		}
	}
}

func checkOverlap(ranges []ordinalRange) error {
	for i := 0; i < len(ranges); i++ {
		for j := i + 1; j < len(ranges); j++ {
			a, b := ranges[i], ranges[j]
			if a.start <= b.end && b.start <= a.end {
				return fmt.Errorf("%w: %s and %s", ErrOverlappingRanges, a.id, b.id)
			}
		}
	}
	return nil
}

// splitOrdinalID parses "<work>.<n>".
func splitOrdinalID(id string) (work string, ordinal int, ok bool) {
	i := strings.LastIndex(id, ".")
	if i < 0 {
		return "", 0, false
	}
	n, err := strconv.Atoi(id[i+1:])
	if err != nil {
		return "", 0, false
	}
	return id[:i], n, true
}

// splitRangeID parses "<work>.<start>-<end>".
func splitRangeID(id string) (work string, start, end int, ok bool) {
	i := strings.LastIndex(id, ".")
	if i < 0 {
		return "", 0, 0, false
	}
	span := id[i+1:]
	j := strings.Index(span, "-")
	if j < 0 {
		return "", 0, 0, false
	}
	start, err := strconv.Atoi(span[:j])
	if err != nil {
		return "", 0, 0, false
	}
	end, err = strconv.Atoi(span[j+1:])
	if err != nil {
		return "", 0, 0, false
	}
	return id[:i], start, end, true
}

func hideNode(n *html.Node) {
	setAttr(n, "style", "display: none")
}

func showNode(n *html.Node) {
	setAttr(n, "style", "display: block")
}

// Hidden reports whether a node was hidden by range resolution, for tests.
func Hidden(n *html.Node) bool {
	return strings.Contains(getAttr(n, "style"), "display: none")
}

// Articles exposes the work containers, for tests and callers inspecting
// visibility after range resolution.
func (sk *Skeleton) Articles() []*html.Node {
	out := make([]*html.Node, len(sk.articles))
	copy(out, sk.articles)
	return out
}

func insideHeading(n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		switch p.Data {
		case "h1", "h2", "h3", "header":
			return true
		}
	}
	return false
}

func nextElementSibling(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}
