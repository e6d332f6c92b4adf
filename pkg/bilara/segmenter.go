package bilara

import (
	"strconv"
	"strings"

	"github.com/rivo/uniseg"
	"golang.org/x/net/html"
)

// SegmentUnit selects the granularity of lookup spans.
type SegmentUnit string

const (
	// UnitWord wraps whitespace-delimited words, for dictionary lookup of
	// inflected languages written with spaces.
	UnitWord SegmentUnit = "word"
	// UnitGraph wraps individual grapheme clusters, for character based
	// lookup of scripts written without word breaks.
	UnitGraph SegmentUnit = "graph"
)

// SegmentRootText decomposes the root-text content into addressable lookup
// spans and returns the number of spans present afterwards. Only text nodes
// are split; markup boundaries inside a segment are never crossed. The pass
// is guarded per unit: repeated enabling of the lookup feature does not
// re-wrap already wrapped text.
func (sk *Skeleton) SegmentRootText(unit SegmentUnit) int {
	if sk.segmentationDone(unit) {
		return sk.countWordSpans()
	}
	for _, seg := range sk.segments {
		root := findDescendant(seg, classFinder("root"))
		if root == nil {
			continue
		}
		text := findDescendant(root, classFinder("text"))
		if text == nil {
			continue
		}
		wrapTextNodes(text, unit)
	}
	sk.markSegmentation(unit)
	return sk.assignWordSpanIDs()
}

// InvalidateSegmentation forgets that segmentation ran. Script changes must
// call this: word and grapheme boundaries are script-dependent, so the root
// text is restored and rewrapped against the new script's rendering.
func (sk *Skeleton) InvalidateSegmentation() {
	sk.wordSpansGenerated = false
	sk.graphSpansGenerated = false
}

func (sk *Skeleton) segmentationDone(unit SegmentUnit) bool {
	if unit == UnitGraph {
		return sk.graphSpansGenerated
	}
	return sk.wordSpansGenerated
}

func (sk *Skeleton) markSegmentation(unit SegmentUnit) {
	if unit == UnitGraph {
		sk.graphSpansGenerated = true
		return
	}
	sk.wordSpansGenerated = true
}

// wrapTextNodes replaces each text node under n with a sequence of
// word/grapheme spans and separator text nodes.
func wrapTextNodes(n *html.Node, unit SegmentUnit) {
	// Collect first: the walk must not iterate nodes it is replacing.
	var texts []*html.Node
	var walk func(*html.Node)
	walk = func(p *html.Node) {
		for c := p.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				texts = append(texts, c)
				continue
			}
			// Already wrapped spans stay untouched.
			if c.Type == html.ElementNode && hasClass(c, "word") {
				continue
			}
			walk(c)
		}
	}
	walk(n)

	for _, t := range texts {
		replacement := splitTextNode(t.Data, unit)
		if len(replacement) == 0 {
			continue
		}
		parent := t.Parent
		for _, r := range replacement {
			parent.InsertBefore(r, t)
		}
		parent.RemoveChild(t)
	}
}

func splitTextNode(data string, unit SegmentUnit) []*html.Node {
	var out []*html.Node
	words := strings.Fields(data)
	for i, w := range words {
		if i > 0 {
			out = append(out, textNode(" "))
		}
		switch unit {
		case UnitGraph:
			gr := uniseg.NewGraphemes(w)
			for gr.Next() {
				out = append(out, wordSpan(gr.Str()))
			}
		default:
			// An em-dash joins two words without whitespace; split it out so
			// both sides stay individually addressable.
			parts := strings.Split(w, "—")
			for j, p := range parts {
				if j > 0 {
					out = append(out, textNode("—"))
				}
				if p != "" {
					out = append(out, wordSpan(p))
				}
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	// Preserve trailing separation between adjacent text nodes.
	if strings.HasSuffix(data, " ") || strings.HasSuffix(data, "\n") {
		out = append(out, textNode(" "))
	}
	return out
}

func wordSpan(content string) *html.Node {
	s := createSpan("word")
	s.AppendChild(textNode(content))
	return s
}

// assignWordSpanIDs numbers the lookup spans in document order so the click
// target of a lookup can be addressed, and returns the span count.
func (sk *Skeleton) assignWordSpanIDs() int {
	seed := 0
	for _, n := range findAllDescendants(sk.body, classFinder("word")) {
		setAttr(n, "id", "word_"+strconv.Itoa(seed))
		seed++
	}
	return seed
}

func (sk *Skeleton) countWordSpans() int {
	return len(findAllDescendants(sk.body, classFinder("word")))
}

// UnitForLanguage picks the segmentation unit for a root language: languages
// written without word separators get grapheme spans.
func UnitForLanguage(lang string) SegmentUnit {
	if lang == "lzh" || lang == "zh" {
		return UnitGraph
	}
	return UnitWord
}
