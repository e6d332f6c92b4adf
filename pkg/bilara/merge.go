package bilara

import (
	"strconv"

	"golang.org/x/net/html"
)

// Merge populates the skeleton from the given overlays. It can be invoked
// repeatedly on the same skeleton: previously injected markup for each
// overlay kind present is removed before re-injection, so a second merge
// replaces rather than duplicates.
//
// Injection order inside a container is fixed because later annotations nest
// inside earlier spans: the reference span is prepended, then the root span
// and translation span are appended, variants nest inside the root span and
// comments inside the translation span.
func Merge(sk *Skeleton, ov OverlaySet, editions []Edition) error {
	sk.removeOverlayMarkup("reference")
	sk.removeOverlayMarkup("root")
	sk.removeOverlayMarkup("translation")

	if ov.HasRoot() {
		sk.addReferenceSpans(ov.Root.Segments)
	} else if ov.HasTranslation() {
		sk.addReferenceSpans(ov.Translation.Segments)
	}

	if ov.HasRoot() {
		if err := sk.addRootText(ov.Root); err != nil {
			return err
		}
	}
	if ov.HasTranslation() {
		if err := sk.addTranslationText(ov.Translation); err != nil {
			return err
		}
	}

	AnnotateReferences(sk, ov.Reference, editions)

	if err := sk.addVariantText(ov.Variant); err != nil {
		return err
	}
	if err := sk.addCommentText(ov.Comment); err != nil {
		return err
	}
	sk.assignCommentIDs()
	return nil
}

// ApplyTransliteratedRoot swaps the root text for a transliterated segment
// map without touching the other overlays. The script class marks segments
// so script specific typography applies. Variants are re-attached because
// the root spans were rebuilt.
func ApplyTransliteratedRoot(sk *Skeleton, root *TextSource, script string, variants Overlay) error {
	if root == nil || len(root.Segments) == 0 {
		return nil
	}
	sk.removeOverlayMarkup("root")
	if err := sk.addRootText(root); err != nil {
		return err
	}
	if script != "" {
		for id := range root.Segments {
			seg, ok := sk.segments[id]
			if !ok {
				continue
			}
			if text := findDescendant(seg, func(n *html.Node) bool {
				return hasClass(n, "text") && n.Parent != nil && hasClass(n.Parent, "root")
			}); text != nil {
				addClass(text, script+"-script")
			}
		}
	}
	return sk.addVariantText(variants)
}

// removeOverlayMarkup strips previously injected spans of one overlay kind.
func (sk *Skeleton) removeOverlayMarkup(class string) {
	for _, seg := range sk.segments {
		for _, n := range findAllDescendants(seg, classFinder(class)) {
			// Forget anchor ids carried by the removed subtree.
			for _, a := range findAllDescendants(n, func(c *html.Node) bool { return getAttr(c, "id") != "" }) {
				delete(sk.ids, getAttr(a, "id"))
			}
			if getAttr(n, "id") != "" {
				delete(sk.ids, getAttr(n, "id"))
			}
			n.Parent.RemoveChild(n)
		}
	}
}

// addReferenceSpans prepends an empty reference span holding the segment
// number anchor to every container named by the overlay. The anchor id is
// the segment id suffix, which makes every segment addressable by URL
// fragment.
func (sk *Skeleton) addReferenceSpans(segs Overlay) {
	for id := range segs {
		seg, ok := sk.segments[id]
		if !ok {
			continue
		}
		ref := createSpan("reference")
		ref.AppendChild(sk.segmentNumberAnchor(id))
		prependChild(seg, ref)
	}
}

func (sk *Skeleton) segmentNumberAnchor(id SegmentID) *html.Node {
	suffix := id.Suffix()
	a := createAnchor("sc")
	setAttr(a, "id", suffix)
	setAttr(a, "href", "#"+suffix)
	setAttr(a, "title", "Segment number")
	a.AppendChild(textNode(suffix))
	sk.ids[suffix] = true
	return a
}

// addRootText appends a root span per overlaid segment. The span carries the
// source language and is marked translate="no" so canonical-language text is
// not machine translated.
func (sk *Skeleton) addRootText(src *TextSource) error {
	for id, fragment := range src.Segments {
		seg, ok := sk.segments[id]
		if !ok {
			continue
		}
		root := createSpan("root")
		setAttr(root, "lang", src.Lang)
		setAttr(root, "translate", "no")
		text := createSpan("text")
		if err := setFragment(text, fragment); err != nil {
			return err
		}
		root.AppendChild(text)
		// The root span always precedes the translation span, also when the
		// root is rebuilt after the translation was already injected.
		if tr := findDescendant(seg, classFinder("translation")); tr != nil && tr.Parent == seg {
			seg.InsertBefore(root, tr)
		} else {
			seg.AppendChild(root)
		}
	}
	return nil
}

// addTranslationText appends a translation span per overlaid segment.
func (sk *Skeleton) addTranslationText(src *TextSource) error {
	for id, fragment := range src.Segments {
		seg, ok := sk.segments[id]
		if !ok {
			continue
		}
		tr := createSpan("translation")
		setAttr(tr, "lang", src.Lang)
		text := createSpan("text")
		if err := setFragment(text, fragment); err != nil {
			return err
		}
		tr.AppendChild(text)
		seg.AppendChild(tr)
	}
	return nil
}

// addVariantText nests variant annotations inside the root span.
func (sk *Skeleton) addVariantText(variants Overlay) error {
	for id, value := range variants {
		seg, ok := sk.segments[id]
		if !ok {
			continue
		}
		root := findDescendant(seg, classFinder("root"))
		if root == nil {
			continue
		}
		if findDescendant(root, classFinder("variant")) != nil {
			continue
		}
		variantText := "Variant: " + value
		span := createSpan("variant")
		setAttr(span, "data-tooltip", variantText)
		span.AppendChild(textNode(variantText))
		root.AppendChild(span)
	}
	return nil
}

// addCommentText nests comment annotations inside the translation span. The
// tooltip carries the comment with markup stripped.
func (sk *Skeleton) addCommentText(comments Overlay) error {
	for id, value := range comments {
		seg, ok := sk.segments[id]
		if !ok {
			continue
		}
		tr := findDescendant(seg, classFinder("translation"))
		if tr == nil {
			continue
		}
		if findDescendant(tr, classFinder("comment")) != nil {
			continue
		}
		span := createSpan("comment")
		if err := setFragment(span, value); err != nil {
			return err
		}
		setAttr(span, "data-tooltip", innerText(span))
		tr.AppendChild(span)
	}
	return nil
}

// assignCommentIDs numbers comment spans in document order so the sidenote
// overflow bookkeeping can address them.
func (sk *Skeleton) assignCommentIDs() {
	seed := 0
	for _, n := range findAllDescendants(sk.body, classFinder("comment")) {
		setAttr(n, "id", fmtCommentID(seed))
		seed++
	}
}

func fmtCommentID(n int) string {
	return "comment_" + strconv.Itoa(n)
}
