package bilara

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Skeleton is the parsed segment container structure of a document. It is
// created once per document load and populated in place; the engine never
// adds or removes segment containers, only their contents.
type Skeleton struct {
	body     *html.Node
	segments map[SegmentID]*html.Node
	order    []SegmentID
	articles []*html.Node

	// ids holds every element id currently present, so citation anchors can
	// be deduplicated without re-walking the tree.
	ids map[string]bool

	wordSpansGenerated  bool
	graphSpansGenerated bool
}

// ParseSkeleton parses the externally produced markup of a document.
// Segment containers are elements carrying the "segment" class and an id.
func ParseSkeleton(markup string) (*Skeleton, error) {
	doc, err := htmlquery.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parsing skeleton markup: %w", err)
	}
	body := htmlquery.FindOne(doc, "//body")
	if body == nil {
		return nil, fmt.Errorf("parsing skeleton markup: no content")
	}

	sk := &Skeleton{
		body:     body,
		segments: make(map[SegmentID]*html.Node),
		ids:      make(map[string]bool),
	}

	for _, n := range htmlquery.Find(body, "//*[@id]") {
		id := getAttr(n, "id")
		sk.ids[id] = true
		if hasClass(n, "segment") {
			sid := SegmentID(id)
			if _, dup := sk.segments[sid]; !dup {
				sk.segments[sid] = n
				sk.order = append(sk.order, sid)
			}
		}
	}
	sk.articles = htmlquery.Find(body, "//article")

	return sk, nil
}

// Segment returns the container for the given id, if any.
func (sk *Skeleton) Segment(id SegmentID) (*html.Node, bool) {
	n, ok := sk.segments[id]
	return n, ok
}

// SegmentIDs returns the segment ids in document order.
func (sk *Skeleton) SegmentIDs() []SegmentID {
	out := make([]SegmentID, len(sk.order))
	copy(out, sk.order)
	return out
}

// HasID reports whether any element currently carries the given id.
func (sk *Skeleton) HasID(id string) bool {
	return sk.ids[id]
}

// Render serializes the populated document back to HTML.
func (sk *Skeleton) Render() (string, error) {
	var buf bytes.Buffer
	for c := sk.body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("rendering skeleton: %w", err)
		}
	}
	return buf.String(), nil
}

// RenderSegment serializes a single segment container, mainly for tests.
func (sk *Skeleton) RenderSegment(id SegmentID) (string, error) {
	n, ok := sk.segments[id]
	if !ok {
		return "", fmt.Errorf("segment %q not in skeleton", id)
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// --- node helpers ---

func createSpan(class string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     "span",
		DataAtom: atom.Span,
	}
	if class != "" {
		setAttr(n, "class", class)
	}
	return n
}

func createAnchor(class string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     "a",
		DataAtom: atom.A,
	}
	if class != "" {
		setAttr(n, "class", class)
	}
	return n
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

func hasClass(n *html.Node, class string) bool {
	for _, f := range strings.Fields(getAttr(n, "class")) {
		if f == class {
			return true
		}
	}
	return false
}

func addClass(n *html.Node, class string) {
	if hasClass(n, class) {
		return
	}
	cur := getAttr(n, "class")
	if cur == "" {
		setAttr(n, "class", class)
		return
	}
	setAttr(n, "class", cur+" "+class)
}

func removeClass(n *html.Node, class string) {
	fields := strings.Fields(getAttr(n, "class"))
	var kept []string
	for _, f := range fields {
		if f != class {
			kept = append(kept, f)
		}
	}
	if len(kept) == 0 {
		removeAttr(n, "class")
		return
	}
	setAttr(n, "class", strings.Join(kept, " "))
}

func prependChild(parent, child *html.Node) {
	if parent.FirstChild != nil {
		parent.InsertBefore(child, parent.FirstChild)
		return
	}
	parent.AppendChild(child)
}

func removeChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}

// setFragment replaces a node's children with the parsed HTML fragment.
func setFragment(n *html.Node, fragment string) error {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "span",
		DataAtom: atom.Span,
	})
	if err != nil {
		return fmt.Errorf("parsing overlay fragment: %w", err)
	}
	removeChildren(n)
	for _, c := range nodes {
		n.AppendChild(c)
	}
	return nil
}

// findDescendant returns the first descendant (depth first) matched by pred.
func findDescendant(n *html.Node, pred func(*html.Node) bool) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && pred(c) {
			return c
		}
		if found := findDescendant(c, pred); found != nil {
			return found
		}
	}
	return nil
}

// findAllDescendants collects every descendant matched by pred in document order.
func findAllDescendants(n *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(p *html.Node) {
		for c := p.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && pred(c) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// classFinder matches element nodes by class.
func classFinder(class string) func(*html.Node) bool {
	return func(n *html.Node) bool { return hasClass(n, class) }
}

// innerText concatenates the text content of a node, HTML stripped.
func innerText(n *html.Node) string {
	var buf bytes.Buffer
	var walk func(*html.Node)
	walk = func(p *html.Node) {
		for c := p.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				buf.WriteString(c.Data)
			}
			walk(c)
		}
	}
	walk(n)
	return buf.String()
}
