package bilara

import "strings"

// Edition describes a citation numbering scheme of a printed or digital
// edition, as served by the edition metadata endpoint.
type Edition struct {
	UID        string `json:"uid"`
	EditionSet string `json:"edition_set"`
	LongName   string `json:"long_name"`
}

// AnnotateReferences turns the raw citation strings of the reference overlay
// into anchors inside each segment's reference span. Tokens are comma
// separated; whitespace is insignificant. Each token becomes one anchor,
// addressable by URL fragment equal to the token, classified into a citation
// family by longest-prefix match against known edition uids.
//
// editions may be nil (the metadata fetch failed): citations then degrade to
// using the raw token as both class and id, never dropping a token.
func AnnotateReferences(sk *Skeleton, refs Overlay, editions []Edition) {
	for id, raw := range refs {
		seg, ok := sk.segments[id]
		if !ok {
			continue
		}
		refSpan := findDescendant(seg, classFinder("reference"))
		if refSpan == nil {
			continue
		}
		for _, token := range splitReferenceTokens(raw) {
			if sk.ids[token] {
				continue
			}
			class, title := classifyReferenceToken(token, editions)
			a := createAnchor(class)
			setAttr(a, "title", title)
			setAttr(a, "id", token)
			setAttr(a, "href", "#"+token)
			a.AppendChild(textNode(token))
			refSpan.AppendChild(a)
			sk.ids[token] = true
		}
	}
}

func splitReferenceTokens(raw string) []string {
	stripped := strings.ReplaceAll(raw, " ", "")
	stripped = strings.ReplaceAll(stripped, "\t", "")
	if stripped == "" {
		return nil
	}
	var tokens []string
	for _, t := range strings.Split(stripped, ",") {
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// classifyReferenceToken resolves the citation family class and display
// title for a token. The edition is found by trying the full token as a uid,
// then progressively shorter prefixes; first match wins. A few families are
// collapsed onto their canonical class regardless of the concrete edition
// uid, matching the published anchor classes.
func classifyReferenceToken(token string, editions []Edition) (class, title string) {
	edition := lookupEditionByPrefix(token, editions)

	switch {
	case edition != nil && strings.HasPrefix(edition.UID, "pts"):
		class = "pts"
	case edition != nil && strings.HasPrefix(edition.UID, "sya"):
		class = "sya"
	case edition != nil && strings.HasPrefix(edition.UID, "csp"):
		class = "csp"
	case len(token) >= 2 && token[:2] == "sc":
		class = "sc"
	case edition != nil:
		class = edition.UID
	}
	if class == "" {
		class = token
	}

	title = token
	if edition != nil && edition.LongName != "" {
		title = edition.LongName
	}
	return class, title
}

func lookupEditionByPrefix(token string, editions []Edition) *Edition {
	for i := len(token); i >= 0; i-- {
		prefix := token[:i]
		if prefix == "" {
			break
		}
		// "sya" style tokens cite the combined edition entry.
		if prefix == "sya" {
			if e := findEdition("sya-all", editions); e != nil {
				return e
			}
		}
		if e := findEdition(prefix, editions); e != nil {
			return e
		}
	}
	return nil
}

func findEdition(uid string, editions []Edition) *Edition {
	for i := range editions {
		if editions[i].UID == uid {
			return &editions[i]
		}
	}
	return nil
}
