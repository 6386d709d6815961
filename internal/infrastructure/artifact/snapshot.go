package artifact

import (
	"strings"

	"golang.org/x/net/html"
)

// MaxSnapshotSize caps a saved page snapshot in bytes.
const MaxSnapshotSize = 512 << 10

var droppedTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"svg":      true,
	"iframe":   true,
	"link":     true,
	"meta":     true,
}

// CleanSnapshot reduces a page dump to the markup of its body: scripts,
// styles, comments and inline event handlers are removed. Attributes a
// locator can match on (id, name, type, placeholder, role, aria-*, data-*)
// are kept. Input that cannot be parsed is returned unchanged.
func CleanSnapshot(raw string) string {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return raw
	}
	body := findBody(doc)
	if body == nil {
		return raw
	}
	clean(body)

	var sb strings.Builder
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&sb, c)
	}
	out := strings.TrimSpace(sb.String())
	if len(out) > MaxSnapshotSize {
		out = out[:MaxSnapshotSize] + "\n<!-- truncated -->"
	}
	return out
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

func clean(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch {
		case c.Type == html.CommentNode:
			n.RemoveChild(c)
		case c.Type == html.ElementNode && droppedTags[c.Data]:
			n.RemoveChild(c)
		case c.Type == html.ElementNode:
			c.Attr = keepAttrs(c.Attr)
			clean(c)
		}
		c = next
	}
}

func keepAttrs(attrs []html.Attribute) []html.Attribute {
	kept := attrs[:0]
	for _, a := range attrs {
		if a.Key == "style" || strings.HasPrefix(a.Key, "on") {
			continue
		}
		kept = append(kept, a)
	}
	return kept
}
