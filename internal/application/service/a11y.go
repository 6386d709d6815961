package service

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

var textInputTypes = map[string]bool{
	"":         true,
	"text":     true,
	"email":    true,
	"password": true,
	"search":   true,
	"tel":      true,
	"url":      true,
	"number":   true,
}

// UnnamedInputs lists text-like controls in doc that have no accessible name.
// A name may come from aria-label, aria-labelledby, a label (for= or
// wrapping), placeholder or title.
func UnnamedInputs(doc string) ([]string, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	texts := make(map[string]string)
	labelled := make(map[string]bool)
	walk(root, func(n *html.Node) {
		if id := attr(n, "id"); id != "" {
			texts[id] = textContent(n)
		}
		if n.Data == "label" {
			if target := attr(n, "for"); target != "" && textContent(n) != "" {
				labelled[target] = true
			}
		}
	})

	var unnamed []string
	walk(root, func(n *html.Node) {
		if !isTextControl(n) {
			return
		}
		if hasAccessibleName(n, texts, labelled) {
			return
		}
		unnamed = append(unnamed, describe(n))
	})
	return unnamed, nil
}

func isTextControl(n *html.Node) bool {
	switch n.Data {
	case "textarea":
		return true
	case "input":
		return textInputTypes[strings.ToLower(attr(n, "type"))]
	}
	return false
}

func hasAccessibleName(n *html.Node, texts map[string]string, labelled map[string]bool) bool {
	for _, key := range []string{"aria-label", "placeholder", "title"} {
		if strings.TrimSpace(attr(n, key)) != "" {
			return true
		}
	}
	for _, ref := range strings.Fields(attr(n, "aria-labelledby")) {
		if texts[ref] != "" {
			return true
		}
	}
	if id := attr(n, "id"); id != "" && labelled[id] {
		return true
	}
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.Data == "label" && textContent(p) != "" {
			return true
		}
	}
	return false
}

func describe(n *html.Node) string {
	var b strings.Builder
	b.WriteString(n.Data)
	for _, key := range []string{"id", "name", "type"} {
		if v := attr(n, key); v != "" {
			fmt.Fprintf(&b, "[%s=%q]", key, v)
		}
	}
	return b.String()
}

func walk(n *html.Node, fn func(*html.Node)) {
	if n.Type == html.ElementNode {
		fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
