package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Document is a parsed HTML page.
type Document struct {
	doc *goquery.Document
}

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &Document{doc: doc}, nil
}

// ParseString is Parse for an in-memory string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// FromGoquery wraps an existing goquery document.
func FromGoquery(doc *goquery.Document) *Document {
	return &Document{doc: doc}
}

// Root returns the <html> element.
func (d *Document) Root() Node {
	if nodes := d.Find("html"); len(nodes) > 0 {
		return nodes[0]
	}
	return nil
}

// Title returns the normalized text of the first document <title>.
// SVG titles are chart metadata and are skipped.
func (d *Document) Title() string {
	titles := d.doc.Find("title").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Closest("svg").Length() == 0
	})
	return strings.Join(strings.Fields(titles.First().Text()), " ")
}

// Find returns the elements matching a CSS selector.
func (d *Document) Find(selector string) []Node {
	return FromSelection(d.doc.Find(selector))
}

// HTML renders the current document, including attribute changes.
func (d *Document) HTML() (string, error) {
	return d.doc.Html()
}

// FromSelection converts the element nodes of a goquery selection.
func FromSelection(s *goquery.Selection) []Node {
	out := make([]Node, 0, s.Length())
	for _, n := range s.Nodes {
		if n.Type == html.ElementNode {
			out = append(out, htmlNode{n: n})
		}
	}
	return out
}

// htmlNode adapts *html.Node. The value wraps a pointer so it compares by identity.
type htmlNode struct {
	n *html.Node
}

func (h htmlNode) Tag() string { return strings.ToLower(h.n.Data) }

func (h htmlNode) Attr(name string) (string, bool) {
	for _, a := range h.n.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val, true
		}
	}
	return "", false
}

func (h htmlNode) SetAttr(name, value string) {
	for i, a := range h.n.Attr {
		if strings.EqualFold(a.Key, name) {
			h.n.Attr[i].Val = value
			return
		}
	}
	h.n.Attr = append(h.n.Attr, html.Attribute{Key: name, Val: value})
}

func (h htmlNode) RemoveAttr(name string) {
	kept := h.n.Attr[:0]
	for _, a := range h.n.Attr {
		if !strings.EqualFold(a.Key, name) {
			kept = append(kept, a)
		}
	}
	h.n.Attr = kept
}

func (h htmlNode) Children() []Node {
	var out []Node
	for c := h.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, htmlNode{n: c})
		}
	}
	return out
}

func (h htmlNode) Parent() Node {
	if h.n.Parent == nil || h.n.Parent.Type != html.ElementNode {
		return nil
	}
	return htmlNode{n: h.n.Parent}
}

func (h htmlNode) Text() string {
	return goquery.NewDocumentFromNode(h.n).Text()
}
