// Package dom provides a minimal element tree used by the extractor and the
// hit tester. Nodes expose tag, attributes, children and text content, so the
// extraction heuristics can run against parsed HTML or hand-built trees alike.
package dom

import "strings"

// Node is an element in a document tree.
type Node interface {
	// Tag returns the lower-cased tag name.
	Tag() string
	Attr(name string) (string, bool)
	// Children returns element children in document order.
	Children() []Node
	// Parent returns the parent element, or nil at the root.
	Parent() Node
	// Text returns the concatenated text content of the subtree.
	Text() string
}

// Mutable is implemented by nodes whose attributes can be changed.
type Mutable interface {
	SetAttr(name, value string)
	RemoveAttr(name string)
}

// Is reports whether n is an element with the given tag (case-insensitive).
func Is(n Node, tag string) bool {
	return n != nil && strings.EqualFold(n.Tag(), tag)
}

// Closest returns n or its nearest ancestor with the given tag, or nil.
func Closest(n Node, tag string) Node {
	for cur := n; cur != nil; cur = cur.Parent() {
		if Is(cur, tag) {
			return cur
		}
	}
	return nil
}

// Walk visits the descendants of n (not n itself) in document order.
func Walk(n Node, fn func(Node)) {
	if n == nil {
		return
	}
	for _, c := range n.Children() {
		fn(c)
		Walk(c, fn)
	}
}

// FindAll returns the descendants of n whose tag is one of tags, in document order.
func FindAll(n Node, tags ...string) []Node {
	var out []Node
	Walk(n, func(c Node) {
		for _, t := range tags {
			if Is(c, t) {
				out = append(out, c)
				return
			}
		}
	})
	return out
}

// ClassName returns the raw class attribute.
func ClassName(n Node) string {
	v, _ := n.Attr("class")
	return v
}

// HasClass reports whether the class list of n contains class exactly.
func HasClass(n Node, class string) bool {
	for _, c := range strings.Fields(ClassName(n)) {
		if c == class {
			return true
		}
	}
	return false
}

// TrimmedText returns the subtree text with surrounding whitespace removed.
func TrimmedText(n Node) string {
	return strings.TrimSpace(n.Text())
}
