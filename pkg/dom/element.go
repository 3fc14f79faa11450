package dom

import "strings"

// Element is an in-memory Node. It is handy for building trees by hand
// and for sources that are not HTML.
type Element struct {
	tag      string
	attrs    map[string]string
	children []*Element
	parent   *Element
	text     string
}

// NewElement creates an element. text is the element's own text, placed
// before any children's text.
func NewElement(tag string, attrs map[string]string, text string, children ...*Element) *Element {
	e := &Element{
		tag:   strings.ToLower(tag),
		attrs: make(map[string]string, len(attrs)),
		text:  text,
	}
	for k, v := range attrs {
		e.attrs[strings.ToLower(k)] = v
	}
	for _, c := range children {
		e.Append(c)
	}
	return e
}

// Append adds c as the last child of e and returns e.
func (e *Element) Append(c *Element) *Element {
	c.parent = e
	e.children = append(e.children, c)
	return e
}

func (e *Element) Tag() string { return e.tag }

func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.attrs[strings.ToLower(name)]
	return v, ok
}

func (e *Element) SetAttr(name, value string) { e.attrs[strings.ToLower(name)] = value }

func (e *Element) RemoveAttr(name string) { delete(e.attrs, strings.ToLower(name)) }

func (e *Element) Children() []Node {
	out := make([]Node, len(e.children))
	for i, c := range e.children {
		out[i] = c
	}
	return out
}

func (e *Element) Parent() Node {
	if e.parent == nil {
		return nil
	}
	return e.parent
}

func (e *Element) Text() string {
	var sb strings.Builder
	e.writeText(&sb)
	return sb.String()
}

func (e *Element) writeText(sb *strings.Builder) {
	sb.WriteString(e.text)
	for _, c := range e.children {
		c.writeText(sb)
	}
}
