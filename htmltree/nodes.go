// Package htmltree defines HTML node tree produced by style mapping and its
// rendering to text.
package htmltree

import "slices"

// Node is either *Element or Text.
type Node interface {
	node()
}

// Element is an HTML element with ordered classes and children.
type Element struct {
	Tag        string
	ClassNames []string
	Children   []Node
}

// Text is a leaf with character data, it is escaped when rendered.
type Text string

func (*Element) node() {}
func (Text) node()     {}

// NewElement creates element without children.
func NewElement(tag string, classNames ...string) *Element {
	return &Element{Tag: tag, ClassNames: slices.Clone(classNames)}
}

// Append adds children to the element.
func (e *Element) Append(children ...Node) {
	e.Children = append(e.Children, children...)
}

// ChildElements returns element children skipping text.
func (e *Element) ChildElements() []*Element {
	var out []*Element
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok {
			out = append(out, el)
		}
	}
	return out
}

// TextContent returns concatenated text of all descendants.
func TextContent(nodes ...Node) string {
	var buf []byte
	buf = appendText(buf, nodes)
	return string(buf)
}

func appendText(buf []byte, nodes []Node) []byte {
	for _, n := range nodes {
		switch v := n.(type) {
		case Text:
			buf = append(buf, v...)
		case *Element:
			buf = appendText(buf, v.Children)
		}
	}
	return buf
}
