package htmltree

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// toNetHTML converts tree into golang.org/x/net/html nodes attached to parent.
func toNetHTML(parent *html.Node, nodes []Node) {
	for _, n := range nodes {
		switch v := n.(type) {
		case Text:
			parent.AppendChild(&html.Node{Type: html.TextNode, Data: string(v)})
		case *Element:
			el := &html.Node{
				Type:     html.ElementNode,
				Data:     v.Tag,
				DataAtom: atom.Lookup([]byte(v.Tag)),
			}
			if len(v.ClassNames) > 0 {
				el.Attr = []html.Attribute{{Key: "class", Val: strings.Join(v.ClassNames, " ")}}
			}
			toNetHTML(el, v.Children)
			parent.AppendChild(el)
		}
	}
}

// Write renders nodes as HTML fragment.
func Write(w io.Writer, nodes []Node) error {
	root := &html.Node{Type: html.DocumentNode}
	toNetHTML(root, nodes)
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(w, c); err != nil {
			return fmt.Errorf("unable to render html: %w", err)
		}
	}
	return nil
}

// WriteDocument renders nodes as body of complete HTML5 document.
func WriteDocument(w io.Writer, title string, nodes []Node) error {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	htmlEl := &html.Node{Type: html.ElementNode, Data: "html", DataAtom: atom.Html}
	head := &html.Node{Type: html.ElementNode, Data: "head", DataAtom: atom.Head}
	head.AppendChild(&html.Node{
		Type: html.ElementNode, Data: "meta", DataAtom: atom.Meta,
		Attr: []html.Attribute{{Key: "charset", Val: "utf-8"}},
	})
	if title != "" {
		t := &html.Node{Type: html.ElementNode, Data: "title", DataAtom: atom.Title}
		t.AppendChild(&html.Node{Type: html.TextNode, Data: title})
		head.AppendChild(t)
	}
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	toNetHTML(body, nodes)

	htmlEl.AppendChild(head)
	htmlEl.AppendChild(body)
	doc.AppendChild(htmlEl)

	if err := html.Render(w, doc); err != nil {
		return fmt.Errorf("unable to render html document: %w", err)
	}
	return nil
}

// String renders nodes as HTML fragment.
func String(nodes ...Node) string {
	var buf bytes.Buffer
	if err := Write(&buf, nodes); err != nil {
		// rendering into memory buffer could only fail on malformed tree
		return ""
	}
	return buf.String()
}
