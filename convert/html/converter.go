// Package html applies style map to document producing HTML node tree and
// writes it out.
package html

import (
	"fmt"

	"go.uber.org/zap"

	"dxh/document"
	"dxh/htmltree"
	"dxh/styles"
	"dxh/utils/debug"
)

// defaultParagraphPath is used for paragraphs no mapping accepts. Unmatched
// runs are not wrapped.
var defaultParagraphPath = styles.NewHTMLPath(styles.NewPathElement([]string{"p"}, nil, true))

// MessageType classifies conversion messages.
type MessageType string

const MessageWarning MessageType = "warning"

// Message is a diagnostic produced during conversion.
type Message struct {
	Type MessageType
	Text string
}

func (m Message) String() string {
	return string(m.Type) + ": " + m.Text
}

// Result is a converted document.
type Result struct {
	Nodes    []htmltree.Node
	Messages []Message
}

// Dump describes result for debug report: node tree followed by messages.
func (r Result) Dump() string {
	msgs := make([]string, 0, len(r.Messages))
	for _, m := range r.Messages {
		msgs = append(msgs, m.String())
	}
	tw := debug.NewTreeWriter()
	tw.List(0, "messages", msgs)
	return htmltree.Dump(r.Nodes...) + tw.String()
}

// Converter applies style map to documents. It keeps no per document state
// and could be used for concurrent conversions.
type Converter struct {
	styleMap styles.StyleMap
	log      *zap.Logger
}

// NewConverter creates converter for style map.
func NewConverter(sm styles.StyleMap, log *zap.Logger) *Converter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Converter{styleMap: sm, log: log.Named("html")}
}

// Convert folds document paragraphs into HTML tree. It never fails, elements
// without mapping get default treatment and a warning.
func (c *Converter) Convert(doc *document.Document) Result {
	cv := &conversion{
		Converter: c,
		seen:      make(map[string]bool),
	}
	block := newOpenElements(func(n htmltree.Node) {
		cv.nodes = append(cv.nodes, n)
	})
	for _, p := range doc.Paragraphs {
		cv.paragraph(block, p)
	}
	c.log.Debug("Document converted",
		zap.Int("paragraphs", len(doc.Paragraphs)),
		zap.Int("nodes", len(cv.nodes)),
		zap.Int("warnings", len(cv.messages)))
	return Result{Nodes: cv.nodes, Messages: cv.messages}
}

// conversion holds state of a single Convert call.
type conversion struct {
	*Converter
	nodes    []htmltree.Node
	messages []Message
	seen     map[string]bool
}

func (cv *conversion) paragraph(block *openElements, p *document.Paragraph) {
	path, ok := cv.styleMap.ParagraphPath(p)
	if !ok {
		path = defaultParagraphPath
		cv.unrecognised("paragraph", p.StyleID, p.StyleName)
	}
	if ce := cv.log.Check(zap.DebugLevel, "Placing paragraph"); ce != nil {
		ce.Write(zap.Stringer("path", path), zap.Stringer("open", block.path()), zap.Int("reused", block.reusable(path, len(path.Elements)-1)))
	}
	// every paragraph gets its own content element, only ancestors merge
	target := block.satisfy(path, false)
	cv.inlines(block.nested(target), p.Children)
}

func (cv *conversion) run(container *openElements, r *document.Run) {
	path, ok := cv.styleMap.RunPath(r)
	if !ok {
		path = styles.EmptyPath
		cv.unrecognised("run", r.StyleID, r.StyleName)
	}
	target := container.satisfy(path, true)
	cv.inlines(container.nested(target), r.Children)
}

func (cv *conversion) inlines(container *openElements, items []document.Inline) {
	for _, item := range items {
		switch v := item.(type) {
		case *document.Run:
			cv.run(container, v)
		case document.Text:
			container.satisfy(styles.EmptyPath, true)
			container.append(htmltree.Text(v.Value))
		case document.Tab:
			container.satisfy(styles.EmptyPath, true)
			container.append(htmltree.Text("\t"))
		case document.Break:
			container.satisfy(styles.EmptyPath, true)
			container.append(htmltree.NewElement("br"))
		}
	}
}

// unrecognised records warning for styled element without mapping, once per
// distinct style.
func (cv *conversion) unrecognised(kind, id, name string) {
	if id == "" && name == "" {
		return
	}
	key := kind + "\x00" + id + "\x00" + name
	if cv.seen[key] {
		return
	}
	cv.seen[key] = true

	text := fmt.Sprintf("Unrecognised %s style: %s (Style ID: %s)", kind, name, id)
	cv.messages = append(cv.messages, Message{Type: MessageWarning, Text: text})
	cv.log.Debug("Unrecognised style", zap.String("kind", kind), zap.String("id", id), zap.String("name", name))
}
