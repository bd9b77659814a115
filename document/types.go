// Package document defines the word-processor document model consumed by the
// style mapping engine. Values are produced by a reader (see package docx) and
// are never modified afterwards.
package document

import "fmt"

// NumberingLevel describes paragraph list membership: zero based nesting
// level and whether list is ordered.
type NumberingLevel struct {
	Level     int
	IsOrdered bool
}

func (n NumberingLevel) String() string {
	kind := "unordered"
	if n.IsOrdered {
		kind = "ordered"
	}
	return fmt.Sprintf("%s-list(%d)", kind, n.Level+1)
}

// Inline is content which may appear inside paragraphs and runs.
type Inline interface {
	inline()
}

// Text is a piece of run text.
type Text struct {
	Value string
}

// Tab is a tab character in run content.
type Tab struct{}

// Break is a line break in run content.
type Break struct{}

// Run is a contiguous piece of paragraph content sharing character style.
type Run struct {
	StyleID   string // empty when absent
	StyleName string // empty when absent
	Children  []Inline
}

func (Text) inline()  {}
func (Tab) inline()   {}
func (Break) inline() {}
func (*Run) inline()  {}

// Paragraph is a block level element of the document body.
type Paragraph struct {
	StyleID   string // empty when absent
	StyleName string // empty when absent
	Numbering *NumberingLevel
	Children  []Inline
}

// Document is a flat sequence of paragraphs in document order.
type Document struct {
	Paragraphs []*Paragraph
}

// NewParagraph is a convenience constructor used by readers and tests.
func NewParagraph(styleID, styleName string, numbering *NumberingLevel, children ...Inline) *Paragraph {
	return &Paragraph{
		StyleID:   styleID,
		StyleName: styleName,
		Numbering: numbering,
		Children:  children,
	}
}

// NewRun is a convenience constructor used by readers and tests.
func NewRun(styleID, styleName string, children ...Inline) *Run {
	return &Run{
		StyleID:   styleID,
		StyleName: styleName,
		Children:  children,
	}
}

// Numbering returns pointer to a new numbering level.
func Numbering(level int, ordered bool) *NumberingLevel {
	return &NumberingLevel{Level: level, IsOrdered: ordered}
}

// PlainText returns concatenated text of the paragraph, tabs and breaks are
// rendered as whitespace. Used for diagnostics.
func (p *Paragraph) PlainText() string {
	var buf []byte
	buf = appendPlainText(buf, p.Children)
	return string(buf)
}

func appendPlainText(buf []byte, items []Inline) []byte {
	for _, item := range items {
		switch v := item.(type) {
		case Text:
			buf = append(buf, v.Value...)
		case Tab:
			buf = append(buf, '\t')
		case Break:
			buf = append(buf, '\n')
		case *Run:
			buf = appendPlainText(buf, v.Children)
		}
	}
	return buf
}
