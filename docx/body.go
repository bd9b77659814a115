package docx

import (
	"github.com/beevik/etree"
	"go.uber.org/zap"

	"dxh/document"
)

// ignoredTags carry formatting, annotations or deleted content which does
// not reach document model.
var ignoredTags = map[string]bool{
	"pPr": true, "rPr": true, "sectPr": true, "tblPr": true, "tblGrid": true,
	"trPr": true, "tcPr": true, "sdtPr": true, "sdtEndPr": true,
	"bookmarkStart": true, "bookmarkEnd": true, "proofErr": true,
	"commentRangeStart": true, "commentRangeEnd": true, "commentReference": true,
	"permStart": true, "permEnd": true, "lastRenderedPageBreak": true,
	"del": true, "delText": true, "moveFrom": true, "instrText": true, "fldChar": true,
	"footnoteReference": true, "endnoteReference": true, "annotationRef": true,
	"drawing": true, "pict": true, "object": true,
}

type bodyReader struct {
	styles    styleNames
	numbering numbering
	log       *zap.Logger
	// unknown tags are reported once
	reported map[string]bool
}

func (b *bodyReader) skip(el *etree.Element, parent string) {
	if ignoredTags[el.Tag] || b.reported[el.FullTag()] {
		return
	}
	b.reported[el.FullTag()] = true
	b.log.Debug("Skipping unsupported element", zap.String("parent", parent), zap.String("tag", el.FullTag()))
}

// readBlocks collects paragraphs of block container: body, table cell,
// structured document tag content.
func (b *bodyReader) readBlocks(el *etree.Element, out []*document.Paragraph) []*document.Paragraph {
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "p":
			out = append(out, b.readParagraph(child))
		case "tbl":
			// tables are flattened, cell paragraphs are kept in reading order
			for _, row := range child.SelectElements("tr") {
				for _, cell := range row.SelectElements("tc") {
					out = b.readBlocks(cell, out)
				}
			}
		case "sdt":
			if content := child.SelectElement("sdtContent"); content != nil {
				out = b.readBlocks(content, out)
			}
		case "customXml", "ins", "moveTo":
			out = b.readBlocks(child, out)
		default:
			b.skip(child, el.Tag)
		}
	}
	return out
}

func (b *bodyReader) readParagraph(el *etree.Element) *document.Paragraph {
	var (
		styleID string
		ref     *numberingRef
	)
	if ppr := el.SelectElement("pPr"); ppr != nil {
		if st := ppr.SelectElement("pStyle"); st != nil {
			styleID = st.SelectAttrValue("w:val", "")
		}
		ref = readNumberingRef(ppr)
	}
	style := b.styles.paragraph[styleID]
	ref = ref.inherit(style.numbering)
	return document.NewParagraph(styleID, style.name, b.numbering.level(ref), b.readInlines(el, nil)...)
}

// readInlines collects paragraph level content. Hyperlinks, smart tags,
// simple fields and insertions are transparent.
func (b *bodyReader) readInlines(el *etree.Element, out []document.Inline) []document.Inline {
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "r":
			out = append(out, b.readRun(child))
		case "hyperlink", "smartTag", "fldSimple", "ins", "moveTo", "customXml", "dir", "bdo":
			out = b.readInlines(child, out)
		case "sdt":
			if content := child.SelectElement("sdtContent"); content != nil {
				out = b.readInlines(content, out)
			}
		default:
			b.skip(child, el.Tag)
		}
	}
	return out
}

func (b *bodyReader) readRun(el *etree.Element) *document.Run {
	var styleID string
	if rpr := el.SelectElement("rPr"); rpr != nil {
		if st := rpr.SelectElement("rStyle"); st != nil {
			styleID = st.SelectAttrValue("w:val", "")
		}
	}

	var children []document.Inline
	for _, child := range el.ChildElements() {
		switch child.Tag {
		case "t":
			if text := child.Text(); text != "" {
				children = append(children, document.Text{Value: text})
			}
		case "tab", "ptab":
			children = append(children, document.Tab{})
		case "br":
			// page and column breaks do not belong to text flow
			if typ := child.SelectAttrValue("w:type", "textWrapping"); typ == "textWrapping" {
				children = append(children, document.Break{})
			}
		case "cr":
			children = append(children, document.Break{})
		case "noBreakHyphen":
			children = append(children, document.Text{Value: "\u2011"})
		case "softHyphen":
			children = append(children, document.Text{Value: "\u00ad"})
		default:
			b.skip(child, el.Tag)
		}
	}
	return document.NewRun(styleID, b.styles.character[styleID].name, children...)
}
