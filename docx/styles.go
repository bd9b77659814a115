package docx

import (
	"github.com/beevik/etree"
	"go.uber.org/zap"
)

// numberingRef is w:numPr content.
type numberingRef struct {
	numID    string
	level    int
	hasLevel bool
}

type styleInfo struct {
	name string
	// paragraph styles may carry list numbering
	numbering *numberingRef
}

// styleNames indexes styles.xml by style type and id.
type styleNames struct {
	paragraph map[string]styleInfo
	character map[string]styleInfo
}

func newStyleNames() styleNames {
	return styleNames{
		paragraph: make(map[string]styleInfo),
		character: make(map[string]styleInfo),
	}
}

func (s styleNames) len() int {
	return len(s.paragraph) + len(s.character)
}

func readStyles(doc *etree.Document, log *zap.Logger) styleNames {
	s := newStyleNames()
	root := doc.Root()
	if root == nil {
		return s
	}
	for _, el := range root.SelectElements("style") {
		id := el.SelectAttrValue("w:styleId", "")
		if id == "" {
			continue
		}
		info := styleInfo{}
		if name := el.SelectElement("name"); name != nil {
			info.name = name.SelectAttrValue("w:val", "")
		}
		switch typ := el.SelectAttrValue("w:type", "paragraph"); typ {
		case "paragraph":
			if ppr := el.SelectElement("pPr"); ppr != nil {
				info.numbering = readNumberingRef(ppr)
			}
			s.paragraph[id] = info
		case "character":
			s.character[id] = info
		default:
			// table and numbering styles are of no interest
			log.Debug("Skipping style", zap.String("type", typ), zap.String("id", id))
		}
	}
	return s
}

// readNumberingRef reads w:numPr of pPr element. Numbering id "0" is kept,
// it removes numbering inherited from paragraph style. Either part may be
// missing, see inherit.
func readNumberingRef(ppr *etree.Element) *numberingRef {
	numPr := ppr.SelectElement("numPr")
	if numPr == nil {
		return nil
	}
	ref := &numberingRef{}
	if el := numPr.SelectElement("numId"); el != nil {
		ref.numID = el.SelectAttrValue("w:val", "")
	}
	if el := numPr.SelectElement("ilvl"); el != nil {
		ref.level = atoi(el.SelectAttrValue("w:val", "0"))
		ref.hasLevel = true
	}
	if ref.numID == "" && !ref.hasLevel {
		return nil
	}
	return ref
}

// inherit fills parts of paragraph numbering missing in ref from numbering
// of paragraph style.
func (ref *numberingRef) inherit(style *numberingRef) *numberingRef {
	if ref == nil {
		return style
	}
	if style == nil {
		if ref.numID == "" {
			return nil
		}
		return ref
	}
	out := *ref
	if out.numID == "" {
		out.numID = style.numID
	}
	if !out.hasLevel {
		out.level, out.hasLevel = style.level, style.hasLevel
	}
	return &out
}
