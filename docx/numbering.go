package docx

import (
	"strconv"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"dxh/document"
)

// levelFormats maps list level to whether it is ordered.
type levelFormats map[int]bool

// numbering resolves w:numId and w:ilvl to list kind through numbering.xml.
type numbering struct {
	abstract map[string]levelFormats
	// nums maps numId to abstractNumId
	nums map[string]string
	// overrides per numId take precedence over abstract definitions
	overrides map[string]levelFormats
}

func newNumbering() numbering {
	return numbering{
		abstract:  make(map[string]levelFormats),
		nums:      make(map[string]string),
		overrides: make(map[string]levelFormats),
	}
}

func readNumbering(doc *etree.Document, log *zap.Logger) numbering {
	n := newNumbering()
	root := doc.Root()
	if root == nil {
		return n
	}
	for _, el := range root.SelectElements("abstractNum") {
		id := el.SelectAttrValue("w:abstractNumId", "")
		n.abstract[id] = readLevels(el)
	}
	for _, el := range root.SelectElements("num") {
		id := el.SelectAttrValue("w:numId", "")
		if ref := el.SelectElement("abstractNumId"); ref != nil {
			n.nums[id] = ref.SelectAttrValue("w:val", "")
		}
		for _, o := range el.SelectElements("lvlOverride") {
			lvl := o.SelectElement("lvl")
			if lvl == nil {
				continue
			}
			if n.overrides[id] == nil {
				n.overrides[id] = make(levelFormats)
			}
			n.overrides[id][atoi(o.SelectAttrValue("w:ilvl", "0"))] = isOrderedLevel(lvl)
		}
	}
	log.Debug("Numbering parsed", zap.Int("abstract", len(n.abstract)), zap.Int("instances", len(n.nums)))
	return n
}

func readLevels(abstractNum *etree.Element) levelFormats {
	levels := make(levelFormats)
	for _, lvl := range abstractNum.SelectElements("lvl") {
		levels[atoi(lvl.SelectAttrValue("w:ilvl", "0"))] = isOrderedLevel(lvl)
	}
	return levels
}

// isOrderedLevel treats every format but bullet as ordered. Level without
// format is decimal.
func isOrderedLevel(lvl *etree.Element) bool {
	format := lvl.SelectElement("numFmt")
	if format == nil {
		return true
	}
	return format.SelectAttrValue("w:val", "decimal") != "bullet"
}

// level returns numbering of paragraph, nil when numId is unknown.
func (n numbering) level(ref *numberingRef) *document.NumberingLevel {
	if ref == nil {
		return nil
	}
	if ordered, ok := n.overrides[ref.numID][ref.level]; ok {
		return document.Numbering(ref.level, ordered)
	}
	abstractID, ok := n.nums[ref.numID]
	if !ok {
		return nil
	}
	ordered, ok := n.abstract[abstractID][ref.level]
	if !ok {
		// level is not described, keep list but assume ordered
		ordered = true
	}
	return document.Numbering(ref.level, ordered)
}

func atoi(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
