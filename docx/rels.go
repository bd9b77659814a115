package docx

import (
	"path"
	"strings"

	"github.com/beevik/etree"
)

const (
	relTypeOfficeDocument = "officeDocument"
	relTypeStyles         = "styles"
	relTypeNumbering      = "numbering"
)

// relationships maps relationship type (last segment of type URI) to part
// name resolved against source part directory.
type relationships map[string]string

func parseRelationships(doc *etree.Document, baseDir string) relationships {
	rels := make(relationships)
	root := doc.Root()
	if root == nil {
		return rels
	}
	for _, rel := range root.SelectElements("Relationship") {
		if rel.SelectAttrValue("TargetMode", "") == "External" {
			continue
		}
		typ := rel.SelectAttrValue("Type", "")
		target := rel.SelectAttrValue("Target", "")
		if typ == "" || target == "" {
			continue
		}
		kind := typ[strings.LastIndexByte(typ, '/')+1:]
		if _, exists := rels[kind]; exists {
			continue
		}
		if strings.HasPrefix(target, "/") {
			rels[kind] = strings.TrimPrefix(target, "/")
		} else {
			rels[kind] = path.Join(baseDir, target)
		}
	}
	return rels
}

func (r relationships) target(kind, fallback string) string {
	if t, ok := r[kind]; ok {
		return t
	}
	return fallback
}
