// Package docx reads WordprocessingML containers (.docx) into document
// model. Only structure style mapping needs is kept: paragraphs, runs, their
// styles, list numbering, text, tabs and breaks.
package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"dxh/archive"
	"dxh/document"
)

const (
	defaultDocumentPart = "word/document.xml"
	corePropertiesPart  = "docProps/core.xml"
	packageRelsPart     = "_rels/.rels"

	// parts bigger than that are not real documents
	maxPartSize = 256 << 20
)

// Properties are core document properties.
type Properties struct {
	Title   string
	Subject string
	Creator string
}

// File is parsed container.
type File struct {
	Document   *document.Document
	Properties Properties
}

// ReadFile parses docx file at path.
func ReadFile(name string, log *zap.Logger) (*File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return Read(f, info.Size(), log)
}

// ReadBytes parses docx container held in memory.
func ReadBytes(data []byte, log *zap.Logger) (*File, error) {
	return Read(bytes.NewReader(data), int64(len(data)), log)
}

// Read parses docx container. Absence of styles and numbering parts is
// legal, absence of main document part is not.
func Read(r io.ReaderAt, size int64, log *zap.Logger) (*File, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("docx")

	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("unable to open docx container: %w", err)
	}
	c := &container{zr: zr, log: log}

	mainPart := c.mainDocumentPart()
	doc, err := c.readXML(mainPart)
	if err != nil {
		return nil, fmt.Errorf("unable to read main document part: %w", err)
	}

	rels := c.relationships(mainPart)
	styles := newStyleNames()
	if sd, err := c.readOptionalXML(rels.target(relTypeStyles, "word/styles.xml")); err != nil {
		return nil, err
	} else if sd != nil {
		styles = readStyles(sd, log)
	}
	numbering := newNumbering()
	if nd, err := c.readOptionalXML(rels.target(relTypeNumbering, "word/numbering.xml")); err != nil {
		return nil, err
	} else if nd != nil {
		numbering = readNumbering(nd, log)
	}

	body, err := documentBody(doc)
	if err != nil {
		return nil, err
	}
	br := &bodyReader{styles: styles, numbering: numbering, log: log, reported: make(map[string]bool)}
	res := &File{Document: &document.Document{Paragraphs: br.readBlocks(body, nil)}}

	if pd, err := c.readOptionalXML(corePropertiesPart); err != nil {
		return nil, err
	} else if pd != nil {
		res.Properties = readProperties(pd)
	}

	log.Debug("Document parsed",
		zap.String("part", mainPart),
		zap.Int("paragraphs", len(res.Document.Paragraphs)),
		zap.Int("styles", styles.len()),
		zap.String("title", res.Properties.Title))
	return res, nil
}

func documentBody(doc *etree.Document) (*etree.Element, error) {
	root := doc.Root()
	if root == nil {
		return nil, errors.New("document part has no root element")
	}
	if root.Tag != "document" {
		return nil, fmt.Errorf("unexpected root element %q in document part", root.FullTag())
	}
	body := root.SelectElement("body")
	if body == nil {
		return nil, errors.New("document part has no body")
	}
	return body, nil
}

type container struct {
	zr  *zip.Reader
	log *zap.Logger
}

func (c *container) readXML(name string) (*etree.Document, error) {
	data, err := archive.ReadFile(c.zr, name, maxPartSize)
	if err != nil {
		return nil, err
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", name, err)
	}
	return doc, nil
}

// readOptionalXML returns nil document without error when part is absent.
func (c *container) readOptionalXML(name string) (*etree.Document, error) {
	doc, err := c.readXML(name)
	if errors.Is(err, fs.ErrNotExist) {
		c.log.Debug("Optional part is absent", zap.String("part", name))
		return nil, nil
	}
	return doc, err
}

// mainDocumentPart locates main part through package relationships.
func (c *container) mainDocumentPart() string {
	doc, err := c.readOptionalXML(packageRelsPart)
	if err != nil || doc == nil {
		return defaultDocumentPart
	}
	return parseRelationships(doc, "").target(relTypeOfficeDocument, defaultDocumentPart)
}

// relationships returns relationships of part, empty set when it has none.
func (c *container) relationships(part string) relationships {
	dir, file := path.Split(part)
	name := path.Join(dir, "_rels", file+".rels")
	doc, err := c.readOptionalXML(name)
	if err != nil {
		c.log.Debug("Ignoring broken relationships", zap.String("part", name), zap.Error(err))
		return relationships{}
	}
	if doc == nil {
		return relationships{}
	}
	return parseRelationships(doc, dir)
}

func readProperties(doc *etree.Document) Properties {
	var p Properties
	root := doc.Root()
	if root == nil {
		return p
	}
	for _, child := range root.ChildElements() {
		switch child.Tag {
		case "title":
			p.Title = child.Text()
		case "subject":
			p.Subject = child.Text()
		case "creator":
			p.Creator = child.Text()
		}
	}
	return p
}
