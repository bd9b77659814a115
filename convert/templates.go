package convert

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"dxh/config"
	"dxh/document"
	"dxh/docx"
)

// Values is a struct that holds variables we make available for template
// expansion.
type Values struct {
	Context    string
	Name       string
	SourceFile string
	Title      string
	Subject    string
	Creator    string
	Heading    string
	Paragraphs int
}

func newValues(src string, f *docx.File) Values {
	v := Values{
		Name:       strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)),
		SourceFile: filepath.ToSlash(src),
	}
	if f == nil {
		return v
	}
	v.Title = strings.TrimSpace(f.Properties.Title)
	v.Subject = strings.TrimSpace(f.Properties.Subject)
	v.Creator = strings.TrimSpace(f.Properties.Creator)
	if f.Document != nil {
		v.Paragraphs = len(f.Document.Paragraphs)
		v.Heading = firstHeading(f.Document)
	}
	return v
}

// firstHeading returns text of the first non empty paragraph styled as a
// heading, by id or by name.
func firstHeading(doc *document.Document) string {
	for _, p := range doc.Paragraphs {
		if !isHeadingStyle(p.StyleID) && !isHeadingStyle(p.StyleName) {
			continue
		}
		if text := strings.TrimSpace(p.PlainText()); text != "" {
			return text
		}
	}
	return ""
}

func isHeadingStyle(s string) bool {
	return strings.HasPrefix(strings.ToLower(s), "heading") || strings.EqualFold(s, "title")
}

func expandTemplate(name config.TemplateFieldName, field string, values Values) (string, error) {
	tmpl, err := template.New(string(name)).Funcs(sprig.FuncMap()).Parse(field)
	if err != nil {
		return "", fmt.Errorf("unable to parse template field %s: %w", name, err)
	}

	values.Context = string(name)

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return "", fmt.Errorf("unable to expand template field %s: %w", name, err)
	}
	return buf.String(), nil
}
