// Package styles implements style map rule language: document matchers, HTML
// output paths, their textual readers and prioritized style map.
package styles

import (
	"slices"
	"strings"

	"dxh/document"
)

// PathElement is a single level of HTML output structure.
type PathElement struct {
	TagNames   []string // alternatives, first one is used when element is created
	ClassNames []string // all must be present, in order
	Fresh      bool     // never reuse already open element
}

// NewPathElement creates path element owning copies of provided slices.
func NewPathElement(tagNames, classNames []string, fresh bool) PathElement {
	return PathElement{
		TagNames:   slices.Clone(tagNames),
		ClassNames: slices.Clone(classNames),
		Fresh:      fresh,
	}
}

// TagName returns tag name to use when new element is emitted.
func (e PathElement) TagName() string {
	if len(e.TagNames) == 0 {
		return ""
	}
	return e.TagNames[0]
}

// Accepts reports whether already emitted element with given tag and classes
// satisfies this level.
func (e PathElement) Accepts(tag string, classNames []string) bool {
	return slices.Contains(e.TagNames, tag) && slices.Equal(e.ClassNames, classNames)
}

// Equal compares path elements by value.
func (e PathElement) Equal(o PathElement) bool {
	return e.Fresh == o.Fresh &&
		slices.Equal(e.TagNames, o.TagNames) &&
		slices.Equal(e.ClassNames, o.ClassNames)
}

func (e PathElement) String() string {
	var sb strings.Builder
	sb.WriteString(strings.Join(e.TagNames, "|"))
	for _, c := range e.ClassNames {
		sb.WriteByte('.')
		sb.WriteString(c)
	}
	if e.Fresh {
		sb.WriteString(":fresh")
	}
	return sb.String()
}

// HTMLPath is a sequence of nested elements, outermost first. Empty path means
// content is emitted without a wrapper.
type HTMLPath struct {
	Elements []PathElement
}

// NewHTMLPath creates path from elements, outermost first.
func NewHTMLPath(elements ...PathElement) HTMLPath {
	return HTMLPath{Elements: slices.Clone(elements)}
}

// EmptyPath produces no wrapping elements.
var EmptyPath = HTMLPath{}

// IsEmpty reports whether path has no elements.
func (p HTMLPath) IsEmpty() bool {
	return len(p.Elements) == 0
}

// Equal compares paths by value.
func (p HTMLPath) Equal(o HTMLPath) bool {
	return slices.EqualFunc(p.Elements, o.Elements, PathElement.Equal)
}

func (p HTMLPath) String() string {
	parts := make([]string, 0, len(p.Elements))
	for _, e := range p.Elements {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, " > ")
}

// DocumentMatcher is a predicate over document elements. It is implemented
// only by ParagraphMatcher and RunMatcher, consumers switch over concrete type.
type DocumentMatcher interface {
	String() string
	documentMatcher()
}

// ParagraphMatcher selects paragraphs. Empty fields do not constrain.
type ParagraphMatcher struct {
	StyleID   string
	StyleName string
	Numbering *document.NumberingLevel
}

// RunMatcher selects runs. Empty fields do not constrain.
type RunMatcher struct {
	StyleID   string
	StyleName string
}

func (ParagraphMatcher) documentMatcher() {}
func (RunMatcher) documentMatcher()       {}

// Matches reports whether paragraph satisfies all present constraints.
func (m ParagraphMatcher) Matches(p *document.Paragraph) bool {
	if m.StyleID != "" && m.StyleID != p.StyleID {
		return false
	}
	if m.StyleName != "" && m.StyleName != p.StyleName {
		return false
	}
	if m.Numbering != nil && (p.Numbering == nil || *m.Numbering != *p.Numbering) {
		return false
	}
	return true
}

// Matches reports whether run satisfies all present constraints.
func (m RunMatcher) Matches(r *document.Run) bool {
	if m.StyleID != "" && m.StyleID != r.StyleID {
		return false
	}
	if m.StyleName != "" && m.StyleName != r.StyleName {
		return false
	}
	return true
}

func (m ParagraphMatcher) String() string {
	var sb strings.Builder
	sb.WriteByte('p')
	writeStyleSelectors(&sb, m.StyleID, m.StyleName)
	if m.Numbering != nil {
		sb.WriteByte(':')
		sb.WriteString(m.Numbering.String())
	}
	return sb.String()
}

func (m RunMatcher) String() string {
	var sb strings.Builder
	sb.WriteByte('r')
	writeStyleSelectors(&sb, m.StyleID, m.StyleName)
	return sb.String()
}

func writeStyleSelectors(sb *strings.Builder, id, name string) {
	if id != "" {
		sb.WriteByte('#')
		sb.WriteString(id)
	}
	if name == "" {
		return
	}
	if isIdentifier(name) {
		sb.WriteByte('.')
		sb.WriteString(name)
		return
	}
	sb.WriteString("[style-name=")
	sb.WriteString(quote(name))
	sb.WriteByte(']')
}

// quote produces single quoted string literal understood by the reader.
func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('\'')
	for _, r := range s {
		if r == '\'' || r == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	sb.WriteByte('\'')
	return sb.String()
}

// MatchersEqual compares document matchers by value.
func MatchersEqual(a, b DocumentMatcher) bool {
	switch x := a.(type) {
	case ParagraphMatcher:
		y, ok := b.(ParagraphMatcher)
		if !ok || x.StyleID != y.StyleID || x.StyleName != y.StyleName {
			return false
		}
		if x.Numbering == nil || y.Numbering == nil {
			return x.Numbering == nil && y.Numbering == nil
		}
		return *x.Numbering == *y.Numbering
	case RunMatcher:
		y, ok := b.(RunMatcher)
		return ok && x == y
	default:
		return a == nil && b == nil
	}
}

// StyleMapping pairs document matcher with HTML path it produces.
type StyleMapping struct {
	Matcher DocumentMatcher
	Path    HTMLPath
}

// Equal compares mappings by value.
func (s StyleMapping) Equal(o StyleMapping) bool {
	return MatchersEqual(s.Matcher, o.Matcher) && s.Path.Equal(o.Path)
}

func (s StyleMapping) String() string {
	if s.Path.IsEmpty() {
		return s.Matcher.String() + " =>"
	}
	return s.Matcher.String() + " => " + s.Path.String()
}
