package html

import (
	"dxh/htmltree"
	"dxh/styles"
)

type frame struct {
	level styles.PathElement // path level which opened element
	el    *htmltree.Element
}

// openElements is a stack of elements opened for a sequence of siblings,
// outermost first. Nodes go to the innermost open element or, when nothing is
// open, to emit.
type openElements struct {
	frames []frame
	emit   func(htmltree.Node)
}

func newOpenElements(emit func(htmltree.Node)) *openElements {
	return &openElements{emit: emit}
}

func (o *openElements) innermost() *htmltree.Element {
	if len(o.frames) == 0 {
		return nil
	}
	return o.frames[len(o.frames)-1].el
}

func (o *openElements) append(n htmltree.Node) {
	if el := o.innermost(); el != nil {
		el.Append(n)
		return
	}
	o.emit(n)
}

// reusable counts leading frames which satisfy path levels, looking at no
// more than limit levels. Fresh level stops reuse and every level after it
// is opened as new.
func (o *openElements) reusable(path styles.HTMLPath, limit int) int {
	limit = min(limit, len(path.Elements), len(o.frames))
	n := 0
	for n < limit {
		level, open := path.Elements[n], o.frames[n].el
		if level.Fresh || !level.Accepts(open.Tag, open.ClassNames) {
			break
		}
		n++
	}
	return n
}

// satisfy closes open elements which do not fit path, opens missing ones and
// returns element content should go to, nil for empty path. When
// reuseInnermost is false innermost path level always gets a new element.
func (o *openElements) satisfy(path styles.HTMLPath, reuseInnermost bool) *htmltree.Element {
	limit := len(path.Elements)
	if !reuseInnermost {
		limit--
	}
	keep := o.reusable(path, limit)
	clear(o.frames[keep:])
	o.frames = o.frames[:keep]
	for _, level := range path.Elements[keep:] {
		el := htmltree.NewElement(level.TagName(), level.ClassNames...)
		o.append(el)
		o.frames = append(o.frames, frame{level: level, el: el})
	}
	return o.innermost()
}

// nested returns stack for content of target, falls back to emitting into o
// when target is nil.
func (o *openElements) nested(target *htmltree.Element) *openElements {
	if target == nil {
		return newOpenElements(o.append)
	}
	return newOpenElements(func(n htmltree.Node) { target.Append(n) })
}

// path returns path levels of currently open elements.
func (o *openElements) path() styles.HTMLPath {
	levels := make([]styles.PathElement, 0, len(o.frames))
	for _, f := range o.frames {
		levels = append(levels, f.level)
	}
	return styles.HTMLPath{Elements: levels}
}
