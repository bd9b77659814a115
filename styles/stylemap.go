package styles

import (
	"bufio"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/multierr"

	"dxh/document"
)

// StyleMap is an ordered list of style mappings, first matching mapping wins.
// It is never modified after construction and could be shared between
// conversions.
type StyleMap struct {
	mappings []StyleMapping
}

// NewStyleMap creates style map from mappings in priority order.
func NewStyleMap(mappings ...StyleMapping) StyleMap {
	return StyleMap{mappings: slices.Clone(mappings)}
}

// ParseStyleMap reads style map text: one rule per line, blank lines and
// lines starting with '#' are ignored. All malformed lines are reported, each
// as *RuleError, and no map is returned in this case.
func ParseStyleMap(text string) (StyleMap, error) {
	var (
		mappings []StyleMapping
		errs     error
		line     int
	)
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		line++
		rule := strings.TrimSpace(sc.Text())
		if rule == "" || strings.HasPrefix(rule, "#") {
			continue
		}
		m, err := ParseStyleMapping(rule)
		if err != nil {
			errs = multierr.Append(errs, &RuleError{Line: line, Rule: rule, Err: err})
			continue
		}
		mappings = append(mappings, m)
	}
	if err := sc.Err(); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("unable to read style map: %w", err))
	}
	if errs != nil {
		return StyleMap{}, errs
	}
	return StyleMap{mappings: mappings}, nil
}

// MustParseStyleMap is like ParseStyleMap but panics on error. Intended for
// built in maps.
func MustParseStyleMap(text string) StyleMap {
	sm, err := ParseStyleMap(text)
	if err != nil {
		panic(fmt.Sprintf("invalid style map: %v", err))
	}
	return sm
}

// Len returns number of mappings.
func (sm StyleMap) Len() int {
	return len(sm.mappings)
}

// Mappings returns copy of mappings in priority order.
func (sm StyleMap) Mappings() []StyleMapping {
	return slices.Clone(sm.mappings)
}

// Concat returns new map with mappings of sm followed by mappings of others,
// so sm takes precedence.
func (sm StyleMap) Concat(others ...StyleMap) StyleMap {
	all := slices.Clone(sm.mappings)
	for _, o := range others {
		all = append(all, o.mappings...)
	}
	return StyleMap{mappings: all}
}

// ParagraphPath returns path of the first mapping accepting paragraph.
func (sm StyleMap) ParagraphPath(p *document.Paragraph) (HTMLPath, bool) {
	for _, m := range sm.mappings {
		if pm, ok := m.Matcher.(ParagraphMatcher); ok && pm.Matches(p) {
			return m.Path, true
		}
	}
	return HTMLPath{}, false
}

// RunPath returns path of the first mapping accepting run.
func (sm StyleMap) RunPath(r *document.Run) (HTMLPath, bool) {
	for _, m := range sm.mappings {
		if rm, ok := m.Matcher.(RunMatcher); ok && rm.Matches(r) {
			return m.Path, true
		}
	}
	return HTMLPath{}, false
}

// Equal compares style maps by value, order is significant.
func (sm StyleMap) Equal(o StyleMap) bool {
	return slices.EqualFunc(sm.mappings, o.mappings, StyleMapping.Equal)
}

// String returns canonical text of the map, one rule per line.
func (sm StyleMap) String() string {
	var sb strings.Builder
	for _, m := range sm.mappings {
		sb.WriteString(m.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
