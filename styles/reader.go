package styles

import (
	"strconv"

	"dxh/document"
)

// ParseHTMLPath reads HTML output path, for example "ul|ol > li.item:fresh".
// Empty (or blank) text yields empty path.
func ParseHTMLPath(text string) (HTMLPath, error) {
	ts, err := tokenize(text)
	if err != nil {
		return HTMLPath{}, err
	}
	return readHTMLPath(ts)
}

// ParseDocumentMatcher reads document matcher, for example "p.Heading1",
// "p#ListParagraph:ordered-list(2)" or "r[style-name='Strong Emphasis']".
func ParseDocumentMatcher(text string) (DocumentMatcher, error) {
	ts, err := tokenize(text)
	if err != nil {
		return nil, err
	}
	return readDocumentMatcher(ts)
}

// ParseStyleMapping reads single rule "matcher => path". Rule is split on the
// first fat arrow outside of quoted strings.
func ParseStyleMapping(text string) (StyleMapping, error) {
	ts, err := tokenize(text)
	if err != nil {
		return StyleMapping{}, err
	}
	left, right, found := ts.split(arrowToken)
	if !found {
		return StyleMapping{}, &SyntaxError{Input: text, Offset: len(text), Msg: "expected '=>'"}
	}
	matcher, err := readDocumentMatcher(left)
	if err != nil {
		return StyleMapping{}, err
	}
	path, err := readHTMLPath(right)
	if err != nil {
		return StyleMapping{}, err
	}
	return StyleMapping{Matcher: matcher, Path: path}, nil
}

func readHTMLPath(ts *tokens) (HTMLPath, error) {
	ts.skipWhitespace()
	if ts.peek().tt == eofToken {
		return EmptyPath, nil
	}

	var elements []PathElement
	for {
		el, err := readPathElement(ts)
		if err != nil {
			return HTMLPath{}, err
		}
		elements = append(elements, el)

		ts.skipWhitespace()
		switch tok := ts.next(); tok.tt {
		case eofToken:
			return HTMLPath{Elements: elements}, nil
		case gtToken:
			ts.skipWhitespace()
		default:
			return HTMLPath{}, ts.unexpected(tok, "'>'")
		}
	}
}

func readPathElement(ts *tokens) (PathElement, error) {
	var el PathElement
	for {
		tok, err := ts.expect(identToken, "tag name")
		if err != nil {
			return PathElement{}, err
		}
		el.TagNames = append(el.TagNames, tok.value)
		if ts.peek().tt != pipeToken {
			break
		}
		ts.next()
	}

	for ts.peek().tt == dotToken {
		ts.next()
		tok, err := ts.expect(identToken, "class name")
		if err != nil {
			return PathElement{}, err
		}
		el.ClassNames = append(el.ClassNames, tok.value)
	}

	if ts.peek().tt != colonToken {
		return el, nil
	}
	ts.next()
	tok, err := ts.expect(identToken, "path modifier")
	if err != nil {
		return PathElement{}, err
	}
	if tok.value != "fresh" {
		return PathElement{}, ts.errorf(tok, "unrecognised path modifier %q", tok.value)
	}
	el.Fresh = true

	switch next := ts.peek(); next.tt {
	case dotToken, colonToken, pipeToken:
		return PathElement{}, ts.errorf(next, "':fresh' must end path element, found %s", next.describe())
	}
	return el, nil
}

func readDocumentMatcher(ts *tokens) (DocumentMatcher, error) {
	ts.skipWhitespace()
	head := ts.next()
	if head.tt != identToken || (head.value != "p" && head.value != "r") {
		return nil, ts.unexpected(head, "'p' or 'r'")
	}
	isRun := head.value == "r"

	var (
		styleID, styleName string
		selector           token
	)
loop:
	for {
		tok := ts.peek()
		switch tok.tt {
		case dotToken:
			ts.next()
			name, err := ts.expect(identToken, "style name")
			if err != nil {
				return nil, err
			}
			if styleName != "" {
				return nil, ts.errorf(tok, "style name is specified more than once")
			}
			styleName, selector = name.value, tok
		case openBracketToken:
			name, err := readStyleNameAttribute(ts)
			if err != nil {
				return nil, err
			}
			if styleName != "" {
				return nil, ts.errorf(tok, "style name is specified more than once")
			}
			styleName, selector = name, tok
		case hashToken:
			ts.next()
			id, err := ts.expect(identToken, "style id")
			if err != nil {
				return nil, err
			}
			if styleID != "" {
				return nil, ts.errorf(tok, "style id is specified more than once")
			}
			styleID, selector = id.value, tok
		default:
			break loop
		}
	}
	if styleID != "" && styleName != "" {
		return nil, ts.errorf(selector, "style id and style name cannot be combined")
	}

	var numbering *document.NumberingLevel
	if ts.peek().tt == colonToken {
		ts.next()
		mod, err := ts.expect(identToken, "modifier")
		if err != nil {
			return nil, err
		}
		if isRun {
			return nil, &UnsupportedModifierError{Input: ts.text, Offset: mod.offset, Element: "run", Modifier: mod.value}
		}
		if numbering, err = readListModifier(ts, mod); err != nil {
			return nil, err
		}
	}

	if err := ts.expectEnd(); err != nil {
		return nil, err
	}
	if isRun {
		return RunMatcher{StyleID: styleID, StyleName: styleName}, nil
	}
	return ParagraphMatcher{StyleID: styleID, StyleName: styleName, Numbering: numbering}, nil
}

// readStyleNameAttribute reads "[style-name='...']".
func readStyleNameAttribute(ts *tokens) (string, error) {
	ts.next()
	attr, err := ts.expect(identToken, "attribute name")
	if err != nil {
		return "", err
	}
	if attr.value != "style-name" {
		return "", ts.errorf(attr, "unsupported attribute %q", attr.value)
	}
	if _, err := ts.expect(equalsToken, "'='"); err != nil {
		return "", err
	}
	val, err := ts.expect(stringToken, "quoted style name")
	if err != nil {
		return "", err
	}
	if val.value == "" {
		return "", ts.errorf(val, "style name cannot be empty")
	}
	if _, err := ts.expect(closeBracketToken, "']'"); err != nil {
		return "", err
	}
	return val.value, nil
}

// readListModifier reads "(N)" following list modifier name. N is 1 based.
func readListModifier(ts *tokens, mod token) (*document.NumberingLevel, error) {
	var ordered bool
	switch mod.value {
	case "ordered-list":
		ordered = true
	case "unordered-list":
		ordered = false
	default:
		return nil, &UnsupportedModifierError{Input: ts.text, Offset: mod.offset, Element: "paragraph", Modifier: mod.value}
	}
	if _, err := ts.expect(openParenToken, "'('"); err != nil {
		return nil, err
	}
	arg := ts.next()
	if arg.tt != identToken {
		return nil, ts.unexpected(arg, "list level")
	}
	n, err := strconv.Atoi(arg.value)
	if err != nil || n < 1 {
		return nil, ts.errorf(arg, "list level must be a positive integer, found %q", arg.value)
	}
	if _, err := ts.expect(closeParenToken, "')'"); err != nil {
		return nil, err
	}
	return &document.NumberingLevel{Level: n - 1, IsOrdered: ordered}, nil
}
