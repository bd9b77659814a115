package styles

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	parse "github.com/tdewolff/parse/v2"
)

type tokenType int

const (
	errorToken tokenType = iota
	eofToken
	whitespaceToken
	identToken
	stringToken
	arrowToken
	dotToken
	hashToken
	colonToken
	pipeToken
	gtToken
	openParenToken
	closeParenToken
	openBracketToken
	closeBracketToken
	equalsToken
)

func (tt tokenType) String() string {
	switch tt {
	case eofToken:
		return "end of text"
	case whitespaceToken:
		return "whitespace"
	case identToken:
		return "identifier"
	case stringToken:
		return "string"
	case arrowToken:
		return "'=>'"
	case dotToken:
		return "'.'"
	case hashToken:
		return "'#'"
	case colonToken:
		return "':'"
	case pipeToken:
		return "'|'"
	case gtToken:
		return "'>'"
	case openParenToken:
		return "'('"
	case closeParenToken:
		return "')'"
	case openBracketToken:
		return "'['"
	case closeBracketToken:
		return "']'"
	case equalsToken:
		return "'='"
	default:
		return "error"
	}
}

var symbols = map[byte]tokenType{
	'.': dotToken,
	'#': hashToken,
	':': colonToken,
	'|': pipeToken,
	'>': gtToken,
	'(': openParenToken,
	')': closeParenToken,
	'[': openBracketToken,
	']': closeBracketToken,
	'=': equalsToken,
}

type token struct {
	tt     tokenType
	value  string // lexeme, unquoted for strings
	offset int
}

func (t token) describe() string {
	switch t.tt {
	case identToken:
		return fmt.Sprintf("identifier %q", t.value)
	case stringToken:
		return fmt.Sprintf("string %q", t.value)
	default:
		return t.tt.String()
	}
}

type lexer struct {
	r      *parse.Input
	text   string
	offset int
}

func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isIdentRune(r) {
			return false
		}
	}
	return true
}

// tokenize splits rule text into tokens, result always ends with eofToken.
func tokenize(text string) (*tokens, error) {
	if offset := invalidUTF8(text); offset >= 0 {
		return nil, &SyntaxError{Input: text, Offset: offset, Msg: "invalid UTF-8"}
	}
	l := &lexer{r: parse.NewInputString(text), text: text}
	ts := &tokens{text: text}
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		ts.items = append(ts.items, tok)
		if tok.tt == eofToken {
			return ts, nil
		}
	}
}

// invalidUTF8 returns offset of the first byte which does not start valid
// UTF-8 sequence, -1 when text is valid.
func invalidUTF8(text string) int {
	if utf8.ValidString(text) {
		return -1
	}
	for i := 0; i < len(text); {
		r, n := utf8.DecodeRuneInString(text[i:])
		if r == utf8.RuneError && n == 1 {
			return i
		}
		i += n
	}
	return -1
}

func (l *lexer) emit(tt tokenType, offset int) token {
	lexeme := l.r.Shift()
	l.offset += len(lexeme)
	return token{tt: tt, value: string(lexeme), offset: offset}
}

func (l *lexer) eof(pos int) bool {
	return l.r.Peek(pos) == 0 && l.r.PeekErr(pos) != nil
}

func (l *lexer) next() (token, error) {
	offset := l.offset
	c := l.r.Peek(0)
	switch {
	case l.eof(0):
		return token{tt: eofToken, offset: offset}, nil
	case isSpace(c):
		for isSpace(l.r.Peek(0)) {
			l.r.Move(1)
		}
		return l.emit(whitespaceToken, offset), nil
	case c == '=' && l.r.Peek(1) == '>':
		l.r.Move(2)
		return l.emit(arrowToken, offset), nil
	case c == '\'' || c == '"':
		return l.consumeString(c, offset)
	}
	if tt, ok := symbols[c]; ok {
		l.r.Move(1)
		return l.emit(tt, offset), nil
	}
	if l.consumeIdent() {
		return l.emit(identToken, offset), nil
	}
	r, _ := l.r.PeekRune(0)
	return token{}, &SyntaxError{Input: l.text, Offset: offset, Msg: fmt.Sprintf("unexpected character %q", r)}
}

func (l *lexer) consumeIdent() bool {
	moved := false
	for !l.eof(0) {
		r, n := l.r.PeekRune(0)
		if !isIdentRune(r) {
			break
		}
		l.r.Move(n)
		moved = true
	}
	return moved
}

// consumeString reads quoted literal, backslash escapes next character.
func (l *lexer) consumeString(quote byte, offset int) (token, error) {
	var sb strings.Builder
	l.r.Move(1)
	for {
		if l.eof(0) {
			return token{}, &SyntaxError{Input: l.text, Offset: offset, Msg: "unterminated string"}
		}
		c := l.r.Peek(0)
		if c == quote {
			l.r.Move(1)
			break
		}
		if c == '\\' {
			if l.eof(1) {
				return token{}, &SyntaxError{Input: l.text, Offset: offset, Msg: "unterminated string"}
			}
			l.r.Move(1)
		}
		r, n := l.r.PeekRune(0)
		sb.WriteRune(r)
		l.r.Move(n)
	}
	tok := l.emit(stringToken, offset)
	tok.value = sb.String()
	return tok, nil
}

// tokens is a cursor over tokenized rule text.
type tokens struct {
	text  string
	items []token
	pos   int
}

func (ts *tokens) peek() token {
	return ts.items[ts.pos]
}

func (ts *tokens) next() token {
	tok := ts.items[ts.pos]
	if tok.tt != eofToken {
		ts.pos++
	}
	return tok
}

func (ts *tokens) skipWhitespace() {
	for ts.peek().tt == whitespaceToken {
		ts.pos++
	}
}

func (ts *tokens) errorf(tok token, format string, args ...any) *SyntaxError {
	return &SyntaxError{Input: ts.text, Offset: tok.offset, Msg: fmt.Sprintf(format, args...)}
}

func (ts *tokens) unexpected(tok token, expected string) *SyntaxError {
	return ts.errorf(tok, "expected %s but found %s", expected, tok.describe())
}

// expect consumes next token which must be of requested type.
func (ts *tokens) expect(tt tokenType, what string) (token, error) {
	tok := ts.next()
	if tok.tt != tt {
		return token{}, ts.unexpected(tok, what)
	}
	return tok, nil
}

// expectEnd makes sure nothing but whitespace is left.
func (ts *tokens) expectEnd() error {
	ts.skipWhitespace()
	if tok := ts.next(); tok.tt != eofToken {
		return ts.unexpected(tok, eofToken.String())
	}
	return nil
}

// split cuts token stream at the first token of requested type. Both parts
// share original text so error offsets stay meaningful.
func (ts *tokens) split(tt tokenType) (left, right *tokens, found bool) {
	for i, tok := range ts.items {
		if tok.tt != tt {
			continue
		}
		head := make([]token, i, i+1)
		copy(head, ts.items[:i])
		head = append(head, token{tt: eofToken, offset: tok.offset})
		return &tokens{text: ts.text, items: head}, &tokens{text: ts.text, items: ts.items[i+1:]}, true
	}
	return nil, nil, false
}
