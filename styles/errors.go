package styles

import "fmt"

// SyntaxError reports malformed rule text.
type SyntaxError struct {
	Input  string // complete text being read
	Offset int    // byte offset of offending token in Input
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: %s at position %d in %q", e.Msg, e.Offset, e.Input)
}

// Near returns part of the input starting with offending token.
func (e *SyntaxError) Near() string {
	if e.Offset < 0 || e.Offset >= len(e.Input) {
		return ""
	}
	return e.Input[e.Offset:]
}

// UnsupportedModifierError reports modifier which is not valid for the kind
// of document element matcher selects, for example numbering on runs.
type UnsupportedModifierError struct {
	Input    string
	Offset   int
	Element  string // "paragraph" or "run"
	Modifier string
}

func (e *UnsupportedModifierError) Error() string {
	return fmt.Sprintf("unsupported modifier %q for %s matcher at position %d in %q", e.Modifier, e.Element, e.Offset, e.Input)
}

// RuleError annotates rule reading error with its location in style map text.
type RuleError struct {
	Line int // 1 based
	Rule string
	Err  error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("style map line %d: %v", e.Line, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}
