package parsercommon

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	tok "github.com/shibukawa/snaperl/tokenizer"
)

// Sentinel errors
var (
	// ErrSyntax is wrapped by every SyntaxError
	ErrSyntax = errors.New("syntax error")
	// ErrUnknownRule is returned when a rule name is not registered
	ErrUnknownRule = errors.New("unknown grammar rule")
)

// Tracker records the furthest position any rule attempt reached before
// failing, together with what was expected there. One tracker belongs to one
// parse.
type Tracker struct {
	index    int
	found    tok.Token
	expected []string
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{index: -1}
}

// Fail records that label was expected at the token with the given index.
// Failures before the furthest position are ignored; failures at the same
// position add their label once.
func (t *Tracker) Fail(index int, found tok.Token, label string) {
	if t == nil {
		return
	}
	switch {
	case index > t.index:
		t.index = index
		t.found = found
		t.expected = []string{label}
	case index == t.index:
		if !slices.Contains(t.expected, label) {
			t.expected = append(t.expected, label)
		}
	}
}

// Furthest returns the furthest failure. index is -1 when nothing failed.
func (t *Tracker) Furthest() (index int, found tok.Token, expected []string) {
	return t.index, t.found, slices.Clone(t.expected)
}

// Error converts the furthest failure into a SyntaxError.
func (t *Tracker) Error() *SyntaxError {
	return &SyntaxError{
		Pos:      t.found.Position,
		Found:    t.found,
		Expected: slices.Clone(t.expected),
	}
}

// SyntaxError reports the furthest point a parse reached.
type SyntaxError struct {
	Pos      tok.Position
	Found    tok.Token
	Expected []string // unique, in the order they were first recorded
}

func (e *SyntaxError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "syntax error at line %d, column %d: unexpected %s", e.Pos.Line, e.Pos.Column, describeToken(e.Found))
	if len(e.Expected) > 0 {
		sb.WriteString(", expected ")
		sb.WriteString(strings.Join(e.Expected, " or "))
	}
	return sb.String()
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

func describeToken(t tok.Token) string {
	if t.Type == tok.EOF {
		return "end of input"
	}
	return "'" + t.Value + "'"
}

// ParseError aggregates multiple parsing errors.
type ParseError struct {
	Errors []error
}

// Error implements the error interface for ParseError.
func (e *ParseError) Error() string {
	if len(e.Errors) == 0 {
		return "no parse errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	sb.WriteString("multiple parse errors:")
	for i, err := range e.Errors {
		sb.WriteString("\n  [")
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteString("] ")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Add appends an error to the ParseError.
func (e *ParseError) Add(err error) {
	if err == nil {
		return
	}
	var perr *ParseError
	if errors.As(err, &perr) {
		e.Errors = append(e.Errors, perr.Errors...)
	} else {
		e.Errors = append(e.Errors, err)
	}
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e *ParseError) Unwrap() []error {
	return e.Errors
}

// ErrOrNil returns nil when nothing was collected.
func (e *ParseError) ErrOrNil() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}
