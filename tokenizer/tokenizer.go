package tokenizer

import (
	"fmt"
	"iter"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenIterator uses Go 1.24 iterator pattern
type TokenIterator iter.Seq2[Token, error]

// ErlangTokenizer is a tokenizer that returns an iterator
type ErlangTokenizer struct {
	input   string
	options TokenizerOptions
}

// TokenizerOptions are options for the tokenizer
type TokenizerOptions struct {
	SkipWhitespace bool
	SkipComments   bool
}

// symbolic tokens, longest first so that the first hit is the maximal munch
var symbols = []string{
	"=:=", "=/=", "...",
	"==", "/=", "=<", ">=", "++", "--", "->", "<-", "<=", "<<", ">>", "||", "::", ":=", "=>", "..",
	"+", "-", "*", "/", "=", "<", ">", "!",
	"(", ")", "[", "]", "{", "}", ",", ";", "|", "#", ".", ":",
}

var symbolicOperators = []string{
	"+", "-", "*", "/",
	"==", "/=", "=<", "<", ">=", ">", "=:=", "=/=",
	"++", "--", "=", "!",
}

var wordOperators = []string{
	"div", "rem", "band", "bor", "bxor", "bsl", "bsr", "bnot",
	"not", "and", "or", "xor", "andalso", "orelse",
}

var reservedWords = []string{
	"after", "begin", "case", "catch", "cond", "else", "end", "fun", "if",
	"let", "maybe", "of", "receive", "try", "when",
}

// Operators returns the text of every OPERATOR token the tokenizer can produce.
func Operators() []string {
	return slices.Concat(symbolicOperators, wordOperators)
}

// IsReservedWord reports whether word can not be used as an unquoted atom.
func IsReservedWord(word string) bool {
	return slices.Contains(reservedWords, word) || slices.Contains(wordOperators, word)
}

// NewErlangTokenizer creates a new ErlangTokenizer
func NewErlangTokenizer(input string, options ...TokenizerOptions) *ErlangTokenizer {
	opts := TokenizerOptions{}
	if len(options) > 0 {
		opts = options[0]
	}

	return &ErlangTokenizer{
		input:   input,
		options: opts,
	}
}

// Tokens returns an iterator of tokens. Lexical errors are yielded in place of
// the offending token and tokenizing continues after it.
func (t *ErlangTokenizer) Tokens() TokenIterator {
	return func(yield func(Token, error) bool) {
		tokenizer := &tokenizer{
			input:  t.input,
			line:   1,
			column: 1,
		}

		tokenizer.readChar()

		for {
			token, err := tokenizer.nextToken()
			if err != nil {
				if !yield(Token{}, err) {
					return
				}
				continue
			}

			if token.Type == EOF {
				yield(token, nil)
				return
			}

			// Filtering based on options
			if t.options.SkipWhitespace && token.Type == WHITESPACE {
				continue
			}
			if t.options.SkipComments && token.Type == COMMENT {
				continue
			}

			if !yield(token, nil) {
				return
			}
		}
	}
}

// AllTokens gets all tokens as a slice. The returned error is the last lexical
// error found; the slice always ends with an EOF token.
func (t *ErlangTokenizer) AllTokens() ([]Token, error) {
	tokens := make([]Token, 0, 64)
	var lastError error

	for token, err := range t.Tokens() {
		if err != nil {
			lastError = err
			continue
		}
		tokens = append(tokens, token)
		if token.Type == EOF {
			break
		}
	}

	return tokens, lastError
}

// Internal tokenizer implementation
type tokenizer struct {
	input   string
	offset  int // byte offset of current
	next    int // byte offset of the rune after current
	line    int
	column  int
	current rune
	started bool
}

// nextToken gets the next token
func (t *tokenizer) nextToken() (Token, error) {
	if t.eof() {
		pos := t.position()
		return Token{Type: EOF, Position: pos, End: pos}, nil
	}

	c := t.current
	switch {
	case unicode.IsSpace(c):
		return t.readWhitespace(), nil
	case c == '%':
		return t.readComment(), nil
	case unicode.IsLower(c):
		return t.readAtom(), nil
	case unicode.IsUpper(c) || c == '_':
		return t.readVariable(), nil
	case unicode.IsDigit(c):
		return t.readNumber()
	case c == '"':
		return t.readQuoted(STRING, '"', ErrUnterminatedString)
	case c == '\'':
		return t.readQuoted(ATOM, '\'', ErrUnterminatedAtom)
	case c == '$':
		return t.readCharLiteral()
	case c == '?':
		return t.readMacroMarker(), nil
	default:
		return t.readSymbol()
	}
}

func (t *tokenizer) eof() bool {
	return t.offset >= len(t.input)
}

// readChar reads the next character
func (t *tokenizer) readChar() {
	if t.started {
		if t.current == '\n' {
			t.line++
			t.column = 1
		} else {
			t.column++
		}
		t.offset = t.next
	}
	t.started = true

	if t.next >= len(t.input) {
		t.current = 0
		t.offset = len(t.input)
		return
	}

	r, width := utf8.DecodeRuneInString(t.input[t.next:])
	t.current = r
	t.next += width
}

// peekChar looks ahead at the next character
func (t *tokenizer) peekChar() rune {
	if t.next >= len(t.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(t.input[t.next:])
	return r
}

func (t *tokenizer) position() Position {
	return Position{Line: t.line, Column: t.column, Offset: t.offset}
}

func (t *tokenizer) newToken(tokenType TokenType, start Position) Token {
	return Token{
		Type:     tokenType,
		Value:    t.input[start.Offset:t.offset],
		Position: start,
		End:      t.position(),
	}
}

// readWhitespace reads whitespace characters
func (t *tokenizer) readWhitespace() Token {
	start := t.position()
	for !t.eof() && unicode.IsSpace(t.current) {
		t.readChar()
	}
	return t.newToken(WHITESPACE, start)
}

// readComment reads a % comment up to the end of the line
func (t *tokenizer) readComment() Token {
	start := t.position()
	for !t.eof() && t.current != '\n' {
		t.readChar()
	}
	return t.newToken(COMMENT, start)
}

func isNameChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '@'
}

func (t *tokenizer) readName() {
	for !t.eof() && isNameChar(t.current) {
		t.readChar()
	}
}

// readAtom reads unquoted atoms, word operators and reserved words
func (t *tokenizer) readAtom() Token {
	start := t.position()
	t.readName()

	token := t.newToken(ATOM, start)
	switch {
	case slices.Contains(wordOperators, token.Value):
		token.Type = OPERATOR
	case slices.Contains(reservedWords, token.Value):
		token.Reserved = true
	}
	return token
}

func (t *tokenizer) readVariable() Token {
	start := t.position()
	t.readName()
	return t.newToken(VARIABLE, start)
}

func (t *tokenizer) readDigits(isDigit func(rune) bool) int {
	count := 0
	for !t.eof() {
		if isDigit(t.current) {
			count++
			t.readChar()
			continue
		}
		// digit separator: only between two digits
		if t.current == '_' && count > 0 && isDigit(t.peekChar()) {
			t.readChar()
			continue
		}
		break
	}
	return count
}

func isDecimal(r rune) bool {
	return r >= '0' && r <= '9'
}

func digitValue(r rune) int {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0')
	case r >= 'a' && r <= 'z':
		return int(r-'a') + 10
	case r >= 'A' && r <= 'Z':
		return int(r-'A') + 10
	default:
		return 99
	}
}

// readNumber reads integers (with optional radix) and floats
func (t *tokenizer) readNumber() (Token, error) {
	start := t.position()
	t.readDigits(isDecimal)

	// Radix notation: Base#Digits
	if t.current == '#' {
		base := 0
		for _, r := range strings.ReplaceAll(t.input[start.Offset:t.offset], "_", "") {
			base = base*10 + int(r-'0')
			if base > 36 {
				break
			}
		}
		if base < 2 || base > 36 {
			t.readChar()
			t.readName()
			return Token{}, fmt.Errorf("%w: radix %d out of range at line %d, column %d", ErrInvalidNumber, base, start.Line, start.Column)
		}
		t.readChar()
		if t.readDigits(func(r rune) bool { return digitValue(r) < base }) == 0 {
			return Token{}, fmt.Errorf("%w: missing digits after radix at line %d, column %d", ErrInvalidNumber, start.Line, start.Column)
		}
		return t.newToken(INTEGER, start), nil
	}

	// Decimal point
	if t.current != '.' || !isDecimal(t.peekChar()) {
		return t.newToken(INTEGER, start), nil
	}
	t.readChar()
	t.readDigits(isDecimal)

	// Exponential part
	if t.current == 'e' || t.current == 'E' {
		t.readChar()
		if t.current == '+' || t.current == '-' {
			t.readChar()
		}
		if t.readDigits(isDecimal) == 0 {
			return Token{}, fmt.Errorf("%w: invalid exponent at line %d, column %d", ErrInvalidNumber, start.Line, start.Column)
		}
	}

	return t.newToken(FLOAT, start), nil
}

// readQuoted reads strings and quoted atoms including their delimiters
func (t *tokenizer) readQuoted(tokenType TokenType, delimiter rune, unterminated error) (Token, error) {
	start := t.position()
	t.readChar() // opening quote

	for !t.eof() && t.current != delimiter {
		if t.current == '\\' {
			t.readChar()
		}
		t.readChar()
	}

	if t.eof() {
		return Token{}, fmt.Errorf("%w: %c at line %d, column %d", unterminated, delimiter, start.Line, start.Column)
	}

	t.readChar() // closing quote
	return t.newToken(tokenType, start), nil
}

// readCharLiteral reads $c, $\n, $\101, $\x41, $\x{1F600} and $\^a
func (t *tokenizer) readCharLiteral() (Token, error) {
	start := t.position()
	t.readChar() // $

	if t.eof() {
		return Token{}, fmt.Errorf("%w: missing character at line %d, column %d", ErrInvalidCharLiteral, start.Line, start.Column)
	}

	if t.current != '\\' {
		t.readChar()
		return t.newToken(CHAR, start), nil
	}

	t.readChar() // backslash
	if t.eof() {
		return Token{}, fmt.Errorf("%w: incomplete escape at line %d, column %d", ErrInvalidCharLiteral, start.Line, start.Column)
	}

	switch {
	case t.current >= '0' && t.current <= '7':
		for i := 0; i < 3 && t.current >= '0' && t.current <= '7'; i++ {
			t.readChar()
		}
	case t.current == 'x':
		t.readChar()
		if t.current == '{' {
			t.readChar()
			for !t.eof() && t.current != '}' {
				t.readChar()
			}
			if t.eof() {
				return Token{}, fmt.Errorf("%w: unterminated \\x{...} at line %d, column %d", ErrInvalidCharLiteral, start.Line, start.Column)
			}
			t.readChar()
		} else {
			for i := 0; i < 2 && digitValue(t.current) < 16; i++ {
				t.readChar()
			}
		}
	case t.current == '^':
		t.readChar()
		if !t.eof() {
			t.readChar()
		}
	default:
		t.readChar()
	}

	return t.newToken(CHAR, start), nil
}

func (t *tokenizer) readMacroMarker() Token {
	start := t.position()
	t.readChar()
	if t.current == '?' {
		t.readChar()
	}
	return t.newToken(MACRO_MARKER, start)
}

// readSymbol reads operators and punctuation using maximal munch
func (t *tokenizer) readSymbol() (Token, error) {
	start := t.position()
	rest := t.input[t.offset:]

	for _, symbol := range symbols {
		if !strings.HasPrefix(rest, symbol) {
			continue
		}
		for range symbol {
			t.readChar()
		}
		tokenType := PUNCTUATION
		if slices.Contains(symbolicOperators, symbol) {
			tokenType = OPERATOR
		}
		return t.newToken(tokenType, start), nil
	}

	char := t.current
	t.readChar()
	return Token{}, fmt.Errorf("%w: %q at line %d, column %d", ErrUnexpectedCharacter, char, start.Line, start.Column)
}
