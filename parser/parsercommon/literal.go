package parsercommon

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// ErrNotNumeric is returned by Literal.Decimal for atoms and strings.
var ErrNotNumeric = errors.New("literal is not numeric")

// Decimal returns the numeric value of integer, float and char literals.
// Char literals evaluate to their code point.
func (l *Literal) Decimal() (decimal.Decimal, error) {
	switch l.Kind {
	case IntegerLiteral:
		return parseInteger(l.Value)
	case FloatLiteral:
		d, err := decimal.NewFromString(strings.ReplaceAll(l.Value, "_", ""))
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: %s", ErrNotNumeric, l.Value)
		}
		return d, nil
	case CharLiteral:
		r, err := CharCode(l.Value)
		if err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromInt(int64(r)), nil
	default:
		return decimal.Zero, fmt.Errorf("%w: %s literal %s", ErrNotNumeric, l.Kind, l.Value)
	}
}

func parseInteger(text string) (decimal.Decimal, error) {
	text = strings.ReplaceAll(text, "_", "")
	base := 10
	if b, digits, ok := strings.Cut(text, "#"); ok {
		n, err := strconv.Atoi(b)
		if err != nil || n < 2 || n > 36 {
			return decimal.Zero, fmt.Errorf("%w: bad radix in %s", ErrNotNumeric, text)
		}
		base = n
		text = digits
	}
	value, ok := new(big.Int).SetString(text, base)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrNotNumeric, text)
	}
	return decimal.NewFromBigInt(value, 0), nil
}

var charEscapes = map[rune]rune{
	'b': '\b',
	'd': 0x7f,
	'e': 0x1b,
	'f': '\f',
	'n': '\n',
	'r': '\r',
	's': ' ',
	't': '\t',
	'v': '\v',
}

// CharCode returns the code point of a char literal such as $a or $\x{41}.
func CharCode(text string) (rune, error) {
	body, ok := strings.CutPrefix(text, "$")
	if !ok || body == "" {
		return 0, fmt.Errorf("%w: %s", ErrNotNumeric, text)
	}
	if body[0] != '\\' {
		r, _ := utf8.DecodeRuneInString(body)
		return r, nil
	}

	escape := body[1:]
	switch {
	case escape == "":
		return 0, fmt.Errorf("%w: %s", ErrNotNumeric, text)
	case escape[0] >= '0' && escape[0] <= '7':
		n, err := strconv.ParseInt(escape, 8, 32)
		if err != nil {
			return 0, fmt.Errorf("%w: %s", ErrNotNumeric, text)
		}
		return rune(n), nil
	case escape[0] == 'x':
		hex := strings.TrimSuffix(strings.TrimPrefix(escape[1:], "{"), "}")
		n, err := strconv.ParseInt(hex, 16, 32)
		if err != nil {
			return 0, fmt.Errorf("%w: %s", ErrNotNumeric, text)
		}
		return rune(n), nil
	case escape[0] == '^' && len(escape) > 1:
		return rune(escape[1]) & 31, nil
	}

	r, _ := utf8.DecodeRuneInString(escape)
	if mapped, ok := charEscapes[r]; ok {
		return mapped, nil
	}
	return r, nil
}
