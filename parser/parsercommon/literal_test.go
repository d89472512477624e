package parsercommon

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shibukawa/snaperl/testhelper"
)

func TestLiteralDecimal(t *testing.T) {
	tests := []struct {
		name     string
		kind     LiteralKind
		value    string
		expected string
	}{
		{"integer", IntegerLiteral, "1024", "1024"},
		{"separator", IntegerLiteral, "1_000_000", "1000000"},
		{"hex", IntegerLiteral, "16#FF", "255"},
		{"binary radix", IntegerLiteral, "2#1010", "10"},
		{"big radix", IntegerLiteral, "36#zz", "1295"},
		{"float", FloatLiteral, "3.14", "3.14"},
		{"exponent", FloatLiteral, "2.5e-3", "0.0025"},
		{"char", CharLiteral, "$a", "97"},
		{"char newline", CharLiteral, `$\n`, "10"},
		{"char space escape", CharLiteral, `$\s`, "32"},
		{"char octal", CharLiteral, `$\101`, "65"},
		{"char hex", CharLiteral, `$\x41`, "65"},
		{"char braced hex", CharLiteral, `$\x{1F600}`, "128512"},
		{"char control", CharLiteral, `$\^a`, "1"},
		{"char unicode", CharLiteral, "$ä", "228"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			literal := &Literal{Kind: tt.kind, Value: tt.value}
			d, err := literal.Decimal()
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, d.String())
		})
	}
}

func TestLiteralDecimalNotNumeric(t *testing.T) {
	for _, literal := range []*Literal{
		{Kind: AtomLiteral, Value: "ok"},
		{Kind: StringLiteral, Value: `"1"`},
		{Kind: IntegerLiteral, Value: "40#1"},
	} {
		_, err := literal.Decimal()
		assert.IsError(t, err, ErrNotNumeric)
	}
}

func TestNewLiteralJoinsStrings(t *testing.T) {
	tokens := testhelper.Tokenize(t, `"a"  "b"`)

	literal := NewLiteral(StringLiteral, tokens[0], tokens[1])
	assert.Equal(t, `"a" "b"`, literal.String())
	assert.Equal(t, 0, literal.Span().Start.Offset)
	assert.Equal(t, 8, literal.Span().End.Offset)
}
