package parsercommon

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	pc "github.com/shibukawa/parsercombinator"
	tok "github.com/shibukawa/snaperl/tokenizer"
)

func TestTrackerKeepsFurthestFailure(t *testing.T) {
	tokens, err := tok.NewErlangTokenizer("a b c", tok.TokenizerOptions{SkipWhitespace: true}).AllTokens()
	assert.NoError(t, err)

	tracker := NewTracker()
	index, _, _ := tracker.Furthest()
	assert.Equal(t, -1, index)

	tracker.Fail(1, tokens[1], "'('")
	tracker.Fail(0, tokens[0], "atom")
	tracker.Fail(1, tokens[1], "','")
	tracker.Fail(1, tokens[1], "'('")

	index, found, expected := tracker.Furthest()
	assert.Equal(t, 1, index)
	assert.Equal(t, "b", found.Value)
	assert.Equal(t, []string{"'('", "','"}, expected)

	tracker.Fail(2, tokens[2], "end of input")
	syntaxErr := tracker.Error()
	assert.Equal(t, []string{"end of input"}, syntaxErr.Expected)
	assert.Equal(t, 4, syntaxErr.Pos.Offset)
	assert.Equal(t, "syntax error at line 1, column 5: unexpected 'c', expected end of input", syntaxErr.Error())
	assert.True(t, errors.Is(syntaxErr, ErrSyntax))
}

func TestExpectRecordsLabel(t *testing.T) {
	tokens, err := tok.NewErlangTokenizer("foo").AllTokens()
	assert.NoError(t, err)

	tracker := NewTracker()
	pcTokens := ToParserToken(tokens, tracker)
	pctx := pc.NewParseContext[Entity]()

	_, _, err = Punct("(")(pctx, pcTokens)
	assert.IsError(t, err, pc.ErrNotMatch)

	consumed, result, err := Atom(pctx, pcTokens)
	assert.NoError(t, err)
	assert.Equal(t, 1, consumed)
	assert.Equal(t, "foo", result[0].Val.Original.Value)

	_, _, err = EOS(pctx, pcTokens[1:])
	assert.NoError(t, err)

	_, _, expected := tracker.Furthest()
	assert.Equal(t, []string{"'('"}, expected)
}

func TestToParserTokenDropsTrivia(t *testing.T) {
	tokens, err := tok.NewErlangTokenizer("a % note\n+ b").AllTokens()
	assert.NoError(t, err)

	pcTokens := ToParserToken(tokens, nil)
	assert.Equal(t, []string{"a", "+", "b", ""}, tokenValues(pcTokens))
	for i, token := range pcTokens {
		assert.Equal(t, i, token.Val.Index())
	}
}

func TestReservedWordsAreNotAtoms(t *testing.T) {
	tokens, err := tok.NewErlangTokenizer("catch").AllTokens()
	assert.NoError(t, err)

	pcTokens := ToParserToken(tokens, nil)
	pctx := pc.NewParseContext[Entity]()

	_, _, err = Atom(pctx, pcTokens)
	assert.Error(t, err)
	consumed, _, err := KeywordType("catch")(pctx, pcTokens)
	assert.NoError(t, err)
	assert.Equal(t, 1, consumed)
}

func TestParseErrorAggregate(t *testing.T) {
	errs := &ParseError{}
	assert.NoError(t, errs.ErrOrNil())

	errs.Add(nil)
	errs.Add(&SyntaxError{Pos: tok.Position{Line: 1, Column: 1}, Found: tok.Token{Type: tok.EOF}})
	inner := &ParseError{}
	inner.Add(ErrUnknownRule)
	errs.Add(inner)

	assert.Equal(t, 2, len(errs.Errors))
	assert.True(t, errors.Is(errs.ErrOrNil(), ErrUnknownRule))
	assert.True(t, errors.Is(errs, ErrSyntax))
	assert.Contains(t, errs.Error(), "[2] unknown grammar rule")
}

func tokenValues(tokens []pc.Token[Entity]) []string {
	values := make([]string, len(tokens))
	for i, token := range tokens {
		values[i] = token.Val.Original.Value
	}
	return values
}

func TestVariableTokenPrimitive(t *testing.T) {
	tokens, err := tok.NewErlangTokenizer("Name").AllTokens()
	assert.NoError(t, err)

	tracker := NewTracker()
	pcTokens := ToParserToken(tokens, tracker)
	pctx := pc.NewParseContext[Entity]()

	consumed, result, err := VariableToken(pctx, pcTokens)
	assert.NoError(t, err)
	assert.Equal(t, 1, consumed)
	assert.Equal(t, tok.VARIABLE, result[0].Val.Original.Type)

	_, _, err = Expect("atom", Atom)(pctx, pcTokens)
	assert.IsError(t, err, pc.ErrNotMatch)
	_, _, expected := tracker.Furthest()
	assert.Equal(t, []string{"atom"}, expected)
}
