package parsercommon

import (
	"slices"

	pc "github.com/shibukawa/parsercombinator"
	tok "github.com/shibukawa/snaperl/tokenizer"
)

// Entity is the value carried by combinator tokens. Input tokens carry the
// original lexeme; tokens produced by a rule carry the built node.
type Entity struct {
	Original tok.Token // first source token of the entity
	Node     Node      // nil for raw input tokens

	index   int // position in the trivia-free stream
	tracker *Tracker
}

// Index returns the position of the entity in the trivia-free stream.
func (e Entity) Index() int {
	return e.index
}

// Tracker returns the failure tracker of the parse the entity belongs to.
func (e Entity) Tracker() *Tracker {
	return e.tracker
}

// ToParserToken converts tokenizer output into combinator input. Whitespace
// and comments are dropped and every remaining token shares tracker.
func ToParserToken(tokens []tok.Token, tracker *Tracker) []pc.Token[Entity] {
	results := make([]pc.Token[Entity], 0, len(tokens))

	for _, token := range tokens {
		if token.Type.IsTrivia() {
			continue
		}
		results = append(results, pc.Token[Entity]{
			Type: "raw",
			Pos: &pc.Pos{
				Line:  token.Position.Line,
				Col:   token.Position.Column,
				Index: token.Position.Offset,
			},
			Val: Entity{
				Original: token,
				index:    len(results),
				tracker:  tracker,
			},
			Raw: token.Value,
		})
	}

	return results
}

// NodeToken wraps a built node into a combinator token located at first.
func NodeToken(node Node, first pc.Token[Entity]) pc.Token[Entity] {
	return pc.Token[Entity]{
		Type: "node",
		Pos:  first.Pos,
		Val: Entity{
			Original: first.Val.Original,
			Node:     node,
			index:    first.Val.index,
			tracker:  first.Val.tracker,
		},
		Raw: first.Raw,
	}
}

// ToToken extracts the source tokens.
func ToToken(entities []pc.Token[Entity]) []tok.Token {
	results := make([]tok.Token, 0, len(entities))
	for _, entity := range entities {
		results = append(results, entity.Val.Original)
	}

	return results
}

// Fail records label as expected at the head of tokens.
func Fail(tokens []pc.Token[Entity], label string) {
	if len(tokens) == 0 {
		return
	}
	tokens[0].Val.tracker.Fail(tokens[0].Val.index, tokens[0].Val.Original, label)
}

// Expect runs p and records label at the head of tokens when p does not match.
func Expect(label string, p pc.Parser[Entity]) pc.Parser[Entity] {
	return func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
		consumed, result, err := p(pctx, tokens)
		if err != nil {
			Fail(tokens, label)
		}
		return consumed, result, err
	}
}

func match(tokens []pc.Token[Entity], cond func(tok.Token) bool) (int, []pc.Token[Entity], error) {
	if len(tokens) > 0 && cond(tokens[0].Val.Original) {
		return 1, tokens[:1], nil
	}
	return 0, nil, pc.ErrNotMatch
}

// PrimitiveType matches one token of any of the given types.
func PrimitiveType(typeName string, types ...tok.TokenType) pc.Parser[Entity] {
	return pc.Trace(typeName, func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
		return match(tokens, func(t tok.Token) bool {
			return slices.Contains(types, t.Type) && !t.Reserved
		})
	})
}

// Punct matches one punctuation token with the given text.
func Punct(text string) pc.Parser[Entity] {
	return Expect("'"+text+"'", func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
		return match(tokens, func(t tok.Token) bool {
			return t.Is(tok.PUNCTUATION, text)
		})
	})
}

// PeekPunct reports whether the head of tokens is the punctuation text.
func PeekPunct(tokens []pc.Token[Entity], text string) bool {
	return len(tokens) > 0 && tokens[0].Val.Original.Is(tok.PUNCTUATION, text)
}

// Op matches one operator token whose text is one of ops.
func Op(ops ...string) pc.Parser[Entity] {
	return func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
		return match(tokens, func(t tok.Token) bool {
			return t.Type == tok.OPERATOR && slices.Contains(ops, t.Value)
		})
	}
}

// KeywordType matches one reserved word.
func KeywordType(word string) pc.Parser[Entity] {
	return Expect("'"+word+"'", func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
		return match(tokens, func(t tok.Token) bool {
			return t.Reserved && t.Is(tok.ATOM, word)
		})
	})
}

// MacroMarker matches ? or ??.
func MacroMarker() pc.Parser[Entity] {
	return PrimitiveType("macroMarker", tok.MACRO_MARKER)
}

var (
	// Atom parses an atom that is not a reserved word.
	Atom = PrimitiveType("atom", tok.ATOM)
	// VariableToken parses a variable token.
	VariableToken = PrimitiveType("variable", tok.VARIABLE)
	// Name parses an atom or a variable, as used for record and macro names.
	Name = PrimitiveType("name", tok.ATOM, tok.VARIABLE)
	// Number parses an integer or float.
	Number = PrimitiveType("number", tok.INTEGER, tok.FLOAT)
	// Integer parses an integer.
	Integer = PrimitiveType("integer", tok.INTEGER)
	// Char parses a character literal.
	Char = PrimitiveType("char", tok.CHAR)
	// String parses one string literal token.
	String = PrimitiveType("string", tok.STRING)

	// EOS matches the end of the token stream.
	EOS = Expect("end of input", func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
		if len(tokens) == 0 {
			return 0, nil, nil
		}
		return match(tokens, func(t tok.Token) bool {
			return t.Type == tok.EOF
		})
	})
)
