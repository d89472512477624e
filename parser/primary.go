package parser

import (
	pc "github.com/shibukawa/parsercombinator"
	cmn "github.com/shibukawa/snaperl/parser/parsercommon"
	tok "github.com/shibukawa/snaperl/tokenizer"
)

// primary parses the tightest expression forms. Each alternative is decided
// by its first token, so at most one of them can make progress.
func primary() pc.Parser[Entity] {
	return cmn.Expect("primary expression", pc.Or(
		rule(RuleLiteral),
		rule(RuleVariable),
		rule(RuleParenthesized),
		guarded("{", rule(RuleTuple)),
		guarded("[", rule(RuleList)),
		guarded("<<", rule(RuleBinary)),
		guarded("#", rule(RuleRecordExpression)),
		rule(RuleMacroUse),
	))
}

// guarded only runs p when the next token is the given punctuation, so that
// a mismatch at the first token records nothing.
func guarded(open string, p pc.Parser[Entity]) pc.Parser[Entity] {
	return func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
		if !cmn.PeekPunct(tokens, open) {
			return 0, nil, pc.ErrNotMatch
		}
		return p(pctx, tokens)
	}
}

// literal parses atoms, numbers, chars and runs of adjacent strings.
func literal() pc.Parser[Entity] {
	return pc.Or(
		pc.Trans(
			cmn.Atom,
			func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) ([]pc.Token[Entity], error) {
				return nodeTokens(cmn.NewLiteral(cmn.AtomLiteral, tokens[0].Val.Original), tokens), nil
			},
		),
		pc.Trans(
			cmn.Number,
			func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) ([]pc.Token[Entity], error) {
				kind := cmn.IntegerLiteral
				if tokens[0].Val.Original.Type == tok.FLOAT {
					kind = cmn.FloatLiteral
				}
				return nodeTokens(cmn.NewLiteral(kind, tokens[0].Val.Original), tokens), nil
			},
		),
		pc.Trans(
			cmn.Char,
			func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) ([]pc.Token[Entity], error) {
				return nodeTokens(cmn.NewLiteral(cmn.CharLiteral, tokens[0].Val.Original), tokens), nil
			},
		),
		stringLiteral,
	)
}

// stringLiteral merges adjacent string tokens ("a" "b") into one literal.
func stringLiteral(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
	consumed := 0
	for consumed < len(tokens) && tokens[consumed].Val.Original.Type == tok.STRING {
		consumed++
	}
	if consumed == 0 {
		return 0, nil, pc.ErrNotMatch
	}
	return built(cmn.NewLiteral(cmn.StringLiteral, cmn.ToToken(tokens[:consumed])...), consumed, tokens)
}

func variable() pc.Parser[Entity] {
	return pc.Trans(
		cmn.VariableToken,
		func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) ([]pc.Token[Entity], error) {
			return nodeTokens(cmn.NewVariable(tokens[0].Val.Original), tokens), nil
		},
	)
}

func parenthesized() pc.Parser[Entity] {
	return guarded("(", pc.Trans(
		pc.Seq(
			cmn.Punct("("),
			rule(RuleExpression),
			cmn.Punct(")"),
		),
		func(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) ([]pc.Token[Entity], error) {
			node := cmn.NewParenthesized(tokens[0].Val.Original, tokens[2].Val.Original, tokens[1].Val.Node)
			return nodeTokens(node, tokens), nil
		},
	))
}

func nodeTokens(node cmn.Node, tokens []pc.Token[Entity]) []pc.Token[Entity] {
	return []pc.Token[Entity]{cmn.NodeToken(node, tokens[0])}
}

// macroUse parses ?Name, ??Name and ?Name(Args). Macros are never expanded.
func macroUse(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
	if _, _, err := cmn.MacroMarker()(pctx, tokens); err != nil {
		return 0, nil, err
	}
	marker := tokens[0].Val.Original
	if _, _, err := cmn.Expect("macro name", macroName)(pctx, tokens[1:]); err != nil {
		return 0, nil, err
	}
	name := tokens[1].Val.Original
	consumed := 2

	if !cmn.PeekPunct(tokens[consumed:], "(") {
		return built(cmn.NewMacroUse(marker, name, nil, false, name), consumed, tokens)
	}
	c, args, err := arguments(pctx, tokens[consumed:])
	if err != nil {
		return 0, nil, err
	}
	consumed += c
	closing := tokens[consumed-1].Val.Original
	return built(cmn.NewMacroUse(marker, name, args, true, closing), consumed, tokens)
}

// macroName accepts any atom or variable, reserved words included (?if is
// a legal macro name).
func macroName(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
	if len(tokens) > 0 {
		t := tokens[0].Val.Original
		if t.Type == tok.ATOM || t.Type == tok.VARIABLE {
			return 1, tokens[:1], nil
		}
	}
	return 0, nil, pc.ErrNotMatch
}

// recordExpression parses the bare record forms #Name{Fields} and
// #Name.Field. Chained record operations are handled by the postfix rule.
func recordExpression(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
	if _, _, err := cmn.Punct("#")(pctx, tokens); err != nil {
		return 0, nil, err
	}
	hash := tokens[0].Val.Original
	if _, _, err := cmn.Expect("record name", cmn.Name)(pctx, tokens[1:]); err != nil {
		return 0, nil, err
	}
	name := tokens[1].Val.Original
	consumed := 2

	switch {
	case cmn.PeekPunct(tokens[consumed:], "."):
		if _, _, err := cmn.Expect("record field", cmn.Name)(pctx, tokens[consumed+1:]); err != nil {
			return 0, nil, err
		}
		field := tokens[consumed+1].Val.Original
		return built(cmn.NewRecordAccess(nil, hash, name.Value, field), consumed+2, tokens)
	case cmn.PeekPunct(tokens[consumed:], "{"):
		c, fields, err := recordFields(pctx, tokens[consumed:])
		if err != nil {
			return 0, nil, err
		}
		consumed += c
		closing := tokens[consumed-1].Val.Original
		return built(cmn.NewRecordCreate(hash, name, closing, fields), consumed, tokens)
	}

	cmn.Fail(tokens[consumed:], "'.'")
	cmn.Fail(tokens[consumed:], "'{'")
	return 0, nil, pc.ErrNotMatch
}

// recordFields parses '{' [Field '=' Expr (',' Field '=' Expr)*] '}'.
func recordFields(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []*cmn.RecordField, error) {
	if _, _, err := cmn.Punct("{")(pctx, tokens); err != nil {
		return 0, nil, err
	}
	consumed := 1
	var fields []*cmn.RecordField

	if !cmn.PeekPunct(tokens[consumed:], "}") {
		for {
			c, field, err := recordField(pctx, tokens[consumed:])
			if err != nil {
				return 0, nil, err
			}
			fields = append(fields, field)
			consumed += c
			if !cmn.PeekPunct(tokens[consumed:], ",") {
				break
			}
			consumed++
		}
	}

	if _, _, err := cmn.Punct("}")(pctx, tokens[consumed:]); err != nil {
		if len(fields) > 0 {
			cmn.Fail(tokens[consumed:], "','")
		}
		return 0, nil, err
	}
	return consumed + 1, fields, nil
}

func recordField(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, *cmn.RecordField, error) {
	if _, _, err := cmn.Expect("record field", cmn.Name)(pctx, tokens); err != nil {
		return 0, nil, err
	}
	if _, _, err := cmn.Expect("'='", cmn.Op("="))(pctx, tokens[1:]); err != nil {
		return 0, nil, err
	}
	c, value, err := parseNode(RuleExpression, pctx, tokens[2:])
	if err != nil {
		return 0, nil, err
	}
	return 2 + c, cmn.NewRecordField(tokens[0].Val.Original, value), nil
}
