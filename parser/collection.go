package parser

import (
	pc "github.com/shibukawa/parsercombinator"
	cmn "github.com/shibukawa/snaperl/parser/parsercommon"
	tok "github.com/shibukawa/snaperl/tokenizer"
)

// tuple parses {} and {E1, ..., En}.
func tuple(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
	if _, _, err := cmn.Punct("{")(pctx, tokens); err != nil {
		return 0, nil, err
	}
	consumed := 1
	var elements []cmn.Node
	if !cmn.PeekPunct(tokens[consumed:], "}") {
		c, nodes, err := sequence(RuleExpression, ",", pctx, tokens[consumed:])
		if err != nil {
			return 0, nil, err
		}
		elements = nodes
		consumed += c
	}
	if _, _, err := cmn.Punct("}")(pctx, tokens[consumed:]); err != nil {
		if len(elements) > 0 {
			cmn.Fail(tokens[consumed:], "','")
		}
		return 0, nil, err
	}
	consumed++
	return built(cmn.NewTuple(tokens[0].Val.Original, tokens[consumed-1].Val.Original, elements), consumed, tokens)
}

// list parses [], [E1, ..., En], [E1, ..., En | Tail] and [T || Qualifiers].
func list(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
	if _, _, err := cmn.Punct("[")(pctx, tokens); err != nil {
		return 0, nil, err
	}
	open := tokens[0].Val.Original
	consumed := 1

	if cmn.PeekPunct(tokens[consumed:], "]") {
		consumed++
		return built(cmn.NewList(open, tokens[consumed-1].Val.Original, nil, nil), consumed, tokens)
	}

	c, first, err := parseNode(RuleExpression, pctx, tokens[consumed:])
	if err != nil {
		return 0, nil, err
	}
	consumed += c

	if cmn.PeekPunct(tokens[consumed:], "||") {
		c, quals, err := qualifiers(pctx, tokens[consumed+1:])
		if err != nil {
			return 0, nil, err
		}
		consumed += 1 + c
		if _, _, err := cmn.Punct("]")(pctx, tokens[consumed:]); err != nil {
			cmn.Fail(tokens[consumed:], "','")
			return 0, nil, err
		}
		consumed++
		return built(cmn.NewListComprehension(open, tokens[consumed-1].Val.Original, first, quals), consumed, tokens)
	}

	elements := []cmn.Node{first}
	for cmn.PeekPunct(tokens[consumed:], ",") {
		c, element, err := parseNode(RuleExpression, pctx, tokens[consumed+1:])
		if err != nil {
			return 0, nil, err
		}
		elements = append(elements, element)
		consumed += 1 + c
	}

	var tail cmn.Node
	if cmn.PeekPunct(tokens[consumed:], "|") {
		c, node, err := parseNode(RuleExpression, pctx, tokens[consumed+1:])
		if err != nil {
			return 0, nil, err
		}
		tail = node
		consumed += 1 + c
	}

	if _, _, err := cmn.Punct("]")(pctx, tokens[consumed:]); err != nil {
		if tail == nil {
			cmn.Fail(tokens[consumed:], "','")
			cmn.Fail(tokens[consumed:], "'|'")
			if len(elements) == 1 {
				cmn.Fail(tokens[consumed:], "'||'")
			}
		}
		return 0, nil, err
	}
	consumed++
	return built(cmn.NewList(open, tokens[consumed-1].Val.Original, elements, tail), consumed, tokens)
}

// qualifiers parses Q1, ..., Qn of a comprehension.
func qualifiers(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []cmn.Node, error) {
	consumed := 0
	var nodes []cmn.Node
	for {
		c, node, err := parseNode(RuleQualifier, pctx, tokens[consumed:])
		if err != nil {
			return 0, nil, err
		}
		nodes = append(nodes, node)
		consumed += c
		if !cmn.PeekPunct(tokens[consumed:], ",") {
			return consumed, nodes, nil
		}
		consumed++
	}
}

// qualifier parses Pattern <- Expr, Pattern <= Expr or a filter expression.
func qualifier(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
	consumed, pattern, err := parseNode(RuleExpression, pctx, tokens)
	if err != nil {
		return 0, nil, err
	}

	var kind cmn.GeneratorKind
	switch {
	case cmn.PeekPunct(tokens[consumed:], "<-"):
		kind = cmn.ListGenerator
	case cmn.PeekPunct(tokens[consumed:], "<="):
		kind = cmn.BinaryGenerator
	default:
		return built(pattern, consumed, tokens)
	}

	c, source, err := parseNode(RuleExpression, pctx, tokens[consumed+1:])
	if err != nil {
		return 0, nil, err
	}
	return built(cmn.NewGenerator(kind, pattern, source), consumed+1+c, tokens)
}

// binary parses <<>>, <<Seg1, ..., SegN>> and << T || Qualifiers >>.
// The first value is parsed once and then becomes either the comprehension
// template or the value of the first segment.
func binary(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
	if _, _, err := cmn.Punct("<<")(pctx, tokens); err != nil {
		return 0, nil, err
	}
	open := tokens[0].Val.Original
	consumed := 1

	if cmn.PeekPunct(tokens[consumed:], ">>") {
		consumed++
		return built(cmn.NewBinary(open, tokens[consumed-1].Val.Original, nil), consumed, tokens)
	}

	var first *cmn.BinarySegment
	var c int
	var err error
	if startsWithUnary(tokens[consumed:]) {
		c, first, err = binarySegment(pctx, tokens[consumed:])
	} else {
		var value cmn.Node
		var vc int
		vc, value, err = parseNode(RulePrimary, pctx, tokens[consumed:])
		if err == nil && cmn.PeekPunct(tokens[consumed+vc:], "||") {
			return binaryComprehension(pctx, tokens, consumed+vc+1, value)
		}
		if err == nil {
			c, first, err = segmentTail(pctx, tokens[consumed:], value, vc)
		}
	}
	if err != nil {
		return 0, nil, err
	}
	segments := []*cmn.BinarySegment{first}
	consumed += c

	for cmn.PeekPunct(tokens[consumed:], ",") {
		c, segment, err := binarySegment(pctx, tokens[consumed+1:])
		if err != nil {
			return 0, nil, err
		}
		segments = append(segments, segment)
		consumed += 1 + c
	}

	if _, _, err := cmn.Punct(">>")(pctx, tokens[consumed:]); err != nil {
		cmn.Fail(tokens[consumed:], "','")
		return 0, nil, err
	}
	consumed++
	return built(cmn.NewBinary(open, tokens[consumed-1].Val.Original, segments), consumed, tokens)
}

// binaryComprehension finishes << Template || Qualifiers >>. consumed points
// just after the || token.
func binaryComprehension(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity], consumed int, template cmn.Node) (int, []pc.Token[Entity], error) {
	c, quals, err := qualifiers(pctx, tokens[consumed:])
	if err != nil {
		return 0, nil, err
	}
	consumed += c
	if _, _, err := cmn.Punct(">>")(pctx, tokens[consumed:]); err != nil {
		cmn.Fail(tokens[consumed:], "','")
		return 0, nil, err
	}
	consumed++
	return built(cmn.NewBinaryComprehension(tokens[0].Val.Original, tokens[consumed-1].Val.Original, template, quals), consumed, tokens)
}

func startsWithUnary(tokens []pc.Token[Entity]) bool {
	if len(tokens) == 0 {
		return false
	}
	t := tokens[0].Val.Original
	return t.Type == tok.OPERATOR && IsUnaryOperator(t.Value)
}

// binarySegment parses [PrefixOp] Value [':' Size] ['/' Type ('-' Type)*].
func binarySegment(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, *cmn.BinarySegment, error) {
	if startsWithUnary(tokens) {
		c, operand, err := parseNode(RulePrimary, pctx, tokens[1:])
		if err != nil {
			return 0, nil, err
		}
		return segmentTail(pctx, tokens, cmn.NewUnaryOp(tokens[0].Val.Original, operand), 1+c)
	}

	c, value, err := parseNode(RulePrimary, pctx, tokens)
	if err != nil {
		return 0, nil, err
	}
	return segmentTail(pctx, tokens, value, c)
}

// segmentTail parses the optional ':' Size and '/' Types that follow a
// segment value already taking the first consumed tokens.
func segmentTail(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity], value cmn.Node, consumed int) (int, *cmn.BinarySegment, error) {
	var size cmn.Node
	if cmn.PeekPunct(tokens[consumed:], ":") {
		c, node, err := parseNode(RulePrimary, pctx, tokens[consumed+1:])
		if err != nil {
			return 0, nil, err
		}
		size = node
		consumed += 1 + c
	}

	var types []cmn.TypeSpecifier
	if rest := tokens[consumed:]; len(rest) > 0 && rest[0].Val.Original.Is(tok.OPERATOR, "/") {
		consumed++
		for {
			c, spec, err := typeSpecifier(pctx, tokens[consumed:])
			if err != nil {
				return 0, nil, err
			}
			types = append(types, spec)
			consumed += c
			if rest := tokens[consumed:]; len(rest) < 2 || !rest[0].Val.Original.Is(tok.OPERATOR, "-") || rest[1].Val.Original.Type != tok.ATOM {
				break
			}
			consumed++
		}
	}

	return consumed, cmn.NewBinarySegment(value, size, types, tokens[consumed-1].Val.Original), nil
}

// typeSpecifier parses a type such as binary, utf8 or unit:8.
func typeSpecifier(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, cmn.TypeSpecifier, error) {
	if _, _, err := cmn.Expect("type specifier", cmn.Atom)(pctx, tokens); err != nil {
		return 0, cmn.TypeSpecifier{}, err
	}
	spec := cmn.TypeSpecifier{Name: tokens[0].Val.Original.Value}
	if !cmn.PeekPunct(tokens[1:], ":") {
		return 1, spec, nil
	}
	if _, _, err := cmn.Expect("integer", cmn.Integer)(pctx, tokens[2:]); err != nil {
		return 0, cmn.TypeSpecifier{}, err
	}
	spec.Unit = tokens[2].Val.Original.Value
	return 3, spec, nil
}
