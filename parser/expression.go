package parser

import (
	pc "github.com/shibukawa/parsercombinator"
	cmn "github.com/shibukawa/snaperl/parser/parsercommon"
	tok "github.com/shibukawa/snaperl/tokenizer"
)

// expression is the loosest expression level: a catch expression or an
// operator chain.
func expression(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
	if isCatch(tokens) {
		return catchExpression(pctx, tokens)
	}
	return operatorExpression(pctx, tokens)
}

func isCatch(tokens []pc.Token[Entity]) bool {
	if len(tokens) == 0 {
		return false
	}
	t := tokens[0].Val.Original
	return t.Reserved && t.Is(tok.ATOM, "catch")
}

// catchExpression parses catch Expr. The inner expression takes everything
// that follows, including another catch.
func catchExpression(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
	consumed, _, err := cmn.KeywordType("catch")(pctx, tokens)
	if err != nil {
		return 0, nil, err
	}
	c, inner, err := parseNode(RuleExpression, pctx, tokens[consumed:])
	if err != nil {
		return 0, nil, err
	}
	return built(cmn.NewCatch(tokens[0].Val.Original, inner), consumed+c, tokens)
}

// operatorExpression parses a whole binary operator chain.
func operatorExpression(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
	consumed, node, _, err := parseChain(pctx, tokens, LevelMatch)
	if err != nil {
		return 0, nil, err
	}
	return built(node, consumed, tokens)
}

// parseChain is precedence climbing: it parses an operand and then folds in
// every following operator whose level is at least minLevel. stopped is set
// when the chain ended at an operator that must not be consumed by any
// enclosing level either.
func parseChain(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity], minLevel Level) (consumed int, left cmn.Node, stopped bool, err error) {
	consumed, left, err = parseNode(RuleUnaryExpression, pctx, tokens)
	if err != nil {
		return 0, nil, false, err
	}

	var previous *OperatorInfo
	for {
		rest := tokens[consumed:]
		info, ok := peekBinaryOperator(rest)
		if !ok || info.Level < minLevel {
			break
		}
		// comparisons do not chain: A =:= B =:= C stops after the first one
		if info.Associativity == NonAssoc && previous != nil && previous.Level == info.Level {
			return consumed, left, true, nil
		}
		if info.Operator == "=" && !IsPattern(left) {
			return consumed, left, true, nil
		}

		c, right, stop, err := parseChain(pctx, rest[1:], info.rightLevel())
		if err != nil {
			break
		}
		left = cmn.NewBinaryOp(left, info.Operator, right)
		consumed += 1 + c
		if stop {
			return consumed, left, true, nil
		}
		previous = &info
	}

	return consumed, left, false, nil
}

func peekBinaryOperator(tokens []pc.Token[Entity]) (OperatorInfo, bool) {
	if len(tokens) == 0 || tokens[0].Val.Original.Type != tok.OPERATOR {
		return OperatorInfo{}, false
	}
	return LookupOperator(tokens[0].Val.Original.Value)
}

// unaryExpression parses prefix operators applied to a postfix expression.
func unaryExpression(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
	if len(tokens) > 0 {
		t := tokens[0].Val.Original
		if t.Type == tok.OPERATOR && IsUnaryOperator(t.Value) {
			c, operand, err := parseNode(RuleUnaryExpression, pctx, tokens[1:])
			if err != nil {
				return 0, nil, err
			}
			return built(cmn.NewUnaryOp(t, operand), 1+c, tokens)
		}
	}
	return registry[RulePostfixExpression](pctx, tokens)
}

// IsPattern reports whether node has a shape that may appear on the left of
// a match. Variables are not checked for binding.
func IsPattern(node cmn.Node) bool {
	switch n := node.(type) {
	case *cmn.Literal, *cmn.Variable, *cmn.MacroUse:
		return true
	case *cmn.Tuple:
		return allPatterns(n.Elements)
	case *cmn.List:
		return allPatterns(n.Children())
	case *cmn.Binary:
		for _, segment := range n.Segments {
			if !IsPattern(segment.Value) {
				return false
			}
		}
		return true
	case *cmn.RecordCreate:
		for _, field := range n.Fields {
			if !IsPattern(field.Value) {
				return false
			}
		}
		return true
	case *cmn.RecordAccess:
		// #Name.Field is the field index, a constant
		return n.Base == nil
	case *cmn.Parenthesized:
		return IsPattern(n.Inner)
	case *cmn.UnaryOp:
		literal, ok := n.Operand.(*cmn.Literal)
		return ok && (n.Operator == "-" || n.Operator == "+") &&
			(literal.Kind == cmn.IntegerLiteral || literal.Kind == cmn.FloatLiteral || literal.Kind == cmn.CharLiteral)
	case *cmn.BinaryOp:
		switch n.Operator {
		case "=":
			return IsPattern(n.Left) && IsPattern(n.Right)
		case "++":
			prefix, ok := n.Left.(*cmn.Literal)
			return ok && prefix.Kind == cmn.StringLiteral && IsPattern(n.Right)
		}
	}
	return false
}

func allPatterns(nodes []cmn.Node) bool {
	for _, node := range nodes {
		if !IsPattern(node) {
			return false
		}
	}
	return true
}
