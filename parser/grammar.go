package parser

import (
	"slices"

	pc "github.com/shibukawa/parsercombinator"
	cmn "github.com/shibukawa/snaperl/parser/parsercommon"
)

type Entity = cmn.Entity

// RuleName identifies a grammar rule in the registry.
type RuleName string

const (
	RuleExpression         RuleName = "expression"
	RuleCatchExpression    RuleName = "catch_expression"
	RuleOperatorExpression RuleName = "operator_expression"
	RuleUnaryExpression    RuleName = "unary_expression"
	RulePostfixExpression  RuleName = "postfix_expression"
	RuleFunctionCall       RuleName = "function_call"
	RulePrimary            RuleName = "primary"
	RuleLiteral            RuleName = "literal"
	RuleVariable           RuleName = "variable"
	RuleParenthesized      RuleName = "parenthesized"
	RuleTuple              RuleName = "tuple"
	RuleList               RuleName = "list"
	RuleBinary             RuleName = "binary"
	RuleRecordExpression   RuleName = "record_expression"
	RuleMacroUse           RuleName = "macro_use"
	RuleQualifier          RuleName = "qualifier"
)

// registry maps every rule name to its parser. It is filled once in init and
// only read afterwards, so parses may run concurrently.
var registry = map[RuleName]pc.Parser[Entity]{}

func init() {
	registry[RuleExpression] = pc.Trace(string(RuleExpression), expression)
	registry[RuleCatchExpression] = pc.Trace(string(RuleCatchExpression), catchExpression)
	registry[RuleOperatorExpression] = pc.Trace(string(RuleOperatorExpression), operatorExpression)
	registry[RuleUnaryExpression] = pc.Trace(string(RuleUnaryExpression), unaryExpression)
	registry[RulePostfixExpression] = pc.Trace(string(RulePostfixExpression), postfixExpression)
	registry[RuleFunctionCall] = pc.Trace(string(RuleFunctionCall), functionCall)
	registry[RulePrimary] = pc.Trace(string(RulePrimary), primary())
	registry[RuleLiteral] = pc.Trace(string(RuleLiteral), literal())
	registry[RuleVariable] = pc.Trace(string(RuleVariable), variable())
	registry[RuleParenthesized] = pc.Trace(string(RuleParenthesized), parenthesized())
	registry[RuleTuple] = pc.Trace(string(RuleTuple), tuple)
	registry[RuleList] = pc.Trace(string(RuleList), list)
	registry[RuleBinary] = pc.Trace(string(RuleBinary), binary)
	registry[RuleRecordExpression] = pc.Trace(string(RuleRecordExpression), recordExpression)
	registry[RuleMacroUse] = pc.Trace(string(RuleMacroUse), macroUse)
	registry[RuleQualifier] = pc.Trace(string(RuleQualifier), qualifier)
}

// Rules returns the registered rule names in sorted order.
func Rules() []RuleName {
	names := make([]RuleName, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// rule refers to a registered rule lazily so that rules can be mutually
// recursive.
func rule(name RuleName) pc.Parser[Entity] {
	return pc.Lazy(func() pc.Parser[Entity] { return registry[name] })
}

// parseNode runs a registered rule and returns the node it built.
func parseNode(name RuleName, pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, cmn.Node, error) {
	consumed, result, err := registry[name](pctx, tokens)
	if err != nil {
		return 0, nil, err
	}
	return consumed, result[0].Val.Node, nil
}

// built wraps node into the single output token of a rule.
func built(node cmn.Node, consumed int, tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
	return consumed, []pc.Token[Entity]{cmn.NodeToken(node, tokens[0])}, nil
}

// sequence parses elem (sep elem)* and stops before the first token that
// does not continue the sequence.
func sequence(name RuleName, sep string, pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []cmn.Node, error) {
	consumed, first, err := parseNode(name, pctx, tokens)
	if err != nil {
		return 0, nil, err
	}
	nodes := []cmn.Node{first}
	for cmn.PeekPunct(tokens[consumed:], sep) {
		c, node, err := parseNode(name, pctx, tokens[consumed+1:])
		if err != nil {
			break
		}
		nodes = append(nodes, node)
		consumed += 1 + c
	}
	return consumed, nodes, nil
}

// arguments parses '(' [Expr (',' Expr)*] ')'.
func arguments(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []cmn.Node, error) {
	if !cmn.PeekPunct(tokens, "(") {
		return 0, nil, pc.ErrNotMatch
	}
	consumed := 1
	var args []cmn.Node
	if !cmn.PeekPunct(tokens[consumed:], ")") {
		c, nodes, err := sequence(RuleExpression, ",", pctx, tokens[consumed:])
		if err != nil {
			cmn.Fail(tokens[consumed:], "')'")
			return 0, nil, err
		}
		args = nodes
		consumed += c
	}
	if _, _, err := cmn.Punct(")")(pctx, tokens[consumed:]); err != nil {
		if len(args) > 0 {
			cmn.Fail(tokens[consumed:], "','")
		}
		return 0, nil, err
	}
	return consumed + 1, args, nil
}
