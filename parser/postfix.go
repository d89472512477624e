package parser

import (
	pc "github.com/shibukawa/parsercombinator"
	cmn "github.com/shibukawa/snaperl/parser/parsercommon"
)

// postfixExpression parses a primary followed by an argument list, a remote
// call or a chain of record operations:
//
//	f(A)  m:f(A)  ?MODULE:f()  R#rec.field  R#rec{a = 1}  R#a.b#b.c.d
//
// A call ends the chain. A suffix that does not parse completely is left
// for the caller.
func postfixExpression(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
	consumed, base, err := parseNode(RulePrimary, pctx, tokens)
	if err != nil {
		return 0, nil, err
	}

	if c, call, ok := callSuffix(pctx, tokens[consumed:], base); ok {
		return built(call, consumed+c, tokens)
	}

	for {
		c, node, ok := recordSuffix(pctx, tokens[consumed:], base)
		if !ok {
			break
		}
		base = node
		consumed += c
	}

	return built(base, consumed, tokens)
}

// functionCall only accepts postfix expressions that end in a call.
func functionCall(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity]) (int, []pc.Token[Entity], error) {
	consumed, result, err := postfixExpression(pctx, tokens)
	if err != nil {
		return 0, nil, err
	}
	if _, ok := result[0].Val.Node.(*cmn.FunctionCall); !ok {
		cmn.Fail(tokens[consumed:], "'('")
		return 0, nil, pc.ErrNotMatch
	}
	return consumed, result, nil
}

// callSuffix parses (Args) or :Name(Args) after base.
func callSuffix(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity], base cmn.Node) (int, cmn.Node, bool) {
	var module cmn.Node
	name := base
	consumed := 0

	if cmn.PeekPunct(tokens, ":") {
		c, remote, err := parseNode(RulePrimary, pctx, tokens[1:])
		if err != nil {
			return 0, nil, false
		}
		module = base
		name = remote
		consumed = 1 + c
	}

	if !cmn.PeekPunct(tokens[consumed:], "(") {
		if module != nil {
			cmn.Fail(tokens[consumed:], "'('")
		}
		return 0, nil, false
	}
	c, args, err := arguments(pctx, tokens[consumed:])
	if err != nil {
		return 0, nil, false
	}
	consumed += c
	return consumed, cmn.NewFunctionCall(module, name, args, tokens[consumed-1].Val.Original), true
}

// recordSuffix parses one record operation applied to base:
// #Name.Field, #Name{Fields} or a further .Field after an access, which
// reuses the record name of that access.
func recordSuffix(pctx *pc.ParseContext[Entity], tokens []pc.Token[Entity], base cmn.Node) (int, cmn.Node, bool) {
	if access, ok := base.(*cmn.RecordAccess); ok && cmn.PeekPunct(tokens, ".") {
		if _, _, err := cmn.Name(pctx, tokens[1:]); err != nil {
			return 0, nil, false
		}
		field := tokens[1].Val.Original
		return 2, cmn.NewRecordAccess(base, tokens[0].Val.Original, access.Record, field), true
	}

	if !cmn.PeekPunct(tokens, "#") {
		return 0, nil, false
	}
	if _, _, err := cmn.Expect("record name", cmn.Name)(pctx, tokens[1:]); err != nil {
		return 0, nil, false
	}
	name := tokens[1].Val.Original

	switch {
	case cmn.PeekPunct(tokens[2:], "."):
		if _, _, err := cmn.Expect("record field", cmn.Name)(pctx, tokens[3:]); err != nil {
			return 0, nil, false
		}
		return 4, cmn.NewRecordAccess(base, tokens[0].Val.Original, name.Value, tokens[3].Val.Original), true
	case cmn.PeekPunct(tokens[2:], "{"):
		c, fields, err := recordFields(pctx, tokens[2:])
		if err != nil {
			return 0, nil, false
		}
		consumed := 2 + c
		return consumed, cmn.NewRecordUpdate(base, name, fields, tokens[consumed-1].Val.Original), true
	}

	cmn.Fail(tokens[2:], "'.'")
	cmn.Fail(tokens[2:], "'{'")
	return 0, nil, false
}
