package parsercommon

import (
	tok "github.com/shibukawa/snaperl/tokenizer"
)

// Node constructors. Each one computes the span from the first and last
// source element it covers and never validates semantics.

func between(first, last Node) Span {
	return Span{Start: first.Span().Start, End: last.Span().End}
}

func NewLiteral(kind LiteralKind, parts ...tok.Token) *Literal {
	values := make([]string, len(parts))
	for i, p := range parts {
		values[i] = p.Value
	}
	value := values[0]
	for _, v := range values[1:] {
		value += " " + v
	}
	return &Literal{
		BaseNode: BaseNode{NodeType: LITERAL, NodeSpan: TokenSpan(parts[0], parts[len(parts)-1])},
		Kind:     kind,
		Value:    value,
	}
}

func NewVariable(t tok.Token) *Variable {
	return &Variable{
		BaseNode: BaseNode{NodeType: VARIABLE, NodeSpan: TokenSpan(t, t)},
		Name:     t.Value,
	}
}

func NewTuple(open, close tok.Token, elements []Node) *Tuple {
	return &Tuple{
		BaseNode: BaseNode{NodeType: TUPLE, NodeSpan: TokenSpan(open, close)},
		Elements: elements,
	}
}

func NewList(open, close tok.Token, elements []Node, tail Node) *List {
	return &List{
		BaseNode: BaseNode{NodeType: LIST, NodeSpan: TokenSpan(open, close)},
		Elements: elements,
		Tail:     tail,
	}
}

func NewListComprehension(open, close tok.Token, template Node, qualifiers []Node) *ListComprehension {
	return &ListComprehension{
		BaseNode:   BaseNode{NodeType: LIST_COMPREHENSION, NodeSpan: TokenSpan(open, close)},
		Template:   template,
		Qualifiers: qualifiers,
	}
}

func NewGenerator(kind GeneratorKind, pattern, source Node) *Generator {
	return &Generator{
		BaseNode: BaseNode{NodeType: GENERATOR, NodeSpan: between(pattern, source)},
		Kind:     kind,
		Pattern:  pattern,
		Source:   source,
	}
}

// NewBinarySegment builds a segment ending at last, the final token of the
// segment (the value, size or last type specifier).
func NewBinarySegment(value, size Node, types []TypeSpecifier, last tok.Token) *BinarySegment {
	span := value.Span()
	span.End = last.End
	return &BinarySegment{
		BaseNode: BaseNode{NodeType: BINARY_SEGMENT, NodeSpan: span},
		Value:    value,
		Size:     size,
		Types:    types,
	}
}

func NewBinary(open, close tok.Token, segments []*BinarySegment) *Binary {
	return &Binary{
		BaseNode: BaseNode{NodeType: BINARY, NodeSpan: TokenSpan(open, close)},
		Segments: segments,
	}
}

func NewBinaryComprehension(open, close tok.Token, template Node, qualifiers []Node) *BinaryComprehension {
	return &BinaryComprehension{
		BaseNode:   BaseNode{NodeType: BINARY_COMPREHENSION, NodeSpan: TokenSpan(open, close)},
		Template:   template,
		Qualifiers: qualifiers,
	}
}

func NewBinaryOp(left Node, operator string, right Node) *BinaryOp {
	return &BinaryOp{
		BaseNode: BaseNode{NodeType: BINARY_OP, NodeSpan: between(left, right)},
		Left:     left,
		Operator: operator,
		Right:    right,
	}
}

func NewUnaryOp(operator tok.Token, operand Node) *UnaryOp {
	return &UnaryOp{
		BaseNode: BaseNode{NodeType: UNARY_OP, NodeSpan: Span{Start: operator.Position, End: operand.Span().End}},
		Operator: operator.Value,
		Operand:  operand,
	}
}

func NewFunctionCall(module, name Node, args []Node, close tok.Token) *FunctionCall {
	start := name.Span().Start
	if module != nil {
		start = module.Span().Start
	}
	return &FunctionCall{
		BaseNode: BaseNode{NodeType: FUNCTION_CALL, NodeSpan: Span{Start: start, End: close.End}},
		Module:   module,
		Name:     name,
		Args:     args,
	}
}

func NewRecordField(name tok.Token, value Node) *RecordField {
	return &RecordField{
		BaseNode: BaseNode{NodeType: RECORD_FIELD, NodeSpan: Span{Start: name.Position, End: value.Span().End}},
		Name:     name.Value,
		Value:    value,
	}
}

func NewRecordCreate(hash, name, close tok.Token, fields []*RecordField) *RecordCreate {
	return &RecordCreate{
		BaseNode: BaseNode{NodeType: RECORD_CREATE, NodeSpan: TokenSpan(hash, close)},
		Name:     name.Value,
		Fields:   fields,
	}
}

// NewRecordAccess builds Base#Record.Field. A nil base gives the bare
// #Record.Field form starting at hash.
func NewRecordAccess(base Node, hash tok.Token, record string, field tok.Token) *RecordAccess {
	start := hash.Position
	if base != nil {
		start = base.Span().Start
	}
	return &RecordAccess{
		BaseNode: BaseNode{NodeType: RECORD_ACCESS, NodeSpan: Span{Start: start, End: field.End}},
		Base:     base,
		Record:   record,
		Field:    field.Value,
	}
}

func NewRecordUpdate(base Node, record tok.Token, fields []*RecordField, close tok.Token) *RecordUpdate {
	return &RecordUpdate{
		BaseNode: BaseNode{NodeType: RECORD_UPDATE, NodeSpan: Span{Start: base.Span().Start, End: close.End}},
		Base:     base,
		Record:   record.Value,
		Fields:   fields,
	}
}

func NewCatch(keyword tok.Token, inner Node) *Catch {
	return &Catch{
		BaseNode: BaseNode{NodeType: CATCH, NodeSpan: Span{Start: keyword.Position, End: inner.Span().End}},
		Inner:    inner,
	}
}

// NewMacroUse builds ?Name or ?Name(Args); last is the name token or the
// closing parenthesis.
func NewMacroUse(marker, name tok.Token, args []Node, hasArgs bool, last tok.Token) *MacroUse {
	return &MacroUse{
		BaseNode:  BaseNode{NodeType: MACRO_USE, NodeSpan: TokenSpan(marker, last)},
		Name:      name.Value,
		Args:      args,
		HasArgs:   hasArgs,
		Stringify: marker.Value == "??",
	}
}

func NewParenthesized(open, close tok.Token, inner Node) *Parenthesized {
	return &Parenthesized{
		BaseNode: BaseNode{NodeType: PARENTHESIZED, NodeSpan: TokenSpan(open, close)},
		Inner:    inner,
	}
}
