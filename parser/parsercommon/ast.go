package parsercommon

import (
	"strings"

	"github.com/shibukawa/snaperl/tokenizer"
)

// Node represents a node of the expression parse tree.
// Nodes are immutable once built and own their children.
type Node interface {
	Type() NodeType
	Span() Span
	Children() []Node // in source order
	String() string   // canonical s-expression, used by tests and the tree command
}

// NodeType represents the type of parse tree node
type NodeType int

const (
	LITERAL NodeType = iota
	VARIABLE
	TUPLE
	LIST
	LIST_COMPREHENSION
	BINARY
	BINARY_SEGMENT
	BINARY_COMPREHENSION
	GENERATOR
	BINARY_OP
	UNARY_OP
	FUNCTION_CALL
	RECORD_CREATE
	RECORD_FIELD
	RECORD_ACCESS
	RECORD_UPDATE
	CATCH
	MACRO_USE
	PARENTHESIZED
)

// String returns string representation of NodeType
func (n NodeType) String() string {
	switch n {
	case LITERAL:
		return "LITERAL"
	case VARIABLE:
		return "VARIABLE"
	case TUPLE:
		return "TUPLE"
	case LIST:
		return "LIST"
	case LIST_COMPREHENSION:
		return "LIST_COMPREHENSION"
	case BINARY:
		return "BINARY"
	case BINARY_SEGMENT:
		return "BINARY_SEGMENT"
	case BINARY_COMPREHENSION:
		return "BINARY_COMPREHENSION"
	case GENERATOR:
		return "GENERATOR"
	case BINARY_OP:
		return "BINARY_OP"
	case UNARY_OP:
		return "UNARY_OP"
	case FUNCTION_CALL:
		return "FUNCTION_CALL"
	case RECORD_CREATE:
		return "RECORD_CREATE"
	case RECORD_FIELD:
		return "RECORD_FIELD"
	case RECORD_ACCESS:
		return "RECORD_ACCESS"
	case RECORD_UPDATE:
		return "RECORD_UPDATE"
	case CATCH:
		return "CATCH"
	case MACRO_USE:
		return "MACRO_USE"
	case PARENTHESIZED:
		return "PARENTHESIZED"
	default:
		return "UNKNOWN"
	}
}

// Span is the source range of a node: from the first character of its first
// token to just past the last character of its last token.
type Span struct {
	Start tokenizer.Position
	End   tokenizer.Position
}

// TokenSpan returns the span covering first..last.
func TokenSpan(first, last tokenizer.Token) Span {
	return Span{Start: first.Position, End: last.End}
}

// Contains reports whether o lies within s.
func (s Span) Contains(o Span) bool {
	return s.Start.Offset <= o.Start.Offset && o.End.Offset <= s.End.Offset
}

// Text returns the part of src covered by the span.
func (s Span) Text(src string) string {
	if s.Start.Offset < 0 || s.End.Offset > len(src) || s.Start.Offset > s.End.Offset {
		return ""
	}
	return src[s.Start.Offset:s.End.Offset]
}

// BaseNode holds the fields shared by every node.
type BaseNode struct {
	NodeType NodeType
	NodeSpan Span
}

// Type implements Node.
func (b *BaseNode) Type() NodeType { return b.NodeType }

// Span implements Node.
func (b *BaseNode) Span() Span { return b.NodeSpan }

// LiteralKind classifies literal nodes
type LiteralKind int

const (
	AtomLiteral LiteralKind = iota
	IntegerLiteral
	FloatLiteral
	StringLiteral
	CharLiteral
)

func (k LiteralKind) String() string {
	switch k {
	case AtomLiteral:
		return "atom"
	case IntegerLiteral:
		return "integer"
	case FloatLiteral:
		return "float"
	case StringLiteral:
		return "string"
	case CharLiteral:
		return "char"
	default:
		return "unknown"
	}
}

// Literal is an atom, number, char or string. Adjacent string tokens
// ("a" "b") form a single literal whose Value keeps every part.
type Literal struct {
	BaseNode
	Kind  LiteralKind
	Value string
}

func (l *Literal) Children() []Node { return nil }
func (l *Literal) String() string   { return l.Value }

// Variable is a variable reference, including the anonymous variable _.
type Variable struct {
	BaseNode
	Name string
}

func (v *Variable) Children() []Node { return nil }
func (v *Variable) String() string   { return v.Name }

// Tuple is {E1, ..., En}.
type Tuple struct {
	BaseNode
	Elements []Node
}

func (t *Tuple) Children() []Node { return t.Elements }
func (t *Tuple) String() string   { return sexpr("tuple", t.Elements...) }

// List is [E1, ..., En] or [E1, ..., En | Tail]. The empty list has neither
// elements nor tail.
type List struct {
	BaseNode
	Elements []Node
	Tail     Node
}

func (l *List) IsEmpty() bool { return len(l.Elements) == 0 && l.Tail == nil }

func (l *List) Children() []Node {
	if l.Tail == nil {
		return l.Elements
	}
	return append(append([]Node{}, l.Elements...), l.Tail)
}

func (l *List) String() string {
	if l.Tail == nil {
		return sexpr("list", l.Elements...)
	}
	parts := make([]string, 0, len(l.Elements)+2)
	for _, e := range l.Elements {
		parts = append(parts, e.String())
	}
	parts = append(parts, "|", l.Tail.String())
	return "(list " + strings.Join(parts, " ") + ")"
}

// GeneratorKind distinguishes list generators from binary generators.
type GeneratorKind int

const (
	ListGenerator   GeneratorKind = iota // Pattern <- List
	BinaryGenerator                      // Pattern <= Binary
)

func (k GeneratorKind) String() string {
	if k == BinaryGenerator {
		return "<="
	}
	return "<-"
}

// Generator is a comprehension qualifier that binds Pattern to each element
// of Source. Filter qualifiers are plain expression nodes.
type Generator struct {
	BaseNode
	Kind    GeneratorKind
	Pattern Node
	Source  Node
}

func (g *Generator) Children() []Node { return []Node{g.Pattern, g.Source} }
func (g *Generator) String() string   { return sexpr(g.Kind.String(), g.Pattern, g.Source) }

// ListComprehension is [Template || Qualifiers].
type ListComprehension struct {
	BaseNode
	Template   Node
	Qualifiers []Node
}

func (c *ListComprehension) Children() []Node {
	return append([]Node{c.Template}, c.Qualifiers...)
}

func (c *ListComprehension) String() string {
	return sexpr("lc", c.Children()...)
}

// TypeSpecifier is one element of a segment type list: binary, utf8, unit:8.
type TypeSpecifier struct {
	Name string
	Unit string // only set for unit:N
}

func (t TypeSpecifier) String() string {
	if t.Unit != "" {
		return t.Name + ":" + t.Unit
	}
	return t.Name
}

// BinarySegment is Value[:Size][/Types] inside << >>.
type BinarySegment struct {
	BaseNode
	Value Node
	Size  Node
	Types []TypeSpecifier
}

func (s *BinarySegment) Children() []Node {
	if s.Size == nil {
		return []Node{s.Value}
	}
	return []Node{s.Value, s.Size}
}

func (s *BinarySegment) String() string {
	var sb strings.Builder
	sb.WriteString(s.Value.String())
	if s.Size != nil {
		sb.WriteString(":")
		sb.WriteString(s.Size.String())
	}
	if len(s.Types) > 0 {
		sb.WriteString("/")
		sb.WriteString(s.TypeList())
	}
	return sb.String()
}

// TypeList renders the type specifiers joined with '-'.
func (s *BinarySegment) TypeList() string {
	types := make([]string, len(s.Types))
	for i, t := range s.Types {
		types[i] = t.String()
	}
	return strings.Join(types, "-")
}

// Binary is <<Seg1, ..., SegN>>.
type Binary struct {
	BaseNode
	Segments []*BinarySegment
}

func (b *Binary) Children() []Node {
	children := make([]Node, len(b.Segments))
	for i, s := range b.Segments {
		children[i] = s
	}
	return children
}

func (b *Binary) String() string { return sexpr("bin", b.Children()...) }

// BinaryComprehension is << Template || Qualifiers >>.
type BinaryComprehension struct {
	BaseNode
	Template   Node
	Qualifiers []Node
}

func (c *BinaryComprehension) Children() []Node {
	return append([]Node{c.Template}, c.Qualifiers...)
}

func (c *BinaryComprehension) String() string { return sexpr("bc", c.Children()...) }

// BinaryOp is Left Operator Right.
type BinaryOp struct {
	BaseNode
	Left     Node
	Operator string
	Right    Node
}

func (b *BinaryOp) Children() []Node { return []Node{b.Left, b.Right} }
func (b *BinaryOp) String() string   { return sexpr(b.Operator, b.Left, b.Right) }

// UnaryOp is a prefix operator applied to Operand.
type UnaryOp struct {
	BaseNode
	Operator string
	Operand  Node
}

func (u *UnaryOp) Children() []Node { return []Node{u.Operand} }
func (u *UnaryOp) String() string   { return sexpr(u.Operator, u.Operand) }

// FunctionCall is [Module:]Name(Args).
type FunctionCall struct {
	BaseNode
	Module Node // nil for local calls
	Name   Node
	Args   []Node
}

func (f *FunctionCall) Children() []Node {
	children := make([]Node, 0, len(f.Args)+2)
	if f.Module != nil {
		children = append(children, f.Module)
	}
	children = append(children, f.Name)
	return append(children, f.Args...)
}

func (f *FunctionCall) String() string {
	name := f.Name.String()
	if f.Module != nil {
		name = f.Module.String() + ":" + name
	}
	return sexprHead("call "+name, f.Args...)
}

// RecordField is Name = Value inside a record construction or update.
type RecordField struct {
	BaseNode
	Name  string
	Value Node
}

func (f *RecordField) Children() []Node { return []Node{f.Value} }
func (f *RecordField) String() string   { return f.Name + "=" + f.Value.String() }

// RecordCreate is #Name{Fields}.
type RecordCreate struct {
	BaseNode
	Name   string
	Fields []*RecordField
}

func (r *RecordCreate) Children() []Node { return fieldNodes(r.Fields) }
func (r *RecordCreate) String() string {
	return sexprHead("record "+r.Name, fieldNodes(r.Fields)...)
}

// RecordAccess is Base#Record.Field. Base is nil for the field index form
// #Record.Field.
type RecordAccess struct {
	BaseNode
	Base   Node
	Record string
	Field  string
}

func (r *RecordAccess) Children() []Node {
	if r.Base == nil {
		return nil
	}
	return []Node{r.Base}
}

func (r *RecordAccess) String() string {
	if r.Base == nil {
		return "(access " + r.Record + " " + r.Field + ")"
	}
	return "(access " + r.Base.String() + " " + r.Record + " " + r.Field + ")"
}

// RecordUpdate is Base#Record{Fields}.
type RecordUpdate struct {
	BaseNode
	Base   Node
	Record string
	Fields []*RecordField
}

func (r *RecordUpdate) Children() []Node {
	return append([]Node{r.Base}, fieldNodes(r.Fields)...)
}

func (r *RecordUpdate) String() string {
	return sexprHead("update "+r.Base.String()+" "+r.Record, fieldNodes(r.Fields)...)
}

// Catch is catch Inner.
type Catch struct {
	BaseNode
	Inner Node
}

func (c *Catch) Children() []Node { return []Node{c.Inner} }
func (c *Catch) String() string   { return sexpr("catch", c.Inner) }

// MacroUse is ?Name or ?Name(Args). The macro is never expanded.
type MacroUse struct {
	BaseNode
	Name      string
	Args      []Node
	HasArgs   bool // ?M() has an empty argument list, ?M has none
	Stringify bool // ??Name
}

func (m *MacroUse) Children() []Node { return m.Args }

func (m *MacroUse) String() string {
	marker := "?"
	if m.Stringify {
		marker = "??"
	}
	if !m.HasArgs {
		return marker + m.Name
	}
	return sexprHead(marker+m.Name, m.Args...)
}

// Parenthesized is ( Inner ).
type Parenthesized struct {
	BaseNode
	Inner Node
}

func (p *Parenthesized) Children() []Node { return []Node{p.Inner} }
func (p *Parenthesized) String() string   { return sexpr("paren", p.Inner) }

func fieldNodes(fields []*RecordField) []Node {
	nodes := make([]Node, len(fields))
	for i, f := range fields {
		nodes[i] = f
	}
	return nodes
}

func sexpr(head string, nodes ...Node) string {
	return sexprHead(head, nodes...)
}

func sexprHead(head string, nodes ...Node) string {
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(head)
	for _, n := range nodes {
		sb.WriteString(" ")
		sb.WriteString(n.String())
	}
	sb.WriteString(")")
	return sb.String()
}

// Walk calls fn for node and every descendant in depth-first source order.
// Returning false from fn skips the children of that node.
func Walk(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}
	for _, child := range node.Children() {
		Walk(child, fn)
	}
}
