package formatter

import (
	"fmt"
	"strings"

	"github.com/shibukawa/snaperl/parser"
)

// ExpressionFormatter renders parse trees as canonical Erlang source.
type ExpressionFormatter struct {
	root parser.RuleName
}

// NewExpressionFormatter creates a new expression formatter
func NewExpressionFormatter() *ExpressionFormatter {
	return &ExpressionFormatter{
		root: parser.RuleExpression,
	}
}

// FormatSource parses src and renders it again. The result parses to a tree
// equal to the one of src.
func (f *ExpressionFormatter) FormatSource(src string) (string, error) {
	result, err := parser.ParseString(src, f.root)
	if err != nil {
		return "", fmt.Errorf("failed to parse expression: %w", err)
	}

	return f.Format(result.Root), nil
}

// FormatForm formats one expression form. A terminating full stop is kept.
func (f *ExpressionFormatter) FormatForm(src string) (string, error) {
	source := strings.TrimSpace(src)
	stop := ""
	if trimmed, ok := strings.CutSuffix(source, "."); ok {
		source = trimmed
		stop = "."
	}

	formatted, err := f.FormatSource(source)
	if err != nil {
		return "", err
	}
	return formatted + stop, nil
}

// Format renders node.
func (f *ExpressionFormatter) Format(node parser.Node) string {
	var sb strings.Builder
	f.write(&sb, node)
	return sb.String()
}

func (f *ExpressionFormatter) write(sb *strings.Builder, node parser.Node) {
	switch n := node.(type) {
	case *parser.Literal:
		sb.WriteString(n.Value)
	case *parser.Variable:
		sb.WriteString(n.Name)
	case *parser.Tuple:
		sb.WriteString("{")
		f.writeList(sb, n.Elements)
		sb.WriteString("}")
	case *parser.List:
		sb.WriteString("[")
		f.writeList(sb, n.Elements)
		if n.Tail != nil {
			sb.WriteString(" | ")
			f.write(sb, n.Tail)
		}
		sb.WriteString("]")
	case *parser.ListComprehension:
		sb.WriteString("[")
		f.write(sb, n.Template)
		sb.WriteString(" || ")
		f.writeList(sb, n.Qualifiers)
		sb.WriteString("]")
	case *parser.Generator:
		f.write(sb, n.Pattern)
		sb.WriteString(" " + n.Kind.String() + " ")
		f.write(sb, n.Source)
	case *parser.Binary:
		sb.WriteString("<<")
		for i, segment := range n.Segments {
			if i > 0 {
				sb.WriteString(", ")
			}
			f.write(sb, segment)
		}
		sb.WriteString(">>")
	case *parser.BinarySegment:
		f.writeOperand(sb, n.Value, isSegmentValue(n.Value))
		if n.Size != nil {
			sb.WriteString(":")
			f.writeOperand(sb, n.Size, isPrimary(n.Size))
		}
		if len(n.Types) > 0 {
			sb.WriteString("/")
			sb.WriteString(n.TypeList())
		}
	case *parser.BinaryComprehension:
		sb.WriteString("<< ")
		f.writeOperand(sb, n.Template, isPrimary(n.Template))
		sb.WriteString(" || ")
		f.writeList(sb, n.Qualifiers)
		sb.WriteString(" >>")
	case *parser.BinaryOp:
		f.writeBinaryOp(sb, n)
	case *parser.UnaryOp:
		sb.WriteString(n.Operator)
		operand := f.operandString(n.Operand, !isOperatorNode(n.Operand))
		if isWordOperator(n.Operator) || strings.HasPrefix(operand, "+") || strings.HasPrefix(operand, "-") {
			sb.WriteString(" ")
		}
		sb.WriteString(operand)
	case *parser.FunctionCall:
		if n.Module != nil {
			f.writeOperand(sb, n.Module, isPrimary(n.Module))
			sb.WriteString(":")
		}
		f.writeOperand(sb, n.Name, isPrimary(n.Name))
		sb.WriteString("(")
		f.writeList(sb, n.Args)
		sb.WriteString(")")
	case *parser.RecordField:
		sb.WriteString(n.Name)
		sb.WriteString(" = ")
		f.write(sb, n.Value)
	case *parser.RecordCreate:
		sb.WriteString("#" + n.Name + "{")
		f.writeFields(sb, n.Fields)
		sb.WriteString("}")
	case *parser.RecordAccess:
		if n.Base != nil {
			f.writeOperand(sb, n.Base, isRecordBase(n.Base))
		}
		sb.WriteString("#" + n.Record + "." + n.Field)
	case *parser.RecordUpdate:
		f.writeOperand(sb, n.Base, isRecordBase(n.Base))
		sb.WriteString("#" + n.Record + "{")
		f.writeFields(sb, n.Fields)
		sb.WriteString("}")
	case *parser.Catch:
		sb.WriteString("catch ")
		f.write(sb, n.Inner)
	case *parser.MacroUse:
		if n.Stringify {
			sb.WriteString("??")
		} else {
			sb.WriteString("?")
		}
		sb.WriteString(n.Name)
		if n.HasArgs {
			sb.WriteString("(")
			f.writeList(sb, n.Args)
			sb.WriteString(")")
		}
	case *parser.Parenthesized:
		sb.WriteString("(")
		f.write(sb, n.Inner)
		sb.WriteString(")")
	}
}

func (f *ExpressionFormatter) writeList(sb *strings.Builder, nodes []parser.Node) {
	for i, node := range nodes {
		if i > 0 {
			sb.WriteString(", ")
		}
		f.write(sb, node)
	}
}

func (f *ExpressionFormatter) writeFields(sb *strings.Builder, fields []*parser.RecordField) {
	for i, field := range fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		f.write(sb, field)
	}
}

// writeOperand writes node, wrapped in parentheses unless fits is set.
// Parsed trees always fit; hand built trees may not.
func (f *ExpressionFormatter) writeOperand(sb *strings.Builder, node parser.Node, fits bool) {
	sb.WriteString(f.operandString(node, fits))
}

func (f *ExpressionFormatter) operandString(node parser.Node, fits bool) string {
	if fits {
		return f.Format(node)
	}
	return "(" + f.Format(node) + ")"
}

func (f *ExpressionFormatter) writeBinaryOp(sb *strings.Builder, n *parser.BinaryOp) {
	info, _ := parser.LookupOperator(n.Operator)

	leftFits := operandFits(n.Left, info, true)
	rightFits := operandFits(n.Right, info, false)

	f.writeOperand(sb, n.Left, leftFits)
	sb.WriteString(" " + n.Operator + " ")
	f.writeOperand(sb, n.Right, rightFits)
}

// operandFits reports whether child can be written next to an operator
// without parentheses.
func operandFits(child parser.Node, parent parser.OperatorInfo, left bool) bool {
	switch c := child.(type) {
	case *parser.Catch:
		return false
	case *parser.BinaryOp:
		info, _ := parser.LookupOperator(c.Operator)
		if info.Level != parent.Level {
			return info.Level > parent.Level
		}
		switch parent.Associativity {
		case parser.LeftAssoc:
			return left
		case parser.RightAssoc:
			return !left
		default:
			return false
		}
	}
	return true
}

func isOperatorNode(node parser.Node) bool {
	switch node.(type) {
	case *parser.BinaryOp, *parser.Catch:
		return true
	}
	return false
}

func isWordOperator(op string) bool {
	return op != "" && op[0] >= 'a' && op[0] <= 'z'
}

// isPrimary reports whether node can stand where only a primary is allowed.
func isPrimary(node parser.Node) bool {
	switch n := node.(type) {
	case *parser.BinaryOp, *parser.UnaryOp, *parser.Catch, *parser.FunctionCall, *parser.RecordUpdate, *parser.Generator:
		return false
	case *parser.RecordAccess:
		return n.Base == nil
	}
	return true
}

func isSegmentValue(node parser.Node) bool {
	if unary, ok := node.(*parser.UnaryOp); ok {
		return isPrimary(unary.Operand)
	}
	return isPrimary(node)
}

func isRecordBase(node parser.Node) bool {
	switch node.(type) {
	case *parser.RecordAccess, *parser.RecordUpdate:
		return true
	}
	return isPrimary(node)
}
