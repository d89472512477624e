package parsercommon

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// ErrNoTreeElement is returned when an XML document has no node element
var ErrNoTreeElement = errors.New("no node element in document")

// TreeNode is a serialization friendly view of a parse tree.
type TreeNode struct {
	Type     string     `yaml:"type" json:"type"`
	Text     string     `yaml:"text,omitempty" json:"text,omitempty"`
	Start    string     `yaml:"start" json:"start"`
	End      string     `yaml:"end" json:"end"`
	Children []TreeNode `yaml:"children,omitempty" json:"children,omitempty"`
}

// Describe converts node and its descendants into TreeNode values.
func Describe(node Node) TreeNode {
	span := node.Span()
	result := TreeNode{
		Type:  node.Type().String(),
		Text:  nodeText(node),
		Start: fmt.Sprintf("%d:%d", span.Start.Line, span.Start.Column),
		End:   fmt.Sprintf("%d:%d", span.End.Line, span.End.Column),
	}
	for _, child := range node.Children() {
		result.Children = append(result.Children, Describe(child))
	}
	return result
}

func nodeText(node Node) string {
	switch n := node.(type) {
	case *Literal:
		return n.Value
	case *Variable:
		return n.Name
	case *BinaryOp:
		return n.Operator
	case *UnaryOp:
		return n.Operator
	case *Generator:
		return n.Kind.String()
	case *BinarySegment:
		return n.TypeList()
	case *RecordField:
		return n.Name
	case *RecordCreate:
		return n.Name
	case *RecordAccess:
		return n.Record + "." + n.Field
	case *RecordUpdate:
		return n.Record
	case *MacroUse:
		if n.Stringify {
			return "??" + n.Name
		}
		return "?" + n.Name
	}
	return ""
}

// EncodeXML renders the tree as an indented XML document.
func EncodeXML(node Node) (string, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	appendElement(&doc.Element, Describe(node))
	doc.Indent(2)
	return doc.WriteToString()
}

func appendElement(parent *etree.Element, node TreeNode) {
	elem := parent.CreateElement("node")
	elem.CreateAttr("type", node.Type)
	if node.Text != "" {
		elem.CreateAttr("text", node.Text)
	}
	elem.CreateAttr("start", node.Start)
	elem.CreateAttr("end", node.End)
	for _, child := range node.Children {
		appendElement(elem, child)
	}
}

// DecodeXML reads a document written by EncodeXML.
func DecodeXML(content string) (TreeNode, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(content); err != nil {
		return TreeNode{}, err
	}
	root := doc.SelectElement("node")
	if root == nil {
		return TreeNode{}, ErrNoTreeElement
	}
	return readElement(root), nil
}

func readElement(elem *etree.Element) TreeNode {
	node := TreeNode{
		Type:  elem.SelectAttrValue("type", ""),
		Text:  elem.SelectAttrValue("text", ""),
		Start: elem.SelectAttrValue("start", ""),
		End:   elem.SelectAttrValue("end", ""),
	}
	for _, child := range elem.ChildElements() {
		if strings.EqualFold(child.Tag, "node") {
			node.Children = append(node.Children, readElement(child))
		}
	}
	return node
}
