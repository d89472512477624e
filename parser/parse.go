package parser

import (
	cmn "github.com/shibukawa/snaperl/parser/parsercommon"
)

// Re-export common types for user convenience
type (
	Node     = cmn.Node
	NodeType = cmn.NodeType
	Span     = cmn.Span

	Literal             = cmn.Literal
	Variable            = cmn.Variable
	Tuple               = cmn.Tuple
	List                = cmn.List
	ListComprehension   = cmn.ListComprehension
	Binary              = cmn.Binary
	BinarySegment       = cmn.BinarySegment
	BinaryComprehension = cmn.BinaryComprehension
	Generator           = cmn.Generator
	BinaryOp            = cmn.BinaryOp
	UnaryOp             = cmn.UnaryOp
	FunctionCall        = cmn.FunctionCall
	RecordCreate        = cmn.RecordCreate
	RecordField         = cmn.RecordField
	RecordAccess        = cmn.RecordAccess
	RecordUpdate        = cmn.RecordUpdate
	Catch               = cmn.Catch
	MacroUse            = cmn.MacroUse
	Parenthesized       = cmn.Parenthesized

	TreeNode = cmn.TreeNode

	SyntaxError = cmn.SyntaxError
	ParseError  = cmn.ParseError
)

// Re-export sentinel errors
var (
	ErrSyntax      = cmn.ErrSyntax
	ErrUnknownRule = cmn.ErrUnknownRule
)

// Re-export tree encoders
var (
	Describe  = cmn.Describe
	EncodeXML = cmn.EncodeXML
	DecodeXML = cmn.DecodeXML
)
