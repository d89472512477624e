package parser

import (
	"fmt"
	"slices"
	"strings"

	tok "github.com/shibukawa/snaperl/tokenizer"
)

// Associativity of a binary operator
type Associativity int

const (
	LeftAssoc Associativity = iota
	RightAssoc
	NonAssoc
)

func (a Associativity) String() string {
	switch a {
	case LeftAssoc:
		return "left"
	case RightAssoc:
		return "right"
	case NonAssoc:
		return "none"
	default:
		return "unknown"
	}
}

// Level is a binding strength. Higher levels bind tighter.
type Level int

const (
	LevelMatch          Level = iota + 1 // = !
	LevelLogical                         // and or xor
	LevelOrElse                          // orelse
	LevelAndAlso                         // andalso
	LevelComparison                      // == /= =< < >= > =:= =/=
	LevelListOp                          // ++ --
	LevelAdditive                        // + - bor bxor bsl bsr
	LevelMultiplicative                  // * / div rem band
	LevelPrefix                          // unary + - not bnot
)

// OperatorInfo describes one binary operator.
type OperatorInfo struct {
	Operator      string
	Level         Level
	Associativity Associativity
}

// rightLevel is the minimum level accepted for the right operand.
func (o OperatorInfo) rightLevel() Level {
	if o.Associativity == RightAssoc {
		return o.Level
	}
	return o.Level + 1
}

var operatorGroups = []struct {
	level         Level
	associativity Associativity
	operators     []string
}{
	{LevelMatch, RightAssoc, []string{"=", "!"}},
	{LevelLogical, LeftAssoc, []string{"and", "or", "xor"}},
	{LevelOrElse, RightAssoc, []string{"orelse"}},
	{LevelAndAlso, RightAssoc, []string{"andalso"}},
	{LevelComparison, NonAssoc, []string{"==", "/=", "=<", "<", ">=", ">", "=:=", "=/="}},
	{LevelListOp, RightAssoc, []string{"++", "--"}},
	{LevelAdditive, LeftAssoc, []string{"+", "-", "bor", "bxor", "bsl", "bsr"}},
	{LevelMultiplicative, LeftAssoc, []string{"*", "/", "div", "rem", "band"}},
}

var unaryOperators = []string{"+", "-", "not", "bnot"}

var binaryOperators = buildOperatorTable()

func buildOperatorTable() map[string]OperatorInfo {
	table := make(map[string]OperatorInfo)
	for _, group := range operatorGroups {
		for _, op := range group.operators {
			if _, exists := table[op]; exists {
				panic(fmt.Sprintf("operator %q registered twice", op))
			}
			table[op] = OperatorInfo{Operator: op, Level: group.level, Associativity: group.associativity}
		}
	}
	return table
}

// PrecedenceTableGapError reports operators the tokenizer can produce but the
// parser can not place.
type PrecedenceTableGapError struct {
	Operators []string
}

func (e *PrecedenceTableGapError) Error() string {
	return "operators missing from precedence table: " + strings.Join(e.Operators, ", ")
}

func init() {
	if err := checkOperatorCoverage(tok.Operators()); err != nil {
		panic(err)
	}
}

func checkOperatorCoverage(operators []string) error {
	var missing []string
	for _, op := range operators {
		if _, ok := binaryOperators[op]; ok {
			continue
		}
		if slices.Contains(unaryOperators, op) {
			continue
		}
		missing = append(missing, op)
	}
	if len(missing) > 0 {
		return &PrecedenceTableGapError{Operators: missing}
	}
	return nil
}

// LookupOperator returns the binary operator entry for op.
func LookupOperator(op string) (OperatorInfo, bool) {
	info, ok := binaryOperators[op]
	return info, ok
}

// IsUnaryOperator reports whether op can be used as a prefix operator.
func IsUnaryOperator(op string) bool {
	return slices.Contains(unaryOperators, op)
}

// BinaryOperators lists every binary operator, loosest level first.
func BinaryOperators() []OperatorInfo {
	result := make([]OperatorInfo, 0, len(binaryOperators))
	for _, group := range operatorGroups {
		for _, op := range group.operators {
			result = append(result, binaryOperators[op])
		}
	}
	return result
}
