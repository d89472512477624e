package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/shibukawa/snaperl/parser"
)

// RulesCmd represents the rules command
type RulesCmd struct {
	Operators bool `help:"Show the binary operator precedence table"`
}

// Run executes the rules command
func (cmd *RulesCmd) Run(ctx *Context) error {
	if !cmd.Operators {
		for _, rule := range parser.Rules() {
			fmt.Fprintln(ctx.Stdout, rule)
		}
		return nil
	}

	header := color.New(color.Bold)
	header.Fprintf(ctx.Stdout, "%-5s %-6s %s\n", "LEVEL", "ASSOC", "OPERATORS")

	var (
		current parser.OperatorInfo
		ops     []string
	)
	flush := func() {
		if len(ops) > 0 {
			fmt.Fprintf(ctx.Stdout, "%-5d %-6s %s\n", current.Level, current.Associativity, strings.Join(ops, " "))
		}
	}
	for _, info := range parser.BinaryOperators() {
		if len(ops) > 0 && info.Level != current.Level {
			flush()
			ops = ops[:0]
		}
		current = info
		ops = append(ops, info.Operator)
	}
	flush()

	return nil
}
