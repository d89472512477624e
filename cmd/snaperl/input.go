package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/shibukawa/snaperl"
	"github.com/shibukawa/snaperl/parser"
	"github.com/shibukawa/snaperl/tokenizer"
)

// SourceFlags selects where an expression is read from.
type SourceFlags struct {
	Input string `arg:"" optional:"" help:"Input file ('-' for stdin)"`
	Expr  string `short:"e" help:"Expression given on the command line"`
}

// read returns the source text and a display name for it.
func (s *SourceFlags) read(ctx *Context, config *snaperl.Config) (string, string, error) {
	switch {
	case s.Expr != "":
		return s.Expr, "<expr>", nil
	case s.Input == "-":
		data, err := io.ReadAll(ctx.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("failed to read input: %w", err)
		}
		src, err := tokenizer.DecodeSource(data, config.Encoding)
		return src, "<stdin>", err
	case s.Input != "":
		data, err := os.ReadFile(s.Input)
		if err != nil {
			return "", "", fmt.Errorf("failed to read %s: %w", s.Input, err)
		}
		src, err := tokenizer.DecodeSource(data, config.Encoding)
		return src, s.Input, err
	}
	return "", "", ErrNoInput
}

// writeDiagnostic prints err and, for syntax errors, the offending source
// line with a caret under the error column.
func writeDiagnostic(w io.Writer, name, src string, err error) {
	color.New(color.FgRed).Fprintf(w, "%s: %v\n", name, err)

	var syntaxErr *parser.SyntaxError
	if !errors.As(err, &syntaxErr) {
		return
	}

	lines := strings.Split(src, "\n")
	line := syntaxErr.Pos.Line
	if line < 1 || line > len(lines) {
		return
	}
	fmt.Fprintf(w, "  %s\n", lines[line-1])
	fmt.Fprintf(w, "  %s%s\n", strings.Repeat(" ", max(syntaxErr.Pos.Column-1, 0)), color.YellowString("^"))
}
