package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/shibukawa/snaperl/formatter"
)

// FormatCmd represents the format command
type FormatCmd struct {
	Input  string `arg:"" optional:"" help:"Input file or directory (default: stdin)"`
	Output string `short:"o" help:"Output file (default: stdout)"`
	Write  bool   `short:"w" help:"Write result to input file instead of stdout"`
	Check  bool   `short:"c" help:"Check if files are formatted (exit 1 if not)"`
	Diff   bool   `short:"d" help:"Show diff instead of rewriting files"`
}

type formatters struct {
	expression *formatter.ExpressionFormatter
	markdown   *formatter.MarkdownFormatter
	extensions []string
}

// Run executes the format command
func (cmd *FormatCmd) Run(ctx *Context) error {
	config, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	f := &formatters{
		expression: formatter.NewExpressionFormatter(),
		markdown:   formatter.NewMarkdownFormatter(config.MarkdownLanguages...),
		extensions: config.Extensions,
	}

	if cmd.Input == "" || cmd.Input == "-" {
		return cmd.formatFromReader(ctx, f, ctx.Stdin, ctx.Stdout, "<stdin>")
	}

	info, err := os.Stat(cmd.Input)
	if err != nil {
		return fmt.Errorf("failed to stat input: %w", err)
	}

	if info.IsDir() {
		return cmd.formatDirectory(ctx, f, cmd.Input)
	}

	return cmd.formatFile(ctx, f, cmd.Input)
}

// formatFromReader formats Erlang from a reader and writes to a writer
func (cmd *FormatCmd) formatFromReader(ctx *Context, f *formatters, reader io.Reader, writer io.Writer, filename string) error {
	input, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	var formatted string

	if formatter.IsMarkdownFile(filename) {
		formatted, err = f.markdown.Format(string(input))
		if err != nil {
			return fmt.Errorf("failed to format Markdown in %s: %w", filename, err)
		}
	} else {
		formatted, err = f.expression.FormatForm(string(input))
		if err != nil {
			return fmt.Errorf("failed to format %s: %w", filename, err)
		}
	}

	if cmd.Check {
		if strings.TrimSpace(string(input)) != strings.TrimSpace(formatted) {
			fmt.Fprintf(ctx.Stderr, "%s is not formatted\n", filename)
			return ErrFileNotFormatted
		}

		return nil
	}

	if cmd.Diff {
		cmd.showDiff(ctx.Stdout, string(input), formatted, filename)
		return nil
	}

	_, err = io.WriteString(writer, formatted+"\n")

	return err
}

// formatFile formats a single file
func (cmd *FormatCmd) formatFile(ctx *Context, f *formatters, filename string) error {
	if !f.accepts(filename) {
		if !cmd.Check {
			fmt.Fprintf(ctx.Stderr, "Skipping non-Erlang file: %s\n", filename)
		}

		return nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	if cmd.Write || cmd.Output == filename {
		var sb strings.Builder
		if err := cmd.formatFromReader(ctx, f, strings.NewReader(string(data)), &sb, filename); err != nil {
			return err
		}
		if cmd.Check || cmd.Diff {
			return nil
		}

		// Write to a temporary file first and replace the original
		tempFile, err := os.CreateTemp(filepath.Dir(filename), ".snaperl-format-*")
		if err != nil {
			return fmt.Errorf("failed to create temp file: %w", err)
		}

		_, err = tempFile.WriteString(sb.String())
		closeErr := tempFile.Close()
		if err == nil {
			err = closeErr
		}
		if err == nil {
			err = os.Rename(tempFile.Name(), filename)
		}
		if err != nil {
			os.Remove(tempFile.Name())
			return fmt.Errorf("failed to write %s: %w", filename, err)
		}

		return nil
	}

	writer := ctx.Stdout
	if cmd.Output != "" {
		outputFile, err := os.Create(cmd.Output)
		if err != nil {
			return fmt.Errorf("failed to create output file %s: %w", cmd.Output, err)
		}
		defer outputFile.Close()

		writer = outputFile
	}

	return cmd.formatFromReader(ctx, f, strings.NewReader(string(data)), writer, filename)
}

// formatDirectory formats all Erlang files in a directory recursively
func (cmd *FormatCmd) formatDirectory(ctx *Context, f *formatters, dirPath string) error {
	var hasErrors bool

	err := filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || !f.accepts(path) {
			return nil
		}

		err = cmd.formatFile(ctx, f, path)
		if err != nil {
			color.New(color.FgRed).Fprintf(ctx.Stderr, "Error formatting %s: %v\n", path, err)

			hasErrors = true
			// Continue processing other files
			return nil
		}

		if cmd.Write && !cmd.Check && !cmd.Diff && !ctx.Quiet {
			color.New(color.FgGreen).Fprintf(ctx.Stdout, "Formatted: %s\n", path)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk directory: %w", err)
	}

	if hasErrors {
		return ErrFormattingErrors
	}

	return nil
}

func (f *formatters) accepts(filename string) bool {
	return formatter.IsMarkdownFile(filename) || slices.Contains(f.extensions, strings.ToLower(filepath.Ext(filename)))
}

// showDiff shows the difference between original and formatted content
func (cmd *FormatCmd) showDiff(w io.Writer, original, formatted, filename string) {
	if strings.TrimSpace(original) == strings.TrimSpace(formatted) {
		return
	}

	fmt.Fprintf(w, "--- %s (original)\n", filename)
	fmt.Fprintf(w, "+++ %s (formatted)\n", filename)

	// Simple line-by-line diff
	originalLines := strings.Split(strings.TrimRight(original, "\n"), "\n")
	formattedLines := strings.Split(strings.TrimRight(formatted, "\n"), "\n")

	for i := range max(len(originalLines), len(formattedLines)) {
		var origLine, formLine string

		if i < len(originalLines) {
			origLine = originalLines[i]
		}

		if i < len(formattedLines) {
			formLine = formattedLines[i]
		}

		if origLine != formLine {
			if origLine != "" {
				color.New(color.FgRed).Fprintf(w, "-%s\n", origLine)
			}

			if formLine != "" {
				color.New(color.FgGreen).Fprintf(w, "+%s\n", formLine)
			}
		}
	}
}

// Help returns help text for the format command
func (cmd *FormatCmd) Help() string {
	return `Format Erlang expressions and Markdown files with Erlang code blocks.

Each .erl/.hrl input holds one expression form, optionally terminated by a
full stop. The output uses single spaces around binary operators and after
commas. For Markdown files, ` + "```erlang" + ` blocks are formatted while the rest
of the document is preserved; blocks that do not parse are left untouched.

Examples:
  # Format a file and print to stdout
  snaperl format expr.erl

  # Format all files in a directory in place
  snaperl format -w ./snippets/

  # Check if files are properly formatted
  snaperl format -c ./snippets/

  # Format from stdin
  echo '[X*2||X<-L]' | snaperl format`
}
