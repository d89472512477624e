package formatter

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
)

// DefaultMarkdownLanguages are the fence info strings treated as Erlang.
var DefaultMarkdownLanguages = []string{"erlang", "erl"}

var (
	blockStartRe = regexp.MustCompile("^(\\s*)\x60{3}([A-Za-z0-9_+-]*)\\s*$")
	blockEndRe   = regexp.MustCompile("^(\\s*)\x60{3}\\s*$")
)

// MarkdownFormatter formats Erlang code blocks within Markdown files
type MarkdownFormatter struct {
	expressionFormatter *ExpressionFormatter
	languages           []string
}

// NewMarkdownFormatter creates a new Markdown formatter. Without languages
// the DefaultMarkdownLanguages are used.
func NewMarkdownFormatter(languages ...string) *MarkdownFormatter {
	if len(languages) == 0 {
		languages = DefaultMarkdownLanguages
	}
	return &MarkdownFormatter{
		expressionFormatter: NewExpressionFormatter(),
		languages:           languages,
	}
}

// Format formats Erlang code blocks within a Markdown file. A block that
// does not parse as an expression is kept as is.
func (f *MarkdownFormatter) Format(markdown string) (string, error) {
	var result strings.Builder
	scanner := bufio.NewScanner(strings.NewReader(markdown))

	var inBlock bool
	var blockContent strings.Builder
	var blockIndent string

	for scanner.Scan() {
		line := scanner.Text()

		if !inBlock {
			if match := blockStartRe.FindStringSubmatch(line); match != nil && f.isTarget(match[2]) {
				inBlock = true
				blockIndent = match[1]
				blockContent.Reset()
			}
			result.WriteString(line)
			result.WriteString("\n")
			continue
		}

		if blockEndRe.MatchString(line) {
			inBlock = false
			f.writeBlock(&result, blockContent.String(), blockIndent)
			result.WriteString(line)
			result.WriteString("\n")
			continue
		}

		// Accumulate block content without the fence indentation
		blockContent.WriteString(strings.TrimPrefix(line, blockIndent))
		blockContent.WriteString("\n")
	}

	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("error reading markdown: %w", err)
	}

	// Unterminated block
	if inBlock {
		result.WriteString(blockContent.String())
	}

	return strings.TrimRight(result.String(), "\n"), nil
}

func (f *MarkdownFormatter) isTarget(language string) bool {
	return slices.Contains(f.languages, strings.ToLower(language))
}

func (f *MarkdownFormatter) writeBlock(result *strings.Builder, content, indent string) {
	if strings.TrimSpace(content) == "" {
		return
	}

	formatted, err := f.expressionFormatter.FormatForm(content)
	if err != nil {
		// If formatting fails, use original content
		for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
			if line != "" {
				result.WriteString(indent)
				result.WriteString(line)
			}
			result.WriteString("\n")
		}
		return
	}

	result.WriteString(indent)
	result.WriteString(formatted)
	result.WriteString("\n")
}

// FormatFromReader formats Erlang code blocks from a reader and writes to a writer
func (f *MarkdownFormatter) FormatFromReader(reader io.Reader, writer io.Writer) error {
	input, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	formatted, err := f.Format(string(input))
	if err != nil {
		return fmt.Errorf("failed to format markdown: %w", err)
	}

	_, err = writer.Write([]byte(formatted))
	return err
}

// IsMarkdownFile checks if a file is a Markdown file
func IsMarkdownFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".md" || ext == ".markdown"
}
