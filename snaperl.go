// Package snaperl parses Erlang expressions into typed parse trees.
//
// The grammar lives in the parser package; this package adds file handling
// (source encodings, Markdown snippets) and parallel checking on top of it.
package snaperl

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/shibukawa/snaperl/formatter"
	"github.com/shibukawa/snaperl/parser"
	"github.com/shibukawa/snaperl/tokenizer"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/sync/errgroup"
)

// ParseExpression parses src as a single Erlang expression.
func ParseExpression(src string, options ...parser.Options) (*parser.Result, error) {
	return parser.ParseString(src, parser.RuleExpression, options...)
}

// ParseSource parses one expression form with the configured root rule. A
// terminating full stop is accepted and excluded from the tree.
func ParseSource(src string, config *Config) (*parser.Result, error) {
	if config == nil {
		config = getDefaultConfig()
	}

	tokens, err := tokenizer.NewErlangTokenizer(src).AllTokens()
	if err != nil {
		return nil, err
	}

	return parser.Parse(stripFullStop(tokens), config.Root(), config.ParserOptions())
}

// stripFullStop removes a trailing '.' form terminator. The EOF token keeps
// its position so diagnostics still point at the end of the source.
func stripFullStop(tokens []tokenizer.Token) []tokenizer.Token {
	last := len(tokens) - 2
	for last >= 0 && tokens[last].Type.IsTrivia() {
		last--
	}
	if last < 0 || !tokens[last].Is(tokenizer.PUNCTUATION, ".") {
		return tokens
	}

	stripped := make([]tokenizer.Token, 0, len(tokens)-1)
	stripped = append(stripped, tokens[:last]...)
	return append(stripped, tokens[last+1:]...)
}

// Snippet is an Erlang code block found in a Markdown document.
type Snippet struct {
	Language string
	Source   string
	Line     int // line of the first content line, 1 based
}

// ExtractSnippets returns the fenced code blocks of markdown whose info
// string names one of languages.
func ExtractSnippets(markdown []byte, languages []string) ([]Snippet, error) {
	if len(languages) == 0 {
		languages = formatter.DefaultMarkdownLanguages
	}

	doc := goldmark.New().Parser().Parse(text.NewReader(markdown))

	var snippets []Snippet
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		codeBlock, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		language := strings.ToLower(string(codeBlock.Language(markdown)))
		if !slices.Contains(languages, language) {
			return ast.WalkSkipChildren, nil
		}

		var source strings.Builder
		line := 0
		lines := codeBlock.Lines()
		for i := 0; i < lines.Len(); i++ {
			segment := lines.At(i)
			if i == 0 {
				line = bytes.Count(markdown[:segment.Start], []byte("\n")) + 1
			}
			source.Write(segment.Value(markdown))
		}

		snippets = append(snippets, Snippet{
			Language: language,
			Source:   source.String(),
			Line:     line,
		})

		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk markdown: %w", err)
	}

	return snippets, nil
}

// CheckResult is the outcome of parsing one expression of a file.
type CheckResult struct {
	Path   string
	Line   int
	Source string
	Result *parser.Result
	Err    error
}

// ParseFile parses an Erlang source file, or every Erlang snippet of a
// Markdown file. Parse failures are reported per result; the returned error
// is reserved for I/O and decoding problems.
func ParseFile(path string, config *Config) ([]CheckResult, error) {
	if config == nil {
		config = getDefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	src, err := tokenizer.DecodeSource(data, config.Encoding)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if formatter.IsMarkdownFile(path) {
		snippets, err := ExtractSnippets([]byte(src), config.MarkdownLanguages)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		var results []CheckResult
		for _, snippet := range snippets {
			results = append(results, check(path, snippet.Line, snippet.Source, config))
		}
		return results, nil
	}

	if !slices.Contains(config.Extensions, strings.ToLower(filepath.Ext(path))) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, path)
	}

	return []CheckResult{check(path, 1, src, config)}, nil
}

func check(path string, line int, src string, config *Config) CheckResult {
	result, err := ParseSource(src, config)
	if err != nil {
		err = &FileError{Path: path, Line: line, Err: err}
	}
	return CheckResult{Path: path, Line: line, Source: src, Result: result, Err: err}
}

// CheckFiles parses files concurrently, at most config.Parallel at a time.
// Results keep the order of paths. Every parse failure is collected into the
// returned *parser.ParseError; I/O errors abort the run.
func CheckFiles(ctx context.Context, paths []string, config *Config) ([]CheckResult, error) {
	if len(paths) == 0 {
		return nil, ErrNoFiles
	}
	if config == nil {
		config = getDefaultConfig()
	}

	perFile := make([][]CheckResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	if config.Parallel > 0 {
		g.SetLimit(config.Parallel)
	}

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			results, err := ParseFile(path, config)
			if err != nil {
				return err
			}

			perFile[i] = results
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var results []CheckResult
	errs := &parser.ParseError{}
	for _, fileResults := range perFile {
		for _, result := range fileResults {
			results = append(results, result)
			errs.Add(result.Err)
		}
	}

	return results, errs.ErrOrNil()
}
