package testhelper

import (
	"regexp"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	tok "github.com/shibukawa/snaperl/tokenizer"
)

var (
	whiteSpaces = regexp.MustCompile(`(\s+)`)
	leadingTabs = regexp.MustCompile(`^(\t+)`)
)

func replaceTab(match string) string {
	return strings.Repeat("    ", strings.Count(match, "\t"))
}

// TrimIndent removes the indentation of the first content line from every
// line of a raw string literal. The first line (right after the backquote)
// is dropped.
func TrimIndent(t *testing.T, src string) string {
	t.Helper()

	lines := strings.Split(src, "\n")

	var indent string
	if len(lines) > 1 {
		indent = whiteSpaces.FindString(lines[1])
	}

	for i, line := range lines {
		line = strings.TrimPrefix(line, indent)
		lines[i] = leadingTabs.ReplaceAllStringFunc(line, replaceTab)
	}

	return strings.Join(lines[1:], "\n")
}

// Tokenize returns the significant tokens of src followed by EOF.
func Tokenize(t *testing.T, src string) []tok.Token {
	t.Helper()

	tokens, err := tok.NewErlangTokenizer(src, tok.TokenizerOptions{SkipWhitespace: true, SkipComments: true}).AllTokens()
	assert.NoError(t, err, "tokenize %q %s", src, Caller(t, 1))
	return tokens
}
