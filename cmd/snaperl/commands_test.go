package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shibukawa/snaperl/parser"
	"github.com/stretchr/testify/require"
)

type cliOutput struct {
	stdout string
	stderr string
}

func runCLI(t *testing.T, stdin string, args ...string) (cliOutput, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	base := []string{"--config", filepath.Join(t.TempDir(), "snaperl.yaml"), "--no-color"}
	err := run(append(base, args...), strings.NewReader(stdin), &stdout, &stderr)
	return cliOutput{stdout: stdout.String(), stderr: stderr.String()}, err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestTreeCmd(t *testing.T) {
	t.Run("sexp", func(t *testing.T) {
		out, err := runCLI(t, "", "tree", "-e", "6 + 5 * 4", "-o", "sexp")
		require.NoError(t, err)
		require.Equal(t, "(+ 6 (* 5 4))\n", out.stdout)
	})

	t.Run("text", func(t *testing.T) {
		out, err := runCLI(t, "", "tree", "-e", "f(X)")
		require.NoError(t, err)
		require.Equal(t, "FUNCTION_CALL [1:1-1:5]\n  LITERAL \"f\" [1:1-1:2]\n  VARIABLE \"X\" [1:3-1:4]\n", out.stdout)
	})

	t.Run("yaml", func(t *testing.T) {
		out, err := runCLI(t, "", "tree", "-e", "{a, B}", "-o", "yaml")
		require.NoError(t, err)
		require.Contains(t, out.stdout, "type: TUPLE")
		require.Contains(t, out.stdout, "text: B")
	})

	t.Run("json", func(t *testing.T) {
		out, err := runCLI(t, "", "tree", "-e", "A = [1]", "-o", "json")
		require.NoError(t, err)

		var tree parser.TreeNode
		require.NoError(t, json.Unmarshal([]byte(out.stdout), &tree))
		require.Equal(t, "BINARY_OP", tree.Type)
		require.Equal(t, "=", tree.Text)
		require.Len(t, tree.Children, 2)
	})

	t.Run("xml", func(t *testing.T) {
		out, err := runCLI(t, "", "tree", "-e", "#r.f", "-o", "xml")
		require.NoError(t, err)

		tree, err := parser.DecodeXML(out.stdout)
		require.NoError(t, err)
		require.Equal(t, "RECORD_ACCESS", tree.Type)
	})

	t.Run("stdin with full stop", func(t *testing.T) {
		out, err := runCLI(t, "{a,b}.\n", "tree", "-", "-o", "sexp")
		require.NoError(t, err)
		require.Equal(t, "(tuple a b)\n", out.stdout)
	})

	t.Run("file with root rule", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "list.erl", "[1|T]")
		out, err := runCLI(t, "", "tree", path, "--root", "list", "-o", "sexp")
		require.NoError(t, err)
		require.Equal(t, "(list 1 | T)\n", out.stdout)
	})

	t.Run("syntax error", func(t *testing.T) {
		out, err := runCLI(t, "", "tree", "-e", "1 +")
		require.ErrorIs(t, err, ErrCheckFailed)
		require.Contains(t, out.stderr, "expected primary expression")
		require.Contains(t, out.stderr, "  1 +\n     ^\n")
	})

	t.Run("no input", func(t *testing.T) {
		_, err := runCLI(t, "", "tree")
		require.ErrorIs(t, err, ErrNoInput)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := runCLI(t, "", "tree", "-e", "1", "-o", "csv")
		require.ErrorIs(t, err, ErrUnknownFormat)
	})
}

func TestTokensCmd(t *testing.T) {
	out, err := runCLI(t, "", "tokens", "-e", "foo(X)")
	require.NoError(t, err)
	require.Contains(t, out.stdout, `1:1    ATOM         "foo"`)
	require.Contains(t, out.stdout, `1:5    VARIABLE     "X"`)

	out, err = runCLI(t, "", "tokens", "-e", "a % c", "--all", "-o", "json")
	require.NoError(t, err)

	var tokens []tokenView
	require.NoError(t, json.Unmarshal([]byte(out.stdout), &tokens))
	require.Len(t, tokens, 4)
	require.Equal(t, "COMMENT", tokens[2].Type)
	require.Equal(t, "EOF", tokens[3].Type)
}

func TestRulesCmd(t *testing.T) {
	out, err := runCLI(t, "", "rules")
	require.NoError(t, err)
	require.Contains(t, out.stdout, "expression\n")
	require.Contains(t, out.stdout, "record_expression\n")

	out, err = runCLI(t, "", "rules", "--operators")
	require.NoError(t, err)
	require.Contains(t, out.stdout, "1     right  = !\n")
	require.Contains(t, out.stdout, "5     none   == /= =< < >= > =:= =/=\n")
	require.Contains(t, out.stdout, "8     left   * / div rem band\n")
}

func TestCheckCmd(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.erl", "lists:sum([1,2,3]).\n")
	writeFile(t, dir, "doc.md", "# Doc\n\n```erlang\n{ok, V}\n```\n\n```erlang\n[1,2\n```\n")
	writeFile(t, dir, "notes.txt", "not erlang")

	out, err := runCLI(t, "", "check", dir)
	require.ErrorIs(t, err, ErrCheckFailed)
	require.Contains(t, out.stdout, "3 expression(s) in 2 file(s), 1 failed")
	require.Contains(t, out.stderr, "doc.md (snippet at line 8)")
	require.Contains(t, out.stderr, "expected ']'")

	good := filepath.Join(dir, "good.erl")
	out, err = runCLI(t, "", "--verbose", "check", good, "--parallel", "1")
	require.NoError(t, err)
	require.Contains(t, out.stdout, "ok    "+good+":1 FUNCTION_CALL")
	require.Contains(t, out.stdout, "1 expression(s) in 1 file(s), 0 failed")

	out, err = runCLI(t, "", "--quiet", "check", good)
	require.NoError(t, err)
	require.Empty(t, out.stdout)
}

func TestFormatCmd(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "expr.erl", "[X*2||X<-L].\n")

	out, err := runCLI(t, "", "format", path)
	require.NoError(t, err)
	require.Equal(t, "[X * 2 || X <- L].\n", out.stdout)

	_, err = runCLI(t, "", "format", "-c", path)
	require.ErrorIs(t, err, ErrFileNotFormatted)

	out, err = runCLI(t, "", "format", "-d", path)
	require.NoError(t, err)
	require.Contains(t, out.stdout, "-[X*2||X<-L].\n+[X * 2 || X <- L].\n")

	_, err = runCLI(t, "", "format", "-w", dir)
	require.NoError(t, err)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "[X * 2 || X <- L].\n", string(content))

	_, err = runCLI(t, "", "format", "-c", path)
	require.NoError(t, err)

	out, err = runCLI(t, "{a,b}", "format")
	require.NoError(t, err)
	require.Equal(t, "{a, b}\n", out.stdout)

	writeFile(t, dir, "bad.erl", "1 +")
	_, err = runCLI(t, "", "format", "-w", dir)
	require.ErrorIs(t, err, ErrFormattingErrors)
}

func TestVersionCmd(t *testing.T) {
	out, err := runCLI(t, "", "version")
	require.NoError(t, err)
	require.Equal(t, "snaperl v0.1.0\n", out.stdout)
}
