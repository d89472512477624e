package main

import (
	"encoding/json"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/shibukawa/snaperl/tokenizer"
)

// TokensCmd represents the tokens command
type TokensCmd struct {
	Source SourceFlags `embed:""`
	All    bool        `short:"a" help:"Include whitespace and comments"`
	Output string      `short:"o" help:"Output format: text, yaml or json" default:"text" enum:"text,yaml,json"`
}

type tokenView struct {
	Type     string `yaml:"type" json:"type"`
	Value    string `yaml:"value" json:"value"`
	Start    string `yaml:"start" json:"start"`
	End      string `yaml:"end" json:"end"`
	Reserved bool   `yaml:"reserved,omitempty" json:"reserved,omitempty"`
}

// Run executes the tokens command
func (cmd *TokensCmd) Run(ctx *Context) error {
	config, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	src, name, err := cmd.Source.read(ctx, config)
	if err != nil {
		return err
	}

	options := tokenizer.TokenizerOptions{SkipWhitespace: !cmd.All, SkipComments: !cmd.All}
	tokens, err := tokenizer.NewErlangTokenizer(src, options).AllTokens()
	if err != nil {
		writeDiagnostic(ctx.Stderr, name, src, err)
		return err
	}

	views := make([]tokenView, 0, len(tokens))
	for _, token := range tokens {
		views = append(views, tokenView{
			Type:     token.Type.String(),
			Value:    token.Value,
			Start:    fmt.Sprintf("%d:%d", token.Position.Line, token.Position.Column),
			End:      fmt.Sprintf("%d:%d", token.End.Line, token.End.Column),
			Reserved: token.Reserved,
		})
	}

	switch cmd.Output {
	case "yaml":
		data, err := yaml.Marshal(views)
		if err != nil {
			return fmt.Errorf("failed to encode tokens: %w", err)
		}
		_, err = ctx.Stdout.Write(data)
		return err
	case "json":
		data, err := json.MarshalIndent(views, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode tokens: %w", err)
		}
		_, err = fmt.Fprintln(ctx.Stdout, string(data))
		return err
	}

	for _, view := range views {
		fmt.Fprintf(ctx.Stdout, "%-6s %-12s %q\n", view.Start, view.Type, view.Value)
	}
	return nil
}
