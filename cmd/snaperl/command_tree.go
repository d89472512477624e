package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/shibukawa/snaperl"
	"github.com/shibukawa/snaperl/parser"
)

// TreeCmd represents the tree command
type TreeCmd struct {
	Source SourceFlags `embed:""`
	Root   string      `help:"Root grammar rule (default: root_rule from config)"`
	Output string      `short:"o" help:"Output format: text, sexp, yaml, json or xml (default: output.format from config)"`
	Trace  bool        `help:"Dump the combinator trace"`
}

// Run executes the tree command
func (cmd *TreeCmd) Run(ctx *Context) error {
	config, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	if cmd.Root != "" {
		config.RootRule = cmd.Root
	}
	if cmd.Trace {
		config.Trace = true
	}

	format := config.Output.Format
	if cmd.Output != "" {
		format = cmd.Output
	}
	if !slices.Contains(snaperl.OutputFormats, format) {
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}

	src, name, err := cmd.Source.read(ctx, config)
	if err != nil {
		return err
	}

	result, err := snaperl.ParseSource(src, config)
	if err != nil {
		writeDiagnostic(ctx.Stderr, name, src, err)
		return ErrCheckFailed
	}

	return writeTree(ctx.Stdout, result.Root, format)
}

func writeTree(w io.Writer, root parser.Node, format string) error {
	switch format {
	case "sexp":
		_, err := fmt.Fprintln(w, root.String())
		return err
	case "yaml":
		data, err := yaml.Marshal(parser.Describe(root))
		if err != nil {
			return fmt.Errorf("failed to encode tree: %w", err)
		}
		_, err = w.Write(data)
		return err
	case "json":
		data, err := json.MarshalIndent(parser.Describe(root), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode tree: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "xml":
		content, err := parser.EncodeXML(root)
		if err != nil {
			return fmt.Errorf("failed to encode tree: %w", err)
		}
		_, err = io.WriteString(w, content)
		return err
	default:
		var sb strings.Builder
		writeTextTree(&sb, parser.Describe(root), 0)
		_, err := io.WriteString(w, sb.String())
		return err
	}
}

func writeTextTree(sb *strings.Builder, node parser.TreeNode, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(node.Type)
	if node.Text != "" {
		fmt.Fprintf(sb, " %q", node.Text)
	}
	fmt.Fprintf(sb, " [%s-%s]\n", node.Start, node.End)
	for _, child := range node.Children {
		writeTextTree(sb, child, depth+1)
	}
}
