package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/shibukawa/snaperl"
)

// Context represents the global context for commands
type Context struct {
	Config  string
	Verbose bool
	Quiet   bool
	NoColor bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// CLI represents the command-line interface
type CLI struct {
	Config  string     `help:"Configuration file path" default:"snaperl.yaml"`
	Verbose bool       `help:"Enable verbose output" short:"v"`
	Quiet   bool       `help:"Suppress output" short:"q"`
	NoColor bool       `help:"Disable colored output" name:"no-color"`
	Check   CheckCmd   `cmd:"" help:"Check that Erlang files contain valid expressions"`
	Tree    TreeCmd    `cmd:"" help:"Print the parse tree of an expression"`
	Tokens  TokensCmd  `cmd:"" help:"Print the token stream of an expression"`
	Format  FormatCmd  `cmd:"" help:"Format Erlang expressions and Markdown code blocks"`
	Rules   RulesCmd   `cmd:"" help:"List grammar rules and operator precedence"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// VersionCmd represents the version command
type VersionCmd struct{}

// Run executes the version command
func (cmd *VersionCmd) Run(ctx *Context) error {
	fmt.Fprintln(ctx.Stdout, "snaperl v0.1.0")
	return nil
}

// run parses args and executes the selected command.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var cli CLI

	parser, err := kong.New(&cli,
		kong.Name("snaperl"),
		kong.Description("Erlang expression parser"),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
	)
	if err != nil {
		return err
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	appCtx := &Context{
		Config:  cli.Config,
		Verbose: cli.Verbose,
		Quiet:   cli.Quiet,
		NoColor: cli.NoColor,
		Stdin:   stdin,
		Stdout:  stdout,
		Stderr:  stderr,
	}

	return kctx.Run(appCtx)
}

func main() {
	err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	if err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads the configuration and applies global flags to it.
func loadConfig(ctx *Context) (*snaperl.Config, error) {
	config, err := snaperl.LoadConfig(ctx.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if ctx.NoColor || !config.Output.ColorEnabled() {
		color.NoColor = true
	}

	if ctx.Verbose {
		color.New(color.FgCyan).Fprintf(ctx.Stderr, "Using configuration: %s (root rule %s, encoding %s)\n", ctx.Config, config.RootRule, config.Encoding)
	}

	return config, nil
}
