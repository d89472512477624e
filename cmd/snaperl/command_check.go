package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/shibukawa/snaperl"
	"github.com/shibukawa/snaperl/parser"
)

// CheckCmd represents the check command
type CheckCmd struct {
	Paths    []string `arg:"" help:"Files or directories to check"`
	Root     string   `help:"Root grammar rule (default: root_rule from config)"`
	Parallel int      `help:"Number of parallel workers (default: parallel from config)"`
}

// Run executes the check command
func (cmd *CheckCmd) Run(ctx *Context) error {
	config, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	if cmd.Root != "" {
		config.RootRule = cmd.Root
	}
	if cmd.Parallel > 0 {
		config.Parallel = cmd.Parallel
	}

	files, err := collectFiles(cmd.Paths, config.Extensions)
	if err != nil {
		return err
	}

	if ctx.Verbose {
		color.New(color.FgBlue).Fprintf(ctx.Stderr, "Checking %d file(s) with %d worker(s)\n", len(files), config.Parallel)
	}

	results, err := snaperl.CheckFiles(context.Background(), files, config)

	var parseErr *parser.ParseError
	if err != nil && !errors.As(err, &parseErr) {
		return err
	}

	for _, result := range results {
		if result.Err != nil {
			name, err := diagnosticTarget(result)
			writeDiagnostic(ctx.Stderr, name, result.Source, err)
			continue
		}
		if ctx.Verbose {
			color.New(color.FgGreen).Fprintf(ctx.Stdout, "ok    %s:%d %s\n", result.Path, result.Line, result.Result.Root.Type())
		}
	}

	failed := 0
	if parseErr != nil {
		failed = len(parseErr.Errors)
	}

	if !ctx.Quiet {
		summary := color.New(color.FgGreen)
		if failed > 0 {
			summary = color.New(color.FgRed)
		}
		summary.Fprintf(ctx.Stdout, "%d expression(s) in %d file(s), %d failed\n", len(results), len(files), failed)
	}

	if failed > 0 {
		return ErrCheckFailed
	}
	return nil
}

// diagnosticTarget splits a check failure into a display name and the error
// relative to the checked source.
func diagnosticTarget(result snaperl.CheckResult) (string, error) {
	var fileErr *snaperl.FileError
	if !errors.As(result.Err, &fileErr) {
		return result.Path, result.Err
	}
	if fileErr.Line > 1 {
		return fmt.Sprintf("%s (snippet at line %d)", fileErr.Path, fileErr.Line), fileErr.Err
	}
	return fileErr.Path, fileErr.Err
}

// collectFiles expands directories into the files whose extension is listed.
func collectFiles(paths []string, extensions []string) ([]string, error) {
	var files []string

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat input: %w", err)
		}

		if !info.IsDir() {
			files = append(files, path)
			continue
		}

		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if slices.Contains(extensions, strings.ToLower(filepath.Ext(p))) {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk directory: %w", err)
		}
	}

	return files, nil
}
