package main

import "errors"

// Sentinel errors for command operations
var (
	ErrCheckFailed      = errors.New("some expressions failed to parse")
	ErrFileNotFormatted = errors.New("file is not formatted")
	ErrFormattingErrors = errors.New("some files had formatting errors")
	ErrUnknownFormat    = errors.New("unknown output format")
	ErrNoInput          = errors.New("no input: pass a file, '-' for stdin, or --expr")
)
