package snaperl

import (
	"errors"
	"fmt"
)

// Common errors used throughout the snaperl package
var (
	// ErrUnsupportedFile is returned for files that are neither Erlang sources nor Markdown.
	ErrUnsupportedFile = errors.New("unsupported file type")
	// ErrNoFiles is returned when a check is requested without input files.
	ErrNoFiles = errors.New("no input files")
)

// FileError attaches a file location to a parse failure.
type FileError struct {
	Path string
	Line int // first line of the expression in the file
	Err  error
}

func (e *FileError) Error() string {
	if e.Line > 1 {
		return fmt.Sprintf("%s (snippet at line %d): %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}
