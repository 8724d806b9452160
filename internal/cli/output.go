package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/roach88/vestd/internal/ledger"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Ledger rejection (unauthorized, insufficient balance, etc.)
	ExitCommandError = 2 // Command error (bad arguments, missing database, etc.)
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// wrapLedgerError maps a failed ledger call to an exit code: a typed
// rejection is an expected failure (exit 1), anything else is an
// infrastructure error (exit 2).
func wrapLedgerError(err error) error {
	if ledger.CodeOf(err) != "" {
		return WrapExitError(ExitFailure, "operation rejected", err)
	}
	return WrapExitError(ExitCommandError, "operation failed", err)
}

// OutputFormatter handles JSON vs text output for CLI commands.
// Text output groups digits in amounts (1,000,000) via x/text.
type OutputFormatter struct {
	Format  string
	Writer  io.Writer
	printer *message.Printer
}

// NewOutputFormatter creates a formatter for the given format.
func NewOutputFormatter(format string, w io.Writer) *OutputFormatter {
	return &OutputFormatter{
		Format:  format,
		Writer:  w,
		printer: message.NewPrinter(language.English),
	}
}

// Emit writes v as indented JSON in json mode, otherwise runs the
// text renderer.
func (f *OutputFormatter) Emit(v any, text func(p *message.Printer, w io.Writer)) error {
	if f.Format == "json" {
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(f.printer, f.Writer)
	return nil
}
