// Package errors defines the stable error code system for bioscout-setup.
package errors

import (
	"errors"
	"fmt"
	"io"
	"sort"
)

// Code is a stable error code string.
type Code string

// Error codes. These appear verbatim on stderr and are part of the CLI contract.
const (
	EUsage    Code = "E_USAGE"
	EInternal Code = "E_INTERNAL"

	// Scaffolding failures. All of these abort the remaining steps.
	EWriteFailed   Code = "E_WRITE_FAILED"
	EMkdirFailed   Code = "E_MKDIR_FAILED"
	ENotADirectory Code = "E_NOT_A_DIRECTORY"

	// Configuration
	ENoManifest      Code = "E_NO_MANIFEST"
	EInvalidManifest Code = "E_INVALID_MANIFEST"
	EInvalidConfig   Code = "E_INVALID_CONFIG"
)

// SetupError is the standard error type for bioscout-setup errors.
type SetupError struct {
	Code    Code
	Msg     string
	Cause   error
	Details map[string]string // optional structured context
}

// Error returns the stable error format: "CODE: message".
func (e *SetupError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *SetupError) Unwrap() error {
	return e.Cause
}

// New creates a new SetupError with the given code and message.
func New(code Code, msg string) error {
	return &SetupError{Code: code, Msg: msg}
}

// NewWithDetails creates a new SetupError with code, message, and details.
// The details map is copied (nil if empty).
func NewWithDetails(code Code, msg string, details map[string]string) error {
	return &SetupError{Code: code, Msg: msg, Details: copyDetails(details)}
}

// Wrap creates a new SetupError wrapping an underlying error.
func Wrap(code Code, msg string, err error) error {
	return &SetupError{Code: code, Msg: msg, Cause: err}
}

// WrapWithDetails creates a new SetupError wrapping an underlying error with details.
// The details map is copied (nil if empty).
func WrapWithDetails(code Code, msg string, err error, details map[string]string) error {
	return &SetupError{Code: code, Msg: msg, Cause: err, Details: copyDetails(details)}
}

// GetCode extracts the error code from an error, or empty string if not a SetupError.
func GetCode(err error) Code {
	var se *SetupError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

func copyDetails(details map[string]string) map[string]string {
	if len(details) == 0 {
		return nil
	}
	cp := make(map[string]string, len(details))
	for k, v := range details {
		cp[k] = v
	}
	return cp
}

// As calls the standard library errors.As, so callers need only this package.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// ExitCode returns the process exit code for an error.
// Returns 0 if err is nil, 2 for E_USAGE, 1 for all other errors.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if GetCode(err) == EUsage {
		return 2
	}
	return 1
}

// Print writes the error to w in the stable stderr format:
//
//	error_code: <CODE>
//	<message>
//
// When the error carries details they follow as sorted "key: value" lines.
func Print(w io.Writer, err error) {
	if err == nil {
		return
	}
	var se *SetupError
	if !errors.As(err, &se) {
		fmt.Fprintln(w, err.Error())
		return
	}
	fmt.Fprintf(w, "error_code: %s\n", se.Code)
	fmt.Fprintln(w, se.Msg)
	if se.Cause != nil {
		fmt.Fprintf(w, "cause: %v\n", se.Cause)
	}
	for _, k := range sortedKeys(se.Details) {
		fmt.Fprintf(w, "%s: %s\n", k, se.Details[k])
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
