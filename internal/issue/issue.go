package issue

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure so callers can pick an exit code or a message
// without parsing error strings.
type Kind int

const (
	// Unknown is the kind of any error not built by this package.
	Unknown Kind = iota
	// InvalidInput means a module name, package, layout or version was rejected.
	InvalidInput
	// AlreadyExists means the target module directory is already present.
	AlreadyExists
	// PathResolutionFailure means the project root could not be determined.
	PathResolutionFailure
	// WriteFailure means a directory or file could not be created.
	WriteFailure
	// SettingsUpdateFailure means the Gradle settings file could not be read or written.
	SettingsUpdateFailure
)

var kindNames = map[Kind]string{
	Unknown:               "Unknown",
	InvalidInput:          "InvalidInput",
	AlreadyExists:         "AlreadyExists",
	PathResolutionFailure: "PathResolutionFailure",
	WriteFailure:          "WriteFailure",
	SettingsUpdateFailure: "SettingsUpdateFailure",
}

// String returns the kind name, e.g. "AlreadyExists".
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ExitCode maps a kind to the process exit status used by the CLI.
func (k Kind) ExitCode() int {
	switch k {
	case InvalidInput:
		return 2
	case AlreadyExists:
		return 3
	case PathResolutionFailure:
		return 4
	case WriteFailure:
		return 5
	case SettingsUpdateFailure:
		return 6
	default:
		return 1
	}
}

// Error is a classified error with context for user-facing messages.
//
// Build one with New or Wrap and chain the With* methods:
//
//	return issue.Wrap(issue.WriteFailure, err, "create directory", dir).
//		WithSuggestion("Check that the parent directory is writable")
type Error struct {
	// Kind classifies the failure.
	Kind Kind

	// Operation describes what was being attempted (e.g., "create module directory").
	Operation string

	// Resource identifies the file, path, or entity involved (optional).
	Resource string

	// Suggestions are hints on how to fix the issue (optional).
	Suggestions []string

	// Cause is the underlying error (optional).
	Cause error
}

// New creates an Error of the given kind with a plain cause message.
func New(kind Kind, operation, cause string) *Error {
	return &Error{
		Kind:      kind,
		Operation: operation,
		Cause:     errors.New(cause),
	}
}

// Wrap wraps err with a kind, operation and resource. Returns nil for a nil err.
func Wrap(kind Kind, err error, operation, resource string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Kind:      kind,
		Operation: operation,
		Resource:  resource,
		Cause:     err,
	}
}

// WithResource sets the resource involved.
func (e *Error) WithResource(res string) *Error {
	e.Resource = res
	return e
}

// WithSuggestion appends one or more suggestions.
func (e *Error) WithSuggestion(sugs ...string) *Error {
	e.Suggestions = append(e.Suggestions, sugs...)
	return e
}

// Error renders "failed to <operation>: <resource>: <cause>".
func (e *Error) Error() string {
	var msg strings.Builder

	msg.WriteString("failed to ")
	msg.WriteString(e.Operation)

	if e.Resource != "" {
		msg.WriteString(": ")
		msg.WriteString(e.Resource)
	}

	if e.Cause != nil {
		msg.WriteString(": ")
		msg.WriteString(e.Cause.Error())
	}

	return msg.String()
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Format returns the message with suggestions, and the full cause chain when
// verbose is set.
func (e *Error) Format(verbose bool) string {
	var msg strings.Builder

	msg.WriteString(e.Error())

	if len(e.Suggestions) > 0 {
		msg.WriteString("\n")
		for _, suggestion := range e.Suggestions {
			msg.WriteString("\n  • ")
			msg.WriteString(suggestion)
		}
	}

	if verbose && e.Cause != nil {
		msg.WriteString("\n\nError chain:")
		err := e.Cause
		depth := 1
		for err != nil {
			fmt.Fprintf(&msg, "\n  %d. %s", depth, err.Error())
			err = errors.Unwrap(err)
			depth++
		}
	}

	return msg.String()
}

// KindOf returns the kind of the first *Error in err's chain, or Unknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// FormatForDisplay formats any error for the terminal. Errors built by this
// package get their suggestions; others are printed as-is.
func FormatForDisplay(err error, verbose bool) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Format(verbose)
	}
	return err.Error()
}
