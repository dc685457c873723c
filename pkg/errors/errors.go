// Package errors defines the error taxonomy shared by all transaction
// sources and the matching engine.
//
// Errors carry a category (file, parse, validation, configuration, network,
// internal), a specific code, an optional remediation suggestion, and a
// context map. Categories map to process exit codes so the CLI can signal
// the failure class to callers. Fatal load errors (unreadable files, unknown
// banks, transport failures, missing credentials) are always represented as
// MatcherError values; row-level data problems are logged and skipped by the
// adapters and never reach this package's callers.
package errors

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Category classifies an error by its origin.
type Category string

const (
	CategoryFile          Category = "file"
	CategoryParse         Category = "parse"
	CategoryValidation    Category = "validation"
	CategoryConfiguration Category = "configuration"
	CategoryNetwork       Category = "network"
	CategoryInternal      Category = "internal"
)

// Code identifies a specific error condition within a category.
type Code string

const (
	// File errors
	CodeFileNotFound   Code = "file_not_found"
	CodeFilePermission Code = "file_permission"
	CodeFileUnreadable Code = "file_unreadable"

	// Parse errors
	CodeInvalidFormat Code = "invalid_format"
	CodeMissingColumn Code = "missing_column"
	CodeInvalidData   Code = "invalid_data"

	// Validation errors
	CodeInvalidAmount Code = "invalid_amount"
	CodeInvalidDate   Code = "invalid_date"
	CodeMissingField  Code = "missing_field"

	// Configuration errors
	CodeMissingCredential Code = "missing_credential"
	CodeUnknownBank       Code = "unknown_bank"
	CodeInvalidConfig     Code = "invalid_config"

	// Network errors
	CodeRequestFailed Code = "request_failed"
	CodeHTTPStatus    Code = "http_status"

	// Internal errors
	CodeUnexpectedError Code = "unexpected_error"
)

// MatcherError is the error type returned by every fatal failure in the
// module.
type MatcherError struct {
	Category   Category          `json:"category"`
	Code       Code              `json:"code"`
	Message    string            `json:"message"`
	Suggestion string            `json:"suggestion,omitempty"`
	Context    Context           `json:"context,omitempty"`
	Cause      error             `json:"-"`
	StackTrace errors.StackTrace `json:"-"`
}

// Context provides additional structured information about an error.
type Context map[string]interface{}

func (e *MatcherError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s (suggestion: %s)", e.Message, e.Suggestion)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *MatcherError) Unwrap() error {
	return e.Cause
}

// ExitCode maps the error category to a process exit code.
func (e *MatcherError) ExitCode() int {
	switch e.Category {
	case CategoryFile:
		return 2
	case CategoryParse, CategoryValidation:
		return 3
	case CategoryConfiguration:
		return 4
	case CategoryNetwork:
		return 5
	case CategoryInternal:
		return 6
	default:
		return 1
	}
}

// WithContext attaches a key-value pair to the error.
func (e *MatcherError) WithContext(key string, value interface{}) *MatcherError {
	if e.Context == nil {
		e.Context = make(Context)
	}
	e.Context[key] = value
	return e
}

// WithSuggestion attaches a remediation hint to the error.
func (e *MatcherError) WithSuggestion(suggestion string) *MatcherError {
	e.Suggestion = suggestion
	return e
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// New creates a MatcherError with a captured stack trace.
func New(category Category, code Code, message string) *MatcherError {
	return &MatcherError{
		Category:   category,
		Code:       code,
		Message:    message,
		StackTrace: errors.New("").(stackTracer).StackTrace(),
	}
}

// Wrap annotates an existing error with category and code.
func Wrap(err error, category Category, code Code, message string) *MatcherError {
	if err == nil {
		return nil
	}
	return &MatcherError{
		Category:   category,
		Code:       code,
		Message:    message,
		Cause:      err,
		StackTrace: errors.WithStack(err).(stackTracer).StackTrace(),
	}
}

// FileError builds a file-category error for the given path.
func FileError(code Code, path string, err error) *MatcherError {
	var message, suggestion string

	switch code {
	case CodeFileNotFound:
		message = fmt.Sprintf("file not found: %s", path)
		suggestion = "check that the file path is correct and the file exists"
	case CodeFilePermission:
		message = fmt.Sprintf("permission denied reading file: %s", path)
		suggestion = "check file permissions"
	default:
		message = fmt.Sprintf("cannot read file: %s", path)
		suggestion = "verify the file is a readable CSV export"
	}

	result := wrapOrNew(err, CategoryFile, code, message)
	return result.WithSuggestion(suggestion).WithContext("file_path", path)
}

// ParseError builds a parse-category error for structural problems in a
// source file (bad header row, non-tabular content). Row-level data errors
// are handled by the adapters and never surface as ParseError.
func ParseError(code Code, file string, detail string, err error) *MatcherError {
	var message, suggestion string

	switch code {
	case CodeMissingColumn:
		message = fmt.Sprintf("missing required column(s) in %s: %s", file, detail)
		suggestion = "check that the export matches the selected bank's header layout"
	case CodeInvalidFormat:
		message = fmt.Sprintf("invalid file format in %s: %s", file, detail)
		suggestion = "check that the file is a valid CSV export"
	default:
		message = fmt.Sprintf("parse error in %s: %s", file, detail)
		suggestion = "check the file format"
	}

	result := wrapOrNew(err, CategoryParse, code, message)
	return result.WithSuggestion(suggestion).WithContext("file", file)
}

// ValidationError builds a validation-category error for a named field.
func ValidationError(code Code, field string, value interface{}, err error) *MatcherError {
	var message, suggestion string

	switch code {
	case CodeInvalidAmount:
		message = fmt.Sprintf("invalid amount in field '%s': %v", field, value)
		suggestion = "amounts must be decimal numbers such as '12.34'"
	case CodeInvalidDate:
		message = fmt.Sprintf("invalid date in field '%s': %v", field, value)
		suggestion = "dates must use the bank's documented format"
	case CodeMissingField:
		message = fmt.Sprintf("required field '%s' is missing or empty", field)
		suggestion = "provide a value for this field"
	default:
		message = fmt.Sprintf("validation error in field '%s': %v", field, value)
		suggestion = "check the field value"
	}

	result := wrapOrNew(err, CategoryValidation, code, message)
	return result.WithSuggestion(suggestion).WithContext("field", field).WithContext("value", value)
}

// ConfigurationError builds a configuration-category error.
func ConfigurationError(code Code, setting string, err error) *MatcherError {
	var message, suggestion string

	switch code {
	case CodeMissingCredential:
		message = fmt.Sprintf("missing credential: %s", setting)
		suggestion = "set the environment variable or add the key to the config file"
	case CodeUnknownBank:
		message = fmt.Sprintf("no adapter registered for bank: %s", setting)
		suggestion = "use one of the supported bank names"
	default:
		message = fmt.Sprintf("invalid configuration: %s", setting)
		suggestion = "check the configuration value"
	}

	result := wrapOrNew(err, CategoryConfiguration, code, message)
	return result.WithSuggestion(suggestion).WithContext("setting", setting)
}

// NetworkError builds a network-category error for a remote endpoint.
func NetworkError(code Code, endpoint string, err error) *MatcherError {
	var message, suggestion string

	switch code {
	case CodeHTTPStatus:
		message = fmt.Sprintf("remote service returned an error status for %s", endpoint)
		suggestion = "check the credential and the requested budget/account identifiers"
	default:
		message = fmt.Sprintf("request to %s failed", endpoint)
		suggestion = "check network connectivity and try again"
	}

	result := wrapOrNew(err, CategoryNetwork, code, message)
	return result.WithSuggestion(suggestion).WithContext("endpoint", endpoint)
}

// InternalError builds an internal-category error.
func InternalError(operation string, err error) *MatcherError {
	message := fmt.Sprintf("unexpected error during %s", operation)
	result := wrapOrNew(err, CategoryInternal, CodeUnexpectedError, message)
	return result.WithContext("operation", operation)
}

func wrapOrNew(err error, category Category, code Code, message string) *MatcherError {
	if err != nil {
		return Wrap(err, category, code, message)
	}
	return New(category, code, message)
}

// IsMatcherError reports whether err is a MatcherError.
func IsMatcherError(err error) bool {
	_, ok := err.(*MatcherError)
	return ok
}

// AsMatcherError extracts a MatcherError from an error chain.
func AsMatcherError(err error) (*MatcherError, bool) {
	var matcherErr *MatcherError
	if errors.As(err, &matcherErr) {
		return matcherErr, true
	}
	return nil, false
}

// HasCode reports whether the error chain contains a MatcherError with the
// given code.
func HasCode(err error, code Code) bool {
	if matcherErr, ok := AsMatcherError(err); ok {
		return matcherErr.Code == code
	}
	return false
}

// FormatContext renders the context map as "k=v" pairs for log output.
func (e *MatcherError) FormatContext() string {
	if len(e.Context) == 0 {
		return ""
	}
	var parts []string
	for k, v := range e.Context {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	return strings.Join(parts, " ")
}
