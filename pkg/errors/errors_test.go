package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestExitCodes(t *testing.T) {
	tests := []struct {
		name     string
		err      *MatcherError
		expected int
	}{
		{"file", FileError(CodeFileNotFound, "x.csv", nil), 2},
		{"parse", ParseError(CodeMissingColumn, "x.csv", "Amount", nil), 3},
		{"validation", ValidationError(CodeInvalidDate, "date", "yesterday", nil), 3},
		{"configuration", ConfigurationError(CodeMissingCredential, "YNAB_API_KEY", nil), 4},
		{"network", NetworkError(CodeHTTPStatus, "/budgets", nil), 5},
		{"internal", InternalError("matching", nil), 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.ExitCode(); got != tt.expected {
				t.Errorf("ExitCode() = %d, expected %d", got, tt.expected)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := New(CategoryFile, CodeFileNotFound, "file not found: x.csv")
	if err.Error() != "file not found: x.csv" {
		t.Errorf("unexpected message: %s", err.Error())
	}

	err = err.WithSuggestion("check the path")
	if !strings.Contains(err.Error(), "suggestion: check the path") {
		t.Errorf("suggestion not included: %s", err.Error())
	}
}

func TestWrapAndUnwrap(t *testing.T) {
	cause := fmt.Errorf("underlying failure")
	err := Wrap(cause, CategoryNetwork, CodeRequestFailed, "request failed")

	if err.Unwrap() != cause {
		t.Error("Unwrap must return the original cause")
	}
	if err.Category != CategoryNetwork || err.Code != CodeRequestFailed {
		t.Errorf("category/code not preserved: %s/%s", err.Category, err.Code)
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, CategoryInternal, CodeUnexpectedError, "x") != nil {
		t.Error("wrapping nil must return nil")
	}
}

func TestAsMatcherError(t *testing.T) {
	direct := FileError(CodeFileNotFound, "x.csv", nil)
	if got, ok := AsMatcherError(direct); !ok || got.Code != CodeFileNotFound {
		t.Error("expected direct extraction to succeed")
	}

	wrapped := fmt.Errorf("outer: %w", direct)
	if got, ok := AsMatcherError(wrapped); !ok || got.Code != CodeFileNotFound {
		t.Error("expected extraction through a wrapped chain to succeed")
	}

	if _, ok := AsMatcherError(fmt.Errorf("plain")); ok {
		t.Error("plain errors must not extract")
	}
}

func TestHasCode(t *testing.T) {
	err := ConfigurationError(CodeUnknownBank, "swedbank", nil)

	if !HasCode(err, CodeUnknownBank) {
		t.Error("expected HasCode to match")
	}
	if HasCode(err, CodeFileNotFound) {
		t.Error("expected HasCode to reject a different code")
	}
	if HasCode(nil, CodeUnknownBank) {
		t.Error("nil must not match any code")
	}
}

func TestContext(t *testing.T) {
	err := New(CategoryValidation, CodeInvalidAmount, "bad amount").
		WithContext("field", "amount").
		WithContext("value", "abc")

	if err.Context["field"] != "amount" {
		t.Errorf("context field = %v", err.Context["field"])
	}

	formatted := err.FormatContext()
	if !strings.Contains(formatted, "field=amount") || !strings.Contains(formatted, "value=abc") {
		t.Errorf("FormatContext() = %q", formatted)
	}
}

func TestConstructorContext(t *testing.T) {
	err := FileError(CodeFileNotFound, "/tmp/export.csv", nil)
	if err.Context["file_path"] != "/tmp/export.csv" {
		t.Errorf("expected file_path context, got %v", err.Context)
	}
	if err.Suggestion == "" {
		t.Error("file errors carry a default suggestion")
	}
}
