package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestWithSuggestion(t *testing.T) {
	baseErr := errors.New("test error")
	err := WithSuggestion(baseErr, "try this instead")

	if err == nil {
		t.Fatal("expected error, got nil")
	}

	errMsg := err.Error()
	if !strings.Contains(errMsg, "test error") {
		t.Errorf("error message should contain base error, got: %s", errMsg)
	}
	if !strings.Contains(errMsg, "try this instead") {
		t.Errorf("error message should contain suggestion, got: %s", errMsg)
	}
	if !strings.Contains(errMsg, "💡 Sugerencia") {
		t.Errorf("error message should contain suggestion label, got: %s", errMsg)
	}
}

func TestWithContext(t *testing.T) {
	baseErr := errors.New("test error")
	err := WithContext(baseErr, "tool", "amass")
	err = WithContext(err, "timeout", "120s")

	errMsg := err.Error()
	if !strings.Contains(errMsg, "tool: amass") {
		t.Errorf("error message should contain context, got: %s", errMsg)
	}
	if !strings.Contains(errMsg, "timeout: 120s") {
		t.Errorf("error message should contain all context, got: %s", errMsg)
	}
}

func TestNewInvalidDomainError(t *testing.T) {
	err := NewInvalidDomainError("bad;domain", "contiene metacaracteres")

	if err == nil {
		t.Fatal("expected error, got nil")
	}

	errMsg := err.Error()
	if !strings.Contains(errMsg, "bad;domain") {
		t.Errorf("error message should contain the domain, got: %s", errMsg)
	}
	if !strings.Contains(errMsg, "metacaracteres") {
		t.Errorf("error message should contain the reason, got: %s", errMsg)
	}

	if !IsInvalidDomain(err) {
		t.Error("IsInvalidDomain should return true for invalid domain error")
	}
	if IsDirectory(err) {
		t.Error("IsDirectory should be false for invalid domain error")
	}
}

func TestNewDirectoryError(t *testing.T) {
	cause := errors.New("permission denied")
	err := NewDirectoryError("/root/forbidden/example.com-recon", cause)

	if err == nil {
		t.Fatal("expected error, got nil")
	}

	errMsg := err.Error()
	if !strings.Contains(errMsg, "example.com-recon") {
		t.Errorf("error message should contain the path, got: %s", errMsg)
	}
	if !strings.Contains(errMsg, "permission denied") {
		t.Errorf("error message should contain the cause, got: %s", errMsg)
	}

	if !IsDirectory(err) {
		t.Error("IsDirectory should return true for directory error")
	}
	if !errors.Is(err, cause) {
		t.Error("directory error should unwrap to its cause")
	}
}

func TestNewMissingBinaryError(t *testing.T) {
	err := NewMissingBinaryError("amass", "/usr/bin", "/usr/local/bin")

	if err == nil {
		t.Fatal("expected error, got nil")
	}

	errMsg := err.Error()
	if !strings.Contains(errMsg, "amass") {
		t.Errorf("error message should contain binary name, got: %s", errMsg)
	}
	if !strings.Contains(errMsg, "which amass") {
		t.Errorf("error message should contain installation suggestion, got: %s", errMsg)
	}

	// Verificar que es el tipo correcto
	if !IsMissingBinary(err) {
		t.Error("IsMissingBinary should return true for missing binary error")
	}
}

func TestNewTimeoutError(t *testing.T) {
	err := NewTimeoutError("amass", 120)

	if err == nil {
		t.Fatal("expected error, got nil")
	}

	errMsg := err.Error()
	if !strings.Contains(errMsg, "timeout") {
		t.Errorf("error message should contain 'timeout', got: %s", errMsg)
	}
	if !strings.Contains(errMsg, "120") {
		t.Errorf("error message should contain duration, got: %s", errMsg)
	}

	if !IsTimeout(err) {
		t.Error("IsTimeout should return true for timeout error")
	}
}

func TestGetSuggestion(t *testing.T) {
	baseErr := errors.New("test error")
	err := WithSuggestion(baseErr, "my suggestion")

	suggestion := GetSuggestion(err)
	if suggestion != "my suggestion" {
		t.Errorf("expected 'my suggestion', got: %s", suggestion)
	}

	// Test con un error normal sin sugerencia
	normalErr := errors.New("normal error")
	suggestion2 := GetSuggestion(normalErr)
	if suggestion2 != "" {
		t.Errorf("expected empty suggestion for normal error, got: %s", suggestion2)
	}
}

func TestGetContext(t *testing.T) {
	baseErr := errors.New("test error")
	err := WithContext(baseErr, "key1", "value1")
	err = WithContext(err, "key2", "value2")

	ctx := GetContext(err)
	if ctx == nil {
		t.Fatal("expected context, got nil")
	}
	if ctx["key1"] != "value1" {
		t.Errorf("expected 'value1' for key1, got: %s", ctx["key1"])
	}
	if ctx["key2"] != "value2" {
		t.Errorf("expected 'value2' for key2, got: %s", ctx["key2"])
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		limit    int
		expected string
	}{
		{"short", 10, "short"},
		{"this is a very long string", 10, "this is..."},
		{"exactly10", 10, "exactly10"},
		{"", 5, ""},
	}

	for _, tt := range tests {
		result := truncate(tt.input, tt.limit)
		if result != tt.expected {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.limit, result, tt.expected)
		}
	}
}

func TestErrorUnwrap(t *testing.T) {
	baseErr := errors.New("base error")
	wrapped := WithSuggestion(baseErr, "some suggestion")

	unwrapped := errors.Unwrap(wrapped)
	if unwrapped != baseErr {
		t.Error("should be able to unwrap error")
	}

	if !errors.Is(wrapped, baseErr) {
		t.Error("errors.Is should work with wrapped errors")
	}
}
