package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidFormat, "bad coordinates: %s", "g:a")

	if err.Code != ErrCodeInvalidFormat {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidFormat)
	}

	if err.Message != "bad coordinates: g:a" {
		t.Errorf("Message = %v, want %v", err.Message, "bad coordinates: g:a")
	}

	expected := "INVALID_FORMAT: bad coordinates: g:a"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeNetwork, cause, "deploy failed")

	if err.Code != ErrCodeNetwork {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeNetwork)
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeInvalidLayout, "x"), ErrCodeInvalidLayout, true},
		{"non-matching code", New(ErrCodeInvalidLayout, "x"), ErrCodeNetwork, false},
		{"outer code", Wrap(ErrCodeInvalidDeclaration, New(ErrCodeDuplicateDependency, "inner"), "outer"), ErrCodeInvalidDeclaration, true},
		{"inner code", Wrap(ErrCodeInvalidDeclaration, New(ErrCodeDuplicateDependency, "inner"), "outer"), ErrCodeDuplicateDependency, true},
		{"fmt wrapped", fmt.Errorf("context: %w", New(ErrCodeAmbiguousCoordinates, "x")), ErrCodeAmbiguousCoordinates, true},
		{"plain error", errors.New("plain"), ErrCodeInvalidInput, false},
		{"nil error", nil, ErrCodeInvalidInput, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeNotFound, "x")); got != ErrCodeNotFound {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeNotFound)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode() = %v, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"structured", New(ErrCodeInvalidFormat, "bad coords"), "bad coords"},
		{"wrapped", Wrap(ErrCodeInvalidDeclaration, New(ErrCodeDuplicateDependency, "dup"), "dependencies \"deps\""), "dependencies \"deps\": dup"},
		{"plain", errors.New("plain error"), "plain error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
