package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeConfiguration, "unsupported unit: %s", "furlong")

	if err.Code != ErrCodeConfiguration {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeConfiguration)
	}

	if err.Message != "unsupported unit: furlong" {
		t.Errorf("Message = %v, want %v", err.Message, "unsupported unit: furlong")
	}

	expected := "CONFIGURATION_ERROR: unsupported unit: furlong"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := Wrap(ErrCodeData, cause, "read raster")

	if err.Code != ErrCodeData {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeData)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestShorthands(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		code Code
	}{
		{"data", Data("x"), ErrCodeData},
		{"configuration", Configuration("x"), ErrCodeConfiguration},
		{"shape mismatch", ShapeMismatch("x"), ErrCodeShapeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %v, want %v", tt.err.Code, tt.code)
			}
		})
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeData, "test"),
			code:     ErrCodeData,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeData, "test"),
			code:     ErrCodeShapeMismatch,
			expected: false,
		},
		{
			name:     "outer code",
			err:      Wrap(ErrCodeData, New(ErrCodeConfiguration, "inner"), "outer"),
			code:     ErrCodeData,
			expected: true,
		},
		{
			name:     "inner code",
			err:      Wrap(ErrCodeData, New(ErrCodeConfiguration, "inner"), "outer"),
			code:     ErrCodeConfiguration,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeData,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeData,
			expected: false,
		},
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
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeShapeMismatch, "test"),
			expected: ErrCodeShapeMismatch,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeData, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "wrapped plain cause",
			err:      Wrap(ErrCodeData, errors.New("no such file"), "read hs.bil"),
			expected: "read hs.bil: no such file",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}
