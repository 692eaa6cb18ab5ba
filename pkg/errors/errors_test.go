package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *AppError
		wantMsg string
	}{
		{
			name: "error with underlying error",
			err: &AppError{
				Type:    ErrorTypeConfig,
				Message: "invalid config",
				Err:     errors.New("file not found"),
				Op:      "loadConfig",
			},
			wantMsg: "loadConfig: invalid config: file not found",
		},
		{
			name: "error without underlying error",
			err: &AppError{
				Type:    ErrorTypeValidation,
				Message: "invalid input",
				Op:      "validate",
			},
			wantMsg: "validate: invalid input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	err := &AppError{
		Type:    ErrorTypeDB,
		Message: "db error",
		Err:     underlying,
		Op:      "connect",
	}

	got := err.Unwrap()
	if got != underlying {
		t.Errorf("Unwrap() = %v, want %v", got, underlying)
	}
}

func TestAppError_UnwrapNil(t *testing.T) {
	err := &AppError{
		Type:    ErrorTypeDB,
		Message: "db error",
		Op:      "connect",
	}

	got := err.Unwrap()
	if got != nil {
		t.Errorf("Unwrap() = %v, want nil", got)
	}
}

func TestNewConfigError(t *testing.T) {
	underlying := errors.New("file error")
	err := NewConfigError("loadConfig", "failed to load", underlying)

	if err.Type != ErrorTypeConfig {
		t.Errorf("Type = %v, want %v", err.Type, ErrorTypeConfig)
	}
	if err.Message != "failed to load" {
		t.Errorf("Message = %q, want %q", err.Message, "failed to load")
	}
	if err.Op != "loadConfig" {
		t.Errorf("Op = %q, want %q", err.Op, "loadConfig")
	}
	if err.Err != underlying {
		t.Errorf("Err = %v, want %v", err.Err, underlying)
	}
}

func TestConstructors(t *testing.T) {
	underlying := errors.New("boom")

	tests := []struct {
		name string
		err  *AppError
		want ErrorType
	}{
		{"database", NewDBError("connect", "connection failed", underlying), ErrorTypeDB},
		{"validation", NewValidationError("validate", "invalid input", nil), ErrorTypeValidation},
		{"io", NewIOError("readFile", "read failed", underlying), ErrorTypeIO},
		{"input", NewInputError("parse", "empty content", underlying), ErrorTypeInput},
		{"construction", NewConstructionError("fromRow", "name is required", nil), ErrorTypeConstruction},
		{"relationship", NewRelationshipError("validate", "manager not found", nil), ErrorTypeRelationship},
		{"hierarchy", NewHierarchyError("validate", "circular dependency", nil), ErrorTypeHierarchy},
		{"storage", NewStorageError("download", "key not found", underlying), ErrorTypeStorage},
		{"system", NewSystemError("save", "unexpected", underlying), ErrorTypeSystem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Type != tt.want {
				t.Errorf("Type = %v, want %v", tt.err.Type, tt.want)
			}
			if !IsType(fmt.Errorf("wrapped: %w", tt.err), tt.want) {
				t.Errorf("IsType() = false for wrapped %s error", tt.want)
			}
		})
	}
}

func TestTypeOf(t *testing.T) {
	if got := TypeOf(NewInputError("parse", "missing headers", nil)); got != ErrorTypeInput {
		t.Errorf("TypeOf() = %v, want %v", got, ErrorTypeInput)
	}
	if got := TypeOf(errors.New("plain")); got != ErrorTypeSystem {
		t.Errorf("TypeOf() = %v, want %v", got, ErrorTypeSystem)
	}
}

func TestIsType(t *testing.T) {
	configErr := NewConfigError("test", "config error", nil)
	dbErr := NewDBError("test", "db error", nil)
	standardErr := errors.New("standard error")

	tests := []struct {
		name      string
		err       error
		errorType ErrorType
		want      bool
	}{
		{
			name:      "config error is config type",
			err:       configErr,
			errorType: ErrorTypeConfig,
			want:      true,
		},
		{
			name:      "db error is not config type",
			err:       dbErr,
			errorType: ErrorTypeConfig,
			want:      false,
		},
		{
			name:      "db error is db type",
			err:       dbErr,
			errorType: ErrorTypeDB,
			want:      true,
		},
		{
			name:      "standard error is not config type",
			err:       standardErr,
			errorType: ErrorTypeConfig,
			want:      false,
		},
		{
			name:      "nil error",
			err:       nil,
			errorType: ErrorTypeConfig,
			want:      false,
		},
		{
			name:      "wrapped config error",
			err:       fmt.Errorf("wrapped: %w", configErr),
			errorType: ErrorTypeConfig,
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsType(tt.err, tt.errorType)
			if got != tt.want {
				t.Errorf("IsType() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetOp(t *testing.T) {
	err := NewConfigError("loadConfig", "failed", nil)

	got := GetOp(err)
	if got != "loadConfig" {
		t.Errorf("GetOp() = %q, want %q", got, "loadConfig")
	}
}

func TestGetOp_NilError(t *testing.T) {
	got := GetOp(nil)
	if got != "" {
		t.Errorf("GetOp() = %q, want empty string", got)
	}
}

func TestGetOp_StandardError(t *testing.T) {
	got := GetOp(errors.New("standard error"))
	if got != "" {
		t.Errorf("GetOp() = %q, want empty string", got)
	}
}

func TestGetOp_WrappedError(t *testing.T) {
	err := NewConfigError("loadConfig", "failed", nil)
	wrapped := fmt.Errorf("wrapped: %w", err)

	got := GetOp(wrapped)
	if got != "loadConfig" {
		t.Errorf("GetOp() = %q, want %q", got, "loadConfig")
	}
}
