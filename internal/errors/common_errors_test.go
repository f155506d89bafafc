package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name:        "error without cause",
			appError:    NewInvariantError("duplicate key 2020/03/18"),
			wantMessage: "[INVARIANT] duplicate key 2020/03/18",
		},
		{
			name:        "error with cause",
			appError:    NewStorageError("save run", errors.New("disk full")),
			wantMessage: "[STORAGE] save run: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestNewSchemaError(t *testing.T) {
	err := NewSchemaError("cases.csv", 2, "area_type", "kind")

	assert.Equal(t, ErrTypeSchema, err.Type)
	assert.Contains(t, err.Error(), "cases.csv")
	assert.Contains(t, err.Error(), `"area_type"`)
	assert.Contains(t, err.Error(), `"kind"`)
	assert.Equal(t, 2, err.Context["position"])
}

func TestNewLookupError(t *testing.T) {
	err := NewLookupError("Atlantis")

	assert.Equal(t, ErrTypeLookup, err.Type)
	assert.Equal(t, "Atlantis", err.Context["entity"])
}

func TestIsType(t *testing.T) {
	lookup := NewLookupError("Atlantis")
	wrapped := fmt.Errorf("convert row 7: %w", lookup)
	nested := NewParsingError("read input", lookup)

	tests := []struct {
		name string
		err  error
		typ  ErrorType
		want bool
	}{
		{"direct match", lookup, ErrTypeLookup, true},
		{"fmt wrapped", wrapped, ErrTypeLookup, true},
		{"nested cause", nested, ErrTypeLookup, true},
		{"outer type", nested, ErrTypeParsing, true},
		{"mismatch", lookup, ErrTypeSchema, false},
		{"plain error", errors.New("boom"), ErrTypeLookup, false},
		{"nil error", nil, ErrTypeLookup, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsType(tt.err, tt.typ))
		})
	}
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, ErrTypeConfig, TypeOf(NewConfigError("bad", nil)))
	assert.Equal(t, ErrorType(""), TypeOf(errors.New("plain")))
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewParsingError("bad row", cause)

	require.ErrorIs(t, err, cause)

	var appErr *AppError
	require.True(t, errors.As(fmt.Errorf("outer: %w", err), &appErr))
	assert.Equal(t, ErrTypeParsing, appErr.Type)
}
