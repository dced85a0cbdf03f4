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
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  NewAppError(ErrTypeEmptyDataset, "dataset empty", nil),
			want: "[EMPTY_DATASET] dataset empty",
		},
		{
			name: "with cause",
			err:  NewAppError(ErrTypeParsing, "bad cell", errors.New("strconv failed")),
			want: "[PARSING] bad cell: strconv failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewAppError(ErrTypeSchemaMismatch, "column missing", cause)

	assert.True(t, errors.Is(err, cause))
}

func TestAppError_WithContext(t *testing.T) {
	err := NewAppError(ErrTypeNotFound, "missing", nil).
		WithContext("path", "data/x.xlsx").
		WithContext("attempt", 1)

	require.NotNil(t, err.Context)
	assert.Equal(t, "data/x.xlsx", err.Context["path"])
	assert.Equal(t, 1, err.Context["attempt"])
}

func TestTypedConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantType ErrorType
	}{
		{"not found", NewNotFoundError("data/missing.xlsx"), ErrTypeNotFound},
		{"invalid input", NewInvalidInputError("7"), ErrTypeInvalidInput},
		{"empty dataset", NewEmptyDatasetError("taxa_abandonament"), ErrTypeEmptyDataset},
		{"schema mismatch", NewSchemaMismatchError("column Unitat not present", nil), ErrTypeSchemaMismatch},
		{"parsing", NewParsingError("cell B2", errors.New("bad float")), ErrTypeParsing},
		{"config", NewConfigError("bad paths", nil), ErrTypeConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, IsType(tt.err, tt.wantType))
			assert.Equal(t, tt.wantType, GetType(tt.err))
		})
	}
}

func TestIsType_WrappedError(t *testing.T) {
	inner := NewEmptyDatasetError("rendiment_estudiants")
	wrapped := fmt.Errorf("cleaning stage: %w", inner)

	assert.True(t, IsType(wrapped, ErrTypeEmptyDataset))
	assert.False(t, IsType(wrapped, ErrTypeNotFound))
}

func TestIsType_PlainError(t *testing.T) {
	assert.False(t, IsType(errors.New("plain"), ErrTypeNotFound))
	assert.Equal(t, ErrorType(""), GetType(errors.New("plain")))
}
