package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorError(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  NewSchemaError("required column missing", nil),
			want: "[SCHEMA] required column missing",
		},
		{
			name: "with cause",
			err:  NewStorageError("cannot write summary file", errors.New("disk full")),
			want: "[STORAGE] cannot write summary file: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := NewParsingError("bad row", cause)

	assert.True(t, errors.Is(err, cause))

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, ErrTypeParsing, appErr.Type)
}

func TestAppErrorUnwrapThroughWrapping(t *testing.T) {
	inner := NewConfigError("invalid age range", nil)
	wrapped := fmt.Errorf("loading config: %w", inner)

	assert.True(t, IsType(wrapped, ErrTypeConfig))
	assert.Equal(t, ErrTypeConfig, GetType(wrapped))
}

func TestNewSchemaErrorContext(t *testing.T) {
	err := NewSchemaError("input file missing required columns", []string{"DATE OCC", "TIME OCC"})

	require.NotNil(t, err.Context)
	assert.Equal(t, []string{"DATE OCC", "TIME OCC"}, err.Context["missing_columns"])
}

func TestIsTypeMismatch(t *testing.T) {
	assert.False(t, IsType(errors.New("plain"), ErrTypeSchema))
	assert.False(t, IsType(NewStorageError("x", nil), ErrTypeSchema))
	assert.Equal(t, ErrorType(""), GetType(errors.New("plain")))
}

func TestWithContext(t *testing.T) {
	err := NewValidationError("age out of range").
		WithContext("field", "Vict Age").
		WithContext("value", 150)

	assert.Equal(t, "Vict Age", err.Context["field"])
	assert.Equal(t, 150, err.Context["value"])
}
