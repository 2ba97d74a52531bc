// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, and code lookup

package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/arthur-debert/gffrules/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "regex_compile_error",
			code:    errors.ErrRegexCompile,
			message: "bad pattern",
			wantStr: "[REGEX_COMPILE] bad pattern",
		},
		{
			name:    "table_not_ready",
			code:    errors.ErrTableNotReady,
			message: "table is not built",
			wantStr: "[TABLE_NOT_READY] table is not built",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.NotNil(t, err.Details)
			assert.Equal(t, tt.wantStr, err.Error())
		})
	}
}

func TestNewf(t *testing.T) {
	err := errors.Newf(errors.ErrRuleSource, "line %d: missing kind for %q", 12, "gene")
	assert.Equal(t, `line 12: missing kind for "gene"`, err.Message)
}

func TestWrap(t *testing.T) {
	baseErr := stderrors.New("missing closing )")

	t.Run("wrap_non_nil_error", func(t *testing.T) {
		err := errors.Wrap(baseErr, errors.ErrRegexCompile, "cannot compile a@b")

		assert.Equal(t, errors.ErrRegexCompile, err.Code)
		assert.Same(t, baseErr, err.Wrapped)
		assert.Equal(t, "[REGEX_COMPILE] cannot compile a@b: missing closing )", err.Error())
	})

	t.Run("wrap_nil_error_returns_nil", func(t *testing.T) {
		assert.Nil(t, errors.Wrap(nil, errors.ErrInternal, "internal error"))
		assert.Nil(t, errors.Wrapf(nil, errors.ErrInternal, "internal %s", "error"))
	})
}

func TestWithDetails(t *testing.T) {
	err := errors.New(errors.ErrRegexCompile, "cannot compile").
		WithDetail("pattern", "a@b").
		WithDetails(map[string]interface{}{"line": 3, "kind": "valid"})

	assert.Equal(t, "a@b", err.Details["pattern"])
	assert.Equal(t, 3, err.Details["line"])
	assert.Equal(t, "valid", err.Details["kind"])
	assert.Equal(t, err.Details, errors.GetErrorDetails(err))
	assert.Nil(t, errors.GetErrorDetails(stderrors.New("plain")))
}

func TestIs(t *testing.T) {
	err1 := errors.New(errors.ErrNotFound, "error 1")
	err2 := errors.New(errors.ErrNotFound, "error 2")
	err3 := errors.New(errors.ErrInternal, "error 3")

	assert.True(t, err1.Is(err2))
	assert.False(t, err1.Is(err3))
	assert.True(t, stderrors.Is(err1, err2))
}

func TestIsErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     errors.ErrorCode
		expected bool
	}{
		{"matching_code", errors.New(errors.ErrNotFound, "not found"), errors.ErrNotFound, true},
		{"different_code", errors.New(errors.ErrNotFound, "not found"), errors.ErrInternal, false},
		{"wrapped_error", errors.Wrap(stderrors.New("base"), errors.ErrIO, "denied"), errors.ErrIO, true},
		{"standard_error", stderrors.New("standard error"), errors.ErrNotFound, false},
		{"nil_error", nil, errors.ErrNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, errors.IsErrorCode(tt.err, tt.code))
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, errors.ErrTableFrozen, errors.GetErrorCode(errors.New(errors.ErrTableFrozen, "frozen")))
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(stderrors.New("standard error")))
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(nil))
}

func TestErrorChaining(t *testing.T) {
	rootCause := stderrors.New("root cause")
	ioErr := errors.Wrap(rootCause, errors.ErrIO, "cannot read rules.txt")
	srcErr := errors.Wrap(ioErr, errors.ErrRuleSource, "failed to load rule source")

	assert.True(t, errors.IsErrorCode(srcErr, errors.ErrRuleSource))

	var middle *errors.RulesError
	require.True(t, stderrors.As(srcErr.Unwrap(), &middle))
	assert.Equal(t, errors.ErrIO, middle.Code)

	assert.True(t, stderrors.Is(srcErr, rootCause))
}
