// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, and utility functions

package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/canonhq/canon/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "not_found_error",
			code:    errors.ErrNotFound,
			message: "file not found",
			wantStr: "[NOT_FOUND] file not found",
		},
		{
			name:    "invalid_input_error",
			code:    errors.ErrInvalidInput,
			message: "invalid bundle directory",
			wantStr: "[INVALID_INPUT] invalid bundle directory",
		},
		{
			name:    "snapshot_error",
			code:    errors.ErrSnapshotFailed,
			message: "cannot capture pre-image",
			wantStr: "[SNAPSHOT_FAILED] cannot capture pre-image",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.NotNil(t, err.Details, "details should be initialized")
			assert.Equal(t, tt.wantStr, err.Error())
		})
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name    string
		inner   error
		code    errors.ErrorCode
		message string
		wantNil bool
		wantStr string
	}{
		{
			name:    "wraps_underlying_error",
			inner:   stderrors.New("disk full"),
			code:    errors.ErrFileWrite,
			message: "cannot write ledger",
			wantStr: "[FILE_WRITE] cannot write ledger: disk full",
		},
		{
			name:    "nil_error_returns_nil",
			inner:   nil,
			code:    errors.ErrFileWrite,
			message: "ignored",
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.Wrap(tt.inner, tt.code, tt.message)

			if tt.wantNil {
				assert.Nil(t, err)
				return
			}

			assert.Equal(t, tt.wantStr, err.Error())
			assert.Equal(t, tt.inner, stderrors.Unwrap(err))
		})
	}
}

func TestErrorsIsMatchesByCode(t *testing.T) {
	err := errors.Wrapf(stderrors.New("underlying"), errors.ErrLedgerParse, "bad ledger line %d", 3)

	assert.True(t, stderrors.Is(err, errors.New(errors.ErrLedgerParse, "any message")))
	assert.False(t, stderrors.Is(err, errors.New(errors.ErrNotFound, "any message")))
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrBundleInvalid, "missing payload").
		WithDetail("path", "payload/standards/style.md").
		WithDetail("version", "1.2.0")

	details := errors.GetErrorDetails(err)
	assert.Equal(t, "payload/standards/style.md", details["path"])
	assert.Equal(t, "1.2.0", details["version"])
}

func TestIsErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code errors.ErrorCode
		want bool
	}{
		{
			name: "matching_code",
			err:  errors.New(errors.ErrNoSnapshot, "nothing to restore"),
			code: errors.ErrNoSnapshot,
			want: true,
		},
		{
			name: "different_code",
			err:  errors.New(errors.ErrNoSnapshot, "nothing to restore"),
			code: errors.ErrSnapshotFailed,
			want: false,
		},
		{
			name: "plain_error",
			err:  stderrors.New("plain"),
			code: errors.ErrNoSnapshot,
			want: false,
		},
		{
			name: "wrapped_canon_error",
			err:  stderrors.Join(stderrors.New("outer"), errors.New(errors.ErrNoSnapshot, "inner")),
			code: errors.ErrNoSnapshot,
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.IsErrorCode(tt.err, tt.code))
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, errors.ErrTreeNotFound, errors.GetErrorCode(errors.New(errors.ErrTreeNotFound, "no .canon here")))
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(stderrors.New("plain")))
}
