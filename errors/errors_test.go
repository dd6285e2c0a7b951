package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWrapsStringAndNil(t *testing.T) {
	err := New("boom")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Nil(t, New(nil))
}

func TestErrorfFormats(t *testing.T) {
	err := Errorf("resolving %s failed", "g:a:1.0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolving g:a:1.0 failed")
}

func TestWithStackTraceNilIsNil(t *testing.T) {
	assert.Nil(t, WithStackTrace(nil))
}

func TestWithStackTraceWrapsExisting(t *testing.T) {
	base := stderrors.New("underlying")
	wrapped := WithStackTrace(base)
	require.Error(t, wrapped)
	assert.True(t, Is(wrapped, base))
}

func TestIsAndAs(t *testing.T) {
	sentinel := stderrors.New("sentinel")
	wrapped := Errorf("context: %w", sentinel)
	assert.True(t, Is(wrapped, sentinel))

	var target *customErr
	custom := &customErr{msg: "custom"}
	wrappedCustom := Errorf("context: %w", custom)
	require.True(t, As(wrappedCustom, &target))
	assert.Equal(t, "custom", target.msg)
}

type customErr struct{ msg string }

func (e *customErr) Error() string { return e.msg }

func TestIsErrorFallsBackToMessageComparison(t *testing.T) {
	a := stderrors.New("same message")
	b := stderrors.New("same message")
	assert.True(t, IsError(a, b))
	assert.False(t, IsError(a, stderrors.New("different")))
	assert.True(t, IsError(nil, nil))
	assert.False(t, IsError(a, nil))
}

func TestMultiErrorAccumulatesAndIgnoresNil(t *testing.T) {
	errs := &MultiError{}
	assert.NoError(t, errs.ErrorOrNil())
	assert.Equal(t, 0, errs.Len())

	errs.Append(nil)
	assert.Equal(t, 0, errs.Len())

	errs.Append(stderrors.New("first"))
	errs.Append(stderrors.New("second"))

	assert.Equal(t, 2, errs.Len())
	assert.Len(t, errs.Errors(), 2)
	assert.Error(t, errs.ErrorOrNil())
}

func TestMultiErrorNilReceiverIsSafe(t *testing.T) {
	var errs *MultiError
	assert.Equal(t, 0, errs.Len())
	assert.Nil(t, errs.Errors())
	assert.NoError(t, errs.ErrorOrNil())
}
