package codec

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	err := &Error{Code: ErrCodeIndexOutOfRange, Message: "index 5 past end of 2 values", Key: "5"}
	assert.Equal(t, `INDEX_OUT_OF_RANGE: index 5 past end of 2 values (key="5")`, err.Error())

	cause := errors.New("boom")
	err = &Error{Code: ErrCodeInvalidNumber, Message: "invalid number", Err: cause}
	assert.Equal(t, "INVALID_NUMBER: invalid number: boom", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestErrorHelpersSeeWrappedErrors(t *testing.T) {
	base := &Error{Code: ErrCodeInvalidObjectSchema, Message: "bad schema"}
	wrapped := fmt.Errorf("array[3]: %w", fmt.Errorf("object[%q]: %w", "x", base))

	assert.True(t, IsInvalidObjectSchema(wrapped))
	assert.True(t, HasCode(wrapped, ErrCodeInvalidObjectSchema))
	assert.False(t, IsInvalidKey(wrapped))
	assert.False(t, IsUnsupportedValue(wrapped))
	assert.False(t, IsInvalidNumber(wrapped))
}

func TestErrorHelpersOnForeignErrors(t *testing.T) {
	err := errors.New("not a codec error")

	assert.False(t, HasCode(err, ErrCodeInvalidKey))
	assert.False(t, IsInvalidKey(err))
	assert.False(t, HasCode(nil, ErrCodeInvalidKey))
}

func TestNewUnsupportedValue(t *testing.T) {
	err := newUnsupportedValue("[number NaN]")
	assert.Equal(t, ErrCodeUnsupportedValue, err.Code)
	assert.Equal(t, "UNSUPPORTED_VALUE: unsupported data type: [number NaN]", err.Error())
}
