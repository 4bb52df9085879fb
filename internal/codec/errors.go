package codec

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes codec errors.
type ErrorCode string

const (
	// ErrCodeInvalidKey indicates a reference key with a character outside
	// the radix-62 alphabet, an overflowing key, or a forward reference.
	ErrCodeInvalidKey ErrorCode = "INVALID_KEY"

	// ErrCodeIndexOutOfRange indicates a key that indexes past the value list.
	ErrCodeIndexOutOfRange ErrorCode = "INDEX_OUT_OF_RANGE"

	// ErrCodeInvalidNumber indicates a malformed n| entry.
	ErrCodeInvalidNumber ErrorCode = "INVALID_NUMBER"

	// ErrCodeInvalidSpecialValue indicates a malformed N| entry.
	ErrCodeInvalidSpecialValue ErrorCode = "INVALID_SPECIAL_VALUE"

	// ErrCodeUnsupportedValue indicates a value compression refuses to
	// encode: NaN or Infinity under the error options, or a cyclic object.
	ErrCodeUnsupportedValue ErrorCode = "UNSUPPORTED_VALUE"

	// ErrCodeInvalidObjectSchema indicates an object whose schema reference
	// is not a string or array of strings, or whose value count differs
	// from its schema length.
	ErrCodeInvalidObjectSchema ErrorCode = "INVALID_OBJECT_SCHEMA"

	// ErrCodeInvalidEncoding indicates a serialized document that is not
	// a [valueList, rootKey] pair.
	ErrCodeInvalidEncoding ErrorCode = "INVALID_ENCODING"

	// ErrCodeDecodeLimit indicates a value list whose decoded tree is
	// larger than the decoder's node budget.
	ErrCodeDecodeLimit ErrorCode = "DECODE_LIMIT_EXCEEDED"
)

// Error is the single error type returned by the codec.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Key is the reference key being resolved, if any.
	Key string

	// Encoded is the encoded value string involved, if any.
	Encoded string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Key != "" {
		msg += fmt.Sprintf(" (key=%q)", e.Key)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HasCode reports whether err is a codec Error with the given code.
// Uses errors.As to handle wrapped errors.
func HasCode(err error, code ErrorCode) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}

// IsInvalidKey returns true for malformed keys and for keys that index
// past the value list.
func IsInvalidKey(err error) bool {
	return HasCode(err, ErrCodeInvalidKey) || HasCode(err, ErrCodeIndexOutOfRange)
}

// IsUnsupportedValue returns true if compression rejected a value.
func IsUnsupportedValue(err error) bool {
	return HasCode(err, ErrCodeUnsupportedValue)
}

// IsInvalidNumber returns true for malformed number or special entries.
func IsInvalidNumber(err error) bool {
	return HasCode(err, ErrCodeInvalidNumber) || HasCode(err, ErrCodeInvalidSpecialValue)
}

// IsInvalidObjectSchema returns true if an object's schema could not be used.
func IsInvalidObjectSchema(err error) bool {
	return HasCode(err, ErrCodeInvalidObjectSchema)
}

// IsInvalidEncoding returns true if a serialized document had the wrong shape.
func IsInvalidEncoding(err error) bool {
	return HasCode(err, ErrCodeInvalidEncoding)
}

// IsDecodeLimit returns true if decoding stopped at the node budget.
func IsDecodeLimit(err error) bool {
	return HasCode(err, ErrCodeDecodeLimit)
}

func newUnsupportedValue(name string) *Error {
	return &Error{
		Code:    ErrCodeUnsupportedValue,
		Message: fmt.Sprintf("unsupported data type: %s", name),
	}
}
