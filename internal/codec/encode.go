package codec

import (
	"fmt"
	"math"
	"strings"

	"github.com/roach88/jpack/internal/value"
)

// Structural tags. Every encoded value except a plain string starts with one.
const (
	tagBool    = "b|"
	tagNumber  = "n|"
	tagSpecial = "N|"
	tagObject  = "o|"
	tagArray   = "a|"
	tagEscape  = "s|"
)

// reservedTags lists the prefixes a plain string may not start with.
var reservedTags = [...]string{tagBool, tagObject, tagNumber, tagSpecial, tagArray, tagEscape}

const (
	// nullKey references null. It is never interned.
	nullKey = ""

	// nullElement stands in for a null array element, so "a|_" (one null)
	// stays distinct from "a|" (empty array).
	nullElement = "_"

	separator = "|"
)

const (
	specialPosInf = tagSpecial + "+"
	specialNegInf = tagSpecial + "-"
	specialNaN    = tagSpecial + "0"
)

// EncodeBool returns "b|T" or "b|F".
func EncodeBool(b bool) string {
	if b {
		return tagBool + "T"
	}
	return tagBool + "F"
}

// DecodeBool recognizes "b|T" and "b|F". Any other non-empty string is
// true and the empty string is false; other implementations rely on this.
func DecodeBool(s string) bool {
	switch s {
	case tagBool + "T":
		return true
	case tagBool + "F":
		return false
	}
	return s != ""
}

// EncodeNum returns "n|" followed by the number's decimal text.
// Integral numbers print exactly; floats print the shortest text that
// parses back to the same float64. Callers handle NaN and infinities.
func EncodeNum(n value.Number) string {
	return tagNumber + n.String()
}

// DecodeNum strips the "n|" tag and parses the rest. Text without '.',
// 'e' or 'E' decodes as an integer when it fits.
func DecodeNum(s string) (value.Number, error) {
	text := strings.TrimPrefix(s, tagNumber)
	n, err := value.ParseNumber(text)
	if err != nil {
		return value.Number{}, &Error{
			Code:    ErrCodeInvalidNumber,
			Message: fmt.Sprintf("invalid number %q", text),
			Encoded: s,
			Err:     err,
		}
	}
	return n, nil
}

// EncodeSpecial returns the N| encoding of a non-finite float, and false
// for finite values.
func EncodeSpecial(f float64) (string, bool) {
	switch {
	case math.IsNaN(f):
		return specialNaN, true
	case math.IsInf(f, 1):
		return specialPosInf, true
	case math.IsInf(f, -1):
		return specialNegInf, true
	}
	return "", false
}

// IsSpecial reports whether s carries the N| tag.
func IsSpecial(s string) bool {
	return strings.HasPrefix(s, tagSpecial)
}

// DecodeSpecial maps "N|+", "N|-" and "N|0" to +Inf, -Inf and NaN.
func DecodeSpecial(s string) (float64, error) {
	switch s {
	case specialPosInf:
		return math.Inf(1), nil
	case specialNegInf:
		return math.Inf(-1), nil
	case specialNaN:
		return math.NaN(), nil
	}
	return 0, &Error{
		Code:    ErrCodeInvalidSpecialValue,
		Message: fmt.Sprintf("invalid special value %q", s),
		Encoded: s,
	}
}

// EncodeStr returns s unchanged unless it starts with a structural tag,
// in which case it gets the "s|" escape prefix.
func EncodeStr(s string) string {
	if hasReservedTag(s) {
		return tagEscape + s
	}
	return s
}

// DecodeStr removes one "s|" escape prefix, if present. Escaping is
// single-level: the remainder is returned verbatim.
func DecodeStr(s string) string {
	return strings.TrimPrefix(s, tagEscape)
}

func hasReservedTag(s string) bool {
	for _, tag := range reservedTags {
		if strings.HasPrefix(s, tag) {
			return true
		}
	}
	return false
}
