package codec

import (
	"fmt"
	"math"
)

// keyAlphabet is the radix-62 digit set: 0-9, then A-Z, then a-z.
const keyAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

const keyBase = len(keyAlphabet)

// keyDigits maps an ASCII byte to its digit value, or -1.
var keyDigits = func() [256]int8 {
	var d [256]int8
	for i := range d {
		d[i] = -1
	}
	for i := 0; i < keyBase; i++ {
		d[keyAlphabet[i]] = int8(i)
	}
	return d
}()

// IndexToKey encodes a value-list index as a reference key, most
// significant digit first, without leading zeros. Panics on a negative
// index, which no Store ever produces.
func IndexToKey(index int) string {
	if index < 0 {
		panic(fmt.Sprintf("codec: negative key index %d", index))
	}
	if index == 0 {
		return keyAlphabet[:1]
	}

	var buf [12]byte // 62^11 > 2^63
	pos := len(buf)
	for index > 0 {
		pos--
		buf[pos] = keyAlphabet[index%keyBase]
		index /= keyBase
	}
	return string(buf[pos:])
}

// KeyToIndex decodes a reference key into a value-list index.
func KeyToIndex(key string) (int, error) {
	if key == "" {
		return 0, &Error{Code: ErrCodeInvalidKey, Message: "empty key"}
	}

	acc := 0
	for i := 0; i < len(key); i++ {
		d := keyDigits[key[i]]
		if d < 0 {
			return 0, &Error{
				Code:    ErrCodeInvalidKey,
				Message: fmt.Sprintf("invalid character %q at offset %d", key[i], i),
				Key:     key,
			}
		}
		if acc > (math.MaxInt-int(d))/keyBase {
			return 0, &Error{Code: ErrCodeInvalidKey, Message: "key overflows index range", Key: key}
		}
		acc = acc*keyBase + int(d)
	}
	return acc, nil
}
