// Package wire serializes compressed documents.
//
// The wire shape is a two-element JSON array: the value list followed by
// the root key.
//
//	[["a","b","a|0|1","n|1","b|T","b|F","a|4|5|_","o|2|3|6"],"7"]
//
// A document may also be embedded under an application key
// ({"data": [...]}) or wrapped in a zstd frame for storage.
package wire

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/roach88/jpack/internal/codec"
)

// Marshal renders c in the wire shape. A nil value list is written as [].
func Marshal(c codec.Compressed) ([]byte, error) {
	values := c.Values
	if values == nil {
		values = []string{}
	}
	return encode([]any{values, c.Root})
}

// Unmarshal parses the wire shape. Anything other than an array of
// exactly a string array and a string fails with INVALID_ENCODING.
func Unmarshal(data []byte) (codec.Compressed, error) {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return codec.Compressed{}, invalidEncoding("document is not a JSON array", err)
	}
	if len(pair) != 2 {
		return codec.Compressed{}, invalidEncoding(fmt.Sprintf("expected [values, root], got %d elements", len(pair)), nil)
	}

	var entries []*string
	if err := json.Unmarshal(pair[0], &entries); err != nil || isNull(pair[0]) {
		return codec.Compressed{}, invalidEncoding("value list is not an array of strings", err)
	}
	values := make([]string, len(entries))
	for i, entry := range entries {
		if entry == nil {
			return codec.Compressed{}, invalidEncoding(fmt.Sprintf("value list entry %d is null", i), nil)
		}
		values[i] = *entry
	}

	var root string
	if err := json.Unmarshal(pair[1], &root); err != nil || isNull(pair[1]) {
		return codec.Compressed{}, invalidEncoding("root key is not a string", err)
	}

	return codec.Compressed{Values: values, Root: root}, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// Embed wraps c under key: {"<key>": [values, root]}.
func Embed(key string, c codec.Compressed) ([]byte, error) {
	doc, err := Marshal(c)
	if err != nil {
		return nil, err
	}
	return encode(map[string]json.RawMessage{key: doc})
}

// Extract reads a document embedded under key. Other keys are ignored.
func Extract(key string, data []byte) (codec.Compressed, error) {
	var outer map[string]json.RawMessage
	if err := json.Unmarshal(data, &outer); err != nil {
		return codec.Compressed{}, invalidEncoding("embedding document is not a JSON object", err)
	}
	raw, ok := outer[key]
	if !ok {
		return codec.Compressed{}, invalidEncoding(fmt.Sprintf("no document under key %q", key), nil)
	}
	return Unmarshal(raw)
}

// encode marshals without HTML escaping and without a trailing newline.
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode wire document: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func invalidEncoding(msg string, err error) *codec.Error {
	return &codec.Error{Code: codec.ErrCodeInvalidEncoding, Message: msg, Err: err}
}
