package codec

import (
	"fmt"
	"strings"

	"github.com/roach88/jpack/internal/value"
)

// DefaultMaxNodes bounds the number of nodes Decode materializes.
// Shared entries are expanded at every use, so a short hostile list can
// describe an exponentially large tree.
const DefaultMaxNodes = 1 << 24

// Decode rebuilds the value referenced by key from a value list. The empty
// key and "_" decode to null. Special numbers (N|) decode to null, since
// value.Value output is meant to be JSON-representable; use DecodeSpecial
// on the raw entry to recover them.
//
// Entries may only reference entries stored before them. A reference to
// the same or a later entry fails with ErrCodeInvalidKey, which rules out
// cycles. Output size is capped at DefaultMaxNodes; see DecodeWithLimit.
func Decode(values []string, key string) (value.Value, error) {
	return DecodeWithLimit(values, key, DefaultMaxNodes)
}

// DecodeWithLimit is Decode with an explicit cap on materialized nodes.
// Exceeding it fails with ErrCodeDecodeLimit. maxNodes <= 0 means
// DefaultMaxNodes.
func DecodeWithLimit(values []string, key string, maxNodes int) (value.Value, error) {
	if maxNodes <= 0 {
		maxNodes = DefaultMaxNodes
	}
	d := &decoder{values: values, budget: maxNodes, maxNodes: maxNodes}
	return d.decodeKey(key, len(values))
}

type decoder struct {
	values   []string
	budget   int
	maxNodes int
}

// decodeKey resolves key, which must index below limit.
func (d *decoder) decodeKey(key string, limit int) (value.Value, error) {
	if key == nullKey || key == nullElement {
		return value.Null{}, nil
	}

	idx, err := KeyToIndex(key)
	if err != nil {
		return nil, err
	}
	if idx >= len(d.values) {
		return nil, &Error{
			Code:    ErrCodeIndexOutOfRange,
			Message: fmt.Sprintf("index %d past end of %d values", idx, len(d.values)),
			Key:     key,
		}
	}
	if idx >= limit {
		return nil, &Error{
			Code:    ErrCodeInvalidKey,
			Message: fmt.Sprintf("forward reference to index %d from index %d", idx, limit),
			Key:     key,
		}
	}

	if d.budget == 0 {
		return nil, &Error{
			Code:    ErrCodeDecodeLimit,
			Message: fmt.Sprintf("decoded tree exceeds %d nodes", d.maxNodes),
			Key:     key,
		}
	}
	d.budget--

	encoded := d.values[idx]
	switch {
	case strings.HasPrefix(encoded, tagBool):
		return value.Bool(DecodeBool(encoded)), nil
	case strings.HasPrefix(encoded, tagObject):
		return d.decodeObject(encoded, idx)
	case strings.HasPrefix(encoded, tagSpecial):
		if _, err := DecodeSpecial(encoded); err != nil {
			return nil, withKey(err, key)
		}
		return value.Null{}, nil
	case strings.HasPrefix(encoded, tagNumber):
		n, err := DecodeNum(encoded)
		if err != nil {
			return nil, withKey(err, key)
		}
		return n, nil
	case strings.HasPrefix(encoded, tagArray):
		return d.decodeArray(encoded, idx)
	default:
		return value.String(DecodeStr(encoded)), nil
	}
}

func (d *decoder) decodeObject(encoded string, idx int) (value.Value, error) {
	if encoded == tagObject {
		return value.NewObject(), nil
	}

	parts := strings.Split(encoded[len(tagObject):], separator)
	names, err := d.decodeSchema(parts[0], idx)
	if err != nil {
		return nil, err
	}

	fields := parts[1:]
	if len(fields) != len(names) {
		return nil, &Error{
			Code:    ErrCodeInvalidObjectSchema,
			Message: fmt.Sprintf("schema has %d names but object has %d values", len(names), len(fields)),
			Key:     IndexToKey(idx),
			Encoded: encoded,
		}
	}

	obj := value.NewObject()
	for i, fieldKey := range fields {
		v, err := d.decodeKey(fieldKey, idx)
		if err != nil {
			return nil, fmt.Errorf("object[%q]: %w", names[i], err)
		}
		obj.Set(names[i], v)
	}
	return obj, nil
}

// decodeSchema resolves a schema reference to a property-name list.
// A single string is a one-name schema.
func (d *decoder) decodeSchema(schemaKey string, idx int) ([]string, error) {
	schema, err := d.decodeKey(schemaKey, idx)
	if err != nil {
		return nil, fmt.Errorf("object schema: %w", err)
	}

	switch s := schema.(type) {
	case value.String:
		return []string{string(s)}, nil
	case value.Array:
		names := make([]string, len(s))
		for i, elem := range s {
			name, ok := elem.(value.String)
			if !ok {
				return nil, invalidSchema(schemaKey, fmt.Sprintf("schema entry %d is %T, not a string", i, elem))
			}
			names[i] = string(name)
		}
		return names, nil
	}
	return nil, invalidSchema(schemaKey, fmt.Sprintf("schema is %T, not a string or array of strings", schema))
}

func (d *decoder) decodeArray(encoded string, idx int) (value.Value, error) {
	if encoded == tagArray {
		return value.Array{}, nil
	}

	parts := strings.Split(encoded[len(tagArray):], separator)
	arr := make(value.Array, len(parts))
	for i, part := range parts {
		v, err := d.decodeKey(part, idx)
		if err != nil {
			return nil, fmt.Errorf("array[%d]: %w", i, err)
		}
		arr[i] = v
	}
	return arr, nil
}

func invalidSchema(key, msg string) *Error {
	return &Error{Code: ErrCodeInvalidObjectSchema, Message: msg, Key: key}
}

func withKey(err error, key string) error {
	if ce, ok := err.(*Error); ok && ce.Key == "" {
		ce.Key = key
	}
	return err
}
