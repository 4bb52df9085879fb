package codec

import (
	"slices"
	"strconv"
	"strings"

	"github.com/roach88/jpack/internal/value"
)

// Store is the deduplicating container filled during compression.
//
// The value list is append-only: the entry at index i is addressed by
// IndexToKey(i) and never changes once written. Adding the same encoded
// string twice returns the same key.
//
// A Store is not safe for concurrent use.
type Store struct {
	opts Options

	// values is the source of truth; insertion order is key order.
	values []string

	// valueCache maps an encoded value string to its key.
	valueCache map[string]string

	// schemaCache maps a canonical property-name list to its schema key.
	schemaCache map[string]string

	// visiting holds the objects on the current descent path.
	visiting map[*value.Object]struct{}
}

// NewStore creates an empty store that encodes with opts.
func NewStore(opts Options) *Store {
	return &Store{
		opts:        opts,
		valueCache:  make(map[string]string),
		schemaCache: make(map[string]string),
		visiting:    make(map[*value.Object]struct{}),
	}
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	return len(s.values)
}

// Values returns a copy of the value list in key order.
func (s *Store) Values() []string {
	return slices.Clone(s.values)
}

// InternValue returns the key of encoded, appending it first if it has
// not been stored yet. All values funnel through here.
func (s *Store) InternValue(encoded string) string {
	if key, ok := s.valueCache[encoded]; ok {
		return key
	}
	key := IndexToKey(len(s.values))
	s.values = append(s.values, encoded)
	s.valueCache[encoded] = key
	return key
}

// InternSchema returns the key of the schema for the given property
// names. The names are canonicalized first (sorted when SortKeys is set).
// A new schema is stored as an ordinary array of strings.
func (s *Store) InternSchema(names []string) (string, error) {
	names = s.canonicalNames(names)
	cacheKey := schemaCacheKey(names)
	if key, ok := s.schemaCache[cacheKey]; ok {
		return key, nil
	}

	arr := make(value.Array, len(names))
	for i, name := range names {
		arr[i] = value.String(name)
	}
	key, err := s.Add(arr)
	if err != nil {
		return "", err
	}
	s.schemaCache[cacheKey] = key
	return key, nil
}

// canonicalNames returns the property names in schema order.
func (s *Store) canonicalNames(names []string) []string {
	if !s.opts.SortKeys {
		return names
	}
	sorted := slices.Clone(names)
	slices.SortFunc(sorted, value.CompareKeys)
	return sorted
}

// schemaCacheKey joins names with length prefixes, so a name containing
// the separator cannot alias a longer list.
func schemaCacheKey(names []string) string {
	var b strings.Builder
	for _, name := range names {
		b.WriteString(strconv.Itoa(len(name)))
		b.WriteByte(':')
		b.WriteString(name)
	}
	return b.String()
}

// Add stores v and everything it contains, returning v's key.
// Null yields the empty key and consumes no entry.
func (s *Store) Add(v value.Value) (string, error) {
	switch val := v.(type) {
	case nil, value.Null:
		return nullKey, nil
	case value.Bool:
		return s.InternValue(EncodeBool(bool(val))), nil
	case value.Number:
		return s.addNumber(val)
	case value.String:
		return s.InternValue(EncodeStr(string(val))), nil
	case value.Array:
		return s.addArray(val)
	case *value.Object:
		if val == nil {
			return nullKey, nil
		}
		return s.addObject(val)
	}
	return "", newUnsupportedValue("unknown value type")
}

func (s *Store) addNumber(n value.Number) (string, error) {
	if n.IsIntegral() {
		return s.InternValue(EncodeNum(n)), nil
	}

	f := n.Float64()
	special, isSpecial := EncodeSpecial(f)
	if !isSpecial {
		return s.InternValue(EncodeNum(n)), nil
	}

	preserve, fail, name := s.opts.PreserveInfinite, s.opts.ErrorOnInfinite, "[number Infinity]"
	if n.IsNaN() {
		preserve, fail, name = s.opts.PreserveNaN, s.opts.ErrorOnNaN, "[number NaN]"
	} else if n.IsInf(-1) {
		name = "[number -Infinity]"
	}

	switch {
	case preserve:
		return s.InternValue(special), nil
	case fail:
		return "", newUnsupportedValue(name)
	}
	return nullKey, nil
}

func (s *Store) addArray(arr value.Array) (string, error) {
	if len(arr) == 0 {
		return s.InternValue(tagArray), nil
	}

	var b strings.Builder
	b.WriteString("a")
	for _, elem := range arr {
		key, err := s.Add(elem)
		if err != nil {
			return "", err
		}
		// Collapsed specials come back as the null key too.
		if key == nullKey {
			key = nullElement
		}
		b.WriteString(separator)
		b.WriteString(key)
	}
	return s.InternValue(b.String()), nil
}

func (s *Store) addObject(obj *value.Object) (string, error) {
	if obj.Len() == 0 {
		return s.InternValue(tagObject), nil
	}
	if _, cyclic := s.visiting[obj]; cyclic {
		return "", newUnsupportedValue("[cyclic object]")
	}
	s.visiting[obj] = struct{}{}
	defer delete(s.visiting, obj)

	names := s.canonicalNames(obj.Keys())
	schemaKey, err := s.InternSchema(names)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(tagObject)
	b.WriteString(schemaKey)
	for _, name := range names {
		field, _ := obj.Get(name)
		key, err := s.Add(field)
		if err != nil {
			return "", err
		}
		b.WriteString(separator)
		b.WriteString(key)
	}
	return s.InternValue(b.String()), nil
}
