package value

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"unicode/utf16"
)

// Value is a sealed interface representing a tree value.
// Only Null, Bool, Number, String, Array and *Object implement it.
type Value interface {
	value() // Sealed - only these types implement it
}

// Null represents a JSON null.
type Null struct{}

func (Null) value() {}

// Bool represents a boolean.
type Bool bool

func (Bool) value() {}

// String represents a string.
type String string

func (String) value() {}

// Array represents an ordered list of values.
type Array []Value

func (Array) value() {}

// NumberKind identifies the host representation held by a Number.
type NumberKind uint8

const (
	KindInt NumberKind = iota
	KindUint
	KindFloat
)

// Number represents a numeric value. Integers are kept exact; floats may
// hold NaN and the infinities, which the codec handles per its options.
type Number struct {
	kind NumberKind
	i    int64
	u    uint64
	f    float64
}

func (Number) value() {}

// Int creates an integral Number.
func Int(n int64) Number {
	return Number{kind: KindInt, i: n}
}

// Uint creates an unsigned integral Number.
func Uint(n uint64) Number {
	return Number{kind: KindUint, u: n}
}

// Float creates a floating point Number.
func Float(f float64) Number {
	return Number{kind: KindFloat, f: f}
}

// Kind reports which representation the number holds.
func (n Number) Kind() NumberKind {
	return n.kind
}

// IsIntegral reports whether the number holds an int64 or uint64.
func (n Number) IsIntegral() bool {
	return n.kind != KindFloat
}

// Int64 returns the number as int64 and whether the conversion was exact.
func (n Number) Int64() (int64, bool) {
	switch n.kind {
	case KindInt:
		return n.i, true
	case KindUint:
		if n.u > math.MaxInt64 {
			return 0, false
		}
		return int64(n.u), true
	default:
		if n.f != math.Trunc(n.f) || n.f < math.MinInt64 || n.f >= math.MaxInt64 {
			return 0, false
		}
		return int64(n.f), true
	}
}

// Float64 returns the number widened to float64.
func (n Number) Float64() float64 {
	switch n.kind {
	case KindInt:
		return float64(n.i)
	case KindUint:
		return float64(n.u)
	default:
		return n.f
	}
}

// IsNaN reports whether the number is a float NaN.
func (n Number) IsNaN() bool {
	return n.kind == KindFloat && math.IsNaN(n.f)
}

// IsInf reports whether the number is a float infinity of the given sign
// (see math.IsInf).
func (n Number) IsInf(sign int) bool {
	return n.kind == KindFloat && math.IsInf(n.f, sign)
}

// String returns the decimal text of the number.
// Integers are printed exactly; floats follow FormatFloat.
func (n Number) String() string {
	switch n.kind {
	case KindInt:
		return strconv.FormatInt(n.i, 10)
	case KindUint:
		return strconv.FormatUint(n.u, 10)
	default:
		return FormatFloat(n.f)
	}
}

// FormatFloat renders f the way JavaScript's Number#toString does for
// finite values: plain decimal for 1e-6 <= |f| < 1e21, exponent form
// otherwise ("1e+21", "1.5e-7"). The result is the shortest text that
// parses back to the identical float64.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}

	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	b := strconv.AppendFloat(nil, f, format, -1, 64)
	if format == 'e' {
		// clean up e-09 to e-9
		n := len(b)
		if n >= 4 && b[n-4] == 'e' && b[n-3] == '-' && b[n-2] == '0' {
			b[n-2] = b[n-1]
			b = b[:n-1]
		}
	}
	return string(b)
}

// ParseNumber parses decimal text into a Number. Text without '.', 'e' or
// 'E' is parsed as int64, then uint64, before falling back to float64.
func ParseNumber(s string) (Number, error) {
	if !hasFloatMarker(s) {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Int(i), nil
		}
		if u, err := strconv.ParseUint(s, 10, 64); err == nil {
			return Uint(u), nil
		}
	}
	if !isDecimal(s) {
		return Number{}, fmt.Errorf("invalid number syntax %q", s)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Number{}, err
	}
	return Float(f), nil
}

// isDecimal rejects the non-decimal forms strconv accepts (hex, inf, nan).
func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9', c == '.', c == 'e', c == 'E', c == '+', c == '-':
		default:
			return false
		}
	}
	return true
}

func hasFloatMarker(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '.', 'e', 'E':
			return true
		}
	}
	return false
}

// Object is an insertion-ordered map of property names to values.
// Objects are reference values: a *Object may appear in more than one
// place in a tree, and may even contain itself.
type Object struct {
	keys   []string
	fields map[string]Value
}

func (*Object) value() {}

// NewObject creates an empty object.
func NewObject() *Object {
	return &Object{fields: make(map[string]Value)}
}

// Pair is a key-value pair for ordered object construction.
type Pair struct {
	Key   string
	Value Value
}

// P is a shorthand for Pair.
// Example: ObjectOf(P("name", String("cart")), P("count", Int(5)))
func P(key string, v Value) Pair {
	return Pair{Key: key, Value: v}
}

// ObjectOf creates an object from pairs, in order. A repeated key keeps
// its first position and its last value.
func ObjectOf(pairs ...Pair) *Object {
	obj := &Object{
		keys:   make([]string, 0, len(pairs)),
		fields: make(map[string]Value, len(pairs)),
	}
	for _, p := range pairs {
		obj.Set(p.Key, p.Value)
	}
	return obj
}

// Len returns the number of properties.
func (o *Object) Len() int {
	return len(o.keys)
}

// Keys returns the property names in insertion order.
func (o *Object) Keys() []string {
	return slices.Clone(o.keys)
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.fields[key]
	return v, ok
}

// Set stores v under key. New keys are appended; existing keys keep
// their position. A nil v is stored as Null.
func (o *Object) Set(key string, v Value) {
	if v == nil {
		v = Null{}
	}
	if o.fields == nil {
		o.fields = make(map[string]Value)
	}
	if _, exists := o.fields[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.fields[key] = v
}

// Delete removes key. It is a no-op for absent keys.
func (o *Object) Delete(key string) {
	if _, exists := o.fields[key]; !exists {
		return
	}
	delete(o.fields, key)
	o.keys = slices.DeleteFunc(o.keys, func(k string) bool { return k == key })
}

// Range calls fn for each property in order until fn returns false.
func (o *Object) Range(fn func(key string, v Value) bool) {
	for _, k := range o.keys {
		if !fn(k, o.fields[k]) {
			return
		}
	}
}

// SortedKeys returns keys in RFC 8785 canonical order (UTF-16 code units).
// Go's string comparison uses UTF-8 bytes, which orders some non-BMP
// characters differently.
func (o *Object) SortedKeys() []string {
	keys := o.Keys()
	slices.SortFunc(keys, CompareKeys)
	return keys
}

// CompareKeys compares strings by UTF-16 code units as required by
// RFC 8785. This differs from UTF-8 byte order only for characters
// outside the BMP, which sort before U+E000..U+FFFF here.
func CompareKeys(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	minLen := min(len(a16), len(b16))
	for i := 0; i < minLen; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	}
	return 0
}

// IsNull reports whether v is Null or a nil interface.
func IsNull(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Null)
	return ok
}
