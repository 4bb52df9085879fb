// Package value provides the tree value model consumed by the codec.
//
// A Value is one of Null, Bool, Number, String, Array or *Object. The set
// is sealed: no type outside this package can satisfy Value, so every
// switch over a Value's dynamic type is exhaustive.
//
// Objects keep their properties in insertion order. That order is the
// "natural iteration order" the codec uses to build object schemas, and it
// is the order Marshal emits. Parse preserves the order found in the input.
//
// Numbers remember whether they were integral (int64 or uint64) or
// floating point, so whole numbers survive a round trip without being
// coerced to float64.
//
// This package imports nothing internal.
package value
