// Package codec implements the deduplicating tree codec.
//
// Compress walks a value.Value and flattens it into a list of encoded
// value strings plus a root reference key. Identical encoded values are
// stored once, and objects sharing a property-name set share one schema
// entry. Decompress reverses the walk.
//
// # Encoded values
//
//	Bool     b|T  b|F
//	Number   n|<decimal>          n|42  n|-3.14  n|1.5e+22
//	Special  N|+  N|-  N|0        (+Inf, -Inf, NaN; only with preserve options)
//	String   <text>               escaped as s|<text> when <text> starts with a tag
//	Array    a|<key>|<key>...     a| is the empty array, _ is a null element
//	Object   o|<schema>|<key>...  o| is the empty object
//
// A schema is an ordinary array of strings holding the property names.
//
// # Reference keys
//
// Keys are radix-62 numerals over 0-9A-Za-z, most significant digit
// first, assigned in insertion order. The empty key means null.
// Every key referenced from entry i is below i, so a decoder can reject
// forward references and never loops.
//
// # Concurrency
//
// A Store is not safe for concurrent use. Compress creates a fresh Store
// per call, so concurrent Compress calls are safe. Decode only reads the
// value list.
package codec
