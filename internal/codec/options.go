package codec

// Options controls compression behavior. The zero value is the default:
// insertion-ordered schemas, and NaN/Infinity silently become null.
//
// For each special number the preserve option wins over the error option:
// with both PreserveNaN and ErrorOnNaN set, NaN is encoded as N|0.
type Options struct {
	// SortKeys canonicalizes object schemas by sorting property names
	// (UTF-16 code unit order) before deduplication.
	//
	// UTF-16 order matches JavaScript implementations. Implementations
	// that sort by UTF-8 bytes place names with characters outside the
	// BMP differently: U+1F600 sorts before U+FF61 here and after it
	// there, so sorted schemas from the two can disagree on such names.
	SortKeys bool `yaml:"sort_keys" json:"sort_keys"`

	// PreserveNaN encodes NaN as N|0 instead of null.
	PreserveNaN bool `yaml:"preserve_nan" json:"preserve_nan"`

	// PreserveInfinite encodes +Inf/-Inf as N|+ / N|- instead of null.
	PreserveInfinite bool `yaml:"preserve_infinite" json:"preserve_infinite"`

	// ErrorOnNaN fails compression on NaN unless PreserveNaN is set.
	ErrorOnNaN bool `yaml:"error_on_nan" json:"error_on_nan"`

	// ErrorOnInfinite fails compression on infinities unless
	// PreserveInfinite is set.
	ErrorOnInfinite bool `yaml:"error_on_infinite" json:"error_on_infinite"`
}

// DefaultOptions returns the default options (all false).
func DefaultOptions() Options {
	return Options{}
}
