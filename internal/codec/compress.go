package codec

import (
	"go.uber.org/zap"

	"github.com/roach88/jpack/internal/value"
)

// Compressed is the flattened form of a tree: the value list and the key
// of the root. An empty Root means the tree was null.
type Compressed struct {
	Values []string
	Root   string
}

// Compress flattens v using a fresh Store. On error no partial result is
// returned.
func Compress(v value.Value, opts Options) (Compressed, error) {
	store := NewStore(opts)
	root, err := store.Add(v)
	if err != nil {
		return Compressed{}, err
	}

	c := Compressed{Values: store.Values(), Root: root}
	Logger().Debug("compressed",
		zap.Int("values", len(c.Values)),
		zap.String("root", c.Root),
		zap.Bool("sort_keys", opts.SortKeys))
	return c, nil
}

// Decompress rebuilds the tree held by c.
func Decompress(c Compressed) (value.Value, error) {
	v, err := Decode(c.Values, c.Root)
	if err != nil {
		Logger().Debug("decompress failed", zap.String("root", c.Root), zap.Error(err))
		return nil, err
	}
	Logger().Debug("decompressed", zap.Int("values", len(c.Values)), zap.String("root", c.Root))
	return v, nil
}
