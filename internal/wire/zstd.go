package wire

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/roach88/jpack/internal/codec"
)

// MaxUnpackedSize caps the decompressed size Unpack accepts.
const MaxUnpackedSize = 256 << 20

// Shared encoder/decoder; EncodeAll and DecodeAll are safe for concurrent use.
var (
	zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	zstdDecoder, _ = newDecoder(MaxUnpackedSize)
)

func newDecoder(maxSize uint64) (*zstd.Decoder, error) {
	return zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxSize))
}

// zstdMagic opens every zstd frame.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Pack marshals c and wraps the wire JSON in a zstd frame.
func Pack(c codec.Compressed) ([]byte, error) {
	doc, err := Marshal(c)
	if err != nil {
		return nil, err
	}
	return zstdEncoder.EncodeAll(doc, nil), nil
}

// Unpack reverses Pack. Frames that expand past MaxUnpackedSize fail
// with INVALID_ENCODING.
func Unpack(data []byte) (codec.Compressed, error) {
	return unpack(zstdDecoder, data)
}

// UnpackWithLimit is Unpack with a caller-chosen decompressed size cap.
func UnpackWithLimit(data []byte, maxSize uint64) (codec.Compressed, error) {
	dec, err := newDecoder(maxSize)
	if err != nil {
		return codec.Compressed{}, fmt.Errorf("zstd decoder: %w", err)
	}
	defer dec.Close()
	return unpack(dec, data)
}

func unpack(dec *zstd.Decoder, data []byte) (codec.Compressed, error) {
	doc, err := dec.DecodeAll(data, nil)
	if err != nil {
		return codec.Compressed{}, invalidEncoding("zstd frame", fmt.Errorf("zstd: %w", err))
	}
	return Unmarshal(doc)
}

// IsPacked reports whether data starts with a zstd frame header.
func IsPacked(data []byte) bool {
	return bytes.HasPrefix(data, zstdMagic)
}
