package archive

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/roach88/jpack/internal/codec"
	"github.com/roach88/jpack/internal/wire"
)

// domainEncoding separates encoding hashes from content hashes.
const domainEncoding = "jpack/encoding/v1"

// encodingHash identifies a stored encoding: the options it was made with
// and the exact value list and root. Two puts that would decompress to
// differently ordered objects, or that keep different special numbers,
// never share an encoding hash.
func encodingHash(c codec.Compressed, optsJSON []byte) (string, error) {
	doc, err := wire.Marshal(c)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	h.Write([]byte(domainEncoding))
	h.Write([]byte{0x00})
	h.Write(optsJSON)
	h.Write([]byte{0x00})
	h.Write(doc)
	return hex.EncodeToString(h.Sum(nil)), nil
}
