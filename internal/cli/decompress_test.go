package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/jpack/internal/codec"
	"github.com/roach88/jpack/internal/wire"
)

func TestDecompressStdin(t *testing.T) {
	out, _, err := execute(t, sampleWire, "decompress")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"b":[true,false,null]}`+"\n", out)
}

func TestDecompressPretty(t *testing.T) {
	out, _, err := execute(t, `[["a","a|0","n|1","o|1|2"],"3"]`, "decompress", "--pretty")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}\n", out)
}

func TestDecompressEmbed(t *testing.T) {
	out, _, err := execute(t, `{"other":1,"doc":`+sampleWire+`}`, "decompress", "--embed", "doc")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"b":[true,false,null]}`+"\n", out)
}

func TestDecompressZstdAutoDetect(t *testing.T) {
	c, err := wire.Unmarshal([]byte(sampleWire))
	require.NoError(t, err)
	packed, err := wire.Pack(c)
	require.NoError(t, err)
	path := writeTemp(t, "in.zst", string(packed))

	out, _, err := execute(t, "", "decompress", path)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"b":[true,false,null]}`+"\n", out)
}

func TestDecompressZstdFlagRequiresFrame(t *testing.T) {
	_, stderr, err := execute(t, sampleWire, "decompress", "--zstd")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stderr, string(codec.ErrCodeInvalidEncoding))
}

func TestDecompressOutputToFile(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "out.json")

	out, _, err := execute(t, sampleWire, "decompress", "-o", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Restored 8 value(s)")

	written, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"b":[true,false,null]}`+"\n", string(written))
}

func TestDecompressJSONFormat(t *testing.T) {
	out, _, err := execute(t, sampleWire, "--format", "json", "decompress")
	require.NoError(t, err)

	resp := decodeResponse(t, out)
	assert.Equal(t, "ok", resp.Status)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 1, data["a"])
}

func TestDecompressErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCode string
	}{
		{"not wire", `{"a":1}`, string(codec.ErrCodeInvalidEncoding)},
		{"bad key", `[["n|1"],"!"]`, string(codec.ErrCodeInvalidKey)},
		{"out of range", `[["n|1"],"5"]`, string(codec.ErrCodeIndexOutOfRange)},
		{"bad number", `[["n|x"],"0"]`, string(codec.ErrCodeInvalidNumber)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, tt.input, "--format", "json", "decompress")
			require.Error(t, err)
			assert.Equal(t, ExitFailure, GetExitCode(err))

			resp := decodeResponse(t, out)
			assert.Equal(t, "error", resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestDecompressMaxUnpacked(t *testing.T) {
	c, err := wire.Unmarshal([]byte(sampleWire))
	require.NoError(t, err)
	packed, err := wire.Pack(c)
	require.NoError(t, err)
	path := writeTemp(t, "in.zst", string(packed))

	_, stderr, err := execute(t, "", "decompress", "--max-unpacked", "16", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stderr, string(codec.ErrCodeInvalidEncoding))
}

func TestDecompressStopsOnExponentialList(t *testing.T) {
	// Entry i is an array holding entry i-1 twice.
	values := []string{`"n|1"`}
	for i := 1; i < 40; i++ {
		k := codec.IndexToKey(i - 1)
		values = append(values, `"a|`+k+`|`+k+`"`)
	}
	input := `[[` + strings.Join(values, ",") + `],"` + codec.IndexToKey(39) + `"]`

	out, _, err := execute(t, input, "--format", "json", "decompress")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp := decodeResponse(t, out)
	require.NotNil(t, resp.Error)
	assert.Equal(t, string(codec.ErrCodeDecodeLimit), resp.Error.Code)
}
