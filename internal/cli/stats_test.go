package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/jpack/internal/codec"
	"github.com/roach88/jpack/internal/value"
)

func TestStatsText(t *testing.T) {
	out, _, err := execute(t, sampleJSON, "stats")
	require.NoError(t, err)

	assert.Contains(t, out, "Values:  8")
	assert.Contains(t, out, "Schemas: 1")
	assert.Contains(t, out, "bool")
	assert.Contains(t, out, "Input:   29 bytes")
}

func TestStatsJSON(t *testing.T) {
	out, _, err := execute(t, sampleJSON, "--format", "json", "stats")
	require.NoError(t, err)

	resp := decodeResponse(t, out)
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 8, data["entries"])
	assert.EqualValues(t, 1, data["schemas"])
	assert.EqualValues(t, 30, data["bytes"])
	assert.EqualValues(t, len(sampleWire), data["wire_bytes"])
}

func TestComputeStatsRatio(t *testing.T) {
	v, err := value.Parse([]byte(`[{"id":1},{"id":1},{"id":1},{"id":1}]`))
	require.NoError(t, err)
	c, err := codec.Compress(v, codec.Options{})
	require.NoError(t, err)

	result, err := computeStats(v, c)
	require.NoError(t, err)
	assert.Equal(t, 5, result.Entries)
	assert.Equal(t, 37, result.InputBytes)
	assert.Greater(t, result.PackedBytes, 0)
	assert.InDelta(t, float64(result.WireBytes)/37, result.Ratio, 1e-9)
}

func TestStatsSortKeysSharesSchemas(t *testing.T) {
	input := `[{"a":1,"b":2},{"b":1,"a":2}]`

	out, _, err := execute(t, input, "--format", "json", "stats")
	require.NoError(t, err)
	data := decodeResponse(t, out).Data.(map[string]any)
	assert.EqualValues(t, 2, data["schemas"])

	out, _, err = execute(t, input, "--format", "json", "stats", "--sort-keys")
	require.NoError(t, err)
	data = decodeResponse(t, out).Data.(map[string]any)
	assert.EqualValues(t, 1, data["schemas"])
}
