package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePreservesKeyOrder(t *testing.T) {
	v, err := Parse([]byte(`{"b":1,"a":2,"c":{"z":true,"y":false}}`))
	require.NoError(t, err)

	obj, ok := v.(*Object)
	require.True(t, ok)
	assert.Equal(t, []string{"b", "a", "c"}, obj.Keys())

	inner, _ := obj.Get("c")
	assert.Equal(t, []string{"z", "y"}, inner.(*Object).Keys())
}

func TestParseScalars(t *testing.T) {
	v, err := Parse([]byte(`[null, true, false, "x", 1, -2, 1.5, 1e3, 18446744073709551615]`))
	require.NoError(t, err)

	arr, ok := v.(Array)
	require.True(t, ok)
	require.Len(t, arr, 9)

	assert.Equal(t, Null{}, arr[0])
	assert.Equal(t, Bool(true), arr[1])
	assert.Equal(t, Bool(false), arr[2])
	assert.Equal(t, String("x"), arr[3])
	assert.Equal(t, Int(1), arr[4])
	assert.Equal(t, Int(-2), arr[5])
	assert.Equal(t, Float(1.5), arr[6])
	assert.Equal(t, Float(1000), arr[7])
	assert.Equal(t, Uint(math.MaxUint64), arr[8])
}

func TestParseEmptyContainers(t *testing.T) {
	v, err := Parse([]byte(`{"o":{},"a":[]}`))
	require.NoError(t, err)

	obj := v.(*Object)
	o, _ := obj.Get("o")
	assert.Equal(t, 0, o.(*Object).Len())
	a, _ := obj.Get("a")
	assert.Equal(t, Array{}, a)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ``},
		{"truncated object", `{"a":1`},
		{"trailing document", `{}{}`},
		{"bare word", `nope`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	inputs := []string{
		`{"b":1,"a":[true,false,null],"s":"<a&b>"}`,
		`[]`,
		`{}`,
		`"plain"`,
		`[1.5,-2,1e+22,18446744073709551615]`,
		`{"nested":{"deep":[{"x":"y"}]}}`,
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			v, err := Parse([]byte(in))
			require.NoError(t, err)

			out, err := Marshal(v)
			require.NoError(t, err)
			assert.Equal(t, in, string(out))
		})
	}
}

func TestMarshalRejectsNonFinite(t *testing.T) {
	_, err := Marshal(Array{Float(math.NaN())})
	assert.Error(t, err)

	_, err = Marshal(ObjectOf(P("x", Float(math.Inf(1)))))
	assert.Error(t, err)
}

func TestMarshalIndent(t *testing.T) {
	out, err := MarshalIndent(ObjectOf(P("a", Int(1))), "", "  ")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}", string(out))
}
