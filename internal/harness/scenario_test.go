package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_Valid(t *testing.T) {
	path := writeScenario(t, `
name: valid
description: "A valid scenario"
options:
  sort_keys: true
  preserve_nan: true
input: |
  {"a": 1}
expect_root: "3"
expect_values: ["a", "a|0", "n|1", "o|1|2"]
assertions:
  - type: value_count
    count: 4
  - type: contains_value
    value: "n|1"
`)

	s, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "valid", s.Name)
	assert.True(t, s.Options.SortKeys)
	assert.True(t, s.Options.PreserveNaN)
	assert.False(t, s.Options.ErrorOnNaN)
	assert.Equal(t, "{\"a\": 1}\n", s.Input)
	require.NotNil(t, s.ExpectRoot)
	assert.Equal(t, "3", *s.ExpectRoot)
	assert.Equal(t, []string{"a", "a|0", "n|1", "o|1|2"}, s.ExpectValues)
	require.Len(t, s.Assertions, 2)
	assert.Equal(t, AssertValueCount, s.Assertions[0].Type)
	assert.Equal(t, 4, s.Assertions[0].Count)
}

func TestLoadScenario_OptionalExpectations(t *testing.T) {
	path := writeScenario(t, `
name: minimal
description: "Only input"
input: "[1, 2]"
`)

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Nil(t, s.ExpectRoot)
	assert.Nil(t, s.ExpectValues)
	assert.Empty(t, s.ExpectOutput)
	assert.Empty(t, s.Assertions)
}

func TestLoadScenario_UnknownField(t *testing.T) {
	path := writeScenario(t, `
name: typo
description: "Misspelled field"
input: "1"
expect_value: ["n|1"]
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expect_value")
}

func TestLoadScenario_UnknownOption(t *testing.T) {
	path := writeScenario(t, `
name: typo
description: "Misspelled option"
options:
  sortkeys: true
input: "1"
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
}

func TestLoadScenario_MissingRequired(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"no name", "description: d\ninput: \"1\"\n", "name is required"},
		{"no description", "name: n\ninput: \"1\"\n", "description is required"},
		{"no input", "name: n\ndescription: d\n", "input is required"},
		{"blank input", "name: n\ndescription: d\ninput: \"  \"\n", "input is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario_InvalidAssertions(t *testing.T) {
	tests := []struct {
		name      string
		assertion string
		wantErr   string
	}{
		{"missing type", "- count: 1", "type is required"},
		{"unknown type", "- type: trace_order", "unknown assertion type"},
		{"negative count", "- type: value_count\n    count: -1", "count must be non-negative"},
		{"missing value", "- type: contains_value", "value is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := "name: n\ndescription: d\ninput: \"1\"\nassertions:\n  " + tt.assertion + "\n"
			_, err := LoadScenario(writeScenario(t, content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadScenarios(t *testing.T) {
	scenarios, err := LoadScenarios("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	names := make([]string, len(scenarios))
	for i, s := range scenarios {
		names[i] = s.Name
	}
	assert.IsIncreasing(t, names)
	assert.Contains(t, names, "basic_object")
}

func TestLoadScenarios_ReportsFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("name: [\n"), 0644))

	_, err := LoadScenarios(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.yaml")
}
