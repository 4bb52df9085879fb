package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/jpack/internal/codec"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Options are the codec options used for compression.
	Options codec.Options `yaml:"options,omitempty"`

	// Input is the JSON text to compress.
	Input string `yaml:"input"`

	// ExpectValues, if set, must equal the value list exactly.
	ExpectValues []string `yaml:"expect_values,omitempty"`

	// ExpectRoot, if set, must equal the root key. Use "" for null.
	ExpectRoot *string `yaml:"expect_root,omitempty"`

	// ExpectOutput is the JSON text decompression must yield. Defaults to
	// Input.
	ExpectOutput string `yaml:"expect_output,omitempty"`

	// Assertions validate properties of the compressed form.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Assertion validates the compressed form.
type Assertion struct {
	// Type is one of value_count, schema_count, contains_value.
	Type string `yaml:"type"`

	// Count is the expected number (value_count, schema_count).
	Count int `yaml:"count,omitempty"`

	// Value is the encoded entry to look for (contains_value).
	Value string `yaml:"value,omitempty"`
}

// Assertion type constants.
const (
	AssertValueCount    = "value_count"
	AssertSchemaCount   = "schema_count"
	AssertContainsValue = "contains_value"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "expect_value:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every *.yaml file in dir, sorted by file name.
func LoadScenarios(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if strings.TrimSpace(s.Input) == "" {
		return fmt.Errorf("input is required")
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertValueCount, AssertSchemaCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertContainsValue:
		if a.Value == "" {
			return fmt.Errorf("assertions[%d]: value is required for contains_value", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
