package harness

import (
	"bytes"
	"context"
	"fmt"
	"slices"

	"github.com/roach88/jpack/internal/archive"
	"github.com/roach88/jpack/internal/codec"
	"github.com/roach88/jpack/internal/testutil"
	"github.com/roach88/jpack/internal/value"
	"github.com/roach88/jpack/internal/wire"
)

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh in-memory archive for isolation.
//
// Execution flow:
// 1. Parse input and expected output
// 2. Store the input in the archive (compresses it)
// 3. Check the value list and root key
// 4. Decompress via the wire format and via the archive
// 5. Evaluate assertions
//
// A returned error means the scenario could not be executed; failed
// expectations are reported in Result.Errors instead.
func Run(scenario *Scenario) (*Result, error) {
	input, err := value.Parse([]byte(scenario.Input))
	if err != nil {
		return nil, fmt.Errorf("parse input: %w", err)
	}

	expected := input
	if scenario.ExpectOutput != "" {
		expected, err = value.Parse([]byte(scenario.ExpectOutput))
		if err != nil {
			return nil, fmt.Errorf("parse expect_output: %w", err)
		}
	}

	arc, err := archive.Open(":memory:", archive.WithIDGenerator(testutil.NewSequentialIDGenerator(scenario.Name)))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory archive: %w", err)
	}
	defer arc.Close()

	ctx := context.Background()
	doc, err := arc.Put(ctx, scenario.Name, input, scenario.Options)
	if err != nil {
		return nil, fmt.Errorf("compress: %w", err)
	}

	result := NewResult()
	result.Compressed = doc.Compressed
	result.Stats = codec.ComputeStats(doc.Compressed)

	if scenario.ExpectValues != nil && !slices.Equal(scenario.ExpectValues, doc.Compressed.Values) {
		result.AddError(fmt.Sprintf("values: expected %q, got %q", scenario.ExpectValues, doc.Compressed.Values))
	}
	if scenario.ExpectRoot != nil && *scenario.ExpectRoot != doc.Compressed.Root {
		result.AddError(fmt.Sprintf("root: expected %q, got %q", *scenario.ExpectRoot, doc.Compressed.Root))
	}

	output, err := decompressViaWire(doc.Compressed)
	if err != nil {
		result.AddError(fmt.Sprintf("decompress: %v", err))
		return result, nil
	}
	result.Output = output
	checkOutput(result, "output", expected, output, !scenario.Options.SortKeys)

	stored, err := arc.GetValue(ctx, doc.ID)
	if err != nil {
		result.AddError(fmt.Sprintf("archive read: %v", err))
	} else {
		checkOutput(result, "archived output", expected, stored, !scenario.Options.SortKeys)
	}

	for i, a := range scenario.Assertions {
		if err := evaluateAssertion(doc.Compressed, result.Stats, a); err != nil {
			result.AddError(fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}

	return result, nil
}

// decompressViaWire serializes c, parses it back and decompresses it.
func decompressViaWire(c codec.Compressed) (value.Value, error) {
	data, err := wire.Marshal(c)
	if err != nil {
		return nil, err
	}
	parsed, err := wire.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return codec.Decompress(parsed)
}

// checkOutput compares got against want. With ordered set, object
// property order must match as well.
func checkOutput(result *Result, label string, want, got value.Value, ordered bool) {
	if !value.Equal(want, got) {
		result.AddError(fmt.Sprintf("%s: expected %s, got %s", label, render(want), render(got)))
		return
	}
	if !ordered {
		return
	}
	wantJSON, err1 := value.Marshal(want)
	gotJSON, err2 := value.Marshal(got)
	if err1 == nil && err2 == nil && !bytes.Equal(wantJSON, gotJSON) {
		result.AddError(fmt.Sprintf("%s: property order changed: expected %s, got %s", label, wantJSON, gotJSON))
	}
}

func render(v value.Value) string {
	data, err := value.Marshal(v)
	if err != nil {
		return fmt.Sprintf("<%v>", err)
	}
	return string(data)
}
