package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/jpack/internal/value"
)

// Snapshot captures the compressed form of a scenario.
type Snapshot struct {
	Scenario string
	Root     string
	Values   []string
}

// toValue converts the snapshot for canonical serialization.
func (s *Snapshot) toValue() value.Value {
	values := make(value.Array, len(s.Values))
	for i, v := range s.Values {
		values[i] = value.String(v)
	}
	return value.ObjectOf(
		value.P("scenario", value.String(s.Scenario)),
		value.P("root", value.String(s.Root)),
		value.P("values", values),
	)
}

// RunWithGolden executes a scenario, fails the test if any expectation
// failed, and compares the compressed form against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	for _, e := range result.Errors {
		t.Errorf("%s: %s", scenario.Name, e)
	}

	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against a golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot := Snapshot{
		Scenario: scenarioName,
		Root:     result.Compressed.Root,
		Values:   result.Compressed.Values,
	}
	data, err := value.MarshalCanonical(snapshot.toValue())
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
