package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/jpack/internal/codec"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string   // Assertion type for categorization
	Expected string   // Human-readable expected outcome
	Actual   string   // Human-readable actual outcome
	Values   []string // Full value list for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nValue list:\n")
	for i, v := range e.Values {
		fmt.Fprintf(&buf, "  [%s] %q\n", codec.IndexToKey(i), v)
	}

	return buf.String()
}

func evaluateAssertion(c codec.Compressed, stats codec.Stats, a Assertion) error {
	switch a.Type {
	case AssertValueCount:
		return assertValueCount(c, a)
	case AssertSchemaCount:
		return assertSchemaCount(c, stats, a)
	case AssertContainsValue:
		return assertContainsValue(c, a)
	}
	return fmt.Errorf("unknown assertion type %q", a.Type)
}

func assertValueCount(c codec.Compressed, a Assertion) error {
	if len(c.Values) == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertValueCount,
		Expected: fmt.Sprintf("%d values", a.Count),
		Actual:   fmt.Sprintf("%d values", len(c.Values)),
		Values:   c.Values,
	}
}

func assertSchemaCount(c codec.Compressed, stats codec.Stats, a Assertion) error {
	if stats.Schemas == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertSchemaCount,
		Expected: fmt.Sprintf("%d schemas", a.Count),
		Actual:   fmt.Sprintf("%d schemas", stats.Schemas),
		Values:   c.Values,
	}
}

func assertContainsValue(c codec.Compressed, a Assertion) error {
	if slices.Contains(c.Values, a.Value) {
		return nil
	}
	return &AssertionError{
		Type:     AssertContainsValue,
		Expected: fmt.Sprintf("value list contains %q", a.Value),
		Actual:   "not found",
		Values:   c.Values,
	}
}
