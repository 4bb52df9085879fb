package harness

import (
	"github.com/roach88/jpack/internal/codec"
	"github.com/roach88/jpack/internal/value"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every expectation and assertion held.
	Pass bool `json:"pass"`

	// Compressed is the compressed input.
	Compressed codec.Compressed `json:"-"`

	// Output is the decompressed value.
	Output value.Value `json:"-"`

	// Stats summarizes Compressed.
	Stats codec.Stats `json:"stats"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
