package archive

import "github.com/google/uuid"

// IDGenerator produces document ids.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 ids. It is the default.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
// Panics if UUID generation fails.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// Option configures an Archive.
type Option func(*Archive)

// WithIDGenerator replaces the id generator, typically with a
// deterministic one in tests.
func WithIDGenerator(g IDGenerator) Option {
	return func(a *Archive) {
		a.ids = g
	}
}
