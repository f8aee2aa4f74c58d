package harness

import "github.com/google/uuid"

// IDGenerator generates run identifiers.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run IDs, so log lines
// from one batch sort in start order.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7. Panics on failure (should never happen
// with a working crypto/rand).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
