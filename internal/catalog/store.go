package catalog

import (
	"context"
	"errors"
)

// ErrAlreadyExists signals a unique-constraint conflict on
// (external_id, source_type). Store implementations map their driver-level
// constraint errors to this sentinel so the orchestrator can treat a create
// that lost the check-then-create race exactly like a pre-detected duplicate.
var ErrAlreadyExists = errors.New("content already exists")

// Store is the catalog persistence contract consumed by the orchestrator.
// Implementations must enforce uniqueness of (external_id, source_type) at the
// storage layer and return ErrAlreadyExists (wrapped or bare) from Create on
// conflict; transport and query failures come back as ordinary errors.
type Store interface {
	// Exists reports whether a record with this dedup key is already present.
	Exists(ctx context.Context, externalID string, source SourceType) (bool, error)

	// Create persists a normalized content item and returns the stored record.
	Create(ctx context.Context, content NormalizedContent, categoryID string) (Record, error)
}
