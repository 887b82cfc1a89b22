package adapter

import (
	"context"

	"github.com/tyreledger/backend/internal/domain/entity"
)

// SnapshotStore persists the complete entry list as a single value after
// every mutation, and loads it back at startup or restore time. A corrupt
// or missing snapshot is reported as absent, never as an error that stops
// the application.
type SnapshotStore interface {
	// Save stores the full, current entry list.
	Save(ctx context.Context, entries []entity.LedgerEntry) error

	// Load returns the stored entry list. The second return value is
	// false when no usable snapshot exists.
	Load(ctx context.Context) ([]entity.LedgerEntry, bool, error)
}
