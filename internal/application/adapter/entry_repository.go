// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/tyreledger/backend/internal/domain/entity"
)

// EntryRepository defines the interface for ledger entry persistence.
// ListAll returns entries in creation order; the engines rely on that order
// as the stable tie-break when sorting.
type EntryRepository interface {
	// ListAll returns every ledger entry in creation order.
	ListAll(ctx context.Context) ([]entity.LedgerEntry, error)

	// FindByID returns the entry with the given ID, or ErrRecordNotFound
	// mapped to (nil, nil) when it does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.LedgerEntry, error)

	// Create persists a new entry.
	Create(ctx context.Context, entry *entity.LedgerEntry) error

	// Update persists changes to an existing entry, replacing its items.
	Update(ctx context.Context, entry *entity.LedgerEntry) error

	// Delete removes an entry completely. It reports whether an entry
	// was actually deleted.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// ReplaceAll atomically replaces the whole ledger with the given
	// entries, preserving their order as the new creation order.
	ReplaceAll(ctx context.Context, entries []entity.LedgerEntry) error
}
