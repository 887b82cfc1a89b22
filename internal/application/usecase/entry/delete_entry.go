package entry

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tyreledger/backend/internal/application/adapter"
	domainerror "github.com/tyreledger/backend/internal/domain/error"
)

// DeleteEntryInput represents the input for entry deletion.
type DeleteEntryInput struct {
	ID uuid.UUID
}

// DeleteEntryOutput represents the output of entry deletion.
type DeleteEntryOutput struct{}

// DeleteEntryUseCase handles entry deletion. Deletion is total and
// immediate: there is no archival or partial delete.
type DeleteEntryUseCase struct {
	entryRepo adapter.EntryRepository
	snapshots adapter.SnapshotStore
}

// NewDeleteEntryUseCase creates a new DeleteEntryUseCase instance.
func NewDeleteEntryUseCase(entryRepo adapter.EntryRepository, snapshots adapter.SnapshotStore) *DeleteEntryUseCase {
	return &DeleteEntryUseCase{
		entryRepo: entryRepo,
		snapshots: snapshots,
	}
}

// Execute deletes an entry. Deleting an entry that no longer exists mutates
// nothing and reports not-found.
func (uc *DeleteEntryUseCase) Execute(ctx context.Context, input DeleteEntryInput) (*DeleteEntryOutput, error) {
	deleted, err := uc.entryRepo.Delete(ctx, input.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete entry: %w", err)
	}
	if !deleted {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeEntryNotFound,
			"entry not found",
			domainerror.ErrEntryNotFound,
		)
	}

	refreshSnapshot(ctx, uc.entryRepo, uc.snapshots)

	return &DeleteEntryOutput{}, nil
}
