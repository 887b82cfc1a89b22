package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tyreledger/backend/internal/application/adapter"
	"github.com/tyreledger/backend/internal/domain/entity"
	domainerror "github.com/tyreledger/backend/internal/domain/error"
)

// RestoreEntriesInput carries the raw JSON payload of a bulk restore.
type RestoreEntriesInput struct {
	Payload []byte
}

// RestoreEntriesOutput represents the result of a restore.
type RestoreEntriesOutput struct {
	Count int
}

// RestoreEntriesUseCase replaces the whole ledger from a JSON export.
// Anything that is not a JSON list is rejected with no state change.
type RestoreEntriesUseCase struct {
	entryRepo adapter.EntryRepository
	snapshots adapter.SnapshotStore
}

// NewRestoreEntriesUseCase creates a new RestoreEntriesUseCase instance.
func NewRestoreEntriesUseCase(entryRepo adapter.EntryRepository, snapshots adapter.SnapshotStore) *RestoreEntriesUseCase {
	return &RestoreEntriesUseCase{
		entryRepo: entryRepo,
		snapshots: snapshots,
	}
}

// Execute validates and applies the restore payload.
func (uc *RestoreEntriesUseCase) Execute(ctx context.Context, input RestoreEntriesInput) (*RestoreEntriesOutput, error) {
	entries, err := ParseEntryList(input.Payload)
	if err != nil {
		return nil, err
	}

	if err := uc.entryRepo.ReplaceAll(ctx, entries); err != nil {
		return nil, fmt.Errorf("failed to replace ledger: %w", err)
	}

	if uc.snapshots != nil {
		if err := uc.snapshots.Save(ctx, entries); err != nil {
			slog.Warn("Failed to save ledger snapshot after restore", "error", err)
		}
	}

	slog.Info("Ledger restored", "entries", len(entries))

	return &RestoreEntriesOutput{Count: len(entries)}, nil
}

// ParseEntryList parses a JSON payload that must be a list of entries. It
// distinguishes unparseable JSON from a parseable payload of the wrong
// top-level shape, so callers can report each precisely.
func ParseEntryList(payload []byte) ([]entity.LedgerEntry, error) {
	var raw any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeRestorePayloadInvalid,
			"payload is not valid JSON",
			domainerror.ErrRestorePayloadInvalid,
		)
	}
	if _, ok := raw.([]any); !ok {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeRestorePayloadNotList,
			"payload must be a JSON list of ledger entries",
			domainerror.ErrRestorePayloadNotList,
		)
	}

	var entries []entity.LedgerEntry
	if err := json.Unmarshal(payload, &entries); err != nil {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeRestorePayloadInvalid,
			"payload entries are malformed",
			domainerror.ErrRestorePayloadInvalid,
		)
	}

	// Entries exported from older backups may lack IDs; assign fresh ones
	// rather than rejecting the whole restore.
	for i := range entries {
		if entries[i].ID == uuid.Nil {
			entries[i].ID = uuid.New()
		}
	}

	return entries, nil
}
