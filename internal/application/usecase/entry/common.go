// Package entry contains ledger entry management use cases.
package entry

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/tyreledger/backend/internal/application/adapter"
	domainerror "github.com/tyreledger/backend/internal/domain/error"
)

// ItemInput represents one priced line in an invoice request.
type ItemInput struct {
	Size      string
	Pattern   string
	Quantity  int
	UnitPrice decimal.Decimal
}

// validateItem checks the common line constraints shared by the multi-item
// and legacy single-line paths.
func validateItem(quantity int, unitPrice decimal.Decimal) error {
	if quantity <= 0 {
		return domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidItemQuantity,
			"item quantity must be a positive integer",
			domainerror.ErrInvalidItemQuantity,
		)
	}
	if unitPrice.IsNegative() {
		return domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidItemUnitPrice,
			"item unit price must not be negative",
			domainerror.ErrInvalidItemUnitPrice,
		)
	}
	return nil
}

// refreshSnapshot saves the full current entry list to the snapshot store.
// Snapshot failures never fail the mutation that triggered them.
func refreshSnapshot(ctx context.Context, entryRepo adapter.EntryRepository, snapshots adapter.SnapshotStore) {
	if snapshots == nil {
		return
	}
	entries, err := entryRepo.ListAll(ctx)
	if err != nil {
		slog.Warn("Failed to load ledger for snapshot", "error", err)
		return
	}
	if err := snapshots.Save(ctx, entries); err != nil {
		slog.Warn("Failed to save ledger snapshot", "error", err)
	}
}
