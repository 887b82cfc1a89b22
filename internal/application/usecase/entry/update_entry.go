package entry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tyreledger/backend/internal/application/adapter"
	"github.com/tyreledger/backend/internal/domain/entity"
	domainerror "github.com/tyreledger/backend/internal/domain/error"
)

// UpdateEntryInput represents an in-place edit of an existing entry. The
// entry's kind and ID are immutable; the editable fields replace the stored
// ones and the derived invoice fields (total, due date) are recomputed.
type UpdateEntryInput struct {
	ID        uuid.UUID
	Date      string
	InvoiceNo string
	Items     []ItemInput
	Size      string
	Pattern   string
	Quantity  int
	UnitPrice decimal.Decimal
	Amount    decimal.Decimal // payment or CN amount, by kind
	Notes     string
}

// UpdateEntryOutput represents the output of an entry update.
type UpdateEntryOutput struct {
	Entry *entity.LedgerEntry
}

// UpdateEntryUseCase handles in-place entry edits.
type UpdateEntryUseCase struct {
	entryRepo adapter.EntryRepository
	snapshots adapter.SnapshotStore
}

// NewUpdateEntryUseCase creates a new UpdateEntryUseCase instance.
func NewUpdateEntryUseCase(entryRepo adapter.EntryRepository, snapshots adapter.SnapshotStore) *UpdateEntryUseCase {
	return &UpdateEntryUseCase{
		entryRepo: entryRepo,
		snapshots: snapshots,
	}
}

// Execute updates an entry in place. Editing an entry that no longer exists
// mutates nothing and reports not-found.
func (uc *UpdateEntryUseCase) Execute(ctx context.Context, input UpdateEntryInput) (*UpdateEntryOutput, error) {
	if !entity.ValidDate(input.Date) {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidEntryDate,
			"date must be a valid YYYY-MM-DD calendar date",
			domainerror.ErrInvalidEntryDate,
		)
	}

	existing, err := uc.entryRepo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load entry: %w", err)
	}
	if existing == nil {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeEntryNotFound,
			"entry not found",
			domainerror.ErrEntryNotFound,
		)
	}

	existing.Date = input.Date
	existing.Notes = input.Notes
	existing.UpdatedAt = time.Now().UTC()

	switch existing.Kind {
	case entity.KindInvoice:
		if strings.TrimSpace(input.InvoiceNo) == "" {
			return nil, domainerror.NewLedgerError(
				domainerror.ErrCodeInvalidInvoiceNo,
				"invoice number is required",
				domainerror.ErrInvalidInvoiceNo,
			)
		}
		existing.InvoiceNo = strings.TrimSpace(input.InvoiceNo)

		if len(input.Items) > 0 {
			items := make([]entity.InvoiceItem, 0, len(input.Items))
			for _, it := range input.Items {
				if err := validateItem(it.Quantity, it.UnitPrice); err != nil {
					return nil, err
				}
				items = append(items, entity.InvoiceItem{
					ID:        uuid.New(),
					Size:      it.Size,
					Pattern:   it.Pattern,
					Quantity:  it.Quantity,
					UnitPrice: it.UnitPrice,
				})
			}
			existing.Items = items
		} else {
			if err := validateItem(input.Quantity, input.UnitPrice); err != nil {
				return nil, err
			}
			existing.Items = nil
			existing.Size = input.Size
			existing.Pattern = input.Pattern
			existing.Quantity = input.Quantity
			existing.UnitPrice = input.UnitPrice
		}
		existing.Recalculate()

	case entity.KindPayment:
		if !input.Amount.IsPositive() {
			return nil, domainerror.NewLedgerError(
				domainerror.ErrCodeInvalidPaymentAmount,
				"payment amount must be positive",
				domainerror.ErrInvalidPaymentAmount,
			)
		}
		existing.PaymentAmount = input.Amount

	case entity.KindCreditNote:
		if !input.Amount.IsPositive() {
			return nil, domainerror.NewLedgerError(
				domainerror.ErrCodeInvalidCreditNoteAmount,
				"credit note amount must be positive",
				domainerror.ErrInvalidCreditNoteAmount,
			)
		}
		existing.CNAmount = input.Amount
	}

	if err := uc.entryRepo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}

	refreshSnapshot(ctx, uc.entryRepo, uc.snapshots)

	return &UpdateEntryOutput{Entry: existing}, nil
}
