package entry

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tyreledger/backend/internal/application/adapter"
	"github.com/tyreledger/backend/internal/domain/entity"
	domainerror "github.com/tyreledger/backend/internal/domain/error"
)

// RecordPaymentInput represents the input for recording a payment.
type RecordPaymentInput struct {
	Date   string
	Amount decimal.Decimal
	Notes  string
}

// RecordPaymentOutput represents the output of recording a payment.
type RecordPaymentOutput struct {
	Entry *entity.LedgerEntry
}

// RecordPaymentUseCase handles payment recording logic.
type RecordPaymentUseCase struct {
	entryRepo adapter.EntryRepository
	snapshots adapter.SnapshotStore
}

// NewRecordPaymentUseCase creates a new RecordPaymentUseCase instance.
func NewRecordPaymentUseCase(entryRepo adapter.EntryRepository, snapshots adapter.SnapshotStore) *RecordPaymentUseCase {
	return &RecordPaymentUseCase{
		entryRepo: entryRepo,
		snapshots: snapshots,
	}
}

// Execute records a payment against the ledger.
func (uc *RecordPaymentUseCase) Execute(ctx context.Context, input RecordPaymentInput) (*RecordPaymentOutput, error) {
	if !input.Amount.IsPositive() {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidPaymentAmount,
			"payment amount must be positive",
			domainerror.ErrInvalidPaymentAmount,
		)
	}
	if !entity.ValidDate(input.Date) {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidEntryDate,
			"date must be a valid YYYY-MM-DD calendar date",
			domainerror.ErrInvalidEntryDate,
		)
	}

	payment := entity.NewPayment(input.Date, input.Amount, input.Notes)

	if err := uc.entryRepo.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	refreshSnapshot(ctx, uc.entryRepo, uc.snapshots)

	return &RecordPaymentOutput{Entry: payment}, nil
}
