// Package creditnote contains the credit note application engine and use case.
package creditnote

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/tyreledger/backend/internal/application/adapter"
	"github.com/tyreledger/backend/internal/domain/entity"
	domainerror "github.com/tyreledger/backend/internal/domain/error"
)

// amountTolerance is the cent tolerance under which a CN amount and an
// invoice amount are considered an exact match.
var amountTolerance = decimal.RequireFromString("0.01")

const (
	settledAnnotation  = " [Settled by CN]"
	adjustedAnnotation = " [Adj by CN %s]"
)

// Application describes what applying a credit note did.
type Application struct {
	// Entries is the full resulting entry list: the original entries with
	// the target possibly mutated, plus an optional balance-forward
	// invoice, plus the new CN entry.
	Entries []entity.LedgerEntry

	// Target is the adjusted copy of the first pending invoice, nil when
	// no pending invoice existed and the CN was left unattached.
	Target *entity.LedgerEntry

	// BalanceInvoice is the balance-forward invoice created when the CN
	// amount was smaller than the target's amount, nil otherwise.
	BalanceInvoice *entity.LedgerEntry

	// CreditNote is the CN entry that was appended.
	CreditNote entity.LedgerEntry
}

// ApplyCreditNote applies a credit note of the given amount against the
// current entry list and returns the new list. It is a pure function: the
// input slice and its entries are never mutated.
//
// Policy: only the first pending invoice (date ascending, stable) is ever
// touched. A CN equal to its amount settles it; a smaller CN adjusts it and
// carries the remainder into a balance-forward invoice; a larger CN settles
// it and silently drops the surplus. With no pending invoices the CN is
// appended unattached.
func ApplyCreditNote(entries []entity.LedgerEntry, amount decimal.Decimal, date, notes string) []entity.LedgerEntry {
	return Apply(entries, amount, date, notes).Entries
}

// Apply is ApplyCreditNote returning the full application report.
func Apply(entries []entity.LedgerEntry, amount decimal.Decimal, date, notes string) Application {
	result := make([]entity.LedgerEntry, len(entries))
	copy(result, entries)

	app := Application{}

	if idx, ok := firstPendingInvoice(result); ok {
		target := result[idx]
		diff := amount.Sub(target.InvoiceAmount)

		switch {
		case diff.Abs().LessThan(amountTolerance):
			target.Status = entity.StatusPaid
			target.Notes += settledAnnotation

		case amount.LessThan(target.InvoiceAmount):
			balance := target.InvoiceAmount.Sub(amount)
			target.Status = entity.StatusAdjusted
			target.Notes += fmt.Sprintf(adjustedAnnotation, amount.String())

			balanceInvoice := entity.NewBalanceForwardInvoice(&target, balance)
			result = append(result, *balanceInvoice)
			app.BalanceInvoice = balanceInvoice

		default:
			// Larger than the invoice: settle it and drop the surplus.
			// Only the single first pending invoice is ever touched.
			target.Status = entity.StatusPaid
			target.Notes += settledAnnotation
			slog.Warn("Credit note exceeds target invoice, surplus dropped",
				"invoiceNo", target.InvoiceNo,
				"surplus", diff.String(),
			)
		}

		result[idx] = target
		app.Target = &target
	}

	cn := entity.NewCreditNote(date, amount, notes)
	result = append(result, *cn)

	app.Entries = result
	app.CreditNote = *cn
	return app
}

// firstPendingInvoice returns the index of the pending invoice with the
// earliest date. Equal dates keep their pre-sort relative order.
func firstPendingInvoice(entries []entity.LedgerEntry) (int, bool) {
	var candidates []int
	for i, e := range entries {
		if e.Kind == entity.KindInvoice && e.Status == entity.StatusPending {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return 0, false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return entries[candidates[i]].Date < entries[candidates[j]].Date
	})

	return candidates[0], true
}

// ApplyCreditNoteInput represents the input for applying a credit note.
type ApplyCreditNoteInput struct {
	Amount decimal.Decimal
	Date   string
	Notes  string
}

// ApplyCreditNoteOutput represents the result of applying a credit note.
type ApplyCreditNoteOutput struct {
	CreditNote     *entity.LedgerEntry
	Target         *entity.LedgerEntry
	BalanceInvoice *entity.LedgerEntry
}

// ApplyCreditNoteUseCase validates the request, runs the pure engine over
// the current ledger and persists the outcome.
type ApplyCreditNoteUseCase struct {
	entryRepo adapter.EntryRepository
	snapshots adapter.SnapshotStore
}

// NewApplyCreditNoteUseCase creates a new ApplyCreditNoteUseCase instance.
func NewApplyCreditNoteUseCase(entryRepo adapter.EntryRepository, snapshots adapter.SnapshotStore) *ApplyCreditNoteUseCase {
	return &ApplyCreditNoteUseCase{
		entryRepo: entryRepo,
		snapshots: snapshots,
	}
}

// Execute applies a credit note against the ledger.
func (uc *ApplyCreditNoteUseCase) Execute(ctx context.Context, input ApplyCreditNoteInput) (*ApplyCreditNoteOutput, error) {
	if !input.Amount.IsPositive() {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidCreditNoteAmount,
			"credit note amount must be positive",
			domainerror.ErrInvalidCreditNoteAmount,
		)
	}
	if !entity.ValidDate(input.Date) {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidEntryDate,
			"date must be a valid YYYY-MM-DD calendar date",
			domainerror.ErrInvalidEntryDate,
		)
	}

	entries, err := uc.entryRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	app := Apply(entries, input.Amount, input.Date, input.Notes)

	if app.Target != nil {
		if err := uc.entryRepo.Update(ctx, app.Target); err != nil {
			return nil, fmt.Errorf("failed to update target invoice: %w", err)
		}
	}
	if app.BalanceInvoice != nil {
		if err := uc.entryRepo.Create(ctx, app.BalanceInvoice); err != nil {
			return nil, fmt.Errorf("failed to create balance invoice: %w", err)
		}
	}
	if err := uc.entryRepo.Create(ctx, &app.CreditNote); err != nil {
		return nil, fmt.Errorf("failed to create credit note: %w", err)
	}

	if uc.snapshots != nil {
		if err := uc.snapshots.Save(ctx, app.Entries); err != nil {
			slog.Warn("Failed to save ledger snapshot", "error", err)
		}
	}

	cn := app.CreditNote
	return &ApplyCreditNoteOutput{
		CreditNote:     &cn,
		Target:         app.Target,
		BalanceInvoice: app.BalanceInvoice,
	}, nil
}
