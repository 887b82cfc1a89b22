package entry

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tyreledger/backend/internal/application/adapter"
	"github.com/tyreledger/backend/internal/domain/entity"
	domainerror "github.com/tyreledger/backend/internal/domain/error"
)

// CreateInvoiceInput represents the input for invoice creation. Either Items
// (multi-item path) or the legacy scalar line fields describe the sale.
type CreateInvoiceInput struct {
	Date      string
	InvoiceNo string
	Items     []ItemInput
	Size      string
	Pattern   string
	Quantity  int
	UnitPrice decimal.Decimal
	Notes     string
}

// CreateInvoiceOutput represents the output of invoice creation.
type CreateInvoiceOutput struct {
	Entry *entity.LedgerEntry
}

// CreateInvoiceUseCase handles invoice creation logic.
type CreateInvoiceUseCase struct {
	entryRepo adapter.EntryRepository
	snapshots adapter.SnapshotStore
}

// NewCreateInvoiceUseCase creates a new CreateInvoiceUseCase instance.
func NewCreateInvoiceUseCase(entryRepo adapter.EntryRepository, snapshots adapter.SnapshotStore) *CreateInvoiceUseCase {
	return &CreateInvoiceUseCase{
		entryRepo: entryRepo,
		snapshots: snapshots,
	}
}

// Execute performs the invoice creation. Validation failures reject the
// request before anything is persisted.
func (uc *CreateInvoiceUseCase) Execute(ctx context.Context, input CreateInvoiceInput) (*CreateInvoiceOutput, error) {
	if !entity.ValidDate(input.Date) {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidEntryDate,
			"date must be a valid YYYY-MM-DD calendar date",
			domainerror.ErrInvalidEntryDate,
		)
	}
	if strings.TrimSpace(input.InvoiceNo) == "" {
		return nil, domainerror.NewLedgerError(
			domainerror.ErrCodeInvalidInvoiceNo,
			"invoice number is required",
			domainerror.ErrInvalidInvoiceNo,
		)
	}

	var items []entity.InvoiceItem
	if len(input.Items) > 0 {
		items = make([]entity.InvoiceItem, 0, len(input.Items))
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
	} else {
		if err := validateItem(input.Quantity, input.UnitPrice); err != nil {
			return nil, err
		}
	}

	invoice := entity.NewInvoice(
		input.Date,
		strings.TrimSpace(input.InvoiceNo),
		items,
		input.Size,
		input.Pattern,
		input.Quantity,
		input.UnitPrice,
		input.Notes,
	)

	if err := uc.entryRepo.Create(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	refreshSnapshot(ctx, uc.entryRepo, uc.snapshots)

	return &CreateInvoiceOutput{Entry: invoice}, nil
}
