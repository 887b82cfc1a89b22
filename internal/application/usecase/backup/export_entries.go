// Package backup contains export and restore use cases for the whole ledger.
package backup

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/tyreledger/backend/internal/application/adapter"
	"github.com/tyreledger/backend/internal/domain/entity"
)

// ExportEntriesOutput carries the full entry list for JSON export.
// JSON export includes every field, so an export/restore round-trip loses
// no information.
type ExportEntriesOutput struct {
	Entries []entity.LedgerEntry
}

// ExportEntriesUseCase reads the full ledger for export.
type ExportEntriesUseCase struct {
	entryRepo adapter.EntryRepository
}

// NewExportEntriesUseCase creates a new ExportEntriesUseCase instance.
func NewExportEntriesUseCase(entryRepo adapter.EntryRepository) *ExportEntriesUseCase {
	return &ExportEntriesUseCase{
		entryRepo: entryRepo,
	}
}

// Execute returns the complete entry list.
func (uc *ExportEntriesUseCase) Execute(ctx context.Context) (*ExportEntriesOutput, error) {
	entries, err := uc.entryRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	return &ExportEntriesOutput{Entries: entries}, nil
}

// csvHeader is the column set of the denormalized CSV export. Multi-item
// invoices emit one row per item; the CSV surface is intentionally lossy
// and is not expected to round-trip.
var csvHeader = []string{
	"id", "kind", "date", "invoiceNo", "size", "pattern", "quantity",
	"unitPrice", "invoiceAmount", "paymentAmount", "cnAmount",
	"dueDate", "status", "originalRefId", "notes",
}

// ExportCSVOutput carries the rendered CSV document.
type ExportCSVOutput struct {
	Data []byte
}

// ExportCSVUseCase renders the ledger as a denormalized CSV document.
type ExportCSVUseCase struct {
	entryRepo adapter.EntryRepository
}

// NewExportCSVUseCase creates a new ExportCSVUseCase instance.
func NewExportCSVUseCase(entryRepo adapter.EntryRepository) *ExportCSVUseCase {
	return &ExportCSVUseCase{
		entryRepo: entryRepo,
	}
}

// Execute renders the CSV export.
func (uc *ExportCSVUseCase) Execute(ctx context.Context) (*ExportCSVOutput, error) {
	entries, err := uc.entryRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i := range entries {
		for _, row := range csvRows(&entries[i]) {
			if err := w.Write(row); err != nil {
				return nil, fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}

	return &ExportCSVOutput{Data: buf.Bytes()}, nil
}

// csvRows renders one entry: a single row for payments, CNs and legacy
// single-line invoices, one row per item for multi-item invoices.
func csvRows(e *entity.LedgerEntry) [][]string {
	originalRef := ""
	if e.OriginalRefID != nil {
		originalRef = e.OriginalRefID.String()
	}

	base := func(size, pattern string, quantity int, unitPrice string) []string {
		return []string{
			e.ID.String(),
			string(e.Kind),
			e.Date,
			e.InvoiceNo,
			size,
			pattern,
			strconv.Itoa(quantity),
			unitPrice,
			e.InvoiceAmount.String(),
			e.PaymentAmount.String(),
			e.CNAmount.String(),
			e.DueDate,
			string(e.Status),
			originalRef,
			e.Notes,
		}
	}

	if e.Kind != entity.KindInvoice {
		return [][]string{base("", "", 0, "0")}
	}

	items := e.ResolveItems()
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, base(item.Size, item.Pattern, item.Quantity, item.UnitPrice.String()))
	}
	return rows
}
