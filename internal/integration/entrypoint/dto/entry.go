// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"github.com/shopspring/decimal"

	"github.com/tyreledger/backend/internal/application/usecase/entry"
	"github.com/tyreledger/backend/internal/domain/entity"
)

// InvoiceItemRequest represents one line item in an invoice request.
type InvoiceItemRequest struct {
	Size      string  `json:"size"`
	Pattern   string  `json:"pattern"`
	Quantity  int     `json:"quantity" binding:"required"`
	UnitPrice float64 `json:"unitPrice" binding:"required"`
}

// CreateInvoiceRequest represents the request body for invoice creation.
// Either items or the legacy single-line fields describe the sale.
type CreateInvoiceRequest struct {
	Date      string               `json:"date" binding:"required"`
	InvoiceNo string               `json:"invoiceNo" binding:"required"`
	Items     []InvoiceItemRequest `json:"items,omitempty"`
	Size      string               `json:"size,omitempty"`
	Pattern   string               `json:"pattern,omitempty"`
	Quantity  int                  `json:"quantity,omitempty"`
	UnitPrice float64              `json:"unitPrice,omitempty"`
	Notes     string               `json:"notes,omitempty"`
}

// RecordPaymentRequest represents the request body for recording a payment.
type RecordPaymentRequest struct {
	Date   string  `json:"date" binding:"required"`
	Amount float64 `json:"amount" binding:"required"`
	Notes  string  `json:"notes,omitempty"`
}

// ApplyCreditNoteRequest represents the request body for applying a credit note.
type ApplyCreditNoteRequest struct {
	Date   string  `json:"date" binding:"required"`
	Amount float64 `json:"amount" binding:"required"`
	Notes  string  `json:"notes,omitempty"`
}

// UpdateEntryRequest represents the request body for an in-place entry edit.
type UpdateEntryRequest struct {
	Date      string               `json:"date" binding:"required"`
	InvoiceNo string               `json:"invoiceNo,omitempty"`
	Items     []InvoiceItemRequest `json:"items,omitempty"`
	Size      string               `json:"size,omitempty"`
	Pattern   string               `json:"pattern,omitempty"`
	Quantity  int                  `json:"quantity,omitempty"`
	UnitPrice float64              `json:"unitPrice,omitempty"`
	Amount    float64              `json:"amount,omitempty"`
	Notes     string               `json:"notes,omitempty"`
}

// StatsResponse represents the derived metrics for the visible view.
type StatsResponse struct {
	TotalInvoiced string `json:"totalInvoiced"`
	TotalPaid     string `json:"totalPaid"`
	TotalCN       string `json:"totalCN"`
	Outstanding   string `json:"outstanding"`
	QtyPCR        int    `json:"qtyPCR"`
	QtyNylon      int    `json:"qtyNylon"`
	Qty2Wheeler   int    `json:"qty2Wheeler"`
}

// ListEntriesResponse represents the response for listing entries.
type ListEntriesResponse struct {
	Entries []entity.LedgerEntry `json:"entries"`
	Stats   StatsResponse        `json:"stats"`
	Months  []string             `json:"months"`
}

// ApplyCreditNoteResponse reports what applying a credit note did.
type ApplyCreditNoteResponse struct {
	CreditNote     *entity.LedgerEntry `json:"creditNote"`
	Target         *entity.LedgerEntry `json:"target,omitempty"`
	BalanceInvoice *entity.LedgerEntry `json:"balanceInvoice,omitempty"`
}

// ToItemInputs converts request line items to use case inputs.
func ToItemInputs(items []InvoiceItemRequest) []entry.ItemInput {
	if len(items) == 0 {
		return nil
	}
	inputs := make([]entry.ItemInput, 0, len(items))
	for _, it := range items {
		inputs = append(inputs, entry.ItemInput{
			Size:      it.Size,
			Pattern:   it.Pattern,
			Quantity:  it.Quantity,
			UnitPrice: decimal.NewFromFloat(it.UnitPrice),
		})
	}
	return inputs
}

// ToStatsResponse converts LedgerStats to its response DTO.
func ToStatsResponse(s entity.LedgerStats) StatsResponse {
	return StatsResponse{
		TotalInvoiced: s.TotalInvoiced.String(),
		TotalPaid:     s.TotalPaid.String(),
		TotalCN:       s.TotalCN.String(),
		Outstanding:   s.Outstanding.String(),
		QtyPCR:        s.QtyPCR,
		QtyNylon:      s.QtyNylon,
		Qty2Wheeler:   s.Qty2Wheeler,
	}
}
