// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryKind represents the kind of ledger entry.
type EntryKind string

const (
	KindInvoice    EntryKind = "INVOICE"
	KindPayment    EntryKind = "PAYMENT"
	KindCreditNote EntryKind = "CN"
)

// InvoiceStatus represents the settlement state of an invoice.
// Status only moves PENDING -> PAID or PENDING -> ADJUSTED; the engine
// never reopens a settled invoice.
type InvoiceStatus string

const (
	StatusPending  InvoiceStatus = "PENDING"
	StatusPaid     InvoiceStatus = "PAID"
	StatusAdjusted InvoiceStatus = "ADJUSTED"
)

const (
	// PaymentInvoiceNo is the sentinel invoiceNo label for payment entries.
	PaymentInvoiceNo = "PAYMENT"
	// CreditNoteInvoiceNo is the sentinel invoiceNo label for credit note entries.
	CreditNoteInvoiceNo = "CN"
	// BalanceForwardSuffix is appended to the source invoice number of a split.
	BalanceForwardSuffix = "-BAL"
	// DueDateDays is the payment term applied to every invoice.
	DueDateDays = 30

	// DateLayout is the ISO calendar date layout used everywhere in the ledger.
	DateLayout = "2006-01-02"
)

// InvoiceItem is one priced line within a multi-size invoice.
type InvoiceItem struct {
	ID        uuid.UUID       `json:"id"`
	Size      string          `json:"size"`
	Pattern   string          `json:"pattern"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// LedgerEntry is one record in the ledger: an invoice, a payment, or a
// credit note. Exactly one of InvoiceAmount/PaymentAmount/CNAmount is
// meaningful, selected by Kind.
type LedgerEntry struct {
	ID        uuid.UUID `json:"id"`
	Kind      EntryKind `json:"kind"`
	Date      string    `json:"date"` // ISO YYYY-MM-DD
	InvoiceNo string    `json:"invoiceNo"`

	// Items is set on invoices created through the multi-item path.
	// When empty, the legacy scalar fields below describe a single
	// implicit item.
	Items     []InvoiceItem   `json:"items,omitempty"`
	Size      string          `json:"size,omitempty"`
	Pattern   string          `json:"pattern,omitempty"`
	Quantity  int             `json:"quantity,omitempty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`

	InvoiceAmount decimal.Decimal `json:"invoiceAmount"`
	DueDate       string          `json:"dueDate,omitempty"`
	Status        InvoiceStatus   `json:"status,omitempty"`

	// OriginalRefID points to the invoice this entry was split from.
	// Set only on balance-forward invoices created by the CN engine.
	OriginalRefID *uuid.UUID `json:"originalRefId,omitempty"`

	PaymentAmount decimal.Decimal `json:"paymentAmount"`
	CNAmount      decimal.Decimal `json:"cnAmount"`

	// Notes is append-only: the CN engine records automated adjustments
	// by appending, never overwriting.
	Notes string `json:"notes"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewInvoice creates an INVOICE entry. The total is derived from the items
// (or from the legacy scalar line when items is empty), rounded to the
// nearest integer currency unit, and the due date is date + 30 days.
func NewInvoice(date, invoiceNo string, items []InvoiceItem, size, pattern string, quantity int, unitPrice decimal.Decimal, notes string) *LedgerEntry {
	now := time.Now().UTC()

	e := &LedgerEntry{
		ID:        uuid.New(),
		Kind:      KindInvoice,
		Date:      date,
		InvoiceNo: invoiceNo,
		Items:     items,
		Size:      size,
		Pattern:   pattern,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		DueDate:   DueDateFor(date),
		Status:    StatusPending,
		Notes:     notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	e.InvoiceAmount = e.computeTotal()

	return e
}

// NewPayment creates a PAYMENT entry with the fixed sentinel invoiceNo.
func NewPayment(date string, amount decimal.Decimal, notes string) *LedgerEntry {
	now := time.Now().UTC()

	return &LedgerEntry{
		ID:            uuid.New(),
		Kind:          KindPayment,
		Date:          date,
		InvoiceNo:     PaymentInvoiceNo,
		PaymentAmount: amount,
		Notes:         notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// NewCreditNote creates a CN entry with the fixed sentinel invoiceNo.
func NewCreditNote(date string, amount decimal.Decimal, notes string) *LedgerEntry {
	now := time.Now().UTC()

	return &LedgerEntry{
		ID:        uuid.New(),
		Kind:      KindCreditNote,
		Date:      date,
		InvoiceNo: CreditNoteInvoiceNo,
		CNAmount:  amount,
		Notes:     notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewBalanceForwardInvoice creates the synthetic invoice carrying the unpaid
// remainder after a partial CN adjustment. It inherits the target's date and
// due date, references the target through OriginalRefID, and starts PENDING.
func NewBalanceForwardInvoice(target *LedgerEntry, balance decimal.Decimal) *LedgerEntry {
	now := time.Now().UTC()
	refID := target.ID

	return &LedgerEntry{
		ID:            uuid.New(),
		Kind:          KindInvoice,
		Date:          target.Date,
		InvoiceNo:     target.InvoiceNo + BalanceForwardSuffix,
		Size:          "Balance Forward",
		Pattern:       "-",
		Quantity:      1,
		UnitPrice:     balance,
		InvoiceAmount: balance,
		DueDate:       target.DueDate,
		Status:        StatusPending,
		OriginalRefID: &refID,
		Notes:         target.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// IsOriginalSale reports whether the entry is an invoice that is not itself
// a balance-forward split. Only original sales count toward invoiced totals
// and category quantities.
func (e *LedgerEntry) IsOriginalSale() bool {
	return e.Kind == KindInvoice && e.OriginalRefID == nil
}

// ResolveItems returns the invoice's line items, synthesizing one implicit
// item from the legacy scalar fields when Items is empty.
func (e *LedgerEntry) ResolveItems() []InvoiceItem {
	if len(e.Items) > 0 {
		return e.Items
	}
	return []InvoiceItem{{
		ID:        e.ID,
		Size:      e.Size,
		Pattern:   e.Pattern,
		Quantity:  e.Quantity,
		UnitPrice: e.UnitPrice,
	}}
}

// Recalculate refreshes the derived invoice fields (total and due date)
// after an edit. It is a no-op for non-invoice entries.
func (e *LedgerEntry) Recalculate() {
	if e.Kind != KindInvoice {
		return
	}
	e.InvoiceAmount = e.computeTotal()
	e.DueDate = DueDateFor(e.Date)
}

// computeTotal sums quantity * unitPrice over the resolved items and rounds
// to the nearest integer currency unit.
func (e *LedgerEntry) computeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range e.ResolveItems() {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total.Round(0)
}

// DueDateFor returns date + 30 days in ISO form. An unparseable date is
// returned unchanged; callers validate dates before entries are created.
func DueDateFor(date string) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, DueDateDays).Format(DateLayout)
}

// ValidDate reports whether date is a well-formed ISO calendar date.
func ValidDate(date string) bool {
	_, err := time.Parse(DateLayout, date)
	return err == nil
}
