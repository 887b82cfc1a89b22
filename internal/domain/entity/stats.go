package entity

import "github.com/shopspring/decimal"

// LedgerStats holds the derived financial and category metrics.
// TotalInvoiced/TotalPaid/TotalCN and the quantity buckets are scoped to the
// currently visible (filtered) entries; Outstanding is always computed over
// the entire ledger regardless of any active filter.
type LedgerStats struct {
	TotalInvoiced decimal.Decimal
	TotalPaid     decimal.Decimal
	TotalCN       decimal.Decimal
	Outstanding   decimal.Decimal

	QtyPCR      int
	QtyNylon    int
	Qty2Wheeler int
}
