// Package stats contains the ledger metrics engine.
package stats

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/tyreledger/backend/internal/domain/entity"
)

// SizeCategory is the tyre category a size code classifies into.
type SizeCategory string

const (
	CategoryPCR      SizeCategory = "pcr"
	CategoryNylon    SizeCategory = "nylon"
	Category2Wheeler SizeCategory = "2wheeler"
	CategoryNone     SizeCategory = ""
)

// ClassifySize buckets a tyre size code. The code is trimmed and uppercased;
// a code containing R is PCR (checked before D, so a code with both counts
// only as PCR), else one containing D is nylon, else one with no letters at
// all is 2-wheeler. Empty codes and codes with only unrelated letters are
// uncategorized.
func ClassifySize(size string) SizeCategory {
	code := strings.ToUpper(strings.TrimSpace(size))
	if code == "" {
		return CategoryNone
	}

	if strings.ContainsRune(code, 'R') {
		return CategoryPCR
	}
	if strings.ContainsRune(code, 'D') {
		return CategoryNylon
	}
	if !containsLetter(code) {
		return Category2Wheeler
	}
	return CategoryNone
}

func containsLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// ComputeStats derives the ledger metrics. It is pure and total: it never
// fails for any well-formed entry list, including empty ones.
//
// Two scopes are mixed in one result: the period totals and category
// quantities are accumulated over visible (the filtered view), while
// Outstanding is recomputed over all entries so it always reflects total
// outstanding debt across the entire ledger.
func ComputeStats(visible, all []entity.LedgerEntry) entity.LedgerStats {
	s := entity.LedgerStats{
		TotalInvoiced: decimal.Zero,
		TotalPaid:     decimal.Zero,
		TotalCN:       decimal.Zero,
		Outstanding:   decimal.Zero,
	}

	// Scoped pass: totals and category quantities over the visible view.
	// Balance-forward invoices are excluded from the invoiced total and
	// from the quantity buckets.
	for i := range visible {
		e := &visible[i]
		switch e.Kind {
		case entity.KindInvoice:
			if !e.IsOriginalSale() {
				continue
			}
			s.TotalInvoiced = s.TotalInvoiced.Add(e.InvoiceAmount)
			for _, item := range e.ResolveItems() {
				switch ClassifySize(item.Size) {
				case CategoryPCR:
					s.QtyPCR += item.Quantity
				case CategoryNylon:
					s.QtyNylon += item.Quantity
				case Category2Wheeler:
					s.Qty2Wheeler += item.Quantity
				}
			}
		case entity.KindPayment:
			s.TotalPaid = s.TotalPaid.Add(e.PaymentAmount)
		case entity.KindCreditNote:
			s.TotalCN = s.TotalCN.Add(e.CNAmount)
		}
	}

	// Global pass: the outstanding balance ignores any active filter.
	// Balance-forward invoices do count here through their own amount.
	globalInvoiced := decimal.Zero
	globalPaid := decimal.Zero
	globalCN := decimal.Zero
	for i := range all {
		e := &all[i]
		switch e.Kind {
		case entity.KindInvoice:
			if e.IsOriginalSale() {
				globalInvoiced = globalInvoiced.Add(e.InvoiceAmount)
			}
		case entity.KindPayment:
			globalPaid = globalPaid.Add(e.PaymentAmount)
		case entity.KindCreditNote:
			globalCN = globalCN.Add(e.CNAmount)
		}
	}
	s.Outstanding = globalInvoiced.Sub(globalPaid).Sub(globalCN)

	return s
}
