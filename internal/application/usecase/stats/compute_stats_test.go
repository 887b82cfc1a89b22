// Package stats contains the ledger metrics engine.
package stats

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tyreledger/backend/internal/domain/entity"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}

func TestClassifySize(t *testing.T) {
	cases := []struct {
		size string
		want SizeCategory
	}{
		{"195/55-R16", CategoryPCR},
		{"165/80 R14", CategoryPCR},
		{"155r13", CategoryPCR},
		{"100/90-D17", CategoryNylon},
		{"9.00-d20", CategoryNylon},
		// R wins when both letters appear.
		{"RD-10", CategoryPCR},
		{"90/100", Category2Wheeler},
		{"3.00-18", Category2Wheeler},
		{"", CategoryNone},
		{"   ", CategoryNone},
		{"XL", CategoryNone},
		{"Balance Forward", CategoryPCR}, // contains 'r'
	}

	for _, tc := range cases {
		t.Run(tc.size, func(t *testing.T) {
			if got := ClassifySize(tc.size); got != tc.want {
				t.Errorf("ClassifySize(%q) = %q, want %q", tc.size, got, tc.want)
			}
		})
	}
}

func TestComputeStats_EmptyLedger(t *testing.T) {
	s := ComputeStats(nil, nil)

	if !s.TotalInvoiced.IsZero() || !s.TotalPaid.IsZero() || !s.TotalCN.IsZero() || !s.Outstanding.IsZero() {
		t.Errorf("expected all-zero stats for empty ledger, got %+v", s)
	}
	if s.QtyPCR != 0 || s.QtyNylon != 0 || s.Qty2Wheeler != 0 {
		t.Errorf("expected zero quantities, got %+v", s)
	}
}

func TestComputeStats_TotalsAndBuckets(t *testing.T) {
	inv1 := entity.NewInvoice("2024-01-10", "INV-1", []entity.InvoiceItem{
		{Size: "195/55-R16", Quantity: 4, UnitPrice: mustDecimal(t, "2500")},
		{Size: "100/90-D17", Quantity: 2, UnitPrice: mustDecimal(t, "1200")},
	}, "", "", 0, decimal.Zero, "")
	inv2 := entity.NewInvoice("2024-01-15", "INV-2", nil, "90/100", "Street", 6, mustDecimal(t, "800"), "")
	pay := entity.NewPayment("2024-01-20", mustDecimal(t, "5000"), "")
	cn := entity.NewCreditNote("2024-01-25", mustDecimal(t, "1000"), "")

	all := []entity.LedgerEntry{*inv1, *inv2, *pay, *cn}

	s := ComputeStats(all, all)

	// 4*2500 + 2*1200 = 12400; 6*800 = 4800.
	if !s.TotalInvoiced.Equal(mustDecimal(t, "17200")) {
		t.Errorf("TotalInvoiced = %s, want 17200", s.TotalInvoiced)
	}
	if !s.TotalPaid.Equal(mustDecimal(t, "5000")) {
		t.Errorf("TotalPaid = %s, want 5000", s.TotalPaid)
	}
	if !s.TotalCN.Equal(mustDecimal(t, "1000")) {
		t.Errorf("TotalCN = %s, want 1000", s.TotalCN)
	}
	if !s.Outstanding.Equal(mustDecimal(t, "11200")) {
		t.Errorf("Outstanding = %s, want 11200", s.Outstanding)
	}

	if s.QtyPCR != 4 {
		t.Errorf("QtyPCR = %d, want 4", s.QtyPCR)
	}
	if s.QtyNylon != 2 {
		t.Errorf("QtyNylon = %d, want 2", s.QtyNylon)
	}
	if s.Qty2Wheeler != 6 {
		t.Errorf("Qty2Wheeler = %d, want 6", s.Qty2Wheeler)
	}
}

func TestComputeStats_BalanceForwardExcludedFromInvoicedAndBuckets(t *testing.T) {
	inv := entity.NewInvoice("2024-01-10", "INV-1", nil, "195/55-R16", "Tubeless", 2, mustDecimal(t, "500"), "")
	inv.Status = entity.StatusAdjusted
	bal := entity.NewBalanceForwardInvoice(inv, mustDecimal(t, "600"))
	cn := entity.NewCreditNote("2024-01-20", mustDecimal(t, "400"), "")

	all := []entity.LedgerEntry{*inv, *bal, *cn}

	s := ComputeStats(all, all)

	if !s.TotalInvoiced.Equal(mustDecimal(t, "1000")) {
		t.Errorf("TotalInvoiced = %s, want 1000 (balance-forward excluded)", s.TotalInvoiced)
	}
	// Only the original sale's items bucket.
	if s.QtyPCR != 2 {
		t.Errorf("QtyPCR = %d, want 2", s.QtyPCR)
	}
	// 1000 - 0 - 400: the balance-forward invoice never double-counts.
	if !s.Outstanding.Equal(mustDecimal(t, "600")) {
		t.Errorf("Outstanding = %s, want 600", s.Outstanding)
	}
}

func TestComputeStats_OutstandingIgnoresFilter(t *testing.T) {
	janInv := entity.NewInvoice("2024-01-10", "INV-1", nil, "195/55-R16", "", 1, mustDecimal(t, "1000"), "")
	febInv := entity.NewInvoice("2024-02-10", "INV-2", nil, "195/55-R16", "", 1, mustDecimal(t, "2000"), "")
	febPay := entity.NewPayment("2024-02-15", mustDecimal(t, "500"), "")

	all := []entity.LedgerEntry{*janInv, *febInv, *febPay}
	visible := []entity.LedgerEntry{*janInv} // January filter

	s := ComputeStats(visible, all)

	if !s.TotalInvoiced.Equal(mustDecimal(t, "1000")) {
		t.Errorf("TotalInvoiced = %s, want the scoped 1000", s.TotalInvoiced)
	}
	if !s.TotalPaid.IsZero() {
		t.Errorf("TotalPaid = %s, want the scoped 0", s.TotalPaid)
	}
	// Outstanding spans the whole ledger: 3000 - 500.
	if !s.Outstanding.Equal(mustDecimal(t, "2500")) {
		t.Errorf("Outstanding = %s, want the global 2500", s.Outstanding)
	}
}
