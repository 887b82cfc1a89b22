// Package ledgerview derives the visible, canonically ordered subset of the ledger.
package ledgerview

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tyreledger/backend/internal/domain/entity"
)

func invoiceOn(date, invoiceNo string) entity.LedgerEntry {
	inv := entity.NewInvoice(date, invoiceNo, nil, "195/55-R16", "", 1, decimal.NewFromInt(100), "")
	return *inv
}

func invoiceNos(entries []entity.LedgerEntry) []string {
	nos := make([]string, len(entries))
	for i, e := range entries {
		nos[i] = e.InvoiceNo
	}
	return nos
}

func TestCompareNatural(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"INV-2", "INV-10", -1},
		{"INV-10", "INV-2", 1},
		{"INV-2", "INV-2", 0},
		{"inv-2", "INV-2", 0},
		{"INV-002", "INV-2", 0},
		{"A-1-5", "A-1-40", -1},
		{"INV", "INV-1", -1},
		{"10", "9", 1},
		// Digit runs longer than an int64 still compare correctly.
		{"INV-99999999999999999998", "INV-99999999999999999999", -1},
		{"PAYMENT", "CN", 1},
	}

	for _, tc := range cases {
		t.Run(tc.a+" vs "+tc.b, func(t *testing.T) {
			got := CompareNatural(tc.a, tc.b)
			if (got < 0) != (tc.want < 0) || (got > 0) != (tc.want > 0) {
				t.Errorf("CompareNatural(%q, %q) = %d, want sign of %d", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestVisibleEntries_SortsByDateThenInvoiceNo(t *testing.T) {
	all := []entity.LedgerEntry{
		invoiceOn("2024-02-01", "INV-10"),
		invoiceOn("2024-01-15", "INV-10"),
		invoiceOn("2024-01-15", "INV-2"),
		invoiceOn("2024-01-10", "INV-7"),
	}

	visible := VisibleEntries(all, "")

	want := []string{"INV-7", "INV-2", "INV-10", "INV-10"}
	got := invoiceNos(visible)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	if visible[3].Date != "2024-02-01" {
		t.Errorf("expected the February invoice last, got date %s", visible[3].Date)
	}
}

func TestVisibleEntries_MonthFilter(t *testing.T) {
	all := []entity.LedgerEntry{
		invoiceOn("2024-01-10", "INV-1"),
		invoiceOn("2024-02-05", "INV-2"),
		invoiceOn("2024-01-25", "INV-3"),
	}

	visible := VisibleEntries(all, "2024-01")

	if len(visible) != 2 {
		t.Fatalf("expected 2 January entries, got %d", len(visible))
	}
	for _, e := range visible {
		if e.Date[:7] != "2024-01" {
			t.Errorf("entry %s leaked through the filter with date %s", e.InvoiceNo, e.Date)
		}
	}
}

func TestVisibleEntries_NoMatchReturnsEmpty(t *testing.T) {
	all := []entity.LedgerEntry{
		invoiceOn("2024-01-10", "INV-1"),
	}

	visible := VisibleEntries(all, "2030-12")
	if len(visible) != 0 {
		t.Errorf("expected empty view, got %d entries", len(visible))
	}
}

func TestVisibleEntries_EqualKeysKeepLedgerOrder(t *testing.T) {
	first := invoiceOn("2024-01-15", "INV-1")
	first.Notes = "first"
	second := invoiceOn("2024-01-15", "INV-1")
	second.Notes = "second"

	visible := VisibleEntries([]entity.LedgerEntry{first, second}, "")

	if visible[0].Notes != "first" || visible[1].Notes != "second" {
		t.Error("entries with equal date and invoiceNo must keep their input order")
	}
}

func TestVisibleEntries_DoesNotMutateInput(t *testing.T) {
	all := []entity.LedgerEntry{
		invoiceOn("2024-02-01", "INV-2"),
		invoiceOn("2024-01-01", "INV-1"),
	}

	VisibleEntries(all, "")

	if all[0].InvoiceNo != "INV-2" {
		t.Error("input slice order mutated")
	}
}

func TestAvailableMonths_DistinctDescending(t *testing.T) {
	all := []entity.LedgerEntry{
		invoiceOn("2024-01-10", "INV-1"),
		invoiceOn("2024-03-05", "INV-2"),
		invoiceOn("2024-01-25", "INV-3"),
		invoiceOn("2023-12-01", "INV-4"),
	}

	months := AvailableMonths(all)

	want := []string{"2024-03", "2024-01", "2023-12"}
	if len(months) != len(want) {
		t.Fatalf("months = %v, want %v", months, want)
	}
	for i := range want {
		if months[i] != want[i] {
			t.Fatalf("months = %v, want %v", months, want)
		}
	}
}

func TestAvailableMonths_EmptyLedger(t *testing.T) {
	if months := AvailableMonths(nil); len(months) != 0 {
		t.Errorf("expected no months, got %v", months)
	}
}
