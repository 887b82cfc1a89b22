// Package ledgerview derives the visible, canonically ordered subset of the ledger.
package ledgerview

import (
	"sort"
	"strings"
	"unicode"

	"github.com/tyreledger/backend/internal/domain/entity"
)

// VisibleEntries returns the entries whose ISO date starts with periodKey
// (a YYYY-MM month, empty for no filter), sorted by date ascending and then
// by invoice number using numeric-aware comparison. Entries with equal date
// and invoice number retain their input order.
func VisibleEntries(all []entity.LedgerEntry, periodKey string) []entity.LedgerEntry {
	visible := make([]entity.LedgerEntry, 0, len(all))
	for _, e := range all {
		if periodKey == "" || strings.HasPrefix(e.Date, periodKey) {
			visible = append(visible, e)
		}
	}

	sort.SliceStable(visible, func(i, j int) bool {
		if visible[i].Date != visible[j].Date {
			// Lexicographic ISO comparison is date-correct.
			return visible[i].Date < visible[j].Date
		}
		return CompareNatural(visible[i].InvoiceNo, visible[j].InvoiceNo) < 0
	})

	return visible
}

// AvailableMonths returns the distinct YYYY-MM prefixes present in the
// ledger, most recent first, for use as filter choices.
func AvailableMonths(all []entity.LedgerEntry) []string {
	seen := make(map[string]struct{})
	var months []string
	for _, e := range all {
		if len(e.Date) < 7 {
			continue
		}
		month := e.Date[:7]
		if _, ok := seen[month]; ok {
			continue
		}
		seen[month] = struct{}{}
		months = append(months, month)
	}

	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	return months
}

// CompareNatural compares two strings case-insensitively with numeric-aware
// ordering: runs of digits are compared as integers, so "INV-2" sorts before
// "INV-10". It is locale-independent by construction.
func CompareNatural(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	i, j := 0, 0

	for i < len(ra) && j < len(rb) {
		if isDigit(ra[i]) && isDigit(rb[j]) {
			da, ni := digitRun(ra, i)
			db, nj := digitRun(rb, j)
			if c := compareDigitRuns(da, db); c != 0 {
				return c
			}
			i, j = ni, nj
			continue
		}

		ca := unicode.ToLower(ra[i])
		cb := unicode.ToLower(rb[j])
		if ca != cb {
			if ca < cb {
				return -1
			}
			return 1
		}
		i++
		j++
	}

	switch {
	case i < len(ra):
		return 1
	case j < len(rb):
		return -1
	default:
		return 0
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// digitRun returns the digit run starting at i and the index just past it.
func digitRun(rs []rune, i int) (string, int) {
	start := i
	for i < len(rs) && isDigit(rs[i]) {
		i++
	}
	return string(rs[start:i]), i
}

// compareDigitRuns compares two digit runs as integers without parsing,
// so arbitrarily long runs cannot overflow.
func compareDigitRuns(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
