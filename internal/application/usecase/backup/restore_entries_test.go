package backup

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tyreledger/backend/internal/domain/entity"
	domainerror "github.com/tyreledger/backend/internal/domain/error"
)

func TestParseEntryList_RejectsNonListPayloads(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"object", `{"entries": []}`},
		{"string", `"not a list"`},
		{"number", `42`},
		{"null", `null`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseEntryList([]byte(tc.payload))
			if err == nil {
				t.Fatal("expected an error")
			}
			var lgrErr *domainerror.LedgerError
			if !errors.As(err, &lgrErr) {
				t.Fatalf("expected a LedgerError, got %T", err)
			}
			if lgrErr.Code != domainerror.ErrCodeRestorePayloadNotList {
				t.Errorf("expected code %s, got %s", domainerror.ErrCodeRestorePayloadNotList, lgrErr.Code)
			}
		})
	}
}

func TestParseEntryList_RejectsMalformedJSON(t *testing.T) {
	_, err := ParseEntryList([]byte(`[{`))
	if err == nil {
		t.Fatal("expected an error")
	}
	var lgrErr *domainerror.LedgerError
	if !errors.As(err, &lgrErr) {
		t.Fatalf("expected a LedgerError, got %T", err)
	}
	if lgrErr.Code != domainerror.ErrCodeRestorePayloadInvalid {
		t.Errorf("expected code %s, got %s", domainerror.ErrCodeRestorePayloadInvalid, lgrErr.Code)
	}
}

func TestParseEntryList_EmptyListIsValid(t *testing.T) {
	entries, err := ParseEntryList([]byte(`[]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}

func TestParseEntryList_RoundTripsExportedEntries(t *testing.T) {
	inv := entity.NewInvoice("2024-01-10", "INV-1", []entity.InvoiceItem{
		{ID: uuid.New(), Size: "195/55-R16", Pattern: "Tubeless", Quantity: 4, UnitPrice: decimal.NewFromInt(2500)},
	}, "", "", 0, decimal.Zero, "first sale")
	pay := entity.NewPayment("2024-01-20", decimal.NewFromInt(5000), "")
	original := []entity.LedgerEntry{*inv, *pay}

	payload, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	restored, err := ParseEntryList(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(restored) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(restored))
	}

	if restored[0].ID != inv.ID {
		t.Error("invoice ID not preserved")
	}
	if restored[0].InvoiceNo != "INV-1" || restored[0].Kind != entity.KindInvoice {
		t.Errorf("invoice fields not preserved: %+v", restored[0])
	}
	if !restored[0].InvoiceAmount.Equal(inv.InvoiceAmount) {
		t.Errorf("invoice amount = %s, want %s", restored[0].InvoiceAmount, inv.InvoiceAmount)
	}
	if len(restored[0].Items) != 1 || restored[0].Items[0].Quantity != 4 {
		t.Errorf("invoice items not preserved: %+v", restored[0].Items)
	}
	if !restored[1].PaymentAmount.Equal(pay.PaymentAmount) {
		t.Errorf("payment amount = %s, want %s", restored[1].PaymentAmount, pay.PaymentAmount)
	}
}

func TestParseEntryList_AssignsIDsToLegacyEntries(t *testing.T) {
	payload := []byte(`[{"kind":"PAYMENT","date":"2024-01-05","invoiceNo":"PAYMENT","paymentAmount":"1500"}]`)

	entries, err := ParseEntryList(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].ID == uuid.Nil {
		t.Error("expected a fresh ID for an entry without one")
	}
}
