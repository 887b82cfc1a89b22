// Package reminder contains the overdue invoice reminder use case.
package reminder

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tyreledger/backend/internal/domain/entity"
	domainerror "github.com/tyreledger/backend/internal/domain/error"
	"github.com/tyreledger/backend/internal/integration/email"
)

// stubEntryRepo serves a fixed entry list.
type stubEntryRepo struct {
	entries []entity.LedgerEntry
	err     error
}

func (s *stubEntryRepo) ListAll(ctx context.Context) ([]entity.LedgerEntry, error) {
	return s.entries, s.err
}

func (s *stubEntryRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.LedgerEntry, error) {
	return nil, nil
}

func (s *stubEntryRepo) Create(ctx context.Context, e *entity.LedgerEntry) error { return nil }

func (s *stubEntryRepo) Update(ctx context.Context, e *entity.LedgerEntry) error { return nil }

func (s *stubEntryRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) { return false, nil }

func (s *stubEntryRepo) ReplaceAll(ctx context.Context, entries []entity.LedgerEntry) error {
	return nil
}

func pendingInvoice(date, invoiceNo string, amount int64) entity.LedgerEntry {
	inv := entity.NewInvoice(date, invoiceNo, nil, "195/55-R16", "", 1, decimal.NewFromInt(amount), "")
	return *inv
}

func TestSendOverdueReminder_SendsSummary(t *testing.T) {
	overdue1 := pendingInvoice("2024-01-01", "INV-1", 1000) // due 2024-01-31
	overdue2 := pendingInvoice("2024-01-10", "INV-2", 500)  // due 2024-02-09
	current := pendingInvoice("2024-02-20", "INV-3", 700)   // due 2024-03-21

	settled := pendingInvoice("2024-01-05", "INV-4", 300)
	settled.Status = entity.StatusPaid

	repo := &stubEntryRepo{entries: []entity.LedgerEntry{overdue1, overdue2, current, settled}}
	sender := email.NewMockEmailSender()

	uc := NewSendOverdueReminderUseCase(repo, sender, "owner@example.com")

	output, err := uc.Execute(context.Background(), SendOverdueReminderInput{Today: "2024-03-01"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if output.OverdueCount != 2 {
		t.Errorf("OverdueCount = %d, want 2", output.OverdueCount)
	}
	if !output.OverdueTotal.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("OverdueTotal = %s, want 1500", output.OverdueTotal)
	}
	if !output.Sent {
		t.Error("expected Sent=true")
	}

	if len(sender.SentEmails) != 1 {
		t.Fatalf("expected 1 email, got %d", len(sender.SentEmails))
	}
	sent := sender.SentEmails[0]
	if sent.To != "owner@example.com" {
		t.Errorf("To = %q", sent.To)
	}
	if !strings.Contains(sent.Text, "INV-1") || !strings.Contains(sent.Text, "INV-2") {
		t.Errorf("body missing overdue invoices: %q", sent.Text)
	}
	if strings.Contains(sent.Text, "INV-3") || strings.Contains(sent.Text, "INV-4") {
		t.Errorf("body includes invoices that are not overdue: %q", sent.Text)
	}
}

func TestSendOverdueReminder_NothingOverdueSendsNothing(t *testing.T) {
	repo := &stubEntryRepo{entries: []entity.LedgerEntry{
		pendingInvoice("2024-02-20", "INV-1", 700),
	}}
	sender := email.NewMockEmailSender()

	uc := NewSendOverdueReminderUseCase(repo, sender, "owner@example.com")

	output, err := uc.Execute(context.Background(), SendOverdueReminderInput{Today: "2024-03-01"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.Sent {
		t.Error("expected Sent=false with nothing overdue")
	}
	if len(sender.SentEmails) != 0 {
		t.Errorf("expected no emails, got %d", len(sender.SentEmails))
	}
}

func TestSendOverdueReminder_DueTodayIsNotOverdue(t *testing.T) {
	inv := pendingInvoice("2024-01-01", "INV-1", 1000) // due 2024-01-31
	repo := &stubEntryRepo{entries: []entity.LedgerEntry{inv}}
	sender := email.NewMockEmailSender()

	uc := NewSendOverdueReminderUseCase(repo, sender, "owner@example.com")

	output, err := uc.Execute(context.Background(), SendOverdueReminderInput{Today: "2024-01-31"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.OverdueCount != 0 {
		t.Errorf("an invoice due today must not count as overdue, got %d", output.OverdueCount)
	}
}

func TestSendOverdueReminder_NoRecipientConfigured(t *testing.T) {
	uc := NewSendOverdueReminderUseCase(&stubEntryRepo{}, email.NewMockEmailSender(), "")

	_, err := uc.Execute(context.Background(), SendOverdueReminderInput{})
	if err == nil {
		t.Fatal("expected an error")
	}
	var emailErr *domainerror.EmailError
	if !errors.As(err, &emailErr) {
		t.Fatalf("expected an EmailError, got %T", err)
	}
	if emailErr.Code != domainerror.ErrCodeNoReminderRecipient {
		t.Errorf("expected code %s, got %s", domainerror.ErrCodeNoReminderRecipient, emailErr.Code)
	}
}

func TestSendOverdueReminder_SendFailurePropagates(t *testing.T) {
	repo := &stubEntryRepo{entries: []entity.LedgerEntry{
		pendingInvoice("2024-01-01", "INV-1", 1000),
	}}
	sender := email.NewMockEmailSender()
	sender.ShouldFail = true

	uc := NewSendOverdueReminderUseCase(repo, sender, "owner@example.com")

	if _, err := uc.Execute(context.Background(), SendOverdueReminderInput{Today: "2024-03-01"}); err == nil {
		t.Fatal("expected the send failure to propagate")
	}
}
