// Package reminder contains the overdue invoice reminder use case.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tyreledger/backend/internal/application/adapter"
	"github.com/tyreledger/backend/internal/domain/entity"
	domainerror "github.com/tyreledger/backend/internal/domain/error"
)

// SendOverdueReminderInput represents the input for sending a reminder.
// Today overrides the reference date; empty means the current UTC date.
type SendOverdueReminderInput struct {
	Today string
}

// SendOverdueReminderOutput represents the result of a reminder run.
type SendOverdueReminderOutput struct {
	OverdueCount int
	OverdueTotal decimal.Decimal
	Sent         bool
}

// SendOverdueReminderUseCase finds pending invoices past their due date and
// emails a summary to the configured recipient.
type SendOverdueReminderUseCase struct {
	entryRepo   adapter.EntryRepository
	emailSender adapter.EmailSender
	recipient   string
}

// NewSendOverdueReminderUseCase creates a new SendOverdueReminderUseCase instance.
func NewSendOverdueReminderUseCase(entryRepo adapter.EntryRepository, emailSender adapter.EmailSender, recipient string) *SendOverdueReminderUseCase {
	return &SendOverdueReminderUseCase{
		entryRepo:   entryRepo,
		emailSender: emailSender,
		recipient:   recipient,
	}
}

// Execute sends the overdue summary. With no overdue invoices it sends
// nothing and reports Sent=false.
func (uc *SendOverdueReminderUseCase) Execute(ctx context.Context, input SendOverdueReminderInput) (*SendOverdueReminderOutput, error) {
	if uc.recipient == "" {
		return nil, domainerror.NewEmailError(
			domainerror.ErrCodeNoReminderRecipient,
			"no reminder recipient configured",
			domainerror.ErrNoReminderRecipient,
		)
	}

	today := input.Today
	if today == "" {
		today = time.Now().UTC().Format(entity.DateLayout)
	}

	entries, err := uc.entryRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	overdue := overdueInvoices(entries, today)
	if len(overdue) == 0 {
		return &SendOverdueReminderOutput{OverdueTotal: decimal.Zero}, nil
	}

	total := decimal.Zero
	var lines []string
	for _, inv := range overdue {
		total = total.Add(inv.InvoiceAmount)
		lines = append(lines, fmt.Sprintf("%s  dated %s  due %s  amount %s",
			inv.InvoiceNo, inv.Date, inv.DueDate, inv.InvoiceAmount.String()))
	}

	subject := fmt.Sprintf("Overdue invoices: %d open, total %s", len(overdue), total.String())
	body := fmt.Sprintf("The following invoices are past their due date as of %s:\n\n%s\n\nTotal overdue: %s\n",
		today, strings.Join(lines, "\n"), total.String())

	if _, err := uc.emailSender.Send(ctx, adapter.SendEmailInput{
		To:      uc.recipient,
		Subject: subject,
		Text:    body,
	}); err != nil {
		return nil, err
	}

	slog.Info("Overdue reminder sent",
		"recipient", uc.recipient,
		"overdue", len(overdue),
		"total", total.String(),
	)

	return &SendOverdueReminderOutput{
		OverdueCount: len(overdue),
		OverdueTotal: total,
		Sent:         true,
	}, nil
}

// overdueInvoices returns the pending invoices whose due date is strictly
// before today. ISO date strings compare correctly lexicographically.
func overdueInvoices(entries []entity.LedgerEntry, today string) []entity.LedgerEntry {
	var overdue []entity.LedgerEntry
	for _, e := range entries {
		if e.Kind == entity.KindInvoice && e.Status == entity.StatusPending && e.DueDate != "" && e.DueDate < today {
			overdue = append(overdue, e)
		}
	}
	return overdue
}
