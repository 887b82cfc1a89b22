package steps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/cucumber/godog"
)

// registerLedgerSteps registers ledger domain steps.
func registerLedgerSteps(ctx *godog.ScenarioContext) {
	ctx.Step(`^an invoice "([^"]*)" dated "([^"]*)" for (\d+) exists$`, anInvoiceDatedForExists)
	ctx.Step(`^a payment of (\d+) dated "([^"]*)" exists$`, aPaymentOfDatedExists)
	ctx.Step(`^a credit note of (\d+) dated "([^"]*)" is applied$`, aCreditNoteOfDatedIsApplied)
	ctx.Step(`^the invoice "([^"]*)" should have status "([^"]*)"$`, theInvoiceShouldHaveStatus)
	ctx.Step(`^an invoice "([^"]*)" with amount "([^"]*)" should exist$`, anInvoiceWithAmountShouldExist)
	ctx.Step(`^no invoice "([^"]*)" should exist$`, noInvoiceShouldExist)
	ctx.Step(`^the outstanding balance should be "([^"]*)"$`, theOutstandingBalanceShouldBe)
	ctx.Step(`^the ledger should have (\d+) entries$`, theLedgerShouldHaveEntries)
	ctx.Step(`^a reminder email should have been sent to "([^"]*)"$`, aReminderEmailShouldHaveBeenSentTo)
	ctx.Step(`^no reminder email should have been sent$`, noReminderEmailShouldHaveBeenSent)
}

func anInvoiceDatedForExists(ctx context.Context, invoiceNo, date string, amount int) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}

	body := fmt.Sprintf(`{"date":%q,"invoiceNo":%q,"size":"195/55-R16","pattern":"Tubeless","quantity":1,"unitPrice":%d}`,
		date, invoiceNo, amount)
	if err := tc.doRequest(http.MethodPost, "/api/v1/entries/invoices", strings.NewReader(body)); err != nil {
		return ctx, err
	}
	if tc.response.StatusCode != http.StatusCreated {
		return ctx, fmt.Errorf("failed to seed invoice %s: status %d, body %s", invoiceNo, tc.response.StatusCode, string(tc.responseBody))
	}
	return SetTestContext(ctx, tc), nil
}

func aPaymentOfDatedExists(ctx context.Context, amount int, date string) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}

	body := fmt.Sprintf(`{"date":%q,"amount":%d}`, date, amount)
	if err := tc.doRequest(http.MethodPost, "/api/v1/entries/payments", strings.NewReader(body)); err != nil {
		return ctx, err
	}
	if tc.response.StatusCode != http.StatusCreated {
		return ctx, fmt.Errorf("failed to seed payment: status %d, body %s", tc.response.StatusCode, string(tc.responseBody))
	}
	return SetTestContext(ctx, tc), nil
}

func aCreditNoteOfDatedIsApplied(ctx context.Context, amount int, date string) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}

	body := fmt.Sprintf(`{"date":%q,"amount":%d}`, date, amount)
	if err := tc.doRequest(http.MethodPost, "/api/v1/entries/credit-notes", strings.NewReader(body)); err != nil {
		return ctx, err
	}
	if tc.response.StatusCode != http.StatusCreated {
		return ctx, fmt.Errorf("failed to apply credit note: status %d, body %s", tc.response.StatusCode, string(tc.responseBody))
	}
	return SetTestContext(ctx, tc), nil
}

// listEntries fetches the full ledger view as raw JSON.
func (tc *TestContext) listEntries() (map[string]interface{}, error) {
	if err := tc.doRequest(http.MethodGet, "/api/v1/entries", nil); err != nil {
		return nil, err
	}
	if tc.response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to list entries: status %d, body %s", tc.response.StatusCode, string(tc.responseBody))
	}

	var view map[string]interface{}
	if err := json.Unmarshal(tc.responseBody, &view); err != nil {
		return nil, fmt.Errorf("failed to parse entries response: %w", err)
	}
	return view, nil
}

func findInvoice(view map[string]interface{}, invoiceNo string) (map[string]interface{}, bool) {
	entries, ok := view["entries"].([]interface{})
	if !ok {
		return nil, false
	}
	for _, raw := range entries {
		e, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		if e["kind"] == "INVOICE" && e["invoiceNo"] == invoiceNo {
			return e, true
		}
	}
	return nil, false
}

func theInvoiceShouldHaveStatus(ctx context.Context, invoiceNo, status string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}

	view, err := tc.listEntries()
	if err != nil {
		return err
	}
	inv, ok := findInvoice(view, invoiceNo)
	if !ok {
		return fmt.Errorf("invoice %s not found. Body: %s", invoiceNo, string(tc.responseBody))
	}
	if inv["status"] != status {
		return fmt.Errorf("invoice %s status = %v, want %s", invoiceNo, inv["status"], status)
	}
	return nil
}

func anInvoiceWithAmountShouldExist(ctx context.Context, invoiceNo, amount string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}

	view, err := tc.listEntries()
	if err != nil {
		return err
	}
	inv, ok := findInvoice(view, invoiceNo)
	if !ok {
		return fmt.Errorf("invoice %s not found. Body: %s", invoiceNo, string(tc.responseBody))
	}

	got := fmt.Sprintf("%v", inv["invoiceAmount"])
	if got != amount {
		return fmt.Errorf("invoice %s amount = %s, want %s", invoiceNo, got, amount)
	}
	return nil
}

func noInvoiceShouldExist(ctx context.Context, invoiceNo string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}

	view, err := tc.listEntries()
	if err != nil {
		return err
	}
	if _, ok := findInvoice(view, invoiceNo); ok {
		return fmt.Errorf("unexpected invoice %s in ledger", invoiceNo)
	}
	return nil
}

func theOutstandingBalanceShouldBe(ctx context.Context, expected string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}

	view, err := tc.listEntries()
	if err != nil {
		return err
	}
	stats, ok := view["stats"].(map[string]interface{})
	if !ok {
		return fmt.Errorf("stats not found in response: %s", string(tc.responseBody))
	}

	got := fmt.Sprintf("%v", stats["outstanding"])
	if got != expected {
		return fmt.Errorf("outstanding = %s, want %s", got, expected)
	}
	return nil
}

func theLedgerShouldHaveEntries(ctx context.Context, count int) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}

	view, err := tc.listEntries()
	if err != nil {
		return err
	}
	entries, _ := view["entries"].([]interface{})
	if len(entries) != count {
		return fmt.Errorf("ledger has %d entries, want %d. Body: %s", len(entries), count, string(tc.responseBody))
	}
	return nil
}

func aReminderEmailShouldHaveBeenSentTo(ctx context.Context, recipient string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	if len(tc.emailSender.SentEmails) == 0 {
		return fmt.Errorf("no email was sent")
	}
	last := tc.emailSender.SentEmails[len(tc.emailSender.SentEmails)-1]
	if last.To != recipient {
		return fmt.Errorf("email sent to %q, want %q", last.To, recipient)
	}
	return nil
}

func noReminderEmailShouldHaveBeenSent(ctx context.Context) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return fmt.Errorf("test context not found")
	}
	if n := len(tc.emailSender.SentEmails); n != 0 {
		return fmt.Errorf("expected no emails, %d were sent", n)
	}
	return nil
}
