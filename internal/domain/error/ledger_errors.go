// Package error defines domain-specific errors for the tyre ledger application.
package error

import "errors"

// Ledger domain errors.
var (
	// ErrEntryNotFound is returned when a ledger entry is not found.
	ErrEntryNotFound = errors.New("ledger entry not found")

	// ErrInvalidEntryDate is returned when a date is not a valid ISO calendar date.
	ErrInvalidEntryDate = errors.New("invalid entry date")

	// ErrInvalidInvoiceNo is returned when an invoice number is missing or blank.
	ErrInvalidInvoiceNo = errors.New("invalid invoice number")

	// ErrInvalidItemQuantity is returned when a line item quantity is not positive.
	ErrInvalidItemQuantity = errors.New("item quantity must be positive")

	// ErrInvalidItemUnitPrice is returned when a line item unit price is negative.
	ErrInvalidItemUnitPrice = errors.New("item unit price must not be negative")

	// ErrInvalidPaymentAmount is returned when a payment amount is not positive.
	ErrInvalidPaymentAmount = errors.New("payment amount must be positive")

	// ErrInvalidCreditNoteAmount is returned when a credit note amount is not positive.
	ErrInvalidCreditNoteAmount = errors.New("credit note amount must be positive")

	// ErrInvalidPeriodKey is returned when a month filter is not of the form YYYY-MM.
	ErrInvalidPeriodKey = errors.New("invalid period key")

	// ErrRestorePayloadNotList is returned when a restore payload is not a JSON list.
	ErrRestorePayloadNotList = errors.New("restore payload must be a list of entries")

	// ErrRestorePayloadInvalid is returned when a restore payload cannot be parsed.
	ErrRestorePayloadInvalid = errors.New("restore payload is not valid JSON")
)

// LedgerErrorCode defines error codes for ledger errors.
// Format: LGR-XXYYYY where XX is category and YYYY is specific error.
type LedgerErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidEntryDate        LedgerErrorCode = "LGR-010001"
	ErrCodeInvalidInvoiceNo        LedgerErrorCode = "LGR-010002"
	ErrCodeInvalidItemQuantity     LedgerErrorCode = "LGR-010003"
	ErrCodeInvalidItemUnitPrice    LedgerErrorCode = "LGR-010004"
	ErrCodeInvalidPaymentAmount    LedgerErrorCode = "LGR-010005"
	ErrCodeInvalidCreditNoteAmount LedgerErrorCode = "LGR-010006"
	ErrCodeInvalidPeriodKey        LedgerErrorCode = "LGR-010007"

	// Lookup errors (02XXXX)
	ErrCodeEntryNotFound LedgerErrorCode = "LGR-020001"

	// Restore errors (03XXXX)
	ErrCodeRestorePayloadNotList LedgerErrorCode = "LGR-030001"
	ErrCodeRestorePayloadInvalid LedgerErrorCode = "LGR-030002"
)

// LedgerError represents a ledger error with code and message.
type LedgerError struct {
	Code    LedgerErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *LedgerError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *LedgerError) Unwrap() error {
	return e.Err
}

// NewLedgerError creates a new LedgerError with the given code and message.
func NewLedgerError(code LedgerErrorCode, message string, err error) *LedgerError {
	return &LedgerError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
