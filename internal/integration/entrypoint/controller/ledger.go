package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tyreledger/backend/internal/application/usecase/creditnote"
	"github.com/tyreledger/backend/internal/application/usecase/entry"
	domainerror "github.com/tyreledger/backend/internal/domain/error"
	"github.com/tyreledger/backend/internal/integration/entrypoint/dto"
)

// LedgerController handles ledger entry endpoints.
type LedgerController struct {
	listUseCase          *entry.ListEntriesUseCase
	createInvoiceUseCase *entry.CreateInvoiceUseCase
	recordPaymentUseCase *entry.RecordPaymentUseCase
	applyCNUseCase       *creditnote.ApplyCreditNoteUseCase
	updateUseCase        *entry.UpdateEntryUseCase
	deleteUseCase        *entry.DeleteEntryUseCase
}

// NewLedgerController creates a new ledger controller instance.
func NewLedgerController(
	listUseCase *entry.ListEntriesUseCase,
	createInvoiceUseCase *entry.CreateInvoiceUseCase,
	recordPaymentUseCase *entry.RecordPaymentUseCase,
	applyCNUseCase *creditnote.ApplyCreditNoteUseCase,
	updateUseCase *entry.UpdateEntryUseCase,
	deleteUseCase *entry.DeleteEntryUseCase,
) *LedgerController {
	return &LedgerController{
		listUseCase:          listUseCase,
		createInvoiceUseCase: createInvoiceUseCase,
		recordPaymentUseCase: recordPaymentUseCase,
		applyCNUseCase:       applyCNUseCase,
		updateUseCase:        updateUseCase,
		deleteUseCase:        deleteUseCase,
	}
}

// List handles GET /entries requests. The optional month query parameter
// filters the view to one YYYY-MM period.
func (c *LedgerController) List(ctx *gin.Context) {
	output, err := c.listUseCase.Execute(ctx.Request.Context(), entry.ListEntriesInput{
		Month: ctx.Query("month"),
	})
	if err != nil {
		c.handleLedgerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ListEntriesResponse{
		Entries: output.Entries,
		Stats:   dto.ToStatsResponse(output.Stats),
		Months:  output.Months,
	})
}

// Months handles GET /entries/months requests.
func (c *LedgerController) Months(ctx *gin.Context) {
	output, err := c.listUseCase.Execute(ctx.Request.Context(), entry.ListEntriesInput{})
	if err != nil {
		c.handleLedgerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"months": output.Months})
}

// CreateInvoice handles POST /entries/invoices requests.
func (c *LedgerController) CreateInvoice(ctx *gin.Context) {
	var req dto.CreateInvoiceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	input := entry.CreateInvoiceInput{
		Date:      req.Date,
		InvoiceNo: req.InvoiceNo,
		Items:     dto.ToItemInputs(req.Items),
		Size:      req.Size,
		Pattern:   req.Pattern,
		Quantity:  req.Quantity,
		UnitPrice: decimal.NewFromFloat(req.UnitPrice),
		Notes:     req.Notes,
	}

	output, err := c.createInvoiceUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleLedgerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, output.Entry)
}

// RecordPayment handles POST /entries/payments requests.
func (c *LedgerController) RecordPayment(ctx *gin.Context) {
	var req dto.RecordPaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	output, err := c.recordPaymentUseCase.Execute(ctx.Request.Context(), entry.RecordPaymentInput{
		Date:   req.Date,
		Amount: decimal.NewFromFloat(req.Amount),
		Notes:  req.Notes,
	})
	if err != nil {
		c.handleLedgerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, output.Entry)
}

// ApplyCreditNote handles POST /entries/credit-notes requests.
func (c *LedgerController) ApplyCreditNote(ctx *gin.Context) {
	var req dto.ApplyCreditNoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	output, err := c.applyCNUseCase.Execute(ctx.Request.Context(), creditnote.ApplyCreditNoteInput{
		Date:   req.Date,
		Amount: decimal.NewFromFloat(req.Amount),
		Notes:  req.Notes,
	})
	if err != nil {
		c.handleLedgerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ApplyCreditNoteResponse{
		CreditNote:     output.CreditNote,
		Target:         output.Target,
		BalanceInvoice: output.BalanceInvoice,
	})
}

// Update handles PATCH /entries/:id requests.
func (c *LedgerController) Update(ctx *gin.Context) {
	entryID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid entry ID format",
		})
		return
	}

	var req dto.UpdateEntryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
		})
		return
	}

	input := entry.UpdateEntryInput{
		ID:        entryID,
		Date:      req.Date,
		InvoiceNo: req.InvoiceNo,
		Items:     dto.ToItemInputs(req.Items),
		Size:      req.Size,
		Pattern:   req.Pattern,
		Quantity:  req.Quantity,
		UnitPrice: decimal.NewFromFloat(req.UnitPrice),
		Amount:    decimal.NewFromFloat(req.Amount),
		Notes:     req.Notes,
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleLedgerError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, output.Entry)
}

// Delete handles DELETE /entries/:id requests.
func (c *LedgerController) Delete(ctx *gin.Context) {
	entryID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid entry ID format",
		})
		return
	}

	if _, err := c.deleteUseCase.Execute(ctx.Request.Context(), entry.DeleteEntryInput{ID: entryID}); err != nil {
		c.handleLedgerError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// handleLedgerError handles ledger errors and returns appropriate HTTP responses.
func (c *LedgerController) handleLedgerError(ctx *gin.Context, err error) {
	var lgrErr *domainerror.LedgerError
	if errors.As(err, &lgrErr) {
		ctx.JSON(statusCodeForLedgerError(lgrErr.Code), dto.ErrorResponse{
			Error: lgrErr.Message,
			Code:  string(lgrErr.Code),
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// statusCodeForLedgerError maps ledger error codes to HTTP status codes.
func statusCodeForLedgerError(code domainerror.LedgerErrorCode) int {
	switch code {
	case domainerror.ErrCodeEntryNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeInvalidEntryDate,
		domainerror.ErrCodeInvalidInvoiceNo,
		domainerror.ErrCodeInvalidItemQuantity,
		domainerror.ErrCodeInvalidItemUnitPrice,
		domainerror.ErrCodeInvalidPaymentAmount,
		domainerror.ErrCodeInvalidCreditNoteAmount,
		domainerror.ErrCodeInvalidPeriodKey,
		domainerror.ErrCodeRestorePayloadNotList,
		domainerror.ErrCodeRestorePayloadInvalid:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
