package controller

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tyreledger/backend/internal/application/usecase/backup"
	domainerror "github.com/tyreledger/backend/internal/domain/error"
	"github.com/tyreledger/backend/internal/integration/entrypoint/dto"
)

// maxRestorePayloadBytes caps the restore request body.
const maxRestorePayloadBytes = 32 << 20

// BackupController handles export and restore endpoints.
type BackupController struct {
	exportUseCase    *backup.ExportEntriesUseCase
	exportCSVUseCase *backup.ExportCSVUseCase
	restoreUseCase   *backup.RestoreEntriesUseCase
}

// NewBackupController creates a new backup controller instance.
func NewBackupController(
	exportUseCase *backup.ExportEntriesUseCase,
	exportCSVUseCase *backup.ExportCSVUseCase,
	restoreUseCase *backup.RestoreEntriesUseCase,
) *BackupController {
	return &BackupController{
		exportUseCase:    exportUseCase,
		exportCSVUseCase: exportCSVUseCase,
		restoreUseCase:   restoreUseCase,
	}
}

// ExportJSON handles GET /export/json requests. The payload is the exact
// entry list, suitable for a later restore.
func (c *BackupController) ExportJSON(ctx *gin.Context) {
	output, err := c.exportUseCase.Execute(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "Failed to export ledger",
		})
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="ledger.json"`)
	ctx.JSON(http.StatusOK, output.Entries)
}

// ExportCSV handles GET /export/csv requests.
func (c *BackupController) ExportCSV(ctx *gin.Context) {
	output, err := c.exportCSVUseCase.Execute(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "Failed to export ledger",
		})
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="ledger.csv"`)
	ctx.Data(http.StatusOK, "text/csv", output.Data)
}

// Restore handles POST /restore requests. The body must be a JSON list of
// ledger entries; anything else is rejected with no state change.
func (c *BackupController) Restore(ctx *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(ctx.Request.Body, maxRestorePayloadBytes))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Failed to read request body",
		})
		return
	}

	output, err := c.restoreUseCase.Execute(ctx.Request.Context(), backup.RestoreEntriesInput{
		Payload: payload,
	})
	if err != nil {
		var lgrErr *domainerror.LedgerError
		if errors.As(err, &lgrErr) {
			ctx.JSON(statusCodeForLedgerError(lgrErr.Code), dto.ErrorResponse{
				Error: lgrErr.Message,
				Code:  string(lgrErr.Code),
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "Failed to restore ledger",
		})
		return
	}

	ctx.JSON(http.StatusOK, dto.RestoreResponse{Restored: output.Count})
}
