package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tyreledger/backend/internal/application/usecase/reminder"
	domainerror "github.com/tyreledger/backend/internal/domain/error"
	"github.com/tyreledger/backend/internal/integration/entrypoint/dto"
)

// ReminderController handles overdue reminder endpoints.
type ReminderController struct {
	reminderUseCase *reminder.SendOverdueReminderUseCase
}

// NewReminderController creates a new reminder controller instance.
func NewReminderController(reminderUseCase *reminder.SendOverdueReminderUseCase) *ReminderController {
	return &ReminderController{
		reminderUseCase: reminderUseCase,
	}
}

// SendOverdue handles POST /reminders/overdue requests.
func (c *ReminderController) SendOverdue(ctx *gin.Context) {
	output, err := c.reminderUseCase.Execute(ctx.Request.Context(), reminder.SendOverdueReminderInput{
		Today: ctx.Query("today"),
	})
	if err != nil {
		var emailErr *domainerror.EmailError
		if errors.As(err, &emailErr) {
			status := http.StatusBadGateway
			if emailErr.Code == domainerror.ErrCodeNoReminderRecipient {
				status = http.StatusConflict
			}
			ctx.JSON(status, dto.ErrorResponse{
				Error: emailErr.Message,
				Code:  string(emailErr.Code),
			})
			return
		}
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "Failed to send reminder",
		})
		return
	}

	ctx.JSON(http.StatusOK, dto.ReminderResponse{
		OverdueCount: output.OverdueCount,
		OverdueTotal: output.OverdueTotal.String(),
		Sent:         output.Sent,
	})
}
