// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/tyreledger/backend/internal/integration/entrypoint/controller"
	"github.com/tyreledger/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine             *gin.Engine
	healthController   *controller.HealthController
	authController     *controller.AuthController
	ledgerController   *controller.LedgerController
	backupController   *controller.BackupController
	reminderController *controller.ReminderController
	loginRateLimiter   *middleware.RateLimiter
	authMiddleware     *middleware.AuthMiddleware
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	authController *controller.AuthController,
	ledgerController *controller.LedgerController,
	backupController *controller.BackupController,
	reminderController *controller.ReminderController,
	loginRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		healthController:   healthController,
		authController:     authController,
		ledgerController:   ledgerController,
		backupController:   backupController,
		reminderController: reminderController,
		loginRateLimiter:   loginRateLimiter,
		authMiddleware:     authMiddleware,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	r.engine = gin.Default()

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")
	{
		if r.authController != nil && r.loginRateLimiter != nil {
			auth := v1.Group("/auth")
			{
				auth.POST("/login", r.loginRateLimiter.Middleware(), r.authController.Login)
			}
		}

		if r.ledgerController != nil && r.authMiddleware != nil {
			entries := v1.Group("/entries")
			entries.Use(r.authMiddleware.Authenticate())
			{
				entries.GET("", r.ledgerController.List)
				entries.GET("/months", r.ledgerController.Months)
				entries.POST("/invoices", r.ledgerController.CreateInvoice)
				entries.POST("/payments", r.ledgerController.RecordPayment)
				entries.POST("/credit-notes", r.ledgerController.ApplyCreditNote)
				entries.PATCH("/:id", r.ledgerController.Update)
				entries.DELETE("/:id", r.ledgerController.Delete)
			}
		}

		if r.backupController != nil && r.authMiddleware != nil {
			export := v1.Group("/export")
			export.Use(r.authMiddleware.Authenticate())
			{
				export.GET("/json", r.backupController.ExportJSON)
				export.GET("/csv", r.backupController.ExportCSV)
			}

			restore := v1.Group("/restore")
			restore.Use(r.authMiddleware.Authenticate())
			{
				restore.POST("", r.backupController.Restore)
			}
		}

		if r.reminderController != nil && r.authMiddleware != nil {
			reminders := v1.Group("/reminders")
			reminders.Use(r.authMiddleware.Authenticate())
			{
				reminders.POST("/overdue", r.reminderController.SendOverdue)
			}
		}
	}
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
