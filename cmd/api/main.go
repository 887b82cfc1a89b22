// Package main is the entry point for the Tyre Ledger API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/tyreledger/backend/config"
	"github.com/tyreledger/backend/internal/application/adapter"
	"github.com/tyreledger/backend/internal/application/usecase/auth"
	"github.com/tyreledger/backend/internal/application/usecase/backup"
	"github.com/tyreledger/backend/internal/application/usecase/creditnote"
	"github.com/tyreledger/backend/internal/application/usecase/entry"
	"github.com/tyreledger/backend/internal/application/usecase/reminder"
	"github.com/tyreledger/backend/internal/infra/db"
	"github.com/tyreledger/backend/internal/infra/server/router"
	"github.com/tyreledger/backend/internal/integration/adapters"
	"github.com/tyreledger/backend/internal/integration/email"
	"github.com/tyreledger/backend/internal/integration/entrypoint/controller"
	"github.com/tyreledger/backend/internal/integration/entrypoint/middleware"
	"github.com/tyreledger/backend/internal/integration/persistence"
	"github.com/tyreledger/backend/internal/integration/persistence/model"
)

func main() {
	// Load .env file if it exists (development only)
	_ = godotenv.Load()

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg := config.Load()

	slog.Info("Starting Tyre Ledger API",
		"environment", cfg.Server.Environment,
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	// Initialize database connection
	database, err := db.NewConnection(&cfg.Database)
	if err != nil {
		slog.Error("Database connection failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}()

	// Run database migrations
	if err := database.AutoMigrate(
		&model.LedgerEntryModel{},
		&model.InvoiceItemModel{},
	); err != nil {
		slog.Error("Failed to run database migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database migrations completed successfully")

	// Create repository
	entryRepo := persistence.NewEntryRepository(database.DB())

	// Connect the snapshot store. Snapshots are best-effort: without Redis
	// the ledger still works off the database alone.
	var snapshots adapter.SnapshotStore
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		slog.Warn("Redis connection failed, running without ledger snapshots", "error", err)
	} else {
		snapshots = persistence.NewRedisSnapshotStore(redisClient, cfg.Redis.SnapshotKey)
		seedFromSnapshot(entryRepo, snapshots)
	}

	// Create adapters/services
	passwordService := adapters.NewBcryptPasswordService()
	tokenService := adapters.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	var emailSender adapter.EmailSender
	if cfg.Email.ResendAPIKey != "" {
		emailSender = email.NewResendClient(cfg.Email.ResendAPIKey, cfg.Email.FromName, cfg.Email.FromEmail)
	} else {
		slog.Warn("No Resend API key configured, overdue reminders will not be delivered")
		emailSender = email.NewMockEmailSender()
	}

	// Create use cases
	loginUseCase := auth.NewLoginOperatorUseCase(
		cfg.Operator.Username,
		cfg.Operator.PasswordHash,
		passwordService,
		tokenService,
	)
	listUseCase := entry.NewListEntriesUseCase(entryRepo)
	createInvoiceUseCase := entry.NewCreateInvoiceUseCase(entryRepo, snapshots)
	recordPaymentUseCase := entry.NewRecordPaymentUseCase(entryRepo, snapshots)
	applyCNUseCase := creditnote.NewApplyCreditNoteUseCase(entryRepo, snapshots)
	updateUseCase := entry.NewUpdateEntryUseCase(entryRepo, snapshots)
	deleteUseCase := entry.NewDeleteEntryUseCase(entryRepo, snapshots)
	exportUseCase := backup.NewExportEntriesUseCase(entryRepo)
	exportCSVUseCase := backup.NewExportCSVUseCase(entryRepo)
	restoreUseCase := backup.NewRestoreEntriesUseCase(entryRepo, snapshots)
	reminderUseCase := reminder.NewSendOverdueReminderUseCase(entryRepo, emailSender, cfg.Email.ReminderRecipient)

	// Create controllers and middleware
	healthController := controller.NewHealthController(database.HealthCheck)
	authController := controller.NewAuthController(loginUseCase)
	ledgerController := controller.NewLedgerController(
		listUseCase,
		createInvoiceUseCase,
		recordPaymentUseCase,
		applyCNUseCase,
		updateUseCase,
		deleteUseCase,
	)
	backupController := controller.NewBackupController(exportUseCase, exportCSVUseCase, restoreUseCase)
	reminderController := controller.NewReminderController(reminderUseCase)

	loginRateLimiter := middleware.NewRateLimiter()
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Setup router
	r := router.NewRouter(
		healthController,
		authController,
		ledgerController,
		backupController,
		reminderController,
		loginRateLimiter,
		authMiddleware,
	)
	engine := r.Setup(cfg.Server.Environment)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited properly")
}

// seedFromSnapshot restores the ledger from the latest snapshot when the
// database is empty, e.g. after a fresh deployment onto ephemeral storage.
func seedFromSnapshot(entryRepo adapter.EntryRepository, snapshots adapter.SnapshotStore) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	existing, err := entryRepo.ListAll(ctx)
	if err != nil {
		slog.Warn("Failed to inspect ledger before snapshot seeding", "error", err)
		return
	}
	if len(existing) > 0 {
		return
	}

	entries, ok, err := snapshots.Load(ctx)
	if err != nil {
		slog.Warn("Failed to load ledger snapshot", "error", err)
		return
	}
	if !ok || len(entries) == 0 {
		return
	}

	if err := entryRepo.ReplaceAll(ctx, entries); err != nil {
		slog.Error("Failed to seed ledger from snapshot", "error", err)
		return
	}
	slog.Info("Ledger seeded from snapshot", "entries", len(entries))
}
