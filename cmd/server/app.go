package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/mattdotroberts/on-this-day/internal/config"
	"github.com/mattdotroberts/on-this-day/internal/job"
	"github.com/mattdotroberts/on-this-day/internal/platform/email"
	"github.com/mattdotroberts/on-this-day/internal/platform/gemini"
	"github.com/mattdotroberts/on-this-day/internal/platform/postgres"
	"github.com/mattdotroberts/on-this-day/internal/service"
	"github.com/mattdotroberts/on-this-day/internal/service/auth"
)

// application holds the composed dependency graph of the server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	jwtService  auth.JWTService
	userService service.UserService
	bookService service.BookService
	driver      *job.Driver
}

// newApplication wires stores, services, the synthesizer, and the job
// driver. Each server process gets a unique worker ID for lease ownership.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	userStore := postgres.NewUserStore(db)
	bookStore := postgres.NewBookStore(db)
	jobStore := postgres.NewJobStore(db)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	hasher := auth.NewBcryptHasher()

	synthesizer, err := gemini.NewSynthesizer(ctx, logger, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create synthesizer: %w", err)
	}

	notifier := email.NewResendNotifier(logger, cfg.Email)

	workerID := job.NewWorkerID()
	driver, err := job.NewDriver(jobStore, bookStore, userStore, synthesizer, notifier, workerID, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create job driver: %w", err)
	}

	logger.Info("application initialized", "worker_id", workerID)

	return &application{
		config:      cfg,
		logger:      logger,
		db:          db,
		jwtService:  jwtService,
		userService: service.NewUserService(userStore, hasher, db, logger),
		bookService: service.NewBookService(bookStore, jobStore, db, logger),
		driver:      driver,
	}, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if err := app.db.Close(); err != nil {
		app.logger.Error("failed to close database", "error", err)
	}
}
