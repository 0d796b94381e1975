package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mattdotroberts/on-this-day/internal/domain"
	"github.com/mattdotroberts/on-this-day/internal/store"
)

// BookService provides book and generation-job lifecycle operations.
type BookService interface {
	// CreateBookAndJob atomically creates a book in generating state and its
	// pending generation job. Nothing is synthesized here; the job advances
	// only through ticks.
	CreateBookAndJob(ctx context.Context, ownerID uuid.UUID, prefs domain.Prefs) (*domain.Book, *domain.GenerationJob, error)

	// GetBook retrieves a book with its entries, scoped to its owner.
	GetBook(ctx context.Context, bookID, ownerID uuid.UUID) (*domain.Book, error)

	// ListBooks returns the owner's books without entry payloads.
	ListBooks(ctx context.Context, ownerID uuid.UUID) ([]*domain.Book, error)

	// GetJob retrieves a generation job, scoped to its owner.
	GetJob(ctx context.Context, jobID, ownerID uuid.UUID) (*domain.GenerationJob, error)

	// GetJobByBook retrieves the job driving the given book.
	GetJobByBook(ctx context.Context, bookID, ownerID uuid.UUID) (*domain.GenerationJob, error)

	// ListJobs returns the owner's jobs, newest first.
	ListJobs(ctx context.Context, ownerID uuid.UUID) ([]*domain.GenerationJob, error)

	// DeleteFailedJob removes a terminally failed job so the owner can start
	// over. Returns ErrJobNotDeletable for jobs in any other state.
	DeleteFailedJob(ctx context.Context, jobID, ownerID uuid.UUID) error
}

// BookServiceImpl implements the BookService interface.
type BookServiceImpl struct {
	bookStore store.BookStore
	jobStore  store.JobStore
	db        *sql.DB
	logger    *slog.Logger
}

var _ BookService = (*BookServiceImpl)(nil)

// NewBookService creates a new BookService.
func NewBookService(
	bookStore store.BookStore,
	jobStore store.JobStore,
	db *sql.DB,
	logger *slog.Logger,
) *BookServiceImpl {
	return &BookServiceImpl{
		bookStore: bookStore,
		jobStore:  jobStore,
		db:        db,
		logger:    logger.With("component", "book_service"),
	}
}

// CreateBookAndJob implements BookService.CreateBookAndJob.
func (s *BookServiceImpl) CreateBookAndJob(
	ctx context.Context,
	ownerID uuid.UUID,
	prefs domain.Prefs,
) (*domain.Book, *domain.GenerationJob, error) {
	shareToken, err := newShareToken()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate share token: %w", err)
	}

	book, err := domain.NewBook(ownerID, prefs, shareToken)
	if err != nil {
		return nil, nil, err
	}

	job, err := domain.NewGenerationJob(book.ID, ownerID)
	if err != nil {
		return nil, nil, err
	}

	// Book and job must appear together; a book with no job would never
	// generate, a job with no book would never finalize.
	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.bookStore.WithTx(tx).Create(ctx, book); err != nil {
			return err
		}
		return s.jobStore.WithTx(tx).Create(ctx, job)
	})
	if err != nil {
		s.logger.Error("failed to create book and job", "error", err, "user_id", ownerID)
		return nil, nil, fmt.Errorf("failed to create book and job: %w", err)
	}

	s.logger.Info("book generation queued",
		"book_id", book.ID,
		"job_id", job.ID,
		"user_id", ownerID)

	return book, job, nil
}

// GetBook implements BookService.GetBook.
func (s *BookServiceImpl) GetBook(ctx context.Context, bookID, ownerID uuid.UUID) (*domain.Book, error) {
	return s.bookStore.GetForOwner(ctx, bookID, ownerID)
}

// ListBooks implements BookService.ListBooks.
func (s *BookServiceImpl) ListBooks(ctx context.Context, ownerID uuid.UUID) ([]*domain.Book, error) {
	return s.bookStore.ListForOwner(ctx, ownerID)
}

// GetJob implements BookService.GetJob.
func (s *BookServiceImpl) GetJob(ctx context.Context, jobID, ownerID uuid.UUID) (*domain.GenerationJob, error) {
	return s.jobStore.GetForOwner(ctx, jobID, ownerID)
}

// GetJobByBook implements BookService.GetJobByBook.
func (s *BookServiceImpl) GetJobByBook(ctx context.Context, bookID, ownerID uuid.UUID) (*domain.GenerationJob, error) {
	return s.jobStore.GetByBook(ctx, bookID, ownerID)
}

// ListJobs implements BookService.ListJobs.
func (s *BookServiceImpl) ListJobs(ctx context.Context, ownerID uuid.UUID) ([]*domain.GenerationJob, error) {
	return s.jobStore.ListForOwner(ctx, ownerID)
}

// DeleteFailedJob implements BookService.DeleteFailedJob.
func (s *BookServiceImpl) DeleteFailedJob(ctx context.Context, jobID, ownerID uuid.UUID) error {
	job, err := s.jobStore.GetForOwner(ctx, jobID, ownerID)
	if err != nil {
		return err
	}

	if job.Status != domain.JobStatusFailed {
		return ErrJobNotDeletable
	}

	if err := s.jobStore.Delete(ctx, jobID, ownerID); err != nil {
		s.logger.Error("failed to delete job", "error", err, "job_id", jobID)
		return err
	}

	s.logger.Info("failed job deleted", "job_id", jobID, "user_id", ownerID)
	return nil
}

// shareTokenLength is the byte length before encoding; 9 bytes encode to 12
// URL-safe characters.
const shareTokenLength = 9

func newShareToken() (string, error) {
	buf := make([]byte, shareTokenLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
