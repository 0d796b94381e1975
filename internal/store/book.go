package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/mattdotroberts/on-this-day/internal/domain"
)

// BookStore defines the persistence contract for books.
type BookStore interface {
	// Create saves a new book.
	Create(ctx context.Context, book *domain.Book) error

	// GetByID retrieves a book by its unique ID regardless of owner.
	// The generation pipeline uses this to load prefs for a job it has
	// already authorized through the job row.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Book, error)

	// GetForOwner retrieves a book by ID, scoped to its owner.
	GetForOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Book, error)

	// ListForOwner returns all of the owner's books, newest first, without
	// their entry payloads.
	ListForOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Book, error)

	// UpdateEntryCount mirrors the accumulated entry count onto the book
	// row for progress visibility while generation is still running.
	UpdateEntryCount(ctx context.Context, id uuid.UUID, count int) error

	// FinalizeContent atomically writes the final sorted entries, cover
	// image (may be empty) and flips generation status to complete.
	FinalizeContent(ctx context.Context, id uuid.UUID, entries []domain.Entry, coverImage string) error

	// MarkGenerationFailed flips the book's generation status to failed.
	MarkGenerationFailed(ctx context.Context, id uuid.UUID) error

	// WithTx returns a BookStore bound to the given transaction.
	WithTx(tx *sql.Tx) BookStore
}
