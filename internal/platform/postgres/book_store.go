package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mattdotroberts/on-this-day/internal/domain"
	"github.com/mattdotroberts/on-this-day/internal/platform/logger"
	"github.com/mattdotroberts/on-this-day/internal/store"
)

// BookStore implements store.BookStore using PostgreSQL. Entries and
// interests are stored as JSONB columns.
type BookStore struct {
	db store.DBTX
}

// NewBookStore creates a PostgreSQL-backed BookStore.
func NewBookStore(db store.DBTX) *BookStore {
	return &BookStore{db: db}
}

var _ store.BookStore = (*BookStore)(nil)

const bookColumns = `id, user_id, name, birth_year, birth_month, birth_day, interests,
	blend_level, cover_style, entries, cover_image, generation_status, entry_count,
	share_token, is_public, created_at, updated_at`

// Create implements store.BookStore.Create
func (s *BookStore) Create(ctx context.Context, book *domain.Book) error {
	log := logger.FromContext(ctx)

	if err := book.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	interests, err := json.Marshal(book.Interests)
	if err != nil {
		return fmt.Errorf("failed to marshal interests: %w", err)
	}
	entries, err := json.Marshal(book.Entries)
	if err != nil {
		return fmt.Errorf("failed to marshal entries: %w", err)
	}

	query := `
		INSERT INTO books (` + bookColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err = s.db.ExecContext(ctx, query,
		book.ID,
		book.UserID,
		book.Name,
		book.BirthYear,
		book.BirthMonth,
		book.BirthDay,
		interests,
		book.BlendLevel,
		book.CoverStyle,
		entries,
		nullableString(book.CoverImage),
		book.Status,
		book.EntryCount,
		nullableString(book.ShareToken),
		book.IsPublic,
		book.CreatedAt,
		book.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create book", "book_id", book.ID, "error", err)
		return fmt.Errorf("failed to create book: %w", MapError(err))
	}

	return nil
}

// GetByID implements store.BookStore.GetByID
func (s *BookStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1`

	book, err := scanBook(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book: %w", MapError(err))
	}

	return book, nil
}

// GetForOwner implements store.BookStore.GetForOwner
func (s *BookStore) GetForOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1 AND user_id = $2`

	book, err := scanBook(s.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book for owner: %w", MapError(err))
	}

	return book, nil
}

// ListForOwner implements store.BookStore.ListForOwner. Entry payloads are
// several hundred kilobytes per completed book, so the listing query leaves
// them out.
func (s *BookStore) ListForOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Book, error) {
	query := `
		SELECT id, user_id, name, birth_year, birth_month, birth_day, interests,
			blend_level, cover_style, generation_status, entry_count,
			share_token, is_public, created_at, updated_at
		FROM books
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var books []*domain.Book
	for rows.Next() {
		var book domain.Book
		var interests []byte
		var coverImage, shareToken sql.NullString

		err := rows.Scan(
			&book.ID,
			&book.UserID,
			&book.Name,
			&book.BirthYear,
			&book.BirthMonth,
			&book.BirthDay,
			&interests,
			&book.BlendLevel,
			&book.CoverStyle,
			&book.Status,
			&book.EntryCount,
			&shareToken,
			&book.IsPublic,
			&book.CreatedAt,
			&book.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book row: %w", err)
		}

		if err := json.Unmarshal(interests, &book.Interests); err != nil {
			return nil, fmt.Errorf("failed to unmarshal interests: %w", err)
		}
		book.CoverImage = coverImage.String
		book.ShareToken = shareToken.String
		books = append(books, &book)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate book rows: %w", err)
	}

	return books, nil
}

// UpdateEntryCount implements store.BookStore.UpdateEntryCount
func (s *BookStore) UpdateEntryCount(ctx context.Context, id uuid.UUID, count int) error {
	query := `UPDATE books SET entry_count = $1, updated_at = $2 WHERE id = $3`

	result, err := s.db.ExecContext(ctx, query, count, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update entry count: %w", MapError(err))
	}

	return CheckRowsAffected(result, "book")
}

// FinalizeContent implements store.BookStore.FinalizeContent
func (s *BookStore) FinalizeContent(
	ctx context.Context,
	id uuid.UUID,
	entries []domain.Entry,
	coverImage string,
) error {
	log := logger.FromContext(ctx)

	payload, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal entries: %w", err)
	}

	query := `
		UPDATE books
		SET entries = $1,
			cover_image = $2,
			generation_status = $3,
			entry_count = $4,
			updated_at = $5
		WHERE id = $6
	`

	result, err := s.db.ExecContext(ctx, query,
		payload,
		nullableString(coverImage),
		domain.GenerationStatusComplete,
		len(entries),
		time.Now().UTC(),
		id,
	)
	if err != nil {
		log.Error("failed to finalize book content", "book_id", id, "error", err)
		return fmt.Errorf("failed to finalize book content: %w", MapError(err))
	}

	return CheckRowsAffected(result, "book")
}

// MarkGenerationFailed implements store.BookStore.MarkGenerationFailed
func (s *BookStore) MarkGenerationFailed(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE books SET generation_status = $1, updated_at = $2 WHERE id = $3`

	result, err := s.db.ExecContext(ctx, query, domain.GenerationStatusFailed, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to mark book failed: %w", MapError(err))
	}

	return CheckRowsAffected(result, "book")
}

// WithTx implements store.BookStore.WithTx
func (s *BookStore) WithTx(tx *sql.Tx) store.BookStore {
	return &BookStore{db: tx}
}

func scanBook(row *sql.Row) (*domain.Book, error) {
	var book domain.Book
	var interests, entries []byte
	var coverImage, shareToken sql.NullString

	err := row.Scan(
		&book.ID,
		&book.UserID,
		&book.Name,
		&book.BirthYear,
		&book.BirthMonth,
		&book.BirthDay,
		&interests,
		&book.BlendLevel,
		&book.CoverStyle,
		&entries,
		&coverImage,
		&book.Status,
		&book.EntryCount,
		&shareToken,
		&book.IsPublic,
		&book.CreatedAt,
		&book.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(interests, &book.Interests); err != nil {
		return nil, fmt.Errorf("failed to unmarshal interests: %w", err)
	}
	if err := json.Unmarshal(entries, &book.Entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal entries: %w", err)
	}
	book.CoverImage = coverImage.String
	book.ShareToken = shareToken.String

	return &book, nil
}

// nullableString maps "" to NULL so empty optionals don't occupy the column.
func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
