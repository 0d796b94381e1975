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

// JobStore implements store.JobStore using PostgreSQL. The lease predicate
// lives in single UPDATE statements so mutual exclusion holds without any
// application-level locking.
type JobStore struct {
	db store.DBTX
}

// NewJobStore creates a PostgreSQL-backed JobStore.
func NewJobStore(db store.DBTX) *JobStore {
	return &JobStore{db: db}
}

var _ store.JobStore = (*JobStore)(nil)

const jobColumns = `id, book_id, user_id, status, progress, current_month,
	generated_entries, error_message, retry_count, last_retry_at,
	locked_at, locked_by, started_at, completed_at, created_at, updated_at`

// Create implements store.JobStore.Create
func (s *JobStore) Create(ctx context.Context, job *domain.GenerationJob) error {
	log := logger.FromContext(ctx)

	if err := job.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	entries, err := json.Marshal(job.GeneratedEntries)
	if err != nil {
		return fmt.Errorf("failed to marshal generated entries: %w", err)
	}

	query := `
		INSERT INTO generation_jobs (` + jobColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err = s.db.ExecContext(ctx, query,
		job.ID,
		job.BookID,
		job.UserID,
		job.Status,
		job.Progress,
		job.CurrentMonth,
		entries,
		nullableString(job.ErrorMessage),
		job.RetryCount,
		job.LastRetryAt,
		job.LockedAt,
		nullableString(job.LockedBy),
		job.StartedAt,
		job.CompletedAt,
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create generation job", "job_id", job.ID, "error", err)
		return fmt.Errorf("failed to create generation job: %w", MapError(err))
	}

	return nil
}

// GetForOwner implements store.JobStore.GetForOwner
func (s *JobStore) GetForOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.GenerationJob, error) {
	query := `SELECT ` + jobColumns + ` FROM generation_jobs WHERE id = $1 AND user_id = $2`

	job, err := scanJob(s.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get generation job: %w", MapError(err))
	}

	return job, nil
}

// GetByBook implements store.JobStore.GetByBook
func (s *JobStore) GetByBook(ctx context.Context, bookID, ownerID uuid.UUID) (*domain.GenerationJob, error) {
	query := `SELECT ` + jobColumns + ` FROM generation_jobs WHERE book_id = $1 AND user_id = $2`

	job, err := scanJob(s.db.QueryRowContext(ctx, query, bookID, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to get generation job by book: %w", MapError(err))
	}

	return job, nil
}

// ListForOwner implements store.JobStore.ListForOwner. Entry payloads are
// omitted from listings.
func (s *JobStore) ListForOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.GenerationJob, error) {
	query := `
		SELECT id, book_id, user_id, status, progress, current_month,
			error_message, retry_count, last_retry_at,
			locked_at, locked_by, started_at, completed_at, created_at, updated_at
		FROM generation_jobs
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list generation jobs: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var jobs []*domain.GenerationJob
	for rows.Next() {
		var job domain.GenerationJob
		var errorMessage, lockedBy sql.NullString

		err := rows.Scan(
			&job.ID,
			&job.BookID,
			&job.UserID,
			&job.Status,
			&job.Progress,
			&job.CurrentMonth,
			&errorMessage,
			&job.RetryCount,
			&job.LastRetryAt,
			&job.LockedAt,
			&lockedBy,
			&job.StartedAt,
			&job.CompletedAt,
			&job.CreatedAt,
			&job.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan generation job row: %w", err)
		}

		job.ErrorMessage = errorMessage.String
		job.LockedBy = lockedBy.String
		jobs = append(jobs, &job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate generation job rows: %w", err)
	}

	return jobs, nil
}

// AcquireLease implements store.JobStore.AcquireLease. The WHERE clause is
// the entire mutual-exclusion protocol: the lease is granted when it is
// free, stale, or already held by this worker, and the grant plus the
// status flip happen in one atomic statement.
func (s *JobStore) AcquireLease(
	ctx context.Context,
	id uuid.UUID,
	workerID string,
	now time.Time,
	timeout time.Duration,
) (bool, error) {
	log := logger.FromContext(ctx)

	staleBefore := now.Add(-timeout)

	query := `
		UPDATE generation_jobs
		SET locked_at = $1,
			locked_by = $2,
			status = $3,
			started_at = COALESCE(started_at, $1),
			updated_at = $1
		WHERE id = $4
			AND status NOT IN ($5, $6)
			AND (locked_at IS NULL OR locked_at < $7 OR locked_by = $2)
	`

	result, err := s.db.ExecContext(ctx, query,
		now,
		workerID,
		domain.JobStatusProcessing,
		id,
		domain.JobStatusCompleted,
		domain.JobStatusFailed,
		staleBefore,
	)
	if err != nil {
		log.Error("failed to acquire job lease", "job_id", id, "error", err)
		return false, store.NewStoreError("generation_job", "acquire_lease", "update failed", MapError(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

// CommitUnitSuccess implements store.JobStore.CommitUnitSuccess. The month
// advance, the full entry list, and the lease release land in one statement
// so a crash can never persist half a month.
func (s *JobStore) CommitUnitSuccess(ctx context.Context, id uuid.UUID, result store.UnitSuccess) error {
	payload, err := json.Marshal(result.Entries)
	if err != nil {
		return fmt.Errorf("failed to marshal generated entries: %w", err)
	}

	query := `
		UPDATE generation_jobs
		SET current_month = $1,
			progress = $2,
			generated_entries = $3,
			status = $4,
			locked_at = NULL,
			locked_by = NULL,
			updated_at = $5
		WHERE id = $6
	`

	res, err := s.db.ExecContext(ctx, query,
		result.NextMonth,
		result.Progress,
		payload,
		domain.JobStatusProcessing,
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return store.NewStoreError("generation_job", "commit_unit_success", "update failed", MapError(err))
	}

	return CheckRowsAffected(res, "generation job")
}

// CommitUnitFailure implements store.JobStore.CommitUnitFailure. Non-terminal
// failures cycle the job back to pending so the next tick re-attempts the
// same month.
func (s *JobStore) CommitUnitFailure(ctx context.Context, id uuid.UUID, result store.UnitFailure) error {
	status := domain.JobStatusPending
	if result.Terminal {
		status = domain.JobStatusFailed
	}

	query := `
		UPDATE generation_jobs
		SET status = $1,
			error_message = $2,
			retry_count = $3,
			last_retry_at = $4,
			locked_at = NULL,
			locked_by = NULL,
			updated_at = $5
		WHERE id = $6
	`

	res, err := s.db.ExecContext(ctx, query,
		status,
		result.ErrorMessage,
		result.RetryCount,
		result.LastRetryAt,
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return store.NewStoreError("generation_job", "commit_unit_failure", "update failed", MapError(err))
	}

	return CheckRowsAffected(res, "generation job")
}

// CommitFinalization implements store.JobStore.CommitFinalization
func (s *JobStore) CommitFinalization(
	ctx context.Context,
	id uuid.UUID,
	sortedEntries []domain.Entry,
	completedAt time.Time,
) error {
	payload, err := json.Marshal(sortedEntries)
	if err != nil {
		return fmt.Errorf("failed to marshal generated entries: %w", err)
	}

	query := `
		UPDATE generation_jobs
		SET status = $1,
			progress = 100,
			current_month = $2,
			generated_entries = $3,
			completed_at = $4,
			locked_at = NULL,
			locked_by = NULL,
			updated_at = $4
		WHERE id = $5
	`

	res, err := s.db.ExecContext(ctx, query,
		domain.JobStatusCompleted,
		domain.MonthsPerYear,
		payload,
		completedAt,
		id,
	)
	if err != nil {
		return store.NewStoreError("generation_job", "commit_finalization", "update failed", MapError(err))
	}

	return CheckRowsAffected(res, "generation job")
}

// Delete implements store.JobStore.Delete
func (s *JobStore) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	query := `DELETE FROM generation_jobs WHERE id = $1 AND user_id = $2`

	res, err := s.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete generation job: %w", MapError(err))
	}

	if err := CheckRowsAffected(res, "generation job"); err != nil {
		return store.ErrJobNotFound
	}
	return nil
}

// WithTx implements store.JobStore.WithTx
func (s *JobStore) WithTx(tx *sql.Tx) store.JobStore {
	return &JobStore{db: tx}
}

func scanJob(row *sql.Row) (*domain.GenerationJob, error) {
	var job domain.GenerationJob
	var entries []byte
	var errorMessage, lockedBy sql.NullString

	err := row.Scan(
		&job.ID,
		&job.BookID,
		&job.UserID,
		&job.Status,
		&job.Progress,
		&job.CurrentMonth,
		&entries,
		&errorMessage,
		&job.RetryCount,
		&job.LastRetryAt,
		&job.LockedAt,
		&lockedBy,
		&job.StartedAt,
		&job.CompletedAt,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(entries, &job.GeneratedEntries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal generated entries: %w", err)
	}
	job.ErrorMessage = errorMessage.String
	job.LockedBy = lockedBy.String

	return &job, nil
}
