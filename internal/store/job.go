package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/mattdotroberts/on-this-day/internal/domain"
)

// UnitSuccess carries the outcome of one successful, non-final tick.
type UnitSuccess struct {
	// NextMonth is the new current_month value (old month + 1).
	NextMonth int

	// Progress is the derived advisory percentage for NextMonth.
	Progress int

	// Entries is the full accumulated entry list including the month just
	// generated. Persisted wholesale so a crash between ticks can never
	// leave a partially appended month.
	Entries []domain.Entry
}

// UnitFailure carries the outcome of a failed tick.
type UnitFailure struct {
	// Terminal is true once the retry budget is exhausted; the job status
	// becomes failed instead of cycling back to pending.
	Terminal     bool
	ErrorMessage string
	RetryCount   int
	LastRetryAt  time.Time
}

// JobStore defines the persistence contract for generation jobs. It is the
// sole concurrency-control surface in the system: AcquireLease must be
// atomic at the storage layer, and every commit operation clears the lease
// as part of the same statement that records the outcome.
type JobStore interface {
	// Create saves a new generation job.
	Create(ctx context.Context, job *domain.GenerationJob) error

	// GetForOwner retrieves a job by ID, scoped to its owner.
	// Returns ErrJobNotFound when the job does not exist or belongs to
	// someone else (existence is not revealed across owners).
	GetForOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.GenerationJob, error)

	// GetByBook retrieves the job driving the given book, scoped to its owner.
	GetByBook(ctx context.Context, bookID, ownerID uuid.UUID) (*domain.GenerationJob, error)

	// ListForOwner returns all of the owner's jobs, newest first.
	ListForOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.GenerationJob, error)

	// AcquireLease atomically claims the job for workerID at instant now.
	// It succeeds only if no lease is held, the held lease is older than
	// timeout, or the lease is already held by this same workerID. On
	// success the same statement sets locked_at/locked_by, flips status to
	// processing, and stamps started_at on first acquisition.
	// Returns false (no error) when another worker holds a fresh lease.
	AcquireLease(ctx context.Context, id uuid.UUID, workerID string, now time.Time, timeout time.Duration) (bool, error)

	// CommitUnitSuccess persists a successful tick and clears the lease in
	// one operation.
	CommitUnitSuccess(ctx context.Context, id uuid.UUID, result UnitSuccess) error

	// CommitUnitFailure records a failed attempt (retry bookkeeping or
	// terminal failure) and clears the lease in one operation.
	CommitUnitFailure(ctx context.Context, id uuid.UUID, result UnitFailure) error

	// CommitFinalization marks the job completed with the final sorted
	// entries, progress 100, lease cleared, completed_at set. Callers must
	// commit the book's final content first so that a crash between the two
	// writes leaves the book visibly complete and the job re-finalizable.
	CommitFinalization(ctx context.Context, id uuid.UUID, sortedEntries []domain.Entry, completedAt time.Time) error

	// Delete removes a job, scoped to its owner. Used for the manual
	// recovery path on terminally failed jobs.
	Delete(ctx context.Context, id, ownerID uuid.UUID) error

	// WithTx returns a JobStore bound to the given transaction.
	WithTx(tx *sql.Tx) JobStore
}
