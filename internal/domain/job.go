package domain

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the processing state of a generation job.
type JobStatus string

// Possible job status values
const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// MonthsPerYear is the number of units of work a full-year job contains.
const MonthsPerYear = 12

// Common validation errors for GenerationJob
var (
	ErrEmptyJobID       = NewValidationError("job ID", "cannot be empty", ErrValidation)
	ErrEmptyJobBookID   = NewValidationError("job book ID", "cannot be empty", ErrValidation)
	ErrEmptyJobUserID   = NewValidationError("job user ID", "cannot be empty", ErrValidation)
	ErrInvalidJobStatus = NewValidationError("job status", "is not a recognized value", ErrValidation)
	ErrInvalidJobMonth  = NewValidationError("current month", "must be between 0 and 12", ErrValidation)
)

// GenerationJob drives one book from empty to complete, one month per tick.
// The job row is the single shared mutable resource in the system; the
// locked_at/locked_by pair is the lease that serializes ticks.
type GenerationJob struct {
	ID     uuid.UUID `json:"id"`
	BookID uuid.UUID `json:"book_id"`
	UserID uuid.UUID `json:"user_id"`

	Status JobStatus `json:"status"`

	// Progress is a derived 0-100 percentage. Advisory only; completion is
	// decided by Status, never by Progress.
	Progress int `json:"progress"`

	// CurrentMonth is the next month index to process, 0-11. It reaches 12
	// only once every unit of work has been durably persisted.
	CurrentMonth int `json:"current_month"`

	// GeneratedEntries accumulates the output of completed months.
	// Append-only until finalization re-sorts it.
	GeneratedEntries []Entry `json:"generated_entries"`

	ErrorMessage string     `json:"error_message,omitempty"`
	RetryCount   int        `json:"retry_count"`
	LastRetryAt  *time.Time `json:"last_retry_at,omitempty"`

	LockedAt *time.Time `json:"locked_at,omitempty"`
	LockedBy string     `json:"locked_by,omitempty"`

	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewGenerationJob creates a pending job for the given book.
func NewGenerationJob(bookID, userID uuid.UUID) (*GenerationJob, error) {
	job := &GenerationJob{
		ID:               uuid.New(),
		BookID:           bookID,
		UserID:           userID,
		Status:           JobStatusPending,
		GeneratedEntries: []Entry{},
		CreatedAt:        time.Now().UTC(),
		UpdatedAt:        time.Now().UTC(),
	}

	if err := job.Validate(); err != nil {
		return nil, err
	}

	return job, nil
}

// Validate checks if the GenerationJob has valid data.
func (j *GenerationJob) Validate() error {
	if j.ID == uuid.Nil {
		return ErrEmptyJobID
	}

	if j.BookID == uuid.Nil {
		return ErrEmptyJobBookID
	}

	if j.UserID == uuid.Nil {
		return ErrEmptyJobUserID
	}

	if !isValidJobStatus(j.Status) {
		return ErrInvalidJobStatus
	}

	if j.CurrentMonth < 0 || j.CurrentMonth > MonthsPerYear {
		return ErrInvalidJobMonth
	}

	return nil
}

// LeaseHeldElsewhere reports whether another worker holds a fresh lease on
// this job at the given instant. A lease older than timeout is stale and
// does not block; a lease held by workerID itself is re-entrant.
func (j *GenerationJob) LeaseHeldElsewhere(workerID string, now time.Time, timeout time.Duration) bool {
	if j.LockedAt == nil {
		return false
	}
	if j.LockedBy == workerID {
		return false
	}
	return now.Sub(*j.LockedAt) <= timeout
}

// TerminallyFailed reports whether the job has exhausted its retry budget.
func (j *GenerationJob) TerminallyFailed(maxRetries int) bool {
	return j.Status == JobStatusFailed && j.RetryCount >= maxRetries
}

// AllMonthsDone reports whether every unit of work has been persisted and
// only finalization remains (or has already happened).
func (j *GenerationJob) AllMonthsDone() bool {
	return j.CurrentMonth >= MonthsPerYear
}

// ProgressForMonth derives the advisory progress percentage for a given
// next-month index: round(month/12 * 100).
func ProgressForMonth(month int) int {
	return int(float64(month)/float64(MonthsPerYear)*100 + 0.5)
}

func isValidJobStatus(status JobStatus) bool {
	switch status {
	case JobStatusPending, JobStatusProcessing, JobStatusCompleted, JobStatusFailed:
		return true
	default:
		return false
	}
}
