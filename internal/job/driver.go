package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mattdotroberts/on-this-day/internal/domain"
	"github.com/mattdotroberts/on-this-day/internal/generation"
	"github.com/mattdotroberts/on-this-day/internal/planner"
	"github.com/mattdotroberts/on-this-day/internal/platform/metrics"
	"github.com/mattdotroberts/on-this-day/internal/store"
)

// Retry and lease policy for the pipeline.
const (
	// MaxRetries is the number of failed unit-of-work attempts a job gets
	// before it fails terminally.
	MaxRetries = 3

	// LockTimeout is how long a lease blocks other workers. A lease older
	// than this is treated as abandoned by a dead worker and reclaimable.
	LockTimeout = 5 * time.Minute
)

// Common errors
var (
	ErrNilJobStore    = errors.New("job store cannot be nil")
	ErrNilBookStore   = errors.New("book store cannot be nil")
	ErrNilUserStore   = errors.New("user store cannot be nil")
	ErrNilSynthesizer = errors.New("synthesizer cannot be nil")
	ErrNilNotifier    = errors.New("notifier cannot be nil")
	ErrEmptyWorkerID  = errors.New("worker ID cannot be empty")
)

// AdvanceStatus is the caller-visible outcome of one tick.
type AdvanceStatus string

const (
	// StatusCompleted means the job is done; repeated ticks are no-ops.
	StatusCompleted AdvanceStatus = "completed"

	// StatusProcessing covers both "a month just succeeded, more to go" and
	// "another worker holds the lease".
	StatusProcessing AdvanceStatus = "processing"

	// StatusRetrying means this tick's unit of work failed but budget
	// remains; the next tick re-attempts the same month.
	StatusRetrying AdvanceStatus = "error"

	// StatusFailed means the retry budget is exhausted; the job is terminal.
	StatusFailed AdvanceStatus = "failed"
)

// AdvanceResult reports the state of the job after one tick. Progress is
// advisory; only Status carries control-flow meaning.
type AdvanceResult struct {
	Status       AdvanceStatus `json:"status"`
	Progress     int           `json:"progress"`
	CurrentMonth int           `json:"current_month"`
	EntryCount   int           `json:"entry_count"`
	RetryCount   int           `json:"retry_count,omitempty"`
	Error        string        `json:"error,omitempty"`
	Message      string        `json:"message"`
}

// Driver is the externally-triggered entry point of the pipeline. One
// Advance call performs at most one month of synthesis under the job lease.
type Driver struct {
	jobs     store.JobStore
	books    store.BookStore
	users    store.UserStore
	synth    generation.Synthesizer
	notifier Notifier
	logger   *slog.Logger

	// workerID identifies this process for lease ownership. It is injected
	// at construction so tests can simulate distinct workers.
	workerID string

	// now is the clock, injectable for staleness tests.
	now func() time.Time
}

// NewWorkerID returns a fresh per-process lease identity.
func NewWorkerID() string {
	return uuid.NewString()
}

// NewDriver creates a Driver. All dependencies are required.
func NewDriver(
	jobs store.JobStore,
	books store.BookStore,
	users store.UserStore,
	synth generation.Synthesizer,
	notifier Notifier,
	workerID string,
	logger *slog.Logger,
) (*Driver, error) {
	if jobs == nil {
		return nil, ErrNilJobStore
	}
	if books == nil {
		return nil, ErrNilBookStore
	}
	if users == nil {
		return nil, ErrNilUserStore
	}
	if synth == nil {
		return nil, ErrNilSynthesizer
	}
	if notifier == nil {
		return nil, ErrNilNotifier
	}
	if workerID == "" {
		return nil, ErrEmptyWorkerID
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Driver{
		jobs:     jobs,
		books:    books,
		users:    users,
		synth:    synth,
		notifier: notifier,
		logger:   logger.With("component", "job_driver", "worker_id", workerID),
		workerID: workerID,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

// WithClock overrides the driver's clock. Intended for tests.
func (d *Driver) WithClock(now func() time.Time) *Driver {
	d.now = now
	return d
}

// Advance performs one tick for the given job on behalf of ownerID.
//
// Preconditions short-circuit without mutating anything: a completed job
// reports completed, a terminally failed job reports failed, and a job whose
// lease is fresh and foreign reports processing. Otherwise the lease is
// acquired, exactly one month is synthesized, and the outcome (advance,
// retry bookkeeping, terminal failure, or finalization) is persisted with
// the lease cleared before Advance returns.
//
// Store-level errors (job missing, not owned) are returned as errors;
// synthesis failures are recorded into the job first and reported in the
// result, never lost.
func (d *Driver) Advance(ctx context.Context, jobID, ownerID uuid.UUID) (*AdvanceResult, error) {
	log := d.logger.With("job_id", jobID)

	j, err := d.jobs.GetForOwner(ctx, jobID, ownerID)
	if err != nil {
		return nil, err
	}

	if j.Status == domain.JobStatusCompleted {
		return &AdvanceResult{
			Status:       StatusCompleted,
			Progress:     100,
			CurrentMonth: j.CurrentMonth,
			EntryCount:   len(j.GeneratedEntries),
			Message:      "Job already completed",
		}, nil
	}

	if j.TerminallyFailed(MaxRetries) {
		return &AdvanceResult{
			Status:       StatusFailed,
			Progress:     j.Progress,
			CurrentMonth: j.CurrentMonth,
			EntryCount:   len(j.GeneratedEntries),
			RetryCount:   j.RetryCount,
			Error:        j.ErrorMessage,
			Message:      "Job failed after max retries",
		}, nil
	}

	now := d.now()

	if j.LeaseHeldElsewhere(d.workerID, now, LockTimeout) {
		metrics.LeaseContention.Inc()
		return contentionResult(j), nil
	}

	acquired, err := d.jobs.AcquireLease(ctx, jobID, d.workerID, now, LockTimeout)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lease: %w", err)
	}
	if !acquired {
		// Lost the race against another tick between load and acquire.
		metrics.LeaseContention.Inc()
		return contentionResult(j), nil
	}

	metrics.TicksTotal.Inc()

	book, err := d.books.GetByID(ctx, j.BookID)
	if err != nil {
		return nil, fmt.Errorf("failed to load book for job: %w", err)
	}

	// A job past the last month but not completed means a previous tick
	// crashed between the book write and the job write. Re-finalize.
	if j.AllMonthsDone() {
		log.Info("all months already persisted, re-running finalization")
		return d.finalize(ctx, j, book, j.GeneratedEntries)
	}

	plan, err := planner.PlanMonth(j.CurrentMonth, book.BirthMonth, book.BirthDay)
	if err != nil {
		return nil, err
	}

	log.Info("processing month",
		"month", plan.Name,
		"month_index", plan.Index,
		"days", plan.Days,
		"prior_entries", len(j.GeneratedEntries))

	entries, synthErr := d.synth.SynthesizeMonth(ctx, book.Prefs, plan, j.GeneratedEntries)
	if synthErr != nil {
		return d.recordFailure(ctx, j, book, synthErr)
	}

	metrics.MonthsSynthesized.Inc()

	all := make([]domain.Entry, 0, len(j.GeneratedEntries)+len(entries))
	all = append(all, j.GeneratedEntries...)
	all = append(all, entries...)

	nextMonth := j.CurrentMonth + 1
	if nextMonth >= domain.MonthsPerYear {
		return d.finalize(ctx, j, book, all)
	}

	progress := domain.ProgressForMonth(nextMonth)
	if err := d.jobs.CommitUnitSuccess(ctx, j.ID, store.UnitSuccess{
		NextMonth: nextMonth,
		Progress:  progress,
		Entries:   all,
	}); err != nil {
		return nil, fmt.Errorf("failed to commit unit result: %w", err)
	}

	if err := d.books.UpdateEntryCount(ctx, book.ID, len(all)); err != nil {
		// Count mirroring is display-only; the job already advanced.
		log.Warn("failed to mirror entry count onto book", "error", err)
	}

	log.Info("month complete",
		"month_index", j.CurrentMonth,
		"next_month", nextMonth,
		"progress", progress,
		"entry_count", len(all))

	return &AdvanceResult{
		Status:       StatusProcessing,
		Progress:     progress,
		CurrentMonth: nextMonth,
		EntryCount:   len(all),
		Message:      fmt.Sprintf("Month %d/%d complete", nextMonth, domain.MonthsPerYear),
	}, nil
}

// recordFailure persists a failed attempt before reporting it, so the retry
// bookkeeping survives even if the response channel fails.
func (d *Driver) recordFailure(
	ctx context.Context,
	j *domain.GenerationJob,
	book *domain.Book,
	synthErr error,
) (*AdvanceResult, error) {
	log := d.logger.With("job_id", j.ID)
	metrics.SynthesisFailures.Inc()

	newRetryCount := j.RetryCount + 1
	terminal := newRetryCount >= MaxRetries

	log.Error("synthesis failed",
		"error", synthErr,
		"month_index", j.CurrentMonth,
		"retry_count", newRetryCount,
		"terminal", terminal)

	if err := d.jobs.CommitUnitFailure(ctx, j.ID, store.UnitFailure{
		Terminal:     terminal,
		ErrorMessage: synthErr.Error(),
		RetryCount:   newRetryCount,
		LastRetryAt:  d.now(),
	}); err != nil {
		return nil, fmt.Errorf("failed to record unit failure: %w", err)
	}

	if !terminal {
		return &AdvanceResult{
			Status:       StatusRetrying,
			Progress:     j.Progress,
			CurrentMonth: j.CurrentMonth,
			EntryCount:   len(j.GeneratedEntries),
			RetryCount:   newRetryCount,
			Error:        synthErr.Error(),
			Message:      fmt.Sprintf("Error occurred, will retry (%d/%d)", newRetryCount, MaxRetries),
		}, nil
	}

	metrics.JobsFailed.Inc()

	if err := d.books.MarkGenerationFailed(ctx, book.ID); err != nil {
		log.Error("failed to mark book generation failed", "error", err)
	}

	d.notifyFailed(ctx, j.UserID, book.Name)

	return &AdvanceResult{
		Status:       StatusFailed,
		Progress:     j.Progress,
		CurrentMonth: j.CurrentMonth,
		EntryCount:   len(j.GeneratedEntries),
		RetryCount:   newRetryCount,
		Error:        synthErr.Error(),
		Message:      "Job failed after max retries",
	}, nil
}

// notifyFailed is best-effort: lookup and delivery errors are logged only.
func (d *Driver) notifyFailed(ctx context.Context, userID uuid.UUID, bookName string) {
	user, err := d.users.GetByID(ctx, userID)
	if err != nil {
		d.logger.Warn("could not load owner for failure notification", "error", err, "user_id", userID)
		return
	}
	if err := d.notifier.NotifyFailed(ctx, user.Email, bookName); err != nil {
		metrics.NotifierFailures.Inc()
		d.logger.Warn("failure notification not delivered", "error", err, "user_id", userID)
	}
}

func contentionResult(j *domain.GenerationJob) *AdvanceResult {
	return &AdvanceResult{
		Status:       StatusProcessing,
		Progress:     j.Progress,
		CurrentMonth: j.CurrentMonth,
		EntryCount:   len(j.GeneratedEntries),
		Message:      "Job is being processed by another worker",
	}
}
