package job

import (
	"context"
	"fmt"

	"github.com/mattdotroberts/on-this-day/internal/domain"
	"github.com/mattdotroberts/on-this-day/internal/platform/metrics"
)

// finalize turns an accumulated entry set into a finished book: calendar
// sort, best-effort cover, the book write, then the job completion write.
//
// Write order matters. The book is the reader-facing artifact, so it commits
// first; if the process dies before the job write, the job still reads as
// in-flight and the next tick re-runs finalize, which is idempotent. A cover
// failure never blocks completion.
func (d *Driver) finalize(
	ctx context.Context,
	j *domain.GenerationJob,
	book *domain.Book,
	entries []domain.Entry,
) (*AdvanceResult, error) {
	log := d.logger.With("job_id", j.ID, "book_id", book.ID)

	sorted := SortEntriesByCalendar(entries)

	coverImage := book.CoverImage
	if coverImage == "" {
		img, err := d.synth.SynthesizeCover(ctx, book.Prefs)
		if err != nil {
			metrics.CoverFailures.Inc()
			log.Warn("cover synthesis failed, completing without cover", "error", err)
		} else {
			coverImage = img
		}
	}

	if err := d.books.FinalizeContent(ctx, book.ID, sorted, coverImage); err != nil {
		return nil, fmt.Errorf("failed to finalize book content: %w", err)
	}

	if err := d.jobs.CommitFinalization(ctx, j.ID, sorted, d.now()); err != nil {
		return nil, fmt.Errorf("failed to mark job completed: %w", err)
	}

	metrics.JobsCompleted.Inc()
	log.Info("book generation complete",
		"entry_count", len(sorted),
		"has_cover", coverImage != "")

	d.notifyComplete(ctx, j, book)

	return &AdvanceResult{
		Status:       StatusCompleted,
		Progress:     100,
		CurrentMonth: domain.MonthsPerYear,
		EntryCount:   len(sorted),
		Message:      "Book generation complete",
	}, nil
}

// notifyComplete is best-effort: lookup and delivery errors are logged only.
func (d *Driver) notifyComplete(ctx context.Context, j *domain.GenerationJob, book *domain.Book) {
	user, err := d.users.GetByID(ctx, j.UserID)
	if err != nil {
		d.logger.Warn("could not load owner for completion notification", "error", err, "user_id", j.UserID)
		return
	}
	if err := d.notifier.NotifyComplete(ctx, user.Email, book.ID, book.Name); err != nil {
		metrics.NotifierFailures.Inc()
		d.logger.Warn("completion notification not delivered", "error", err, "user_id", j.UserID)
	}
}
