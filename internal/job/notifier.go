package job

import (
	"context"

	"github.com/google/uuid"
)

// Notifier delivers terminal-state notifications to the job's owner.
// Both calls are best-effort: the pipeline logs failures and never lets
// them affect the job outcome.
type Notifier interface {
	// NotifyComplete tells the owner their book is ready.
	NotifyComplete(ctx context.Context, address string, bookID uuid.UUID, bookName string) error

	// NotifyFailed tells the owner generation failed after all retries.
	NotifyFailed(ctx context.Context, address string, bookName string) error
}
