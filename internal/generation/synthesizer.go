package generation

import (
	"context"

	"github.com/mattdotroberts/on-this-day/internal/domain"
	"github.com/mattdotroberts/on-this-day/internal/planner"
)

// Synthesizer produces book content from the external generation provider.
// Implementations are stateless request/response adapters: they never retry
// (retrying is the job state machine's responsibility) and never persist
// anything.
type Synthesizer interface {
	// SynthesizeMonth requests exactly plan.Days entries for the given month.
	// previous carries all entries generated so far; implementations must
	// summarize it (not forward it verbatim) to bound prompt size while
	// steering the provider away from years and topics already used.
	//
	// A response with the wrong entry count or missing required fields is a
	// hard failure wrapping ErrInvalidResponse, never a silent truncation.
	SynthesizeMonth(
		ctx context.Context,
		prefs domain.Prefs,
		plan planner.MonthPlan,
		previous []domain.Entry,
	) ([]domain.Entry, error)

	// SynthesizeCover requests a single cover illustration and returns it as
	// a data URL. Returns "" with a nil error when the provider produced no
	// image; the book completes without a cover in that case.
	SynthesizeCover(ctx context.Context, prefs domain.Prefs) (string, error)
}
