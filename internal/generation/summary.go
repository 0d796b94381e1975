package generation

import (
	"fmt"
	"strings"

	"github.com/mattdotroberts/on-this-day/internal/domain"
)

// Prompt-size caps for the anti-repetition context. By the last month the
// accumulated entry list is several hundred records; only a bounded summary
// of it is ever forwarded to the provider.
const (
	maxSummaryYears     = 30
	maxSummaryHeadlines = 15
)

// BuildContextSummary condenses previously generated entries into the
// anti-repetition context for the next month's prompt: the set of years
// already featured plus the most recent headlines.
func BuildContextSummary(previous []domain.Entry, monthIndex int) string {
	if len(previous) == 0 {
		return "This is the first month. No previous entries yet."
	}

	years := uniqueYears(previous, maxSummaryYears)

	start := len(previous) - maxSummaryHeadlines
	if start < 0 {
		start = 0
	}
	var headlines strings.Builder
	for _, e := range previous[start:] {
		fmt.Fprintf(&headlines, "%s: %s\n", e.Day, e.Headline)
	}

	return fmt.Sprintf(`PREVIOUS MONTHS CONTEXT (Months 1-%d completed, %d entries):

Years already featured: %s
Recent entries:
%s
**IMPORTANT**: Do NOT repeat these years or similar topics. Find fresh, unique events.`,
		monthIndex, len(previous), strings.Join(years, ", "), headlines.String())
}

// uniqueYears returns up to limit of the most recently used distinct years,
// oldest first.
func uniqueYears(entries []domain.Entry, limit int) []string {
	seen := make(map[string]struct{}, len(entries))
	ordered := make([]string, 0, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.Year]; ok {
			continue
		}
		seen[e.Year] = struct{}{}
		ordered = append(ordered, e.Year)
	}

	if len(ordered) > limit {
		ordered = ordered[len(ordered)-limit:]
	}
	return ordered
}
