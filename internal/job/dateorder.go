package job

import (
	"sort"
	"strconv"
	"strings"

	"github.com/mattdotroberts/on-this-day/internal/domain"
)

// daysPerSlot is the spacing between month buckets in the calendar ordinal.
// Any value >= 31 works; 32 keeps day 31 of one month below day 1 of the next.
const daysPerSlot = 32

// CalendarOrdinal maps an entry day string like "March 12" to a sortable
// position in the calendar year, independent of the historical year the
// entry describes. Unparsable input sorts first (ordinal 0) rather than
// failing: a formatting quirk in one entry must not sink an otherwise
// complete book.
func CalendarOrdinal(day string) int {
	fields := strings.Fields(strings.TrimSpace(day))
	if len(fields) != 2 {
		return 0
	}

	monthIndex := -1
	for i, name := range domain.MonthNames {
		if strings.EqualFold(fields[0], name) {
			monthIndex = i
			break
		}
	}
	if monthIndex < 0 {
		return 0
	}

	dayNum, err := strconv.Atoi(strings.TrimSuffix(fields[1], ","))
	if err != nil || dayNum < 1 || dayNum > 31 {
		return 0
	}

	return monthIndex*daysPerSlot + dayNum
}

// SortEntriesByCalendar returns a copy of entries ordered January 1 through
// December 31. The sort is stable so entries with equal (or unparsable)
// ordinals keep their generation order.
func SortEntriesByCalendar(entries []domain.Entry) []domain.Entry {
	sorted := make([]domain.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return CalendarOrdinal(sorted[i].Day) < CalendarOrdinal(sorted[j].Day)
	})
	return sorted
}
