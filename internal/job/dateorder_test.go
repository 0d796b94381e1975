package job

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mattdotroberts/on-this-day/internal/domain"
)

func TestCalendarOrdinal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		day  string
		want int
	}{
		{"january first", "January 1", 1},
		{"december last", "December 31", 11*daysPerSlot + 31},
		{"mid year", "March 12", 2*daysPerSlot + 12},
		{"trailing comma", "July 4,", 6*daysPerSlot + 4},
		{"lowercase month", "march 12", 2*daysPerSlot + 12},
		{"uppercase month", "MARCH 12", 2*daysPerSlot + 12},
		{"surrounding whitespace", "  April 9  ", 3*daysPerSlot + 9},
		{"empty string", "", 0},
		{"month only", "March", 0},
		{"too many fields", "March 12 1990", 0},
		{"unknown month", "Smarch 12", 0},
		{"non-numeric day", "March twelfth", 0},
		{"day zero", "March 0", 0},
		{"day out of range", "March 32", 0},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, CalendarOrdinal(tc.day))
		})
	}
}

func TestCalendarOrdinal_MonthsStrictlyOrdered(t *testing.T) {
	t.Parallel()

	// The last day of each month must sort below the first day of the next.
	for i := 0; i < len(domain.MonthNames)-1; i++ {
		last := CalendarOrdinal(domain.MonthNames[i] + " 31")
		first := CalendarOrdinal(domain.MonthNames[i+1] + " 1")
		assert.Less(t, last, first, "%s 31 must sort before %s 1",
			domain.MonthNames[i], domain.MonthNames[i+1])
	}
}

func TestSortEntriesByCalendar(t *testing.T) {
	t.Parallel()

	entries := []domain.Entry{
		{Day: "December 31", Headline: "d"},
		{Day: "January 1", Headline: "a"},
		{Day: "garbled", Headline: "x"},
		{Day: "March 12", Headline: "b"},
		{Day: "March 12", Headline: "c"},
	}

	sorted := SortEntriesByCalendar(entries)

	// Unparsable days sort first; duplicates keep generation order.
	assert.Equal(t, "x", sorted[0].Headline)
	assert.Equal(t, "a", sorted[1].Headline)
	assert.Equal(t, "b", sorted[2].Headline)
	assert.Equal(t, "c", sorted[3].Headline)
	assert.Equal(t, "d", sorted[4].Headline)

	// The input slice is left untouched.
	assert.Equal(t, "December 31", entries[0].Day)
}

func TestSortEntriesByCalendar_Empty(t *testing.T) {
	t.Parallel()
	assert.Empty(t, SortEntriesByCalendar(nil))
}
