// Package planner decomposes a full-year generation task into month-sized
// units of work. It is purely computational: fixed calendar lengths, no
// clock, no I/O.
package planner

import (
	"fmt"

	"github.com/mattdotroberts/on-this-day/internal/domain"
)

// daysPerMonth uses fixed calendar lengths. February is always 28;
// leap-day entries are deliberately out of scope.
var daysPerMonth = [domain.MonthsPerYear]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// MonthPlan describes one unit of work: a single month of daily entries.
type MonthPlan struct {
	// Index is the month index, 0 (January) through 11 (December).
	Index int

	// Name is the human-readable month name passed into prompts.
	Name string

	// Days is the number of daily entries the synthesizer must produce.
	Days int

	// ContainsBirthday is true when the subject's birth date falls in this
	// month, which triggers the mandatory birthday-entry rule.
	ContainsBirthday bool
}

// PlanMonth maps a month index and the subject's birth date to the unit of
// work for that month.
func PlanMonth(monthIndex int, birthMonth string, birthDay int) (MonthPlan, error) {
	if monthIndex < 0 || monthIndex >= domain.MonthsPerYear {
		return MonthPlan{}, fmt.Errorf("month index %d out of range [0,%d)", monthIndex, domain.MonthsPerYear)
	}

	name := domain.MonthNames[monthIndex]
	return MonthPlan{
		Index:            monthIndex,
		Name:             name,
		Days:             daysPerMonth[monthIndex],
		ContainsBirthday: name == birthMonth && birthDay >= 1 && birthDay <= daysPerMonth[monthIndex],
	}, nil
}

// TotalDays is the number of entries a completed book contains.
func TotalDays() int {
	total := 0
	for _, d := range daysPerMonth {
		total += d
	}
	return total
}
