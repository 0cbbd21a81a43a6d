package utils

import "time"

// HoursPerWorkDay is the planned working time of one work day.
const HoursPerWorkDay = 8

// IsWeekday reports whether t falls on Monday through Friday.
func IsWeekday(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// WorkDays counts the Monday–Friday days of a month. Public holidays are not
// taken into account.
func WorkDays(year int, month time.Month) int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	days := first.AddDate(0, 1, -1).Day()

	count := 0
	for day := 0; day < days; day++ {
		if IsWeekday(first.AddDate(0, 0, day)) {
			count++
		}
	}
	return count
}

// PlanHours returns the planned hours for a number of work days.
func PlanHours(workDays int) float64 {
	return float64(workDays * HoursPerWorkDay)
}
