package domain

import "errors"

// ErrNegativeTimestamp rejects events dated before the unix epoch. Counters
// hold non-negative hours only, which the SQL bucket expressions rely on.
var ErrNegativeTimestamp = errors.New("timestamp before the unix epoch")

const (
	secondsPerHour = 60 * 60
	hoursPerDay    = 24
	daysPerWeek    = 7

	// WeekdayAlignment maps an epoch day to a Monday-based weekday:
	// weekday = (day + WeekdayAlignment) mod 7. Day 0 (1970-01-01) was a
	// Thursday, which is 3 when Monday is 0.
	WeekdayAlignment = 3
)

// FloorDiv divides rounding toward negative infinity.
func FloorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// FloorMod is the non-negative remainder matching FloorDiv.
func FloorMod(a, b int64) int64 {
	return a - FloorDiv(a, b)*b
}

// HourOf returns the absolute hour since the epoch for a unix timestamp.
func HourOf(ts int64) int64 { return FloorDiv(ts, secondsPerHour) }

// DayOf returns the UTC epoch day for a unix timestamp.
func DayOf(ts int64) int64 { return FloorDiv(ts, secondsPerHour*hoursPerDay) }

// ShiftedDay returns the calendar day of an absolute hour under a UTC offset
// given in hours.
func ShiftedDay(hour int64, offset int) int64 {
	return FloorDiv(hour+int64(offset), hoursPerDay)
}

// ShiftedHourOfDay returns the wall-clock hour (0..23) of an absolute hour
// under a UTC offset.
func ShiftedHourOfDay(hour int64, offset int) int64 {
	return FloorMod(hour+int64(offset), hoursPerDay)
}

// Weekday returns the Monday-based weekday (0..6) of an epoch day.
func Weekday(day int64) int {
	return int(FloorMod(day+WeekdayAlignment, daysPerWeek))
}

// NextWeekday returns the first day >= day that falls on weekday.
func NextWeekday(day int64, weekday int) int64 {
	return day + FloorMod(int64(weekday-Weekday(day)), daysPerWeek)
}
