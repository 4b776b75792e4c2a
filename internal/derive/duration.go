package derive

import "time"

// DurationMonths returns the number of whole months between two dates,
// never negative. Used for the academic-year length preview.
func DurationMonths(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if end.Day() < start.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// DurationDays returns the number of whole days between two dates, never
// negative.
func DurationDays(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours() / 24)
}
