package models

import "time"

// TermStatus tracks the lifecycle of an academic term.
type TermStatus string

const (
	TermUpcoming  TermStatus = "upcoming"
	TermActive    TermStatus = "active"
	TermCompleted TermStatus = "completed"
)

// Term models a term nested inside an academic year.
type Term struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	AcademicYearID string     `json:"academic_year_id"`
	StartDate      time.Time  `json:"start_date"`
	EndDate        time.Time  `json:"end_date"`
	Description    string     `json:"description"`
	Status         TermStatus `json:"status"`
}

// Within reports whether the term's range nests inside the given year's range.
func (t Term) Within(year AcademicYear) bool {
	return !t.StartDate.Before(year.StartDate) && !t.EndDate.After(year.EndDate)
}
