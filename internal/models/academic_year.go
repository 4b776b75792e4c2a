package models

import "time"

// AcademicYearStatus tracks the lifecycle of an academic year.
type AcademicYearStatus string

const (
	AcademicYearDraft  AcademicYearStatus = "draft"
	AcademicYearActive AcademicYearStatus = "active"
	AcademicYearClosed AcademicYearStatus = "closed"
)

// AcademicYear models a school year as served by the backend.
type AcademicYear struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	StartDate   time.Time          `json:"start_date"`
	EndDate     time.Time          `json:"end_date"`
	Description string             `json:"description"`
	Status      AcademicYearStatus `json:"status"`
	CreatedAt   time.Time          `json:"created_at"`
}

// Deletable reports whether the console may offer deletion. Years that have
// been activated or closed are kept; the backend remains authoritative.
func (y AcademicYear) Deletable() bool {
	return y.Status == AcademicYearDraft
}
