package models

// Class represents a class section inside a grade.
type Class struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	GradeID           string   `json:"grade_id"`
	GradeName         string   `json:"grade_name"`
	Capacity          int      `json:"capacity"`
	Description       string   `json:"description"`
	IsActive          bool     `json:"is_active"`
	CurrentEnrollment int      `json:"current_enrollment"`
	Tariffs           []Tariff `json:"tariffs,omitempty"`
}

// FullName renders the display code used across the console, e.g. "N1A".
func (c Class) FullName() string {
	return c.GradeName + c.Name
}

// IsFull reports whether enrollment has reached capacity. Enrollment actions
// are disabled for full classes.
func (c Class) IsFull() bool {
	return c.Capacity > 0 && c.CurrentEnrollment >= c.Capacity
}

// Seats returns the number of remaining seats, never negative.
func (c Class) Seats() int {
	if seats := c.Capacity - c.CurrentEnrollment; seats > 0 {
		return seats
	}
	return 0
}

// ClassStats is the per-class statistic fetched during progressive loading.
type ClassStats struct {
	StudentCount int   `json:"student_count"`
	TariffCount  int   `json:"tariff_count"`
	TotalBilled  int64 `json:"total_billed"`
	TotalPaid    int64 `json:"total_paid"`
}

// ClassRow is a class list row carrying enrichment state for the view layer.
type ClassRow struct {
	Class
	Stats   ClassStats `json:"stats"`
	Loading bool       `json:"loading"`
}
