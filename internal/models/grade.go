package models

import "regexp"

// GradeNamePattern constrains grade codes: nursery (N1..) or primary (P1..).
var GradeNamePattern = regexp.MustCompile(`^[NP]\d+$`)

// Grade models a grade level (e.g. N1, P3) grouping one or more classes.
type Grade struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	DisplayName  string  `json:"display_name"`
	Level        int     `json:"level"`
	Description  string  `json:"description"`
	IsActive     bool    `json:"is_active"`
	Classes      []Class `json:"classes,omitempty"`
	StudentCount int     `json:"student_count"`
}

// GradeStatistics is the aggregate shape served by the grade statistics endpoint.
type GradeStatistics struct {
	TotalGrades   int `json:"total_grades"`
	ActiveGrades  int `json:"active_grades"`
	TotalClasses  int `json:"total_classes"`
	TotalStudents int `json:"total_students"`
}
