package models

import "time"

// StudentStatus tracks a student's enrollment state.
type StudentStatus string

const (
	StudentActive      StudentStatus = "active"
	StudentInactive    StudentStatus = "inactive"
	StudentGraduated   StudentStatus = "graduated"
	StudentTransferred StudentStatus = "transferred"
)

// Gender is the backend's gender enumeration.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Student models a learner record as served by the backend. StudentID is the
// server-generated registration number.
type Student struct {
	ID               string        `json:"id"`
	StudentID        string        `json:"student_id"`
	FirstName        string        `json:"first_name"`
	LastName         string        `json:"last_name"`
	Email            string        `json:"email"`
	DateOfBirth      time.Time     `json:"date_of_birth"`
	Gender           Gender        `json:"gender"`
	Phone            string        `json:"phone"`
	Address          string        `json:"address"`
	ParentName       string        `json:"parent_name"`
	ParentEmail      string        `json:"parent_email"`
	ParentPhone      string        `json:"parent_phone"`
	EmergencyContact string        `json:"emergency_contact"`
	EnrollmentDate   time.Time     `json:"enrollment_date"`
	ClassID          *string       `json:"class_id,omitempty"`
	ClassName        string        `json:"class_name,omitempty"`
	Status           StudentStatus `json:"status"`

	MedicalConditions     string `json:"medical_conditions"`
	Allergies             string `json:"allergies"`
	HasDisability         bool   `json:"has_disability"`
	DisabilityDescription string `json:"disability_description"`

	// Rwanda administrative location.
	Province string `json:"province"`
	District string `json:"district"`
	Sector   string `json:"sector"`
	Cell     string `json:"cell"`
	Village  string `json:"village"`
}

// FullName joins first and last name for display.
func (s Student) FullName() string {
	if s.FirstName == "" {
		return s.LastName
	}
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

// StudentRow is a roster row carrying billing enrichment for the view layer.
type StudentRow struct {
	Student
	Bills       []Bill `json:"bills,omitempty"`
	Outstanding int64  `json:"outstanding"`
	Loading     bool   `json:"loading"`
}
