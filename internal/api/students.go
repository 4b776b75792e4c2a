package api

import (
	"context"
	"net/url"

	"github.com/ishuri/school-console/internal/models"
)

// StudentRequest is the register/update payload for students.
type StudentRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email,omitempty"`
	DateOfBirth string `json:"date_of_birth"`
	Gender      string `json:"gender"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`

	ParentName  string `json:"parent_name"`
	ParentEmail string `json:"parent_email"`
	ParentPhone string `json:"parent_phone"`

	EmergencyContact string `json:"emergency_contact,omitempty"`
	EnrollmentDate   string `json:"enrollment_date,omitempty"`
	ClassID          string `json:"class_id,omitempty"`

	MedicalConditions     string `json:"medical_conditions,omitempty"`
	Allergies             string `json:"allergies,omitempty"`
	HasDisability         bool   `json:"has_disability"`
	DisabilityDescription string `json:"disability_description,omitempty"`

	Province string `json:"province,omitempty"`
	District string `json:"district,omitempty"`
	Sector   string `json:"sector,omitempty"`
	Cell     string `json:"cell,omitempty"`
	Village  string `json:"village,omitempty"`
}

// ImportRow is one spreadsheet row submitted to the bulk import endpoint.
type ImportRow struct {
	Row       int            `json:"row"`
	Student   StudentRequest `json:"student"`
	ClassCode string         `json:"class_code,omitempty"`
	Status    string         `json:"status,omitempty"`
}

// ImportOptions controls bulk import behaviour.
type ImportOptions struct {
	SkipErrors     bool `json:"skip_errors"`
	UpdateExisting bool `json:"update_existing"`
}

// ImportResult is the backend's per-import outcome.
type ImportResult struct {
	Imported int                 `json:"imported"`
	Updated  int                 `json:"updated"`
	Skipped  int                 `json:"skipped"`
	Errors   map[string][]string `json:"errors,omitempty"`
}

// ListStudents returns students, optionally scoped to one class.
func (c *Client) ListStudents(ctx context.Context, classID string) ([]models.Student, error) {
	query := url.Values{}
	if classID != "" {
		query.Set("class_id", classID)
	}
	var students []models.Student
	if err := c.get(ctx, "/students", query, &students); err != nil {
		return nil, err
	}
	return students, nil
}

// StudentsByClass returns the roster of one class.
func (c *Client) StudentsByClass(ctx context.Context, classID string) ([]models.Student, error) {
	var students []models.Student
	if err := c.get(ctx, "/classes/"+classID+"/students", nil, &students); err != nil {
		return nil, err
	}
	return students, nil
}

// RegisterStudent registers a new student; the student_id is server-generated.
func (c *Client) RegisterStudent(ctx context.Context, req StudentRequest) (*models.Student, error) {
	var student models.Student
	if err := c.post(ctx, "/students", req, &student); err != nil {
		return nil, err
	}
	return &student, nil
}

// UpdateStudent updates a student's mutable fields.
func (c *Client) UpdateStudent(ctx context.Context, id string, req StudentRequest) (*models.Student, error) {
	var student models.Student
	if err := c.put(ctx, "/students/"+id, req, &student); err != nil {
		return nil, err
	}
	return &student, nil
}

// DeactivateStudent marks a student inactive with a reason.
func (c *Client) DeactivateStudent(ctx context.Context, id, reason string) error {
	body := map[string]string{"reason": reason}
	return c.post(ctx, "/students/"+id+"/deactivate", body, nil)
}

// PromoteStudent moves a student up to a target grade.
func (c *Client) PromoteStudent(ctx context.Context, id, targetGradeID string) (*models.Student, error) {
	body := map[string]string{"target_grade_id": targetGradeID}
	var student models.Student
	if err := c.post(ctx, "/students/"+id+"/promote", body, &student); err != nil {
		return nil, err
	}
	return &student, nil
}

// BulkPromoteStudents promotes a set of students into a target grade/class.
func (c *Client) BulkPromoteStudents(ctx context.Context, ids []string, targetGradeID, targetClassID string) error {
	body := map[string]interface{}{
		"student_ids":     ids,
		"target_grade_id": targetGradeID,
		"target_class_id": targetClassID,
	}
	return c.post(ctx, "/students/bulk-promote", body, nil)
}

// TransferStudent moves a student to another class.
func (c *Client) TransferStudent(ctx context.Context, id, targetClassID string) (*models.Student, error) {
	body := map[string]string{"target_class_id": targetClassID}
	var student models.Student
	if err := c.post(ctx, "/students/"+id+"/transfer", body, &student); err != nil {
		return nil, err
	}
	return &student, nil
}

// GraduateStudent marks a student graduated.
func (c *Client) GraduateStudent(ctx context.Context, id string) error {
	return c.post(ctx, "/students/"+id+"/graduate", nil, nil)
}

// ImportStudents submits parsed spreadsheet rows for bulk import.
func (c *Client) ImportStudents(ctx context.Context, rows []ImportRow, opts ImportOptions) (*ImportResult, error) {
	body := map[string]interface{}{
		"rows":    rows,
		"options": opts,
	}
	var result ImportResult
	if err := c.post(ctx, "/students/import", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
