package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/ishuri/school-console/internal/api"
	"github.com/ishuri/school-console/internal/listview"
	"github.com/ishuri/school-console/internal/models"
	"github.com/ishuri/school-console/internal/validation"
	appErrors "github.com/ishuri/school-console/pkg/errors"
)

type studentBackend interface {
	ListStudents(ctx context.Context, classID string) ([]models.Student, error)
	StudentsByClass(ctx context.Context, classID string) ([]models.Student, error)
	RegisterStudent(ctx context.Context, req api.StudentRequest) (*models.Student, error)
	UpdateStudent(ctx context.Context, id string, req api.StudentRequest) (*models.Student, error)
	DeactivateStudent(ctx context.Context, id, reason string) error
	PromoteStudent(ctx context.Context, id, targetGradeID string) (*models.Student, error)
	BulkPromoteStudents(ctx context.Context, ids []string, targetGradeID, targetClassID string) error
	TransferStudent(ctx context.Context, id, targetClassID string) (*models.Student, error)
	GraduateStudent(ctx context.Context, id string) error
}

type classFullChecker interface {
	ListClasses(ctx context.Context, withTariffCounts bool) ([]models.Class, error)
}

// StudentService owns the students view: the full roster is held in memory
// and narrowed client-side.
type StudentService struct {
	backend studentBackend
	classes classFullChecker
	logger  *zap.Logger

	mu       sync.Mutex
	students []models.Student
}

// NewStudentService creates the students view service.
func NewStudentService(backend studentBackend, classes classFullChecker, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{backend: backend, classes: classes, logger: logger}
}

// Reload replaces the roster wholesale, optionally scoped to one class.
func (s *StudentService) Reload(ctx context.Context, classID string) error {
	students, err := s.backend.ListStudents(ctx, classID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.students = students
	s.mu.Unlock()
	return nil
}

var studentAccessors = listview.Accessors[models.Student]{
	SearchFields: []func(models.Student) string{
		func(st models.Student) string { return st.FullName() },
		func(st models.Student) string { return st.Email },
		func(st models.Student) string { return st.StudentID },
		func(st models.Student) string { return st.ParentName },
	},
	FilterFields: map[string]func(models.Student) string{
		"status": func(st models.Student) string { return string(st.Status) },
		"gender": func(st models.Student) string { return string(st.Gender) },
		"class_id": func(st models.Student) string {
			if st.ClassID == nil {
				return ""
			}
			return *st.ClassID
		},
	},
	SortFields: map[string]func(a, b models.Student) int{
		"name":            func(a, b models.Student) int { return compareStrings(a.FullName(), b.FullName()) },
		"enrollment_date": func(a, b models.Student) int { return a.EnrollmentDate.Compare(b.EnrollmentDate) },
		"student_id":      func(a, b models.Student) int { return compareStrings(a.StudentID, b.StudentID) },
	},
}

// Page runs the list pipeline over the loaded roster.
func (s *StudentService) Page(q listview.Query) listview.Page[models.Student] {
	s.mu.Lock()
	students := make([]models.Student, len(s.students))
	copy(students, s.students)
	s.mu.Unlock()
	return listview.Apply(students, q, studentAccessors)
}

// ByClass returns the roster of one class.
func (s *StudentService) ByClass(ctx context.Context, classID string) ([]models.Student, error) {
	return s.backend.StudentsByClass(ctx, classID)
}

// Register validates the draft, checks the target class still has seats, and
// registers the student.
func (s *StudentService) Register(ctx context.Context, d validation.StudentDraft) (*models.Student, error) {
	if result := validation.ValidateStudent(d); !result.Valid {
		return nil, validationError(result)
	}
	if d.ClassID != "" {
		full, err := s.classIsFull(ctx, d.ClassID)
		if err != nil {
			return nil, err
		}
		if full {
			return nil, appErrors.Clone(appErrors.ErrConflict, "class is full")
		}
	}
	student, err := s.backend.RegisterStudent(ctx, studentRequest(d))
	if err != nil {
		return nil, err
	}
	s.logger.Info("student registered", zap.String("id", student.ID), zap.String("student_id", student.StudentID))
	return student, nil
}

// Update validates the draft and updates the student.
func (s *StudentService) Update(ctx context.Context, id string, d validation.StudentDraft) (*models.Student, error) {
	if result := validation.ValidateStudent(d); !result.Valid {
		return nil, validationError(result)
	}
	return s.backend.UpdateStudent(ctx, id, studentRequest(d))
}

// Deactivate marks a student inactive with a reason.
func (s *StudentService) Deactivate(ctx context.Context, id, reason string) error {
	return s.backend.DeactivateStudent(ctx, id, reason)
}

// Promote moves a student to a target grade.
func (s *StudentService) Promote(ctx context.Context, id, targetGradeID string) (*models.Student, error) {
	return s.backend.PromoteStudent(ctx, id, targetGradeID)
}

// BulkPromote promotes a set of students into a target grade/class. A target
// class must have enough seats left for the whole batch.
func (s *StudentService) BulkPromote(ctx context.Context, ids []string, targetGradeID, targetClassID string) error {
	if targetClassID != "" {
		classes, err := s.classes.ListClasses(ctx, false)
		if err != nil {
			return err
		}
		for _, class := range classes {
			if class.ID == targetClassID && class.Capacity > 0 && len(ids) > class.Seats() {
				return appErrors.Clone(appErrors.ErrConflict,
					fmt.Sprintf("target class has only %d seats left", class.Seats()))
			}
		}
	}
	return s.backend.BulkPromoteStudents(ctx, ids, targetGradeID, targetClassID)
}

// Transfer moves a student to another class, refusing full targets locally.
func (s *StudentService) Transfer(ctx context.Context, id, targetClassID string) (*models.Student, error) {
	full, err := s.classIsFull(ctx, targetClassID)
	if err != nil {
		return nil, err
	}
	if full {
		return nil, appErrors.Clone(appErrors.ErrConflict, "target class is full")
	}
	return s.backend.TransferStudent(ctx, id, targetClassID)
}

// Graduate marks a student graduated.
func (s *StudentService) Graduate(ctx context.Context, id string) error {
	return s.backend.GraduateStudent(ctx, id)
}

func (s *StudentService) classIsFull(ctx context.Context, classID string) (bool, error) {
	classes, err := s.classes.ListClasses(ctx, false)
	if err != nil {
		return false, err
	}
	for _, class := range classes {
		if class.ID == classID {
			return class.IsFull(), nil
		}
	}
	return false, nil
}

func studentRequest(d validation.StudentDraft) api.StudentRequest {
	return api.StudentRequest{
		FirstName:   d.FirstName,
		LastName:    d.LastName,
		Email:       d.Email,
		DateOfBirth: d.DateOfBirth,
		Gender:      d.Gender,
		Phone:       d.Phone,
		Address:     d.Address,

		ParentName:  d.ParentName,
		ParentEmail: d.ParentEmail,
		ParentPhone: d.ParentPhone,

		EmergencyContact: d.EmergencyContact,
		EnrollmentDate:   d.EnrollmentDate,
		ClassID:          d.ClassID,

		MedicalConditions:     d.MedicalConditions,
		Allergies:             d.Allergies,
		HasDisability:         d.HasDisability,
		DisabilityDescription: d.DisabilityDescription,

		Province: d.Province,
		District: d.District,
		Sector:   d.Sector,
		Cell:     d.Cell,
		Village:  d.Village,
	}
}
