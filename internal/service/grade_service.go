package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/ishuri/school-console/internal/api"
	"github.com/ishuri/school-console/internal/listview"
	"github.com/ishuri/school-console/internal/models"
	"github.com/ishuri/school-console/internal/validation"
)

type gradeBackend interface {
	ListGrades(ctx context.Context, activeOnly bool) ([]models.Grade, error)
	CreateGrade(ctx context.Context, req api.GradeRequest) (*models.Grade, error)
	UpdateGrade(ctx context.Context, id string, req api.GradeRequest) (*models.Grade, error)
	DeleteGrade(ctx context.Context, id string) error
	ActivateGrade(ctx context.Context, id string) error
	DeactivateGrade(ctx context.Context, id string) error
	GradeStatistics(ctx context.Context) (*models.GradeStatistics, error)
}

// GradeService owns the grades view.
type GradeService struct {
	backend gradeBackend
	logger  *zap.Logger

	mu     sync.Mutex
	grades []models.Grade
}

// NewGradeService creates the grades view service.
func NewGradeService(backend gradeBackend, logger *zap.Logger) *GradeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{backend: backend, logger: logger}
}

// Reload replaces the in-memory collection wholesale.
func (s *GradeService) Reload(ctx context.Context, activeOnly bool) error {
	grades, err := s.backend.ListGrades(ctx, activeOnly)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.grades = grades
	s.mu.Unlock()
	return nil
}

var gradeAccessors = listview.Accessors[models.Grade]{
	SearchFields: []func(models.Grade) string{
		func(g models.Grade) string { return g.Name },
		func(g models.Grade) string { return g.DisplayName },
	},
	FilterFields: map[string]func(models.Grade) string{
		"is_active": func(g models.Grade) string {
			if g.IsActive {
				return "true"
			}
			return "false"
		},
	},
	SortFields: map[string]func(a, b models.Grade) int{
		"name":          func(a, b models.Grade) int { return compareStrings(a.Name, b.Name) },
		"level":         func(a, b models.Grade) int { return compareInts(a.Level, b.Level) },
		"student_count": func(a, b models.Grade) int { return compareInts(a.StudentCount, b.StudentCount) },
	},
}

// Page runs the list pipeline over the loaded grades.
func (s *GradeService) Page(q listview.Query) listview.Page[models.Grade] {
	s.mu.Lock()
	grades := make([]models.Grade, len(s.grades))
	copy(grades, s.grades)
	s.mu.Unlock()
	return listview.Apply(grades, q, gradeAccessors)
}

// Create validates the draft and creates the grade, optionally bootstrapping
// a default class section.
func (s *GradeService) Create(ctx context.Context, d validation.GradeDraft, withDefaultClass bool) (*models.Grade, error) {
	if result := validation.ValidateGrade(d); !result.Valid {
		return nil, validationError(result)
	}
	grade, err := s.backend.CreateGrade(ctx, api.GradeRequest{
		Name:               d.Name,
		DisplayName:        d.DisplayName,
		Description:        d.Description,
		CreateDefaultClass: withDefaultClass,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("grade created", zap.String("id", grade.ID), zap.String("name", grade.Name))
	return grade, nil
}

// Update validates the draft and updates the grade.
func (s *GradeService) Update(ctx context.Context, id string, d validation.GradeDraft) (*models.Grade, error) {
	if result := validation.ValidateGrade(d); !result.Valid {
		return nil, validationError(result)
	}
	return s.backend.UpdateGrade(ctx, id, api.GradeRequest{
		Name:        d.Name,
		DisplayName: d.DisplayName,
		Description: d.Description,
	})
}

// Delete removes a grade.
func (s *GradeService) Delete(ctx context.Context, id string) error {
	return s.backend.DeleteGrade(ctx, id)
}

// SetActive toggles a grade's active flag.
func (s *GradeService) SetActive(ctx context.Context, id string, active bool) error {
	if active {
		return s.backend.ActivateGrade(ctx, id)
	}
	return s.backend.DeactivateGrade(ctx, id)
}

// Statistics returns school-wide grade aggregates.
func (s *GradeService) Statistics(ctx context.Context) (*models.GradeStatistics, error) {
	return s.backend.GradeStatistics(ctx)
}
