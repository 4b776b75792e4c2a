package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ishuri/school-console/internal/api"
	"github.com/ishuri/school-console/internal/derive"
	"github.com/ishuri/school-console/internal/listview"
	"github.com/ishuri/school-console/internal/models"
	"github.com/ishuri/school-console/internal/validation"
	appErrors "github.com/ishuri/school-console/pkg/errors"
)

type academicYearBackend interface {
	ListAcademicYears(ctx context.Context) ([]models.AcademicYear, error)
	CurrentAcademicYear(ctx context.Context) (*models.AcademicYear, error)
	CreateAcademicYear(ctx context.Context, req api.AcademicYearRequest) (*models.AcademicYear, error)
	UpdateAcademicYear(ctx context.Context, id string, req api.AcademicYearRequest) (*models.AcademicYear, error)
	DeleteAcademicYear(ctx context.Context, id string) error
	ActivateAcademicYear(ctx context.Context, id string) (*models.AcademicYear, error)
	CloseAcademicYear(ctx context.Context, id string) (*models.AcademicYear, error)
}

// AcademicYearService owns the academic years view.
type AcademicYearService struct {
	backend academicYearBackend
	logger  *zap.Logger

	mu    sync.Mutex
	years []models.AcademicYear
}

// NewAcademicYearService creates the academic years view service.
func NewAcademicYearService(backend academicYearBackend, logger *zap.Logger) *AcademicYearService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AcademicYearService{backend: backend, logger: logger}
}

// Reload replaces the in-memory collection wholesale.
func (s *AcademicYearService) Reload(ctx context.Context) error {
	years, err := s.backend.ListAcademicYears(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.years = years
	s.mu.Unlock()
	return nil
}

var academicYearAccessors = listview.Accessors[models.AcademicYear]{
	SearchFields: []func(models.AcademicYear) string{
		func(y models.AcademicYear) string { return y.Name },
		func(y models.AcademicYear) string { return y.Description },
	},
	FilterFields: map[string]func(models.AcademicYear) string{
		"status": func(y models.AcademicYear) string { return string(y.Status) },
	},
	SortFields: map[string]func(a, b models.AcademicYear) int{
		"name":       func(a, b models.AcademicYear) int { return compareStrings(a.Name, b.Name) },
		"start_date": func(a, b models.AcademicYear) int { return a.StartDate.Compare(b.StartDate) },
		"created_at": func(a, b models.AcademicYear) int { return a.CreatedAt.Compare(b.CreatedAt) },
	},
}

// Page runs the list pipeline over the loaded collection.
func (s *AcademicYearService) Page(q listview.Query) listview.Page[models.AcademicYear] {
	s.mu.Lock()
	years := make([]models.AcademicYear, len(s.years))
	copy(years, s.years)
	s.mu.Unlock()
	return listview.Apply(years, q, academicYearAccessors)
}

// Current returns the active academic year.
func (s *AcademicYearService) Current(ctx context.Context) (*models.AcademicYear, error) {
	return s.backend.CurrentAcademicYear(ctx)
}

// DurationPreview returns the draft's span in whole months, 0 while either
// date is missing or malformed.
func (s *AcademicYearService) DurationPreview(d validation.AcademicYearDraft) int {
	start, err1 := time.Parse(validation.DateLayout, d.StartDate)
	end, err2 := time.Parse(validation.DateLayout, d.EndDate)
	if err1 != nil || err2 != nil {
		return 0
	}
	return derive.DurationMonths(start, end)
}

// Create validates the draft and creates the year; new years start in draft.
func (s *AcademicYearService) Create(ctx context.Context, d validation.AcademicYearDraft) (*models.AcademicYear, error) {
	if result := validation.ValidateAcademicYear(d); !result.Valid {
		return nil, validationError(result)
	}
	year, err := s.backend.CreateAcademicYear(ctx, academicYearRequest(d))
	if err != nil {
		return nil, err
	}
	s.logger.Info("academic year created", zap.String("id", year.ID), zap.String("name", year.Name))
	return year, nil
}

// Update validates the draft and updates the year.
func (s *AcademicYearService) Update(ctx context.Context, id string, d validation.AcademicYearDraft) (*models.AcademicYear, error) {
	if result := validation.ValidateAcademicYear(d); !result.Valid {
		return nil, validationError(result)
	}
	return s.backend.UpdateAcademicYear(ctx, id, academicYearRequest(d))
}

// Delete removes a year. Only draft years are deletable; activated or closed
// years are refused locally before any call is made.
func (s *AcademicYearService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	var found *models.AcademicYear
	for i := range s.years {
		if s.years[i].ID == id {
			found = &s.years[i]
			break
		}
	}
	deletable := found == nil || found.Deletable()
	s.mu.Unlock()

	if !deletable {
		return appErrors.Clone(appErrors.ErrConflict, "only draft academic years can be deleted")
	}
	return s.backend.DeleteAcademicYear(ctx, id)
}

// Activate transitions draft→active.
func (s *AcademicYearService) Activate(ctx context.Context, id string) (*models.AcademicYear, error) {
	return s.backend.ActivateAcademicYear(ctx, id)
}

// Close transitions active→closed.
func (s *AcademicYearService) Close(ctx context.Context, id string) (*models.AcademicYear, error) {
	return s.backend.CloseAcademicYear(ctx, id)
}

func academicYearRequest(d validation.AcademicYearDraft) api.AcademicYearRequest {
	return api.AcademicYearRequest{
		Name:        d.Name,
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
		Description: d.Description,
	}
}
