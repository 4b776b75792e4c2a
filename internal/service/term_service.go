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

type termBackend interface {
	ListTerms(ctx context.Context, academicYearID string) ([]models.Term, error)
	ListAcademicYears(ctx context.Context) ([]models.AcademicYear, error)
	CreateTerm(ctx context.Context, req api.TermRequest) (*models.Term, error)
	UpdateTerm(ctx context.Context, id string, req api.TermRequest) (*models.Term, error)
	DeleteTerm(ctx context.Context, id string) error
	ActivateTerm(ctx context.Context, id string) (*models.Term, error)
	CompleteTerm(ctx context.Context, id string) (*models.Term, error)
}

// TermService owns the terms view, scoped to one academic year at a time.
type TermService struct {
	backend termBackend
	logger  *zap.Logger

	mu     sync.Mutex
	yearID string
	terms  []models.Term
}

// NewTermService creates the terms view service.
func NewTermService(backend termBackend, logger *zap.Logger) *TermService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TermService{backend: backend, logger: logger}
}

// Reload replaces the in-memory terms with those of the given year.
func (s *TermService) Reload(ctx context.Context, academicYearID string) error {
	terms, err := s.backend.ListTerms(ctx, academicYearID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.yearID = academicYearID
	s.terms = terms
	s.mu.Unlock()
	return nil
}

var termAccessors = listview.Accessors[models.Term]{
	SearchFields: []func(models.Term) string{
		func(t models.Term) string { return t.Name },
	},
	FilterFields: map[string]func(models.Term) string{
		"status": func(t models.Term) string { return string(t.Status) },
	},
	SortFields: map[string]func(a, b models.Term) int{
		"name":       func(a, b models.Term) int { return compareStrings(a.Name, b.Name) },
		"start_date": func(a, b models.Term) int { return a.StartDate.Compare(b.StartDate) },
	},
}

// Page runs the list pipeline over the loaded terms.
func (s *TermService) Page(q listview.Query) listview.Page[models.Term] {
	s.mu.Lock()
	terms := make([]models.Term, len(s.terms))
	copy(terms, s.terms)
	s.mu.Unlock()
	return listview.Apply(terms, q, termAccessors)
}

// Create validates the draft against its parent year and creates the term.
func (s *TermService) Create(ctx context.Context, d validation.TermDraft) (*models.Term, error) {
	year, err := s.parentYear(ctx, d.AcademicYearID)
	if err != nil {
		return nil, err
	}
	if result := validation.ValidateTerm(d, year); !result.Valid {
		return nil, validationError(result)
	}
	term, err := s.backend.CreateTerm(ctx, termRequest(d))
	if err != nil {
		return nil, err
	}
	s.logger.Info("term created", zap.String("id", term.ID), zap.String("academic_year_id", term.AcademicYearID))
	return term, nil
}

// Update validates the draft against its parent year and updates the term.
func (s *TermService) Update(ctx context.Context, id string, d validation.TermDraft) (*models.Term, error) {
	year, err := s.parentYear(ctx, d.AcademicYearID)
	if err != nil {
		return nil, err
	}
	if result := validation.ValidateTerm(d, year); !result.Valid {
		return nil, validationError(result)
	}
	return s.backend.UpdateTerm(ctx, id, termRequest(d))
}

// Delete removes a term.
func (s *TermService) Delete(ctx context.Context, id string) error {
	return s.backend.DeleteTerm(ctx, id)
}

// Activate transitions upcoming→active.
func (s *TermService) Activate(ctx context.Context, id string) (*models.Term, error) {
	return s.backend.ActivateTerm(ctx, id)
}

// Complete transitions active→completed.
func (s *TermService) Complete(ctx context.Context, id string) (*models.Term, error) {
	return s.backend.CompleteTerm(ctx, id)
}

// parentYear looks up the draft's academic year so the nesting rule can run.
// An unknown id is left to the backend to reject.
func (s *TermService) parentYear(ctx context.Context, yearID string) (*models.AcademicYear, error) {
	if yearID == "" {
		return nil, nil
	}
	years, err := s.backend.ListAcademicYears(ctx)
	if err != nil {
		return nil, err
	}
	for i := range years {
		if years[i].ID == yearID {
			return &years[i], nil
		}
	}
	return nil, nil
}

func termRequest(d validation.TermDraft) api.TermRequest {
	return api.TermRequest{
		Name:           d.Name,
		AcademicYearID: d.AcademicYearID,
		StartDate:      d.StartDate,
		EndDate:        d.EndDate,
		Description:    d.Description,
	}
}
