package service

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/ishuri/school-console/internal/api"
	"github.com/ishuri/school-console/internal/derive"
	"github.com/ishuri/school-console/internal/listview"
	"github.com/ishuri/school-console/internal/loader"
	"github.com/ishuri/school-console/internal/models"
	"github.com/ishuri/school-console/internal/validation"
)

type classBackend interface {
	ListClasses(ctx context.Context, withTariffCounts bool) ([]models.Class, error)
	ListClassesByGrade(ctx context.Context, gradeID string) ([]models.Class, error)
	ClassStats(ctx context.Context, classID string) (models.ClassStats, error)
	CreateClass(ctx context.Context, req api.ClassRequest) (*models.Class, error)
	UpdateClass(ctx context.Context, id string, req api.ClassRequest) (*models.Class, error)
	DeleteClass(ctx context.Context, id string) error
}

// ClassService owns the classes view: the class list is published
// immediately and per-class statistics trickle in behind it.
type ClassService struct {
	backend classBackend
	logger  *zap.Logger
	stats   *loader.Progressive[models.ClassStats]

	mu   sync.Mutex
	rows []models.ClassRow
}

// NewClassService creates the classes view service with its own stats cache.
func NewClassService(backend classBackend, loaderCfg loader.Config, logger *zap.Logger) *ClassService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ClassService{backend: backend, logger: logger}
	loaderCfg.Logger = logger
	s.stats = loader.New(backend.ClassStats, loaderCfg)
	return s
}

// Load replaces the class collection and starts progressive stat enrichment.
// It blocks until enrichment finishes or ctx is cancelled; callers wanting a
// responsive view run it in a goroutine and read Rows as updates land.
func (s *ClassService) Load(ctx context.Context) error {
	classes, err := s.backend.ListClasses(ctx, true)
	if err != nil {
		return err
	}

	rows := make([]models.ClassRow, len(classes))
	ids := make([]string, len(classes))
	for i, class := range classes {
		rows[i] = models.ClassRow{Class: class, Loading: true}
		ids[i] = class.ID
	}
	s.mu.Lock()
	s.rows = rows
	s.mu.Unlock()

	return s.stats.Load(ctx, ids, s.applyUpdate)
}

func (s *ClassService) applyUpdate(u loader.Update[models.ClassStats]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.Index >= len(s.rows) || s.rows[u.Index].ID != u.ID {
		// collection was replaced underneath this load
		return
	}
	if u.Loading {
		s.rows[u.Index].Loading = true
		return
	}
	s.rows[u.Index].Stats = u.Stats
	s.rows[u.Index].Loading = false
}

// Rows returns a snapshot of the current class rows.
func (s *ClassService) Rows() []models.ClassRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := make([]models.ClassRow, len(s.rows))
	copy(rows, s.rows)
	return rows
}

var classAccessors = listview.Accessors[models.ClassRow]{
	SearchFields: []func(models.ClassRow) string{
		func(r models.ClassRow) string { return r.FullName() },
		func(r models.ClassRow) string { return r.Name },
		func(r models.ClassRow) string { return r.GradeName },
	},
	FilterFields: map[string]func(models.ClassRow) string{
		"grade_id": func(r models.ClassRow) string { return r.GradeID },
		"is_active": func(r models.ClassRow) string {
			if r.IsActive {
				return "true"
			}
			return "false"
		},
	},
	SortFields: map[string]func(a, b models.ClassRow) int{
		"name":     func(a, b models.ClassRow) int { return compareStrings(a.FullName(), b.FullName()) },
		"capacity": func(a, b models.ClassRow) int { return compareInts(a.Capacity, b.Capacity) },
		"occupancy": func(a, b models.ClassRow) int {
			return compareInts(
				derive.OccupancyRate(a.CurrentEnrollment, a.Capacity),
				derive.OccupancyRate(b.CurrentEnrollment, b.Capacity),
			)
		},
	},
}

// Page runs the list pipeline over the current rows.
func (s *ClassService) Page(q listview.Query) listview.Page[models.ClassRow] {
	return listview.Apply(s.Rows(), q, classAccessors)
}

// ByGrade returns the classes of one grade, bypassing the cached view.
func (s *ClassService) ByGrade(ctx context.Context, gradeID string) ([]models.Class, error) {
	return s.backend.ListClassesByGrade(ctx, gradeID)
}

// Create validates the draft and creates the class.
func (s *ClassService) Create(ctx context.Context, d validation.ClassDraft) (*models.Class, error) {
	if result := validation.ValidateClass(d); !result.Valid {
		return nil, validationError(result)
	}
	class, err := s.backend.CreateClass(ctx, classRequest(d))
	if err != nil {
		return nil, err
	}
	s.logger.Info("class created", zap.String("id", class.ID), zap.String("name", class.FullName()))
	return class, nil
}

// Update validates the draft, updates the class and drops its cached stats.
func (s *ClassService) Update(ctx context.Context, id string, d validation.ClassDraft) (*models.Class, error) {
	if result := validation.ValidateClass(d); !result.Valid {
		return nil, validationError(result)
	}
	class, err := s.backend.UpdateClass(ctx, id, classRequest(d))
	if err != nil {
		return nil, err
	}
	s.stats.Invalidate(id)
	return class, nil
}

// Delete removes a class and drops its cached stats.
func (s *ClassService) Delete(ctx context.Context, id string) error {
	if err := s.backend.DeleteClass(ctx, id); err != nil {
		return err
	}
	s.stats.Invalidate(id)
	return nil
}

// InvalidateStats drops the cached stats for one class, forcing a fresh
// fetch on the next load.
func (s *ClassService) InvalidateStats(id string) {
	s.stats.Invalidate(id)
}

func classRequest(d validation.ClassDraft) api.ClassRequest {
	capacity, _ := strconv.Atoi(strings.TrimSpace(d.Capacity))
	return api.ClassRequest{
		Name:        d.Name,
		GradeID:     d.GradeID,
		Capacity:    capacity,
		Description: d.Description,
	}
}
