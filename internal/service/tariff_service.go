package service

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/ishuri/school-console/internal/api"
	"github.com/ishuri/school-console/internal/listview"
	"github.com/ishuri/school-console/internal/models"
	"github.com/ishuri/school-console/internal/validation"
)

type tariffBackend interface {
	ListTariffs(ctx context.Context) ([]models.Tariff, error)
	ClassTariffs(ctx context.Context, classID string) ([]models.Tariff, error)
	AssignTariffsToClass(ctx context.Context, classID string, tariffIDs []string) error
	RemoveTariffFromClass(ctx context.Context, classID, tariffID string) error
	CreateTariff(ctx context.Context, req api.TariffRequest) (*models.Tariff, error)
	UpdateTariff(ctx context.Context, id string, req api.TariffRequest) (*models.Tariff, error)
	TariffStats(ctx context.Context) (*models.TariffStats, error)
	TariffPaymentProgress(ctx context.Context, classID, tariffID string) (*models.TariffPaymentProgress, error)
}

// TariffService owns the tariffs view and class-assignment flows.
type TariffService struct {
	backend tariffBackend
	logger  *zap.Logger

	mu      sync.Mutex
	tariffs []models.Tariff
	// byClass caches class→assigned tariffs for the assignment dialog.
	byClass map[string][]models.Tariff
}

// NewTariffService creates the tariffs view service.
func NewTariffService(backend tariffBackend, logger *zap.Logger) *TariffService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TariffService{backend: backend, logger: logger, byClass: map[string][]models.Tariff{}}
}

// Reload replaces the tariff collection wholesale and drops the per-class
// assignment cache.
func (s *TariffService) Reload(ctx context.Context) error {
	tariffs, err := s.backend.ListTariffs(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.tariffs = tariffs
	s.byClass = map[string][]models.Tariff{}
	s.mu.Unlock()
	return nil
}

var tariffAccessors = listview.Accessors[models.Tariff]{
	SearchFields: []func(models.Tariff) string{
		func(t models.Tariff) string { return t.Name },
		func(t models.Tariff) string { return t.Description },
	},
	FilterFields: map[string]func(models.Tariff) string{
		"type":              func(t models.Tariff) string { return string(t.Type) },
		"billing_frequency": func(t models.Tariff) string { return string(t.BillingFrequency) },
		"is_active": func(t models.Tariff) string {
			if t.IsActive {
				return "true"
			}
			return "false"
		},
	},
	SortFields: map[string]func(a, b models.Tariff) int{
		"name":   func(a, b models.Tariff) int { return compareStrings(a.Name, b.Name) },
		"amount": func(a, b models.Tariff) int { return compareInt64s(a.Amount, b.Amount) },
	},
}

// Page runs the list pipeline over the loaded tariffs.
func (s *TariffService) Page(q listview.Query) listview.Page[models.Tariff] {
	s.mu.Lock()
	tariffs := make([]models.Tariff, len(s.tariffs))
	copy(tariffs, s.tariffs)
	s.mu.Unlock()
	return listview.Apply(tariffs, q, tariffAccessors)
}

// ClassTariffs returns the tariffs assigned to a class, from cache when the
// class was already visited.
func (s *TariffService) ClassTariffs(ctx context.Context, classID string) ([]models.Tariff, error) {
	s.mu.Lock()
	if cached, ok := s.byClass[classID]; ok {
		out := make([]models.Tariff, len(cached))
		copy(out, cached)
		s.mu.Unlock()
		return out, nil
	}
	s.mu.Unlock()

	tariffs, err := s.backend.ClassTariffs(ctx, classID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.byClass[classID] = tariffs
	s.mu.Unlock()
	return tariffs, nil
}

// Assign replaces the class's tariff set with exactly tariffIDs. The caller
// always sends the complete desired set; repeating the call is harmless.
func (s *TariffService) Assign(ctx context.Context, classID string, tariffIDs []string) error {
	if err := s.backend.AssignTariffsToClass(ctx, classID, tariffIDs); err != nil {
		return err
	}
	s.invalidateClass(classID)
	s.logger.Info("class tariffs replaced", zap.String("class_id", classID), zap.Int("count", len(tariffIDs)))
	return nil
}

// Remove detaches one tariff from a class. This deliberately does not go
// through Assign: the targeted call stays targeted.
func (s *TariffService) Remove(ctx context.Context, classID, tariffID string) error {
	if err := s.backend.RemoveTariffFromClass(ctx, classID, tariffID); err != nil {
		return err
	}
	s.invalidateClass(classID)
	return nil
}

func (s *TariffService) invalidateClass(classID string) {
	s.mu.Lock()
	delete(s.byClass, classID)
	s.mu.Unlock()
}

// Create validates the draft and creates the tariff.
func (s *TariffService) Create(ctx context.Context, d validation.TariffDraft) (*models.Tariff, error) {
	if result := validation.ValidateTariff(d); !result.Valid {
		return nil, validationError(result)
	}
	return s.backend.CreateTariff(ctx, tariffRequest(d))
}

// Update validates the draft and updates the tariff.
func (s *TariffService) Update(ctx context.Context, id string, d validation.TariffDraft) (*models.Tariff, error) {
	if result := validation.ValidateTariff(d); !result.Valid {
		return nil, validationError(result)
	}
	return s.backend.UpdateTariff(ctx, id, tariffRequest(d))
}

// Stats returns school-wide tariff aggregates.
func (s *TariffService) Stats(ctx context.Context) (*models.TariffStats, error) {
	return s.backend.TariffStats(ctx)
}

// PaymentProgress reports collection progress for one tariff in one class.
func (s *TariffService) PaymentProgress(ctx context.Context, classID, tariffID string) (*models.TariffPaymentProgress, error) {
	return s.backend.TariffPaymentProgress(ctx, classID, tariffID)
}

// ProjectRevenue estimates the revenue a class's tariff set yields for a
// given enrollment: sum of assigned tariff amounts times enrolled students.
func (s *TariffService) ProjectRevenue(tariffs []models.Tariff, enrollment int) int64 {
	var perStudent int64
	for _, t := range tariffs {
		if t.IsActive {
			perStudent += t.Amount
		}
	}
	return perStudent * int64(enrollment)
}

func tariffRequest(d validation.TariffDraft) api.TariffRequest {
	// the draft's amount was already shape-checked during validation
	amount, _ := strconv.ParseInt(strings.TrimSpace(d.Amount), 10, 64)
	return api.TariffRequest{
		Name:             d.Name,
		Type:             d.Type,
		Amount:           amount,
		BillingFrequency: d.BillingFrequency,
		Description:      d.Description,
	}
}
