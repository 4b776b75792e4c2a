package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ishuri/school-console/internal/api"
	"github.com/ishuri/school-console/internal/listview"
	"github.com/ishuri/school-console/internal/models"
	"github.com/ishuri/school-console/internal/validation"
	appErrors "github.com/ishuri/school-console/pkg/errors"
)

type mockTariffBackend struct {
	tariffs    []models.Tariff
	byClass    map[string][]models.Tariff
	classCalls int
	assigned   map[string][]string
	removed    []string
	created    *api.TariffRequest
}

func (m *mockTariffBackend) ListTariffs(ctx context.Context) ([]models.Tariff, error) {
	return m.tariffs, nil
}

func (m *mockTariffBackend) ClassTariffs(ctx context.Context, classID string) ([]models.Tariff, error) {
	m.classCalls++
	return m.byClass[classID], nil
}

func (m *mockTariffBackend) AssignTariffsToClass(ctx context.Context, classID string, tariffIDs []string) error {
	if m.assigned == nil {
		m.assigned = map[string][]string{}
	}
	m.assigned[classID] = tariffIDs
	return nil
}

func (m *mockTariffBackend) RemoveTariffFromClass(ctx context.Context, classID, tariffID string) error {
	m.removed = append(m.removed, classID+"/"+tariffID)
	return nil
}

func (m *mockTariffBackend) CreateTariff(ctx context.Context, req api.TariffRequest) (*models.Tariff, error) {
	m.created = &req
	return &models.Tariff{ID: "new-tariff", Name: req.Name, Amount: req.Amount}, nil
}

func (m *mockTariffBackend) UpdateTariff(ctx context.Context, id string, req api.TariffRequest) (*models.Tariff, error) {
	return &models.Tariff{ID: id, Name: req.Name, Amount: req.Amount}, nil
}

func (m *mockTariffBackend) TariffStats(ctx context.Context) (*models.TariffStats, error) {
	return &models.TariffStats{TotalTariffs: len(m.tariffs)}, nil
}

func (m *mockTariffBackend) TariffPaymentProgress(ctx context.Context, classID, tariffID string) (*models.TariffPaymentProgress, error) {
	return &models.TariffPaymentProgress{ClassID: classID, TariffID: tariffID}, nil
}

func TestTariffServicePage(t *testing.T) {
	backend := &mockTariffBackend{tariffs: []models.Tariff{
		{ID: "t1", Name: "Tuition", Type: models.TariffTuition, Amount: 150000, IsActive: true},
		{ID: "t2", Name: "Transport", Type: models.TariffTransport, Amount: 30000, IsActive: true},
		{ID: "t3", Name: "Old Tuition", Type: models.TariffTuition, Amount: 120000},
	}}
	svc := NewTariffService(backend, zap.NewNop())
	require.NoError(t, svc.Reload(context.Background()))

	page := svc.Page(listview.Query{
		Filters:   map[string]string{"type": "tuition", "is_active": "true"},
		SortKey:   "amount",
		SortOrder: listview.SortDesc,
		Page:      1,
		PageSize:  10,
	})
	require.Len(t, page.Visible, 1)
	assert.Equal(t, "t1", page.Visible[0].ID)
}

func TestTariffServiceClassTariffsCaches(t *testing.T) {
	backend := &mockTariffBackend{byClass: map[string][]models.Tariff{
		"c1": {{ID: "t1"}, {ID: "t2"}},
	}}
	svc := NewTariffService(backend, zap.NewNop())

	first, err := svc.ClassTariffs(context.Background(), "c1")
	require.NoError(t, err)
	second, err := svc.ClassTariffs(context.Background(), "c1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, backend.classCalls)
}

func TestTariffServiceAssignReplacesAndInvalidates(t *testing.T) {
	backend := &mockTariffBackend{byClass: map[string][]models.Tariff{
		"c1": {{ID: "t1"}},
	}}
	svc := NewTariffService(backend, zap.NewNop())

	_, err := svc.ClassTariffs(context.Background(), "c1")
	require.NoError(t, err)

	require.NoError(t, svc.Assign(context.Background(), "c1", []string{"t1", "t2", "t3"}))
	assert.Equal(t, []string{"t1", "t2", "t3"}, backend.assigned["c1"])

	// the assignment dropped the cached set; the next read refetches
	backend.byClass["c1"] = []models.Tariff{{ID: "t1"}, {ID: "t2"}, {ID: "t3"}}
	tariffs, err := svc.ClassTariffs(context.Background(), "c1")
	require.NoError(t, err)
	assert.Len(t, tariffs, 3)
	assert.Equal(t, 2, backend.classCalls)
}

func TestTariffServiceRemoveStaysTargeted(t *testing.T) {
	backend := &mockTariffBackend{}
	svc := NewTariffService(backend, zap.NewNop())

	require.NoError(t, svc.Remove(context.Background(), "c1", "t2"))
	assert.Equal(t, []string{"c1/t2"}, backend.removed)
	// removal never rewrites the full assignment set
	assert.Empty(t, backend.assigned)
}

func TestTariffServiceCreateCoercesAmount(t *testing.T) {
	backend := &mockTariffBackend{}
	svc := NewTariffService(backend, zap.NewNop())

	_, err := svc.Create(context.Background(), validation.TariffDraft{
		Name:             "Tuition",
		Type:             "tuition",
		Amount:           "abc",
		BillingFrequency: "per_term",
	})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	assert.Nil(t, backend.created)

	tariff, err := svc.Create(context.Background(), validation.TariffDraft{
		Name:             "Tuition",
		Type:             "tuition",
		Amount:           " 150000 ",
		BillingFrequency: "per_term",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(150000), tariff.Amount)
}

func TestTariffServiceProjectRevenue(t *testing.T) {
	svc := NewTariffService(&mockTariffBackend{}, zap.NewNop())

	tariffs := []models.Tariff{
		{Amount: 150000, IsActive: true},
		{Amount: 30000, IsActive: true},
		{Amount: 99999, IsActive: false},
	}
	assert.Equal(t, int64(180000*25), svc.ProjectRevenue(tariffs, 25))
	assert.Equal(t, int64(0), svc.ProjectRevenue(nil, 25))
}
