package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ishuri/school-console/internal/api"
	"github.com/ishuri/school-console/internal/listview"
	"github.com/ishuri/school-console/internal/loader"
	"github.com/ishuri/school-console/internal/models"
	"github.com/ishuri/school-console/internal/validation"
	appErrors "github.com/ishuri/school-console/pkg/errors"
)

type mockClassBackend struct {
	classes   []models.Class
	stats     map[string]models.ClassStats
	statCalls int
	created   *api.ClassRequest
	deleted   []string
}

func (m *mockClassBackend) ListClasses(ctx context.Context, withTariffCounts bool) ([]models.Class, error) {
	return m.classes, nil
}

func (m *mockClassBackend) ListClassesByGrade(ctx context.Context, gradeID string) ([]models.Class, error) {
	var out []models.Class
	for _, c := range m.classes {
		if c.GradeID == gradeID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockClassBackend) ClassStats(ctx context.Context, classID string) (models.ClassStats, error) {
	m.statCalls++
	stats, ok := m.stats[classID]
	if !ok {
		return models.ClassStats{}, errors.New("stats unavailable")
	}
	return stats, nil
}

func (m *mockClassBackend) CreateClass(ctx context.Context, req api.ClassRequest) (*models.Class, error) {
	m.created = &req
	return &models.Class{ID: "new-class", Name: req.Name, GradeID: req.GradeID, Capacity: req.Capacity}, nil
}

func (m *mockClassBackend) UpdateClass(ctx context.Context, id string, req api.ClassRequest) (*models.Class, error) {
	return &models.Class{ID: id, Name: req.Name, Capacity: req.Capacity}, nil
}

func (m *mockClassBackend) DeleteClass(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func newClassFixture() (*ClassService, *mockClassBackend) {
	backend := &mockClassBackend{
		classes: []models.Class{
			{ID: "c1", Name: "A", GradeID: "g1", GradeName: "N1", Capacity: 30, CurrentEnrollment: 15, IsActive: true},
			{ID: "c2", Name: "B", GradeID: "g1", GradeName: "N1", Capacity: 30, CurrentEnrollment: 30, IsActive: true},
			{ID: "c3", Name: "A", GradeID: "g2", GradeName: "P3", Capacity: 40, CurrentEnrollment: 10},
		},
		stats: map[string]models.ClassStats{
			"c1": {StudentCount: 15, TotalBilled: 450000},
			"c2": {StudentCount: 30, TotalBilled: 900000},
			"c3": {StudentCount: 10, TotalBilled: 120000},
		},
	}
	return NewClassService(backend, loader.Config{}, zap.NewNop()), backend
}

func TestClassServiceLoadEnrichesRows(t *testing.T) {
	svc, _ := newClassFixture()
	require.NoError(t, svc.Load(context.Background()))

	rows := svc.Rows()
	require.Len(t, rows, 3)
	assert.False(t, rows[0].Loading)
	assert.Equal(t, int64(450000), rows[0].Stats.TotalBilled)
	assert.Equal(t, 30, rows[1].Stats.StudentCount)
}

func TestClassServiceLoadIsolatesStatFailure(t *testing.T) {
	svc, backend := newClassFixture()
	delete(backend.stats, "c2")

	require.NoError(t, svc.Load(context.Background()))
	rows := svc.Rows()
	assert.Equal(t, models.ClassStats{}, rows[1].Stats)
	assert.Equal(t, int64(450000), rows[0].Stats.TotalBilled)
}

func TestClassServiceLoadCachesStats(t *testing.T) {
	svc, backend := newClassFixture()
	require.NoError(t, svc.Load(context.Background()))
	require.NoError(t, svc.Load(context.Background()))
	assert.Equal(t, 3, backend.statCalls)
}

func TestClassServicePage(t *testing.T) {
	svc, _ := newClassFixture()
	require.NoError(t, svc.Load(context.Background()))

	page := svc.Page(listview.Query{
		Filters:  map[string]string{"grade_id": "g1", "is_active": "true"},
		Page:     1,
		PageSize: 10,
	})
	assert.Equal(t, 2, page.Total)

	// search matches the composed class code
	page = svc.Page(listview.Query{Search: "p3a", Page: 1, PageSize: 10})
	require.Len(t, page.Visible, 1)
	assert.Equal(t, "c3", page.Visible[0].ID)
}

func TestClassServicePageSortsByOccupancy(t *testing.T) {
	svc, _ := newClassFixture()
	require.NoError(t, svc.Load(context.Background()))

	page := svc.Page(listview.Query{SortKey: "occupancy", SortOrder: listview.SortDesc, Page: 1, PageSize: 10})
	assert.Equal(t, "c2", page.Visible[0].ID)
	assert.Equal(t, "c3", page.Visible[2].ID)
}

func TestClassServiceCreateValidatesCapacity(t *testing.T) {
	svc, backend := newClassFixture()

	_, err := svc.Create(context.Background(), validation.ClassDraft{Name: "C", GradeID: "g1", Capacity: "250"})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	assert.Nil(t, backend.created)

	class, err := svc.Create(context.Background(), validation.ClassDraft{Name: "C", GradeID: "g1", Capacity: "35"})
	require.NoError(t, err)
	assert.Equal(t, 35, class.Capacity)
}

func TestClassServiceUpdateInvalidatesStats(t *testing.T) {
	svc, backend := newClassFixture()
	require.NoError(t, svc.Load(context.Background()))

	_, err := svc.Update(context.Background(), "c1", validation.ClassDraft{Name: "A", GradeID: "g1", Capacity: "32"})
	require.NoError(t, err)

	// next load refetches only the invalidated class
	require.NoError(t, svc.Load(context.Background()))
	assert.Equal(t, 4, backend.statCalls)
}

func TestClassServiceDelete(t *testing.T) {
	svc, backend := newClassFixture()
	require.NoError(t, svc.Delete(context.Background(), "c3"))
	assert.Equal(t, []string{"c3"}, backend.deleted)
}

func TestClassServiceByGrade(t *testing.T) {
	svc, _ := newClassFixture()
	classes, err := svc.ByGrade(context.Background(), "g2")
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, "c3", classes[0].ID)
}
