package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ishuri/school-console/internal/api"
	"github.com/ishuri/school-console/internal/models"
	"github.com/ishuri/school-console/internal/service"
)

type fakeYearBackend struct {
	years     []models.AcademicYear
	listCalls int
	deleted   []string
}

func (f *fakeYearBackend) ListAcademicYears(context.Context) ([]models.AcademicYear, error) {
	f.listCalls++
	return f.years, nil
}

func (f *fakeYearBackend) CurrentAcademicYear(context.Context) (*models.AcademicYear, error) {
	for _, y := range f.years {
		if y.Status == models.AcademicYearActive {
			out := y
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeYearBackend) CreateAcademicYear(_ context.Context, req api.AcademicYearRequest) (*models.AcademicYear, error) {
	return &models.AcademicYear{ID: "new-year", Name: req.Name, Status: models.AcademicYearDraft}, nil
}

func (f *fakeYearBackend) UpdateAcademicYear(_ context.Context, id string, req api.AcademicYearRequest) (*models.AcademicYear, error) {
	return &models.AcademicYear{ID: id, Name: req.Name}, nil
}

func (f *fakeYearBackend) DeleteAcademicYear(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeYearBackend) ActivateAcademicYear(_ context.Context, id string) (*models.AcademicYear, error) {
	return &models.AcademicYear{ID: id, Status: models.AcademicYearActive}, nil
}

func (f *fakeYearBackend) CloseAcademicYear(_ context.Context, id string) (*models.AcademicYear, error) {
	return &models.AcademicYear{ID: id, Status: models.AcademicYearClosed}, nil
}

func newYearFixture() (*AcademicYearHandler, *fakeYearBackend) {
	backend := &fakeYearBackend{
		years: []models.AcademicYear{
			{
				ID:        "y1",
				Name:      "2025-2026",
				Status:    models.AcademicYearClosed,
				StartDate: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
				EndDate:   time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
			},
			{
				ID:        "y2",
				Name:      "2026-2027",
				Status:    models.AcademicYearActive,
				StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
				EndDate:   time.Date(2027, 7, 1, 0, 0, 0, 0, time.UTC),
			},
			{ID: "y3", Name: "2027-2028", Status: models.AcademicYearDraft},
		},
	}
	svc := service.NewAcademicYearService(backend, zap.NewNop())
	pages := ListSettings{DefaultPageSize: 10, AllowedPageSizes: []int{2, 10, 50}}
	return NewAcademicYearHandler(svc, pages), backend
}

func TestAcademicYearHandlerListFilters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newYearFixture()

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/academic-years?status=active", nil)

	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope listEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "y2", envelope.Data[0]["id"])
	assert.Equal(t, float64(1), envelope.Pagination["total_count"])
}

func TestAcademicYearHandlerListCachedSkipsReload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, backend := newYearFixture()

	for _, url := range []string{"/academic-years", "/academic-years?cached=true"} {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodGet, url, nil)
		handler.List(c)
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	assert.Equal(t, 1, backend.listCalls)
}

func TestAcademicYearHandlerListClampsPageSize(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newYearFixture()

	// an allowed limit is honored and pages accordingly
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/academic-years?limit=2", nil)
	handler.List(c)

	var envelope listEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data, 2)
	assert.Equal(t, float64(2), envelope.Pagination["page_size"])
	assert.Equal(t, float64(2), envelope.Pagination["total_pages"])

	// a limit outside the allow list falls back to the default
	rec = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/academic-years?limit=7&cached=true", nil)
	handler.List(c)

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data, 3)
	assert.Equal(t, float64(10), envelope.Pagination["page_size"])
}

func TestAcademicYearHandlerPreview(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newYearFixture()

	body := `{"name":"2028-2029","start_date":"2028-09-01","end_date":"2029-07-01"}`
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/academic-years/preview", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Preview(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope objectEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, float64(10), envelope.Data["duration_months"])
}

func TestAcademicYearHandlerCreateRejectsMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newYearFixture()

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/academic-years", strings.NewReader("{not json"))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Create(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var envelope objectEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "VALIDATION_ERROR", envelope.Error["code"])
}

func TestAcademicYearHandlerCreateValidationFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newYearFixture()

	body := `{"name":"2028-2029","start_date":"2029-07-01","end_date":"2028-09-01"}`
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/academic-years", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Create(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var envelope objectEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	fields, ok := envelope.Error["fields"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, fields, "end_date")
}

func TestAcademicYearHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newYearFixture()

	body := `{"name":"2028-2029","start_date":"2028-09-01","end_date":"2029-07-01"}`
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/academic-years", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Create(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var envelope objectEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "new-year", envelope.Data["id"])
}

func TestAcademicYearHandlerDeleteRefusesActive(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, backend := newYearFixture()

	// load the collection so the lifecycle check sees the active year
	warm := httptest.NewRecorder()
	wc, _ := gin.CreateTestContext(warm)
	wc.Request = httptest.NewRequest(http.MethodGet, "/academic-years", nil)
	handler.List(wc)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodDelete, "/academic-years/y2", nil)
	c.Params = gin.Params{{Key: "id", Value: "y2"}}

	handler.Delete(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Empty(t, backend.deleted)
}

func TestAcademicYearHandlerDeleteDraft(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, backend := newYearFixture()

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodDelete, "/academic-years/y3", nil)
	c.Params = gin.Params{{Key: "id", Value: "y3"}}

	handler.Delete(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"y3"}, backend.deleted)
}

func TestAcademicYearHandlerActivate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := newYearFixture()

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/academic-years/y3/activate", nil)
	c.Params = gin.Params{{Key: "id", Value: "y3"}}

	handler.Activate(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope objectEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, string(models.AcademicYearActive), envelope.Data["status"])
}

// objectEnvelope and listEnvelope mirror the response contract for tests.
type objectEnvelope struct {
	Data  map[string]interface{} `json:"data"`
	Error map[string]interface{} `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

type listEnvelope struct {
	Data       []map[string]interface{} `json:"data"`
	Pagination map[string]interface{}   `json:"pagination"`
	Meta       map[string]interface{}   `json:"meta"`
}
