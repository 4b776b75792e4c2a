package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ishuri/school-console/internal/service"
	"github.com/ishuri/school-console/internal/validation"
	appErrors "github.com/ishuri/school-console/pkg/errors"
	"github.com/ishuri/school-console/pkg/response"
)

// GradeHandler exposes grade endpoints.
type GradeHandler struct {
	grades *service.GradeService
	pages  ListSettings
}

// NewGradeHandler constructs GradeHandler.
func NewGradeHandler(grades *service.GradeService, pages ListSettings) *GradeHandler {
	return &GradeHandler{grades: grades, pages: pages}
}

// List godoc
// @Summary List grades
// @Tags Grades
// @Produce json
// @Param search query string false "Search by name"
// @Param is_active query string false "Filter by active state"
// @Param activeOnly query bool false "Only fetch active grades"
// @Success 200 {object} response.Envelope
// @Router /grades [get]
func (h *GradeHandler) List(c *gin.Context) {
	if !cached(c) {
		activeOnly := c.Query("activeOnly") == "true"
		if err := h.grades.Reload(c.Request.Context(), activeOnly); err != nil {
			response.Error(c, err)
			return
		}
	}
	q := listQuery(c, h.pages, "is_active")
	page := h.grades.Page(q)
	response.JSON(c, http.StatusOK, page.Visible, pagination(page, q))
}

// Create godoc
// @Summary Create a grade
// @Tags Grades
// @Accept json
// @Produce json
// @Param payload body validation.GradeDraft true "Grade draft"
// @Param withDefaultClass query bool false "Also create class A"
// @Success 201 {object} response.Envelope
// @Router /grades [post]
func (h *GradeHandler) Create(c *gin.Context) {
	var draft validation.GradeDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	withDefaultClass := c.DefaultQuery("withDefaultClass", "true") == "true"
	grade, err := h.grades.Create(c.Request.Context(), draft, withDefaultClass)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, grade)
}

// Update godoc
// @Summary Update a grade
// @Tags Grades
// @Accept json
// @Produce json
// @Param id path string true "Grade ID"
// @Param payload body validation.GradeDraft true "Grade draft"
// @Success 200 {object} response.Envelope
// @Router /grades/{id} [put]
func (h *GradeHandler) Update(c *gin.Context) {
	var draft validation.GradeDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	grade, err := h.grades.Update(c.Request.Context(), c.Param("id"), draft)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grade, nil)
}

// Delete godoc
// @Summary Delete a grade
// @Tags Grades
// @Param id path string true "Grade ID"
// @Success 204
// @Router /grades/{id} [delete]
func (h *GradeHandler) Delete(c *gin.Context) {
	if err := h.grades.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// SetActive godoc
// @Summary Activate or deactivate a grade
// @Tags Grades
// @Accept json
// @Param id path string true "Grade ID"
// @Success 204
// @Router /grades/{id}/active [put]
func (h *GradeHandler) SetActive(c *gin.Context) {
	var body struct {
		Active bool `json:"active"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.grades.SetActive(c.Request.Context(), c.Param("id"), body.Active); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Statistics godoc
// @Summary Grade statistics
// @Tags Grades
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /grades/statistics [get]
func (h *GradeHandler) Statistics(c *gin.Context) {
	stats, err := h.grades.Statistics(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}
