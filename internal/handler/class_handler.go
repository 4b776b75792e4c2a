package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ishuri/school-console/internal/service"
	"github.com/ishuri/school-console/internal/validation"
	appErrors "github.com/ishuri/school-console/pkg/errors"
	"github.com/ishuri/school-console/pkg/response"
)

// ClassHandler exposes class endpoints. The list is served from the
// service's row snapshot while a background load fills statistics in
// progressively; clients poll the list to watch rows resolve.
type ClassHandler struct {
	classes *service.ClassService
	pages   ListSettings
	logger  *zap.Logger
}

// NewClassHandler constructs ClassHandler.
func NewClassHandler(classes *service.ClassService, pages ListSettings, logger *zap.Logger) *ClassHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassHandler{classes: classes, pages: pages, logger: logger}
}

// List godoc
// @Summary List classes with progressive statistics
// @Tags Classes
// @Produce json
// @Param search query string false "Search by name"
// @Param grade_id query string false "Filter by grade"
// @Param is_active query string false "Filter by active state"
// @Param refresh query bool false "Trigger a reload before paging"
// @Success 200 {object} response.Envelope
// @Router /classes [get]
func (h *ClassHandler) List(c *gin.Context) {
	if c.Query("refresh") == "true" {
		// enrichment keeps running after this response; rows arrive on
		// subsequent polls
		go func() {
			if err := h.classes.Load(context.Background()); err != nil {
				h.logger.Warn("class load failed", zap.Error(err))
			}
		}()
	}
	q := listQuery(c, h.pages, "grade_id", "is_active")
	page := h.classes.Page(q)
	response.JSON(c, http.StatusOK, page.Visible, pagination(page, q))
}

// Load godoc
// @Summary Reload classes and block until statistics are loaded
// @Tags Classes
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /classes/load [post]
func (h *ClassHandler) Load(c *gin.Context) {
	if err := h.classes.Load(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, h.classes.Rows(), nil)
}

// ByGrade godoc
// @Summary List classes of one grade
// @Tags Classes
// @Produce json
// @Param id path string true "Grade ID"
// @Success 200 {object} response.Envelope
// @Router /grades/{id}/classes [get]
func (h *ClassHandler) ByGrade(c *gin.Context) {
	classes, err := h.classes.ByGrade(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes, nil)
}

// Create godoc
// @Summary Create a class
// @Tags Classes
// @Accept json
// @Produce json
// @Param payload body validation.ClassDraft true "Class draft"
// @Success 201 {object} response.Envelope
// @Router /classes [post]
func (h *ClassHandler) Create(c *gin.Context) {
	var draft validation.ClassDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	class, err := h.classes.Create(c.Request.Context(), draft)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, class)
}

// Update godoc
// @Summary Update a class
// @Tags Classes
// @Accept json
// @Produce json
// @Param id path string true "Class ID"
// @Param payload body validation.ClassDraft true "Class draft"
// @Success 200 {object} response.Envelope
// @Router /classes/{id} [put]
func (h *ClassHandler) Update(c *gin.Context) {
	var draft validation.ClassDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	class, err := h.classes.Update(c.Request.Context(), c.Param("id"), draft)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, class, nil)
}

// Delete godoc
// @Summary Delete a class
// @Tags Classes
// @Param id path string true "Class ID"
// @Success 204
// @Router /classes/{id} [delete]
func (h *ClassHandler) Delete(c *gin.Context) {
	if err := h.classes.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
