package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ishuri/school-console/internal/service"
	"github.com/ishuri/school-console/internal/validation"
	appErrors "github.com/ishuri/school-console/pkg/errors"
	"github.com/ishuri/school-console/pkg/response"
)

// StudentHandler exposes student endpoints.
type StudentHandler struct {
	students *service.StudentService
	pages    ListSettings
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students *service.StudentService, pages ListSettings) *StudentHandler {
	return &StudentHandler{students: students, pages: pages}
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Param search query string false "Search by name or registration number"
// @Param status query string false "Filter by status"
// @Param gender query string false "Filter by gender"
// @Param class_id query string false "Filter by class"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	if !cached(c) {
		if err := h.students.Reload(c.Request.Context(), c.Query("class_id")); err != nil {
			response.Error(c, err)
			return
		}
	}
	q := listQuery(c, h.pages, "status", "gender", "class_id")
	page := h.students.Page(q)
	response.JSON(c, http.StatusOK, page.Visible, pagination(page, q))
}

// ByClass godoc
// @Summary List students of one class
// @Tags Students
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/students [get]
func (h *StudentHandler) ByClass(c *gin.Context) {
	students, err := h.students.ByClass(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, nil)
}

// Register godoc
// @Summary Register a student
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body validation.StudentDraft true "Student draft"
// @Success 201 {object} response.Envelope
// @Router /students [post]
func (h *StudentHandler) Register(c *gin.Context) {
	var draft validation.StudentDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.students.Register(c.Request.Context(), draft)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// Update godoc
// @Summary Update a student
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body validation.StudentDraft true "Student draft"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	var draft validation.StudentDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.students.Update(c.Request.Context(), c.Param("id"), draft)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Deactivate godoc
// @Summary Deactivate a student
// @Tags Students
// @Accept json
// @Param id path string true "Student ID"
// @Success 204
// @Router /students/{id}/deactivate [post]
func (h *StudentHandler) Deactivate(c *gin.Context) {
	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&body)
	if err := h.students.Deactivate(c.Request.Context(), c.Param("id"), body.Reason); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Promote godoc
// @Summary Promote a student to the next grade
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/promote [post]
func (h *StudentHandler) Promote(c *gin.Context) {
	var body struct {
		TargetGradeID string `json:"target_grade_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.students.Promote(c.Request.Context(), c.Param("id"), body.TargetGradeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// BulkPromote godoc
// @Summary Promote a selection of students
// @Tags Students
// @Accept json
// @Param payload body object true "Selection and target"
// @Success 204
// @Router /students/bulk-promote [post]
func (h *StudentHandler) BulkPromote(c *gin.Context) {
	var body struct {
		IDs           []string `json:"ids"`
		TargetGradeID string   `json:"target_grade_id"`
		TargetClassID string   `json:"target_class_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.students.BulkPromote(c.Request.Context(), body.IDs, body.TargetGradeID, body.TargetClassID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Transfer godoc
// @Summary Transfer a student to another class
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/transfer [post]
func (h *StudentHandler) Transfer(c *gin.Context) {
	var body struct {
		TargetClassID string `json:"target_class_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.students.Transfer(c.Request.Context(), c.Param("id"), body.TargetClassID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Graduate godoc
// @Summary Mark a student graduated
// @Tags Students
// @Param id path string true "Student ID"
// @Success 204
// @Router /students/{id}/graduate [post]
func (h *StudentHandler) Graduate(c *gin.Context) {
	if err := h.students.Graduate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
