package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ishuri/school-console/internal/service"
	"github.com/ishuri/school-console/internal/validation"
	appErrors "github.com/ishuri/school-console/pkg/errors"
	"github.com/ishuri/school-console/pkg/response"
)

// UserHandler exposes console account administration endpoints.
type UserHandler struct {
	users *service.UserService
	pages ListSettings
}

// NewUserHandler constructs UserHandler.
func NewUserHandler(users *service.UserService, pages ListSettings) *UserHandler {
	return &UserHandler{users: users, pages: pages}
}

// List godoc
// @Summary List console accounts
// @Tags Users
// @Produce json
// @Param search query string false "Search by name or email"
// @Param role query string false "Filter by role"
// @Param status query string false "Filter by active state"
// @Success 200 {object} response.Envelope
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	if !cached(c) {
		if err := h.users.Reload(c.Request.Context()); err != nil {
			response.Error(c, err)
			return
		}
	}
	q := listQuery(c, h.pages, "role", "status")
	page := h.users.Page(q)
	response.JSON(c, http.StatusOK, page.Visible, pagination(page, q))
}

// Roles godoc
// @Summary List assignable roles
// @Tags Users
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /users/roles [get]
func (h *UserHandler) Roles(c *gin.Context) {
	roles, err := h.users.Roles(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, roles, nil)
}

// Create godoc
// @Summary Create a console account
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body validation.UserDraft true "User draft"
// @Success 201 {object} response.Envelope
// @Router /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var draft validation.UserDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	user, err := h.users.Create(c.Request.Context(), draft)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, user)
}

// Update godoc
// @Summary Update a console account
// @Tags Users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param payload body validation.UserDraft true "User draft"
// @Success 200 {object} response.Envelope
// @Router /users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	var draft validation.UserDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	user, err := h.users.Update(c.Request.Context(), c.Param("id"), draft)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user, nil)
}

// Delete godoc
// @Summary Delete a console account
// @Tags Users
// @Param id path string true "User ID"
// @Success 204
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// SetActive godoc
// @Summary Activate or deactivate a console account
// @Tags Users
// @Accept json
// @Param id path string true "User ID"
// @Success 204
// @Router /users/{id}/active [put]
func (h *UserHandler) SetActive(c *gin.Context) {
	var body struct {
		Active bool `json:"active"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.users.SetActive(c.Request.Context(), c.Param("id"), body.Active); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// BulkAction godoc
// @Summary Apply an action to a selection of accounts
// @Tags Users
// @Accept json
// @Success 204
// @Router /users/bulk [post]
func (h *UserHandler) BulkAction(c *gin.Context) {
	var body struct {
		Action string   `json:"action"`
		IDs    []string `json:"ids"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.users.BulkAction(c.Request.Context(), body.Action, body.IDs); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Statistics godoc
// @Summary Account statistics
// @Tags Users
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /users/statistics [get]
func (h *UserHandler) Statistics(c *gin.Context) {
	stats, err := h.users.Statistics(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}
