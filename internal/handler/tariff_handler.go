package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ishuri/school-console/internal/service"
	"github.com/ishuri/school-console/internal/validation"
	appErrors "github.com/ishuri/school-console/pkg/errors"
	"github.com/ishuri/school-console/pkg/response"
)

// TariffHandler exposes tariff endpoints.
type TariffHandler struct {
	tariffs *service.TariffService
	pages   ListSettings
}

// NewTariffHandler constructs TariffHandler.
func NewTariffHandler(tariffs *service.TariffService, pages ListSettings) *TariffHandler {
	return &TariffHandler{tariffs: tariffs, pages: pages}
}

// List godoc
// @Summary List tariffs
// @Tags Tariffs
// @Produce json
// @Param search query string false "Search by name"
// @Param type query string false "Filter by type"
// @Param billing_frequency query string false "Filter by billing frequency"
// @Param is_active query string false "Filter by active state"
// @Success 200 {object} response.Envelope
// @Router /tariffs [get]
func (h *TariffHandler) List(c *gin.Context) {
	if !cached(c) {
		if err := h.tariffs.Reload(c.Request.Context()); err != nil {
			response.Error(c, err)
			return
		}
	}
	q := listQuery(c, h.pages, "type", "billing_frequency", "is_active")
	page := h.tariffs.Page(q)
	response.JSON(c, http.StatusOK, page.Visible, pagination(page, q))
}

// ClassTariffs godoc
// @Summary List tariffs assigned to one class
// @Tags Tariffs
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/tariffs [get]
func (h *TariffHandler) ClassTariffs(c *gin.Context) {
	tariffs, err := h.tariffs.ClassTariffs(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tariffs, nil)
}

// Assign godoc
// @Summary Replace a class's tariff assignment
// @Tags Tariffs
// @Accept json
// @Param id path string true "Class ID"
// @Success 204
// @Router /classes/{id}/tariffs [put]
func (h *TariffHandler) Assign(c *gin.Context) {
	var body struct {
		TariffIDs []string `json:"tariff_ids"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.tariffs.Assign(c.Request.Context(), c.Param("id"), body.TariffIDs); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Remove godoc
// @Summary Remove one tariff from a class
// @Tags Tariffs
// @Param id path string true "Class ID"
// @Param tariffId path string true "Tariff ID"
// @Success 204
// @Router /classes/{id}/tariffs/{tariffId} [delete]
func (h *TariffHandler) Remove(c *gin.Context) {
	if err := h.tariffs.Remove(c.Request.Context(), c.Param("id"), c.Param("tariffId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Create godoc
// @Summary Create a tariff
// @Tags Tariffs
// @Accept json
// @Produce json
// @Param payload body validation.TariffDraft true "Tariff draft"
// @Success 201 {object} response.Envelope
// @Router /tariffs [post]
func (h *TariffHandler) Create(c *gin.Context) {
	var draft validation.TariffDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	tariff, err := h.tariffs.Create(c.Request.Context(), draft)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, tariff)
}

// Update godoc
// @Summary Update a tariff
// @Tags Tariffs
// @Accept json
// @Produce json
// @Param id path string true "Tariff ID"
// @Param payload body validation.TariffDraft true "Tariff draft"
// @Success 200 {object} response.Envelope
// @Router /tariffs/{id} [put]
func (h *TariffHandler) Update(c *gin.Context) {
	var draft validation.TariffDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	tariff, err := h.tariffs.Update(c.Request.Context(), c.Param("id"), draft)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tariff, nil)
}

// Stats godoc
// @Summary Tariff statistics
// @Tags Tariffs
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /tariffs/statistics [get]
func (h *TariffHandler) Stats(c *gin.Context) {
	stats, err := h.tariffs.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// PaymentProgress godoc
// @Summary Payment progress of one tariff in one class
// @Tags Tariffs
// @Produce json
// @Param id path string true "Class ID"
// @Param tariffId path string true "Tariff ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/tariffs/{tariffId}/progress [get]
func (h *TariffHandler) PaymentProgress(c *gin.Context) {
	progress, err := h.tariffs.PaymentProgress(c.Request.Context(), c.Param("id"), c.Param("tariffId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, progress, nil)
}
