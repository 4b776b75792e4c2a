package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ishuri/school-console/internal/api"
	"github.com/ishuri/school-console/internal/service"
	appErrors "github.com/ishuri/school-console/pkg/errors"
	"github.com/ishuri/school-console/pkg/response"
)

// ImportHandler exposes the student workbook import flow: upload for a
// preview, then submit the previewed rows.
type ImportHandler struct {
	imports *service.ImportService
}

// NewImportHandler constructs ImportHandler.
func NewImportHandler(imports *service.ImportService) *ImportHandler {
	return &ImportHandler{imports: imports}
}

// Preview godoc
// @Summary Parse an uploaded workbook and validate every row
// @Tags Import
// @Accept mpfd
// @Produce json
// @Param file formData file true "xlsx workbook"
// @Success 200 {object} response.Envelope
// @Router /students/import/preview [post]
func (h *ImportHandler) Preview(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "a workbook file is required"))
		return
	}
	defer func() { _ = file.Close() }()

	preview, err := h.imports.Parse(c.Request.Context(), file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, preview, nil,
		map[string]interface{}{"valid": preview.Valid()})
}

// Submit godoc
// @Summary Submit previewed rows to the backend
// @Tags Import
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /students/import [post]
func (h *ImportHandler) Submit(c *gin.Context) {
	var body struct {
		Preview *service.ImportPreview `json:"preview"`
		Options api.ImportOptions      `json:"options"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.imports.Submit(c.Request.Context(), body.Preview, body.Options)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
