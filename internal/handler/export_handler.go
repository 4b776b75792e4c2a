package handler

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ishuri/school-console/internal/models"
	"github.com/ishuri/school-console/internal/service"
	appErrors "github.com/ishuri/school-console/pkg/errors"
	"github.com/ishuri/school-console/pkg/response"
)

// ExportHandler serves downloadable roster and billing documents. When an
// export directory is configured, every generated document is also archived
// there under its attachment name.
type ExportHandler struct {
	exports *service.ExportService
	dir     string
	logger  *zap.Logger
}

// NewExportHandler constructs ExportHandler. An empty dir disables archiving.
func NewExportHandler(exports *service.ExportService, dir string, logger *zap.Logger) *ExportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportHandler{exports: exports, dir: dir, logger: logger}
}

func (h *ExportHandler) attachment(c *gin.Context, name, contentType string, payload []byte) {
	if h.dir != "" {
		if err := h.archive(name, payload); err != nil {
			h.logger.Warn("export archive failed", zap.String("file", name), zap.Error(err))
		}
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, contentType, payload)
}

func (h *ExportHandler) archive(name string, payload []byte) error {
	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(h.dir, name), payload, 0o644)
}

// ClassRoster godoc
// @Summary Download a class roster
// @Tags Export
// @Produce octet-stream
// @Param classId path string true "Class ID"
// @Param format query string false "csv or xlsx" default(csv)
// @Router /export/classes/{classId}/roster [get]
func (h *ExportHandler) ClassRoster(c *gin.Context) {
	classID := c.Param("classId")
	stamp := time.Now().Format("20060102")

	switch c.DefaultQuery("format", "csv") {
	case "xlsx":
		payload, err := h.exports.ClassRosterExcel(c.Request.Context(), classID)
		if err != nil {
			response.Error(c, err)
			return
		}
		h.attachment(c, fmt.Sprintf("roster-%s-%s.xlsx", classID, stamp),
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", payload)
	case "csv":
		payload, err := h.exports.ClassRosterCSV(c.Request.Context(), classID)
		if err != nil {
			response.Error(c, err)
			return
		}
		h.attachment(c, fmt.Sprintf("roster-%s-%s.csv", classID, stamp), "text/csv", payload)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be csv or xlsx"))
	}
}

// Statement godoc
// @Summary Download a student billing statement
// @Tags Export
// @Accept json
// @Produce octet-stream
// @Router /export/statements [post]
func (h *ExportHandler) Statement(c *gin.Context) {
	var student models.Student
	if err := c.ShouldBindJSON(&student); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	payload, err := h.exports.StudentStatementPDF(c.Request.Context(), student)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.attachment(c, fmt.Sprintf("statement-%s.pdf", student.StudentID), "application/pdf", payload)
}

// Receipt godoc
// @Summary Download a payment receipt
// @Tags Export
// @Accept json
// @Produce octet-stream
// @Router /export/receipts [post]
func (h *ExportHandler) Receipt(c *gin.Context) {
	var in service.PaymentReceiptInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	payload, err := h.exports.PaymentReceiptPDF(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.attachment(c, fmt.Sprintf("receipt-%s.pdf", in.Bill.BillNumber), "application/pdf", payload)
}
