package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ishuri/school-console/internal/form"
	"github.com/ishuri/school-console/internal/models"
	"github.com/ishuri/school-console/internal/service"
	"github.com/ishuri/school-console/internal/validation"
	appErrors "github.com/ishuri/school-console/pkg/errors"
	"github.com/ishuri/school-console/pkg/response"
)

// BillingHandler exposes the billing drill-down and payment endpoints.
type BillingHandler struct {
	billing *service.BillingService
	logger  *zap.Logger
}

// NewBillingHandler constructs BillingHandler.
func NewBillingHandler(billing *service.BillingService, logger *zap.Logger) *BillingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BillingHandler{billing: billing, logger: logger}
}

// OpenClass godoc
// @Summary Drill into a class's billing
// @Tags Billing
// @Produce json
// @Param classId path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /billing/classes/{classId}/open [post]
func (h *BillingHandler) OpenClass(c *gin.Context) {
	classID := c.Param("classId")
	// bill enrichment continues after this response; rows arrive on polls
	go func() {
		if err := h.billing.OpenClass(context.Background(), classID); err != nil {
			h.logger.Warn("billing class open failed",
				zap.String("class_id", classID),
				zap.Error(err),
			)
		}
	}()
	response.JSON(c, http.StatusOK, gin.H{"class_id": classID}, nil)
}

// Rows godoc
// @Summary Current billing rows of the opened class
// @Tags Billing
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /billing/rows [get]
func (h *BillingHandler) Rows(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.billing.Rows(), nil,
		map[string]interface{}{"class_id": h.billing.ClassID()})
}

// BillItems godoc
// @Summary Line items of one bill
// @Tags Billing
// @Produce json
// @Param billId path string true "Bill ID"
// @Success 200 {object} response.Envelope
// @Router /billing/bills/{billId}/items [get]
func (h *BillingHandler) BillItems(c *gin.Context) {
	items, err := h.billing.BillItems(c.Request.Context(), c.Param("billId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// RecordPayment godoc
// @Summary Record a payment against a bill
// @Tags Billing
// @Accept json
// @Produce json
// @Param billId path string true "Bill ID"
// @Param payload body validation.PaymentDraft true "Payment draft"
// @Param clamp query bool false "Clamp the amount to the outstanding balance"
// @Success 200 {object} response.Envelope
// @Router /billing/bills/{billId}/payments [post]
func (h *BillingHandler) RecordPayment(c *gin.Context) {
	var draft validation.PaymentDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	bill, ok := h.billing.FindBill(c.Param("billId"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "bill not found in the opened class"))
		return
	}

	if c.Query("clamp") == "true" {
		updated, paid, err := h.billing.PayFromModal(c.Request.Context(), bill, draft)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, updated, nil,
			map[string]interface{}{"amount_paid": paid})
		return
	}

	updated, err := h.billing.RecordPayment(c.Request.Context(), bill, draft)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated, nil)
}

// RecordItemPayment godoc
// @Summary Record a payment against one bill line item
// @Tags Billing
// @Accept json
// @Produce json
// @Param itemId path string true "Bill item ID"
// @Param payload body validation.PaymentDraft true "Payment draft"
// @Param clamp query bool false "Clamp the amount to the item's outstanding balance"
// @Success 200 {object} response.Envelope
// @Router /billing/items/{itemId}/payments [post]
func (h *BillingHandler) RecordItemPayment(c *gin.Context) {
	var draft validation.PaymentDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	item, ok := h.billing.FindItem(c.Param("itemId"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "bill item not found; list the bill's items first"))
		return
	}

	if c.Query("clamp") == "true" {
		updated, paid, err := h.billing.PayItemFromModal(c.Request.Context(), item, draft)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, updated, nil,
			map[string]interface{}{"amount_paid": paid})
		return
	}

	updated, err := h.billing.RecordItemPayment(c.Request.Context(), item, draft)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated, nil)
}

// paymentSchema routes payment field errors to the modal's tabs.
var paymentSchema = form.Schema{
	"amount":         "payment",
	"payment_method": "payment",
	"reference":      "details",
	"notes":          "details",
}

var paymentSections = []string{"payment", "details"}

// PaymentForm godoc
// @Summary Submit the payment modal in one round trip
// @Tags Billing
// @Accept json
// @Produce json
// @Param billId path string true "Bill ID"
// @Param payload body validation.PaymentDraft true "Payment draft"
// @Success 200 {object} response.Envelope
// @Router /billing/bills/{billId}/payment-form [post]
func (h *BillingHandler) PaymentForm(c *gin.Context) {
	var draft validation.PaymentDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	bill, ok := h.billing.FindBill(c.Param("billId"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "bill not found in the opened class"))
		return
	}

	var updated *models.Bill
	modal := form.New(validation.PaymentDraft{},
		form.WithSections[validation.PaymentDraft](paymentSchema, paymentSections),
		form.WithOnSuccess[validation.PaymentDraft](func(result interface{}) {
			if b, ok := result.(*models.Bill); ok {
				updated = b
			}
		}),
	)
	modal.OpenEdit(draft)
	modal.Submit(c.Request.Context(),
		func(d validation.PaymentDraft) validation.Result {
			return validation.ValidatePayment(d, bill.Outstanding())
		},
		func(ctx context.Context, d validation.PaymentDraft) (interface{}, error) {
			return h.billing.RecordPayment(ctx, bill, d)
		},
	)

	if modal.State() == form.StateClosed {
		response.JSON(c, http.StatusOK, updated, nil)
		return
	}
	// the form stayed open; report the outcome the modal would render
	response.JSON(c, http.StatusUnprocessableEntity, gin.H{
		"errors":  modal.Errors(),
		"section": modal.ActiveSection(),
		"notice":  modal.Notice(),
	}, nil)
}

// Overview godoc
// @Summary School-wide collection overview
// @Tags Billing
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /billing/overview [get]
func (h *BillingHandler) Overview(c *gin.Context) {
	overview, err := h.billing.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overview, nil)
}

// ClassDetails godoc
// @Summary Collection summary of one class
// @Tags Billing
// @Produce json
// @Param classId path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /billing/classes/{classId} [get]
func (h *BillingHandler) ClassDetails(c *gin.Context) {
	details, err := h.billing.ClassDetails(c.Request.Context(), c.Param("classId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, details, nil)
}
