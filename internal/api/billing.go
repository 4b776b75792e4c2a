package api

import (
	"context"

	"github.com/ishuri/school-console/internal/models"
)

// StudentBills returns all bills issued to a student.
func (c *Client) StudentBills(ctx context.Context, studentID string) ([]models.Bill, error) {
	var bills []models.Bill
	if err := c.get(ctx, "/students/"+studentID+"/bills", nil, &bills); err != nil {
		return nil, err
	}
	return bills, nil
}

// BillItems returns the line items of one bill.
func (c *Client) BillItems(ctx context.Context, billID string) ([]models.BillItem, error) {
	var items []models.BillItem
	if err := c.get(ctx, "/bills/"+billID+"/items", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// RecordBillPayment records a payment against a whole bill.
func (c *Client) RecordBillPayment(ctx context.Context, billID string, req models.PaymentRequest) (*models.Bill, error) {
	var bill models.Bill
	if err := c.post(ctx, "/bills/"+billID+"/payments", req, &bill); err != nil {
		return nil, err
	}
	return &bill, nil
}

// RecordItemPayment records a payment against a single bill item.
func (c *Client) RecordItemPayment(ctx context.Context, itemID string, req models.PaymentRequest) (*models.BillItem, error) {
	var item models.BillItem
	if err := c.post(ctx, "/bill-items/"+itemID+"/payments", req, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// PaymentOverview returns school-wide collection aggregates.
func (c *Client) PaymentOverview(ctx context.Context) (*models.PaymentOverview, error) {
	var overview models.PaymentOverview
	if err := c.get(ctx, "/billing/overview", nil, &overview); err != nil {
		return nil, err
	}
	return &overview, nil
}

// ClassPaymentDetails returns per-class collection state.
func (c *Client) ClassPaymentDetails(ctx context.Context, classID string) (*models.ClassPaymentDetails, error) {
	var details models.ClassPaymentDetails
	if err := c.get(ctx, "/billing/classes/"+classID, nil, &details); err != nil {
		return nil, err
	}
	return &details, nil
}
