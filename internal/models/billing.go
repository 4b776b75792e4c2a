package models

import "time"

// BillStatus tracks payment completion of a bill or bill item.
type BillStatus string

const (
	BillPending BillStatus = "pending"
	BillPartial BillStatus = "partial"
	BillPaid    BillStatus = "paid"
	BillOverdue BillStatus = "overdue"
)

// PaymentMethod enumerates accepted payment channels.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentMobileMoney  PaymentMethod = "mobile_money"
	PaymentCard         PaymentMethod = "card"
	PaymentOther        PaymentMethod = "other"
)

// Bill is an invoice issued to a student for a billing period.
type Bill struct {
	ID          string     `json:"id"`
	BillNumber  string     `json:"bill_number"`
	StudentID   string     `json:"student_id"`
	TotalAmount int64      `json:"total_amount"`
	PaidAmount  int64      `json:"paid_amount"`
	Balance     int64      `json:"balance"`
	Status      BillStatus `json:"status"`
	DueDate     time.Time  `json:"due_date"`
	Items       []BillItem `json:"items,omitempty"`
}

// Outstanding returns the unpaid remainder, never negative.
func (b Bill) Outstanding() int64 {
	if balance := b.TotalAmount - b.PaidAmount; balance > 0 {
		return balance
	}
	return 0
}

// BillItem is one tariff line inside a bill.
type BillItem struct {
	ID              string     `json:"id"`
	BillID          string     `json:"bill_id"`
	TariffID        string     `json:"tariff_id"`
	TariffName      string     `json:"tariff_name"`
	Amount          int64      `json:"amount"`
	PaidAmount      int64      `json:"paid_amount"`
	Balance         int64      `json:"balance"`
	Status          BillStatus `json:"status"`
	PaymentProgress int        `json:"payment_progress"`
}

// Outstanding returns the item's unpaid remainder, never negative.
func (i BillItem) Outstanding() int64 {
	if balance := i.Amount - i.PaidAmount; balance > 0 {
		return balance
	}
	return 0
}

// PaymentRequest is the record-payment payload sent to the backend.
// Reference is client-generated when absent so retries stay traceable.
type PaymentRequest struct {
	Amount        int64         `json:"amount"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Reference     string        `json:"reference,omitempty"`
	Notes         string        `json:"notes,omitempty"`
}

// PaymentOverview aggregates collection figures across the school.
type PaymentOverview struct {
	TotalBilled      int64 `json:"total_billed"`
	TotalPaid        int64 `json:"total_paid"`
	TotalOutstanding int64 `json:"total_outstanding"`
	PaidBills        int   `json:"paid_bills"`
	PartialBills     int   `json:"partial_bills"`
	PendingBills     int   `json:"pending_bills"`
	OverdueBills     int   `json:"overdue_bills"`
}

// ClassPaymentDetails reports per-class collection state.
type ClassPaymentDetails struct {
	ClassID          string `json:"class_id"`
	ClassName        string `json:"class_name"`
	StudentCount     int    `json:"student_count"`
	TotalBilled      int64  `json:"total_billed"`
	TotalPaid        int64  `json:"total_paid"`
	TotalOutstanding int64  `json:"total_outstanding"`
}
