package models

// TariffType classifies what a fee is charged for.
type TariffType string

const (
	TariffTuition     TariffType = "tuition"
	TariffTransport   TariffType = "transport"
	TariffMeal        TariffType = "meal"
	TariffActivityFee TariffType = "activity_fee"
	TariffOther       TariffType = "other"
)

// BillingFrequency describes how often a tariff is billed.
type BillingFrequency string

const (
	BillingPerTerm  BillingFrequency = "per_term"
	BillingPerMonth BillingFrequency = "per_month"
	BillingPerYear  BillingFrequency = "per_year"
	BillingOneTime  BillingFrequency = "one_time"
)

// Tariff models a fee definition assignable to classes. Amount is in whole
// Rwandan francs.
type Tariff struct {
	ID               string           `json:"id"`
	Name             string           `json:"name"`
	Type             TariffType       `json:"type"`
	Amount           int64            `json:"amount"`
	BillingFrequency BillingFrequency `json:"billing_frequency"`
	Description      string           `json:"description"`
	IsActive         bool             `json:"is_active"`
}

// TariffStats is the aggregate shape served by the tariff stats endpoint.
type TariffStats struct {
	TotalTariffs    int   `json:"total_tariffs"`
	ActiveTariffs   int   `json:"active_tariffs"`
	AssignedClasses int   `json:"assigned_classes"`
	TotalAmount     int64 `json:"total_amount"`
}

// TariffPaymentProgress reports collection progress for one tariff in a class.
type TariffPaymentProgress struct {
	TariffID     string `json:"tariff_id"`
	ClassID      string `json:"class_id"`
	TotalBilled  int64  `json:"total_billed"`
	TotalPaid    int64  `json:"total_paid"`
	StudentCount int    `json:"student_count"`
	PaidCount    int    `json:"paid_count"`
}
