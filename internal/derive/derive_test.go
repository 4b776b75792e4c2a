package derive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ishuri/school-console/internal/models"
)

func TestDurationMonths(t *testing.T) {
	start := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 10, DurationMonths(start, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 9, DurationMonths(start, time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 0, DurationMonths(start, start))
	// end before start never goes negative
	assert.Equal(t, 0, DurationMonths(start, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestDurationDays(t *testing.T) {
	start := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 14, DurationDays(start, start.AddDate(0, 0, 14)))
	assert.Equal(t, 0, DurationDays(start, start.AddDate(0, 0, -3)))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "RWF 0", FormatAmount(0))
	assert.Equal(t, "RWF 5", FormatAmount(5))
	assert.Equal(t, "RWF 0", FormatAmountPtr(nil))

	amount := int64(250)
	assert.Equal(t, FormatAmount(250), FormatAmountPtr(&amount))
}

func TestOccupancyRate(t *testing.T) {
	assert.Equal(t, 50, OccupancyRate(15, 30))
	assert.Equal(t, 100, OccupancyRate(30, 30))
	assert.Equal(t, 110, OccupancyRate(33, 30))
	assert.Equal(t, 0, OccupancyRate(10, 0))
}

func TestPaymentPercentage(t *testing.T) {
	assert.Equal(t, 50, PaymentPercentage(7500, 15000))
	assert.Equal(t, 100, PaymentPercentage(15000, 15000))
	// overpayment clamps at 100
	assert.Equal(t, 100, PaymentPercentage(20000, 15000))
	assert.Equal(t, 0, PaymentPercentage(0, 15000))
	assert.Equal(t, 0, PaymentPercentage(500, 0))
}

func TestStatusLabelsFallBackToNeutral(t *testing.T) {
	assert.Equal(t, "Active", AcademicYearStatusLabel(models.AcademicYearActive))
	assert.Equal(t, "green", AcademicYearStatusColor(models.AcademicYearActive))
	assert.Equal(t, "Unknown", AcademicYearStatusLabel("archived"))
	assert.Equal(t, "gray", AcademicYearStatusColor("archived"))

	assert.Equal(t, "Partially Paid", BillStatusLabel(models.BillPartial))
	assert.Equal(t, "Unknown", BillStatusLabel("written_off"))
	assert.Equal(t, "gray", BillStatusColor("written_off"))

	assert.Equal(t, "Graduated", StudentStatusLabel(models.StudentGraduated))
	assert.Equal(t, "Unknown", StudentStatusLabel("expelled"))

	assert.Equal(t, "Activity Fee", TariffTypeLabel(models.TariffActivityFee))
	assert.Equal(t, "Unknown", TariffTypeLabel("boarding"))

	assert.Equal(t, "Per Term", BillingFrequencyLabel(models.BillingPerTerm))
	assert.Equal(t, "Unknown", BillingFrequencyLabel("weekly"))
}

func TestBillStatusFor(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	due := now.AddDate(0, 1, 0)

	assert.Equal(t, models.BillPaid, BillStatusFor(15000, 15000, due, now))
	assert.Equal(t, models.BillPartial, BillStatusFor(5000, 15000, due, now))
	assert.Equal(t, models.BillPending, BillStatusFor(0, 15000, due, now))
	assert.Equal(t, models.BillOverdue, BillStatusFor(5000, 15000, now.AddDate(0, 0, -1), now))
	// fully paid wins over an elapsed due date
	assert.Equal(t, models.BillPaid, BillStatusFor(15000, 15000, now.AddDate(0, 0, -1), now))
}
