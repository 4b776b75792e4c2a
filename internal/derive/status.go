package derive

import (
	"time"

	"github.com/ishuri/school-console/internal/models"
)

// Fallback styling for unrecognized statuses. Lookup functions never panic;
// anything the backend sends that the console does not know renders neutral.
const (
	unknownLabel = "Unknown"
	neutralColor = "gray"
)

var academicYearLabels = map[models.AcademicYearStatus]string{
	models.AcademicYearDraft:  "Draft",
	models.AcademicYearActive: "Active",
	models.AcademicYearClosed: "Closed",
}

var academicYearColors = map[models.AcademicYearStatus]string{
	models.AcademicYearDraft:  "amber",
	models.AcademicYearActive: "green",
	models.AcademicYearClosed: "gray",
}

func AcademicYearStatusLabel(s models.AcademicYearStatus) string {
	if label, ok := academicYearLabels[s]; ok {
		return label
	}
	return unknownLabel
}

func AcademicYearStatusColor(s models.AcademicYearStatus) string {
	if color, ok := academicYearColors[s]; ok {
		return color
	}
	return neutralColor
}

var termLabels = map[models.TermStatus]string{
	models.TermUpcoming:  "Upcoming",
	models.TermActive:    "Active",
	models.TermCompleted: "Completed",
}

var termColors = map[models.TermStatus]string{
	models.TermUpcoming:  "blue",
	models.TermActive:    "green",
	models.TermCompleted: "gray",
}

func TermStatusLabel(s models.TermStatus) string {
	if label, ok := termLabels[s]; ok {
		return label
	}
	return unknownLabel
}

func TermStatusColor(s models.TermStatus) string {
	if color, ok := termColors[s]; ok {
		return color
	}
	return neutralColor
}

var billLabels = map[models.BillStatus]string{
	models.BillPending: "Pending",
	models.BillPartial: "Partially Paid",
	models.BillPaid:    "Paid",
	models.BillOverdue: "Overdue",
}

var billColors = map[models.BillStatus]string{
	models.BillPending: "amber",
	models.BillPartial: "blue",
	models.BillPaid:    "green",
	models.BillOverdue: "red",
}

func BillStatusLabel(s models.BillStatus) string {
	if label, ok := billLabels[s]; ok {
		return label
	}
	return unknownLabel
}

func BillStatusColor(s models.BillStatus) string {
	if color, ok := billColors[s]; ok {
		return color
	}
	return neutralColor
}

var studentLabels = map[models.StudentStatus]string{
	models.StudentActive:      "Active",
	models.StudentInactive:    "Inactive",
	models.StudentGraduated:   "Graduated",
	models.StudentTransferred: "Transferred",
}

var studentColors = map[models.StudentStatus]string{
	models.StudentActive:      "green",
	models.StudentInactive:    "gray",
	models.StudentGraduated:   "blue",
	models.StudentTransferred: "amber",
}

func StudentStatusLabel(s models.StudentStatus) string {
	if label, ok := studentLabels[s]; ok {
		return label
	}
	return unknownLabel
}

func StudentStatusColor(s models.StudentStatus) string {
	if color, ok := studentColors[s]; ok {
		return color
	}
	return neutralColor
}

var tariffTypeLabels = map[models.TariffType]string{
	models.TariffTuition:     "Tuition",
	models.TariffTransport:   "Transport",
	models.TariffMeal:        "Meals",
	models.TariffActivityFee: "Activity Fee",
	models.TariffOther:       "Other",
}

func TariffTypeLabel(t models.TariffType) string {
	if label, ok := tariffTypeLabels[t]; ok {
		return label
	}
	return unknownLabel
}

var billingFrequencyLabels = map[models.BillingFrequency]string{
	models.BillingPerTerm:  "Per Term",
	models.BillingPerMonth: "Per Month",
	models.BillingPerYear:  "Per Year",
	models.BillingOneTime:  "One Time",
}

func BillingFrequencyLabel(f models.BillingFrequency) string {
	if label, ok := billingFrequencyLabels[f]; ok {
		return label
	}
	return unknownLabel
}

// BillStatusFor derives a bill's status from its amounts and due date.
func BillStatusFor(paid, total int64, due time.Time, now time.Time) models.BillStatus {
	if total > 0 && paid >= total {
		return models.BillPaid
	}
	if !due.IsZero() && now.After(due) {
		return models.BillOverdue
	}
	if paid > 0 {
		return models.BillPartial
	}
	return models.BillPending
}
