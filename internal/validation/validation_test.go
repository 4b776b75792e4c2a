package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ishuri/school-console/internal/derive"
	"github.com/ishuri/school-console/internal/models"
)

func validStudentDraft() StudentDraft {
	return StudentDraft{
		FirstName:   "Aline",
		LastName:    "Uwase",
		DateOfBirth: "2018-04-12",
		Gender:      "female",
		ParentName:  "Jean Uwase",
		ParentEmail: "jean@example.com",
		ParentPhone: "+250788000000",
	}
}

func TestValidateStudent(t *testing.T) {
	result := ValidateStudent(validStudentDraft())
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestValidateStudentMissingDateOfBirth(t *testing.T) {
	d := validStudentDraft()
	d.DateOfBirth = ""
	result := ValidateStudent(d)
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Error("date_of_birth"))
}

func TestValidateStudentMalformedDate(t *testing.T) {
	d := validStudentDraft()
	d.DateOfBirth = "12/04/2018"
	result := ValidateStudent(d)
	assert.False(t, result.Valid)
	assert.Equal(t, "must be a date in YYYY-MM-DD format", result.Error("date_of_birth"))
}

func TestValidateStudentDisabilityDescriptionRequired(t *testing.T) {
	d := validStudentDraft()
	d.HasDisability = true
	result := ValidateStudent(d)
	assert.False(t, result.Valid)
	assert.Equal(t, "please describe the disability", result.Error("disability_description"))

	d.DisabilityDescription = "low vision"
	assert.True(t, ValidateStudent(d).Valid)
}

func TestValidateAcademicYearDateOrder(t *testing.T) {
	d := AcademicYearDraft{Name: "2026-2027", StartDate: "2026-09-01", EndDate: "2026-09-01"}
	result := ValidateAcademicYear(d)
	assert.False(t, result.Valid)
	assert.Equal(t, "end date must be after start date", result.Error("end_date"))

	d.EndDate = "2027-07-01"
	assert.True(t, ValidateAcademicYear(d).Valid)
}

func TestValidateTermNesting(t *testing.T) {
	year := &models.AcademicYear{
		StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2027, 7, 1, 0, 0, 0, 0, time.UTC),
	}
	d := TermDraft{
		Name:           "Term 1",
		AcademicYearID: "y1",
		StartDate:      "2026-08-15",
		EndDate:        "2026-12-15",
	}
	result := ValidateTerm(d, year)
	assert.False(t, result.Valid)
	assert.Equal(t, "term must start within the academic year", result.Error("start_date"))

	d.StartDate = "2026-09-07"
	d.EndDate = "2027-08-01"
	result = ValidateTerm(d, year)
	assert.Equal(t, "term must end within the academic year", result.Error("end_date"))

	d.EndDate = "2026-12-11"
	assert.True(t, ValidateTerm(d, year).Valid)

	// without a known parent the nesting rule stays quiet
	d.StartDate = "2020-01-01"
	d.EndDate = "2020-06-01"
	assert.True(t, ValidateTerm(d, nil).Valid)
}

func TestValidateGradeName(t *testing.T) {
	assert.True(t, ValidateGrade(GradeDraft{Name: "N1", DisplayName: "Nursery 1"}).Valid)
	assert.True(t, ValidateGrade(GradeDraft{Name: "P6", DisplayName: "Primary 6"}).Valid)

	result := ValidateGrade(GradeDraft{Name: "Grade 1", DisplayName: "Grade 1"})
	assert.False(t, result.Valid)
	assert.Equal(t, "must be a grade code like N1 or P3", result.Error("name"))
}

func TestValidateClassCapacity(t *testing.T) {
	d := ClassDraft{Name: "A", GradeID: "g1", Capacity: "30"}
	assert.True(t, ValidateClass(d).Valid)

	d.Capacity = "0"
	assert.Equal(t, "capacity must be between 1 and 100", ValidateClass(d).Error("capacity"))

	d.Capacity = "101"
	assert.Equal(t, "capacity must be between 1 and 100", ValidateClass(d).Error("capacity"))

	d.Capacity = "thirty"
	assert.Equal(t, "capacity must be a number", ValidateClass(d).Error("capacity"))
}

func TestValidateTariffAmount(t *testing.T) {
	d := TariffDraft{Name: "Tuition", Type: "tuition", Amount: "150000", BillingFrequency: "per_term"}
	assert.True(t, ValidateTariff(d).Valid)

	d.Amount = "-500"
	assert.Equal(t, "amount must be a non-negative number", ValidateTariff(d).Error("amount"))

	d.Amount = "15k"
	assert.Equal(t, "amount must be a non-negative number", ValidateTariff(d).Error("amount"))
}

func TestValidatePayment(t *testing.T) {
	d := PaymentDraft{Amount: "5000", PaymentMethod: "cash"}
	assert.True(t, ValidatePayment(d, 10000).Valid)

	d.Amount = "0"
	assert.Equal(t, "amount must be greater than zero", ValidatePayment(d, 10000).Error("amount"))

	d.Amount = "abc"
	assert.Equal(t, "amount must be a positive number", ValidatePayment(d, 10000).Error("amount"))

	d.PaymentMethod = "cheque"
	d.Amount = "5000"
	assert.False(t, ValidatePayment(d, 10000).Valid)
	assert.NotEmpty(t, ValidatePayment(d, 10000).Error("payment_method"))
}

func TestValidatePaymentOverBalanceNamesCeiling(t *testing.T) {
	d := PaymentDraft{Amount: "15000", PaymentMethod: "cash"}
	result := ValidatePayment(d, 10000)
	assert.False(t, result.Valid)
	msg := result.Error("amount")
	assert.True(t, strings.HasPrefix(msg, "amount cannot exceed the outstanding balance of "))
	assert.Contains(t, msg, derive.FormatAmount(10000))
}

func TestResultAddErrorFirstWins(t *testing.T) {
	result := newResult()
	result.AddError("amount", "first")
	result.AddError("amount", "second")
	assert.False(t, result.Valid)
	assert.Equal(t, "first", result.Error("amount"))
}

func TestResultAddErrorNilMap(t *testing.T) {
	var result Result
	result.AddError("name", "required")
	assert.False(t, result.Valid)
	assert.Equal(t, "required", result.Error("name"))
}
