package validation

import (
	"strconv"
	"strings"

	"github.com/ishuri/school-console/internal/derive"
	"github.com/ishuri/school-console/internal/models"
)

// Drafts mirror form state: every user-editable field arrives as a string and
// is only coerced once its shape has been checked.

// AcademicYearDraft is the create/edit form for an academic year.
type AcademicYearDraft struct {
	Name        string `json:"name" validate:"required"`
	StartDate   string `json:"start_date" validate:"required,dateonly"`
	EndDate     string `json:"end_date" validate:"required,dateonly"`
	Description string `json:"description"`
}

// ValidateAcademicYear checks an academic year draft. The date-order rule
// only fires when both dates are present and well-formed.
func ValidateAcademicYear(d AcademicYearDraft) Result {
	result := check(d)
	start, okStart := parseDate(d.StartDate)
	end, okEnd := parseDate(d.EndDate)
	if okStart && okEnd && !end.After(start) {
		result.AddError("end_date", "end date must be after start date")
	}
	return result
}

// TermDraft is the create/edit form for a term.
type TermDraft struct {
	Name           string `json:"name" validate:"required"`
	AcademicYearID string `json:"academic_year_id" validate:"required"`
	StartDate      string `json:"start_date" validate:"required,dateonly"`
	EndDate        string `json:"end_date" validate:"required,dateonly"`
	Description    string `json:"description"`
}

// ValidateTerm checks a term draft against its parent academic year. The
// nesting rule only fires when the year is known and the dates parse.
func ValidateTerm(d TermDraft, year *models.AcademicYear) Result {
	result := check(d)
	start, okStart := parseDate(d.StartDate)
	end, okEnd := parseDate(d.EndDate)
	if okStart && okEnd {
		if !end.After(start) {
			result.AddError("end_date", "end date must be after start date")
		} else if year != nil {
			span := models.Term{StartDate: start, EndDate: end}
			if !span.Within(*year) {
				if start.Before(year.StartDate) {
					result.AddError("start_date", "term must start within the academic year")
				}
				if end.After(year.EndDate) {
					result.AddError("end_date", "term must end within the academic year")
				}
			}
		}
	}
	return result
}

// GradeDraft is the create/edit form for a grade.
type GradeDraft struct {
	Name        string `json:"name" validate:"required,gradename"`
	DisplayName string `json:"display_name" validate:"required"`
	Description string `json:"description"`
}

// ValidateGrade checks a grade draft.
func ValidateGrade(d GradeDraft) Result {
	return check(d)
}

// ClassDraft is the create/edit form for a class.
type ClassDraft struct {
	Name        string `json:"name" validate:"required"`
	GradeID     string `json:"grade_id" validate:"required"`
	Capacity    string `json:"capacity" validate:"required"`
	Description string `json:"description"`
}

// ValidateClass checks a class draft, rejecting non-numeric or out-of-range
// capacity.
func ValidateClass(d ClassDraft) Result {
	result := check(d)
	if strings.TrimSpace(d.Capacity) != "" {
		capacity, err := strconv.Atoi(strings.TrimSpace(d.Capacity))
		if err != nil {
			result.AddError("capacity", "capacity must be a number")
		} else if capacity < 1 || capacity > 100 {
			result.AddError("capacity", "capacity must be between 1 and 100")
		}
	}
	return result
}

// StudentDraft is the registration/edit form for a student.
type StudentDraft struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	Email       string `json:"email" validate:"omitempty,email"`
	DateOfBirth string `json:"date_of_birth" validate:"required,dateonly"`
	Gender      string `json:"gender" validate:"required,oneof=male female other"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`

	ParentName  string `json:"parent_name" validate:"required"`
	ParentEmail string `json:"parent_email" validate:"required,email"`
	ParentPhone string `json:"parent_phone" validate:"required"`

	EmergencyContact string `json:"emergency_contact"`
	EnrollmentDate   string `json:"enrollment_date" validate:"omitempty,dateonly"`
	ClassID          string `json:"class_id"`

	MedicalConditions     string `json:"medical_conditions"`
	Allergies             string `json:"allergies"`
	HasDisability         bool   `json:"has_disability"`
	DisabilityDescription string `json:"disability_description"`

	Province string `json:"province"`
	District string `json:"district"`
	Sector   string `json:"sector"`
	Cell     string `json:"cell"`
	Village  string `json:"village"`
}

// ValidateStudent checks a student draft. A disability description is
// required once the disability flag is set.
func ValidateStudent(d StudentDraft) Result {
	result := check(d)
	if d.HasDisability && strings.TrimSpace(d.DisabilityDescription) == "" {
		result.AddError("disability_description", "please describe the disability")
	}
	return result
}

// TariffDraft is the create/edit form for a tariff.
type TariffDraft struct {
	Name             string `json:"name" validate:"required"`
	Type             string `json:"type" validate:"required,oneof=tuition transport meal activity_fee other"`
	Amount           string `json:"amount" validate:"required"`
	BillingFrequency string `json:"billing_frequency" validate:"required,oneof=per_term per_month per_year one_time"`
	Description      string `json:"description"`
}

// ValidateTariff checks a tariff draft, rejecting negative or non-numeric
// amounts.
func ValidateTariff(d TariffDraft) Result {
	result := check(d)
	if strings.TrimSpace(d.Amount) != "" {
		if _, ok := parseAmount(d.Amount); !ok {
			result.AddError("amount", "amount must be a non-negative number")
		}
	}
	return result
}

// PaymentDraft is the record-payment form.
type PaymentDraft struct {
	Amount        string `json:"amount" validate:"required"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=cash bank_transfer mobile_money card other"`
	Reference     string `json:"reference"`
	Notes         string `json:"notes"`
}

// ValidatePayment checks a payment draft against the outstanding balance.
// The ceiling check only fires once the amount itself is well-formed.
func ValidatePayment(d PaymentDraft, balance int64) Result {
	result := check(d)
	if strings.TrimSpace(d.Amount) == "" {
		return result
	}
	amount, ok := parseAmount(d.Amount)
	if !ok {
		result.AddError("amount", "amount must be a positive number")
		return result
	}
	if amount <= 0 {
		result.AddError("amount", "amount must be greater than zero")
		return result
	}
	if amount > balance {
		result.AddError("amount", "amount cannot exceed the outstanding balance of "+derive.FormatAmount(balance))
	}
	return result
}

// UserDraft is the create/edit form for a console account.
type UserDraft struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required"`
}

// ValidateUser checks a user draft.
func ValidateUser(d UserDraft) Result {
	return check(d)
}
