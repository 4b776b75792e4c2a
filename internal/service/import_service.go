package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/ishuri/school-console/internal/api"
	"github.com/ishuri/school-console/internal/models"
	"github.com/ishuri/school-console/internal/validation"
	appErrors "github.com/ishuri/school-console/pkg/errors"
)

type importBackend interface {
	ImportStudents(ctx context.Context, rows []api.ImportRow, opts api.ImportOptions) (*api.ImportResult, error)
	ListClasses(ctx context.Context, withTariffCounts bool) ([]models.Class, error)
}

// importColumns is the fixed spreadsheet layout, in order. Header row is
// required and matched case-insensitively.
var importColumns = []string{
	"first_name", "last_name", "email", "date_of_birth", "gender",
	"phone", "address",
	"parent_name", "parent_email", "parent_phone",
	"emergency_contact", "enrollment_date", "class_code",
	"medical_conditions", "allergies", "has_disability", "disability_description",
	"province", "district", "sector", "cell", "village",
	"status",
}

// RowError ties validation messages to the spreadsheet row they came from.
// Row numbers are 1-based and include the header, matching what the person
// sees in their spreadsheet program.
type RowError struct {
	Row      int               `json:"row"`
	Messages map[string]string `json:"messages"`
}

// ImportPreview is the parsed workbook before anything is submitted.
type ImportPreview struct {
	Rows      []api.ImportRow `json:"rows"`
	RowErrors []RowError      `json:"row_errors,omitempty"`
	Total     int             `json:"total"`
}

// Valid reports whether every parsed row passed validation.
func (p ImportPreview) Valid() bool { return len(p.RowErrors) == 0 }

// ImportService parses student bulk-import workbooks and hands the clean
// rows to the backend.
type ImportService struct {
	backend importBackend
	logger  *zap.Logger
}

func NewImportService(backend importBackend, logger *zap.Logger) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{backend: backend, logger: logger}
}

// Parse reads an xlsx workbook and validates every row, producing a preview
// the caller can show before committing the import. Class codes such as
// N1A or P3B are resolved against the current class list.
func (s *ImportService) Parse(ctx context.Context, r io.Reader) (*ImportPreview, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "the file is not a readable xlsx workbook")
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "the workbook has no sheets")
	}
	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "could not read the first sheet")
	}
	if len(rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "the sheet is empty")
	}
	if err := checkHeader(rows[0]); err != nil {
		return nil, err
	}

	classByCode, err := s.classCodes(ctx)
	if err != nil {
		return nil, err
	}

	preview := &ImportPreview{}
	for i, cells := range rows[1:] {
		rowNum := i + 2
		if blankRow(cells) {
			continue
		}
		draft, classCode, status := draftFromCells(cells)

		result := validation.ValidateStudent(draft)
		if classCode != "" {
			if id, ok := classByCode[strings.ToUpper(classCode)]; ok {
				draft.ClassID = id
			} else {
				result.AddError("class_code", "unknown class code "+classCode)
			}
		}
		if status != "" && !validStudentStatus(status) {
			result.AddError("status", "status must be one of active, inactive, graduated, transferred")
		}
		if !result.Valid {
			preview.RowErrors = append(preview.RowErrors, RowError{Row: rowNum, Messages: result.Errors})
		}

		preview.Rows = append(preview.Rows, api.ImportRow{
			Row:       rowNum,
			Student:   studentRequest(draft),
			ClassCode: strings.ToUpper(classCode),
			Status:    status,
		})
	}
	preview.Total = len(preview.Rows)
	if preview.Total == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "the sheet has no data rows")
	}
	return preview, nil
}

// Submit sends a parsed preview to the backend. Without SkipErrors, a
// preview that still carries row errors is refused locally.
func (s *ImportService) Submit(ctx context.Context, preview *ImportPreview, opts api.ImportOptions) (*api.ImportResult, error) {
	if preview == nil || preview.Total == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "nothing to import")
	}
	if !preview.Valid() && !opts.SkipErrors {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("%d rows have errors; fix them or enable skipping", len(preview.RowErrors)))
	}

	rows := preview.Rows
	if opts.SkipErrors && !preview.Valid() {
		bad := map[int]bool{}
		for _, re := range preview.RowErrors {
			bad[re.Row] = true
		}
		kept := rows[:0:0]
		for _, row := range rows {
			if !bad[row.Row] {
				kept = append(kept, row)
			}
		}
		rows = kept
	}
	if len(rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "every row has errors; nothing left to import")
	}

	result, err := s.backend.ImportStudents(ctx, rows, opts)
	if err != nil {
		return nil, err
	}
	s.logger.Info("student import submitted",
		zap.Int("rows", len(rows)),
		zap.Int("imported", result.Imported),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

func (s *ImportService) classCodes(ctx context.Context) (map[string]string, error) {
	classes, err := s.backend.ListClasses(ctx, false)
	if err != nil {
		return nil, err
	}
	codes := make(map[string]string, len(classes))
	for _, c := range classes {
		codes[strings.ToUpper(c.FullName())] = c.ID
	}
	return codes, nil
}

func checkHeader(header []string) error {
	if len(header) < len(importColumns) {
		return appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("expected %d columns, found %d", len(importColumns), len(header)))
	}
	for i, want := range importColumns {
		got := strings.ToLower(strings.TrimSpace(header[i]))
		if got != want {
			return appErrors.Clone(appErrors.ErrValidation,
				fmt.Sprintf("column %d should be %q, found %q", i+1, want, header[i]))
		}
	}
	return nil
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func cell(cells []string, i int) string {
	if i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i])
}

func draftFromCells(cells []string) (validation.StudentDraft, string, string) {
	draft := validation.StudentDraft{
		FirstName:   cell(cells, 0),
		LastName:    cell(cells, 1),
		Email:       cell(cells, 2),
		DateOfBirth: cell(cells, 3),
		Gender:      strings.ToLower(cell(cells, 4)),
		Phone:       cell(cells, 5),
		Address:     cell(cells, 6),

		ParentName:  cell(cells, 7),
		ParentEmail: cell(cells, 8),
		ParentPhone: cell(cells, 9),

		EmergencyContact: cell(cells, 10),
		EnrollmentDate:   cell(cells, 11),

		MedicalConditions:     cell(cells, 13),
		Allergies:             cell(cells, 14),
		HasDisability:         strings.EqualFold(cell(cells, 15), "true"),
		DisabilityDescription: cell(cells, 16),

		Province: cell(cells, 17),
		District: cell(cells, 18),
		Sector:   cell(cells, 19),
		Cell:     cell(cells, 20),
		Village:  cell(cells, 21),
	}
	classCode := cell(cells, 12)
	status := strings.ToLower(cell(cells, 22))
	return draft, classCode, status
}

func validStudentStatus(raw string) bool {
	switch models.StudentStatus(raw) {
	case models.StudentActive, models.StudentInactive, models.StudentGraduated, models.StudentTransferred:
		return true
	}
	return false
}
