package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ishuri/school-console/internal/derive"
	"github.com/ishuri/school-console/internal/models"
	appErrors "github.com/ishuri/school-console/pkg/errors"
	"github.com/ishuri/school-console/pkg/export"
)

type exportBackend interface {
	StudentsByClass(ctx context.Context, classID string) ([]models.Student, error)
	StudentBills(ctx context.Context, studentID string) ([]models.Bill, error)
	BillItems(ctx context.Context, billID string) ([]models.BillItem, error)
}

// ExportService renders rosters, statements and receipts into downloadable
// documents.
type ExportService struct {
	backend exportBackend
	csv     *export.CSVExporter
	xlsx    *export.ExcelExporter
	pdf     *export.PDFExporter
	logger  *zap.Logger
}

func NewExportService(backend exportBackend, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		backend: backend,
		csv:     export.NewCSVExporter(),
		xlsx:    export.NewExcelExporter(),
		pdf:     export.NewPDFExporter(),
		logger:  logger,
	}
}

var rosterHeaders = []string{
	"Student ID", "Name", "Gender", "Date of Birth",
	"Parent", "Parent Phone", "Status",
}

func rosterDataset(students []models.Student) export.Dataset {
	rows := make([]map[string]string, len(students))
	for i, s := range students {
		rows[i] = map[string]string{
			"Student ID":    s.StudentID,
			"Name":          s.FullName(),
			"Gender":        string(s.Gender),
			"Date of Birth": s.DateOfBirth.Format("2006-01-02"),
			"Parent":        s.ParentName,
			"Parent Phone":  s.ParentPhone,
			"Status":        string(s.Status),
		}
	}
	return export.Dataset{Headers: rosterHeaders, Rows: rows}
}

// ClassRosterCSV exports one class roster as CSV.
func (s *ExportService) ClassRosterCSV(ctx context.Context, classID string) ([]byte, error) {
	students, err := s.backend.StudentsByClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	return s.csv.Render(rosterDataset(students))
}

// ClassRosterExcel exports one class roster as an xlsx workbook.
func (s *ExportService) ClassRosterExcel(ctx context.Context, classID string) ([]byte, error) {
	students, err := s.backend.StudentsByClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	return s.xlsx.Render(rosterDataset(students), "Roster")
}

// StudentStatementPDF renders every bill of one student into a statement.
func (s *ExportService) StudentStatementPDF(ctx context.Context, student models.Student) ([]byte, error) {
	bills, err := s.backend.StudentBills(ctx, student.ID)
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]string, len(bills))
	var totalOutstanding int64
	for i, bill := range bills {
		rows[i] = map[string]string{
			"Bill":        bill.BillNumber,
			"Due":         bill.DueDate.Format("2006-01-02"),
			"Billed":      derive.FormatAmount(bill.TotalAmount),
			"Paid":        derive.FormatAmount(bill.PaidAmount),
			"Outstanding": derive.FormatAmount(bill.Outstanding()),
			"Status":      string(bill.Status),
		}
		totalOutstanding += bill.Outstanding()
	}

	return s.pdf.RenderReceipt(export.Receipt{
		Title:    "Billing Statement",
		Subtitle: fmt.Sprintf("Generated %s", time.Now().Format("2006-01-02")),
		Fields: [][2]string{
			{"Student", student.FullName()},
			{"Registration", student.StudentID},
			{"Class", student.ClassName},
		},
		Lines: export.Dataset{
			Headers: []string{"Bill", "Due", "Billed", "Paid", "Outstanding", "Status"},
			Rows:    rows,
		},
		Total: "Outstanding: " + derive.FormatAmount(totalOutstanding),
	})
}

// PaymentReceiptInput carries what the receipt shows; the caller supplies
// the payment it just recorded.
type PaymentReceiptInput struct {
	Student   models.Student       `json:"student"`
	Bill      models.Bill          `json:"bill"`
	Amount    int64                `json:"amount"`
	Method    models.PaymentMethod `json:"method"`
	Reference string               `json:"reference"`
	PaidAt    time.Time            `json:"paid_at"`
}

// PaymentReceiptPDF renders a receipt for a recorded payment, with the
// bill's tariff lines underneath.
func (s *ExportService) PaymentReceiptPDF(ctx context.Context, in PaymentReceiptInput) ([]byte, error) {
	if in.Amount <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "receipt amount must be positive")
	}
	items, err := s.backend.BillItems(ctx, in.Bill.ID)
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]string, len(items))
	for i, item := range items {
		rows[i] = map[string]string{
			"Tariff": item.TariffName,
			"Amount": derive.FormatAmount(item.Amount),
			"Paid":   derive.FormatAmount(item.PaidAmount),
			"Status": string(item.Status),
		}
	}

	paidAt := in.PaidAt
	if paidAt.IsZero() {
		paidAt = time.Now()
	}
	receipt, err := s.pdf.RenderReceipt(export.Receipt{
		Title:    "Payment Receipt",
		Subtitle: in.Bill.BillNumber,
		Fields: [][2]string{
			{"Student", in.Student.FullName()},
			{"Registration", in.Student.StudentID},
			{"Date", paidAt.Format("2006-01-02 15:04")},
			{"Method", string(in.Method)},
			{"Reference", in.Reference},
		},
		Lines: export.Dataset{
			Headers: []string{"Tariff", "Amount", "Paid", "Status"},
			Rows:    rows,
		},
		Total: "Amount Paid: " + derive.FormatAmount(in.Amount),
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("receipt rendered",
		zap.String("bill_id", in.Bill.ID),
		zap.String("reference", in.Reference),
	)
	return receipt, nil
}
