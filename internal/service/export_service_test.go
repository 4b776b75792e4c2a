package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/ishuri/school-console/internal/models"
	appErrors "github.com/ishuri/school-console/pkg/errors"
)

type mockExportBackend struct {
	students map[string][]models.Student
	bills    map[string][]models.Bill
	items    map[string][]models.BillItem
}

func (m *mockExportBackend) StudentsByClass(ctx context.Context, classID string) ([]models.Student, error) {
	return m.students[classID], nil
}

func (m *mockExportBackend) StudentBills(ctx context.Context, studentID string) ([]models.Bill, error) {
	return m.bills[studentID], nil
}

func (m *mockExportBackend) BillItems(ctx context.Context, billID string) ([]models.BillItem, error) {
	return m.items[billID], nil
}

func newExportFixture() *ExportService {
	backend := &mockExportBackend{
		students: map[string][]models.Student{
			"c1": {
				{
					ID:          "s1",
					StudentID:   "STU-001",
					FirstName:   "Aline",
					LastName:    "Uwase",
					Gender:      models.GenderFemale,
					DateOfBirth: time.Date(2018, 4, 12, 0, 0, 0, 0, time.UTC),
					ParentName:  "Jean Uwase",
					ParentPhone: "+250788000000",
					Status:      models.StudentActive,
				},
			},
		},
		bills: map[string][]models.Bill{
			"s1": {{ID: "b1", BillNumber: "BILL-001", TotalAmount: 150000, PaidAmount: 50000, Status: models.BillPartial}},
		},
		items: map[string][]models.BillItem{
			"b1": {{ID: "i1", TariffName: "Tuition", Amount: 150000, PaidAmount: 50000, Status: models.BillPartial}},
		},
	}
	return NewExportService(backend, zap.NewNop())
}

func TestExportServiceClassRosterCSV(t *testing.T) {
	svc := newExportFixture()

	out, err := svc.ClassRosterCSV(context.Background(), "c1")
	require.NoError(t, err)

	text := string(out)
	assert.True(t, strings.HasPrefix(text, "Student ID,Name,Gender,Date of Birth,Parent,Parent Phone,Status"))
	assert.Contains(t, text, "STU-001,Aline Uwase,female,2018-04-12,Jean Uwase,+250788000000,active")
}

func TestExportServiceClassRosterExcel(t *testing.T) {
	svc := newExportFixture()

	out, err := svc.ClassRosterExcel(context.Background(), "c1")
	require.NoError(t, err)

	book, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer book.Close()

	rows, err := book.GetRows("Roster")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "STU-001", rows[1][0])
}

func TestExportServiceStudentStatementPDF(t *testing.T) {
	svc := newExportFixture()

	out, err := svc.StudentStatementPDF(context.Background(), models.Student{
		ID:        "s1",
		StudentID: "STU-001",
		FirstName: "Aline",
		LastName:  "Uwase",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestExportServicePaymentReceiptPDF(t *testing.T) {
	svc := newExportFixture()

	input := PaymentReceiptInput{
		Student:   models.Student{ID: "s1", StudentID: "STU-001", FirstName: "Aline", LastName: "Uwase"},
		Bill:      models.Bill{ID: "b1", BillNumber: "BILL-001"},
		Amount:    50000,
		Method:    models.PaymentMobileMoney,
		Reference: "MM-778",
	}
	out, err := svc.PaymentReceiptPDF(context.Background(), input)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestExportServicePaymentReceiptRejectsNonPositiveAmount(t *testing.T) {
	svc := newExportFixture()

	_, err := svc.PaymentReceiptPDF(context.Background(), PaymentReceiptInput{Amount: 0})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}
