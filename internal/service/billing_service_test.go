package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ishuri/school-console/internal/loader"
	"github.com/ishuri/school-console/internal/models"
	"github.com/ishuri/school-console/internal/validation"
	appErrors "github.com/ishuri/school-console/pkg/errors"
)

type mockBillingBackend struct {
	students     map[string][]models.Student
	bills        map[string][]models.Bill
	items        map[string][]models.BillItem
	payments     []models.PaymentRequest
	itemPayments []models.PaymentRequest
	billFetches  int
	detailCalls  int
}

func (m *mockBillingBackend) StudentsByClass(ctx context.Context, classID string) ([]models.Student, error) {
	return m.students[classID], nil
}

func (m *mockBillingBackend) StudentBills(ctx context.Context, studentID string) ([]models.Bill, error) {
	m.billFetches++
	return m.bills[studentID], nil
}

func (m *mockBillingBackend) BillItems(ctx context.Context, billID string) ([]models.BillItem, error) {
	return m.items[billID], nil
}

func (m *mockBillingBackend) RecordBillPayment(ctx context.Context, billID string, req models.PaymentRequest) (*models.Bill, error) {
	m.payments = append(m.payments, req)
	return &models.Bill{ID: billID, PaidAmount: req.Amount}, nil
}

func (m *mockBillingBackend) RecordItemPayment(ctx context.Context, itemID string, req models.PaymentRequest) (*models.BillItem, error) {
	m.itemPayments = append(m.itemPayments, req)
	return &models.BillItem{ID: itemID, PaidAmount: req.Amount}, nil
}

func (m *mockBillingBackend) PaymentOverview(ctx context.Context) (*models.PaymentOverview, error) {
	return &models.PaymentOverview{TotalBilled: 500000}, nil
}

func (m *mockBillingBackend) ClassPaymentDetails(ctx context.Context, classID string) (*models.ClassPaymentDetails, error) {
	m.detailCalls++
	return &models.ClassPaymentDetails{ClassID: classID}, nil
}

func newBillingFixture() (*BillingService, *mockBillingBackend) {
	backend := &mockBillingBackend{
		students: map[string][]models.Student{
			"c1": {{ID: "s1", FirstName: "Aline"}, {ID: "s2", FirstName: "Eric"}},
		},
		bills: map[string][]models.Bill{
			"s1": {{ID: "b1", StudentID: "s1", TotalAmount: 150000, PaidAmount: 50000}},
			"s2": {{ID: "b2", StudentID: "s2", TotalAmount: 30000, PaidAmount: 30000}},
		},
		items: map[string][]models.BillItem{
			"b1": {
				{ID: "i1", BillID: "b1", TariffName: "Tuition", Amount: 100000, PaidAmount: 70000},
				{ID: "i2", BillID: "b1", TariffName: "Transport", Amount: 50000, PaidAmount: 50000},
			},
		},
	}
	svc := NewBillingService(backend, loader.Config{}, zap.NewNop())
	return svc, backend
}

func TestBillingServiceOpenClassEnrichesRows(t *testing.T) {
	svc, _ := newBillingFixture()
	require.NoError(t, svc.OpenClass(context.Background(), "c1"))

	rows := svc.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "c1", svc.ClassID())
	assert.False(t, rows[0].Loading)
	assert.Equal(t, int64(100000), rows[0].Outstanding)
	assert.Equal(t, int64(0), rows[1].Outstanding)
}

func TestBillingServiceFindBill(t *testing.T) {
	svc, _ := newBillingFixture()
	require.NoError(t, svc.OpenClass(context.Background(), "c1"))

	bill, ok := svc.FindBill("b1")
	require.True(t, ok)
	assert.Equal(t, "s1", bill.StudentID)

	_, ok = svc.FindBill("missing")
	assert.False(t, ok)
}

func TestBillingServiceRecordPaymentRejectsOverBalance(t *testing.T) {
	svc, backend := newBillingFixture()
	bill := models.Bill{ID: "b1", StudentID: "s1", TotalAmount: 150000, PaidAmount: 50000}

	_, err := svc.RecordPayment(context.Background(), bill, validation.PaymentDraft{
		Amount:        "120000",
		PaymentMethod: "cash",
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	assert.True(t, strings.Contains(appErrors.FromError(err).Message, "cannot exceed the outstanding balance"))
	assert.Empty(t, backend.payments)
}

func TestBillingServiceRecordPaymentWithinBalance(t *testing.T) {
	svc, backend := newBillingFixture()
	bill := models.Bill{ID: "b1", StudentID: "s1", TotalAmount: 150000, PaidAmount: 50000}

	updated, err := svc.RecordPayment(context.Background(), bill, validation.PaymentDraft{
		Amount:        "60000",
		PaymentMethod: "mobile_money",
		Reference:     "MM-778",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(60000), updated.PaidAmount)
	require.Len(t, backend.payments, 1)
	assert.Equal(t, models.PaymentMobileMoney, backend.payments[0].PaymentMethod)
	assert.Equal(t, "MM-778", backend.payments[0].Reference)
}

func TestBillingServicePayFromModalClampsToBalance(t *testing.T) {
	svc, backend := newBillingFixture()
	bill := models.Bill{ID: "b1", StudentID: "s1", TotalAmount: 150000, PaidAmount: 50000}

	_, paid, err := svc.PayFromModal(context.Background(), bill, validation.PaymentDraft{
		Amount:        "999999",
		PaymentMethod: "cash",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100000), paid)
	require.Len(t, backend.payments, 1)
	assert.Equal(t, int64(100000), backend.payments[0].Amount)
}

func TestBillingServicePayFromModalStillValidates(t *testing.T) {
	svc, backend := newBillingFixture()
	bill := models.Bill{ID: "b1", StudentID: "s1", TotalAmount: 150000, PaidAmount: 50000}

	_, _, err := svc.PayFromModal(context.Background(), bill, validation.PaymentDraft{
		Amount:        "not-a-number",
		PaymentMethod: "cash",
	})
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	assert.Empty(t, backend.payments)
}

func TestBillingServicePaymentGeneratesReference(t *testing.T) {
	svc, backend := newBillingFixture()
	bill := models.Bill{ID: "b1", StudentID: "s1", TotalAmount: 150000, PaidAmount: 50000}

	_, err := svc.RecordPayment(context.Background(), bill, validation.PaymentDraft{
		Amount:        "10000",
		PaymentMethod: "cash",
	})
	require.NoError(t, err)
	require.Len(t, backend.payments, 1)
	assert.NotEmpty(t, backend.payments[0].Reference)
}

func TestBillingServicePaymentInvalidatesStudentCache(t *testing.T) {
	svc, backend := newBillingFixture()
	require.NoError(t, svc.OpenClass(context.Background(), "c1"))
	fetchesAfterOpen := backend.billFetches

	bill, ok := svc.FindBill("b1")
	require.True(t, ok)
	_, err := svc.RecordPayment(context.Background(), bill, validation.PaymentDraft{
		Amount:        "10000",
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	// reopening refetches the paid student but serves the other from cache
	require.NoError(t, svc.OpenClass(context.Background(), "c1"))
	assert.Equal(t, fetchesAfterOpen+1, backend.billFetches)
}

func TestBillingServiceFindItemAfterListing(t *testing.T) {
	svc, _ := newBillingFixture()

	_, ok := svc.FindItem("i1")
	assert.False(t, ok)

	items, err := svc.BillItems(context.Background(), "b1")
	require.NoError(t, err)
	require.Len(t, items, 2)

	item, ok := svc.FindItem("i1")
	require.True(t, ok)
	assert.Equal(t, "Tuition", item.TariffName)
	assert.Equal(t, int64(30000), item.Outstanding())
}

func TestBillingServiceRecordItemPaymentRejectsOverBalance(t *testing.T) {
	svc, backend := newBillingFixture()
	item := models.BillItem{ID: "i1", BillID: "b1", Amount: 100000, PaidAmount: 70000}

	_, err := svc.RecordItemPayment(context.Background(), item, validation.PaymentDraft{
		Amount:        "40000",
		PaymentMethod: "cash",
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	assert.True(t, strings.Contains(appErrors.FromError(err).Message, "cannot exceed the outstanding balance"))
	assert.Empty(t, backend.itemPayments)
}

func TestBillingServiceRecordItemPaymentWithinBalance(t *testing.T) {
	svc, backend := newBillingFixture()
	item := models.BillItem{ID: "i1", BillID: "b1", Amount: 100000, PaidAmount: 70000}

	updated, err := svc.RecordItemPayment(context.Background(), item, validation.PaymentDraft{
		Amount:        "20000",
		PaymentMethod: "bank_transfer",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(20000), updated.PaidAmount)
	require.Len(t, backend.itemPayments, 1)
	assert.Equal(t, models.PaymentBankTransfer, backend.itemPayments[0].PaymentMethod)
	assert.NotEmpty(t, backend.itemPayments[0].Reference)
}

func TestBillingServicePayItemFromModalClampsToBalance(t *testing.T) {
	svc, backend := newBillingFixture()
	item := models.BillItem{ID: "i1", BillID: "b1", Amount: 100000, PaidAmount: 70000}

	_, paid, err := svc.PayItemFromModal(context.Background(), item, validation.PaymentDraft{
		Amount:        "999999",
		PaymentMethod: "cash",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(30000), paid)
	require.Len(t, backend.itemPayments, 1)
	assert.Equal(t, int64(30000), backend.itemPayments[0].Amount)
}

func TestBillingServiceItemPaymentDropsCachedItems(t *testing.T) {
	svc, _ := newBillingFixture()

	_, err := svc.BillItems(context.Background(), "b1")
	require.NoError(t, err)
	item, ok := svc.FindItem("i1")
	require.True(t, ok)

	_, err = svc.RecordItemPayment(context.Background(), item, validation.PaymentDraft{
		Amount:        "10000",
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	// the paid bill's cached items are stale and dropped
	_, ok = svc.FindItem("i1")
	assert.False(t, ok)
	_, ok = svc.FindItem("i2")
	assert.False(t, ok)
}

func TestBillingServiceClassDetailsCaches(t *testing.T) {
	svc, backend := newBillingFixture()

	_, err := svc.ClassDetails(context.Background(), "c1")
	require.NoError(t, err)
	_, err = svc.ClassDetails(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 1, backend.detailCalls)

	svc.Reset()
	_, err = svc.ClassDetails(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, 2, backend.detailCalls)
}
