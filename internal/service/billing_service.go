package service

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ishuri/school-console/internal/loader"
	"github.com/ishuri/school-console/internal/models"
	"github.com/ishuri/school-console/internal/validation"
)

type billingBackend interface {
	StudentsByClass(ctx context.Context, classID string) ([]models.Student, error)
	StudentBills(ctx context.Context, studentID string) ([]models.Bill, error)
	BillItems(ctx context.Context, billID string) ([]models.BillItem, error)
	RecordBillPayment(ctx context.Context, billID string, req models.PaymentRequest) (*models.Bill, error)
	RecordItemPayment(ctx context.Context, itemID string, req models.PaymentRequest) (*models.BillItem, error)
	PaymentOverview(ctx context.Context) (*models.PaymentOverview, error)
	ClassPaymentDetails(ctx context.Context, classID string) (*models.ClassPaymentDetails, error)
}

// studentBilling is the per-student enrichment fetched while the billing
// view drills into a class.
type studentBilling struct {
	Bills       []models.Bill
	Outstanding int64
}

// BillingService owns the billing view: pick a class, see its students
// immediately, and watch each student's bills and outstanding balance fill
// in row by row.
type BillingService struct {
	backend billingBackend
	logger  *zap.Logger
	bills   *loader.Progressive[studentBilling]

	mu      sync.Mutex
	classID string
	rows    []models.StudentRow
	// classDetails caches the per-class payment summary for this view.
	classDetails map[string]*models.ClassPaymentDetails
	// items indexes the line items fetched so far, so a payment can target
	// one item by id alone.
	items map[string]models.BillItem
}

// NewBillingService creates the billing view service with its own caches.
func NewBillingService(backend billingBackend, loaderCfg loader.Config, logger *zap.Logger) *BillingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &BillingService{
		backend:      backend,
		logger:       logger,
		classDetails: map[string]*models.ClassPaymentDetails{},
		items:        map[string]models.BillItem{},
	}
	loaderCfg.Logger = logger
	s.bills = loader.New(s.fetchStudentBilling, loaderCfg)
	return s
}

func (s *BillingService) fetchStudentBilling(ctx context.Context, studentID string) (studentBilling, error) {
	bills, err := s.backend.StudentBills(ctx, studentID)
	if err != nil {
		return studentBilling{}, err
	}
	var outstanding int64
	for _, bill := range bills {
		outstanding += bill.Outstanding()
	}
	return studentBilling{Bills: bills, Outstanding: outstanding}, nil
}

// OpenClass replaces the view with the given class's students and starts
// progressive bill enrichment. Opening another class while a previous load
// is still running abandons the old load's remaining updates.
func (s *BillingService) OpenClass(ctx context.Context, classID string) error {
	students, err := s.backend.StudentsByClass(ctx, classID)
	if err != nil {
		return err
	}

	rows := make([]models.StudentRow, len(students))
	ids := make([]string, len(students))
	for i, student := range students {
		rows[i] = models.StudentRow{Student: student, Loading: true}
		ids[i] = student.ID
	}
	s.mu.Lock()
	s.classID = classID
	s.rows = rows
	s.mu.Unlock()

	return s.bills.Load(ctx, ids, s.applyUpdate)
}

func (s *BillingService) applyUpdate(u loader.Update[studentBilling]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.Index >= len(s.rows) || s.rows[u.Index].ID != u.ID {
		return
	}
	if u.Loading {
		s.rows[u.Index].Loading = true
		return
	}
	s.rows[u.Index].Bills = u.Stats.Bills
	s.rows[u.Index].Outstanding = u.Stats.Outstanding
	s.rows[u.Index].Loading = false
}

// Rows returns a snapshot of the current student rows.
func (s *BillingService) Rows() []models.StudentRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := make([]models.StudentRow, len(s.rows))
	copy(rows, s.rows)
	return rows
}

// FindBill locates a bill in the loaded rows.
func (s *BillingService) FindBill(billID string) (models.Bill, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		for _, bill := range row.Bills {
			if bill.ID == billID {
				return bill, true
			}
		}
	}
	return models.Bill{}, false
}

// ClassID returns the class the view is currently drilled into.
func (s *BillingService) ClassID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.classID
}

// BillItems returns the line items of one bill and indexes them for
// item-level payments.
func (s *BillingService) BillItems(ctx context.Context, billID string) ([]models.BillItem, error) {
	items, err := s.backend.BillItems(ctx, billID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	for _, item := range items {
		s.items[item.ID] = item
	}
	s.mu.Unlock()
	return items, nil
}

// FindItem locates a previously fetched bill item.
func (s *BillingService) FindItem(itemID string) (models.BillItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[itemID]
	return item, ok
}

// RecordPayment is the strict path: a draft amount above the bill's
// outstanding balance is rejected with an error naming the ceiling, before
// any network call.
func (s *BillingService) RecordPayment(ctx context.Context, bill models.Bill, d validation.PaymentDraft) (*models.Bill, error) {
	balance := bill.Outstanding()
	if result := validation.ValidatePayment(d, balance); !result.Valid {
		return nil, validationError(result)
	}
	return s.submitPayment(ctx, bill, d)
}

// PayFromModal is the payment-modal path: an over-limit amount is silently
// clamped down to the outstanding balance rather than rejected. Returns the
// amount actually submitted.
func (s *BillingService) PayFromModal(ctx context.Context, bill models.Bill, d validation.PaymentDraft) (*models.Bill, int64, error) {
	balance := bill.Outstanding()
	if amount, ok := parseDraftAmount(d.Amount); ok && amount > balance {
		d.Amount = strconv.FormatInt(balance, 10)
	}
	if result := validation.ValidatePayment(d, balance); !result.Valid {
		return nil, 0, validationError(result)
	}
	paid, _ := parseDraftAmount(d.Amount)
	updated, err := s.submitPayment(ctx, bill, d)
	if err != nil {
		return nil, 0, err
	}
	return updated, paid, nil
}

func (s *BillingService) submitPayment(ctx context.Context, bill models.Bill, d validation.PaymentDraft) (*models.Bill, error) {
	amount, _ := parseDraftAmount(d.Amount)
	req := models.PaymentRequest{
		Amount:        amount,
		PaymentMethod: models.PaymentMethod(d.PaymentMethod),
		Reference:     d.Reference,
		Notes:         d.Notes,
	}
	if req.Reference == "" {
		req.Reference = uuid.NewString()
	}

	updated, err := s.backend.RecordBillPayment(ctx, bill.ID, req)
	if err != nil {
		return nil, err
	}

	// the student's cached billing is stale now
	s.bills.Invalidate(bill.StudentID)
	s.mu.Lock()
	delete(s.classDetails, s.classID)
	s.mu.Unlock()

	s.logger.Info("payment recorded",
		zap.String("bill_id", bill.ID),
		zap.String("student_id", bill.StudentID),
		zap.Int64("amount", req.Amount),
		zap.String("reference", req.Reference),
	)
	return updated, nil
}

// RecordItemPayment is the strict path against one bill line: a draft
// amount above the item's outstanding balance is rejected with an error
// naming the ceiling, before any network call.
func (s *BillingService) RecordItemPayment(ctx context.Context, item models.BillItem, d validation.PaymentDraft) (*models.BillItem, error) {
	balance := item.Outstanding()
	if result := validation.ValidatePayment(d, balance); !result.Valid {
		return nil, validationError(result)
	}
	return s.submitItemPayment(ctx, item, d)
}

// PayItemFromModal is the modal path against one bill line: an over-limit
// amount is clamped down to the item's outstanding balance. Returns the
// amount actually submitted.
func (s *BillingService) PayItemFromModal(ctx context.Context, item models.BillItem, d validation.PaymentDraft) (*models.BillItem, int64, error) {
	balance := item.Outstanding()
	if amount, ok := parseDraftAmount(d.Amount); ok && amount > balance {
		d.Amount = strconv.FormatInt(balance, 10)
	}
	if result := validation.ValidatePayment(d, balance); !result.Valid {
		return nil, 0, validationError(result)
	}
	paid, _ := parseDraftAmount(d.Amount)
	updated, err := s.submitItemPayment(ctx, item, d)
	if err != nil {
		return nil, 0, err
	}
	return updated, paid, nil
}

func (s *BillingService) submitItemPayment(ctx context.Context, item models.BillItem, d validation.PaymentDraft) (*models.BillItem, error) {
	amount, _ := parseDraftAmount(d.Amount)
	req := models.PaymentRequest{
		Amount:        amount,
		PaymentMethod: models.PaymentMethod(d.PaymentMethod),
		Reference:     d.Reference,
		Notes:         d.Notes,
	}
	if req.Reference == "" {
		req.Reference = uuid.NewString()
	}

	updated, err := s.backend.RecordItemPayment(ctx, item.ID, req)
	if err != nil {
		return nil, err
	}

	// the parent bill and the student's cached billing are stale now
	if bill, ok := s.FindBill(item.BillID); ok {
		s.bills.Invalidate(bill.StudentID)
	}
	s.mu.Lock()
	for id, cached := range s.items {
		if cached.BillID == item.BillID {
			delete(s.items, id)
		}
	}
	delete(s.classDetails, s.classID)
	s.mu.Unlock()

	s.logger.Info("item payment recorded",
		zap.String("item_id", item.ID),
		zap.String("bill_id", item.BillID),
		zap.Int64("amount", req.Amount),
		zap.String("reference", req.Reference),
	)
	return updated, nil
}

// Overview returns school-wide collection aggregates.
func (s *BillingService) Overview(ctx context.Context) (*models.PaymentOverview, error) {
	return s.backend.PaymentOverview(ctx)
}

// ClassDetails returns one class's payment summary, cached per view.
func (s *BillingService) ClassDetails(ctx context.Context, classID string) (*models.ClassPaymentDetails, error) {
	s.mu.Lock()
	if cached, ok := s.classDetails[classID]; ok {
		s.mu.Unlock()
		out := *cached
		return &out, nil
	}
	s.mu.Unlock()

	details, err := s.backend.ClassPaymentDetails(ctx, classID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.classDetails[classID] = details
	s.mu.Unlock()
	return details, nil
}

// Reset discards every cache this view holds.
func (s *BillingService) Reset() {
	s.bills.Reset()
	s.mu.Lock()
	s.classDetails = map[string]*models.ClassPaymentDetails{}
	s.items = map[string]models.BillItem{}
	s.rows = nil
	s.classID = ""
	s.mu.Unlock()
}

func parseDraftAmount(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
