package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindInCartByUserID(ctx context.Context, userID int64) (model.Order, error) {
	args := m.Called(ctx, userID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindInCartByAnonToken(ctx context.Context, token string) (model.Order, error) {
	args := m.Called(ctx, token)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) GetOrCreateInCartByUserID(ctx context.Context, userID int64) (model.Order, error) {
	args := m.Called(ctx, userID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) GetOrCreateInCartByAnonToken(ctx context.Context, token string) (model.Order, error) {
	args := m.Called(ctx, token)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) Save(ctx context.Context, order model.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *OrderRepoMock) Delete(ctx context.Context, orderID int64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *OrderRepoMock) ExistsByOrderNumber(ctx context.Context, number string) (bool, error) {
	args := m.Called(ctx, number)
	return args.Bool(0), args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64, f repo.OrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) ListAdmin(ctx context.Context, f repo.OrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

type OrderLineRepoMock struct{ mock.Mock }

func (m *OrderLineRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderLine, error) {
	args := m.Called(ctx, orderID)
	lines, _ := args.Get(0).([]model.OrderLine)
	return lines, args.Error(1)
}

func (m *OrderLineRepoMock) FindByID(ctx context.Context, lineID int64) (model.OrderLine, error) {
	args := m.Called(ctx, lineID)
	line, _ := args.Get(0).(model.OrderLine)
	return line, args.Error(1)
}

func (m *OrderLineRepoMock) FindByOrderAndProduct(ctx context.Context, orderID int64, productID int64) (model.OrderLine, error) {
	args := m.Called(ctx, orderID, productID)
	line, _ := args.Get(0).(model.OrderLine)
	return line, args.Error(1)
}

func (m *OrderLineRepoMock) Create(ctx context.Context, line model.OrderLine) (model.OrderLine, error) {
	args := m.Called(ctx, line)
	created, _ := args.Get(0).(model.OrderLine)
	return created, args.Error(1)
}

func (m *OrderLineRepoMock) Save(ctx context.Context, line model.OrderLine) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}

func (m *OrderLineRepoMock) UpdateQuantity(ctx context.Context, lineID int64, qty int64) error {
	args := m.Called(ctx, lineID, qty)
	return args.Error(0)
}

func (m *OrderLineRepoMock) DeleteByID(ctx context.Context, lineID int64) error {
	args := m.Called(ctx, lineID)
	return args.Error(0)
}

func (m *OrderLineRepoMock) DeleteByIDs(ctx context.Context, lineIDs []int64) error {
	args := m.Called(ctx, lineIDs)
	return args.Error(0)
}

func (m *OrderLineRepoMock) DeleteCartLinesByProduct(ctx context.Context, productID int64) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

func (m *OrderLineRepoMock) ListHistoricalByProduct(ctx context.Context, productID int64) ([]model.OrderLine, error) {
	args := m.Called(ctx, productID)
	lines, _ := args.Get(0).([]model.OrderLine)
	return lines, args.Error(1)
}

func (m *OrderLineRepoMock) DetachProduct(ctx context.Context, productID int64) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

func (m *OrderLineRepoMock) SumQuantityByOrderID(ctx context.Context, orderID int64) (int64, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(int64), args.Error(1)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProductRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type InventoryRepoMock struct{ mock.Mock }

func (m *InventoryRepoMock) SetStock(ctx context.Context, productID int64, newStock int64) error {
	args := m.Called(ctx, productID, newStock)
	return args.Error(0)
}

func (m *InventoryRepoMock) DecreaseStockFloored(ctx context.Context, productID int64, qty int64) error {
	args := m.Called(ctx, productID, qty)
	return args.Error(0)
}

func (m *InventoryRepoMock) CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error {
	args := m.Called(ctx, adjustment)
	return args.Error(0)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

type AppointmentRepoMock struct{ mock.Mock }

func (m *AppointmentRepoMock) List(ctx context.Context) ([]model.Appointment, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]model.Appointment)
	return list, args.Error(1)
}

func (m *AppointmentRepoMock) FindByID(ctx context.Context, id int64) (model.Appointment, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(model.Appointment)
	return a, args.Error(1)
}

func (m *AppointmentRepoMock) Create(ctx context.Context, a model.Appointment) (model.Appointment, error) {
	args := m.Called(ctx, a)
	created, _ := args.Get(0).(model.Appointment)
	return created, args.Error(1)
}

func (m *AppointmentRepoMock) Save(ctx context.Context, a model.Appointment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *AppointmentRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type UserProfileRepoMock struct{ mock.Mock }

func (m *UserProfileRepoMock) GetOrCreateByUserID(ctx context.Context, userID int64) (model.UserProfile, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).(model.UserProfile)
	return p, args.Error(1)
}

func (m *UserProfileRepoMock) Save(ctx context.Context, p model.UserProfile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

type TestimonialRepoMock struct{ mock.Mock }

func (m *TestimonialRepoMock) List(ctx context.Context) ([]model.Testimonial, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]model.Testimonial)
	return list, args.Error(1)
}

func (m *TestimonialRepoMock) Create(ctx context.Context, t model.Testimonial) (model.Testimonial, error) {
	args := m.Called(ctx, t)
	created, _ := args.Get(0).(model.Testimonial)
	return created, args.Error(1)
}

// =====================
// Tx fake
// =====================

// WithinTxをそのまま実行するだけの偽物。commit/rollbackは無い
type fakeTxRepos struct {
	orders   *OrderRepoMock
	lines    *OrderLineRepoMock
	products *ProductRepoMock
	stock    *InventoryRepoMock
	audits   *AuditRepoMock
}

func newFakeTxRepos() *fakeTxRepos {
	return &fakeTxRepos{
		orders:   new(OrderRepoMock),
		lines:    new(OrderLineRepoMock),
		products: new(ProductRepoMock),
		stock:    new(InventoryRepoMock),
		audits:   new(AuditRepoMock),
	}
}

func (f *fakeTxRepos) Orders() repo.OrderRepository        { return f.orders }
func (f *fakeTxRepos) OrderLines() repo.OrderLineRepository { return f.lines }
func (f *fakeTxRepos) Products() repo.ProductRepository    { return f.products }
func (f *fakeTxRepos) Inventory() repo.InventoryRepository { return f.stock }
func (f *fakeTxRepos) AuditLogs() repo.AuditLogRepository  { return f.audits }

func (f *fakeTxRepos) assertExpectations(t *testing.T) {
	f.orders.AssertExpectations(t)
	f.lines.AssertExpectations(t)
	f.products.AssertExpectations(t)
	f.stock.AssertExpectations(t)
	f.audits.AssertExpectations(t)
}

type fakeTxManager struct {
	r *fakeTxRepos
}

func (m *fakeTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(m.r)
}

// =====================
// helpers
// =====================

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time {
	return c.t
}

func assertErrContains(t *testing.T, err error, want string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error containing %q, got nil", want)
	}
	if !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error containing %q, got %q", want, err.Error())
	}
}
