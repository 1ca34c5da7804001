package usecase_test

import (
	"context"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newOrderUsecase(r *fakeTxRepos) *usecase.OrderUsecase {
	return usecase.NewOrderUsecase(&fakeTxManager{r: r})
}

// 選択肢にないper_pageは10に丸める
func TestOrderUsecase_ListMyOrders_PerPageCoerced(t *testing.T) {
	r := newFakeTxRepos()
	uc := newOrderUsecase(r)

	f := repo.OrderListFilter{Page: 1, PerPage: 10}
	r.orders.On("ListByUserID", mock.Anything, int64(7), f).Return([]model.Order{}, int64(0), nil)

	out, err := uc.ListMyOrders(context.Background(), 7, usecase.ListOrdersInput{PerPage: 17})
	assert.NoError(t, err)
	assert.Equal(t, 10, out.PerPage)

	r.orders.AssertExpectations(t)
}

func TestOrderUsecase_ListMyOrders_AllowedPerPage(t *testing.T) {
	r := newFakeTxRepos()
	uc := newOrderUsecase(r)

	f := repo.OrderListFilter{Page: 2, PerPage: 25}
	r.orders.On("ListByUserID", mock.Anything, int64(7), f).Return([]model.Order{}, int64(0), nil)

	out, err := uc.ListMyOrders(context.Background(), 7, usecase.ListOrdersInput{Page: 2, PerPage: 25})
	assert.NoError(t, err)
	assert.Equal(t, 25, out.PerPage)
}

func TestOrderUsecase_ListMyOrders_InvalidStatus(t *testing.T) {
	r := newFakeTxRepos()
	uc := newOrderUsecase(r)

	_, err := uc.ListMyOrders(context.Background(), 7, usecase.ListOrdersInput{Status: "SHIPPED"})
	assertErrContains(t, err, "invalid status")

	r.orders.AssertNotCalled(t, "ListByUserID", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderUsecase_ListMyOrders_SummariesWithTotals(t *testing.T) {
	r := newFakeTxRepos()
	uc := newOrderUsecase(r)

	num := "ORD-9F3C21A08B55"
	orders := []model.Order{
		{ID: 1, Status: model.OrderStatusSolicited, OrderNumber: &num, IsPaid: true, SolicitantName: "Client User"},
	}

	f := repo.OrderListFilter{Page: 1, PerPage: 10}
	r.orders.On("ListByUserID", mock.Anything, int64(7), f).Return(orders, int64(1), nil)
	r.lines.On("SumQuantityByOrderID", mock.Anything, int64(1)).Return(int64(3), nil)
	r.lines.On("ListByOrderID", mock.Anything, int64(1)).Return([]model.OrderLine{
		{ID: 100, Quantity: 2, PriceAtOrder: price("19.99")},
		{ID: 101, Quantity: 1, PriceAtOrder: price("29.99")},
	}, nil)

	out, err := uc.ListMyOrders(context.Background(), 7, usecase.ListOrdersInput{})
	assert.NoError(t, err)
	assert.Equal(t, 1, len(out.Items))
	assert.Equal(t, int64(3), out.Items[0].TotalQuantity)
	assert.True(t, out.Items[0].TotalPrice.Equal(price("69.97")))

	r.assertExpectations(t)
}

// 他人の注文は存在しない扱い
func TestOrderUsecase_GetOrderDetail_ForeignOrderHidden(t *testing.T) {
	r := newFakeTxRepos()
	uc := newOrderUsecase(r)

	other := int64(99)
	r.orders.On("FindByID", mock.Anything, int64(1)).Return(model.Order{ID: 1, RegisteredUserID: &other}, nil)

	_, err := uc.GetOrderDetail(context.Background(), 7, false, 1)
	assertErrContains(t, err, "not found")
}

func TestOrderUsecase_GetOrderDetail_AdminSeesAll(t *testing.T) {
	r := newFakeTxRepos()
	uc := newOrderUsecase(r)

	other := int64(99)
	r.orders.On("FindByID", mock.Anything, int64(1)).Return(model.Order{ID: 1, RegisteredUserID: &other}, nil)
	r.lines.On("ListByOrderID", mock.Anything, int64(1)).Return([]model.OrderLine{}, nil)

	out, err := uc.GetOrderDetail(context.Background(), 7, true, 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), out.ID)
}

func TestOrderUsecase_UpdateOrderStatus_InvalidStatus(t *testing.T) {
	r := newFakeTxRepos()
	uc := newOrderUsecase(r)

	_, err := uc.UpdateOrderStatus(context.Background(), 9, 1, "CANCELED")
	assertErrContains(t, err, "invalid status")

	r.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

// ステータス変更は監査ログとセット
func TestOrderUsecase_UpdateOrderStatus_Success(t *testing.T) {
	r := newFakeTxRepos()
	uc := newOrderUsecase(r)

	r.orders.On("FindByID", mock.Anything, int64(1)).Return(model.Order{ID: 1, Status: model.OrderStatusSolicited}, nil)
	r.orders.On("UpdateStatus", mock.Anything, int64(1), model.OrderStatusOrdered).Return(nil)

	r.audits.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.ActorUserID == 9 &&
			l.Action == model.AuditActionUpdateOrderStatus &&
			l.ResourceType == model.AuditResourceOrder &&
			l.ResourceID == 1 &&
			l.BeforeJSON == `{"status":"SOLICITED"}` &&
			l.AfterJSON == `{"status":"ORDERED"}`
	})).Return(nil)

	r.lines.On("ListByOrderID", mock.Anything, int64(1)).Return([]model.OrderLine{}, nil)

	out, err := uc.UpdateOrderStatus(context.Background(), 9, 1, "ORDERED")
	assert.NoError(t, err)
	assert.Equal(t, string(model.OrderStatusOrdered), out.Status)

	r.assertExpectations(t)
}

func TestOrderUsecase_DeleteOrder_NotFound(t *testing.T) {
	r := newFakeTxRepos()
	uc := newOrderUsecase(r)

	r.orders.On("Delete", mock.Anything, int64(99)).Return(repo.ErrNotFound)

	err := uc.DeleteOrder(context.Background(), 99)
	assertErrContains(t, err, "not found")
}
