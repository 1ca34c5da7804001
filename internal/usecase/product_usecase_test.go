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

func newProductUsecase(r *fakeTxRepos) *usecase.ProductUsecase {
	return usecase.NewProductUsecase(r.products, &fakeTxManager{r: r})
}

func TestProductUsecase_ListProducts_DefaultLimit(t *testing.T) {
	r := newFakeTxRepos()
	uc := newProductUsecase(r)

	q := repo.ProductListQuery{Page: 1, Limit: 21, Q: ""}
	r.products.On("List", mock.Anything, q).Return([]model.Product{{ID: 1}}, int64(1), nil)

	out, err := uc.ListProducts(context.Background(), usecase.ListProductsInput{})
	assert.NoError(t, err)
	assert.Equal(t, 21, out.Limit)
	assert.Equal(t, 1, out.Page)
	assert.Equal(t, int64(1), out.Total)

	r.products.AssertExpectations(t)
}

func TestProductUsecase_GetProductDetail_NotFound(t *testing.T) {
	r := newFakeTxRepos()
	uc := newProductUsecase(r)

	r.products.On("FindByID", mock.Anything, int64(99)).Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.GetProductDetail(context.Background(), 99)
	assertErrContains(t, err, "not found")
}

func TestProductUsecase_CreateProduct_Validation(t *testing.T) {
	r := newFakeTxRepos()
	uc := newProductUsecase(r)

	_, err := uc.CreateProduct(context.Background(), usecase.ProductInput{Name: "  ", Price: price("1.00")})

	ve, ok := usecase.AsValidationError(err)
	assert.True(t, ok)
	assert.Contains(t, ve.Fields, "name")

	r.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProductUsecase_CreateProduct_Success(t *testing.T) {
	r := newFakeTxRepos()
	uc := newProductUsecase(r)

	r.products.On("Create", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.Name == "Product A" && p.Price.Equal(price("19.99")) && p.Stock == 10
	})).Return(model.Product{ID: 1, Name: "Product A"}, nil)

	created, err := uc.CreateProduct(context.Background(), usecase.ProductInput{
		Name:  " Product A ",
		Price: price("19.99"),
		Stock: 10,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	r.products.AssertExpectations(t)
}

// 削除カスケード：IN_CART明細の削除 → スナップショット → detach → 本体削除 → 監査ログ
func TestProductUsecase_DeleteProduct_Cascade(t *testing.T) {
	r := newFakeTxRepos()
	uc := newProductUsecase(r)

	pid := int64(1)
	p := model.Product{ID: pid, Name: "Product A", Price: price("19.99"), Image: "products/a.jpg", Stock: 5}

	r.products.On("FindByID", mock.Anything, pid).Return(p, nil)
	r.lines.On("DeleteCartLinesByProduct", mock.Anything, pid).Return(nil)

	// 片方はスナップショット未設定、もう片方は設定済み
	r.lines.On("ListHistoricalByProduct", mock.Anything, pid).Return([]model.OrderLine{
		{ID: 100, ProductID: &pid, Quantity: 1},
		{ID: 101, ProductID: &pid, Quantity: 2, ProductName: "Product A", ProductImage: "products/a.jpg", PriceAtOrder: price("19.99")},
	}, nil)

	// 未設定の明細だけ埋めて保存される
	r.lines.On("Save", mock.Anything, mock.MatchedBy(func(line model.OrderLine) bool {
		return line.ID == 100 && line.ProductName == "Product A" &&
			line.ProductImage == "products/a.jpg" && line.PriceAtOrder.Equal(price("19.99"))
	})).Return(nil)

	r.lines.On("DetachProduct", mock.Anything, pid).Return(nil)
	r.products.On("Delete", mock.Anything, pid).Return(nil)

	r.audits.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.ActorUserID == 9 &&
			l.Action == model.AuditActionDeleteProduct &&
			l.ResourceType == model.AuditResourceProduct &&
			l.ResourceID == pid
	})).Return(nil)

	err := uc.DeleteProduct(context.Background(), 9, pid)
	assert.NoError(t, err)

	r.assertExpectations(t)
}

func TestProductUsecase_DeleteProduct_NotFound(t *testing.T) {
	r := newFakeTxRepos()
	uc := newProductUsecase(r)

	r.products.On("FindByID", mock.Anything, int64(99)).Return(model.Product{}, repo.ErrNotFound)

	err := uc.DeleteProduct(context.Background(), 9, 99)
	assertErrContains(t, err, "not found")

	r.products.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestProductUsecase_SetStock_NegativeRejected(t *testing.T) {
	r := newFakeTxRepos()
	uc := newProductUsecase(r)

	_, err := uc.SetStock(context.Background(), 9, 1, -1, "oops")
	assertErrContains(t, err, "stock must be >= 0")
}

// 在庫設定 + 調整履歴 + 監査ログが同時に残る
func TestProductUsecase_SetStock_Success(t *testing.T) {
	r := newFakeTxRepos()
	uc := newProductUsecase(r)

	pid := int64(10)
	r.products.On("FindByID", mock.Anything, pid).Return(model.Product{ID: pid, Stock: 5}, nil)
	r.stock.On("SetStock", mock.Anything, pid, int64(12)).Return(nil)

	r.stock.On("CreateAdjustment", mock.Anything, mock.MatchedBy(func(adj model.InventoryAdjustment) bool {
		return adj.ProductID == pid && adj.AdminUserID == 9 && adj.Delta == 7 && adj.Reason == "restock"
	})).Return(nil)

	r.audits.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionUpdateStock &&
			l.BeforeJSON == `{"stock":5}` &&
			l.AfterJSON == `{"stock":12}`
	})).Return(nil)

	out, err := uc.SetStock(context.Background(), 9, pid, 12, "restock")
	assert.NoError(t, err)
	assert.Equal(t, int64(12), out.Stock)

	r.assertExpectations(t)
}
