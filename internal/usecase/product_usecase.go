package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// フォームのフィールド別エラー。項目名→メッセージで返す
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation error"
}

func NewValidationError(fields map[string]string) error {
	return &ValidationError{Fields: fields}
}

func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

type ProductUsecase struct {
	productRepo repo.ProductRepository
	tx          repo.TransactionManager
}

// DI
func NewProductUsecase(productRepo repo.ProductRepository, tx repo.TransactionManager) *ProductUsecase {
	return &ProductUsecase{
		productRepo: productRepo,
		tx:          tx,
	}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Page  int
	Limit int
	Q     string
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// 商品作成・更新の入力DTO
type ProductInput struct {
	Name   string
	Ref    *string
	Price  decimal.Decimal
	Flavor *string
	Size   *string
	Image  string
	Stock  int64
}

func (u *ProductUsecase) ListProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if in.Page < 1 {
		in.Page = 1
	}
	// カタログは1ページ21件（3列グリッド）
	if in.Limit < 1 || in.Limit > 100 {
		in.Limit = 21
	}
	if len(in.Q) > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "q too long")
	}

	items, total, err := u.productRepo.List(ctx, repo.ProductListQuery{
		Page:  in.Page,
		Limit: in.Limit,
		Q:     strings.TrimSpace(in.Q),
	})
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ProductListOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

func (u *ProductUsecase) GetProductDetail(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return p, nil
}

func (u *ProductUsecase) CreateProduct(ctx context.Context, in ProductInput) (model.Product, error) {
	if err := validateProductInput(in); err != nil {
		return model.Product{}, err
	}

	created, err := u.productRepo.Create(ctx, model.Product{
		Name:   strings.TrimSpace(in.Name),
		Ref:    in.Ref,
		Price:  in.Price,
		Flavor: in.Flavor,
		Size:   in.Size,
		Image:  in.Image,
		Stock:  in.Stock,
	})
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return created, nil
}

func (u *ProductUsecase) UpdateProduct(ctx context.Context, productID int64, in ProductInput) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if err := validateProductInput(in); err != nil {
		return model.Product{}, err
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	p.Name = strings.TrimSpace(in.Name)
	p.Ref = in.Ref
	p.Price = in.Price
	p.Flavor = in.Flavor
	p.Size = in.Size
	p.Image = in.Image
	p.Stock = in.Stock

	if err := u.productRepo.Update(ctx, p); err != nil {
		if err == repo.ErrNotFound {
			return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return p, nil
}

// 商品削除。注文履歴を壊さないよう、削除前に明細を退避する。
//  1. IN_CARTの明細は削除（放置カートの掃除）
//  2. 履歴明細は名前・画像・価格のスナップショットを埋めてから
//     product_idを外す
//  3. 商品本体を削除
func (u *ProductUsecase) DeleteProduct(ctx context.Context, adminUserID int64, productID int64) error {
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().FindByID(ctx, productID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := snapshotAndDetach(ctx, r, p); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Products().Delete(ctx, p.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		before, _ := json.Marshal(p)
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  adminUserID,
			Action:       model.AuditActionDeleteProduct,
			ResourceType: model.AuditResourceProduct,
			ResourceID:   p.ID,
			BeforeJSON:   string(before),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		return nil
	})

	return err
}

// 履歴明細にスナップショットを埋めてから商品との紐付きを外す
func snapshotAndDetach(ctx context.Context, r repo.TxRepos, p model.Product) error {
	if err := r.OrderLines().DeleteCartLinesByProduct(ctx, p.ID); err != nil {
		return err
	}

	lines, err := r.OrderLines().ListHistoricalByProduct(ctx, p.ID)
	if err != nil {
		return err
	}

	for _, line := range lines {
		changed := false
		if line.ProductName == "" {
			line.ProductName = p.Name
			changed = true
		}
		if line.ProductImage == "" && p.Image != "" {
			line.ProductImage = p.Image
			changed = true
		}
		if line.PriceAtOrder.IsZero() {
			line.PriceAtOrder = p.Price
			changed = true
		}
		if changed {
			if err := r.OrderLines().Save(ctx, line); err != nil {
				return err
			}
		}
	}

	return r.OrderLines().DetachProduct(ctx, p.ID)
}

// 管理者の在庫設定。調整履歴と監査ログを同一トランザクションで残す
func (u *ProductUsecase) SetStock(ctx context.Context, adminUserID int64, productID int64, newStock int64, reason string) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if newStock < 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}

	var out model.Product

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().FindByID(ctx, productID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Inventory().SetStock(ctx, productID, newStock); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{
			ProductID:   productID,
			AdminUserID: adminUserID,
			Delta:       newStock - p.Stock,
			Reason:      reason,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		before, _ := json.Marshal(map[string]int64{"stock": p.Stock})
		after, _ := json.Marshal(map[string]int64{"stock": newStock})
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  adminUserID,
			Action:       model.AuditActionUpdateStock,
			ResourceType: model.AuditResourceProduct,
			ResourceID:   productID,
			BeforeJSON:   string(before),
			AfterJSON:    string(after),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		p.Stock = newStock
		out = p
		return nil
	})

	if err != nil {
		return model.Product{}, err
	}
	return out, nil
}

func validateProductInput(in ProductInput) error {
	fields := map[string]string{}

	if strings.TrimSpace(in.Name) == "" {
		fields["name"] = "name is required"
	}
	if in.Price.IsNegative() {
		fields["price"] = "price must be >= 0"
	}
	if in.Stock < 0 {
		fields["stock"] = "stock must be >= 0"
	}

	if len(fields) > 0 {
		return NewValidationError(fields)
	}
	return nil
}
