package repository

import (
	"context"

	"app/internal/domain/model"
)

// 注文一覧の絞り込み条件（ユーザー・管理者共通）
type OrderListFilter struct {
	Page    int
	PerPage int
	Status  string
	//solicitant_nameの部分一致（管理者画面の検索）
	Q string
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)

	//IN_CARTの取得。見つからなければErrNotFound
	FindInCartByUserID(ctx context.Context, userID int64) (model.Order, error)
	FindInCartByAnonToken(ctx context.Context, token string) (model.Order, error)

	//IN_CARTの取得、無ければ作成（部分uniqueインデックス前提の競合リトライ付き）
	GetOrCreateInCartByUserID(ctx context.Context, userID int64) (model.Order, error)
	GetOrCreateInCartByAnonToken(ctx context.Context, token string) (model.Order, error)

	Save(ctx context.Context, order model.Order) error
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error
	Delete(ctx context.Context, orderID int64) error

	//注文番号の採番用
	ExistsByOrderNumber(ctx context.Context, number string) (bool, error)

	//IN_CARTは除外して新しい順
	ListByUserID(ctx context.Context, userID int64, f OrderListFilter) ([]model.Order, int64, error)
	ListAdmin(ctx context.Context, f OrderListFilter) ([]model.Order, int64, error)
}
