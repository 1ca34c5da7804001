package repository

import (
	"context"

	"app/internal/domain/model"
)

type OrderLineRepository interface {
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderLine, error)
	FindByID(ctx context.Context, lineID int64) (model.OrderLine, error)
	FindByOrderAndProduct(ctx context.Context, orderID int64, productID int64) (model.OrderLine, error)

	Create(ctx context.Context, line model.OrderLine) (model.OrderLine, error)
	Save(ctx context.Context, line model.OrderLine) error
	UpdateQuantity(ctx context.Context, lineID int64, qty int64) error
	DeleteByID(ctx context.Context, lineID int64) error
	DeleteByIDs(ctx context.Context, lineIDs []int64) error

	//商品削除カスケード用：
	//IN_CARTの注文に属する該当商品の明細を全削除
	DeleteCartLinesByProduct(ctx context.Context, productID int64) error
	//IN_CART以外の注文に属する該当商品の明細
	ListHistoricalByProduct(ctx context.Context, productID int64) ([]model.OrderLine, error)
	//該当商品の明細のproduct_idをNULLにする
	DetachProduct(ctx context.Context, productID int64) error

	//注文ごとの合計数量（一覧表示用）
	SumQuantityByOrderID(ctx context.Context, orderID int64) (int64, error)
}
