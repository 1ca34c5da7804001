package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文明細。商品が削除されてもスナップショットで表示できるようにする。
type OrderLine struct {
	ID      int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID int64 `gorm:"not null;index" json:"order_id"`

	//商品削除後はNULLになる（スナップショットだけ残る）
	ProductID *int64 `gorm:"index" json:"product_id"`

	Quantity int64 `gorm:"not null;default:1" json:"quantity"`

	//追加時点の単価
	PriceAtOrder decimal.Decimal `gorm:"type:numeric(8,2);not null" json:"price_at_order"`

	//商品名・画像のスナップショット
	ProductName  string `gorm:"type:varchar(200)" json:"product_name"`
	ProductImage string `gorm:"type:varchar(500)" json:"product_image"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
