package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(200);not null" json:"name"`

	//参照番号（SKU）。無い商品もある
	Ref *string `gorm:"type:varchar(100)" json:"ref"`

	Price decimal.Decimal `gorm:"type:numeric(8,2);not null" json:"price"`

	Flavor *string `gorm:"type:varchar(100)" json:"flavor"`
	Size   *string `gorm:"type:varchar(100)" json:"size"`

	//画像のパス（products/xxx.jpg）
	Image string `gorm:"type:varchar(500)" json:"image"`

	Stock     int64     `gorm:"not null;default:10" json:"stock"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
