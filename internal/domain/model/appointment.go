package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 施術メニュー。割引は必ず価格より小さい（保存時に検証）。
type Appointment struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Price       decimal.Decimal `gorm:"type:numeric(8,2);not null" json:"price"`
	Duration    int64           `gorm:"not null" json:"duration"`
	Description string          `gorm:"type:text" json:"description"`
	Premium     bool            `gorm:"not null;default:false" json:"premium"`

	Discount decimal.Decimal `gorm:"type:numeric(8,2);not null;default:0" json:"discount"`

	//割引の終了日。未設定なら割引は表示されない
	DiscountEndsAt *time.Time `gorm:"column:discount_ends_at" json:"discount_ends_at"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 割引で浮く金額
func (a Appointment) TotalMoneySave() decimal.Decimal {
	return a.Price.Sub(a.Discount)
}

// 終了日が設定されていて今日以降なら割引中
func (a Appointment) DiscountActive(today time.Time) bool {
	if a.DiscountEndsAt == nil {
		return false
	}
	y, m, d := today.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, today.Location())
	return !a.DiscountEndsAt.Before(dayStart)
}
