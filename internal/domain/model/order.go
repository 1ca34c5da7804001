package model

import "time"

type OrderStatus string

const (
	//カート状態。確定前の唯一の可変状態
	OrderStatusInCart           OrderStatus = "IN_CART"
	OrderStatusSolicited        OrderStatus = "SOLICITED"
	OrderStatusOrdered          OrderStatus = "ORDERED"
	OrderStatusReceivedBySeller OrderStatus = "RECEIVED_BY_SELLER"
	OrderStatusPickedUpByClient OrderStatus = "PICKED_UP_BY_CLIENT"
)

// ステータス遷移の許可リスト
var OrderStatuses = []OrderStatus{
	OrderStatusInCart,
	OrderStatusSolicited,
	OrderStatusOrdered,
	OrderStatusReceivedBySeller,
	OrderStatusPickedUpByClient,
}

func IsValidOrderStatus(s OrderStatus) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// カート兼注文。IN_CARTの間だけ明細を編集できる。
// IN_CARTは登録ユーザーごと・匿名トークンごとに1つ（部分uniqueインデックスで保証）。
type Order struct {
	ID     int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	Status OrderStatus `gorm:"type:varchar(20);not null;index;uniqueIndex:uq_orders_user_cart,where:status = 'IN_CART';uniqueIndex:uq_orders_anon_cart,where:status = 'IN_CART'" json:"status"`

	SolicitantName    string `gorm:"type:varchar(255);not null;default:''" json:"solicitant_name"`
	SolicitantContact string `gorm:"type:varchar(255);not null;default:''" json:"solicitant_contact"`
	SolicitantAddress string `gorm:"type:varchar(255);not null;default:''" json:"solicitant_address"`

	//確定時に採番する人間可読ID（ORD-XXXXXXXXXXXX）
	OrderNumber *string `gorm:"type:varchar(100);uniqueIndex" json:"order_number"`

	//未ログイン購入者を識別するcookieトークン
	AnonymousToken *string `gorm:"type:varchar(255);index;uniqueIndex:uq_orders_anon_cart,where:status = 'IN_CART'" json:"-"`

	RegisteredUserID *int64 `gorm:"index;uniqueIndex:uq_orders_user_cart,where:status = 'IN_CART'" json:"registered_user_id"`

	IsPaid    bool      `gorm:"not null;default:false" json:"is_paid"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
