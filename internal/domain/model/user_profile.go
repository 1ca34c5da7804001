package model

import "time"

// ユーザー1人につき1件
type UserProfile struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64 `gorm:"not null;uniqueIndex" json:"user_id"`

	Phone string `gorm:"type:varchar(20)" json:"phone"`

	//プロフィール写真のパス（user_photos/xxx.jpg）
	Photo string `gorm:"type:varchar(500)" json:"photo"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
