package model

import "time"

type Testimonial struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Author      string    `gorm:"type:varchar(500);not null" json:"author"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	Photo       string    `gorm:"type:varchar(500)" json:"photo"`
	PublishedAt time.Time `gorm:"not null;autoCreateTime" json:"published_at"`
}
