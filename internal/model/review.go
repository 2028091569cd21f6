package model

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	UserID     uint64    `gorm:"column:user_id;not null;uniqueIndex:uk_reviews_user_item,priority:1;index:idx_reviews_user"`
	ItemID     uint64    `gorm:"column:item_id;not null;uniqueIndex:uk_reviews_user_item,priority:2;index:idx_reviews_item"`
	User       *User     `gorm:"constraint:OnDelete:CASCADE"`
	Item       *Item     `gorm:"constraint:OnDelete:CASCADE"`
	Rating     int       `gorm:"type:smallint;not null;check:chk_reviews_rating,rating BETWEEN 1 AND 5"`
	Title      string    `gorm:"size:200;not null"`
	Content    string    `gorm:"type:text;not null"`
	IsApproved bool      `gorm:"column:is_approved;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (Review) TableName() string {
	return "reviews"
}
