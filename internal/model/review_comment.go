package model

import "time"

type ReviewComment struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	UserID    uint64    `gorm:"column:user_id;not null;index:idx_review_comments_user"`
	ReviewID  uint64    `gorm:"column:review_id;not null;index:idx_review_comments_review"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE"`
	Review    *Review   `gorm:"constraint:OnDelete:CASCADE"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (ReviewComment) TableName() string {
	return "review_comments"
}
