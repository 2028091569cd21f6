package model

import "time"

type Item struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	Name        string    `gorm:"size:100;not null"`
	Description string    `gorm:"type:text;not null"`
	CategoryID  *uint64   `gorm:"column:category_id;index:idx_items_category"`
	Category    *Category `gorm:"constraint:OnDelete:SET NULL"`
	Address     string    `gorm:"type:text;not null"`
	WebsiteURL  string    `gorm:"column:website_url;size:255;not null"`
	PhoneNumber string    `gorm:"column:phone_number;size:20;not null"`
	CreatedBy   *uint64   `gorm:"column:created_by;index:idx_items_created_by"`
	Creator     *User     `gorm:"foreignKey:CreatedBy;constraint:OnDelete:SET NULL"`
	IsApproved  bool      `gorm:"column:is_approved;not null;index:idx_items_approved"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index:idx_items_created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Item) TableName() string {
	return "items"
}
