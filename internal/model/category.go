package model

import "time"

type Category struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	Name        string    `gorm:"size:50;not null;uniqueIndex:uk_categories_name"`
	Description string    `gorm:"type:text;not null"`
	IconURL     *string   `gorm:"column:icon_url;size:255"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Category) TableName() string {
	return "categories"
}
