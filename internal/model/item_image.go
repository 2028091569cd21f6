package model

import "time"

// ItemImage is a picture attached to an item. At most one image per item is
// primary; the service keeps that true, the schema does not.
type ItemImage struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	ItemID     uint64    `gorm:"column:item_id;not null;index:idx_item_images_item_id"`
	Item       *Item     `gorm:"constraint:OnDelete:CASCADE"`
	ImageURL   string    `gorm:"column:image_url;size:512;not null"`
	IsPrimary  bool      `gorm:"column:is_primary;not null"`
	UploadedAt time.Time `gorm:"column:uploaded_at;autoCreateTime"`
}

func (ItemImage) TableName() string {
	return "item_images"
}
