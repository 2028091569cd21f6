package repository

import (
	"context"
	"errors"

	"github.com/shinyyama/placereview/internal/model"
	"gorm.io/gorm"
)

type ItemImageRepository interface {
	Create(ctx context.Context, img *model.ItemImage) error
	FindByID(ctx context.Context, id uint64) (*model.ItemImage, error)
	ListByItem(ctx context.Context, itemID uint64) ([]model.ItemImage, error)
	SetPrimary(ctx context.Context, itemID, imageID uint64) error
	Delete(ctx context.Context, id uint64) error
	ItemsWithoutPrimary(ctx context.Context) ([]model.Item, error)
}

type itemImageRepository struct {
	db *gorm.DB
}

func NewItemImageRepository(db *gorm.DB) ItemImageRepository {
	return &itemImageRepository{db: db}
}

// Create inserts the image; when it is flagged primary every other image of
// the item loses the flag in the same transaction.
func (r *itemImageRepository) Create(ctx context.Context, img *model.ItemImage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if img.IsPrimary {
			if err := clearPrimary(tx, img.ItemID); err != nil {
				return err
			}
		}
		return tx.Create(img).Error
	})
}

func (r *itemImageRepository) FindByID(ctx context.Context, id uint64) (*model.ItemImage, error) {
	var img model.ItemImage
	if err := r.db.WithContext(ctx).First(&img, id).Error; err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *itemImageRepository) ListByItem(ctx context.Context, itemID uint64) ([]model.ItemImage, error) {
	var list []model.ItemImage
	if err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("is_primary DESC").
		Order("id ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *itemImageRepository) SetPrimary(ctx context.Context, itemID, imageID uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := clearPrimary(tx, itemID); err != nil {
			return err
		}
		res := tx.Model(&model.ItemImage{}).
			Where("id = ? AND item_id = ?", imageID, itemID).
			Update("is_primary", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// Delete removes the image. Deleting the primary image promotes the item's
// oldest remaining image.
func (r *itemImageRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var img model.ItemImage
		if err := tx.First(&img, id).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.ItemImage{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if !img.IsPrimary {
			return nil
		}
		var next model.ItemImage
		err := tx.Where("item_id = ?", img.ItemID).Order("id ASC").First(&next).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return tx.Model(&next).Update("is_primary", true).Error
	})
}

func (r *itemImageRepository) ItemsWithoutPrimary(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	if err := r.db.WithContext(ctx).
		Where("NOT EXISTS (SELECT 1 FROM item_images WHERE item_images.item_id = items.id AND item_images.is_primary = ?)", true).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func clearPrimary(tx *gorm.DB, itemID uint64) error {
	return tx.Model(&model.ItemImage{}).
		Where("item_id = ? AND is_primary = ?", itemID, true).
		Update("is_primary", false).Error
}
