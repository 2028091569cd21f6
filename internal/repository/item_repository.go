package repository

import (
	"context"
	"strings"

	"github.com/shinyyama/placereview/internal/model"
	"gorm.io/gorm"
)

type ItemRepository interface {
	Create(ctx context.Context, item *model.Item, primaryImageURL *string) error
	FindByID(ctx context.Context, id uint64) (*model.Item, error)
	Update(ctx context.Context, item *model.Item) error
	Delete(ctx context.Context, id uint64) error
	SetApproval(ctx context.Context, id uint64, approved bool) error
	ListApproved(ctx context.Context, search string) ([]model.ItemSummary, error)
	ListPending(ctx context.Context) ([]model.ItemSummary, error)
	Summary(ctx context.Context, id uint64) (*model.ItemSummary, error)
	OwnerOf(ctx context.Context, id uint64) (*uint64, error)
}

type itemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

// Aggregates only count approved reviews and are recomputed on every read.
const itemSummaryColumns = `items.id, items.name, items.description, items.category_id,
	items.address, items.website_url, items.phone_number, items.created_by,
	items.is_approved, items.created_at, items.updated_at,
	users.username AS created_by_username,
	(SELECT item_images.image_url FROM item_images
		WHERE item_images.item_id = items.id AND item_images.is_primary = ?
		ORDER BY item_images.id LIMIT 1) AS image_url,
	(SELECT COALESCE(AVG(reviews.rating), 0) FROM reviews
		WHERE reviews.item_id = items.id AND reviews.is_approved = ?) AS average_rating,
	(SELECT COUNT(*) FROM reviews
		WHERE reviews.item_id = items.id AND reviews.is_approved = ?) AS review_count`

func (r *itemRepository) summaries(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("items").
		Select(itemSummaryColumns, true, true, true).
		Joins("LEFT JOIN users ON users.id = items.created_by")
}

func (r *itemRepository) Create(ctx context.Context, item *model.Item, primaryImageURL *string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			return err
		}
		if primaryImageURL == nil {
			return nil
		}
		return tx.Create(&model.ItemImage{
			ItemID:    item.ID,
			ImageURL:  *primaryImageURL,
			IsPrimary: true,
		}).Error
	})
}

func (r *itemRepository) FindByID(ctx context.Context, id uint64) (*model.Item, error) {
	var item model.Item
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) Update(ctx context.Context, item *model.Item) error {
	return r.db.WithContext(ctx).
		Model(item).
		Select("name", "description", "category_id", "address", "website_url", "phone_number", "updated_at").
		Updates(item).Error
}

func (r *itemRepository) Delete(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).Delete(&model.Item{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *itemRepository) SetApproval(ctx context.Context, id uint64, approved bool) error {
	return r.db.WithContext(ctx).
		Model(&model.Item{}).
		Where("id = ?", id).
		Update("is_approved", approved).Error
}

// '!' rather than backslash: MySQL string literals treat backslash as an escape.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func (r *itemRepository) ListApproved(ctx context.Context, search string) ([]model.ItemSummary, error) {
	q := r.summaries(ctx).Where("items.is_approved = ?", true)
	if search = strings.TrimSpace(search); search != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
		q = q.Where("(LOWER(items.name) LIKE ? ESCAPE '!' OR LOWER(items.description) LIKE ? ESCAPE '!')", pattern, pattern)
	}
	var list []model.ItemSummary
	if err := q.Order("items.created_at DESC").Order("items.id DESC").Scan(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *itemRepository) ListPending(ctx context.Context) ([]model.ItemSummary, error) {
	var list []model.ItemSummary
	if err := r.summaries(ctx).
		Where("items.is_approved = ?", false).
		Order("items.created_at ASC").
		Scan(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *itemRepository) Summary(ctx context.Context, id uint64) (*model.ItemSummary, error) {
	var list []model.ItemSummary
	if err := r.summaries(ctx).
		Where("items.id = ?", id).
		Limit(1).
		Scan(&list).Error; err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &list[0], nil
}

func (r *itemRepository) OwnerOf(ctx context.Context, id uint64) (*uint64, error) {
	return ownerOf(ctx, r.db, "items", "created_by", id)
}
