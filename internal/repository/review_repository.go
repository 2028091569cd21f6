package repository

import (
	"context"
	"time"

	"github.com/shinyyama/placereview/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewRepository interface {
	Upsert(ctx context.Context, rv *model.Review) (created bool, err error)
	FindByID(ctx context.Context, id uint64) (*model.Review, error)
	ListByItem(ctx context.Context, itemID uint64, limit int) ([]model.ReviewWithAuthor, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.UserReview, error)
	Delete(ctx context.Context, id uint64) error
	OwnerOf(ctx context.Context, id uint64) (*uint64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Upsert inserts the review or, when (user_id, item_id) already has a row,
// overwrites its rating, title and content. The insert is guarded by the
// unique key so concurrent submissions never fail on a duplicate. rv is
// reloaded with the stored row.
func (r *reviewRepository) Upsert(ctx context.Context, rv *model.Review) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "item_id"}},
			DoNothing: true,
		}).Create(rv)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			created = true
			return nil
		}
		if err := tx.Model(&model.Review{}).
			Where("user_id = ? AND item_id = ?", rv.UserID, rv.ItemID).
			Updates(map[string]interface{}{
				"rating":     rv.Rating,
				"title":      rv.Title,
				"content":    rv.Content,
				"updated_at": time.Now(),
			}).Error; err != nil {
			return err
		}
		var stored model.Review
		if err := tx.Where("user_id = ? AND item_id = ?", rv.UserID, rv.ItemID).
			First(&stored).Error; err != nil {
			return err
		}
		*rv = stored
		return nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func (r *reviewRepository) FindByID(ctx context.Context, id uint64) (*model.Review, error) {
	var rv model.Review
	if err := r.db.WithContext(ctx).First(&rv, id).Error; err != nil {
		return nil, err
	}
	return &rv, nil
}

// ListByItem returns approved reviews newest first; limit <= 0 means all.
func (r *reviewRepository) ListByItem(ctx context.Context, itemID uint64, limit int) ([]model.ReviewWithAuthor, error) {
	q := r.db.WithContext(ctx).
		Table("reviews").
		Select("reviews.*, users.username AS username").
		Joins("JOIN users ON users.id = reviews.user_id").
		Where("reviews.item_id = ? AND reviews.is_approved = ?", itemID, true).
		Order("reviews.created_at DESC").
		Order("reviews.id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var list []model.ReviewWithAuthor
	if err := q.Scan(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *reviewRepository) ListByUser(ctx context.Context, userID uint64) ([]model.UserReview, error) {
	var list []model.UserReview
	if err := r.db.WithContext(ctx).
		Table("reviews").
		Select("reviews.*, items.name AS item_name").
		Joins("JOIN items ON items.id = reviews.item_id").
		Where("reviews.user_id = ?", userID).
		Order("reviews.created_at DESC").
		Order("reviews.id DESC").
		Scan(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *reviewRepository) Delete(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).Delete(&model.Review{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *reviewRepository) OwnerOf(ctx context.Context, id uint64) (*uint64, error) {
	return ownerOf(ctx, r.db, "reviews", "user_id", id)
}
