package repository

import (
	"context"

	"github.com/shinyyama/placereview/internal/model"
	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, c *model.ReviewComment) error
	FindByID(ctx context.Context, id uint64) (*model.ReviewComment, error)
	UpdateContent(ctx context.Context, id uint64, content string) error
	Delete(ctx context.Context, id uint64) error
	ListByReview(ctx context.Context, reviewID uint64) ([]model.CommentWithAuthor, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.UserComment, error)
	OwnerOf(ctx context.Context, id uint64) (*uint64, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, c *model.ReviewComment) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *commentRepository) FindByID(ctx context.Context, id uint64) (*model.ReviewComment, error) {
	var c model.ReviewComment
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *commentRepository) UpdateContent(ctx context.Context, id uint64, content string) error {
	return r.db.WithContext(ctx).
		Model(&model.ReviewComment{}).
		Where("id = ?", id).
		Update("content", content).Error
}

func (r *commentRepository) Delete(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).Delete(&model.ReviewComment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *commentRepository) ListByReview(ctx context.Context, reviewID uint64) ([]model.CommentWithAuthor, error) {
	var list []model.CommentWithAuthor
	if err := r.db.WithContext(ctx).
		Table("review_comments").
		Select("review_comments.*, users.username AS username").
		Joins("JOIN users ON users.id = review_comments.user_id").
		Where("review_comments.review_id = ?", reviewID).
		Order("review_comments.created_at ASC").
		Order("review_comments.id ASC").
		Scan(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *commentRepository) ListByUser(ctx context.Context, userID uint64) ([]model.UserComment, error) {
	var list []model.UserComment
	if err := r.db.WithContext(ctx).
		Table("review_comments").
		Select("review_comments.*, items.id AS item_id, items.name AS item_name").
		Joins("JOIN reviews ON reviews.id = review_comments.review_id").
		Joins("JOIN items ON items.id = reviews.item_id").
		Where("review_comments.user_id = ?", userID).
		Order("review_comments.created_at DESC").
		Order("review_comments.id DESC").
		Scan(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *commentRepository) OwnerOf(ctx context.Context, id uint64) (*uint64, error) {
	return ownerOf(ctx, r.db, "review_comments", "user_id", id)
}
