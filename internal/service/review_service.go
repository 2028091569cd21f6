package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/shinyyama/placereview/internal/model"
	"github.com/shinyyama/placereview/internal/repository"
	"github.com/shinyyama/placereview/internal/reqctx"
)

type ReviewInput struct {
	Rating  int
	Title   string
	Content string
}

type ReviewService interface {
	// Submit creates the actor's review of the item or overwrites the existing
	// one. created reports which of the two happened.
	Submit(ctx context.Context, actorID, itemID uint64, in ReviewInput) (rv *model.Review, created bool, err error)
	ListByItem(ctx context.Context, viewerID, itemID uint64) ([]model.ReviewWithAuthor, error)
	Delete(ctx context.Context, actorID, id uint64) error
}

type reviewService struct {
	reviews repository.ReviewRepository
	items   repository.ItemRepository
	users   repository.UserRepository
}

func NewReviewService(reviews repository.ReviewRepository, items repository.ItemRepository, users repository.UserRepository) ReviewService {
	return &reviewService{reviews: reviews, items: items, users: users}
}

func (s *reviewService) Submit(ctx context.Context, actorID, itemID uint64, in ReviewInput) (*model.Review, bool, error) {
	if in.Rating < model.MinRating || in.Rating > model.MaxRating {
		return nil, false, fmt.Errorf("%w: rating must be between %d and %d", ErrInvalidInput, model.MinRating, model.MaxRating)
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	if utf8.RuneCountInString(in.Title) > 200 {
		return nil, false, fmt.Errorf("%w: title must be at most 200 characters", ErrInvalidInput)
	}
	if err := s.itemVisible(ctx, actorID, itemID); err != nil {
		return nil, false, err
	}

	rv := &model.Review{
		UserID:     actorID,
		ItemID:     itemID,
		Rating:     in.Rating,
		Title:      in.Title,
		Content:    in.Content,
		IsApproved: true,
	}
	created, err := s.reviews.Upsert(ctx, rv)
	if err != nil {
		return nil, false, err
	}
	log.Printf("[review] rid=%s upsert id=%d item=%d user=%d created=%v", reqctx.RID(ctx), rv.ID, itemID, actorID, created)
	return rv, created, nil
}

func (s *reviewService) ListByItem(ctx context.Context, viewerID, itemID uint64) ([]model.ReviewWithAuthor, error) {
	if err := s.itemVisible(ctx, viewerID, itemID); err != nil {
		return nil, err
	}
	return s.reviews.ListByItem(ctx, itemID, 0)
}

func (s *reviewService) itemVisible(ctx context.Context, viewerID, itemID uint64) error {
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return notFound(err)
	}
	return canSeeItem(ctx, s.users, item.IsApproved, item.CreatedBy, viewerID)
}

func (s *reviewService) Delete(ctx context.Context, actorID, id uint64) error {
	if err := authorizeOwner(ctx, s.reviews, s.users, id, actorID); err != nil {
		return err
	}
	if err := s.reviews.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	log.Printf("[review] rid=%s deleted id=%d by=%d", reqctx.RID(ctx), id, actorID)
	return nil
}
