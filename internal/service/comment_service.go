package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/shinyyama/placereview/internal/model"
	"github.com/shinyyama/placereview/internal/repository"
	"github.com/shinyyama/placereview/internal/reqctx"
)

const maxCommentLen = 2000

type CommentService interface {
	Create(ctx context.Context, actorID, reviewID uint64, content string) (*model.ReviewComment, error)
	ListByReview(ctx context.Context, reviewID uint64) ([]model.CommentWithAuthor, error)
	Update(ctx context.Context, actorID, id uint64, content string) (*model.ReviewComment, error)
	Delete(ctx context.Context, actorID, id uint64) error
}

type commentService struct {
	comments repository.CommentRepository
	reviews  repository.ReviewRepository
	users    repository.UserRepository
}

func NewCommentService(comments repository.CommentRepository, reviews repository.ReviewRepository, users repository.UserRepository) CommentService {
	return &commentService{comments: comments, reviews: reviews, users: users}
}

func validComment(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	if len(content) > maxCommentLen {
		return "", fmt.Errorf("%w: content too long", ErrInvalidInput)
	}
	return content, nil
}

func (s *commentService) Create(ctx context.Context, actorID, reviewID uint64, content string) (*model.ReviewComment, error) {
	content, err := validComment(content)
	if err != nil {
		return nil, err
	}
	if _, err := s.reviews.FindByID(ctx, reviewID); err != nil {
		return nil, notFound(err)
	}
	c := &model.ReviewComment{UserID: actorID, ReviewID: reviewID, Content: content}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}
	log.Printf("[comment] rid=%s created id=%d review=%d by=%d", reqctx.RID(ctx), c.ID, reviewID, actorID)
	return c, nil
}

func (s *commentService) ListByReview(ctx context.Context, reviewID uint64) ([]model.CommentWithAuthor, error) {
	if _, err := s.reviews.FindByID(ctx, reviewID); err != nil {
		return nil, notFound(err)
	}
	return s.comments.ListByReview(ctx, reviewID)
}

func (s *commentService) Update(ctx context.Context, actorID, id uint64, content string) (*model.ReviewComment, error) {
	if err := authorizeOwner(ctx, s.comments, s.users, id, actorID); err != nil {
		return nil, err
	}
	content, err := validComment(content)
	if err != nil {
		return nil, err
	}
	if err := s.comments.UpdateContent(ctx, id, content); err != nil {
		return nil, err
	}
	c, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func (s *commentService) Delete(ctx context.Context, actorID, id uint64) error {
	if err := authorizeOwner(ctx, s.comments, s.users, id, actorID); err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	log.Printf("[comment] rid=%s deleted id=%d by=%d", reqctx.RID(ctx), id, actorID)
	return nil
}
