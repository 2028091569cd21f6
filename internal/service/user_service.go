package service

import (
	"context"

	"github.com/shinyyama/placereview/internal/model"
	"github.com/shinyyama/placereview/internal/repository"
)

type UserService interface {
	Profile(ctx context.Context, id uint64) (*model.User, error)
	Reviews(ctx context.Context, id uint64) ([]model.UserReview, error)
	Comments(ctx context.Context, id uint64) ([]model.UserComment, error)
	IsAdmin(ctx context.Context, id uint64) (bool, error)
}

type userService struct {
	users    repository.UserRepository
	reviews  repository.ReviewRepository
	comments repository.CommentRepository
}

func NewUserService(users repository.UserRepository, reviews repository.ReviewRepository, comments repository.CommentRepository) UserService {
	return &userService{users: users, reviews: reviews, comments: comments}
}

func (s *userService) Profile(ctx context.Context, id uint64) (*model.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (s *userService) Reviews(ctx context.Context, id uint64) ([]model.UserReview, error) {
	return s.reviews.ListByUser(ctx, id)
}

func (s *userService) Comments(ctx context.Context, id uint64) ([]model.UserComment, error) {
	return s.comments.ListByUser(ctx, id)
}

func (s *userService) IsAdmin(ctx context.Context, id uint64) (bool, error) {
	return activeAdmin(ctx, s.users, id)
}
