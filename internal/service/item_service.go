package service

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/shinyyama/placereview/internal/model"
	"github.com/shinyyama/placereview/internal/repository"
	"github.com/shinyyama/placereview/internal/reqctx"
)

// RecentReviewLimit is how many reviews an item detail embeds.
const RecentReviewLimit = 5

type ItemInput struct {
	Name        string
	Description string
	CategoryID  *uint64
	Address     string
	WebsiteURL  string
	PhoneNumber string
	ImageURL    *string
}

type ItemDetail struct {
	Summary model.ItemSummary
	Images  []model.ItemImage
	Reviews []model.ReviewWithAuthor
}

type ItemService interface {
	Create(ctx context.Context, actorID uint64, in ItemInput) (*model.Item, error)
	Update(ctx context.Context, actorID, id uint64, in ItemInput) (*model.Item, error)
	Delete(ctx context.Context, actorID, id uint64) error
	// Get hides unapproved items from everyone but their creator and admins.
	// viewerID 0 is an anonymous caller.
	Get(ctx context.Context, viewerID, id uint64) (*ItemDetail, error)
	List(ctx context.Context, search string) ([]model.ItemSummary, error)
	ListPending(ctx context.Context) ([]model.ItemSummary, error)
	SetApproval(ctx context.Context, id uint64, approved bool) (*model.Item, error)
}

type itemService struct {
	items      repository.ItemRepository
	images     repository.ItemImageRepository
	reviews    repository.ReviewRepository
	categories repository.CategoryRepository
	users      repository.UserRepository
}

func NewItemService(items repository.ItemRepository, images repository.ItemImageRepository, reviews repository.ReviewRepository,
	categories repository.CategoryRepository, users repository.UserRepository) ItemService {
	return &itemService{items: items, images: images, reviews: reviews, categories: categories, users: users}
}

func (s *itemService) normalize(ctx context.Context, in *ItemInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Address = strings.TrimSpace(in.Address)
	in.WebsiteURL = strings.TrimSpace(in.WebsiteURL)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	if in.Name == "" || utf8.RuneCountInString(in.Name) > 100 {
		return fmt.Errorf("%w: name is required (max 100 characters)", ErrInvalidInput)
	}
	if len(in.WebsiteURL) > 255 {
		return fmt.Errorf("%w: website_url too long", ErrInvalidInput)
	}
	if len(in.PhoneNumber) > 20 {
		return fmt.Errorf("%w: phone_number too long", ErrInvalidInput)
	}
	if in.ImageURL != nil {
		trimmed := strings.TrimSpace(*in.ImageURL)
		switch {
		case trimmed == "":
			in.ImageURL = nil
		case !isHTTPURL(trimmed):
			return fmt.Errorf("%w: image_url must be an http(s) URL", ErrInvalidInput)
		default:
			in.ImageURL = &trimmed
		}
	}
	if in.CategoryID != nil {
		ok, err := s.categories.Exists(ctx, *in.CategoryID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: unknown category", ErrInvalidInput)
		}
	}
	return nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func (s *itemService) Create(ctx context.Context, actorID uint64, in ItemInput) (*model.Item, error) {
	if err := s.normalize(ctx, &in); err != nil {
		return nil, err
	}
	item := &model.Item{
		Name:        in.Name,
		Description: in.Description,
		CategoryID:  in.CategoryID,
		Address:     in.Address,
		WebsiteURL:  in.WebsiteURL,
		PhoneNumber: in.PhoneNumber,
		CreatedBy:   &actorID,
		IsApproved:  true,
	}
	if err := s.items.Create(ctx, item, in.ImageURL); err != nil {
		return nil, err
	}
	log.Printf("[item] rid=%s created id=%d by=%d", reqctx.RID(ctx), item.ID, actorID)
	return item, nil
}

func (s *itemService) Update(ctx context.Context, actorID, id uint64, in ItemInput) (*model.Item, error) {
	if err := authorizeOwner(ctx, s.items, s.users, id, actorID); err != nil {
		return nil, err
	}
	if err := s.normalize(ctx, &in); err != nil {
		return nil, err
	}
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	item.Name = in.Name
	item.Description = in.Description
	item.CategoryID = in.CategoryID
	item.Address = in.Address
	item.WebsiteURL = in.WebsiteURL
	item.PhoneNumber = in.PhoneNumber
	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}
	log.Printf("[item] rid=%s updated id=%d by=%d", reqctx.RID(ctx), id, actorID)
	return item, nil
}

func (s *itemService) Delete(ctx context.Context, actorID, id uint64) error {
	if err := authorizeOwner(ctx, s.items, s.users, id, actorID); err != nil {
		return err
	}
	if err := s.items.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	log.Printf("[item] rid=%s deleted id=%d by=%d", reqctx.RID(ctx), id, actorID)
	return nil
}

func (s *itemService) Get(ctx context.Context, viewerID, id uint64) (*ItemDetail, error) {
	sum, err := s.items.Summary(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if err := canSeeItem(ctx, s.users, sum.IsApproved, sum.CreatedBy, viewerID); err != nil {
		return nil, err
	}
	images, err := s.images.ListByItem(ctx, id)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviews.ListByItem(ctx, id, RecentReviewLimit)
	if err != nil {
		return nil, err
	}
	return &ItemDetail{Summary: *sum, Images: images, Reviews: reviews}, nil
}

func (s *itemService) List(ctx context.Context, search string) ([]model.ItemSummary, error) {
	return s.items.ListApproved(ctx, search)
}

func (s *itemService) ListPending(ctx context.Context) ([]model.ItemSummary, error) {
	return s.items.ListPending(ctx)
}

func (s *itemService) SetApproval(ctx context.Context, id uint64, approved bool) (*model.Item, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	if err := s.items.SetApproval(ctx, id, approved); err != nil {
		return nil, err
	}
	item.IsApproved = approved
	log.Printf("[item] rid=%s approval id=%d approved=%v", reqctx.RID(ctx), id, approved)
	return item, nil
}
