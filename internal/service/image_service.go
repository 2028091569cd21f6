package service

import (
	"context"
	"fmt"
	"log"

	"github.com/shinyyama/placereview/internal/model"
	"github.com/shinyyama/placereview/internal/repository"
	"github.com/shinyyama/placereview/internal/reqctx"
	"github.com/shinyyama/placereview/internal/storage"
)

type ImageService interface {
	Upload(ctx context.Context, actorID, itemID uint64, data []byte, primary bool) (*model.ItemImage, error)
	SetPrimary(ctx context.Context, actorID, itemID, imageID uint64) (*model.ItemImage, error)
	Delete(ctx context.Context, actorID, itemID, imageID uint64) error
}

type imageService struct {
	items  repository.ItemRepository
	images repository.ItemImageRepository
	users  repository.UserRepository
	store  storage.ImageStore
}

func NewImageService(items repository.ItemRepository, images repository.ItemImageRepository, users repository.UserRepository, store storage.ImageStore) ImageService {
	return &imageService{items: items, images: images, users: users, store: store}
}

// Upload stores the picture and attaches it to the item. The first image of
// an item always becomes primary.
func (s *imageService) Upload(ctx context.Context, actorID, itemID uint64, data []byte, primary bool) (*model.ItemImage, error) {
	if err := authorizeOwner(ctx, s.items, s.users, itemID, actorID); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: image is empty", ErrInvalidInput)
	}
	contentType, err := storage.Sniff(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	existing, err := s.images.ListByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	path := storage.ObjectPath(itemID, contentType)
	publicURL, err := s.store.Save(ctx, path, contentType, data)
	if err != nil {
		log.Printf("[image] rid=%s upload failed item=%d: %v", reqctx.RID(ctx), itemID, err)
		return nil, fmt.Errorf("store image: %w", err)
	}

	img := &model.ItemImage{
		ItemID:    itemID,
		ImageURL:  publicURL,
		IsPrimary: primary || len(existing) == 0,
	}
	if err := s.images.Create(ctx, img); err != nil {
		return nil, err
	}
	log.Printf("[image] rid=%s uploaded id=%d item=%d primary=%v", reqctx.RID(ctx), img.ID, itemID, img.IsPrimary)
	return img, nil
}

func (s *imageService) imageOf(ctx context.Context, itemID, imageID uint64) (*model.ItemImage, error) {
	img, err := s.images.FindByID(ctx, imageID)
	if err != nil {
		return nil, notFound(err)
	}
	if img.ItemID != itemID {
		return nil, ErrNotFound
	}
	return img, nil
}

func (s *imageService) SetPrimary(ctx context.Context, actorID, itemID, imageID uint64) (*model.ItemImage, error) {
	if err := authorizeOwner(ctx, s.items, s.users, itemID, actorID); err != nil {
		return nil, err
	}
	img, err := s.imageOf(ctx, itemID, imageID)
	if err != nil {
		return nil, err
	}
	if err := s.images.SetPrimary(ctx, itemID, imageID); err != nil {
		return nil, notFound(err)
	}
	img.IsPrimary = true
	return img, nil
}

func (s *imageService) Delete(ctx context.Context, actorID, itemID, imageID uint64) error {
	if err := authorizeOwner(ctx, s.items, s.users, itemID, actorID); err != nil {
		return err
	}
	if _, err := s.imageOf(ctx, itemID, imageID); err != nil {
		return err
	}
	if err := s.images.Delete(ctx, imageID); err != nil {
		return notFound(err)
	}
	log.Printf("[image] rid=%s deleted id=%d item=%d", reqctx.RID(ctx), imageID, itemID)
	return nil
}
