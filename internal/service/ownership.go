package service

import (
	"context"
	"log"

	"github.com/shinyyama/placereview/internal/repository"
	"github.com/shinyyama/placereview/internal/reqctx"
)

// authorizeOwner is the single ownership predicate for items, reviews and
// comments: a missing row is ErrNotFound, a different owner is ErrForbidden.
// Active admins pass every check.
func authorizeOwner(ctx context.Context, lookup repository.OwnerLookup, users repository.UserRepository, id, actorID uint64) error {
	owner, err := lookup.OwnerOf(ctx, id)
	if err != nil {
		return notFound(err)
	}
	if owner != nil && *owner == actorID {
		return nil
	}
	isAdmin, err := activeAdmin(ctx, users, actorID)
	if err != nil {
		return err
	}
	if isAdmin {
		log.Printf("[authz] rid=%s admin=%d override id=%d", reqctx.RID(ctx), actorID, id)
		return nil
	}
	return ErrForbidden
}

func activeAdmin(ctx context.Context, users repository.UserRepository, id uint64) (bool, error) {
	u, err := users.FindByID(ctx, id)
	if err != nil {
		if notFound(err) == ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return u.IsAdmin && u.IsActive, nil
}

// canSeeItem reports an unapproved item as ErrNotFound unless the viewer
// created it or is an active admin.
func canSeeItem(ctx context.Context, users repository.UserRepository, approved bool, createdBy *uint64, viewerID uint64) error {
	if approved {
		return nil
	}
	if viewerID == 0 {
		return ErrNotFound
	}
	if createdBy != nil && *createdBy == viewerID {
		return nil
	}
	isAdmin, err := activeAdmin(ctx, users, viewerID)
	if err != nil {
		return err
	}
	if !isAdmin {
		return ErrNotFound
	}
	return nil
}
