package repository

import (
	"context"

	"gorm.io/gorm"
)

// OwnerLookup resolves the user id owning a row. A nil owner means the row
// exists but nobody owns it (the owning user was deleted).
type OwnerLookup interface {
	OwnerOf(ctx context.Context, id uint64) (*uint64, error)
}

type ownerRow struct {
	OwnerID *uint64
}

// ownerOf reads a single owner column of the row with the given id and
// reports gorm.ErrRecordNotFound when the row does not exist.
func ownerOf(ctx context.Context, db *gorm.DB, table, column string, id uint64) (*uint64, error) {
	var rows []ownerRow
	if err := db.WithContext(ctx).
		Table(table).
		Select(column+" AS owner_id").
		Where("id = ?", id).
		Limit(1).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return rows[0].OwnerID, nil
}
