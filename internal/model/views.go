package model

import "time"

// ItemSummary is an item row joined with its primary image and the rating
// aggregates computed over approved reviews at read time.
type ItemSummary struct {
	ID                uint64
	Name              string
	Description       string
	CategoryID        *uint64
	Address           string
	WebsiteURL        string
	PhoneNumber       string
	CreatedBy         *uint64
	CreatedByUsername *string
	IsApproved        bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
	ImageURL          *string
	AverageRating     float64
	ReviewCount       int64
}

type ReviewWithAuthor struct {
	Review
	Username string
}

type CommentWithAuthor struct {
	ReviewComment
	Username string
}

type UserReview struct {
	Review
	ItemName string
}

type UserComment struct {
	ReviewComment
	ItemID   uint64
	ItemName string
}
