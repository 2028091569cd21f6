package handler

import (
	"time"

	"github.com/shinyyama/placereview/internal/model"
)

type UserResponse struct {
	ID        uint64 `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	IsAdmin   bool   `json:"is_admin"`
	CreatedAt string `json:"created_at"`
}

type ItemResponse struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	CategoryID  *uint64 `json:"category_id"`
	Address     string  `json:"address"`
	WebsiteURL  string  `json:"website_url"`
	PhoneNumber string  `json:"phone_number"`
	CreatedBy   *uint64 `json:"created_by"`
	IsApproved  bool    `json:"is_approved"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type ItemSummaryResponse struct {
	ItemResponse
	CreatedByUsername *string `json:"created_by_username"`
	ImageURL          *string `json:"image_url"`
	AverageRating     float64 `json:"average_rating"`
	ReviewCount       int64   `json:"review_count"`
}

type ItemDetailResponse struct {
	ItemSummaryResponse
	Images  []ImageResponse  `json:"images"`
	Reviews []ReviewResponse `json:"reviews"`
}

type ImageResponse struct {
	ID         uint64 `json:"id"`
	ItemID     uint64 `json:"item_id"`
	ImageURL   string `json:"image_url"`
	IsPrimary  bool   `json:"is_primary"`
	UploadedAt string `json:"uploaded_at"`
}

type ReviewResponse struct {
	ID         uint64 `json:"id"`
	UserID     uint64 `json:"user_id"`
	ItemID     uint64 `json:"item_id"`
	Rating     int    `json:"rating"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	IsApproved bool   `json:"is_approved"`
	Username   string `json:"username,omitempty"`
	ItemName   string `json:"item_name,omitempty"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

type CommentResponse struct {
	ID        uint64 `json:"id"`
	UserID    uint64 `json:"user_id"`
	ReviewID  uint64 `json:"review_id"`
	Content   string `json:"content"`
	Username  string `json:"username,omitempty"`
	ItemID    uint64 `json:"item_id,omitempty"`
	ItemName  string `json:"item_name,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type CategoryResponse struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		IsAdmin:   u.IsAdmin,
		CreatedAt: formatTime(u.CreatedAt),
	}
}

func toItemResponse(it *model.Item) ItemResponse {
	return ItemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		CategoryID:  it.CategoryID,
		Address:     it.Address,
		WebsiteURL:  it.WebsiteURL,
		PhoneNumber: it.PhoneNumber,
		CreatedBy:   it.CreatedBy,
		IsApproved:  it.IsApproved,
		CreatedAt:   formatTime(it.CreatedAt),
		UpdatedAt:   formatTime(it.UpdatedAt),
	}
}

func toItemSummaryResponse(s *model.ItemSummary) ItemSummaryResponse {
	return ItemSummaryResponse{
		ItemResponse: ItemResponse{
			ID:          s.ID,
			Name:        s.Name,
			Description: s.Description,
			CategoryID:  s.CategoryID,
			Address:     s.Address,
			WebsiteURL:  s.WebsiteURL,
			PhoneNumber: s.PhoneNumber,
			CreatedBy:   s.CreatedBy,
			IsApproved:  s.IsApproved,
			CreatedAt:   formatTime(s.CreatedAt),
			UpdatedAt:   formatTime(s.UpdatedAt),
		},
		CreatedByUsername: s.CreatedByUsername,
		ImageURL:          s.ImageURL,
		AverageRating:     s.AverageRating,
		ReviewCount:       s.ReviewCount,
	}
}

func toItemSummaries(list []model.ItemSummary) []ItemSummaryResponse {
	out := make([]ItemSummaryResponse, 0, len(list))
	for i := range list {
		out = append(out, toItemSummaryResponse(&list[i]))
	}
	return out
}

func toImageResponse(img *model.ItemImage) ImageResponse {
	return ImageResponse{
		ID:         img.ID,
		ItemID:     img.ItemID,
		ImageURL:   img.ImageURL,
		IsPrimary:  img.IsPrimary,
		UploadedAt: formatTime(img.UploadedAt),
	}
}

func toReviewResponse(r *model.Review) ReviewResponse {
	return ReviewResponse{
		ID:         r.ID,
		UserID:     r.UserID,
		ItemID:     r.ItemID,
		Rating:     r.Rating,
		Title:      r.Title,
		Content:    r.Content,
		IsApproved: r.IsApproved,
		CreatedAt:  formatTime(r.CreatedAt),
		UpdatedAt:  formatTime(r.UpdatedAt),
	}
}

func toReviewsWithAuthor(list []model.ReviewWithAuthor) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(list))
	for i := range list {
		r := toReviewResponse(&list[i].Review)
		r.Username = list[i].Username
		out = append(out, r)
	}
	return out
}

func toCommentResponse(c *model.ReviewComment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		UserID:    c.UserID,
		ReviewID:  c.ReviewID,
		Content:   c.Content,
		CreatedAt: formatTime(c.CreatedAt),
		UpdatedAt: formatTime(c.UpdatedAt),
	}
}
