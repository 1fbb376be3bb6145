package domain

import (
	"context"
	"math"
	"time"
)

// DefaultReviewImage is the placeholder image path used for reviews.
const DefaultReviewImage = "/assets/images/defaults/default-review-image.jpg"

type Review struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	RestaurantID    string    `json:"restaurantId"`
	MenuItemID      string    `json:"menuItemId,omitempty"`
	RestaurantName  string    `json:"restaurantName"`
	RestaurantImage string    `json:"restaurantImage,omitempty"`
	Rating          int       `json:"rating"`
	Comment         string    `json:"comment"`
	Images          []string  `json:"images"`
	Likes           int       `json:"likes"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type CreateReviewRequest struct {
	RestaurantID string   `json:"restaurantId" validate:"required"`
	MenuItemID   string   `json:"menuItemId"`
	Rating       int      `json:"rating" validate:"required,min=1,max=5"`
	Comment      string   `json:"comment" validate:"required,max=2000"`
	Images       []string `json:"images" validate:"omitempty,max=5,dive,required"`
}

type UpdateReviewRequest struct {
	Rating  *int     `json:"rating" validate:"omitempty,min=1,max=5"`
	Comment *string  `json:"comment" validate:"omitempty,min=1,max=2000"`
	Images  []string `json:"images" validate:"omitempty,max=5,dive,required"`
}

func (r UpdateReviewRequest) Patch() Document {
	patch := Document{}
	if r.Rating != nil {
		patch["rating"] = *r.Rating
	}
	if r.Comment != nil {
		patch["comment"] = *r.Comment
	}
	if r.Images != nil {
		patch["images"] = r.Images
	}
	return patch
}

// SummarizeReviews computes a restaurant's rating summary, with the average
// rounded to one decimal, and the ids of its reviews.
func SummarizeReviews(list []Review) (RatingSummary, []string) {
	ids := make([]string, 0, len(list))
	total := 0
	for _, r := range list {
		ids = append(ids, r.ID)
		total += r.Rating
	}
	summary := RatingSummary{Count: len(list)}
	if len(list) > 0 {
		summary.Average = math.Round(float64(total)/float64(len(list))*10) / 10
	}
	return summary, ids
}

type ReviewRepository interface {
	GetByID(ctx context.Context, id string) (*Review, error)
	Create(ctx context.Context, r *Review) error
	Update(ctx context.Context, id string, patch Document) error
	ListByUser(ctx context.Context, uid string) ([]Review, error)
	ListByRestaurant(ctx context.Context, restaurantID string) ([]Review, error)
	ListAll(ctx context.Context) ([]Review, error)
}

type ReviewUsecase interface {
	Create(ctx context.Context, req *CreateReviewRequest) (*Review, error)
	Update(ctx context.Context, id string, req *UpdateReviewRequest) (*Review, error)
	Like(ctx context.Context, id string) (*Review, error)
	ListMine(ctx context.Context) ([]Review, error)
	ListByRestaurant(ctx context.Context, restaurantID string) ([]Review, error)
}
