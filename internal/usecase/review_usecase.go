package usecase

import (
	"context"

	"see-eat-backend/internal/domain"
	"see-eat-backend/pkg/apperror"
	"see-eat-backend/pkg/logger"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type reviewUsecase struct {
	reviewRepo     domain.ReviewRepository
	restaurantRepo domain.RestaurantRepository
	validate       *validator.Validate
}

func NewReviewUsecase(reviewRepo domain.ReviewRepository, restaurantRepo domain.RestaurantRepository, validate *validator.Validate) domain.ReviewUsecase {
	return &reviewUsecase{reviewRepo: reviewRepo, restaurantRepo: restaurantRepo, validate: validate}
}

func (u *reviewUsecase) Create(ctx context.Context, req *domain.CreateReviewRequest) (*domain.Review, error) {
	s, err := requireRole(ctx, domain.RoleCustomer)
	if err != nil {
		return nil, err
	}
	if err := u.validate.Struct(req); err != nil {
		return nil, invalidInput(err)
	}

	r, err := u.restaurantRepo.GetByID(ctx, req.RestaurantID)
	if err != nil {
		return nil, storeErr(err, "Restaurant not found")
	}

	image := r.PhotoURL
	if image == "" {
		image = domain.DefaultReviewImage
	}
	images := req.Images
	if images == nil {
		images = []string{}
	}

	rev := &domain.Review{
		UserID:          s.UserID,
		RestaurantID:    r.ID,
		MenuItemID:      req.MenuItemID,
		RestaurantName:  r.RestaurantName,
		RestaurantImage: image,
		Rating:          req.Rating,
		Comment:         req.Comment,
		Images:          images,
		Likes:           0,
	}
	if err := u.reviewRepo.Create(ctx, rev); err != nil {
		return nil, apperror.Internal(err)
	}
	u.refreshRatings(ctx, r.ID)

	return u.get(ctx, rev.ID)
}

func (u *reviewUsecase) get(ctx context.Context, id string) (*domain.Review, error) {
	rev, err := u.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "Review not found")
	}
	return rev, nil
}

// Update lets the author change rating, comment or images.
func (u *reviewUsecase) Update(ctx context.Context, id string, req *domain.UpdateReviewRequest) (*domain.Review, error) {
	s, err := sessionFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := u.validate.Struct(req); err != nil {
		return nil, invalidInput(err)
	}

	rev, err := u.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rev.UserID != s.UserID {
		return nil, apperror.Forbidden("You can only edit your own reviews")
	}

	patch := req.Patch()
	if len(patch) == 0 {
		return nil, apperror.BadRequest("No fields to update")
	}
	if err := u.reviewRepo.Update(ctx, id, patch); err != nil {
		return nil, storeErr(err, "Review not found")
	}
	if req.Rating != nil {
		u.refreshRatings(ctx, rev.RestaurantID)
	}
	return u.get(ctx, id)
}

// Like increments the like counter. Concurrent likes may be lost: the count
// is read, incremented and written back.
func (u *reviewUsecase) Like(ctx context.Context, id string) (*domain.Review, error) {
	if _, err := sessionFrom(ctx); err != nil {
		return nil, err
	}
	rev, err := u.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := u.reviewRepo.Update(ctx, id, domain.Document{"likes": rev.Likes + 1}); err != nil {
		return nil, storeErr(err, "Review not found")
	}
	return u.get(ctx, id)
}

func (u *reviewUsecase) ListMine(ctx context.Context) ([]domain.Review, error) {
	s, err := sessionFrom(ctx)
	if err != nil {
		return nil, err
	}
	list, err := u.reviewRepo.ListByUser(ctx, s.UserID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return list, nil
}

func (u *reviewUsecase) ListByRestaurant(ctx context.Context, restaurantID string) ([]domain.Review, error) {
	list, err := u.reviewRepo.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return list, nil
}

// refreshRatings recomputes the restaurant's rating summary and review ids.
// Failures are logged; the review itself is already stored.
func (u *reviewUsecase) refreshRatings(ctx context.Context, restaurantID string) {
	list, err := u.reviewRepo.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		logger.Log.Warn("Could not load reviews for rating summary", zap.String("restaurant_id", restaurantID), zap.Error(err))
		return
	}

	summary, ids := domain.SummarizeReviews(list)

	patch := domain.Document{"ratings": summary, "reviews": ids}
	if err := u.restaurantRepo.Update(ctx, restaurantID, patch); err != nil {
		logger.Log.Warn("Could not update rating summary", zap.String("restaurant_id", restaurantID), zap.Error(err))
	}
}
