package usecase

import (
	"context"

	"see-eat-backend/internal/domain"
	"see-eat-backend/pkg/apperror"
	"see-eat-backend/pkg/logger"

	"go.uber.org/zap"
)

type profileUsecase struct {
	userRepo       domain.UserRepository
	restaurantRepo domain.RestaurantRepository
}

func NewProfileUsecase(userRepo domain.UserRepository, restaurantRepo domain.RestaurantRepository) domain.ProfileUsecase {
	return &profileUsecase{userRepo: userRepo, restaurantRepo: restaurantRepo}
}

// authorizeSelf allows the profile owner and admins.
func authorizeSelf(ctx context.Context, uid string) (domain.Session, error) {
	s, err := sessionFrom(ctx)
	if err != nil {
		return s, err
	}
	if s.UserID != uid && s.Role != domain.RoleAdmin {
		return s, apperror.Forbidden("You can only access your own profile")
	}
	return s, nil
}

func (u *profileUsecase) GetProfile(ctx context.Context, uid string) (*domain.UserProfile, error) {
	if _, err := authorizeSelf(ctx, uid); err != nil {
		return nil, err
	}
	p, err := u.userRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, storeErr(err, "User profile not found")
	}
	return p, nil
}

// UpdateProfile shallow-merges patch into the stored profile. The stored role
// always wins and identity fields are ignored.
func (u *profileUsecase) UpdateProfile(ctx context.Context, uid string, patch domain.Document) (*domain.UserProfile, error) {
	if _, err := authorizeSelf(ctx, uid); err != nil {
		return nil, err
	}
	stored, err := u.userRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, storeErr(err, "User profile not found")
	}

	clean := domain.SanitizeProfilePatch(stored, patch)

	// The merged document must still decode as a profile of the stored role.
	merged, err := domain.ToDocument(stored)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	for k, v := range clean {
		merged[k] = v
	}
	check := domain.Snapshot{ID: uid, Data: merged}
	var probe domain.UserProfile
	if err := check.Decode(&probe); err != nil {
		return nil, apperror.BadRequest("Invalid profile data")
	}

	if err := u.userRepo.Merge(ctx, uid, clean); err != nil {
		return nil, storeErr(err, "User profile not found")
	}
	logger.Log.Info("Profile updated", zap.String("user_id", uid), zap.Int("fields", len(clean)-1))

	return u.GetProfile(ctx, uid)
}

// ToggleFavoriteRestaurant adds the restaurant to the customer's favorites,
// or removes it when already present.
func (u *profileUsecase) ToggleFavoriteRestaurant(ctx context.Context, uid, restaurantID string) (*domain.UserProfile, error) {
	if _, err := authorizeSelf(ctx, uid); err != nil {
		return nil, err
	}
	p, err := u.userRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, storeErr(err, "User profile not found")
	}
	cust := p.Customer()
	if cust == nil {
		return nil, apperror.Forbidden("Only customers can keep favorites")
	}

	favorites := make([]string, 0, len(cust.FavoriteRestaurants)+1)
	removed := false
	for _, id := range cust.FavoriteRestaurants {
		if id == restaurantID {
			removed = true
			continue
		}
		favorites = append(favorites, id)
	}
	if !removed {
		if _, err := u.restaurantRepo.GetByID(ctx, restaurantID); err != nil {
			return nil, storeErr(err, "Restaurant not found")
		}
		favorites = append(favorites, restaurantID)
	}

	if err := u.userRepo.Merge(ctx, uid, domain.Document{"favoriteRestaurants": favorites}); err != nil {
		return nil, storeErr(err, "User profile not found")
	}
	cust.FavoriteRestaurants = favorites
	return p, nil
}

func (u *profileUsecase) ListUsers(ctx context.Context, role domain.Role) ([]domain.UserProfile, error) {
	if _, err := requireRole(ctx, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if role != "" && !role.IsValid() {
		return nil, apperror.BadRequest("Unknown role")
	}
	users, err := u.userRepo.List(ctx, role)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return users, nil
}
