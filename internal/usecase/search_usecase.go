package usecase

import (
	"context"

	"see-eat-backend/internal/domain"
	"see-eat-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

type searchUsecase struct {
	restaurantRepo domain.RestaurantRepository
	menuRepo       domain.MenuRepository
	validate       *validator.Validate
}

func NewSearchUsecase(restaurantRepo domain.RestaurantRepository, menuRepo domain.MenuRepository, validate *validator.Validate) domain.SearchUsecase {
	return &searchUsecase{restaurantRepo: restaurantRepo, menuRepo: menuRepo, validate: validate}
}

// SearchRestaurants filters the active restaurants in memory, then pages the
// sorted result.
func (u *searchUsecase) SearchRestaurants(ctx context.Context, s domain.RestaurantSearch) ([]domain.RestaurantProfile, error) {
	if !s.SortBy.IsValid() {
		return nil, apperror.BadRequest("Sort must be newest or name")
	}
	if err := u.validate.Struct(&s); err != nil {
		return nil, invalidInput(err)
	}
	if s.SortBy == "" {
		s.SortBy = domain.SortNewest
	}

	active, err := u.restaurantRepo.ListByStatus(ctx, domain.RestaurantActive, 0, 0)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	matched := domain.FilterRestaurants(active, s)

	if s.Offset >= len(matched) {
		return []domain.RestaurantProfile{}, nil
	}
	matched = matched[s.Offset:]
	if s.Limit > 0 && len(matched) > s.Limit {
		matched = matched[:s.Limit]
	}
	return matched, nil
}

func (u *searchUsecase) FilterMenu(ctx context.Context, restaurantID string, f domain.MenuItemFilter) ([]domain.MenuItem, error) {
	if err := u.validate.Struct(&f); err != nil {
		return nil, invalidInput(err)
	}
	m, err := u.menuRepo.GetByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, storeErr(err, "Menu not found")
	}
	return domain.FilterMenuItems(m, f), nil
}
