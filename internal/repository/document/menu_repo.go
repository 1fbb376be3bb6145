package document

import (
	"context"
	"fmt"

	"see-eat-backend/internal/domain"
	"see-eat-backend/pkg/logger"
	"see-eat-backend/pkg/validation"

	"go.uber.org/zap"
)

type menuRepository struct {
	store domain.DocumentStore
}

func NewMenuRepository(store domain.DocumentStore) domain.MenuRepository {
	return &menuRepository{store: store}
}

func (r *menuRepository) decode(snap *domain.Snapshot) (*domain.Menu, error) {
	if err := validation.ValidateMenuDocument(snap.Data); err != nil {
		logger.Log.Warn("Stored menu failed schema check", zap.String("menu_id", snap.ID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidMenu, err)
	}
	var m domain.Menu
	if err := snap.Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidMenu, err)
	}
	return &m, nil
}

func (r *menuRepository) GetByRestaurant(ctx context.Context, restaurantID string) (*domain.Menu, error) {
	snap, err := r.store.Get(ctx, domain.CollectionMenus, restaurantID)
	if err != nil {
		return nil, err
	}
	return r.decode(snap)
}

func (r *menuRepository) GetBySlug(ctx context.Context, slug string) (*domain.Menu, error) {
	snaps, err := r.store.Find(ctx, domain.CollectionMenus, domain.Query{
		Filters: []domain.Filter{domain.Where("slug", domain.OpEqual, slug)},
		Limit:   1,
	})
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, domain.ErrNotFound
	}
	return r.decode(&snaps[0])
}

// Save overwrites the whole menu document. There is no version check: the
// last save wins.
func (r *menuRepository) Save(ctx context.Context, m *domain.Menu) error {
	doc, err := domain.ToDocument(m)
	if err != nil {
		return err
	}
	if err := validation.ValidateMenuDocument(doc); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidMenu, err)
	}
	return r.store.Set(ctx, domain.CollectionMenus, m.RestaurantID, doc)
}

func (r *menuRepository) SetStatus(ctx context.Context, restaurantID string, status domain.MenuStatus) error {
	return r.store.Update(ctx, domain.CollectionMenus, restaurantID, domain.Document{"status": string(status)})
}
