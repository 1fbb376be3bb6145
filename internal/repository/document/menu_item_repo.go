package document

import (
	"context"

	"see-eat-backend/internal/domain"
)

type menuItemRepository struct {
	store domain.DocumentStore
}

func NewMenuItemRepository(store domain.DocumentStore) domain.MenuItemRepository {
	return &menuItemRepository{store: store}
}

// ReplaceForRestaurant writes one document per item and then deletes the
// restaurant's items that are not in the batch. Items without an id get a
// generated one.
func (r *menuItemRepository) ReplaceForRestaurant(ctx context.Context, restaurantID string, items []domain.SetupMenuItem) error {
	keep := make(map[string]bool, len(items))
	for _, it := range items {
		doc, err := domain.ToDocument(it)
		if err != nil {
			return err
		}
		doc["restaurantId"] = restaurantID

		if it.ID == "" {
			id, err := r.store.Create(ctx, domain.CollectionMenuItems, "", doc)
			if err != nil {
				return err
			}
			keep[id] = true
			continue
		}
		if err := r.store.Set(ctx, domain.CollectionMenuItems, it.ID, doc); err != nil {
			return err
		}
		keep[it.ID] = true
	}

	snaps, err := r.store.Find(ctx, domain.CollectionMenuItems, domain.Query{
		Filters: []domain.Filter{domain.Where("restaurantId", domain.OpEqual, restaurantID)},
	})
	if err != nil {
		return err
	}
	for _, snap := range snaps {
		if keep[snap.ID] {
			continue
		}
		if err := r.store.Delete(ctx, domain.CollectionMenuItems, snap.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *menuItemRepository) ListByRestaurant(ctx context.Context, restaurantID string) ([]domain.SetupMenuItem, error) {
	snaps, err := r.store.Find(ctx, domain.CollectionMenuItems, domain.Query{
		Filters: []domain.Filter{domain.Where("restaurantId", domain.OpEqual, restaurantID)},
		OrderBy: []domain.OrderBy{{Field: "category"}, {Field: "name"}},
	})
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.SetupMenuItem](snaps)
}
