package document

import (
	"context"

	"see-eat-backend/internal/domain"
)

type restaurantRepository struct {
	store domain.DocumentStore
}

func NewRestaurantRepository(store domain.DocumentStore) domain.RestaurantRepository {
	return &restaurantRepository{store: store}
}

var newestFirst = []domain.OrderBy{{Field: domain.FieldCreatedAt, Desc: true}}

func (r *restaurantRepository) GetByID(ctx context.Context, id string) (*domain.RestaurantProfile, error) {
	snap, err := r.store.Get(ctx, domain.CollectionRestaurants, id)
	if err != nil {
		return nil, err
	}
	var p domain.RestaurantProfile
	if err := snap.Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create writes the full profile under r.ID. Writing the same id again
// overwrites, so a retried wizard completion does not duplicate restaurants.
func (r *restaurantRepository) Create(ctx context.Context, p *domain.RestaurantProfile) error {
	doc, err := domain.ToDocument(p)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, domain.CollectionRestaurants, p.ID, doc)
}

func (r *restaurantRepository) Update(ctx context.Context, id string, patch domain.Document) error {
	return r.store.Update(ctx, domain.CollectionRestaurants, id, patch)
}

func (r *restaurantRepository) ListByOwner(ctx context.Context, uid string) ([]domain.RestaurantProfile, error) {
	return r.find(ctx, domain.Query{
		Filters: []domain.Filter{domain.Where("uid", domain.OpEqual, uid)},
		OrderBy: newestFirst,
	})
}

func (r *restaurantRepository) ListByStatus(ctx context.Context, status domain.RestaurantStatus, limit, offset int) ([]domain.RestaurantProfile, error) {
	return r.find(ctx, domain.Query{
		Filters: []domain.Filter{domain.Where("status", domain.OpEqual, string(status))},
		OrderBy: newestFirst,
		Limit:   limit,
		Offset:  offset,
	})
}

func (r *restaurantRepository) ListAll(ctx context.Context) ([]domain.RestaurantProfile, error) {
	return r.find(ctx, domain.Query{OrderBy: newestFirst})
}

func (r *restaurantRepository) find(ctx context.Context, q domain.Query) ([]domain.RestaurantProfile, error) {
	snaps, err := r.store.Find(ctx, domain.CollectionRestaurants, q)
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.RestaurantProfile](snaps)
}
