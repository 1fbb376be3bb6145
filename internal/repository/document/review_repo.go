package document

import (
	"context"

	"see-eat-backend/internal/domain"
)

type reviewRepository struct {
	store domain.DocumentStore
}

func NewReviewRepository(store domain.DocumentStore) domain.ReviewRepository {
	return &reviewRepository{store: store}
}

func (r *reviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	snap, err := r.store.Get(ctx, domain.CollectionReviews, id)
	if err != nil {
		return nil, err
	}
	var rev domain.Review
	if err := snap.Decode(&rev); err != nil {
		return nil, err
	}
	return &rev, nil
}

func (r *reviewRepository) Create(ctx context.Context, rev *domain.Review) error {
	doc, err := domain.ToDocument(rev)
	if err != nil {
		return err
	}
	id, err := r.store.Create(ctx, domain.CollectionReviews, rev.ID, doc)
	if err != nil {
		return err
	}
	rev.ID = id
	return nil
}

func (r *reviewRepository) Update(ctx context.Context, id string, patch domain.Document) error {
	return r.store.Update(ctx, domain.CollectionReviews, id, patch)
}

func (r *reviewRepository) ListByUser(ctx context.Context, uid string) ([]domain.Review, error) {
	return r.find(ctx, domain.Query{
		Filters: []domain.Filter{domain.Where("userId", domain.OpEqual, uid)},
		OrderBy: newestFirst,
	})
}

func (r *reviewRepository) ListByRestaurant(ctx context.Context, restaurantID string) ([]domain.Review, error) {
	return r.find(ctx, domain.Query{
		Filters: []domain.Filter{domain.Where("restaurantId", domain.OpEqual, restaurantID)},
		OrderBy: newestFirst,
	})
}

func (r *reviewRepository) ListAll(ctx context.Context) ([]domain.Review, error) {
	return r.find(ctx, domain.Query{})
}

func (r *reviewRepository) find(ctx context.Context, q domain.Query) ([]domain.Review, error) {
	snaps, err := r.store.Find(ctx, domain.CollectionReviews, q)
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.Review](snaps)
}
