package document

import (
	"context"

	"see-eat-backend/internal/domain"
)

type userRepository struct {
	store domain.DocumentStore
}

func NewUserRepository(store domain.DocumentStore) domain.UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) GetByID(ctx context.Context, uid string) (*domain.UserProfile, error) {
	snap, err := r.store.Get(ctx, domain.CollectionUsers, uid)
	if err != nil {
		return nil, err
	}
	var p domain.UserProfile
	if err := snap.Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *userRepository) Create(ctx context.Context, profile *domain.UserProfile) error {
	doc, err := domain.ToDocument(profile)
	if err != nil {
		return err
	}
	_, err = r.store.Create(ctx, domain.CollectionUsers, profile.UID, doc)
	return err
}

func (r *userRepository) Merge(ctx context.Context, uid string, patch domain.Document) error {
	return r.store.Update(ctx, domain.CollectionUsers, uid, patch)
}

func (r *userRepository) List(ctx context.Context, role domain.Role) ([]domain.UserProfile, error) {
	q := domain.Query{OrderBy: []domain.OrderBy{{Field: domain.FieldCreatedAt, Desc: true}}}
	if role != "" {
		q.Filters = append(q.Filters, domain.Where("role", domain.OpEqual, string(role)))
	}
	snaps, err := r.store.Find(ctx, domain.CollectionUsers, q)
	if err != nil {
		return nil, err
	}
	return decodeAll[domain.UserProfile](snaps)
}
