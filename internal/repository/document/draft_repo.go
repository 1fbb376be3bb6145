package document

import (
	"context"

	"see-eat-backend/internal/domain"
)

type draftRepository struct {
	store domain.DocumentStore
}

func NewDraftRepository(store domain.DocumentStore) domain.DraftRepository {
	return &draftRepository{store: store}
}

func (r *draftRepository) Get(ctx context.Context, uid string) (domain.Document, error) {
	snap, err := r.store.Get(ctx, domain.CollectionRestaurantDrafts, uid)
	if err != nil {
		return nil, err
	}
	draft := snap.Data
	delete(draft, "uid")
	return draft, nil
}

// Save shallow-merges the step payloads into the stored draft.
func (r *draftRepository) Save(ctx context.Context, uid string, draft domain.Document) error {
	doc := draft.Clone()
	doc["uid"] = uid
	return r.store.Merge(ctx, domain.CollectionRestaurantDrafts, uid, doc)
}

func (r *draftRepository) Delete(ctx context.Context, uid string) error {
	return r.store.Delete(ctx, domain.CollectionRestaurantDrafts, uid)
}
