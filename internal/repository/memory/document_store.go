// Package memory is an in-process document store used for tests and local
// development without a database.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"see-eat-backend/internal/domain"

	"github.com/google/uuid"
)

type record struct {
	data      domain.Document
	createdAt time.Time
	updatedAt time.Time
}

type DocumentStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]*record
	now         func() time.Time
}

func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		collections: make(map[string]map[string]*record),
		now:         time.Now,
	}
}

// SetClock replaces the timestamp source.
func (s *DocumentStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

// normalize round-trips data through JSON so stored values have the same
// shapes a real store would return (float64 numbers, maps, slices).
func normalize(data domain.Document) (domain.Document, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	out := domain.Document{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	delete(out, domain.FieldID)
	delete(out, domain.FieldCreatedAt)
	delete(out, domain.FieldUpdatedAt)
	return out, nil
}

func (s *DocumentStore) collection(name string) map[string]*record {
	c, ok := s.collections[name]
	if !ok {
		c = make(map[string]*record)
		s.collections[name] = c
	}
	return c
}

func (r *record) snapshot(id string) domain.Snapshot {
	return domain.Snapshot{
		ID:        id,
		Data:      r.data.Clone(),
		CreatedAt: r.createdAt,
		UpdatedAt: r.updatedAt,
	}
}

func (s *DocumentStore) Get(ctx context.Context, collection, id string) (*domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.collections[collection][id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	snap := r.snapshot(id)
	return &snap, nil
}

func (s *DocumentStore) Find(ctx context.Context, collection string, q domain.Query) ([]domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	filters := make([]domain.Filter, len(q.Filters))
	for i, f := range q.Filters {
		v, err := normalizeValue(f.Value)
		if err != nil {
			return nil, fmt.Errorf("filter %s: %w", f.Field, err)
		}
		filters[i] = domain.Filter{Field: f.Field, Op: f.Op, Value: v}
	}

	s.mu.RLock()
	out := []domain.Snapshot{}
	for id, r := range s.collections[collection] {
		if matchesAll(r, filters) {
			out = append(out, r.snapshot(id))
		}
	}
	s.mu.RUnlock()

	sortSnapshots(out, q.OrderBy)

	if q.Offset > 0 {
		if q.Offset >= len(out) {
			return []domain.Snapshot{}, nil
		}
		out = out[q.Offset:]
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *DocumentStore) Create(ctx context.Context, collection, id string, data domain.Document) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	doc, err := normalize(data)
	if err != nil {
		return "", err
	}
	if id == "" {
		id = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collection(collection)
	if _, exists := c[id]; exists {
		return "", domain.ErrAlreadyExists
	}
	now := s.now()
	c[id] = &record{data: doc, createdAt: now, updatedAt: now}
	return id, nil
}

func (s *DocumentStore) Set(ctx context.Context, collection, id string, data domain.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc, err := normalize(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collection(collection)
	now := s.now()
	if r, ok := c[id]; ok {
		r.data = doc
		r.updatedAt = now
		return nil
	}
	c[id] = &record{data: doc, createdAt: now, updatedAt: now}
	return nil
}

func (s *DocumentStore) Merge(ctx context.Context, collection, id string, data domain.Document) error {
	return s.merge(ctx, collection, id, data, true)
}

func (s *DocumentStore) Update(ctx context.Context, collection, id string, data domain.Document) error {
	return s.merge(ctx, collection, id, data, false)
}

func (s *DocumentStore) merge(ctx context.Context, collection, id string, data domain.Document, upsert bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	doc, err := normalize(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collection(collection)
	now := s.now()
	r, ok := c[id]
	if !ok {
		if !upsert {
			return domain.ErrNotFound
		}
		c[id] = &record{data: doc, createdAt: now, updatedAt: now}
		return nil
	}
	for k, v := range doc {
		r.data[k] = v
	}
	r.updatedAt = now
	return nil
}

func (s *DocumentStore) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections[collection], id)
	return nil
}

func normalizeValue(v interface{}) (interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out interface{}
	err = json.Unmarshal(raw, &out)
	return out, err
}

func fieldValue(r *record, field string) (interface{}, bool) {
	switch field {
	case domain.FieldCreatedAt:
		return r.createdAt, true
	case domain.FieldUpdatedAt:
		return r.updatedAt, true
	}

	// Dotted paths address nested objects, e.g. "address.city".
	var cur interface{} = map[string]interface{}(r.data)
	for _, part := range strings.Split(field, ".") {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		if cur, ok = m[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}

func matchesAll(r *record, filters []domain.Filter) bool {
	for _, f := range filters {
		v, ok := fieldValue(r, f.Field)
		switch f.Op {
		case domain.OpEqual:
			if !ok || !reflect.DeepEqual(v, f.Value) {
				return false
			}
		case domain.OpNotEqual:
			if ok && reflect.DeepEqual(v, f.Value) {
				return false
			}
		case domain.OpArrayContains:
			arr, isArr := v.([]interface{})
			if !ok || !isArr || !containsValue(arr, f.Value) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func containsValue(arr []interface{}, want interface{}) bool {
	for _, v := range arr {
		if reflect.DeepEqual(v, want) {
			return true
		}
	}
	return false
}

func sortSnapshots(list []domain.Snapshot, orders []domain.OrderBy) {
	if len(orders) == 0 {
		// Map iteration is random; keep results stable.
		sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
		return
	}
	sort.SliceStable(list, func(i, j int) bool {
		for _, o := range orders {
			c := compare(snapshotField(&list[i], o.Field), snapshotField(&list[j], o.Field))
			if c == 0 {
				continue
			}
			if o.Desc {
				return c > 0
			}
			return c < 0
		}
		return list[i].ID < list[j].ID
	})
}

func snapshotField(s *domain.Snapshot, field string) interface{} {
	r := &record{data: s.Data, createdAt: s.CreatedAt, updatedAt: s.UpdatedAt}
	v, _ := fieldValue(r, field)
	return v
}

// compare orders nil first, then numbers, strings, and times by value.
func compare(a, b interface{}) int {
	switch av := a.(type) {
	case nil:
		if b == nil {
			return 0
		}
		return -1
	case float64:
		if bv, ok := b.(float64); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv)
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0
			case !av:
				return -1
			}
			return 1
		}
	}
	if b == nil {
		return 1
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}
