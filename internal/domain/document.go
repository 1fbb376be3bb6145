package domain

import (
	"context"
	"encoding/json"
	"time"
)

// Collections of the document store.
const (
	CollectionUsers            = "users"
	CollectionRestaurants      = "restaurants"
	CollectionMenuItems        = "menuItems"
	CollectionMenus            = "menus"
	CollectionReviews          = "reviews"
	CollectionRestaurantDrafts = "restaurantDrafts"
)

// Server-managed fields. They are never written from document data and are
// injected back into the data when a snapshot is decoded.
const (
	FieldID        = "id"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

// Document is a schemaless JSON object.
type Document map[string]interface{}

type Snapshot struct {
	ID        string
	Data      Document
	CreatedAt time.Time
	UpdatedAt time.Time
}

type FilterOp string

const (
	OpEqual         FilterOp = "=="
	OpNotEqual      FilterOp = "!="
	OpArrayContains FilterOp = "array-contains"
)

type Filter struct {
	Field string
	Op    FilterOp
	Value interface{}
}

type OrderBy struct {
	Field string
	Desc  bool
}

type Query struct {
	Filters []Filter
	OrderBy []OrderBy
	Limit   int
	Offset  int
}

func Where(field string, op FilterOp, value interface{}) Filter {
	return Filter{Field: field, Op: op, Value: value}
}

// DocumentStore is the external document database boundary.
type DocumentStore interface {
	Get(ctx context.Context, collection, id string) (*Snapshot, error)
	Find(ctx context.Context, collection string, q Query) ([]Snapshot, error)
	// Create inserts a new document. An empty id is replaced by a generated one.
	Create(ctx context.Context, collection, id string, data Document) (string, error)
	// Set overwrites the whole document, creating it if needed.
	Set(ctx context.Context, collection, id string, data Document) error
	// Merge shallow-merges data into the document, creating it if needed.
	Merge(ctx context.Context, collection, id string, data Document) error
	// Update shallow-merges data into an existing document.
	Update(ctx context.Context, collection, id string, data Document) error
	Delete(ctx context.Context, collection, id string) error
}

// ToDocument converts a JSON-tagged struct into a Document, dropping the
// server-managed fields.
func ToDocument(v interface{}) (Document, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	delete(doc, FieldID)
	delete(doc, FieldCreatedAt)
	delete(doc, FieldUpdatedAt)
	return doc, nil
}

// Decode unmarshals the snapshot into v with id and timestamps filled in.
func (s *Snapshot) Decode(v interface{}) error {
	data := make(Document, len(s.Data)+3)
	for k, val := range s.Data {
		data[k] = val
	}
	data[FieldID] = s.ID
	if !s.CreatedAt.IsZero() {
		data[FieldCreatedAt] = s.CreatedAt
	}
	if !s.UpdatedAt.IsZero() {
		data[FieldUpdatedAt] = s.UpdatedAt
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

// Clone returns a shallow copy of d.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Has reports whether key is present, regardless of its value.
func (d Document) Has(key string) bool {
	_, ok := d[key]
	return ok
}
