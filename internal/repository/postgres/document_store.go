package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"see-eat-backend/internal/domain"
	"see-eat-backend/pkg/metrics"
	"see-eat-backend/pkg/retry"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DocumentStore keeps every collection in one JSONB table:
// documents(collection, id, data, created_at, updated_at).
type DocumentStore struct {
	db         *pgxpool.Pool
	readPolicy retry.Policy
}

func NewDocumentStore(db *pgxpool.Pool, readAttempts int) *DocumentStore {
	p := retry.DefaultPolicy()
	if readAttempts > 0 {
		p.Attempts = readAttempts
	}
	p.Retryable = isTransient
	return &DocumentStore{db: db, readPolicy: p}
}

// isTransient excludes misses and errors reported by the server itself;
// those will not change on a second attempt.
func isTransient(err error) bool {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, pgx.ErrNoRows) {
		return false
	}
	var pgErr *pgconn.PgError
	return !errors.As(err, &pgErr)
}

func observe(collection, op string, start time.Time, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		err = nil
	}
	metrics.ObserveDocstore(collection, op, time.Since(start).Seconds(), err)
}

func encode(data domain.Document) ([]byte, error) {
	doc := data.Clone()
	delete(doc, domain.FieldID)
	delete(doc, domain.FieldCreatedAt)
	delete(doc, domain.FieldUpdatedAt)
	return json.Marshal(doc)
}

func decode(raw []byte) (domain.Document, error) {
	doc := domain.Document{}
	if len(raw) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

func (s *DocumentStore) Get(ctx context.Context, collection, id string) (snap *domain.Snapshot, err error) {
	defer func(start time.Time) { observe(collection, "get", start, err) }(time.Now())

	query := `SELECT data, created_at, updated_at FROM documents WHERE collection = $1 AND id = $2`

	err = retry.Do(ctx, s.readPolicy, func(ctx context.Context) error {
		var raw []byte
		out := domain.Snapshot{ID: id}
		if err := s.db.QueryRow(ctx, query, collection, id).Scan(&raw, &out.CreatedAt, &out.UpdatedAt); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrNotFound
			}
			return err
		}
		data, err := decode(raw)
		if err != nil {
			return err
		}
		out.Data = data
		snap = &out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// fieldPath splits a dotted field into a JSONB path array.
func fieldPath(field string) []string {
	return strings.Split(field, ".")
}

func column(field string) (string, bool) {
	switch field {
	case domain.FieldCreatedAt:
		return "created_at", true
	case domain.FieldUpdatedAt:
		return "updated_at", true
	}
	return "", false
}

func buildFind(collection string, q domain.Query) (string, []interface{}, error) {
	var sb strings.Builder
	args := []interface{}{collection}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	sb.WriteString(`SELECT id, data, created_at, updated_at FROM documents WHERE collection = $1`)

	for _, f := range q.Filters {
		if col, ok := column(f.Field); ok {
			switch f.Op {
			case domain.OpEqual:
				fmt.Fprintf(&sb, " AND %s = %s", col, arg(f.Value))
			case domain.OpNotEqual:
				fmt.Fprintf(&sb, " AND %s <> %s", col, arg(f.Value))
			default:
				return "", nil, fmt.Errorf("operator %s not supported on %s", f.Op, f.Field)
			}
			continue
		}

		path := arg(fieldPath(f.Field))
		switch f.Op {
		case domain.OpEqual:
			v, err := json.Marshal(f.Value)
			if err != nil {
				return "", nil, err
			}
			fmt.Fprintf(&sb, " AND data #> %s::text[] = %s::jsonb", path, arg(string(v)))
		case domain.OpNotEqual:
			v, err := json.Marshal(f.Value)
			if err != nil {
				return "", nil, err
			}
			fmt.Fprintf(&sb, " AND (data #> %[1]s::text[] IS NULL OR data #> %[1]s::text[] <> %[2]s::jsonb)", path, arg(string(v)))
		case domain.OpArrayContains:
			v, err := json.Marshal([]interface{}{f.Value})
			if err != nil {
				return "", nil, err
			}
			fmt.Fprintf(&sb, " AND data #> %s::text[] @> %s::jsonb", path, arg(string(v)))
		default:
			return "", nil, fmt.Errorf("unknown filter operator %q", f.Op)
		}
	}

	orders := make([]string, 0, len(q.OrderBy)+1)
	for _, o := range q.OrderBy {
		expr, ok := column(o.Field)
		if !ok {
			expr = fmt.Sprintf("data #> %s::text[]", arg(fieldPath(o.Field)))
		}
		if o.Desc {
			expr += " DESC"
		}
		orders = append(orders, expr)
	}
	orders = append(orders, "id")
	sb.WriteString(" ORDER BY " + strings.Join(orders, ", "))

	if q.Limit > 0 {
		sb.WriteString(" LIMIT " + arg(q.Limit))
	}
	if q.Offset > 0 {
		sb.WriteString(" OFFSET " + arg(q.Offset))
	}
	return sb.String(), args, nil
}

func (s *DocumentStore) Find(ctx context.Context, collection string, q domain.Query) (out []domain.Snapshot, err error) {
	defer func(start time.Time) { observe(collection, "find", start, err) }(time.Now())

	query, args, err := buildFind(collection, q)
	if err != nil {
		return nil, err
	}

	err = retry.Do(ctx, s.readPolicy, func(ctx context.Context) error {
		rows, err := s.db.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		snaps := []domain.Snapshot{}
		for rows.Next() {
			var (
				snap domain.Snapshot
				raw  []byte
			)
			if err := rows.Scan(&snap.ID, &raw, &snap.CreatedAt, &snap.UpdatedAt); err != nil {
				return err
			}
			if snap.Data, err = decode(raw); err != nil {
				return err
			}
			snaps = append(snaps, snap)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		out = snaps
		return nil
	})
	return out, err
}

func (s *DocumentStore) Create(ctx context.Context, collection, id string, data domain.Document) (_ string, err error) {
	defer func(start time.Time) { observe(collection, "create", start, err) }(time.Now())

	raw, err := encode(data)
	if err != nil {
		return "", err
	}
	if id == "" {
		id = uuid.NewString()
	}

	tag, err := s.db.Exec(ctx, `
		INSERT INTO documents (collection, id, data, created_at, updated_at)
		VALUES ($1, $2, $3::jsonb, NOW(), NOW())
		ON CONFLICT (collection, id) DO NOTHING`,
		collection, id, string(raw))
	if err != nil {
		return "", err
	}
	if tag.RowsAffected() == 0 {
		return "", domain.ErrAlreadyExists
	}
	return id, nil
}

func (s *DocumentStore) Set(ctx context.Context, collection, id string, data domain.Document) (err error) {
	defer func(start time.Time) { observe(collection, "set", start, err) }(time.Now())

	raw, err := encode(data)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO documents (collection, id, data, created_at, updated_at)
		VALUES ($1, $2, $3::jsonb, NOW(), NOW())
		ON CONFLICT (collection, id)
		DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`,
		collection, id, string(raw))
	return err
}

func (s *DocumentStore) Merge(ctx context.Context, collection, id string, data domain.Document) (err error) {
	defer func(start time.Time) { observe(collection, "merge", start, err) }(time.Now())

	raw, err := encode(data)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO documents (collection, id, data, created_at, updated_at)
		VALUES ($1, $2, $3::jsonb, NOW(), NOW())
		ON CONFLICT (collection, id)
		DO UPDATE SET data = documents.data || EXCLUDED.data, updated_at = NOW()`,
		collection, id, string(raw))
	return err
}

func (s *DocumentStore) Update(ctx context.Context, collection, id string, data domain.Document) (err error) {
	defer func(start time.Time) { observe(collection, "update", start, err) }(time.Now())

	raw, err := encode(data)
	if err != nil {
		return err
	}
	tag, err := s.db.Exec(ctx, `
		UPDATE documents SET data = data || $3::jsonb, updated_at = NOW()
		WHERE collection = $1 AND id = $2`,
		collection, id, string(raw))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *DocumentStore) Delete(ctx context.Context, collection, id string) (err error) {
	defer func(start time.Time) { observe(collection, "delete", start, err) }(time.Now())

	_, err = s.db.Exec(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, id)
	return err
}
