// Package document implements the domain repositories on top of a
// domain.DocumentStore.
package document

import (
	"fmt"

	"see-eat-backend/internal/domain"
)

func decodeAll[T any](snaps []domain.Snapshot) ([]T, error) {
	out := make([]T, 0, len(snaps))
	for i := range snaps {
		var v T
		if err := snaps[i].Decode(&v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", snaps[i].ID, err)
		}
		out = append(out, v)
	}
	return out, nil
}
