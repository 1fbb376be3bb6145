package redis_test

import (
	"context"
	"testing"
	"time"

	"see-eat-backend/internal/domain"
	"see-eat-backend/internal/repository/redis"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func sampleMenu(rid string) *domain.Menu {
	m := domain.NewMenu(rid, rid+"-slug")
	c := m.AddCategory(domain.CategoryInput{Name: "Mains"}, domain.NewLocalID)
	m.AddItem(c.ID, domain.ItemInput{Name: "Ramen"}, domain.NewLocalID)
	return m
}

func TestWorkingCopies(t *testing.T) {
	ctx := context.Background()
	_, client := newMiniredis(t)

	backends := map[string]domain.WorkingCopyRepository{
		"redis":  redis.NewWorkingCopyRepository(client, time.Hour),
		"memory": redis.NewWorkingCopyRepository(nil, time.Hour),
	}

	for name, repo := range backends {
		repo := repo
		t.Run(name, func(t *testing.T) {
			_, err := repo.Get(ctx, "u1", "r1")
			assert.ErrorIs(t, err, domain.ErrNotFound)

			require.NoError(t, repo.Put(ctx, "u1", "r1", sampleMenu("r1")))
			require.NoError(t, repo.Put(ctx, "u1", "r2", sampleMenu("r2")))
			require.NoError(t, repo.Put(ctx, "u2", "r1", sampleMenu("r1")))

			got, err := repo.Get(ctx, "u1", "r1")
			require.NoError(t, err)
			assert.Equal(t, "r1", got.RestaurantID)
			assert.Equal(t, 1, got.ItemCount())

			// Mutating a returned copy does not touch the stored one.
			got.Categories = nil
			again, err := repo.Get(ctx, "u1", "r1")
			require.NoError(t, err)
			assert.Len(t, again.Categories, 1)

			n, err := repo.DeleteAllForUser(ctx, "u1")
			require.NoError(t, err)
			assert.Equal(t, 2, n)

			_, err = repo.Get(ctx, "u1", "r2")
			assert.ErrorIs(t, err, domain.ErrNotFound)
			_, err = repo.Get(ctx, "u2", "r1")
			assert.NoError(t, err)

			require.NoError(t, repo.Delete(ctx, "u2", "r1"))
			_, err = repo.Get(ctx, "u2", "r1")
			assert.ErrorIs(t, err, domain.ErrNotFound)
		})
	}
}

func TestWorkingCopyExpiry(t *testing.T) {
	ctx := context.Background()
	mr, client := newMiniredis(t)
	repo := redis.NewWorkingCopyRepository(client, time.Minute)

	require.NoError(t, repo.Put(ctx, "u1", "r1", sampleMenu("r1")))
	assert.True(t, mr.Exists("menubuilder:u1:r1"))

	mr.FastForward(2 * time.Minute)
	_, err := repo.Get(ctx, "u1", "r1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
