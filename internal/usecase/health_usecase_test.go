package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthUsecase(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	t.Run("all healthy", func(t *testing.T) {
		status, healthy := NewHealthUsecase(map[string]HealthCheck{"docstore": ok, "redis": nil}).Check(context.Background())
		assert.True(t, healthy)
		assert.Equal(t, map[string]string{"status": "ok", "docstore": "ok"}, status)
	})

	t.Run("one dependency down", func(t *testing.T) {
		status, healthy := NewHealthUsecase(map[string]HealthCheck{"docstore": ok, "redis": down}).Check(context.Background())
		assert.False(t, healthy)
		assert.Equal(t, "degraded", status["status"])
		assert.Equal(t, "down", status["redis"])
	})
}
