package domain_test

import (
	"testing"

	"see-eat-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"La Bella Italia":    "la-bella-italia",
		"Café Crème & Co.":   "cafe-creme-co",
		"  Sakura -- Sushi ": "sakura-sushi",
		"寿司":                 "",
	}
	for in, want := range tests {
		assert.Equal(t, want, domain.Slugify(in), in)
	}
}

func TestMenuSlug(t *testing.T) {
	assert.Equal(t, "taco-loco-0f8e2a1c", domain.MenuSlug("Taco Loco", "0f8e2a1c-3b4d-4e5f"))
	assert.Equal(t, "rest1", domain.MenuSlug("", "rest1"))
}
