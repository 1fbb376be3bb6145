package domain_test

import (
	"encoding/json"
	"testing"

	"see-eat-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserProfileVariants(t *testing.T) {
	t.Run("Role selects the variant when decoding", func(t *testing.T) {
		raw := `{"uid":"u1","email":"a@b.c","displayName":"Ana","role":"customer","favoriteRestaurants":["rest1"]}`

		var p domain.UserProfile
		require.NoError(t, json.Unmarshal([]byte(raw), &p))

		require.NotNil(t, p.Customer())
		assert.Nil(t, p.Restaurant())
		assert.Equal(t, []string{"rest1"}, p.Customer().FavoriteRestaurants)
	})

	t.Run("Variant fields are stored flat", func(t *testing.T) {
		p := domain.UserProfile{
			UID:     "u2",
			Role:    domain.RoleAdmin,
			Details: &domain.AdminDetails{Permissions: []string{"restaurants:toggle"}},
		}
		raw, err := json.Marshal(p)
		require.NoError(t, err)

		var flat map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &flat))
		assert.Equal(t, "admin", flat["role"])
		assert.Equal(t, []interface{}{"restaurants:toggle"}, flat["permissions"])
	})

	t.Run("Unknown role is rejected", func(t *testing.T) {
		var p domain.UserProfile
		err := json.Unmarshal([]byte(`{"uid":"u3","role":"client"}`), &p)
		assert.ErrorIs(t, err, domain.ErrUnknownRole)
	})
}

func TestSanitizeProfilePatch(t *testing.T) {
	stored := &domain.UserProfile{UID: "u1", Role: domain.RoleCustomer}
	patch := domain.Document{"displayName": "New", "role": "admin", "uid": "other", "createdAt": "yesterday"}

	got := domain.SanitizeProfilePatch(stored, patch)

	assert.Equal(t, "customer", got["role"])
	assert.Equal(t, "New", got["displayName"])
	assert.NotContains(t, got, "uid")
	assert.NotContains(t, got, "createdAt")
	assert.Equal(t, "admin", patch["role"], "input patch is not modified")
}
