package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"see-eat-backend/internal/domain"
	"see-eat-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileRoleIsImmutable(t *testing.T) {
	f := newFixture()
	f.addUser(t, "cust1", domain.RoleCustomer)
	uc := usecase.NewProfileUsecase(f.users, f.restaurants)
	ctx := ctxAs("cust1", domain.RoleCustomer)

	for _, role := range []string{"admin", "restaurant", "nonsense"} {
		t.Run("role "+role, func(t *testing.T) {
			p, err := uc.UpdateProfile(ctx, "cust1", domain.Document{
				"role":        role,
				"displayName": "Ana " + role,
			})
			require.NoError(t, err)
			assert.Equal(t, domain.RoleCustomer, p.Role)
			assert.Equal(t, "Ana "+role, p.DisplayName)
			assert.NotNil(t, p.Customer())

			stored, err := f.users.GetByID(context.Background(), "cust1")
			require.NoError(t, err)
			assert.Equal(t, domain.RoleCustomer, stored.Role)
		})
	}

	t.Run("identity fields are ignored", func(t *testing.T) {
		p, err := uc.UpdateProfile(ctx, "cust1", domain.Document{"uid": "other", "photoURL": "https://cdn.example.com/a.png"})
		require.NoError(t, err)
		assert.Equal(t, "cust1", p.UID)
		assert.Equal(t, "https://cdn.example.com/a.png", p.PhotoURL)
	})

	t.Run("malformed variant fields are rejected", func(t *testing.T) {
		_, err := uc.UpdateProfile(ctx, "cust1", domain.Document{"favoriteRestaurants": "not-a-list"})
		appErr := assertAppError(t, err, http.StatusBadRequest)
		assert.Equal(t, "Invalid profile data", appErr.Message)
	})
}

func TestProfileAccess(t *testing.T) {
	f := newFixture()
	f.addUser(t, "cust1", domain.RoleCustomer)
	f.addUser(t, "cust2", domain.RoleCustomer)
	f.addUser(t, "owner1", domain.RoleRestaurant)
	f.addRestaurant(t, "owner1", "Sakura Sushi", domain.RestaurantActive)
	uc := usecase.NewProfileUsecase(f.users, f.restaurants)

	t.Run("users cannot read other profiles", func(t *testing.T) {
		_, err := uc.GetProfile(ctxAs("cust2", domain.RoleCustomer), "cust1")
		assertAppError(t, err, http.StatusForbidden)
	})

	t.Run("admins can read any profile", func(t *testing.T) {
		p, err := uc.GetProfile(ctxAs("admin1", domain.RoleAdmin), "cust1")
		require.NoError(t, err)
		assert.Equal(t, "cust1", p.UID)
	})

	t.Run("favorites toggle on and off", func(t *testing.T) {
		ctx := ctxAs("cust1", domain.RoleCustomer)
		p, err := uc.ToggleFavoriteRestaurant(ctx, "cust1", "owner1")
		require.NoError(t, err)
		assert.Equal(t, []string{"owner1"}, p.Customer().FavoriteRestaurants)

		p, err = uc.ToggleFavoriteRestaurant(ctx, "cust1", "owner1")
		require.NoError(t, err)
		assert.Empty(t, p.Customer().FavoriteRestaurants)
	})

	t.Run("favorite of unknown restaurant", func(t *testing.T) {
		_, err := uc.ToggleFavoriteRestaurant(ctxAs("cust1", domain.RoleCustomer), "cust1", "missing")
		assertAppError(t, err, http.StatusNotFound)
	})

	t.Run("restaurants have no favorites", func(t *testing.T) {
		_, err := uc.ToggleFavoriteRestaurant(ctxAs("owner1", domain.RoleRestaurant), "owner1", "owner1")
		assertAppError(t, err, http.StatusForbidden)
	})

	t.Run("only admins list users", func(t *testing.T) {
		_, err := uc.ListUsers(ctxAs("cust1", domain.RoleCustomer), "")
		assertAppError(t, err, http.StatusForbidden)

		users, err := uc.ListUsers(ctxAs("admin1", domain.RoleAdmin), domain.RoleCustomer)
		require.NoError(t, err)
		assert.Len(t, users, 2)
	})
}
