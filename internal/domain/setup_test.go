package domain_test

import (
	"testing"

	"see-eat-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResumeStep(t *testing.T) {
	tests := []struct {
		name  string
		draft domain.Document
		want  domain.SetupStep
	}{
		{"No draft", nil, domain.StepBasic},
		{"Empty draft", domain.Document{}, domain.StepBasic},
		{"Basic done", domain.Document{"basic": map[string]interface{}{}}, domain.StepLocation},
		{"Basic and location done", domain.Document{"basic": 1, "location": 1}, domain.StepSchedule},
		{"Gap resumes at first absent key", domain.Document{"basic": 1, "schedule": 1}, domain.StepLocation},
		{"Key presence counts even when null", domain.Document{"basic": nil}, domain.StepLocation},
		{"Every key present", domain.Document{"basic": 1, "location": 1, "schedule": 1, "menu": 1}, domain.StepBasic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ResumeStep(tt.draft))
		})
	}
}

func TestSetupStepNavigation(t *testing.T) {
	next, ok := domain.StepBasic.Next()
	assert.True(t, ok)
	assert.Equal(t, domain.StepLocation, next)

	_, ok = domain.StepMenu.Next()
	assert.False(t, ok)
	assert.True(t, domain.StepMenu.IsLast())

	_, err := domain.ParseSetupStep("payment")
	assert.ErrorIs(t, err, domain.ErrInvalidStep)
}

func TestBuildRestaurantProfile(t *testing.T) {
	draft := domain.Document{
		"basic": map[string]interface{}{
			"restaurantName": "Taco Loco",
			"description":    "Street tacos",
			"phone":          "+15551234567",
			"cuisine":        []interface{}{"Mexican"},
		},
		"location": map[string]interface{}{
			"address": map[string]interface{}{"street": "1 Main St", "city": "Austin", "state": "TX", "postalCode": "73301", "country": "USA"},
		},
		"menu": map[string]interface{}{
			"menuItems": []interface{}{
				map[string]interface{}{"name": "Taco", "category": "Tacos", "price": "3.50"},
			},
		},
	}

	owner := domain.Session{UserID: "user-1", Email: "owner@example.com", Role: domain.RoleRestaurant}
	profile, items, err := domain.BuildRestaurantProfile(owner, draft)
	require.NoError(t, err)

	assert.Equal(t, "user-1", profile.ID)
	assert.Equal(t, "Taco Loco", profile.DisplayName)
	assert.Equal(t, domain.RestaurantPending, profile.Status)
	assert.Equal(t, []domain.SetupMenuItem{}, profile.MenuItems)
	assert.Equal(t, []string{}, profile.Reviews)
	assert.Equal(t, domain.RatingSummary{}, profile.Ratings)
	assert.Equal(t, "Austin", profile.Address.City)
	assert.Len(t, profile.Schedule, 7, "missing schedule step falls back to defaults")
	require.Len(t, items, 1)
	assert.Equal(t, "3.5", items[0].Price.String())
}
