package validation_test

import (
	"testing"

	"see-eat-backend/internal/domain"
	"see-eat-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepValidation(t *testing.T) {
	v := validation.New()

	t.Run("Basic step requires name and cuisine", func(t *testing.T) {
		err := v.Struct(&domain.BasicInfoStep{Description: "x", Phone: "+15551234567"})
		require.Error(t, err)

		fields := validation.FormatValidationErrors(err)
		assert.Contains(t, fields, validation.FieldError{Field: "RestaurantName", Message: "Restaurant name is required"})
		assert.Contains(t, fields, validation.FieldError{Field: "Cuisine", Message: "Cuisine is required"})
	})

	t.Run("Phone accepts separators", func(t *testing.T) {
		err := v.Struct(&domain.BasicInfoStep{
			RestaurantName: "Taco Loco", Description: "Tacos", Phone: "(555) 123-4567", Cuisine: []string{"Mexican"},
		})
		assert.NoError(t, err)
	})

	t.Run("Open days need hours, closed days do not", func(t *testing.T) {
		ok := domain.ScheduleStep{Schedule: domain.Schedule{
			"monday": {Open: "09:00", Close: "17:00"},
			"sunday": {Closed: true},
		}}
		assert.NoError(t, v.Struct(&ok))

		missing := domain.ScheduleStep{Schedule: domain.Schedule{"monday": {Open: "09:00"}}}
		err := v.Struct(&missing)
		require.Error(t, err)
		assert.Contains(t, validation.Summary(err), "Closing time is required")

		badFormat := domain.ScheduleStep{Schedule: domain.Schedule{"monday": {Open: "9am", Close: "17:00"}}}
		assert.Error(t, v.Struct(&badFormat))
	})

	t.Run("Location needs every address part", func(t *testing.T) {
		err := v.Struct(&domain.LocationStep{Address: domain.Address{Street: "1 Main", City: "Austin"}})
		require.Error(t, err)
		assert.Len(t, validation.FormatValidationErrors(err), 3)
	})
}

func TestValidateMenuDocument(t *testing.T) {
	t.Run("Valid menu", func(t *testing.T) {
		doc := map[string]interface{}{
			"restaurantId": "rest1",
			"status":       "draft",
			"version":      2,
			"categories": []interface{}{
				map[string]interface{}{
					"id": "category-1", "name": "Mains", "order": 0,
					"items": []interface{}{
						map[string]interface{}{"id": "item-1", "name": "Lasagna", "price": "12.5", "spicyLevel": 0},
					},
				},
			},
		}
		assert.NoError(t, validation.ValidateMenuDocument(doc))
	})

	t.Run("Missing categories is rejected", func(t *testing.T) {
		err := validation.ValidateMenuDocument(map[string]interface{}{"restaurantId": "rest1"})
		var schemaErr *validation.SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.NotEmpty(t, schemaErr.Violations)
	})

	t.Run("Item without id is rejected", func(t *testing.T) {
		doc := map[string]interface{}{
			"restaurantId": "rest1",
			"categories": []interface{}{
				map[string]interface{}{"id": "c", "name": "Mains", "order": 0, "items": []interface{}{
					map[string]interface{}{"name": "Lasagna", "price": 12},
				}},
			},
		}
		assert.Error(t, validation.ValidateMenuDocument(doc))
	})
}
