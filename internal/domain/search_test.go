package domain_test

import (
	"testing"
	"time"

	"see-eat-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func restaurantFixtures() []domain.RestaurantProfile {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return []domain.RestaurantProfile{
		{
			ID: "r1", RestaurantName: "Pizza Napoli", Description: "Wood-fired Neapolitan pies",
			Cuisine: []string{"Italian", "Pizza"}, DietaryOptions: []string{"Vegetarian", "Gluten-Free"},
			Address: domain.Address{Street: "1 Via Roma", City: "Springfield"}, CreatedAt: base,
		},
		{
			ID: "r2", RestaurantName: "La Bella Italia", Description: "Fresh pasta and PIZZA al taglio",
			Cuisine: []string{"Italian"}, DietaryOptions: []string{"Vegetarian"},
			CreatedAt: base.Add(48 * time.Hour),
		},
		{
			ID: "r3", RestaurantName: "Pizza Express", Description: "Fast slices",
			Cuisine: []string{"Italian"}, DietaryOptions: []string{"Vegan"},
			CreatedAt: base.Add(24 * time.Hour),
		},
		{
			ID: "r4", RestaurantName: "Taco Loco", Description: "Tacos and a pizza-style quesadilla",
			Cuisine: []string{"Mexican", "Italian"}, DietaryOptions: []string{"Vegetarian"},
			CreatedAt: base.Add(72 * time.Hour),
		},
		{
			ID: "r5", RestaurantName: "Sakura Sushi", Description: "Omakase",
			Cuisine: []string{"Japanese"}, DietaryOptions: []string{"Gluten-Free"},
			Address: domain.Address{Street: "9 Pizza Lane", City: "Springfield"},
			CreatedAt: base.Add(96 * time.Hour),
		},
	}
}

func ids(list []domain.RestaurantProfile) []string {
	out := make([]string, 0, len(list))
	for _, r := range list {
		out = append(out, r.ID)
	}
	return out
}

func TestFilterRestaurants(t *testing.T) {
	t.Run("Text, primary cuisine and dietary tags combine", func(t *testing.T) {
		got := domain.FilterRestaurants(restaurantFixtures(), domain.RestaurantSearch{
			SearchTerm:  "pizza",
			Cuisine:     "Italian",
			DietaryTags: []string{"Vegetarian"},
		})
		// r3 lacks Vegetarian, r4's first cuisine is Mexican, r5 is Japanese.
		assert.ElementsMatch(t, []string{"r1", "r2"}, ids(got))
	})

	t.Run("Cuisine matches the first entry case-insensitively", func(t *testing.T) {
		got := domain.FilterRestaurants(restaurantFixtures(), domain.RestaurantSearch{Cuisine: "italian"})
		assert.ElementsMatch(t, []string{"r1", "r2", "r3"}, ids(got))
	})

	t.Run("Text search covers the address", func(t *testing.T) {
		got := domain.FilterRestaurants(restaurantFixtures(), domain.RestaurantSearch{SearchTerm: "pizza lane"})
		assert.Equal(t, []string{"r5"}, ids(got))
	})

	t.Run("Dietary tags are conjunctive", func(t *testing.T) {
		got := domain.FilterRestaurants(restaurantFixtures(), domain.RestaurantSearch{
			DietaryTags: []string{"Vegetarian", "Gluten-Free"},
		})
		assert.Equal(t, []string{"r1"}, ids(got))
	})

	t.Run("Sort newest first after filtering", func(t *testing.T) {
		got := domain.FilterRestaurants(restaurantFixtures(), domain.RestaurantSearch{
			Cuisine: "Italian",
			SortBy:  domain.SortNewest,
		})
		assert.Equal(t, []string{"r2", "r3", "r1"}, ids(got))
	})

	t.Run("Sort by name A-Z", func(t *testing.T) {
		got := domain.FilterRestaurants(restaurantFixtures(), domain.RestaurantSearch{SortBy: domain.SortName})
		assert.Equal(t, []string{"r2", "r3", "r1", "r5", "r4"}, ids(got))
	})
}

func spicy(n int) *int { return &n }

func sampleMenu() *domain.Menu {
	return &domain.Menu{
		Categories: []domain.MenuCategory{
			{
				ID: "mains", Order: 1,
				Items: []domain.MenuItem{
					{ID: "lasagna", CategoryID: "mains", Name: "Lasagna", DietaryTags: []string{"Vegetarian"}, Allergens: []string{"Milk", "Wheat"}, Order: 0},
					{ID: "risotto", CategoryID: "mains", Name: "Mushroom Risotto", DietaryTags: []string{"Vegetarian", "Gluten-Free"}, Allergens: []string{"Milk"}, Order: 1},
					{ID: "arrabbiata", CategoryID: "mains", Name: "Penne Arrabbiata", Description: "spicy tomato", DietaryTags: []string{"Vegan", "Vegetarian"}, Allergens: []string{"Wheat"}, SpicyLevel: 2, Order: 2},
				},
			},
			{
				ID: "starters", Order: 0,
				Items: []domain.MenuItem{
					{ID: "bruschetta", CategoryID: "starters", Name: "Bruschetta", DietaryTags: []string{"Vegan", "Vegetarian"}, Allergens: []string{"Wheat"}, Order: 1},
					{ID: "salad", CategoryID: "starters", Name: "Caprese Salad", DietaryTags: []string{"Vegetarian", "Gluten-Free"}, Allergens: []string{"Milk"}, Order: 0},
				},
			},
		},
	}
}

func itemIDs(items []domain.MenuItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestFilterMenuItems(t *testing.T) {
	t.Run("No filter orders by category then item order", func(t *testing.T) {
		got := domain.FilterMenuItems(sampleMenu(), domain.MenuItemFilter{})
		assert.Equal(t, []string{"salad", "bruschetta", "lasagna", "risotto", "arrabbiata"}, itemIDs(got))
	})

	t.Run("Dietary tags require every selected tag", func(t *testing.T) {
		got := domain.FilterMenuItems(sampleMenu(), domain.MenuItemFilter{
			DietaryTags: []string{"Vegetarian", "Gluten-Free"},
		})
		assert.Equal(t, []string{"salad", "risotto"}, itemIDs(got))
	})

	t.Run("Any selected allergen excludes the item", func(t *testing.T) {
		got := domain.FilterMenuItems(sampleMenu(), domain.MenuItemFilter{
			Allergens: []string{"Milk", "Peanuts"},
		})
		assert.Equal(t, []string{"bruschetta", "arrabbiata"}, itemIDs(got))
	})

	t.Run("Allergen exclusion wins over matching dietary tags", func(t *testing.T) {
		got := domain.FilterMenuItems(sampleMenu(), domain.MenuItemFilter{
			DietaryTags: []string{"Vegan"},
			Allergens:   []string{"Wheat"},
		})
		assert.Empty(t, got)
	})

	t.Run("Category all disables the category filter", func(t *testing.T) {
		all := domain.FilterMenuItems(sampleMenu(), domain.MenuItemFilter{CategoryID: domain.CategoryAll})
		assert.Len(t, all, 5)

		starters := domain.FilterMenuItems(sampleMenu(), domain.MenuItemFilter{CategoryID: "starters"})
		assert.Equal(t, []string{"salad", "bruschetta"}, itemIDs(starters))
	})

	t.Run("Category filter follows the holding category", func(t *testing.T) {
		m := sampleMenu()
		m.Categories[1].Items[0].CategoryID = "mains"
		m.Categories[0].Items[0].CategoryID = ""

		starters := domain.FilterMenuItems(m, domain.MenuItemFilter{CategoryID: "starters"})
		assert.Equal(t, []string{"salad", "bruschetta"}, itemIDs(starters))
		assert.Equal(t, "starters", starters[1].CategoryID)

		mains := domain.FilterMenuItems(m, domain.MenuItemFilter{CategoryID: "mains"})
		assert.Equal(t, []string{"lasagna", "risotto", "arrabbiata"}, itemIDs(mains))
	})

	t.Run("Spicy level is an exact match", func(t *testing.T) {
		got := domain.FilterMenuItems(sampleMenu(), domain.MenuItemFilter{SpicyLevel: spicy(2)})
		assert.Equal(t, []string{"arrabbiata"}, itemIDs(got))

		mild := domain.FilterMenuItems(sampleMenu(), domain.MenuItemFilter{SpicyLevel: spicy(0)})
		assert.Len(t, mild, 4)
	})

	t.Run("Text matches name or description", func(t *testing.T) {
		got := domain.FilterMenuItems(sampleMenu(), domain.MenuItemFilter{SearchTerm: "SPICY"})
		assert.Equal(t, []string{"arrabbiata"}, itemIDs(got))
	})
}
