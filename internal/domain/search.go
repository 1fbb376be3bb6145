package domain

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortOption string

const (
	SortNewest SortOption = "newest"
	SortName   SortOption = "name"
)

func (s SortOption) IsValid() bool {
	return s == "" || s == SortNewest || s == SortName
}

// CategoryAll disables the category filter.
const CategoryAll = "all"

type RestaurantSearch struct {
	SearchTerm  string     `form:"q"`
	Cuisine     string     `form:"cuisine"`
	DietaryTags []string   `form:"dietary"`
	SortBy      SortOption `form:"sort"`
	Limit       int        `form:"limit" validate:"min=0,max=100"`
	Offset      int        `form:"offset" validate:"min=0"`
}

type MenuItemFilter struct {
	CategoryID  string   `form:"category"`
	SearchTerm  string   `form:"q"`
	DietaryTags []string `form:"dietary"`
	Allergens   []string `form:"allergen"`
	SpicyLevel  *int     `form:"spicy" validate:"omitempty,min=0,max=5"`
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// hasAll reports whether every wanted tag is in tags. Tag comparison is exact.
func hasAll(tags, wanted []string) bool {
	for _, w := range wanted {
		found := false
		for _, t := range tags {
			if t == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// hasAny reports whether any excluded tag is in tags.
func hasAny(tags, excluded []string) bool {
	for _, e := range excluded {
		for _, t := range tags {
			if t == e {
				return true
			}
		}
	}
	return false
}

// MatchesRestaurant applies the text, cuisine and dietary predicates.
func MatchesRestaurant(r *RestaurantProfile, s RestaurantSearch) bool {
	if term := strings.TrimSpace(s.SearchTerm); term != "" {
		if !containsFold(r.RestaurantName, term) &&
			!containsFold(r.Description, term) &&
			!containsFold(r.Address.Formatted(), term) {
			return false
		}
	}
	if s.Cuisine != "" && !strings.EqualFold(r.PrimaryCuisine(), s.Cuisine) {
		return false
	}
	return hasAll(r.DietaryOptions, s.DietaryTags)
}

// FilterRestaurants returns the matching restaurants, sorted after filtering.
func FilterRestaurants(list []RestaurantProfile, s RestaurantSearch) []RestaurantProfile {
	out := make([]RestaurantProfile, 0, len(list))
	for i := range list {
		if MatchesRestaurant(&list[i], s) {
			out = append(out, list[i])
		}
	}
	SortRestaurants(out, s.SortBy)
	return out
}

func SortRestaurants(list []RestaurantProfile, by SortOption) {
	switch by {
	case SortNewest:
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		})
	case SortName:
		c := collate.New(language.Und, collate.IgnoreCase)
		sort.SliceStable(list, func(i, j int) bool {
			return c.CompareString(list[i].RestaurantName, list[j].RestaurantName) < 0
		})
	}
}

// MatchesMenuItem applies the item predicates. Dietary tags are conjunctive,
// allergens exclude the item on any overlap.
func MatchesMenuItem(it *MenuItem, f MenuItemFilter) bool {
	if f.CategoryID != "" && f.CategoryID != CategoryAll && it.CategoryID != f.CategoryID {
		return false
	}
	if term := strings.TrimSpace(f.SearchTerm); term != "" {
		if !containsFold(it.Name, term) && !containsFold(it.Description, term) {
			return false
		}
	}
	if !hasAll(it.DietaryTags, f.DietaryTags) {
		return false
	}
	if hasAny(it.Allergens, f.Allergens) {
		return false
	}
	if f.SpicyLevel != nil && it.SpicyLevel != *f.SpicyLevel {
		return false
	}
	return true
}

// FilterMenuItems flattens the menu and returns the matching items ordered
// by category order, then item order.
func FilterMenuItems(m *Menu, f MenuItemFilter) []MenuItem {
	cats := make([]MenuCategory, len(m.Categories))
	copy(cats, m.Categories)
	sort.SliceStable(cats, func(i, j int) bool { return cats[i].Order < cats[j].Order })

	out := []MenuItem{}
	for _, c := range cats {
		items := make([]MenuItem, len(c.Items))
		copy(items, c.Items)
		sort.SliceStable(items, func(i, j int) bool { return items[i].Order < items[j].Order })

		for i := range items {
			// The holding category wins over a stale categoryId.
			items[i].CategoryID = c.ID
			if MatchesMenuItem(&items[i], f) {
				out = append(out, items[i])
			}
		}
	}
	return out
}

type SearchUsecase interface {
	SearchRestaurants(ctx context.Context, s RestaurantSearch) ([]RestaurantProfile, error)
	FilterMenu(ctx context.Context, restaurantID string, f MenuItemFilter) ([]MenuItem, error)
}
