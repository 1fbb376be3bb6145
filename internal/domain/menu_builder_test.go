package domain_test

import (
	"fmt"
	"testing"
	"time"

	"see-eat-backend/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequentialIDs returns deterministic ids: category-1, item-2, ...
func sequentialIDs() domain.IDGenerator {
	n := 0
	return func(prefix string) string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func TestMenuBuilderCategories(t *testing.T) {
	t.Run("Add appends with order equal to current length", func(t *testing.T) {
		m := domain.NewMenu("rest1", "rest1")
		gen := sequentialIDs()

		first := m.AddCategory(domain.CategoryInput{Name: "Starters"}, gen)
		second := m.AddCategory(domain.CategoryInput{Name: "Mains"}, gen)

		assert.Equal(t, 0, first.Order)
		assert.Equal(t, 1, second.Order)
		assert.Empty(t, second.Items)
		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("Edit shallow-merges only provided fields", func(t *testing.T) {
		m := domain.NewMenu("rest1", "rest1")
		c := m.AddCategory(domain.CategoryInput{Name: "Starters", Description: "Small plates"}, sequentialIDs())

		name := "Antipasti"
		require.NoError(t, m.UpdateCategory(c.ID, domain.CategoryPatch{Name: &name}))

		got := m.Category(c.ID)
		assert.Equal(t, "Antipasti", got.Name)
		assert.Equal(t, "Small plates", got.Description)
	})

	t.Run("Delete requires confirmation", func(t *testing.T) {
		m := domain.NewMenu("rest1", "rest1")
		c := m.AddCategory(domain.CategoryInput{Name: "Starters"}, sequentialIDs())

		err := m.DeleteCategory(c.ID, false)
		assert.ErrorIs(t, err, domain.ErrConfirmationRequired)
		assert.Len(t, m.Categories, 1)
	})

	t.Run("Delete cascades to nested items", func(t *testing.T) {
		m := domain.NewMenu("rest1", "rest1")
		gen := sequentialIDs()
		starters := m.AddCategory(domain.CategoryInput{Name: "Starters"}, gen)
		mains := m.AddCategory(domain.CategoryInput{Name: "Mains"}, gen)
		m.AddItem(starters.ID, domain.ItemInput{Name: "Bruschetta"}, gen)
		m.AddItem(starters.ID, domain.ItemInput{Name: "Olives"}, gen)
		m.AddItem(mains.ID, domain.ItemInput{Name: "Lasagna"}, gen)

		require.NoError(t, m.DeleteCategory(starters.ID, true))

		assert.Len(t, m.Categories, 1)
		assert.Equal(t, 1, m.ItemCount())
		assert.Nil(t, m.Category(starters.ID))
	})

	t.Run("Unknown category is not found", func(t *testing.T) {
		m := domain.NewMenu("rest1", "rest1")
		assert.ErrorIs(t, m.DeleteCategory("missing", true), domain.ErrNotFound)
	})
}

func TestMenuBuilderItems(t *testing.T) {
	t.Run("Add without a selected category is a no-op", func(t *testing.T) {
		m := domain.NewMenu("rest1", "rest1")
		gen := sequentialIDs()
		m.AddCategory(domain.CategoryInput{Name: "Mains"}, gen)

		_, ok := m.AddItem("", domain.ItemInput{Name: "Lasagna"}, gen)
		assert.False(t, ok)
		_, ok = m.AddItem("category-404", domain.ItemInput{Name: "Lasagna"}, gen)
		assert.False(t, ok)
		assert.Equal(t, 0, m.ItemCount())
	})

	t.Run("Items keep insertion order", func(t *testing.T) {
		m := domain.NewMenu("rest1", "rest1")
		gen := sequentialIDs()
		c := m.AddCategory(domain.CategoryInput{Name: "Mains"}, gen)

		a, ok := m.AddItem(c.ID, domain.ItemInput{Name: "A", Price: decimal.RequireFromString("9.50")}, gen)
		require.True(t, ok)
		b, _ := m.AddItem(c.ID, domain.ItemInput{Name: "B"}, gen)

		assert.Equal(t, 0, a.Order)
		assert.Equal(t, 1, b.Order)
		assert.Equal(t, c.ID, a.CategoryID)
		assert.Equal(t, []string{}, a.Allergens)
	})

	t.Run("Edit merges within the owning category", func(t *testing.T) {
		m := domain.NewMenu("rest1", "rest1")
		gen := sequentialIDs()
		c := m.AddCategory(domain.CategoryInput{Name: "Mains"}, gen)
		other := m.AddCategory(domain.CategoryInput{Name: "Desserts"}, gen)
		it, _ := m.AddItem(c.ID, domain.ItemInput{Name: "Lasagna", Description: "Classic", IsAvailable: true}, gen)

		unavailable := false
		require.NoError(t, m.UpdateItem(c.ID, it.ID, domain.ItemPatch{IsAvailable: &unavailable}))
		assert.ErrorIs(t, m.UpdateItem(other.ID, it.ID, domain.ItemPatch{}), domain.ErrNotFound)

		got := m.Category(c.ID).Items[0]
		assert.False(t, got.IsAvailable)
		assert.Equal(t, "Classic", got.Description)
	})

	t.Run("Delete requires confirmation", func(t *testing.T) {
		m := domain.NewMenu("rest1", "rest1")
		gen := sequentialIDs()
		c := m.AddCategory(domain.CategoryInput{Name: "Mains"}, gen)
		it, _ := m.AddItem(c.ID, domain.ItemInput{Name: "Lasagna"}, gen)

		assert.ErrorIs(t, m.DeleteItem(c.ID, it.ID, false), domain.ErrConfirmationRequired)
		require.NoError(t, m.DeleteItem(c.ID, it.ID, true))
		assert.Equal(t, 0, m.ItemCount())
	})
}

func TestLocalIDsDoNotCollide(t *testing.T) {
	m := domain.NewMenu("rest1", "rest1")
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		c := m.AddCategory(domain.CategoryInput{Name: "C"}, domain.NewLocalID)
		assert.False(t, seen[c.ID], "duplicate id %s", c.ID)
		seen[c.ID] = true
	}
}

func TestMarkSaved(t *testing.T) {
	m := domain.NewMenu("rest1", "rest1")
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	m.MarkSaved(now)
	m.MarkSaved(now.Add(time.Minute))

	assert.Equal(t, 2, m.Version)
	assert.Equal(t, now.Add(time.Minute), m.LastUpdated)
}

func TestMenuFromSetupItems(t *testing.T) {
	items := []domain.SetupMenuItem{
		{Name: "Tacos al pastor", Category: "Tacos", Price: decimal.NewFromInt(3)},
		{Name: "Horchata", Category: "Drinks", Price: decimal.NewFromInt(2)},
		{Name: "Tacos de pescado", Category: "Tacos", Price: decimal.NewFromInt(4)},
	}

	m := domain.MenuFromSetupItems("rest3", "taco-loco", items, sequentialIDs())

	require.Len(t, m.Categories, 2)
	assert.Equal(t, "Tacos", m.Categories[0].Name)
	assert.Len(t, m.Categories[0].Items, 2)
	assert.Equal(t, "Drinks", m.Categories[1].Name)
	assert.Equal(t, domain.MenuDraft, m.Status)
}
