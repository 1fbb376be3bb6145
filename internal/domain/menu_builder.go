package domain

import (
	"time"

	"github.com/google/uuid"
)

// IDGenerator returns a locally unique id with the given prefix.
type IDGenerator func(prefix string) string

// NewLocalID is the default IDGenerator: "<prefix>-<uuid>".
func NewLocalID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

func (m *Menu) categoryIndex(id string) int {
	for i := range m.Categories {
		if m.Categories[i].ID == id {
			return i
		}
	}
	return -1
}

// Category returns the category with id, or nil.
func (m *Menu) Category(id string) *MenuCategory {
	if i := m.categoryIndex(id); i >= 0 {
		return &m.Categories[i]
	}
	return nil
}

// AddCategory appends a category with order equal to the current count.
func (m *Menu) AddCategory(in CategoryInput, newID IDGenerator) MenuCategory {
	c := MenuCategory{
		ID:          newID("category"),
		Name:        in.Name,
		Description: in.Description,
		Order:       len(m.Categories),
		Items:       []MenuItem{},
	}
	m.Categories = append(m.Categories, c)
	return c
}

// UpdateCategory shallow-merges the non-nil patch fields into the category.
func (m *Menu) UpdateCategory(id string, p CategoryPatch) error {
	c := m.Category(id)
	if c == nil {
		return ErrNotFound
	}
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Order != nil {
		c.Order = *p.Order
	}
	return nil
}

// DeleteCategory removes the category and every item nested under it.
func (m *Menu) DeleteCategory(id string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	i := m.categoryIndex(id)
	if i < 0 {
		return ErrNotFound
	}
	m.Categories = append(m.Categories[:i:i], m.Categories[i+1:]...)
	return nil
}

// AddItem appends an item to the selected category. It is a no-op, reported
// by ok=false, when no category is selected or the category does not exist.
func (m *Menu) AddItem(categoryID string, in ItemInput, newID IDGenerator) (item MenuItem, ok bool) {
	if categoryID == "" {
		return MenuItem{}, false
	}
	c := m.Category(categoryID)
	if c == nil {
		return MenuItem{}, false
	}

	item = MenuItem{
		ID:          newID("item"),
		CategoryID:  categoryID,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Image:       in.Image,
		IsAvailable: in.IsAvailable,
		DietaryTags: nonNil(in.DietaryTags),
		Allergens:   nonNil(in.Allergens),
		CuisineTags: nonNil(in.CuisineTags),
		SpicyLevel:  in.SpicyLevel,
		Options:     in.Options,
		Order:       len(c.Items),
	}
	c.Items = append(c.Items, item)
	return item, true
}

func (c *MenuCategory) itemIndex(id string) int {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// UpdateItem shallow-merges the patch into the item within its owning category.
func (m *Menu) UpdateItem(categoryID, itemID string, p ItemPatch) error {
	c := m.Category(categoryID)
	if c == nil {
		return ErrNotFound
	}
	i := c.itemIndex(itemID)
	if i < 0 {
		return ErrNotFound
	}

	it := &c.Items[i]
	if p.Name != nil {
		it.Name = *p.Name
	}
	if p.Description != nil {
		it.Description = *p.Description
	}
	if p.Price != nil {
		it.Price = *p.Price
	}
	if p.Image != nil {
		it.Image = *p.Image
	}
	if p.IsAvailable != nil {
		it.IsAvailable = *p.IsAvailable
	}
	if p.DietaryTags != nil {
		it.DietaryTags = p.DietaryTags
	}
	if p.Allergens != nil {
		it.Allergens = p.Allergens
	}
	if p.CuisineTags != nil {
		it.CuisineTags = p.CuisineTags
	}
	if p.SpicyLevel != nil {
		it.SpicyLevel = *p.SpicyLevel
	}
	if p.Options != nil {
		it.Options = p.Options
	}
	return nil
}

// DeleteItem removes the item from its owning category.
func (m *Menu) DeleteItem(categoryID, itemID string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	c := m.Category(categoryID)
	if c == nil {
		return ErrNotFound
	}
	i := c.itemIndex(itemID)
	if i < 0 {
		return ErrNotFound
	}
	c.Items = append(c.Items[:i:i], c.Items[i+1:]...)
	return nil
}

// MarkSaved bumps the version and stamps lastUpdated for a full save.
func (m *Menu) MarkSaved(now time.Time) {
	m.Version++
	m.LastUpdated = now
}

// ItemCount is the number of items across all categories.
func (m *Menu) ItemCount() int {
	n := 0
	for _, c := range m.Categories {
		n += len(c.Items)
	}
	return n
}
