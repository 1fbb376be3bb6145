package domain

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/shopspring/decimal"
)

type MenuStatus string

const (
	MenuDraft     MenuStatus = "draft"
	MenuPublished MenuStatus = "published"
	MenuArchived  MenuStatus = "archived"
)

func (s MenuStatus) IsValid() bool {
	switch s {
	case MenuDraft, MenuPublished, MenuArchived:
		return true
	}
	return false
}

// Known tag vocabularies. Tags are free strings; these are the values the
// clients offer.
var (
	DietaryTags  = []string{"Vegetarian", "Vegan", "Gluten-Free", "Dairy-Free", "Halal", "Kosher", "Low-Carb", "Keto", "Paleo"}
	AllergenTags = []string{"Milk", "Eggs", "Fish", "Shellfish", "Tree Nuts", "Peanuts", "Wheat", "Soy", "Sesame"}
)

type OptionChoice struct {
	Name  string           `json:"name" validate:"required"`
	Price *decimal.Decimal `json:"price,omitempty"`
}

type ItemOption struct {
	Name    string         `json:"name" validate:"required"`
	Choices []OptionChoice `json:"choices" validate:"dive"`
}

type MenuItem struct {
	ID          string          `json:"id"`
	CategoryID  string          `json:"categoryId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image,omitempty"`
	IsAvailable bool            `json:"isAvailable"`
	DietaryTags []string        `json:"dietaryTags"`
	Allergens   []string        `json:"allergens"`
	CuisineTags []string        `json:"cuisineTags"`
	SpicyLevel  int             `json:"spicyLevel"`
	Options     []ItemOption    `json:"options,omitempty"`
	Order       int             `json:"order"`
}

type MenuCategory struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Order       int        `json:"order"`
	Items       []MenuItem `json:"items"`
}

type MenuTheme struct {
	PrimaryColor   string `json:"primaryColor,omitempty"`
	SecondaryColor string `json:"secondaryColor,omitempty"`
	FontFamily     string `json:"fontFamily,omitempty"`
	LogoURL        string `json:"logoUrl,omitempty"`
}

type MenuSettings struct {
	ShowPrices    bool `json:"showPrices"`
	ShowImages    bool `json:"showImages"`
	AllowOrdering bool `json:"allowOrdering"`
}

// Menu belongs to exactly one restaurant and is stored under the restaurant's id.
type Menu struct {
	ID           string         `json:"id"`
	RestaurantID string         `json:"restaurantId"`
	Slug         string         `json:"slug"`
	Status       MenuStatus     `json:"status"`
	Categories   []MenuCategory `json:"categories"`
	Theme        *MenuTheme     `json:"theme,omitempty"`
	Settings     *MenuSettings  `json:"settings,omitempty"`
	Version      int            `json:"version"`
	LastUpdated  time.Time      `json:"lastUpdated"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// NewMenu returns an empty draft menu for a restaurant.
func NewMenu(restaurantID, slug string) *Menu {
	return &Menu{
		ID:           restaurantID,
		RestaurantID: restaurantID,
		Slug:         slug,
		Status:       MenuDraft,
		Categories:   []MenuCategory{},
		Settings:     &MenuSettings{ShowPrices: true, ShowImages: true},
	}
}

// MenuFromSetupItems groups setup items into categories by their category
// name, in order of first appearance.
func MenuFromSetupItems(restaurantID, slug string, items []SetupMenuItem, newID IDGenerator) *Menu {
	m := NewMenu(restaurantID, slug)
	index := map[string]int{}
	for _, it := range items {
		ci, ok := index[it.Category]
		if !ok {
			m.AddCategory(CategoryInput{Name: it.Category}, newID)
			ci = len(m.Categories) - 1
			index[it.Category] = ci
		}
		m.AddItem(m.Categories[ci].ID, ItemInput{
			Name:        it.Name,
			Description: it.Description,
			Price:       it.Price,
			Image:       it.Image,
			IsAvailable: it.IsAvailable,
		}, newID)
	}
	return m
}

type CategoryInput struct {
	Name        string `json:"name" validate:"required,max=80"`
	Description string `json:"description" validate:"max=500"`
}

type CategoryPatch struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=80"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Order       *int    `json:"order" validate:"omitempty,min=0"`
}

type ItemInput struct {
	Name        string          `json:"name" validate:"required,max=120"`
	Description string          `json:"description" validate:"max=1000"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	IsAvailable bool            `json:"isAvailable"`
	DietaryTags []string        `json:"dietaryTags" validate:"dive,required"`
	Allergens   []string        `json:"allergens" validate:"dive,required"`
	CuisineTags []string        `json:"cuisineTags" validate:"dive,required"`
	SpicyLevel  int             `json:"spicyLevel" validate:"min=0,max=5"`
	Options     []ItemOption    `json:"options" validate:"dive"`
}

type ItemPatch struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=120"`
	Description *string          `json:"description" validate:"omitempty,max=1000"`
	Price       *decimal.Decimal `json:"price"`
	Image       *string          `json:"image"`
	IsAvailable *bool            `json:"isAvailable"`
	DietaryTags []string         `json:"dietaryTags" validate:"omitempty,dive,required"`
	Allergens   []string         `json:"allergens" validate:"omitempty,dive,required"`
	CuisineTags []string         `json:"cuisineTags" validate:"omitempty,dive,required"`
	SpicyLevel  *int             `json:"spicyLevel" validate:"omitempty,min=0,max=5"`
	Options     []ItemOption     `json:"options" validate:"omitempty,dive"`
}

// AddItemRequest names the selected category for a new item. An empty
// CategoryID means no category is selected.
type AddItemRequest struct {
	CategoryID string    `json:"categoryId"`
	Item       ItemInput `json:"item"`
}

// BuilderResult is a working copy after a builder operation.
type BuilderResult struct {
	Menu    *Menu  `json:"menu"`
	Applied bool   `json:"applied"`
	Note    string `json:"note,omitempty"`
}

// MenuRepository persists whole menu documents. Save is a full overwrite.
type MenuRepository interface {
	GetByRestaurant(ctx context.Context, restaurantID string) (*Menu, error)
	GetBySlug(ctx context.Context, slug string) (*Menu, error)
	Save(ctx context.Context, m *Menu) error
	SetStatus(ctx context.Context, restaurantID string, status MenuStatus) error
}

// MenuItemRepository stores the flat item records entered during setup.
type MenuItemRepository interface {
	// ReplaceForRestaurant stores items under their ids and removes any other
	// items of the restaurant.
	ReplaceForRestaurant(ctx context.Context, restaurantID string, items []SetupMenuItem) error
	ListByRestaurant(ctx context.Context, restaurantID string) ([]SetupMenuItem, error)
}

// WorkingCopyRepository holds unsaved menu builder state per user and restaurant.
type WorkingCopyRepository interface {
	Get(ctx context.Context, uid, restaurantID string) (*Menu, error)
	Put(ctx context.Context, uid, restaurantID string, m *Menu) error
	Delete(ctx context.Context, uid, restaurantID string) error
	DeleteAllForUser(ctx context.Context, uid string) (int, error)
}

type MenuUsecase interface {
	GetMenu(ctx context.Context, restaurantID string) (*Menu, error)
	GetMenuBySlug(ctx context.Context, slug string) (*Menu, error)
	ListSetupItems(ctx context.Context, restaurantID string) ([]SetupMenuItem, error)
	SetStatus(ctx context.Context, restaurantID string, status MenuStatus) (*Menu, error)
	UploadItemImage(ctx context.Context, restaurantID string, file *multipart.FileHeader) (string, error)

	OpenBuilder(ctx context.Context, restaurantID string) (*Menu, error)
	GetWorkingCopy(ctx context.Context, restaurantID string) (*Menu, error)
	DiscardBuilder(ctx context.Context, restaurantID string) error
	AddCategory(ctx context.Context, restaurantID string, in *CategoryInput) (*BuilderResult, error)
	UpdateCategory(ctx context.Context, restaurantID, categoryID string, patch *CategoryPatch) (*BuilderResult, error)
	DeleteCategory(ctx context.Context, restaurantID, categoryID string, confirmed bool) (*BuilderResult, error)
	AddItem(ctx context.Context, restaurantID string, req *AddItemRequest) (*BuilderResult, error)
	UpdateItem(ctx context.Context, restaurantID, categoryID, itemID string, patch *ItemPatch) (*BuilderResult, error)
	DeleteItem(ctx context.Context, restaurantID, categoryID, itemID string, confirmed bool) (*BuilderResult, error)
	SaveBuilder(ctx context.Context, restaurantID string) (*Menu, error)
}
