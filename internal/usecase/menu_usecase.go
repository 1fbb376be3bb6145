package usecase

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"time"

	"see-eat-backend/internal/domain"
	"see-eat-backend/pkg/apperror"
	"see-eat-backend/pkg/logger"
	"see-eat-backend/pkg/metrics"
	"see-eat-backend/pkg/storage"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const noteSelectCategory = "Select a category before adding an item"

type MenuDeps struct {
	Menus         domain.MenuRepository
	MenuItems     domain.MenuItemRepository
	Restaurants   domain.RestaurantRepository
	WorkingCopies domain.WorkingCopyRepository
	// Objects is nil when no storage bucket is configured.
	Objects domain.ObjectStorage
}

type menuUsecase struct {
	deps     MenuDeps
	validate *validator.Validate
	newID    domain.IDGenerator
	now      func() time.Time
}

func NewMenuUsecase(deps MenuDeps, validate *validator.Validate) domain.MenuUsecase {
	return &menuUsecase{
		deps:     deps,
		validate: validate,
		newID:    domain.NewLocalID,
		now:      time.Now,
	}
}

func builderErr(err error) error {
	switch {
	case errors.Is(err, domain.ErrConfirmationRequired):
		return apperror.New(http.StatusConflict, "Confirmation required", err)
	case errors.Is(err, domain.ErrNotFound):
		return apperror.New(http.StatusNotFound, "Category or item not found", err)
	}
	return apperror.Internal(err)
}

func (u *menuUsecase) GetMenu(ctx context.Context, restaurantID string) (*domain.Menu, error) {
	m, err := u.deps.Menus.GetByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, storeErr(err, "Menu not found")
	}
	return m, nil
}

// GetMenuBySlug serves the public menu page. Only published menus are visible.
func (u *menuUsecase) GetMenuBySlug(ctx context.Context, slug string) (*domain.Menu, error) {
	m, err := u.deps.Menus.GetBySlug(ctx, slug)
	if err != nil {
		return nil, storeErr(err, "Menu not found")
	}
	if m.Status != domain.MenuPublished {
		return nil, apperror.NotFound("Menu not found")
	}
	return m, nil
}

func (u *menuUsecase) ListSetupItems(ctx context.Context, restaurantID string) ([]domain.SetupMenuItem, error) {
	items, err := u.deps.MenuItems.ListByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return items, nil
}

func (u *menuUsecase) SetStatus(ctx context.Context, restaurantID string, status domain.MenuStatus) (*domain.Menu, error) {
	if !status.IsValid() {
		return nil, apperror.BadRequest("Status must be draft, published or archived")
	}
	if _, _, err := loadOwned(ctx, u.deps.Restaurants, restaurantID); err != nil {
		return nil, err
	}
	if err := u.deps.Menus.SetStatus(ctx, restaurantID, status); err != nil {
		return nil, storeErr(err, "Menu not found")
	}
	return u.GetMenu(ctx, restaurantID)
}

func (u *menuUsecase) UploadItemImage(ctx context.Context, restaurantID string, file *multipart.FileHeader) (string, error) {
	if u.deps.Objects == nil {
		return "", apperror.Unavailable(msgUploadsDisabled)
	}
	if _, _, err := loadOwned(ctx, u.deps.Restaurants, restaurantID); err != nil {
		return "", err
	}
	img, err := prepareImage(file)
	if err != nil {
		return "", err
	}
	url, err := u.deps.Objects.Upload(ctx, storage.MenuItemImagePath(restaurantID, img.Ext), img.ContentType, bytes.NewReader(img.Data), int64(len(img.Data)))
	if err != nil {
		return "", apperror.New(http.StatusBadGateway, "Error uploading image", err)
	}
	return url, nil
}

// OpenBuilder returns the caller's working copy, starting one from the
// persisted menu (or an empty menu) when none exists.
func (u *menuUsecase) OpenBuilder(ctx context.Context, restaurantID string) (*domain.Menu, error) {
	r, s, err := loadOwned(ctx, u.deps.Restaurants, restaurantID)
	if err != nil {
		return nil, err
	}
	return u.openFor(ctx, s.UserID, r)
}

func (u *menuUsecase) openFor(ctx context.Context, uid string, r *domain.RestaurantProfile) (*domain.Menu, error) {
	m, err := u.deps.WorkingCopies.Get(ctx, uid, r.ID)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Internal(err)
	}

	m, err = u.deps.Menus.GetByRestaurant(ctx, r.ID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		m = domain.NewMenu(r.ID, domain.MenuSlug(r.RestaurantName, r.ID))
	case err != nil:
		return nil, storeErr(err, "Menu not found")
	}

	if err := u.deps.WorkingCopies.Put(ctx, uid, r.ID, m); err != nil {
		return nil, apperror.Internal(err)
	}
	return m, nil
}

func (u *menuUsecase) GetWorkingCopy(ctx context.Context, restaurantID string) (*domain.Menu, error) {
	_, s, err := loadOwned(ctx, u.deps.Restaurants, restaurantID)
	if err != nil {
		return nil, err
	}
	m, err := u.deps.WorkingCopies.Get(ctx, s.UserID, restaurantID)
	if err != nil {
		return nil, storeErr(err, "No open menu builder session")
	}
	return m, nil
}

func (u *menuUsecase) DiscardBuilder(ctx context.Context, restaurantID string) error {
	_, s, err := loadOwned(ctx, u.deps.Restaurants, restaurantID)
	if err != nil {
		return err
	}
	if err := u.deps.WorkingCopies.Delete(ctx, s.UserID, restaurantID); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

// edit applies fn to the caller's working copy and stores it when fn
// reports a change. Nothing reaches the menu document until SaveBuilder.
func (u *menuUsecase) edit(ctx context.Context, restaurantID string, fn func(m *domain.Menu) (applied bool, note string, err error)) (*domain.BuilderResult, error) {
	r, s, err := loadOwned(ctx, u.deps.Restaurants, restaurantID)
	if err != nil {
		return nil, err
	}
	m, err := u.openFor(ctx, s.UserID, r)
	if err != nil {
		return nil, err
	}

	applied, note, err := fn(m)
	if err != nil {
		return nil, builderErr(err)
	}
	if applied {
		if err := u.deps.WorkingCopies.Put(ctx, s.UserID, restaurantID, m); err != nil {
			return nil, apperror.Internal(err)
		}
	}
	return &domain.BuilderResult{Menu: m, Applied: applied, Note: note}, nil
}

func (u *menuUsecase) AddCategory(ctx context.Context, restaurantID string, in *domain.CategoryInput) (*domain.BuilderResult, error) {
	if err := u.validate.Struct(in); err != nil {
		return nil, invalidInput(err)
	}
	return u.edit(ctx, restaurantID, func(m *domain.Menu) (bool, string, error) {
		m.AddCategory(*in, u.newID)
		return true, "", nil
	})
}

func (u *menuUsecase) UpdateCategory(ctx context.Context, restaurantID, categoryID string, patch *domain.CategoryPatch) (*domain.BuilderResult, error) {
	if err := u.validate.Struct(patch); err != nil {
		return nil, invalidInput(err)
	}
	return u.edit(ctx, restaurantID, func(m *domain.Menu) (bool, string, error) {
		return true, "", m.UpdateCategory(categoryID, *patch)
	})
}

func (u *menuUsecase) DeleteCategory(ctx context.Context, restaurantID, categoryID string, confirmed bool) (*domain.BuilderResult, error) {
	return u.edit(ctx, restaurantID, func(m *domain.Menu) (bool, string, error) {
		return true, "", m.DeleteCategory(categoryID, confirmed)
	})
}

// AddItem adds to the selected category. Without a valid selection it
// changes nothing and reports Applied=false.
func (u *menuUsecase) AddItem(ctx context.Context, restaurantID string, req *domain.AddItemRequest) (*domain.BuilderResult, error) {
	if err := u.validate.Struct(&req.Item); err != nil {
		return nil, invalidInput(err)
	}
	if req.Item.Price.IsNegative() {
		return nil, apperror.BadRequest("Price cannot be negative")
	}
	return u.edit(ctx, restaurantID, func(m *domain.Menu) (bool, string, error) {
		if _, ok := m.AddItem(req.CategoryID, req.Item, u.newID); !ok {
			return false, noteSelectCategory, nil
		}
		return true, "", nil
	})
}

func (u *menuUsecase) UpdateItem(ctx context.Context, restaurantID, categoryID, itemID string, patch *domain.ItemPatch) (*domain.BuilderResult, error) {
	if err := u.validate.Struct(patch); err != nil {
		return nil, invalidInput(err)
	}
	if patch.Price != nil && patch.Price.IsNegative() {
		return nil, apperror.BadRequest("Price cannot be negative")
	}
	return u.edit(ctx, restaurantID, func(m *domain.Menu) (bool, string, error) {
		return true, "", m.UpdateItem(categoryID, itemID, *patch)
	})
}

func (u *menuUsecase) DeleteItem(ctx context.Context, restaurantID, categoryID, itemID string, confirmed bool) (*domain.BuilderResult, error) {
	return u.edit(ctx, restaurantID, func(m *domain.Menu) (bool, string, error) {
		return true, "", m.DeleteItem(categoryID, itemID, confirmed)
	})
}

// SaveBuilder overwrites the stored menu with the working copy, bumping its
// version. There is no version check, so concurrent saves are last-write-wins.
func (u *menuUsecase) SaveBuilder(ctx context.Context, restaurantID string) (*domain.Menu, error) {
	_, s, err := loadOwned(ctx, u.deps.Restaurants, restaurantID)
	if err != nil {
		return nil, err
	}
	m, err := u.deps.WorkingCopies.Get(ctx, s.UserID, restaurantID)
	if err != nil {
		return nil, storeErr(err, "No open menu builder session")
	}

	m.ID = restaurantID
	m.RestaurantID = restaurantID
	m.MarkSaved(u.now().UTC())
	if err := u.deps.Menus.Save(ctx, m); err != nil {
		if errors.Is(err, domain.ErrInvalidMenu) {
			return nil, apperror.New(http.StatusBadRequest, "Invalid menu data structure", err)
		}
		return nil, apperror.Internal(err)
	}
	metrics.MenuSavesTotal.Inc()

	saved, err := u.deps.Menus.GetByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, storeErr(err, "Menu not found")
	}
	if err := u.deps.WorkingCopies.Put(ctx, s.UserID, restaurantID, saved); err != nil {
		logger.Log.Warn("Could not refresh working copy after save", zap.String("restaurant_id", restaurantID), zap.Error(err))
	}
	logger.Log.Info("Menu saved",
		zap.String("restaurant_id", restaurantID),
		zap.Int("version", saved.Version),
		zap.Int("items", saved.ItemCount()),
	)
	return saved, nil
}
