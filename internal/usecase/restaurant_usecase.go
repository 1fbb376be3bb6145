package usecase

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"

	"see-eat-backend/internal/domain"
	"see-eat-backend/pkg/apperror"
	"see-eat-backend/pkg/logger"
	"see-eat-backend/pkg/storage"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const msgUploadsDisabled = "File uploads are not configured"

type restaurantUsecase struct {
	restaurantRepo domain.RestaurantRepository
	// objects is nil when no storage bucket is configured.
	objects  domain.ObjectStorage
	validate *validator.Validate
}

func NewRestaurantUsecase(restaurantRepo domain.RestaurantRepository, objects domain.ObjectStorage, validate *validator.Validate) domain.RestaurantUsecase {
	return &restaurantUsecase{restaurantRepo: restaurantRepo, objects: objects, validate: validate}
}

// loadOwned returns the restaurant when the caller owns it or is an admin.
func loadOwned(ctx context.Context, repo domain.RestaurantRepository, id string) (*domain.RestaurantProfile, domain.Session, error) {
	s, err := sessionFrom(ctx)
	if err != nil {
		return nil, s, err
	}
	r, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, s, storeErr(err, "Restaurant not found")
	}
	if !r.OwnedBy(s.UserID) && s.Role != domain.RoleAdmin {
		return nil, s, apperror.Forbidden("You can only manage your own restaurant")
	}
	return r, s, nil
}

// prepareImage validates an upload and shrinks oversized images.
func prepareImage(file *multipart.FileHeader) (*storage.Image, error) {
	if file == nil {
		return nil, apperror.BadRequest("Image file is required")
	}
	img, err := storage.ReadImage(file)
	if err != nil {
		return nil, apperror.BadRequest(err.Error())
	}
	img, err = storage.Downscale(img, storage.MaxImageDimension)
	if err != nil {
		return nil, apperror.BadRequest("Image could not be decoded")
	}
	return img, nil
}

func (u *restaurantUsecase) GetRestaurant(ctx context.Context, id string) (*domain.RestaurantProfile, error) {
	r, err := u.restaurantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "Restaurant not found")
	}
	return r, nil
}

func (u *restaurantUsecase) ListMine(ctx context.Context) ([]domain.RestaurantProfile, error) {
	s, err := sessionFrom(ctx)
	if err != nil {
		return nil, err
	}
	list, err := u.restaurantRepo.ListByOwner(ctx, s.UserID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return list, nil
}

func (u *restaurantUsecase) UpdateRestaurant(ctx context.Context, id string, update *domain.RestaurantUpdate) (*domain.RestaurantProfile, error) {
	if _, _, err := loadOwned(ctx, u.restaurantRepo, id); err != nil {
		return nil, err
	}
	if err := u.validate.Struct(update); err != nil {
		return nil, invalidInput(err)
	}

	patch := update.Patch()
	if len(patch) == 0 {
		return nil, apperror.BadRequest("No fields to update")
	}
	if err := u.restaurantRepo.Update(ctx, id, patch); err != nil {
		return nil, storeErr(err, "Restaurant not found")
	}
	return u.GetRestaurant(ctx, id)
}

func (u *restaurantUsecase) UploadCoverPhoto(ctx context.Context, id string, file *multipart.FileHeader) (*domain.RestaurantProfile, error) {
	if u.objects == nil {
		return nil, apperror.Unavailable(msgUploadsDisabled)
	}
	if _, _, err := loadOwned(ctx, u.restaurantRepo, id); err != nil {
		return nil, err
	}

	img, err := prepareImage(file)
	if err != nil {
		return nil, err
	}
	url, err := u.objects.Upload(ctx, storage.CoverImagePath(id, img.Ext), img.ContentType, bytes.NewReader(img.Data), int64(len(img.Data)))
	if err != nil {
		return nil, apperror.New(http.StatusBadGateway, "Error uploading image", err)
	}

	if err := u.restaurantRepo.Update(ctx, id, domain.Document{"photoURL": url}); err != nil {
		return nil, storeErr(err, "Restaurant not found")
	}
	return u.GetRestaurant(ctx, id)
}

func (u *restaurantUsecase) ListAll(ctx context.Context) ([]domain.RestaurantProfile, error) {
	if _, err := requireRole(ctx, domain.RoleAdmin); err != nil {
		return nil, err
	}
	list, err := u.restaurantRepo.ListAll(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return list, nil
}

// ToggleActivation suspends an active restaurant and activates any other.
func (u *restaurantUsecase) ToggleActivation(ctx context.Context, id string) (*domain.RestaurantProfile, error) {
	s, err := requireRole(ctx, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	r, err := u.restaurantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "Restaurant not found")
	}

	r.ToggleActivation()
	patch := domain.Document{"status": string(r.Status), "isActive": r.IsActive}
	if err := u.restaurantRepo.Update(ctx, id, patch); err != nil {
		return nil, storeErr(err, "Restaurant not found")
	}
	logger.Log.Info("Restaurant activation toggled",
		zap.String("restaurant_id", id),
		zap.String("status", string(r.Status)),
		zap.String("admin_id", s.UserID),
	)
	return u.GetRestaurant(ctx, id)
}
