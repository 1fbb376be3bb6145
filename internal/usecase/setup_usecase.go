package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"see-eat-backend/internal/domain"
	"see-eat-backend/pkg/apperror"
	"see-eat-backend/pkg/logger"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const msgSetupSaveFailed = "Error saving restaurant setup"

type SetupDeps struct {
	Drafts      domain.DraftRepository
	Restaurants domain.RestaurantRepository
	Menus       domain.MenuRepository
	MenuItems   domain.MenuItemRepository
	Users       domain.UserRepository
	// Geocoder may be nil, which disables geocoding.
	Geocoder domain.Geocoder
}

type setupUsecase struct {
	deps     SetupDeps
	validate *validator.Validate
	newID    domain.IDGenerator
	now      func() time.Time
}

func NewSetupUsecase(deps SetupDeps, validate *validator.Validate) domain.SetupUsecase {
	return &setupUsecase{
		deps:     deps,
		validate: validate,
		newID:    domain.NewLocalID,
		now:      time.Now,
	}
}

func (u *setupUsecase) loadDraft(ctx context.Context, uid string) (domain.Document, error) {
	draft, err := u.deps.Drafts.Get(ctx, uid)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Document{}, nil
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return draft, nil
}

func (u *setupUsecase) GetSetupState(ctx context.Context) (*domain.SetupState, error) {
	s, err := requireRole(ctx, domain.RoleRestaurant)
	if err != nil {
		return nil, err
	}

	draft, err := u.loadDraft(ctx, s.UserID)
	if err != nil {
		return nil, err
	}

	state := &domain.SetupState{
		CurrentStep: domain.ResumeStep(draft),
		Steps:       domain.SetupSteps,
		Draft:       draft,
	}
	if len(draft) == 0 {
		if r, err := u.deps.Restaurants.GetByID(ctx, s.UserID); err == nil {
			state.Completed = true
			state.RestaurantID = r.ID
		}
	}
	return state, nil
}

// CompleteStep validates the payload of step, stores it in the draft and
// advances the wizard. The last step materializes the restaurant.
func (u *setupUsecase) CompleteStep(ctx context.Context, step domain.SetupStep, payload json.RawMessage) (*domain.SetupState, error) {
	s, err := requireRole(ctx, domain.RoleRestaurant)
	if err != nil {
		return nil, err
	}
	if _, err := domain.ParseSetupStep(string(step)); err != nil {
		return nil, apperror.BadRequest("Unknown setup step")
	}

	draft, err := u.loadDraft(ctx, s.UserID)
	if err != nil {
		return nil, err
	}

	data, err := u.validateStep(ctx, s.UserID, step, payload, draft)
	if err != nil {
		return nil, err
	}
	stepDoc, err := domain.ToDocument(data)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	draft[string(step)] = stepDoc

	if !step.IsLast() {
		if err := u.deps.Drafts.Save(ctx, s.UserID, domain.Document{string(step): stepDoc}); err != nil {
			return nil, apperror.New(http.StatusInternalServerError, msgSetupSaveFailed, err)
		}
		next, _ := step.Next()
		return &domain.SetupState{CurrentStep: next, Steps: domain.SetupSteps, Draft: draft}, nil
	}

	restaurantID, err := u.finish(ctx, s, draft)
	if err != nil {
		return nil, err
	}
	return &domain.SetupState{
		CurrentStep:  step,
		Steps:        domain.SetupSteps,
		Draft:        domain.Document{},
		Completed:    true,
		RestaurantID: restaurantID,
	}, nil
}

func (u *setupUsecase) validateStep(ctx context.Context, uid string, step domain.SetupStep, payload json.RawMessage, draft domain.Document) (interface{}, error) {
	switch step {
	case domain.StepBasic:
		var in domain.BasicInfoStep
		if err := json.Unmarshal(payload, &in); err != nil {
			return nil, apperror.BadRequest("Invalid request body")
		}
		in.Normalize()
		if err := u.validate.Struct(&in); err != nil {
			return nil, invalidInput(err)
		}
		return &in, nil

	case domain.StepLocation:
		var in domain.LocationStep
		if err := json.Unmarshal(payload, &in); err != nil {
			return nil, apperror.BadRequest("Invalid request body")
		}
		if err := u.validate.Struct(&in); err != nil {
			return nil, invalidInput(err)
		}
		in.Address.Coordinates = nil
		if u.deps.Geocoder != nil {
			coords, err := u.deps.Geocoder.Geocode(ctx, in.Address)
			if err != nil {
				return nil, apperror.Internal(err)
			}
			if coords == nil {
				return nil, apperror.BadRequest("Could not find this address. Please check it and try again.")
			}
			in.Address.Coordinates = coords
		}
		return &in, nil

	case domain.StepSchedule:
		var in domain.ScheduleStep
		if err := json.Unmarshal(payload, &in); err != nil {
			return nil, apperror.BadRequest("Invalid request body")
		}
		if err := u.validate.Struct(&in); err != nil {
			return nil, invalidInput(err)
		}
		in.Schedule = in.Schedule.WithDefaults()
		return &in, nil

	case domain.StepMenu:
		for _, prev := range domain.SetupSteps[:len(domain.SetupSteps)-1] {
			if !draft.Has(string(prev)) {
				return nil, apperror.BadRequest("Please complete the previous steps first")
			}
		}
		var in domain.MenuStep
		if err := json.Unmarshal(payload, &in); err != nil {
			return nil, apperror.BadRequest("Invalid request body")
		}
		if err := u.validate.Struct(&in); err != nil {
			return nil, invalidInput(err)
		}
		if err := in.CheckPrices(); err != nil {
			return nil, apperror.BadRequest(err.Error())
		}
		for i := range in.MenuItems {
			in.MenuItems[i].ID = domain.SetupItemID(uid, i+1)
		}
		return &in, nil
	}
	return nil, apperror.BadRequest("Unknown setup step")
}

// finish creates the restaurant, its setup items and initial menu, then
// drops the draft. The restaurant is keyed by the owner's uid and the items
// by position, so a retry after a failed write overwrites instead of
// duplicating.
func (u *setupUsecase) finish(ctx context.Context, owner domain.Session, draft domain.Document) (string, error) {
	profile, items, err := domain.BuildRestaurantProfile(owner, draft)
	if err != nil {
		return "", apperror.BadRequest("Setup data is incomplete")
	}

	if err := u.deps.Restaurants.Create(ctx, profile); err != nil {
		return "", apperror.New(http.StatusInternalServerError, msgSetupSaveFailed, err)
	}
	if err := u.deps.MenuItems.ReplaceForRestaurant(ctx, profile.ID, items); err != nil {
		return "", apperror.New(http.StatusInternalServerError, msgSetupSaveFailed, err)
	}

	menu := domain.MenuFromSetupItems(profile.ID, domain.MenuSlug(profile.RestaurantName, profile.ID), items, u.newID)
	menu.MarkSaved(u.now().UTC())
	if err := u.deps.Menus.Save(ctx, menu); err != nil {
		return "", apperror.New(http.StatusInternalServerError, msgSetupSaveFailed, err)
	}

	link := domain.Document{
		"restaurantId":   profile.ID,
		"restaurantName": profile.RestaurantName,
		"status":         string(profile.Status),
	}
	if err := u.deps.Users.Merge(ctx, owner.UserID, link); err != nil {
		logger.Log.Warn("Could not link restaurant to owner profile", zap.String("user_id", owner.UserID), zap.Error(err))
	}

	if err := u.deps.Drafts.Delete(ctx, owner.UserID); err != nil {
		logger.Log.Warn("Could not delete setup draft", zap.String("user_id", owner.UserID), zap.Error(err))
	}

	logger.Log.Info("Restaurant setup completed",
		zap.String("restaurant_id", profile.ID),
		zap.Int("menu_items", len(items)),
	)
	return profile.ID, nil
}
