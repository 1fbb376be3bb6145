package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

type SetupStep string

const (
	StepBasic    SetupStep = "basic"
	StepLocation SetupStep = "location"
	StepSchedule SetupStep = "schedule"
	StepMenu     SetupStep = "menu"
)

// SetupSteps is the fixed order of the restaurant setup wizard.
var SetupSteps = []SetupStep{StepBasic, StepLocation, StepSchedule, StepMenu}

func ParseSetupStep(s string) (SetupStep, error) {
	for _, step := range SetupSteps {
		if string(step) == s {
			return step, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStep, s)
}

// Next returns the step after s. ok is false for the last step.
func (s SetupStep) Next() (next SetupStep, ok bool) {
	for i, step := range SetupSteps {
		if step == s && i+1 < len(SetupSteps) {
			return SetupSteps[i+1], true
		}
	}
	return "", false
}

func (s SetupStep) IsLast() bool {
	return s == SetupSteps[len(SetupSteps)-1]
}

// ResumeStep picks the step a wizard opens on for a stored draft: the first
// step whose key is absent from the draft. Completion is inferred from key
// presence only. A nil draft or one holding every key resumes at the first step.
func ResumeStep(draft Document) SetupStep {
	for _, step := range SetupSteps {
		if !draft.Has(string(step)) {
			return step
		}
	}
	return SetupSteps[0]
}

type BasicInfoStep struct {
	RestaurantName string   `json:"restaurantName" validate:"required,max=120"`
	Description    string   `json:"description" validate:"required,max=2000"`
	Phone          string   `json:"phone" validate:"required,valid_phone"`
	Website        string   `json:"website,omitempty" validate:"omitempty,url"`
	Cuisine        []string `json:"cuisine" validate:"required,min=1,dive,required"`
	DietaryOptions []string `json:"dietaryOptions" validate:"omitempty,dive,required"`
	Features       []string `json:"features" validate:"omitempty,dive,required"`
}

type LocationStep struct {
	Address Address `json:"address" validate:"required"`
}

type ScheduleStep struct {
	Schedule Schedule `json:"schedule" validate:"required,dive,keys,oneof=monday tuesday wednesday thursday friday saturday sunday,endkeys"`
}

type MenuStep struct {
	MenuItems []SetupMenuItem `json:"menuItems" validate:"required,min=1,dive"`
}

// Normalize trims text fields.
func (b *BasicInfoStep) Normalize() {
	b.RestaurantName = strings.TrimSpace(b.RestaurantName)
	b.Description = strings.TrimSpace(b.Description)
	b.Phone = strings.TrimSpace(b.Phone)
	b.Website = strings.TrimSpace(b.Website)
}

// CheckPrices reports the first item without a positive price.
func (m *MenuStep) CheckPrices() error {
	for i, item := range m.MenuItems {
		if !item.Price.IsPositive() {
			return fmt.Errorf("menu item %d (%s): price must be greater than zero", i+1, item.Name)
		}
	}
	return nil
}

// DecodeStep reads the payload stored under step into out. found is false
// when the draft has no such key.
func DecodeStep(draft Document, step SetupStep, out interface{}) (found bool, err error) {
	v, ok := draft[string(step)]
	if !ok {
		return false, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return true, err
	}
	return true, json.Unmarshal(raw, out)
}

// BuildRestaurantProfile materializes the permanent profile from a completed
// draft, applying the defaults for a new restaurant. The profile is keyed by
// the owner's uid and starts with empty menu and review arrays; the items of
// the menu step are returned separately to seed the restaurant's menu.
func BuildRestaurantProfile(owner Session, draft Document) (*RestaurantProfile, []SetupMenuItem, error) {
	var (
		basic    BasicInfoStep
		location LocationStep
		schedule ScheduleStep
		menu     MenuStep
	)
	for step, out := range map[SetupStep]interface{}{
		StepBasic:    &basic,
		StepLocation: &location,
		StepSchedule: &schedule,
		StepMenu:     &menu,
	} {
		if _, err := DecodeStep(draft, step, out); err != nil {
			return nil, nil, fmt.Errorf("decode %s step: %w", step, err)
		}
	}

	sched := schedule.Schedule
	if sched == nil {
		sched = DefaultSchedule()
	}

	profile := &RestaurantProfile{
		ID:             owner.UserID,
		UID:            owner.UserID,
		Email:          owner.Email,
		DisplayName:    basic.RestaurantName,
		Role:           RoleRestaurant,
		RestaurantName: basic.RestaurantName,
		Description:    basic.Description,
		Phone:          basic.Phone,
		Website:        basic.Website,
		Cuisine:        nonNil(basic.Cuisine),
		DietaryOptions: nonNil(basic.DietaryOptions),
		Features:       nonNil(basic.Features),
		Address:        location.Address,
		Schedule:       sched,
		Status:         RestaurantPending,
		IsActive:       false,
		MenuItems:      []SetupMenuItem{},
		Reviews:        []string{},
		Ratings:        RatingSummary{Average: 0, Count: 0},
	}
	return profile, menu.MenuItems, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// SetupState is what the wizard shows: the step to render and the draft so far.
type SetupState struct {
	CurrentStep  SetupStep   `json:"currentStep"`
	Steps        []SetupStep `json:"steps"`
	Draft        Document    `json:"draft"`
	Completed    bool        `json:"completed"`
	RestaurantID string      `json:"restaurantId,omitempty"`
}

type DraftRepository interface {
	Get(ctx context.Context, uid string) (Document, error)
	Save(ctx context.Context, uid string, draft Document) error
	Delete(ctx context.Context, uid string) error
}

type SetupUsecase interface {
	GetSetupState(ctx context.Context) (*SetupState, error)
	CompleteStep(ctx context.Context, step SetupStep, payload json.RawMessage) (*SetupState, error)
}
