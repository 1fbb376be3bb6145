package domain

import (
	"context"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type RestaurantStatus string

const (
	RestaurantPending   RestaurantStatus = "pending"
	RestaurantActive    RestaurantStatus = "active"
	RestaurantSuspended RestaurantStatus = "suspended"
)

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Address struct {
	Street      string       `json:"street" validate:"required"`
	City        string       `json:"city" validate:"required"`
	State       string       `json:"state" validate:"required"`
	PostalCode  string       `json:"postalCode" validate:"required"`
	Country     string       `json:"country" validate:"required"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// Formatted renders the address on one line, skipping empty parts.
func (a Address) Formatted() string {
	region := strings.TrimSpace(a.State + " " + a.PostalCode)
	parts := make([]string, 0, 4)
	for _, p := range []string{a.Street, a.City, region, a.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

type DaySchedule struct {
	Open   string `json:"open" validate:"required_if=Closed false,omitempty,hhmm"`
	Close  string `json:"close" validate:"required_if=Closed false,omitempty,hhmm"`
	Closed bool   `json:"closed"`
}

// Schedule maps a lowercase weekday name to its opening hours.
type Schedule map[string]DaySchedule

var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

func DefaultSchedule() Schedule {
	s := make(Schedule, len(Weekdays))
	for _, d := range Weekdays {
		s[d] = DaySchedule{Open: "09:00", Close: "22:00"}
	}
	return s
}

// WithDefaults fills missing weekdays with the default opening hours. Keys
// that are not lowercase weekday names are dropped.
func (s Schedule) WithDefaults() Schedule {
	out := DefaultSchedule()
	for _, day := range Weekdays {
		if hours, ok := s[day]; ok {
			out[day] = hours
		}
	}
	return out
}

type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// SetupMenuItem is an item entered in the last setup step, before a full menu exists.
// SetupItemID is the id of the n-th (1-based) setup menu item of a
// restaurant. Ids are positional so resubmitting the menu step rewrites the
// same documents.
func SetupItemID(restaurantID string, n int) string {
	return restaurantID + "-setup-" + strconv.Itoa(n)
}

type SetupMenuItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category" validate:"required"`
	Image       string          `json:"image,omitempty"`
	IsAvailable bool            `json:"isAvailable"`
}

type RestaurantProfile struct {
	ID             string           `json:"id"`
	UID            string           `json:"uid"`
	Email          string           `json:"email"`
	DisplayName    string           `json:"displayName"`
	Role           Role             `json:"role"`
	RestaurantName string           `json:"restaurantName"`
	Description    string           `json:"description"`
	Phone          string           `json:"phone"`
	Website        string           `json:"website,omitempty"`
	Cuisine        []string         `json:"cuisine"`
	DietaryOptions []string         `json:"dietaryOptions"`
	Features       []string         `json:"features"`
	PhotoURL       string           `json:"photoURL,omitempty"`
	Address        Address          `json:"address"`
	Schedule       Schedule         `json:"schedule"`
	Status         RestaurantStatus `json:"status"`
	IsActive       bool             `json:"isActive"`
	MenuItems      []SetupMenuItem  `json:"menuItems"`
	Reviews        []string         `json:"reviews"`
	Ratings        RatingSummary    `json:"ratings"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

func (r *RestaurantProfile) OwnedBy(uid string) bool {
	return uid != "" && r.UID == uid
}

// PrimaryCuisine is the first cuisine entry, or "" when there is none.
func (r *RestaurantProfile) PrimaryCuisine() string {
	if len(r.Cuisine) == 0 {
		return ""
	}
	return r.Cuisine[0]
}

// ToggleActivation flips an active restaurant to suspended and anything else to active.
func (r *RestaurantProfile) ToggleActivation() {
	if r.Status == RestaurantActive {
		r.Status = RestaurantSuspended
	} else {
		r.Status = RestaurantActive
	}
	r.IsActive = r.Status == RestaurantActive
}

// RestaurantUpdate is the owner-editable part of a restaurant profile.
type RestaurantUpdate struct {
	RestaurantName *string  `json:"restaurantName" validate:"omitempty,min=1,max=120"`
	Description    *string  `json:"description" validate:"omitempty,max=2000"`
	Phone          *string  `json:"phone" validate:"omitempty,valid_phone"`
	Website        *string  `json:"website" validate:"omitempty,url"`
	Cuisine        []string `json:"cuisine" validate:"omitempty,min=1,dive,required"`
	DietaryOptions []string `json:"dietaryOptions" validate:"omitempty,dive,required"`
	Features       []string `json:"features" validate:"omitempty,dive,required"`
	Schedule       Schedule `json:"schedule" validate:"omitempty,dive,keys,oneof=monday tuesday wednesday thursday friday saturday sunday,endkeys"`
	PhotoURL       *string  `json:"photoURL" validate:"omitempty,max=2048"`
	Address        *Address `json:"address"`
}

// Patch converts the update into a shallow-merge document with only the
// provided fields.
func (u RestaurantUpdate) Patch() Document {
	patch := Document{}
	if u.RestaurantName != nil {
		patch["restaurantName"] = *u.RestaurantName
		patch["displayName"] = *u.RestaurantName
	}
	if u.Description != nil {
		patch["description"] = *u.Description
	}
	if u.Phone != nil {
		patch["phone"] = *u.Phone
	}
	if u.Website != nil {
		patch["website"] = *u.Website
	}
	if u.Cuisine != nil {
		patch["cuisine"] = u.Cuisine
	}
	if u.DietaryOptions != nil {
		patch["dietaryOptions"] = u.DietaryOptions
	}
	if u.Features != nil {
		patch["features"] = u.Features
	}
	if u.Schedule != nil {
		patch["schedule"] = u.Schedule.WithDefaults()
	}
	if u.PhotoURL != nil {
		patch["photoURL"] = *u.PhotoURL
	}
	if u.Address != nil {
		patch["address"] = *u.Address
	}
	return patch
}

type RestaurantRepository interface {
	GetByID(ctx context.Context, id string) (*RestaurantProfile, error)
	Create(ctx context.Context, r *RestaurantProfile) error
	Update(ctx context.Context, id string, patch Document) error
	ListByOwner(ctx context.Context, uid string) ([]RestaurantProfile, error)
	ListByStatus(ctx context.Context, status RestaurantStatus, limit, offset int) ([]RestaurantProfile, error)
	ListAll(ctx context.Context) ([]RestaurantProfile, error)
}

type RestaurantUsecase interface {
	GetRestaurant(ctx context.Context, id string) (*RestaurantProfile, error)
	ListMine(ctx context.Context) ([]RestaurantProfile, error)
	UpdateRestaurant(ctx context.Context, id string, update *RestaurantUpdate) (*RestaurantProfile, error)
	UploadCoverPhoto(ctx context.Context, id string, file *multipart.FileHeader) (*RestaurantProfile, error)
	ListAll(ctx context.Context) ([]RestaurantProfile, error)
	ToggleActivation(ctx context.Context, id string) (*RestaurantProfile, error)
}
