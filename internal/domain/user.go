package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

type Role string

const (
	RoleCustomer   Role = "customer"
	RoleRestaurant Role = "restaurant"
	RoleAdmin      Role = "admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleRestaurant, RoleAdmin:
		return true
	}
	return false
}

// ProfileDetails is the role-specific part of a UserProfile. The set of
// implementations is closed: CustomerDetails, RestaurantDetails, AdminDetails.
type ProfileDetails interface {
	Role() Role
	isProfileDetails()
}

type CustomerDetails struct {
	DietaryPreferences  []string `json:"dietaryPreferences"`
	FavoriteRestaurants []string `json:"favoriteRestaurants"`
	FavoriteItems       []string `json:"favoriteItems"`
}

type RestaurantDetails struct {
	RestaurantID   string           `json:"restaurantId,omitempty"`
	RestaurantName string           `json:"restaurantName,omitempty"`
	Description    string           `json:"description,omitempty"`
	Cuisine        []string         `json:"cuisine,omitempty"`
	Address        *Address         `json:"address,omitempty"`
	Schedule       Schedule         `json:"schedule,omitempty"`
	Status         RestaurantStatus `json:"status,omitempty"`
}

type AdminDetails struct {
	Permissions []string `json:"permissions"`
}

func (*CustomerDetails) Role() Role   { return RoleCustomer }
func (*RestaurantDetails) Role() Role { return RoleRestaurant }
func (*AdminDetails) Role() Role      { return RoleAdmin }

func (*CustomerDetails) isProfileDetails()   {}
func (*RestaurantDetails) isProfileDetails() {}
func (*AdminDetails) isProfileDetails()      {}

// NewProfileDetails returns the empty variant for role.
func NewProfileDetails(role Role) (ProfileDetails, error) {
	switch role {
	case RoleCustomer:
		return &CustomerDetails{
			DietaryPreferences:  []string{},
			FavoriteRestaurants: []string{},
			FavoriteItems:       []string{},
		}, nil
	case RoleRestaurant:
		return &RestaurantDetails{}, nil
	case RoleAdmin:
		return &AdminDetails{Permissions: []string{}}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownRole, role)
}

// UserProfile is stored in the users collection keyed by UID. The variant
// fields are flattened next to the common ones in the stored JSON.
type UserProfile struct {
	UID         string         `json:"uid"`
	Email       string         `json:"email"`
	DisplayName string         `json:"displayName"`
	PhotoURL    string         `json:"photoURL,omitempty"`
	Role        Role           `json:"role"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	Details     ProfileDetails `json:"-"`
}

type profileFields UserProfile

func (p UserProfile) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(profileFields(p))
	if err != nil || p.Details == nil {
		return base, err
	}

	details, err := json.Marshal(p.Details)
	if err != nil {
		return nil, err
	}

	merged := map[string]json.RawMessage{}
	if err := json.Unmarshal(details, &merged); err != nil {
		return nil, err
	}
	var common map[string]json.RawMessage
	if err := json.Unmarshal(base, &common); err != nil {
		return nil, err
	}
	for k, v := range common {
		merged[k] = v
	}
	return json.Marshal(merged)
}

func (p *UserProfile) UnmarshalJSON(data []byte) error {
	var base profileFields
	if err := json.Unmarshal(data, &base); err != nil {
		return err
	}

	details, err := NewProfileDetails(base.Role)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, details); err != nil {
		return err
	}

	*p = UserProfile(base)
	p.Details = details
	return nil
}

// Customer returns the customer variant, or nil for other roles.
func (p *UserProfile) Customer() *CustomerDetails {
	d, _ := p.Details.(*CustomerDetails)
	return d
}

// Restaurant returns the restaurant variant, or nil for other roles.
func (p *UserProfile) Restaurant() *RestaurantDetails {
	d, _ := p.Details.(*RestaurantDetails)
	return d
}

// Admin returns the admin variant, or nil for other roles.
func (p *UserProfile) Admin() *AdminDetails {
	d, _ := p.Details.(*AdminDetails)
	return d
}

// Immutable profile fields. A profile patch never changes them.
var immutableProfileFields = []string{"uid", "role", FieldCreatedAt, FieldUpdatedAt, FieldID}

// SanitizeProfilePatch strips immutable fields from patch and pins role to
// the stored value.
func SanitizeProfilePatch(stored *UserProfile, patch Document) Document {
	out := patch.Clone()
	for _, f := range immutableProfileFields {
		delete(out, f)
	}
	out["role"] = string(stored.Role)
	return out
}

type UserRepository interface {
	GetByID(ctx context.Context, uid string) (*UserProfile, error)
	Create(ctx context.Context, profile *UserProfile) error
	Merge(ctx context.Context, uid string, patch Document) error
	List(ctx context.Context, role Role) ([]UserProfile, error)
}

type ProfileUsecase interface {
	GetProfile(ctx context.Context, uid string) (*UserProfile, error)
	UpdateProfile(ctx context.Context, uid string, patch Document) (*UserProfile, error)
	ToggleFavoriteRestaurant(ctx context.Context, uid, restaurantID string) (*UserProfile, error)
	ListUsers(ctx context.Context, role Role) ([]UserProfile, error)
}
