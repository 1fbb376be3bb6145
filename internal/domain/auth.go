package domain

import (
	"context"
	"io"
	"time"
)

type AuthEventType string

const (
	AuthSignedIn  AuthEventType = "SIGNED_IN"
	AuthSignedUp  AuthEventType = "SIGNED_UP"
	AuthSignedOut AuthEventType = "SIGNED_OUT"
)

// AuthEvent is one entry of the process-wide auth-state stream.
type AuthEvent struct {
	Type   AuthEventType `json:"type"`
	UserID string        `json:"userId"`
	Email  string        `json:"email"`
	Role   Role          `json:"role,omitempty"`
	At     time.Time     `json:"at"`
}

// AuthSession is what the identity provider returns after a sign-in.
type AuthSession struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	TokenType    string    `json:"tokenType"`
	ExpiresAt    time.Time `json:"expiresAt"`
	UserID       string    `json:"userId"`
	Email        string    `json:"email"`
}

// IdentityProvider is the external authentication service.
type IdentityProvider interface {
	SignUp(ctx context.Context, email, password string) (*AuthSession, error)
	SignInWithPassword(ctx context.Context, email, password string) (*AuthSession, error)
	SignOut(ctx context.Context, accessToken string) error
	SendPasswordReset(ctx context.Context, email, redirectTo string) error
	OAuthURL(provider, redirectTo string) (string, error)
}

// Geocoder resolves a postal address. It returns nil coordinates when the
// address cannot be resolved.
type Geocoder interface {
	Geocode(ctx context.Context, addr Address) (*Coordinates, error)
}

// ObjectStorage stores binary files and returns a retrievable URL.
type ObjectStorage interface {
	Upload(ctx context.Context, path, contentType string, body io.Reader, size int64) (string, error)
}

type SignUpRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	DisplayName string `json:"displayName" validate:"required,max=80"`
	Role        Role   `json:"role" validate:"required,oneof=customer restaurant"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type AuthResult struct {
	Session *AuthSession `json:"session"`
	Profile *UserProfile `json:"profile"`
}

type AuthUsecase interface {
	CurrentUser(ctx context.Context) (*UserProfile, error)
	GetUser(ctx context.Context, uid string) (*UserProfile, error)
	// ResolveUser returns the stored profile for a verified token subject,
	// creating a customer profile when the identity has none yet.
	ResolveUser(ctx context.Context, uid, email string) (*UserProfile, error)
	SignUp(ctx context.Context, req *SignUpRequest) (*AuthResult, error)
	SignIn(ctx context.Context, req *SignInRequest) (*AuthResult, error)
	SignOut(ctx context.Context, accessToken string) error
	SendPasswordReset(ctx context.Context, req *PasswordResetRequest) error
	GoogleSignInURL(redirectTo string) (string, error)
	OnAuthChange(fn func(AuthEvent)) (unsubscribe func())
}
