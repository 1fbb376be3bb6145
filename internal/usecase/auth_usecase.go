package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"see-eat-backend/internal/domain"
	"see-eat-backend/internal/session"
	"see-eat-backend/pkg/apperror"
	"see-eat-backend/pkg/auth"
	"see-eat-backend/pkg/logger"
	"see-eat-backend/pkg/metrics"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type authUsecase struct {
	idp         domain.IdentityProvider
	userRepo    domain.UserRepository
	hub         *session.Hub
	validate    *validator.Validate
	frontendURL string
	now         func() time.Time
}

func NewAuthUsecase(idp domain.IdentityProvider, userRepo domain.UserRepository, hub *session.Hub, validate *validator.Validate, frontendURL string) domain.AuthUsecase {
	return &authUsecase{
		idp:         idp,
		userRepo:    userRepo,
		hub:         hub,
		validate:    validate,
		frontendURL: frontendURL,
		now:         time.Now,
	}
}

func (u *authUsecase) publish(t domain.AuthEventType, uid, email string, role domain.Role) {
	metrics.AuthEventsTotal.WithLabelValues(string(t)).Inc()
	u.hub.Publish(domain.AuthEvent{Type: t, UserID: uid, Email: email, Role: role, At: u.now().UTC()})
}

// identityErr maps identity provider failures to client errors.
func identityErr(err error) error {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return apperror.New(http.StatusUnauthorized, "Invalid email or password", err)
	case errors.Is(err, auth.ErrEmailTaken):
		return apperror.New(http.StatusConflict, "An account with this email already exists", err)
	}

	var apiErr *auth.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Status == http.StatusTooManyRequests:
			return apperror.New(http.StatusTooManyRequests, "Too many attempts. Please try again later.", err)
		case apiErr.Status >= 400 && apiErr.Status < 500:
			return apperror.New(http.StatusBadRequest, apiErr.Message, err)
		}
	}
	return apperror.New(http.StatusServiceUnavailable, "Authentication service unavailable", err)
}

func (u *authUsecase) CurrentUser(ctx context.Context) (*domain.UserProfile, error) {
	s, err := sessionFrom(ctx)
	if err != nil {
		return nil, err
	}
	return u.GetUser(ctx, s.UserID)
}

func (u *authUsecase) GetUser(ctx context.Context, uid string) (*domain.UserProfile, error) {
	p, err := u.userRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, storeErr(err, "User profile not found")
	}
	return p, nil
}

func (u *authUsecase) SignUp(ctx context.Context, req *domain.SignUpRequest) (*domain.AuthResult, error) {
	if err := u.validate.Struct(req); err != nil {
		return nil, invalidInput(err)
	}

	sess, err := u.idp.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		return nil, identityErr(err)
	}

	details, err := domain.NewProfileDetails(req.Role)
	if err != nil {
		return nil, apperror.BadRequest("Invalid role")
	}
	profile := &domain.UserProfile{
		UID:         sess.UserID,
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Role:        req.Role,
		Details:     details,
	}
	if err := u.userRepo.Create(ctx, profile); err != nil && !errors.Is(err, domain.ErrAlreadyExists) {
		return nil, apperror.New(http.StatusInternalServerError, "Error creating user profile", err)
	}

	stored, err := u.userRepo.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, storeErr(err, "User profile not found")
	}

	logger.Log.Info("User signed up", zap.String("user_id", sess.UserID), zap.String("role", string(req.Role)))
	u.publish(domain.AuthSignedUp, sess.UserID, req.Email, stored.Role)
	return &domain.AuthResult{Session: sess, Profile: stored}, nil
}

func (u *authUsecase) SignIn(ctx context.Context, req *domain.SignInRequest) (*domain.AuthResult, error) {
	if err := u.validate.Struct(req); err != nil {
		return nil, invalidInput(err)
	}

	sess, err := u.idp.SignInWithPassword(ctx, req.Email, req.Password)
	if err != nil {
		return nil, identityErr(err)
	}

	profile, _, err := u.ensureProfile(ctx, sess.UserID, sess.Email)
	if err != nil {
		return nil, err
	}

	u.publish(domain.AuthSignedIn, sess.UserID, sess.Email, profile.Role)
	return &domain.AuthResult{Session: sess, Profile: profile}, nil
}

// ResolveUser backs the auth middleware. Identities created through OAuth
// reach the API with a valid token and no profile; the first request
// creates it.
func (u *authUsecase) ResolveUser(ctx context.Context, uid, email string) (*domain.UserProfile, error) {
	p, created, err := u.ensureProfile(ctx, uid, email)
	if err != nil {
		return nil, err
	}
	if created {
		u.publish(domain.AuthSignedIn, uid, email, p.Role)
	}
	return p, nil
}

// ensureProfile returns the stored profile, creating a customer profile for
// identities that have none yet. created reports whether it did.
func (u *authUsecase) ensureProfile(ctx context.Context, uid, email string) (*domain.UserProfile, bool, error) {
	p, err := u.userRepo.GetByID(ctx, uid)
	if err == nil {
		return p, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, apperror.Internal(err)
	}

	details, _ := domain.NewProfileDetails(domain.RoleCustomer)
	p = &domain.UserProfile{
		UID:         uid,
		Email:       email,
		DisplayName: email,
		Role:        domain.RoleCustomer,
		Details:     details,
	}
	if err := u.userRepo.Create(ctx, p); err != nil && !errors.Is(err, domain.ErrAlreadyExists) {
		return nil, false, apperror.New(http.StatusInternalServerError, "Error creating user profile", err)
	}
	logger.Log.Info("Created missing user profile", zap.String("user_id", uid))

	p, err = u.userRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, false, storeErr(err, "User profile not found")
	}
	return p, true, nil
}

func (u *authUsecase) SignOut(ctx context.Context, accessToken string) error {
	s, err := sessionFrom(ctx)
	if err != nil {
		return err
	}
	if err := u.idp.SignOut(ctx, accessToken); err != nil {
		// The local session ends regardless; the token simply expires.
		logger.Log.Warn("Identity provider sign-out failed", zap.String("user_id", s.UserID), zap.Error(err))
	}
	u.publish(domain.AuthSignedOut, s.UserID, s.Email, s.Role)
	return nil
}

func (u *authUsecase) SendPasswordReset(ctx context.Context, req *domain.PasswordResetRequest) error {
	if err := u.validate.Struct(req); err != nil {
		return invalidInput(err)
	}
	if err := u.idp.SendPasswordReset(ctx, req.Email, u.frontendURL+"/reset-password"); err != nil {
		// Unknown addresses are not disclosed.
		var apiErr *auth.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil
		}
		return identityErr(err)
	}
	return nil
}

func (u *authUsecase) GoogleSignInURL(redirectTo string) (string, error) {
	if redirectTo == "" {
		redirectTo = u.frontendURL + "/auth/callback"
	}
	if !strings.HasPrefix(redirectTo, u.frontendURL+"/") {
		return "", apperror.BadRequest("Redirect must point to the application")
	}
	url, err := u.idp.OAuthURL("google", redirectTo)
	if err != nil {
		return "", apperror.Internal(err)
	}
	return url, nil
}

func (u *authUsecase) OnAuthChange(fn func(domain.AuthEvent)) func() {
	return u.hub.Subscribe(fn)
}
