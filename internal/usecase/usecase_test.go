package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"see-eat-backend/internal/domain"
	"see-eat-backend/internal/repository/document"
	"see-eat-backend/internal/repository/memory"
	"see-eat-backend/internal/repository/redis"
	"see-eat-backend/internal/session"
	"see-eat-backend/internal/usecase"
	"see-eat-backend/pkg/apperror"
	"see-eat-backend/pkg/auth"
	"see-eat-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func ctxAs(uid string, role domain.Role) context.Context {
	return domain.WithSession(context.Background(), domain.Session{
		UserID: uid,
		Email:  uid + "@example.com",
		Role:   role,
	})
}

func assertAppError(t *testing.T, err error, code int) *apperror.AppError {
	t.Helper()
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr), "expected *apperror.AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
	return appErr
}

// fixture wires the document repositories over one in-memory store.
type fixture struct {
	store       *memory.DocumentStore
	users       domain.UserRepository
	restaurants domain.RestaurantRepository
	drafts      domain.DraftRepository
	menus       domain.MenuRepository
	menuItems   domain.MenuItemRepository
	reviews     domain.ReviewRepository
	copies      domain.WorkingCopyRepository
}

func newFixture() *fixture {
	store := memory.NewDocumentStore()
	clock := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	store.SetClock(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		clock = clock.Add(time.Second)
		return clock
	})
	return &fixture{
		store:       store,
		users:       document.NewUserRepository(store),
		restaurants: document.NewRestaurantRepository(store),
		drafts:      document.NewDraftRepository(store),
		menus:       document.NewMenuRepository(store),
		menuItems:   document.NewMenuItemRepository(store),
		reviews:     document.NewReviewRepository(store),
		copies:      redis.NewWorkingCopyRepository(nil, time.Hour),
	}
}

func (f *fixture) addUser(t *testing.T, uid string, role domain.Role) {
	t.Helper()
	details, err := domain.NewProfileDetails(role)
	require.NoError(t, err)
	require.NoError(t, f.users.Create(context.Background(), &domain.UserProfile{
		UID:         uid,
		Email:       uid + "@example.com",
		DisplayName: uid,
		Role:        role,
		Details:     details,
	}))
}

func (f *fixture) addRestaurant(t *testing.T, owner, name string, status domain.RestaurantStatus) *domain.RestaurantProfile {
	t.Helper()
	r := &domain.RestaurantProfile{
		ID:             owner,
		UID:            owner,
		Email:          owner + "@example.com",
		DisplayName:    name,
		Role:           domain.RoleRestaurant,
		RestaurantName: name,
		Cuisine:        []string{},
		DietaryOptions: []string{},
		Features:       []string{},
		Schedule:       domain.DefaultSchedule(),
		Status:         status,
		IsActive:       status == domain.RestaurantActive,
		MenuItems:      []domain.SetupMenuItem{},
		Reviews:        []string{},
	}
	require.NoError(t, f.restaurants.Create(context.Background(), r))
	return r
}

type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) SignUp(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthSession), args.Error(1)
}

func (m *MockIdentityProvider) SignInWithPassword(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthSession), args.Error(1)
}

func (m *MockIdentityProvider) SignOut(ctx context.Context, accessToken string) error {
	return m.Called(ctx, accessToken).Error(0)
}

func (m *MockIdentityProvider) SendPasswordReset(ctx context.Context, email, redirectTo string) error {
	return m.Called(ctx, email, redirectTo).Error(0)
}

func (m *MockIdentityProvider) OAuthURL(provider, redirectTo string) (string, error) {
	args := m.Called(provider, redirectTo)
	return args.String(0), args.Error(1)
}

type MockRestaurantRepo struct {
	mock.Mock
}

func (m *MockRestaurantRepo) GetByID(ctx context.Context, id string) (*domain.RestaurantProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RestaurantProfile), args.Error(1)
}

func (m *MockRestaurantRepo) Create(ctx context.Context, r *domain.RestaurantProfile) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRestaurantRepo) Update(ctx context.Context, id string, patch domain.Document) error {
	return m.Called(ctx, id, patch).Error(0)
}

func (m *MockRestaurantRepo) ListByOwner(ctx context.Context, uid string) ([]domain.RestaurantProfile, error) {
	args := m.Called(ctx, uid)
	return args.Get(0).([]domain.RestaurantProfile), args.Error(1)
}

func (m *MockRestaurantRepo) ListByStatus(ctx context.Context, status domain.RestaurantStatus, limit, offset int) ([]domain.RestaurantProfile, error) {
	args := m.Called(ctx, status, limit, offset)
	return args.Get(0).([]domain.RestaurantProfile), args.Error(1)
}

func (m *MockRestaurantRepo) ListAll(ctx context.Context) ([]domain.RestaurantProfile, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.RestaurantProfile), args.Error(1)
}

func TestRestaurantOwnership(t *testing.T) {
	repo := new(MockRestaurantRepo)
	uc := usecase.NewRestaurantUsecase(repo, nil, validation.New())
	owned := &domain.RestaurantProfile{ID: "r1", UID: "owner1", RestaurantName: "Sakura Sushi", Status: domain.RestaurantActive}
	repo.On("GetByID", mock.Anything, "r1").Return(owned, nil)

	t.Run("Should fail when caller does not own the restaurant", func(t *testing.T) {
		name := "Stolen"
		_, err := uc.UpdateRestaurant(ctxAs("someone-else", domain.RoleRestaurant), "r1", &domain.RestaurantUpdate{RestaurantName: &name})
		appErr := assertAppError(t, err, http.StatusForbidden)
		assert.Contains(t, appErr.Message, "own restaurant")
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should fail safely when no session is present", func(t *testing.T) {
		_, err := uc.UpdateRestaurant(context.Background(), "r1", &domain.RestaurantUpdate{})
		appErr := assertAppError(t, err, http.StatusUnauthorized)
		assert.Equal(t, "User not authenticated", appErr.Message)
	})

	t.Run("Should reject an empty update", func(t *testing.T) {
		_, err := uc.UpdateRestaurant(ctxAs("owner1", domain.RoleRestaurant), "r1", &domain.RestaurantUpdate{})
		assertAppError(t, err, http.StatusBadRequest)
	})

	t.Run("Should reject schedule keys that are not weekdays", func(t *testing.T) {
		update := &domain.RestaurantUpdate{Schedule: domain.Schedule{"Friday": {Closed: true}}}
		_, err := uc.UpdateRestaurant(ctxAs("owner1", domain.RoleRestaurant), "r1", update)
		assertAppError(t, err, http.StatusBadRequest)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should let the owner update", func(t *testing.T) {
		name := "Sakura Sushi Bar"
		repo.On("Update", mock.Anything, "r1", domain.Document{"restaurantName": name, "displayName": name}).Return(nil).Once()

		_, err := uc.UpdateRestaurant(ctxAs("owner1", domain.RoleRestaurant), "r1", &domain.RestaurantUpdate{RestaurantName: &name})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("Should report disabled uploads", func(t *testing.T) {
		_, err := uc.UploadCoverPhoto(ctxAs("owner1", domain.RoleRestaurant), "r1", nil)
		assertAppError(t, err, http.StatusServiceUnavailable)
	})
}

func TestRestaurantAdminActions(t *testing.T) {
	f := newFixture()
	f.addRestaurant(t, "owner1", "Taco Loco", domain.RestaurantPending)
	uc := usecase.NewRestaurantUsecase(f.restaurants, nil, validation.New())

	t.Run("Non-admins cannot toggle", func(t *testing.T) {
		_, err := uc.ToggleActivation(ctxAs("owner1", domain.RoleRestaurant), "owner1")
		assertAppError(t, err, http.StatusForbidden)
	})

	t.Run("Toggle activates then suspends", func(t *testing.T) {
		admin := ctxAs("admin1", domain.RoleAdmin)
		r, err := uc.ToggleActivation(admin, "owner1")
		require.NoError(t, err)
		assert.Equal(t, domain.RestaurantActive, r.Status)
		assert.True(t, r.IsActive)

		r, err = uc.ToggleActivation(admin, "owner1")
		require.NoError(t, err)
		assert.Equal(t, domain.RestaurantSuspended, r.Status)
		assert.False(t, r.IsActive)
	})

	t.Run("Unknown restaurant is not found", func(t *testing.T) {
		_, err := uc.GetRestaurant(context.Background(), "missing")
		assertAppError(t, err, http.StatusNotFound)
	})
}

func TestAuthUsecase(t *testing.T) {
	const frontend = "https://app.example.com"

	setup := func() (*fixture, *MockIdentityProvider, *session.Hub, domain.AuthUsecase) {
		f := newFixture()
		idp := new(MockIdentityProvider)
		hub := session.NewHub()
		return f, idp, hub, usecase.NewAuthUsecase(idp, f.users, hub, validation.New(), frontend)
	}

	t.Run("SignUp creates the role profile and publishes", func(t *testing.T) {
		f, idp, hub, uc := setup()
		var events []domain.AuthEvent
		hub.Subscribe(func(ev domain.AuthEvent) { events = append(events, ev) })

		idp.On("SignUp", mock.Anything, "chef@example.com", "s3cretpass").
			Return(&domain.AuthSession{UserID: "u-chef", Email: "chef@example.com", AccessToken: "tok"}, nil)

		res, err := uc.SignUp(context.Background(), &domain.SignUpRequest{
			Email: "chef@example.com", Password: "s3cretpass", DisplayName: "Chef", Role: domain.RoleRestaurant,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.RoleRestaurant, res.Profile.Role)
		assert.NotNil(t, res.Profile.Restaurant())

		stored, err := f.users.GetByID(context.Background(), "u-chef")
		require.NoError(t, err)
		assert.Equal(t, "Chef", stored.DisplayName)

		require.Len(t, events, 1)
		assert.Equal(t, domain.AuthSignedUp, events[0].Type)
	})

	t.Run("SignUp rejects admin self-registration", func(t *testing.T) {
		_, idp, _, uc := setup()
		_, err := uc.SignUp(context.Background(), &domain.SignUpRequest{
			Email: "x@example.com", Password: "s3cretpass", DisplayName: "X", Role: domain.RoleAdmin,
		})
		assertAppError(t, err, http.StatusBadRequest)
		idp.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("SignIn maps bad credentials", func(t *testing.T) {
		_, idp, _, uc := setup()
		idp.On("SignInWithPassword", mock.Anything, "a@example.com", "wrong").Return(nil, auth.ErrInvalidCredentials)

		_, err := uc.SignIn(context.Background(), &domain.SignInRequest{Email: "a@example.com", Password: "wrong"})
		appErr := assertAppError(t, err, http.StatusUnauthorized)
		assert.Equal(t, "Invalid email or password", appErr.Message)
	})

	t.Run("SignIn creates a missing customer profile", func(t *testing.T) {
		f, idp, _, uc := setup()
		idp.On("SignInWithPassword", mock.Anything, "new@example.com", "pw").
			Return(&domain.AuthSession{UserID: "u-new", Email: "new@example.com"}, nil)

		res, err := uc.SignIn(context.Background(), &domain.SignInRequest{Email: "new@example.com", Password: "pw"})
		require.NoError(t, err)
		assert.Equal(t, domain.RoleCustomer, res.Profile.Role)

		_, err = f.users.GetByID(context.Background(), "u-new")
		assert.NoError(t, err)
	})

	t.Run("SignOut publishes even when the provider fails", func(t *testing.T) {
		_, idp, hub, uc := setup()
		var got []domain.AuthEventType
		hub.Subscribe(func(ev domain.AuthEvent) { got = append(got, ev.Type) })
		idp.On("SignOut", mock.Anything, "tok").Return(errors.New("connection reset"))

		err := uc.SignOut(ctxAs("u1", domain.RoleCustomer), "tok")
		require.NoError(t, err)
		assert.Equal(t, []domain.AuthEventType{domain.AuthSignedOut}, got)
	})

	t.Run("OnAuthChange delivers sign-in and sign-out until unsubscribed", func(t *testing.T) {
		_, idp, _, uc := setup()
		idp.On("SignInWithPassword", mock.Anything, "cust@example.com", "pw").
			Return(&domain.AuthSession{UserID: "u-cust", Email: "cust@example.com"}, nil)
		idp.On("SignOut", mock.Anything, "tok").Return(nil)

		var got []domain.AuthEvent
		unsubscribe := uc.OnAuthChange(func(ev domain.AuthEvent) { got = append(got, ev) })

		_, err := uc.SignIn(context.Background(), &domain.SignInRequest{Email: "cust@example.com", Password: "pw"})
		require.NoError(t, err)
		require.NoError(t, uc.SignOut(ctxAs("u-cust", domain.RoleCustomer), "tok"))

		require.Len(t, got, 2)
		assert.Equal(t, domain.AuthSignedIn, got[0].Type)
		assert.Equal(t, "u-cust", got[0].UserID)
		assert.Equal(t, domain.RoleCustomer, got[0].Role)
		assert.Equal(t, domain.AuthSignedOut, got[1].Type)

		unsubscribe()
		_, err = uc.SignIn(context.Background(), &domain.SignInRequest{Email: "cust@example.com", Password: "pw"})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("ResolveUser creates a profile once for a new identity", func(t *testing.T) {
		f, _, _, uc := setup()
		var got []domain.AuthEventType
		uc.OnAuthChange(func(ev domain.AuthEvent) { got = append(got, ev.Type) })

		p, err := uc.ResolveUser(context.Background(), "google-user-1", "gina@example.com")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleCustomer, p.Role)
		assert.Equal(t, "gina@example.com", p.Email)

		_, err = uc.ResolveUser(context.Background(), "google-user-1", "gina@example.com")
		require.NoError(t, err)
		assert.Equal(t, []domain.AuthEventType{domain.AuthSignedIn}, got)

		stored, err := f.users.GetByID(context.Background(), "google-user-1")
		require.NoError(t, err)
		assert.NotNil(t, stored.Customer())
	})

	t.Run("Password reset hides unknown addresses", func(t *testing.T) {
		_, idp, _, uc := setup()
		idp.On("SendPasswordReset", mock.Anything, "ghost@example.com", frontend+"/reset-password").
			Return(&auth.APIError{Status: http.StatusNotFound, Message: "User not found"})

		err := uc.SendPasswordReset(context.Background(), &domain.PasswordResetRequest{Email: "ghost@example.com"})
		assert.NoError(t, err)
	})

	t.Run("Google redirect must stay on the frontend", func(t *testing.T) {
		_, idp, _, uc := setup()
		idp.On("OAuthURL", "google", frontend+"/auth/callback").Return("https://idp.example.com/authorize", nil)

		url, err := uc.GoogleSignInURL("")
		require.NoError(t, err)
		assert.Equal(t, "https://idp.example.com/authorize", url)

		_, err = uc.GoogleSignInURL("https://evil.example.com/cb")
		assertAppError(t, err, http.StatusBadRequest)
	})
}
