package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"see-eat-backend/internal/delivery/http/middleware"
	"see-eat-backend/internal/delivery/http/response"
	"see-eat-backend/internal/domain"
	"see-eat-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type MockMenuUsecase struct {
	domain.MenuUsecase
	mock.Mock
}

func (m *MockMenuUsecase) DeleteCategory(ctx context.Context, restaurantID, categoryID string, confirmed bool) (*domain.BuilderResult, error) {
	args := m.Called(ctx, restaurantID, categoryID, confirmed)
	if res := args.Get(0); res != nil {
		return res.(*domain.BuilderResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMenuUsecase) AddItem(ctx context.Context, restaurantID string, req *domain.AddItemRequest) (*domain.BuilderResult, error) {
	args := m.Called(ctx, restaurantID, req)
	return args.Get(0).(*domain.BuilderResult), args.Error(1)
}

type MockSearchUsecase struct {
	mock.Mock
}

func (m *MockSearchUsecase) SearchRestaurants(ctx context.Context, s domain.RestaurantSearch) ([]domain.RestaurantProfile, error) {
	args := m.Called(ctx, s)
	return args.Get(0).([]domain.RestaurantProfile), args.Error(1)
}

func (m *MockSearchUsecase) FilterMenu(ctx context.Context, restaurantID string, f domain.MenuItemFilter) ([]domain.MenuItem, error) {
	args := m.Called(ctx, restaurantID, f)
	return args.Get(0).([]domain.MenuItem), args.Error(1)
}

type MockSetupUsecase struct {
	mock.Mock
}

func (m *MockSetupUsecase) GetSetupState(ctx context.Context) (*domain.SetupState, error) {
	args := m.Called(ctx)
	return args.Get(0).(*domain.SetupState), args.Error(1)
}

func (m *MockSetupUsecase) CompleteStep(ctx context.Context, step domain.SetupStep, payload json.RawMessage) (*domain.SetupState, error) {
	args := m.Called(ctx, step, payload)
	return args.Get(0).(*domain.SetupState), args.Error(1)
}

func newTestEngine() (*gin.Engine, *gin.RouterGroup) {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.ErrorHandler())
	return r, r.Group("/v1")
}

func serve(r *gin.Engine, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func noLimit(c *gin.Context) { c.Next() }

func TestMenuHandler(t *testing.T) {
	t.Run("delete category requires confirmation", func(t *testing.T) {
		uc := new(MockMenuUsecase)
		r, g := newTestEngine()
		NewMenuHandler(g, g, uc, noLimit)

		uc.On("DeleteCategory", mock.Anything, "r1", "c1", false).
			Return(nil, apperror.Conflict("Deleting a category removes all of its items. Confirm to continue")).Once()
		uc.On("DeleteCategory", mock.Anything, "r1", "c1", true).
			Return(&domain.BuilderResult{Menu: &domain.Menu{}, Applied: true}, nil).Once()

		w := serve(r, http.MethodDelete, "/v1/restaurants/r1/menu/builder/categories/c1", nil)
		assert.Equal(t, http.StatusConflict, w.Code)

		w = serve(r, http.MethodDelete, "/v1/restaurants/r1/menu/builder/categories/c1?confirm=true", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Category deleted", decodeBody(t, w).Message)
		uc.AssertExpectations(t)
	})

	t.Run("unapplied item add surfaces the note", func(t *testing.T) {
		uc := new(MockMenuUsecase)
		r, g := newTestEngine()
		NewMenuHandler(g, g, uc, noLimit)

		uc.On("AddItem", mock.Anything, "r1", mock.AnythingOfType("*domain.AddItemRequest")).
			Return(&domain.BuilderResult{Menu: &domain.Menu{}, Applied: false, Note: "Select a category first"}, nil)

		w := serve(r, http.MethodPost, "/v1/restaurants/r1/menu/builder/items", []byte(`{"item":{"name":"Tacos","price":"3.5"}}`))
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "Select a category first", body.Message)
		assert.Equal(t, false, body.Data.(map[string]interface{})["applied"])
	})

	t.Run("malformed body", func(t *testing.T) {
		uc := new(MockMenuUsecase)
		r, g := newTestEngine()
		NewMenuHandler(g, g, uc, noLimit)

		w := serve(r, http.MethodPost, "/v1/restaurants/r1/menu/builder/items", []byte(`{"item":`))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		uc.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRestaurantSearchBinding(t *testing.T) {
	searchUC := new(MockSearchUsecase)
	r, g := newTestEngine()
	NewRestaurantHandler(g, g, nil, searchUC, nil, noLimit)

	want := domain.RestaurantSearch{
		SearchTerm:  "pizza",
		Cuisine:     "Italian",
		DietaryTags: []string{"Vegetarian", "Vegan"},
		SortBy:      domain.SortName,
		Limit:       2,
		Offset:      1,
	}
	searchUC.On("SearchRestaurants", mock.Anything, want).
		Return([]domain.RestaurantProfile{{ID: "r2", RestaurantName: "Luigi's Pizza"}}, nil)

	w := serve(r, http.MethodGet, "/v1/restaurants?q=pizza&cuisine=Italian&dietary=Vegetarian&dietary=Vegan&sort=name&limit=2&offset=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w).Data, 1)

	w = serve(r, http.MethodGet, "/v1/restaurants?limit=ten", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	searchUC.AssertNumberOfCalls(t, "SearchRestaurants", 1)
}

func TestSetupHandler(t *testing.T) {
	setupUC := new(MockSetupUsecase)
	r, g := newTestEngine()
	NewSetupHandler(g, setupUC)

	payload := json.RawMessage(`{"restaurantName":"Taco Loco"}`)
	setupUC.On("CompleteStep", mock.Anything, domain.StepBasic, payload).
		Return(&domain.SetupState{CurrentStep: domain.StepLocation}, nil)
	setupUC.On("CompleteStep", mock.Anything, domain.StepMenu, mock.Anything).
		Return(&domain.SetupState{Completed: true, RestaurantID: "owner1"}, nil)

	w := serve(r, http.MethodPost, "/v1/restaurant/setup/steps/basic", payload)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Step saved", decodeBody(t, w).Message)

	w = serve(r, http.MethodPost, "/v1/restaurant/setup/steps/menu", []byte(`{"menuItems":[]}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Restaurant created", decodeBody(t, w).Message)

	w = serve(r, http.MethodPost, "/v1/restaurant/setup/steps/basic", []byte(`not json`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
