package v1

import (
	"net/http"

	"see-eat-backend/internal/delivery/http/response"
	"see-eat-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	restaurantUC domain.RestaurantUsecase
	profileUC    domain.ProfileUsecase
}

// NewAdminHandler registers moderation routes. r must already require the admin role.
func NewAdminHandler(r *gin.RouterGroup, restaurantUC domain.RestaurantUsecase, profileUC domain.ProfileUsecase) {
	handler := &AdminHandler{restaurantUC: restaurantUC, profileUC: profileUC}

	admin := r.Group("/admin")
	{
		admin.GET("/restaurants", handler.ListRestaurants)
		admin.POST("/restaurants/:id/toggle-activation", handler.ToggleActivation)
		admin.GET("/users", handler.ListUsers)
	}
}

// ListRestaurants godoc
// @Summary      List all restaurants
// @Description  Every restaurant regardless of status, for moderation
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]domain.RestaurantProfile}
// @Failure      403  {object}  response.Response
// @Router       /admin/restaurants [get]
func (h *AdminHandler) ListRestaurants(c *gin.Context) {
	list, err := h.restaurantUC.ListAll(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Restaurants retrieved", list)
}

// ToggleActivation godoc
// @Summary      Activate or suspend a restaurant
// @Description  Active restaurants are suspended, anything else becomes active
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Restaurant ID"
// @Success      200  {object}  response.Response{data=domain.RestaurantProfile}
// @Failure      404  {object}  response.Response
// @Router       /admin/restaurants/{id}/toggle-activation [post]
func (h *AdminHandler) ToggleActivation(c *gin.Context) {
	r, err := h.restaurantUC.ToggleActivation(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Restaurant status updated", r)
}

// ListUsers godoc
// @Summary      List user profiles
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        role  query     string  false  "customer, restaurant or admin"
// @Success      200   {object}  response.Response{data=[]domain.UserProfile}
// @Failure      400   {object}  response.Response
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.profileUC.ListUsers(c.Request.Context(), domain.Role(c.Query("role")))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Users retrieved", users)
}
