package v1

import (
	"net/http"

	"see-eat-backend/internal/delivery/http/middleware"
	"see-eat-backend/internal/delivery/http/response"
	"see-eat-backend/internal/domain"
	"see-eat-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileUC domain.ProfileUsecase
	reviewUC  domain.ReviewUsecase
}

func NewProfileHandler(r *gin.RouterGroup, profileUC domain.ProfileUsecase, reviewUC domain.ReviewUsecase) {
	handler := &ProfileHandler{profileUC: profileUC, reviewUC: reviewUC}

	profile := r.Group("/profile")
	{
		profile.GET("", handler.Get)
		profile.PATCH("", handler.Update)
		profile.GET("/reviews", handler.MyReviews)
		profile.POST("/favorites/:restaurantId", middleware.RequireRole(domain.RoleCustomer), handler.ToggleFavorite)
	}
}

// Get godoc
// @Summary      Get own profile
// @Tags         profile
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.UserProfile}
// @Failure      401  {object}  response.Response
// @Router       /profile [get]
// @Security     BearerAuth
func (h *ProfileHandler) Get(c *gin.Context) {
	p, err := h.profileUC.GetProfile(c.Request.Context(), c.GetString(string(domain.KeyUserID)))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile retrieved", p)
}

// Update godoc
// @Summary      Update own profile
// @Description  Shallow-merges the given fields. role, uid and timestamps are ignored.
// @Tags         profile
// @Accept       json
// @Produce      json
// @Param        patch  body      object  true  "Fields to merge"
// @Success      200    {object}  response.Response{data=domain.UserProfile}
// @Failure      400    {object}  response.Response
// @Router       /profile [patch]
// @Security     BearerAuth
func (h *ProfileHandler) Update(c *gin.Context) {
	var patch domain.Document
	if err := c.ShouldBindJSON(&patch); err != nil || len(patch) == 0 {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	p, err := h.profileUC.UpdateProfile(c.Request.Context(), c.GetString(string(domain.KeyUserID)), patch)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile updated", p)
}

// ToggleFavorite godoc
// @Summary      Toggle a favorite restaurant
// @Tags         profile
// @Produce      json
// @Param        restaurantId  path      string  true  "Restaurant ID"
// @Success      200           {object}  response.Response{data=domain.UserProfile}
// @Failure      403           {object}  response.Response
// @Failure      404           {object}  response.Response
// @Router       /profile/favorites/{restaurantId} [post]
// @Security     BearerAuth
func (h *ProfileHandler) ToggleFavorite(c *gin.Context) {
	p, err := h.profileUC.ToggleFavoriteRestaurant(c.Request.Context(), c.GetString(string(domain.KeyUserID)), c.Param("restaurantId"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Favorites updated", p)
}

// MyReviews godoc
// @Summary      List own reviews
// @Tags         profile
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Review}
// @Router       /profile/reviews [get]
// @Security     BearerAuth
func (h *ProfileHandler) MyReviews(c *gin.Context) {
	list, err := h.reviewUC.ListMine(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Reviews retrieved", list)
}
