package v1

import (
	"net/http"

	"see-eat-backend/internal/delivery/http/response"
	"see-eat-backend/internal/domain"
	"see-eat-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type RestaurantHandler struct {
	restaurantUC domain.RestaurantUsecase
	searchUC     domain.SearchUsecase
	reviewUC     domain.ReviewUsecase
}

// NewRestaurantHandler registers the public directory routes on public and the
// owner routes on owner, which must already require the restaurant role.
func NewRestaurantHandler(public, owner *gin.RouterGroup, restaurantUC domain.RestaurantUsecase, searchUC domain.SearchUsecase, reviewUC domain.ReviewUsecase, uploadLimiter gin.HandlerFunc) {
	handler := &RestaurantHandler{restaurantUC: restaurantUC, searchUC: searchUC, reviewUC: reviewUC}

	restaurants := public.Group("/restaurants")
	{
		restaurants.GET("", handler.Search)
		restaurants.GET("/:id", handler.Get)
		restaurants.GET("/:id/menu", handler.FilterMenu)
		restaurants.GET("/:id/reviews", handler.ListReviews)
	}

	owner.GET("/restaurant/mine", handler.ListMine)
	owner.PATCH("/restaurants/:id", handler.Update)
	owner.POST("/restaurants/:id/cover", uploadLimiter, handler.UploadCover)
}

// Search godoc
// @Summary      Search active restaurants
// @Tags         restaurants
// @Produce      json
// @Param        q        query     string    false  "Name, description or cuisine contains"
// @Param        cuisine  query     string    false  "Cuisine (case-insensitive exact)"
// @Param        dietary  query     []string  false  "Dietary options, all required"  collectionFormat(multi)
// @Param        sort     query     string    false  "newest or name"
// @Param        limit    query     int       false  "Page size, max 100"
// @Param        offset   query     int       false  "Offset"
// @Success      200      {object}  response.Response{data=[]domain.RestaurantProfile}
// @Failure      400      {object}  response.Response
// @Router       /restaurants [get]
func (h *RestaurantHandler) Search(c *gin.Context) {
	var search domain.RestaurantSearch
	if err := c.ShouldBindQuery(&search); err != nil {
		c.Error(apperror.BadRequest("Invalid query parameters"))
		return
	}

	list, err := h.searchUC.SearchRestaurants(c.Request.Context(), search)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Restaurants retrieved", list)
}

// Get godoc
// @Summary      Get a restaurant
// @Tags         restaurants
// @Produce      json
// @Param        id   path      string  true  "Restaurant ID"
// @Success      200  {object}  response.Response{data=domain.RestaurantProfile}
// @Failure      404  {object}  response.Response
// @Router       /restaurants/{id} [get]
func (h *RestaurantHandler) Get(c *gin.Context) {
	r, err := h.restaurantUC.GetRestaurant(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Restaurant retrieved", r)
}

// FilterMenu godoc
// @Summary      Filter a restaurant's menu items
// @Tags         restaurants
// @Produce      json
// @Param        id        path      string    true   "Restaurant ID"
// @Param        category  query     string    false  "Category ID"
// @Param        q         query     string    false  "Name or description contains"
// @Param        dietary   query     []string  false  "Dietary tags, all required"  collectionFormat(multi)
// @Param        allergen  query     []string  false  "Allergens, all required"     collectionFormat(multi)
// @Param        spicy     query     int       false  "Exact spicy level"
// @Success      200       {object}  response.Response{data=[]domain.MenuItem}
// @Failure      404       {object}  response.Response
// @Router       /restaurants/{id}/menu [get]
func (h *RestaurantHandler) FilterMenu(c *gin.Context) {
	var filter domain.MenuItemFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(apperror.BadRequest("Invalid query parameters"))
		return
	}

	items, err := h.searchUC.FilterMenu(c.Request.Context(), c.Param("id"), filter)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Menu items retrieved", items)
}

// ListReviews godoc
// @Summary      List a restaurant's reviews
// @Tags         reviews
// @Produce      json
// @Param        id   path      string  true  "Restaurant ID"
// @Success      200  {object}  response.Response{data=[]domain.Review}
// @Router       /restaurants/{id}/reviews [get]
func (h *RestaurantHandler) ListReviews(c *gin.Context) {
	list, err := h.reviewUC.ListByRestaurant(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Reviews retrieved", list)
}

// ListMine godoc
// @Summary      List restaurants owned by the caller
// @Tags         restaurants
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.RestaurantProfile}
// @Failure      403  {object}  response.Response
// @Router       /restaurant/mine [get]
// @Security     BearerAuth
func (h *RestaurantHandler) ListMine(c *gin.Context) {
	list, err := h.restaurantUC.ListMine(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Restaurants retrieved", list)
}

// Update godoc
// @Summary      Update an owned restaurant
// @Tags         restaurants
// @Accept       json
// @Produce      json
// @Param        id       path      string                   true  "Restaurant ID"
// @Param        request  body      domain.RestaurantUpdate  true  "Fields to change"
// @Success      200      {object}  response.Response{data=domain.RestaurantProfile}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /restaurants/{id} [patch]
// @Security     BearerAuth
func (h *RestaurantHandler) Update(c *gin.Context) {
	var req domain.RestaurantUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	r, err := h.restaurantUC.UpdateRestaurant(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Restaurant updated", r)
}

// UploadCover godoc
// @Summary      Upload a cover photo
// @Description  Accepts JPEG, PNG, WEBP or GIF up to 5MB. Large images are downscaled.
// @Tags         restaurants
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      string  true  "Restaurant ID"
// @Param        file  formData  file    true  "Image file"
// @Success      200   {object}  response.Response{data=domain.RestaurantProfile}
// @Failure      400   {object}  response.Response
// @Failure      503   {object}  response.Response
// @Router       /restaurants/{id}/cover [post]
// @Security     BearerAuth
func (h *RestaurantHandler) UploadCover(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.Error(apperror.BadRequest("Image file is required"))
		return
	}

	r, err := h.restaurantUC.UploadCoverPhoto(c.Request.Context(), c.Param("id"), file)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Cover photo uploaded", r)
}
