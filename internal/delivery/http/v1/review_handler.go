package v1

import (
	"net/http"

	"see-eat-backend/internal/delivery/http/middleware"
	"see-eat-backend/internal/delivery/http/response"
	"see-eat-backend/internal/domain"
	"see-eat-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewUC domain.ReviewUsecase
}

func NewReviewHandler(r *gin.RouterGroup, reviewUC domain.ReviewUsecase) {
	handler := &ReviewHandler{reviewUC: reviewUC}

	reviews := r.Group("/reviews")
	{
		reviews.POST("", middleware.RequireRole(domain.RoleCustomer), handler.Create)
		reviews.PATCH("/:id", handler.Update)
		reviews.POST("/:id/like", handler.Like)
	}
}

// Create godoc
// @Summary      Write a review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        request  body      domain.CreateReviewRequest  true  "Review"
// @Success      201      {object}  response.Response{data=domain.Review}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /reviews [post]
// @Security     BearerAuth
func (h *ReviewHandler) Create(c *gin.Context) {
	var req domain.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	rv, err := h.reviewUC.Create(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Review created", rv)
}

// Update godoc
// @Summary      Edit own review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Review ID"
// @Param        request  body      domain.UpdateReviewRequest  true  "Fields to change"
// @Success      200      {object}  response.Response{data=domain.Review}
// @Failure      403      {object}  response.Response
// @Router       /reviews/{id} [patch]
// @Security     BearerAuth
func (h *ReviewHandler) Update(c *gin.Context) {
	var req domain.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	rv, err := h.reviewUC.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Review updated", rv)
}

// Like godoc
// @Summary      Like a review
// @Tags         reviews
// @Produce      json
// @Param        id   path      string  true  "Review ID"
// @Success      200  {object}  response.Response{data=domain.Review}
// @Failure      404  {object}  response.Response
// @Router       /reviews/{id}/like [post]
// @Security     BearerAuth
func (h *ReviewHandler) Like(c *gin.Context) {
	rv, err := h.reviewUC.Like(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Review liked", rv)
}
