package v1

import (
	"net/http"
	"strconv"

	"see-eat-backend/internal/delivery/http/response"
	"see-eat-backend/internal/domain"
	"see-eat-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type MenuHandler struct {
	menuUC domain.MenuUsecase
}

type menuStatusRequest struct {
	Status domain.MenuStatus `json:"status" binding:"required"`
}

type imageURLResponse struct {
	URL string `json:"url"`
}

// NewMenuHandler registers public menu lookups on public and menu management
// on editors, which must already require the restaurant or admin role.
func NewMenuHandler(public, editors *gin.RouterGroup, menuUC domain.MenuUsecase, uploadLimiter gin.HandlerFunc) {
	handler := &MenuHandler{menuUC: menuUC}

	public.GET("/menus/slug/:slug", handler.GetBySlug)

	menu := editors.Group("/restaurants/:id/menu")
	{
		menu.GET("/full", handler.Get)
		menu.GET("/items", handler.ListSetupItems)
		menu.PATCH("/status", handler.SetStatus)
		menu.POST("/images", uploadLimiter, handler.UploadImage)

		builder := menu.Group("/builder")
		builder.POST("", handler.OpenBuilder)
		builder.GET("", handler.GetWorkingCopy)
		builder.DELETE("", handler.DiscardBuilder)
		builder.POST("/save", handler.SaveBuilder)
		builder.POST("/categories", handler.AddCategory)
		builder.PATCH("/categories/:categoryId", handler.UpdateCategory)
		builder.DELETE("/categories/:categoryId", handler.DeleteCategory)
		builder.POST("/items", handler.AddItem)
		builder.PATCH("/categories/:categoryId/items/:itemId", handler.UpdateItem)
		builder.DELETE("/categories/:categoryId/items/:itemId", handler.DeleteItem)
	}
}

// confirmed reads the ?confirm=true flag destructive builder operations require.
func confirmed(c *gin.Context) bool {
	ok, _ := strconv.ParseBool(c.Query("confirm"))
	return ok
}

// GetBySlug godoc
// @Summary      Get a published menu by slug
// @Tags         menus
// @Produce      json
// @Param        slug  path      string  true  "Menu slug"
// @Success      200   {object}  response.Response{data=domain.Menu}
// @Failure      404   {object}  response.Response
// @Router       /menus/slug/{slug} [get]
func (h *MenuHandler) GetBySlug(c *gin.Context) {
	m, err := h.menuUC.GetMenuBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Menu retrieved", m)
}

// Get godoc
// @Summary      Get the stored menu in any status
// @Tags         menus
// @Produce      json
// @Param        id   path      string  true  "Restaurant ID"
// @Success      200  {object}  response.Response{data=domain.Menu}
// @Failure      404  {object}  response.Response
// @Router       /restaurants/{id}/menu/full [get]
// @Security     BearerAuth
func (h *MenuHandler) Get(c *gin.Context) {
	m, err := h.menuUC.GetMenu(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Menu retrieved", m)
}

// ListSetupItems godoc
// @Summary      List items entered during setup
// @Tags         menus
// @Produce      json
// @Param        id   path      string  true  "Restaurant ID"
// @Success      200  {object}  response.Response{data=[]domain.SetupMenuItem}
// @Router       /restaurants/{id}/menu/items [get]
// @Security     BearerAuth
func (h *MenuHandler) ListSetupItems(c *gin.Context) {
	items, err := h.menuUC.ListSetupItems(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Menu items retrieved", items)
}

// SetStatus godoc
// @Summary      Publish, archive or unpublish the menu
// @Tags         menus
// @Accept       json
// @Produce      json
// @Param        id       path      string             true  "Restaurant ID"
// @Param        request  body      menuStatusRequest  true  "draft, published or archived"
// @Success      200      {object}  response.Response{data=domain.Menu}
// @Failure      400      {object}  response.Response
// @Router       /restaurants/{id}/menu/status [patch]
// @Security     BearerAuth
func (h *MenuHandler) SetStatus(c *gin.Context) {
	var req menuStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Status is required"))
		return
	}

	m, err := h.menuUC.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Menu status updated", m)
}

// UploadImage godoc
// @Summary      Upload a menu item image
// @Tags         menus
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      string  true  "Restaurant ID"
// @Param        file  formData  file    true  "Image file"
// @Success      201   {object}  response.Response{data=imageURLResponse}
// @Failure      400   {object}  response.Response
// @Failure      503   {object}  response.Response
// @Router       /restaurants/{id}/menu/images [post]
// @Security     BearerAuth
func (h *MenuHandler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.Error(apperror.BadRequest("Image file is required"))
		return
	}

	url, err := h.menuUC.UploadItemImage(c.Request.Context(), c.Param("id"), file)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Image uploaded", imageURLResponse{URL: url})
}

// OpenBuilder godoc
// @Summary      Open the menu builder
// @Description  Starts a working copy from the stored menu, or an empty one.
// @Tags         menu-builder
// @Produce      json
// @Param        id   path      string  true  "Restaurant ID"
// @Success      200  {object}  response.Response{data=domain.Menu}
// @Router       /restaurants/{id}/menu/builder [post]
// @Security     BearerAuth
func (h *MenuHandler) OpenBuilder(c *gin.Context) {
	m, err := h.menuUC.OpenBuilder(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Builder opened", m)
}

// GetWorkingCopy godoc
// @Summary      Get the builder working copy
// @Tags         menu-builder
// @Produce      json
// @Param        id   path      string  true  "Restaurant ID"
// @Success      200  {object}  response.Response{data=domain.Menu}
// @Failure      404  {object}  response.Response
// @Router       /restaurants/{id}/menu/builder [get]
// @Security     BearerAuth
func (h *MenuHandler) GetWorkingCopy(c *gin.Context) {
	m, err := h.menuUC.GetWorkingCopy(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Working copy retrieved", m)
}

// DiscardBuilder godoc
// @Summary      Discard unsaved builder changes
// @Tags         menu-builder
// @Produce      json
// @Param        id   path      string  true  "Restaurant ID"
// @Success      200  {object}  response.Response
// @Router       /restaurants/{id}/menu/builder [delete]
// @Security     BearerAuth
func (h *MenuHandler) DiscardBuilder(c *gin.Context) {
	if err := h.menuUC.DiscardBuilder(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Working copy discarded", nil)
}

// SaveBuilder godoc
// @Summary      Save the working copy
// @Description  Overwrites the stored menu and bumps its version. Last write wins.
// @Tags         menu-builder
// @Produce      json
// @Param        id   path      string  true  "Restaurant ID"
// @Success      200  {object}  response.Response{data=domain.Menu}
// @Failure      404  {object}  response.Response
// @Router       /restaurants/{id}/menu/builder/save [post]
// @Security     BearerAuth
func (h *MenuHandler) SaveBuilder(c *gin.Context) {
	m, err := h.menuUC.SaveBuilder(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Menu saved", m)
}

// AddCategory godoc
// @Summary      Add a category
// @Tags         menu-builder
// @Accept       json
// @Produce      json
// @Param        id       path      string                true  "Restaurant ID"
// @Param        request  body      domain.CategoryInput  true  "Category"
// @Success      200      {object}  response.Response{data=domain.BuilderResult}
// @Router       /restaurants/{id}/menu/builder/categories [post]
// @Security     BearerAuth
func (h *MenuHandler) AddCategory(c *gin.Context) {
	var req domain.CategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}
	h.respondBuilder(c, "Category added")(h.menuUC.AddCategory(c.Request.Context(), c.Param("id"), &req))
}

// UpdateCategory godoc
// @Summary      Update a category
// @Tags         menu-builder
// @Accept       json
// @Produce      json
// @Param        id          path      string                true  "Restaurant ID"
// @Param        categoryId  path      string                true  "Category ID"
// @Param        request     body      domain.CategoryPatch  true  "Fields to change"
// @Success      200         {object}  response.Response{data=domain.BuilderResult}
// @Failure      404         {object}  response.Response
// @Router       /restaurants/{id}/menu/builder/categories/{categoryId} [patch]
// @Security     BearerAuth
func (h *MenuHandler) UpdateCategory(c *gin.Context) {
	var req domain.CategoryPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}
	h.respondBuilder(c, "Category updated")(h.menuUC.UpdateCategory(c.Request.Context(), c.Param("id"), c.Param("categoryId"), &req))
}

// DeleteCategory godoc
// @Summary      Delete a category and its items
// @Tags         menu-builder
// @Produce      json
// @Param        id          path      string  true   "Restaurant ID"
// @Param        categoryId  path      string  true   "Category ID"
// @Param        confirm     query     bool    false  "Must be true"
// @Success      200         {object}  response.Response{data=domain.BuilderResult}
// @Failure      409         {object}  response.Response
// @Router       /restaurants/{id}/menu/builder/categories/{categoryId} [delete]
// @Security     BearerAuth
func (h *MenuHandler) DeleteCategory(c *gin.Context) {
	h.respondBuilder(c, "Category deleted")(h.menuUC.DeleteCategory(c.Request.Context(), c.Param("id"), c.Param("categoryId"), confirmed(c)))
}

// AddItem godoc
// @Summary      Add an item to a category
// @Description  When the category is missing the copy is returned unchanged with applied=false.
// @Tags         menu-builder
// @Accept       json
// @Produce      json
// @Param        id       path      string                 true  "Restaurant ID"
// @Param        request  body      domain.AddItemRequest  true  "Item"
// @Success      200      {object}  response.Response{data=domain.BuilderResult}
// @Router       /restaurants/{id}/menu/builder/items [post]
// @Security     BearerAuth
func (h *MenuHandler) AddItem(c *gin.Context) {
	var req domain.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}
	h.respondBuilder(c, "Item added")(h.menuUC.AddItem(c.Request.Context(), c.Param("id"), &req))
}

// UpdateItem godoc
// @Summary      Update an item
// @Tags         menu-builder
// @Accept       json
// @Produce      json
// @Param        id          path      string            true  "Restaurant ID"
// @Param        categoryId  path      string            true  "Category ID"
// @Param        itemId      path      string            true  "Item ID"
// @Param        request     body      domain.ItemPatch  true  "Fields to change"
// @Success      200         {object}  response.Response{data=domain.BuilderResult}
// @Failure      404         {object}  response.Response
// @Router       /restaurants/{id}/menu/builder/categories/{categoryId}/items/{itemId} [patch]
// @Security     BearerAuth
func (h *MenuHandler) UpdateItem(c *gin.Context) {
	var req domain.ItemPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}
	h.respondBuilder(c, "Item updated")(h.menuUC.UpdateItem(c.Request.Context(), c.Param("id"), c.Param("categoryId"), c.Param("itemId"), &req))
}

// DeleteItem godoc
// @Summary      Delete an item
// @Tags         menu-builder
// @Produce      json
// @Param        id          path      string  true   "Restaurant ID"
// @Param        categoryId  path      string  true   "Category ID"
// @Param        itemId      path      string  true   "Item ID"
// @Param        confirm     query     bool    false  "Must be true"
// @Success      200         {object}  response.Response{data=domain.BuilderResult}
// @Failure      409         {object}  response.Response
// @Router       /restaurants/{id}/menu/builder/categories/{categoryId}/items/{itemId} [delete]
// @Security     BearerAuth
func (h *MenuHandler) DeleteItem(c *gin.Context) {
	h.respondBuilder(c, "Item deleted")(h.menuUC.DeleteItem(c.Request.Context(), c.Param("id"), c.Param("categoryId"), c.Param("itemId"), confirmed(c)))
}

func (h *MenuHandler) respondBuilder(c *gin.Context, message string) func(*domain.BuilderResult, error) {
	return func(res *domain.BuilderResult, err error) {
		if err != nil {
			c.Error(err)
			return
		}
		if !res.Applied {
			message = res.Note
		}
		response.Success(c, http.StatusOK, message, res)
	}
}
