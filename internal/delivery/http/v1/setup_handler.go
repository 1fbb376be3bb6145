package v1

import (
	"encoding/json"
	"net/http"

	"see-eat-backend/internal/delivery/http/response"
	"see-eat-backend/internal/domain"
	"see-eat-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type SetupHandler struct {
	setupUC domain.SetupUsecase
}

func NewSetupHandler(r *gin.RouterGroup, setupUC domain.SetupUsecase) {
	handler := &SetupHandler{setupUC: setupUC}

	setup := r.Group("/restaurant/setup")
	{
		setup.GET("", handler.GetState)
		setup.POST("/steps/:step", handler.CompleteStep)
	}
}

// GetState godoc
// @Summary      Get restaurant setup progress
// @Description  Returns the current wizard step and the saved draft so an owner can resume.
// @Tags         setup
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.SetupState}
// @Failure      403  {object}  response.Response
// @Router       /restaurant/setup [get]
// @Security     BearerAuth
func (h *SetupHandler) GetState(c *gin.Context) {
	state, err := h.setupUC.GetSetupState(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Setup state retrieved", state)
}

// CompleteStep godoc
// @Summary      Submit a setup step
// @Description  Steps are basic, location, schedule and menu. The menu step creates the restaurant.
// @Tags         setup
// @Accept       json
// @Produce      json
// @Param        step     path      string  true  "basic, location, schedule or menu"
// @Param        payload  body      object  true  "Step payload"
// @Success      200      {object}  response.Response{data=domain.SetupState}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /restaurant/setup/steps/{step} [post]
// @Security     BearerAuth
func (h *SetupHandler) CompleteStep(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil || !json.Valid(raw) {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	state, err := h.setupUC.CompleteStep(c.Request.Context(), domain.SetupStep(c.Param("step")), json.RawMessage(raw))
	if err != nil {
		c.Error(err)
		return
	}

	msg := "Step saved"
	if state.Completed {
		msg = "Restaurant created"
	}
	response.Success(c, http.StatusOK, msg, state)
}
