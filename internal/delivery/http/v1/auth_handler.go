package v1

import (
	"errors"
	"net/http"
	"time"

	"see-eat-backend/config"
	"see-eat-backend/internal/delivery/http/middleware"
	"see-eat-backend/internal/delivery/http/response"
	"see-eat-backend/internal/domain"
	"see-eat-backend/pkg/apperror"
	"see-eat-backend/pkg/logger"
	"see-eat-backend/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authUC  domain.AuthUsecase
	config  *config.Config
	tracker *security.LoginTracker
}

// NewAuthHandler registers the auth routes. tracker may be nil, which turns
// sign-in lockout off.
func NewAuthHandler(public, protected *gin.RouterGroup, authUC domain.AuthUsecase, cfg *config.Config, limiter gin.HandlerFunc, tracker *security.LoginTracker) {
	handler := &AuthHandler{authUC: authUC, config: cfg, tracker: tracker}

	publicAuth := public.Group("/auth")
	{
		publicAuth.POST("/signup", limiter, handler.SignUp)
		publicAuth.POST("/signin", limiter, handler.SignIn)
		publicAuth.POST("/password-reset", limiter, handler.PasswordReset)
		publicAuth.GET("/oauth/google", handler.GoogleURL)
	}

	protectedAuth := protected.Group("/auth")
	{
		protectedAuth.POST("/signout", handler.SignOut)
		protectedAuth.GET("/me", handler.Me)
	}
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, sess *domain.AuthSession) {
	maxAge := int(time.Until(sess.ExpiresAt).Seconds())
	if maxAge <= 0 {
		maxAge = int(time.Hour.Seconds())
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookieName, sess.AccessToken, maxAge, "/", "", h.config.IsProduction(), true)
}

// SignUp godoc
// @Summary      Register
// @Description  Create an account with email and password. The role picks the profile variant.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      domain.SignUpRequest  true  "Sign-up details"
// @Success      201      {object}  response.Response{data=domain.AuthResult}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Router       /auth/signup [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req domain.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	res, err := h.authUC.SignUp(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	if res.Session != nil && res.Session.AccessToken != "" {
		h.setSessionCookie(c, res.Session)
	}
	response.Success(c, http.StatusCreated, "Account created", res)
}

// SignIn godoc
// @Summary      Sign in
// @Description  Password sign-in. Sets the auth_token cookie and returns the session and profile.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      domain.SignInRequest  true  "Credentials"
// @Success      200      {object}  response.Response{data=domain.AuthResult}
// @Failure      401      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Router       /auth/signin [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req domain.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	ctx := c.Request.Context()
	ip := c.ClientIP()

	// Tracker failures must not lock users out.
	blocked, err := h.tracker.IsBlocked(ctx, req.Email, ip)
	if err != nil {
		logger.Log.Warn("Login tracker unavailable", zap.Error(err))
	}
	if blocked {
		c.Error(apperror.TooManyRequests("Too many failed sign-in attempts. Try again later"))
		return
	}

	res, err := h.authUC.SignIn(ctx, &req)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code == http.StatusUnauthorized {
			if _, _, terr := h.tracker.RecordFailedAttempt(ctx, req.Email, ip); terr != nil {
				logger.Log.Warn("Failed to record sign-in attempt", zap.Error(terr))
			}
		}
		c.Error(err)
		return
	}
	if err := h.tracker.ClearAttempts(ctx, req.Email, ip); err != nil {
		logger.Log.Warn("Failed to clear sign-in attempts", zap.Error(err))
	}
	h.setSessionCookie(c, res.Session)
	response.Success(c, http.StatusOK, "Signed in", res)
}

// PasswordReset godoc
// @Summary      Request a password reset
// @Description  Always succeeds for well-formed addresses so accounts cannot be enumerated.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      domain.PasswordResetRequest  true  "Email"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /auth/password-reset [post]
func (h *AuthHandler) PasswordReset(c *gin.Context) {
	var req domain.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}
	if err := h.authUC.SendPasswordReset(c.Request.Context(), &req); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "If the account exists, a reset email has been sent", nil)
}

// GoogleURL godoc
// @Summary      Google sign-in URL
// @Tags         auth
// @Produce      json
// @Param        redirect_to  query     string  false  "Frontend URL to return to"
// @Success      200          {object}  response.Response{data=map[string]string}
// @Failure      400          {object}  response.Response
// @Router       /auth/oauth/google [get]
func (h *AuthHandler) GoogleURL(c *gin.Context) {
	url, err := h.authUC.GoogleSignInURL(c.Query("redirect_to"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Redirect URL created", gin.H{"url": url})
}

// SignOut godoc
// @Summary      Sign out
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /auth/signout [post]
// @Security     BearerAuth
func (h *AuthHandler) SignOut(c *gin.Context) {
	if err := h.authUC.SignOut(c.Request.Context(), c.GetString(middleware.ContextAccessToken)); err != nil {
		c.Error(err)
		return
	}
	c.SetCookie(middleware.AuthCookieName, "", -1, "/", "", h.config.IsProduction(), true)
	response.Success(c, http.StatusOK, "Signed out", nil)
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.UserProfile}
// @Failure      401  {object}  response.Response
// @Router       /auth/me [get]
// @Security     BearerAuth
func (h *AuthHandler) Me(c *gin.Context) {
	p, err := h.authUC.CurrentUser(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "User retrieved", p)
}
